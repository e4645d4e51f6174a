package apperror

// Code identifies an error condition across the explorer
type Code string

// General error codes
const (
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Node and ingestion error codes
const (
	// CometBFT RPC / event stream
	CodeNodeConnectionFailed Code = "NODE_CONNECTION_FAILED"
	CodeNodeSubscribeFailed  Code = "NODE_SUBSCRIBE_FAILED"
	CodeNodeRPCError         Code = "NODE_RPC_ERROR"
	CodeMalformedEvent       Code = "MALFORMED_EVENT"
	CodeStreamClosed         Code = "STREAM_CLOSED"

	// EVM JSON-RPC
	CodeGasQueryFailed Code = "GAS_QUERY_FAILED"

	// Staking LCD
	CodeValidatorQueryFailed Code = "VALIDATOR_QUERY_FAILED"
	CodeStatusQueryFailed    Code = "STATUS_QUERY_FAILED"

	// WebSocket transport
	CodeWebSocketConnectionError Code = "WEBSOCKET_CONNECTION_ERROR"
	CodeWebSocketClosed          Code = "WEBSOCKET_CLOSED"
	CodeWebSocketSendError       Code = "WEBSOCKET_SEND_ERROR"

	// Rendering
	CodeChartTooSmall Code = "CHART_TOO_SMALL"

	// Circuit breaker
	CodeCircuitOpen Code = "CIRCUIT_OPEN"
)
