package apperror

var messages = map[Code]string{
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	CodeConfigurationError: "Configuration error",

	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	CodeInternalError: "Internal error",
	CodeUnknownError:  "An unknown error occurred",

	CodeNodeConnectionFailed: "Failed to connect to node",
	CodeNodeSubscribeFailed:  "Failed to subscribe to node events",
	CodeNodeRPCError:         "Node RPC call failed",
	CodeMalformedEvent:       "Malformed event payload",
	CodeStreamClosed:         "Event stream closed",

	CodeGasQueryFailed: "Failed to query gas price",

	CodeValidatorQueryFailed: "Failed to fetch validators",
	CodeStatusQueryFailed:    "Failed to query node status",

	CodeWebSocketConnectionError: "WebSocket connection error",
	CodeWebSocketClosed:          "WebSocket connection closed",
	CodeWebSocketSendError:       "Failed to send WebSocket message",

	CodeChartTooSmall: "Terminal too small to draw chart",

	CodeCircuitOpen: "Circuit breaker is open",
}
