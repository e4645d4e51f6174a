package domain

// Verdict is the outcome of an admission check.
type Verdict int

const (
	Accepted Verdict = iota
	Duplicate
	Stale
)

func (v Verdict) String() string {
	switch v {
	case Accepted:
		return "accepted"
	case Duplicate:
		return "duplicate"
	case Stale:
		return "stale"
	default:
		return "unknown"
	}
}

// HistoryWindow is a bounded newest-first buffer. Admission compares only
// against the head: a record is rejected if its key equals the head key or
// its order is below the head (or equal, unless equal order is allowed).
// Duplicates deeper in the window are not detected.
type HistoryWindow[T any, K comparable] struct {
	capacity   int
	allowEqual bool
	keyOf      func(T) K
	orderOf    func(T) int64
	items      []T
}

// NewHistoryWindow creates a window. A non-positive capacity falls back to
// DefaultHistorySize.
func NewHistoryWindow[T any, K comparable](capacity int, allowEqualOrder bool, keyOf func(T) K, orderOf func(T) int64) *HistoryWindow[T, K] {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &HistoryWindow[T, K]{
		capacity:   capacity,
		allowEqual: allowEqualOrder,
		keyOf:      keyOf,
		orderOf:    orderOf,
		items:      make([]T, 0, capacity),
	}
}

// NewBlockWindow admits strictly increasing heights.
func NewBlockWindow(capacity int) *HistoryWindow[BlockRecord, int64] {
	return NewHistoryWindow(capacity, false, BlockRecord.Key, BlockRecord.Order)
}

// NewTxWindow admits increasing heights and distinct hashes at the head height.
func NewTxWindow(capacity int) *HistoryWindow[TransactionRecord, string] {
	return NewHistoryWindow(capacity, true, TransactionRecord.Key, TransactionRecord.Order)
}

// Check returns the verdict Push would apply, without mutating.
func (w *HistoryWindow[T, K]) Check(record T) Verdict {
	if len(w.items) == 0 {
		return Accepted
	}
	head := w.items[0]
	if w.keyOf(record) == w.keyOf(head) {
		return Duplicate
	}
	order, headOrder := w.orderOf(record), w.orderOf(head)
	if order < headOrder || (order == headOrder && !w.allowEqual) {
		return Stale
	}
	return Accepted
}

// Push prepends record if admitted, evicting the oldest beyond capacity.
func (w *HistoryWindow[T, K]) Push(record T) bool {
	return w.Admit(record) == Accepted
}

// Admit is Push returning the verdict.
func (w *HistoryWindow[T, K]) Admit(record T) Verdict {
	v := w.Check(record)
	if v != Accepted {
		return v
	}

	n := len(w.items)
	if n < w.capacity {
		w.items = append(w.items, record)
		n++
	}
	copy(w.items[1:n], w.items[:n-1])
	w.items[0] = record
	return Accepted
}

// Head returns the newest record.
func (w *HistoryWindow[T, K]) Head() (T, bool) {
	if len(w.items) == 0 {
		var zero T
		return zero, false
	}
	return w.items[0], true
}

// Len returns the number of records held.
func (w *HistoryWindow[T, K]) Len() int { return len(w.items) }

// Cap returns the capacity.
func (w *HistoryWindow[T, K]) Cap() int { return w.capacity }

// Items returns a copy of the records, newest first.
func (w *HistoryWindow[T, K]) Items() []T {
	out := make([]T, len(w.items))
	copy(out, w.items)
	return out
}
