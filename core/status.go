package core

// Status is the lifecycle state of a transaction. The transition is
// monotonic: PENDING -> CONFIRMED, never reversed.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
)
