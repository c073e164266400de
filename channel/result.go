// Copyright 2016 Aleksandr Demakin. All rights reserved.

package channel

// Result is an outcome of a send or receive attempt.
// Only Success means, that the message was transferred.
type Result int

const (
	// Success means the message was written or read.
	Success Result = iota
	// Full means there is not enough room for the message yet. Nothing was changed.
	Full
	// WrappedRetry means the position was moved to the start of the buffer.
	// The same call must be repeated.
	WrappedRetry
	// NoData means there is no message to read.
	NoData
)

// String returns a short name of the result.
func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case Full:
		return "full"
	case WrappedRetry:
		return "wrapped-retry"
	case NoData:
		return "no-data"
	default:
		return "unknown"
	}
}

// OK returns true for Success.
func (r Result) OK() bool {
	return r == Success
}
