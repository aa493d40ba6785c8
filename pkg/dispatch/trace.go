package dispatch

import (
	"github.com/gregLibert/nfc-shell/pkg/iso7816"
)

// Result is the outcome of one command in a dispatch run.
type Result struct {
	Command Command
	Frame   []byte // transmitted Direct Transmit frame

	// OK is true only when the reader answered 90XX and the PN532 echo was D5 43 00.
	OK   bool
	Data []byte // reply with the PN532 echo stripped

	// Response is the raw reader reply; nil after a transport fault.
	Response *iso7816.ResponseAPDU

	// Err is nil when OK. Otherwise it wraps ErrNack or is a *TransportError.
	Err error
}

// Trace is the ordered list of results of one dispatch run.
// A run stops at the first failure, so only the last entry can be unsuccessful.
type Trace []Result

// Last returns the final result of the trace.
// Returns nil if the trace is empty.
func (t Trace) Last() *Result {
	if len(t) == 0 {
		return nil
	}
	return &t[len(t)-1]
}

// IsSuccess checks if the final result in the trace was successful.
// An empty trace is successful: nothing was asked and nothing failed.
func (t Trace) IsSuccess() bool {
	last := t.Last()
	if last == nil {
		return true
	}
	return last.OK
}
