// Package pn532 wraps NFC commands in the PN532 InCommunicateThru envelope and
// classifies the PN532 reply.
package pn532

import "bytes"

// Frame direction constants
const (
	HostToPN532 = 0xD4 // Commands from host to PN532
	PN532ToHost = 0xD5 // Responses from PN532 to host
)

// InCommunicateThru sends raw bytes to the selected target and returns its reply.
// The PN532 answers with the command code plus one.
const (
	CmdInCommunicateThru = 0x42
	RspInCommunicateThru = CmdInCommunicateThru + 1
)

// StatusOK is the InCommunicateThru status byte for a successful exchange.
const StatusOK = 0x00

// Swallowed header lengths.
const (
	TunnelHeaderLen = 2
	EchoLen         = 3
)

var (
	tunnelHeader = []byte{HostToPN532, CmdInCommunicateThru}
	echoOK       = []byte{PN532ToHost, RspInCommunicateThru, StatusOK}
)

// WrapTunnel prepends the InCommunicateThru header (D4 42) to cmd.
// The result never aliases cmd.
func WrapTunnel(cmd []byte) []byte {
	out := make([]byte, 0, TunnelHeaderLen+len(cmd))
	out = append(out, tunnelHeader...)
	return append(out, cmd...)
}

// UnwrapResponse strips the 3-byte InCommunicateThru echo from a reader reply.
//
// ok is true only when sw1 is 0x90 and the echo is exactly D5 43 00. The remaining bytes are
// returned either way; callers must check ok before trusting them. Replies shorter than the
// echo yield an empty result and ok == false.
func UnwrapResponse(data []byte, sw1, sw2 byte) ([]byte, bool) {
	_ = sw2 // reader qualification only; SW1 decides

	if len(data) < EchoLen {
		return []byte{}, false
	}

	rest := bytes.Clone(data[EchoLen:])
	if rest == nil {
		rest = []byte{}
	}

	ok := sw1 == 0x90 && bytes.Equal(data[:EchoLen], echoOK)
	return rest, ok
}

// TunnelStatus returns the InCommunicateThru status byte when data starts with the
// D5 43 reply header. A non-zero status is the PN532's error code for the tunneled exchange
// (for example 0x01 for a target timeout).
func TunnelStatus(data []byte) (byte, bool) {
	if len(data) < EchoLen || data[0] != PN532ToHost || data[1] != RspInCommunicateThru {
		return 0, false
	}
	return data[2], true
}
