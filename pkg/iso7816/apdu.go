package iso7816

import (
	"fmt"
)

// RESPONSE APDU (R-APDU):
// A PC/SC reader answers every transmitted frame with an optional Body and a mandatory Trailer.
//
// 1. Body (Data Field):
//   - Variable length sequence of bytes. For an ACR122 direct transmit it holds the raw
//     PN532 reply frame (D5 ...).
//
// 2. Trailer (Status Word):
//   - SW1 (1 byte): Command processing status (High byte).
//   - SW2 (1 byte): Command processing qualification (Low byte).
//   - Example: 0x9000 indicates the reader processed the frame.

// MaxShortLc is the maximum data length (Nc) encodable in Short Length mode (1 byte).
const MaxShortLc = 255

// ResponseAPDU represents the reply from the reader (R-APDU).
type ResponseAPDU struct {
	Data   []byte
	Status StatusWord
}

// NewResponseAPDU builds a ResponseAPDU from already separated data and status bytes.
func NewResponseAPDU(data []byte, sw1, sw2 byte) *ResponseAPDU {
	return &ResponseAPDU{
		Data:   data,
		Status: NewStatusWord(sw1, sw2),
	}
}

// ParseResponseAPDU parses raw bytes received from the reader into a ResponseAPDU.
// The input must contain at least 2 bytes (SW1, SW2).
func ParseResponseAPDU(raw []byte) (*ResponseAPDU, error) {
	if len(raw) < 2 {
		return nil, fmt.Errorf("response too short: length %d", len(raw))
	}

	indexSW1 := len(raw) - 2
	data := raw[:indexSW1]
	sw1 := raw[indexSW1]
	sw2 := raw[indexSW1+1]

	return NewResponseAPDU(data, sw1, sw2), nil
}

// String returns a readable representation of the response.
func (r *ResponseAPDU) String() string {
	return fmt.Sprintf("Data (%d bytes) | Status: %s", len(r.Data), r.Status.Verbose())
}
