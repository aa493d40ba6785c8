// Package hexstr converts between byte slices and the hex text an operator types and reads.
package hexstr

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Decode parses a string of hexadecimal byte pairs with no separators.
// Both letter cases are accepted; anything else, including whitespace, is rejected.
func Decode(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("odd number of hex digits (%d)", len(s))
	}
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Hex constructs a byte slice from a series of hex strings.
// It panics on invalid input and is meant for fixtures and constants.
func Hex(parts ...string) []byte {
	fullHex := strings.Join(parts, "")
	// Clean up spaces to allow format like "D4 42 30 00"
	cleanHex := strings.ReplaceAll(fullHex, " ", "")

	data, err := hex.DecodeString(cleanHex)
	if err != nil {
		panic(fmt.Sprintf("invalid input '%s': %v", cleanHex, err))
	}
	return data
}

// Format renders bytes as uppercase pairs separated by single spaces ("D4 42 30").
func Format(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(data)*3 - 1)
	for i, b := range data {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", b)
	}
	return sb.String()
}

// SafeASCII renders printable ASCII (0x20..0x7E) as-is and every other byte as '.'.
func SafeASCII(data []byte) string {
	out := make([]byte, len(data))
	for i, b := range data {
		if b >= 32 && b <= 126 {
			out[i] = b
			continue
		}
		out[i] = '.'
	}
	return string(out)
}
