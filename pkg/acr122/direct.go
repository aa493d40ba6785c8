// Package acr122 builds the ACR122 "Direct Transmit" pseudo-APDU that carries a PN532 frame
// through a PC/SC Transmit call.
package acr122

import (
	"errors"
	"fmt"

	"github.com/gregLibert/nfc-shell/pkg/iso7816"
	"github.com/gregLibert/nfc-shell/pkg/pn532"
)

// Direct Transmit header: CLA FF, INS 00, P1 00, P2 00, followed by Lc and the payload.
var directTransmitHeader = []byte{0xFF, 0x00, 0x00, 0x00}

// MaxPayload is the largest PN532 payload whose length fits the single Lc byte.
const MaxPayload = iso7816.MaxShortLc

// MaxCommand is the largest tunneled NFC command once the InCommunicateThru header is added.
const MaxCommand = MaxPayload - pn532.TunnelHeaderLen

var ErrPayloadTooLarge = errors.New("acr122: payload too large for direct transmit")

// WrapTransmit prepends the Direct Transmit header and the payload length.
// Payloads longer than MaxPayload are rejected rather than truncated.
func WrapTransmit(payload []byte) ([]byte, error) {
	if len(payload) > MaxPayload {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrPayloadTooLarge, len(payload), MaxPayload)
	}

	frame := make([]byte, 0, len(directTransmitHeader)+1+len(payload))
	frame = append(frame, directTransmitHeader...)
	frame = append(frame, byte(len(payload)))
	return append(frame, payload...), nil
}

// Frame tunnels cmd through InCommunicateThru and wraps it for Direct Transmit.
func Frame(cmd []byte) ([]byte, error) {
	return WrapTransmit(pn532.WrapTunnel(cmd))
}
