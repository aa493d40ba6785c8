/*
Package iso7816 implements the ISO/IEC 7816-4 response structures a PC/SC reader returns.

The nfc-shell only ever sees ISO 7816 from the outside: every frame it sends is a reader
pseudo-APDU (CLA 0xFF), and every reply is a Response APDU whose trailer describes the reader's
handling of the frame, not the outcome of the NFC command tunneled inside it.

# Fundamentals

The communication with the reader is strictly synchronous:
 1. The Host sends a Command APDU (Header + Optional Body).
 2. The Reader processes it and returns a Response APDU (Optional Body + Trailer SW1/SW2).

# Status Words

Every response ends with a 2-byte Status Word (SW).
  - 0x9000: Success (OK).
  - 0x61XX: Success, but response data is still available (XX bytes).
  - 0x6300: The reader reports the operation failed.
  - Other: Various error conditions.

# Usage Example

	resp, err := iso7816.ParseResponseAPDU(raw)
	if err != nil {
	    return err
	}
	if resp.Status.SW1() != 0x90 {
	    fmt.Println(resp.Status.Verbose())
	}
*/
package iso7816
