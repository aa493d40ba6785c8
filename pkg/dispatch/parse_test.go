package dispatch

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseCommandList(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Command
		wantPos int // 0 means no error
	}{
		{
			name:  "Empty Input",
			input: "",
			want:  nil,
		},
		{
			name:  "Single Command",
			input: "3004",
			want:  []Command{{0x30, 0x04}},
		},
		{
			name:  "Multiple Commands",
			input: "00A4;ffb0;60",
			want:  []Command{{0x00, 0xA4}, {0xFF, 0xB0}, {0x60}},
		},
		{
			name:    "Trailing Separator",
			input:   "3004;",
			wantPos: 2,
		},
		{
			name:    "Empty Middle Element",
			input:   "3004;;60",
			wantPos: 2,
		},
		{
			name:    "Whitespace",
			input:   "30 04",
			wantPos: 1,
		},
		{
			name:    "Odd Digits",
			input:   "60;304",
			wantPos: 2,
		},
		{
			name:    "Not Hex",
			input:   "GG",
			wantPos: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCommandList(tt.input)

			if tt.wantPos == 0 {
				if err != nil {
					t.Fatalf("ParseCommandList(%q) error: %v", tt.input, err)
				}
				if diff := cmp.Diff(tt.want, got); diff != "" {
					t.Errorf("ParseCommandList(%q) mismatch (-want +got):\n%s", tt.input, diff)
				}
				return
			}

			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("ParseCommandList(%q) error = %v, want *ParseError", tt.input, err)
			}
			if pe.Position != tt.wantPos {
				t.Errorf("ParseError.Position = %d, want %d", pe.Position, tt.wantPos)
			}
		})
	}
}

func TestCommand_String(t *testing.T) {
	if got := (Command{0xFF, 0xB0, 0x00}).String(); got != "FF B0 00" {
		t.Errorf("String() = %q, want %q", got, "FF B0 00")
	}
}
