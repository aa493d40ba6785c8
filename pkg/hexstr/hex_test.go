package hexstr

import (
	"bytes"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []byte
		wantErr bool
	}{
		{
			name:  "Upper Case",
			input: "00A4",
			want:  []byte{0x00, 0xA4},
		},
		{
			name:  "Mixed Case",
			input: "caFE",
			want:  []byte{0xCA, 0xFE},
		},
		{
			name:  "Empty",
			input: "",
			want:  []byte{},
		},
		{
			name:    "Odd Length",
			input:   "123",
			wantErr: true,
		},
		{
			name:    "Invalid Digit",
			input:   "ZZ",
			wantErr: true,
		},
		{
			name:    "Internal Space",
			input:   "00 A4",
			wantErr: true,
		},
		{
			name:    "Trailing Newline",
			input:   "00A4\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !bytes.Equal(got, tt.want) {
				t.Errorf("Decode(%q) = %X, want %X", tt.input, got, tt.want)
			}
		})
	}
}

func TestHex(t *testing.T) {
	tests := []struct {
		name      string
		inputs    []string
		want      []byte
		wantPanic bool
	}{
		{
			name:   "Simple Join",
			inputs: []string{"D4", "42"},
			want:   []byte{0xD4, 0x42},
		},
		{
			name:   "With Spaces",
			inputs: []string{"FF 00", " 00 00 "},
			want:   []byte{0xFF, 0x00, 0x00, 0x00},
		},
		{
			name:      "Invalid Hex",
			inputs:    []string{"ZZ"},
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				if (r != nil) != tt.wantPanic {
					t.Errorf("Hex() panic = %v, wantPanic %v", r, tt.wantPanic)
				}
			}()

			got := Hex(tt.inputs...)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Hex() = %X, want %X", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		input []byte
		want  string
	}{
		{nil, ""},
		{[]byte{0x0A}, "0A"},
		{[]byte{0xD4, 0x42, 0x30, 0x00}, "D4 42 30 00"},
	}

	for _, tt := range tests {
		if got := Format(tt.input); got != tt.want {
			t.Errorf("Format(%X) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSafeASCII(t *testing.T) {
	input := []byte{0x41, 0x42, 0x00, 0x1F, 0x7F, 0x43, 0xE9} // AB, null, US, DEL, C, high byte
	want := "AB...C."

	got := SafeASCII(input)
	if got != want {
		t.Errorf("SafeASCII() = %q, want %q", got, want)
	}
}
