package texpaint

import (
	"errors"
	"testing"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want RGBA
	}{
		{"#f00", RGBA{R: 1, A: 1}},
		{"#0f08", RGBA{G: 1, A: 0x88 / 255.0}},
		{"ff0000", RGBA{R: 1, A: 1}},
		{"#3498db", RGBA{R: 0x34 / 255.0, G: 0x98 / 255.0, B: 0xdb / 255.0, A: 1}},
		{"#00000080", RGBA{A: 0x80 / 255.0}},
		{"#FFFFFF", RGBA{R: 1, G: 1, B: 1, A: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			if err != nil {
				t.Fatalf("ParseHex(%q) = %v", tt.in, err)
			}
			if !rgbaNear(got, tt.want) {
				t.Errorf("ParseHex(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseHex_Invalid(t *testing.T) {
	for _, in := range []string{"", "#", "#12", "#12345", "#gggggg", "#1234567"} {
		if _, err := ParseHex(in); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("ParseHex(%q) = %v, want ErrInvalidArgument", in, err)
		}
	}
}

func TestHexString(t *testing.T) {
	tests := []struct {
		c    RGBA
		want string
	}{
		{RGBA{R: 1, A: 1}, "#ff0000"},
		{RGBA{R: 0.2, G: 0.4, B: 0.6, A: 1}, "#336699"},
		{RGBA{A: 0.5}, "#00000080"},
		{RGBA{R: 2, G: -1, A: 1}, "#ff0000"},
	}
	for _, tt := range tests {
		if got := HexString(tt.c); got != tt.want {
			t.Errorf("HexString(%v) = %q, want %q", tt.c, got, tt.want)
		}
	}
}
