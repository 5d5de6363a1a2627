package errors

import (
	"math"
	"testing"
)

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		input   int
		wantErr bool
	}{
		{1, false},
		{20000, false},
		{0, true},
		{-5, true},
	}
	for _, tt := range tests {
		err := ValidatePositive("count", tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePositive(%d) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidConfig) {
			t.Errorf("ValidatePositive(%d) returned wrong error code: %v", tt.input, err)
		}
	}
}

func TestValidateNonNegative(t *testing.T) {
	tests := []struct {
		input   float64
		wantErr bool
	}{
		{0, false},
		{0.12, false},
		{-0.001, true},
		{math.NaN(), true},
		{math.Inf(1), true},
	}
	for _, tt := range tests {
		if err := ValidateNonNegative("depth", tt.input); (err != nil) != tt.wantErr {
			t.Errorf("ValidateNonNegative(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidateIntRange(t *testing.T) {
	tests := []struct {
		input   int
		wantErr bool
	}{
		{-100, false},
		{0, false},
		{100, false},
		{101, true},
		{-101, true},
	}
	for _, tt := range tests {
		if err := ValidateIntRange("contrast", tt.input, -100, 100); (err != nil) != tt.wantErr {
			t.Errorf("ValidateIntRange(%d) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestValidateUnitInterval(t *testing.T) {
	tests := []struct {
		input   float64
		wantErr bool
	}{
		{0.08, false},
		{1, false},
		{0, true},
		{-0.1, true},
		{1.01, true},
		{math.NaN(), true},
	}
	for _, tt := range tests {
		if err := ValidateUnitInterval("morph_speed", tt.input); (err != nil) != tt.wantErr {
			t.Errorf("ValidateUnitInterval(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		input   string
		r, g, b uint8
		wantErr bool
	}{
		{"#ff8000", 255, 128, 0, false},
		{"00ff7f", 0, 255, 127, false},
		{"#fff", 255, 255, 255, false},
		{" #102030 ", 16, 32, 48, false},
		{"", 0, 0, 0, true},
		{"#12345", 0, 0, 0, true},
		{"#12345g", 0, 0, 0, true},
		{"red", 0, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r, g, b, err := ParseHexColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHexColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil {
				if !Is(err, ErrCodeInvalidColor) {
					t.Errorf("ParseHexColor(%q) returned wrong error code: %v", tt.input, err)
				}
				return
			}
			if r != tt.r || g != tt.g || b != tt.b {
				t.Errorf("ParseHexColor(%q) = %d,%d,%d, want %d,%d,%d", tt.input, r, g, b, tt.r, tt.g, tt.b)
			}
		})
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidConfig,
		ErrCodeInvalidShape,
		ErrCodeInvalidColor,
		ErrCodeInvalidFormat,
		ErrCodeDecodeFailed,
		ErrCodeUnsupportedFormat,
		ErrCodeSizeMismatch,
		ErrCodeNotFound,
		ErrCodeFileNotFound,
		ErrCodeNetwork,
		ErrCodeTimeout,
		ErrCodeInternal,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
