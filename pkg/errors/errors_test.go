package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "message only",
			err:  New(ErrCodeInvalidConfig, "particle_count must be positive, got %d", -1),
			want: "INVALID_CONFIG: particle_count must be positive, got -1",
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeDecodeFailed, errors.New("unexpected EOF"), "decode %s", "logo.png"),
			want: "DECODE_FAILED: decode logo.png: unexpected EOF",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(ErrCodeNetwork, context.Canceled, "connect to redis://cache:6379")
	if !errors.Is(err, context.Canceled) {
		t.Error("errors.Is(err, context.Canceled) = false, want true")
	}
	if errors.Unwrap(err) != context.Canceled {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), context.Canceled)
	}
	if err.Message != "connect to redis://cache:6379" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestIsAndGetCode(t *testing.T) {
	sizeMismatch := New(ErrCodeSizeMismatch, "target has 20 particles, field has 40")

	tests := []struct {
		name string
		err  error
		code Code
	}{
		{"coded", sizeMismatch, ErrCodeSizeMismatch},
		{"fmt wrapped", fmt.Errorf("retarget: %w", sizeMismatch), ErrCodeSizeMismatch},
		{"outer code wins", Wrap(ErrCodeInvalidConfig, sizeMismatch, "profile"), ErrCodeInvalidConfig},
		{"plain", errors.New("boom"), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(%q) = false, want true", tt.code)
			}
			if Is(tt.err, ErrCodeTimeout) {
				t.Error("Is(TIMEOUT) = true, want false")
			}
		})
	}
	if Is(errors.New("boom"), "") {
		t.Error(`Is(plain, "") = true, want false`)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"coded", New(ErrCodeInvalidShape, "unknown particle shape %q", "star"), `unknown particle shape "star"`},
		{"coded with cause", Wrap(ErrCodeDecodeFailed, errors.New("bad huffman code"), "decode image"), "decode image"},
		{"wrapped coded", fmt.Errorf("convert: %w", New(ErrCodeInvalidColor, "bad tint")), "bad tint"},
		{"plain", errors.New("disk full"), "disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
