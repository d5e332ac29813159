package errors

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "without cause",
			err:  New(ErrCodeInvalidConfig, "width must be positive, got %d", -1),
			want: "INVALID_CONFIG: width must be positive, got -1",
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeInvalidImage, io.ErrUnexpectedEOF, "decode upload"),
			want: "INVALID_IMAGE: decode upload: unexpected EOF",
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

func TestIsAndGetCode(t *testing.T) {
	base := Wrap(ErrCodeNetwork, io.EOF, "read frame")
	wrapped := fmt.Errorf("session: %w", base)

	if !Is(wrapped, ErrCodeNetwork) {
		t.Error("Is() should find code through fmt wrapping")
	}
	if Is(wrapped, ErrCodeInternal) {
		t.Error("Is() matched the wrong code")
	}
	if got := GetCode(wrapped); got != ErrCodeNetwork {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeNetwork)
	}
	if got := GetCode(io.EOF); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
	if !errors.Is(wrapped, io.EOF) {
		t.Error("Unwrap() should expose the cause")
	}
}
