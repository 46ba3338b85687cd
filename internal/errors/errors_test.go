package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/julianstephens/cactolog/internal/storage"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "simple error",
			err:      errors.New("something went wrong"),
			expected: "Error: something went wrong",
		},
		{
			name:     "missing plant",
			err:      fmt.Errorf("plant p_1: %w", storage.ErrNotFound),
			expected: "Error: not found: plant p_1: record not found",
		},
		{
			name:     "storage failure",
			err:      &storage.StorageError{Op: "put", Collection: "plants", Key: "p_1", Err: errors.New("disk full")},
			expected: "Error: storage put plants/p_1: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("plant %s has no repot schedule", "p_1")
	if got != "Error: plant p_1 has no repot schedule" {
		t.Errorf("Formatf = %q", got)
	}
}
