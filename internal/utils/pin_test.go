package utils

import (
	"strconv"
	"testing"
)

func TestNewCompletionPIN(t *testing.T) {
	for i := 0; i < 200; i++ {
		pin, err := NewCompletionPIN()
		if err != nil {
			t.Fatalf("pin generation failed: %v", err)
		}
		if len(pin) != 3 {
			t.Fatalf("pin %q is not 3 characters", pin)
		}
		n, err := strconv.Atoi(pin)
		if err != nil {
			t.Fatalf("pin %q is not numeric: %v", pin, err)
		}
		if n < 100 || n > 999 {
			t.Fatalf("pin %d out of range [100,999]", n)
		}
	}
}
