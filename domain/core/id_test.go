package core

import (
	"errors"
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 1000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}
}

func TestTypeCoercionError_UnwrapsToSentinel(t *testing.T) {
	var err error = &TypeCoercionError{Column: "Weight", Row: 3, Value: "heavy"}

	if !errors.Is(err, ErrTypeCoercion) {
		t.Fatal("TypeCoercionError should match ErrTypeCoercion")
	}
	if !IsCoercionError(err) {
		t.Error("IsCoercionError should report true")
	}

	var tce *TypeCoercionError
	if !errors.As(err, &tce) || tce.Column != "Weight" || tce.Row != 3 {
		t.Errorf("errors.As lost coercion details: %+v", tce)
	}
}

func TestExhaustedError(t *testing.T) {
	err := NewExhaustedError("partY", 100)
	if !IsExhaustedError(err) {
		t.Fatalf("expected exhausted error, got %v", err)
	}
	if IsNotFoundError(err) {
		t.Error("exhausted error should not be a not-found error")
	}
}
