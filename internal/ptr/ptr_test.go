package ptr_test

import (
	"testing"
	"time"

	"github.com/myrjola/fitcycle/internal/ptr"
)

func TestRef(t *testing.T) {
	minutes := 45
	p := ptr.Ref(minutes)
	if *p != 45 {
		t.Errorf("Expected 45, got %d", *p)
	}
	minutes = 50
	if *p != 45 {
		t.Errorf("Pointer value should not follow the original variable, got %d", *p)
	}
}

func TestClone(t *testing.T) {
	if got := ptr.Clone[time.Time](nil); got != nil {
		t.Errorf("Clone(nil) = %v, want nil", got)
	}

	completedAt := ptr.Ref(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	clone := ptr.Clone(completedAt)
	if clone == completedAt {
		t.Fatal("Clone returned the same pointer")
	}
	if !clone.Equal(*completedAt) {
		t.Errorf("Clone = %v, want %v", clone, completedAt)
	}
}

func TestDeref(t *testing.T) {
	if got := ptr.Deref(nil, 30); got != 30 {
		t.Errorf("Deref(nil, 30) = %d, want 30", got)
	}
	if got := ptr.Deref(ptr.Ref(42), 30); got != 42 {
		t.Errorf("Deref(&42, 30) = %d, want 42", got)
	}
}
