package id

import (
	"strings"
	"testing"
)

func TestNewJobID(t *testing.T) {
	jobID := NewJobID()

	if !strings.HasPrefix(jobID.String(), "job_") {
		t.Errorf("Expected job_ prefix, got %s", jobID)
	}

	raw := strings.TrimPrefix(jobID.String(), "job_")
	if !IsValid(raw) {
		t.Errorf("Expected valid ULID, got %s", raw)
	}
}

func TestUniqueness(t *testing.T) {
	seen := make(map[EventID]bool)
	for i := 0; i < 1000; i++ {
		eventID := NewEventID()
		if seen[eventID] {
			t.Fatalf("Duplicate event ID generated: %s", eventID)
		}
		seen[eventID] = true
	}
}

func TestSortability(t *testing.T) {
	first := NewJobID().String()
	second := NewJobID().String()

	// ULIDs generated in sequence are lexicographically ordered
	if first > second {
		t.Errorf("Expected %s <= %s", first, second)
	}
}
