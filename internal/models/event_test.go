package models

import "testing"

func TestEventStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to EventStatus }{
		{EventStatusDraft, EventStatusActive},
		{EventStatusDraft, EventStatusCancelled},
		{EventStatusActive, EventStatusCompleted},
		{EventStatusActive, EventStatusCancelled},
	}
	for _, tc := range allowed {
		if !tc.from.CanTransitionTo(tc.to) {
			t.Errorf("Expected %s -> %s to be allowed", tc.from, tc.to)
		}
	}

	statuses := []EventStatus{EventStatusDraft, EventStatusActive, EventStatusCompleted, EventStatusCancelled}

	t.Run("Test terminal statuses admit nothing", func(t *testing.T) {
		for _, from := range []EventStatus{EventStatusCompleted, EventStatusCancelled} {
			for _, to := range statuses {
				if from.CanTransitionTo(to) {
					t.Errorf("Expected %s -> %s to be rejected", from, to)
				}
			}
		}
	})

	t.Run("Test no backwards or skipping transitions", func(t *testing.T) {
		rejected := []struct{ from, to EventStatus }{
			{EventStatusDraft, EventStatusCompleted},
			{EventStatusActive, EventStatusDraft},
			{EventStatusDraft, EventStatusDraft},
			{EventStatusActive, EventStatusActive},
		}
		for _, tc := range rejected {
			if tc.from.CanTransitionTo(tc.to) {
				t.Errorf("Expected %s -> %s to be rejected", tc.from, tc.to)
			}
		}
	})

	t.Run("Test terminal matches the closed statuses", func(t *testing.T) {
		if EventStatusDraft.Terminal() || EventStatusActive.Terminal() {
			t.Error("Expected draft and active to be non-terminal")
		}
		if !EventStatusCompleted.Terminal() || !EventStatusCancelled.Terminal() {
			t.Error("Expected completed and cancelled to be terminal")
		}
	})

	t.Run("Test validity is a closed set", func(t *testing.T) {
		for _, s := range statuses {
			if !s.Valid() {
				t.Errorf("Expected %s to be valid", s)
			}
		}
		if EventStatus("archived").Valid() {
			t.Error("Expected unlisted status to be invalid")
		}
	})
}
