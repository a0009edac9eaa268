package models

import (
	"testing"
	"time"
)

func TestCampaign(t *testing.T) {
	t.Run("NewCampaign defaults", func(t *testing.T) {
		c := NewCampaign(1, "https://docs.google.com/spreadsheets/d/abc/edit", "abc", "0", "ops@example.com")

		if c.Status() != CampaignStatusPending {
			t.Errorf("expected pending status, got %s", c.Status())
		}
		if c.StartedAt() != nil {
			t.Error("new campaign should not have a start time")
		}
		if err := c.Validate(); err != nil {
			t.Errorf("new campaign should validate: %v", err)
		}
	})

	t.Run("Start and Complete", func(t *testing.T) {
		c := NewCampaign(1, "https://docs.google.com/spreadsheets/d/abc/edit", "abc", "0", "ops@example.com")

		c.Start()
		if c.Status() != CampaignStatusInProgress {
			t.Errorf("expected in_progress, got %s", c.Status())
		}
		if c.StartedAt() == nil {
			t.Fatal("expected start time after Start")
		}

		c.Complete("")
		if c.Status() != CampaignStatusCompleted {
			t.Errorf("expected completed, got %s", c.Status())
		}
		if c.CompletedAt() == nil {
			t.Error("expected completion time after Complete")
		}
	})

	t.Run("Complete with error", func(t *testing.T) {
		c := NewCampaign(1, "https://docs.google.com/spreadsheets/d/abc/edit", "abc", "0", "ops@example.com")
		c.Start()
		c.Complete("provider invitee limit reached")

		if c.Status() != CampaignStatusFailed {
			t.Errorf("expected failed, got %s", c.Status())
		}
		if c.ErrorMessage() != "provider invitee limit reached" {
			t.Errorf("unexpected error message: %s", c.ErrorMessage())
		}
	})

	t.Run("Validate", func(t *testing.T) {
		c := NewCampaign(1, "", "", "0", "")
		if err := c.Validate(); err == nil {
			t.Error("campaign without sheet URL should not validate")
		}

		c = NewCampaign(1, "https://docs.google.com/spreadsheets/d/abc/edit", "abc", "0", "")
		c.SetStatus("bogus")
		if err := c.Validate(); err == nil {
			t.Error("campaign with bogus status should not validate")
		}

		c.SetStatus(CampaignStatusPending)
		c.SetTotalRecipients(-1)
		if err := c.Validate(); err == nil {
			t.Error("campaign with negative recipient count should not validate")
		}
	})
}

func TestShareRecord(t *testing.T) {
	t.Run("NewShareRecord defaults", func(t *testing.T) {
		s := NewShareRecord(1, "campaign-1", "user@example.com", "ops@example.com")

		if s.Status() != ShareStatusSent {
			t.Errorf("expected sent status, got %s", s.Status())
		}
		if err := s.Validate(); err != nil {
			t.Errorf("new share record should validate: %v", err)
		}
	})

	t.Run("MarkSent and MarkFailed", func(t *testing.T) {
		s := NewShareRecord(1, "campaign-1", "user@example.com", "ops@example.com")

		before := time.Now()
		s.MarkSent()
		if s.SharedAt() == nil || s.SharedAt().Before(before) {
			t.Error("MarkSent should record a recent shared time")
		}

		s.MarkFailed("dialog rejected the address")
		if s.Status() != ShareStatusFailed {
			t.Errorf("expected failed, got %s", s.Status())
		}
		if s.ErrorMessage() != "dialog rejected the address" {
			t.Errorf("unexpected error message: %s", s.ErrorMessage())
		}
	})

	t.Run("Validate", func(t *testing.T) {
		s := NewShareRecord(1, "", "user@example.com", "")
		if err := s.Validate(); err == nil {
			t.Error("share record without campaign should not validate")
		}

		s = NewShareRecord(1, "campaign-1", "", "")
		if err := s.Validate(); err == nil {
			t.Error("share record without email should not validate")
		}

		s = NewShareRecord(1, "campaign-1", "user@example.com", "")
		s.SetStatus("bogus")
		if err := s.Validate(); err == nil {
			t.Error("share record with bogus status should not validate")
		}
	})
}
