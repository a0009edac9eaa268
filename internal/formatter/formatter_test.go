package formatter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/carrotlabs/zshare/internal/models"
	"github.com/carrotlabs/zshare/internal/repositories"
)

func sampleCampaign() *models.Campaign {
	c := models.NewCampaign(1, "https://docs.google.com/spreadsheets/d/abc/edit", "abc", "0", "user@example.com")
	c.SetID("campaign-1")
	c.SetTotalRecipients(3)
	c.Start()
	return c
}

func sampleShares() []*models.ShareRecord {
	sent := models.NewShareRecord(1, "campaign-1", "a@x.com", "user@example.com")
	sent.SetID("share-1")
	sent.MarkSent()

	failed := models.NewShareRecord(2, "campaign-1", "b@x.com", "user@example.com")
	failed.SetID("share-2")
	failed.MarkFailed("provider rejected the batch")

	return []*models.ShareRecord{sent, failed}
}

func TestFormatters(t *testing.T) {
	t.Run("CampaignsToText", func(t *testing.T) {
		output := string(CampaignsToText([]*models.Campaign{sampleCampaign()}))

		if !strings.Contains(output, "ID") || !strings.Contains(output, "STATUS") {
			t.Errorf("missing headers, got: %s", output)
		}
		if !strings.Contains(output, "campaign-1") {
			t.Errorf("missing campaign id, got: %s", output)
		}
		if !strings.Contains(output, models.CampaignStatusInProgress) {
			t.Errorf("missing status, got: %s", output)
		}
	})

	t.Run("SharesToText", func(t *testing.T) {
		output := string(SharesToText(sampleShares()))

		if !strings.Contains(output, "a@x.com") || !strings.Contains(output, "b@x.com") {
			t.Errorf("missing emails, got: %s", output)
		}
		if !strings.Contains(output, "provider rejected the batch") {
			t.Errorf("missing error message, got: %s", output)
		}
	})

	t.Run("SharesToCSV", func(t *testing.T) {
		data, err := SharesToCSV(sampleShares())
		if err != nil {
			t.Fatalf("SharesToCSV failed: %v", err)
		}
		output := string(data)

		if !strings.Contains(output, "Email,Status,SharedAt,Error") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "a@x.com,"+models.ShareStatusSent) {
			t.Errorf("CSV missing sent row, got: %s", output)
		}
		if !strings.Contains(output, "provider rejected the batch") {
			t.Errorf("CSV missing failure message, got: %s", output)
		}
	})

	t.Run("StatsToText", func(t *testing.T) {
		stats := &repositories.CampaignStats{CampaignID: "campaign-1", Sent: 18, Failed: 2}
		output := string(StatsToText(stats))

		if !strings.Contains(output, "18") || !strings.Contains(output, "2") || !strings.Contains(output, "20") {
			t.Errorf("missing counts, got: %s", output)
		}
	})

	t.Run("CampaignToMarkdown", func(t *testing.T) {
		campaign := sampleCampaign()
		campaign.Complete("run aborted")
		output := string(CampaignToMarkdown(campaign, sampleShares()))

		if !strings.Contains(output, "# Campaign campaign-1") {
			t.Errorf("missing title, got: %s", output)
		}
		if !strings.Contains(output, "**Error**: run aborted") {
			t.Errorf("missing error line, got: %s", output)
		}
		if !strings.Contains(output, "1. a@x.com") {
			t.Errorf("missing share listing, got: %s", output)
		}
	})
}

func TestWriteShareExport(t *testing.T) {
	base := filepath.Join(t.TempDir(), "report")
	path, err := WriteShareExport(sampleCampaign(), sampleShares(), base)
	if err != nil {
		t.Fatalf("WriteShareExport failed: %v", err)
	}

	if path != base+"_shares.csv" {
		t.Errorf("unexpected path: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	if !strings.Contains(string(data), "a@x.com") {
		t.Errorf("export missing rows: %s", data)
	}
}

func TestFormatTime(t *testing.T) {
	if got := formatTime(nil); got != "-" {
		t.Errorf("nil time should render as dash, got %q", got)
	}
	ts := time.Date(2026, 3, 14, 9, 26, 0, 0, time.UTC)
	if got := formatTime(&ts); got != "2026-03-14 09:26" {
		t.Errorf("unexpected format: %q", got)
	}
}
