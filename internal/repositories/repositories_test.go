package repositories

import (
	"database/sql"
	"testing"

	"github.com/carrotlabs/zshare/internal/models"
	"github.com/carrotlabs/zshare/internal/shared"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func newTestCampaign(t *testing.T, repo *CampaignRepository) *models.Campaign {
	t.Helper()

	campaign := models.NewCampaign(0, "https://docs.google.com/spreadsheets/d/abc123/edit#gid=0", "abc123", "0", "ops@example.com")
	if err := repo.Create(campaign); err != nil {
		t.Fatalf("failed to create campaign: %v", err)
	}
	return campaign
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	first, err := NextSequence(db, "campaigns")
	if err != nil {
		t.Fatalf("failed to get sequence: %v", err)
	}
	second, err := NextSequence(db, "campaigns")
	if err != nil {
		t.Fatalf("failed to get sequence: %v", err)
	}

	if second != first+1 {
		t.Errorf("expected sequence to increment, got %d then %d", first, second)
	}
}

func TestCampaignRepository(t *testing.T) {
	t.Run("Create and Get", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewCampaignRepository(db)

		campaign := newTestCampaign(t, repo)
		if campaign.ID() == "" {
			t.Fatal("expected generated ID")
		}
		if campaign.Sequence() == 0 {
			t.Error("expected assigned sequence")
		}

		got, err := repo.Get(campaign.ID())
		if err != nil {
			t.Fatalf("failed to get campaign: %v", err)
		}
		if got.SheetURL() != campaign.SheetURL() {
			t.Errorf("sheet URL mismatch: %s", got.SheetURL())
		}
		if got.Status() != models.CampaignStatusPending {
			t.Errorf("expected pending status, got %s", got.Status())
		}
	})

	t.Run("Update lifecycle", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewCampaignRepository(db)
		campaign := newTestCampaign(t, repo)

		campaign.Start()
		campaign.SetTotalRecipients(42)
		if err := repo.Update(campaign); err != nil {
			t.Fatalf("failed to update campaign: %v", err)
		}

		got, err := repo.Get(campaign.ID())
		if err != nil {
			t.Fatalf("failed to get campaign: %v", err)
		}
		if got.Status() != models.CampaignStatusInProgress {
			t.Errorf("expected in_progress, got %s", got.Status())
		}
		if got.TotalRecipients() != 42 {
			t.Errorf("expected 42 recipients, got %d", got.TotalRecipients())
		}
		if got.StartedAt() == nil {
			t.Error("expected started_at to persist")
		}
	})

	t.Run("Delete is soft", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewCampaignRepository(db)
		campaign := newTestCampaign(t, repo)

		if err := repo.Delete(campaign.ID()); err != nil {
			t.Fatalf("failed to delete campaign: %v", err)
		}

		if _, err := repo.Get(campaign.ID()); err == nil {
			t.Error("deleted campaign should not be retrievable")
		}

		if err := repo.Delete(campaign.ID()); err == nil {
			t.Error("double delete should fail")
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM campaigns WHERE id = ?", campaign.ID()).Scan(&count); err != nil {
			t.Fatalf("failed to count rows: %v", err)
		}
		if count != 1 {
			t.Errorf("soft delete should keep the row, found %d", count)
		}
	})

	t.Run("List with criteria", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewCampaignRepository(db)

		a := newTestCampaign(t, repo)
		b := newTestCampaign(t, repo)
		b.Complete("provider invitee limit reached")
		if err := repo.Update(b); err != nil {
			t.Fatalf("failed to update campaign: %v", err)
		}

		all, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list campaigns: %v", err)
		}
		if len(all) != 2 {
			t.Fatalf("expected 2 campaigns, got %d", len(all))
		}
		// Ordered by sequence descending: newest first.
		if all[0].ID() != b.ID() {
			t.Error("expected newest campaign first")
		}

		failed, err := repo.List(map[string]any{"status": models.CampaignStatusFailed})
		if err != nil {
			t.Fatalf("failed to list failed campaigns: %v", err)
		}
		if len(failed) != 1 || failed[0].ID() != b.ID() {
			t.Errorf("expected only the failed campaign, got %d", len(failed))
		}

		_ = a
	})

	t.Run("Stats", func(t *testing.T) {
		db := setupTestDB(t)
		campaigns := NewCampaignRepository(db)
		shares := NewShareRepository(db)
		campaign := newTestCampaign(t, campaigns)

		sent := models.NewShareRecord(0, campaign.ID(), "a@example.com", "ops@example.com")
		sent.MarkSent()
		failed := models.NewShareRecord(0, campaign.ID(), "b@example.com", "ops@example.com")
		failed.MarkFailed("rejected")

		for _, rec := range []*models.ShareRecord{sent, failed} {
			if err := shares.Create(rec); err != nil {
				t.Fatalf("failed to create share record: %v", err)
			}
		}

		stats, err := campaigns.Stats(campaign.ID())
		if err != nil {
			t.Fatalf("failed to get stats: %v", err)
		}
		if stats.Sent != 1 || stats.Failed != 1 {
			t.Errorf("expected 1 sent + 1 failed, got %d/%d", stats.Sent, stats.Failed)
		}
	})
}

func TestShareRepository(t *testing.T) {
	t.Run("Create Get Update", func(t *testing.T) {
		db := setupTestDB(t)
		campaigns := NewCampaignRepository(db)
		shares := NewShareRepository(db)
		campaign := newTestCampaign(t, campaigns)

		record := models.NewShareRecord(0, campaign.ID(), "user@example.com", "ops@example.com")
		record.MarkSent()
		if err := shares.Create(record); err != nil {
			t.Fatalf("failed to create share record: %v", err)
		}

		got, err := shares.Get(record.ID())
		if err != nil {
			t.Fatalf("failed to get share record: %v", err)
		}
		if got.Email() != "user@example.com" {
			t.Errorf("email mismatch: %s", got.Email())
		}
		if got.SharedAt() == nil {
			t.Error("expected shared_at to persist")
		}

		got.MarkFailed("dialog rejected the address")
		if err := shares.Update(got); err != nil {
			t.Fatalf("failed to update share record: %v", err)
		}

		again, err := shares.Get(record.ID())
		if err != nil {
			t.Fatalf("failed to re-get share record: %v", err)
		}
		if again.Status() != models.ShareStatusFailed {
			t.Errorf("expected failed status, got %s", again.Status())
		}
	})

	t.Run("List by campaign and status", func(t *testing.T) {
		db := setupTestDB(t)
		campaigns := NewCampaignRepository(db)
		shares := NewShareRepository(db)
		campaign := newTestCampaign(t, campaigns)

		emails := []string{"a@example.com", "b@example.com", "c@example.com"}
		for i, email := range emails {
			rec := models.NewShareRecord(0, campaign.ID(), email, "ops@example.com")
			if i == 2 {
				rec.MarkFailed("rejected")
			} else {
				rec.MarkSent()
			}
			if err := shares.Create(rec); err != nil {
				t.Fatalf("failed to create share record: %v", err)
			}
		}

		all, err := shares.List(map[string]any{"campaign_id": campaign.ID()})
		if err != nil {
			t.Fatalf("failed to list share records: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 records, got %d", len(all))
		}
		// Ordered by sequence ascending: attempt order preserved.
		for i, rec := range all {
			if rec.Email() != emails[i] {
				t.Errorf("record %d: expected %s, got %s", i, emails[i], rec.Email())
			}
		}

		failed, err := shares.List(map[string]any{"campaign_id": campaign.ID(), "status": models.ShareStatusFailed})
		if err != nil {
			t.Fatalf("failed to list failed records: %v", err)
		}
		if len(failed) != 1 || failed[0].Email() != "c@example.com" {
			t.Errorf("expected only c@example.com failed, got %d records", len(failed))
		}
	})
}
