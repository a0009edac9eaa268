package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/carrotlabs/zshare/internal/models"
	"github.com/carrotlabs/zshare/internal/shared"
)

// CampaignRepository implements models.Repository[*models.Campaign] for campaign tracking.
//
// Handles campaign CRUD operations with soft delete support and status-based queries.
type CampaignRepository struct {
	db *sql.DB
}

// NewCampaignRepository creates a new CampaignRepository with the given database connection
func NewCampaignRepository(db *sql.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

// Create inserts a new campaign into the database with generated ID and sequence
func (r *CampaignRepository) Create(campaign *models.Campaign) error {
	sequence, err := NextSequence(r.db, "campaigns")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	campaign.SetID(id)
	campaign.SetSequence(sequence)

	if err := campaign.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO campaigns (
			id, sequence, sheet_url, spreadsheet_id, sheet_gid,
			zight_account, total_recipients, status, error_message,
			submitted_by, notes, started_at, completed_at,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		campaign.SheetURL(),
		campaign.SpreadsheetID(),
		campaign.SheetGID(),
		campaign.ZightAccount(),
		campaign.TotalRecipients(),
		campaign.Status(),
		campaign.ErrorMessage(),
		campaign.SubmittedBy(),
		campaign.Notes(),
		campaign.StartedAt(),
		campaign.CompletedAt(),
		campaign.CreatedAt(),
		campaign.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert campaign: %w", err)
	}

	return nil
}

// Get retrieves a campaign by ID, excluding soft-deleted campaigns
func (r *CampaignRepository) Get(id string) (*models.Campaign, error) {
	query := campaignSelect + " WHERE id = ? AND deleted_at IS NULL"

	rows, err := r.db.Query(query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query campaign: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		return nil, fmt.Errorf("campaign not found")
	}

	return r.scanRow(rows)
}

// Update modifies an existing campaign in the database
func (r *CampaignRepository) Update(campaign *models.Campaign) error {
	if err := campaign.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	campaign.SetUpdatedAt(now)

	query := `
		UPDATE campaigns
		SET total_recipients = ?, status = ?, error_message = ?,
			submitted_by = ?, notes = ?, started_at = ?,
			completed_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		campaign.TotalRecipients(),
		campaign.Status(),
		campaign.ErrorMessage(),
		campaign.SubmittedBy(),
		campaign.Notes(),
		campaign.StartedAt(),
		campaign.CompletedAt(),
		now,
		campaign.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update campaign: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("campaign not found or already deleted: %s", campaign.ID())
	}

	return nil
}

// Delete soft-deletes a campaign by ID
func (r *CampaignRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE campaigns
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("campaign not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all campaigns matching the given criteria, excluding soft-deleted campaigns
func (r *CampaignRepository) List(criteria map[string]any) ([]*models.Campaign, error) {
	query := campaignSelect + " WHERE deleted_at IS NULL"
	args := []any{}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	if account, ok := criteria["zight_account"].(string); ok && account != "" {
		query += " AND zight_account = ?"
		args = append(args, account)
	}

	if submittedBy, ok := criteria["submitted_by"].(string); ok && submittedBy != "" {
		query += " AND submitted_by = ?"
		args = append(args, submittedBy)
	}

	query += " ORDER BY sequence DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []*models.Campaign
	for rows.Next() {
		campaign, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, campaign)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return campaigns, nil
}

// CampaignStats holds per-campaign delivery counts.
type CampaignStats struct {
	CampaignID string `json:"campaignId"`
	Sent       int    `json:"sent"`
	Failed     int    `json:"failed"`
}

// Stats returns the sent and failed share counts for a campaign.
func (r *CampaignRepository) Stats(campaignID string) (*CampaignStats, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'sent' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'failed' THEN 1 ELSE 0 END), 0)
		FROM video_shares
		WHERE campaign_id = ? AND deleted_at IS NULL
	`

	stats := &CampaignStats{CampaignID: campaignID}
	if err := r.db.QueryRow(query, campaignID).Scan(&stats.Sent, &stats.Failed); err != nil {
		return nil, fmt.Errorf("failed to query campaign stats: %w", err)
	}

	return stats, nil
}

const campaignSelect = `
	SELECT
		id, sequence, sheet_url, spreadsheet_id, sheet_gid,
		zight_account, total_recipients, status, error_message,
		submitted_by, notes, started_at, completed_at,
		created_at, updated_at, deleted_at
	FROM campaigns
`

// scanRow scans a row from [sql.Rows] into a [models.Campaign]
func (r *CampaignRepository) scanRow(rows *sql.Rows) (*models.Campaign, error) {
	var (
		id              string
		sequence        int
		sheetURL        string
		spreadsheetID   string
		sheetGID        string
		zightAccount    string
		totalRecipients int
		status          string
		errorMessage    string
		submittedBy     string
		notes           string
		startedAt       sql.NullTime
		completedAt     sql.NullTime
		createdAt       time.Time
		updatedAt       time.Time
		deletedAt       sql.NullTime
	)

	err := rows.Scan(
		&id, &sequence, &sheetURL, &spreadsheetID, &sheetGID,
		&zightAccount, &totalRecipients, &status, &errorMessage,
		&submittedBy, &notes, &startedAt, &completedAt,
		&createdAt, &updatedAt, &deletedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan campaign: %w", err)
	}

	campaign := models.NewCampaign(sequence, sheetURL, spreadsheetID, sheetGID, zightAccount)
	campaign.SetID(id)
	campaign.SetTotalRecipients(totalRecipients)
	campaign.SetStatus(status)
	campaign.SetErrorMessage(errorMessage)
	campaign.SetSubmittedBy(submittedBy)
	campaign.SetNotes(notes)
	campaign.SetCreatedAt(createdAt)
	campaign.SetUpdatedAt(updatedAt)

	if startedAt.Valid {
		campaign.SetStartedAt(&startedAt.Time)
	}
	if completedAt.Valid {
		campaign.SetCompletedAt(&completedAt.Time)
	}
	if deletedAt.Valid {
		campaign.SetDeletedAt(&deletedAt.Time)
	}

	return campaign, nil
}
