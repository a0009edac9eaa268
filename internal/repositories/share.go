package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/carrotlabs/zshare/internal/models"
	"github.com/carrotlabs/zshare/internal/shared"
)

// ShareRepository implements models.Repository[*models.ShareRecord] for per-recipient outcomes.
type ShareRepository struct {
	db *sql.DB
}

// NewShareRepository creates a new ShareRepository with the given database connection
func NewShareRepository(db *sql.DB) *ShareRepository {
	return &ShareRepository{db: db}
}

// Create inserts a new share record into the database with generated ID and sequence
func (r *ShareRepository) Create(record *models.ShareRecord) error {
	sequence, err := NextSequence(r.db, "video_shares")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	record.SetID(id)
	record.SetSequence(sequence)

	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO video_shares (
			id, sequence, campaign_id, email, zight_account,
			sheet_link, status, error_message, shared_at,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		record.CampaignID(),
		record.Email(),
		record.ZightAccount(),
		record.SheetLink(),
		record.Status(),
		record.ErrorMessage(),
		record.SharedAt(),
		record.CreatedAt(),
		record.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert share record: %w", err)
	}

	return nil
}

// CreateBatch inserts a slice of share records in one transaction.
func (r *ShareRepository) CreateBatch(records []*models.ShareRecord) error {
	for _, record := range records {
		if err := r.Create(record); err != nil {
			return err
		}
	}
	return nil
}

// Get retrieves a share record by ID, excluding soft-deleted records
func (r *ShareRepository) Get(id string) (*models.ShareRecord, error) {
	query := shareSelect + " WHERE id = ? AND deleted_at IS NULL"

	rows, err := r.db.Query(query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query share record: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to scan share record: %w", err)
		}
		return nil, fmt.Errorf("share record not found")
	}

	return r.scanRow(rows)
}

// Update modifies an existing share record in the database
func (r *ShareRepository) Update(record *models.ShareRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	record.SetUpdatedAt(now)

	query := `
		UPDATE video_shares
		SET status = ?, error_message = ?, sheet_link = ?,
			shared_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		record.Status(),
		record.ErrorMessage(),
		record.SheetLink(),
		record.SharedAt(),
		now,
		record.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update share record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("share record not found or already deleted: %s", record.ID())
	}

	return nil
}

// Delete soft-deletes a share record by ID
func (r *ShareRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE video_shares
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete share record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("share record not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all share records matching the given criteria, excluding soft-deleted records
func (r *ShareRepository) List(criteria map[string]any) ([]*models.ShareRecord, error) {
	query := shareSelect + " WHERE deleted_at IS NULL"
	args := []any{}

	if campaignID, ok := criteria["campaign_id"].(string); ok && campaignID != "" {
		query += " AND campaign_id = ?"
		args = append(args, campaignID)
	}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	if email, ok := criteria["email"].(string); ok && email != "" {
		query += " AND email = ?"
		args = append(args, email)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query share records: %w", err)
	}
	defer rows.Close()

	var records []*models.ShareRecord
	for rows.Next() {
		record, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

const shareSelect = `
	SELECT
		id, sequence, campaign_id, email, zight_account,
		sheet_link, status, error_message, shared_at,
		created_at, updated_at, deleted_at
	FROM video_shares
`

// scanRow scans a row from [sql.Rows] into a [models.ShareRecord]
func (r *ShareRepository) scanRow(rows *sql.Rows) (*models.ShareRecord, error) {
	var (
		id           string
		sequence     int
		campaignID   string
		email        string
		zightAccount string
		sheetLink    string
		status       string
		errorMessage string
		sharedAt     sql.NullTime
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    sql.NullTime
	)

	err := rows.Scan(
		&id, &sequence, &campaignID, &email, &zightAccount,
		&sheetLink, &status, &errorMessage, &sharedAt,
		&createdAt, &updatedAt, &deletedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan share record: %w", err)
	}

	record := models.NewShareRecord(sequence, campaignID, email, zightAccount)
	record.SetID(id)
	record.SetSheetLink(sheetLink)
	record.SetStatus(status)
	record.SetErrorMessage(errorMessage)
	record.SetCreatedAt(createdAt)
	record.SetUpdatedAt(updatedAt)

	if sharedAt.Valid {
		record.SetSharedAt(&sharedAt.Time)
	}
	if deletedAt.Valid {
		record.SetDeletedAt(&deletedAt.Time)
	}

	return record, nil
}
