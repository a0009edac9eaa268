package models

import (
	"fmt"
	"time"
)

// Campaign status values.
const (
	CampaignStatusPending    = "pending"
	CampaignStatusInProgress = "in_progress"
	CampaignStatusCompleted  = "completed"
	CampaignStatusFailed     = "failed"
)

// Campaign represents one bulk share run: a recipient sheet distributed
// to the invitee list of a single Zight asset.
type Campaign struct {
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
	startedAt       *time.Time
	completedAt     *time.Time
	createdAt       time.Time
	updatedAt       time.Time
	deletedAt       *time.Time
}

// NewCampaign creates a pending Campaign for the given sheet and account.
func NewCampaign(sequence int, sheetURL, spreadsheetID, sheetGID, zightAccount string) *Campaign {
	now := time.Now()
	return &Campaign{
		sequence:      sequence,
		sheetURL:      sheetURL,
		spreadsheetID: spreadsheetID,
		sheetGID:      sheetGID,
		zightAccount:  zightAccount,
		status:        CampaignStatusPending,
		createdAt:     now,
		updatedAt:     now,
	}
}

func (c *Campaign) ID() string            { return c.id }
func (c *Campaign) Sequence() int         { return c.sequence }
func (c *Campaign) SheetURL() string      { return c.sheetURL }
func (c *Campaign) SpreadsheetID() string { return c.spreadsheetID }
func (c *Campaign) SheetGID() string      { return c.sheetGID }
func (c *Campaign) ZightAccount() string  { return c.zightAccount }
func (c *Campaign) TotalRecipients() int  { return c.totalRecipients }
func (c *Campaign) Status() string        { return c.status }
func (c *Campaign) ErrorMessage() string  { return c.errorMessage }
func (c *Campaign) SubmittedBy() string   { return c.submittedBy }
func (c *Campaign) Notes() string         { return c.notes }
func (c *Campaign) StartedAt() *time.Time { return c.startedAt }
func (c *Campaign) CompletedAt() *time.Time { return c.completedAt }
func (c *Campaign) CreatedAt() time.Time  { return c.createdAt }
func (c *Campaign) UpdatedAt() time.Time  { return c.updatedAt }
func (c *Campaign) DeletedAt() *time.Time { return c.deletedAt }

func (c *Campaign) SetID(id string)                  { c.id = id }
func (c *Campaign) SetSequence(sequence int)         { c.sequence = sequence }
func (c *Campaign) SetTotalRecipients(n int)         { c.totalRecipients = n }
func (c *Campaign) SetStatus(status string)          { c.status = status }
func (c *Campaign) SetErrorMessage(msg string)       { c.errorMessage = msg }
func (c *Campaign) SetSubmittedBy(by string)         { c.submittedBy = by }
func (c *Campaign) SetNotes(notes string)            { c.notes = notes }
func (c *Campaign) SetStartedAt(t *time.Time)        { c.startedAt = t }
func (c *Campaign) SetCompletedAt(t *time.Time)      { c.completedAt = t }
func (c *Campaign) SetCreatedAt(t time.Time)         { c.createdAt = t }
func (c *Campaign) SetUpdatedAt(t time.Time)         { c.updatedAt = t }
func (c *Campaign) SetDeletedAt(t *time.Time)        { c.deletedAt = t }

// Start marks the campaign as running.
func (c *Campaign) Start() {
	now := time.Now()
	c.status = CampaignStatusInProgress
	c.startedAt = &now
	c.updatedAt = now
}

// Complete marks the campaign as finished. A non-empty errMsg marks it failed.
func (c *Campaign) Complete(errMsg string) {
	now := time.Now()
	if errMsg == "" {
		c.status = CampaignStatusCompleted
	} else {
		c.status = CampaignStatusFailed
		c.errorMessage = errMsg
	}
	c.completedAt = &now
	c.updatedAt = now
}

// Validate checks that the campaign's data is internally consistent.
func (c *Campaign) Validate() error {
	if c.sheetURL == "" {
		return fmt.Errorf("campaign sheet URL is required")
	}
	switch c.status {
	case CampaignStatusPending, CampaignStatusInProgress, CampaignStatusCompleted, CampaignStatusFailed:
	default:
		return fmt.Errorf("invalid campaign status: %s", c.status)
	}
	if c.totalRecipients < 0 {
		return fmt.Errorf("total recipients cannot be negative")
	}
	return nil
}
