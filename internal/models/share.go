package models

import (
	"fmt"
	"time"
)

// Share record status values.
const (
	ShareStatusSent   = "sent"
	ShareStatusFailed = "failed"
)

// ShareRecord represents the outcome of sharing the asset with a single
// recipient within a campaign.
type ShareRecord struct {
	id           string
	sequence     int
	campaignID   string
	email        string
	zightAccount string
	sheetLink    string
	status       string
	errorMessage string
	sharedAt     *time.Time
	createdAt    time.Time
	updatedAt    time.Time
	deletedAt    *time.Time
}

// NewShareRecord creates a ShareRecord for the given campaign and recipient.
func NewShareRecord(sequence int, campaignID, email, zightAccount string) *ShareRecord {
	now := time.Now()
	return &ShareRecord{
		sequence:     sequence,
		campaignID:   campaignID,
		email:        email,
		zightAccount: zightAccount,
		status:       ShareStatusSent,
		createdAt:    now,
		updatedAt:    now,
	}
}

func (s *ShareRecord) ID() string            { return s.id }
func (s *ShareRecord) Sequence() int         { return s.sequence }
func (s *ShareRecord) CampaignID() string    { return s.campaignID }
func (s *ShareRecord) Email() string         { return s.email }
func (s *ShareRecord) ZightAccount() string  { return s.zightAccount }
func (s *ShareRecord) SheetLink() string     { return s.sheetLink }
func (s *ShareRecord) Status() string        { return s.status }
func (s *ShareRecord) ErrorMessage() string  { return s.errorMessage }
func (s *ShareRecord) SharedAt() *time.Time  { return s.sharedAt }
func (s *ShareRecord) CreatedAt() time.Time  { return s.createdAt }
func (s *ShareRecord) UpdatedAt() time.Time  { return s.updatedAt }
func (s *ShareRecord) DeletedAt() *time.Time { return s.deletedAt }

func (s *ShareRecord) SetID(id string)           { s.id = id }
func (s *ShareRecord) SetSequence(sequence int)  { s.sequence = sequence }
func (s *ShareRecord) SetSheetLink(link string)  { s.sheetLink = link }
func (s *ShareRecord) SetStatus(status string)   { s.status = status }
func (s *ShareRecord) SetErrorMessage(msg string) { s.errorMessage = msg }
func (s *ShareRecord) SetSharedAt(t *time.Time)  { s.sharedAt = t }
func (s *ShareRecord) SetCreatedAt(t time.Time)  { s.createdAt = t }
func (s *ShareRecord) SetUpdatedAt(t time.Time)  { s.updatedAt = t }
func (s *ShareRecord) SetDeletedAt(t *time.Time) { s.deletedAt = t }

// MarkSent records a successful delivery at the current time.
func (s *ShareRecord) MarkSent() {
	now := time.Now()
	s.status = ShareStatusSent
	s.sharedAt = &now
	s.updatedAt = now
}

// MarkFailed records a failed delivery with the provider's message.
func (s *ShareRecord) MarkFailed(msg string) {
	now := time.Now()
	s.status = ShareStatusFailed
	s.errorMessage = msg
	s.updatedAt = now
}

// Validate checks that the share record's data is internally consistent.
func (s *ShareRecord) Validate() error {
	if s.campaignID == "" {
		return fmt.Errorf("share record campaign ID is required")
	}
	if s.email == "" {
		return fmt.Errorf("share record email is required")
	}
	switch s.status {
	case ShareStatusSent, ShareStatusFailed:
	default:
		return fmt.Errorf("invalid share status: %s", s.status)
	}
	return nil
}
