package repositories

import (
	"github.com/carrotlabs/zshare/internal/models"
	"github.com/carrotlabs/zshare/internal/zight"
	"github.com/charmbracelet/log"
)

// Reporter persists campaign progress and per-recipient outcomes.
//
// It implements tasks.Reporter. Persistence failures are logged and
// swallowed: recording must never abort an automation run that is
// already driving a live browser session.
type Reporter struct {
	campaigns *CampaignRepository
	shares    *ShareRepository
	account   string
	sheetLink string
	logger    *log.Logger
}

// NewReporter creates a Reporter writing outcomes for the given Zight account.
func NewReporter(campaigns *CampaignRepository, shares *ShareRepository, account, sheetLink string, logger *log.Logger) *Reporter {
	return &Reporter{
		campaigns: campaigns,
		shares:    shares,
		account:   account,
		sheetLink: sheetLink,
		logger:    logger,
	}
}

// ReportAttempts records one share record per attempt for the campaign.
func (r *Reporter) ReportAttempts(campaignID string, attempts []zight.ShareAttempt) {
	for _, attempt := range attempts {
		record := models.NewShareRecord(0, campaignID, attempt.Email, r.account)
		record.SetSheetLink(r.sheetLink)
		if attempt.Sent {
			record.MarkSent()
		} else {
			record.MarkFailed(attempt.Message)
		}

		if err := r.shares.Create(record); err != nil {
			r.logger.Warn("failed to record share attempt", "email", attempt.Email, "error", err)
		}
	}
}

// ReportCampaignStatus transitions the campaign's stored status.
func (r *Reporter) ReportCampaignStatus(campaignID, status, errMsg string) {
	campaign, err := r.campaigns.Get(campaignID)
	if err != nil {
		r.logger.Warn("failed to load campaign for status update", "campaign", campaignID, "error", err)
		return
	}

	switch status {
	case models.CampaignStatusInProgress:
		campaign.Start()
	case models.CampaignStatusCompleted:
		campaign.Complete("")
	case models.CampaignStatusFailed:
		campaign.Complete(errMsg)
	default:
		campaign.SetStatus(status)
		campaign.SetErrorMessage(errMsg)
	}

	if err := r.campaigns.Update(campaign); err != nil {
		r.logger.Warn("failed to update campaign status", "campaign", campaignID, "error", err)
	}
}

// ReportTotal records the recipient count once the sheet has been loaded.
func (r *Reporter) ReportTotal(campaignID string, total int) {
	campaign, err := r.campaigns.Get(campaignID)
	if err != nil {
		r.logger.Warn("failed to load campaign for total update", "campaign", campaignID, "error", err)
		return
	}

	campaign.SetTotalRecipients(total)
	if err := r.campaigns.Update(campaign); err != nil {
		r.logger.Warn("failed to update campaign total", "campaign", campaignID, "error", err)
	}
}
