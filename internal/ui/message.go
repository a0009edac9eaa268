package ui

import (
	"github.com/carrotlabs/zshare/internal/models"
	"github.com/carrotlabs/zshare/internal/repositories"
)

// campaignsFetchedMsg carries the campaign list loaded from the store.
type campaignsFetchedMsg struct {
	campaigns []*models.Campaign
	err       error
}

// sharesFetchedMsg carries one campaign's share outcomes and counts.
type sharesFetchedMsg struct {
	campaign *models.Campaign
	shares   []*models.ShareRecord
	stats    *repositories.CampaignStats
	err      error
}

// exportDoneMsg reports where the CSV export landed.
type exportDoneMsg struct {
	path string
	err  error
}
