package ui

import (
	"fmt"

	"github.com/carrotlabs/zshare/internal/models"
	"github.com/charmbracelet/bubbles/list"
)

var (
	_ list.Item = campaignItem{}
	_ list.Item = shareItem{}
)

// campaignItem wraps [models.Campaign] to implement [list.Item].
type campaignItem struct {
	campaign *models.Campaign
}

func (i campaignItem) FilterValue() string { return i.campaign.ZightAccount() }
func (i campaignItem) Title() string {
	return fmt.Sprintf("%s (%s)", i.campaign.ID(), i.campaign.Status())
}
func (i campaignItem) Description() string {
	desc := fmt.Sprintf("%d recipients • %s", i.campaign.TotalRecipients(), i.campaign.ZightAccount())
	if i.campaign.ErrorMessage() != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.campaign.ErrorMessage())
	}
	return desc
}

// shareItem wraps [models.ShareRecord] to implement [list.Item].
type shareItem struct {
	share *models.ShareRecord
}

func (i shareItem) FilterValue() string { return i.share.Email() }
func (i shareItem) Title() string       { return i.share.Email() }
func (i shareItem) Description() string {
	desc := i.share.Status()
	if i.share.ErrorMessage() != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.share.ErrorMessage())
	}
	return desc
}
