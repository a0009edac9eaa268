package ui

import (
	"context"
	"fmt"

	"github.com/carrotlabs/zshare/internal/formatter"
	"github.com/carrotlabs/zshare/internal/models"
	"github.com/carrotlabs/zshare/internal/repositories"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	CampaignListView ViewState = iota
	ShareListView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	campaigns    *repositories.CampaignRepository
	shares       *repositories.ShareRepository
	width        int
	height       int
	campaignList list.Model
	shareList    list.Model
	selected     *models.Campaign
	stats        *repositories.CampaignStats
	shareRecords []*models.ShareRecord
	exportPath   string
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model backed by the campaign store.
func NewModel(ctx context.Context, campaigns *repositories.CampaignRepository, shares *repositories.ShareRepository) *Model {
	return &Model{
		ctx:       ctx,
		view:      CampaignListView,
		campaigns: campaigns,
		shares:    shares,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init initializes the TUI by loading campaigns from the store.
func (m *Model) Init() tea.Cmd {
	return m.fetchCampaigns()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.campaignList.Width() == 0 {
			m.campaignList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.shareList.Width() == 0 {
			m.shareList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case CampaignListView:
			return m.handleCampaignListKeys(msg)
		case ShareListView:
			return m.handleShareListKeys(msg)
		}

	case campaignsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		items := make([]list.Item, len(msg.campaigns))
		for i, c := range msg.campaigns {
			items[i] = campaignItem{campaign: c}
		}
		m.campaignList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.campaignList.Title = "Share Campaigns"
		m.campaignList.SetSize(m.width-4, m.height-8)
		return m, nil

	case sharesFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = CampaignListView
			return m, nil
		}
		m.selected = msg.campaign
		m.stats = msg.stats
		m.shareRecords = msg.shares
		m.exportPath = ""
		items := make([]list.Item, len(msg.shares))
		for i, s := range msg.shares {
			items[i] = shareItem{share: s}
		}
		m.shareList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.shareList.Title = fmt.Sprintf("Shares in '%s'", msg.campaign.ID())
		m.shareList.SetSize(m.width-4, m.height-8)
		m.view = ShareListView
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.exportPath = msg.path
		}
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case CampaignListView:
		return m.renderCampaignList()
	case ShareListView:
		return m.renderShareList()
	default:
		return ""
	}
}

func (m *Model) handleCampaignListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		return m, m.fetchCampaigns()
	case "enter":
		selected := m.campaignList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(campaignItem); ok {
				return m, m.fetchShares(item.campaign)
			}
		}
	}

	var cmd tea.Cmd
	m.campaignList, cmd = m.campaignList.Update(msg)
	return m, cmd
}

func (m *Model) handleShareListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = CampaignListView
		return m, nil
	case "e":
		return m, m.exportShares()
	}

	var cmd tea.Cmd
	m.shareList, cmd = m.shareList.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case CampaignListView:
		m.campaignList, cmd = m.campaignList.Update(msg)
	case ShareListView:
		m.shareList, cmd = m.shareList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchCampaigns() tea.Cmd {
	return func() tea.Msg {
		campaigns, err := m.campaigns.List(nil)
		return campaignsFetchedMsg{campaigns: campaigns, err: err}
	}
}

func (m *Model) fetchShares(campaign *models.Campaign) tea.Cmd {
	return func() tea.Msg {
		shares, err := m.shares.List(map[string]any{"campaign_id": campaign.ID()})
		if err != nil {
			return sharesFetchedMsg{err: err}
		}
		stats, err := m.campaigns.Stats(campaign.ID())
		return sharesFetchedMsg{campaign: campaign, shares: shares, stats: stats, err: err}
	}
}

func (m *Model) exportShares() tea.Cmd {
	campaign := m.selected
	shares := m.shareRecords
	return func() tea.Msg {
		path, err := formatter.WriteShareExport(campaign, shares, "")
		return exportDoneMsg{path: path, err: err}
	}
}

func (m *Model) renderCampaignList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.refresh, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.campaignList.View(), helpView)
}

func (m *Model) renderShareList() string {
	var header string
	if m.stats != nil {
		sent := styles.ok.Render(fmt.Sprintf("%d sent", m.stats.Sent))
		failed := fmt.Sprintf("%d failed", m.stats.Failed)
		if m.stats.Failed > 0 {
			failed = styles.warn.Render(failed)
		}
		header = fmt.Sprintf("%s • %s", sent, failed)
	}

	var footer string
	if m.exportPath != "" {
		footer = styles.help.Render(fmt.Sprintf("exported to %s", m.exportPath))
	}

	helpKeys := []key.Binding{m.keys.export, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n%s\n%s\n%s", header, m.shareList.View(), footer, helpView)
}
