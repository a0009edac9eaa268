// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a two-view browser over the campaign store:
//  1. [CampaignListView] : Browse recorded share campaigns
//  2. [ShareListView] : Inspect per-recipient outcomes with sent/failed counts
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Campaigns and shares load asynchronously from the SQLite repositories via tea.Cmd closures,
// and a share list can be exported to CSV in place.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, r, e, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
