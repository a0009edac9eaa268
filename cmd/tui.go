package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/carrotlabs/zshare/internal/shared"
	"github.com/carrotlabs/zshare/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive campaign browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	r.loadConfigFlag(cmd)

	db, closeDB, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeDB()
	campaigns, shares := r.campaignRepos(db)

	// Redirect logs to file to avoid interfering with TUI rendering
	logPath := filepath.Join("tmp", "zshare-tui.log")
	fileLogger, logFile, err := shared.NewFileLogger(logPath)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer logFile.Close()
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, campaigns, shares)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
