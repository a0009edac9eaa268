package main

import (
	"context"
	"fmt"

	"github.com/carrotlabs/zshare/internal/shared"
	"github.com/carrotlabs/zshare/internal/sheets"
	"github.com/carrotlabs/zshare/internal/tasks"
	"github.com/urfave/cli/v3"
)

// SheetPreview fetches the recipient list and prints it without running
// any automation, so a sheet can be checked before a campaign.
func (r *Runner) SheetPreview(ctx context.Context, cmd *cli.Command) error {
	r.loadConfigFlag(cmd)

	sheetURL := cmd.String("sheet")
	if sheetURL == "" {
		sheetURL = r.config.Sheet.URL
	}
	if sheetURL == "" {
		return fmt.Errorf("%w: sheet URL (flag --sheet or [sheet] url)", shared.ErrMissingArgument)
	}

	source, err := sheets.ParseSheetURL(sheetURL)
	if err != nil {
		return err
	}
	if gid := cmd.String("gid"); gid != "" {
		source.GID = gid
	}
	source.Column = r.config.Sheet.Column
	if column := cmd.String("column"); column != "" {
		source.Column = column
	}

	recipients, err := r.loader.Load(ctx, source)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"spreadsheetId": source.SpreadsheetID,
			"gid":           source.GID,
			"column":        source.Column,
			"recipients":    recipients,
		}, cmd.Bool("pretty"))
	}

	batchSize := r.config.Share.BatchSize
	batches := tasks.Partition(recipients, batchSize)

	r.writePlainHeader(fmt.Sprintf("Sheet %s (gid %s)", source.SpreadsheetID, source.GID))
	r.writePlain("Recipients: %d (in %d batches of up to %d)\n\n", len(recipients), len(batches), batchSize)
	for i, email := range recipients {
		r.writePlain("%3d. %s\n", i+1, email)
	}

	return nil
}
