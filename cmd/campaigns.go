package main

import (
	"context"
	"fmt"

	"github.com/carrotlabs/zshare/internal/formatter"
	"github.com/carrotlabs/zshare/internal/shared"
	"github.com/urfave/cli/v3"
)

// CampaignsList prints recorded campaigns, optionally filtered by status.
func (r *Runner) CampaignsList(ctx context.Context, cmd *cli.Command) error {
	r.loadConfigFlag(cmd)

	db, closeDB, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeDB()
	campaigns, _ := r.campaignRepos(db)

	criteria := map[string]any{}
	if status := cmd.String("status"); status != "" {
		criteria["status"] = status
	}

	records, err := campaigns.List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		summaries := make([]map[string]any, 0, len(records))
		for _, c := range records {
			summaries = append(summaries, map[string]any{
				"id":         c.ID(),
				"status":     c.Status(),
				"recipients": c.TotalRecipients(),
				"account":    c.ZightAccount(),
			})
		}
		return r.writeJSON(summaries, cmd.Bool("pretty"))
	}

	r.output.Write(formatter.CampaignsToText(records))
	return nil
}

// CampaignShares prints per-recipient outcomes for one campaign.
func (r *Runner) CampaignShares(ctx context.Context, cmd *cli.Command) error {
	r.loadConfigFlag(cmd)

	campaignID := cmd.String("id")
	if campaignID == "" {
		return fmt.Errorf("%w: campaign id", shared.ErrMissingArgument)
	}

	db, closeDB, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeDB()
	campaigns, shares := r.campaignRepos(db)

	campaign, err := campaigns.Get(campaignID)
	if err != nil {
		return err
	}

	records, err := shares.List(map[string]any{"campaign_id": campaignID})
	if err != nil {
		return err
	}

	if output := cmd.String("export"); output != "" {
		path, err := formatter.WriteShareExport(campaign, records, output)
		if err != nil {
			return err
		}
		r.writePlain("Exported %d shares to %s\n", len(records), path)
		return nil
	}

	if cmd.Bool("markdown") {
		r.output.Write(formatter.CampaignToMarkdown(campaign, records))
		return nil
	}

	r.output.Write(formatter.SharesToText(records))
	return nil
}

// CampaignStats prints sent and failed counts for one campaign.
func (r *Runner) CampaignStats(ctx context.Context, cmd *cli.Command) error {
	r.loadConfigFlag(cmd)

	campaignID := cmd.String("id")
	if campaignID == "" {
		return fmt.Errorf("%w: campaign id", shared.ErrMissingArgument)
	}

	db, closeDB, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeDB()
	campaigns, _ := r.campaignRepos(db)

	stats, err := campaigns.Stats(campaignID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(stats, cmd.Bool("pretty"))
	}

	r.output.Write(formatter.StatsToText(stats))
	return nil
}
