// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// runCommand executes a share campaign end to end
func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Share the dashboard video with every recipient in the sheet",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "sheet",
				Usage: "Google Sheets URL holding the recipient list",
			},
			&cli.StringFlag{
				Name:  "gid",
				Usage: "Sheet tab GID (overrides the URL's)",
			},
			&cli.StringFlag{
				Name:  "column",
				Usage: "Header of the email column",
			},
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "Recipients per share batch",
			},
			&cli.BoolFlag{
				Name:  "headless",
				Usage: "Run the local browser headless",
			},
			&cli.BoolFlag{
				Name:  "remote",
				Usage: "Use a Browserbase cloud session",
			},
			&cli.StringFlag{
				Name:  "submitted-by",
				Usage: "Who or what triggered this run",
			},
		},
		Action: r.Run,
	}
}

// serveCommand starts the webhook trigger server
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the webhook server for remote triggers",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on",
			},
		},
		Action: r.Serve,
	}
}

// sheetCommand handles recipient sheet operations
func sheetCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sheet",
		Usage: "Recipient sheet operations",
		Commands: []*cli.Command{
			{
				Name:  "preview",
				Usage: "Fetch and list recipients without sharing",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "sheet",
						Usage: "Google Sheets URL holding the recipient list",
					},
					&cli.StringFlag{
						Name:  "gid",
						Usage: "Sheet tab GID (overrides the URL's)",
					},
					&cli.StringFlag{
						Name:  "column",
						Usage: "Header of the email column",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.SheetPreview,
			},
		},
	}
}

// campaignsCommand queries the campaign store
func campaignsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "campaigns",
		Usage: "Query recorded campaigns and share outcomes",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List campaigns",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "status",
						Usage: "Filter by status (pending, in_progress, completed, failed)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.CampaignsList,
			},
			{
				Name:  "shares",
				Usage: "Show per-recipient outcomes for a campaign",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Campaign ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "export",
						Usage: "Write a CSV export with this base filename",
					},
					&cli.BoolFlag{
						Name:  "markdown",
						Usage: "Render a Markdown report",
					},
				},
				Action: r.CampaignShares,
			},
			{
				Name:  "stats",
				Usage: "Show sent and failed counts for a campaign",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Campaign ID",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.CampaignStats,
			},
		},
	}
}

// setupCommand handles store and config bootstrap
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize the database or write a config template",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create the SQLite store and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write the example configuration file",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// tuiCommand launches the interactive campaign browser
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Browse campaigns and share outcomes interactively",
		Flags:  []cli.Flag{configFlag()},
		Action: r.TUI,
	}
}
