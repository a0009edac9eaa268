// package formatter renders campaign and share data as text tables, CSV,
// and Markdown for the CLI
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/carrotlabs/zshare/internal/models"
	"github.com/carrotlabs/zshare/internal/repositories"
)

const timeLayout = "2006-01-02 15:04"

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(timeLayout)
}

// CampaignsToText renders campaigns as an aligned table, one row each.
func CampaignsToText(campaigns []*models.Campaign) []byte {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "ID\tSTATUS\tRECIPIENTS\tACCOUNT\tSTARTED\tCOMPLETED")
	for _, c := range campaigns {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
			c.ID(),
			c.Status(),
			c.TotalRecipients(),
			c.ZightAccount(),
			formatTime(c.StartedAt()),
			formatTime(c.CompletedAt()),
		)
	}
	w.Flush()

	return buf.Bytes()
}

// SharesToText renders share records as an aligned table.
func SharesToText(shares []*models.ShareRecord) []byte {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "EMAIL\tSTATUS\tSHARED\tERROR")
	for _, s := range shares {
		errMsg := s.ErrorMessage()
		if errMsg == "" {
			errMsg = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Email(), s.Status(), formatTime(s.SharedAt()), errMsg)
	}
	w.Flush()

	return buf.Bytes()
}

// SharesToCSV converts share records to CSV with columns: Email, Status, SharedAt, Error
func SharesToCSV(shares []*models.ShareRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Email", "Status", "SharedAt", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, s := range shares {
		sharedAt := ""
		if s.SharedAt() != nil {
			sharedAt = s.SharedAt().Format(time.RFC3339)
		}
		record := []string{s.Email(), s.Status(), sharedAt, s.ErrorMessage()}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// StatsToText renders per-campaign delivery counts.
func StatsToText(stats *repositories.CampaignStats) []byte {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "CAMPAIGN\tSENT\tFAILED\tTOTAL")
	fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", stats.CampaignID, stats.Sent, stats.Failed, stats.Sent+stats.Failed)
	w.Flush()

	return buf.Bytes()
}

// CampaignToMarkdown renders a campaign report with its share outcomes.
func CampaignToMarkdown(campaign *models.Campaign, shares []*models.ShareRecord) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Campaign %s\n\n", campaign.ID()))
	buf.WriteString(fmt.Sprintf("**Status**: %s\n", campaign.Status()))
	buf.WriteString(fmt.Sprintf("**Sheet**: %s\n", campaign.SheetURL()))
	buf.WriteString(fmt.Sprintf("**Account**: %s\n", campaign.ZightAccount()))
	buf.WriteString(fmt.Sprintf("**Recipients**: %d\n", campaign.TotalRecipients()))
	if campaign.ErrorMessage() != "" {
		buf.WriteString(fmt.Sprintf("**Error**: %s\n", campaign.ErrorMessage()))
	}
	buf.WriteString("\n## Shares\n\n")

	for i, s := range shares {
		status := s.Status()
		if s.ErrorMessage() != "" {
			status = fmt.Sprintf("%s (%s)", status, s.ErrorMessage())
		}
		buf.WriteString(fmt.Sprintf("%s. %s - %s\n", strconv.Itoa(i+1), s.Email(), status))
	}

	return buf.Bytes()
}

// WriteShareExport writes a campaign's shares to {base}_shares.csv.
//
// Defaults to the campaign ID as the base filename.
func WriteShareExport(campaign *models.Campaign, shares []*models.ShareRecord, baseFilepath string) (string, error) {
	if baseFilepath == "" {
		baseFilepath = campaign.ID()
	}

	csvData, err := SharesToCSV(shares)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	outFile := baseFilepath + "_shares.csv"
	if err := os.WriteFile(outFile, csvData, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return outFile, nil
}
