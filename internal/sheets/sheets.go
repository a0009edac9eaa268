// Package sheets loads recipient email lists from public Google Sheets
// CSV exports.
package sheets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/carrotlabs/zshare/internal/shared"
	"github.com/charmbracelet/log"
)

// Source identifies one sheet tab and the column holding recipients.
type Source struct {
	SpreadsheetID string
	GID           string
	Column        string
}

// ExportURL returns the public CSV export endpoint for the source.
func (s Source) ExportURL() string {
	gid := s.GID
	if gid == "" {
		gid = "0"
	}
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv&gid=%s", s.SpreadsheetID, gid)
}

var sheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// ParseSheetURL extracts the spreadsheet ID and tab GID from a Google
// Sheets URL. Accepts edit URLs with a #gid fragment, URLs with a gid
// query parameter, and bare /d/{id} URLs (GID defaults to "0").
func ParseSheetURL(rawURL string) (Source, error) {
	m := sheetIDPattern.FindStringSubmatch(rawURL)
	if m == nil {
		return Source{}, fmt.Errorf("%w: not a Google Sheets URL: %s", shared.ErrInvalidInput, rawURL)
	}

	src := Source{SpreadsheetID: m[1], GID: "0"}

	if u, err := url.Parse(rawURL); err == nil {
		if gid := u.Query().Get("gid"); gid != "" {
			src.GID = gid
		}
		if idx := strings.Index(u.Fragment, "gid="); idx >= 0 {
			frag := u.Fragment[idx+len("gid="):]
			if amp := strings.IndexAny(frag, "&#"); amp >= 0 {
				frag = frag[:amp]
			}
			if frag != "" {
				src.GID = frag
			}
		}
	}

	return src, nil
}

// Loader fetches and parses recipient sheets.
type Loader struct {
	httpClient *http.Client
	logger     *log.Logger
}

// NewLoader creates a Loader. A nil client falls back to http.DefaultClient.
func NewLoader(client *http.Client, logger *log.Logger) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{httpClient: client, logger: logger}
}

// Load fetches the sheet's CSV export and returns the deduplicated,
// normalized recipient list from the source's column. A fetch failure or
// empty body is fatal; a sheet that fetches fine but yields no valid
// recipients returns an empty list and nil error.
func (l *Loader) Load(ctx context.Context, src Source) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.ExportURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrSourceUnavailable, err)
	}
	// Google serves the export without auth but rejects obviously
	// non-browser agents on some tenants.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch failed: %v", shared.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: export returned status %d", shared.ErrSourceUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading export body: %v", shared.ErrSourceUnavailable, err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, fmt.Errorf("%w: export body is empty", shared.ErrSourceUnavailable)
	}

	return l.extract(string(body), src.Column)
}

// extract pulls the recipient column out of parsed CSV content.
func (l *Loader) extract(content, column string) ([]string, error) {
	rows := parseCSV(content)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet has no rows", shared.ErrSourceUnavailable)
	}

	if column == "" {
		column = "email"
	}

	header := rows[0]
	colIdx := -1
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), column) {
			colIdx = i
			break
		}
	}
	if colIdx < 0 {
		return nil, fmt.Errorf("%w: %q not among headers [%s]", shared.ErrColumnNotFound, column, strings.Join(header, ", "))
	}

	seen := make(map[string]bool)
	var recipients []string
	for rowNum, row := range rows[1:] {
		if colIdx >= len(row) {
			continue
		}
		value := shared.NormalizeEmail(row[colIdx])
		if value == "" {
			continue
		}
		if !shared.ValidEmail(value) {
			l.logger.Warn("skipping invalid email", "row", rowNum+2, "value", value)
			continue
		}
		if seen[value] {
			continue
		}
		seen[value] = true
		recipients = append(recipients, value)
	}

	return recipients, nil
}

// parseCSV splits CSV content into rows of trimmed fields. The parser is
// deliberately minimal: a quote toggles in-quote state, a doubled quote
// inside quotes emits a literal quote, and commas split fields only
// outside quotes. Blank lines are skipped.
func parseCSV(content string) [][]string {
	lines := splitLines(content)

	var rows [][]string
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		var fields []string
		var field strings.Builder
		inQuotes := false

		for i := 0; i < len(line); i++ {
			ch := line[i]
			switch {
			case ch == '"' && inQuotes && i+1 < len(line) && line[i+1] == '"':
				field.WriteByte('"')
				i++
			case ch == '"':
				inQuotes = !inQuotes
			case ch == ',' && !inQuotes:
				fields = append(fields, strings.TrimSpace(field.String()))
				field.Reset()
			default:
				field.WriteByte(ch)
			}
		}
		fields = append(fields, strings.TrimSpace(field.String()))
		rows = append(rows, fields)
	}

	return rows
}

// splitLines splits on LF, tolerating CRLF endings.
func splitLines(content string) []string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
