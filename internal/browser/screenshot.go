package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Screenshotter captures diagnostic screenshots at failure points.
type Screenshotter interface {
	// Capture saves the page's current viewport under the given name and
	// returns the stored path. Failures are reported but callers treat
	// them as advisory.
	Capture(ctx context.Context, p Page, name string) (string, error)
}

// DirScreenshotter writes timestamped PNG files into a directory.
type DirScreenshotter struct {
	dir    string
	logger *log.Logger
}

// NewDirScreenshotter creates the directory if needed.
func NewDirScreenshotter(dir string, logger *log.Logger) (*DirScreenshotter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create screenshot dir: %w", err)
	}
	return &DirScreenshotter{dir: dir, logger: logger}, nil
}

func (d *DirScreenshotter) Capture(ctx context.Context, p Page, name string) (string, error) {
	buf, err := p.Screenshot(ctx)
	if err != nil {
		return "", err
	}

	path := filepath.Join(d.dir, fmt.Sprintf("%s-%d.png", name, time.Now().UnixMilli()))
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return "", fmt.Errorf("write screenshot: %w", err)
	}

	d.logger.Debug("captured screenshot", "path", path)
	return path, nil
}

// NopScreenshotter discards capture requests.
type NopScreenshotter struct{}

func (NopScreenshotter) Capture(context.Context, Page, string) (string, error) {
	return "", nil
}
