package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/carrotlabs/zshare/internal/sheets"
	"github.com/carrotlabs/zshare/internal/zight"
	"github.com/charmbracelet/log"
)

// Job describes one triggered automation run.
type Job struct {
	ID          string
	SheetURL    string
	Source      sheets.Source
	Credentials zight.Credentials
	SubmittedBy string
	LogPath     string
}

// LaunchFunc starts a job in the background. The webhook returns to the
// caller immediately after launch.
type LaunchFunc func(job Job)

// TriggerRequest is the POST /api/trigger body.
type TriggerRequest struct {
	SheetURL      string `json:"sheetUrl"`
	ZightUsername string `json:"zightUsername"`
	ZightPassword string `json:"zightPassword"`
	SubmittedBy   string `json:"submittedBy,omitempty"`
}

// WebhookHandler serves the trigger API. Implements the [Handler]
// interface for registration with a [Router].
type WebhookHandler struct {
	logger  *log.Logger
	logDir  string
	launch  LaunchFunc
	started time.Time
}

// NewWebhookHandler creates the handler. logDir holds per-job log files
// and is created on first use.
func NewWebhookHandler(logDir string, launch LaunchFunc, logger *log.Logger) *WebhookHandler {
	return &WebhookHandler{
		logger:  logger,
		logDir:  logDir,
		launch:  launch,
		started: time.Now(),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *WebhookHandler) Routes() []string {
	return []string{"/", "/health", "/api/trigger", "/api/jobs", "/api/logs/"}
}

// ServeHTTP dispatches to the endpoint handlers.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	switch {
	case path == "/" && r.Method == http.MethodGet:
		h.handleStatus(w)
	case path == "/health" && r.Method == http.MethodGet:
		h.handleHealth(w)
	case path == "/api/trigger" && r.Method == http.MethodPost:
		h.handleTrigger(w, r)
	case path == "/api/jobs" && r.Method == http.MethodGet:
		h.handleJobs(w)
	case strings.HasPrefix(path, "/api/logs/") && r.Method == http.MethodGet:
		h.handleLogs(w, strings.TrimPrefix(path, "/api/logs/"))
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

func (h *WebhookHandler) handleStatus(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "online",
		"service":   "zshare webhook",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *WebhookHandler) handleHealth(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"uptime_seconds": int(time.Since(h.started).Seconds()),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}

// handleTrigger validates the request, launches the run in the
// background, and returns the job ID without waiting for completion.
func (h *WebhookHandler) handleTrigger(w http.ResponseWriter, r *http.Request) {
	var req TriggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"errors":  []string{"invalid JSON body"},
		})
		return
	}

	var errs []string
	var src sheets.Source
	if req.SheetURL == "" {
		errs = append(errs, "missing required parameter: sheetUrl")
	} else {
		parsed, err := sheets.ParseSheetURL(req.SheetURL)
		if err != nil {
			errs = append(errs, fmt.Sprintf("invalid sheetUrl: %v", err))
		} else {
			src = parsed
		}
	}
	if req.ZightUsername == "" {
		errs = append(errs, "missing required parameter: zightUsername")
	}
	if req.ZightPassword == "" {
		errs = append(errs, "missing required parameter: zightPassword")
	}
	if len(errs) > 0 {
		h.logger.Warn("trigger rejected", "errors", errs)
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"errors":  errs,
		})
		return
	}

	job := Job{
		ID:          NewJobID(),
		SheetURL:    req.SheetURL,
		Source:      src,
		Credentials: zight.Credentials{Username: req.ZightUsername, Password: req.ZightPassword},
		SubmittedBy: req.SubmittedBy,
	}
	job.LogPath = filepath.Join(h.logDir, job.ID+".log")

	h.logger.Info("triggering run",
		"job", job.ID,
		"spreadsheet", src.SpreadsheetID,
		"gid", src.GID,
		"user", req.ZightUsername,
	)

	h.launch(job)

	writeJSON(w, http.StatusAccepted, map[string]any{
		"success": true,
		"message": "automation started",
		"jobId":   job.ID,
	})
}

func (h *WebhookHandler) handleJobs(w http.ResponseWriter) {
	entries, err := os.ReadDir(h.logDir)
	if err != nil {
		// No runs yet means no directory.
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "jobs": []any{}})
		return
	}

	type jobInfo struct {
		JobID     string    `json:"jobId"`
		CreatedAt time.Time `json:"createdAt"`
		Size      int64     `json:"size"`
	}

	jobs := []jobInfo{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		jobs = append(jobs, jobInfo{
			JobID:     strings.TrimSuffix(entry.Name(), ".log"),
			CreatedAt: info.ModTime(),
			Size:      info.Size(),
		})
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].CreatedAt.After(jobs[j].CreatedAt) })

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "jobs": jobs})
}

func (h *WebhookHandler) handleLogs(w http.ResponseWriter, jobID string) {
	// Job IDs never contain path separators.
	if jobID == "" || jobID != filepath.Base(jobID) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "invalid job id",
		})
		return
	}

	content, err := os.ReadFile(filepath.Join(h.logDir, jobID+".log"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"success": false,
			"error":   "log file not found",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"jobId":   jobID,
		"logs":    string(content),
	})
}

// NewJobID returns a timestamp-derived job identifier, filesystem safe.
func NewJobID() string {
	stamp := time.Now().UTC().Format("2006-01-02T15-04-05.000Z")
	return "job-" + strings.ReplaceAll(stamp, ".", "-")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
