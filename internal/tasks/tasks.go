// package tasks orchestrates bulk share runs against a single asset.
//
// The core abstraction is ShareEngine, the per-run state machine:
// initial clear, per-batch share-and-clear cycles, and a finalization
// step that restores public link visibility no matter how the run ended.
// Operations emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers.
package tasks

import (
	"context"

	"github.com/carrotlabs/zshare/internal/models"
	"github.com/carrotlabs/zshare/internal/zight"
	"github.com/charmbracelet/log"
)

// Visibility values recorded on a RunResult.
const (
	VisibilityPublicLink = "anyone_with_link"
	VisibilityUnknown    = "unknown"
	VisibilityUnchanged  = "unchanged"
)

// defaultBatchSize is used when the engine is constructed with a
// non-positive batch size.
const defaultBatchSize = 15

// Sharer submits one batch through the share dialog and controls the
// asset's visibility mode. Implemented by zight.ShareController.
type Sharer interface {
	ShareBatch(ctx context.Context, batch []string) ([]zight.ShareAttempt, error)
	SetPublicVisibility(ctx context.Context) error
}

// Clearer drives the provider-side invitee count to zero. Implemented by
// zight.Reconciler.
type Clearer interface {
	ClearInvitees(ctx context.Context, force bool) error
}

// Reporter receives per-recipient outcomes and campaign lifecycle
// updates. Implementations must swallow their own failures; the engine
// never checks them.
type Reporter interface {
	ReportAttempts(campaignID string, attempts []zight.ShareAttempt)
	ReportCampaignStatus(campaignID, status, errMsg string)
	ReportTotal(campaignID string, total int)
}

// RunResult aggregates one run's outcome.
type RunResult struct {
	TotalRecipients  int
	BatchesAttempted int
	BatchesCompleted int
	FinalVisibility  string
	Err              error
}

// ShareEngine executes one campaign against one asset.
type ShareEngine struct {
	sharer     Sharer
	clearer    Clearer
	reporter   Reporter
	batchSize  int
	campaignID string
	logger     *log.Logger
}

// NewShareEngine creates a ShareEngine. reporter may be nil when no
// outcome store is configured.
func NewShareEngine(sharer Sharer, clearer Clearer, reporter Reporter, batchSize int, campaignID string, logger *log.Logger) *ShareEngine {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &ShareEngine{
		sharer:     sharer,
		clearer:    clearer,
		reporter:   reporter,
		batchSize:  batchSize,
		campaignID: campaignID,
		logger:     logger,
	}
}

// Partition splits recipients into ordered batches of at most size
// entries. Concatenating the batches in order reconstructs the input.
func Partition(recipients []string, size int) [][]string {
	if size <= 0 || len(recipients) == 0 {
		return nil
	}

	batches := make([][]string, 0, (len(recipients)+size-1)/size)
	for start := 0; start < len(recipients); start += size {
		end := start + size
		if end > len(recipients) {
			end = len(recipients)
		}
		batches = append(batches, recipients[start:end])
	}
	return batches
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ShareEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Run executes the full share state machine over the recipient list.
//
// An empty list is a successful no-op. Otherwise: a mandatory forced
// clear, then per batch (in order) a pre-clear when not first, the share
// itself, and a post-clear on success when not last. The first error
// stops batching but is retained, not returned yet: finalization runs
// exactly once on every path, switching the asset back to public link
// visibility so recipients from completed batches keep access. A
// finalization failure is logged and never masks the batch error.
func (e *ShareEngine) Run(ctx context.Context, recipients []string, progress chan<- ProgressUpdate) *RunResult {
	result := &RunResult{
		TotalRecipients: len(recipients),
		FinalVisibility: VisibilityUnchanged,
	}

	e.report(func(r Reporter) {
		r.ReportTotal(e.campaignID, len(recipients))
		r.ReportCampaignStatus(e.campaignID, models.CampaignStatusInProgress, "")
	})
	e.sendProgress(progress, loadedRecipientsUpdate(len(recipients)))

	if len(recipients) == 0 {
		e.logger.Info("no recipients, nothing to do")
		e.report(func(r Reporter) {
			r.ReportCampaignStatus(e.campaignID, models.CampaignStatusCompleted, "")
		})
		return result
	}

	batches := Partition(recipients, e.batchSize)
	e.logger.Info("starting run", "recipients", len(recipients), "batches", len(batches), "batch_size", e.batchSize)

	runErr := e.shareAll(ctx, batches, result, progress)

	// Finalization runs on every path, exactly once.
	e.sendProgress(progress, finalizeUpdate())
	if err := e.sharer.SetPublicVisibility(ctx); err != nil {
		e.logger.Warn("could not restore public visibility", "error", err)
		result.FinalVisibility = VisibilityUnknown
	} else {
		result.FinalVisibility = VisibilityPublicLink
	}

	result.Err = runErr
	if runErr != nil {
		e.logger.Error("run failed", "error", runErr, "batches_completed", result.BatchesCompleted)
		e.report(func(r Reporter) {
			r.ReportCampaignStatus(e.campaignID, models.CampaignStatusFailed, runErr.Error())
		})
	} else {
		e.logger.Info("run completed", "batches", result.BatchesCompleted)
		e.report(func(r Reporter) {
			r.ReportCampaignStatus(e.campaignID, models.CampaignStatusCompleted, "")
		})
	}

	return result
}

// shareAll performs the initial clear and the batch loop, returning the
// first error encountered.
func (e *ShareEngine) shareAll(ctx context.Context, batches [][]string, result *RunResult, progress chan<- ProgressUpdate) error {
	// Sharing into a non-empty, unknown invitee set risks silently
	// exceeding the ceiling, so the initial clear failing is fatal.
	e.sendProgress(progress, clearingUpdate("Clearing existing invitees..."))
	if err := e.clearer.ClearInvitees(ctx, true); err != nil {
		return err
	}

	for i, batch := range batches {
		if i > 0 {
			e.sendProgress(progress, clearingUpdate("Clearing invitees before next batch..."))
			if err := e.clearer.ClearInvitees(ctx, true); err != nil {
				return err
			}
		}

		e.sendProgress(progress, shareBatchUpdate(i+1, len(batches), len(batch)))
		result.BatchesAttempted++

		attempts, err := e.sharer.ShareBatch(ctx, batch)
		e.report(func(r Reporter) {
			r.ReportAttempts(e.campaignID, attempts)
		})
		if err != nil {
			e.sendProgress(progress, batchFailedUpdate(i+1, len(batches), err))
			return err
		}

		result.BatchesCompleted++
		e.sendProgress(progress, batchDoneUpdate(i+1, len(batches)))

		if i < len(batches)-1 {
			e.sendProgress(progress, clearingUpdate("Clearing invitees after batch..."))
			if err := e.clearer.ClearInvitees(ctx, true); err != nil {
				return err
			}
		}
	}

	return nil
}

func (e *ShareEngine) report(fn func(Reporter)) {
	if e.reporter != nil {
		fn(e.reporter)
	}
}
