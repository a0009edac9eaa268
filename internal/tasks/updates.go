package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	LoadRecipients Phase = iota
	ClearShares
	ShareBatch
	Finalize
)

func (p Phase) String() string {
	switch p {
	case LoadRecipients:
		return "load_recipients"
	case ClearShares:
		return "clear_shares"
	case ShareBatch:
		return "share_batch"
	case Finalize:
		return "finalize"
	default:
		return ""
	}
}

func loadedRecipientsUpdate(total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadRecipients,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Loaded %d unique recipients", total),
	}
}

func clearingUpdate(message string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ClearShares,
		Step:    1,
		Total:   1,
		Message: message,
	}
}

func shareBatchUpdate(step, total, size int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ShareBatch,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Sharing batch of %d...", step, total, size),
	}
}

func batchDoneUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ShareBatch,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Batch sent", step, total),
	}
}

func batchFailedUpdate(step, total int, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ShareBatch,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Batch failed: %v", step, total, err),
	}
}

func finalizeUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   Finalize,
		Step:    1,
		Total:   1,
		Message: "Restoring public link visibility...",
	}
}
