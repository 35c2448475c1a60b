package model

import "fmt"

const (
	StatusQueued      = "queued"
	StatusDownloading = "downloading"
	StatusComplete    = "complete"
	StatusError       = "error"
	StatusCancelled   = "cancelled"
)

var allowedTransitions = map[string]map[string]bool{
	"": {
		StatusQueued:      true,
		StatusDownloading: true,
	},
	StatusQueued: {
		StatusQueued:      true,
		StatusDownloading: true,
		StatusComplete:    true, // backend may finish between two polls
		StatusError:       true,
		StatusCancelled:   true,
	},
	StatusDownloading: {
		StatusDownloading: true,
		StatusComplete:    true,
		StatusError:       true,
		StatusCancelled:   true,
	},
	StatusComplete:  {StatusComplete: true},
	StatusError:     {StatusError: true},
	StatusCancelled: {StatusCancelled: true},
}

func IsKnownStatus(status string) bool {
	if status == "" {
		return false
	}
	_, ok := allowedTransitions[status]
	return ok
}

// IsTerminal reports whether no further automatic transition may occur.
func IsTerminal(status string) bool {
	return status == StatusComplete || status == StatusError || status == StatusCancelled
}

// IsActive reports whether the job still counts toward the active badge.
func IsActive(status string) bool {
	return status == StatusQueued || status == StatusDownloading
}

func CanTransition(from, to string) bool {
	next, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}

func TransitionStatus(job *Job, toStatus string) error {
	from := job.Status
	if !CanTransition(from, toStatus) {
		return fmt.Errorf("invalid job status transition: %q -> %q (id=%s)", from, toStatus, job.ID)
	}
	job.Status = toStatus
	return nil
}
