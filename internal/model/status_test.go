package model

import "testing"

func TestCanTransition_AllowsExpectedPaths(t *testing.T) {
	cases := []struct {
		from string
		to   string
	}{
		{"", StatusQueued},
		{StatusQueued, StatusDownloading},
		{StatusQueued, StatusCancelled},
		{StatusDownloading, StatusDownloading},
		{StatusDownloading, StatusComplete},
		{StatusDownloading, StatusError},
		{StatusDownloading, StatusCancelled},
	}

	for _, tc := range cases {
		if !CanTransition(tc.from, tc.to) {
			t.Fatalf("expected transition %q -> %q to be allowed", tc.from, tc.to)
		}
	}
}

func TestCanTransition_TerminalStatesAreSinks(t *testing.T) {
	terminals := []string{StatusComplete, StatusError, StatusCancelled}
	targets := []string{StatusQueued, StatusDownloading, StatusComplete, StatusError, StatusCancelled}

	for _, from := range terminals {
		for _, to := range targets {
			if from == to {
				continue
			}
			if CanTransition(from, to) {
				t.Fatalf("expected transition %q -> %q to be rejected", from, to)
			}
		}
	}
}

func TestTransitionStatus_BlocksIllegalTransition(t *testing.T) {
	job := Job{ID: "k1", Status: StatusComplete}

	if err := TransitionStatus(&job, StatusDownloading); err == nil {
		t.Fatalf("expected illegal transition error")
	}
	if job.Status != StatusComplete {
		t.Fatalf("status mutated on rejected transition: %q", job.Status)
	}
}

func TestIsTerminalAndIsActive(t *testing.T) {
	if !IsTerminal(StatusComplete) || !IsTerminal(StatusError) || !IsTerminal(StatusCancelled) {
		t.Fatalf("terminal statuses misclassified")
	}
	if IsTerminal(StatusQueued) || IsTerminal(StatusDownloading) {
		t.Fatalf("active statuses classified terminal")
	}
	if !IsActive(StatusQueued) || !IsActive(StatusDownloading) {
		t.Fatalf("active statuses misclassified")
	}
	if IsActive(StatusComplete) {
		t.Fatalf("complete counted as active")
	}
}
