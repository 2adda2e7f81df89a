//go:build !nogpu

package gpu

import (
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// countingPoller completes one submission per poll.
type countingPoller struct{ done atomic.Uint64 }

func (p *countingPoller) PollCompleted() uint64 { return p.done.Add(1) - 1 }

// stuckPoller never completes anything.
type stuckPoller struct{}

func (stuckPoller) PollCompleted() uint64 { return 0 }

func TestWaitSubmission(t *testing.T) {
	p := &countingPoller{}
	if err := waitSubmission(p, 3, time.Second); err != nil {
		t.Fatalf("waitSubmission() = %v", err)
	}
	if got := p.done.Load(); got != 4 {
		t.Errorf("polled %d times, want 4", got)
	}
}

func TestWaitSubmissionAlreadyComplete(t *testing.T) {
	if err := waitSubmission(stuckPoller{}, 0, 0); err != nil {
		t.Errorf("waitSubmission(0) = %v, want nil", err)
	}
}

func TestWaitSubmissionTimeout(t *testing.T) {
	err := waitSubmission(stuckPoller{}, 1, time.Millisecond)
	if err == nil {
		t.Fatal("waitSubmission() = nil, want timeout")
	}
	if !strings.Contains(err.Error(), "submission 1 not complete") {
		t.Errorf("unexpected error: %v", err)
	}
}
