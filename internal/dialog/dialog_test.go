package dialog

import (
	"context"
	"testing"
	"time"

	"github.com/krugstergaming/Greenhouse/internal/testutil"
	"github.com/krugstergaming/Greenhouse/pkg/errors"
)

func TestToastLifetimes(t *testing.T) {
	s := New(testutil.Logger())
	s.successTTL = 20 * time.Millisecond
	s.errorTTL = 60 * time.Millisecond

	s.ShowSuccess("saved")
	s.ShowError("failed")
	if got := len(s.Toasts()); got != 2 {
		t.Fatalf("toasts = %d, want 2", got)
	}

	time.Sleep(40 * time.Millisecond)
	toasts := s.Toasts()
	if len(toasts) != 1 || toasts[0].Kind != ToastError {
		t.Fatalf("after success TTL: %+v", toasts)
	}

	time.Sleep(40 * time.Millisecond)
	if got := len(s.Toasts()); got != 0 {
		t.Fatalf("after error TTL: %d toasts remain", got)
	}
}

func TestToastManualDismiss(t *testing.T) {
	s := New(testutil.Logger())
	toast := s.ShowError("boom")
	s.Dismiss(toast.ID)
	if got := len(s.Toasts()); got != 0 {
		t.Fatalf("toasts = %d after dismiss", got)
	}
	// Dismissing twice is a no-op.
	s.Dismiss(toast.ID)
}

func TestNilLoggerTolerated(t *testing.T) {
	s := New(nil)
	toast := s.ShowError("backend down")
	if toast.Kind != ToastError {
		t.Fatalf("toast = %+v", toast)
	}
	s.ShowSuccess("saved")
	if got := len(s.Toasts()); got != 2 {
		t.Fatalf("toasts = %d, want 2", got)
	}
}

func TestToastStackingUnbounded(t *testing.T) {
	s := New(testutil.Logger())
	for i := 0; i < 25; i++ {
		s.ShowSuccess("ok")
	}
	if got := len(s.Toasts()); got != 25 {
		t.Fatalf("toasts = %d, want 25", got)
	}
}

func TestSinglePendingSlot(t *testing.T) {
	s := New(testutil.Logger())

	req, err := s.ShowConfirm("Claim item", "Claim Glass jars?")
	if err != nil {
		t.Fatalf("ShowConfirm() error: %v", err)
	}
	if _, err := s.ShowPrompt("Reject", "Reason", ""); errors.CodeOf(err) != errors.CodeConflict {
		t.Fatalf("second dialog should conflict, got %v", err)
	}

	if err := s.Resolve(req.ID, ""); err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	res := <-req.Result()
	if !res.Confirmed {
		t.Fatal("expected confirmed result")
	}
	if s.Pending() != nil {
		t.Fatal("slot should be free after resolve")
	}
	if err := s.Resolve(req.ID, ""); errors.CodeOf(err) != errors.CodeNotFound {
		t.Fatalf("double resolve should not find the request, got %v", err)
	}
}

func TestCancelDeliversNegativeResult(t *testing.T) {
	s := New(testutil.Logger())
	req, err := s.ShowPrompt("Reject item", "Enter a reason", "reason")
	if err != nil {
		t.Fatalf("ShowPrompt() error: %v", err)
	}
	if err := s.Cancel(req.ID); err != nil {
		t.Fatalf("Cancel() error: %v", err)
	}
	res := <-req.Result()
	if res.Confirmed || res.Value != "" {
		t.Fatalf("cancel result = %+v", res)
	}
}

func TestBlockingConfirm(t *testing.T) {
	s := New(testutil.Logger())

	done := make(chan bool, 1)
	go func() {
		ok, err := s.Confirm(context.Background(), "Logout", "Are you sure?")
		if err != nil {
			t.Errorf("Confirm() error: %v", err)
		}
		done <- ok
	}()

	var req *Request
	for i := 0; i < 100; i++ {
		if req = s.Pending(); req != nil {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if req == nil {
		t.Fatal("confirm never parked")
	}
	if err := s.Resolve(req.ID, ""); err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !<-done {
		t.Fatal("expected confirmed")
	}
}

func TestBlockingPromptContextCancel(t *testing.T) {
	s := New(testutil.Logger())
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() {
		_, _, err := s.Prompt(ctx, "Reject", "Reason", "")
		errc <- err
	}()

	for i := 0; i < 100; i++ {
		if s.Pending() != nil {
			break
		}
		time.Sleep(time.Millisecond)
	}
	cancel()

	if err := <-errc; err != context.Canceled {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if s.Pending() != nil {
		t.Fatal("slot should be released on context cancel")
	}
}
