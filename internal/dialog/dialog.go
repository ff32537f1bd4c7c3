// Package dialog owns the transient UI surface: stacking toasts and a
// single-slot confirm/prompt request that callers resolve exactly once.
package dialog

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/krugstergaming/Greenhouse/pkg/errors"
	"github.com/krugstergaming/Greenhouse/pkg/logger"
)

// ToastKind selects the toast styling and lifetime.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

const (
	successTTL = 3 * time.Second
	errorTTL   = 5 * time.Second
)

// Toast is one entry in the stack. Entries dismiss themselves when
// their TTL elapses; manual dismissal is always allowed.
type Toast struct {
	ID        string
	Kind      ToastKind
	Message   string
	ExpiresAt time.Time
}

// RequestKind distinguishes yes/no confirms from free-text prompts.
type RequestKind string

const (
	RequestConfirm RequestKind = "confirm"
	RequestPrompt  RequestKind = "prompt"
)

// Result is the outcome of a confirm/prompt request. Value is only
// meaningful for prompts.
type Result struct {
	Confirmed bool
	Value     string
}

// Request is the pending modal. At most one exists at a time.
type Request struct {
	ID          string
	Kind        RequestKind
	Title       string
	Message     string
	Placeholder string

	result chan Result
}

// Result exposes the completion channel. It receives exactly one value.
func (r *Request) Result() <-chan Result {
	return r.result
}

// Surface is the dialog/toast state shared by every feature service.
type Surface struct {
	mu      sync.Mutex
	toasts  []Toast
	pending *Request
	log     *logger.Logger

	successTTL time.Duration
	errorTTL   time.Duration
}

// New builds an empty surface. A nil logger is allowed; it only
// disables the debug log on error toasts.
func New(logg *logger.Logger) *Surface {
	return &Surface{
		log:        logg,
		successTTL: successTTL,
		errorTTL:   errorTTL,
	}
}

// ShowSuccess enqueues a success toast with the short lifetime.
func (s *Surface) ShowSuccess(msg string) Toast {
	return s.show(ToastSuccess, msg, s.successTTL)
}

// ShowError enqueues an error toast with the long lifetime.
func (s *Surface) ShowError(msg string) Toast {
	return s.show(ToastError, msg, s.errorTTL)
}

func (s *Surface) show(kind ToastKind, msg string, ttl time.Duration) Toast {
	toast := Toast{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   msg,
		ExpiresAt: time.Now().Add(ttl),
	}

	s.mu.Lock()
	s.toasts = append(s.toasts, toast)
	s.mu.Unlock()

	if kind == ToastError && s.log != nil {
		s.log.Debug(s.log.WithField(context.Background(), "toast_id", toast.ID), msg)
	}
	time.AfterFunc(ttl, func() { s.Dismiss(toast.ID) })
	return toast
}

// Dismiss removes a toast. Dismissing an already-expired toast is a
// no-op.
func (s *Surface) Dismiss(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.toasts {
		if t.ID == id {
			s.toasts = append(s.toasts[:i], s.toasts[i+1:]...)
			return
		}
	}
}

// Toasts returns the live stack, oldest first.
func (s *Surface) Toasts() []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Toast, len(s.toasts))
	copy(out, s.toasts)
	return out
}

// ShowConfirm parks a yes/no request. A second request while one is
// pending is refused.
func (s *Surface) ShowConfirm(title, message string) (*Request, error) {
	return s.park(RequestConfirm, title, message, "")
}

// ShowPrompt parks a free-text request.
func (s *Surface) ShowPrompt(title, message, placeholder string) (*Request, error) {
	return s.park(RequestPrompt, title, message, placeholder)
}

func (s *Surface) park(kind RequestKind, title, message, placeholder string) (*Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil {
		return nil, errors.New(errors.CodeConflict, "a dialog is already pending")
	}
	req := &Request{
		ID:          uuid.NewString(),
		Kind:        kind,
		Title:       title,
		Message:     message,
		Placeholder: placeholder,
		result:      make(chan Result, 1),
	}
	s.pending = req
	return req, nil
}

// Pending returns the parked request, if any.
func (s *Surface) Pending() *Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Resolve completes the pending request affirmatively. Value carries
// the prompt input and is ignored for confirms.
func (s *Surface) Resolve(id, value string) error {
	return s.complete(id, Result{Confirmed: true, Value: value})
}

// Cancel completes the pending request negatively.
func (s *Surface) Cancel(id string) error {
	return s.complete(id, Result{})
}

func (s *Surface) complete(id string, res Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil || s.pending.ID != id {
		return errors.New(errors.CodeNotFound, "no such pending dialog")
	}
	s.pending.result <- res
	s.pending = nil
	return nil
}

// Confirm parks a confirm request and blocks until it is resolved,
// cancelled, or the context ends.
func (s *Surface) Confirm(ctx context.Context, title, message string) (bool, error) {
	req, err := s.ShowConfirm(title, message)
	if err != nil {
		return false, err
	}
	select {
	case res := <-req.Result():
		return res.Confirmed, nil
	case <-ctx.Done():
		_ = s.Cancel(req.ID)
		return false, ctx.Err()
	}
}

// Prompt parks a prompt request and blocks until completion. The bool
// reports whether the user confirmed; a cancelled prompt returns false
// with an empty value.
func (s *Surface) Prompt(ctx context.Context, title, message, placeholder string) (string, bool, error) {
	req, err := s.ShowPrompt(title, message, placeholder)
	if err != nil {
		return "", false, err
	}
	select {
	case res := <-req.Result():
		return res.Value, res.Confirmed, nil
	case <-ctx.Done():
		_ = s.Cancel(req.ID)
		return "", false, ctx.Err()
	}
}
