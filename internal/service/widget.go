// Package service contains the business logic around the tags widget.
// Services validate inputs, serialise access per widget, and bridge the
// widget's synchronous storage port onto the context-aware repo layer.
// No SQL lives here: services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/pkordes/tags-widget/internal/domain"
	"github.com/pkordes/tags-widget/internal/repo"
	"github.com/pkordes/tags-widget/internal/surface"
	"github.com/pkordes/tags-widget/internal/widget"
)

// WidgetService implements the operations exposed over HTTP and the CLI.
// Every call constructs the widget from storage, runs one operation on it,
// and lets it persist; calls on the same widget id never interleave.
type WidgetService struct {
	kv    repo.KVRepo
	log   *slog.Logger
	locks *keyedMutex
	opts  []widget.Option
}

// NewWidgetService constructs a WidgetService backed by the provided KVRepo.
// opts are applied to every widget the service constructs.
func NewWidgetService(kv repo.KVRepo, log *slog.Logger, opts ...widget.Option) *WidgetService {
	if log == nil {
		log = slog.Default()
	}
	return &WidgetService{kv: kv, log: log, locks: newKeyedMutex(), opts: opts}
}

// Create starts a widget under a generated id with empty, writable state.
func (s *WidgetService) Create(ctx context.Context) (domain.WidgetState, error) {
	id := "tags-" + uuid.NewString()
	var state domain.WidgetState
	err := s.with(ctx, id, surface.Discard, func(w *widget.TagWidget) error {
		w.SetTags(nil)
		w.SetReadOnly(false)
		state = w.State()
		return nil
	})
	if err != nil {
		return domain.WidgetState{}, fmt.Errorf("service.WidgetService.Create: %w", err)
	}
	return state, nil
}

// List returns one page of widget ids found in storage, sorted, and the total count.
func (s *WidgetService) List(ctx context.Context, p domain.PaginationParams) ([]string, int64, error) {
	keys, err := s.kv.Keys(ctx, "")
	if err != nil {
		return nil, 0, fmt.Errorf("service.WidgetService.List: %w", err)
	}

	ids := []string{}
	for _, k := range keys {
		if id, ok := widget.IDFromKey(k); ok && domain.ValidWidgetID(id) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	start, end := p.Window(len(ids))
	return ids[start:end], int64(len(ids)), nil
}

// State returns the widget's current state. Widgets that were never written
// report the defaults.
func (s *WidgetService) State(ctx context.Context, id string) (domain.WidgetState, error) {
	var state domain.WidgetState
	err := s.with(ctx, id, surface.Discard, func(w *widget.TagWidget) error {
		state = w.State()
		return nil
	})
	if err != nil {
		return domain.WidgetState{}, fmt.Errorf("service.WidgetService.State: %w", err)
	}
	return state, nil
}

// Export returns the widget's entries in collection order.
func (s *WidgetService) Export(ctx context.Context, id string) ([]domain.Entry, error) {
	state, err := s.State(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service.WidgetService.Export: %w", err)
	}
	return state.Entries, nil
}

// Render builds the full widget onto surf.
func (s *WidgetService) Render(ctx context.Context, id string, surf widget.Surface) error {
	err := s.with(ctx, id, surf, func(w *widget.TagWidget) error {
		w.RenderWidget()
		return nil
	})
	if err != nil {
		return fmt.Errorf("service.WidgetService.Render: %w", err)
	}
	return nil
}

// Dispatch delivers a user event raised on surf to the widget.
func (s *WidgetService) Dispatch(ctx context.Context, id string, ev widget.Event, surf widget.Surface) error {
	err := s.with(ctx, id, surf, func(w *widget.TagWidget) error {
		w.HandleEvent(ev)
		return nil
	})
	if err != nil {
		return fmt.Errorf("service.WidgetService.Dispatch: %w", err)
	}
	return nil
}

// Submit runs the widget's submission flow for draft. A rejected draft
// returns domain.ErrReadOnly or domain.ErrValidation.
func (s *WidgetService) Submit(ctx context.Context, id, draft string, surf widget.Surface) (domain.WidgetState, error) {
	var state domain.WidgetState
	err := s.with(ctx, id, surf, func(w *widget.TagWidget) error {
		accepted := w.Submit(draft)
		state = w.State()
		switch {
		case accepted:
			return nil
		case w.ReadOnly():
			return domain.ErrReadOnly
		default:
			return fmt.Errorf("%w: tag must be 1 to %d characters", domain.ErrValidation, widget.MaxTagLength-1)
		}
	})
	if err != nil {
		return state, fmt.Errorf("service.WidgetService.Submit: %w", err)
	}
	return state, nil
}

// SetTags replaces the whole collection. Each value is sanitized and must
// pass the same length rule as a submission; nothing is written otherwise.
func (s *WidgetService) SetTags(ctx context.Context, id string, values []string, surf widget.Surface) (domain.WidgetState, error) {
	clean := make([]string, len(values))
	for i, v := range values {
		clean[i] = widget.CheckInputData(v)
		if !widget.ValidTag(clean[i]) {
			return domain.WidgetState{}, fmt.Errorf("service.WidgetService.SetTags: %w: tag %d must be 1 to %d characters",
				domain.ErrValidation, i+1, widget.MaxTagLength-1)
		}
	}

	var state domain.WidgetState
	err := s.with(ctx, id, surf, func(w *widget.TagWidget) error {
		w.SetTags(clean)
		state = w.State()
		return nil
	})
	if err != nil {
		return domain.WidgetState{}, fmt.Errorf("service.WidgetService.SetTags: %w", err)
	}
	return state, nil
}

// DeleteTag removes every entry with entryID. Unknown ids succeed; a
// read-only widget is left untouched and domain.ErrReadOnly is returned.
func (s *WidgetService) DeleteTag(ctx context.Context, id string, entryID int, surf widget.Surface) (domain.WidgetState, error) {
	var state domain.WidgetState
	err := s.with(ctx, id, surf, func(w *widget.TagWidget) error {
		w.DeleteOneTag(entryID)
		state = w.State()
		if w.ReadOnly() {
			return domain.ErrReadOnly
		}
		return nil
	})
	if err != nil {
		return state, fmt.Errorf("service.WidgetService.DeleteTag: %w", err)
	}
	return state, nil
}

// SetReadOnly locks or unlocks the widget.
func (s *WidgetService) SetReadOnly(ctx context.Context, id string, readOnly bool, surf widget.Surface) (domain.WidgetState, error) {
	var state domain.WidgetState
	err := s.with(ctx, id, surf, func(w *widget.TagWidget) error {
		w.SetReadOnly(readOnly)
		state = w.State()
		return nil
	})
	if err != nil {
		return domain.WidgetState{}, fmt.Errorf("service.WidgetService.SetReadOnly: %w", err)
	}
	return state, nil
}

// Reset forgets everything persisted for the widget.
func (s *WidgetService) Reset(ctx context.Context, id string) error {
	if !domain.ValidWidgetID(id) {
		return fmt.Errorf("service.WidgetService.Reset: %w", invalidID(id))
	}
	unlock := s.locks.lock(id)
	defer unlock()

	for _, key := range []string{widget.CollectionKey(id), widget.ReadOnlyKey(id)} {
		if err := s.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("service.WidgetService.Reset: %w", err)
		}
	}
	return nil
}

// with loads widget id under its lock, runs fn, and reports storage
// failures seen while loading or persisting.
func (s *WidgetService) with(ctx context.Context, id string, surf widget.Surface, fn func(*widget.TagWidget) error) error {
	if !domain.ValidWidgetID(id) {
		return invalidID(id)
	}
	unlock := s.locks.lock(id)
	defer unlock()

	st := &boundStorage{ctx: ctx, kv: s.kv, log: s.log}
	w := widget.New(id, st, surf, s.opts...)
	if st.err != nil {
		// Never operate on defaults that merely stand in for unreadable state.
		return st.err
	}
	return errors.Join(fn(w), st.err)
}

func invalidID(id string) error {
	return fmt.Errorf("%w: invalid widget id %q", domain.ErrValidation, id)
}
