package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pkordes/tags-widget/internal/domain"
	"github.com/pkordes/tags-widget/internal/repo"
	"github.com/pkordes/tags-widget/internal/widget"
)

// boundStorage adapts a KVRepo to widget.Storage for the duration of one
// call. The widget cannot see errors, so they are collected in err for the
// service to report once the widget is done.
type boundStorage struct {
	ctx context.Context
	kv  repo.KVRepo
	log *slog.Logger
	err error
}

var _ widget.Storage = (*boundStorage)(nil)

func (b *boundStorage) GetItem(key string) (string, bool) {
	v, err := b.kv.Get(b.ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return "", false
	}
	if err != nil {
		b.log.WarnContext(b.ctx, "widget storage read failed", "key", key, "error", err)
		b.err = errors.Join(b.err, fmt.Errorf("read %s: %w", key, err))
		return "", false
	}
	return v, true
}

func (b *boundStorage) SetItem(key, value string) {
	if err := b.kv.Set(b.ctx, key, value); err != nil {
		b.log.ErrorContext(b.ctx, "widget storage write failed", "key", key, "error", err)
		b.err = errors.Join(b.err, fmt.Errorf("write %s: %w", key, err))
	}
}
