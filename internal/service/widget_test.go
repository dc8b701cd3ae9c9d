package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tags-widget/internal/domain"
	"github.com/pkordes/tags-widget/internal/repo"
	"github.com/pkordes/tags-widget/internal/service"
	"github.com/pkordes/tags-widget/internal/surface"
	"github.com/pkordes/tags-widget/internal/widget"
)

// ---- mock KVRepo -----------------------------------------------------------

type mockKVRepo struct {
	get    func(ctx context.Context, key string) (string, error)
	set    func(ctx context.Context, key, value string) error
	delete func(ctx context.Context, key string) error
	keys   func(ctx context.Context, prefix string) ([]string, error)
}

func (m *mockKVRepo) Get(ctx context.Context, key string) (string, error) {
	return m.get(ctx, key)
}
func (m *mockKVRepo) Set(ctx context.Context, key, value string) error {
	return m.set(ctx, key, value)
}
func (m *mockKVRepo) Delete(ctx context.Context, key string) error {
	return m.delete(ctx, key)
}
func (m *mockKVRepo) Keys(ctx context.Context, prefix string) ([]string, error) {
	return m.keys(ctx, prefix)
}

// compile-time check
var _ repo.KVRepo = (*mockKVRepo)(nil)

// ---- helpers ---------------------------------------------------------------

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newService(kv repo.KVRepo) *service.WidgetService {
	next := 100000
	return service.NewWidgetService(kv, discardLogger, widget.WithIDGenerator(func() int {
		next++
		return next
	}))
}

// ---- Create / List ---------------------------------------------------------

func TestWidgetService_Create(t *testing.T) {
	kv := repo.NewMemoryKV()
	svc := newService(kv)
	ctx := context.Background()

	got, err := svc.Create(ctx)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got.ID, "tags-"))
	assert.True(t, domain.ValidWidgetID(got.ID))
	assert.Empty(t, got.Tags)
	assert.False(t, got.ReadOnly)

	raw, err := kv.Get(ctx, widget.CollectionKey(got.ID))
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestWidgetService_List(t *testing.T) {
	kv := repo.NewMemoryKV()
	svc := newService(kv)
	ctx := context.Background()
	for _, id := range []string{"charlie", "alpha", "bravo"} {
		_, err := svc.SetReadOnly(ctx, id, false, surface.Discard)
		require.NoError(t, err)
	}
	_, err := svc.SetTags(ctx, "alpha", []string{"x"}, surface.Discard)
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "unrelated", "v"))

	page := 1
	limit := 2
	ids, total, err := svc.List(ctx, domain.NewPaginationParams(&page, &limit))

	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Equal(t, []string{"alpha", "bravo"}, ids)

	page = 2
	ids, _, err = svc.List(ctx, domain.NewPaginationParams(&page, &limit))
	require.NoError(t, err)
	assert.Equal(t, []string{"charlie"}, ids)
}

func TestWidgetService_List_PageBeyondRange(t *testing.T) {
	svc := newService(repo.NewMemoryKV())
	ctx := context.Background()
	_, err := svc.SetTags(ctx, "alpha", []string{"x"}, surface.Discard)
	require.NoError(t, err)

	page := math.MaxInt/20 + 2
	ids, total, err := svc.List(ctx, domain.NewPaginationParams(&page, nil))

	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Empty(t, ids)
}

// ---- State -----------------------------------------------------------------

func TestWidgetService_State_Defaults(t *testing.T) {
	svc := newService(repo.NewMemoryKV())

	got, err := svc.State(context.Background(), "fresh")

	require.NoError(t, err)
	assert.Equal(t, "fresh", got.ID)
	assert.Empty(t, got.Tags)
	assert.False(t, got.ReadOnly)
}

func TestWidgetService_InvalidID(t *testing.T) {
	svc := newService(repo.NewMemoryKV())

	_, err := svc.State(context.Background(), "not valid")
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = svc.Reset(context.Background(), "#x")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- Submit ----------------------------------------------------------------

func TestWidgetService_Submit(t *testing.T) {
	svc := newService(repo.NewMemoryKV())
	ctx := context.Background()

	got, err := svc.Submit(ctx, "w", "  work ", surface.Discard)

	require.NoError(t, err)
	assert.Equal(t, []string{"work"}, got.Tags)
}

func TestWidgetService_Submit_Invalid(t *testing.T) {
	svc := newService(repo.NewMemoryKV())

	got, err := svc.Submit(context.Background(), "w", "abcdefghijklmnopqrst", surface.Discard)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, got.Tags)
}

func TestWidgetService_Submit_ReadOnly(t *testing.T) {
	svc := newService(repo.NewMemoryKV())
	ctx := context.Background()
	_, err := svc.SetReadOnly(ctx, "w", true, surface.Discard)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, "w", "fine", surface.Discard)

	assert.ErrorIs(t, err, domain.ErrReadOnly)
}

// ---- SetTags ---------------------------------------------------------------

func TestWidgetService_SetTags_SanitizesAndReplaces(t *testing.T) {
	svc := newService(repo.NewMemoryKV())
	ctx := context.Background()
	_, err := svc.Submit(ctx, "w", "old", surface.Discard)
	require.NoError(t, err)

	got, err := svc.SetTags(ctx, "w", []string{" a ", "<b>"}, surface.Discard)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "&lt;b&gt;"}, got.Tags)
}

func TestWidgetService_SetTags_RejectsInvalidWithoutWriting(t *testing.T) {
	svc := newService(repo.NewMemoryKV())
	ctx := context.Background()
	_, err := svc.Submit(ctx, "w", "keep", surface.Discard)
	require.NoError(t, err)

	_, err = svc.SetTags(ctx, "w", []string{"ok", "   "}, surface.Discard)

	assert.ErrorIs(t, err, domain.ErrValidation)
	got, err := svc.State(ctx, "w")
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, got.Tags)
}

// ---- DeleteTag -------------------------------------------------------------

func TestWidgetService_DeleteTag(t *testing.T) {
	svc := newService(repo.NewMemoryKV())
	ctx := context.Background()
	_, err := svc.SetTags(ctx, "w", []string{"a", "b"}, surface.Discard)
	require.NoError(t, err)

	got, err := svc.DeleteTag(ctx, "w", 100001, surface.Discard)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, got.Tags)

	// Unknown ids are fine.
	got, err = svc.DeleteTag(ctx, "w", 123, surface.Discard)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, got.Tags)
}

func TestWidgetService_DeleteTag_ReadOnly(t *testing.T) {
	svc := newService(repo.NewMemoryKV())
	ctx := context.Background()
	_, err := svc.SetTags(ctx, "w", []string{"a"}, surface.Discard)
	require.NoError(t, err)
	_, err = svc.SetReadOnly(ctx, "w", true, surface.Discard)
	require.NoError(t, err)

	got, err := svc.DeleteTag(ctx, "w", 100001, surface.Discard)

	assert.ErrorIs(t, err, domain.ErrReadOnly)
	assert.Equal(t, []string{"a"}, got.Tags)
}

// ---- Render / Dispatch -----------------------------------------------------

func TestWidgetService_RenderAndDispatch(t *testing.T) {
	svc := newService(repo.NewMemoryKV())
	ctx := context.Background()
	dom := surface.NewDOM("w")

	require.NoError(t, svc.Render(ctx, "w", dom))
	assert.Contains(t, dom.HTML(), widget.ClassWrapper)

	require.NoError(t, svc.Dispatch(ctx, "w", widget.Submit{Draft: "hello"}, dom))
	assert.Equal(t, []string{"hello"}, dom.TagTexts())

	require.NoError(t, svc.Dispatch(ctx, "w", widget.ToggleClick{Checked: true}, dom))
	assert.True(t, dom.InputDisabled())

	got, err := svc.State(ctx, "w")
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, got.Tags)
	assert.True(t, got.ReadOnly)
}

// ---- Export / Reset --------------------------------------------------------

func TestWidgetService_Export(t *testing.T) {
	svc := newService(repo.NewMemoryKV())
	ctx := context.Background()
	_, err := svc.SetTags(ctx, "w", []string{"a", "b"}, surface.Discard)
	require.NoError(t, err)

	got, err := svc.Export(ctx, "w")

	require.NoError(t, err)
	assert.Equal(t, []domain.Entry{{ID: 100001, Value: "a"}, {ID: 100002, Value: "b"}}, got)
}

func TestWidgetService_Reset(t *testing.T) {
	kv := repo.NewMemoryKV()
	svc := newService(kv)
	ctx := context.Background()
	_, err := svc.SetTags(ctx, "w", []string{"a"}, surface.Discard)
	require.NoError(t, err)
	_, err = svc.SetReadOnly(ctx, "w", true, surface.Discard)
	require.NoError(t, err)

	require.NoError(t, svc.Reset(ctx, "w"))

	keys, err := kv.Keys(ctx, "w-")
	require.NoError(t, err)
	assert.Empty(t, keys)
	got, err := svc.State(ctx, "w")
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
	assert.False(t, got.ReadOnly)
}

// ---- storage failures ------------------------------------------------------

func TestWidgetService_ReadFailureAborts(t *testing.T) {
	boom := errors.New("connection refused")
	setCalled := false
	svc := newService(&mockKVRepo{
		get: func(_ context.Context, _ string) (string, error) { return "", boom },
		set: func(_ context.Context, _, _ string) error {
			setCalled = true
			return nil
		},
	})

	_, err := svc.Submit(context.Background(), "w", "tag", surface.Discard)

	assert.ErrorIs(t, err, boom)
	assert.False(t, setCalled, "must not overwrite state it could not read")
}

func TestWidgetService_WriteFailureReported(t *testing.T) {
	boom := errors.New("disk full")
	svc := newService(&mockKVRepo{
		get: func(_ context.Context, _ string) (string, error) { return "", domain.ErrNotFound },
		set: func(_ context.Context, _, _ string) error { return boom },
	})

	_, err := svc.SetReadOnly(context.Background(), "w", true, surface.Discard)

	assert.ErrorIs(t, err, boom)
}

func TestWidgetService_MalformedStateIsNotAnError(t *testing.T) {
	svc := newService(&mockKVRepo{
		get: func(_ context.Context, _ string) (string, error) { return "{corrupt", nil },
	})

	got, err := svc.State(context.Background(), "w")

	require.NoError(t, err)
	assert.Empty(t, got.Tags)
}

// ---- concurrency -----------------------------------------------------------

func TestWidgetService_ConcurrentSubmitsAreSerialised(t *testing.T) {
	svc := service.NewWidgetService(repo.NewMemoryKV(), discardLogger)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Submit(ctx, "w", "tag", surface.Discard)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := svc.State(ctx, "w")
	require.NoError(t, err)
	assert.Len(t, got.Tags, 50)
}
