package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tags-widget/internal/cli"
	"github.com/pkordes/tags-widget/internal/domain"
	"github.com/pkordes/tags-widget/internal/repo"
	"github.com/pkordes/tags-widget/internal/service"
	"github.com/pkordes/tags-widget/internal/widget"
)

// compile-time check: the real service satisfies cli.WidgetServicer.
var _ cli.WidgetServicer = (*service.WidgetService)(nil)

func newService() *service.WidgetService {
	ids := 100000
	next := func() int {
		ids++
		return ids
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return service.NewWidgetService(repo.NewMemoryKV(), log, widget.WithIDGenerator(next))
}

// run executes tagsctl with args against svc and returns stdout and stderr.
func run(t *testing.T, svc cli.WidgetServicer, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := cli.NewRootCmd(svc)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func decodeState(t *testing.T, out string) domain.WidgetState {
	t.Helper()
	var st domain.WidgetState
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	return st
}

func TestAddThenShow(t *testing.T) {
	svc := newService()

	_, _, err := run(t, svc, "add", "w1", "  <go>  ")
	require.NoError(t, err)

	out, _, err := run(t, svc, "show", "w1")
	require.NoError(t, err)
	st := decodeState(t, out)
	assert.Equal(t, []string{"&lt;go&gt;"}, st.Tags)
	assert.Equal(t, []domain.Entry{{ID: 100001, Value: "&lt;go&gt;"}}, st.Entries)
	assert.False(t, st.ReadOnly)
}

func TestAdd_RejectsInvalidTag(t *testing.T) {
	svc := newService()

	_, errOut, err := run(t, svc, "add", "w1", strings.Repeat("x", 20))

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, errOut, "1 to 19 characters")
}

func TestSetAndClear(t *testing.T) {
	svc := newService()

	out, _, err := run(t, svc, "set", "w1", "a", "b", "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, decodeState(t, out).Tags)

	out, _, err = run(t, svc, "set", "w1")
	require.NoError(t, err)
	assert.Empty(t, decodeState(t, out).Tags)
}

func TestDelete(t *testing.T) {
	svc := newService()
	out, _, err := run(t, svc, "set", "w1", "a", "b")
	require.NoError(t, err)
	first := decodeState(t, out).Entries[0].ID

	out, _, err = run(t, svc, "delete", "w1", strconv.Itoa(first))
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, decodeState(t, out).Tags)
}

func TestDelete_NonIntegerID(t *testing.T) {
	_, errOut, err := run(t, newService(), "delete", "w1", "abc")
	require.Error(t, err)
	assert.Contains(t, errOut, "entry id must be an integer")
}

func TestReadOnlyBlocksAddAndDelete(t *testing.T) {
	svc := newService()
	out, _, err := run(t, svc, "set", "w1", "keep")
	require.NoError(t, err)
	id := decodeState(t, out).Entries[0].ID

	out, _, err = run(t, svc, "read-only", "w1", "on")
	require.NoError(t, err)
	assert.True(t, decodeState(t, out).ReadOnly)

	_, _, err = run(t, svc, "add", "w1", "more")
	require.ErrorIs(t, err, domain.ErrReadOnly)

	_, _, err = run(t, svc, "delete", "w1", strconv.Itoa(id))
	require.ErrorIs(t, err, domain.ErrReadOnly)

	out, _, err = run(t, svc, "read-only", "w1", "off")
	require.NoError(t, err)
	st := decodeState(t, out)
	assert.False(t, st.ReadOnly)
	assert.Equal(t, []string{"keep"}, st.Tags)
}

func TestReadOnly_BadSwitch(t *testing.T) {
	_, _, err := run(t, newService(), "read-only", "w1", "maybe")
	require.ErrorContains(t, err, "expected on or off")
}

func TestExportCSVAndJSON(t *testing.T) {
	svc := newService()
	_, _, err := run(t, svc, "set", "w1", "a", "b & c")
	require.NoError(t, err)

	out, _, err := run(t, svc, "export", "w1")
	require.NoError(t, err)
	assert.Equal(t, "id,value\n100001,a\n100002,b &amp; c\n", out)

	out, _, err = run(t, svc, "export", "w1", "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":100001,"value":"a"},{"id":100002,"value":"b &amp; c"}]`, out)
}

func TestExport_UnknownFormat(t *testing.T) {
	_, _, err := run(t, newService(), "export", "w1", "--format", "xml")
	require.ErrorContains(t, err, "--format")
}

func TestListCreateReset(t *testing.T) {
	svc := newService()

	out, _, err := run(t, svc, "create")
	require.NoError(t, err)
	created := decodeState(t, out)
	require.True(t, strings.HasPrefix(created.ID, "tags-"))

	_, _, err = run(t, svc, "add", "w1", "go")
	require.NoError(t, err)

	out, _, err = run(t, svc, "list", "--limit", "1")
	require.NoError(t, err)
	var page struct {
		Data       []string `json:"data"`
		Pagination struct {
			Page  int   `json:"page"`
			Limit int   `json:"limit"`
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	assert.Len(t, page.Data, 1)
	assert.Equal(t, 1, page.Pagination.Limit)
	assert.EqualValues(t, 2, page.Pagination.Total)

	_, _, err = run(t, svc, "reset", "w1")
	require.NoError(t, err)

	out, _, err = run(t, svc, "show", "w1")
	require.NoError(t, err)
	assert.Empty(t, decodeState(t, out).Tags)
}

func TestShow_InvalidWidgetID(t *testing.T) {
	_, _, err := run(t, newService(), "show", "9-not-an-id")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestPrettyOutput(t *testing.T) {
	out, _, err := run(t, newService(), "show", "w1", "--pretty")
	require.NoError(t, err)
	assert.Contains(t, out, "\n  \"id\": \"w1\"")
}

func TestList_PageBeyondRange(t *testing.T) {
	svc := newService()
	_, _, err := run(t, svc, "add", "w1", "go")
	require.NoError(t, err)

	out, _, err := run(t, svc, "list", "--page", "461168601842738792")

	require.NoError(t, err)
	assert.Contains(t, out, `"data":[]`)
}
