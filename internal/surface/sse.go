package surface

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/starfederation/datastar-go/datastar"

	"github.com/pkordes/tags-widget/internal/widget"
)

// SSE drives a widget that lives in a browser page through a Datastar
// server-sent event stream. Markup changes become element patches; control
// state changes become small scripts run against the widget's subtree.
type SSE struct {
	sse *datastar.ServerSentEventGenerator
	id  string
	err error
}

var _ widget.Surface = (*SSE)(nil)

// NewSSE returns a surface writing to sse for the widget rendered in the
// element with the given id.
func NewSSE(sse *datastar.ServerSentEventGenerator, id string) *SSE {
	return &SSE{sse: sse, id: id}
}

// Err returns every write failure seen so far, joined.
func (s *SSE) Err() error { return s.err }

// Mount patches the widget container's inner markup.
func (s *SSE) Mount(markup string) {
	s.record(s.sse.PatchElements(markup,
		datastar.WithSelector("#"+s.id),
		datastar.WithMode(datastar.ElementPatchModeInner),
	))
}

// RenderTags patches the tag display region. An empty region cannot be
// expressed as an element patch, so it is cleared with a script instead.
func (s *SSE) RenderTags(markup string) {
	sel := s.selector(widget.ClassTagsField)
	if markup == "" {
		s.script(`document.querySelectorAll(%s).forEach(el => el.replaceChildren())`, quote(sel))
		return
	}
	s.record(s.sse.PatchElements(markup,
		datastar.WithSelector(sel),
		datastar.WithMode(datastar.ElementPatchModeInner),
	))
}

// ClearInput empties the input's draft.
func (s *SSE) ClearInput() {
	s.onInput(`el.value = ''`)
}

// SetInputDisabled toggles the input's disabled state and class.
func (s *SSE) SetInputDisabled(disabled bool) {
	s.onInput(`el.disabled = %t; el.classList.toggle(%s, %t)`, disabled, quote(widget.ClassInputDisabled), disabled)
}

// SetToggleChecked sets the checkbox state.
func (s *SSE) SetToggleChecked(checked bool) {
	s.script(`document.querySelectorAll(%s).forEach(el => { el.checked = %t })`, quote(s.selector(widget.ClassToggle)), checked)
}

// FlashInputError adds the error class and removes it in the browser after d.
func (s *SSE) FlashInputError(d time.Duration) {
	class := quote(widget.ClassInputError)
	s.onInput(`el.classList.add(%s); setTimeout(() => el.classList.remove(%s), %d)`, class, class, d.Milliseconds())
}

// FocusInput focuses the input.
func (s *SSE) FocusInput() {
	s.onInput(`el.focus()`)
}

// Listen is a no-op: the Datastar actions in the markup post events to the
// server, which delivers them with TagWidget.HandleEvent.
func (s *SSE) Listen(func(widget.Event)) {}

func (s *SSE) onInput(body string, args ...any) {
	s.script(`document.querySelectorAll(%s).forEach(el => { `+body+` })`,
		append([]any{quote(s.selector(widget.ClassInput))}, args...)...)
}

func (s *SSE) script(format string, args ...any) {
	s.record(s.sse.ExecuteScript(fmt.Sprintf(format, args...)))
}

func (s *SSE) selector(class string) string {
	return "#" + s.id + " ." + class
}

func (s *SSE) record(err error) {
	if err != nil {
		s.err = errors.Join(s.err, err)
	}
}

// quote renders s as a JavaScript string literal.
func quote(s string) string {
	return strconv.Quote(s)
}
