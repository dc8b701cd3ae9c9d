// Package widget implements the tag-entry widget: an ordered collection of
// short tags with a read-only lock, persisted after every change and
// rendered onto a Surface.
//
// A TagWidget is not safe for concurrent use. Callers that share storage
// between goroutines serialise access per widget id.
package widget

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"time"

	"github.com/pkordes/tags-widget/internal/domain"
)

// ErrorFlashDuration is how long a rejected submission marks the input.
const ErrorFlashDuration = 200 * time.Millisecond

// DefaultActionBase prefixes the event URLs embedded in the markup.
const DefaultActionBase = "/widgets"

// TagWidget owns one widget's collection and read-only flag.
type TagWidget struct {
	id         string
	storage    Storage
	surface    Surface
	newID      func() int
	actionBase string

	collection []domain.Entry
	readOnly   bool
}

// Option customises a TagWidget.
type Option func(*TagWidget)

// WithIDGenerator replaces RandomNumber as the source of entry ids.
func WithIDGenerator(f func() int) Option {
	return func(w *TagWidget) { w.newID = f }
}

// WithActionBase sets the URL prefix the rendered markup posts events to.
func WithActionBase(base string) Option {
	return func(w *TagWidget) { w.actionBase = base }
}

// New loads the widget named id from storage. Absent or malformed state
// falls back to an empty, writable collection. New does not render.
func New(id string, storage Storage, surface Surface, opts ...Option) *TagWidget {
	w := &TagWidget{
		id:         id,
		storage:    storage,
		surface:    surface,
		newID:      RandomNumber,
		actionBase: DefaultActionBase,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.collection = loadCollection(storage, id)
	w.readOnly = loadReadOnly(storage, id)
	return w
}

// ID returns the widget's identifier.
func (w *TagWidget) ID() string { return w.id }

// ReadOnly reports whether additions and deletions are currently blocked.
func (w *TagWidget) ReadOnly() bool { return w.readOnly }

// Tags returns the tag values in collection order.
func (w *TagWidget) Tags() []string {
	tags := make([]string, len(w.collection))
	for i, e := range w.collection {
		tags[i] = e.Value
	}
	return tags
}

// Entries returns a copy of the collection.
func (w *TagWidget) Entries() []domain.Entry {
	return slices.Clone(w.collection)
}

// State returns a snapshot of the widget.
func (w *TagWidget) State() domain.WidgetState {
	return domain.WidgetState{
		ID:       w.id,
		Tags:     w.Tags(),
		Entries:  w.Entries(),
		ReadOnly: w.readOnly,
	}
}

// SetTags replaces the whole collection. Every value gets a fresh id,
// including values that were already present.
func (w *TagWidget) SetTags(values []string) {
	collection := make([]domain.Entry, 0, len(values))
	for _, v := range values {
		collection = append(collection, domain.Entry{ID: w.newID(), Value: v})
	}
	w.collection = collection
	w.saveCollection()
	w.renderTags()
}

// AddOneTag appends text without validating it.
func (w *TagWidget) AddOneTag(text string) {
	w.collection = append(w.collection, domain.Entry{ID: w.newID(), Value: text})
	w.saveCollection()
	w.renderTags()
}

// DeleteOneTag removes every entry whose id is entryID. It does nothing
// while the widget is read-only. Deleting an unknown id still persists and
// re-renders.
func (w *TagWidget) DeleteOneTag(entryID int) {
	if w.readOnly {
		return
	}
	w.collection = slices.DeleteFunc(w.collection, func(e domain.Entry) bool {
		return e.ID == entryID
	})
	w.saveCollection()
	w.renderTags()
}

// SetReadOnly locks or unlocks the widget and updates the input and toggle
// controls to match. Locking discards the current draft.
func (w *TagWidget) SetReadOnly(readOnly bool) {
	if readOnly {
		w.surface.ClearInput()
	}
	w.surface.SetInputDisabled(readOnly)
	w.surface.SetToggleChecked(readOnly)
	w.readOnly = readOnly
	w.saveReadOnly()
}

// RenderWidget builds the full widget on the surface, applies the current
// read-only state to the fresh controls and subscribes to user events.
func (w *TagWidget) RenderWidget() {
	w.surface.Mount(renderWidgetMarkup(w.id, w.actionBase))
	w.renderTags()
	if w.readOnly {
		w.surface.SetToggleChecked(true)
		w.surface.SetInputDisabled(true)
	}
	w.surface.Listen(w.HandleEvent)
}

// HandleEvent reacts to a user event raised by the surface.
func (w *TagWidget) HandleEvent(ev Event) {
	switch ev := ev.(type) {
	case TagsClick:
		if ev.DeleteControl {
			w.DeleteOneTag(coerceEntryID(ev.DataID))
		}
	case ToggleClick:
		w.SetReadOnly(ev.Checked)
	case Submit:
		w.Submit(ev.Draft)
	}
}

// Submit runs the form submission flow for draft and reports whether a tag
// was added. Rejected drafts flash the input unless the widget is
// read-only. Focus always returns to the input.
func (w *TagWidget) Submit(draft string) bool {
	value := CheckInputData(draft)
	accepted := ValidTag(value) && !w.readOnly
	switch {
	case accepted:
		w.surface.ClearInput()
		w.AddOneTag(value)
		w.renderTags()
	case !w.readOnly:
		w.surface.FlashInputError(ErrorFlashDuration)
	}
	w.surface.FocusInput()
	return accepted
}

func (w *TagWidget) renderTags() {
	w.surface.RenderTags(renderTagsMarkup(w.collection))
}

// coerceEntryID converts a data-id attribute to an entry id the way the
// browser's Number() does: blank input yields 0, 0x/0o/0b prefixes select
// hex, octal and binary, and anything that is not an integral number within
// float64's exact range yields -1. Neither 0 nor -1 can match a generated id.
func coerceEntryID(raw string) int {
	raw = trimSpace(raw)
	if raw == "" {
		return 0
	}
	if len(raw) > 2 && raw[0] == '0' {
		if base, ok := radixPrefixes[raw[1]]; ok {
			// ParseUint with an explicit base rejects signs and underscores,
			// which Number() rejects too.
			u, err := strconv.ParseUint(raw[2:], base, 64)
			if err != nil || u > maxExactInt {
				return -1
			}
			return int(u)
		}
	}
	if !decimalLiteral.MatchString(raw) {
		return -1
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > maxExactInt {
		return -1
	}
	return int(f)
}

// maxExactInt is the largest magnitude below which every integer is exactly
// representable as a float64.
const maxExactInt = 1 << 53

var radixPrefixes = map[byte]int{
	'x': 16, 'X': 16,
	'o': 8, 'O': 8,
	'b': 2, 'B': 2,
}

// decimalLiteral accepts signed decimal numbers with optional fraction and
// exponent. It excludes the hex floats, underscores and inf/nan spellings
// ParseFloat would otherwise take.
var decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
