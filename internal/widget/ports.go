package widget

import "time"

// Storage is the durable key-value store a widget persists into.
// It is synchronous and infallible from the widget's point of view:
// adapters that talk to real storage record their own failures.
type Storage interface {
	// GetItem returns the value stored under key and whether it was present.
	GetItem(key string) (string, bool)

	// SetItem stores value under key, replacing any previous value.
	SetItem(key, value string)
}

// Surface is the region of a page a widget renders into and receives
// user events from. Implementations own the markup; the widget only tells
// them what to show.
type Surface interface {
	// Mount replaces the whole widget subtree with markup.
	Mount(markup string)

	// RenderTags replaces the contents of the tag display region.
	RenderTags(markup string)

	// ClearInput empties the text input's draft.
	ClearInput()

	// SetInputDisabled enables or disables typing into the text input.
	SetInputDisabled(disabled bool)

	// SetToggleChecked marks or unmarks the read-only toggle.
	SetToggleChecked(checked bool)

	// FlashInputError shows the input error indication for d, then removes it.
	// The removal is fire-and-forget.
	FlashInputError(d time.Duration)

	// FocusInput returns focus to the text input.
	FocusInput()

	// Listen subscribes handle to the user events raised inside the subtree.
	Listen(handle func(Event))
}

// Event is a user interaction raised by a Surface.
type Event interface {
	event()
}

// TagsClick is a click somewhere inside the tag display region.
type TagsClick struct {
	// DeleteControl is true when the click target is a delete affordance.
	DeleteControl bool
	// DataID is the raw data-id carried by the delete affordance.
	DataID string
}

// ToggleClick is a click on the read-only toggle, after the toggle flipped.
type ToggleClick struct {
	Checked bool
}

// Submit is a form submission carrying the input's current draft text.
type Submit struct {
	Draft string
}

func (TagsClick) event()   {}
func (ToggleClick) event() {}
func (Submit) event()      {}
