package surface

import (
	"time"

	"github.com/pkordes/tags-widget/internal/widget"
)

// Discard is a Surface that ignores everything. Use it for widgets driven
// through the JSON API or the CLI, where nothing is on screen.
var Discard widget.Surface = discard{}

type discard struct{}

func (discard) Mount(string)                  {}
func (discard) RenderTags(string)             {}
func (discard) ClearInput()                   {}
func (discard) SetInputDisabled(bool)         {}
func (discard) SetToggleChecked(bool)         {}
func (discard) FlashInputError(time.Duration) {}
func (discard) FocusInput()                   {}
func (discard) Listen(func(widget.Event))     {}
