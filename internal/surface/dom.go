// Package surface provides the places a widget can render into:
// an in-process DOM used to produce full pages, a Datastar SSE stream that
// patches a live browser page, and a sink that drops everything.
package surface

import (
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pkordes/tags-widget/internal/widget"
)

// DOM is a server-side document fragment rooted at the widget's container
// element. It renders to HTML for the initial page load and can replay user
// interactions, which makes it the surface of choice in tests.
//
// DOM is safe for concurrent use; the delayed error-flash removal runs on
// its own goroutine.
type DOM struct {
	mu       sync.Mutex
	root     *html.Node
	listener func(widget.Event)
	focused  bool
}

var _ widget.Surface = (*DOM)(nil)

// NewDOM returns an empty container element <div id="id">.
func NewDOM(id string) *DOM {
	return &DOM{root: &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
		Attr:     []html.Attribute{{Key: "id", Val: id}},
	}}
}

// Mount replaces the container's children with markup.
func (d *DOM) Mount(markup string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	replaceChildren(d.root, markup)
}

// RenderTags replaces the children of the tag display region.
func (d *DOM) RenderTags(markup string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if field := findByClass(d.root, widget.ClassTagsField); field != nil {
		replaceChildren(field, markup)
	}
}

// ClearInput empties the input's value.
func (d *DOM) ClearInput() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if input := findByClass(d.root, widget.ClassInput); input != nil {
		setAttr(input, "value", "")
	}
}

// SetInputDisabled toggles the input's disabled attribute and class.
func (d *DOM) SetInputDisabled(disabled bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	input := findByClass(d.root, widget.ClassInput)
	if input == nil {
		return
	}
	if disabled {
		setAttr(input, "disabled", "")
		addClass(input, widget.ClassInputDisabled)
		return
	}
	removeAttr(input, "disabled")
	removeClass(input, widget.ClassInputDisabled)
}

// SetToggleChecked toggles the checkbox's checked attribute.
func (d *DOM) SetToggleChecked(checked bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	toggle := findByClass(d.root, widget.ClassToggle)
	if toggle == nil {
		return
	}
	if checked {
		setAttr(toggle, "checked", "")
		return
	}
	removeAttr(toggle, "checked")
}

// FlashInputError marks the input with the error class and schedules its
// removal after dur.
func (d *DOM) FlashInputError(dur time.Duration) {
	d.mu.Lock()
	if input := findByClass(d.root, widget.ClassInput); input != nil {
		addClass(input, widget.ClassInputError)
	}
	d.mu.Unlock()

	time.AfterFunc(dur, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if input := findByClass(d.root, widget.ClassInput); input != nil {
			removeClass(input, widget.ClassInputError)
		}
	})
}

// FocusInput marks the input as focused; the rendered page autofocuses it.
func (d *DOM) FocusInput() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.focused = true
	if input := findByClass(d.root, widget.ClassInput); input != nil {
		setAttr(input, "autofocus", "")
	}
}

// Listen records the handler that Dispatch and the interaction helpers call.
func (d *DOM) Listen(handle func(widget.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listener = handle
}

// Dispatch delivers ev to the listener, if one is subscribed.
func (d *DOM) Dispatch(ev widget.Event) {
	d.mu.Lock()
	handle := d.listener
	d.mu.Unlock()
	if handle != nil {
		handle(ev)
	}
}

// Type replaces the input's draft text. Typing into a disabled input does nothing.
func (d *DOM) Type(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	input := findByClass(d.root, widget.ClassInput)
	if input == nil || hasAttr(input, "disabled") {
		return
	}
	setAttr(input, "value", text)
}

// SubmitForm submits the form with the input's current draft.
func (d *DOM) SubmitForm() {
	d.Dispatch(widget.Submit{Draft: d.InputValue()})
}

// ClickToggle flips the checkbox and reports the click.
func (d *DOM) ClickToggle() {
	d.mu.Lock()
	checked := false
	if toggle := findByClass(d.root, widget.ClassToggle); toggle != nil {
		checked = !hasAttr(toggle, "checked")
		if checked {
			setAttr(toggle, "checked", "")
		} else {
			removeAttr(toggle, "checked")
		}
	}
	d.mu.Unlock()
	d.Dispatch(widget.ToggleClick{Checked: checked})
}

// ClickDelete clicks the delete affordance carrying dataID.
func (d *DOM) ClickDelete(dataID string) {
	d.Dispatch(widget.TagsClick{DeleteControl: true, DataID: dataID})
}

// HTML renders the container element and everything inside it.
func (d *DOM) HTML() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var b strings.Builder
	if err := html.Render(&b, d.root); err != nil {
		return ""
	}
	return b.String()
}

// InputValue returns the input's draft text.
func (d *DOM) InputValue() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	input := findByClass(d.root, widget.ClassInput)
	if input == nil {
		return ""
	}
	v, _ := attr(input, "value")
	return v
}

// InputDisabled reports whether the input is disabled.
func (d *DOM) InputDisabled() bool {
	return d.inputHas(func(n *html.Node) bool { return hasAttr(n, "disabled") })
}

// InputHasError reports whether the error flash is currently showing.
func (d *DOM) InputHasError() bool {
	return d.inputHas(func(n *html.Node) bool { return hasClass(n, widget.ClassInputError) })
}

// Focused reports whether focus was returned to the input.
func (d *DOM) Focused() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.focused
}

// ToggleChecked reports whether the read-only toggle is checked.
func (d *DOM) ToggleChecked() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	toggle := findByClass(d.root, widget.ClassToggle)
	return toggle != nil && hasAttr(toggle, "checked")
}

// TagTexts returns the decoded text of every rendered tag, in order.
func (d *DOM) TagTexts() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var texts []string
	for _, tag := range findAllByClass(d.root, widget.ClassTag) {
		if span := firstElement(tag, atom.Span); span != nil {
			texts = append(texts, textContent(span))
		}
	}
	return texts
}

// TagDataIDs returns the data-id of every rendered delete affordance, in order.
func (d *DOM) TagDataIDs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	var ids []string
	for _, del := range findAllByClass(d.root, widget.ClassDelete) {
		v, _ := attr(del, "data-id")
		ids = append(ids, v)
	}
	return ids
}

func (d *DOM) inputHas(pred func(*html.Node) bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	input := findByClass(d.root, widget.ClassInput)
	return input != nil && pred(input)
}

// --- tree helpers -----------------------------------------------------------

func replaceChildren(parent *html.Node, markup string) {
	nodes, err := html.ParseFragment(strings.NewReader(markup), parent)
	if err != nil {
		return
	}
	for c := parent.FirstChild; c != nil; c = parent.FirstChild {
		parent.RemoveChild(c)
	}
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		parent.AppendChild(n)
	}
}

func findByClass(n *html.Node, class string) *html.Node {
	if n.Type == html.ElementNode && hasClass(n, class) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByClass(c, class); found != nil {
			return found
		}
	}
	return nil
}

func findAllByClass(n *html.Node, class string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, class) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func firstElement(n *html.Node, a atom.Atom) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			return c
		}
	}
	return nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasAttr(n *html.Node, key string) bool {
	_, ok := attr(n, key)
	return ok
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	n.Attr = slices.DeleteFunc(n.Attr, func(a html.Attribute) bool {
		return a.Namespace == "" && a.Key == key
	})
}

func hasClass(n *html.Node, class string) bool {
	v, _ := attr(n, "class")
	return slices.Contains(strings.Fields(v), class)
}

func addClass(n *html.Node, class string) {
	if hasClass(n, class) {
		return
	}
	v, _ := attr(n, "class")
	setAttr(n, "class", strings.TrimSpace(v+" "+class))
}

func removeClass(n *html.Node, class string) {
	v, _ := attr(n, "class")
	fields := slices.DeleteFunc(strings.Fields(v), func(c string) bool { return c == class })
	setAttr(n, "class", strings.Join(fields, " "))
}
