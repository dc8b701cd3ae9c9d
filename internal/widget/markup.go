package widget

import (
	"html/template"
	"strings"

	"github.com/pkordes/tags-widget/internal/domain"
)

// CSS class names shared by the markup and the surfaces that manipulate it.
const (
	ClassWrapper       = "tags-widget__wrapper"
	ClassTagsField     = "tags-widget__tags-field"
	ClassForm          = "tags-widget__form"
	ClassInput         = "tags-widget__input"
	ClassInputDisabled = "tags-widget__input--disabled"
	ClassInputError    = "tags-widget__input--error"
	ClassToggle        = "tags-widget__toggle"
	ClassToggleLabel   = "tags-widget__label-for-toggle"
	ClassButton        = "tags-widget__btn"
	ClassTag           = "tags-widget__tag"
	ClassDelete        = "tag__btn-delete"
)

// Form field names posted by the Datastar actions.
const (
	FieldTag      = "tag"
	FieldReadOnly = "read_only"
)

// InputPlaceholder is shown in the empty text input.
const InputPlaceholder = "Enter tag (1 - 20 symbols)"

var widgetTmpl = template.Must(template.New("widget").Parse(`<div class="tags-widget__wrapper">
  <div class="tags-widget__tags-field" data-on:click="evt.target.classList.contains('tag__btn-delete') &amp;&amp; @post('{{.DeleteURL}}/' + evt.target.dataset.id)"></div>
  <form class="tags-widget__form" data-on:submit__prevent="@post('{{.SubmitURL}}', {contentType: 'form'})">
    <input class="tags-widget__input" type="text" name="tag" autocomplete="off" placeholder="{{.Placeholder}}">
    <div class="tags-widget__btns">
      <input type="checkbox" class="tags-widget__toggle" id="{{.ToggleID}}" name="read_only" data-on:click="@post('{{.ToggleURL}}', {contentType: 'form'})">
      <label class="tags-widget__label-for-toggle" for="{{.ToggleID}}"></label>
      <button class="tags-widget__btn">Submit</button>
    </div>
  </form>
</div>`))

var tagsTmpl = template.Must(template.New("tags").Parse(`{{range .}}<div class="tags-widget__tag"><span>{{.Value}}</span><span class="tag__btn-delete" data-id="{{.ID}}"></span></div>{{end}}`))

type widgetView struct {
	ToggleID    string
	Placeholder string
	SubmitURL   string
	ToggleURL   string
	DeleteURL   string
}

type tagView struct {
	ID int
	// Value is already escaped by CheckInputData and is emitted verbatim.
	Value template.HTML
}

// ToggleID returns the DOM id of the read-only checkbox of widget id.
func ToggleID(id string) string {
	return id + "-toggle"
}

func renderWidgetMarkup(id, actionBase string) string {
	events := strings.TrimRight(actionBase, "/") + "/" + id + "/events"
	return execute(widgetTmpl, widgetView{
		ToggleID:    ToggleID(id),
		Placeholder: InputPlaceholder,
		SubmitURL:   events + "/submit",
		ToggleURL:   events + "/toggle",
		DeleteURL:   events + "/delete",
	})
}

func renderTagsMarkup(entries []domain.Entry) string {
	views := make([]tagView, len(entries))
	for i, e := range entries {
		views[i] = tagView{ID: e.ID, Value: template.HTML(e.Value)} //nolint:gosec // sanitized on entry
	}
	return execute(tagsTmpl, views)
}

// execute panics on failure: both templates are static and their data is
// fully typed, so an error here is a programming mistake.
func execute(t *template.Template, data any) string {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		panic("widget: render " + t.Name() + ": " + err.Error())
	}
	return b.String()
}
