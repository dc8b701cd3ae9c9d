// Package domain contains the core data types for the tags widget.
// This package has zero external dependencies and is imported by every other
// internal package (widget, repo, service, handler).
package domain

import "regexp"

// Entry is a single tag held by a widget.
// ID is a random 6-digit number used only to address the entry for deletion;
// it is not guaranteed to be unique within a collection.
// Value is the sanitized display string exactly as it is rendered.
type Entry struct {
	ID    int    `json:"id"`
	Value string `json:"value"`
}

// WidgetState is a read-only snapshot of a widget's persisted state.
type WidgetState struct {
	ID       string   `json:"id"`
	Tags     []string `json:"tags"`
	Entries  []Entry  `json:"entries"`
	ReadOnly bool     `json:"read_only"`
}

// widgetIDPattern keeps ids usable both as storage key prefixes and as
// "#<id>" CSS selectors.
var widgetIDPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]{0,63}$`)

// ValidWidgetID reports whether id can name a widget.
func ValidWidgetID(id string) bool {
	return widgetIDPattern.MatchString(id)
}
