package widget

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkordes/tags-widget/internal/domain"
)

const (
	collectionKeySuffix = "-tags-collection"
	readOnlyKeySuffix   = "-is-read-only"
)

// CollectionKey is the storage key holding widget id's entries as JSON.
func CollectionKey(id string) string { return id + collectionKeySuffix }

// ReadOnlyKey is the storage key holding widget id's read-only flag.
func ReadOnlyKey(id string) string { return id + readOnlyKeySuffix }

// IDFromKey returns the widget id a storage key belongs to.
func IDFromKey(key string) (string, bool) {
	for _, suffix := range []string{collectionKeySuffix, readOnlyKeySuffix} {
		if id, ok := strings.CutSuffix(key, suffix); ok && id != "" {
			return id, true
		}
	}
	return "", false
}

func loadCollection(s Storage, id string) []domain.Entry {
	raw, ok := s.GetItem(CollectionKey(id))
	if !ok {
		return []domain.Entry{}
	}
	var entries []domain.Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil || entries == nil {
		return []domain.Entry{}
	}
	return entries
}

func loadReadOnly(s Storage, id string) bool {
	raw, ok := s.GetItem(ReadOnlyKey(id))
	if !ok {
		return false
	}
	var readOnly *bool
	if err := json.Unmarshal([]byte(raw), &readOnly); err != nil || readOnly == nil {
		return false
	}
	return *readOnly
}

func (w *TagWidget) saveCollection() {
	b, err := json.Marshal(w.collection)
	if err != nil {
		// Entries are ints and strings; Marshal cannot fail on them.
		panic("widget: encode collection: " + err.Error())
	}
	w.storage.SetItem(CollectionKey(w.id), string(b))
}

func (w *TagWidget) saveReadOnly() {
	w.storage.SetItem(ReadOnlyKey(w.id), strconv.FormatBool(w.readOnly))
}
