package store

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
)

// newRandomID returns prefix-<suffix> where suffix is 8 chars of base32
// (lowercase, no padding). 8 chars base32 ~= 40 bits of space.
func newRandomID(prefix string) (string, error) {
	var b [5]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(b[:]))
	return prefix + "-" + suffix, nil
}

// NewTemplateID generates a template id that does not collide with the
// current collection.
func NewTemplateID(s State) string {
	return uniqueID("tpl", func(id string) bool { return s.Templates.Has(id) })
}

// NewEntryID generates a calendar entry id unused in the current state.
func NewEntryID(s State) string {
	return uniqueID("cal", func(id string) bool {
		_, exists := s.Calendar[id]
		return exists
	})
}

func uniqueID(prefix string, taken func(string) bool) string {
	for i := 0; i < 10; i++ {
		id, err := newRandomID(prefix)
		if err != nil {
			break
		}
		if !taken(id) {
			return id
		}
	}
	// Extremely unlikely fallback.
	for n := 1; ; n++ {
		id := fmt.Sprintf("%s-%d", prefix, n)
		if !taken(id) {
			return id
		}
	}
}
