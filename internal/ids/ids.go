package ids

import "github.com/segmentio/ksuid"

// New returns a new time-sortable identifier. Creation order is preserved
// by lexicographic order, which the listing queries rely on.
func New() string {
	return ksuid.New().String()
}
