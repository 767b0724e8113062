package models

import "time"

type Image struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Bucket      string
	ObjectKey   string
	URL         string
	MimeType    string
	SizeBytes   int64
	IsApproved  bool
	IsPrivate   bool
	DeletedAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ReadableBy reports whether caller may see the image at all. Approval only
// gates the public listing, not direct reads by the owner or an admin.
func (i Image) ReadableBy(caller *User) bool {
	if !i.IsPrivate {
		return true
	}
	if caller == nil {
		return false
	}
	return caller.ID == i.UserID || caller.IsAdmin()
}
