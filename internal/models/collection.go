package models

import "time"

type Collection struct {
	ID          string
	UserID      string
	Title       string
	Description string
	IsPrivate   bool
	ImageIDs    []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c Collection) ReadableBy(caller *User) bool {
	if !c.IsPrivate {
		return true
	}
	if caller == nil {
		return false
	}
	return caller.ID == c.UserID || caller.IsAdmin()
}
