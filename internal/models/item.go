package models

import (
	"strings"
	"time"
)

// Status tells whether a posting reports a lost or a found object.
type Status string

const (
	StatusLost  Status = "lost"
	StatusFound Status = "found"
)

// ParseStatus maps form input onto a Status. Anything other than "found"
// is treated as "lost", which is also the default of the posting form.
func ParseStatus(s string) Status {
	if Status(strings.ToLower(strings.TrimSpace(s))) == StatusFound {
		return StatusFound
	}
	return StatusLost
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	return s == StatusLost || s == StatusFound
}

// Item is a single lost/found posting.
type Item struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	Status        Status    `json:"status"` // lost | found
	OwnerEmail    string    `json:"owner_email"`
	ImageFilename string    `json:"image_filename,omitempty"` // empty when no image is attached
	CreatedAt     time.Time `json:"created_at"`
}

// HasImage reports whether a stored file is attached to the item.
func (i Item) HasImage() bool {
	return i.ImageFilename != ""
}
