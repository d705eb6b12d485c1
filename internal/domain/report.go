package domain

import "time"

// FieldReport is a free-text message from someone on site.
type FieldReport struct {
	AuthorName string
	Text       string
	SentAt     time.Time
}
