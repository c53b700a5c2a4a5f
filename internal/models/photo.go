package models

import "time"

// Photo represents a row of the photos table
type Photo struct {
	ID           int64     `json:"id"`
	Filename     string    `json:"filename"` // Storage key in the image store
	Caption      string    `json:"caption"`
	DateUploaded time.Time `json:"date_uploaded"`
	IsFavorite   bool      `json:"is_favorite"`
	UploadedBy   string    `json:"uploaded_by"`
}
