package models

import "time"

// Dataset represents one uploaded loan tape. Records are immutable once the
// upload pipeline has written them; this service only reads them back.
type Dataset struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	FileName     string    `json:"fileName"`
	FileType     string    `json:"fileType,omitempty"`
	TotalRecords int       `json:"totalRecords"`
	Status       string    `json:"status"`
	UploadDate   time.Time `json:"uploadDate"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
