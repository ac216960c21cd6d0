package model

import "time"

// UploadProgress tracks a chunked video upload. It lives in redis keyed by
// the client-chosen identifier, never in the database.
type UploadProgress struct {
	Identifier     string       `json:"identifier"`
	Filename       string       `json:"filename"`
	TotalChunks    int          `json:"totalChunks"`
	UploadedChunks int          `json:"uploadedChunks"`
	FileSize       int64        `json:"fileSize"`
	Chunks         map[int]bool `json:"chunks"`
	CreatedAt      time.Time    `json:"createdAt"`
}
