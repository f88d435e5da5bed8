package dance

import (
	"time"

	"github.com/CubeCoding7/ECDApp/internal/classify"
)

// Scan records one processed upload and its classified lines
type Scan struct {
	ID               string            `json:"id"`
	Filename         string            `json:"filename"` // stored upload, relative to the storage root
	OriginalFilename string            `json:"original_filename"`
	ContentType      string            `json:"content_type"`
	Results          []classify.Result `json:"results"`
	CreatedAt        time.Time         `json:"created_at"`
}
