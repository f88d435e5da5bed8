package scanning

import "context"

// Scanner extracts raw text from an image file
type Scanner interface {
	// ExtractText runs text recognition on the image at imagePath using the
	// given language (a Tesseract language code such as "eng"). An image with
	// no text yields an empty string, not an error.
	ExtractText(ctx context.Context, imagePath, language string) (string, error)

	// Close closes the scanner and releases resources
	Close() error
}
