package extraction

import (
	"context"
	"errors"
	"fmt"
)

// ExtractionError reports that text could not be extracted from an image,
// either because the OCR engine failed or the image was unreadable. It is a
// per-request failure and never fatal to the process.
type ExtractionError struct {
	ImagePath string
	Err       error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting text from %s: %v", e.ImagePath, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the extraction ran past its deadline
func (e *ExtractionError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}
