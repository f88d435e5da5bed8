// Package extraction turns an uploaded image into classified results: OCR,
// then normalization, then classification against the reference lists.
package extraction

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/CubeCoding7/ECDApp/internal/classify"
	"github.com/CubeCoding7/ECDApp/internal/metrics"
	"github.com/CubeCoding7/ECDApp/internal/normalize"
	"github.com/CubeCoding7/ECDApp/internal/reference"
	"github.com/CubeCoding7/ECDApp/internal/scanning"
)

const (
	// DefaultLanguage is the OCR language used when none is configured
	DefaultLanguage = "eng"

	// DefaultTimeout bounds a single OCR call when no timeout is configured
	DefaultTimeout = 60 * time.Second
)

// Pipeline runs the OCR service and classifies its output
type Pipeline struct {
	scanner  scanning.Scanner
	store    *reference.Store
	language string
	timeout  time.Duration
}

// New creates a Pipeline. An empty language or non-positive timeout selects
// the defaults.
func New(scanner scanning.Scanner, store *reference.Store, language string, timeout time.Duration) *Pipeline {
	if language == "" {
		language = DefaultLanguage
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Pipeline{
		scanner:  scanner,
		store:    store,
		language: language,
		timeout:  timeout,
	}
}

// Process extracts the text of the image at imagePath and classifies each
// non-blank line in order. OCR failures, including running past the timeout,
// are returned as *ExtractionError. An image without text gives an empty
// result, not an error.
func (p *Pipeline) Process(ctx context.Context, imagePath string) ([]classify.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	text, err := p.scanner.ExtractText(ctx, imagePath, p.language)
	elapsed := time.Since(start)
	metrics.RecordScan(err == nil, elapsed.Seconds())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = errors.Join(err, ctxErr)
		}
		return nil, &ExtractionError{ImagePath: imagePath, Err: err}
	}

	candidates := normalize.Candidates(text)
	results := classify.ClassifyAll(candidates, p.store.Good, p.store.Bad)
	for _, r := range results {
		metrics.RecordCandidate(string(r.List))
	}

	slog.Info("Extracted candidates", "image", imagePath, "candidates", len(results), "duration", elapsed)
	return results, nil
}
