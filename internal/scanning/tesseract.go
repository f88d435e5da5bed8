package scanning

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"
	"golang.org/x/sync/semaphore"
)

// ocrClient is the subset of the gosseract client used for recognition
type ocrClient interface {
	SetLanguage(langs ...string) error
	SetImageFromBytes(data []byte) error
	Text() (string, error)
	Close() error
}

// Tesseract implements the Scanner interface using a local Tesseract install
type Tesseract struct {
	clientFactory func() ocrClient
	workers       *semaphore.Weighted
}

// NewTesseract creates a Tesseract scanner that runs at most workers
// recognitions at once. workers <= 0 means one per CPU.
func NewTesseract(workers int) *Tesseract {
	return newTesseractWithClient(workers, func() ocrClient {
		return gosseract.NewClient()
	})
}

func newTesseractWithClient(workers int, factory func() ocrClient) *Tesseract {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Tesseract{
		clientFactory: factory,
		workers:       semaphore.NewWeighted(int64(workers)),
	}
}

type recognition struct {
	text string
	err  error
}

// ExtractText recognizes the text in the image at imagePath. The cgo call
// cannot be interrupted, so on cancellation the recognition finishes in the
// background and its result is discarded.
func (t *Tesseract) ExtractText(ctx context.Context, imagePath, language string) (string, error) {
	data, err := loadImage(imagePath)
	if err != nil {
		return "", err
	}

	if err := t.workers.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("waiting for tesseract worker: %w", err)
	}

	done := make(chan recognition, 1)
	go func() {
		defer t.workers.Release(1)
		text, err := t.recognize(data, language)
		done <- recognition{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("recognizing text: %w", ctx.Err())
	case r := <-done:
		return r.text, r.err
	}
}

func (t *Tesseract) recognize(data []byte, language string) (string, error) {
	start := time.Now()
	c := t.clientFactory()
	defer c.Close()

	if language != "" {
		if err := c.SetLanguage(language); err != nil {
			return "", fmt.Errorf("setting language: %w", err)
		}
	}
	if err := c.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("setting image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognizing text: %w", err)
	}

	slog.Debug("Tesseract recognition finished", "language", language, "bytes", len(data), "duration", time.Since(start))
	return strings.TrimSpace(text), nil
}

// Close is a no-op; a client is created per recognition
func (t *Tesseract) Close() error {
	return nil
}
