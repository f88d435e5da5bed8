package dance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/CubeCoding7/ECDApp/internal/classify"
	"github.com/CubeCoding7/ECDApp/internal/metrics"
	"github.com/CubeCoding7/ECDApp/internal/reference"
)

// Extractor turns a stored image into classified results
type Extractor interface {
	Process(ctx context.Context, imagePath string) ([]classify.Result, error)
}

// IDGenerator generates unique IDs for scans
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (g *uuidGenerator) Generate() string {
	return uuid.NewString()
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles uploads and reference list changes
type Service struct {
	db          DB
	extractor   Extractor
	storage     Storage
	refs        *reference.Store
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with UUID scan IDs and the wall clock
func NewService(db DB, extractor Extractor, storage Storage, refs *reference.Store) *Service {
	return NewServiceWithDeps(db, extractor, storage, refs, &uuidGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, extractor Extractor, storage Storage, refs *reference.Store, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		extractor:   extractor,
		storage:     storage,
		refs:        refs,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

var (
	unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	whitespaceRuns      = regexp.MustCompile(`\s+`)
)

// sanitizeFilename strips special characters and truncates long phone
// generated names
func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	ext := strings.ToLower(filepath.Ext(filename))
	if unsafeFilenameChars.MatchString(strings.TrimPrefix(ext, ".")) {
		ext = ""
	}
	base := strings.TrimSuffix(filename, filepath.Ext(filename))

	base = unsafeFilenameChars.ReplaceAllString(base, "")
	base = whitespaceRuns.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	const maxLen = 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}
	if base == "" {
		base = "upload"
	}
	return base + ext
}

// ProcessUpload stores an uploaded image, extracts and classifies its text and
// records the scan. The stored file is removed when extraction fails.
func (s *Service) ProcessUpload(ctx context.Context, filename string, data []byte, contentType string) (*Scan, error) {
	if len(data) == 0 {
		return nil, &ValidationError{Field: "file", Message: "Please upload an image!"}
	}

	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	savedName, err := s.storage.Save(fmt.Sprintf("%s_%s", id, sanitizeFilename(filename)), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	results, err := s.extractor.Process(ctx, s.storage.Path(savedName))
	if err != nil {
		slog.Error("Failed to extract text",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		if delErr := s.storage.Delete(savedName); delErr != nil {
			slog.Warn("Failed to delete upload", "filename", savedName, "error", delErr)
		}
		return nil, fmt.Errorf("processing upload: %w", err)
	}

	scan := &Scan{
		ID:               id,
		Filename:         savedName,
		OriginalFilename: filename,
		ContentType:      contentType,
		Results:          results,
		CreatedAt:        now,
	}

	if err := s.db.SaveScan(scan); err != nil {
		s.storage.Delete(savedName)
		return nil, fmt.Errorf("saving scan to database: %w", err)
	}

	return scan, nil
}

// AddEntry appends a dance to the good or bad list selected by listType
func (s *Service) AddEntry(listType, name, description string) (reference.Item, error) {
	list, err := reference.ParseList(listType)
	if err != nil {
		return reference.Item{}, &ValidationError{Field: "listType", Message: "Please choose the good or bad list", Err: err}
	}
	if strings.TrimSpace(name) == "" {
		return reference.Item{}, &ValidationError{Field: "danceName", Message: "Please enter a dance name"}
	}
	if strings.TrimSpace(description) == "" {
		return reference.Item{}, &ValidationError{Field: "description", Message: "Please enter a description"}
	}

	item, err := s.refs.Insert(list, name, description)
	if err != nil {
		if errors.Is(err, reference.ErrInvalidEntry) {
			return reference.Item{}, &ValidationError{Field: "danceName", Message: err.Error(), Err: err}
		}
		return reference.Item{}, fmt.Errorf("adding %s entry: %w", list, err)
	}

	metrics.RecordEntryAdded(string(list))
	slog.Info("Added dance", "list", list, "name", item.Name)
	return item, nil
}

// Entries returns the entries of the list selected by listType
func (s *Service) Entries(listType string) ([]reference.Item, error) {
	list, err := reference.ParseList(listType)
	if err != nil {
		return nil, &ValidationError{Field: "list", Message: "list must be good or bad", Err: err}
	}
	table, err := s.refs.Table(list)
	if err != nil {
		return nil, err
	}
	return table.Entries(), nil
}

// GetScan retrieves a scan by ID
func (s *Service) GetScan(id string) (*Scan, error) {
	scan, err := s.db.GetScan(id)
	if err != nil {
		return nil, fmt.Errorf("getting scan: %w", err)
	}
	return scan, nil
}

// ListScans returns all scans, newest first
func (s *Service) ListScans() ([]*Scan, error) {
	scans, err := s.db.ListScans()
	if err != nil {
		return nil, fmt.Errorf("listing scans: %w", err)
	}
	return scans, nil
}

// GetScanFile retrieves the uploaded image for a scan
func (s *Service) GetScanFile(id string) ([]byte, string, error) {
	scan, err := s.db.GetScan(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting scan: %w", err)
	}

	data, err := s.storage.Get(scan.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("getting scan file: %w", err)
	}

	return data, scan.ContentType, nil
}

// DeleteScan removes a scan and its uploaded image
func (s *Service) DeleteScan(id string) error {
	scan, err := s.db.GetScan(id)
	if err != nil {
		return fmt.Errorf("getting scan for deletion: %w", err)
	}

	if err := s.storage.Delete(scan.Filename); err != nil {
		// Log error but continue with database deletion
		slog.Warn("Failed to delete file", "filename", scan.Filename, "error", err)
	}

	if err := s.db.DeleteScan(id); err != nil {
		return fmt.Errorf("deleting scan from database: %w", err)
	}
	return nil
}
