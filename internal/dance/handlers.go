package dance

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/CubeCoding7/ECDApp/internal/extraction"
	"github.com/CubeCoding7/ECDApp/internal/scanning"
)

// maxUploadSize allows high-resolution phone photos
const maxUploadSize = int64(50 << 20)

const (
	uploadPrompt       = "Upload an image to process!"
	uploadErrorMessage = "Error processing the image"
)

// corsError writes an error response with CORS headers set
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	http.Error(w, message, code)
}

// jsonError writes {"error": message} with the given status
func jsonError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// writeJSON writes v as JSON with the given status
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// errorResponse maps a request error to a status code and a message the user
// may see. Internal details stay in the logs.
func errorResponse(err error, fallback string) (int, string) {
	var validationErr *ValidationError
	var extractionErr *extraction.ExtractionError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Message
	case errors.As(err, &extractionErr):
		if extractionErr.Timeout() {
			return http.StatusGatewayTimeout, uploadErrorMessage + ": text recognition timed out"
		}
		return http.StatusInternalServerError, uploadErrorMessage
	}
	return http.StatusInternalServerError, fallback
}

// readUpload reads the named multipart file field
func readUpload(w http.ResponseWriter, r *http.Request, field string) (string, []byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "", nil, "", &ValidationError{Field: field, Message: "File is too large. Maximum size is 50MB. Please compress or resize your image.", Err: err}
		}
		return "", nil, "", &ValidationError{Field: field, Message: "Please upload an image!", Err: err}
	}

	f, header, err := r.FormFile(field)
	if err != nil {
		return "", nil, "", &ValidationError{Field: field, Message: "Please upload an image!", Err: err}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", nil, "", fmt.Errorf("reading upload %s: %w", header.Filename, err)
	}

	return header.Filename, data, uploadContentType(header, data), nil
}

func uploadContentType(header *multipart.FileHeader, data []byte) string {
	contentType := strings.ToLower(strings.TrimSpace(header.Header.Get("Content-Type")))
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = scanning.DetectContentType(header.Filename, data)
	}
	return contentType
}

// handleIndex serves the HTML interface
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderIndex(w, http.StatusOK, indexPage{Message: uploadPrompt})
}

// handleUpload handles the upload form and renders the classified dances
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	filename, data, contentType, err := readUpload(w, r, "danceImage")
	if err == nil {
		var scan *Scan
		scan, err = s.service.ProcessUpload(r.Context(), filename, data, contentType)
		if err == nil {
			s.renderIndex(w, http.StatusOK, indexPage{
				Message:  fmt.Sprintf("Found %d dances in %s", len(scan.Results), filename),
				Results:  scan.Results,
				Uploaded: true,
			})
			return
		}
	}

	slog.Error("Error processing image", "error", err)
	code, message := errorResponse(err, uploadErrorMessage)
	s.renderIndex(w, code, indexPage{Message: uploadPrompt, Error: message})
}

// handleAddDance handles the add-dance form and redirects back to the index
func (s *Server) handleAddDance(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderIndex(w, http.StatusBadRequest, indexPage{Message: uploadPrompt, Error: "Invalid form submission"})
		return
	}

	_, err := s.service.AddEntry(r.PostFormValue("listType"), r.PostFormValue("danceName"), r.PostFormValue("description"))
	if err != nil {
		slog.Error("Error adding dance", "error", err)
		code, message := errorResponse(err, "Error saving the dance")
		s.renderIndex(w, code, indexPage{Message: uploadPrompt, Error: message})
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleListDances returns the entries of one list, or both when no list is given
func (s *Server) handleListDances(w http.ResponseWriter, r *http.Request) {
	list := r.URL.Query().Get("list")
	if list == "" {
		writeJSON(w, http.StatusOK, map[string]any{
			"good": s.service.refs.Good.Entries(),
			"bad":  s.service.refs.Bad.Entries(),
		})
		return
	}

	entries, err := s.service.Entries(list)
	if err != nil {
		code, message := errorResponse(err, "Internal server error")
		jsonError(w, message, code)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleCreateDance adds an entry from a JSON body
func (s *Server) handleCreateDance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		List        string `json:"list"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	item, err := s.service.AddEntry(req.List, req.Name, req.Description)
	if err != nil {
		slog.Error("Error adding dance", "error", err)
		code, message := errorResponse(err, "Error saving the dance")
		jsonError(w, message, code)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// handleCreateScan handles an API upload and returns the scan
func (s *Server) handleCreateScan(w http.ResponseWriter, r *http.Request) {
	filename, data, contentType, err := readUpload(w, r, "file")
	if err == nil {
		var scan *Scan
		scan, err = s.service.ProcessUpload(r.Context(), filename, data, contentType)
		if err == nil {
			writeJSON(w, http.StatusCreated, scan)
			return
		}
	}

	slog.Error("Error processing image", "error", err)
	code, message := errorResponse(err, uploadErrorMessage)
	jsonError(w, message, code)
}

// handleListScans returns all scans, newest first
func (s *Server) handleListScans(w http.ResponseWriter, r *http.Request) {
	scans, err := s.service.ListScans()
	if err != nil {
		slog.Error("Error listing scans", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// Ensure we always return an array, not nil
	if scans == nil {
		scans = []*Scan{}
	}

	writeJSON(w, http.StatusOK, scans)
}

// handleGetScan returns a single scan
func (s *Server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	scan, err := s.service.GetScan(r.PathValue("id"))
	if err != nil {
		corsError(w, "Scan not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, scan)
}

// handleGetScanFile returns the uploaded image for a scan
func (s *Server) handleGetScanFile(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := s.service.GetScanFile(r.PathValue("id"))
	if err != nil {
		corsError(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handleDeleteScan deletes a scan and its upload
func (s *Server) handleDeleteScan(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteScan(r.PathValue("id")); err != nil {
		corsError(w, "Error deleting scan", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleStaticCSS serves the CSS file
func (s *Server) handleStaticCSS(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "text/css")
	w.Write(appCSS)
}
