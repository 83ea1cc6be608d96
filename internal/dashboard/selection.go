// Package dashboard implements the upload-and-render controller: file
// selection, the view state machine, submission and export.
package dashboard

import (
	"fmt"
	"regexp"
)

// Mode selects between one-file and many-file uploads.
type Mode int

const (
	ModeSingle Mode = iota
	ModeMulti
)

func (m Mode) String() string {
	if m == ModeMulti {
		return "multi"
	}
	return "single"
}

// MaxUploadBytes is the per-file size ceiling enforced before submission.
const MaxUploadBytes = 16 << 20

var allowedNamePattern = regexp.MustCompile(`(?i)\.(xlsx|xls|csv|json)$`)

// allowedMediaTypes accepts files whose browser-reported type is usable
// even when the name lacks a recognized suffix.
var allowedMediaTypes = map[string]bool{
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/vnd.ms-excel": true,
	"text/csv":                 true,
	"application/json":         true,
}

// SelectedFile is one file staged for upload.
type SelectedFile struct {
	Name      string
	Size      int64
	MediaType string
	Data      []byte
}

// ValidationError rejects a file before any network activity.
type ValidationError struct {
	FileName string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.FileName, e.Reason)
}

// Selection holds the staged files for the active mode. Methods are not
// safe for concurrent use; the controller serializes access.
type Selection struct {
	mode  Mode
	files []SelectedFile
}

// NewSelection creates an empty selection in the given mode.
func NewSelection(mode Mode) *Selection {
	return &Selection{mode: mode}
}

func (s *Selection) Mode() Mode {
	return s.mode
}

// AddFiles replaces the current selection with the batch. Single mode
// keeps only the first candidate and validates it; on rejection the prior
// selection stays untouched. Multi mode takes the batch as-is, without
// validation, and trusts the server to reject unusable files.
func (s *Selection) AddFiles(files ...SelectedFile) error {
	if len(files) == 0 {
		return &ValidationError{Reason: "no files chosen"}
	}
	if s.mode == ModeSingle {
		first := files[0]
		if err := validateFile(first); err != nil {
			return err
		}
		s.files = []SelectedFile{first}
		return nil
	}

	s.files = append(s.files[:0:0], files...)
	return nil
}

// RemoveFile drops the file at index. Out-of-range indexes and single mode
// are no-ops; single-mode selections are cleared wholesale instead.
func (s *Selection) RemoveFile(index int) {
	if s.mode != ModeMulti {
		return
	}
	if index < 0 || index >= len(s.files) {
		return
	}
	s.files = append(s.files[:index], s.files[index+1:]...)
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.files = nil
}

// Files returns the staged files in selection order.
func (s *Selection) Files() []SelectedFile {
	return s.files
}

func (s *Selection) Len() int {
	return len(s.files)
}

// TotalSizeBytes sums the staged file sizes.
func (s *Selection) TotalSizeBytes() int64 {
	var total int64
	for _, f := range s.files {
		total += f.Size
	}
	return total
}

// Label names the selection for status text and export metadata.
func (s *Selection) Label() string {
	switch len(s.files) {
	case 0:
		return ""
	case 1:
		return s.files[0].Name
	default:
		return fmt.Sprintf("%d files", len(s.files))
	}
}

func validateFile(f SelectedFile) error {
	if f.Name == "" {
		return &ValidationError{Reason: "file has no name"}
	}
	if !allowedNamePattern.MatchString(f.Name) && !allowedMediaTypes[f.MediaType] {
		return &ValidationError{
			FileName: f.Name,
			Reason:   "unsupported file type, expected .xlsx, .xls, .csv or .json",
		}
	}
	if f.Size > MaxUploadBytes {
		return &ValidationError{
			FileName: f.Name,
			Reason:   fmt.Sprintf("file exceeds the %dMB limit", MaxUploadBytes>>20),
		}
	}
	return nil
}
