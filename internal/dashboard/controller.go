package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pm-dashboard/backend/internal/export"
	"github.com/pm-dashboard/backend/internal/models"
)

// SubmitFunc sends the staged files for analysis and returns the rendered
// result. The transport client satisfies this signature.
type SubmitFunc func(ctx context.Context, mode Mode, files []SelectedFile) (*models.AnalysisResult, error)

// ErrSubmissionInFlight rejects a second submission while one is pending.
var ErrSubmissionInFlight = errors.New("a submission is already in progress")

// ErrNoSelection rejects submission with nothing staged.
var ErrNoSelection = errors.New("no files selected")

// Controller ties the selection, the view state machine and the transport
// together. At most one submission is outstanding at a time.
type Controller struct {
	mu        sync.Mutex
	selection *Selection
	state     ViewState
	submit    SubmitFunc

	inFlight  bool
	result    *models.AnalysisResult
	fileLabel string
	lastError string
}

// NewController creates a controller in the upload view.
func NewController(mode Mode, submit SubmitFunc) *Controller {
	return &Controller{
		selection: NewSelection(mode),
		state:     ViewUpload,
		submit:    submit,
	}
}

// SetMode switches between single and multi uploads. Changing mode drops
// the staged files.
func (c *Controller) SetMode(mode Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selection.Mode() != mode {
		c.selection = NewSelection(mode)
	}
}

// AddFiles stages a batch of files, replacing the current selection.
func (c *Controller) AddFiles(files ...SelectedFile) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selection.AddFiles(files...)
}

// RemoveFile drops one staged file in multi mode.
func (c *Controller) RemoveFile(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection.RemoveFile(index)
}

// Files returns a copy of the staged files.
func (c *Controller) Files() []SelectedFile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]SelectedFile(nil), c.selection.Files()...)
}

// State returns the current view.
func (c *Controller) State() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Result returns the last successful analysis, nil before the first one.
func (c *Controller) Result() *models.AnalysisResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// ErrorMessage returns the failure text shown on the error view.
func (c *Controller) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastError
}

// FileLabel names the upload behind the current result.
func (c *Controller) FileLabel() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fileLabel
}

// Submit sends the staged files. It moves the view to loading and returns
// a channel that delivers the outcome once the transport finishes. The
// selection must be non-empty and no other submission may be pending.
func (c *Controller) Submit(ctx context.Context) (<-chan error, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight {
		return nil, ErrSubmissionInFlight
	}
	if c.selection.Len() == 0 {
		return nil, ErrNoSelection
	}
	next, ok := Transition(c.state, EventSubmit)
	if !ok {
		return nil, fmt.Errorf("cannot %s from the %s view", EventSubmit, c.state)
	}
	c.state = next
	c.inFlight = true

	mode := c.selection.Mode()
	files := append([]SelectedFile(nil), c.selection.Files()...)
	label := c.selection.Label()

	done := make(chan error, 1)
	go func() {
		result, err := c.submit(ctx, mode, files)
		c.finish(label, result, err)
		done <- err
	}()
	return done, nil
}

func (c *Controller) finish(label string, result *models.AnalysisResult, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inFlight = false
	if err != nil {
		c.lastError = err.Error()
		c.state, _ = Transition(c.state, EventFailed)
		return
	}
	c.result = result
	c.fileLabel = label
	c.lastError = ""
	c.state, _ = Transition(c.state, EventSucceeded)
}

// Retry returns from the error view to the upload view, keeping the
// staged files so the user can submit them again. A retry never restarts
// the network call by itself.
func (c *Controller) Retry() {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, ok := Transition(c.state, EventRetry)
	if !ok {
		return
	}
	c.state = next
	c.lastError = ""
}

// NewAnalysis returns to the upload view and clears the selection and the
// last result. Ignored while a submission is pending.
func (c *Controller) NewAnalysis() {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, ok := Transition(c.state, EventNewAnalysis)
	if !ok {
		return
	}
	c.state = next
	c.selection.Clear()
	c.result = nil
	c.fileLabel = ""
	c.lastError = ""
}

// Export writes the current result as a dated JSON report under dir and
// returns the written path. Without a result it does nothing.
func (c *Controller) Export(dir string) (string, error) {
	c.mu.Lock()
	result := c.result
	label := c.fileLabel
	c.mu.Unlock()

	report := export.BuildReport(label, result, time.Now())
	if report == nil {
		return "", nil
	}
	return report.WriteFile(dir, time.Now())
}
