package dashboard

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pm-dashboard/backend/internal/models"
)

func stubResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		AnalysisType: models.AnalysisTypeSpreadsheet,
		SummaryCards: []models.SummaryCard{{Title: "Data Overview", Value: "4 rows"}},
	}
}

func okSubmit(result *models.AnalysisResult) SubmitFunc {
	return func(ctx context.Context, mode Mode, files []SelectedFile) (*models.AnalysisResult, error) {
		return result, nil
	}
}

func failSubmit(err error) SubmitFunc {
	return func(ctx context.Context, mode Mode, files []SelectedFile) (*models.AnalysisResult, error) {
		return nil, err
	}
}

func TestController_Submit(t *testing.T) {
	t.Run("success reaches the dashboard view", func(t *testing.T) {
		ctrl := NewController(ModeSingle, okSubmit(stubResult()))
		if err := ctrl.AddFiles(SelectedFile{Name: "tasks.csv", Size: 10}); err != nil {
			t.Fatalf("AddFiles: %v", err)
		}

		done, err := ctrl.Submit(context.Background())
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if err := <-done; err != nil {
			t.Fatalf("submission failed: %v", err)
		}
		if ctrl.State() != ViewDashboard {
			t.Errorf("expected dashboard view, got %s", ctrl.State())
		}
		if ctrl.Result() == nil {
			t.Error("expected stored result")
		}
		if ctrl.FileLabel() != "tasks.csv" {
			t.Errorf("unexpected label %q", ctrl.FileLabel())
		}
	})

	t.Run("failure reaches the error view", func(t *testing.T) {
		ctrl := NewController(ModeSingle, failSubmit(errors.New("analysis failed, please try again")))
		ctrl.AddFiles(SelectedFile{Name: "tasks.csv", Size: 10})

		done, err := ctrl.Submit(context.Background())
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if err := <-done; err == nil {
			t.Fatal("expected submission error")
		}
		if ctrl.State() != ViewError {
			t.Errorf("expected error view, got %s", ctrl.State())
		}
		if !strings.Contains(ctrl.ErrorMessage(), "try again") {
			t.Errorf("unexpected message %q", ctrl.ErrorMessage())
		}
		if ctrl.Result() != nil {
			t.Error("failed submission must not store a result")
		}
	})

	t.Run("empty selection rejected", func(t *testing.T) {
		ctrl := NewController(ModeSingle, okSubmit(stubResult()))
		if _, err := ctrl.Submit(context.Background()); !errors.Is(err, ErrNoSelection) {
			t.Fatalf("expected ErrNoSelection, got %v", err)
		}
	})

	t.Run("second submission rejected while pending", func(t *testing.T) {
		release := make(chan struct{})
		blocking := func(ctx context.Context, mode Mode, files []SelectedFile) (*models.AnalysisResult, error) {
			<-release
			return stubResult(), nil
		}
		ctrl := NewController(ModeSingle, blocking)
		ctrl.AddFiles(SelectedFile{Name: "tasks.csv", Size: 10})

		done, err := ctrl.Submit(context.Background())
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		if _, err := ctrl.Submit(context.Background()); !errors.Is(err, ErrSubmissionInFlight) {
			t.Fatalf("expected ErrSubmissionInFlight, got %v", err)
		}

		close(release)
		<-done
		if ctrl.State() != ViewDashboard {
			t.Errorf("expected dashboard view, got %s", ctrl.State())
		}
	})
}

func TestController_Retry(t *testing.T) {
	calls := 0
	flaky := func(ctx context.Context, mode Mode, files []SelectedFile) (*models.AnalysisResult, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("connection refused")
		}
		return stubResult(), nil
	}
	ctrl := NewController(ModeSingle, flaky)
	ctrl.AddFiles(SelectedFile{Name: "tasks.csv", Size: 10})

	done, _ := ctrl.Submit(context.Background())
	<-done
	if ctrl.State() != ViewError {
		t.Fatalf("expected error view, got %s", ctrl.State())
	}

	// Retry returns to the upload view without resubmitting
	ctrl.Retry()
	if ctrl.State() != ViewUpload {
		t.Fatalf("expected upload view after retry, got %s", ctrl.State())
	}
	if calls != 1 {
		t.Fatalf("retry must not resubmit, saw %d calls", calls)
	}
	if len(ctrl.Files()) != 1 {
		t.Error("expected selection retained across retry")
	}
	if ctrl.ErrorMessage() != "" {
		t.Errorf("expected error cleared, got %q", ctrl.ErrorMessage())
	}

	// The retained selection can then be submitted again
	done, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit after retry: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("second submission failed: %v", err)
	}
	if ctrl.State() != ViewDashboard {
		t.Errorf("expected dashboard view, got %s", ctrl.State())
	}

	// Retry outside the error view is ignored
	ctrl.Retry()
	if ctrl.State() != ViewDashboard {
		t.Errorf("expected retry ignored, got %s", ctrl.State())
	}
}

func TestController_NewAnalysis(t *testing.T) {
	ctrl := NewController(ModeMulti, okSubmit(stubResult()))
	ctrl.AddFiles(
		SelectedFile{Name: "a.csv", Size: 1},
		SelectedFile{Name: "b.csv", Size: 1},
	)
	done, _ := ctrl.Submit(context.Background())
	<-done

	ctrl.NewAnalysis()
	if ctrl.State() != ViewUpload {
		t.Errorf("expected upload view, got %s", ctrl.State())
	}
	if len(ctrl.Files()) != 0 {
		t.Error("expected selection cleared")
	}
	if ctrl.Result() != nil {
		t.Error("expected result cleared")
	}
}

func TestController_Export(t *testing.T) {
	t.Run("writes dated report", func(t *testing.T) {
		ctrl := NewController(ModeSingle, okSubmit(stubResult()))
		ctrl.AddFiles(SelectedFile{Name: "tasks.csv", Size: 10})
		done, _ := ctrl.Submit(context.Background())
		<-done

		dir := t.TempDir()
		path, err := ctrl.Export(dir)
		if err != nil {
			t.Fatalf("Export: %v", err)
		}
		if !strings.HasPrefix(filepath.Base(path), "pm_analysis_report_") {
			t.Errorf("unexpected file name %s", path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading report: %v", err)
		}
		if !strings.Contains(string(data), `"file_analyzed": "tasks.csv"`) {
			t.Error("expected source file in report")
		}
	})

	t.Run("no result is a no-op", func(t *testing.T) {
		ctrl := NewController(ModeSingle, okSubmit(stubResult()))
		path, err := ctrl.Export(t.TempDir())
		if err != nil {
			t.Fatalf("Export: %v", err)
		}
		if path != "" {
			t.Errorf("expected no file, got %s", path)
		}
	})
}
