package analyzer

import (
	"testing"

	"github.com/pm-dashboard/backend/internal/models"
)

const projectCSV = `Task Name,Status,Priority,Assignee,Due Date,Progress,Hours
Design,Done,High,Alice,2024-01-10,100,8
Build,In Progress,High,Bob,2024-02-15,60,20
Test,Done,Medium,Alice,2024-03-01,100,12
Ship,Pending,Low,Carol,2024-03-20,0,4
`

func newTestAnalyzer(t *testing.T) *SpreadsheetAnalyzer {
	t.Helper()
	return NewSpreadsheetAnalyzer(t.TempDir(), 0, nil)
}

func TestSpreadsheetAnalyzer_Analyze(t *testing.T) {
	a := newTestAnalyzer(t)
	path := writeTempFile(t, "project.csv", projectCSV)

	analysis, err := a.Analyze(path, "project.csv")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	t.Run("file info", func(t *testing.T) {
		info := models.GetMap(analysis, "file_info")
		if models.GetInt(info, "total_rows", 0) != 4 {
			t.Errorf("expected 4 rows, got %v", info["total_rows"])
		}
		if models.GetInt(info, "total_columns", 0) != 7 {
			t.Errorf("expected 7 columns, got %v", info["total_columns"])
		}
	})

	t.Run("task analysis", func(t *testing.T) {
		tasks := models.GetMap(analysis, "task_analysis")
		if models.GetInt(tasks, "total_tasks", 0) != 4 {
			t.Errorf("expected 4 total tasks, got %v", tasks["total_tasks"])
		}
		if models.GetInt(tasks, "unique_tasks", 0) != 4 {
			t.Errorf("expected 4 unique tasks, got %v", tasks["unique_tasks"])
		}

		statuses := models.GetCountMap(tasks, "status_breakdown")
		if statuses["Done"] != 2 {
			t.Errorf("expected 2 Done, got %v", statuses)
		}

		priorities := models.GetCountMap(tasks, "priority_breakdown")
		if priorities["High"] != 2 || priorities["Low"] != 1 {
			t.Errorf("unexpected priority breakdown %v", priorities)
		}
	})

	t.Run("timeline analysis", func(t *testing.T) {
		timeline := models.GetMap(analysis, "timeline_analysis")
		dates := models.GetMap(timeline, "Due Date_analysis")
		if models.GetString(dates, "earliest", "") != "2024-01-10" {
			t.Errorf("unexpected earliest %v", dates["earliest"])
		}
		if models.GetString(dates, "latest", "") != "2024-03-20" {
			t.Errorf("unexpected latest %v", dates["latest"])
		}
		if models.GetInt(dates, "span_days", 0) != 70 {
			t.Errorf("unexpected span %v", dates["span_days"])
		}
		if models.GetInt(dates, "valid_dates", 0) != 4 {
			t.Errorf("unexpected valid count %v", dates["valid_dates"])
		}
	})

	t.Run("completion analysis", func(t *testing.T) {
		completion := models.GetMap(analysis, "completion_analysis")
		if avg := models.GetFloat(completion, "Progress_average", -1); avg != 65 {
			t.Errorf("expected Progress average 65, got %v", avg)
		}
	})

	t.Run("team analysis", func(t *testing.T) {
		team := models.GetMap(analysis, "team_analysis")
		if models.GetInt(team, "team_size", 0) != 3 {
			t.Errorf("expected team size 3, got %v", team["team_size"])
		}
		dist := models.GetCountMap(team, "task_distribution")
		if dist["Alice"] != 2 {
			t.Errorf("expected Alice=2, got %v", dist)
		}
	})

	t.Run("data summary covers numeric columns", func(t *testing.T) {
		summary := models.GetMap(analysis, "data_summary")
		hours := models.GetMap(summary, "Hours")
		if models.GetFloat(hours, "mean", 0) != 11 {
			t.Errorf("expected Hours mean 11, got %v", hours["mean"])
		}
		if _, ok := summary["Status"]; ok {
			t.Error("text column should not appear in data summary")
		}
	})
}

func TestSpreadsheetAnalyzer_StatusRate(t *testing.T) {
	a := newTestAnalyzer(t)
	// A text column whose name matches a completion keyword yields a rate.
	path := writeTempFile(t, "done.csv", "Task,Completed\nA,Done\nB,Open\nC,closed\nD,Open\n")

	analysis, err := a.Analyze(path, "done.csv")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	completion := models.GetMap(analysis, "completion_analysis")
	if rate := models.GetFloat(completion, "Completed_rate", -1); rate != 50 {
		t.Errorf("expected 50%% rate, got %v", rate)
	}
}

func TestSpreadsheetAnalyzer_EmptyFile(t *testing.T) {
	a := newTestAnalyzer(t)
	path := writeTempFile(t, "empty.csv", "Task,Status\n")

	if _, err := a.Analyze(path, "empty.csv"); err == nil {
		t.Error("expected error for file with no data rows")
	}
}

func TestSpreadsheetAnalyzer_DuckSpill(t *testing.T) {
	// Threshold of 1 forces every upload through DuckDB.
	a := NewSpreadsheetAnalyzer(t.TempDir(), 1, nil)
	path := writeTempFile(t, "project.csv", projectCSV)

	analysis, err := a.Analyze(path, "project.csv")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	tasks := models.GetMap(analysis, "task_analysis")
	if models.GetInt(tasks, "total_tasks", 0) != 4 {
		t.Errorf("expected 4 tasks via DuckDB, got %v", tasks["total_tasks"])
	}
}
