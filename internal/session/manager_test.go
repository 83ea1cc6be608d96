package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/pm-dashboard/backend/internal/models"
)

func testResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		AnalysisType: models.AnalysisTypeSpreadsheet,
		RawData:      map[string]any{"file_info": map[string]any{"total_rows": 1}},
	}
}

func TestManager_PutAndGet(t *testing.T) {
	m := NewManager()

	id := m.Put("budget.csv", testResult())
	if id == "" {
		t.Fatal("expected non-empty id")
	}

	record, ok := m.Get(id)
	if !ok {
		t.Fatal("expected record")
	}
	if record.FileName != "budget.csv" {
		t.Errorf("unexpected file name %s", record.FileName)
	}
	if record.Result.AnalysisType != models.AnalysisTypeSpreadsheet {
		t.Errorf("unexpected type %s", record.Result.AnalysisType)
	}

	if _, ok := m.Get("missing"); ok {
		t.Error("expected miss for unknown id")
	}
}

func TestManager_RecentOrder(t *testing.T) {
	m := NewManager()

	var ids []string
	for i := 0; i < 3; i++ {
		id := m.Put(fmt.Sprintf("file%d.csv", i), testResult())
		ids = append(ids, id)
		// CreatedAt must differ for a stable order
		time.Sleep(2 * time.Millisecond)
	}

	recent := m.Recent(2)
	if len(recent) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(recent))
	}
	if recent[0].ID != ids[2] {
		t.Errorf("expected newest first, got %s", recent[0].FileName)
	}
	if recent[0].AnalysisType != models.AnalysisTypeSpreadsheet {
		t.Errorf("summary should carry the analysis type")
	}
}

func TestManager_Delete(t *testing.T) {
	m := NewManager()

	id := m.Put("a.csv", testResult())
	if !m.Delete(id) {
		t.Error("expected delete to succeed")
	}
	if m.Delete(id) {
		t.Error("expected second delete to fail")
	}
	if m.Len() != 0 {
		t.Errorf("expected empty manager, got %d", m.Len())
	}
}

func TestManager_EvictAtCapacity(t *testing.T) {
	m := NewManager()

	for i := 0; i < MaxRecords+5; i++ {
		m.Put(fmt.Sprintf("file%d.csv", i), testResult())
	}

	if m.Len() > MaxRecords {
		t.Errorf("expected at most %d records, got %d", MaxRecords, m.Len())
	}
}

func TestManager_CleanupOld(t *testing.T) {
	m := NewManager()

	id := m.Put("old.csv", testResult())
	record, _ := m.Get(id)
	record.CreatedAt = time.Now().Add(-48 * time.Hour)

	keep := m.Put("new.csv", testResult())

	m.CleanupOld(RecordMaxAge)

	if _, ok := m.Get(id); ok {
		t.Error("expected aged record removed")
	}
	if _, ok := m.Get(keep); !ok {
		t.Error("expected fresh record kept")
	}
}
