package session

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pm-dashboard/backend/internal/models"
)

// MaxRecords limits retained analyses to prevent memory exhaustion.
const MaxRecords = 50

// RecordMaxAge is how long to keep completed analyses before cleanup.
const RecordMaxAge = 24 * time.Hour

// Manager retains completed analysis results so they can be replayed,
// exported and listed without re-uploading the file.
type Manager struct {
	mu      sync.RWMutex
	records map[string]*models.AnalysisRecord
}

// NewManager creates a new analysis record manager.
func NewManager() *Manager {
	return &Manager{
		records: make(map[string]*models.AnalysisRecord),
	}
}

// Put stores a result and returns its generated ID.
func (m *Manager) Put(fileName string, result *models.AnalysisResult) string {
	m.evictIfNeeded()

	id := uuid.New().String()
	record := &models.AnalysisRecord{
		ID:        id,
		FileName:  fileName,
		CreatedAt: time.Now(),
		Result:    result,
	}

	m.mu.Lock()
	m.records[id] = record
	m.mu.Unlock()

	return id
}

// Get returns a record by ID.
func (m *Manager) Get(id string) (*models.AnalysisRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.records[id]
	return record, ok
}

// Recent returns up to limit record summaries, newest first.
func (m *Manager) Recent(limit int) []models.AnalysisSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*models.AnalysisRecord, 0, len(m.records))
	for _, record := range m.records {
		list = append(list, record)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})

	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}

	summaries := make([]models.AnalysisSummary, len(list))
	for i, record := range list {
		summaries[i] = record.Summary()
	}
	return summaries
}

// Delete removes a record by ID.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return false
	}
	delete(m.records, id)
	return true
}

// Len returns the number of retained records.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// CleanupOld removes records older than maxAge.
func (m *Manager) CleanupOld(maxAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	for id, record := range m.records {
		if record.CreatedAt.Before(cutoff) {
			delete(m.records, id)
			fmt.Printf("[Sessions] Cleaned up aged analysis %s (%s)\n", id[:8], record.FileName)
		}
	}
}

// evictIfNeeded removes the oldest records when at capacity.
func (m *Manager) evictIfNeeded() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.records) < MaxRecords {
		return
	}

	list := make([]*models.AnalysisRecord, 0, len(m.records))
	for _, record := range m.records {
		list = append(list, record)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})

	toFree := len(m.records) - MaxRecords + 1
	for i := 0; i < toFree && i < len(list); i++ {
		delete(m.records, list[i].ID)
		fmt.Printf("[Sessions] Evicted analysis %s to stay under capacity\n", list[i].ID[:8])
	}
}
