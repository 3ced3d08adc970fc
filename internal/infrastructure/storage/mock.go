package storage

import (
	"sync"
	"time"
)

// MockStore is an in-memory implementation of Store for testing.
// It keeps all data in maps and slices, making tests fast and isolated.
// All methods are safe for concurrent use, since the import service calls
// the store from background goroutines.
type MockStore struct {
	mu        sync.Mutex
	settings  map[string]string
	runs      map[int64]*ImportRun
	runOrder  []int64
	nextRunID int64

	// Hooks for test assertions
	GetSettingCalled        bool
	SetSettingCalled        bool
	LastSetKey              string
	LastSetValue            string
	StartImportRunCalled    bool
	CompleteImportRunCalled bool

	// Error injection for testing error paths
	GetSettingErr        error
	SetSettingErr        error
	StartImportRunErr    error
	CompleteImportRunErr error
	ListImportRunsErr    error
}

// NewMockStore creates a new mock store for testing
func NewMockStore() *MockStore {
	return &MockStore{
		settings:  make(map[string]string),
		runs:      make(map[int64]*ImportRun),
		runOrder:  make([]int64, 0),
		nextRunID: 1,
	}
}

// Compile-time check that MockStore implements Store
var _ Store = (*MockStore)(nil)

// Close does nothing for mock
func (m *MockStore) Close() error {
	return nil
}

// GetSetting returns the stored value for key, if any
func (m *MockStore) GetSetting(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetSettingCalled = true
	if m.GetSettingErr != nil {
		return "", false, m.GetSettingErr
	}
	value, ok := m.settings[key]
	return value, ok, nil
}

// SetSetting stores a value for key
func (m *MockStore) SetSetting(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetSettingCalled = true
	m.LastSetKey = key
	m.LastSetValue = value
	if m.SetSettingErr != nil {
		return m.SetSettingErr
	}
	m.settings[key] = value
	return nil
}

// StartImportRun creates a new import run and returns its ID
func (m *MockStore) StartImportRun(jobID, sourceName, sourceType string, sourceSize int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StartImportRunCalled = true
	if m.StartImportRunErr != nil {
		return 0, m.StartImportRunErr
	}

	id := m.nextRunID
	m.nextRunID++

	m.runs[id] = &ImportRun{
		ID:         id,
		JobID:      jobID,
		SourceName: sourceName,
		SourceType: sourceType,
		SourceSize: sourceSize,
		StartedAt:  time.Now().UTC().Format("2006-01-02 15:04:05"),
		Status:     RunStatusRunning,
	}
	m.runOrder = append(m.runOrder, id)

	return id, nil
}

// CompleteImportRun marks an import run as finished
func (m *MockStore) CompleteImportRun(runID int64, itemsFound int, status, errorMessage string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CompleteImportRunCalled = true
	if m.CompleteImportRunErr != nil {
		return m.CompleteImportRunErr
	}

	run, ok := m.runs[runID]
	if !ok {
		return nil
	}

	run.CompletedAt = time.Now().UTC().Format("2006-01-02 15:04:05")
	run.ItemsFound = itemsFound
	run.Status = status
	run.ErrorMessage = errorMessage

	return nil
}

// ListImportRuns returns recorded runs, newest first
func (m *MockStore) ListImportRuns(limit int) ([]ImportRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListImportRunsErr != nil {
		return nil, m.ListImportRunsErr
	}
	if limit <= 0 {
		limit = 20
	}

	var runs []ImportRun
	for i := len(m.runOrder) - 1; i >= 0; i-- {
		runs = append(runs, *m.runs[m.runOrder[i]])
		if len(runs) >= limit {
			break
		}
	}
	return runs, nil
}

// GetImportRun retrieves an import run by ID
func (m *MockStore) GetImportRun(runID int64) (*ImportRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	run, ok := m.runs[runID]
	if !ok {
		return nil, nil
	}
	copied := *run
	return &copied, nil
}

// Helper methods for test setup

// SeedSetting stores a setting without tripping the call-tracking flags
func (m *MockStore) SeedSetting(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings[key] = value
}

// AddImportRun inserts a run directly (for test setup)
func (m *MockStore) AddImportRun(run *ImportRun) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if run.ID == 0 {
		run.ID = m.nextRunID
		m.nextRunID++
	} else if run.ID >= m.nextRunID {
		m.nextRunID = run.ID + 1
	}
	m.runs[run.ID] = run
	m.runOrder = append(m.runOrder, run.ID)
}

// Reset clears all data and flags (for reuse between tests)
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings = make(map[string]string)
	m.runs = make(map[int64]*ImportRun)
	m.runOrder = make([]int64, 0)
	m.nextRunID = 1
	m.GetSettingCalled = false
	m.SetSettingCalled = false
	m.LastSetKey = ""
	m.LastSetValue = ""
	m.StartImportRunCalled = false
	m.CompleteImportRunCalled = false
	m.GetSettingErr = nil
	m.SetSettingErr = nil
	m.StartImportRunErr = nil
	m.CompleteImportRunErr = nil
	m.ListImportRunsErr = nil
}
