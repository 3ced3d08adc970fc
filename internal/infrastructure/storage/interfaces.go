package storage

import (
	"github.com/yts/receipt-splitter-backend/internal/codec"
	"github.com/yts/receipt-splitter-backend/internal/domain/registry"
)

// Store defines the complete storage interface.
// This interface allows swapping implementations and makes testing with
// mocks straightforward.
type Store interface {
	SettingsRepository
	ImportRunRepository
	Close() error
}

// Settings keys in use. Settings mirror what the browser app kept in local
// storage: the raw tax-rate text and the JSON-encoded category list. Each
// key is defined once, in the package that reads and writes it.
const (
	SettingTaxRate    = codec.TaxRateKey
	SettingCategories = registry.CategoriesKey
)

// SettingsRepository handles key/value settings.
type SettingsRepository interface {
	// GetSetting retrieves a setting value. The bool reports whether the
	// key exists; an empty stored value is a valid value, not absence.
	GetSetting(key string) (string, bool, error)

	// SetSetting stores a setting value, overwriting any previous value.
	SetSetting(key, value string) error
}

// ImportRunRepository tracks receipt import runs. Only run metadata is
// stored; extracted line items never touch the database.
type ImportRunRepository interface {
	// StartImportRun records the start of an import run and returns the run ID.
	StartImportRun(jobID, sourceName, sourceType string, sourceSize int64) (int64, error)

	// CompleteImportRun records the completion of an import run.
	CompleteImportRun(runID int64, itemsFound int, status, errorMessage string) error

	// ListImportRuns returns recent import runs, newest first.
	ListImportRuns(limit int) ([]ImportRun, error)

	// GetImportRun retrieves an import run by ID.
	GetImportRun(runID int64) (*ImportRun, error)
}
