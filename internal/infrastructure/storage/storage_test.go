package storage

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_SetAndGetSetting(t *testing.T) {
	tmpDB := createTempDB(t)
	defer os.Remove(tmpDB)

	store, err := NewStorage(tmpDB)
	require.NoError(t, err)
	defer store.Close()

	err = store.SetSetting(SettingTaxRate, "8.5")
	require.NoError(t, err)

	value, ok, err := store.GetSetting(SettingTaxRate)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "8.5", value)
}

func TestStorage_GetSetting_Missing(t *testing.T) {
	tmpDB := createTempDB(t)
	defer os.Remove(tmpDB)

	store, err := NewStorage(tmpDB)
	require.NoError(t, err)
	defer store.Close()

	value, ok, err := store.GetSetting("nonexistent")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "", value)
}

func TestStorage_SetSetting_Overwrites(t *testing.T) {
	tmpDB := createTempDB(t)
	defer os.Remove(tmpDB)

	store, err := NewStorage(tmpDB)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.SetSetting(SettingTaxRate, "5"))
	require.NoError(t, store.SetSetting(SettingTaxRate, "7.25"))

	value, ok, err := store.GetSetting(SettingTaxRate)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "7.25", value)

	// Overwriting must not create a second row
	var count int
	err = store.db.QueryRow(`SELECT COUNT(*) FROM settings WHERE key = ?`, SettingTaxRate).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStorage_SetSetting_EmptyValueIsStored(t *testing.T) {
	tmpDB := createTempDB(t)
	defer os.Remove(tmpDB)

	store, err := NewStorage(tmpDB)
	require.NoError(t, err)
	defer store.Close()

	// An empty string is a valid setting value, distinct from a missing key
	require.NoError(t, store.SetSetting(SettingTaxRate, ""))

	value, ok, err := store.GetSetting(SettingTaxRate)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "", value)
}

func TestStorage_SettingsSurviveReopen(t *testing.T) {
	tmpDB := createTempDB(t)
	defer os.Remove(tmpDB)

	store, err := NewStorage(tmpDB)
	require.NoError(t, err)
	require.NoError(t, store.SetSetting(SettingCategories, `["Grocery","Household"]`))
	store.Close()

	reopened, err := NewStorage(tmpDB)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.GetSetting(SettingCategories)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `["Grocery","Household"]`, value)
}

func TestStorage_StartAndCompleteImportRun(t *testing.T) {
	tmpDB := createTempDB(t)
	defer os.Remove(tmpDB)

	store, err := NewStorage(tmpDB)
	require.NoError(t, err)
	defer store.Close()

	runID, err := store.StartImportRun("job-abc", "receipt.png", "image", 2048)
	require.NoError(t, err)
	require.Greater(t, runID, int64(0))

	run, err := store.GetImportRun(runID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, "job-abc", run.JobID)
	assert.Equal(t, "receipt.png", run.SourceName)
	assert.Equal(t, "image", run.SourceType)
	assert.Equal(t, int64(2048), run.SourceSize)
	assert.Equal(t, RunStatusRunning, run.Status)
	assert.NotEmpty(t, run.StartedAt)
	assert.Empty(t, run.CompletedAt)

	err = store.CompleteImportRun(runID, 12, RunStatusCompleted, "")
	require.NoError(t, err)

	run, err = store.GetImportRun(runID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, 12, run.ItemsFound)
	assert.Equal(t, RunStatusCompleted, run.Status)
	assert.NotEmpty(t, run.CompletedAt)
	assert.Empty(t, run.ErrorMessage)
}

func TestStorage_CompleteImportRun_Failure(t *testing.T) {
	tmpDB := createTempDB(t)
	defer os.Remove(tmpDB)

	store, err := NewStorage(tmpDB)
	require.NoError(t, err)
	defer store.Close()

	runID, err := store.StartImportRun("job-err", "blurry.jpg", "image", 512)
	require.NoError(t, err)

	err = store.CompleteImportRun(runID, 0, RunStatusFailed, "no text recognized")
	require.NoError(t, err)

	run, err := store.GetImportRun(runID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, RunStatusFailed, run.Status)
	assert.Equal(t, "no text recognized", run.ErrorMessage)
	assert.Equal(t, 0, run.ItemsFound)
}

func TestStorage_GetImportRun_Missing(t *testing.T) {
	tmpDB := createTempDB(t)
	defer os.Remove(tmpDB)

	store, err := NewStorage(tmpDB)
	require.NoError(t, err)
	defer store.Close()

	run, err := store.GetImportRun(99999)
	require.NoError(t, err)
	assert.Nil(t, run)
}

func TestStorage_ListImportRuns_NewestFirst(t *testing.T) {
	tmpDB := createTempDB(t)
	defer os.Remove(tmpDB)

	store, err := NewStorage(tmpDB)
	require.NoError(t, err)
	defer store.Close()

	first, err := store.StartImportRun("job-1", "a.png", "image", 100)
	require.NoError(t, err)
	second, err := store.StartImportRun("job-2", "b.pdf", "pdf", 200)
	require.NoError(t, err)
	third, err := store.StartImportRun("job-3", "c.png", "image", 300)
	require.NoError(t, err)

	runs, err := store.ListImportRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 3)

	// Rows share a CURRENT_TIMESTAMP second, so the id tiebreaker decides
	assert.Equal(t, third, runs[0].ID)
	assert.Equal(t, second, runs[1].ID)
	assert.Equal(t, first, runs[2].ID)
}

func TestStorage_ListImportRuns_Limit(t *testing.T) {
	tmpDB := createTempDB(t)
	defer os.Remove(tmpDB)

	store, err := NewStorage(tmpDB)
	require.NoError(t, err)
	defer store.Close()

	for i := 0; i < 5; i++ {
		_, err := store.StartImportRun("job", "r.png", "image", 64)
		require.NoError(t, err)
	}

	runs, err := store.ListImportRuns(2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	// Zero limit falls back to the default page size
	runs, err = store.ListImportRuns(0)
	require.NoError(t, err)
	assert.Len(t, runs, 5)
}

func TestStorage_ListImportRuns_Empty(t *testing.T) {
	tmpDB := createTempDB(t)
	defer os.Remove(tmpDB)

	store, err := NewStorage(tmpDB)
	require.NoError(t, err)
	defer store.Close()

	runs, err := store.ListImportRuns(10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestMockStore_ImplementsStore(t *testing.T) {
	mock := NewMockStore()

	_, ok, err := mock.GetSetting(SettingTaxRate)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, mock.GetSettingCalled)

	require.NoError(t, mock.SetSetting(SettingTaxRate, "9"))
	assert.Equal(t, SettingTaxRate, mock.LastSetKey)
	assert.Equal(t, "9", mock.LastSetValue)

	runID, err := mock.StartImportRun("job-m", "m.png", "image", 10)
	require.NoError(t, err)
	require.NoError(t, mock.CompleteImportRun(runID, 3, RunStatusCompleted, ""))

	run, err := mock.GetImportRun(runID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, 3, run.ItemsFound)

	mock.Reset()
	assert.False(t, mock.GetSettingCalled)
	runs, err := mock.ListImportRuns(10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
