package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yts/receipt-splitter-backend/internal/api/dto"
	"github.com/yts/receipt-splitter-backend/internal/api/handlers"
	"github.com/yts/receipt-splitter-backend/internal/infrastructure/storage"
)

func newRunsRouter(store *storage.MockStore) *gin.Engine {
	router := newTestRouter()
	handler := handlers.NewRunsHandler(store)
	router.GET("/api/runs", handler.List)
	router.GET("/api/runs/:id", handler.Get)
	return router
}

func TestRunsHandler_List(t *testing.T) {
	t.Run("returns empty list when no runs", func(t *testing.T) {
		store := storage.NewMockStore()
		router := newRunsRouter(store)

		req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.ImportRunListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)

		assert.Empty(t, response.Runs)
		assert.Equal(t, 0, response.Count)
	})

	t.Run("returns runs from storage", func(t *testing.T) {
		store := storage.NewMockStore()

		runID1, _ := store.StartImportRun("job-1", "receipt.jpg", "image", 1024)
		_ = store.CompleteImportRun(runID1, 8, storage.RunStatusCompleted, "")

		runID2, _ := store.StartImportRun("job-2", "invoice.pdf", "pdf", 4096)
		_ = store.CompleteImportRun(runID2, 0, storage.RunStatusFailed, "no pages")

		router := newRunsRouter(store)

		req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.ImportRunListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)

		assert.Equal(t, 2, response.Count)
		assert.Len(t, response.Runs, 2)
	})

	t.Run("respects limit parameter", func(t *testing.T) {
		store := storage.NewMockStore()

		for i := 0; i < 5; i++ {
			runID, _ := store.StartImportRun("job", "receipt.jpg", "image", 512)
			_ = store.CompleteImportRun(runID, 1, storage.RunStatusCompleted, "")
		}

		router := newRunsRouter(store)

		req := httptest.NewRequest(http.MethodGet, "/api/runs?limit=3", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.ImportRunListResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)

		assert.Len(t, response.Runs, 3)
	})

	t.Run("returns 500 when storage fails", func(t *testing.T) {
		store := storage.NewMockStore()
		store.ListImportRunsErr = assert.AnError
		router := newRunsRouter(store)

		req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var response dto.APIError
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)
		assert.Equal(t, dto.ErrCodeInternalError, response.Code)
	})
}

func TestRunsHandler_Get(t *testing.T) {
	t.Run("returns run by ID", func(t *testing.T) {
		store := storage.NewMockStore()
		runID, _ := store.StartImportRun("job-1", "receipt.jpg", "image", 1024)
		_ = store.CompleteImportRun(runID, 8, storage.RunStatusCompleted, "")

		router := newRunsRouter(store)

		req := httptest.NewRequest(http.MethodGet, "/api/runs/1", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var response dto.ImportRunResponse
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)

		assert.Equal(t, int64(1), response.ID)
		assert.Equal(t, "job-1", response.JobID)
		assert.Equal(t, "receipt.jpg", response.SourceName)
		assert.Equal(t, "image", response.SourceType)
		assert.Equal(t, int64(1024), response.SourceSize)
		assert.Equal(t, 8, response.ItemsFound)
		assert.Equal(t, storage.RunStatusCompleted, response.Status)
	})

	t.Run("returns 404 for non-existent run", func(t *testing.T) {
		store := storage.NewMockStore()
		router := newRunsRouter(store)

		req := httptest.NewRequest(http.MethodGet, "/api/runs/999", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)

		var response dto.APIError
		err := json.NewDecoder(rec.Body).Decode(&response)
		require.NoError(t, err)

		assert.Equal(t, dto.ErrCodeNotFound, response.Code)
	})

	t.Run("returns 400 for invalid ID", func(t *testing.T) {
		store := storage.NewMockStore()
		router := newRunsRouter(store)

		req := httptest.NewRequest(http.MethodGet, "/api/runs/invalid", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
