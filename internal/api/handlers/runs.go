package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yts/receipt-splitter-backend/internal/api/dto"
	"github.com/yts/receipt-splitter-backend/internal/infrastructure/storage"
)

// RunsHandler handles import run history requests.
type RunsHandler struct {
	*Base
	runs storage.ImportRunRepository
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(runs storage.ImportRunRepository) *RunsHandler {
	return &RunsHandler{
		Base: &Base{},
		runs: runs,
	}
}

// List handles GET /api/runs - returns recent import runs, newest first.
func (h *RunsHandler) List(c *gin.Context) {
	limit := ParseIntQuery(c, "limit", dto.DefaultImportRunListParams().Limit)

	runs, err := h.runs.ListImportRuns(limit)
	if err != nil {
		h.WriteError(c, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.ImportRunListResponse{
		Runs:  make([]dto.ImportRunResponse, 0, len(runs)),
		Count: len(runs),
	}

	for _, run := range runs {
		response.Runs = append(response.Runs, toImportRunResponse(run))
	}

	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/runs/:id - returns a single import run by ID.
func (h *RunsHandler) Get(c *gin.Context) {
	idStr := c.Param("id")

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(c, http.StatusBadRequest, dto.BadRequestError("invalid run ID"))
		return
	}

	run, err := h.runs.GetImportRun(id)
	if err != nil {
		h.WriteError(c, http.StatusInternalServerError, dto.InternalError())
		return
	}

	if run == nil {
		h.WriteError(c, http.StatusNotFound, dto.NotFoundError("import run"))
		return
	}

	c.JSON(http.StatusOK, toImportRunResponse(*run))
}

// toImportRunResponse converts a storage ImportRun to an API response.
func toImportRunResponse(run storage.ImportRun) dto.ImportRunResponse {
	return dto.ImportRunResponse{
		ID:           run.ID,
		JobID:        run.JobID,
		SourceName:   run.SourceName,
		SourceType:   run.SourceType,
		SourceSize:   run.SourceSize,
		StartedAt:    run.StartedAt,
		CompletedAt:  run.CompletedAt,
		ItemsFound:   run.ItemsFound,
		Status:       run.Status,
		ErrorMessage: run.ErrorMessage,
	}
}
