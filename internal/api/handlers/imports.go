package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yts/receipt-splitter-backend/internal/api/dto"
	"github.com/yts/receipt-splitter-backend/internal/application/service"
)

// DefaultMaxUploadBytes caps receipt uploads when no limit is configured.
// Phone photos run a few MB; anything bigger than this is not a receipt.
const DefaultMaxUploadBytes = 20 << 20

// ImportsHandler handles receipt import HTTP requests.
type ImportsHandler struct {
	*Base
	importService *service.ImportService
	maxUpload     int64
}

// NewImportsHandler creates a new imports handler. A non-positive maxUpload
// falls back to DefaultMaxUploadBytes.
func NewImportsHandler(importService *service.ImportService, maxUpload int64) *ImportsHandler {
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}
	return &ImportsHandler{
		Base:          &Base{},
		importService: importService,
		maxUpload:     maxUpload,
	}
}

// Start handles POST /api/imports - starts an import from an uploaded file.
// The receipt image or PDF is sent as the multipart field "file".
func (h *ImportsHandler) Start(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.WriteError(c, http.StatusBadRequest, dto.BadRequestError("multipart field \"file\" is required"))
		return
	}

	if fileHeader.Size > h.maxUpload {
		h.WriteError(c, http.StatusBadRequest, dto.ValidationError("file is too large"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.WriteError(c, http.StatusBadRequest, dto.BadRequestError("could not read uploaded file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.WriteError(c, http.StatusBadRequest, dto.BadRequestError("could not read uploaded file"))
		return
	}

	if len(data) == 0 {
		h.WriteError(c, http.StatusBadRequest, dto.ValidationError("file is empty"))
		return
	}

	jobID, err := h.importService.StartImport(c.Request.Context(), service.ImportRequest{
		SourceName: fileHeader.Filename,
		Data:       data,
	})
	if err != nil {
		h.WriteError(c, http.StatusConflict, dto.APIError{
			Code:    "import_conflict",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, dto.StartImportResponse{
		JobID:      jobID,
		SourceName: fileHeader.Filename,
		Status:     "pending",
	})
}

// Get handles GET /api/imports/:jobId - gets import job status.
func (h *ImportsHandler) Get(c *gin.Context) {
	jobID := c.Param("jobId")
	if jobID == "" {
		h.WriteError(c, http.StatusBadRequest, dto.BadRequestError("job ID is required"))
		return
	}

	job, err := h.importService.GetImportJob(jobID)
	if err != nil {
		h.WriteError(c, http.StatusNotFound, dto.NotFoundError("import job"))
		return
	}

	c.JSON(http.StatusOK, toImportJobResponse(job))
}

// ListActive handles GET /api/imports/active - lists active import jobs.
func (h *ImportsHandler) ListActive(c *gin.Context) {
	jobs := h.importService.ListActiveImportJobs()

	response := dto.ActiveImportsResponse{
		Jobs:  make([]dto.ImportJobResponse, 0, len(jobs)),
		Count: len(jobs),
	}

	for _, job := range jobs {
		response.Jobs = append(response.Jobs, toImportJobResponse(job))
	}

	c.JSON(http.StatusOK, response)
}

// ListAll handles GET /api/imports - lists all import jobs.
func (h *ImportsHandler) ListAll(c *gin.Context) {
	jobs := h.importService.ListAllImportJobs()

	response := dto.AllImportsResponse{
		Jobs:  make([]dto.ImportJobResponse, 0, len(jobs)),
		Count: len(jobs),
	}

	for _, job := range jobs {
		response.Jobs = append(response.Jobs, toImportJobResponse(job))
	}

	c.JSON(http.StatusOK, response)
}

// Cancel handles DELETE /api/imports/:jobId - cancels an import job.
func (h *ImportsHandler) Cancel(c *gin.Context) {
	jobID := c.Param("jobId")
	if jobID == "" {
		h.WriteError(c, http.StatusBadRequest, dto.BadRequestError("job ID is required"))
		return
	}

	if err := h.importService.CancelImport(jobID); err != nil {
		h.WriteError(c, http.StatusConflict, dto.APIError{
			Code:    "cancel_failed",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{
		Message: "Import job cancelled successfully",
	})
}

// toImportJobResponse converts a service model to an API response.
func toImportJobResponse(job *service.ImportJob) dto.ImportJobResponse {
	response := dto.ImportJobResponse{
		JobID:      job.ID,
		SourceName: job.SourceName,
		SourceType: job.SourceType,
		SourceSize: job.SourceSize,
		Status:     string(job.Status),
		StartedAt:  job.StartedAt.Format(time.RFC3339),
		Progress:   toImportProgressResponse(job.Progress),
		Notice:     job.Notice,
	}

	if job.CompletedAt != nil {
		completedAt := job.CompletedAt.Format(time.RFC3339)
		response.CompletedAt = &completedAt
	}

	if len(job.Items) > 0 {
		response.Items = make([]dto.ImportItemResponse, 0, len(job.Items))
		for _, item := range job.Items {
			response.Items = append(response.Items, dto.ImportItemResponse{
				Name:     item.Name,
				Price:    item.Price,
				Category: item.Category,
				Taxable:  item.Taxable,
			})
		}
	}

	if job.Error != nil {
		errMsg := job.Error.Error()
		response.Error = &errMsg
	}

	return response
}

// toImportProgressResponse converts progress to API response.
func toImportProgressResponse(progress service.ImportProgress) dto.ImportProgressResponse {
	return dto.ImportProgressResponse{
		CurrentPhase: progress.CurrentPhase,
		LastUpdate:   progress.LastUpdate.Format(time.RFC3339),
	}
}
