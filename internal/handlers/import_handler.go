package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/livingrent/storefront-service/internal/services"
	"github.com/livingrent/storefront-service/internal/utils"
)

// maxImportFileSize caps uploads at 20 MiB; supplier price lists are
// far smaller in practice.
const maxImportFileSize = 20 << 20

type ImportHandler struct {
	BaseHandler
	importService services.ImportService
}

func NewImportHandler(importService services.ImportService, logger utils.Logger) *ImportHandler {
	return &ImportHandler{
		BaseHandler:   NewBaseHandler(logger),
		importService: importService,
	}
}

// UploadSpreadsheet imports an .xlsx price list into product drafts
// @Summary Import product spreadsheet
// @Description Uploads a supplier spreadsheet and turns its rows into reviewable product drafts
// @Tags imports
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "xlsx spreadsheet"
// @Success 200 {object} models.ImportReport
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /imports [post]
func (h *ImportHandler) UploadSpreadsheet(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing file upload",
			Details: "multipart form must carry a 'file' part",
		})
		return
	}

	if fileHeader.Size > maxImportFileSize {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "File too large",
			Details: "spreadsheets over 20MB are not accepted",
		})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".xlsx" && ext != ".xlsm" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Unsupported file type",
			Details: "only .xlsx workbooks are accepted",
		})
		return
	}

	h.LogRequest(c, "Importing spreadsheet",
		"file_name", fileHeader.Filename,
		"file_size", fileHeader.Size)

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Cannot read uploaded file",
			Details: err.Error(),
		})
		return
	}
	defer file.Close()

	report, err := h.importService.ImportProductsFromFile(
		c.Request.Context(), file, fileHeader.Filename, fileHeader.Size, h.extractUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetImportJob returns one import job record
// @Summary Get import job
// @Tags imports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} models.ImportJob
// @Failure 404 {object} ErrorResponse
// @Router /imports/{id} [get]
func (h *ImportHandler) GetImportJob(c *gin.Context) {
	jobID := ParseStringIDParam(c, "id")
	if jobID == "" {
		return
	}

	job, err := h.importService.GetImportJob(c.Request.Context(), jobID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListImportJobs returns the caller's import history
// @Summary List import jobs
// @Tags imports
// @Produce json
// @Success 200 {object} ListResponse
// @Router /imports [get]
func (h *ImportHandler) ListImportJobs(c *gin.Context) {
	limit, offset := ParsePagination(c)

	jobs, total, err := h.importService.ListImportJobs(c.Request.Context(), h.extractUserID(c), limit, offset)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Items: jobs, Total: total})
}
