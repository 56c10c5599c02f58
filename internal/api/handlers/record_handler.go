package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"salesloop/crm/internal/config"
	"salesloop/crm/internal/importer"
	"salesloop/crm/internal/models"
	"salesloop/crm/internal/services"
	"salesloop/crm/internal/storage"
)

// RecordHandler handles imported spreadsheet rows: upload, listing with
// duplicate flags, editing, and reconciliation into leads.
type RecordHandler struct {
	recordService    services.IRecordService
	reconcileService services.IReconcileService
	uploadStorage    storage.IUploadStorage
}

// NewRecordHandler creates a new RecordHandler. uploadStorage may be nil
// when S3 is not configured; the upload-url endpoint then reports 503.
func NewRecordHandler(recordService services.IRecordService, reconcileService services.IReconcileService, uploadStorage storage.IUploadStorage) *RecordHandler {
	return &RecordHandler{
		recordService:    recordService,
		reconcileService: reconcileService,
		uploadStorage:    uploadStorage,
	}
}

type uploadRequest struct {
	Employee string          `json:"employee"`
	Rows     []models.Record `json:"rows"`
}

// Upload handles POST /records/upload: rows already parsed client-side.
func (h *RecordHandler) Upload(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Rows) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A non-empty rows list is required"})
		return
	}

	inserted, err := h.recordService.BulkInsert(c.Request.Context(), strings.TrimSpace(req.Employee), req.Rows)
	if err != nil {
		config.Logger().WithError(err).Error("record upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store records"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"inserted": inserted})
}

// Import handles POST /records/import: a multipart .xlsx workbook parsed
// server-side. The first sheet's header row maps columns by name.
func (h *RecordHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A workbook file is required"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		config.Logger().WithError(err).Error("opening uploaded workbook failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read workbook"})
		return
	}
	defer f.Close()

	rows, err := importer.ParseWorkbook(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not parse workbook"})
		return
	}
	if len(rows) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Workbook contains no data rows"})
		return
	}

	inserted, err := h.recordService.BulkInsert(c.Request.Context(), strings.TrimSpace(c.PostForm("employee")), rows)
	if err != nil {
		config.Logger().WithError(err).Error("workbook import failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store records"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"inserted": inserted})
}

// List handles GET /records. The response carries the rows plus the ids of
// every row sharing an (email, product) identity with another row.
func (h *RecordHandler) List(c *gin.Context) {
	records, err := h.recordService.FindAll(c.Request.Context())
	if err != nil {
		config.Logger().WithError(err).Error("listing records failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve records"})
		return
	}
	if records == nil {
		records = []models.Record{}
	}

	dups := models.DuplicateRecordIDs(records)
	duplicateIDs := make([]string, 0, len(dups))
	for _, id := range dups {
		duplicateIDs = append(duplicateIDs, id.Hex())
	}

	c.JSON(http.StatusOK, gin.H{"records": records, "duplicateIds": duplicateIDs})
}

// Update handles PUT /records/:id.
func (h *RecordHandler) Update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record ID format"})
		return
	}

	var record models.Record
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record payload"})
		return
	}

	updated, err := h.recordService.Update(c.Request.Context(), id, record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
			return
		}
		config.Logger().WithError(err).WithField("record_id", id.Hex()).Error("updating record failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update record"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /records/:id.
func (h *RecordHandler) Delete(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record ID format"})
		return
	}

	if err := h.recordService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
			return
		}
		config.Logger().WithError(err).WithField("record_id", id.Hex()).Error("deleting record failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete record"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": 1})
}

// BulkDelete handles POST /records/bulk-delete.
func (h *RecordHandler) BulkDelete(c *gin.Context) {
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A non-empty ids list is required"})
		return
	}

	ids, err := parseIDs(req.IDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record ID format"})
		return
	}

	deleted, failed := h.recordService.BulkDelete(c.Request.Context(), ids)
	c.JSON(http.StatusOK, gin.H{"deleted": deleted, "failed": failed})
}

// Merge handles POST /records/merge: reconcile the selected rows into the
// lead pipeline. Re-running a merge with the same rows is idempotent.
func (h *RecordHandler) Merge(c *gin.Context) {
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A non-empty ids list is required"})
		return
	}

	ids, err := parseIDs(req.IDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record ID format"})
		return
	}

	result, err := h.reconcileService.MergeRecords(c.Request.Context(), ids)
	if err != nil {
		config.Logger().WithError(err).Error("record merge failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to merge records"})
		return
	}
	c.JSON(http.StatusOK, result)
}

type uploadURLRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

// UploadURL handles POST /records/upload-url: a presigned S3 PUT URL so the
// client can archive the original workbook.
func (h *RecordHandler) UploadURL(c *gin.Context) {
	if h.uploadStorage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "File storage is not configured"})
		return
	}

	var req uploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A filename is required"})
		return
	}

	url, key, err := h.uploadStorage.GeneratePresignedPutURL(c.Request.Context(), "imports", req.Filename, req.ContentType)
	if err != nil {
		config.Logger().WithError(err).Error("generating presigned upload URL failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate upload URL"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url, "key": key})
}
