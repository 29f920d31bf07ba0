package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-progress-api/internal/dto"
	"github.com/noah-isme/student-progress-api/pkg/response"
)

type manualSyncer interface {
	SyncStudent(ctx context.Context, studentID string) error
}

type batchRunner interface {
	RunBatch(ctx context.Context) (dto.SyncBatchSummary, error)
}

// SyncHandler exposes the manual sync trigger and the batch entry point.
type SyncHandler struct {
	syncer    manualSyncer
	scheduler batchRunner
}

// NewSyncHandler constructs SyncHandler.
func NewSyncHandler(syncer manualSyncer, scheduler batchRunner) *SyncHandler {
	return &SyncHandler{syncer: syncer, scheduler: scheduler}
}

// TriggerManual godoc
// @Summary Sync one student's judge data now
// @Description Runs the full sync pipeline for the student, bypassing the weekday selection. Returns 409 when a sync for the student is already running.
// @Tags Sync
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/sync [post]
func (h *SyncHandler) TriggerManual(c *gin.Context) {
	studentID := c.Param("id")
	if err := h.syncer.SyncStudent(c.Request.Context(), studentID); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.SyncTriggerResponse{
		StudentID: studentID,
		SyncedAt:  time.Now().UTC(),
	})
}

// RunBatch godoc
// @Summary Run the scheduled sync batch now
// @Description Executes one batch run as the daily trigger would, returning attempted/succeeded/failed counts.
// @Tags Sync
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sync/run [post]
func (h *SyncHandler) RunBatch(c *gin.Context) {
	summary, err := h.scheduler.RunBatch(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}
