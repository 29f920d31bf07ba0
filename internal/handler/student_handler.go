package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/student-progress-api/internal/models"
	"github.com/noah-isme/student-progress-api/internal/service"
	appErrors "github.com/noah-isme/student-progress-api/pkg/errors"
	"github.com/noah-isme/student-progress-api/pkg/response"
)

type studentService interface {
	Create(ctx context.Context, req service.CreateStudentRequest) (*models.Student, error)
	Get(ctx context.Context, id string) (*models.Student, error)
	UpdateHandle(ctx context.Context, id string, req service.UpdateHandleRequest) (*models.Student, error)
	UpdateSyncSettings(ctx context.Context, id string, req service.UpdateSyncSettingsRequest) (*models.Student, error)
	ListContests(ctx context.Context, id string) ([]models.Contest, error)
	ListSubmissions(ctx context.Context, id string) ([]models.Submission, error)
}

// StudentHandler exposes student roster and sync profile endpoints.
type StudentHandler struct {
	students studentService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students studentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// Create godoc
// @Summary Register a student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body service.CreateStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.students.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Get godoc
// @Summary Get a student with their sync profile
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	student, err := h.students.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// UpdateHandle godoc
// @Summary Change the student's judge handle
// @Description Updates the linked handle and starts a background sync; the request never waits for the sync.
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body service.UpdateHandleRequest true "Handle payload"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/handle [patch]
func (h *StudentHandler) UpdateHandle(c *gin.Context) {
	var req service.UpdateHandleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.students.UpdateHandle(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Contests godoc
// @Summary List the student's synced contest history
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/contests [get]
func (h *StudentHandler) Contests(c *gin.Context) {
	contests, err := h.students.ListContests(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, contests)
}

// Submissions godoc
// @Summary List the student's synced submissions
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/submissions [get]
func (h *StudentHandler) Submissions(c *gin.Context) {
	submissions, err := h.students.ListSubmissions(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, submissions)
}

// UpdateSyncSettings godoc
// @Summary Update sync frequency and notification preference
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body service.UpdateSyncSettingsRequest true "Settings payload"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/sync-settings [patch]
func (h *StudentHandler) UpdateSyncSettings(c *gin.Context) {
	var req service.UpdateSyncSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.students.UpdateSyncSettings(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}
