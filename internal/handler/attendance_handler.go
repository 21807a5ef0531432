package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutorhub/internal/models"
	appErrors "github.com/noah-isme/tutorhub/pkg/errors"
	"github.com/noah-isme/tutorhub/pkg/response"
)

type attendanceService interface {
	ChangeAttendanceStatus(ctx context.Context, req models.ChangeAttendanceStatusRequest) (*models.StatusChangeResponse, error)
	ChangeConfirmationStatus(ctx context.Context, actor *models.SessionClaims, req models.ChangeConfirmationStatusRequest) (*models.StatusChangeResponse, error)
	StudentAttendances(ctx context.Context, studentID int64) (*models.StudentAttendancesResponse, error)
	Roster(ctx context.Context, sessionID int64) (*models.RosterResponse, error)
}

// AttendanceHandler exposes check-in and confirmation endpoints.
type AttendanceHandler struct {
	service attendanceService
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(svc attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// ChangeAttendanceStatus godoc
// @Summary Check a student or teacher in
// @Description Set present or absent for the subject's row in a class session. Exactly one of student_id and teacher_id is sent.
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.ChangeAttendanceStatusRequest true "Attendance payload"
// @Success 200 {object} models.StatusChangeResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /attendance/change-attendance-status [post]
func (h *AttendanceHandler) ChangeAttendanceStatus(c *gin.Context) {
	var req models.ChangeAttendanceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid attendance payload"))
		return
	}

	res, err := h.service.ChangeAttendanceStatus(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}

// ChangeConfirmationStatus godoc
// @Summary Confirm or cancel a scheduled session
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.ChangeConfirmationStatusRequest true "Confirmation payload"
// @Success 200 {object} models.StatusChangeResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /attendance/change-confirmation-status [post]
func (h *AttendanceHandler) ChangeConfirmationStatus(c *gin.Context) {
	var req models.ChangeConfirmationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid confirmation payload"))
		return
	}

	res, err := h.service.ChangeConfirmationStatus(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}

// StudentAttendances godoc
// @Summary List a student's attendance rows
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} models.StudentAttendancesResponse
// @Failure 403 {object} response.ErrorBody
// @Router /student/{id}/attendances [get]
func (h *AttendanceHandler) StudentAttendances(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	res, err := h.service.StudentAttendances(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}

// Roster godoc
// @Summary List the students of a class session
// @Tags Attendance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Class session ID"
// @Success 200 {object} models.RosterResponse
// @Router /classSession/{id}/attendances [get]
func (h *AttendanceHandler) Roster(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	res, err := h.service.Roster(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}
