package handlers

import (
	"context"
	"errors"
	"time"

	"clinic-app-server/internal/config"
	"clinic-app-server/internal/middleware"
	"clinic-app-server/internal/models"
	"clinic-app-server/internal/scheduling"
	"clinic-app-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// AppointmentHandler handles appointment related requests. All lifecycle
// logic lives in the scheduling service; the handler does request binding,
// authorization and error mapping.
type AppointmentHandler struct {
	Service *scheduling.Service
	Cfg     *config.Config
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(service *scheduling.Service, cfg *config.Config) *AppointmentHandler {
	return &AppointmentHandler{Service: service, Cfg: cfg}
}

// opContext bounds every store round trip so a hung database never leaves
// the client's submit control disabled forever.
func opContext(c *gin.Context, cfg *config.Config) (context.Context, context.CancelFunc) {
	timeout := time.Duration(cfg.StoreTimeoutSeconds) * time.Second
	return context.WithTimeout(c.Request.Context(), timeout)
}

// respondSchedulingError maps the scheduling error taxonomy onto HTTP
// statuses. Local and store-detected conflicts surface identically.
func respondSchedulingError(c *gin.Context, err error) {
	var fieldErr *scheduling.FieldError
	switch {
	case errors.As(err, &fieldErr):
		utils.BadRequest(c, fieldErr.Error())
	case errors.Is(err, scheduling.ErrValidation):
		utils.BadRequest(c, err.Error())
	case errors.Is(err, scheduling.ErrSlotTaken):
		utils.Conflict(c, "This time slot is already booked for the selected doctor. Please choose another slot.")
	case errors.Is(err, scheduling.ErrInvalidTransition):
		utils.Conflict(c, "The appointment's current status does not allow this operation.")
	case errors.Is(err, scheduling.ErrNotFound):
		utils.NotFound(c, "Record not found")
	case errors.Is(err, scheduling.ErrStoreUnavailable), errors.Is(err, context.DeadlineExceeded):
		utils.ServiceUnavailable(c, "Could not complete the operation. Please try again.")
	default:
		utils.InternalServerError(c, err.Error())
	}
}

func isStaff(role models.Role) bool {
	return role == models.RoleAdmin || role == models.RoleSecretary || role == models.RoleManager
}

// CreateAppointmentRequest represents the request body for booking an appointment.
type CreateAppointmentRequest struct {
	DoctorID  string `json:"doctorId" binding:"required,uuid"`
	PatientID string `json:"patientId" binding:"required,uuid"`
	Date      string `json:"date" binding:"required"` // YYYY-MM-DD
	Time      string `json:"time" binding:"required"` // HH:MM
}

// CreateAppointment handles booking a new appointment.
// Initiated by a patient (self-service) or by staff on a patient's behalf.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if userRole == models.RolePatient && userID != req.PatientID {
		utils.Forbidden(c, "Patients can only book appointments for themselves.")
		return
	}

	ctx, cancel := opContext(c, h.Cfg)
	defer cancel()

	appointment, err := h.Service.Schedule(ctx, scheduling.ScheduleRequest{
		DoctorID:  req.DoctorID,
		PatientID: req.PatientID,
		Date:      req.Date,
		Time:      req.Time,
	})
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Created(c, "Appointment requested successfully", appointment)
}

// GetAppointmentsForUser handles fetching appointments for the logged-in user.
// Patients see their own, doctors see their schedule, staff see everything.
func (h *AppointmentHandler) GetAppointmentsForUser(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	userRole, _ := middleware.GetUserRoleFromContext(c)

	filter := scheduling.Filter{
		Date:   c.Query("date"),
		Status: models.AppointmentStatus(c.Query("status")),
	}
	switch {
	case userRole == models.RolePatient:
		filter.PatientID = userID
	case userRole == models.RoleDoctor:
		filter.DoctorID = userID
	case isStaff(userRole) || userRole == models.RoleFinance:
		filter.DoctorID = c.Query("doctorId")
		filter.PatientID = c.Query("patientId")
	default:
		utils.Forbidden(c, "User role not permitted to view appointments this way.")
		return
	}

	ctx, cancel := opContext(c, h.Cfg)
	defer cancel()

	appointments, err := h.Service.List(ctx, filter)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetAppointmentByID handles fetching a single appointment by its ID.
// Accessible by the involved patient or doctor, or by staff.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	ctx, cancel := opContext(c, h.Cfg)
	defer cancel()

	appointment, err := h.Service.GetByID(ctx, c.Param("id"))
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)
	involved := userID == appointment.PatientID || userID == appointment.DoctorID
	if !involved && !isStaff(userRole) && userRole != models.RoleFinance {
		utils.Forbidden(c, "You are not authorized to view this appointment")
		return
	}

	utils.Success(c, "Appointment fetched successfully", appointment)
}

// RescheduleAppointmentRequest represents the request body for rescheduling.
type RescheduleAppointmentRequest struct {
	Date   string `json:"date" binding:"required"`
	Time   string `json:"time" binding:"required"`
	Reason string `json:"reason"` // optional
}

// RescheduleAppointment moves an appointment to a new slot. The involved
// patient, the involved doctor, or staff may reschedule.
func (h *AppointmentHandler) RescheduleAppointment(c *gin.Context) {
	var req RescheduleAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if !h.authorizeActor(c, c.Param("id")) {
		return
	}

	ctx, cancel := opContext(c, h.Cfg)
	defer cancel()

	appointment, err := h.Service.Reschedule(ctx, c.Param("id"), scheduling.RescheduleRequest{
		Date:   req.Date,
		Time:   req.Time,
		Reason: req.Reason,
	})
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Appointment rescheduled successfully", appointment)
}

// CancelAppointmentRequest represents the request body for cancellation.
type CancelAppointmentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CancelAppointment cancels an appointment. The reason is mandatory and must
// be at least 10 characters once trimmed.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	var req CancelAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if !h.authorizeActor(c, c.Param("id")) {
		return
	}

	ctx, cancel := opContext(c, h.Cfg)
	defer cancel()

	appointment, err := h.Service.Cancel(ctx, c.Param("id"), req.Reason)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Appointment cancelled successfully", appointment)
}

// ConfirmAppointment confirms a requested appointment (staff or the doctor).
func (h *AppointmentHandler) ConfirmAppointment(c *gin.Context) {
	h.staffTransition(c, h.Service.Confirm, "Appointment confirmed successfully")
}

// CheckInAppointment marks the patient as arrived (staff or the doctor).
func (h *AppointmentHandler) CheckInAppointment(c *gin.Context) {
	h.staffTransition(c, h.Service.CheckIn, "Patient checked in successfully")
}

// CompleteAppointment closes out a checked-in appointment (staff or the doctor).
func (h *AppointmentHandler) CompleteAppointment(c *gin.Context) {
	h.staffTransition(c, h.Service.Complete, "Appointment completed successfully")
}

// DeleteAppointment hard-deletes an appointment. Admin-only; this is an
// administrative operation, not a lifecycle transition.
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	ctx, cancel := opContext(c, h.Cfg)
	defer cancel()

	if err := h.Service.Remove(ctx, c.Param("id")); err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Appointment deleted successfully", nil)
}

// authorizeActor checks that the caller may mutate the appointment: the
// involved patient, the involved doctor, or staff.
func (h *AppointmentHandler) authorizeActor(c *gin.Context, appointmentID string) bool {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return false
	}
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if isStaff(userRole) {
		return true
	}

	ctx, cancel := opContext(c, h.Cfg)
	defer cancel()

	appointment, err := h.Service.GetByID(ctx, appointmentID)
	if err != nil {
		respondSchedulingError(c, err)
		return false
	}
	if userID != appointment.PatientID && userID != appointment.DoctorID {
		utils.Forbidden(c, "You are not authorized to modify this appointment.")
		return false
	}
	return true
}

// staffTransition runs one of the staff-driven forward transitions
// (confirm, check-in, complete) with doctor-or-staff authorization.
func (h *AppointmentHandler) staffTransition(c *gin.Context, op func(context.Context, string) (*models.Appointment, error), message string) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	userRole, _ := middleware.GetUserRoleFromContext(c)

	ctx, cancel := opContext(c, h.Cfg)
	defer cancel()

	if !isStaff(userRole) {
		appointment, err := h.Service.GetByID(ctx, c.Param("id"))
		if err != nil {
			respondSchedulingError(c, err)
			return
		}
		if userRole != models.RoleDoctor || userID != appointment.DoctorID {
			utils.Forbidden(c, "You are not authorized to update this appointment's status.")
			return
		}
	}

	appointment, err := op(ctx, c.Param("id"))
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, message, appointment)
}
