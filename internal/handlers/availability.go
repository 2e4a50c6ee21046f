package handlers

import (
	"clinic-app-server/internal/config"
	"clinic-app-server/internal/middleware"
	"clinic-app-server/internal/models"
	"clinic-app-server/internal/scheduling"
	"clinic-app-server/internal/utils"

	"github.com/gin-gonic/gin"
)

// AvailabilityHandler handles doctor availability: open-slot listings for
// booking screens and the exceptions that block slots or whole days.
type AvailabilityHandler struct {
	Service *scheduling.Service
	Cfg     *config.Config
}

// NewAvailabilityHandler creates a new AvailabilityHandler.
func NewAvailabilityHandler(service *scheduling.Service, cfg *config.Config) *AvailabilityHandler {
	return &AvailabilityHandler{Service: service, Cfg: cfg}
}

// GetOpenSlots returns the bookable times for a doctor on a date: the clinic
// grid minus exceptions minus active bookings. Any authenticated user may
// call this (patients use it to pick a slot).
func (h *AvailabilityHandler) GetOpenSlots(c *gin.Context) {
	ctx, cancel := opContext(c, h.Cfg)
	defer cancel()

	slots, err := h.Service.OpenSlots(ctx, c.Param("doctorId"), c.Query("date"))
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Open slots fetched successfully", slots)
}

// GetExceptions lists a doctor's availability exceptions, optionally filtered
// by date. The doctor themself or staff may view them.
func (h *AvailabilityHandler) GetExceptions(c *gin.Context) {
	doctorID := c.Param("doctorId")
	if !h.authorizeDoctorOrStaff(c, doctorID) {
		return
	}

	ctx, cancel := opContext(c, h.Cfg)
	defer cancel()

	exceptions, err := h.Service.ListExceptions(ctx, doctorID, c.Query("date"))
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Availability exceptions fetched successfully", exceptions)
}

// CreateExceptionRequest represents the request body for blocking a slot or day.
type CreateExceptionRequest struct {
	DoctorID string `json:"doctorId" binding:"required,uuid"`
	Date     string `json:"date" binding:"required"`
	Time     string `json:"time"` // empty blocks the whole day
	Reason   string `json:"reason"`
}

// CreateException blocks a slot (or a whole day) for a doctor.
func (h *AvailabilityHandler) CreateException(c *gin.Context) {
	var req CreateExceptionRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	if !h.authorizeDoctorOrStaff(c, req.DoctorID) {
		return
	}

	ctx, cancel := opContext(c, h.Cfg)
	defer cancel()

	exception, err := h.Service.BlockSlot(ctx, req.DoctorID, req.Date, req.Time, req.Reason)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Created(c, "Availability exception created successfully", exception)
}

// DeleteException removes an availability exception.
func (h *AvailabilityHandler) DeleteException(c *gin.Context) {
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if userRole != models.RoleDoctor && !isStaff(userRole) {
		utils.Forbidden(c, "You are not authorized to manage availability.")
		return
	}

	ctx, cancel := opContext(c, h.Cfg)
	defer cancel()

	if err := h.Service.UnblockSlot(ctx, c.Param("id")); err != nil {
		respondSchedulingError(c, err)
		return
	}

	utils.Success(c, "Availability exception removed successfully", nil)
}

// authorizeDoctorOrStaff allows the doctor acting on their own schedule, or staff.
func (h *AvailabilityHandler) authorizeDoctorOrStaff(c *gin.Context, doctorID string) bool {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return false
	}
	userRole, _ := middleware.GetUserRoleFromContext(c)
	if isStaff(userRole) {
		return true
	}
	if userRole == models.RoleDoctor && userID == doctorID {
		return true
	}
	utils.Forbidden(c, "You are not authorized to manage this doctor's availability.")
	return false
}
