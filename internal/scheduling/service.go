package scheduling

import (
	"context"
	"strings"
	"time"

	"clinic-app-server/internal/models"
)

// MinCancelReasonLen is the minimum trimmed length of a cancellation reason.
const MinCancelReasonLen = 10

// Filter narrows an appointment listing.
type Filter struct {
	DoctorID  string
	PatientID string
	Date      string // YYYY-MM-DD, exact match
	Status    models.AppointmentStatus
}

// AppointmentStore is the persistence collaborator. It is the single source
// of truth; the service never keeps appointment state between calls.
//
// Create and Update return ErrSlotTaken when the database uniqueness guard
// detects a duplicate active slot the local pre-check missed (two clients
// racing on the same slot). Implementations wrap other failures in
// ErrStoreUnavailable.
type AppointmentStore interface {
	List(ctx context.Context, filter Filter) ([]models.Appointment, error)
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	Create(ctx context.Context, appt *models.Appointment) error
	Update(ctx context.Context, appt *models.Appointment) error
	Delete(ctx context.Context, id string) error
}

// ExceptionStore provides a doctor's availability exceptions.
type ExceptionStore interface {
	ListForDoctor(ctx context.Context, doctorID, date string) ([]models.AvailabilityException, error)
	Create(ctx context.Context, exc *models.AvailabilityException) error
	Delete(ctx context.Context, id string) error
}

// Directory resolves doctor and patient records for enrichment. Lookups fail
// with ErrNotFound when the id is unknown or the role does not match.
type Directory interface {
	GetDoctor(ctx context.Context, id string) (*models.User, error)
	GetPatient(ctx context.Context, id string) (*models.User, error)
}

// Service drives the appointment lifecycle: it enforces the scheduling
// invariant (no two active appointments for the same doctor at the same
// date/time) and the status state machine, delegating persistence to the
// AppointmentStore.
type Service struct {
	store      AppointmentStore
	exceptions ExceptionStore
	directory  Directory
	grid       SlotGrid

	// now is swappable for tests
	now func() time.Time
}

// NewService creates a lifecycle service around the given collaborators.
func NewService(store AppointmentStore, exceptions ExceptionStore, directory Directory, grid SlotGrid) *Service {
	return &Service{
		store:      store,
		exceptions: exceptions,
		directory:  directory,
		grid:       grid,
		now:        time.Now,
	}
}

// ScheduleRequest carries the inputs for booking a new appointment.
type ScheduleRequest struct {
	DoctorID  string
	PatientID string
	Date      string // YYYY-MM-DD
	Time      string // HH:MM, must be on the slot grid
}

// RescheduleRequest carries the new slot for an existing appointment.
type RescheduleRequest struct {
	Date   string
	Time   string
	Reason string // optional
}

// Schedule books a new appointment in status "requested". Validation and the
// conflict pre-check run before any write; on failure nothing is persisted.
func (s *Service) Schedule(ctx context.Context, req ScheduleRequest) (*models.Appointment, error) {
	if req.DoctorID == "" {
		return nil, fieldErr("doctorId", "doctor is required")
	}
	if req.PatientID == "" {
		return nil, fieldErr("patientId", "patient is required")
	}
	if err := s.validateSlot(req.Date, req.Time); err != nil {
		return nil, err
	}

	doctor, err := s.directory.GetDoctor(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.directory.GetPatient(ctx, req.PatientID); err != nil {
		return nil, err
	}

	if err := s.checkSlotFree(ctx, req.DoctorID, req.Date, req.Time, ""); err != nil {
		return nil, err
	}

	appt := &models.Appointment{
		DoctorID:      req.DoctorID,
		PatientID:     req.PatientID,
		ScheduledDate: req.Date,
		ScheduledTime: req.Time,
		Status:        models.StatusRequested,
		Specialty:     doctor.Specialty,
		Location:      doctor.Location,
		ContactPhone:  doctor.PhoneNumber,
	}
	key := appt.ActiveSlotKey()
	appt.SlotKey = &key

	if err := s.store.Create(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// Reschedule moves an appointment to a new slot and resets its status to
// "requested". Only legal from requested/confirmed. The conflict check
// excludes the appointment itself, so moving to the slot it already occupies
// succeeds. On any failure the stored record is left untouched.
func (s *Service) Reschedule(ctx context.Context, id string, req RescheduleRequest) (*models.Appointment, error) {
	appt, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status != models.StatusRequested && appt.Status != models.StatusConfirmed {
		return nil, ErrInvalidTransition
	}
	if err := s.validateSlot(req.Date, req.Time); err != nil {
		return nil, err
	}
	if err := s.checkSlotFree(ctx, appt.DoctorID, req.Date, req.Time, appt.ID); err != nil {
		return nil, err
	}

	appt.ScheduledDate = req.Date
	appt.ScheduledTime = req.Time
	appt.Status = models.StatusRequested
	appt.RescheduleReason = strings.TrimSpace(req.Reason)
	key := appt.ActiveSlotKey()
	appt.SlotKey = &key

	if err := s.store.Update(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// Cancel moves an appointment to the terminal "cancelled" state and records
// the reason. Legal from any non-terminal state. The slot is freed for reuse;
// date/time/doctor/patient are left as they were.
func (s *Service) Cancel(ctx context.Context, id, reason string) (*models.Appointment, error) {
	appt, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status.IsTerminal() {
		return nil, ErrInvalidTransition
	}
	reason = strings.TrimSpace(reason)
	if len(reason) < MinCancelReasonLen {
		return nil, fieldErr("reason", "cancellation reason must be at least 10 characters")
	}

	appt.Status = models.StatusCancelled
	appt.CancelReason = reason
	appt.SlotKey = nil

	if err := s.store.Update(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// Confirm moves a requested appointment to confirmed (staff workflow).
func (s *Service) Confirm(ctx context.Context, id string) (*models.Appointment, error) {
	return s.advance(ctx, id, models.StatusRequested, models.StatusConfirmed)
}

// CheckIn marks a confirmed appointment as checked in at the clinic.
func (s *Service) CheckIn(ctx context.Context, id string) (*models.Appointment, error) {
	return s.advance(ctx, id, models.StatusConfirmed, models.StatusCheckedIn)
}

// Complete closes out a checked-in appointment. Completed appointments are
// kept for history and never transition again.
func (s *Service) Complete(ctx context.Context, id string) (*models.Appointment, error) {
	return s.advance(ctx, id, models.StatusCheckedIn, models.StatusCompleted)
}

func (s *Service) advance(ctx context.Context, id string, from, to models.AppointmentStatus) (*models.Appointment, error) {
	appt, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status != from {
		return nil, ErrInvalidTransition
	}
	appt.Status = to
	if to.IsTerminal() {
		appt.SlotKey = nil
	}
	if err := s.store.Update(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// List returns appointments matching the filter, straight from the store.
func (s *Service) List(ctx context.Context, filter Filter) ([]models.Appointment, error) {
	return s.store.List(ctx, filter)
}

// GetByID fetches a single appointment.
func (s *Service) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	return s.store.GetByID(ctx, id)
}

// Remove hard-deletes an appointment. Administrative escape hatch only; it is
// not part of the lifecycle state machine.
func (s *Service) Remove(ctx context.Context, id string) error {
	if _, err := s.store.GetByID(ctx, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// OpenSlots returns the grid times still bookable for a doctor on a date:
// the configured grid minus availability exceptions minus active bookings.
func (s *Service) OpenSlots(ctx context.Context, doctorID, date string) ([]string, error) {
	if doctorID == "" {
		return nil, fieldErr("doctorId", "doctor is required")
	}
	if _, err := ParseDate(date); err != nil {
		return nil, fieldErr("date", "date must be YYYY-MM-DD")
	}
	if _, err := s.directory.GetDoctor(ctx, doctorID); err != nil {
		return nil, err
	}

	excs, err := s.exceptions.ListForDoctor(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	booked, err := s.store.List(ctx, Filter{DoctorID: doctorID, Date: date})
	if err != nil {
		return nil, err
	}

	open := make([]string, 0)
	for _, slot := range s.grid.Slots() {
		if slotBlocked(excs, slot) || slotBooked(booked, slot) {
			continue
		}
		open = append(open, slot)
	}
	return open, nil
}

// BlockSlot records an availability exception for a doctor. An empty timeSlot
// blocks the whole day.
func (s *Service) BlockSlot(ctx context.Context, doctorID, date, timeSlot, reason string) (*models.AvailabilityException, error) {
	if doctorID == "" {
		return nil, fieldErr("doctorId", "doctor is required")
	}
	if _, err := ParseDate(date); err != nil {
		return nil, fieldErr("date", "date must be YYYY-MM-DD")
	}
	if timeSlot != "" && !s.grid.Contains(timeSlot) {
		return nil, fieldErr("time", "time is not an available clinic slot")
	}
	if _, err := s.directory.GetDoctor(ctx, doctorID); err != nil {
		return nil, err
	}
	exc := &models.AvailabilityException{
		DoctorID:      doctorID,
		ScheduledDate: date,
		ScheduledTime: timeSlot,
		Reason:        strings.TrimSpace(reason),
	}
	if err := s.exceptions.Create(ctx, exc); err != nil {
		return nil, err
	}
	return exc, nil
}

// ListExceptions returns a doctor's availability exceptions, optionally
// filtered to a single date.
func (s *Service) ListExceptions(ctx context.Context, doctorID, date string) ([]models.AvailabilityException, error) {
	if doctorID == "" {
		return nil, fieldErr("doctorId", "doctor is required")
	}
	if date != "" {
		if _, err := ParseDate(date); err != nil {
			return nil, fieldErr("date", "date must be YYYY-MM-DD")
		}
	}
	return s.exceptions.ListForDoctor(ctx, doctorID, date)
}

// UnblockSlot removes an availability exception.
func (s *Service) UnblockSlot(ctx context.Context, id string) error {
	return s.exceptions.Delete(ctx, id)
}

// validateSlot rejects malformed or past dates and off-grid times before any
// store call is made.
func (s *Service) validateSlot(date, timeSlot string) error {
	if date == "" {
		return fieldErr("date", "date is required")
	}
	if timeSlot == "" {
		return fieldErr("time", "time is required")
	}
	parsed, err := ParseDate(date)
	if err != nil {
		return fieldErr("date", "date must be YYYY-MM-DD")
	}
	today := s.now().UTC().Truncate(24 * time.Hour)
	if parsed.Before(today) {
		return fieldErr("date", "date must not be in the past")
	}
	if !s.grid.Contains(timeSlot) {
		return fieldErr("time", "time is not an available clinic slot")
	}
	return nil
}

// checkSlotFree runs the availability-exception check and the conflict
// pre-check against the store's current view. excludeID skips the appointment
// being rescheduled so it never conflicts with itself. The pre-check is best
// effort: a concurrent writer can still win the slot, in which case the
// store's uniqueness guard reports the same ErrSlotTaken.
func (s *Service) checkSlotFree(ctx context.Context, doctorID, date, timeSlot, excludeID string) error {
	excs, err := s.exceptions.ListForDoctor(ctx, doctorID, date)
	if err != nil {
		return err
	}
	if slotBlocked(excs, timeSlot) {
		return ErrSlotTaken
	}
	existing, err := s.store.List(ctx, Filter{DoctorID: doctorID, Date: date})
	if err != nil {
		return err
	}
	if hasConflict(existing, timeSlot, excludeID) {
		return ErrSlotTaken
	}
	return nil
}

// hasConflict scans appointments already filtered to (doctor, date) for an
// active occupant of the slot.
func hasConflict(appts []models.Appointment, timeSlot, excludeID string) bool {
	for i := range appts {
		a := &appts[i]
		if a.ID == excludeID {
			continue
		}
		if a.Status.IsTerminal() {
			continue
		}
		if a.ScheduledTime == timeSlot {
			return true
		}
	}
	return false
}

func slotBlocked(excs []models.AvailabilityException, timeSlot string) bool {
	for i := range excs {
		if excs[i].CoversSlot(timeSlot) {
			return true
		}
	}
	return false
}

func slotBooked(appts []models.Appointment, timeSlot string) bool {
	return hasConflict(appts, timeSlot, "")
}
