package models

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusRequested AppointmentStatus = "requested"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCheckedIn AppointmentStatus = "checked_in"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// IsTerminal reports whether the status admits no further transitions.
// Terminal appointments do not hold their slot, so a cancelled or completed
// appointment frees the (doctor, date, time) triple for reuse.
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Appointment represents a scheduled encounter between a patient and a doctor.
// Specialty, Location and ContactPhone are copied from the doctor record when
// the appointment is created and are never re-synced afterwards.
type Appointment struct {
	BaseModel
	DoctorID      string            `gorm:"size:36;index:idx_doctor_slot" json:"doctorId"`
	PatientID     string            `gorm:"size:36;index" json:"patientId"`
	ScheduledDate string            `gorm:"size:10;index:idx_doctor_slot" json:"scheduledDate"` // YYYY-MM-DD
	ScheduledTime string            `gorm:"size:5;index:idx_doctor_slot" json:"scheduledTime"`  // HH:MM
	Status        AppointmentStatus `gorm:"size:20;default:'requested'" json:"status"`
	Specialty     string            `gorm:"size:100" json:"specialty"`
	Location      string            `gorm:"size:255" json:"location"`
	ContactPhone  string            `gorm:"size:30" json:"contactPhone"`

	// SlotKey is the uniqueness guard for active appointments. It holds
	// "doctorID|date|time" while the appointment is non-terminal and is
	// cleared on cancellation/completion, so the unique index only ever sees
	// one active row per slot (MySQL does not compare NULLs).
	SlotKey *string `gorm:"uniqueIndex;size:100" json:"-"`

	CancelReason     string `gorm:"size:500" json:"cancelReason,omitempty"`
	RescheduleReason string `gorm:"size:500" json:"rescheduleReason,omitempty"`

	// Relations
	Patient User `gorm:"foreignKey:PatientID" json:"-"`
	Doctor  User `gorm:"foreignKey:DoctorID" json:"-"`
}

// ActiveSlotKey builds the uniqueness key for the appointment's current slot.
func (a *Appointment) ActiveSlotKey() string {
	return a.DoctorID + "|" + a.ScheduledDate + "|" + a.ScheduledTime
}

// AvailabilityException marks a doctor's slot (or a whole day, when
// ScheduledTime is empty) as unavailable for booking.
type AvailabilityException struct {
	BaseModel
	DoctorID      string `gorm:"size:36;index" json:"doctorId"`
	ScheduledDate string `gorm:"size:10;index" json:"scheduledDate"`
	ScheduledTime string `gorm:"size:5" json:"scheduledTime,omitempty"`
	Reason        string `gorm:"size:255" json:"reason,omitempty"`

	Doctor User `gorm:"foreignKey:DoctorID" json:"-"`
}

// CoversSlot reports whether the exception blocks the given time. A whole-day
// exception blocks every slot of its date.
func (e *AvailabilityException) CoversSlot(timeSlot string) bool {
	return e.ScheduledTime == "" || e.ScheduledTime == timeSlot
}
