package scheduling

import (
	"clinic-app-server/internal/models"
)

// StatusLabel maps a lifecycle status to its user-facing label.
func StatusLabel(s models.AppointmentStatus) string {
	switch s {
	case models.StatusRequested:
		return "Requested"
	case models.StatusConfirmed:
		return "Confirmed"
	case models.StatusCheckedIn:
		return "Checked in"
	case models.StatusCompleted:
		return "Completed"
	case models.StatusCancelled:
		return "Cancelled"
	default:
		return string(s)
	}
}

// StatusBadge maps a lifecycle status to the badge style the portals render.
func StatusBadge(s models.AppointmentStatus) string {
	switch s {
	case models.StatusRequested:
		return "warning"
	case models.StatusConfirmed:
		return "info"
	case models.StatusCheckedIn:
		return "primary"
	case models.StatusCompleted:
		return "success"
	case models.StatusCancelled:
		return "danger"
	default:
		return "secondary"
	}
}

// FormatSlot renders a (date, time) slot for display, e.g.
// "Mon, 15 Jan 2024 at 14:30". Falls back to the raw values if they do not
// parse, so a bad record never breaks a listing.
func FormatSlot(date, timeSlot string) string {
	d, err := ParseDate(date)
	if err != nil {
		return date + " " + timeSlot
	}
	return d.Format("Mon, 02 Jan 2006") + " at " + timeSlot
}
