package scheduling

import (
	"encoding/json"
	"regexp"
	"time"

	"github.com/google/uuid"
)

const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no-show"
)

var validStatuses = map[string]bool{
	StatusScheduled: true, StatusCompleted: true, StatusCancelled: true, StatusNoShow: true,
}

var validTypes = map[string]bool{
	"consultation": true, "follow-up": true, "check-up": true, "procedure": true, "other": true,
}

// timePattern accepts zero-padded 24h HH:MM strings. Zero-padding keeps
// lexicographic comparison equivalent to chronological comparison.
var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Overlaps reports whether two half-open [start, end) intervals intersect.
// Touching boundaries do not overlap.
func Overlaps(s1, e1, s2, e2 string) bool {
	return s1 < e2 && e1 > s2
}

type Appointment struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	PatientID       uuid.UUID  `db:"patient_id" json:"patientId"`
	DoctorID        uuid.UUID  `db:"doctor_id" json:"doctorId"`
	AppointmentDate time.Time  `db:"appointment_date" json:"appointmentDate"`
	StartTime       string     `db:"start_time" json:"startTime"`
	EndTime         string     `db:"end_time" json:"endTime"`
	Status          string     `db:"status" json:"status"`
	Type            string     `db:"type" json:"type"`
	Reason          *string    `db:"reason" json:"reason,omitempty"`
	Notes           *string    `db:"notes" json:"notes,omitempty"`
	CreatedBy       uuid.UUID  `db:"created_by" json:"createdBy"`
	UpdatedBy       *uuid.UUID `db:"updated_by" json:"updatedBy,omitempty"`
	IsActive        bool       `db:"is_active" json:"isActive"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updatedAt"`
}

// Duration returns the appointment length in minutes, 0 if times are malformed.
func (a Appointment) Duration() int {
	start, err1 := time.Parse("15:04", a.StartTime)
	end, err2 := time.Parse("15:04", a.EndTime)
	if err1 != nil || err2 != nil {
		return 0
	}
	return int(end.Sub(start).Minutes())
}

// MarshalJSON adds the computed durationMinutes field to API responses.
func (a Appointment) MarshalJSON() ([]byte, error) {
	type plain Appointment
	return json.Marshal(struct {
		plain
		DurationMinutes int `json:"durationMinutes"`
	}{plain(a), a.Duration()})
}
