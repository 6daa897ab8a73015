package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AppointmentRepository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	SoftDelete(ctx context.Context, id uuid.UUID, updatedBy uuid.UUID) error
	// LockDoctorDay takes a transaction-scoped advisory lock keyed on the
	// doctor and date. A concurrent booking for the same doctor-day blocks
	// here until the holder commits or rolls back.
	LockDoctorDay(ctx context.Context, doctorID uuid.UUID, date time.Time) error
	// FindConflict returns a non-cancelled active appointment of the doctor on
	// the given date whose time window overlaps [start, end).
	FindConflict(ctx context.Context, doctorID uuid.UUID, date time.Time, start, end string, excludeID uuid.UUID) (*Appointment, error)
	List(ctx context.Context, search string, from, to *time.Time, orderBy string, limit, offset int) ([]*Appointment, int, error)
}
