package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hms/hms/internal/platform/db"
	"github.com/hms/hms/internal/platform/httperr"
)

type Service struct {
	appts AppointmentRepository
	tx    db.TxRunner
}

func NewService(appts AppointmentRepository, tx db.TxRunner) *Service {
	return &Service{appts: appts, tx: tx}
}

func validateTimes(start, end string) error {
	if !timePattern.MatchString(start) {
		return httperr.Validation("startTime must be HH:MM")
	}
	if !timePattern.MatchString(end) {
		return httperr.Validation("endTime must be HH:MM")
	}
	if end <= start {
		return httperr.Validation("end time must be after start time")
	}
	return nil
}

// guardAvailability fails when the doctor already has an overlapping
// non-cancelled appointment on the same date. Must run inside the booking
// transaction: the doctor-day advisory lock is what serializes concurrent
// bookings, since a conflict query that finds no rows locks nothing.
func (s *Service) guardAvailability(ctx context.Context, a *Appointment) error {
	if err := s.appts.LockDoctorDay(ctx, a.DoctorID, a.AppointmentDate); err != nil {
		return err
	}
	_, err := s.appts.FindConflict(ctx, a.DoctorID, a.AppointmentDate, a.StartTime, a.EndTime, a.ID)
	if err == nil {
		return httperr.Conflict("doctor is not available at the selected time")
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	return nil
}

func (s *Service) CreateAppointment(ctx context.Context, a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return httperr.Validation("patientId is required")
	}
	if a.DoctorID == uuid.Nil {
		return httperr.Validation("doctorId is required")
	}
	if a.AppointmentDate.IsZero() {
		return httperr.Validation("appointmentDate is required")
	}
	if err := validateTimes(a.StartTime, a.EndTime); err != nil {
		return err
	}
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	if !validStatuses[a.Status] {
		return httperr.Validation("invalid status: %s", a.Status)
	}
	if a.Type == "" {
		a.Type = "consultation"
	}
	if !validTypes[a.Type] {
		return httperr.Validation("invalid appointment type: %s", a.Type)
	}
	a.AppointmentDate = truncateToDate(a.AppointmentDate)
	a.IsActive = true

	return s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.guardAvailability(ctx, a); err != nil {
			return err
		}
		return s.appts.Create(ctx, a)
	})
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := s.appts.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httperr.NotFound("appointment not found")
	}
	return a, err
}

func (s *Service) UpdateAppointment(ctx context.Context, a *Appointment, updatedBy uuid.UUID) error {
	existing, err := s.GetAppointment(ctx, a.ID)
	if err != nil {
		return err
	}
	if a.PatientID == uuid.Nil {
		a.PatientID = existing.PatientID
	}
	if a.DoctorID == uuid.Nil {
		a.DoctorID = existing.DoctorID
	}
	if a.AppointmentDate.IsZero() {
		a.AppointmentDate = existing.AppointmentDate
	}
	if a.StartTime == "" {
		a.StartTime = existing.StartTime
	}
	if a.EndTime == "" {
		a.EndTime = existing.EndTime
	}
	if a.Status == "" {
		a.Status = existing.Status
	}
	if a.Type == "" {
		a.Type = existing.Type
	}
	if a.Reason == nil {
		a.Reason = existing.Reason
	}
	if a.Notes == nil {
		a.Notes = existing.Notes
	}
	if err := validateTimes(a.StartTime, a.EndTime); err != nil {
		return err
	}
	if !validStatuses[a.Status] {
		return httperr.Validation("invalid status: %s", a.Status)
	}
	if !validTypes[a.Type] {
		return httperr.Validation("invalid appointment type: %s", a.Type)
	}
	a.AppointmentDate = truncateToDate(a.AppointmentDate)
	a.CreatedBy = existing.CreatedBy
	a.UpdatedBy = &updatedBy
	a.IsActive = existing.IsActive

	return s.tx.InTx(ctx, func(ctx context.Context) error {
		if a.Status != StatusCancelled {
			if err := s.guardAvailability(ctx, a); err != nil {
				return err
			}
		}
		return s.appts.Update(ctx, a)
	})
}

func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID, deletedBy uuid.UUID) error {
	if _, err := s.GetAppointment(ctx, id); err != nil {
		return err
	}
	return s.appts.SoftDelete(ctx, id, deletedBy)
}

func (s *Service) ListAppointments(ctx context.Context, search string, from, to *time.Time, orderBy string, limit, offset int) ([]*Appointment, int, error) {
	return s.appts.List(ctx, search, from, to, orderBy, limit, offset)
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
