package patient

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hms/hms/internal/domain/billing"
	"github.com/hms/hms/internal/platform/db"
	"github.com/hms/hms/internal/platform/httperr"
)

// ChargeCreator books the registration fee for a new patient. Satisfied by
// the billing service.
type ChargeCreator interface {
	CreatePatientCharge(ctx context.Context, patientID uuid.UUID, caseType, caseLabel string, doctorID *uuid.UUID) (*billing.Charge, error)
}

type Service struct {
	patients PatientRepository
	charges  ChargeCreator
	tx       db.TxRunner
}

func NewService(patients PatientRepository, charges ChargeCreator, tx db.TxRunner) *Service {
	return &Service{patients: patients, charges: charges, tx: tx}
}

func (s *Service) validate(p *Patient) error {
	if strings.TrimSpace(p.FirstName) == "" {
		return httperr.Validation("firstName is required")
	}
	if !validGenders[p.Gender] {
		return httperr.Validation("invalid gender: %s", p.Gender)
	}
	if p.Age <= 0 {
		return httperr.Validation("age is required")
	}
	if strings.TrimSpace(p.Phone) == "" {
		return httperr.Validation("phone is required")
	}
	if !validCaseTypes[p.CaseType] {
		return httperr.Validation("invalid caseType: %s", p.CaseType)
	}
	if !validCaseLabels[p.Case] {
		return httperr.Validation("case must be old or new")
	}
	switch p.CaseType {
	case CaseOPD:
		if p.OPD == nil || p.OPD.DoctorID == nil {
			return httperr.Validation("opd.doctor is required for OPD patients")
		}
	case CaseIPD:
		if p.IPD == nil || p.IPD.DoctorID == nil {
			return httperr.Validation("ipd.doctor is required for IPD patients")
		}
	}
	if p.Emergency != nil {
		if p.Emergency.Level == "" {
			p.Emergency.Level = "low"
		}
		if !validEmergencyLevels[p.Emergency.Level] {
			return httperr.Validation("invalid emergency level: %s", p.Emergency.Level)
		}
	}
	return nil
}

func (p *Patient) caseDoctor() *uuid.UUID {
	switch p.CaseType {
	case CaseOPD:
		if p.OPD != nil {
			return p.OPD.DoctorID
		}
	case CaseIPD:
		if p.IPD != nil {
			return p.IPD.DoctorID
		}
	}
	return nil
}

// CreatePatient registers the patient and books the visit fee in one
// transaction. A missing charge master rolls the registration back, so a
// patient row never exists without its charge.
func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if p.Case == "" {
		p.Case = "new"
	}
	if err := s.validate(p); err != nil {
		return err
	}
	p.IsActive = true

	return s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.patients.Create(ctx, p); err != nil {
			return err
		}
		_, err := s.charges.CreatePatientCharge(ctx, p.ID, p.CaseType, p.Case, p.caseDoctor())
		return err
	})
}

// GetPatient returns the patient regardless of soft-delete state so past
// records stay reachable from charges and appointments.
func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	p, err := s.patients.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httperr.NotFound("patient not found")
	}
	return p, err
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	existing, err := s.GetPatient(ctx, p.ID)
	if err != nil {
		return err
	}
	if p.FirstName == "" {
		p.FirstName = existing.FirstName
	}
	if p.LastName == "" {
		p.LastName = existing.LastName
	}
	if p.Gender == "" {
		p.Gender = existing.Gender
	}
	if p.DOB == nil {
		p.DOB = existing.DOB
	}
	if p.Age == 0 {
		p.Age = existing.Age
	}
	if p.Phone == "" {
		p.Phone = existing.Phone
	}
	if p.AltPhone == nil {
		p.AltPhone = existing.AltPhone
	}
	if p.Email == nil {
		p.Email = existing.Email
	}
	if p.ProfileImage == nil {
		p.ProfileImage = existing.ProfileImage
	}
	if p.Address == nil {
		p.Address = existing.Address
	}
	if p.CaseType == "" {
		p.CaseType = existing.CaseType
	}
	if p.Case == "" {
		p.Case = existing.Case
	}
	if p.OPD == nil {
		p.OPD = existing.OPD
	}
	if p.IPD == nil {
		p.IPD = existing.IPD
	}
	if p.AppointmentID == nil {
		p.AppointmentID = existing.AppointmentID
	}
	if p.Emergency == nil {
		p.Emergency = existing.Emergency
	}
	if p.BloodGroup == nil {
		p.BloodGroup = existing.BloodGroup
	}
	if p.Allergies == nil {
		p.Allergies = existing.Allergies
	}
	if p.MedicalHistory == nil {
		p.MedicalHistory = existing.MedicalHistory
	}
	if p.ChronicDiseases == nil {
		p.ChronicDiseases = existing.ChronicDiseases
	}
	if p.Medications == nil {
		p.Medications = existing.Medications
	}
	if p.Vitals == nil {
		p.Vitals = existing.Vitals
	}
	if p.Insurance == nil {
		p.Insurance = existing.Insurance
	}
	if p.EmergencyContact == nil {
		p.EmergencyContact = existing.EmergencyContact
	}
	if p.Guardian == nil {
		p.Guardian = existing.Guardian
	}
	if p.Documents == nil {
		p.Documents = existing.Documents
	}
	if p.Notes == nil {
		p.Notes = existing.Notes
	}
	if err := s.validate(p); err != nil {
		return err
	}
	p.CreatedBy = existing.CreatedBy
	p.IsActive = existing.IsActive
	return s.patients.Update(ctx, p)
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetPatient(ctx, id); err != nil {
		return err
	}
	return s.patients.SoftDelete(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, search, caseType, orderBy string, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, search, caseType, orderBy, limit, offset)
}
