package staff

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hms/hms/internal/domain/identity"
	"github.com/hms/hms/internal/platform/httperr"
)

// UserDirectory resolves user accounts so profile creation can verify the
// referenced account exists and carries the matching role.
type UserDirectory interface {
	GetUser(ctx context.Context, id uuid.UUID) (*identity.User, error)
}

type Service struct {
	doctors         DoctorRepository
	labTechs        LabTechnicianRepository
	recipients      RecipientRepository
	specializations SpecializationRepository
	degrees         DegreeRepository
	departments     DepartmentRepository
	users           UserDirectory
}

func NewService(doctors DoctorRepository, labTechs LabTechnicianRepository, recipients RecipientRepository,
	specializations SpecializationRepository, degrees DegreeRepository, departments DepartmentRepository,
	users UserDirectory) *Service {
	return &Service{
		doctors:         doctors,
		labTechs:        labTechs,
		recipients:      recipients,
		specializations: specializations,
		degrees:         degrees,
		departments:     departments,
		users:           users,
	}
}

func (s *Service) requireUserWithRole(ctx context.Context, userID uuid.UUID, role string) error {
	if userID == uuid.Nil {
		return httperr.Validation("userId is required")
	}
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return httperr.Referential("user %s does not exist", userID)
	}
	if u.Role != role {
		return httperr.Referential("user %s does not have the %s role", userID, role)
	}
	return nil
}

// -- Doctor --

func (s *Service) CreateDoctor(ctx context.Context, d *Doctor) error {
	d.Specialization = strings.TrimSpace(d.Specialization)
	if d.Specialization == "" {
		return httperr.Validation("specialization is required")
	}
	if err := s.requireUserWithRole(ctx, d.UserID, identity.RoleDoctor); err != nil {
		return err
	}
	if _, err := s.doctors.GetByUserID(ctx, d.UserID); err == nil {
		return httperr.Conflict("doctor profile already exists for user %s", d.UserID)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	if d.Status == "" {
		d.Status = StatusActive
	}
	if d.Status != StatusActive && d.Status != StatusInactive {
		return httperr.Validation("invalid status: %s", d.Status)
	}
	return s.doctors.Create(ctx, d)
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	d, err := s.doctors.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httperr.NotFound("doctor not found")
	}
	return d, err
}

func (s *Service) UpdateDoctor(ctx context.Context, d *Doctor) error {
	existing, err := s.GetDoctor(ctx, d.ID)
	if err != nil {
		return err
	}
	if d.Specialization == "" {
		d.Specialization = existing.Specialization
	}
	if d.Status == "" {
		d.Status = existing.Status
	}
	if d.Status != StatusActive && d.Status != StatusInactive {
		return httperr.Validation("invalid status: %s", d.Status)
	}
	d.UserID = existing.UserID
	return s.doctors.Update(ctx, d)
}

func (s *Service) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetDoctor(ctx, id); err != nil {
		return err
	}
	return s.doctors.SoftDelete(ctx, id)
}

func (s *Service) ListDoctors(ctx context.Context, search, orderBy string, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.List(ctx, search, orderBy, limit, offset)
}

// -- LabTechnician --

func (s *Service) CreateLabTechnician(ctx context.Context, lt *LabTechnician) error {
	if err := s.requireUserWithRole(ctx, lt.UserID, identity.RoleLabTechnician); err != nil {
		return err
	}
	lt.IsActive = true
	return s.labTechs.Create(ctx, lt)
}

func (s *Service) GetLabTechnician(ctx context.Context, id uuid.UUID) (*LabTechnician, error) {
	lt, err := s.labTechs.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httperr.NotFound("lab technician not found")
	}
	return lt, err
}

func (s *Service) UpdateLabTechnician(ctx context.Context, lt *LabTechnician) error {
	existing, err := s.GetLabTechnician(ctx, lt.ID)
	if err != nil {
		return err
	}
	lt.UserID = existing.UserID
	return s.labTechs.Update(ctx, lt)
}

func (s *Service) DeleteLabTechnician(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetLabTechnician(ctx, id); err != nil {
		return err
	}
	return s.labTechs.SoftDelete(ctx, id)
}

func (s *Service) ListLabTechnicians(ctx context.Context, search, orderBy string, limit, offset int) ([]*LabTechnician, int, error) {
	return s.labTechs.List(ctx, search, orderBy, limit, offset)
}

// -- Recipient --

func (s *Service) CreateRecipient(ctx context.Context, rec *Recipient) error {
	if err := s.requireUserWithRole(ctx, rec.UserID, identity.RoleRecipient); err != nil {
		return err
	}
	rec.IsActive = true
	return s.recipients.Create(ctx, rec)
}

func (s *Service) GetRecipient(ctx context.Context, id uuid.UUID) (*Recipient, error) {
	rec, err := s.recipients.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httperr.NotFound("recipient not found")
	}
	return rec, err
}

func (s *Service) UpdateRecipient(ctx context.Context, rec *Recipient) error {
	existing, err := s.GetRecipient(ctx, rec.ID)
	if err != nil {
		return err
	}
	rec.UserID = existing.UserID
	return s.recipients.Update(ctx, rec)
}

func (s *Service) DeleteRecipient(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetRecipient(ctx, id); err != nil {
		return err
	}
	return s.recipients.SoftDelete(ctx, id)
}

func (s *Service) ListRecipients(ctx context.Context, search, orderBy string, limit, offset int) ([]*Recipient, int, error) {
	return s.recipients.List(ctx, search, orderBy, limit, offset)
}

// -- Specialization --

func (s *Service) CreateSpecialization(ctx context.Context, sp *Specialization) error {
	sp.Name = strings.TrimSpace(sp.Name)
	if sp.Name == "" {
		return httperr.Validation("name is required")
	}
	if _, err := s.specializations.GetByName(ctx, sp.Name); err == nil {
		return httperr.Conflict("specialization %s already exists", sp.Name)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	sp.IsActive = true
	return s.specializations.Create(ctx, sp)
}

func (s *Service) GetSpecialization(ctx context.Context, id uuid.UUID) (*Specialization, error) {
	sp, err := s.specializations.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httperr.NotFound("specialization not found")
	}
	return sp, err
}

func (s *Service) UpdateSpecialization(ctx context.Context, sp *Specialization) error {
	existing, err := s.GetSpecialization(ctx, sp.ID)
	if err != nil {
		return err
	}
	sp.Name = strings.TrimSpace(sp.Name)
	if sp.Name == "" {
		sp.Name = existing.Name
	}
	// Renaming onto another entry's name is still a duplicate.
	if other, err := s.specializations.GetByName(ctx, sp.Name); err == nil && other.ID != sp.ID {
		return httperr.Conflict("specialization %s already exists", sp.Name)
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	sp.IsActive = existing.IsActive
	return s.specializations.Update(ctx, sp)
}

func (s *Service) DeleteSpecialization(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetSpecialization(ctx, id); err != nil {
		return err
	}
	return s.specializations.SoftDelete(ctx, id)
}

func (s *Service) ListSpecializations(ctx context.Context, search, orderBy string, limit, offset int) ([]*Specialization, int, error) {
	return s.specializations.List(ctx, search, orderBy, limit, offset)
}

// -- Degree --

func (s *Service) CreateDegree(ctx context.Context, dg *Degree) error {
	dg.Name = strings.TrimSpace(dg.Name)
	if dg.Name == "" {
		return httperr.Validation("name is required")
	}
	if dg.Level == "" {
		dg.Level = LevelUG
	}
	if !validDegreeLevels[dg.Level] {
		return httperr.Validation("invalid degree level: %s", dg.Level)
	}
	if _, err := s.degrees.GetByName(ctx, dg.Name); err == nil {
		return httperr.Conflict("degree %s already exists", dg.Name)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	dg.IsActive = true
	return s.degrees.Create(ctx, dg)
}

func (s *Service) GetDegree(ctx context.Context, id uuid.UUID) (*Degree, error) {
	dg, err := s.degrees.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httperr.NotFound("degree not found")
	}
	return dg, err
}

func (s *Service) UpdateDegree(ctx context.Context, dg *Degree) error {
	existing, err := s.GetDegree(ctx, dg.ID)
	if err != nil {
		return err
	}
	dg.Name = strings.TrimSpace(dg.Name)
	if dg.Name == "" {
		dg.Name = existing.Name
	}
	if dg.Level == "" {
		dg.Level = existing.Level
	}
	if !validDegreeLevels[dg.Level] {
		return httperr.Validation("invalid degree level: %s", dg.Level)
	}
	if other, err := s.degrees.GetByName(ctx, dg.Name); err == nil && other.ID != dg.ID {
		return httperr.Conflict("degree %s already exists", dg.Name)
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	dg.IsActive = existing.IsActive
	return s.degrees.Update(ctx, dg)
}

func (s *Service) DeleteDegree(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetDegree(ctx, id); err != nil {
		return err
	}
	return s.degrees.SoftDelete(ctx, id)
}

func (s *Service) ListDegrees(ctx context.Context, search, orderBy string, limit, offset int) ([]*Degree, int, error) {
	return s.degrees.List(ctx, search, orderBy, limit, offset)
}

// -- Department --

func (s *Service) CreateDepartment(ctx context.Context, dep *Department) error {
	dep.Name = strings.TrimSpace(dep.Name)
	if dep.Name == "" {
		return httperr.Validation("name is required")
	}
	if _, err := s.departments.GetByName(ctx, dep.Name); err == nil {
		return httperr.Conflict("department %s already exists", dep.Name)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	dep.IsActive = true
	return s.departments.Create(ctx, dep)
}

func (s *Service) GetDepartment(ctx context.Context, id uuid.UUID) (*Department, error) {
	dep, err := s.departments.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httperr.NotFound("department not found")
	}
	return dep, err
}

func (s *Service) UpdateDepartment(ctx context.Context, dep *Department) error {
	existing, err := s.GetDepartment(ctx, dep.ID)
	if err != nil {
		return err
	}
	dep.Name = strings.TrimSpace(dep.Name)
	if dep.Name == "" {
		dep.Name = existing.Name
	}
	if other, err := s.departments.GetByName(ctx, dep.Name); err == nil && other.ID != dep.ID {
		return httperr.Conflict("department %s already exists", dep.Name)
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	dep.IsActive = existing.IsActive
	return s.departments.Update(ctx, dep)
}

func (s *Service) DeleteDepartment(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetDepartment(ctx, id); err != nil {
		return err
	}
	return s.departments.SoftDelete(ctx, id)
}

func (s *Service) ListDepartments(ctx context.Context, search, orderBy string, limit, offset int) ([]*Department, int, error) {
	return s.departments.List(ctx, search, orderBy, limit, offset)
}
