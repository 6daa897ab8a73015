package staff

import (
	"context"

	"github.com/google/uuid"
)

type DoctorRepository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search, orderBy string, limit, offset int) ([]*Doctor, int, error)
}

type LabTechnicianRepository interface {
	Create(ctx context.Context, lt *LabTechnician) error
	GetByID(ctx context.Context, id uuid.UUID) (*LabTechnician, error)
	Update(ctx context.Context, lt *LabTechnician) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search, orderBy string, limit, offset int) ([]*LabTechnician, int, error)
}

type RecipientRepository interface {
	Create(ctx context.Context, rec *Recipient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Recipient, error)
	Update(ctx context.Context, rec *Recipient) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search, orderBy string, limit, offset int) ([]*Recipient, int, error)
}

// GetByName lookups are case-insensitive so duplicate checks catch
// renamings that differ only in case.

type SpecializationRepository interface {
	Create(ctx context.Context, sp *Specialization) error
	GetByID(ctx context.Context, id uuid.UUID) (*Specialization, error)
	GetByName(ctx context.Context, name string) (*Specialization, error)
	Update(ctx context.Context, sp *Specialization) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search, orderBy string, limit, offset int) ([]*Specialization, int, error)
}

type DegreeRepository interface {
	Create(ctx context.Context, dg *Degree) error
	GetByID(ctx context.Context, id uuid.UUID) (*Degree, error)
	GetByName(ctx context.Context, name string) (*Degree, error)
	Update(ctx context.Context, dg *Degree) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search, orderBy string, limit, offset int) ([]*Degree, int, error)
}

type DepartmentRepository interface {
	Create(ctx context.Context, dep *Department) error
	GetByID(ctx context.Context, id uuid.UUID) (*Department, error)
	GetByName(ctx context.Context, name string) (*Department, error)
	Update(ctx context.Context, dep *Department) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search, orderBy string, limit, offset int) ([]*Department, int, error)
}
