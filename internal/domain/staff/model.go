package staff

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Degree levels, ordered roughly by seniority.
const (
	LevelUG              = "UG"
	LevelPG              = "PG"
	LevelDiploma         = "DIPLOMA"
	LevelSuperSpeciality = "SUPER_SPECIALITY"
)

var validDegreeLevels = map[string]bool{
	LevelUG:              true,
	LevelPG:              true,
	LevelDiploma:         true,
	LevelSuperSpeciality: true,
}

// Specialization is a master-data entry doctors reference by name.
type Specialization struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Degree is a master-data entry for medical qualifications.
type Degree struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	ShortName *string   `db:"short_name" json:"shortName,omitempty"`
	Level     string    `db:"level" json:"level"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Department is a master-data entry hospital units are grouped under.
type Department struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// EducationEntry is one qualification on a doctor profile, stored as JSONB.
type EducationEntry struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        int    `json:"year,omitempty"`
}

// Doctor is the clinical profile attached to a user with the doctor role.
type Doctor struct {
	ID              uuid.UUID        `db:"id" json:"id"`
	UserID          uuid.UUID        `db:"user_id" json:"userId"`
	Specialization  string           `db:"specialization" json:"specialization"`
	Department      *string          `db:"department" json:"department,omitempty"`
	ExperienceYears *int             `db:"experience_years" json:"experienceYears,omitempty"`
	Bio             *string          `db:"bio" json:"bio,omitempty"`
	Education       []EducationEntry `db:"education" json:"education,omitempty"`
	Availability    map[string]bool  `db:"availability" json:"availability,omitempty"`
	Status          string           `db:"status" json:"status"`
	CreatedAt       time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time        `db:"updated_at" json:"updatedAt"`
}

// LabTechnician is the profile attached to a user with the lab_technician role.
type LabTechnician struct {
	ID         uuid.UUID `db:"id" json:"id"`
	UserID     uuid.UUID `db:"user_id" json:"userId"`
	Department *string   `db:"department" json:"department,omitempty"`
	IsActive   bool      `db:"is_active" json:"isActive"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`
}

// Recipient is the front-desk profile attached to a user with the recipient role.
type Recipient struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"userId"`
	Desk      *string   `db:"desk" json:"desk,omitempty"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
