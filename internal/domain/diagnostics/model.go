package diagnostics

import (
	"time"

	"github.com/google/uuid"
)

var validCategories = map[string]bool{
	"PATHOLOGY": true, "RADIOLOGY": true, "MICROBIOLOGY": true,
	"BIOCHEMISTRY": true, "HEMATOLOGY": true, "IMMUNOLOGY": true,
}

// LabTest is a catalog entry for an orderable diagnostic test.
type LabTest struct {
	ID                  uuid.UUID `db:"id" json:"id"`
	Name                string    `db:"name" json:"name"`
	Code                string    `db:"code" json:"code"`
	Category            string    `db:"category" json:"category"`
	Unit                *string   `db:"unit" json:"unit,omitempty"`
	NormalRange         *string   `db:"normal_range" json:"normalRange,omitempty"`
	SampleType          string    `db:"sample_type" json:"sampleType"`
	TurnaroundTimeHours int       `db:"turnaround_time_hours" json:"turnaroundTime"`
	IsActive            bool      `db:"is_active" json:"isActive"`
	CreatedAt           time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time `db:"updated_at" json:"updatedAt"`
}
