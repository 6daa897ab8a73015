package patient

import (
	"time"

	"github.com/google/uuid"
)

const (
	CaseOPD         = "opd"
	CaseIPD         = "ipd"
	CaseEmergency   = "emergency"
	CaseAppointment = "appointment"
)

var validCaseTypes = map[string]bool{
	CaseOPD: true, CaseIPD: true, CaseEmergency: true, CaseAppointment: true,
}

var validCaseLabels = map[string]bool{"old": true, "new": true}

var validGenders = map[string]bool{"male": true, "female": true, "other": true}

var validEmergencyLevels = map[string]bool{"low": true, "medium": true, "high": true}

// Nested documents are stored as jsonb columns, so shape changes do not
// require schema migrations.

type Address struct {
	Line1   string `json:"line1,omitempty"`
	Line2   string `json:"line2,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country,omitempty"`
}

type OPDDetails struct {
	DoctorID    *uuid.UUID `json:"doctor,omitempty"`
	VisitReason string     `json:"visitReason,omitempty"`
	VisitCount  int        `json:"visitCount,omitempty"`
	LastVisit   *time.Time `json:"lastVisit,omitempty"`
}

type IPDDetails struct {
	DoctorID         *uuid.UUID `json:"doctor,omitempty"`
	Ward             string     `json:"ward,omitempty"`
	RoomNumber       string     `json:"roomNumber,omitempty"`
	BedNumber        string     `json:"bedNumber,omitempty"`
	AdmissionDate    *time.Time `json:"admissionDate,omitempty"`
	DischargeDate    *time.Time `json:"dischargeDate,omitempty"`
	DischargeSummary string     `json:"dischargeSummary,omitempty"`
}

type EmergencyDetails struct {
	Level          string `json:"level,omitempty"`
	BroughtBy      string `json:"broughtBy,omitempty"`
	ConditionNotes string `json:"conditionNotes,omitempty"`
}

type Vitals struct {
	Height        *float64 `json:"height,omitempty"`
	Weight        *float64 `json:"weight,omitempty"`
	Temperature   string   `json:"temperature,omitempty"`
	BloodPressure string   `json:"bloodPressure,omitempty"`
	Pulse         string   `json:"pulse,omitempty"`
	SpO2          string   `json:"spo2,omitempty"`
}

type Insurance struct {
	Provider     string     `json:"provider,omitempty"`
	PolicyNumber string     `json:"policyNumber,omitempty"`
	ExpiryDate   *time.Time `json:"expiryDate,omitempty"`
}

// Contact covers both the emergency contact and the guardian.
type Contact struct {
	Name     string `json:"name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Relation string `json:"relation,omitempty"`
}

type Medication struct {
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
}

type Document struct {
	FileName   string    `json:"fileName,omitempty"`
	FileURL    string    `json:"fileUrl,omitempty"`
	FileType   string    `json:"fileType,omitempty"`
	UploadedAt time.Time `json:"uploadedAt,omitempty"`
}

type Patient struct {
	ID               uuid.UUID         `db:"id" json:"id"`
	FirstName        string            `db:"first_name" json:"firstName"`
	LastName         string            `db:"last_name" json:"lastName"`
	Gender           string            `db:"gender" json:"gender"`
	DOB              *time.Time        `db:"dob" json:"dob,omitempty"`
	Age              int               `db:"age" json:"age"`
	Phone            string            `db:"phone" json:"phone"`
	AltPhone         *string           `db:"alt_phone" json:"altPhone,omitempty"`
	Email            *string           `db:"email" json:"email,omitempty"`
	ProfileImage     *string           `db:"profile_image" json:"profileImage,omitempty"`
	Address          *Address          `db:"address" json:"address,omitempty"`
	CaseType         string            `db:"case_type" json:"caseType"`
	Case             string            `db:"case_label" json:"case"`
	OPD              *OPDDetails       `db:"opd" json:"opd,omitempty"`
	IPD              *IPDDetails       `db:"ipd" json:"ipd,omitempty"`
	AppointmentID    *uuid.UUID        `db:"appointment_id" json:"appointmentId,omitempty"`
	Emergency        *EmergencyDetails `db:"emergency" json:"emergency,omitempty"`
	BloodGroup       *string           `db:"blood_group" json:"bloodGroup,omitempty"`
	Allergies        []string          `db:"allergies" json:"allergies,omitempty"`
	MedicalHistory   []string          `db:"medical_history" json:"medicalHistory,omitempty"`
	ChronicDiseases  []string          `db:"chronic_diseases" json:"chronicDiseases,omitempty"`
	Medications      []Medication      `db:"medications" json:"medications,omitempty"`
	Vitals           *Vitals           `db:"vitals" json:"vitals,omitempty"`
	Insurance        *Insurance        `db:"insurance" json:"insurance,omitempty"`
	EmergencyContact *Contact          `db:"emergency_contact" json:"emergencyContact,omitempty"`
	Guardian         *Contact          `db:"guardian" json:"guardian,omitempty"`
	Documents        []Document        `db:"documents" json:"documents,omitempty"`
	Notes            *string           `db:"notes" json:"notes,omitempty"`
	CreatedBy        uuid.UUID         `db:"created_by" json:"createdBy"`
	IsActive         bool              `db:"is_active" json:"isActive"`
	CreatedAt        time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time         `db:"updated_at" json:"updatedAt"`
}
