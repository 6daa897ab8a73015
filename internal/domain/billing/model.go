package billing

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

const (
	StatusUnpaid  = "unpaid"
	StatusPartial = "partial"
	StatusPaid    = "paid"
)

var validChargeTypes = map[string]bool{
	"OPD": true, "IPD": true, "EMERGENCY": true, "APPOINTMENT": true,
	"LAB": true, "PROCEDURE": true, "SERVICE": true,
}

var validGSTRates = map[int]bool{0: true, 5: true, 12: true, 18: true}

var validGSTTypes = map[string]bool{"CGST_SGST": true, "IGST": true}

// ChargeMaster is a priced billing item. The (code, doctor) pair is unique so
// the same code can carry doctor-specific prices alongside a generic one.
type ChargeMaster struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	Name          string     `db:"name" json:"name"`
	Code          string     `db:"code" json:"code"`
	ChargeType    string     `db:"charge_type" json:"chargeType"`
	Amount        float64    `db:"amount" json:"amount"`
	Currency      string     `db:"currency" json:"currency"`
	GSTApplicable bool       `db:"gst_applicable" json:"gstApplicable"`
	GSTRate       int        `db:"gst_rate" json:"gstRate"`
	GSTType       string     `db:"gst_type" json:"gstType"`
	HSNCode       *string    `db:"hsn_code" json:"hsnCode,omitempty"`
	TaxInclusive  bool       `db:"tax_inclusive" json:"taxInclusive"`
	LabTestID     *uuid.UUID `db:"lab_test_id" json:"labTestId,omitempty"`
	DoctorID      *uuid.UUID `db:"doctor_id" json:"doctorId,omitempty"`
	EffectiveFrom time.Time  `db:"effective_from" json:"effectiveFrom"`
	EffectiveTo   *time.Time `db:"effective_to" json:"effectiveTo,omitempty"`
	IsActive      bool       `db:"is_active" json:"isActive"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`
}

// Charge is a billed line against a patient. Amount is a snapshot of the
// master price at creation time and never changes afterwards.
type Charge struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	PatientID      uuid.UUID  `db:"patient_id" json:"patientId"`
	DoctorID       *uuid.UUID `db:"doctor_id" json:"doctorId,omitempty"`
	ChargeMasterID uuid.UUID  `db:"charge_master_id" json:"chargeMasterId"`
	CaseType       string     `db:"case_type" json:"caseType"`
	Amount         float64    `db:"amount" json:"amount"`
	PaidAmount     float64    `db:"paid_amount" json:"paidAmount"`
	BalanceAmount  float64    `db:"balance_amount" json:"balanceAmount"`
	PaymentStatus  string     `db:"payment_status" json:"paymentStatus"`
	ReferenceID    *uuid.UUID `db:"reference_id" json:"referenceId,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updatedAt"`
}

// ServiceItem is a hospital service price-list entry.
type ServiceItem struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ServiceName string    `db:"service_name" json:"serviceName"`
	Description *string   `db:"description" json:"description,omitempty"`
	Price       float64   `db:"price" json:"price"`
	Department  string    `db:"department" json:"department"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
