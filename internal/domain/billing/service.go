package billing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hms/hms/internal/platform/httperr"
)

type Service struct {
	masters ChargeMasterRepository
	charges ChargeRepository
	items   ServiceItemRepository
}

func NewService(masters ChargeMasterRepository, charges ChargeRepository, items ServiceItemRepository) *Service {
	return &Service{masters: masters, charges: charges, items: items}
}

// -- ChargeMaster --

func (s *Service) CreateChargeMaster(ctx context.Context, cm *ChargeMaster) error {
	cm.Name = strings.TrimSpace(cm.Name)
	cm.Code = strings.ToUpper(strings.TrimSpace(cm.Code))
	if cm.Name == "" {
		return httperr.Validation("name is required")
	}
	if cm.Code == "" {
		return httperr.Validation("code is required")
	}
	if !validChargeTypes[cm.ChargeType] {
		return httperr.Validation("invalid charge type: %s", cm.ChargeType)
	}
	if cm.Amount < 0 {
		return httperr.Validation("amount cannot be negative")
	}
	if cm.Currency == "" {
		cm.Currency = "INR"
	}
	if !validGSTRates[cm.GSTRate] {
		return httperr.Validation("invalid gst rate: %d", cm.GSTRate)
	}
	if cm.GSTType == "" {
		cm.GSTType = "CGST_SGST"
	}
	if !validGSTTypes[cm.GSTType] {
		return httperr.Validation("invalid gst type: %s", cm.GSTType)
	}
	if _, err := s.masters.GetByCodeAndDoctor(ctx, cm.Code, cm.DoctorID); err == nil {
		return httperr.Conflict("charge master %s already exists for this doctor", cm.Code)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	if cm.EffectiveFrom.IsZero() {
		cm.EffectiveFrom = time.Now()
	}
	cm.IsActive = true
	return s.masters.Create(ctx, cm)
}

func (s *Service) GetChargeMaster(ctx context.Context, id uuid.UUID) (*ChargeMaster, error) {
	cm, err := s.masters.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httperr.NotFound("charge master not found")
	}
	return cm, err
}

func (s *Service) UpdateChargeMaster(ctx context.Context, cm *ChargeMaster) error {
	existing, err := s.GetChargeMaster(ctx, cm.ID)
	if err != nil {
		return err
	}
	if cm.Name == "" {
		cm.Name = existing.Name
	}
	if cm.Code == "" {
		cm.Code = existing.Code
	}
	cm.Code = strings.ToUpper(cm.Code)
	if cm.ChargeType == "" {
		cm.ChargeType = existing.ChargeType
	}
	if !validChargeTypes[cm.ChargeType] {
		return httperr.Validation("invalid charge type: %s", cm.ChargeType)
	}
	if cm.Amount < 0 {
		return httperr.Validation("amount cannot be negative")
	}
	if cm.Currency == "" {
		cm.Currency = existing.Currency
	}
	if cm.GSTType == "" {
		cm.GSTType = existing.GSTType
	}
	if !validGSTRates[cm.GSTRate] {
		return httperr.Validation("invalid gst rate: %d", cm.GSTRate)
	}
	if !validGSTTypes[cm.GSTType] {
		return httperr.Validation("invalid gst type: %s", cm.GSTType)
	}
	if cm.EffectiveFrom.IsZero() {
		cm.EffectiveFrom = existing.EffectiveFrom
	}
	if cm.Code != existing.Code || !uuidPtrEqual(cm.DoctorID, existing.DoctorID) {
		if _, err := s.masters.GetByCodeAndDoctor(ctx, cm.Code, cm.DoctorID); err == nil {
			return httperr.Conflict("charge master %s already exists for this doctor", cm.Code)
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
	}
	cm.IsActive = existing.IsActive
	return s.masters.Update(ctx, cm)
}

func (s *Service) DeleteChargeMaster(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetChargeMaster(ctx, id); err != nil {
		return err
	}
	return s.masters.SoftDelete(ctx, id)
}

func (s *Service) ListChargeMasters(ctx context.Context, search, chargeType, orderBy string, limit, offset int) ([]*ChargeMaster, int, error) {
	return s.masters.List(ctx, search, chargeType, orderBy, limit, offset)
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// -- Charge --

// recompute derives balance and payment status from amount and paidAmount.
func recompute(ch *Charge) error {
	if ch.PaidAmount > ch.Amount {
		return httperr.Validation("paid amount cannot exceed total amount")
	}
	ch.BalanceAmount = ch.Amount - ch.PaidAmount
	switch {
	case ch.BalanceAmount == 0:
		ch.PaymentStatus = StatusPaid
	case ch.PaidAmount > 0:
		ch.PaymentStatus = StatusPartial
	default:
		ch.PaymentStatus = StatusUnpaid
	}
	return nil
}

// CreatePatientCharge books the visit fee for a newly registered patient.
// The master code is derived from the case type and whether the patient is a
// returning one. It is meant to run inside the patient-create transaction so
// a failed lookup rolls the registration back.
func (s *Service) CreatePatientCharge(ctx context.Context, patientID uuid.UUID, caseType, caseLabel string, doctorID *uuid.UUID) (*Charge, error) {
	var code string
	switch caseType {
	case CaseOPD:
		if doctorID == nil {
			return nil, httperr.Validation("doctor is required for OPD")
		}
		code = "OPD_NEW"
		if caseLabel == "old" {
			code = "OPD_OLD"
		}
	case CaseIPD:
		if doctorID == nil {
			return nil, httperr.Validation("doctor is required for IPD")
		}
		code = "IPD_NEW"
		if caseLabel == "old" {
			code = "IPD_OLD"
		}
	case CaseEmergency:
		doctorID = nil
		code = "EMERGENCY"
	default:
		return nil, nil
	}

	cm, err := s.masters.GetByCodeAndDoctor(ctx, code, doctorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, httperr.Referential("charge master not configured for code %s", code)
		}
		return nil, err
	}

	ch := &Charge{
		PatientID:      patientID,
		DoctorID:       doctorID,
		ChargeMasterID: cm.ID,
		CaseType:       caseType,
		Amount:         cm.Amount,
		PaidAmount:     0,
		BalanceAmount:  cm.Amount,
		PaymentStatus:  StatusUnpaid,
	}
	if cm.Amount == 0 {
		ch.PaymentStatus = StatusPaid
	}
	if err := s.charges.Create(ctx, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

func (s *Service) GetCharge(ctx context.Context, id uuid.UUID) (*Charge, error) {
	ch, err := s.charges.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httperr.NotFound("charge not found")
	}
	return ch, err
}

// ApplyPayment records a payment against a charge. A settled charge takes no
// further payments.
func (s *Service) ApplyPayment(ctx context.Context, chargeID uuid.UUID, amount float64) (*Charge, error) {
	if amount <= 0 {
		return nil, httperr.Validation("payment amount must be positive")
	}
	ch, err := s.GetCharge(ctx, chargeID)
	if err != nil {
		return nil, err
	}
	if ch.PaymentStatus == StatusPaid {
		return nil, httperr.Conflict("charge is already fully paid")
	}
	ch.PaidAmount += amount
	if err := recompute(ch); err != nil {
		return nil, err
	}
	if err := s.charges.Update(ctx, ch); err != nil {
		return nil, err
	}
	return ch, nil
}

func (s *Service) ListCharges(ctx context.Context, patientID uuid.UUID, paymentStatus, orderBy string, limit, offset int) ([]*Charge, int, error) {
	return s.charges.List(ctx, patientID, paymentStatus, orderBy, limit, offset)
}

// -- ServiceItem --

func (s *Service) CreateServiceItem(ctx context.Context, si *ServiceItem) error {
	si.ServiceName = strings.TrimSpace(si.ServiceName)
	si.Department = strings.TrimSpace(si.Department)
	if si.ServiceName == "" {
		return httperr.Validation("serviceName is required")
	}
	if si.Department == "" {
		return httperr.Validation("department is required")
	}
	if si.Price < 0 {
		return httperr.Validation("price cannot be negative")
	}
	// Service names are a master list; duplicates differ only in spelling
	// and confuse charge entry.
	if _, err := s.items.GetByName(ctx, si.ServiceName); err == nil {
		return httperr.Conflict("service name already exists")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	si.IsActive = true
	return s.items.Create(ctx, si)
}

func (s *Service) GetServiceItem(ctx context.Context, id uuid.UUID) (*ServiceItem, error) {
	si, err := s.items.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httperr.NotFound("service not found")
	}
	return si, err
}

func (s *Service) UpdateServiceItem(ctx context.Context, si *ServiceItem) error {
	existing, err := s.GetServiceItem(ctx, si.ID)
	if err != nil {
		return err
	}
	if si.ServiceName == "" {
		si.ServiceName = existing.ServiceName
	}
	if si.Department == "" {
		si.Department = existing.Department
	}
	if si.Description == nil {
		si.Description = existing.Description
	}
	if si.Price < 0 {
		return httperr.Validation("price cannot be negative")
	}
	if other, err := s.items.GetByName(ctx, si.ServiceName); err == nil && other.ID != si.ID {
		return httperr.Conflict("service name already exists")
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	si.IsActive = existing.IsActive
	return s.items.Update(ctx, si)
}

func (s *Service) DeleteServiceItem(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetServiceItem(ctx, id); err != nil {
		return err
	}
	return s.items.SoftDelete(ctx, id)
}

func (s *Service) ListServiceItems(ctx context.Context, search, department, orderBy string, limit, offset int) ([]*ServiceItem, int, error) {
	return s.items.List(ctx, search, department, orderBy, limit, offset)
}
