package billing

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hms/hms/internal/platform/httperr"
)

type mockChargeMasterRepo struct {
	masters map[uuid.UUID]*ChargeMaster
}

func newMockChargeMasterRepo() *mockChargeMasterRepo {
	return &mockChargeMasterRepo{masters: make(map[uuid.UUID]*ChargeMaster)}
}

func (m *mockChargeMasterRepo) Create(_ context.Context, cm *ChargeMaster) error {
	cm.ID = uuid.New()
	cm.CreatedAt = time.Now()
	cm.UpdatedAt = time.Now()
	m.masters[cm.ID] = cm
	return nil
}

func (m *mockChargeMasterRepo) GetByID(_ context.Context, id uuid.UUID) (*ChargeMaster, error) {
	cm, ok := m.masters[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return cm, nil
}

func (m *mockChargeMasterRepo) GetByCodeAndDoctor(_ context.Context, code string, doctorID *uuid.UUID) (*ChargeMaster, error) {
	for _, cm := range m.masters {
		if !cm.IsActive || cm.Code != code {
			continue
		}
		if uuidPtrEqual(cm.DoctorID, doctorID) {
			return cm, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockChargeMasterRepo) Update(_ context.Context, cm *ChargeMaster) error {
	m.masters[cm.ID] = cm
	return nil
}

func (m *mockChargeMasterRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if cm, ok := m.masters[id]; ok {
		cm.IsActive = false
	}
	return nil
}

func (m *mockChargeMasterRepo) List(_ context.Context, search, chargeType, _ string, limit, offset int) ([]*ChargeMaster, int, error) {
	var result []*ChargeMaster
	for _, cm := range m.masters {
		if !cm.IsActive {
			continue
		}
		if chargeType != "" && cm.ChargeType != chargeType {
			continue
		}
		result = append(result, cm)
	}
	return result, len(result), nil
}

type mockChargeRepo struct {
	charges map[uuid.UUID]*Charge
}

func newMockChargeRepo() *mockChargeRepo {
	return &mockChargeRepo{charges: make(map[uuid.UUID]*Charge)}
}

func (m *mockChargeRepo) Create(_ context.Context, ch *Charge) error {
	ch.ID = uuid.New()
	ch.CreatedAt = time.Now()
	ch.UpdatedAt = time.Now()
	m.charges[ch.ID] = ch
	return nil
}

func (m *mockChargeRepo) GetByID(_ context.Context, id uuid.UUID) (*Charge, error) {
	ch, ok := m.charges[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *ch
	return &cp, nil
}

func (m *mockChargeRepo) Update(_ context.Context, ch *Charge) error {
	m.charges[ch.ID] = ch
	return nil
}

func (m *mockChargeRepo) List(_ context.Context, patientID uuid.UUID, paymentStatus, _ string, limit, offset int) ([]*Charge, int, error) {
	var result []*Charge
	for _, ch := range m.charges {
		if patientID != uuid.Nil && ch.PatientID != patientID {
			continue
		}
		if paymentStatus != "" && ch.PaymentStatus != paymentStatus {
			continue
		}
		result = append(result, ch)
	}
	return result, len(result), nil
}

type mockServiceItemRepo struct {
	items map[uuid.UUID]*ServiceItem
}

func newMockServiceItemRepo() *mockServiceItemRepo {
	return &mockServiceItemRepo{items: make(map[uuid.UUID]*ServiceItem)}
}

func (m *mockServiceItemRepo) Create(_ context.Context, si *ServiceItem) error {
	si.ID = uuid.New()
	si.CreatedAt = time.Now()
	si.UpdatedAt = time.Now()
	m.items[si.ID] = si
	return nil
}

func (m *mockServiceItemRepo) GetByID(_ context.Context, id uuid.UUID) (*ServiceItem, error) {
	si, ok := m.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return si, nil
}

func (m *mockServiceItemRepo) GetByName(_ context.Context, name string) (*ServiceItem, error) {
	for _, si := range m.items {
		if strings.EqualFold(si.ServiceName, name) {
			return si, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockServiceItemRepo) Update(_ context.Context, si *ServiceItem) error {
	m.items[si.ID] = si
	return nil
}

func (m *mockServiceItemRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if si, ok := m.items[id]; ok {
		si.IsActive = false
	}
	return nil
}

func (m *mockServiceItemRepo) List(_ context.Context, search, department, _ string, limit, offset int) ([]*ServiceItem, int, error) {
	var result []*ServiceItem
	for _, si := range m.items {
		if !si.IsActive {
			continue
		}
		if department != "" && si.Department != department {
			continue
		}
		result = append(result, si)
	}
	return result, len(result), nil
}

func newTestService() *Service {
	return NewService(newMockChargeMasterRepo(), newMockChargeRepo(), newMockServiceItemRepo())
}

func mustCreateMaster(t *testing.T, svc *Service, code, chargeType string, amount float64, doctorID *uuid.UUID) *ChargeMaster {
	t.Helper()
	cm := &ChargeMaster{Name: code, Code: code, ChargeType: chargeType, Amount: amount, DoctorID: doctorID}
	if err := svc.CreateChargeMaster(context.Background(), cm); err != nil {
		t.Fatalf("create master %s: %v", code, err)
	}
	return cm
}

func TestCreateChargeMaster_Defaults(t *testing.T) {
	svc := newTestService()
	cm := &ChargeMaster{Name: "OPD consultation", Code: "opd_new", ChargeType: "OPD", Amount: 500}
	if err := svc.CreateChargeMaster(context.Background(), cm); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cm.Code != "OPD_NEW" {
		t.Errorf("expected uppercased code, got %s", cm.Code)
	}
	if cm.Currency != "INR" {
		t.Errorf("expected default currency INR, got %s", cm.Currency)
	}
	if cm.GSTType != "CGST_SGST" {
		t.Errorf("expected default gst type, got %s", cm.GSTType)
	}
	if cm.EffectiveFrom.IsZero() {
		t.Error("expected effectiveFrom to default")
	}
}

func TestCreateChargeMaster_Invalid(t *testing.T) {
	svc := newTestService()
	cases := []struct {
		name string
		cm   ChargeMaster
	}{
		{"bad charge type", ChargeMaster{Name: "X", Code: "X", ChargeType: "FOO", Amount: 1}},
		{"negative amount", ChargeMaster{Name: "X", Code: "X", ChargeType: "OPD", Amount: -1}},
		{"bad gst rate", ChargeMaster{Name: "X", Code: "X", ChargeType: "OPD", Amount: 1, GSTRate: 7}},
		{"bad gst type", ChargeMaster{Name: "X", Code: "X", ChargeType: "OPD", Amount: 1, GSTType: "VAT"}},
		{"missing name", ChargeMaster{Code: "X", ChargeType: "OPD", Amount: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cm := tc.cm
			if httperr.Status(svc.CreateChargeMaster(context.Background(), &cm)) != 400 {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestCreateChargeMaster_DuplicateCodeDoctorPair(t *testing.T) {
	svc := newTestService()
	docID := uuid.New()
	mustCreateMaster(t, svc, "OPD_NEW", "OPD", 500, nil)

	err := svc.CreateChargeMaster(context.Background(),
		&ChargeMaster{Name: "dup", Code: "OPD_NEW", ChargeType: "OPD", Amount: 600})
	if httperr.Status(err) != 409 {
		t.Errorf("expected conflict for duplicate generic code, got %v", err)
	}

	// Same code but doctor-specific price is allowed.
	err = svc.CreateChargeMaster(context.Background(),
		&ChargeMaster{Name: "doctor price", Code: "OPD_NEW", ChargeType: "OPD", Amount: 800, DoctorID: &docID})
	if err != nil {
		t.Errorf("expected doctor-specific master to be allowed, got %v", err)
	}
}

func TestCreatePatientCharge_CodeSelection(t *testing.T) {
	svc := newTestService()
	docID := uuid.New()
	mustCreateMaster(t, svc, "OPD_NEW", "OPD", 500, &docID)
	mustCreateMaster(t, svc, "OPD_OLD", "OPD", 300, &docID)
	mustCreateMaster(t, svc, "EMERGENCY", "EMERGENCY", 1000, nil)

	patientID := uuid.New()

	ch, err := svc.CreatePatientCharge(context.Background(), patientID, CaseOPD, "new", &docID)
	if err != nil {
		t.Fatalf("opd new: %v", err)
	}
	if ch.Amount != 500 {
		t.Errorf("expected new visit price 500, got %v", ch.Amount)
	}

	ch, err = svc.CreatePatientCharge(context.Background(), patientID, CaseOPD, "old", &docID)
	if err != nil {
		t.Fatalf("opd old: %v", err)
	}
	if ch.Amount != 300 {
		t.Errorf("expected returning visit price 300, got %v", ch.Amount)
	}

	ch, err = svc.CreatePatientCharge(context.Background(), patientID, CaseEmergency, "new", &docID)
	if err != nil {
		t.Fatalf("emergency: %v", err)
	}
	if ch.DoctorID != nil {
		t.Error("emergency charge should not carry a doctor")
	}
	if ch.Amount != 1000 {
		t.Errorf("expected emergency price 1000, got %v", ch.Amount)
	}
}

func TestCreatePatientCharge_RequiresDoctor(t *testing.T) {
	svc := newTestService()
	_, err := svc.CreatePatientCharge(context.Background(), uuid.New(), CaseOPD, "new", nil)
	if httperr.Status(err) != 400 {
		t.Errorf("expected validation error without doctor, got %v", err)
	}
	_, err = svc.CreatePatientCharge(context.Background(), uuid.New(), CaseIPD, "new", nil)
	if httperr.Status(err) != 400 {
		t.Errorf("expected validation error without doctor, got %v", err)
	}
}

func TestCreatePatientCharge_MissingMaster(t *testing.T) {
	svc := newTestService()
	docID := uuid.New()
	_, err := svc.CreatePatientCharge(context.Background(), uuid.New(), CaseOPD, "new", &docID)
	if httperr.Status(err) != 422 {
		t.Errorf("expected referential error for missing master, got %v", err)
	}
}

func TestCreatePatientCharge_AppointmentSkipped(t *testing.T) {
	svc := newTestService()
	ch, err := svc.CreatePatientCharge(context.Background(), uuid.New(), CaseAppointment, "new", nil)
	if err != nil || ch != nil {
		t.Errorf("expected no charge for appointment case, got %v %v", ch, err)
	}
}

func TestApplyPayment_Lifecycle(t *testing.T) {
	svc := newTestService()
	docID := uuid.New()
	mustCreateMaster(t, svc, "OPD_NEW", "OPD", 500, &docID)
	ch, err := svc.CreatePatientCharge(context.Background(), uuid.New(), CaseOPD, "new", &docID)
	if err != nil {
		t.Fatalf("create charge: %v", err)
	}
	if ch.PaymentStatus != StatusUnpaid {
		t.Fatalf("expected unpaid, got %s", ch.PaymentStatus)
	}

	ch, err = svc.ApplyPayment(context.Background(), ch.ID, 200)
	if err != nil {
		t.Fatalf("partial payment: %v", err)
	}
	if ch.PaymentStatus != StatusPartial || ch.BalanceAmount != 300 {
		t.Errorf("expected partial/300, got %s/%v", ch.PaymentStatus, ch.BalanceAmount)
	}

	ch, err = svc.ApplyPayment(context.Background(), ch.ID, 300)
	if err != nil {
		t.Fatalf("final payment: %v", err)
	}
	if ch.PaymentStatus != StatusPaid || ch.BalanceAmount != 0 {
		t.Errorf("expected paid/0, got %s/%v", ch.PaymentStatus, ch.BalanceAmount)
	}

	_, err = svc.ApplyPayment(context.Background(), ch.ID, 1)
	if httperr.Status(err) != 409 {
		t.Errorf("expected conflict on settled charge, got %v", err)
	}
}

func TestApplyPayment_Overpay(t *testing.T) {
	svc := newTestService()
	docID := uuid.New()
	mustCreateMaster(t, svc, "OPD_NEW", "OPD", 500, &docID)
	ch, _ := svc.CreatePatientCharge(context.Background(), uuid.New(), CaseOPD, "new", &docID)

	_, err := svc.ApplyPayment(context.Background(), ch.ID, 600)
	if httperr.Status(err) != 400 {
		t.Errorf("expected validation error on overpayment, got %v", err)
	}

	got, _ := svc.GetCharge(context.Background(), ch.ID)
	if got.PaidAmount != 0 {
		t.Errorf("rejected payment must not be recorded, paidAmount = %v", got.PaidAmount)
	}
}

func TestApplyPayment_NonPositive(t *testing.T) {
	svc := newTestService()
	_, err := svc.ApplyPayment(context.Background(), uuid.New(), 0)
	if httperr.Status(err) != 400 {
		t.Errorf("expected validation error for zero payment, got %v", err)
	}
}

func TestServiceItem_CRUD(t *testing.T) {
	svc := newTestService()
	si := &ServiceItem{ServiceName: "X-Ray Chest", Price: 250, Department: "Radiology"}
	if err := svc.CreateServiceItem(context.Background(), si); err != nil {
		t.Fatalf("create: %v", err)
	}

	err := svc.CreateServiceItem(context.Background(), &ServiceItem{ServiceName: "Bad", Price: -1, Department: "X"})
	if httperr.Status(err) != 400 {
		t.Errorf("expected validation error for negative price, got %v", err)
	}

	upd := &ServiceItem{ID: si.ID, Price: 300}
	if err := svc.UpdateServiceItem(context.Background(), upd); err != nil {
		t.Fatalf("update: %v", err)
	}
	if upd.ServiceName != "X-Ray Chest" || upd.Department != "Radiology" {
		t.Errorf("expected untouched fields preserved, got %+v", upd)
	}

	if err := svc.DeleteServiceItem(context.Background(), si.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, total, _ := svc.ListServiceItems(context.Background(), "", "", "created_at DESC", 10, 0)
	if total != 0 {
		t.Errorf("expected 0 active services, got %d", total)
	}
}

func TestCreateServiceItem_DuplicateName(t *testing.T) {
	svc := newTestService()
	svc.CreateServiceItem(context.Background(), &ServiceItem{ServiceName: "X-Ray Chest", Price: 250, Department: "Radiology"})

	err := svc.CreateServiceItem(context.Background(), &ServiceItem{ServiceName: "x-ray chest", Price: 300, Department: "Radiology"})
	if httperr.Status(err) != 409 {
		t.Errorf("expected conflict for duplicate service name, got %v", err)
	}
}

func TestUpdateServiceItem_RenameOntoExisting(t *testing.T) {
	svc := newTestService()
	a := &ServiceItem{ServiceName: "X-Ray Chest", Price: 250, Department: "Radiology"}
	b := &ServiceItem{ServiceName: "MRI Brain", Price: 4000, Department: "Radiology"}
	svc.CreateServiceItem(context.Background(), a)
	svc.CreateServiceItem(context.Background(), b)

	err := svc.UpdateServiceItem(context.Background(), &ServiceItem{ID: b.ID, ServiceName: "X-Ray Chest"})
	if httperr.Status(err) != 409 {
		t.Errorf("expected conflict, got %v", err)
	}

	// Re-saving under its own name is not a duplicate.
	if err := svc.UpdateServiceItem(context.Background(), &ServiceItem{ID: b.ID, Price: 4500}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
