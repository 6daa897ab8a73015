package patient

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hms/hms/internal/domain/billing"
	"github.com/hms/hms/internal/platform/httperr"
)

type mockPatientRepo struct {
	patients map[uuid.UUID]*Patient
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockPatientRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (m *mockPatientRepo) Update(_ context.Context, p *Patient) error {
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if p, ok := m.patients[id]; ok {
		p.IsActive = false
	}
	return nil
}

func (m *mockPatientRepo) List(_ context.Context, search, caseType, _ string, limit, offset int) ([]*Patient, int, error) {
	var result []*Patient
	for _, p := range m.patients {
		if !p.IsActive {
			continue
		}
		if caseType != "" && p.CaseType != caseType {
			continue
		}
		result = append(result, p)
	}
	return result, len(result), nil
}

// mockChargeCreator books charges for configured codes and fails like the
// billing service when no master exists.
type mockChargeCreator struct {
	prices  map[string]float64
	charges []*billing.Charge
}

func newMockChargeCreator(codes ...string) *mockChargeCreator {
	prices := make(map[string]float64)
	for _, c := range codes {
		prices[c] = 500
	}
	return &mockChargeCreator{prices: prices}
}

func (m *mockChargeCreator) CreatePatientCharge(_ context.Context, patientID uuid.UUID, caseType, caseLabel string, doctorID *uuid.UUID) (*billing.Charge, error) {
	var code string
	switch caseType {
	case CaseOPD:
		code = "OPD_NEW"
		if caseLabel == "old" {
			code = "OPD_OLD"
		}
	case CaseIPD:
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
	price, ok := m.prices[code]
	if !ok {
		return nil, httperr.Referential("charge master not configured for code %s", code)
	}
	ch := &billing.Charge{
		ID:            uuid.New(),
		PatientID:     patientID,
		DoctorID:      doctorID,
		CaseType:      caseType,
		Amount:        price,
		BalanceAmount: price,
		PaymentStatus: billing.StatusUnpaid,
	}
	m.charges = append(m.charges, ch)
	return ch, nil
}

// snapshotTx restores the repo map when fn fails, mimicking a rollback.
type snapshotTx struct {
	repo *mockPatientRepo
}

func (t snapshotTx) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := make(map[uuid.UUID]*Patient, len(t.repo.patients))
	for k, v := range t.repo.patients {
		snapshot[k] = v
	}
	if err := fn(ctx); err != nil {
		t.repo.patients = snapshot
		return err
	}
	return nil
}

func newTestService(codes ...string) (*Service, *mockPatientRepo, *mockChargeCreator) {
	repo := newMockPatientRepo()
	charges := newMockChargeCreator(codes...)
	return NewService(repo, charges, snapshotTx{repo: repo}), repo, charges
}

func opdPatient(doctorID uuid.UUID) *Patient {
	return &Patient{
		FirstName: "Asha",
		LastName:  "Verma",
		Gender:    "female",
		Age:       34,
		Phone:     "9876543210",
		CaseType:  CaseOPD,
		Case:      "new",
		OPD:       &OPDDetails{DoctorID: &doctorID, VisitReason: "fever"},
		CreatedBy: uuid.New(),
	}
}

func TestCreatePatient_BooksCharge(t *testing.T) {
	svc, repo, charges := newTestService("OPD_NEW")
	docID := uuid.New()

	p := opdPatient(docID)
	if err := svc.CreatePatient(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.patients) != 1 {
		t.Fatalf("expected 1 patient, got %d", len(repo.patients))
	}
	if len(charges.charges) != 1 {
		t.Fatalf("expected 1 charge, got %d", len(charges.charges))
	}
	ch := charges.charges[0]
	if ch.PatientID != p.ID {
		t.Error("charge not linked to patient")
	}
	if ch.DoctorID == nil || *ch.DoctorID != docID {
		t.Error("charge not linked to case doctor")
	}
}

func TestCreatePatient_MissingMasterRollsBack(t *testing.T) {
	svc, repo, _ := newTestService()
	p := opdPatient(uuid.New())

	err := svc.CreatePatient(context.Background(), p)
	if httperr.Status(err) != 422 {
		t.Fatalf("expected referential error, got %v", err)
	}
	if len(repo.patients) != 0 {
		t.Errorf("expected rollback to leave no patient, got %d", len(repo.patients))
	}
}

func TestCreatePatient_Validation(t *testing.T) {
	svc, repo, _ := newTestService("OPD_NEW")
	docID := uuid.New()

	cases := []struct {
		name   string
		mutate func(p *Patient)
	}{
		{"missing firstName", func(p *Patient) { p.FirstName = "" }},
		{"bad gender", func(p *Patient) { p.Gender = "unknown" }},
		{"missing age", func(p *Patient) { p.Age = 0 }},
		{"missing phone", func(p *Patient) { p.Phone = "" }},
		{"bad caseType", func(p *Patient) { p.CaseType = "walk-in" }},
		{"bad case label", func(p *Patient) { p.Case = "returning" }},
		{"opd without doctor", func(p *Patient) { p.OPD = nil }},
		{"bad emergency level", func(p *Patient) { p.Emergency = &EmergencyDetails{Level: "critical"} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := opdPatient(docID)
			tc.mutate(p)
			if httperr.Status(svc.CreatePatient(context.Background(), p)) != 400 {
				t.Error("expected validation error")
			}
		})
	}
	if len(repo.patients) != 0 {
		t.Errorf("rejected patients must not persist, got %d", len(repo.patients))
	}
}

func TestCreatePatient_EmergencyDefaults(t *testing.T) {
	svc, _, charges := newTestService("EMERGENCY")
	p := &Patient{
		FirstName: "Unknown",
		Gender:    "male",
		Age:       40,
		Phone:     "112",
		CaseType:  CaseEmergency,
		Emergency: &EmergencyDetails{BroughtBy: "ambulance"},
		CreatedBy: uuid.New(),
	}
	if err := svc.CreatePatient(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Case != "new" {
		t.Errorf("expected case to default to new, got %s", p.Case)
	}
	if p.Emergency.Level != "low" {
		t.Errorf("expected emergency level to default to low, got %s", p.Emergency.Level)
	}
	if charges.charges[0].DoctorID != nil {
		t.Error("emergency charge should not carry a doctor")
	}
}

func TestUpdatePatient_PartialMerge(t *testing.T) {
	svc, _, _ := newTestService("OPD_NEW")
	docID := uuid.New()
	p := opdPatient(docID)
	if err := svc.CreatePatient(context.Background(), p); err != nil {
		t.Fatalf("create: %v", err)
	}

	bp := "120/80"
	upd := &Patient{
		ID:     p.ID,
		Vitals: &Vitals{BloodPressure: bp},
	}
	if err := svc.UpdatePatient(context.Background(), upd); err != nil {
		t.Fatalf("update: %v", err)
	}
	if upd.FirstName != "Asha" || upd.Phone != "9876543210" {
		t.Errorf("expected untouched fields preserved, got %+v", upd)
	}
	if upd.OPD == nil || upd.OPD.DoctorID == nil || *upd.OPD.DoctorID != docID {
		t.Error("expected opd details preserved")
	}
	if upd.CreatedBy != p.CreatedBy {
		t.Error("createdBy must not change on update")
	}
	if upd.Vitals.BloodPressure != bp {
		t.Error("expected vitals updated")
	}
}

func TestDeletePatient_SoftButReadable(t *testing.T) {
	svc, _, _ := newTestService("OPD_NEW")
	p := opdPatient(uuid.New())
	if err := svc.CreatePatient(context.Background(), p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeletePatient(context.Background(), p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, total, _ := svc.ListPatients(context.Background(), "", "", "created_at DESC", 10, 0)
	if total != 0 {
		t.Errorf("expected 0 active patients, got %d", total)
	}

	// Historical records stay reachable by id.
	got, err := svc.GetPatient(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got.IsActive {
		t.Error("expected patient marked inactive")
	}
}

func TestGetPatient_NotFound(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.GetPatient(context.Background(), uuid.New())
	if httperr.Status(err) != 404 {
		t.Errorf("expected 404, got %v", err)
	}
}
