package staff

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hms/hms/internal/domain/identity"
	"github.com/hms/hms/internal/platform/httperr"
)

// -- Mock Repositories --

type mockDoctorRepo struct {
	doctors map[uuid.UUID]*Doctor
}

func newMockDoctorRepo() *mockDoctorRepo {
	return &mockDoctorRepo{doctors: make(map[uuid.UUID]*Doctor)}
}

func (m *mockDoctorRepo) Create(_ context.Context, d *Doctor) error {
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	d.UpdatedAt = time.Now()
	m.doctors[d.ID] = d
	return nil
}

func (m *mockDoctorRepo) GetByID(_ context.Context, id uuid.UUID) (*Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return d, nil
}

func (m *mockDoctorRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*Doctor, error) {
	for _, d := range m.doctors {
		if d.UserID == userID {
			return d, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockDoctorRepo) Update(_ context.Context, d *Doctor) error {
	m.doctors[d.ID] = d
	return nil
}

func (m *mockDoctorRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if d, ok := m.doctors[id]; ok {
		d.Status = StatusInactive
	}
	return nil
}

func (m *mockDoctorRepo) List(_ context.Context, _, _ string, limit, offset int) ([]*Doctor, int, error) {
	var result []*Doctor
	for _, d := range m.doctors {
		if d.Status == StatusActive {
			result = append(result, d)
		}
	}
	return result, len(result), nil
}

type mockLabTechRepo struct {
	techs map[uuid.UUID]*LabTechnician
}

func newMockLabTechRepo() *mockLabTechRepo {
	return &mockLabTechRepo{techs: make(map[uuid.UUID]*LabTechnician)}
}

func (m *mockLabTechRepo) Create(_ context.Context, lt *LabTechnician) error {
	lt.ID = uuid.New()
	m.techs[lt.ID] = lt
	return nil
}

func (m *mockLabTechRepo) GetByID(_ context.Context, id uuid.UUID) (*LabTechnician, error) {
	lt, ok := m.techs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return lt, nil
}

func (m *mockLabTechRepo) Update(_ context.Context, lt *LabTechnician) error {
	m.techs[lt.ID] = lt
	return nil
}

func (m *mockLabTechRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if lt, ok := m.techs[id]; ok {
		lt.IsActive = false
	}
	return nil
}

func (m *mockLabTechRepo) List(_ context.Context, _, _ string, limit, offset int) ([]*LabTechnician, int, error) {
	var result []*LabTechnician
	for _, lt := range m.techs {
		if lt.IsActive {
			result = append(result, lt)
		}
	}
	return result, len(result), nil
}

type mockRecipientRepo struct {
	recipients map[uuid.UUID]*Recipient
}

func newMockRecipientRepo() *mockRecipientRepo {
	return &mockRecipientRepo{recipients: make(map[uuid.UUID]*Recipient)}
}

func (m *mockRecipientRepo) Create(_ context.Context, rec *Recipient) error {
	rec.ID = uuid.New()
	m.recipients[rec.ID] = rec
	return nil
}

func (m *mockRecipientRepo) GetByID(_ context.Context, id uuid.UUID) (*Recipient, error) {
	rec, ok := m.recipients[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return rec, nil
}

func (m *mockRecipientRepo) Update(_ context.Context, rec *Recipient) error {
	m.recipients[rec.ID] = rec
	return nil
}

func (m *mockRecipientRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if rec, ok := m.recipients[id]; ok {
		rec.IsActive = false
	}
	return nil
}

func (m *mockRecipientRepo) List(_ context.Context, _, _ string, limit, offset int) ([]*Recipient, int, error) {
	var result []*Recipient
	for _, rec := range m.recipients {
		if rec.IsActive {
			result = append(result, rec)
		}
	}
	return result, len(result), nil
}

type mockSpecializationRepo struct {
	items map[uuid.UUID]*Specialization
}

func newMockSpecializationRepo() *mockSpecializationRepo {
	return &mockSpecializationRepo{items: make(map[uuid.UUID]*Specialization)}
}

func (m *mockSpecializationRepo) Create(_ context.Context, sp *Specialization) error {
	sp.ID = uuid.New()
	m.items[sp.ID] = sp
	return nil
}

func (m *mockSpecializationRepo) GetByID(_ context.Context, id uuid.UUID) (*Specialization, error) {
	sp, ok := m.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return sp, nil
}

func (m *mockSpecializationRepo) GetByName(_ context.Context, name string) (*Specialization, error) {
	for _, sp := range m.items {
		if strings.EqualFold(sp.Name, name) {
			return sp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockSpecializationRepo) Update(_ context.Context, sp *Specialization) error {
	m.items[sp.ID] = sp
	return nil
}

func (m *mockSpecializationRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if sp, ok := m.items[id]; ok {
		sp.IsActive = false
	}
	return nil
}

func (m *mockSpecializationRepo) List(_ context.Context, _, _ string, limit, offset int) ([]*Specialization, int, error) {
	var result []*Specialization
	for _, sp := range m.items {
		if sp.IsActive {
			result = append(result, sp)
		}
	}
	return result, len(result), nil
}

type mockDegreeRepo struct {
	items map[uuid.UUID]*Degree
}

func newMockDegreeRepo() *mockDegreeRepo {
	return &mockDegreeRepo{items: make(map[uuid.UUID]*Degree)}
}

func (m *mockDegreeRepo) Create(_ context.Context, dg *Degree) error {
	dg.ID = uuid.New()
	m.items[dg.ID] = dg
	return nil
}

func (m *mockDegreeRepo) GetByID(_ context.Context, id uuid.UUID) (*Degree, error) {
	dg, ok := m.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return dg, nil
}

func (m *mockDegreeRepo) GetByName(_ context.Context, name string) (*Degree, error) {
	for _, dg := range m.items {
		if strings.EqualFold(dg.Name, name) {
			return dg, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockDegreeRepo) Update(_ context.Context, dg *Degree) error {
	m.items[dg.ID] = dg
	return nil
}

func (m *mockDegreeRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if dg, ok := m.items[id]; ok {
		dg.IsActive = false
	}
	return nil
}

func (m *mockDegreeRepo) List(_ context.Context, _, _ string, limit, offset int) ([]*Degree, int, error) {
	var result []*Degree
	for _, dg := range m.items {
		if dg.IsActive {
			result = append(result, dg)
		}
	}
	return result, len(result), nil
}

type mockDepartmentRepo struct {
	items map[uuid.UUID]*Department
}

func newMockDepartmentRepo() *mockDepartmentRepo {
	return &mockDepartmentRepo{items: make(map[uuid.UUID]*Department)}
}

func (m *mockDepartmentRepo) Create(_ context.Context, dep *Department) error {
	dep.ID = uuid.New()
	m.items[dep.ID] = dep
	return nil
}

func (m *mockDepartmentRepo) GetByID(_ context.Context, id uuid.UUID) (*Department, error) {
	dep, ok := m.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return dep, nil
}

func (m *mockDepartmentRepo) GetByName(_ context.Context, name string) (*Department, error) {
	for _, dep := range m.items {
		if strings.EqualFold(dep.Name, name) {
			return dep, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockDepartmentRepo) Update(_ context.Context, dep *Department) error {
	m.items[dep.ID] = dep
	return nil
}

func (m *mockDepartmentRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if dep, ok := m.items[id]; ok {
		dep.IsActive = false
	}
	return nil
}

func (m *mockDepartmentRepo) List(_ context.Context, _, _ string, limit, offset int) ([]*Department, int, error) {
	var result []*Department
	for _, dep := range m.items {
		if dep.IsActive {
			result = append(result, dep)
		}
	}
	return result, len(result), nil
}

type mockUserDirectory struct {
	users map[uuid.UUID]*identity.User
}

func (m *mockUserDirectory) GetUser(_ context.Context, id uuid.UUID) (*identity.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, httperr.NotFound("user not found")
	}
	return u, nil
}

func (m *mockUserDirectory) addUser(role string) uuid.UUID {
	id := uuid.New()
	m.users[id] = &identity.User{ID: id, Role: role, IsActive: true}
	return id
}

// -- Tests --

func newTestService() (*Service, *mockUserDirectory) {
	dir := &mockUserDirectory{users: make(map[uuid.UUID]*identity.User)}
	svc := NewService(newMockDoctorRepo(), newMockLabTechRepo(), newMockRecipientRepo(),
		newMockSpecializationRepo(), newMockDegreeRepo(), newMockDepartmentRepo(), dir)
	return svc, dir
}

func TestCreateDoctor(t *testing.T) {
	svc, dir := newTestService()
	userID := dir.addUser(identity.RoleDoctor)
	d := &Doctor{UserID: userID, Specialization: "Cardiology"}
	if err := svc.CreateDoctor(context.Background(), d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Status != StatusActive {
		t.Errorf("expected default status active, got %s", d.Status)
	}
}

func TestCreateDoctor_SpecializationRequired(t *testing.T) {
	svc, dir := newTestService()
	userID := dir.addUser(identity.RoleDoctor)
	err := svc.CreateDoctor(context.Background(), &Doctor{UserID: userID})
	if err == nil {
		t.Error("expected error for missing specialization")
	}
}

func TestCreateDoctor_UserMissing(t *testing.T) {
	svc, _ := newTestService()
	err := svc.CreateDoctor(context.Background(), &Doctor{UserID: uuid.New(), Specialization: "ENT"})
	if httperr.Status(err) != 422 {
		t.Errorf("expected referential error, got %v", err)
	}
}

func TestCreateDoctor_WrongRole(t *testing.T) {
	svc, dir := newTestService()
	userID := dir.addUser(identity.RoleRecipient)
	err := svc.CreateDoctor(context.Background(), &Doctor{UserID: userID, Specialization: "ENT"})
	if httperr.Status(err) != 422 {
		t.Errorf("expected referential error, got %v", err)
	}
}

func TestCreateDoctor_DuplicateProfile(t *testing.T) {
	svc, dir := newTestService()
	userID := dir.addUser(identity.RoleDoctor)
	svc.CreateDoctor(context.Background(), &Doctor{UserID: userID, Specialization: "ENT"})
	err := svc.CreateDoctor(context.Background(), &Doctor{UserID: userID, Specialization: "ENT"})
	if httperr.Status(err) != 409 {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestUpdateDoctor_KeepsExistingFields(t *testing.T) {
	svc, dir := newTestService()
	userID := dir.addUser(identity.RoleDoctor)
	d := &Doctor{UserID: userID, Specialization: "Cardiology"}
	svc.CreateDoctor(context.Background(), d)

	upd := &Doctor{ID: d.ID}
	if err := svc.UpdateDoctor(context.Background(), upd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upd.Specialization != "Cardiology" {
		t.Errorf("expected specialization preserved, got %q", upd.Specialization)
	}
	if upd.UserID != userID {
		t.Error("expected userId preserved")
	}
}

func TestDeleteDoctor_ExcludedFromList(t *testing.T) {
	svc, dir := newTestService()
	userID := dir.addUser(identity.RoleDoctor)
	d := &Doctor{UserID: userID, Specialization: "ENT"}
	svc.CreateDoctor(context.Background(), d)
	if err := svc.DeleteDoctor(context.Background(), d.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, total, _ := svc.ListDoctors(context.Background(), "", "created_at DESC", 10, 0)
	if total != 0 {
		t.Errorf("expected 0 active doctors, got %d", total)
	}
}

func TestCreateLabTechnician(t *testing.T) {
	svc, dir := newTestService()
	userID := dir.addUser(identity.RoleLabTechnician)
	lt := &LabTechnician{UserID: userID}
	if err := svc.CreateLabTechnician(context.Background(), lt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !lt.IsActive {
		t.Error("expected lab technician to be active")
	}
}

func TestCreateLabTechnician_WrongRole(t *testing.T) {
	svc, dir := newTestService()
	userID := dir.addUser(identity.RoleDoctor)
	err := svc.CreateLabTechnician(context.Background(), &LabTechnician{UserID: userID})
	if httperr.Status(err) != 422 {
		t.Errorf("expected referential error, got %v", err)
	}
}

func TestCreateRecipient(t *testing.T) {
	svc, dir := newTestService()
	userID := dir.addUser(identity.RoleRecipient)
	rec := &Recipient{UserID: userID}
	if err := svc.CreateRecipient(context.Background(), rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetRecipient_NotFound(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.GetRecipient(context.Background(), uuid.New())
	if httperr.Status(err) != 404 {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestCreateSpecialization(t *testing.T) {
	svc, _ := newTestService()
	sp := &Specialization{Name: "  Cardiology  "}
	if err := svc.CreateSpecialization(context.Background(), sp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sp.Name != "Cardiology" {
		t.Errorf("expected trimmed name, got %q", sp.Name)
	}
	if !sp.IsActive {
		t.Error("expected specialization to be active")
	}
}

func TestCreateSpecialization_DuplicateName(t *testing.T) {
	svc, _ := newTestService()
	svc.CreateSpecialization(context.Background(), &Specialization{Name: "Cardiology"})
	err := svc.CreateSpecialization(context.Background(), &Specialization{Name: "cardiology"})
	if httperr.Status(err) != 409 {
		t.Errorf("expected conflict for case-insensitive duplicate, got %v", err)
	}
}

func TestUpdateSpecialization_RenameOntoExisting(t *testing.T) {
	svc, _ := newTestService()
	a := &Specialization{Name: "Cardiology"}
	b := &Specialization{Name: "Neurology"}
	svc.CreateSpecialization(context.Background(), a)
	svc.CreateSpecialization(context.Background(), b)

	err := svc.UpdateSpecialization(context.Background(), &Specialization{ID: b.ID, Name: "Cardiology"})
	if httperr.Status(err) != 409 {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestDeleteSpecialization_ExcludedFromList(t *testing.T) {
	svc, _ := newTestService()
	sp := &Specialization{Name: "ENT"}
	svc.CreateSpecialization(context.Background(), sp)
	if err := svc.DeleteSpecialization(context.Background(), sp.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, total, _ := svc.ListSpecializations(context.Background(), "", "name", 10, 0)
	if total != 0 {
		t.Errorf("expected 0 active specializations, got %d", total)
	}
}

func TestCreateDegree_DefaultsLevel(t *testing.T) {
	svc, _ := newTestService()
	dg := &Degree{Name: "Bachelor of Medicine"}
	if err := svc.CreateDegree(context.Background(), dg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dg.Level != LevelUG {
		t.Errorf("expected default level UG, got %s", dg.Level)
	}
}

func TestCreateDegree_InvalidLevel(t *testing.T) {
	svc, _ := newTestService()
	err := svc.CreateDegree(context.Background(), &Degree{Name: "MD", Level: "DOCTORATE"})
	if httperr.Status(err) != 400 {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCreateDegree_DuplicateName(t *testing.T) {
	svc, _ := newTestService()
	svc.CreateDegree(context.Background(), &Degree{Name: "MD", Level: LevelPG})
	err := svc.CreateDegree(context.Background(), &Degree{Name: "md"})
	if httperr.Status(err) != 409 {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestUpdateDegree_KeepsLevel(t *testing.T) {
	svc, _ := newTestService()
	dg := &Degree{Name: "DM Cardiology", Level: LevelSuperSpeciality}
	svc.CreateDegree(context.Background(), dg)

	upd := &Degree{ID: dg.ID, Name: "DM Cardio"}
	if err := svc.UpdateDegree(context.Background(), upd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upd.Level != LevelSuperSpeciality {
		t.Errorf("expected level preserved, got %s", upd.Level)
	}
}

func TestCreateDepartment(t *testing.T) {
	svc, _ := newTestService()
	dep := &Department{Name: "Radiology"}
	if err := svc.CreateDepartment(context.Background(), dep); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dep.IsActive {
		t.Error("expected department to be active")
	}
}

func TestCreateDepartment_NameRequired(t *testing.T) {
	svc, _ := newTestService()
	err := svc.CreateDepartment(context.Background(), &Department{Name: "   "})
	if httperr.Status(err) != 400 {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCreateDepartment_DuplicateName(t *testing.T) {
	svc, _ := newTestService()
	svc.CreateDepartment(context.Background(), &Department{Name: "Radiology"})
	err := svc.CreateDepartment(context.Background(), &Department{Name: "RADIOLOGY"})
	if httperr.Status(err) != 409 {
		t.Errorf("expected conflict, got %v", err)
	}
}
