package facility

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hms/hms/internal/platform/httperr"
)

// -- Mock Repositories --

type mockFloorRepo struct {
	floors map[uuid.UUID]*Floor
}

func newMockFloorRepo() *mockFloorRepo { return &mockFloorRepo{floors: make(map[uuid.UUID]*Floor)} }

func (m *mockFloorRepo) Create(_ context.Context, f *Floor) error {
	f.ID = uuid.New()
	f.CreatedAt = time.Now()
	f.UpdatedAt = time.Now()
	m.floors[f.ID] = f
	return nil
}

func (m *mockFloorRepo) GetByID(_ context.Context, id uuid.UUID) (*Floor, error) {
	f, ok := m.floors[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return f, nil
}

func (m *mockFloorRepo) GetByCode(_ context.Context, code string) (*Floor, error) {
	for _, f := range m.floors {
		if f.Code == code {
			return f, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockFloorRepo) Update(_ context.Context, f *Floor) error {
	m.floors[f.ID] = f
	return nil
}

func (m *mockFloorRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if f, ok := m.floors[id]; ok {
		f.IsActive = false
	}
	return nil
}

func (m *mockFloorRepo) List(_ context.Context, _, _ string, limit, offset int) ([]*Floor, int, error) {
	var result []*Floor
	for _, f := range m.floors {
		if f.IsActive {
			result = append(result, f)
		}
	}
	return result, len(result), nil
}

type mockWardRepo struct {
	wards map[uuid.UUID]*Ward
}

func newMockWardRepo() *mockWardRepo { return &mockWardRepo{wards: make(map[uuid.UUID]*Ward)} }

func (m *mockWardRepo) Create(_ context.Context, w *Ward) error {
	w.ID = uuid.New()
	m.wards[w.ID] = w
	return nil
}

func (m *mockWardRepo) GetByID(_ context.Context, id uuid.UUID) (*Ward, error) {
	w, ok := m.wards[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return w, nil
}

func (m *mockWardRepo) GetByCode(_ context.Context, code string) (*Ward, error) {
	for _, w := range m.wards {
		if w.Code == code {
			return w, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockWardRepo) Update(_ context.Context, w *Ward) error {
	m.wards[w.ID] = w
	return nil
}

func (m *mockWardRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if w, ok := m.wards[id]; ok {
		w.IsActive = false
	}
	return nil
}

func (m *mockWardRepo) List(_ context.Context, _, _ string, limit, offset int) ([]*Ward, int, error) {
	var result []*Ward
	for _, w := range m.wards {
		if w.IsActive {
			result = append(result, w)
		}
	}
	return result, len(result), nil
}

type mockRoomRepo struct {
	rooms map[uuid.UUID]*Room
}

func newMockRoomRepo() *mockRoomRepo { return &mockRoomRepo{rooms: make(map[uuid.UUID]*Room)} }

func (m *mockRoomRepo) Create(_ context.Context, r *Room) error {
	r.ID = uuid.New()
	m.rooms[r.ID] = r
	return nil
}

func (m *mockRoomRepo) GetByID(_ context.Context, id uuid.UUID) (*Room, error) {
	r, ok := m.rooms[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return r, nil
}

func (m *mockRoomRepo) GetByNumberOnFloor(_ context.Context, roomNumber string, floorID uuid.UUID) (*Room, error) {
	for _, r := range m.rooms {
		if r.RoomNumber == roomNumber && r.FloorID == floorID && r.IsActive {
			return r, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockRoomRepo) Update(_ context.Context, r *Room) error {
	m.rooms[r.ID] = r
	return nil
}

func (m *mockRoomRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if r, ok := m.rooms[id]; ok {
		r.IsActive = false
	}
	return nil
}

func (m *mockRoomRepo) List(_ context.Context, _, _ string, limit, offset int) ([]*Room, int, error) {
	var result []*Room
	for _, r := range m.rooms {
		if r.IsActive {
			result = append(result, r)
		}
	}
	return result, len(result), nil
}

type mockBedRepo struct {
	beds map[uuid.UUID]*Bed
}

func newMockBedRepo() *mockBedRepo { return &mockBedRepo{beds: make(map[uuid.UUID]*Bed)} }

func (m *mockBedRepo) Create(_ context.Context, b *Bed) error {
	b.ID = uuid.New()
	m.beds[b.ID] = b
	return nil
}

func (m *mockBedRepo) GetByID(_ context.Context, id uuid.UUID) (*Bed, error) {
	b, ok := m.beds[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return b, nil
}

func (m *mockBedRepo) Update(_ context.Context, b *Bed) error {
	m.beds[b.ID] = b
	return nil
}

func (m *mockBedRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if b, ok := m.beds[id]; ok {
		b.IsActive = false
	}
	return nil
}

func (m *mockBedRepo) List(_ context.Context, _, _ string, limit, offset int) ([]*Bed, int, error) {
	var result []*Bed
	for _, b := range m.beds {
		if b.IsActive {
			result = append(result, b)
		}
	}
	return result, len(result), nil
}

func (m *mockBedRepo) CountActiveByWard(_ context.Context, wardID uuid.UUID) (int, error) {
	n := 0
	for _, b := range m.beds {
		if b.IsActive && b.WardID != nil && *b.WardID == wardID {
			n++
		}
	}
	return n, nil
}

func (m *mockBedRepo) ExistsActiveInLocation(_ context.Context, bedNumber, locationType string, locationID, excludeID uuid.UUID) (bool, error) {
	for _, b := range m.beds {
		if !b.IsActive || b.ID == excludeID || b.BedNumber != bedNumber {
			continue
		}
		if locationType == LocationWard && b.WardID != nil && *b.WardID == locationID {
			return true, nil
		}
		if locationType == LocationRoom && b.RoomID != nil && *b.RoomID == locationID {
			return true, nil
		}
	}
	return false, nil
}

// -- Helpers --

func intPtr(n int) *int { return &n }

func newTestService(t *testing.T) (*Service, uuid.UUID) {
	t.Helper()
	svc := NewService(newMockFloorRepo(), newMockWardRepo(), newMockRoomRepo(), newMockBedRepo())
	f := &Floor{Name: "Ground", Code: "GF", FloorNumber: 0}
	if err := svc.CreateFloor(context.Background(), f); err != nil {
		t.Fatalf("create floor: %v", err)
	}
	return svc, f.ID
}

func (s *Service) mustCreateWard(t *testing.T, floorID uuid.UUID, code string, totalBeds int) *Ward {
	t.Helper()
	w := &Ward{Name: "General", Code: code, WardType: "GENERAL", FloorID: floorID, TotalBeds: totalBeds}
	if err := s.CreateWard(context.Background(), w); err != nil {
		t.Fatalf("create ward: %v", err)
	}
	return w
}

// -- Floor Tests --

func TestCreateFloor_UppercasesCodes(t *testing.T) {
	svc, _ := newTestService(t)
	f := &Floor{Name: "first", Code: "f1", FloorNumber: 1}
	if err := svc.CreateFloor(context.Background(), f); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Name != "FIRST" || f.Code != "F1" {
		t.Errorf("expected uppercased name/code, got %s/%s", f.Name, f.Code)
	}
}

func TestCreateFloor_DuplicateCode(t *testing.T) {
	svc, _ := newTestService(t)
	err := svc.CreateFloor(context.Background(), &Floor{Name: "X", Code: "gf", FloorNumber: 2})
	if httperr.Status(err) != 409 {
		t.Errorf("expected conflict, got %v", err)
	}
}

// -- Ward Tests --

func TestCreateWard(t *testing.T) {
	svc, floorID := newTestService(t)
	w := svc.mustCreateWard(t, floorID, "ICU-1", 10)
	if !w.IsActive {
		t.Error("expected ward to be active")
	}
}

func TestCreateWard_InvalidCode(t *testing.T) {
	svc, floorID := newTestService(t)
	err := svc.CreateWard(context.Background(), &Ward{Name: "X", Code: "bad code!", WardType: "GENERAL", FloorID: floorID})
	if httperr.Status(err) != 400 {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCreateWard_InvalidType(t *testing.T) {
	svc, floorID := newTestService(t)
	err := svc.CreateWard(context.Background(), &Ward{Name: "X", Code: "W1", WardType: "PENTHOUSE", FloorID: floorID})
	if err == nil {
		t.Error("expected error for invalid ward type")
	}
}

func TestCreateWard_FloorMissing(t *testing.T) {
	svc, _ := newTestService(t)
	err := svc.CreateWard(context.Background(), &Ward{Name: "X", Code: "W1", WardType: "GENERAL", FloorID: uuid.New()})
	if httperr.Status(err) != 422 {
		t.Errorf("expected referential error, got %v", err)
	}
}

func TestCreateWard_DuplicateCode(t *testing.T) {
	svc, floorID := newTestService(t)
	svc.mustCreateWard(t, floorID, "W1", 5)
	err := svc.CreateWard(context.Background(), &Ward{Name: "X", Code: "w1", WardType: "GENERAL", FloorID: floorID})
	if httperr.Status(err) != 409 {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestUpdateWard_TotalBedsMismatch(t *testing.T) {
	svc, floorID := newTestService(t)
	w := svc.mustCreateWard(t, floorID, "W1", 2)

	wardID := w.ID
	for _, n := range []string{"B1", "B2"} {
		b := &Bed{BedNumber: n, BedType: "GENERAL", LocationType: LocationWard, WardID: &wardID, FloorID: floorID}
		if err := svc.CreateBed(context.Background(), b); err != nil {
			t.Fatalf("create bed: %v", err)
		}
	}

	_, err := svc.UpdateWard(context.Background(), w.ID, &WardPatch{TotalBeds: intPtr(5)})
	if httperr.Status(err) != 400 {
		t.Errorf("expected validation error for bed count mismatch, got %v", err)
	}

	// Matching the actual bed count is accepted.
	if _, err := svc.UpdateWard(context.Background(), w.ID, &WardPatch{TotalBeds: intPtr(2)}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestUpdateWard_OmittedFieldsPreserved(t *testing.T) {
	svc, floorID := newTestService(t)
	w := svc.mustCreateWard(t, floorID, "W1", 8)

	upd, err := svc.UpdateWard(context.Background(), w.ID, &WardPatch{Name: "Surgical"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upd.TotalBeds != 8 {
		t.Errorf("totalBeds: want 8, got %d", upd.TotalBeds)
	}
	if upd.Code != "W1" || upd.WardType != "GENERAL" {
		t.Errorf("expected code and type preserved, got %s/%s", upd.Code, upd.WardType)
	}
}

func TestUpdateWard_ExplicitZeroTotalBeds(t *testing.T) {
	svc, floorID := newTestService(t)
	w := svc.mustCreateWard(t, floorID, "W1", 8)

	upd, err := svc.UpdateWard(context.Background(), w.ID, &WardPatch{TotalBeds: intPtr(0)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upd.TotalBeds != 0 {
		t.Errorf("explicit zero should apply, got %d", upd.TotalBeds)
	}
}

// -- Room Tests --

func TestCreateRoom(t *testing.T) {
	svc, floorID := newTestService(t)
	rm := &Room{RoomNumber: "101a", FloorID: floorID, RoomType: "PRIVATE", Capacity: 2}
	if err := svc.CreateRoom(context.Background(), rm); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rm.RoomNumber != "101A" {
		t.Errorf("expected uppercased room number, got %s", rm.RoomNumber)
	}
}

func TestCreateRoom_CapacityMinimum(t *testing.T) {
	svc, floorID := newTestService(t)
	err := svc.CreateRoom(context.Background(), &Room{RoomNumber: "R1", FloorID: floorID, RoomType: "PRIVATE", Capacity: 0})
	if err == nil {
		t.Error("expected error for zero capacity")
	}
}

func TestCreateRoom_OccupiedExceedsCapacity(t *testing.T) {
	svc, floorID := newTestService(t)
	err := svc.CreateRoom(context.Background(), &Room{RoomNumber: "R1", FloorID: floorID, RoomType: "PRIVATE", Capacity: 2, OccupiedBeds: 3})
	if httperr.Status(err) != 400 {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCreateRoom_DuplicateOnFloor(t *testing.T) {
	svc, floorID := newTestService(t)
	svc.CreateRoom(context.Background(), &Room{RoomNumber: "101", FloorID: floorID, RoomType: "PRIVATE", Capacity: 2})
	err := svc.CreateRoom(context.Background(), &Room{RoomNumber: "101", FloorID: floorID, RoomType: "GENERAL", Capacity: 4})
	if httperr.Status(err) != 409 {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestUpdateRoom_OccupancyRevalidated(t *testing.T) {
	svc, floorID := newTestService(t)
	rm := &Room{RoomNumber: "102", FloorID: floorID, RoomType: "PRIVATE", Capacity: 2}
	svc.CreateRoom(context.Background(), rm)

	_, err := svc.UpdateRoom(context.Background(), rm.ID, &RoomPatch{OccupiedBeds: intPtr(3)})
	if httperr.Status(err) != 400 {
		t.Errorf("expected validation error, got %v", err)
	}

	// A rejected update must leave the stored row untouched.
	got, _ := svc.GetRoom(context.Background(), rm.ID)
	if got.OccupiedBeds != 0 {
		t.Errorf("occupiedBeds: want 0, got %d", got.OccupiedBeds)
	}
}

func TestUpdateRoom_OmittedOccupancyPreserved(t *testing.T) {
	svc, floorID := newTestService(t)
	rm := &Room{RoomNumber: "103", FloorID: floorID, RoomType: "PRIVATE", Capacity: 4, OccupiedBeds: 3}
	if err := svc.CreateRoom(context.Background(), rm); err != nil {
		t.Fatalf("create room: %v", err)
	}

	upd, err := svc.UpdateRoom(context.Background(), rm.ID, &RoomPatch{RoomType: "DELUXE"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upd.RoomType != "DELUXE" {
		t.Errorf("roomType: want DELUXE, got %s", upd.RoomType)
	}
	if upd.OccupiedBeds != 3 {
		t.Errorf("occupiedBeds: want 3, got %d", upd.OccupiedBeds)
	}
	got, _ := svc.GetRoom(context.Background(), rm.ID)
	if got.OccupiedBeds != 3 {
		t.Errorf("stored occupiedBeds: want 3, got %d", got.OccupiedBeds)
	}
}

func TestUpdateRoom_ExplicitZeroOccupancy(t *testing.T) {
	svc, floorID := newTestService(t)
	rm := &Room{RoomNumber: "104", FloorID: floorID, RoomType: "PRIVATE", Capacity: 4, OccupiedBeds: 3}
	if err := svc.CreateRoom(context.Background(), rm); err != nil {
		t.Fatalf("create room: %v", err)
	}

	upd, err := svc.UpdateRoom(context.Background(), rm.ID, &RoomPatch{OccupiedBeds: intPtr(0)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upd.OccupiedBeds != 0 {
		t.Errorf("explicit zero should clear occupancy, got %d", upd.OccupiedBeds)
	}
}

// -- Bed Tests --

func TestCreateBed_WardVariant(t *testing.T) {
	svc, floorID := newTestService(t)
	w := svc.mustCreateWard(t, floorID, "W1", 5)
	wardID := w.ID
	b := &Bed{BedNumber: "b-1", BedType: "ICU", LocationType: LocationWard, WardID: &wardID, FloorID: floorID}
	if err := svc.CreateBed(context.Background(), b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.BedNumber != "B-1" {
		t.Errorf("expected uppercased bed number, got %s", b.BedNumber)
	}
}

func TestCreateBed_BothLocationsSet(t *testing.T) {
	svc, floorID := newTestService(t)
	w := svc.mustCreateWard(t, floorID, "W1", 5)
	rm := &Room{RoomNumber: "101", FloorID: floorID, RoomType: "PRIVATE", Capacity: 2}
	svc.CreateRoom(context.Background(), rm)

	wardID, roomID := w.ID, rm.ID
	err := svc.CreateBed(context.Background(), &Bed{
		BedNumber: "B1", BedType: "GENERAL", LocationType: LocationWard,
		WardID: &wardID, RoomID: &roomID, FloorID: floorID,
	})
	if httperr.Status(err) != 400 {
		t.Errorf("expected validation error for both locations set, got %v", err)
	}
}

func TestCreateBed_NoLocationSet(t *testing.T) {
	svc, floorID := newTestService(t)
	err := svc.CreateBed(context.Background(), &Bed{
		BedNumber: "B1", BedType: "GENERAL", LocationType: LocationWard, FloorID: floorID,
	})
	if httperr.Status(err) != 400 {
		t.Errorf("expected validation error for missing ward, got %v", err)
	}
}

func TestCreateBed_WardOnWrongFloor(t *testing.T) {
	svc, floorID := newTestService(t)
	other := &Floor{Name: "First", Code: "F1", FloorNumber: 1}
	svc.CreateFloor(context.Background(), other)
	w := svc.mustCreateWard(t, other.ID, "W1", 5)

	wardID := w.ID
	err := svc.CreateBed(context.Background(), &Bed{
		BedNumber: "B1", BedType: "GENERAL", LocationType: LocationWard,
		WardID: &wardID, FloorID: floorID,
	})
	if httperr.Status(err) != 422 {
		t.Errorf("expected referential error, got %v", err)
	}
}

func TestCreateBed_DuplicateNumberInWard(t *testing.T) {
	svc, floorID := newTestService(t)
	w := svc.mustCreateWard(t, floorID, "W1", 5)
	wardID := w.ID

	first := &Bed{BedNumber: "B1", BedType: "GENERAL", LocationType: LocationWard, WardID: &wardID, FloorID: floorID}
	if err := svc.CreateBed(context.Background(), first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dup := &Bed{BedNumber: "b1", BedType: "ICU", LocationType: LocationWard, WardID: &wardID, FloorID: floorID}
	err := svc.CreateBed(context.Background(), dup)
	if httperr.Status(err) != 409 {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestCreateBed_SameNumberDifferentWards(t *testing.T) {
	svc, floorID := newTestService(t)
	w1 := svc.mustCreateWard(t, floorID, "W1", 5)
	w2 := svc.mustCreateWard(t, floorID, "W2", 5)

	id1, id2 := w1.ID, w2.ID
	if err := svc.CreateBed(context.Background(), &Bed{BedNumber: "B1", BedType: "GENERAL", LocationType: LocationWard, WardID: &id1, FloorID: floorID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.CreateBed(context.Background(), &Bed{BedNumber: "B1", BedType: "GENERAL", LocationType: LocationWard, WardID: &id2, FloorID: floorID}); err != nil {
		t.Errorf("same bed number in another ward should be allowed: %v", err)
	}
}

func TestDeleteBed_FreesNumberForReuse(t *testing.T) {
	svc, floorID := newTestService(t)
	w := svc.mustCreateWard(t, floorID, "W1", 5)
	wardID := w.ID

	b := &Bed{BedNumber: "B1", BedType: "GENERAL", LocationType: LocationWard, WardID: &wardID, FloorID: floorID}
	svc.CreateBed(context.Background(), b)
	svc.DeleteBed(context.Background(), b.ID)

	again := &Bed{BedNumber: "B1", BedType: "GENERAL", LocationType: LocationWard, WardID: &wardID, FloorID: floorID}
	if err := svc.CreateBed(context.Background(), again); err != nil {
		t.Errorf("expected number to be reusable after soft delete: %v", err)
	}
}
