package facility

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hms/hms/internal/platform/httperr"
)

var wardCodePattern = regexp.MustCompile(`^[A-Z0-9-]+$`)

type Service struct {
	floors FloorRepository
	wards  WardRepository
	rooms  RoomRepository
	beds   BedRepository
}

func NewService(floors FloorRepository, wards WardRepository, rooms RoomRepository, beds BedRepository) *Service {
	return &Service{floors: floors, wards: wards, rooms: rooms, beds: beds}
}

func (s *Service) requireFloor(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return httperr.Validation("floorId is required")
	}
	if _, err := s.floors.GetByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return httperr.Referential("floor %s does not exist", id)
		}
		return err
	}
	return nil
}

// -- Floor --

func (s *Service) CreateFloor(ctx context.Context, f *Floor) error {
	f.Name = strings.ToUpper(strings.TrimSpace(f.Name))
	f.Code = strings.ToUpper(strings.TrimSpace(f.Code))
	if f.Name == "" {
		return httperr.Validation("floor name is required")
	}
	if f.Code == "" {
		return httperr.Validation("floor code is required")
	}
	if _, err := s.floors.GetByCode(ctx, f.Code); err == nil {
		return httperr.Conflict("floor code %s already exists", f.Code)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	f.IsActive = true
	return s.floors.Create(ctx, f)
}

func (s *Service) GetFloor(ctx context.Context, id uuid.UUID) (*Floor, error) {
	f, err := s.floors.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httperr.NotFound("floor not found")
	}
	return f, err
}

func (s *Service) UpdateFloor(ctx context.Context, id uuid.UUID, p *FloorPatch) (*Floor, error) {
	existing, err := s.GetFloor(ctx, id)
	if err != nil {
		return nil, err
	}
	f := *existing
	if p.Name != "" {
		f.Name = strings.ToUpper(strings.TrimSpace(p.Name))
	}
	if p.Code != "" {
		f.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	}
	if p.FloorNumber != nil {
		f.FloorNumber = *p.FloorNumber
	}
	if p.Notes != nil {
		f.Notes = p.Notes
	}
	if f.Code != existing.Code {
		if _, err := s.floors.GetByCode(ctx, f.Code); err == nil {
			return nil, httperr.Conflict("floor code %s already exists", f.Code)
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}
	if err := s.floors.Update(ctx, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (s *Service) DeleteFloor(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetFloor(ctx, id); err != nil {
		return err
	}
	return s.floors.SoftDelete(ctx, id)
}

func (s *Service) ListFloors(ctx context.Context, search, orderBy string, limit, offset int) ([]*Floor, int, error) {
	return s.floors.List(ctx, search, orderBy, limit, offset)
}

// -- Ward --

func (s *Service) CreateWard(ctx context.Context, w *Ward) error {
	w.Name = strings.ToUpper(strings.TrimSpace(w.Name))
	w.Code = strings.ToUpper(strings.TrimSpace(w.Code))
	if w.Name == "" {
		return httperr.Validation("ward name is required")
	}
	if !wardCodePattern.MatchString(w.Code) {
		return httperr.Validation("invalid ward code format")
	}
	if !validWardTypes[w.WardType] {
		return httperr.Validation("invalid ward type: %s", w.WardType)
	}
	if w.TotalBeds < 0 {
		return httperr.Validation("totalBeds cannot be negative")
	}
	if err := s.requireFloor(ctx, w.FloorID); err != nil {
		return err
	}
	if _, err := s.wards.GetByCode(ctx, w.Code); err == nil {
		return httperr.Conflict("ward code %s already exists", w.Code)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	w.IsActive = true
	return s.wards.Create(ctx, w)
}

func (s *Service) GetWard(ctx context.Context, id uuid.UUID) (*Ward, error) {
	w, err := s.wards.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httperr.NotFound("ward not found")
	}
	return w, err
}

func (s *Service) UpdateWard(ctx context.Context, id uuid.UUID, p *WardPatch) (*Ward, error) {
	existing, err := s.GetWard(ctx, id)
	if err != nil {
		return nil, err
	}
	w := *existing
	if p.Name != "" {
		w.Name = strings.ToUpper(strings.TrimSpace(p.Name))
	}
	if p.Code != "" {
		w.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	}
	if p.WardType != "" {
		w.WardType = p.WardType
	}
	if p.FloorID != uuid.Nil {
		w.FloorID = p.FloorID
	}
	if p.TotalBeds != nil {
		w.TotalBeds = *p.TotalBeds
	}
	if p.Notes != nil {
		w.Notes = p.Notes
	}

	if !wardCodePattern.MatchString(w.Code) {
		return nil, httperr.Validation("invalid ward code format")
	}
	if !validWardTypes[w.WardType] {
		return nil, httperr.Validation("invalid ward type: %s", w.WardType)
	}
	if w.TotalBeds < 0 {
		return nil, httperr.Validation("totalBeds cannot be negative")
	}
	if w.FloorID != existing.FloorID {
		if err := s.requireFloor(ctx, w.FloorID); err != nil {
			return nil, err
		}
	}
	if w.Code != existing.Code {
		if _, err := s.wards.GetByCode(ctx, w.Code); err == nil {
			return nil, httperr.Conflict("ward code %s already exists", w.Code)
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}
	// Re-check the declared capacity against beds already placed in the ward
	// whenever it changes.
	if w.TotalBeds != existing.TotalBeds {
		n, err := s.beds.CountActiveByWard(ctx, w.ID)
		if err != nil {
			return nil, err
		}
		if n > 0 && n != w.TotalBeds {
			return nil, httperr.Validation("ward has %d active beds, totalBeds must match", n)
		}
	}
	if err := s.wards.Update(ctx, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *Service) DeleteWard(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetWard(ctx, id); err != nil {
		return err
	}
	return s.wards.SoftDelete(ctx, id)
}

func (s *Service) ListWards(ctx context.Context, search, orderBy string, limit, offset int) ([]*Ward, int, error) {
	return s.wards.List(ctx, search, orderBy, limit, offset)
}

// -- Room --

func (s *Service) CreateRoom(ctx context.Context, rm *Room) error {
	rm.RoomNumber = strings.ToUpper(strings.TrimSpace(rm.RoomNumber))
	if rm.RoomNumber == "" {
		return httperr.Validation("roomNumber is required")
	}
	if !validRoomTypes[rm.RoomType] {
		return httperr.Validation("invalid room type: %s", rm.RoomType)
	}
	if rm.Capacity < 1 {
		return httperr.Validation("room capacity must be at least 1")
	}
	if rm.OccupiedBeds < 0 {
		return httperr.Validation("occupiedBeds cannot be negative")
	}
	if rm.OccupiedBeds > rm.Capacity {
		return httperr.Validation("occupied beds cannot exceed room capacity")
	}
	if err := s.requireFloor(ctx, rm.FloorID); err != nil {
		return err
	}
	if _, err := s.rooms.GetByNumberOnFloor(ctx, rm.RoomNumber, rm.FloorID); err == nil {
		return httperr.Conflict("room %s already exists on this floor", rm.RoomNumber)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	rm.IsActive = true
	return s.rooms.Create(ctx, rm)
}

func (s *Service) GetRoom(ctx context.Context, id uuid.UUID) (*Room, error) {
	rm, err := s.rooms.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httperr.NotFound("room not found")
	}
	return rm, err
}

func (s *Service) UpdateRoom(ctx context.Context, id uuid.UUID, p *RoomPatch) (*Room, error) {
	existing, err := s.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	rm := *existing
	if p.RoomNumber != "" {
		rm.RoomNumber = strings.ToUpper(strings.TrimSpace(p.RoomNumber))
	}
	if p.RoomType != "" {
		rm.RoomType = p.RoomType
	}
	if p.FloorID != uuid.Nil {
		rm.FloorID = p.FloorID
	}
	if p.Capacity != nil {
		rm.Capacity = *p.Capacity
	}
	if p.OccupiedBeds != nil {
		rm.OccupiedBeds = *p.OccupiedBeds
	}
	if p.Amenities != nil {
		rm.Amenities = p.Amenities
	}
	if p.Notes != nil {
		rm.Notes = p.Notes
	}

	if !validRoomTypes[rm.RoomType] {
		return nil, httperr.Validation("invalid room type: %s", rm.RoomType)
	}
	if rm.Capacity < 1 {
		return nil, httperr.Validation("room capacity must be at least 1")
	}
	if rm.OccupiedBeds < 0 || rm.OccupiedBeds > rm.Capacity {
		return nil, httperr.Validation("occupied beds cannot exceed room capacity")
	}
	if rm.FloorID != existing.FloorID {
		if err := s.requireFloor(ctx, rm.FloorID); err != nil {
			return nil, err
		}
	}
	if rm.RoomNumber != existing.RoomNumber || rm.FloorID != existing.FloorID {
		if _, err := s.rooms.GetByNumberOnFloor(ctx, rm.RoomNumber, rm.FloorID); err == nil {
			return nil, httperr.Conflict("room %s already exists on this floor", rm.RoomNumber)
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}
	if err := s.rooms.Update(ctx, &rm); err != nil {
		return nil, err
	}
	return &rm, nil
}

func (s *Service) DeleteRoom(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetRoom(ctx, id); err != nil {
		return err
	}
	return s.rooms.SoftDelete(ctx, id)
}

func (s *Service) ListRooms(ctx context.Context, search, orderBy string, limit, offset int) ([]*Room, int, error) {
	return s.rooms.List(ctx, search, orderBy, limit, offset)
}

// -- Bed --

// validateBedLocation enforces the ward/room variant: exactly one reference,
// matching the declared location type, on the declared floor.
func (s *Service) validateBedLocation(ctx context.Context, b *Bed) error {
	switch b.LocationType {
	case LocationWard:
		if b.WardID == nil || b.RoomID != nil {
			return httperr.Validation("a WARD bed must reference a ward and no room")
		}
		w, err := s.wards.GetByID(ctx, *b.WardID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return httperr.Referential("ward %s does not exist", *b.WardID)
			}
			return err
		}
		if w.FloorID != b.FloorID {
			return httperr.Referential("ward %s is not on floor %s", *b.WardID, b.FloorID)
		}
	case LocationRoom:
		if b.RoomID == nil || b.WardID != nil {
			return httperr.Validation("a ROOM bed must reference a room and no ward")
		}
		rm, err := s.rooms.GetByID(ctx, *b.RoomID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return httperr.Referential("room %s does not exist", *b.RoomID)
			}
			return err
		}
		if rm.FloorID != b.FloorID {
			return httperr.Referential("room %s is not on floor %s", *b.RoomID, b.FloorID)
		}
	default:
		return httperr.Validation("bedLocationType must be WARD or ROOM")
	}
	return nil
}

func (s *Service) bedLocationID(b *Bed) uuid.UUID {
	if b.LocationType == LocationWard {
		return *b.WardID
	}
	return *b.RoomID
}

func (s *Service) CreateBed(ctx context.Context, b *Bed) error {
	b.BedNumber = strings.ToUpper(strings.TrimSpace(b.BedNumber))
	if b.BedNumber == "" {
		return httperr.Validation("bedNumber is required")
	}
	if !validBedTypes[b.BedType] {
		return httperr.Validation("invalid bed type: %s", b.BedType)
	}
	if err := s.requireFloor(ctx, b.FloorID); err != nil {
		return err
	}
	if err := s.validateBedLocation(ctx, b); err != nil {
		return err
	}
	taken, err := s.beds.ExistsActiveInLocation(ctx, b.BedNumber, b.LocationType, s.bedLocationID(b), uuid.Nil)
	if err != nil {
		return err
	}
	if taken {
		return httperr.Conflict("bed %s already exists in this location", b.BedNumber)
	}
	b.IsActive = true
	return s.beds.Create(ctx, b)
}

func (s *Service) GetBed(ctx context.Context, id uuid.UUID) (*Bed, error) {
	b, err := s.beds.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httperr.NotFound("bed not found")
	}
	return b, err
}

func (s *Service) UpdateBed(ctx context.Context, id uuid.UUID, p *BedPatch) (*Bed, error) {
	existing, err := s.GetBed(ctx, id)
	if err != nil {
		return nil, err
	}
	b := *existing
	if p.BedNumber != "" {
		b.BedNumber = strings.ToUpper(strings.TrimSpace(p.BedNumber))
	}
	if p.BedType != "" {
		b.BedType = p.BedType
	}
	if p.LocationType != "" {
		// Moving location replaces both refs wholesale so the old one cannot
		// linger alongside the new variant.
		b.LocationType = p.LocationType
		b.WardID = p.WardID
		b.RoomID = p.RoomID
	} else {
		if p.WardID != nil {
			b.WardID = p.WardID
		}
		if p.RoomID != nil {
			b.RoomID = p.RoomID
		}
	}
	if p.FloorID != uuid.Nil {
		b.FloorID = p.FloorID
	}
	if p.IsOccupied != nil {
		b.IsOccupied = *p.IsOccupied
	}
	if p.Notes != nil {
		b.Notes = p.Notes
	}

	if !validBedTypes[b.BedType] {
		return nil, httperr.Validation("invalid bed type: %s", b.BedType)
	}
	if b.FloorID != existing.FloorID {
		if err := s.requireFloor(ctx, b.FloorID); err != nil {
			return nil, err
		}
	}
	if err := s.validateBedLocation(ctx, &b); err != nil {
		return nil, err
	}
	taken, err := s.beds.ExistsActiveInLocation(ctx, b.BedNumber, b.LocationType, s.bedLocationID(&b), b.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, httperr.Conflict("bed %s already exists in this location", b.BedNumber)
	}
	if err := s.beds.Update(ctx, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *Service) DeleteBed(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetBed(ctx, id); err != nil {
		return err
	}
	return s.beds.SoftDelete(ctx, id)
}

func (s *Service) ListBeds(ctx context.Context, search, orderBy string, limit, offset int) ([]*Bed, int, error) {
	return s.beds.List(ctx, search, orderBy, limit, offset)
}
