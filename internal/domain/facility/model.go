package facility

import (
	"time"

	"github.com/google/uuid"
)

const (
	LocationWard = "WARD"
	LocationRoom = "ROOM"
)

var validWardTypes = map[string]bool{
	"GENERAL": true, "SEMI_PRIVATE": true, "PRIVATE": true, "DELUXE": true,
	"SUITE": true, "ICU": true, "NICU": true, "PICU": true, "CCU": true,
	"HDU": true, "ISOLATION": true, "BURN": true, "DAY_CARE": true,
}

var validRoomTypes = map[string]bool{
	"GENERAL": true, "PRIVATE": true, "DELUXE": true, "SUITE": true,
	"ICU": true, "NICU": true, "PICU": true, "ISOLATION": true,
	"OPERATION_THEATRE": true, "RECOVERY": true, "EMERGENCY": true,
}

var validBedTypes = map[string]bool{
	"GENERAL": true, "ICU": true, "VENTILATOR": true, "PRIVATE": true,
	"DELUXE": true, "PEDIATRIC": true,
}

// Floor is a physical hospital floor.
type Floor struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Code        string    `db:"code" json:"code"`
	FloorNumber int       `db:"floor_number" json:"floorNumber"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	Notes       *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Ward is a named bed area on a floor. TotalBeds is the declared capacity;
// it is checked against the beds that actually reference the ward.
type Ward struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Code      string    `db:"code" json:"code"`
	WardType  string    `db:"ward_type" json:"wardType"`
	FloorID   uuid.UUID `db:"floor_id" json:"floorId"`
	TotalBeds int       `db:"total_beds" json:"totalBeds"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	Notes     *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Room is a numbered room on a floor.
type Room struct {
	ID           uuid.UUID `db:"id" json:"id"`
	RoomNumber   string    `db:"room_number" json:"roomNumber"`
	FloorID      uuid.UUID `db:"floor_id" json:"floorId"`
	RoomType     string    `db:"room_type" json:"roomType"`
	Capacity     int       `db:"capacity" json:"capacity"`
	OccupiedBeds int       `db:"occupied_beds" json:"occupiedBeds"`
	Amenities    []string  `db:"amenities" json:"amenities,omitempty"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	Notes        *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Patch types carry partial updates. Nil means the field was omitted and the
// stored value is kept; numeric and boolean fields are pointers so an
// explicit zero or false still applies.

type FloorPatch struct {
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	FloorNumber *int    `json:"floorNumber"`
	Notes       *string `json:"notes"`
}

type WardPatch struct {
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	WardType  string    `json:"wardType"`
	FloorID   uuid.UUID `json:"floorId"`
	TotalBeds *int      `json:"totalBeds"`
	Notes     *string   `json:"notes"`
}

type RoomPatch struct {
	RoomNumber   string    `json:"roomNumber"`
	FloorID      uuid.UUID `json:"floorId"`
	RoomType     string    `json:"roomType"`
	Capacity     *int      `json:"capacity"`
	OccupiedBeds *int      `json:"occupiedBeds"`
	Amenities    []string  `json:"amenities"`
	Notes        *string   `json:"notes"`
}

type BedPatch struct {
	BedNumber    string     `json:"bedNumber"`
	BedType      string     `json:"bedType"`
	LocationType string     `json:"bedLocationType"`
	WardID       *uuid.UUID `json:"wardId"`
	RoomID       *uuid.UUID `json:"roomId"`
	FloorID      uuid.UUID  `json:"floorId"`
	IsOccupied   *bool      `json:"isOccupied"`
	Notes        *string    `json:"notes"`
}

// Bed lives in exactly one ward or one room, never both.
type Bed struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	BedNumber    string     `db:"bed_number" json:"bedNumber"`
	BedType      string     `db:"bed_type" json:"bedType"`
	LocationType string     `db:"location_type" json:"bedLocationType"`
	WardID       *uuid.UUID `db:"ward_id" json:"wardId,omitempty"`
	RoomID       *uuid.UUID `db:"room_id" json:"roomId,omitempty"`
	FloorID      uuid.UUID  `db:"floor_id" json:"floorId"`
	IsOccupied   bool       `db:"is_occupied" json:"isOccupied"`
	IsActive     bool       `db:"is_active" json:"isActive"`
	Notes        *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}
