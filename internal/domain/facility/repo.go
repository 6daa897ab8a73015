package facility

import (
	"context"

	"github.com/google/uuid"
)

type FloorRepository interface {
	Create(ctx context.Context, f *Floor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Floor, error)
	GetByCode(ctx context.Context, code string) (*Floor, error)
	Update(ctx context.Context, f *Floor) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search, orderBy string, limit, offset int) ([]*Floor, int, error)
}

type WardRepository interface {
	Create(ctx context.Context, w *Ward) error
	GetByID(ctx context.Context, id uuid.UUID) (*Ward, error)
	GetByCode(ctx context.Context, code string) (*Ward, error)
	Update(ctx context.Context, w *Ward) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search, orderBy string, limit, offset int) ([]*Ward, int, error)
}

type RoomRepository interface {
	Create(ctx context.Context, r *Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*Room, error)
	GetByNumberOnFloor(ctx context.Context, roomNumber string, floorID uuid.UUID) (*Room, error)
	Update(ctx context.Context, r *Room) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search, orderBy string, limit, offset int) ([]*Room, int, error)
}

type BedRepository interface {
	Create(ctx context.Context, b *Bed) error
	GetByID(ctx context.Context, id uuid.UUID) (*Bed, error)
	Update(ctx context.Context, b *Bed) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search, orderBy string, limit, offset int) ([]*Bed, int, error)
	CountActiveByWard(ctx context.Context, wardID uuid.UUID) (int, error)
	// ExistsActiveInLocation reports whether an active bed with the number
	// already sits in the given ward or room. excludeID skips the bed being
	// updated.
	ExistsActiveInLocation(ctx context.Context, bedNumber, locationType string, locationID, excludeID uuid.UUID) (bool, error)
}
