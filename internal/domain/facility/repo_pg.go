package facility

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/platform/db"
)

// =========== Floor Repository ===========

type floorRepoPG struct{ pool *pgxpool.Pool }

func NewFloorRepoPG(pool *pgxpool.Pool) FloorRepository { return &floorRepoPG{pool: pool} }

func (r *floorRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const floorCols = `id, name, code, floor_number, is_active, notes, created_at, updated_at`

func (r *floorRepoPG) scanFloor(row pgx.Row) (*Floor, error) {
	var f Floor
	err := row.Scan(&f.ID, &f.Name, &f.Code, &f.FloorNumber, &f.IsActive, &f.Notes, &f.CreatedAt, &f.UpdatedAt)
	return &f, err
}

func (r *floorRepoPG) Create(ctx context.Context, f *Floor) error {
	f.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO floors (id, name, code, floor_number, is_active, notes)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		f.ID, f.Name, f.Code, f.FloorNumber, f.IsActive, f.Notes)
	return err
}

func (r *floorRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Floor, error) {
	return r.scanFloor(r.conn(ctx).QueryRow(ctx, `SELECT `+floorCols+` FROM floors WHERE id = $1`, id))
}

func (r *floorRepoPG) GetByCode(ctx context.Context, code string) (*Floor, error) {
	return r.scanFloor(r.conn(ctx).QueryRow(ctx, `SELECT `+floorCols+` FROM floors WHERE code = $1`, code))
}

func (r *floorRepoPG) Update(ctx context.Context, f *Floor) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE floors SET name=$2, code=$3, floor_number=$4, is_active=$5, notes=$6, updated_at=NOW()
		WHERE id = $1`,
		f.ID, f.Name, f.Code, f.FloorNumber, f.IsActive, f.Notes)
	return err
}

func (r *floorRepoPG) SoftDelete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE floors SET is_active=false, updated_at=NOW() WHERE id = $1`, id)
	return err
}

func (r *floorRepoPG) List(ctx context.Context, search, orderBy string, limit, offset int) ([]*Floor, int, error) {
	query := `SELECT ` + floorCols + ` FROM floors WHERE is_active = true`
	countQuery := `SELECT COUNT(*) FROM floors WHERE is_active = true`
	var args []interface{}
	idx := 1

	if search != "" {
		clause := fmt.Sprintf(` AND (name ILIKE $%d OR code ILIKE $%d)`, idx, idx)
		query += clause
		countQuery += clause
		args = append(args, "%"+search+"%")
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY ` + orderBy + fmt.Sprintf(` LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Floor
	for rows.Next() {
		f, err := r.scanFloor(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, f)
	}
	return items, total, nil
}

// =========== Ward Repository ===========

type wardRepoPG struct{ pool *pgxpool.Pool }

func NewWardRepoPG(pool *pgxpool.Pool) WardRepository { return &wardRepoPG{pool: pool} }

func (r *wardRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const wardCols = `id, name, code, ward_type, floor_id, total_beds, is_active, notes, created_at, updated_at`

func (r *wardRepoPG) scanWard(row pgx.Row) (*Ward, error) {
	var w Ward
	err := row.Scan(&w.ID, &w.Name, &w.Code, &w.WardType, &w.FloorID, &w.TotalBeds,
		&w.IsActive, &w.Notes, &w.CreatedAt, &w.UpdatedAt)
	return &w, err
}

func (r *wardRepoPG) Create(ctx context.Context, w *Ward) error {
	w.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO wards (id, name, code, ward_type, floor_id, total_beds, is_active, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		w.ID, w.Name, w.Code, w.WardType, w.FloorID, w.TotalBeds, w.IsActive, w.Notes)
	return err
}

func (r *wardRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Ward, error) {
	return r.scanWard(r.conn(ctx).QueryRow(ctx, `SELECT `+wardCols+` FROM wards WHERE id = $1`, id))
}

func (r *wardRepoPG) GetByCode(ctx context.Context, code string) (*Ward, error) {
	return r.scanWard(r.conn(ctx).QueryRow(ctx, `SELECT `+wardCols+` FROM wards WHERE code = $1`, code))
}

func (r *wardRepoPG) Update(ctx context.Context, w *Ward) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE wards SET name=$2, code=$3, ward_type=$4, floor_id=$5, total_beds=$6,
			is_active=$7, notes=$8, updated_at=NOW()
		WHERE id = $1`,
		w.ID, w.Name, w.Code, w.WardType, w.FloorID, w.TotalBeds, w.IsActive, w.Notes)
	return err
}

func (r *wardRepoPG) SoftDelete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE wards SET is_active=false, updated_at=NOW() WHERE id = $1`, id)
	return err
}

func (r *wardRepoPG) List(ctx context.Context, search, orderBy string, limit, offset int) ([]*Ward, int, error) {
	query := `SELECT ` + wardCols + ` FROM wards WHERE is_active = true`
	countQuery := `SELECT COUNT(*) FROM wards WHERE is_active = true`
	var args []interface{}
	idx := 1

	if search != "" {
		clause := fmt.Sprintf(` AND (name ILIKE $%d OR code ILIKE $%d OR ward_type ILIKE $%d)`, idx, idx, idx)
		query += clause
		countQuery += clause
		args = append(args, "%"+search+"%")
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY ` + orderBy + fmt.Sprintf(` LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Ward
	for rows.Next() {
		w, err := r.scanWard(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, w)
	}
	return items, total, nil
}

// =========== Room Repository ===========

type roomRepoPG struct{ pool *pgxpool.Pool }

func NewRoomRepoPG(pool *pgxpool.Pool) RoomRepository { return &roomRepoPG{pool: pool} }

func (r *roomRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const roomCols = `id, room_number, floor_id, room_type, capacity, occupied_beds,
	amenities, is_active, notes, created_at, updated_at`

func (r *roomRepoPG) scanRoom(row pgx.Row) (*Room, error) {
	var rm Room
	err := row.Scan(&rm.ID, &rm.RoomNumber, &rm.FloorID, &rm.RoomType, &rm.Capacity, &rm.OccupiedBeds,
		&rm.Amenities, &rm.IsActive, &rm.Notes, &rm.CreatedAt, &rm.UpdatedAt)
	return &rm, err
}

func (r *roomRepoPG) Create(ctx context.Context, rm *Room) error {
	rm.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO rooms (id, room_number, floor_id, room_type, capacity, occupied_beds,
			amenities, is_active, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		rm.ID, rm.RoomNumber, rm.FloorID, rm.RoomType, rm.Capacity, rm.OccupiedBeds,
		rm.Amenities, rm.IsActive, rm.Notes)
	return err
}

func (r *roomRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Room, error) {
	return r.scanRoom(r.conn(ctx).QueryRow(ctx, `SELECT `+roomCols+` FROM rooms WHERE id = $1`, id))
}

func (r *roomRepoPG) GetByNumberOnFloor(ctx context.Context, roomNumber string, floorID uuid.UUID) (*Room, error) {
	return r.scanRoom(r.conn(ctx).QueryRow(ctx,
		`SELECT `+roomCols+` FROM rooms WHERE room_number = $1 AND floor_id = $2 AND is_active = true`,
		roomNumber, floorID))
}

func (r *roomRepoPG) Update(ctx context.Context, rm *Room) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE rooms SET room_number=$2, floor_id=$3, room_type=$4, capacity=$5,
			occupied_beds=$6, amenities=$7, is_active=$8, notes=$9, updated_at=NOW()
		WHERE id = $1`,
		rm.ID, rm.RoomNumber, rm.FloorID, rm.RoomType, rm.Capacity,
		rm.OccupiedBeds, rm.Amenities, rm.IsActive, rm.Notes)
	return err
}

func (r *roomRepoPG) SoftDelete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE rooms SET is_active=false, updated_at=NOW() WHERE id = $1`, id)
	return err
}

func (r *roomRepoPG) List(ctx context.Context, search, orderBy string, limit, offset int) ([]*Room, int, error) {
	query := `SELECT ` + roomCols + ` FROM rooms WHERE is_active = true`
	countQuery := `SELECT COUNT(*) FROM rooms WHERE is_active = true`
	var args []interface{}
	idx := 1

	if search != "" {
		clause := fmt.Sprintf(` AND (room_number ILIKE $%d OR room_type ILIKE $%d)`, idx, idx)
		query += clause
		countQuery += clause
		args = append(args, "%"+search+"%")
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY ` + orderBy + fmt.Sprintf(` LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Room
	for rows.Next() {
		rm, err := r.scanRoom(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rm)
	}
	return items, total, nil
}

// =========== Bed Repository ===========

type bedRepoPG struct{ pool *pgxpool.Pool }

func NewBedRepoPG(pool *pgxpool.Pool) BedRepository { return &bedRepoPG{pool: pool} }

func (r *bedRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const bedCols = `id, bed_number, bed_type, location_type, ward_id, room_id,
	floor_id, is_occupied, is_active, notes, created_at, updated_at`

func (r *bedRepoPG) scanBed(row pgx.Row) (*Bed, error) {
	var b Bed
	err := row.Scan(&b.ID, &b.BedNumber, &b.BedType, &b.LocationType, &b.WardID, &b.RoomID,
		&b.FloorID, &b.IsOccupied, &b.IsActive, &b.Notes, &b.CreatedAt, &b.UpdatedAt)
	return &b, err
}

func (r *bedRepoPG) Create(ctx context.Context, b *Bed) error {
	b.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO beds (id, bed_number, bed_type, location_type, ward_id, room_id,
			floor_id, is_occupied, is_active, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		b.ID, b.BedNumber, b.BedType, b.LocationType, b.WardID, b.RoomID,
		b.FloorID, b.IsOccupied, b.IsActive, b.Notes)
	return err
}

func (r *bedRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Bed, error) {
	return r.scanBed(r.conn(ctx).QueryRow(ctx, `SELECT `+bedCols+` FROM beds WHERE id = $1`, id))
}

func (r *bedRepoPG) Update(ctx context.Context, b *Bed) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE beds SET bed_number=$2, bed_type=$3, location_type=$4, ward_id=$5,
			room_id=$6, floor_id=$7, is_occupied=$8, is_active=$9, notes=$10, updated_at=NOW()
		WHERE id = $1`,
		b.ID, b.BedNumber, b.BedType, b.LocationType, b.WardID,
		b.RoomID, b.FloorID, b.IsOccupied, b.IsActive, b.Notes)
	return err
}

func (r *bedRepoPG) SoftDelete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE beds SET is_active=false, updated_at=NOW() WHERE id = $1`, id)
	return err
}

func (r *bedRepoPG) List(ctx context.Context, search, orderBy string, limit, offset int) ([]*Bed, int, error) {
	query := `SELECT ` + bedCols + ` FROM beds WHERE is_active = true`
	countQuery := `SELECT COUNT(*) FROM beds WHERE is_active = true`
	var args []interface{}
	idx := 1

	if search != "" {
		clause := fmt.Sprintf(` AND (bed_number ILIKE $%d OR bed_type ILIKE $%d)`, idx, idx)
		query += clause
		countQuery += clause
		args = append(args, "%"+search+"%")
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY ` + orderBy + fmt.Sprintf(` LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Bed
	for rows.Next() {
		b, err := r.scanBed(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, b)
	}
	return items, total, nil
}

func (r *bedRepoPG) CountActiveByWard(ctx context.Context, wardID uuid.UUID) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM beds WHERE ward_id = $1 AND is_active = true`, wardID).Scan(&n)
	return n, err
}

func (r *bedRepoPG) ExistsActiveInLocation(ctx context.Context, bedNumber, locationType string, locationID, excludeID uuid.UUID) (bool, error) {
	col := "ward_id"
	if locationType == LocationRoom {
		col = "room_id"
	}
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM beds
			WHERE bed_number = $1 AND `+col+` = $2 AND is_active = true AND id <> $3
		)`, bedNumber, locationID, excludeID).Scan(&exists)
	return exists, err
}
