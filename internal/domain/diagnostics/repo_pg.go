package diagnostics

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/platform/db"
)

type labTestRepoPG struct{ pool *pgxpool.Pool }

func NewLabTestRepoPG(pool *pgxpool.Pool) LabTestRepository { return &labTestRepoPG{pool: pool} }

func (r *labTestRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const labTestCols = `id, name, code, category, unit, normal_range, sample_type,
	turnaround_time_hours, is_active, created_at, updated_at`

func (r *labTestRepoPG) scanLabTest(row pgx.Row) (*LabTest, error) {
	var lt LabTest
	err := row.Scan(&lt.ID, &lt.Name, &lt.Code, &lt.Category, &lt.Unit, &lt.NormalRange,
		&lt.SampleType, &lt.TurnaroundTimeHours, &lt.IsActive, &lt.CreatedAt, &lt.UpdatedAt)
	return &lt, err
}

func (r *labTestRepoPG) Create(ctx context.Context, lt *LabTest) error {
	lt.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO lab_tests (id, name, code, category, unit, normal_range,
			sample_type, turnaround_time_hours, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		lt.ID, lt.Name, lt.Code, lt.Category, lt.Unit, lt.NormalRange,
		lt.SampleType, lt.TurnaroundTimeHours, lt.IsActive)
	return err
}

func (r *labTestRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*LabTest, error) {
	return r.scanLabTest(r.conn(ctx).QueryRow(ctx, `SELECT `+labTestCols+` FROM lab_tests WHERE id = $1`, id))
}

func (r *labTestRepoPG) GetByCode(ctx context.Context, code string) (*LabTest, error) {
	return r.scanLabTest(r.conn(ctx).QueryRow(ctx, `SELECT `+labTestCols+` FROM lab_tests WHERE code = $1`, code))
}

func (r *labTestRepoPG) Update(ctx context.Context, lt *LabTest) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE lab_tests SET name=$2, code=$3, category=$4, unit=$5, normal_range=$6,
			sample_type=$7, turnaround_time_hours=$8, is_active=$9, updated_at=NOW()
		WHERE id = $1`,
		lt.ID, lt.Name, lt.Code, lt.Category, lt.Unit, lt.NormalRange,
		lt.SampleType, lt.TurnaroundTimeHours, lt.IsActive)
	return err
}

func (r *labTestRepoPG) SoftDelete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE lab_tests SET is_active=false, updated_at=NOW() WHERE id = $1`, id)
	return err
}

func (r *labTestRepoPG) List(ctx context.Context, search, category, orderBy string, limit, offset int) ([]*LabTest, int, error) {
	query := `SELECT ` + labTestCols + ` FROM lab_tests WHERE is_active = true`
	countQuery := `SELECT COUNT(*) FROM lab_tests WHERE is_active = true`
	var args []interface{}
	idx := 1

	if search != "" {
		clause := fmt.Sprintf(` AND (name ILIKE $%d OR code ILIKE $%d)`, idx, idx)
		query += clause
		countQuery += clause
		args = append(args, "%"+search+"%")
		idx++
	}
	if category != "" {
		query += fmt.Sprintf(` AND category = $%d`, idx)
		countQuery += fmt.Sprintf(` AND category = $%d`, idx)
		args = append(args, category)
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
	var items []*LabTest
	for rows.Next() {
		lt, err := r.scanLabTest(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, lt)
	}
	return items, total, nil
}
