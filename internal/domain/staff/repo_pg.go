package staff

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/platform/db"
)

// =========== Doctor Repository ===========

type doctorRepoPG struct{ pool *pgxpool.Pool }

func NewDoctorRepoPG(pool *pgxpool.Pool) DoctorRepository { return &doctorRepoPG{pool: pool} }

func (r *doctorRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const doctorCols = `id, user_id, specialization, department, experience_years,
	bio, education, availability, status, created_at, updated_at`

func (r *doctorRepoPG) scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.UserID, &d.Specialization, &d.Department, &d.ExperienceYears,
		&d.Bio, &d.Education, &d.Availability, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	return &d, err
}

func (r *doctorRepoPG) Create(ctx context.Context, d *Doctor) error {
	d.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO doctors (id, user_id, specialization, department, experience_years,
			bio, education, availability, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		d.ID, d.UserID, d.Specialization, d.Department, d.ExperienceYears,
		d.Bio, d.Education, d.Availability, d.Status)
	return err
}

func (r *doctorRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return r.scanDoctor(r.conn(ctx).QueryRow(ctx, `SELECT `+doctorCols+` FROM doctors WHERE id = $1`, id))
}

func (r *doctorRepoPG) GetByUserID(ctx context.Context, userID uuid.UUID) (*Doctor, error) {
	return r.scanDoctor(r.conn(ctx).QueryRow(ctx, `SELECT `+doctorCols+` FROM doctors WHERE user_id = $1`, userID))
}

func (r *doctorRepoPG) Update(ctx context.Context, d *Doctor) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE doctors SET specialization=$2, department=$3, experience_years=$4,
			bio=$5, education=$6, availability=$7, status=$8, updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.Specialization, d.Department, d.ExperienceYears,
		d.Bio, d.Education, d.Availability, d.Status)
	return err
}

func (r *doctorRepoPG) SoftDelete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE doctors SET status='inactive', updated_at=NOW() WHERE id = $1`, id)
	return err
}

func (r *doctorRepoPG) List(ctx context.Context, search, orderBy string, limit, offset int) ([]*Doctor, int, error) {
	query := `SELECT ` + doctorCols + ` FROM doctors WHERE status = 'active'`
	countQuery := `SELECT COUNT(*) FROM doctors WHERE status = 'active'`
	var args []interface{}
	idx := 1

	if search != "" {
		clause := fmt.Sprintf(` AND (specialization ILIKE $%d OR department ILIKE $%d)`, idx, idx)
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
	var items []*Doctor
	for rows.Next() {
		d, err := r.scanDoctor(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, nil
}

// =========== LabTechnician Repository ===========

type labTechRepoPG struct{ pool *pgxpool.Pool }

func NewLabTechnicianRepoPG(pool *pgxpool.Pool) LabTechnicianRepository {
	return &labTechRepoPG{pool: pool}
}

func (r *labTechRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const labTechCols = `id, user_id, department, is_active, created_at, updated_at`

func (r *labTechRepoPG) scanLabTech(row pgx.Row) (*LabTechnician, error) {
	var lt LabTechnician
	err := row.Scan(&lt.ID, &lt.UserID, &lt.Department, &lt.IsActive, &lt.CreatedAt, &lt.UpdatedAt)
	return &lt, err
}

func (r *labTechRepoPG) Create(ctx context.Context, lt *LabTechnician) error {
	lt.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO lab_technicians (id, user_id, department, is_active)
		VALUES ($1,$2,$3,$4)`,
		lt.ID, lt.UserID, lt.Department, lt.IsActive)
	return err
}

func (r *labTechRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*LabTechnician, error) {
	return r.scanLabTech(r.conn(ctx).QueryRow(ctx, `SELECT `+labTechCols+` FROM lab_technicians WHERE id = $1`, id))
}

func (r *labTechRepoPG) Update(ctx context.Context, lt *LabTechnician) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE lab_technicians SET department=$2, is_active=$3, updated_at=NOW()
		WHERE id = $1`,
		lt.ID, lt.Department, lt.IsActive)
	return err
}

func (r *labTechRepoPG) SoftDelete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE lab_technicians SET is_active=false, updated_at=NOW() WHERE id = $1`, id)
	return err
}

func (r *labTechRepoPG) List(ctx context.Context, search, orderBy string, limit, offset int) ([]*LabTechnician, int, error) {
	query := `SELECT ` + labTechCols + ` FROM lab_technicians WHERE is_active = true`
	countQuery := `SELECT COUNT(*) FROM lab_technicians WHERE is_active = true`
	var args []interface{}
	idx := 1

	if search != "" {
		query += fmt.Sprintf(` AND department ILIKE $%d`, idx)
		countQuery += fmt.Sprintf(` AND department ILIKE $%d`, idx)
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
	var items []*LabTechnician
	for rows.Next() {
		lt, err := r.scanLabTech(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, lt)
	}
	return items, total, nil
}

// =========== Recipient Repository ===========

type recipientRepoPG struct{ pool *pgxpool.Pool }

func NewRecipientRepoPG(pool *pgxpool.Pool) RecipientRepository {
	return &recipientRepoPG{pool: pool}
}

func (r *recipientRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const recipientCols = `id, user_id, desk, is_active, created_at, updated_at`

func (r *recipientRepoPG) scanRecipient(row pgx.Row) (*Recipient, error) {
	var rec Recipient
	err := row.Scan(&rec.ID, &rec.UserID, &rec.Desk, &rec.IsActive, &rec.CreatedAt, &rec.UpdatedAt)
	return &rec, err
}

func (r *recipientRepoPG) Create(ctx context.Context, rec *Recipient) error {
	rec.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO recipients (id, user_id, desk, is_active)
		VALUES ($1,$2,$3,$4)`,
		rec.ID, rec.UserID, rec.Desk, rec.IsActive)
	return err
}

func (r *recipientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Recipient, error) {
	return r.scanRecipient(r.conn(ctx).QueryRow(ctx, `SELECT `+recipientCols+` FROM recipients WHERE id = $1`, id))
}

func (r *recipientRepoPG) Update(ctx context.Context, rec *Recipient) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE recipients SET desk=$2, is_active=$3, updated_at=NOW()
		WHERE id = $1`,
		rec.ID, rec.Desk, rec.IsActive)
	return err
}

func (r *recipientRepoPG) SoftDelete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE recipients SET is_active=false, updated_at=NOW() WHERE id = $1`, id)
	return err
}

func (r *recipientRepoPG) List(ctx context.Context, search, orderBy string, limit, offset int) ([]*Recipient, int, error) {
	query := `SELECT ` + recipientCols + ` FROM recipients WHERE is_active = true`
	countQuery := `SELECT COUNT(*) FROM recipients WHERE is_active = true`
	var args []interface{}
	idx := 1

	if search != "" {
		query += fmt.Sprintf(` AND desk ILIKE $%d`, idx)
		countQuery += fmt.Sprintf(` AND desk ILIKE $%d`, idx)
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
	var items []*Recipient
	for rows.Next() {
		rec, err := r.scanRecipient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rec)
	}
	return items, total, nil
}

// =========== Specialization Repository ===========

type specializationRepoPG struct{ pool *pgxpool.Pool }

func NewSpecializationRepoPG(pool *pgxpool.Pool) SpecializationRepository {
	return &specializationRepoPG{pool: pool}
}

func (r *specializationRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const specializationCols = `id, name, description, is_active, created_at, updated_at`

func (r *specializationRepoPG) scanSpecialization(row pgx.Row) (*Specialization, error) {
	var sp Specialization
	err := row.Scan(&sp.ID, &sp.Name, &sp.Description, &sp.IsActive, &sp.CreatedAt, &sp.UpdatedAt)
	return &sp, err
}

func (r *specializationRepoPG) Create(ctx context.Context, sp *Specialization) error {
	sp.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO specializations (id, name, description, is_active)
		VALUES ($1,$2,$3,$4)`,
		sp.ID, sp.Name, sp.Description, sp.IsActive)
	return err
}

func (r *specializationRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Specialization, error) {
	return r.scanSpecialization(r.conn(ctx).QueryRow(ctx,
		`SELECT `+specializationCols+` FROM specializations WHERE id = $1`, id))
}

func (r *specializationRepoPG) GetByName(ctx context.Context, name string) (*Specialization, error) {
	return r.scanSpecialization(r.conn(ctx).QueryRow(ctx,
		`SELECT `+specializationCols+` FROM specializations WHERE LOWER(name) = LOWER($1)`, name))
}

func (r *specializationRepoPG) Update(ctx context.Context, sp *Specialization) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE specializations SET name=$2, description=$3, is_active=$4, updated_at=NOW()
		WHERE id = $1`,
		sp.ID, sp.Name, sp.Description, sp.IsActive)
	return err
}

func (r *specializationRepoPG) SoftDelete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE specializations SET is_active=false, updated_at=NOW() WHERE id = $1`, id)
	return err
}

func (r *specializationRepoPG) List(ctx context.Context, search, orderBy string, limit, offset int) ([]*Specialization, int, error) {
	query := `SELECT ` + specializationCols + ` FROM specializations WHERE is_active = true`
	countQuery := `SELECT COUNT(*) FROM specializations WHERE is_active = true`
	var args []interface{}
	idx := 1

	if search != "" {
		query += fmt.Sprintf(` AND name ILIKE $%d`, idx)
		countQuery += fmt.Sprintf(` AND name ILIKE $%d`, idx)
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
	var items []*Specialization
	for rows.Next() {
		sp, err := r.scanSpecialization(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, sp)
	}
	return items, total, nil
}

// =========== Degree Repository ===========

type degreeRepoPG struct{ pool *pgxpool.Pool }

func NewDegreeRepoPG(pool *pgxpool.Pool) DegreeRepository { return &degreeRepoPG{pool: pool} }

func (r *degreeRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const degreeCols = `id, name, short_name, level, is_active, created_at, updated_at`

func (r *degreeRepoPG) scanDegree(row pgx.Row) (*Degree, error) {
	var dg Degree
	err := row.Scan(&dg.ID, &dg.Name, &dg.ShortName, &dg.Level, &dg.IsActive, &dg.CreatedAt, &dg.UpdatedAt)
	return &dg, err
}

func (r *degreeRepoPG) Create(ctx context.Context, dg *Degree) error {
	dg.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO degrees (id, name, short_name, level, is_active)
		VALUES ($1,$2,$3,$4,$5)`,
		dg.ID, dg.Name, dg.ShortName, dg.Level, dg.IsActive)
	return err
}

func (r *degreeRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Degree, error) {
	return r.scanDegree(r.conn(ctx).QueryRow(ctx,
		`SELECT `+degreeCols+` FROM degrees WHERE id = $1`, id))
}

func (r *degreeRepoPG) GetByName(ctx context.Context, name string) (*Degree, error) {
	return r.scanDegree(r.conn(ctx).QueryRow(ctx,
		`SELECT `+degreeCols+` FROM degrees WHERE LOWER(name) = LOWER($1)`, name))
}

func (r *degreeRepoPG) Update(ctx context.Context, dg *Degree) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE degrees SET name=$2, short_name=$3, level=$4, is_active=$5, updated_at=NOW()
		WHERE id = $1`,
		dg.ID, dg.Name, dg.ShortName, dg.Level, dg.IsActive)
	return err
}

func (r *degreeRepoPG) SoftDelete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE degrees SET is_active=false, updated_at=NOW() WHERE id = $1`, id)
	return err
}

func (r *degreeRepoPG) List(ctx context.Context, search, orderBy string, limit, offset int) ([]*Degree, int, error) {
	query := `SELECT ` + degreeCols + ` FROM degrees WHERE is_active = true`
	countQuery := `SELECT COUNT(*) FROM degrees WHERE is_active = true`
	var args []interface{}
	idx := 1

	if search != "" {
		clause := fmt.Sprintf(` AND (name ILIKE $%d OR short_name ILIKE $%d)`, idx, idx)
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
	var items []*Degree
	for rows.Next() {
		dg, err := r.scanDegree(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, dg)
	}
	return items, total, nil
}

// =========== Department Repository ===========

type departmentRepoPG struct{ pool *pgxpool.Pool }

func NewDepartmentRepoPG(pool *pgxpool.Pool) DepartmentRepository {
	return &departmentRepoPG{pool: pool}
}

func (r *departmentRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const departmentCols = `id, name, is_active, created_at, updated_at`

func (r *departmentRepoPG) scanDepartment(row pgx.Row) (*Department, error) {
	var dep Department
	err := row.Scan(&dep.ID, &dep.Name, &dep.IsActive, &dep.CreatedAt, &dep.UpdatedAt)
	return &dep, err
}

func (r *departmentRepoPG) Create(ctx context.Context, dep *Department) error {
	dep.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO departments (id, name, is_active) VALUES ($1,$2,$3)`,
		dep.ID, dep.Name, dep.IsActive)
	return err
}

func (r *departmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Department, error) {
	return r.scanDepartment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+departmentCols+` FROM departments WHERE id = $1`, id))
}

func (r *departmentRepoPG) GetByName(ctx context.Context, name string) (*Department, error) {
	return r.scanDepartment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+departmentCols+` FROM departments WHERE LOWER(name) = LOWER($1)`, name))
}

func (r *departmentRepoPG) Update(ctx context.Context, dep *Department) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE departments SET name=$2, is_active=$3, updated_at=NOW() WHERE id = $1`,
		dep.ID, dep.Name, dep.IsActive)
	return err
}

func (r *departmentRepoPG) SoftDelete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE departments SET is_active=false, updated_at=NOW() WHERE id = $1`, id)
	return err
}

func (r *departmentRepoPG) List(ctx context.Context, search, orderBy string, limit, offset int) ([]*Department, int, error) {
	query := `SELECT ` + departmentCols + ` FROM departments WHERE is_active = true`
	countQuery := `SELECT COUNT(*) FROM departments WHERE is_active = true`
	var args []interface{}
	idx := 1

	if search != "" {
		query += fmt.Sprintf(` AND name ILIKE $%d`, idx)
		countQuery += fmt.Sprintf(` AND name ILIKE $%d`, idx)
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
	var items []*Department
	for rows.Next() {
		dep, err := r.scanDepartment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, dep)
	}
	return items, total, nil
}

