package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/platform/db"
)

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepoPG{pool: pool}
}

func (r *appointmentRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const appointmentCols = `id, patient_id, doctor_id, appointment_date, start_time, end_time,
	status, type, reason, notes, created_by, updated_by, is_active, created_at, updated_at`

func (r *appointmentRepoPG) scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.AppointmentDate, &a.StartTime, &a.EndTime,
		&a.Status, &a.Type, &a.Reason, &a.Notes, &a.CreatedBy, &a.UpdatedBy,
		&a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, appointment_date, start_time,
			end_time, status, type, reason, notes, created_by, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		a.ID, a.PatientID, a.DoctorID, a.AppointmentDate, a.StartTime,
		a.EndTime, a.Status, a.Type, a.Reason, a.Notes, a.CreatedBy, a.IsActive)
	return err
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return r.scanAppointment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+appointmentCols+` FROM appointments WHERE id = $1`, id))
}

func (r *appointmentRepoPG) Update(ctx context.Context, a *Appointment) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments SET patient_id=$2, doctor_id=$3, appointment_date=$4,
			start_time=$5, end_time=$6, status=$7, type=$8, reason=$9, notes=$10,
			updated_by=$11, is_active=$12, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.PatientID, a.DoctorID, a.AppointmentDate,
		a.StartTime, a.EndTime, a.Status, a.Type, a.Reason, a.Notes,
		a.UpdatedBy, a.IsActive)
	return err
}

func (r *appointmentRepoPG) SoftDelete(ctx context.Context, id uuid.UUID, updatedBy uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE appointments SET is_active=false, updated_by=$2, updated_at=NOW() WHERE id = $1`,
		id, updatedBy)
	return err
}

func (r *appointmentRepoPG) LockDoctorDay(ctx context.Context, doctorID uuid.UUID, date time.Time) error {
	_, err := r.conn(ctx).Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1), hashtext($2))`,
		doctorID.String(), date.Format("2006-01-02"))
	return err
}

func (r *appointmentRepoPG) FindConflict(ctx context.Context, doctorID uuid.UUID, date time.Time, start, end string, excludeID uuid.UUID) (*Appointment, error) {
	return r.scanAppointment(r.conn(ctx).QueryRow(ctx, `
		SELECT `+appointmentCols+` FROM appointments
		WHERE doctor_id = $1 AND appointment_date = $2
			AND status <> 'cancelled' AND is_active = true
			AND start_time < $3 AND end_time > $4
			AND id <> $5
		LIMIT 1`,
		doctorID, date, end, start, excludeID))
}

func (r *appointmentRepoPG) List(ctx context.Context, search string, from, to *time.Time, orderBy string, limit, offset int) ([]*Appointment, int, error) {
	query := `SELECT ` + appointmentCols + ` FROM appointments WHERE is_active = true`
	countQuery := `SELECT COUNT(*) FROM appointments WHERE is_active = true`
	var args []interface{}
	idx := 1

	if search != "" {
		clause := fmt.Sprintf(` AND (reason ILIKE $%d OR notes ILIKE $%d OR status ILIKE $%d OR type ILIKE $%d)`,
			idx, idx, idx, idx)
		query += clause
		countQuery += clause
		args = append(args, "%"+search+"%")
		idx++
	}
	if from != nil && to != nil {
		clause := fmt.Sprintf(` AND appointment_date BETWEEN $%d AND $%d`, idx, idx+1)
		query += clause
		countQuery += clause
		args = append(args, *from, *to)
		idx += 2
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
	var items []*Appointment
	for rows.Next() {
		a, err := r.scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, nil
}
