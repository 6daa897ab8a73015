package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/platform/db"
)

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository {
	return &patientRepoPG{pool: pool}
}

func (r *patientRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const patientCols = `id, first_name, last_name, gender, dob, age, phone, alt_phone, email,
	profile_image, address, case_type, case_label, opd, ipd, appointment_id, emergency,
	blood_group, allergies, medical_history, chronic_diseases, medications, vitals,
	insurance, emergency_contact, guardian, documents, notes, created_by, is_active,
	created_at, updated_at`

func (r *patientRepoPG) scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Gender, &p.DOB, &p.Age, &p.Phone,
		&p.AltPhone, &p.Email, &p.ProfileImage, &p.Address, &p.CaseType, &p.Case,
		&p.OPD, &p.IPD, &p.AppointmentID, &p.Emergency, &p.BloodGroup, &p.Allergies,
		&p.MedicalHistory, &p.ChronicDiseases, &p.Medications, &p.Vitals, &p.Insurance,
		&p.EmergencyContact, &p.Guardian, &p.Documents, &p.Notes, &p.CreatedBy,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patients (id, first_name, last_name, gender, dob, age, phone, alt_phone,
			email, profile_image, address, case_type, case_label, opd, ipd, appointment_id,
			emergency, blood_group, allergies, medical_history, chronic_diseases, medications,
			vitals, insurance, emergency_contact, guardian, documents, notes, created_by, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,
			$21,$22,$23,$24,$25,$26,$27,$28,$29,$30)`,
		p.ID, p.FirstName, p.LastName, p.Gender, p.DOB, p.Age, p.Phone, p.AltPhone,
		p.Email, p.ProfileImage, p.Address, p.CaseType, p.Case, p.OPD, p.IPD, p.AppointmentID,
		p.Emergency, p.BloodGroup, p.Allergies, p.MedicalHistory, p.ChronicDiseases, p.Medications,
		p.Vitals, p.Insurance, p.EmergencyContact, p.Guardian, p.Documents, p.Notes,
		p.CreatedBy, p.IsActive)
	return err
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return r.scanPatient(r.conn(ctx).QueryRow(ctx,
		`SELECT `+patientCols+` FROM patients WHERE id = $1`, id))
}

func (r *patientRepoPG) Update(ctx context.Context, p *Patient) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patients SET first_name=$2, last_name=$3, gender=$4, dob=$5, age=$6, phone=$7,
			alt_phone=$8, email=$9, profile_image=$10, address=$11, case_type=$12,
			case_label=$13, opd=$14, ipd=$15, appointment_id=$16, emergency=$17,
			blood_group=$18, allergies=$19, medical_history=$20, chronic_diseases=$21,
			medications=$22, vitals=$23, insurance=$24, emergency_contact=$25, guardian=$26,
			documents=$27, notes=$28, is_active=$29, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.FirstName, p.LastName, p.Gender, p.DOB, p.Age, p.Phone,
		p.AltPhone, p.Email, p.ProfileImage, p.Address, p.CaseType,
		p.Case, p.OPD, p.IPD, p.AppointmentID, p.Emergency,
		p.BloodGroup, p.Allergies, p.MedicalHistory, p.ChronicDiseases,
		p.Medications, p.Vitals, p.Insurance, p.EmergencyContact, p.Guardian,
		p.Documents, p.Notes, p.IsActive)
	return err
}

func (r *patientRepoPG) SoftDelete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE patients SET is_active=false, updated_at=NOW() WHERE id = $1`, id)
	return err
}

func (r *patientRepoPG) List(ctx context.Context, search, caseType, orderBy string, limit, offset int) ([]*Patient, int, error) {
	query := `SELECT ` + patientCols + ` FROM patients WHERE is_active = true`
	countQuery := `SELECT COUNT(*) FROM patients WHERE is_active = true`
	var args []interface{}
	idx := 1

	if search != "" {
		clause := fmt.Sprintf(` AND (first_name ILIKE $%d OR last_name ILIKE $%d OR phone ILIKE $%d
			OR email ILIKE $%d OR case_type ILIKE $%d OR address->>'city' ILIKE $%d)`,
			idx, idx, idx, idx, idx, idx)
		query += clause
		countQuery += clause
		args = append(args, "%"+search+"%")
		idx++
	}
	if caseType != "" {
		clause := fmt.Sprintf(` AND case_type = $%d`, idx)
		query += clause
		countQuery += clause
		args = append(args, caseType)
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
	var items []*Patient
	for rows.Next() {
		p, err := r.scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}
