package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/platform/db"
)

// =========== ChargeMaster Repository ===========

type chargeMasterRepoPG struct{ pool *pgxpool.Pool }

func NewChargeMasterRepoPG(pool *pgxpool.Pool) ChargeMasterRepository {
	return &chargeMasterRepoPG{pool: pool}
}

func (r *chargeMasterRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const chargeMasterCols = `id, name, code, charge_type, amount, currency, gst_applicable,
	gst_rate, gst_type, hsn_code, tax_inclusive, lab_test_id, doctor_id,
	effective_from, effective_to, is_active, created_at, updated_at`

func (r *chargeMasterRepoPG) scanChargeMaster(row pgx.Row) (*ChargeMaster, error) {
	var cm ChargeMaster
	err := row.Scan(&cm.ID, &cm.Name, &cm.Code, &cm.ChargeType, &cm.Amount, &cm.Currency,
		&cm.GSTApplicable, &cm.GSTRate, &cm.GSTType, &cm.HSNCode, &cm.TaxInclusive,
		&cm.LabTestID, &cm.DoctorID, &cm.EffectiveFrom, &cm.EffectiveTo,
		&cm.IsActive, &cm.CreatedAt, &cm.UpdatedAt)
	return &cm, err
}

func (r *chargeMasterRepoPG) Create(ctx context.Context, cm *ChargeMaster) error {
	cm.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO charge_masters (id, name, code, charge_type, amount, currency,
			gst_applicable, gst_rate, gst_type, hsn_code, tax_inclusive,
			lab_test_id, doctor_id, effective_from, effective_to, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
		cm.ID, cm.Name, cm.Code, cm.ChargeType, cm.Amount, cm.Currency,
		cm.GSTApplicable, cm.GSTRate, cm.GSTType, cm.HSNCode, cm.TaxInclusive,
		cm.LabTestID, cm.DoctorID, cm.EffectiveFrom, cm.EffectiveTo, cm.IsActive)
	return err
}

func (r *chargeMasterRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*ChargeMaster, error) {
	return r.scanChargeMaster(r.conn(ctx).QueryRow(ctx,
		`SELECT `+chargeMasterCols+` FROM charge_masters WHERE id = $1`, id))
}

func (r *chargeMasterRepoPG) GetByCodeAndDoctor(ctx context.Context, code string, doctorID *uuid.UUID) (*ChargeMaster, error) {
	if doctorID == nil {
		return r.scanChargeMaster(r.conn(ctx).QueryRow(ctx, `
			SELECT `+chargeMasterCols+` FROM charge_masters
			WHERE code = $1 AND doctor_id IS NULL AND is_active = true`, code))
	}
	return r.scanChargeMaster(r.conn(ctx).QueryRow(ctx, `
		SELECT `+chargeMasterCols+` FROM charge_masters
		WHERE code = $1 AND doctor_id = $2 AND is_active = true`, code, *doctorID))
}

func (r *chargeMasterRepoPG) Update(ctx context.Context, cm *ChargeMaster) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE charge_masters SET name=$2, code=$3, charge_type=$4, amount=$5, currency=$6,
			gst_applicable=$7, gst_rate=$8, gst_type=$9, hsn_code=$10, tax_inclusive=$11,
			lab_test_id=$12, doctor_id=$13, effective_from=$14, effective_to=$15,
			is_active=$16, updated_at=NOW()
		WHERE id = $1`,
		cm.ID, cm.Name, cm.Code, cm.ChargeType, cm.Amount, cm.Currency,
		cm.GSTApplicable, cm.GSTRate, cm.GSTType, cm.HSNCode, cm.TaxInclusive,
		cm.LabTestID, cm.DoctorID, cm.EffectiveFrom, cm.EffectiveTo, cm.IsActive)
	return err
}

func (r *chargeMasterRepoPG) SoftDelete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE charge_masters SET is_active=false, updated_at=NOW() WHERE id = $1`, id)
	return err
}

func (r *chargeMasterRepoPG) List(ctx context.Context, search, chargeType, orderBy string, limit, offset int) ([]*ChargeMaster, int, error) {
	query := `SELECT ` + chargeMasterCols + ` FROM charge_masters WHERE is_active = true`
	countQuery := `SELECT COUNT(*) FROM charge_masters WHERE is_active = true`
	var args []interface{}
	idx := 1

	if search != "" {
		clause := fmt.Sprintf(` AND (name ILIKE $%d OR code ILIKE $%d)`, idx, idx)
		query += clause
		countQuery += clause
		args = append(args, "%"+search+"%")
		idx++
	}
	if chargeType != "" {
		clause := fmt.Sprintf(` AND charge_type = $%d`, idx)
		query += clause
		countQuery += clause
		args = append(args, chargeType)
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
	var items []*ChargeMaster
	for rows.Next() {
		cm, err := r.scanChargeMaster(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, cm)
	}
	return items, total, nil
}

// =========== Charge Repository ===========

type chargeRepoPG struct{ pool *pgxpool.Pool }

func NewChargeRepoPG(pool *pgxpool.Pool) ChargeRepository { return &chargeRepoPG{pool: pool} }

func (r *chargeRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const chargeCols = `id, patient_id, doctor_id, charge_master_id, case_type, amount,
	paid_amount, balance_amount, payment_status, reference_id, created_at, updated_at`

func (r *chargeRepoPG) scanCharge(row pgx.Row) (*Charge, error) {
	var ch Charge
	err := row.Scan(&ch.ID, &ch.PatientID, &ch.DoctorID, &ch.ChargeMasterID, &ch.CaseType,
		&ch.Amount, &ch.PaidAmount, &ch.BalanceAmount, &ch.PaymentStatus, &ch.ReferenceID,
		&ch.CreatedAt, &ch.UpdatedAt)
	return &ch, err
}

func (r *chargeRepoPG) Create(ctx context.Context, ch *Charge) error {
	ch.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO charges (id, patient_id, doctor_id, charge_master_id, case_type,
			amount, paid_amount, balance_amount, payment_status, reference_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		ch.ID, ch.PatientID, ch.DoctorID, ch.ChargeMasterID, ch.CaseType,
		ch.Amount, ch.PaidAmount, ch.BalanceAmount, ch.PaymentStatus, ch.ReferenceID)
	return err
}

func (r *chargeRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Charge, error) {
	return r.scanCharge(r.conn(ctx).QueryRow(ctx,
		`SELECT `+chargeCols+` FROM charges WHERE id = $1`, id))
}

func (r *chargeRepoPG) Update(ctx context.Context, ch *Charge) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE charges SET paid_amount=$2, balance_amount=$3, payment_status=$4, updated_at=NOW()
		WHERE id = $1`,
		ch.ID, ch.PaidAmount, ch.BalanceAmount, ch.PaymentStatus)
	return err
}

func (r *chargeRepoPG) List(ctx context.Context, patientID uuid.UUID, paymentStatus, orderBy string, limit, offset int) ([]*Charge, int, error) {
	query := `SELECT ` + chargeCols + ` FROM charges WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM charges WHERE 1=1`
	var args []interface{}
	idx := 1

	if patientID != uuid.Nil {
		clause := fmt.Sprintf(` AND patient_id = $%d`, idx)
		query += clause
		countQuery += clause
		args = append(args, patientID)
		idx++
	}
	if paymentStatus != "" {
		clause := fmt.Sprintf(` AND payment_status = $%d`, idx)
		query += clause
		countQuery += clause
		args = append(args, paymentStatus)
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
	var items []*Charge
	for rows.Next() {
		ch, err := r.scanCharge(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, ch)
	}
	return items, total, nil
}

// =========== ServiceItem Repository ===========

type serviceItemRepoPG struct{ pool *pgxpool.Pool }

func NewServiceItemRepoPG(pool *pgxpool.Pool) ServiceItemRepository {
	return &serviceItemRepoPG{pool: pool}
}

func (r *serviceItemRepoPG) conn(ctx context.Context) db.Queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const serviceItemCols = `id, service_name, description, price, department, is_active, created_at, updated_at`

func (r *serviceItemRepoPG) scanServiceItem(row pgx.Row) (*ServiceItem, error) {
	var si ServiceItem
	err := row.Scan(&si.ID, &si.ServiceName, &si.Description, &si.Price, &si.Department,
		&si.IsActive, &si.CreatedAt, &si.UpdatedAt)
	return &si, err
}

func (r *serviceItemRepoPG) Create(ctx context.Context, si *ServiceItem) error {
	si.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO services (id, service_name, description, price, department, is_active)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		si.ID, si.ServiceName, si.Description, si.Price, si.Department, si.IsActive)
	return err
}

func (r *serviceItemRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*ServiceItem, error) {
	return r.scanServiceItem(r.conn(ctx).QueryRow(ctx,
		`SELECT `+serviceItemCols+` FROM services WHERE id = $1`, id))
}

func (r *serviceItemRepoPG) GetByName(ctx context.Context, name string) (*ServiceItem, error) {
	return r.scanServiceItem(r.conn(ctx).QueryRow(ctx,
		`SELECT `+serviceItemCols+` FROM services WHERE LOWER(service_name) = LOWER($1)`, name))
}

func (r *serviceItemRepoPG) Update(ctx context.Context, si *ServiceItem) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE services SET service_name=$2, description=$3, price=$4, department=$5,
			is_active=$6, updated_at=NOW()
		WHERE id = $1`,
		si.ID, si.ServiceName, si.Description, si.Price, si.Department, si.IsActive)
	return err
}

func (r *serviceItemRepoPG) SoftDelete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE services SET is_active=false, updated_at=NOW() WHERE id = $1`, id)
	return err
}

func (r *serviceItemRepoPG) List(ctx context.Context, search, department, orderBy string, limit, offset int) ([]*ServiceItem, int, error) {
	query := `SELECT ` + serviceItemCols + ` FROM services WHERE is_active = true`
	countQuery := `SELECT COUNT(*) FROM services WHERE is_active = true`
	var args []interface{}
	idx := 1

	if search != "" {
		clause := fmt.Sprintf(` AND (service_name ILIKE $%d OR department ILIKE $%d)`, idx, idx)
		query += clause
		countQuery += clause
		args = append(args, "%"+search+"%")
		idx++
	}
	if department != "" {
		clause := fmt.Sprintf(` AND department = $%d`, idx)
		query += clause
		countQuery += clause
		args = append(args, department)
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
	var items []*ServiceItem
	for rows.Next() {
		si, err := r.scanServiceItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, si)
	}
	return items, total, nil
}
