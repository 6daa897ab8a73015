package billing

import (
	"context"

	"github.com/google/uuid"
)

type ChargeMasterRepository interface {
	Create(ctx context.Context, cm *ChargeMaster) error
	GetByID(ctx context.Context, id uuid.UUID) (*ChargeMaster, error)
	GetByCodeAndDoctor(ctx context.Context, code string, doctorID *uuid.UUID) (*ChargeMaster, error)
	Update(ctx context.Context, cm *ChargeMaster) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search, chargeType, orderBy string, limit, offset int) ([]*ChargeMaster, int, error)
}

type ChargeRepository interface {
	Create(ctx context.Context, ch *Charge) error
	GetByID(ctx context.Context, id uuid.UUID) (*Charge, error)
	Update(ctx context.Context, ch *Charge) error
	List(ctx context.Context, patientID uuid.UUID, paymentStatus, orderBy string, limit, offset int) ([]*Charge, int, error)
}

type ServiceItemRepository interface {
	Create(ctx context.Context, si *ServiceItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*ServiceItem, error)
	GetByName(ctx context.Context, name string) (*ServiceItem, error)
	Update(ctx context.Context, si *ServiceItem) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search, department, orderBy string, limit, offset int) ([]*ServiceItem, int, error)
}
