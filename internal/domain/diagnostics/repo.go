package diagnostics

import (
	"context"

	"github.com/google/uuid"
)

type LabTestRepository interface {
	Create(ctx context.Context, lt *LabTest) error
	GetByID(ctx context.Context, id uuid.UUID) (*LabTest, error)
	GetByCode(ctx context.Context, code string) (*LabTest, error)
	Update(ctx context.Context, lt *LabTest) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search, category, orderBy string, limit, offset int) ([]*LabTest, int, error)
}
