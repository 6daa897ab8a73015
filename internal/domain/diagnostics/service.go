package diagnostics

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hms/hms/internal/platform/httperr"
)

const (
	defaultSampleType     = "Blood"
	defaultTurnaroundTime = 24
)

type Service struct {
	labTests LabTestRepository
}

func NewService(labTests LabTestRepository) *Service {
	return &Service{labTests: labTests}
}

func (s *Service) CreateLabTest(ctx context.Context, lt *LabTest) error {
	lt.Name = strings.TrimSpace(lt.Name)
	lt.Code = strings.ToUpper(strings.TrimSpace(lt.Code))
	if lt.Name == "" {
		return httperr.Validation("lab test name is required")
	}
	if lt.Code == "" {
		return httperr.Validation("lab test code is required")
	}
	if !validCategories[lt.Category] {
		return httperr.Validation("invalid lab test category: %s", lt.Category)
	}
	if _, err := s.labTests.GetByCode(ctx, lt.Code); err == nil {
		return httperr.Conflict("lab test code %s already exists", lt.Code)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	if lt.SampleType == "" {
		lt.SampleType = defaultSampleType
	}
	if lt.TurnaroundTimeHours <= 0 {
		lt.TurnaroundTimeHours = defaultTurnaroundTime
	}
	lt.IsActive = true
	return s.labTests.Create(ctx, lt)
}

func (s *Service) GetLabTest(ctx context.Context, id uuid.UUID) (*LabTest, error) {
	lt, err := s.labTests.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httperr.NotFound("lab test not found")
	}
	return lt, err
}

func (s *Service) UpdateLabTest(ctx context.Context, lt *LabTest) error {
	existing, err := s.GetLabTest(ctx, lt.ID)
	if err != nil {
		return err
	}
	if lt.Name == "" {
		lt.Name = existing.Name
	}
	if lt.Code == "" {
		lt.Code = existing.Code
	}
	if lt.Category == "" {
		lt.Category = existing.Category
	}
	if lt.SampleType == "" {
		lt.SampleType = existing.SampleType
	}
	if lt.TurnaroundTimeHours <= 0 {
		lt.TurnaroundTimeHours = existing.TurnaroundTimeHours
	}
	lt.Code = strings.ToUpper(lt.Code)
	lt.IsActive = existing.IsActive

	if !validCategories[lt.Category] {
		return httperr.Validation("invalid lab test category: %s", lt.Category)
	}
	if lt.Code != existing.Code {
		if _, err := s.labTests.GetByCode(ctx, lt.Code); err == nil {
			return httperr.Conflict("lab test code %s already exists", lt.Code)
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
	}
	return s.labTests.Update(ctx, lt)
}

func (s *Service) DeleteLabTest(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetLabTest(ctx, id); err != nil {
		return err
	}
	return s.labTests.SoftDelete(ctx, id)
}

func (s *Service) ListLabTests(ctx context.Context, search, category, orderBy string, limit, offset int) ([]*LabTest, int, error) {
	return s.labTests.List(ctx, search, category, orderBy, limit, offset)
}
