package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"factory-resource-backend/internal/model"
)

// CreateFactoryParams carries the fields accepted when creating a factory.
type CreateFactoryParams struct {
	Code    string
	Name    string
	Address string
	Status  *model.Status
}

// UpdateFactoryParams carries a partial factory update.
type UpdateFactoryParams struct {
	Code    *string
	Name    *string
	Address *string
	Status  *model.Status
}

// CreateFactory inserts a new factory. Factories sit at the top of the
// hierarchy and have no binding slot, so any valid status may be set
// directly (occupied here means "at capacity", not "bound").
func (s *gormStore) CreateFactory(ctx context.Context, p CreateFactoryParams) (*model.Factory, error) {
	if p.Code == "" {
		return nil, validationf("code", "must not be empty")
	}
	if p.Name == "" {
		return nil, validationf("name", "must not be empty")
	}
	if p.Status != nil && !p.Status.Valid() {
		return nil, validationf("status", "unknown status code %d", int(*p.Status))
	}

	factory := model.Factory{
		Code:    p.Code,
		Name:    p.Name,
		Address: p.Address,
		Status:  model.StatusAvailable,
	}
	if p.Status != nil {
		factory.Status = *p.Status
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := codeTaken(tx, &model.Factory{}, p.Code, 0)
		if err != nil {
			return err
		}
		if taken {
			return conflictf("factory", p.Code)
		}
		return tx.Create(&factory).Error
	})
	if err != nil {
		return nil, err
	}

	s.record("create", "factory", fmt.Sprintf("factory %s (%s) created", factory.Code, factory.Name))
	return &factory, nil
}

// UpdateFactory applies a partial factory edit.
func (s *gormStore) UpdateFactory(ctx context.Context, id int64, p UpdateFactoryParams) (*model.Factory, error) {
	if p.Status != nil && !p.Status.Valid() {
		return nil, validationf("status", "unknown status code %d", int(*p.Status))
	}

	var factory model.Factory
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&factory, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFoundf("factory", id)
			}
			return err
		}

		if p.Code != nil && *p.Code != factory.Code {
			taken, err := codeTaken(tx, &model.Factory{}, *p.Code, factory.ID)
			if err != nil {
				return err
			}
			if taken {
				return conflictf("factory", *p.Code)
			}
			factory.Code = *p.Code
		}
		if p.Name != nil {
			factory.Name = *p.Name
		}
		if p.Address != nil {
			factory.Address = *p.Address
		}
		if p.Status != nil {
			factory.Status = *p.Status
		}

		return tx.Save(&factory).Error
	})
	if err != nil {
		return nil, err
	}

	s.record("update", "factory", fmt.Sprintf("factory %s updated", factory.Code))
	return &factory, nil
}

// DeleteFactory removes a factory.
func (s *gormStore) DeleteFactory(ctx context.Context, id int64) error {
	var factory model.Factory
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&factory, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFoundf("factory", id)
			}
			return err
		}
		return tx.Delete(&factory).Error
	})
	if err != nil {
		return err
	}

	s.record("delete", "factory", fmt.Sprintf("factory %s deleted", factory.Code))
	return nil
}

// GetFactory returns one factory with its lines preloaded.
func (s *gormStore) GetFactory(ctx context.Context, id int64) (*model.Factory, error) {
	var factory model.Factory
	if err := s.db.WithContext(ctx).Preload("Lines").First(&factory, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundf("factory", id)
		}
		return nil, err
	}
	return &factory, nil
}

// ListFactories returns all factories ordered by id.
func (s *gormStore) ListFactories(ctx context.Context) ([]model.Factory, error) {
	var factories []model.Factory
	if err := s.db.WithContext(ctx).Order("id").Find(&factories).Error; err != nil {
		return nil, err
	}
	return factories, nil
}
