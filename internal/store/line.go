package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"factory-resource-backend/internal/model"
)

// CreateLineParams carries the fields accepted when creating a line.
type CreateLineParams struct {
	Code      string
	Name      string
	FactoryID *int64
	Status    *model.Status
}

// UpdateLineParams carries a partial production-line update.
type UpdateLineParams struct {
	Code         *string
	Name         *string
	FactoryID    *int64
	FactoryIDSet bool
	Status       *model.Status
}

// CreateLine inserts a new production line. A line's factory is an
// organizational grouping, not a binding slot: it does not drive status.
func (s *gormStore) CreateLine(ctx context.Context, p CreateLineParams) (*model.ProductionLine, error) {
	if p.Code == "" {
		return nil, validationf("code", "must not be empty")
	}
	if p.Name == "" {
		return nil, validationf("name", "must not be empty")
	}
	if p.Status != nil && !p.Status.Valid() {
		return nil, validationf("status", "unknown status code %d", int(*p.Status))
	}
	if p.Status != nil && *p.Status == model.StatusOccupied {
		return nil, validationf("status", "occupied is assigned by the scheduler, not set directly")
	}

	line := model.ProductionLine{
		Code:      p.Code,
		Name:      p.Name,
		FactoryID: p.FactoryID,
		Status:    model.StatusAvailable,
	}
	if p.Status != nil {
		line.Status = *p.Status
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := codeTaken(tx, &model.ProductionLine{}, p.Code, 0)
		if err != nil {
			return err
		}
		if taken {
			return conflictf("production line", p.Code)
		}
		if p.FactoryID != nil {
			if err := tx.First(&model.Factory{}, *p.FactoryID).Error; err != nil {
				return notFoundf("factory", *p.FactoryID)
			}
		}
		return tx.Create(&line).Error
	})
	if err != nil {
		return nil, err
	}

	s.record("create", "production_line", fmt.Sprintf("line %s (%s) created", line.Code, line.Name))
	return &line, nil
}

// UpdateLine applies a partial edit to a production line.
func (s *gormStore) UpdateLine(ctx context.Context, id int64, p UpdateLineParams) (*model.ProductionLine, error) {
	if p.Status != nil && !p.Status.Valid() {
		return nil, validationf("status", "unknown status code %d", int(*p.Status))
	}
	if p.Status != nil && *p.Status == model.StatusOccupied {
		return nil, validationf("status", "occupied is assigned by the scheduler, not set directly")
	}

	var line model.ProductionLine
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&line, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFoundf("production line", id)
			}
			return err
		}

		if p.Code != nil && *p.Code != line.Code {
			taken, err := codeTaken(tx, &model.ProductionLine{}, *p.Code, line.ID)
			if err != nil {
				return err
			}
			if taken {
				return conflictf("production line", *p.Code)
			}
			line.Code = *p.Code
		}
		if p.Name != nil {
			line.Name = *p.Name
		}
		if p.FactoryIDSet {
			if p.FactoryID != nil {
				if err := tx.First(&model.Factory{}, *p.FactoryID).Error; err != nil {
					return notFoundf("factory", *p.FactoryID)
				}
			}
			line.FactoryID = p.FactoryID
		}
		if p.Status != nil {
			line.Status = *p.Status
		}

		return tx.Save(&line).Error
	})
	if err != nil {
		return nil, err
	}

	s.record("update", "production_line", fmt.Sprintf("line %s updated, status %s", line.Code, line.Status))
	return &line, nil
}

// DeleteLine removes a production line together with its line-specific
// calendar overrides.
func (s *gormStore) DeleteLine(ctx context.Context, id int64) error {
	var line model.ProductionLine
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&line, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFoundf("production line", id)
			}
			return err
		}
		if err := tx.Where("production_line_id = ?", id).Delete(&model.CalendarEvent{}).Error; err != nil {
			return err
		}
		return tx.Delete(&line).Error
	})
	if err != nil {
		return err
	}

	s.record("delete", "production_line", fmt.Sprintf("line %s deleted", line.Code))
	return nil
}

// GetLine returns one production line by id.
func (s *gormStore) GetLine(ctx context.Context, id int64) (*model.ProductionLine, error) {
	var line model.ProductionLine
	if err := s.db.WithContext(ctx).First(&line, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundf("production line", id)
		}
		return nil, err
	}
	return &line, nil
}

// ListLines returns all production lines ordered by id.
func (s *gormStore) ListLines(ctx context.Context) ([]model.ProductionLine, error) {
	var lines []model.ProductionLine
	if err := s.db.WithContext(ctx).Order("id").Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}
