package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"factory-resource-backend/internal/model"
)

// CreateStaffParams carries the fields accepted when creating a staff member.
type CreateStaffParams struct {
	Code   string
	Name   string
	Role   string
	TeamID *int64
	Status *model.Status
}

// UpdateStaffParams carries a partial staff update.
type UpdateStaffParams struct {
	Code        *string
	Name        *string
	Role        *string
	TeamID      *int64
	TeamIDSet   bool
	Status      *model.Status
	ForceUnbind bool
}

// CreateStaff inserts a new staff member. Assigning a team at creation
// makes the staff occupied: team membership is the staff's binding.
func (s *gormStore) CreateStaff(ctx context.Context, p CreateStaffParams) (*model.Staff, error) {
	if p.Code == "" {
		return nil, validationf("code", "must not be empty")
	}
	if p.Name == "" {
		return nil, validationf("name", "must not be empty")
	}
	if p.Status != nil && !p.Status.Valid() {
		return nil, validationf("status", "unknown status code %d", int(*p.Status))
	}

	staff := model.Staff{
		Code:   p.Code,
		Name:   p.Name,
		Role:   p.Role,
		TeamID: p.TeamID,
		Status: model.StatusAvailable,
	}
	if p.Status != nil {
		staff.Status = *p.Status
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := codeTaken(tx, &model.Staff{}, p.Code, 0)
		if err != nil {
			return err
		}
		if taken {
			return conflictf("staff", p.Code)
		}

		if p.TeamID != nil {
			if err := tx.First(&model.Team{}, *p.TeamID).Error; err != nil {
				return notFoundf("team", *p.TeamID)
			}
			staff.Status = model.StatusOccupied
		} else if staff.Status == model.StatusOccupied {
			return validationf("status", "occupied is only reachable by joining a team")
		}

		return tx.Create(&staff).Error
	})
	if err != nil {
		return nil, err
	}

	s.record("create", "staff", fmt.Sprintf("staff %s (%s) created, status %s", staff.Code, staff.Name, staff.Status))
	return &staff, nil
}

// UpdateStaff applies a partial staff edit. Moving into a team forces
// occupied; leaving it resets to available; an explicit available while
// still on a team is the confirm-required path.
func (s *gormStore) UpdateStaff(ctx context.Context, id int64, p UpdateStaffParams) (*model.Staff, error) {
	if p.Status != nil && !p.Status.Valid() {
		return nil, validationf("status", "unknown status code %d", int(*p.Status))
	}

	var staff model.Staff
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&staff, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFoundf("staff", id)
			}
			return err
		}

		if p.Code != nil && *p.Code != staff.Code {
			taken, err := codeTaken(tx, &model.Staff{}, *p.Code, staff.ID)
			if err != nil {
				return err
			}
			if taken {
				return conflictf("staff", *p.Code)
			}
			staff.Code = *p.Code
		}
		if p.Name != nil {
			staff.Name = *p.Name
		}
		if p.Role != nil {
			staff.Role = *p.Role
		}

		var newlyBound, cleared bool
		if p.TeamIDSet {
			if p.TeamID != nil {
				if err := tx.First(&model.Team{}, *p.TeamID).Error; err != nil {
					return notFoundf("team", *p.TeamID)
				}
				staff.TeamID = p.TeamID
				newlyBound = true
			} else if staff.TeamID != nil {
				staff.TeamID = nil
				cleared = true
			}
		}

		switch {
		case newlyBound:
			staff.Status = model.StatusOccupied
		case cleared && p.Status == nil:
			staff.Status = model.StatusAvailable
		case p.Status != nil:
			switch *p.Status {
			case model.StatusOccupied:
				if staff.Status != model.StatusOccupied {
					return validationf("status", "occupied is only reachable by joining a team")
				}
			case model.StatusAvailable:
				if staff.TeamID != nil {
					if !p.ForceUnbind {
						return &ConfirmRequiredError{SlotName: teamName(tx, *staff.TeamID)}
					}
					staff.TeamID = nil
				}
				staff.Status = model.StatusAvailable
			case model.StatusUnavailable:
				staff.Status = model.StatusUnavailable
			}
		}

		return tx.Save(&staff).Error
	})
	if err != nil {
		return nil, err
	}

	s.record("update", "staff", fmt.Sprintf("staff %s updated, status %s", staff.Code, staff.Status))
	return &staff, nil
}

// DeleteStaff removes a staff member.
func (s *gormStore) DeleteStaff(ctx context.Context, id int64) error {
	var staff model.Staff
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&staff, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFoundf("staff", id)
			}
			return err
		}
		return tx.Delete(&staff).Error
	})
	if err != nil {
		return err
	}

	s.record("delete", "staff", fmt.Sprintf("staff %s deleted", staff.Code))
	return nil
}

// GetStaff returns one staff member by id.
func (s *gormStore) GetStaff(ctx context.Context, id int64) (*model.Staff, error) {
	var staff model.Staff
	if err := s.db.WithContext(ctx).First(&staff, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundf("staff", id)
		}
		return nil, err
	}
	return &staff, nil
}

// ListStaff returns all staff ordered by id.
func (s *gormStore) ListStaff(ctx context.Context) ([]model.Staff, error) {
	var staff []model.Staff
	if err := s.db.WithContext(ctx).Order("id").Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

// teamName resolves a team's display name for error payloads.
func teamName(tx *gorm.DB, id int64) string {
	var team model.Team
	if err := tx.First(&team, id).Error; err == nil {
		return team.Name
	}
	return fmt.Sprintf("team %d", id)
}
