package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"factory-resource-backend/internal/model"
)

// CreateStationParams carries the fields accepted when creating a station.
type CreateStationParams struct {
	Code             string
	Name             string
	ProductionLineID *int64
	Status           *model.Status
}

// UpdateStationParams carries a partial station update.
type UpdateStationParams struct {
	Code             *string
	Name             *string
	ProductionLineID *int64
	LineIDSet        bool
	Status           *model.Status
	ForceUnbind      bool
}

// CreateStation inserts a new station. Placing it on a line at creation
// makes it occupied immediately.
func (s *gormStore) CreateStation(ctx context.Context, p CreateStationParams) (*model.Station, error) {
	if p.Code == "" {
		return nil, validationf("code", "must not be empty")
	}
	if p.Name == "" {
		return nil, validationf("name", "must not be empty")
	}
	if p.Status != nil && !p.Status.Valid() {
		return nil, validationf("status", "unknown status code %d", int(*p.Status))
	}

	station := model.Station{
		Code:             p.Code,
		Name:             p.Name,
		ProductionLineID: p.ProductionLineID,
		Status:           model.StatusAvailable,
	}
	if p.Status != nil {
		station.Status = *p.Status
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := codeTaken(tx, &model.Station{}, p.Code, 0)
		if err != nil {
			return err
		}
		if taken {
			return conflictf("station", p.Code)
		}

		if p.ProductionLineID != nil {
			if err := tx.First(&model.ProductionLine{}, *p.ProductionLineID).Error; err != nil {
				return notFoundf("production line", *p.ProductionLineID)
			}
			station.Status = model.StatusOccupied
		} else if station.Status == model.StatusOccupied {
			return validationf("status", "occupied is only reachable by binding to a production line")
		}

		return tx.Create(&station).Error
	})
	if err != nil {
		return nil, err
	}

	s.record("create", "station", fmt.Sprintf("station %s (%s) created, status %s", station.Code, station.Name, station.Status))
	return &station, nil
}

// UpdateStation applies a partial edit to a station with the same
// bind-over-status precedence the other resource kinds follow.
func (s *gormStore) UpdateStation(ctx context.Context, id int64, p UpdateStationParams) (*model.Station, error) {
	if p.Status != nil && !p.Status.Valid() {
		return nil, validationf("status", "unknown status code %d", int(*p.Status))
	}

	var station model.Station
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&station, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFoundf("station", id)
			}
			return err
		}

		if p.Code != nil && *p.Code != station.Code {
			taken, err := codeTaken(tx, &model.Station{}, *p.Code, station.ID)
			if err != nil {
				return err
			}
			if taken {
				return conflictf("station", *p.Code)
			}
			station.Code = *p.Code
		}
		if p.Name != nil {
			station.Name = *p.Name
		}

		var newlyBound, cleared bool
		if p.LineIDSet {
			if p.ProductionLineID != nil {
				if err := tx.First(&model.ProductionLine{}, *p.ProductionLineID).Error; err != nil {
					return notFoundf("production line", *p.ProductionLineID)
				}
				station.ProductionLineID = p.ProductionLineID
				newlyBound = true
			} else if station.ProductionLineID != nil {
				station.ProductionLineID = nil
				cleared = true
			}
		}

		switch {
		case newlyBound:
			station.Status = model.StatusOccupied
		case cleared && p.Status == nil:
			station.Status = model.StatusAvailable
		case p.Status != nil:
			switch *p.Status {
			case model.StatusOccupied:
				if station.Status != model.StatusOccupied {
					return validationf("status", "occupied is only reachable by binding to a production line")
				}
			case model.StatusAvailable:
				if station.ProductionLineID != nil {
					if !p.ForceUnbind {
						return &ConfirmRequiredError{SlotName: lineName(tx, *station.ProductionLineID)}
					}
					station.ProductionLineID = nil
				}
				station.Status = model.StatusAvailable
			case model.StatusUnavailable:
				station.Status = model.StatusUnavailable
			}
		}

		return tx.Save(&station).Error
	})
	if err != nil {
		return nil, err
	}

	s.record("update", "station", fmt.Sprintf("station %s updated, status %s", station.Code, station.Status))
	return &station, nil
}

// BindStationsToLine binds a batch of stations to one production line.
func (s *gormStore) BindStationsToLine(ctx context.Context, stationIDs []int64, lineID int64) error {
	if len(stationIDs) == 0 {
		return validationf("stationIds", "must not be empty")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&model.ProductionLine{}, lineID).Error; err != nil {
			return notFoundf("production line", lineID)
		}

		var stations []model.Station
		if err := tx.Find(&stations, stationIDs).Error; err != nil {
			return err
		}
		if len(stations) != len(stationIDs) {
			found := make(map[int64]bool, len(stations))
			for _, st := range stations {
				found[st.ID] = true
			}
			for _, id := range stationIDs {
				if !found[id] {
					return notFoundf("station", id)
				}
			}
		}

		for i := range stations {
			stations[i].ProductionLineID = &lineID
			stations[i].Status = model.StatusOccupied
			if err := tx.Save(&stations[i]).Error; err != nil {
				return fmt.Errorf("failed to bind station %d: %w", stations[i].ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.record("bind", "station", fmt.Sprintf("%d station(s) bound to production line %d", len(stationIDs), lineID))
	return nil
}

// UnbindStation takes a station off its line and resets it to available.
func (s *gormStore) UnbindStation(ctx context.Context, id int64) (*model.Station, error) {
	var station model.Station
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&station, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFoundf("station", id)
			}
			return err
		}
		station.ProductionLineID = nil
		station.Status = model.StatusAvailable
		return tx.Save(&station).Error
	})
	if err != nil {
		return nil, err
	}

	s.record("unbind", "station", fmt.Sprintf("station %s released", station.Code))
	return &station, nil
}

// DeleteStation removes a station.
func (s *gormStore) DeleteStation(ctx context.Context, id int64) error {
	var station model.Station
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&station, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFoundf("station", id)
			}
			return err
		}
		return tx.Delete(&station).Error
	})
	if err != nil {
		return err
	}

	s.record("delete", "station", fmt.Sprintf("station %s deleted", station.Code))
	return nil
}

// GetStation returns one station by id.
func (s *gormStore) GetStation(ctx context.Context, id int64) (*model.Station, error) {
	var station model.Station
	if err := s.db.WithContext(ctx).First(&station, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundf("station", id)
		}
		return nil, err
	}
	return &station, nil
}

// ListStations returns all stations ordered by id.
func (s *gormStore) ListStations(ctx context.Context) ([]model.Station, error) {
	var stations []model.Station
	if err := s.db.WithContext(ctx).Order("id").Find(&stations).Error; err != nil {
		return nil, err
	}
	return stations, nil
}

// lineName resolves a production line's display name for error payloads.
func lineName(tx *gorm.DB, id int64) string {
	var line model.ProductionLine
	if err := tx.First(&line, id).Error; err == nil {
		return line.Name
	}
	return fmt.Sprintf("production line %d", id)
}
