package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"factory-resource-backend/internal/model"
)

// CreateTeamParams carries the fields accepted when creating a team.
type CreateTeamParams struct {
	Code             string
	Name             string
	StationID        *int64
	ProductionLineID *int64
	Status           *model.Status
	MemberIDs        []int64
}

// UpdateTeamParams carries a partial team update. MemberIDs, when present,
// replaces the member list wholesale.
type UpdateTeamParams struct {
	Code             *string
	Name             *string
	StationID        *int64
	StationIDSet     bool
	ProductionLineID *int64
	LineIDSet        bool
	Status           *model.Status
	ForceUnbind      bool
	MemberIDs        *[]int64
}

// CreateTeam inserts a new team and enrolls its initial members. Enrolled
// staff become occupied: membership is the staff's binding.
func (s *gormStore) CreateTeam(ctx context.Context, p CreateTeamParams) (*model.Team, error) {
	if p.Code == "" {
		return nil, validationf("code", "must not be empty")
	}
	if p.Name == "" {
		return nil, validationf("name", "must not be empty")
	}
	if p.StationID != nil && p.ProductionLineID != nil {
		return nil, validationf("stationId", "a team binds to a station or a production line, not both")
	}
	if p.Status != nil && !p.Status.Valid() {
		return nil, validationf("status", "unknown status code %d", int(*p.Status))
	}

	team := model.Team{
		Code:             p.Code,
		Name:             p.Name,
		StationID:        p.StationID,
		ProductionLineID: p.ProductionLineID,
		Status:           model.StatusAvailable,
	}
	if p.Status != nil {
		team.Status = *p.Status
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := codeTaken(tx, &model.Team{}, p.Code, 0)
		if err != nil {
			return err
		}
		if taken {
			return conflictf("team", p.Code)
		}

		if p.StationID != nil {
			if err := tx.First(&model.Station{}, *p.StationID).Error; err != nil {
				return notFoundf("station", *p.StationID)
			}
		}
		if p.ProductionLineID != nil {
			if err := tx.First(&model.ProductionLine{}, *p.ProductionLineID).Error; err != nil {
				return notFoundf("production line", *p.ProductionLineID)
			}
		}
		// A binding supplied at creation wins over any status also supplied.
		if team.Bound() {
			team.Status = model.StatusOccupied
		} else if team.Status == model.StatusOccupied {
			return validationf("status", "occupied is only reachable by binding to a slot")
		}

		if err := tx.Create(&team).Error; err != nil {
			return fmt.Errorf("failed to create team: %w", err)
		}
		return enrollMembers(tx, team.ID, p.MemberIDs)
	})
	if err != nil {
		return nil, err
	}

	s.record("create", "team", fmt.Sprintf("team %s (%s) created with %d member(s)", team.Code, team.Name, len(p.MemberIDs)))
	return s.GetTeam(ctx, team.ID)
}

// UpdateTeam applies a partial team edit. A non-null binding in the request
// always forces the team occupied, regardless of any status supplied in the
// same request. Clearing the binding without an explicit status resets the
// team and its members to available.
func (s *gormStore) UpdateTeam(ctx context.Context, id int64, p UpdateTeamParams) (*model.Team, error) {
	if p.StationIDSet && p.LineIDSet && p.StationID != nil && p.ProductionLineID != nil {
		return nil, validationf("stationId", "a team binds to a station or a production line, not both")
	}
	if p.Status != nil && !p.Status.Valid() {
		return nil, validationf("status", "unknown status code %d", int(*p.Status))
	}

	var team model.Team
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&team, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFoundf("team", id)
			}
			return err
		}

		if p.Code != nil && *p.Code != team.Code {
			taken, err := codeTaken(tx, &model.Team{}, *p.Code, team.ID)
			if err != nil {
				return err
			}
			if taken {
				return conflictf("team", *p.Code)
			}
			team.Code = *p.Code
		}
		if p.Name != nil {
			team.Name = *p.Name
		}

		var newlyBound, cleared bool
		if p.StationIDSet {
			if p.StationID != nil {
				if err := tx.First(&model.Station{}, *p.StationID).Error; err != nil {
					return notFoundf("station", *p.StationID)
				}
				team.StationID = p.StationID
				team.ProductionLineID = nil
				newlyBound = true
			} else if team.StationID != nil {
				team.StationID = nil
				cleared = true
			}
		}
		if p.LineIDSet {
			if p.ProductionLineID != nil {
				if err := tx.First(&model.ProductionLine{}, *p.ProductionLineID).Error; err != nil {
					return notFoundf("production line", *p.ProductionLineID)
				}
				team.ProductionLineID = p.ProductionLineID
				team.StationID = nil
				newlyBound = true
			} else if team.ProductionLineID != nil {
				team.ProductionLineID = nil
				cleared = true
			}
		}

		switch {
		case newlyBound:
			team.Status = model.StatusOccupied
			if err := setMemberStatus(tx, team.ID, model.StatusOccupied); err != nil {
				return err
			}
		case cleared && p.Status == nil:
			if !team.Bound() {
				team.Status = model.StatusAvailable
				if err := setMemberStatus(tx, team.ID, model.StatusAvailable); err != nil {
					return err
				}
			}
		case p.Status != nil:
			switch *p.Status {
			case model.StatusOccupied:
				if team.Status != model.StatusOccupied {
					return validationf("status", "occupied is only reachable by binding to a slot")
				}
			case model.StatusAvailable:
				if team.Bound() {
					if !p.ForceUnbind {
						return &ConfirmRequiredError{SlotName: teamSlotName(tx, &team)}
					}
					team.StationID = nil
					team.ProductionLineID = nil
					if err := setMemberStatus(tx, team.ID, model.StatusAvailable); err != nil {
						return err
					}
				}
				team.Status = model.StatusAvailable
			case model.StatusUnavailable:
				team.Status = model.StatusUnavailable
			}
		}

		if p.MemberIDs != nil {
			if err := replaceMembers(tx, team.ID, *p.MemberIDs); err != nil {
				return err
			}
		}

		return tx.Save(&team).Error
	})
	if err != nil {
		return nil, err
	}

	s.record("update", "team", fmt.Sprintf("team %s updated, status %s", team.Code, team.Status))
	return s.GetTeam(ctx, team.ID)
}

// DeleteTeam releases every current member, then removes the team, all in
// one transaction.
func (s *gormStore) DeleteTeam(ctx context.Context, id int64) error {
	var team model.Team
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&team, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFoundf("team", id)
			}
			return err
		}
		if err := releaseMembers(tx, team.ID); err != nil {
			return err
		}
		return tx.Delete(&team).Error
	})
	if err != nil {
		return err
	}

	s.record("delete", "team", fmt.Sprintf("team %s deleted, members released", team.Code))
	return nil
}

// BindTeamsToLine binds a batch of teams to one production line. Members
// of every bound team become occupied with it.
func (s *gormStore) BindTeamsToLine(ctx context.Context, teamIDs []int64, lineID int64) error {
	return s.bindTeams(ctx, teamIDs, func(tx *gorm.DB) error {
		if err := tx.First(&model.ProductionLine{}, lineID).Error; err != nil {
			return notFoundf("production line", lineID)
		}
		return nil
	}, func(t *model.Team) {
		t.ProductionLineID = &lineID
		t.StationID = nil
	}, fmt.Sprintf("production line %d", lineID))
}

// BindTeamsToStation binds a batch of teams to one station.
func (s *gormStore) BindTeamsToStation(ctx context.Context, teamIDs []int64, stationID int64) error {
	return s.bindTeams(ctx, teamIDs, func(tx *gorm.DB) error {
		if err := tx.First(&model.Station{}, stationID).Error; err != nil {
			return notFoundf("station", stationID)
		}
		return nil
	}, func(t *model.Team) {
		t.StationID = &stationID
		t.ProductionLineID = nil
	}, fmt.Sprintf("station %d", stationID))
}

func (s *gormStore) bindTeams(ctx context.Context, teamIDs []int64, checkSlot func(*gorm.DB) error, assign func(*model.Team), slotLabel string) error {
	if len(teamIDs) == 0 {
		return validationf("teamIds", "must not be empty")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkSlot(tx); err != nil {
			return err
		}

		var teams []model.Team
		if err := tx.Find(&teams, teamIDs).Error; err != nil {
			return err
		}
		if len(teams) != len(teamIDs) {
			found := make(map[int64]bool, len(teams))
			for _, t := range teams {
				found[t.ID] = true
			}
			for _, id := range teamIDs {
				if !found[id] {
					return notFoundf("team", id)
				}
			}
		}

		for i := range teams {
			t := &teams[i]
			assign(t)
			t.Status = model.StatusOccupied
			if err := tx.Save(t).Error; err != nil {
				return fmt.Errorf("failed to bind team %d: %w", t.ID, err)
			}
			if err := setMemberStatus(tx, t.ID, model.StatusOccupied); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.record("bind", "team", fmt.Sprintf("%d team(s) bound to %s", len(teamIDs), slotLabel))
	return nil
}

// UnbindTeam clears the team's slot and resets the team and its members to
// available. Membership itself persists.
func (s *gormStore) UnbindTeam(ctx context.Context, id int64) (*model.Team, error) {
	var team model.Team
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&team, id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return notFoundf("team", id)
			}
			return err
		}
		team.StationID = nil
		team.ProductionLineID = nil
		team.Status = model.StatusAvailable
		if err := setMemberStatus(tx, team.ID, model.StatusAvailable); err != nil {
			return err
		}
		return tx.Save(&team).Error
	})
	if err != nil {
		return nil, err
	}

	s.record("unbind", "team", fmt.Sprintf("team %s released", team.Code))
	return s.GetTeam(ctx, team.ID)
}

// GetTeam returns one team with its members preloaded.
func (s *gormStore) GetTeam(ctx context.Context, id int64) (*model.Team, error) {
	var team model.Team
	if err := s.db.WithContext(ctx).Preload("Members").First(&team, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, notFoundf("team", id)
		}
		return nil, err
	}
	return &team, nil
}

// ListTeams returns all teams with members, ordered by id.
func (s *gormStore) ListTeams(ctx context.Context) ([]model.Team, error) {
	var teams []model.Team
	if err := s.db.WithContext(ctx).Preload("Members").Order("id").Find(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

// enrollMembers attaches staff to a team. Joining a team is the staff's
// binding, so enrolled staff become occupied.
func enrollMembers(tx *gorm.DB, teamID int64, staffIDs []int64) error {
	if len(staffIDs) == 0 {
		return nil
	}

	var members []model.Staff
	if err := tx.Find(&members, staffIDs).Error; err != nil {
		return err
	}
	if len(members) != len(staffIDs) {
		found := make(map[int64]bool, len(members))
		for _, m := range members {
			found[m.ID] = true
		}
		for _, id := range staffIDs {
			if !found[id] {
				return notFoundf("staff", id)
			}
		}
	}

	return tx.Model(&model.Staff{}).Where("id IN ?", staffIDs).
		Updates(map[string]any{"team_id": teamID, "status": model.StatusOccupied}).Error
}

// replaceMembers swaps a team's member list: staff no longer listed are
// released, newly listed staff are enrolled.
func replaceMembers(tx *gorm.DB, teamID int64, staffIDs []int64) error {
	var current []model.Staff
	if err := tx.Where("team_id = ?", teamID).Find(&current).Error; err != nil {
		return err
	}

	keep := make(map[int64]bool, len(staffIDs))
	for _, id := range staffIDs {
		keep[id] = true
	}

	var removed []int64
	for _, m := range current {
		if !keep[m.ID] {
			removed = append(removed, m.ID)
		}
	}
	if len(removed) > 0 {
		if err := tx.Model(&model.Staff{}).Where("id IN ?", removed).
			Updates(map[string]any{"team_id": nil, "status": model.StatusAvailable}).Error; err != nil {
			return err
		}
	}

	currentIDs := make(map[int64]bool, len(current))
	for _, m := range current {
		currentIDs[m.ID] = true
	}
	var added []int64
	for _, id := range staffIDs {
		if !currentIDs[id] {
			added = append(added, id)
		}
	}
	return enrollMembers(tx, teamID, added)
}

// releaseMembers clears membership and resets status for every member of a
// team. Used by team deletion.
func releaseMembers(tx *gorm.DB, teamID int64) error {
	return tx.Model(&model.Staff{}).Where("team_id = ?", teamID).
		Updates(map[string]any{"team_id": nil, "status": model.StatusAvailable}).Error
}

// setMemberStatus moves every member of a team to the given status while
// keeping membership intact. Used when the team's own binding changes.
func setMemberStatus(tx *gorm.DB, teamID int64, status model.Status) error {
	return tx.Model(&model.Staff{}).Where("team_id = ?", teamID).
		Update("status", status).Error
}

// teamSlotName resolves the display name of the slot a team is bound to.
func teamSlotName(tx *gorm.DB, t *model.Team) string {
	if t.StationID != nil {
		var station model.Station
		if err := tx.First(&station, *t.StationID).Error; err == nil {
			return station.Name
		}
		return fmt.Sprintf("station %d", *t.StationID)
	}
	if t.ProductionLineID != nil {
		return lineName(tx, *t.ProductionLineID)
	}
	return ""
}
