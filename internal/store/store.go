package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"factory-resource-backend/internal/changelog"
	"factory-resource-backend/internal/model"
	"factory-resource-backend/internal/workday"
)

// Notifier is told, after commit, about devices whose maintenance completed.
// Implementations must not block the calling request.
type Notifier interface {
	DeviceBackInService(deviceID int64)
}

// Store defines the interface for all engine operations. Every mutation
// runs inside a single database transaction: either the whole cascade of
// row changes commits, or none of it does.
type Store interface {
	DB() *gorm.DB

	// Factories
	CreateFactory(ctx context.Context, p CreateFactoryParams) (*model.Factory, error)
	UpdateFactory(ctx context.Context, id int64, p UpdateFactoryParams) (*model.Factory, error)
	DeleteFactory(ctx context.Context, id int64) error
	GetFactory(ctx context.Context, id int64) (*model.Factory, error)
	ListFactories(ctx context.Context) ([]model.Factory, error)

	// Production lines
	CreateLine(ctx context.Context, p CreateLineParams) (*model.ProductionLine, error)
	UpdateLine(ctx context.Context, id int64, p UpdateLineParams) (*model.ProductionLine, error)
	DeleteLine(ctx context.Context, id int64) error
	GetLine(ctx context.Context, id int64) (*model.ProductionLine, error)
	ListLines(ctx context.Context) ([]model.ProductionLine, error)

	// Stations
	CreateStation(ctx context.Context, p CreateStationParams) (*model.Station, error)
	UpdateStation(ctx context.Context, id int64, p UpdateStationParams) (*model.Station, error)
	DeleteStation(ctx context.Context, id int64) error
	GetStation(ctx context.Context, id int64) (*model.Station, error)
	ListStations(ctx context.Context) ([]model.Station, error)
	BindStationsToLine(ctx context.Context, stationIDs []int64, lineID int64) error
	UnbindStation(ctx context.Context, id int64) (*model.Station, error)

	// Devices
	CreateDevice(ctx context.Context, p CreateDeviceParams) (*model.Device, error)
	UpdateDevice(ctx context.Context, id int64, p UpdateDeviceParams) (*model.Device, error)
	DeleteDevice(ctx context.Context, id int64) error
	GetDevice(ctx context.Context, id int64) (*model.Device, error)
	ListDevices(ctx context.Context) ([]model.Device, error)
	BindDevicesToStation(ctx context.Context, deviceIDs []int64, stationID int64) error
	BindDevicesToLine(ctx context.Context, deviceIDs []int64, lineID int64) error
	UnbindDevice(ctx context.Context, id int64) (*model.Device, error)
	ListMaintenanceRecords(ctx context.Context, deviceID int64) ([]model.MaintenanceRecord, error)

	// Teams and staff
	CreateTeam(ctx context.Context, p CreateTeamParams) (*model.Team, error)
	UpdateTeam(ctx context.Context, id int64, p UpdateTeamParams) (*model.Team, error)
	DeleteTeam(ctx context.Context, id int64) error
	GetTeam(ctx context.Context, id int64) (*model.Team, error)
	ListTeams(ctx context.Context) ([]model.Team, error)
	BindTeamsToLine(ctx context.Context, teamIDs []int64, lineID int64) error
	BindTeamsToStation(ctx context.Context, teamIDs []int64, stationID int64) error
	UnbindTeam(ctx context.Context, id int64) (*model.Team, error)

	CreateStaff(ctx context.Context, p CreateStaffParams) (*model.Staff, error)
	UpdateStaff(ctx context.Context, id int64, p UpdateStaffParams) (*model.Staff, error)
	DeleteStaff(ctx context.Context, id int64) error
	GetStaff(ctx context.Context, id int64) (*model.Staff, error)
	ListStaff(ctx context.Context) ([]model.Staff, error)

	// Calendar
	ResolveDay(ctx context.Context, date time.Time, lineID *int64) (workday.Resolution, error)
	SetCalendarRange(ctx context.Context, p SetCalendarRangeParams) (int, error)
	GetCalendarRange(ctx context.Context, start, end time.Time, lineID *int64) ([]model.CalendarEvent, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db       *gorm.DB
	log      *changelog.Log
	notifier Notifier
}

// NewGormStore creates a new GORM-backed store. The changelog and notifier
// are optional; a nil value disables the corresponding side channel.
func NewGormStore(db *gorm.DB, log *changelog.Log, notifier Notifier) Store {
	return &gormStore{db: db, log: log, notifier: notifier}
}

// DB exposes the underlying connection for read-only handlers.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// record appends a mutation summary to the change log. Best-effort: the
// log must never fail or block the mutation it observes.
func (s *gormStore) record(action, kind, details string) {
	if s.log != nil {
		s.log.Record(action, kind, details)
	}
}

// notifyBackInService tells the notifier about devices whose maintenance
// record was closed by a committed transaction.
func (s *gormStore) notifyBackInService(deviceIDs []int64) {
	if s.notifier == nil {
		return
	}
	for _, id := range deviceIDs {
		s.notifier.DeviceBackInService(id)
	}
}

// codeTaken reports whether another row of the given model already uses code.
func codeTaken(tx *gorm.DB, m any, code string, excludeID int64) (bool, error) {
	var count int64
	if err := tx.Model(m).Where("code = ? AND id <> ?", code, excludeID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
