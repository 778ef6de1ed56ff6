package audit

import (
	"context"
	"encoding/json"
	"time"

	"rapidstor-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Record is one persisted mutation outcome. The remote API keeps no history,
// so this is the only trail of who changed what and how much of a batch
// actually landed.
type Record struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Operation  string         `gorm:"column:operation;not null" json:"operation"`
	LocationID string         `gorm:"column:location_id;not null;index" json:"locationId"`
	Succeeded  int            `gorm:"column:succeeded;not null" json:"succeeded"`
	Failed     int            `gorm:"column:failed;not null" json:"failed"`
	Detail     datatypes.JSON `gorm:"column:detail" json:"detail"`
	CreatedAt  time.Time      `gorm:"column:created_at" json:"createdAt"`
}

// TableName keeps the table name stable across drivers.
func (Record) TableName() string { return "mutation_audit" }

// Store writes batch outcomes to a local relational store.
type Store struct {
	DB *gorm.DB
}

// Open connects the audit store: Postgres when a DSN is configured, else a
// local sqlite file. PreferSimpleProtocol avoids prepared-statement clashes
// behind connection poolers.
func Open(postgresDSN, sqlitePath string) (*Store, error) {
	var db *gorm.DB
	var err error
	if postgresDSN != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  postgresDSN,
			PreferSimpleProtocol: true,
		}), &gorm.Config{})
	} else {
		db, err = gorm.Open(sqlite.Open(sqlitePath), &gorm.Config{})
	}
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

// RecordBatch persists one BatchOperationResult. Audit failures are returned
// but must never abort the mutation they describe.
func (s *Store) RecordBatch(ctx context.Context, locationID string, res *domain.BatchOperationResult) error {
	detail, err := json.Marshal(res.Items)
	if err != nil {
		return err
	}
	rec := Record{
		ID:         uuid.New(),
		Operation:  res.Operation,
		LocationID: locationID,
		Succeeded:  res.Succeeded,
		Failed:     res.Failed,
		Detail:     datatypes.JSON(detail),
		CreatedAt:  time.Now().UTC(),
	}
	return s.DB.WithContext(ctx).Create(&rec).Error
}

// Recent returns the latest records for a location, newest first.
func (s *Store) Recent(ctx context.Context, locationID string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []Record
	err := s.DB.WithContext(ctx).
		Where("location_id = ?", locationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// Ping reports store reachability for the health endpoint.
func (s *Store) Ping() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
