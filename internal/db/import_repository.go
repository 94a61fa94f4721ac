package db

import (
	"context"
	"fmt"

	"github.com/terraincognita07/ekklesia/internal/models"
	"gorm.io/gorm"
)

// Snapshot is a full copy of the membership directory keyed by stable ids.
type Snapshot struct {
	ServiceTypes []models.ServiceType
	Districts    []models.District
	Members      []models.Member
	Presbyters   []models.Presbyter
	Deacons      []models.Deacon
}

type ImportRepository struct {
	database *gorm.DB
}

func NewImportRepository(database *gorm.DB) *ImportRepository {
	return &ImportRepository{database: database}
}

// directoryTables lists tables in child-first order for clearing.
var directoryTables = []string{
	"service_assignments",
	"deacons",
	"presbyters",
	"members",
	"districts",
	"service_types",
}

// ImportSnapshot replaces the directory tables with the snapshot contents in
// one transaction. User accounts and events are left untouched.
func (repo *ImportRepository) ImportSnapshot(ctx context.Context, snapshot Snapshot) error {
	return repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range directoryTables {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}

		if len(snapshot.ServiceTypes) > 0 {
			if err := tx.Create(&snapshot.ServiceTypes).Error; err != nil {
				return fmt.Errorf("insert service types: %w", err)
			}
		}
		if len(snapshot.Districts) > 0 {
			if err := tx.Create(&snapshot.Districts).Error; err != nil {
				return fmt.Errorf("insert districts: %w", err)
			}
		}

		assignments := make([]models.ServiceAssignment, 0)
		for index := range snapshot.Members {
			member := &snapshot.Members[index]
			if err := tx.Omit("Services").Create(member).Error; err != nil {
				return fmt.Errorf("insert member %d: %w", member.ID, err)
			}
			for _, assignment := range member.Services {
				assignment.ID = 0
				assignment.MemberID = member.ID
				assignments = append(assignments, assignment)
			}
		}
		if len(assignments) > 0 {
			if err := tx.Omit("ServiceType").CreateInBatches(&assignments, 200).Error; err != nil {
				return fmt.Errorf("insert service assignments: %w", err)
			}
		}

		if len(snapshot.Presbyters) > 0 {
			if err := tx.Omit("Member").Create(&snapshot.Presbyters).Error; err != nil {
				return fmt.Errorf("insert presbyters: %w", err)
			}
		}
		if len(snapshot.Deacons) > 0 {
			if err := tx.Omit("Member").Create(&snapshot.Deacons).Error; err != nil {
				return fmt.Errorf("insert deacons: %w", err)
			}
		}

		if tx.Dialector.Name() == dialectPostgres {
			return resetPostgresSequences(tx)
		}
		return nil
	})
}

// resetPostgresSequences moves serial sequences past the imported ids.
func resetPostgresSequences(tx *gorm.DB) error {
	for _, table := range directoryTables {
		statement := fmt.Sprintf(
			`SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)`,
			table,
			table,
		)
		if err := tx.Exec(statement).Error; err != nil {
			return fmt.Errorf("reset %s sequence: %w", table, err)
		}
	}
	return nil
}
