// Package gorm provides GORM-based database operations for collate.
package gorm

import (
	"fmt"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// runMigrations runs all database migrations using gormigrate.
func runMigrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		// Migration 001: Core tables (Survey, Response, GroupedResult)
		{
			ID: "001_core_tables",
			Migrate: func(tx *gorm.DB) error {
				// AutoMigrate creates tables with all indexes from struct tags
				if err := tx.AutoMigrate(&Survey{}); err != nil {
					return err
				}
				if err := tx.AutoMigrate(&Response{}); err != nil {
					return err
				}
				return tx.AutoMigrate(&GroupedResult{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("surveys", "responses", "grouped_results")
			},
		},
	})

	if err := m.Migrate(); err != nil {
		return fmt.Errorf("run gormigrate migrations: %w", err)
	}

	return nil
}
