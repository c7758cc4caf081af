// Package migration provides a database migration runner.
//
// Migrations register themselves from init() in database/migrations:
//
//	func init() {
//	    migration.Register("20260101000000_create_users_table", &CreateUsersTable{})
//	}
//
// and are applied from the CLI:
//
//	ordermgmt migrate             // run all pending
//	ordermgmt migrate:rollback    // rollback last batch
//	ordermgmt migrate:status
package migration

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/ordermgmt/pkg/logger"
)

// Migration is the interface every migration must implement.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// migrationRecord is the row stored in the tracking table.
type migrationRecord struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (migrationRecord) TableName() string { return "schema_migrations" }

type registeredMigration struct {
	name string
	m    Migration
}

var registry []registeredMigration

// ErrNoMigrations is returned by Run when nothing is registered.
var ErrNoMigrations = errors.New("no migrations registered")

// Register adds a migration to the global registry. Names are
// timestamp-prefixed so they sort chronologically.
func Register(name string, m Migration) {
	for _, reg := range registry {
		if reg.name == name {
			panic("migration: duplicate name " + name)
		}
	}
	registry = append(registry, registeredMigration{name: name, m: m})
}

// StatusRow describes one registered migration.
type StatusRow struct {
	Name  string
	Ran   bool
	Batch int
}

// Runner executes and tracks migrations.
type Runner struct {
	db  *gorm.DB
	out io.Writer
}

// New creates a Runner that reports progress on stdout.
func New(db *gorm.DB) *Runner {
	return &Runner{db: db, out: os.Stdout}
}

// Quiet silences progress output. Used by tests and at server boot.
func (r *Runner) Quiet() *Runner {
	r.out = io.Discard
	return r
}

// EnsureTable creates the tracking table if it does not exist.
func (r *Runner) EnsureTable() error {
	return r.db.AutoMigrate(&migrationRecord{})
}

// Pending returns migrations that have not yet been run, ordered by name.
func (r *Runner) Pending() ([]registeredMigration, error) {
	ran, err := r.ranSet()
	if err != nil {
		return nil, err
	}

	var pending []registeredMigration
	for _, reg := range registry {
		if _, ok := ran[reg.name]; !ok {
			pending = append(pending, reg)
		}
	}

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].name < pending[j].name
	})
	return pending, nil
}

// Run executes all pending migrations as one batch.
func (r *Runner) Run() error {
	if len(registry) == 0 {
		return ErrNoMigrations
	}
	if err := r.EnsureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	pending, err := r.Pending()
	if err != nil {
		return fmt.Errorf("migration: fetch pending: %w", err)
	}
	if len(pending) == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
		return nil
	}

	batch, err := r.lastBatch()
	if err != nil {
		return err
	}
	batch++

	for _, reg := range pending {
		fmt.Fprintf(r.out, "  Migrating: %s\n", reg.name)

		if err := reg.m.Up(r.db); err != nil {
			return fmt.Errorf("migration: %s up: %w", reg.name, err)
		}
		if err := r.db.Create(&migrationRecord{Name: reg.name, Batch: batch}).Error; err != nil {
			return fmt.Errorf("migration: record %s: %w", reg.name, err)
		}

		fmt.Fprintf(r.out, "  Migrated:  %s\n", reg.name)
	}

	logger.Info("migration: done", "ran", len(pending), "batch", batch)
	return nil
}

// Rollback reverses every migration of the most recent batch, newest first.
func (r *Runner) Rollback() error {
	if err := r.EnsureTable(); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}

	batch, err := r.lastBatch()
	if err != nil {
		return err
	}
	if batch == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return nil
	}

	var records []migrationRecord
	if err := r.db.Where("batch = ?", batch).Order("id desc").Find(&records).Error; err != nil {
		return err
	}

	regMap := make(map[string]Migration, len(registry))
	for _, reg := range registry {
		regMap[reg.name] = reg.m
	}

	for _, rec := range records {
		m, ok := regMap[rec.Name]
		if !ok {
			return fmt.Errorf("migration: cannot roll back %s: not registered", rec.Name)
		}

		fmt.Fprintf(r.out, "  Rolling back: %s\n", rec.Name)

		if err := m.Down(r.db); err != nil {
			return fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}
		if err := r.db.Delete(&migrationRecord{}, rec.ID).Error; err != nil {
			return err
		}

		fmt.Fprintf(r.out, "  Rolled back:  %s\n", rec.Name)
	}

	logger.Info("migration: rolled back", "batch", batch, "count", len(records))
	return nil
}

// Status lists every registered migration and whether it has run.
func (r *Runner) Status() ([]StatusRow, error) {
	if err := r.EnsureTable(); err != nil {
		return nil, err
	}

	ran, err := r.ranSet()
	if err != nil {
		return nil, err
	}

	rows := make([]StatusRow, 0, len(registry))
	for _, reg := range registry {
		rec, ok := ran[reg.name]
		rows = append(rows, StatusRow{Name: reg.name, Ran: ok, Batch: rec.Batch})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows, nil
}

// PrintStatus writes Status as a table.
func (r *Runner) PrintStatus() error {
	rows, err := r.Status()
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "%-60s  %-8s  %s\n", "Migration", "Status", "Batch")
	fmt.Fprintln(r.out, strings.Repeat("-", 80))
	for _, row := range rows {
		if row.Ran {
			fmt.Fprintf(r.out, "%-60s  %-8s  %d\n", row.Name, "Ran", row.Batch)
		} else {
			fmt.Fprintf(r.out, "%-60s  %-8s  -\n", row.Name, "Pending")
		}
	}
	return nil
}

func (r *Runner) ranSet() (map[string]migrationRecord, error) {
	var ran []migrationRecord
	if err := r.db.Find(&ran).Error; err != nil {
		return nil, err
	}
	set := make(map[string]migrationRecord, len(ran))
	for _, rec := range ran {
		set[rec.Name] = rec
	}
	return set, nil
}

func (r *Runner) lastBatch() (int, error) {
	var max int
	row := r.db.Model(&migrationRecord{}).Select("COALESCE(MAX(batch), 0)").Row()
	if err := row.Scan(&max); err != nil {
		return 0, fmt.Errorf("migration: last batch: %w", err)
	}
	return max, nil
}
