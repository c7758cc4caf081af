// Package seeders holds the database seed functions run by `ordermgmt seed`.
//
// A seeder registers itself from init():
//
//	func init() {
//	    seeders.Register("admin", SeedAdmin)
//	}
package seeders

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"gorm.io/gorm"
)

// SeederFunc fills db with rows.
type SeederFunc func(ctx context.Context, db *gorm.DB) error

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seederEntry

	// Output receives progress lines.
	Output io.Writer = os.Stdout
)

// Register adds a seeder to the global registry.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, seederEntry{name: name, fn: fn})
}

// RunAll executes every registered seeder in registration order and stops
// at the first error.
func RunAll(ctx context.Context, db *gorm.DB) error {
	mu.Lock()
	current := make([]seederEntry, len(entries))
	copy(current, entries)
	mu.Unlock()

	if len(current) == 0 {
		fmt.Fprintln(Output, "  (no seeders registered)")
		return nil
	}

	for _, e := range current {
		fmt.Fprintf(Output, "  • Running seeder: %s … ", e.name)
		if err := e.fn(ctx, db); err != nil {
			fmt.Fprintln(Output, "FAILED")
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
		fmt.Fprintln(Output, "done")
	}
	return nil
}
