// Package migrations holds the schema migrations. Each file registers its
// migrations from init(); importing the package for side effects makes them
// visible to the runner.
package migrations
