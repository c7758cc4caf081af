package repositories

import (
	"fmt"

	"github.com/shashiranjanraj/ordermgmt/pkg/apperr"
	"github.com/shashiranjanraj/ordermgmt/pkg/database"
)

// translate maps driver errors onto the apperr taxonomy. entity names the
// row kind in NotFound messages.
func translate(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case database.IsNotFound(err):
		return apperr.Wrap(apperr.KindNotFound, err, entity+" not found")
	case database.IsUniqueViolation(err):
		return apperr.Wrap(apperr.KindConflict, err, entity+" already exists")
	default:
		return fmt.Errorf("%s repository: %w", entity, err)
	}
}

func isConflict(err error) bool {
	return err != nil && database.IsUniqueViolation(err)
}
