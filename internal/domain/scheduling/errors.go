package scheduling

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/field-scheduler/internal/httperr"
)

// NotFoundAs turns a missing-row error into a NotFound business error with
// the given code and wraps anything else.
func NotFoundAs(err error, code string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound(code)
	}
	return fmt.Errorf("%s: %w", code, err)
}
