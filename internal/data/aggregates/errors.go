package aggregates

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yungbote/procurement-backend/internal/platform/errs"
	"gorm.io/gorm"
)

// MapError tags storage failures with the errs sentinels so callers can
// resolve them to API statuses.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, errs.ErrNotFound),
		errors.Is(err, errs.ErrConflict),
		errors.Is(err, errs.ErrInvalidArgument),
		errors.Is(err, errs.ErrForbidden):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505": // unique_violation
			return fmt.Errorf("%s: %w: %w", op, errs.ErrConflict, err)
		case "23503", "23502": // foreign_key_violation, not_null_violation
			return fmt.Errorf("%s: %w: %w", op, errs.ErrInvalidArgument, err)
		}
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint failed") {
		return fmt.Errorf("%s: %w: %w", op, errs.ErrConflict, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
