package aggregates

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yungbote/procurement-backend/internal/platform/errs"
	"gorm.io/gorm"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"not found", gorm.ErrRecordNotFound, errs.ErrNotFound},
		{"pg unique", &pgconn.PgError{Code: "23505"}, errs.ErrConflict},
		{"pg fk", &pgconn.PgError{Code: "23503"}, errs.ErrInvalidArgument},
		{"sqlite unique", errors.New("UNIQUE constraint failed: procurement_request.reference"), errs.ErrConflict},
		{"sentinel passthrough", errs.ErrForbidden, errs.ErrForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MapError("op", tc.in)
			if !errors.Is(got, tc.want) {
				t.Fatalf("MapError: want=%v got=%v", tc.want, got)
			}
		})
	}

	if MapError("op", nil) != nil {
		t.Fatalf("MapError(nil): want=nil")
	}
	plain := MapError("op", errors.New("boom"))
	if errors.Is(plain, errs.ErrConflict) || plain.Error() != "op: boom" {
		t.Fatalf("plain error: got=%v", plain)
	}
}
