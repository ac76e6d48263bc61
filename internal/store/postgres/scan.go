package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func textOrEmpty(t pgtype.Text) string {
	if t.Valid {
		return t.String
	}
	return ""
}

func float8Ptr(v pgtype.Float8) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func int4Ptr(v pgtype.Int4) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int32)
	return &i
}

func textArrayOrEmpty(a pgtype.FlatArray[string]) []string {
	if a == nil {
		return []string{}
	}
	return []string(a)
}

// uniqueViolation returns the violated constraint name for a 23505 error.
func uniqueViolation(err error) (string, bool) {
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) && pgerr.Code == "23505" {
		return pgerr.ConstraintName, true
	}
	return "", false
}

func foreignKeyViolation(err error) bool {
	var pgerr *pgconn.PgError
	return errors.As(err, &pgerr) && pgerr.Code == "23503"
}
