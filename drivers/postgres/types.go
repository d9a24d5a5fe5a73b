package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/joacominatel/godbc"
)

// kindForOID maps a postgres type OID to the godbc scalar kind.
func kindForOID(oid uint32) godbc.Kind {
	switch oid {
	case pgtype.BoolOID:
		return godbc.KindBool
	case pgtype.Int2OID:
		return godbc.KindInt16
	case pgtype.Int4OID:
		return godbc.KindInt32
	case pgtype.Int8OID:
		return godbc.KindInt64
	case pgtype.Float4OID:
		return godbc.KindFloat32
	case pgtype.Float8OID, pgtype.NumericOID:
		return godbc.KindFloat64
	case pgtype.ByteaOID:
		return godbc.KindBytes
	case pgtype.DateOID, pgtype.TimestampOID, pgtype.TimestamptzOID:
		return godbc.KindTime
	default:
		// text, varchar, name, uuid, json and everything else renders
		// as a string.
		return godbc.KindString
	}
}

// mapError classifies a pgx error into the godbc taxonomy using the
// SQLSTATE class: 42 is a syntax or access-rule violation, 28 is an
// authentication failure.
func mapError(err error, sql string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "42"):
			return &godbc.SyntaxError{SQL: sql, Cause: err}
		case strings.HasPrefix(pgErr.Code, "28"):
			return &godbc.ConnectionError{Cause: err}
		default:
			return &godbc.DriverError{Driver: DriverName, Cause: err}
		}
	}
	return &godbc.DriverError{Driver: DriverName, Cause: fmt.Errorf("execute: %w", err)}
}
