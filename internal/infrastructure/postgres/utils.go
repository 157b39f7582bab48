package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/stockflow-api/internal/domain"
)

// Querier es lo común entre *pgxpool.Pool y pgx.Tx: los repositorios sirven dentro y fuera de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Códigos SQLSTATE que se traducen a errores de dominio.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeInvalidText         = "22P02"
)

// wrapErr envuelve un error del driver con la operación y lo traduce a un error de dominio cuando aplica:
// 23505 -> ErrDuplicate, 23503 -> ErrConflict, 23514 -> ErrInvalidInput, 22P02 -> ErrInvalidInput.
func wrapErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%s: %w (%s)", op, domain.ErrDuplicate, pgErr.ConstraintName)
		case codeForeignKeyViolation:
			return fmt.Errorf("%s: %w (%s)", op, domain.ErrConflict, pgErr.ConstraintName)
		case codeCheckViolation:
			return fmt.Errorf("%s: %w (%s)", op, domain.ErrInvalidInput, pgErr.ConstraintName)
		case codeInvalidText:
			return fmt.Errorf("%s: %w: identificador mal formado", op, domain.ErrInvalidInput)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isInvalidText indica un identificador que no es UUID; las búsquedas por ID lo tratan como "no existe".
func isInvalidText(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeInvalidText
}

// notFound distingue "sin filas" (o ID mal formado) de un error real.
func notFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || isInvalidText(err)
}

// likePattern arma un patrón ILIKE de subcadena escapando los comodines del usuario.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// nullIfEmpty guarda "" como NULL en columnas opcionales con UNIQUE.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
