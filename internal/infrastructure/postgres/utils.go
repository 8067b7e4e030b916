package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/traslados-api/internal/domain"
)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
	pgInvalidText     = "22P02"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == pgUniqueViolation
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// mapWriteErr traduce violaciones de constraint a errores de dominio.
func mapWriteErr(op string, err error) error {
	switch pgCode(err) {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %s: registro duplicado", domain.ErrConflict, op)
	case pgCheckViolation:
		return fmt.Errorf("%w: %s", domain.ErrInsufficientStock, op)
	case pgInvalidText:
		return fmt.Errorf("%w: %s: identificador inválido", domain.ErrNotFound, op)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// mapReadErr un identificador que no es uuid equivale a un registro inexistente.
func mapReadErr(op string, err error) error {
	if pgCode(err) == pgInvalidText {
		return fmt.Errorf("%w: %s: identificador inválido", domain.ErrNotFound, op)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// validID las columnas id son UUID; otro valor no puede coincidir y Postgres lo rechaza con 22P02,
// lo que además aborta la transacción en curso.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}

// nullable convierte "" en NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// where acumula condiciones con placeholders numerados ($1, $2, ...).
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(w.args))))
}

// addID como add para columnas uuid; un valor que no es uuid no coincide con ninguna fila.
func (w *where) addID(cond, id string) {
	if !validID(id) {
		w.conds = append(w.conds, "FALSE")
		return
	}
	w.add(cond, id)
}

func (w *where) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page agrega LIMIT/OFFSET; limit <= 0 significa sin límite.
func (w *where) page(limit, offset int) string {
	out := ""
	if limit > 0 {
		w.args = append(w.args, limit)
		out += fmt.Sprintf(" LIMIT $%d", len(w.args))
	}
	if offset > 0 {
		w.args = append(w.args, offset)
		out += fmt.Sprintf(" OFFSET $%d", len(w.args))
	}
	return out
}
