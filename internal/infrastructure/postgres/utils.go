package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/portal-st-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation verifica si un error es una violación de foreign key (23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// translateWriteError traduce errores de escritura comunes a errores de dominio;
// el resto se envuelve con op.
func translateWriteError(err error, onUnique error, op string) error {
	switch {
	case isUniqueViolation(err):
		return onUnique
	case isForeignKeyViolation(err):
		return domain.ErrUserNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

// splitList convierte la forma persistida (separada por comas) en lista.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// joinList serializa una lista para persistirla separada por comas.
func joinList(items []string) string {
	return strings.Join(items, ",")
}
