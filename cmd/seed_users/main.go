// seed_users genera el script SQL que da de alta al personal INTERNO del portal
// a partir de una planilla CSV exportada en ISO-8859-1 (separador ';').
//
// Columnas: nome;email;senha[;perfil]. La primera línea es la cabecera.
//
// Uso: go run ./cmd/seed_users [ruta/internos.csv]
// Por defecto busca internos.csv en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/002_seed_internal_users.sql
package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/portal-st-api/internal/domain/access"
	"github.com/jhoicas/portal-st-api/internal/domain/entity"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type staff struct {
	name     string
	email    string
	password string
	profile  string
}

func main() {
	csvPath := "internos.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := parseStaff(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "002_seed_internal_users.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := renderSQL(out, rows, bcrypt.DefaultCost, time.Now().UTC()); err != nil {
		fmt.Fprintf(os.Stderr, "Generar SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d usuarios internos\n", outPath, len(rows))
}

// parseStaff lee las filas del CSV ya decodificado a UTF-8. Omite filas vacías;
// falla ante emails repetidos o columnas faltantes.
func parseStaff(r io.Reader) ([]staff, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		rows []staff
		seen = make(map[string]struct{})
		line int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if line == 1 || (len(rec) == 1 && strings.TrimSpace(rec[0]) == "") {
			continue
		}
		if len(rec) < 3 {
			return nil, fmt.Errorf("línea %d: se esperaban nome;email;senha", line)
		}
		s := staff{
			name:     strings.TrimSpace(rec[0]),
			email:    strings.ToLower(strings.TrimSpace(rec[1])),
			password: rec[2],
			profile:  entity.ProfileAdmin,
		}
		if len(rec) > 3 && strings.TrimSpace(rec[3]) != "" {
			s.profile = strings.ToUpper(strings.TrimSpace(rec[3]))
		}
		if s.name == "" || s.email == "" || len(s.password) < 6 {
			return nil, fmt.Errorf("línea %d: nome, email y senha (mínimo 6) son requeridos", line)
		}
		if _, dup := seen[s.email]; dup {
			return nil, fmt.Errorf("línea %d: email repetido %s", line, s.email)
		}
		seen[s.email] = struct{}{}
		rows = append(rows, s)
	}
	return rows, nil
}

// renderSQL escribe los INSERT idempotentes (ON CONFLICT por email).
func renderSQL(w io.Writer, rows []staff, cost int, now time.Time) error {
	perms := access.JoinPermissions(access.GrantedPermissions(entity.UserTypeInternal))
	ts := now.Format(time.RFC3339)

	fmt.Fprintf(w, "-- Personal interno del portal\n")
	fmt.Fprintf(w, "-- Generado por cmd/seed_users\n\n")
	for _, s := range rows {
		hash, err := bcrypt.GenerateFromPassword([]byte(s.password), cost)
		if err != nil {
			return fmt.Errorf("hash %s: %w", s.email, err)
		}
		fmt.Fprintf(w, "INSERT INTO users (id, name, email, password_hash, user_type, profile, permissions, active, created_at, updated_at)\n")
		fmt.Fprintf(w, "VALUES ('%s', '%s', '%s', '%s', '%s', '%s', '%s', TRUE, '%s', '%s')\n",
			uuid.NewString(), escapeSQL(s.name), escapeSQL(s.email), string(hash),
			entity.UserTypeInternal, escapeSQL(s.profile), perms, ts, ts)
		fmt.Fprintf(w, "ON CONFLICT (email) DO NOTHING;\n")
	}
	return nil
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
