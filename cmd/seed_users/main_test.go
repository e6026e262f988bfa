package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func latin1(t *testing.T, s string) *bytes.Reader {
	t.Helper()
	b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func TestParseStaff_DecodificaISO88591(t *testing.T) {
	src := latin1(t, "nome;email;senha;perfil\nJosé Conceição;Jose@Portal.com ;segredo1;\n\nAna;ana@portal.com;segredo2;despachante\n")

	rows, err := parseStaff(transform.NewReader(src, charmap.ISO8859_1.NewDecoder()))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "José Conceição", rows[0].name)
	assert.Equal(t, "jose@portal.com", rows[0].email)
	assert.Equal(t, "ADMIN", rows[0].profile, "perfil vacío usa ADMIN")
	assert.Equal(t, "DESPACHANTE", rows[1].profile)
}

func TestParseStaff_EmailRepetido(t *testing.T) {
	_, err := parseStaff(strings.NewReader("nome;email;senha\nA;a@x.com;123456\nB;A@x.com;123456\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email repetido")
}

func TestParseStaff_ColumnasFaltantes(t *testing.T) {
	_, err := parseStaff(strings.NewReader("nome;email;senha\nA;a@x.com\n"))
	require.Error(t, err)
}

func TestRenderSQL_InsertIdempotenteConHash(t *testing.T) {
	var buf bytes.Buffer
	rows := []staff{{name: "D'Ávila", email: "d@portal.com", password: "segredo1", profile: "ADMIN"}}

	require.NoError(t, renderSQL(&buf, rows, bcrypt.MinCost, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))
	out := buf.String()

	assert.Contains(t, out, "'D''Ávila'")
	assert.Contains(t, out, "'INTERNO'")
	assert.Contains(t, out, "EMPRESA_MASTER")
	assert.Contains(t, out, "ON CONFLICT (email) DO NOTHING;")
	assert.Contains(t, out, "2026-01-02T03:04:05Z")
	assert.NotContains(t, out, "segredo1", "la senha nunca se escribe en claro")
}
