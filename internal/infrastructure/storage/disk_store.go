package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jhoicas/portal-st-api/internal/application/upload"
	"github.com/jhoicas/portal-st-api/internal/domain"
	"github.com/spf13/afero"
)

var _ upload.BlobStore = (*DiskStore)(nil)

// DiskStore guarda archivos en un directorio. El acceso pasa por un afero.BasePathFs,
// de modo que ningún nombre puede salir del directorio raíz.
type DiskStore struct {
	fs  afero.Fs
	dir string
}

// NewDiskStore crea (si falta) el directorio y construye el almacén sobre el sistema operativo.
func NewDiskStore(dir string) (*DiskStore, error) {
	return NewDiskStoreFs(afero.NewOsFs(), dir)
}

// NewDiskStoreFs permite inyectar el filesystem (afero.NewMemMapFs en tests).
func NewDiskStoreFs(base afero.Fs, dir string) (*DiskStore, error) {
	if err := base.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de uploads: %w", err)
	}
	return &DiskStore{fs: afero.NewBasePathFs(base, dir), dir: dir}, nil
}

// Save escribe el contenido completo de r bajo name.
func (s *DiskStore) Save(_ context.Context, name string, r io.Reader) (string, int64, error) {
	f, err := s.fs.OpenFile(name, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("crear archivo: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = s.fs.Remove(name)
		return "", 0, fmt.Errorf("escribir archivo: %w", err)
	}
	return filepath.Join(s.dir, name), n, nil
}

// Open abre un archivo para lectura.
func (s *DiskStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := s.fs.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: archivo no encontrado", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("abrir archivo: %w", err)
	}
	return f, nil
}

// Delete elimina un archivo; no falla si ya no existe.
func (s *DiskStore) Delete(_ context.Context, name string) error {
	if err := s.fs.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("borrar archivo: %w", err)
	}
	return nil
}
