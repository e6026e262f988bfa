package upload

import (
	"context"
	"io"
)

// BlobStore puerto de almacenamiento de archivos por nombre generado.
type BlobStore interface {
	// Save escribe r bajo name y devuelve la ruta de almacenamiento y los bytes escritos.
	Save(ctx context.Context, name string, r io.Reader) (path string, written int64, err error)
	// Open devuelve domain.ErrNotFound si el archivo no existe.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
}
