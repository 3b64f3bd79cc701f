package infra

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Storage writes attachment blobs under a root directory on disk.
// Paths stored in the DB are relative to the root so the root can move
// between deployments without rewriting rows.
type Storage struct {
	root string
}

func NewStorage(root string) (*Storage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage root %s: %w", root, err)
	}
	return &Storage{root: root}, nil
}

// Guardar writes the blob under <root>/<historialID>/<uuid>.pdf and returns
// the relative path. A fresh uuid per upload avoids name collisions without
// touching the original filename (kept in the DB for download headers).
func (s *Storage) Guardar(historialID int64, nombre string, contenido io.Reader) (string, error) {
	dir := fmt.Sprintf("%d", historialID)
	if err := os.MkdirAll(filepath.Join(s.root, dir), 0o755); err != nil {
		return "", err
	}

	ruta := filepath.Join(dir, uuid.NewString()+filepath.Ext(nombre))
	f, err := os.Create(filepath.Join(s.root, ruta))
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, contenido); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return ruta, nil
}

func (s *Storage) RutaAbsoluta(ruta string) string {
	return filepath.Join(s.root, ruta)
}

func (s *Storage) Eliminar(ruta string) error {
	err := os.Remove(filepath.Join(s.root, ruta))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
