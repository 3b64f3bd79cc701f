package service

import (
	"errors"
	"fmt"
)

// Domain errors. Handlers map these to HTTP statuses; services never
// return raw gorm errors to the transport layer.
var (
	// ErrNoEncontrado: the referenced garantía/historial/catalog id does not exist.
	ErrNoEncontrado = errors.New("registro no encontrado")
	// ErrTransicionInvalida: renovación/devolución/ejecución attempted against
	// a garantía whose latest historial is terminal.
	ErrTransicionInvalida = errors.New("la garantía ya fue devuelta o ejecutada")
	// ErrNoEsUltimo: edit/delete attempted on a historial that is not the
	// most recent record of its garantía.
	ErrNoEsUltimo = errors.New("solo el registro más reciente del historial puede modificarse o eliminarse")
	// ErrEnUso: catalog delete blocked by referential integrity.
	ErrEnUso = errors.New("el registro está en uso y no puede eliminarse")
	// ErrDuplicado: uniqueness violation on a natural key (RUC, nombre, etc.).
	ErrDuplicado = errors.New("ya existe un registro con ese valor")
	// ErrSinCierre: cierre view requested for a garantía that is still open.
	ErrSinCierre = errors.New("la garantía no registra devolución ni ejecución")
)

// ValidacionError reports per-field validation failures found past the
// binding layer (cross-field date checks, non-positive amounts, unknown
// estados). Handlers render it as a 422 with the field map.
type ValidacionError struct {
	Fields map[string]string
}

func (e *ValidacionError) Error() string {
	return fmt.Sprintf("error de validacion: %v", e.Fields)
}

func nuevaValidacion(campo, motivo string) *ValidacionError {
	return &ValidacionError{Fields: map[string]string{campo: motivo}}
}
