package model

import (
	"time"

	"github.com/google/uuid"
)

// Nombres de estado sembrados por cmd/seeduser. The catalog is extensible;
// code never matches on display strings, only on EsActivo.
const (
	EstadoEmision    = "Emisión"
	EstadoRenovacion = "Renovación"
	EstadoAmpliacion = "Ampliación"
	EstadoReduccion  = "Reducción"
	EstadoDevolucion = "Devolución"
	EstadoEjecucion  = "Ejecución"
)

// EstadoGarantia classifies each history event of a carta fianza.
// EsActivo=true (Emisión, Renovación, Ampliación, Reducción) means the
// garantía remains in force after the event; EsActivo=false (Devolución,
// Ejecución) closes it. The flag is resolved here, once, never re-derived
// from the display name.
type EstadoGarantia struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre   string    `gorm:"uniqueIndex;not null"`
	EsActivo bool      `gorm:"not null"`
	// RequiereTerminos: the event carries full financial terms (carta,
	// entidad, vigencia, monto). False for Devolución/Ejecución, which only
	// record fecha + documento + comentarios.
	RequiereTerminos bool `gorm:"not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (EstadoGarantia) TableName() string { return "estados_garantia" }
