package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GarantiaHistorial is an append-only event in the life of a garantía
// (emisión, renovación, ampliación, reducción, devolución, ejecución).
//
// The primary key is a plain auto-increment integer on purpose: id order IS
// chronological order, and the record with the max id for a garantía is the
// only one eligible for edit or delete. Past records are frozen.
//
// Financial-term columns are nullable because terminal events (Devolución,
// Ejecución) record only the event itself; the terms that were returned or
// executed live in the previous active record.
type GarantiaHistorial struct {
	ID         int64     `gorm:"primaryKey;autoIncrement"`
	GarantiaID uuid.UUID `gorm:"type:uuid;not null;index"`
	EstadoID   uuid.UUID `gorm:"type:uuid;not null"`
	// EsActivo is denormalized from EstadoGarantia.EsActivo at insert time
	// so that latest-active lookups don't need the join.
	EsActivo            bool `gorm:"not null;index"`
	NumeroCarta         *string
	TipoCartaID         *uuid.UUID `gorm:"type:uuid"`
	EntidadFinancieraID *uuid.UUID `gorm:"type:uuid"`
	// EntidadDireccion is snapshotted from the catalog at insert time; the
	// printed letter must show the address in force when it was issued.
	EntidadDireccion    *string
	FechaEmision        time.Time        `gorm:"type:date;not null"`
	FechaInicio         *time.Time       `gorm:"type:date"`
	FechaFin            *time.Time       `gorm:"type:date"`
	TipoMonedaID        *uuid.UUID       `gorm:"type:uuid"`
	Monto               *decimal.Decimal `gorm:"type:decimal(14,2)"`
	DocumentoReferencia *string
	Comentarios         *string
	CreatedBy           uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt           time.Time
	UpdatedAt           time.Time

	Garantia          Garantia           `gorm:"foreignKey:GarantiaID"`
	Estado            EstadoGarantia     `gorm:"foreignKey:EstadoID"`
	TipoCarta         *TipoCarta         `gorm:"foreignKey:TipoCartaID"`
	EntidadFinanciera *EntidadFinanciera `gorm:"foreignKey:EntidadFinancieraID"`
	TipoMoneda        *TipoMoneda        `gorm:"foreignKey:TipoMonedaID"`
	Archivos          []ArchivoHistorial `gorm:"foreignKey:HistorialID"`
}

func (GarantiaHistorial) TableName() string { return "garantia_historiales" }

// ArchivoHistorial is the metadata row for one PDF attached to a historial.
// The blob itself lives on disk under ARCHIVO_STORAGE_PATH (see infra.Storage).
type ArchivoHistorial struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	HistorialID   int64     `gorm:"not null;index"`
	NombreArchivo string    `gorm:"not null"`
	// Ruta is relative to ARCHIVO_STORAGE_PATH
	Ruta      string    `gorm:"not null"`
	SubidoPor uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time
}

func (ArchivoHistorial) TableName() string { return "archivos_historial" }
