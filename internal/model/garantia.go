package model

import (
	"time"

	"github.com/google/uuid"
)

// Garantia is one guaranteed obligation. It carries no status of its own:
// its condition is entirely derived from its chain of GarantiaHistorial
// records (the max-id record is the vigent one). A Garantia is created by
// its first historial (Emisión) and deleted only as a cascade of deleting
// its sole remaining historial.
type Garantia struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ObjetoGarantiaID uuid.UUID `gorm:"type:uuid;not null;index"`
	ContratistaID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	ObjetoGarantia ObjetoGarantia      `gorm:"foreignKey:ObjetoGarantiaID"`
	Contratista    Contratista         `gorm:"foreignKey:ContratistaID"`
	Historiales    []GarantiaHistorial `gorm:"foreignKey:GarantiaID"`
}

func (Garantia) TableName() string { return "garantias" }
