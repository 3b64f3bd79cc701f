package model

import (
	"time"

	"github.com/google/uuid"
)

// EntidadFinanciera is the bank or insurer that issues cartas fianza.
type EntidadFinanciera struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	Direccion string    `gorm:"not null"`
	Activo    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (EntidadFinanciera) TableName() string { return "entidades_financieras" }

// TipoMoneda: Soles, Dólares, etc.
type TipoMoneda struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"uniqueIndex;not null"`
	Simbolo   string    `gorm:"type:varchar(5);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (TipoMoneda) TableName() string { return "tipos_moneda" }

// TipoCarta: fiel cumplimiento, adelanto directo, adelanto de materiales, etc.
type TipoCarta struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Descripcion string    `gorm:"uniqueIndex;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (TipoCarta) TableName() string { return "tipos_carta" }

// ObjetoGarantia is the bien, servicio u obra backed by a carta fianza.
// CUI is the código único de inversiones assigned by the MEF, when the
// object is a public investment project.
type ObjetoGarantia struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Descripcion string    `gorm:"uniqueIndex;not null"`
	CUI         *string   `gorm:"column:cui;type:varchar(20)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (ObjetoGarantia) TableName() string { return "objetos_garantia" }
