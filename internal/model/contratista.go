package model

import (
	"time"

	"github.com/google/uuid"
)

// Contratista is the company (or consorcio) that presents a carta fianza.
type Contratista struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RazonSocial string    `gorm:"not null"`
	RUC         string    `gorm:"column:ruc;uniqueIndex;not null"`
	Direccion   *string
	Telefono    *string
	Email       *string
	Activo      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Contratista) TableName() string { return "contratistas" }
