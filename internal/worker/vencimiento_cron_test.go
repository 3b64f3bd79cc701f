package worker

import (
	"testing"
	"time"

	"sigcf/internal/dto"

	"github.com/stretchr/testify/assert"
)

func TestNextFire(t *testing.T) {
	lima := time.FixedZone("America/Lima", -5*3600)

	t.Run("antes de la hora programada", func(t *testing.T) {
		now := time.Date(2025, 3, 10, 5, 30, 0, 0, lima)
		next := nextFire(now, 7)
		assert.Equal(t, time.Date(2025, 3, 10, 7, 0, 0, 0, lima), next)
	})

	t.Run("después de la hora programada", func(t *testing.T) {
		now := time.Date(2025, 3, 10, 9, 0, 0, 0, lima)
		next := nextFire(now, 7)
		assert.Equal(t, time.Date(2025, 3, 11, 7, 0, 0, 0, lima), next)
	})

	t.Run("exactamente a la hora programada", func(t *testing.T) {
		now := time.Date(2025, 3, 10, 7, 0, 0, 0, lima)
		next := nextFire(now, 7)
		assert.Equal(t, time.Date(2025, 3, 11, 7, 0, 0, 0, lima), next)
	})
}

func TestCuerpoAlerta(t *testing.T) {
	hoy := time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC)
	numero := "D000-123"
	vencidaDias := 3
	porVencerDias := 5
	hoyDias := 0

	items := []dto.VencimientoItem{
		{NumeroCarta: &numero, Objeto: "Obra A", Contratista: "Constructora X", FechaFin: "2025-03-07", Dias: &vencidaDias},
		{Objeto: "Obra B", Contratista: "Constructora Y", FechaFin: "2025-03-15", Dias: &porVencerDias},
		{NumeroCarta: &numero, Objeto: "Obra C", Contratista: "Constructora Z", FechaFin: "2025-03-10", Dias: &hoyDias},
	}

	cuerpo := cuerpoAlerta(items, hoy)

	assert.Contains(t, cuerpo, "vencida hace 3 días")
	assert.Contains(t, cuerpo, "vence en 5 días")
	assert.Contains(t, cuerpo, "vence hoy")
	assert.Contains(t, cuerpo, "D000-123")
	assert.Contains(t, cuerpo, "(sin carta)")
	assert.Contains(t, cuerpo, "Obra B | Constructora Y")
}
