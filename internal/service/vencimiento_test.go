package service

import (
	"context"
	"testing"
	"time"

	"sigcf/internal/dto"
	"sigcf/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fecha(s string) time.Time {
	t, _ := time.Parse(fechaLayout, s)
	return t
}

func TestClasificarVencimiento(t *testing.T) {
	hoy := fecha("2025-03-10")

	cases := []struct {
		nombre   string
		fechaFin string
		clase    string
		dias     int
	}{
		{"vencida ayer", "2025-03-09", ClaseVencida, 1},
		{"vencida hace nueve días", "2025-03-01", ClaseVencida, 9},
		{"vence hoy", "2025-03-10", ClasePorVencer, 0},
		{"vence mañana", "2025-03-11", ClasePorVencer, 1},
		{"justo en el umbral", "2025-03-25", ClasePorVencer, 15},
		{"un día después del umbral", "2025-03-26", ClaseVigente, 16},
		{"vigente lejana", "2025-12-31", ClaseVigente, 296},
	}
	for _, tc := range cases {
		t.Run(tc.nombre, func(t *testing.T) {
			clase, dias := ClasificarVencimiento(fecha(tc.fechaFin), hoy)
			assert.Equal(t, tc.clase, clase)
			assert.Equal(t, tc.dias, dias)
		})
	}
}

func TestClasificarVencimientoIgnoraHoraDelDia(t *testing.T) {
	fin := time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)
	hoy := time.Date(2025, 3, 10, 0, 5, 0, 0, time.UTC)

	clase, dias := ClasificarVencimiento(fin, hoy)

	assert.Equal(t, ClasePorVencer, clase)
	assert.Equal(t, 0, dias)
}

// agrega una garantía abierta cuyo último historial vence en fechaFin.
func (f *fixture) emitirConVencimiento(t *testing.T, numero, fechaFin string) {
	t.Helper()
	terminos := f.terminos(numero)
	terminos.FechaInicio = "2024-01-01"
	terminos.FechaFin = fechaFin
	_, err := f.svc.RegistrarEmision(context.Background(), f.usuarioID, dto.RegistrarEmisionRequest{
		ObjetoGarantiaID: f.objeto.ID.String(),
		ContratistaID:    f.contratista.ID.String(),
		FechaEmision:     "2024-01-01",
		Terminos:         terminos,
	})
	require.NoError(t, err)
}

func TestSemaforoClasificaGarantiasAbiertas(t *testing.T) {
	f := newFixture(t)
	vctos := NewVencimientoService(&fakeHistorialRepo{f.store}, nil)
	al := fecha("2025-03-10")

	f.emitirConVencimiento(t, "D000-1", "2025-02-20") // vencida
	f.emitirConVencimiento(t, "D000-2", "2025-03-18") // por vencer
	f.emitirConVencimiento(t, "D000-3", "2025-09-30") // vigente

	resp, err := vctos.Semaforo(context.Background(), al)

	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", resp.Al)
	require.Len(t, resp.Vencidas, 1)
	require.Len(t, resp.PorVencer, 1)
	require.Len(t, resp.Vigentes, 1)
	assert.Equal(t, dto.SemaforoConteo{Vencidas: 1, PorVencer: 1, Vigentes: 1}, resp.Conteo)

	vencida := resp.Vencidas[0]
	require.NotNil(t, vencida.Dias)
	assert.Equal(t, 18, *vencida.Dias)
	assert.Equal(t, f.objeto.Descripcion, vencida.Objeto)
	assert.Equal(t, f.contratista.RazonSocial, vencida.Contratista)

	// Las vigentes no llevan contador de días
	assert.Nil(t, resp.Vigentes[0].Dias)
}

func TestSemaforoExcluyeGarantiasCerradas(t *testing.T) {
	f := newFixture(t)
	vctos := NewVencimientoService(&fakeHistorialRepo{f.store}, nil)

	f.emitirConVencimiento(t, "D000-10", "2025-02-20")
	g := f.emitir(t)
	_, err := f.transicion(t, g.ID, model.EstadoDevolucion, nil)
	require.NoError(t, err)

	resp, err := vctos.Semaforo(context.Background(), fecha("2025-03-10"))

	require.NoError(t, err)
	total := len(resp.Vencidas) + len(resp.PorVencer) + len(resp.Vigentes)
	assert.Equal(t, 1, total)
}

func TestPorNotificarOmiteVigentes(t *testing.T) {
	f := newFixture(t)
	vctos := NewVencimientoService(&fakeHistorialRepo{f.store}, nil)

	f.emitirConVencimiento(t, "D000-20", "2025-02-20") // vencida
	f.emitirConVencimiento(t, "D000-21", "2025-03-12") // por vencer
	f.emitirConVencimiento(t, "D000-22", "2026-01-01") // vigente

	items, err := vctos.PorNotificar(context.Background(), fecha("2025-03-10"))

	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, it := range items {
		assert.NotNil(t, it.Dias)
		assert.True(t, it.Monto.Equal(decimal.NewFromInt(250000)))
	}
}

func TestConteoSinRedisCalculaDirecto(t *testing.T) {
	f := newFixture(t)
	vctos := NewVencimientoService(&fakeHistorialRepo{f.store}, nil)

	f.emitirConVencimiento(t, "D000-30", "2025-02-20")

	conteo, err := vctos.Conteo(context.Background(), fecha("2025-03-10"))

	require.NoError(t, err)
	assert.Equal(t, 1, conteo.Vencidas)
	assert.Equal(t, 0, conteo.PorVencer)
	assert.Equal(t, 0, conteo.Vigentes)
}
