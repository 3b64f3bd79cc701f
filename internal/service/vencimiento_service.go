package service

import (
	"context"
	"encoding/json"
	"time"

	"sigcf/internal/dto"
	"sigcf/internal/model"
	"sigcf/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const conteoCacheTTL = 10 * time.Minute

type VencimientoService interface {
	// Semaforo classifies every open garantía (latest historial active)
	// against the cut-off date. Closed garantías are not listed at all.
	Semaforo(ctx context.Context, al time.Time) (*dto.SemaforoResponse, error)
	// Conteo is the counts-only view, cached when al is today.
	Conteo(ctx context.Context, al time.Time) (*dto.SemaforoConteo, error)
	// PorNotificar returns the items the daily alert mail should include:
	// everything vencida or por_vencer as of the given date.
	PorNotificar(ctx context.Context, al time.Time) ([]dto.VencimientoItem, error)
}

type vencimientoService struct {
	historiales repository.HistorialRepository
	rdb         *redis.Client // nil-safe
}

func NewVencimientoService(historiales repository.HistorialRepository, rdb *redis.Client) VencimientoService {
	return &vencimientoService{historiales: historiales, rdb: rdb}
}

func (s *vencimientoService) Semaforo(ctx context.Context, al time.Time) (*dto.SemaforoResponse, error) {
	rows, err := s.historiales.ListUltimosActivos(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.SemaforoResponse{
		Al:        al.Format(fechaLayout),
		Vencidas:  []dto.VencimientoItem{},
		PorVencer: []dto.VencimientoItem{},
		Vigentes:  []dto.VencimientoItem{},
	}
	for i := range rows {
		h := &rows[i]
		if h.FechaFin == nil {
			continue // active records always carry terms; guard anyway
		}
		clase, dias := ClasificarVencimiento(*h.FechaFin, al)
		item := vencimientoItem(h, clase, dias)
		switch clase {
		case ClaseVencida:
			resp.Vencidas = append(resp.Vencidas, item)
		case ClasePorVencer:
			resp.PorVencer = append(resp.PorVencer, item)
		default:
			resp.Vigentes = append(resp.Vigentes, item)
		}
	}
	resp.Conteo = dto.SemaforoConteo{
		Vencidas:  len(resp.Vencidas),
		PorVencer: len(resp.PorVencer),
		Vigentes:  len(resp.Vigentes),
	}
	return resp, nil
}

func (s *vencimientoService) Conteo(ctx context.Context, al time.Time) (*dto.SemaforoConteo, error) {
	hoy := time.Now()
	cacheable := s.rdb != nil && al.Format(fechaLayout) == hoy.Format(fechaLayout)

	if cacheable {
		if cached, err := s.rdb.Get(ctx, semaforoConteoCacheKey).Bytes(); err == nil {
			var conteo dto.SemaforoConteo
			if jsonErr := json.Unmarshal(cached, &conteo); jsonErr == nil {
				return &conteo, nil
			}
		}
	}

	semaforo, err := s.Semaforo(ctx, al)
	if err != nil {
		return nil, err
	}

	if cacheable {
		// Best effort, ignore errors
		if b, jsonErr := json.Marshal(semaforo.Conteo); jsonErr == nil {
			_ = s.rdb.Set(ctx, semaforoConteoCacheKey, b, conteoCacheTTL).Err()
		}
	}
	return &semaforo.Conteo, nil
}

func (s *vencimientoService) PorNotificar(ctx context.Context, al time.Time) ([]dto.VencimientoItem, error) {
	semaforo, err := s.Semaforo(ctx, al)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VencimientoItem, 0, len(semaforo.Vencidas)+len(semaforo.PorVencer))
	items = append(items, semaforo.Vencidas...)
	items = append(items, semaforo.PorVencer...)
	return items, nil
}

func vencimientoItem(h *model.GarantiaHistorial, clase string, dias int) dto.VencimientoItem {
	item := dto.VencimientoItem{
		GarantiaID:  h.GarantiaID.String(),
		HistorialID: h.ID,
		Objeto:      h.Garantia.ObjetoGarantia.Descripcion,
		Contratista: h.Garantia.Contratista.RazonSocial,
		NumeroCarta: h.NumeroCarta,
		FechaFin:    h.FechaFin.Format(fechaLayout),
	}
	if h.Monto != nil {
		item.Monto = *h.Monto
	} else {
		item.Monto = decimal.Zero
	}
	if h.EntidadFinanciera != nil {
		item.EntidadFinanciera = &h.EntidadFinanciera.Nombre
	}
	if h.TipoMoneda != nil {
		item.Moneda = &h.TipoMoneda.Nombre
	}
	if clase != ClaseVigente {
		d := dias
		item.Dias = &d
	}
	return item
}
