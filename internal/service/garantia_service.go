package service

import (
	"context"
	"errors"
	"time"

	"sigcf/internal/dto"
	"sigcf/internal/model"
	"sigcf/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type GarantiaService interface {
	// RegistrarEmision creates a garantía together with its first historial
	// (estado Emisión). This is the only way a garantía comes into existence.
	RegistrarEmision(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarEmisionRequest) (*dto.GarantiaResponse, error)
	// RegistrarTransicion appends a renovación/ampliación/reducción/devolución/
	// ejecución to an open garantía. The latest-record-is-active precondition
	// is re-checked inside the transaction that inserts the new record.
	RegistrarTransicion(ctx context.Context, usuarioID, garantiaID uuid.UUID, req dto.RegistrarTransicionRequest) (*dto.HistorialResponse, error)
	// ActualizarUltimo overwrites the mutable fields of the latest historial.
	ActualizarUltimo(ctx context.Context, historialID int64, req dto.ActualizarHistorialRequest) (*dto.HistorialResponse, error)
	// EliminarUltimo deletes the latest historial and, when it was the sole
	// record, the garantía itself (cascade).
	EliminarUltimo(ctx context.Context, historialID int64) (*dto.EliminarHistorialResponse, error)
	EsUltimo(ctx context.Context, historialID int64) (bool, error)
	ObtenerConHistorial(ctx context.Context, garantiaID uuid.UUID) (*dto.GarantiaResponse, error)
	// ObtenerCierre returns the terminal event of a closed garantía together
	// with the terms of the last active record (what was returned/executed).
	ObtenerCierre(ctx context.Context, garantiaID uuid.UUID) (*dto.CierreResponse, error)
	Listar(ctx context.Context, filter dto.GarantiaFilter) (*dto.GarantiaListResponse, error)
}

type garantiaService struct {
	garantias    repository.GarantiaRepository
	historiales  repository.HistorialRepository
	archivos     repository.ArchivoRepository
	estados      repository.EstadoRepository
	entidades    repository.EntidadFinancieraRepository
	tiposCarta   repository.TipoCartaRepository
	tiposMoneda  repository.TipoMonedaRepository
	objetos      repository.ObjetoGarantiaRepository
	contratistas repository.ContratistaRepository
	storage      BlobStorage
	rdb          *redis.Client // nil-safe: only used to invalidate the semáforo cache
}

// BlobStorage is the slice of infra.Storage the engine needs: blob removal
// after a historial delete commits.
type BlobStorage interface {
	Eliminar(ruta string) error
}

func NewGarantiaService(
	garantias repository.GarantiaRepository,
	historiales repository.HistorialRepository,
	archivos repository.ArchivoRepository,
	estados repository.EstadoRepository,
	entidades repository.EntidadFinancieraRepository,
	tiposCarta repository.TipoCartaRepository,
	tiposMoneda repository.TipoMonedaRepository,
	objetos repository.ObjetoGarantiaRepository,
	contratistas repository.ContratistaRepository,
	storage BlobStorage,
	rdb *redis.Client,
) GarantiaService {
	return &garantiaService{
		garantias:    garantias,
		historiales:  historiales,
		archivos:     archivos,
		estados:      estados,
		entidades:    entidades,
		tiposCarta:   tiposCarta,
		tiposMoneda:  tiposMoneda,
		objetos:      objetos,
		contratistas: contratistas,
		storage:      storage,
		rdb:          rdb,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── RegistrarEmision ─────────────────────────────────────────────────────────

func (s *garantiaService) RegistrarEmision(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarEmisionRequest) (*dto.GarantiaResponse, error) {
	estado, err := s.estados.FindByNombre(ctx, model.EstadoEmision)
	if err != nil {
		return nil, err
	}

	terminos, err := s.resolverTerminos(ctx, &req.Terminos)
	if err != nil {
		return nil, err
	}
	fechaEmision, _ := time.Parse(fechaLayout, req.FechaEmision)

	objetoID := uuid.MustParse(req.ObjetoGarantiaID)
	if _, err := s.objetos.FindByID(ctx, objetoID); err != nil {
		return nil, nuevaValidacion("objeto_garantia_id", "objeto no encontrado")
	}
	contratistaID := uuid.MustParse(req.ContratistaID)
	if _, err := s.contratistas.FindByID(ctx, contratistaID); err != nil {
		return nil, nuevaValidacion("contratista_id", "contratista no encontrado")
	}

	garantia := &model.Garantia{
		ObjetoGarantiaID: objetoID,
		ContratistaID:    contratistaID,
	}

	err = runTx(ctx, s.garantias.DB(), func(tx *gorm.DB) error {
		if err := s.garantias.Create(ctx, tx, garantia); err != nil {
			return err
		}
		historial := &model.GarantiaHistorial{
			GarantiaID:          garantia.ID,
			EstadoID:            estado.ID,
			EsActivo:            estado.EsActivo,
			FechaEmision:        fechaEmision,
			DocumentoReferencia: req.DocumentoReferencia,
			Comentarios:         req.Comentarios,
			CreatedBy:           usuarioID,
		}
		terminos.aplicar(historial)
		return s.historiales.Create(ctx, tx, historial)
	})
	if err != nil {
		return nil, err
	}

	s.invalidarConteo(ctx)
	return s.ObtenerConHistorial(ctx, garantia.ID)
}

// ── RegistrarTransicion ──────────────────────────────────────────────────────

func (s *garantiaService) RegistrarTransicion(ctx context.Context, usuarioID, garantiaID uuid.UUID, req dto.RegistrarTransicionRequest) (*dto.HistorialResponse, error) {
	estado, err := s.estados.FindByNombre(ctx, req.Estado)
	if err != nil {
		return nil, nuevaValidacion("estado", "estado desconocido")
	}
	// Emisión never transitions — it only opens a garantía.
	if estado.Nombre == model.EstadoEmision {
		return nil, nuevaValidacion("estado", "una emisión no es una transición")
	}

	var terminos *terminosResueltos
	if estado.RequiereTerminos {
		if req.Terminos == nil {
			return nil, nuevaValidacion("terminos", "requerido para estados activos")
		}
		terminos, err = s.resolverTerminos(ctx, req.Terminos)
		if err != nil {
			return nil, err
		}
	}
	fechaEmision, _ := time.Parse(fechaLayout, req.FechaEmision)

	var historial *model.GarantiaHistorial
	err = runTx(ctx, s.historiales.DB(), func(tx *gorm.DB) error {
		// Precondition re-read inside the transaction: two concurrent
		// transitions cannot both observe the same latest record and win.
		ultimo, err := s.historiales.FindUltimo(ctx, tx, garantiaID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoEncontrado
			}
			return err
		}
		if !ultimo.EsActivo {
			return ErrTransicionInvalida
		}

		historial = &model.GarantiaHistorial{
			GarantiaID:          garantiaID,
			EstadoID:            estado.ID,
			EsActivo:            estado.EsActivo,
			FechaEmision:        fechaEmision,
			DocumentoReferencia: req.DocumentoReferencia,
			Comentarios:         req.Comentarios,
			CreatedBy:           usuarioID,
		}
		if terminos != nil {
			terminos.aplicar(historial)
		}
		return s.historiales.Create(ctx, tx, historial)
	})
	if err != nil {
		return nil, err
	}

	s.invalidarConteo(ctx)
	historial.Estado = *estado
	resp := historialToResponse(historial, true)
	return &resp, nil
}

// ── ActualizarUltimo ─────────────────────────────────────────────────────────

func (s *garantiaService) ActualizarUltimo(ctx context.Context, historialID int64, req dto.ActualizarHistorialRequest) (*dto.HistorialResponse, error) {
	h, err := s.historiales.FindByID(ctx, historialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrado
		}
		return nil, err
	}

	if err := validarActualizacion(h, req); err != nil {
		return nil, err
	}

	// Changed catalog references are resolved before the transaction; an
	// entity change also refreshes the address snapshot, which otherwise
	// would keep pointing at the previous entity's domicile.
	var entidad *model.EntidadFinanciera
	if req.EntidadFinancieraID != nil {
		entidad, err = s.entidades.FindByID(ctx, uuid.MustParse(*req.EntidadFinancieraID))
		if err != nil {
			return nil, nuevaValidacion("entidad_financiera_id", "entidad no encontrada")
		}
	}
	if req.TipoCartaID != nil {
		if _, err := s.tiposCarta.FindByID(ctx, uuid.MustParse(*req.TipoCartaID)); err != nil {
			return nil, nuevaValidacion("tipo_carta_id", "tipo de carta no encontrado")
		}
	}
	if req.TipoMonedaID != nil {
		if _, err := s.tiposMoneda.FindByID(ctx, uuid.MustParse(*req.TipoMonedaID)); err != nil {
			return nil, nuevaValidacion("tipo_moneda_id", "tipo de moneda no encontrado")
		}
	}

	// Collect blob paths now; the files are removed from disk only after
	// the metadata delete commits.
	var rutasEliminar []string

	err = runTx(ctx, s.historiales.DB(), func(tx *gorm.DB) error {
		maxID, err := s.historiales.MaxID(ctx, tx, h.GarantiaID)
		if err != nil {
			return err
		}
		if h.ID != maxID {
			return ErrNoEsUltimo
		}

		aplicarCambios(h, req)
		if entidad != nil {
			direccion := entidad.Direccion
			h.EntidadDireccion = &direccion
		}
		if err := s.historiales.Update(ctx, tx, h); err != nil {
			return err
		}

		for _, idStr := range req.ArchivosEliminar {
			archivoID := uuid.MustParse(idStr)
			archivo, err := s.archivos.FindByID(ctx, archivoID)
			if err != nil || archivo.HistorialID != h.ID {
				return ErrNoEncontrado
			}
			if err := s.archivos.Delete(ctx, tx, archivoID); err != nil {
				return err
			}
			rutasEliminar = append(rutasEliminar, archivo.Ruta)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, ruta := range rutasEliminar {
		if s.storage != nil {
			_ = s.storage.Eliminar(ruta)
		}
	}

	s.invalidarConteo(ctx)
	actualizado, err := s.historiales.FindByID(ctx, historialID)
	if err != nil {
		return nil, err
	}
	resp := historialToResponse(actualizado, true)
	return &resp, nil
}

// ── EliminarUltimo ───────────────────────────────────────────────────────────

func (s *garantiaService) EliminarUltimo(ctx context.Context, historialID int64) (*dto.EliminarHistorialResponse, error) {
	h, err := s.historiales.FindByID(ctx, historialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrado
		}
		return nil, err
	}

	archivos, err := s.archivos.ListByHistorial(ctx, historialID)
	if err != nil {
		return nil, err
	}

	garantiaEliminada := false
	err = runTx(ctx, s.historiales.DB(), func(tx *gorm.DB) error {
		maxID, err := s.historiales.MaxID(ctx, tx, h.GarantiaID)
		if err != nil {
			return err
		}
		if h.ID != maxID {
			return ErrNoEsUltimo
		}

		if err := s.archivos.DeleteByHistorial(ctx, tx, historialID); err != nil {
			return err
		}
		if err := s.historiales.Delete(ctx, tx, historialID); err != nil {
			return err
		}

		restantes, err := s.historiales.Count(ctx, tx, h.GarantiaID)
		if err != nil {
			return err
		}
		if restantes == 0 {
			garantiaEliminada = true
			return s.garantias.Delete(ctx, tx, h.GarantiaID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, a := range archivos {
		if s.storage != nil {
			_ = s.storage.Eliminar(a.Ruta)
		}
	}

	s.invalidarConteo(ctx)
	return &dto.EliminarHistorialResponse{GarantiaEliminada: garantiaEliminada}, nil
}

// ── Consultas ────────────────────────────────────────────────────────────────

func (s *garantiaService) EsUltimo(ctx context.Context, historialID int64) (bool, error) {
	h, err := s.historiales.FindByID(ctx, historialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNoEncontrado
		}
		return false, err
	}
	maxID, err := s.historiales.MaxID(ctx, nil, h.GarantiaID)
	if err != nil {
		return false, err
	}
	return h.ID == maxID, nil
}

func (s *garantiaService) ObtenerConHistorial(ctx context.Context, garantiaID uuid.UUID) (*dto.GarantiaResponse, error) {
	g, err := s.garantias.FindByID(ctx, garantiaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrado
		}
		return nil, err
	}

	resp := &dto.GarantiaResponse{
		ID:          g.ID.String(),
		Objeto:      g.ObjetoGarantia.Descripcion,
		ObjetoCUI:   g.ObjetoGarantia.CUI,
		Contratista: g.Contratista.RazonSocial,
	}
	for i := range g.Historiales {
		h := &g.Historiales[i]
		esUltimo := i == len(g.Historiales)-1
		if esUltimo {
			resp.Cerrada = !h.EsActivo
		}
		resp.Historiales = append(resp.Historiales, historialToResponse(h, esUltimo))
	}
	return resp, nil
}

func (s *garantiaService) ObtenerCierre(ctx context.Context, garantiaID uuid.UUID) (*dto.CierreResponse, error) {
	ultimo, err := s.historiales.FindUltimo(ctx, nil, garantiaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoEncontrado
		}
		return nil, err
	}
	if ultimo.EsActivo {
		return nil, ErrSinCierre
	}

	terminos, err := s.historiales.FindUltimoActivoAntes(ctx, garantiaID, ultimo.ID)
	if err != nil {
		return nil, err
	}
	return &dto.CierreResponse{
		Cierre:           historialToResponse(ultimo, true),
		TerminosCerrados: historialToResponse(terminos, false),
	}, nil
}

func (s *garantiaService) Listar(ctx context.Context, filter dto.GarantiaFilter) (*dto.GarantiaListResponse, error) {
	garantias, total, err := s.garantias.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.GarantiaListResponse{
		Data:  make([]dto.GarantiaListItem, 0, len(garantias)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for _, g := range garantias {
		resp.Data = append(resp.Data, dto.GarantiaListItem{
			ID:          g.ID.String(),
			Objeto:      g.ObjetoGarantia.Descripcion,
			Contratista: g.Contratista.RazonSocial,
			CreatedAt:   g.CreatedAt.Format(time.RFC3339),
		})
	}
	return resp, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

// terminosResueltos are TerminosCarta after cross-field validation, with
// parsed dates and the entidad address snapshotted from the catalog.
type terminosResueltos struct {
	numeroCarta      string
	tipoCartaID      uuid.UUID
	entidadID        uuid.UUID
	entidadDireccion string
	fechaInicio      time.Time
	fechaFin         time.Time
	tipoMonedaID     uuid.UUID
	monto            decimal.Decimal
}

func (s *garantiaService) resolverTerminos(ctx context.Context, t *dto.TerminosCarta) (*terminosResueltos, error) {
	fechaInicio, _ := time.Parse(fechaLayout, t.FechaInicio)
	fechaFin, _ := time.Parse(fechaLayout, t.FechaFin)

	fields := map[string]string{}
	if !fechaFin.After(fechaInicio) {
		fields["fecha_fin"] = "debe ser posterior a fecha_inicio"
	}
	if !t.Monto.IsPositive() {
		fields["monto"] = "debe ser mayor que cero"
	}
	if len(fields) > 0 {
		return nil, &ValidacionError{Fields: fields}
	}

	entidadID := uuid.MustParse(t.EntidadFinancieraID)
	entidad, err := s.entidades.FindByID(ctx, entidadID)
	if err != nil {
		return nil, nuevaValidacion("entidad_financiera_id", "entidad no encontrada")
	}
	tipoCartaID := uuid.MustParse(t.TipoCartaID)
	if _, err := s.tiposCarta.FindByID(ctx, tipoCartaID); err != nil {
		return nil, nuevaValidacion("tipo_carta_id", "tipo de carta no encontrado")
	}
	tipoMonedaID := uuid.MustParse(t.TipoMonedaID)
	if _, err := s.tiposMoneda.FindByID(ctx, tipoMonedaID); err != nil {
		return nil, nuevaValidacion("tipo_moneda_id", "tipo de moneda no encontrado")
	}

	return &terminosResueltos{
		numeroCarta:      t.NumeroCarta,
		tipoCartaID:      tipoCartaID,
		entidadID:        entidadID,
		entidadDireccion: entidad.Direccion,
		fechaInicio:      fechaInicio,
		fechaFin:         fechaFin,
		tipoMonedaID:     tipoMonedaID,
		monto:            t.Monto,
	}, nil
}

func (t *terminosResueltos) aplicar(h *model.GarantiaHistorial) {
	numero := t.numeroCarta
	direccion := t.entidadDireccion
	inicio, fin := t.fechaInicio, t.fechaFin
	tipoCarta, entidad, moneda := t.tipoCartaID, t.entidadID, t.tipoMonedaID
	monto := t.monto

	h.NumeroCarta = &numero
	h.TipoCartaID = &tipoCarta
	h.EntidadFinancieraID = &entidad
	h.EntidadDireccion = &direccion
	h.FechaInicio = &inicio
	h.FechaFin = &fin
	h.TipoMonedaID = &moneda
	h.Monto = &monto
}
