package service

import (
	"context"
	"sort"
	"testing"

	"sigcf/internal/dto"
	"sigcf/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory store shared by all fake repos ─────────────────────────────────
// The fakes return a nil *gorm.DB from DB(), which makes runTx call the
// closure directly — the engine's precondition re-reads then hit the maps.

type memStore struct {
	garantias    map[uuid.UUID]*model.Garantia
	historiales  map[int64]*model.GarantiaHistorial
	archivos     map[uuid.UUID]*model.ArchivoHistorial
	estados      map[uuid.UUID]*model.EstadoGarantia
	entidades    map[uuid.UUID]*model.EntidadFinanciera
	tiposCarta   map[uuid.UUID]*model.TipoCarta
	tiposMoneda  map[uuid.UUID]*model.TipoMoneda
	objetos      map[uuid.UUID]*model.ObjetoGarantia
	contratistas map[uuid.UUID]*model.Contratista
	nextID       int64
}

func newMemStore() *memStore {
	s := &memStore{
		garantias:    make(map[uuid.UUID]*model.Garantia),
		historiales:  make(map[int64]*model.GarantiaHistorial),
		archivos:     make(map[uuid.UUID]*model.ArchivoHistorial),
		estados:      make(map[uuid.UUID]*model.EstadoGarantia),
		entidades:    make(map[uuid.UUID]*model.EntidadFinanciera),
		tiposCarta:   make(map[uuid.UUID]*model.TipoCarta),
		tiposMoneda:  make(map[uuid.UUID]*model.TipoMoneda),
		objetos:      make(map[uuid.UUID]*model.ObjetoGarantia),
		contratistas: make(map[uuid.UUID]*model.Contratista),
	}
	for _, e := range []struct {
		nombre           string
		esActivo         bool
		requiereTerminos bool
	}{
		{model.EstadoEmision, true, true},
		{model.EstadoRenovacion, true, true},
		{model.EstadoAmpliacion, true, true},
		{model.EstadoReduccion, true, true},
		{model.EstadoDevolucion, false, false},
		{model.EstadoEjecucion, false, false},
	} {
		id := uuid.New()
		s.estados[id] = &model.EstadoGarantia{
			ID: id, Nombre: e.nombre, EsActivo: e.esActivo, RequiereTerminos: e.requiereTerminos,
		}
	}
	return s
}

func (s *memStore) estadoPorNombre(nombre string) *model.EstadoGarantia {
	for _, e := range s.estados {
		if e.Nombre == nombre {
			return e
		}
	}
	return nil
}

func (s *memStore) historialesDe(garantiaID uuid.UUID) []model.GarantiaHistorial {
	var out []model.GarantiaHistorial
	for _, h := range s.historiales {
		if h.GarantiaID == garantiaID {
			c := *h
			c.Estado = *s.estados[h.EstadoID]
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ── Fake repositories ────────────────────────────────────────────────────────

type fakeGarantiaRepo struct{ s *memStore }

func (r *fakeGarantiaRepo) DB() *gorm.DB { return nil }

func (r *fakeGarantiaRepo) Create(_ context.Context, _ *gorm.DB, g *model.Garantia) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	r.s.garantias[g.ID] = g
	return nil
}

func (r *fakeGarantiaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Garantia, error) {
	g, ok := r.s.garantias[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *g
	c.ObjetoGarantia = *r.s.objetos[g.ObjetoGarantiaID]
	c.Contratista = *r.s.contratistas[g.ContratistaID]
	c.Historiales = r.s.historialesDe(id)
	return &c, nil
}

func (r *fakeGarantiaRepo) List(_ context.Context, _ dto.GarantiaFilter) ([]model.Garantia, int64, error) {
	var out []model.Garantia
	for id := range r.s.garantias {
		g, _ := r.FindByID(context.Background(), id)
		out = append(out, *g)
	}
	return out, int64(len(out)), nil
}

func (r *fakeGarantiaRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	delete(r.s.garantias, id)
	return nil
}

type fakeHistorialRepo struct{ s *memStore }

func (r *fakeHistorialRepo) DB() *gorm.DB { return nil }

func (r *fakeHistorialRepo) Create(_ context.Context, _ *gorm.DB, h *model.GarantiaHistorial) error {
	r.s.nextID++
	h.ID = r.s.nextID
	c := *h
	r.s.historiales[h.ID] = &c
	return nil
}

func (r *fakeHistorialRepo) FindByID(_ context.Context, id int64) (*model.GarantiaHistorial, error) {
	h, ok := r.s.historiales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *h
	c.Estado = *r.s.estados[h.EstadoID]
	return &c, nil
}

func (r *fakeHistorialRepo) MaxID(_ context.Context, _ *gorm.DB, garantiaID uuid.UUID) (int64, error) {
	var max int64
	for _, h := range r.s.historiales {
		if h.GarantiaID == garantiaID && h.ID > max {
			max = h.ID
		}
	}
	return max, nil
}

func (r *fakeHistorialRepo) FindUltimo(ctx context.Context, tx *gorm.DB, garantiaID uuid.UUID) (*model.GarantiaHistorial, error) {
	max, _ := r.MaxID(ctx, tx, garantiaID)
	if max == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(ctx, max)
}

func (r *fakeHistorialRepo) FindUltimoActivoAntes(ctx context.Context, garantiaID uuid.UUID, beforeID int64) (*model.GarantiaHistorial, error) {
	var best int64
	for _, h := range r.s.historiales {
		if h.GarantiaID == garantiaID && h.ID < beforeID && h.EsActivo && h.ID > best {
			best = h.ID
		}
	}
	if best == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(ctx, best)
}

func (r *fakeHistorialRepo) Update(_ context.Context, _ *gorm.DB, h *model.GarantiaHistorial) error {
	c := *h
	r.s.historiales[h.ID] = &c
	return nil
}

func (r *fakeHistorialRepo) Delete(_ context.Context, _ *gorm.DB, id int64) error {
	delete(r.s.historiales, id)
	return nil
}

func (r *fakeHistorialRepo) Count(_ context.Context, _ *gorm.DB, garantiaID uuid.UUID) (int64, error) {
	var n int64
	for _, h := range r.s.historiales {
		if h.GarantiaID == garantiaID {
			n++
		}
	}
	return n, nil
}

func (r *fakeHistorialRepo) ListUltimosActivos(ctx context.Context) ([]model.GarantiaHistorial, error) {
	var out []model.GarantiaHistorial
	for gid := range r.s.garantias {
		max, _ := r.MaxID(ctx, nil, gid)
		if max == 0 {
			continue
		}
		h := r.s.historiales[max]
		if !h.EsActivo {
			continue
		}
		c := *h
		c.Estado = *r.s.estados[h.EstadoID]
		c.Garantia = *r.s.garantias[gid]
		c.Garantia.ObjetoGarantia = *r.s.objetos[c.Garantia.ObjetoGarantiaID]
		c.Garantia.Contratista = *r.s.contratistas[c.Garantia.ContratistaID]
		out = append(out, c)
	}
	return out, nil
}

type fakeArchivoRepo struct{ s *memStore }

func (r *fakeArchivoRepo) Create(_ context.Context, a *model.ArchivoHistorial) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.s.archivos[a.ID] = a
	return nil
}

func (r *fakeArchivoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ArchivoHistorial, error) {
	a, ok := r.s.archivos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (r *fakeArchivoRepo) ListByHistorial(_ context.Context, historialID int64) ([]model.ArchivoHistorial, error) {
	var out []model.ArchivoHistorial
	for _, a := range r.s.archivos {
		if a.HistorialID == historialID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeArchivoRepo) Delete(_ context.Context, _ *gorm.DB, id uuid.UUID) error {
	delete(r.s.archivos, id)
	return nil
}

func (r *fakeArchivoRepo) DeleteByHistorial(_ context.Context, _ *gorm.DB, historialID int64) error {
	for id, a := range r.s.archivos {
		if a.HistorialID == historialID {
			delete(r.s.archivos, id)
		}
	}
	return nil
}

type fakeEstadoRepo struct{ s *memStore }

func (r *fakeEstadoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.EstadoGarantia, error) {
	e, ok := r.s.estados[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (r *fakeEstadoRepo) FindByNombre(_ context.Context, nombre string) (*model.EstadoGarantia, error) {
	if e := r.s.estadoPorNombre(nombre); e != nil {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeEstadoRepo) List(_ context.Context) ([]model.EstadoGarantia, error) {
	var out []model.EstadoGarantia
	for _, e := range r.s.estados {
		out = append(out, *e)
	}
	return out, nil
}

type fakeEntidadRepo struct{ s *memStore }

func (r *fakeEntidadRepo) Create(_ context.Context, e *model.EntidadFinanciera) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	r.s.entidades[e.ID] = e
	return nil
}

func (r *fakeEntidadRepo) FindByID(_ context.Context, id uuid.UUID) (*model.EntidadFinanciera, error) {
	e, ok := r.s.entidades[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return e, nil
}

func (r *fakeEntidadRepo) List(_ context.Context) ([]model.EntidadFinanciera, error) { return nil, nil }
func (r *fakeEntidadRepo) Update(_ context.Context, _ *model.EntidadFinanciera) error {
	return nil
}
func (r *fakeEntidadRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }
func (r *fakeEntidadRepo) CountHistoriales(_ context.Context, _ uuid.UUID) (int64, error) {
	return 0, nil
}

type fakeTipoCartaRepo struct{ s *memStore }

func (r *fakeTipoCartaRepo) Create(_ context.Context, t *model.TipoCarta) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.s.tiposCarta[t.ID] = t
	return nil
}

func (r *fakeTipoCartaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.TipoCarta, error) {
	t, ok := r.s.tiposCarta[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *fakeTipoCartaRepo) List(_ context.Context) ([]model.TipoCarta, error)  { return nil, nil }
func (r *fakeTipoCartaRepo) Update(_ context.Context, _ *model.TipoCarta) error { return nil }
func (r *fakeTipoCartaRepo) Delete(_ context.Context, _ uuid.UUID) error        { return nil }
func (r *fakeTipoCartaRepo) CountHistoriales(_ context.Context, _ uuid.UUID) (int64, error) {
	return 0, nil
}

type fakeTipoMonedaRepo struct{ s *memStore }

func (r *fakeTipoMonedaRepo) Create(_ context.Context, t *model.TipoMoneda) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.s.tiposMoneda[t.ID] = t
	return nil
}

func (r *fakeTipoMonedaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.TipoMoneda, error) {
	t, ok := r.s.tiposMoneda[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *fakeTipoMonedaRepo) List(_ context.Context) ([]model.TipoMoneda, error)  { return nil, nil }
func (r *fakeTipoMonedaRepo) Update(_ context.Context, _ *model.TipoMoneda) error { return nil }
func (r *fakeTipoMonedaRepo) Delete(_ context.Context, _ uuid.UUID) error         { return nil }
func (r *fakeTipoMonedaRepo) CountHistoriales(_ context.Context, _ uuid.UUID) (int64, error) {
	return 0, nil
}

type fakeObjetoRepo struct{ s *memStore }

func (r *fakeObjetoRepo) Create(_ context.Context, o *model.ObjetoGarantia) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	r.s.objetos[o.ID] = o
	return nil
}

func (r *fakeObjetoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ObjetoGarantia, error) {
	o, ok := r.s.objetos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (r *fakeObjetoRepo) List(_ context.Context) ([]model.ObjetoGarantia, error)  { return nil, nil }
func (r *fakeObjetoRepo) Update(_ context.Context, _ *model.ObjetoGarantia) error { return nil }
func (r *fakeObjetoRepo) Delete(_ context.Context, _ uuid.UUID) error             { return nil }
func (r *fakeObjetoRepo) CountGarantias(_ context.Context, _ uuid.UUID) (int64, error) {
	return 0, nil
}

type fakeContratistaRepo struct{ s *memStore }

func (r *fakeContratistaRepo) Create(_ context.Context, c *model.Contratista) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.s.contratistas[c.ID] = c
	return nil
}

func (r *fakeContratistaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Contratista, error) {
	c, ok := r.s.contratistas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *fakeContratistaRepo) FindByRUC(_ context.Context, ruc string) (*model.Contratista, error) {
	for _, c := range r.s.contratistas {
		if c.RUC == ruc {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeContratistaRepo) List(_ context.Context) ([]model.Contratista, error) { return nil, nil }
func (r *fakeContratistaRepo) Update(_ context.Context, _ *model.Contratista) error {
	return nil
}
func (r *fakeContratistaRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }
func (r *fakeContratistaRepo) CountGarantias(_ context.Context, _ uuid.UUID) (int64, error) {
	return 0, nil
}

type fakeBlobStorage struct{ eliminados []string }

func (f *fakeBlobStorage) Eliminar(ruta string) error {
	f.eliminados = append(f.eliminados, ruta)
	return nil
}

// ── Test fixture ─────────────────────────────────────────────────────────────

type fixture struct {
	store       *memStore
	svc         GarantiaService
	storage     *fakeBlobStorage
	entidad     *model.EntidadFinanciera
	objeto      *model.ObjetoGarantia
	contratista *model.Contratista
	tipoCarta   uuid.UUID
	tipoMoneda  uuid.UUID
	usuarioID   uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := newMemStore()

	entidad := &model.EntidadFinanciera{ID: uuid.New(), Nombre: "BCP", Direccion: "Av. Centenario 156, La Molina", Activo: true}
	s.entidades[entidad.ID] = entidad
	tipoCarta := &model.TipoCarta{ID: uuid.New(), Descripcion: "Fiel cumplimiento"}
	s.tiposCarta[tipoCarta.ID] = tipoCarta
	tipoMoneda := &model.TipoMoneda{ID: uuid.New(), Nombre: "Soles", Simbolo: "S/"}
	s.tiposMoneda[tipoMoneda.ID] = tipoMoneda
	objeto := &model.ObjetoGarantia{ID: uuid.New(), Descripcion: "Mejoramiento del camino vecinal"}
	s.objetos[objeto.ID] = objeto
	contratista := &model.Contratista{ID: uuid.New(), RazonSocial: "Constructora Andina SAC", RUC: "20481234567", Activo: true}
	s.contratistas[contratista.ID] = contratista

	storage := &fakeBlobStorage{}
	svc := NewGarantiaService(
		&fakeGarantiaRepo{s}, &fakeHistorialRepo{s}, &fakeArchivoRepo{s}, &fakeEstadoRepo{s},
		&fakeEntidadRepo{s}, &fakeTipoCartaRepo{s}, &fakeTipoMonedaRepo{s},
		&fakeObjetoRepo{s}, &fakeContratistaRepo{s}, storage, nil,
	)
	return &fixture{
		store:       s,
		svc:         svc,
		storage:     storage,
		entidad:     entidad,
		objeto:      objeto,
		contratista: contratista,
		tipoCarta:   tipoCarta.ID,
		tipoMoneda:  tipoMoneda.ID,
		usuarioID:   uuid.New(),
	}
}

func (f *fixture) terminos(numero string) dto.TerminosCarta {
	return dto.TerminosCarta{
		NumeroCarta:         numero,
		TipoCartaID:         f.tipoCarta.String(),
		EntidadFinancieraID: f.entidad.ID.String(),
		FechaInicio:         "2025-01-15",
		FechaFin:            "2025-04-15",
		TipoMonedaID:        f.tipoMoneda.String(),
		Monto:               decimal.NewFromInt(250000),
	}
}

func (f *fixture) emitir(t *testing.T) *dto.GarantiaResponse {
	t.Helper()
	resp, err := f.svc.RegistrarEmision(context.Background(), f.usuarioID, dto.RegistrarEmisionRequest{
		ObjetoGarantiaID: f.objeto.ID.String(),
		ContratistaID:    f.contratista.ID.String(),
		FechaEmision:     "2025-01-15",
		Terminos:         f.terminos("D000-123"),
	})
	require.NoError(t, err)
	return resp
}

func (f *fixture) transicion(t *testing.T, garantiaID string, estado string, terminos *dto.TerminosCarta) (*dto.HistorialResponse, error) {
	t.Helper()
	return f.svc.RegistrarTransicion(context.Background(), f.usuarioID, uuid.MustParse(garantiaID), dto.RegistrarTransicionRequest{
		Estado:       estado,
		FechaEmision: "2025-04-10",
		Terminos:     terminos,
	})
}

// ── Emisión ──────────────────────────────────────────────────────────────────

func TestRegistrarEmisionCreaGarantiaConPrimerHistorial(t *testing.T) {
	f := newFixture(t)

	resp := f.emitir(t)

	require.Len(t, resp.Historiales, 1)
	h := resp.Historiales[0]
	assert.Equal(t, model.EstadoEmision, h.Estado)
	assert.True(t, h.EsActivo)
	assert.True(t, h.EsUltimo)
	assert.False(t, resp.Cerrada)
	require.NotNil(t, h.NumeroCarta)
	assert.Equal(t, "D000-123", *h.NumeroCarta)
	// Address snapshotted from the catalog at insert time
	require.NotNil(t, h.EntidadDireccion)
	assert.Equal(t, f.entidad.Direccion, *h.EntidadDireccion)
}

func TestRegistrarEmisionRechazaFechasInvertidas(t *testing.T) {
	f := newFixture(t)
	terminos := f.terminos("D000-124")
	terminos.FechaFin = "2025-01-10" // before FechaInicio

	_, err := f.svc.RegistrarEmision(context.Background(), f.usuarioID, dto.RegistrarEmisionRequest{
		ObjetoGarantiaID: f.objeto.ID.String(),
		ContratistaID:    f.contratista.ID.String(),
		FechaEmision:     "2025-01-15",
		Terminos:         terminos,
	})

	var valErr *ValidacionError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields, "fecha_fin")
}

func TestRegistrarEmisionRechazaMontoNoPositivo(t *testing.T) {
	f := newFixture(t)
	terminos := f.terminos("D000-125")
	terminos.Monto = decimal.Zero

	_, err := f.svc.RegistrarEmision(context.Background(), f.usuarioID, dto.RegistrarEmisionRequest{
		ObjetoGarantiaID: f.objeto.ID.String(),
		ContratistaID:    f.contratista.ID.String(),
		FechaEmision:     "2025-01-15",
		Terminos:         terminos,
	})

	var valErr *ValidacionError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields, "monto")
}

// ── Transiciones ─────────────────────────────────────────────────────────────

func TestRenovacionSobreGarantiaAbierta(t *testing.T) {
	f := newFixture(t)
	g := f.emitir(t)

	terminos := f.terminos("D000-200")
	resp, err := f.transicion(t, g.ID, model.EstadoRenovacion, &terminos)

	require.NoError(t, err)
	assert.Equal(t, model.EstadoRenovacion, resp.Estado)
	assert.True(t, resp.EsActivo)
	assert.True(t, resp.EsUltimo)

	// The emisión record is no longer the latest
	completo, err := f.svc.ObtenerConHistorial(context.Background(), uuid.MustParse(g.ID))
	require.NoError(t, err)
	require.Len(t, completo.Historiales, 2)
	assert.False(t, completo.Historiales[0].EsUltimo)
	assert.True(t, completo.Historiales[1].EsUltimo)
}

func TestTransicionSobreGarantiaCerradaFalla(t *testing.T) {
	f := newFixture(t)
	g := f.emitir(t)

	_, err := f.transicion(t, g.ID, model.EstadoDevolucion, nil)
	require.NoError(t, err)

	terminos := f.terminos("D000-201")
	_, err = f.transicion(t, g.ID, model.EstadoRenovacion, &terminos)
	assert.ErrorIs(t, err, ErrTransicionInvalida)

	// A second terminal event is equally rejected
	_, err = f.transicion(t, g.ID, model.EstadoEjecucion, nil)
	assert.ErrorIs(t, err, ErrTransicionInvalida)
}

func TestEstadoActivoExigeTerminos(t *testing.T) {
	f := newFixture(t)
	g := f.emitir(t)

	_, err := f.transicion(t, g.ID, model.EstadoRenovacion, nil)

	var valErr *ValidacionError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields, "terminos")
}

func TestEmisionNoEsTransicion(t *testing.T) {
	f := newFixture(t)
	g := f.emitir(t)

	terminos := f.terminos("D000-202")
	_, err := f.transicion(t, g.ID, model.EstadoEmision, &terminos)

	var valErr *ValidacionError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields, "estado")
}

func TestTransicionSobreGarantiaInexistente(t *testing.T) {
	f := newFixture(t)

	terminos := f.terminos("D000-203")
	_, err := f.transicion(t, uuid.NewString(), model.EstadoRenovacion, &terminos)

	assert.ErrorIs(t, err, ErrNoEncontrado)
}

func TestDevolucionNoLlevaTerminos(t *testing.T) {
	f := newFixture(t)
	g := f.emitir(t)

	resp, err := f.transicion(t, g.ID, model.EstadoDevolucion, nil)

	require.NoError(t, err)
	assert.False(t, resp.EsActivo)
	assert.Nil(t, resp.NumeroCarta)
	assert.Nil(t, resp.Monto)

	completo, err := f.svc.ObtenerConHistorial(context.Background(), uuid.MustParse(g.ID))
	require.NoError(t, err)
	assert.True(t, completo.Cerrada)
}

// ── Edición del último registro ──────────────────────────────────────────────

func TestActualizarSoloPermiteUltimo(t *testing.T) {
	f := newFixture(t)
	g := f.emitir(t)
	emisionID := g.Historiales[0].ID

	terminos := f.terminos("D000-300")
	_, err := f.transicion(t, g.ID, model.EstadoRenovacion, &terminos)
	require.NoError(t, err)

	nuevoNumero := "D000-999"
	_, err = f.svc.ActualizarUltimo(context.Background(), emisionID, dto.ActualizarHistorialRequest{
		NumeroCarta: &nuevoNumero,
	})
	assert.ErrorIs(t, err, ErrNoEsUltimo)
}

func TestActualizarUltimoAplicaCambios(t *testing.T) {
	f := newFixture(t)
	g := f.emitir(t)
	id := g.Historiales[0].ID

	nuevoNumero := "D000-777"
	nuevaFechaFin := "2025-06-30"
	resp, err := f.svc.ActualizarUltimo(context.Background(), id, dto.ActualizarHistorialRequest{
		NumeroCarta: &nuevoNumero,
		FechaFin:    &nuevaFechaFin,
	})

	require.NoError(t, err)
	assert.Equal(t, "D000-777", *resp.NumeroCarta)
	assert.Equal(t, "2025-06-30", *resp.FechaFin)
	// El estado nunca cambia en una corrección
	assert.Equal(t, model.EstadoEmision, resp.Estado)
}

func TestActualizarRechazaFechasInvertidas(t *testing.T) {
	f := newFixture(t)
	g := f.emitir(t)
	id := g.Historiales[0].ID

	antes := "2024-12-01" // before the record's FechaInicio 2025-01-15
	_, err := f.svc.ActualizarUltimo(context.Background(), id, dto.ActualizarHistorialRequest{
		FechaFin: &antes,
	})

	var valErr *ValidacionError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields, "fecha_fin")
}

func TestActualizarEntidadRefrescaDireccion(t *testing.T) {
	f := newFixture(t)
	g := f.emitir(t)
	id := g.Historiales[0].ID

	otra := &model.EntidadFinanciera{ID: uuid.New(), Nombre: "Interbank", Direccion: "Av. Carlos Villarán 140, La Victoria", Activo: true}
	f.store.entidades[otra.ID] = otra

	otraID := otra.ID.String()
	resp, err := f.svc.ActualizarUltimo(context.Background(), id, dto.ActualizarHistorialRequest{
		EntidadFinancieraID: &otraID,
	})

	require.NoError(t, err)
	// El snapshot de dirección acompaña a la entidad, no queda el de la anterior
	require.NotNil(t, resp.EntidadDireccion)
	assert.Equal(t, otra.Direccion, *resp.EntidadDireccion)
}

func TestActualizarEntidadInexistente(t *testing.T) {
	f := newFixture(t)
	g := f.emitir(t)
	id := g.Historiales[0].ID

	desconocida := uuid.NewString()
	_, err := f.svc.ActualizarUltimo(context.Background(), id, dto.ActualizarHistorialRequest{
		EntidadFinancieraID: &desconocida,
	})

	var valErr *ValidacionError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields, "entidad_financiera_id")
}

func TestActualizarTipoMonedaInexistente(t *testing.T) {
	f := newFixture(t)
	g := f.emitir(t)
	id := g.Historiales[0].ID

	desconocido := uuid.NewString()
	_, err := f.svc.ActualizarUltimo(context.Background(), id, dto.ActualizarHistorialRequest{
		TipoMonedaID: &desconocido,
	})

	var valErr *ValidacionError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields, "tipo_moneda_id")
}

func TestEmisionConReferenciasDeCatalogoInexistentes(t *testing.T) {
	f := newFixture(t)

	casos := []struct {
		nombre string
		mutar  func(*dto.TerminosCarta)
		campo  string
	}{
		{"tipo de carta", func(tc *dto.TerminosCarta) { tc.TipoCartaID = uuid.NewString() }, "tipo_carta_id"},
		{"tipo de moneda", func(tc *dto.TerminosCarta) { tc.TipoMonedaID = uuid.NewString() }, "tipo_moneda_id"},
		{"entidad", func(tc *dto.TerminosCarta) { tc.EntidadFinancieraID = uuid.NewString() }, "entidad_financiera_id"},
	}
	for _, tc := range casos {
		t.Run(tc.nombre, func(t *testing.T) {
			terminos := f.terminos("D000-800")
			tc.mutar(&terminos)

			_, err := f.svc.RegistrarEmision(context.Background(), f.usuarioID, dto.RegistrarEmisionRequest{
				ObjetoGarantiaID: f.objeto.ID.String(),
				ContratistaID:    f.contratista.ID.String(),
				FechaEmision:     "2025-01-15",
				Terminos:         terminos,
			})

			var valErr *ValidacionError
			require.ErrorAs(t, err, &valErr)
			assert.Contains(t, valErr.Fields, tc.campo)
		})
	}
}

// ── Eliminación del último registro ──────────────────────────────────────────

func TestEliminarUnicoRegistroEliminaGarantia(t *testing.T) {
	f := newFixture(t)
	g := f.emitir(t)
	id := g.Historiales[0].ID

	resp, err := f.svc.EliminarUltimo(context.Background(), id)

	require.NoError(t, err)
	assert.True(t, resp.GarantiaEliminada)
	_, err = f.svc.ObtenerConHistorial(context.Background(), uuid.MustParse(g.ID))
	assert.ErrorIs(t, err, ErrNoEncontrado)
}

func TestEliminarUltimoConservaGarantia(t *testing.T) {
	f := newFixture(t)
	g := f.emitir(t)

	terminos := f.terminos("D000-400")
	renov, err := f.transicion(t, g.ID, model.EstadoRenovacion, &terminos)
	require.NoError(t, err)

	resp, err := f.svc.EliminarUltimo(context.Background(), renov.ID)

	require.NoError(t, err)
	assert.False(t, resp.GarantiaEliminada)

	// La emisión vuelve a ser el último registro
	completo, err := f.svc.ObtenerConHistorial(context.Background(), uuid.MustParse(g.ID))
	require.NoError(t, err)
	require.Len(t, completo.Historiales, 1)
	assert.True(t, completo.Historiales[0].EsUltimo)
}

func TestEliminarNoUltimoFalla(t *testing.T) {
	f := newFixture(t)
	g := f.emitir(t)
	emisionID := g.Historiales[0].ID

	terminos := f.terminos("D000-401")
	_, err := f.transicion(t, g.ID, model.EstadoRenovacion, &terminos)
	require.NoError(t, err)

	_, err = f.svc.EliminarUltimo(context.Background(), emisionID)
	assert.ErrorIs(t, err, ErrNoEsUltimo)
}

func TestEliminarDevolucionReabreGarantia(t *testing.T) {
	f := newFixture(t)
	g := f.emitir(t)

	dev, err := f.transicion(t, g.ID, model.EstadoDevolucion, nil)
	require.NoError(t, err)

	_, err = f.svc.EliminarUltimo(context.Background(), dev.ID)
	require.NoError(t, err)

	// Con la devolución deshecha, la garantía vuelve a admitir transiciones
	terminos := f.terminos("D000-402")
	_, err = f.transicion(t, g.ID, model.EstadoRenovacion, &terminos)
	assert.NoError(t, err)
}

func TestEliminarBorraArchivosDelRegistro(t *testing.T) {
	f := newFixture(t)
	g := f.emitir(t)
	id := g.Historiales[0].ID

	archivo := &model.ArchivoHistorial{ID: uuid.New(), HistorialID: id, NombreArchivo: "carta.pdf", Ruta: "1/x.pdf", SubidoPor: f.usuarioID}
	f.store.archivos[archivo.ID] = archivo

	_, err := f.svc.EliminarUltimo(context.Background(), id)

	require.NoError(t, err)
	assert.Empty(t, f.store.archivos)
	assert.Equal(t, []string{"1/x.pdf"}, f.storage.eliminados)
}

// ── EsUltimo ─────────────────────────────────────────────────────────────────

func TestEsUltimo(t *testing.T) {
	f := newFixture(t)
	g := f.emitir(t)
	emisionID := g.Historiales[0].ID

	esUltimo, err := f.svc.EsUltimo(context.Background(), emisionID)
	require.NoError(t, err)
	assert.True(t, esUltimo)

	terminos := f.terminos("D000-500")
	renov, err := f.transicion(t, g.ID, model.EstadoRenovacion, &terminos)
	require.NoError(t, err)

	esUltimo, err = f.svc.EsUltimo(context.Background(), emisionID)
	require.NoError(t, err)
	assert.False(t, esUltimo)

	esUltimo, err = f.svc.EsUltimo(context.Background(), renov.ID)
	require.NoError(t, err)
	assert.True(t, esUltimo)

	_, err = f.svc.EsUltimo(context.Background(), 99999)
	assert.ErrorIs(t, err, ErrNoEncontrado)
}

// ── Cierre ───────────────────────────────────────────────────────────────────

func TestObtenerCierreDevuelveEventoYTerminos(t *testing.T) {
	f := newFixture(t)
	g := f.emitir(t)

	terminos := f.terminos("D000-600")
	_, err := f.transicion(t, g.ID, model.EstadoRenovacion, &terminos)
	require.NoError(t, err)

	_, err = f.transicion(t, g.ID, model.EstadoEjecucion, nil)
	require.NoError(t, err)

	cierre, err := f.svc.ObtenerCierre(context.Background(), uuid.MustParse(g.ID))

	require.NoError(t, err)
	assert.Equal(t, model.EstadoEjecucion, cierre.Cierre.Estado)
	// Los términos cerrados son los de la renovación, no los de la emisión
	assert.Equal(t, model.EstadoRenovacion, cierre.TerminosCerrados.Estado)
	require.NotNil(t, cierre.TerminosCerrados.NumeroCarta)
	assert.Equal(t, "D000-600", *cierre.TerminosCerrados.NumeroCarta)
}

func TestObtenerCierreSobreGarantiaAbierta(t *testing.T) {
	f := newFixture(t)
	g := f.emitir(t)

	_, err := f.svc.ObtenerCierre(context.Background(), uuid.MustParse(g.ID))
	assert.ErrorIs(t, err, ErrSinCierre)
}
