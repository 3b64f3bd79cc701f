package router

import (
	"time"

	"sigcf/internal/config"
	"sigcf/internal/handler"
	"sigcf/internal/infra"
	"sigcf/internal/middleware"
	"sigcf/internal/repository"
	"sigcf/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, storage *infra.Storage) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	garantiaRepo := repository.NewGarantiaRepository(db)
	historialRepo := repository.NewHistorialRepository(db)
	archivoRepo := repository.NewArchivoRepository(db)
	estadoRepo := repository.NewEstadoRepository(db)
	contratistaRepo := repository.NewContratistaRepository(db)
	entidadRepo := repository.NewEntidadFinancieraRepository(db)
	tipoMonedaRepo := repository.NewTipoMonedaRepository(db)
	tipoCartaRepo := repository.NewTipoCartaRepository(db)
	objetoRepo := repository.NewObjetoGarantiaRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	garantiaSvc := service.NewGarantiaService(
		garantiaRepo, historialRepo, archivoRepo, estadoRepo,
		entidadRepo, tipoCartaRepo, tipoMonedaRepo, objetoRepo, contratistaRepo, storage, rdb,
	)
	vencimientoSvc := service.NewVencimientoService(historialRepo, rdb)
	archivoSvc := service.NewArchivoService(archivoRepo, historialRepo, storage)
	contratistaSvc := service.NewContratistaService(contratistaRepo)
	entidadSvc := service.NewEntidadFinancieraService(entidadRepo)
	tipoMonedaSvc := service.NewTipoMonedaService(tipoMonedaRepo)
	tipoCartaSvc := service.NewTipoCartaService(tipoCartaRepo)
	objetoSvc := service.NewObjetoGarantiaService(objetoRepo)
	estadoSvc := service.NewEstadoService(estadoRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	garantiasH := handler.NewGarantiasHandler(garantiaSvc)
	vencimientosH := handler.NewVencimientosHandler(vencimientoSvc)
	archivosH := handler.NewArchivosHandler(archivoSvc)
	contratistasH := handler.NewContratistasHandler(contratistaSvc)
	entidadesH := handler.NewEntidadesHandler(entidadSvc)
	tiposMonedaH := handler.NewTiposMonedaHandler(tipoMonedaSvc)
	tiposCartaH := handler.NewTiposCartaHandler(tipoCartaSvc)
	objetosH := handler.NewObjetosHandler(objetoSvc)
	estadosH := handler.NewEstadosHandler(estadoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: consulta puede leer todo; operador registra y corrige;
		// admin administra catálogos y usuarios.
		lectura := middleware.RequireRole("admin", "operador", "consulta")
		escritura := middleware.RequireRole("admin", "operador")
		soloAdmin := middleware.RequireRole("admin")

		// Semáforo before :id so Gin does not swallow the literal segment.
		v1.GET("/garantias/semaforo", lectura, vencimientosH.Semaforo)
		v1.GET("/garantias/semaforo/conteo", lectura, vencimientosH.Conteo)

		v1.POST("/garantias", escritura, garantiasH.RegistrarEmision)
		v1.GET("/garantias", lectura, garantiasH.Listar)
		v1.GET("/garantias/:id", lectura, garantiasH.Obtener)
		v1.GET("/garantias/:id/cierre", lectura, garantiasH.ObtenerCierre)
		v1.POST("/garantias/:id/transiciones", escritura, garantiasH.RegistrarTransicion)

		v1.GET("/historiales/:id/es-ultimo", lectura, garantiasH.EsUltimo)
		v1.PUT("/historiales/:id", escritura, garantiasH.Actualizar)
		v1.DELETE("/historiales/:id", escritura, garantiasH.Eliminar)

		v1.POST("/historiales/:id/archivos", escritura, archivosH.Subir)
		v1.GET("/historiales/:id/archivos", lectura, archivosH.Listar)
		v1.GET("/archivos/:id", lectura, archivosH.Descargar)
		v1.DELETE("/archivos/:id", escritura, archivosH.Eliminar)

		// Catálogos: lectura para todos los roles, escritura solo admin
		v1.GET("/contratistas", lectura, contratistasH.Listar)
		v1.GET("/contratistas/:id", lectura, contratistasH.Obtener)
		contratistas := v1.Group("/contratistas", soloAdmin)
		{
			contratistas.POST("", contratistasH.Crear)
			contratistas.PUT("/:id", contratistasH.Actualizar)
			contratistas.DELETE("/:id", contratistasH.Eliminar)
		}

		v1.GET("/entidades-financieras", lectura, entidadesH.Listar)
		entidades := v1.Group("/entidades-financieras", soloAdmin)
		{
			entidades.POST("", entidadesH.Crear)
			entidades.PUT("/:id", entidadesH.Actualizar)
			entidades.DELETE("/:id", entidadesH.Eliminar)
		}

		v1.GET("/tipos-moneda", lectura, tiposMonedaH.Listar)
		tiposMoneda := v1.Group("/tipos-moneda", soloAdmin)
		{
			tiposMoneda.POST("", tiposMonedaH.Crear)
			tiposMoneda.PUT("/:id", tiposMonedaH.Actualizar)
			tiposMoneda.DELETE("/:id", tiposMonedaH.Eliminar)
		}

		v1.GET("/tipos-carta", lectura, tiposCartaH.Listar)
		tiposCarta := v1.Group("/tipos-carta", soloAdmin)
		{
			tiposCarta.POST("", tiposCartaH.Crear)
			tiposCarta.PUT("/:id", tiposCartaH.Actualizar)
			tiposCarta.DELETE("/:id", tiposCartaH.Eliminar)
		}

		v1.GET("/objetos-garantia", lectura, objetosH.Listar)
		objetos := v1.Group("/objetos-garantia", soloAdmin)
		{
			objetos.POST("", objetosH.Crear)
			objetos.PUT("/:id", objetosH.Actualizar)
			objetos.DELETE("/:id", objetosH.Eliminar)
		}

		v1.GET("/estados", lectura, estadosH.Listar)

		usuarios := v1.Group("/usuarios", soloAdmin)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
