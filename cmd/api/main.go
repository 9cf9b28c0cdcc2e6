package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/abastio/inventario-api/internal/application/auth"
	"github.com/abastio/inventario-api/internal/application/inventario"
	"github.com/abastio/inventario-api/internal/application/usecase"
	"github.com/abastio/inventario-api/internal/infrastructure/postgres"
	httpRouter "github.com/abastio/inventario-api/internal/interfaces/http"
	"github.com/abastio/inventario-api/pkg/config"
	"github.com/abastio/inventario-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repos sobre el pool: lecturas y registros maestros fuera de transacción
	usuarioRepo := postgres.NewUsuarioRepository(pool)
	productoRepo := postgres.NewProductoRepository(pool)
	almacenRepo := postgres.NewAlmacenRepository(pool)
	inventarioRepo := postgres.NewInventarioRepository(pool)
	movimientoRepo := postgres.NewMovimientoRepository(pool)
	serieRepo := postgres.NewSerieRepository(pool)
	loteRepo := postgres.NewLoteRepository(pool)
	kitRepo := postgres.NewKitItemRepository(pool)
	reconciliacionRepo := postgres.NewReconciliacionRepository(pool)

	// El motor de movimientos siempre corre dentro de una transacción
	txRunner := postgres.NewTxRunner(pool)
	movimientoUC := inventario.NewMovimientoUseCase(txRunner, productoRepo, almacenRepo)
	traspasoUC := inventario.NewTraspasoUseCase(txRunner, movimientoUC, almacenRepo)
	reversaUC := inventario.NewReversaUseCase(txRunner)
	reservaUC := inventario.NewReservaUseCase(productoRepo)
	reconciliacionUC := inventario.NewReconciliacionUseCase(reconciliacionRepo)

	productoUC := usecase.NewProductoUseCase(productoRepo, kitRepo)
	almacenUC := usecase.NewAlmacenUseCase(almacenRepo)
	consultaUC := usecase.NewConsultaUseCase(inventarioRepo, movimientoRepo, serieRepo, loteRepo)

	authUC := auth.NewAuthUseCase(usuarioRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Abastio Inventario API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductoUC:       productoUC,
		AlmacenUC:        almacenUC,
		ConsultaUC:       consultaUC,
		MovimientoUC:     movimientoUC,
		TraspasoUC:       traspasoUC,
		ReversaUC:        reversaUC,
		ReservaUC:        reservaUC,
		ReconciliacionUC: reconciliacionUC,
		AuthUC:           authUC,
		JWTSecret:        cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
