package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/abastio/inventario-api/internal/application/auth"
	"github.com/abastio/inventario-api/internal/application/inventario"
	"github.com/abastio/inventario-api/internal/application/usecase"
	"github.com/abastio/inventario-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductoUC       *usecase.ProductoUseCase
	AlmacenUC        *usecase.AlmacenUseCase
	ConsultaUC       *usecase.ConsultaUseCase
	MovimientoUC     *inventario.MovimientoUseCase
	TraspasoUC       *inventario.TraspasoUseCase
	ReversaUC        *inventario.ReversaUseCase
	ReservaUC        *inventario.ReservaUseCase
	ReconciliacionUC *inventario.ReconciliacionUseCase
	AuthUC           *auth.AuthUseCase
	JWTSecret        string
}

// Router registra las rutas de la API. Las rutas que mutan inventario exigen
// rol admin o bodeguero; las consultas solo requieren token válido.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	bodega := RequireRole(entity.RolAdmin, entity.RolBodeguero)

	// Productos (protegido)
	productos := protected.Group("/productos")
	productoHandler := NewProductoHandler(deps.ProductoUC, deps.ConsultaUC, deps.ReservaUC)
	productos.Post("/", bodega, productoHandler.Create)
	productos.Get("/", productoHandler.List)
	productos.Get("/:id", productoHandler.GetByID)
	productos.Put("/:id", bodega, productoHandler.Update)
	productos.Put("/:id/kit", bodega, productoHandler.DefinirKit)
	productos.Get("/:id/kit", productoHandler.Kit)
	productos.Get("/:id/series", productoHandler.Series)
	productos.Get("/:id/lotes", productoHandler.Lotes)
	// Reservas: también las crean vendedores al tomar pedidos
	productos.Post("/:id/reservas", productoHandler.Reservar)
	productos.Delete("/:id/reservas", productoHandler.LiberarReserva)
	productos.Post("/:id/reservas/confirmar", productoHandler.ConfirmarReserva)

	// Bodegas (protegido)
	almacenes := protected.Group("/almacenes")
	almacenHandler := NewAlmacenHandler(deps.AlmacenUC)
	almacenes.Post("/", bodega, almacenHandler.Create)
	almacenes.Get("/", almacenHandler.List)
	almacenes.Get("/:id", almacenHandler.GetByID)
	almacenes.Put("/:id", bodega, almacenHandler.Update)

	// Inventario: movimientos y consultas (protegido)
	invGroup := protected.Group("/inventario")
	inventarioHandler := NewInventarioHandler(deps.MovimientoUC, deps.ConsultaUC, deps.ReconciliacionUC)
	invGroup.Post("/entradas", bodega, inventarioHandler.Entrada)
	invGroup.Post("/salidas", bodega, inventarioHandler.Salida)
	invGroup.Get("/stock", inventarioHandler.Stock)
	invGroup.Get("/movimientos", inventarioHandler.Movimientos)
	invGroup.Get("/bajo-minimo", inventarioHandler.BajoMinimo)
	invGroup.Get("/lotes/por-vencer", inventarioHandler.LotesPorVencer)
	invGroup.Get("/reconciliacion", RequireRole(entity.RolAdmin), inventarioHandler.Reconciliacion)

	// Traspasos (protegido)
	traspasos := protected.Group("/traspasos", bodega)
	traspasoHandler := NewTraspasoHandler(deps.TraspasoUC, deps.ReversaUC)
	traspasos.Post("/", traspasoHandler.Transferir)
	traspasos.Post("/:id/cancelar", traspasoHandler.Cancelar)

	// Reversas de documentos (protegido)
	reversas := protected.Group("/reversas", bodega)
	reversaHandler := NewReversaHandler(deps.ReversaUC)
	reversas.Post("/compras/:id", reversaHandler.CancelarCompra)
	reversas.Post("/ventas/:id", reversaHandler.CancelarVenta)
	reversas.Post("/ajustes/:id", reversaHandler.CancelarAjuste)
}
