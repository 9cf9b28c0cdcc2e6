package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/abastio/inventario-api/internal/application/dto"
	"github.com/abastio/inventario-api/internal/application/inventario"
)

// ReversaHandler maneja la cancelación de documentos: compras, ventas y
// ajustes (protegido). Los traspasos se cancelan desde su propio recurso.
type ReversaHandler struct {
	uc *inventario.ReversaUseCase
}

// NewReversaHandler construye el handler.
func NewReversaHandler(uc *inventario.ReversaUseCase) *ReversaHandler {
	return &ReversaHandler{uc: uc}
}

// CancelarCompra godoc
// @Summary      Cancelar compra
// @Description  Revierte los movimientos de la compra. Las series creadas por
//               ella se eliminan; exige que sigan disponibles en la bodega.
// @Tags         reversas
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la compra"
// @Success      200  {object}  dto.MovimientosResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/reversas/compras/{id} [post]
func (h *ReversaHandler) CancelarCompra(c *fiber.Ctx) error {
	return h.cancelar(c, h.uc.CancelarCompra)
}

// CancelarVenta godoc
// @Summary      Cancelar venta
// @Description  Devuelve al inventario lo vendido: las series vuelven a
//               en_stock y los lotes recuperan su existencia.
// @Tags         reversas
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {object}  dto.MovimientosResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/reversas/ventas/{id} [post]
func (h *ReversaHandler) CancelarVenta(c *fiber.Ctx) error {
	return h.cancelar(c, h.uc.CancelarVenta)
}

// CancelarAjuste godoc
// @Summary      Cancelar ajuste
// @Tags         reversas
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del ajuste"
// @Success      200  {object}  dto.MovimientosResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/reversas/ajustes/{id} [post]
func (h *ReversaHandler) CancelarAjuste(c *fiber.Ctx) error {
	return h.cancelar(c, h.uc.CancelarAjuste)
}

func (h *ReversaHandler) cancelar(c *fiber.Ctx, fn func(ctx context.Context, id, creadoPor string) (*inventario.ResultadoMovimiento, error)) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	res, err := fn(c.Context(), id, GetUserID(c))
	if err != nil {
		return respondInventarioError(c, err)
	}
	return c.JSON(dto.ToMovimientosResponse(res.Movimientos))
}
