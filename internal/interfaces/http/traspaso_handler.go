package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/abastio/inventario-api/internal/application/dto"
	"github.com/abastio/inventario-api/internal/application/inventario"
)

// TraspasoHandler maneja traspasos entre bodegas y su cancelación (protegido).
type TraspasoHandler struct {
	traspasos *inventario.TraspasoUseCase
	reversas  *inventario.ReversaUseCase
}

// NewTraspasoHandler construye el handler.
func NewTraspasoHandler(traspasos *inventario.TraspasoUseCase, reversas *inventario.ReversaUseCase) *TraspasoHandler {
	return &TraspasoHandler{traspasos: traspasos, reversas: reversas}
}

// Transferir godoc
// @Summary      Traspaso entre bodegas
// @Description  Mueve los ítems de la bodega origen a la destino en una sola
//               transacción: salida y entrada pareadas por producto. Las series
//               conservan identidad y estado; los lotes viajan con su fecha de
//               caducidad y costo.
// @Tags         traspasos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TraspasoRequest  true  "origen_id, destino_id, items"
// @Success      201   {object}  dto.MovimientosResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/traspasos [post]
func (h *TraspasoHandler) Transferir(c *fiber.Ctx) error {
	var in dto.TraspasoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	items := make([]inventario.TraspasoItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, inventario.TraspasoItem{
			ProductoID: it.ProductoID,
			Cantidad:   it.Cantidad,
			Seriales:   it.Seriales,
			NumeroLote: it.NumeroLote,
		})
	}
	res, err := h.traspasos.Transferir(c.Context(), inventario.TraspasoInput{
		TraspasoID: in.TraspasoID,
		OrigenID:   in.OrigenID,
		DestinoID:  in.DestinoID,
		Motivo:     in.Motivo,
		Items:      items,
		CreadoPor:  GetUserID(c),
	})
	if err != nil {
		return respondInventarioError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovimientosResponse(res.Movimientos))
}

// Cancelar godoc
// @Summary      Cancelar traspaso
// @Description  Revierte todos los movimientos del traspaso: cada unidad
//               vuelve a su bodega origen. Falla con 409 si ya fue cancelado o
//               si el stock traspasado ya no está en la bodega destino.
// @Tags         traspasos
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del traspaso"
// @Success      200  {object}  dto.MovimientosResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/traspasos/{id}/cancelar [post]
func (h *TraspasoHandler) Cancelar(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	res, err := h.reversas.CancelarTraspaso(c.Context(), id, GetUserID(c))
	if err != nil {
		return respondInventarioError(c, err)
	}
	return c.JSON(dto.ToMovimientosResponse(res.Movimientos))
}
