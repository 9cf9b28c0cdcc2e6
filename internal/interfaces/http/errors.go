package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/abastio/inventario-api/internal/application/dto"
	"github.com/abastio/inventario-api/internal/domain"
)

// respondInventarioError mapea los errores de dominio del motor de inventario
// a códigos HTTP. Los conflictos de estado (stock, series, lotes, reversas
// dobles) van como 409; los de entrada como 400.
func respondInventarioError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrStockInsuficiente):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrSeriesCantidad):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "SERIALS_MISMATCH", Message: err.Error()})
	case errors.Is(err, domain.ErrSerieNoDisponible):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SERIAL_UNAVAILABLE", Message: err.Error()})
	case errors.Is(err, domain.ErrSerieDuplicada):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SERIAL_DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrLoteRequerido):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "BATCH_REQUIRED", Message: err.Error()})
	case errors.Is(err, domain.ErrLoteNoEncontrado):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "BATCH_NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrLoteInsuficiente):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "BATCH_INSUFFICIENT", Message: err.Error()})
	case errors.Is(err, domain.ErrKitAnidado):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "NESTED_KIT", Message: err.Error()})
	case errors.Is(err, domain.ErrAlmacenInactivo):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "WAREHOUSE_INACTIVE", Message: err.Error()})
	case errors.Is(err, domain.ErrReservaInsuficiente):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "RESERVATION_INSUFFICIENT", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
