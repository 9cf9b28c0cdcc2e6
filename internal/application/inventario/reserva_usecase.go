package inventario

import (
	"context"

	"github.com/abastio/inventario-api/internal/domain"
	"github.com/abastio/inventario-api/internal/domain/repository"
)

// ReservaUseCase maneja el apartado blando de unidades. Una reserva no es un
// movimiento del ledger: solo ajusta el contador reservado del producto.
// Confirmar una reserva en venta decrementa el contador; la salida física que
// descuenta stock la registra el flujo de venta por separado.
type ReservaUseCase struct {
	productoRepo repository.ProductoRepository
}

// NewReservaUseCase construye el caso de uso de reservas.
func NewReservaUseCase(productoRepo repository.ProductoRepository) *ReservaUseCase {
	return &ReservaUseCase{productoRepo: productoRepo}
}

// Reservar aparta unidades del producto.
func (uc *ReservaUseCase) Reservar(ctx context.Context, productoID string, cantidad int64) error {
	return uc.ajustar(productoID, cantidad)
}

// Liberar devuelve unidades apartadas sin venderlas.
func (uc *ReservaUseCase) Liberar(ctx context.Context, productoID string, cantidad int64) error {
	return uc.ajustar(productoID, -cantidad)
}

// Confirmar consume la reserva al concretarse la venta.
func (uc *ReservaUseCase) Confirmar(ctx context.Context, productoID string, cantidad int64) error {
	return uc.ajustar(productoID, -cantidad)
}

func (uc *ReservaUseCase) ajustar(productoID string, cantidad int64) error {
	if productoID == "" || cantidad == 0 {
		return domain.ErrInvalidInput
	}
	producto, err := uc.productoRepo.GetByID(productoID)
	if err != nil {
		return err
	}
	if producto == nil {
		return domain.ErrNotFound
	}
	return uc.productoRepo.AjustarReservado(productoID, cantidad)
}
