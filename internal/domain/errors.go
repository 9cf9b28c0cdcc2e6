package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
)

// Errores del motor de inventario. Cualquiera de ellos aborta la operación
// completa: el TxRunner hace rollback y ninguna tabla queda a medio mutar.
var (
	// ErrStockInsuficiente: la salida dejaría la cantidad del inventario por debajo de cero.
	ErrStockInsuficiente = errors.New("stock insuficiente")
	// ErrSeriesCantidad: el número de seriales provistos no coincide con la cantidad solicitada.
	ErrSeriesCantidad = errors.New("la cantidad de seriales no coincide con la cantidad del movimiento")
	// ErrSerieNoDisponible: el serial no existe, está en otra bodega o no está en_stock.
	ErrSerieNoDisponible = errors.New("serial no disponible")
	// ErrSerieDuplicada: el serial ya existe para el producto.
	ErrSerieDuplicada = errors.New("serial duplicado para el producto")
	// ErrLoteNoEncontrado: el lote indicado no existe para ese producto y bodega.
	ErrLoteNoEncontrado = errors.New("lote no encontrado")
	// ErrLoteInsuficiente: el lote no cubre la cantidad solicitada.
	ErrLoteInsuficiente = errors.New("cantidad insuficiente en el lote")
	// ErrLoteRequerido: el producto es de seguimiento por lote y falta numero_lote o fecha_caducidad.
	ErrLoteRequerido = errors.New("datos de lote requeridos")
	// ErrKitAnidado: un componente de kit es a su vez un kit (solo un nivel de descomposición).
	ErrKitAnidado = errors.New("kits anidados no soportados")
	// ErrAlmacenInactivo: la bodega existe pero está desactivada.
	ErrAlmacenInactivo = errors.New("bodega inactiva")
	// ErrReservaInsuficiente: se intenta liberar o confirmar más unidades de las reservadas.
	ErrReservaInsuficiente = errors.New("reserva insuficiente")
)

// ErrorComponenteKit envuelve el error de un componente durante la descomposición
// de un kit. La operación del kit es todo-o-nada: el primer componente que falla
// aborta el kit completo y este error conserva la causa original.
type ErrorComponenteKit struct {
	KitID  string
	ItemID string
	Err    error
}

func (e *ErrorComponenteKit) Error() string {
	return fmt.Sprintf("kit %s: componente %s: %v", e.KitID, e.ItemID, e.Err)
}

func (e *ErrorComponenteKit) Unwrap() error { return e.Err }
