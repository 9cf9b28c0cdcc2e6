package inventario

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/abastio/inventario-api/internal/domain"
	"github.com/abastio/inventario-api/internal/domain/entity"
)

// ReversaUseCase deshace los efectos de un documento sobre el inventario
// repitiendo su rastro en el log de movimientos al revés: carga los
// movimientos por referencia y los invierte uno a uno, del último al primero,
// dentro de una sola transacción. El resultado restaura cantidad de
// inventario, estado y bodega de cada serial y cantidad de cada lote a sus
// valores previos, no solo el agregado.
//
// La semántica serializada depende del documento cancelado:
//   - compra: las unidades que esa compra creó se eliminan físicamente
//     (pasando por retirado); nunca entraron legítimamente al inventario.
//   - venta: las unidades vendidas vuelven a en_stock y se desliga la venta.
//   - ajuste: la baja (ajuste_baja) vuelve a en_stock; las unidades dadas de
//     alta por el ajuste se eliminan como en la compra.
//   - traspaso: las unidades regresan a la bodega origen sin cambiar de estado.
type ReversaUseCase struct {
	txRunner TxRunner
}

// NewReversaUseCase construye el motor de reversas.
func NewReversaUseCase(txRunner TxRunner) *ReversaUseCase {
	return &ReversaUseCase{txRunner: txRunner}
}

// CancelarCompra revierte todas las líneas de una compra.
func (uc *ReversaUseCase) CancelarCompra(ctx context.Context, compraID, creadoPor string) (*ResultadoMovimiento, error) {
	return uc.revertir(ctx, entity.ReferenciaCompra, compraID, creadoPor)
}

// CancelarVenta revierte una venta, componente por componente si fue un kit.
func (uc *ReversaUseCase) CancelarVenta(ctx context.Context, ventaID, creadoPor string) (*ResultadoMovimiento, error) {
	return uc.revertir(ctx, entity.ReferenciaVenta, ventaID, creadoPor)
}

// CancelarAjuste revierte un ajuste manual.
func (uc *ReversaUseCase) CancelarAjuste(ctx context.Context, ajusteID, creadoPor string) (*ResultadoMovimiento, error) {
	return uc.revertir(ctx, entity.ReferenciaAjuste, ajusteID, creadoPor)
}

// CancelarTraspaso revierte un traspaso: entrada en el origen, salida en el
// destino, seriales de vuelta y lotes restaurados. Efecto neto cero en todas
// las tablas tocadas.
func (uc *ReversaUseCase) CancelarTraspaso(ctx context.Context, traspasoID, creadoPor string) (*ResultadoMovimiento, error) {
	return uc.revertir(ctx, entity.ReferenciaTraspaso, traspasoID, creadoPor)
}

func motivoCancelacion(tipo string) string {
	return "cancelación de " + tipo
}

func (uc *ReversaUseCase) revertir(ctx context.Context, tipo, docID, creadoPor string) (*ResultadoMovimiento, error) {
	if docID == "" {
		return nil, domain.ErrInvalidInput
	}
	res := &ResultadoMovimiento{}
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		movs, err := r.Movimientos.ListPorReferencia(tipo, docID)
		if err != nil {
			return err
		}
		if len(movs) == 0 {
			return domain.ErrNotFound
		}
		motivo := motivoCancelacion(tipo)
		for _, m := range movs {
			if m.Motivo == motivo {
				// El documento ya fue cancelado: una segunda reversa duplicaría stock.
				return domain.ErrConflict
			}
		}

		tocados := make(map[string]bool)
		for i := len(movs) - 1; i >= 0; i-- {
			mov, err := uc.invertir(r, tipo, movs[i], motivo, creadoPor)
			if err != nil {
				return err
			}
			res.Movimientos = append(res.Movimientos, mov)
			tocados[movs[i].ProductoID] = true
		}
		for productoID := range tocados {
			if err := r.Productos.SincronizarStock(productoID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// invertir aplica el inverso exacto de un movimiento: cantidad opuesta sobre
// la misma fila de inventario, transición de serie según el documento y
// devolución o resta sobre el mismo lote.
func (uc *ReversaUseCase) invertir(r Repos, tipo string, m *entity.InventarioMovimiento, motivo, creadoPor string) (*entity.InventarioMovimiento, error) {
	now := time.Now()

	inv, err := r.Inventario.GetForUpdate(m.ProductoID, m.AlmacenID)
	if err != nil {
		return nil, err
	}
	if inv.Cantidad-m.Cantidad < 0 {
		return nil, domain.ErrStockInsuficiente
	}
	inv.Cantidad -= m.Cantidad
	inv.UpdatedAt = now
	if err := r.Inventario.Upsert(inv); err != nil {
		return nil, err
	}

	if m.Detalles != nil && m.Detalles.Serie != "" {
		if err := uc.invertirSerie(r, tipo, m); err != nil {
			return nil, err
		}
	}
	if m.Detalles != nil && m.Detalles.NumeroLote != "" {
		if err := uc.invertirLote(r, m, now); err != nil {
			return nil, err
		}
	}

	direccion := entity.DireccionEntrada
	if m.Direccion == entity.DireccionEntrada {
		direccion = entity.DireccionSalida
	}
	mov := &entity.InventarioMovimiento{
		ID:            uuid.New().String(),
		ProductoID:    m.ProductoID,
		AlmacenID:     m.AlmacenID,
		Direccion:     direccion,
		Cantidad:      -m.Cantidad,
		Motivo:        motivo,
		Referencia:    m.Referencia,
		Detalles:      m.Detalles,
		CostoUnitario: m.CostoUnitario,
		CostoTotal:    m.CostoUnitario.Mul(decimal.NewFromInt(-m.Cantidad)),
		Fecha:         now,
		CreatedAt:     now,
		CreadoPor:     creadoPor,
	}
	if err := r.Movimientos.Create(mov); err != nil {
		return nil, err
	}
	return mov, nil
}

func (uc *ReversaUseCase) invertirSerie(r Repos, tipo string, m *entity.InventarioMovimiento) error {
	se, err := r.Series.GetPorSerie(m.ProductoID, m.Detalles.Serie)
	if err != nil {
		return err
	}
	if se == nil {
		return domain.ErrSerieNoDisponible
	}

	switch {
	case tipo == entity.ReferenciaTraspaso:
		// El estado no cambia; al invertir la salida original la unidad vuelve
		// a la bodega de ese movimiento. La entrada del par no toca la serie.
		if m.Direccion == entity.DireccionSalida {
			return r.Series.MoverAlmacen(se.ID, m.AlmacenID)
		}
		return nil
	case m.Direccion == entity.DireccionEntrada:
		// La unidad fue creada por el documento cancelado: eliminación física,
		// no un cambio de estado. Debe seguir disponible; si ya salió, la
		// compra no se puede cancelar.
		if !se.Disponible(m.AlmacenID) {
			return domain.ErrSerieNoDisponible
		}
		if err := r.Series.ActualizarEstado(se.ID, entity.SerieRetirado, nil); err != nil {
			return err
		}
		return r.Series.Eliminar(se.ID)
	default:
		// Salida de venta o baja por ajuste: la unidad regresa a en_stock.
		if se.Estado != entity.SerieVendido && se.Estado != entity.SerieAjusteBaja {
			return domain.ErrSerieNoDisponible
		}
		return r.Series.ActualizarEstado(se.ID, entity.SerieEnStock, nil)
	}
}

func (uc *ReversaUseCase) invertirLote(r Repos, m *entity.InventarioMovimiento, now time.Time) error {
	lote, err := r.Lotes.GetForUpdate(m.ProductoID, m.AlmacenID, m.Detalles.NumeroLote)
	if err != nil {
		return err
	}
	if m.Direccion == entity.DireccionEntrada {
		// Revertir una entrada: restar del lote lo que esa entrada sumó.
		if lote == nil {
			return domain.ErrLoteNoEncontrado
		}
		if lote.CantidadActual < m.Cantidad {
			return domain.ErrLoteInsuficiente
		}
		return r.Lotes.ActualizarCantidad(lote.ID, lote.CantidadActual-m.Cantidad)
	}
	// Revertir una salida: devolver la cantidad al mismo lote, recreándolo si
	// quedó en cero y con la caducidad y costo registrados en el movimiento.
	devuelto := -m.Cantidad
	if lote == nil {
		if m.Detalles.FechaCaducidad == nil {
			return domain.ErrLoteNoEncontrado
		}
		return r.Lotes.Create(&entity.Lote{
			ID:             uuid.New().String(),
			ProductoID:     m.ProductoID,
			AlmacenID:      m.AlmacenID,
			NumeroLote:     m.Detalles.NumeroLote,
			CantidadActual: devuelto,
			FechaCaducidad: *m.Detalles.FechaCaducidad,
			CostoUnitario:  m.CostoUnitario,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	return r.Lotes.ActualizarCantidad(lote.ID, lote.CantidadActual+devuelto)
}
