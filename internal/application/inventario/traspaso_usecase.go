package inventario

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/abastio/inventario-api/internal/domain"
	"github.com/abastio/inventario-api/internal/domain/entity"
	"github.com/abastio/inventario-api/internal/domain/repository"
)

// TraspasoUseCase mueve stock entre bodegas dentro de una sola transacción:
// salida en el origen y entrada en el destino por cada línea. Las unidades
// serializadas no se dan de baja y de alta: se reescribe su bodega en la misma
// fila, preservando identidad e historial. La cancelación es el inverso
// algebraico exacto y la ejecuta ReversaUseCase.
type TraspasoUseCase struct {
	txRunner    TxRunner
	movimientos *MovimientoUseCase
	almacenRepo repository.AlmacenRepository
}

// NewTraspasoUseCase construye el caso de uso de traspasos.
func NewTraspasoUseCase(txRunner TxRunner, movimientos *MovimientoUseCase, almacenRepo repository.AlmacenRepository) *TraspasoUseCase {
	return &TraspasoUseCase{txRunner: txRunner, movimientos: movimientos, almacenRepo: almacenRepo}
}

// Transferir ejecuta el traspaso completo. El origen se bloquea antes que el
// destino, siempre en ese orden, para evitar deadlocks con un traspaso inverso
// concurrente. Cualquier línea que falle revierte el traspaso entero.
func (uc *TraspasoUseCase) Transferir(ctx context.Context, in TraspasoInput) (*ResultadoMovimiento, error) {
	if in.OrigenID == "" || in.DestinoID == "" || in.OrigenID == in.DestinoID || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.TraspasoID == "" {
		in.TraspasoID = uuid.New().String()
	}
	if in.Motivo == "" {
		in.Motivo = "traspaso entre bodegas"
	}

	origen, err := uc.almacenRepo.GetByID(in.OrigenID)
	if err != nil {
		return nil, err
	}
	destino, err := uc.almacenRepo.GetByID(in.DestinoID)
	if err != nil {
		return nil, err
	}
	if origen == nil || destino == nil {
		return nil, domain.ErrNotFound
	}
	if !destino.Activo {
		return nil, domain.ErrAlmacenInactivo
	}

	ref := &entity.Referencia{Tipo: entity.ReferenciaTraspaso, ID: in.TraspasoID}
	res := &ResultadoMovimiento{}
	err = uc.txRunner.Run(ctx, func(r Repos) error {
		for _, item := range in.Items {
			if item.ProductoID == "" || item.Cantidad <= 0 {
				return domain.ErrInvalidInput
			}
			producto, err := r.Productos.GetByID(item.ProductoID)
			if err != nil {
				return err
			}
			if producto == nil {
				return domain.ErrNotFound
			}
			if producto.EsKit {
				// Un kit no posee stock propio: se traspasan sus componentes.
				return domain.ErrInvalidInput
			}

			var movs []*entity.InventarioMovimiento
			if producto.Seguimiento == entity.SeguimientoSerializado {
				movs, err = uc.traspasarSeries(r, producto, item, in, ref)
			} else {
				movs, err = uc.traspasarCantidad(r, producto, item, in, ref)
			}
			if err != nil {
				return err
			}
			res.Movimientos = append(res.Movimientos, movs...)

			if err := r.Productos.SincronizarStock(producto.ID); err != nil {
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

// traspasarCantidad mueve productos normales o por lote componiendo la salida
// y la entrada dentro de la transacción del traspaso. Los metadatos de lote
// consumidos en el origen se arrastran al destino tramo por tramo.
func (uc *TraspasoUseCase) traspasarCantidad(r Repos, producto *entity.Producto, item TraspasoItem, in TraspasoInput, ref *entity.Referencia) ([]*entity.InventarioMovimiento, error) {
	salida, err := uc.movimientos.SalidaEnTx(r, producto, item.Cantidad, ContextoMovimiento{
		AlmacenID:  in.OrigenID,
		Motivo:     in.Motivo,
		Referencia: ref,
		NumeroLote: item.NumeroLote,
		CreadoPor:  in.CreadoPor,
	})
	if err != nil {
		return nil, err
	}
	movs := salida.Movimientos

	if producto.Seguimiento == entity.SeguimientoLote {
		// Una entrada por cada tramo de lote consumido, con su caducidad y costo.
		for _, m := range salida.Movimientos {
			costo := m.CostoUnitario
			entrada, err := uc.movimientos.EntradaEnTx(r, producto, -m.Cantidad, ContextoMovimiento{
				AlmacenID:      in.DestinoID,
				Motivo:         in.Motivo,
				Referencia:     ref,
				NumeroLote:     m.Detalles.NumeroLote,
				FechaCaducidad: m.Detalles.FechaCaducidad,
				CostoUnitario:  &costo,
				CreadoPor:      in.CreadoPor,
			})
			if err != nil {
				return nil, err
			}
			movs = append(movs, entrada.Movimientos...)
		}
		return movs, nil
	}

	entrada, err := uc.movimientos.EntradaEnTx(r, producto, item.Cantidad, ContextoMovimiento{
		AlmacenID:  in.DestinoID,
		Motivo:     in.Motivo,
		Referencia: ref,
		CreadoPor:  in.CreadoPor,
	})
	if err != nil {
		return nil, err
	}
	return append(movs, entrada.Movimientos...), nil
}

// traspasarSeries mueve unidades serializadas. No pasa por SalidaEnTx/
// EntradaEnTx porque el estado de la unidad no cambia: se valida que cada
// serial esté en_stock en el origen y se reescribe su bodega en la fila.
func (uc *TraspasoUseCase) traspasarSeries(r Repos, producto *entity.Producto, item TraspasoItem, in TraspasoInput, ref *entity.Referencia) ([]*entity.InventarioMovimiento, error) {
	if int64(len(item.Seriales)) != item.Cantidad {
		return nil, domain.ErrSeriesCantidad
	}
	now := time.Now()

	// Origen primero, destino después: orden fijo de bloqueo.
	invOrigen, err := r.Inventario.GetForUpdate(producto.ID, in.OrigenID)
	if err != nil {
		return nil, err
	}
	if invOrigen.Cantidad-item.Cantidad < 0 {
		return nil, domain.ErrStockInsuficiente
	}
	invDestino, err := r.Inventario.GetForUpdate(producto.ID, in.DestinoID)
	if err != nil {
		return nil, err
	}

	var series []*entity.ProductoSerie
	vistos := make(map[string]bool, len(item.Seriales))
	for _, serial := range item.Seriales {
		// Un serial repetido movería la misma unidad dos veces.
		if vistos[serial] {
			return nil, domain.ErrSerieNoDisponible
		}
		vistos[serial] = true
		se, err := r.Series.GetPorSerie(producto.ID, serial)
		if err != nil {
			return nil, err
		}
		if se == nil || !se.Disponible(in.OrigenID) {
			return nil, domain.ErrSerieNoDisponible
		}
		series = append(series, se)
	}

	invOrigen.Cantidad -= item.Cantidad
	invOrigen.UpdatedAt = now
	if err := r.Inventario.Upsert(invOrigen); err != nil {
		return nil, err
	}
	invDestino.Cantidad += item.Cantidad
	invDestino.UpdatedAt = now
	if err := r.Inventario.Upsert(invDestino); err != nil {
		return nil, err
	}

	cx := ContextoMovimiento{Motivo: in.Motivo, Referencia: ref, CreadoPor: in.CreadoPor}
	var movs []*entity.InventarioMovimiento
	for _, se := range series {
		if err := r.Series.MoverAlmacen(se.ID, in.DestinoID); err != nil {
			return nil, err
		}
		cx.AlmacenID = in.OrigenID
		salida := uc.movimientos.nuevoMovimiento(producto.ID, cx, entity.DireccionSalida, -1, producto.Costo, &entity.DetallesMovimiento{Serie: se.Serie}, now)
		if err := r.Movimientos.Create(salida); err != nil {
			return nil, err
		}
		cx.AlmacenID = in.DestinoID
		entrada := uc.movimientos.nuevoMovimiento(producto.ID, cx, entity.DireccionEntrada, 1, producto.Costo, &entity.DetallesMovimiento{Serie: se.Serie}, now)
		if err := r.Movimientos.Create(entrada); err != nil {
			return nil, err
		}
		movs = append(movs, salida, entrada)
	}
	return movs, nil
}
