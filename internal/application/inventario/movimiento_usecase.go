package inventario

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/abastio/inventario-api/internal/domain"
	"github.com/abastio/inventario-api/internal/domain/entity"
	dominv "github.com/abastio/inventario-api/internal/domain/inventario"
	"github.com/abastio/inventario-api/internal/domain/repository"
)

// MovimientoUseCase es el servicio de movimientos: el API público
// entrada/salida del motor de inventario. Cada operación corre dentro de una
// transacción con bloqueo de fila (SELECT FOR UPDATE) sobre el inventario,
// mantiene series y lotes, registra los movimientos en el log append-only y
// refresca el agregado de stock del producto, todo o nada.
type MovimientoUseCase struct {
	txRunner     TxRunner
	productoRepo repository.ProductoRepository
	almacenRepo  repository.AlmacenRepository
}

// NewMovimientoUseCase construye el servicio de movimientos.
func NewMovimientoUseCase(
	txRunner TxRunner,
	productoRepo repository.ProductoRepository,
	almacenRepo repository.AlmacenRepository,
) *MovimientoUseCase {
	return &MovimientoUseCase{
		txRunner:     txRunner,
		productoRepo: productoRepo,
		almacenRepo:  almacenRepo,
	}
}

// Entrada registra un ingreso de stock en su propia transacción.
func (uc *MovimientoUseCase) Entrada(ctx context.Context, productoID string, cantidad int64, cx ContextoMovimiento) (*ResultadoMovimiento, error) {
	producto, err := uc.validar(productoID, cantidad, cx, true)
	if err != nil {
		return nil, err
	}
	var res *ResultadoMovimiento
	err = uc.txRunner.Run(ctx, func(r Repos) error {
		res, err = uc.EntradaEnTx(r, producto, cantidad, cx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Salida registra un egreso de stock en su propia transacción.
func (uc *MovimientoUseCase) Salida(ctx context.Context, productoID string, cantidad int64, cx ContextoMovimiento) (*ResultadoMovimiento, error) {
	producto, err := uc.validar(productoID, cantidad, cx, false)
	if err != nil {
		return nil, err
	}
	var res *ResultadoMovimiento
	err = uc.txRunner.Run(ctx, func(r Repos) error {
		res, err = uc.SalidaEnTx(r, producto, cantidad, cx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// validar comprueba los campos comunes y que producto y bodega existan.
// Una entrada exige bodega activa; una salida puede drenar una bodega inactiva.
func (uc *MovimientoUseCase) validar(productoID string, cantidad int64, cx ContextoMovimiento, esEntrada bool) (*entity.Producto, error) {
	if productoID == "" || cantidad <= 0 || cx.AlmacenID == "" || cx.Motivo == "" {
		return nil, domain.ErrInvalidInput
	}
	producto, err := uc.productoRepo.GetByID(productoID)
	if err != nil {
		return nil, err
	}
	if producto == nil {
		return nil, domain.ErrNotFound
	}
	almacen, err := uc.almacenRepo.GetByID(cx.AlmacenID)
	if err != nil {
		return nil, err
	}
	if almacen == nil {
		return nil, domain.ErrNotFound
	}
	if esEntrada && !almacen.Activo {
		return nil, domain.ErrAlmacenInactivo
	}
	return producto, nil
}

// EntradaEnTx ejecuta la entrada con los repositorios de la transacción del
// caller. Es el punto de composición para flujos que encadenan varias
// operaciones (traspasos, ventas, reversas) bajo una sola transacción.
func (uc *MovimientoUseCase) EntradaEnTx(r Repos, producto *entity.Producto, cantidad int64, cx ContextoMovimiento) (*ResultadoMovimiento, error) {
	if cantidad <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if producto.EsKit {
		return uc.expandirKit(r, producto, cantidad, cx, entity.DireccionEntrada)
	}
	switch producto.Seguimiento {
	case entity.SeguimientoSerializado:
		if int64(len(cx.Seriales)) != cantidad {
			return nil, domain.ErrSeriesCantidad
		}
	case entity.SeguimientoLote:
		if cx.NumeroLote == "" || cx.FechaCaducidad == nil {
			return nil, domain.ErrLoteRequerido
		}
	}

	now := time.Now()

	// Bloquea la fila de inventario y suma la cantidad (creación perezosa).
	inv, err := r.Inventario.GetForUpdate(producto.ID, cx.AlmacenID)
	if err != nil {
		return nil, err
	}
	inv.Cantidad += cantidad
	inv.UpdatedAt = now
	if err := r.Inventario.Upsert(inv); err != nil {
		return nil, err
	}

	costoUnitario := producto.Costo
	if cx.CostoUnitario != nil {
		costoUnitario = *cx.CostoUnitario
		// Actualiza el costo promedio ponderado del producto. Un traspaso no es
		// un evento de compra: arrastra el costo del lote sin revaluar.
		if cx.Referencia == nil || cx.Referencia.Tipo != entity.ReferenciaTraspaso {
			nuevoCosto := dominv.CostoPromedio(producto.Stock, producto.Costo, cantidad, costoUnitario)
			if err := r.Productos.UpdateCosto(producto.ID, nuevoCosto); err != nil {
				return nil, err
			}
			producto.Costo = nuevoCosto
		}
	}

	res := &ResultadoMovimiento{}
	switch producto.Seguimiento {
	case entity.SeguimientoSerializado:
		// Una fila de serie y un movimiento por unidad física (trazabilidad 1:1).
		var compraID *string
		if cx.Referencia != nil && cx.Referencia.Tipo == entity.ReferenciaCompra {
			compraID = &cx.Referencia.ID
		}
		for _, serial := range cx.Seriales {
			if serial == "" {
				return nil, domain.ErrInvalidInput
			}
			serie := &entity.ProductoSerie{
				ID:         uuid.New().String(),
				ProductoID: producto.ID,
				AlmacenID:  cx.AlmacenID,
				Serie:      serial,
				Estado:     entity.SerieEnStock,
				CompraID:   compraID,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := r.Series.Create(serie); err != nil {
				return nil, err
			}
			mov := uc.nuevoMovimiento(producto.ID, cx, entity.DireccionEntrada, 1, costoUnitario, &entity.DetallesMovimiento{Serie: serial}, now)
			if err := r.Movimientos.Create(mov); err != nil {
				return nil, err
			}
			res.Movimientos = append(res.Movimientos, mov)
		}
	case entity.SeguimientoLote:
		lote, err := r.Lotes.GetForUpdate(producto.ID, cx.AlmacenID, cx.NumeroLote)
		if err != nil {
			return nil, err
		}
		if lote == nil {
			lote = &entity.Lote{
				ID:             uuid.New().String(),
				ProductoID:     producto.ID,
				AlmacenID:      cx.AlmacenID,
				NumeroLote:     cx.NumeroLote,
				CantidadActual: cantidad,
				FechaCaducidad: *cx.FechaCaducidad,
				CostoUnitario:  costoUnitario,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := r.Lotes.Create(lote); err != nil {
				return nil, err
			}
		} else if err := r.Lotes.ActualizarCantidad(lote.ID, lote.CantidadActual+cantidad); err != nil {
			return nil, err
		}
		mov := uc.nuevoMovimiento(producto.ID, cx, entity.DireccionEntrada, cantidad, costoUnitario,
			&entity.DetallesMovimiento{NumeroLote: cx.NumeroLote, FechaCaducidad: cx.FechaCaducidad}, now)
		if err := r.Movimientos.Create(mov); err != nil {
			return nil, err
		}
		res.Movimientos = append(res.Movimientos, mov)
	default:
		mov := uc.nuevoMovimiento(producto.ID, cx, entity.DireccionEntrada, cantidad, costoUnitario, nil, now)
		if err := r.Movimientos.Create(mov); err != nil {
			return nil, err
		}
		res.Movimientos = append(res.Movimientos, mov)
	}

	if err := r.Productos.SincronizarStock(producto.ID); err != nil {
		return nil, err
	}
	producto.Stock += cantidad
	return res, nil
}

// SalidaEnTx ejecuta la salida con los repositorios de la transacción del
// caller. La guarda de stock negativo se evalúa con la fila de inventario ya
// bloqueada; cualquier violación aborta sin tocar ninguna tabla.
func (uc *MovimientoUseCase) SalidaEnTx(r Repos, producto *entity.Producto, cantidad int64, cx ContextoMovimiento) (*ResultadoMovimiento, error) {
	if cantidad <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if producto.EsKit {
		return uc.expandirKit(r, producto, cantidad, cx, entity.DireccionSalida)
	}
	if producto.Seguimiento == entity.SeguimientoSerializado && int64(len(cx.Seriales)) != cantidad {
		return nil, domain.ErrSeriesCantidad
	}

	now := time.Now()

	inv, err := r.Inventario.GetForUpdate(producto.ID, cx.AlmacenID)
	if err != nil {
		return nil, err
	}
	if inv.Cantidad-cantidad < 0 {
		return nil, domain.ErrStockInsuficiente
	}

	// Resuelve y valida los seriales antes de mutar nada. Un serial repetido
	// tomaría la misma unidad dos veces: la cantidad bajaría por dos pero solo
	// una fila de serie cambiaría de estado, descuadrando el conteo en_stock.
	var series []*entity.ProductoSerie
	if producto.Seguimiento == entity.SeguimientoSerializado {
		vistos := make(map[string]bool, len(cx.Seriales))
		for _, serial := range cx.Seriales {
			if vistos[serial] {
				return nil, domain.ErrSerieNoDisponible
			}
			vistos[serial] = true
			se, err := r.Series.GetPorSerie(producto.ID, serial)
			if err != nil {
				return nil, err
			}
			if se == nil || !se.Disponible(cx.AlmacenID) {
				return nil, domain.ErrSerieNoDisponible
			}
			series = append(series, se)
		}
	}

	inv.Cantidad -= cantidad
	inv.UpdatedAt = now
	if err := r.Inventario.Upsert(inv); err != nil {
		return nil, err
	}

	costoUnitario := producto.Costo
	res := &ResultadoMovimiento{}

	switch producto.Seguimiento {
	case entity.SeguimientoSerializado:
		estado := entity.SerieAjusteBaja
		var ventaID *string
		if cx.EsVenta {
			estado = entity.SerieVendido
			if cx.Referencia != nil && cx.Referencia.Tipo == entity.ReferenciaVenta {
				ventaID = &cx.Referencia.ID
			}
		}
		for _, se := range series {
			if err := r.Series.ActualizarEstado(se.ID, estado, ventaID); err != nil {
				return nil, err
			}
			mov := uc.nuevoMovimiento(producto.ID, cx, entity.DireccionSalida, -1, costoUnitario, &entity.DetallesMovimiento{Serie: se.Serie}, now)
			if err := r.Movimientos.Create(mov); err != nil {
				return nil, err
			}
			res.Movimientos = append(res.Movimientos, mov)
		}
	case entity.SeguimientoLote:
		movs, err := uc.consumirLotes(r, producto, cantidad, cx, now)
		if err != nil {
			return nil, err
		}
		res.Movimientos = append(res.Movimientos, movs...)
	default:
		mov := uc.nuevoMovimiento(producto.ID, cx, entity.DireccionSalida, -cantidad, costoUnitario, nil, now)
		if err := r.Movimientos.Create(mov); err != nil {
			return nil, err
		}
		res.Movimientos = append(res.Movimientos, mov)
	}

	if err := r.Productos.SincronizarStock(producto.ID); err != nil {
		return nil, err
	}
	producto.Stock -= cantidad
	return res, nil
}

// consumirLotes decrementa lotes en una salida. Con NumeroLote el caller elige
// el lote; vacío aplica FIFO por fecha de caducidad, pudiendo abarcar varios
// lotes (un movimiento por tramo consumido, para que el replay cuadre exacto).
func (uc *MovimientoUseCase) consumirLotes(r Repos, producto *entity.Producto, cantidad int64, cx ContextoMovimiento, now time.Time) ([]*entity.InventarioMovimiento, error) {
	var movs []*entity.InventarioMovimiento

	if cx.NumeroLote != "" {
		lote, err := r.Lotes.GetForUpdate(producto.ID, cx.AlmacenID, cx.NumeroLote)
		if err != nil {
			return nil, err
		}
		if lote == nil {
			return nil, domain.ErrLoteNoEncontrado
		}
		if lote.CantidadActual < cantidad {
			return nil, domain.ErrLoteInsuficiente
		}
		if err := r.Lotes.ActualizarCantidad(lote.ID, lote.CantidadActual-cantidad); err != nil {
			return nil, err
		}
		// El movimiento lleva el costo del lote consumido, no el promedio del
		// producto: es lo que un traspaso o una reversa arrastran después.
		caducidad := lote.FechaCaducidad
		mov := uc.nuevoMovimiento(producto.ID, cx, entity.DireccionSalida, -cantidad, lote.CostoUnitario,
			&entity.DetallesMovimiento{NumeroLote: lote.NumeroLote, FechaCaducidad: &caducidad}, now)
		if err := r.Movimientos.Create(mov); err != nil {
			return nil, err
		}
		return append(movs, mov), nil
	}

	restante := cantidad
	for restante > 0 {
		lote, err := r.Lotes.PrimeroPorCaducidad(producto.ID, cx.AlmacenID)
		if err != nil {
			return nil, err
		}
		if lote == nil {
			return nil, domain.ErrLoteInsuficiente
		}
		tramo := lote.CantidadActual
		if tramo > restante {
			tramo = restante
		}
		if err := r.Lotes.ActualizarCantidad(lote.ID, lote.CantidadActual-tramo); err != nil {
			return nil, err
		}
		caducidad := lote.FechaCaducidad
		mov := uc.nuevoMovimiento(producto.ID, cx, entity.DireccionSalida, -tramo, lote.CostoUnitario,
			&entity.DetallesMovimiento{NumeroLote: lote.NumeroLote, FechaCaducidad: &caducidad}, now)
		if err := r.Movimientos.Create(mov); err != nil {
			return nil, err
		}
		movs = append(movs, mov)
		restante -= tramo
	}
	return movs, nil
}

// expandirKit descompone el movimiento de un kit en movimientos de sus
// componentes. El kit nunca toca una fila de inventario propia. Todo-o-nada:
// el primer componente que falla aborta la operación completa con la causa
// envuelta en ErrorComponenteKit.
func (uc *MovimientoUseCase) expandirKit(r Repos, kit *entity.Producto, cantidad int64, cx ContextoMovimiento, direccion string) (*ResultadoMovimiento, error) {
	items, err := r.Kits.ListPorKit(kit.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	res := &ResultadoMovimiento{}
	for _, item := range items {
		if item.ItemTipo != entity.KitItemProducto {
			// Los servicios del kit no mueven stock.
			continue
		}
		if item.Multiplicador <= 0 {
			return nil, &domain.ErrorComponenteKit{KitID: kit.ID, ItemID: item.ItemID, Err: domain.ErrInvalidInput}
		}
		componente, err := r.Productos.GetByID(item.ItemID)
		if err != nil {
			return nil, &domain.ErrorComponenteKit{KitID: kit.ID, ItemID: item.ItemID, Err: err}
		}
		if componente == nil {
			return nil, &domain.ErrorComponenteKit{KitID: kit.ID, ItemID: item.ItemID, Err: domain.ErrNotFound}
		}
		if componente.EsKit {
			// Un solo nivel de descomposición.
			return nil, &domain.ErrorComponenteKit{KitID: kit.ID, ItemID: item.ItemID, Err: domain.ErrKitAnidado}
		}

		ccx := cx.contextoComponente(item.ItemID)
		var sub *ResultadoMovimiento
		if direccion == entity.DireccionEntrada {
			sub, err = uc.EntradaEnTx(r, componente, cantidad*item.Multiplicador, ccx)
		} else {
			sub, err = uc.SalidaEnTx(r, componente, cantidad*item.Multiplicador, ccx)
		}
		if err != nil {
			return nil, &domain.ErrorComponenteKit{KitID: kit.ID, ItemID: item.ItemID, Err: err}
		}
		res.Movimientos = append(res.Movimientos, sub.Movimientos...)
	}
	return res, nil
}

// nuevoMovimiento arma el registro append-only. La cantidad viene firmada
// (negativa en salidas) para que el replay por (producto, bodega) sea una suma
// directa.
func (uc *MovimientoUseCase) nuevoMovimiento(productoID string, cx ContextoMovimiento, direccion string, cantidadFirmada int64, costoUnitario decimal.Decimal, detalles *entity.DetallesMovimiento, now time.Time) *entity.InventarioMovimiento {
	return &entity.InventarioMovimiento{
		ID:            uuid.New().String(),
		ProductoID:    productoID,
		AlmacenID:     cx.AlmacenID,
		Direccion:     direccion,
		Cantidad:      cantidadFirmada,
		Motivo:        cx.Motivo,
		Referencia:    cx.Referencia,
		Detalles:      detalles,
		CostoUnitario: costoUnitario,
		CostoTotal:    costoUnitario.Mul(decimal.NewFromInt(cantidadFirmada)),
		Fecha:         now,
		CreatedAt:     now,
		CreadoPor:     cx.CreadoPor,
	}
}
