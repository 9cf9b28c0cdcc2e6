package usecase

import (
	"time"

	"github.com/abastio/inventario-api/internal/application/dto"
	"github.com/abastio/inventario-api/internal/domain"
	"github.com/abastio/inventario-api/internal/domain/entity"
	"github.com/abastio/inventario-api/internal/domain/repository"
)

// ConsultaUseCase consultas de solo lectura sobre inventario, movimientos,
// series y lotes. Opera fuera de transacción, directo sobre el pool.
type ConsultaUseCase struct {
	inventarioRepo repository.InventarioRepository
	movimientoRepo repository.MovimientoRepository
	serieRepo      repository.SerieRepository
	loteRepo       repository.LoteRepository
}

// NewConsultaUseCase construye el caso de uso de consultas.
func NewConsultaUseCase(
	inventarioRepo repository.InventarioRepository,
	movimientoRepo repository.MovimientoRepository,
	serieRepo repository.SerieRepository,
	loteRepo repository.LoteRepository,
) *ConsultaUseCase {
	return &ConsultaUseCase{
		inventarioRepo: inventarioRepo,
		movimientoRepo: movimientoRepo,
		serieRepo:      serieRepo,
		loteRepo:       loteRepo,
	}
}

// Stock devuelve la cantidad actual. Con bodega: una fila (en cero si no
// existe). Sin bodega: todas las filas del producto.
func (uc *ConsultaUseCase) Stock(productoID, almacenID string) ([]dto.StockResponse, error) {
	if productoID == "" {
		return nil, domain.ErrInvalidInput
	}
	if almacenID != "" {
		inv, err := uc.inventarioRepo.Get(productoID, almacenID)
		if err != nil {
			return nil, err
		}
		return []dto.StockResponse{{
			ProductoID:  inv.ProductoID,
			AlmacenID:   inv.AlmacenID,
			Cantidad:    inv.Cantidad,
			StockMinimo: inv.StockMinimo,
			UpdatedAt:   inv.UpdatedAt,
		}}, nil
	}
	list, err := uc.inventarioRepo.ListPorProducto(productoID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, dto.StockResponse{
			ProductoID:  inv.ProductoID,
			AlmacenID:   inv.AlmacenID,
			Cantidad:    inv.Cantidad,
			StockMinimo: inv.StockMinimo,
			UpdatedAt:   inv.UpdatedAt,
		})
	}
	return out, nil
}

// Movimientos devuelve el historial filtrado por producto o por bodega
// (al menos uno requerido), con rango de fechas y paginación.
func (uc *ConsultaUseCase) Movimientos(productoID, almacenID string, from, to *time.Time, limit, offset int) (*dto.MovimientosResponse, error) {
	if productoID == "" && almacenID == "" {
		return nil, domain.ErrInvalidInput
	}
	if productoID != "" {
		movs, err := uc.movimientoRepo.ListPorProducto(productoID, from, to, limit, offset)
		if err != nil {
			return nil, err
		}
		out := dto.ToMovimientosResponse(movs)
		return &out, nil
	}
	movs, err := uc.movimientoRepo.ListPorAlmacen(almacenID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	out := dto.ToMovimientosResponse(movs)
	return &out, nil
}

// BajoMinimo lista filas de inventario por debajo de su stock mínimo.
func (uc *ConsultaUseCase) BajoMinimo(limit, offset int) ([]dto.StockResponse, error) {
	list, err := uc.inventarioRepo.ListBajoMinimo(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, dto.StockResponse{
			ProductoID:  inv.ProductoID,
			AlmacenID:   inv.AlmacenID,
			Cantidad:    inv.Cantidad,
			StockMinimo: inv.StockMinimo,
			UpdatedAt:   inv.UpdatedAt,
		})
	}
	return out, nil
}

// Series lista las unidades serializadas de un producto, opcionalmente por estado.
func (uc *ConsultaUseCase) Series(productoID, estado string, limit, offset int) ([]dto.SerieResponse, error) {
	list, err := uc.serieRepo.ListPorProducto(productoID, estado, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SerieResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.SerieResponse{
			ID:        s.ID,
			AlmacenID: s.AlmacenID,
			Serie:     s.Serie,
			Estado:    s.Estado,
			CompraID:  s.CompraID,
			VentaID:   s.VentaID,
		})
	}
	return out, nil
}

// Lotes lista los lotes de un producto en todas las bodegas.
func (uc *ConsultaUseCase) Lotes(productoID string) ([]dto.LoteResponse, error) {
	list, err := uc.loteRepo.ListPorProducto(productoID)
	if err != nil {
		return nil, err
	}
	return toLoteResponses(list), nil
}

// LotesPorVencer lista lotes con existencia que caducan dentro de `dias`.
func (uc *ConsultaUseCase) LotesPorVencer(dias, limit, offset int) ([]dto.LoteResponse, error) {
	list, err := uc.loteRepo.ListPorVencer(dias, limit, offset)
	if err != nil {
		return nil, err
	}
	return toLoteResponses(list), nil
}

func toLoteResponses(list []*entity.Lote) []dto.LoteResponse {
	out := make([]dto.LoteResponse, 0, len(list))
	for _, l := range list {
		out = append(out, dto.LoteResponse{
			ID:             l.ID,
			AlmacenID:      l.AlmacenID,
			NumeroLote:     l.NumeroLote,
			CantidadActual: l.CantidadActual,
			FechaCaducidad: l.FechaCaducidad,
			CostoUnitario:  l.CostoUnitario,
		})
	}
	return out
}
