package inventario

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/abastio/inventario-api/internal/domain/repository"
)

// ReconciliacionUseCase es el job de auditoría de solo lectura: compara las
// vistas que deben coincidir (replay de movimientos, series en stock, sumas de
// lotes y agregado por producto) y reporta las desviaciones. Nunca corrige:
// es una red de seguridad, no parte de la garantía de corrección del motor.
type ReconciliacionUseCase struct {
	repo repository.ReconciliacionRepository
}

// NewReconciliacionUseCase construye el job de conciliación.
func NewReconciliacionUseCase(repo repository.ReconciliacionRepository) *ReconciliacionUseCase {
	return &ReconciliacionUseCase{repo: repo}
}

// Verificar corre las cuatro reglas en paralelo y devuelve las discrepancias.
func (uc *ReconciliacionUseCase) Verificar(ctx context.Context) ([]repository.Discrepancia, error) {
	checks := []func(context.Context) ([]repository.Discrepancia, error){
		uc.repo.ReplayVsInventario,
		uc.repo.SeriesVsInventario,
		uc.repo.LotesVsInventario,
		uc.repo.StockVsInventario,
	}

	resultados := make([][]repository.Discrepancia, len(checks))
	g, gctx := errgroup.WithContext(ctx)
	for i, check := range checks {
		i, check := i, check
		g.Go(func() error {
			d, err := check(gctx)
			if err != nil {
				return err
			}
			resultados[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var todas []repository.Discrepancia
	for _, d := range resultados {
		todas = append(todas, d...)
	}
	return todas, nil
}
