package inventario_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/abastio/inventario-api/internal/application/inventario"
	"github.com/abastio/inventario-api/internal/domain"
	"github.com/abastio/inventario-api/internal/domain/entity"
)

// estado es la base de datos en memoria compartida por los fakes. Cada método
// de repositorio toma el lock, igual que una consulta toma una conexión.
type estado struct {
	mu          sync.Mutex
	productos   map[string]*entity.Producto
	almacenes   map[string]*entity.Almacen
	inventario  map[string]*entity.Inventario // key: productoID|almacenID
	movimientos []*entity.InventarioMovimiento
	series      map[string]*entity.ProductoSerie
	lotes       map[string]*entity.Lote
	kits        map[string][]*entity.KitItem
}

func nuevoEstado() *estado {
	return &estado{
		productos:  make(map[string]*entity.Producto),
		almacenes:  make(map[string]*entity.Almacen),
		inventario: make(map[string]*entity.Inventario),
		series:     make(map[string]*entity.ProductoSerie),
		lotes:      make(map[string]*entity.Lote),
		kits:       make(map[string][]*entity.KitItem),
	}
}

func invKey(productoID, almacenID string) string { return productoID + "|" + almacenID }

// snapshot copia el estado completo para poder simular rollback.
func (e *estado) snapshot() *estado {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := nuevoEstado()
	for k, v := range e.productos {
		cp := *v
		s.productos[k] = &cp
	}
	for k, v := range e.almacenes {
		cp := *v
		s.almacenes[k] = &cp
	}
	for k, v := range e.inventario {
		cp := *v
		s.inventario[k] = &cp
	}
	s.movimientos = append([]*entity.InventarioMovimiento(nil), e.movimientos...)
	for k, v := range e.series {
		cp := *v
		s.series[k] = &cp
	}
	for k, v := range e.lotes {
		cp := *v
		s.lotes[k] = &cp
	}
	for k, v := range e.kits {
		s.kits[k] = append([]*entity.KitItem(nil), v...)
	}
	return s
}

func (e *estado) restore(s *estado) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.productos = s.productos
	e.almacenes = s.almacenes
	e.inventario = s.inventario
	e.movimientos = s.movimientos
	e.series = s.series
	e.lotes = s.lotes
	e.kits = s.kits
}

// fakeTxRunner serializa las "transacciones" con un mutex y restaura el
// snapshot cuando fn falla, emulando atomicidad y aislamiento de la BD real.
type fakeTxRunner struct {
	txMu sync.Mutex
	e    *estado
}

func (f *fakeTxRunner) Run(ctx context.Context, fn func(r inventario.Repos) error) error {
	f.txMu.Lock()
	defer f.txMu.Unlock()
	snap := f.e.snapshot()
	if err := fn(reposDe(f.e)); err != nil {
		f.e.restore(snap)
		return err
	}
	return nil
}

func reposDe(e *estado) inventario.Repos {
	return inventario.Repos{
		Inventario:  &fakeInventario{e},
		Movimientos: &fakeMovimientos{e},
		Series:      &fakeSeries{e},
		Lotes:       &fakeLotes{e},
		Productos:   &fakeProductos{e},
		Kits:        &fakeKits{e},
	}
}

// ── Productos ────────────────────────────────────────────────────────────────

type fakeProductos struct{ e *estado }

func (f *fakeProductos) Create(p *entity.Producto) error {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	for _, ex := range f.e.productos {
		if ex.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	f.e.productos[p.ID] = &cp
	return nil
}

func (f *fakeProductos) GetByID(id string) (*entity.Producto, error) {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	p, ok := f.e.productos[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductos) GetBySKU(sku string) (*entity.Producto, error) {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	for _, p := range f.e.productos {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeProductos) Update(p *entity.Producto) error {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	ex, ok := f.e.productos[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	ex.SKU, ex.Nombre, ex.Descripcion, ex.Precio, ex.UpdatedAt = p.SKU, p.Nombre, p.Descripcion, p.Precio, p.UpdatedAt
	return nil
}

func (f *fakeProductos) UpdateCosto(productoID string, costo decimal.Decimal) error {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	p, ok := f.e.productos[productoID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Costo = costo
	return nil
}

func (f *fakeProductos) List(limit, offset int) ([]*entity.Producto, error) {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	var out []*entity.Producto
	for _, p := range f.e.productos {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (f *fakeProductos) SincronizarStock(productoID string) error {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	p, ok := f.e.productos[productoID]
	if !ok {
		return domain.ErrNotFound
	}
	var total int64
	for _, inv := range f.e.inventario {
		if inv.ProductoID == productoID {
			total += inv.Cantidad
		}
	}
	p.Stock = total
	return nil
}

func (f *fakeProductos) AjustarReservado(productoID string, delta int64) error {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	p, ok := f.e.productos[productoID]
	if !ok {
		return domain.ErrNotFound
	}
	if p.Reservado+delta < 0 {
		return domain.ErrReservaInsuficiente
	}
	p.Reservado += delta
	return nil
}

// ── Almacenes ────────────────────────────────────────────────────────────────

type fakeAlmacenes struct{ e *estado }

func (f *fakeAlmacenes) Create(a *entity.Almacen) error {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	cp := *a
	f.e.almacenes[a.ID] = &cp
	return nil
}

func (f *fakeAlmacenes) GetByID(id string) (*entity.Almacen, error) {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	a, ok := f.e.almacenes[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAlmacenes) Update(a *entity.Almacen) error {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	if _, ok := f.e.almacenes[a.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *a
	f.e.almacenes[a.ID] = &cp
	return nil
}

func (f *fakeAlmacenes) List(limit, offset int) ([]*entity.Almacen, error) {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	var out []*entity.Almacen
	for _, a := range f.e.almacenes {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

// ── Inventario ───────────────────────────────────────────────────────────────

type fakeInventario struct{ e *estado }

func (f *fakeInventario) Get(productoID, almacenID string) (*entity.Inventario, error) {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	inv, ok := f.e.inventario[invKey(productoID, almacenID)]
	if !ok {
		return &entity.Inventario{ProductoID: productoID, AlmacenID: almacenID}, nil
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeInventario) GetForUpdate(productoID, almacenID string) (*entity.Inventario, error) {
	return f.Get(productoID, almacenID)
}

func (f *fakeInventario) Upsert(inv *entity.Inventario) error {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	cp := *inv
	f.e.inventario[invKey(inv.ProductoID, inv.AlmacenID)] = &cp
	return nil
}

func (f *fakeInventario) ListPorProducto(productoID string) ([]*entity.Inventario, error) {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	var out []*entity.Inventario
	for _, inv := range f.e.inventario {
		if inv.ProductoID == productoID {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeInventario) ListBajoMinimo(limit, offset int) ([]*entity.Inventario, error) {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	var out []*entity.Inventario
	for _, inv := range f.e.inventario {
		if inv.BajoMinimo() {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ── Movimientos ──────────────────────────────────────────────────────────────

type fakeMovimientos struct{ e *estado }

func (f *fakeMovimientos) Create(m *entity.InventarioMovimiento) error {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	cp := *m
	f.e.movimientos = append(f.e.movimientos, &cp)
	return nil
}

func (f *fakeMovimientos) GetByID(id string) (*entity.InventarioMovimiento, error) {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	for _, m := range f.e.movimientos {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeMovimientos) ListPorProducto(productoID string, from, to *time.Time, limit, offset int) ([]*entity.InventarioMovimiento, error) {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	var out []*entity.InventarioMovimiento
	for _, m := range f.e.movimientos {
		if m.ProductoID == productoID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeMovimientos) ListPorAlmacen(almacenID string, from, to *time.Time, limit, offset int) ([]*entity.InventarioMovimiento, error) {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	var out []*entity.InventarioMovimiento
	for _, m := range f.e.movimientos {
		if m.AlmacenID == almacenID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeMovimientos) ListPorReferencia(tipo, id string) ([]*entity.InventarioMovimiento, error) {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	var out []*entity.InventarioMovimiento
	for _, m := range f.e.movimientos {
		if m.Referencia != nil && m.Referencia.Tipo == tipo && m.Referencia.ID == id {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ── Series ───────────────────────────────────────────────────────────────────

type fakeSeries struct{ e *estado }

func (f *fakeSeries) Create(s *entity.ProductoSerie) error {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	for _, ex := range f.e.series {
		if ex.ProductoID == s.ProductoID && ex.Serie == s.Serie {
			return domain.ErrSerieDuplicada
		}
	}
	cp := *s
	f.e.series[s.ID] = &cp
	return nil
}

func (f *fakeSeries) GetPorSerie(productoID, serie string) (*entity.ProductoSerie, error) {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	for _, s := range f.e.series {
		if s.ProductoID == productoID && s.Serie == serie {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeSeries) ActualizarEstado(id, estado string, ventaID *string) error {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	s, ok := f.e.series[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.Estado = estado
	s.VentaID = ventaID
	return nil
}

func (f *fakeSeries) MoverAlmacen(id, almacenID string) error {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	s, ok := f.e.series[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.AlmacenID = almacenID
	return nil
}

func (f *fakeSeries) Eliminar(id string) error {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	if _, ok := f.e.series[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.e.series, id)
	return nil
}

func (f *fakeSeries) ListPorProducto(productoID, estado string, limit, offset int) ([]*entity.ProductoSerie, error) {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	var out []*entity.ProductoSerie
	for _, s := range f.e.series {
		if s.ProductoID == productoID && (estado == "" || s.Estado == estado) {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Serie < out[j].Serie })
	return out, nil
}

func (f *fakeSeries) ContarEnStock(productoID, almacenID string) (int64, error) {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	var n int64
	for _, s := range f.e.series {
		if s.ProductoID == productoID && s.AlmacenID == almacenID && s.Estado == entity.SerieEnStock {
			n++
		}
	}
	return n, nil
}

// ── Lotes ────────────────────────────────────────────────────────────────────

type fakeLotes struct{ e *estado }

func (f *fakeLotes) Create(l *entity.Lote) error {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	cp := *l
	f.e.lotes[l.ID] = &cp
	return nil
}

func (f *fakeLotes) GetForUpdate(productoID, almacenID, numeroLote string) (*entity.Lote, error) {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	for _, l := range f.e.lotes {
		if l.ProductoID == productoID && l.AlmacenID == almacenID && l.NumeroLote == numeroLote {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeLotes) PrimeroPorCaducidad(productoID, almacenID string) (*entity.Lote, error) {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	var mejor *entity.Lote
	for _, l := range f.e.lotes {
		if l.ProductoID != productoID || l.AlmacenID != almacenID || l.CantidadActual <= 0 {
			continue
		}
		if mejor == nil || l.FechaCaducidad.Before(mejor.FechaCaducidad) {
			mejor = l
		}
	}
	if mejor == nil {
		return nil, nil
	}
	cp := *mejor
	return &cp, nil
}

func (f *fakeLotes) ActualizarCantidad(id string, cantidad int64) error {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	l, ok := f.e.lotes[id]
	if !ok {
		return domain.ErrNotFound
	}
	l.CantidadActual = cantidad
	return nil
}

func (f *fakeLotes) ListPorProducto(productoID string) ([]*entity.Lote, error) {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	var out []*entity.Lote
	for _, l := range f.e.lotes {
		if l.ProductoID == productoID {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FechaCaducidad.Before(out[j].FechaCaducidad) })
	return out, nil
}

func (f *fakeLotes) ListPorVencer(dias, limit, offset int) ([]*entity.Lote, error) {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	corte := time.Now().AddDate(0, 0, dias)
	var out []*entity.Lote
	for _, l := range f.e.lotes {
		if l.CantidadActual > 0 && l.FechaCaducidad.Before(corte) {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeLotes) SumPorProductoAlmacen(productoID, almacenID string) (int64, error) {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	var total int64
	for _, l := range f.e.lotes {
		if l.ProductoID == productoID && l.AlmacenID == almacenID {
			total += l.CantidadActual
		}
	}
	return total, nil
}

// ── Kits ─────────────────────────────────────────────────────────────────────

type fakeKits struct{ e *estado }

func (f *fakeKits) ListPorKit(kitID string) ([]*entity.KitItem, error) {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	return append([]*entity.KitItem(nil), f.e.kits[kitID]...), nil
}

func (f *fakeKits) Reemplazar(kitID string, items []*entity.KitItem) error {
	f.e.mu.Lock()
	defer f.e.mu.Unlock()
	f.e.kits[kitID] = append([]*entity.KitItem(nil), items...)
	return nil
}

// ── Fixture ──────────────────────────────────────────────────────────────────

const (
	almCentral = "alm-central"
	almNorte   = "alm-norte"
)

// motor arma el juego completo de casos de uso sobre el estado en memoria.
type motor struct {
	e           *estado
	tx          *fakeTxRunner
	movimientos *inventario.MovimientoUseCase
	traspasos   *inventario.TraspasoUseCase
	reversas    *inventario.ReversaUseCase
}

func nuevoMotor() *motor {
	e := nuevoEstado()
	now := time.Now()
	e.almacenes[almCentral] = &entity.Almacen{ID: almCentral, Nombre: "Central", Activo: true, CreatedAt: now, UpdatedAt: now}
	e.almacenes[almNorte] = &entity.Almacen{ID: almNorte, Nombre: "Norte", Activo: true, CreatedAt: now, UpdatedAt: now}

	tx := &fakeTxRunner{e: e}
	productos := &fakeProductos{e}
	almacenes := &fakeAlmacenes{e}
	mov := inventario.NewMovimientoUseCase(tx, productos, almacenes)
	return &motor{
		e:           e,
		tx:          tx,
		movimientos: mov,
		traspasos:   inventario.NewTraspasoUseCase(tx, mov, almacenes),
		reversas:    inventario.NewReversaUseCase(tx),
	}
}

func (m *motor) agregarProducto(id, seguimiento string, esKit bool) *entity.Producto {
	now := time.Now()
	p := &entity.Producto{
		ID:          id,
		SKU:         "SKU-" + id,
		Nombre:      id,
		Seguimiento: seguimiento,
		EsKit:       esKit,
		Precio:      decimal.NewFromInt(100),
		Costo:       decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.e.mu.Lock()
	m.e.productos[id] = p
	m.e.mu.Unlock()
	return p
}

func (m *motor) stock(productoID, almacenID string) int64 {
	m.e.mu.Lock()
	defer m.e.mu.Unlock()
	inv, ok := m.e.inventario[invKey(productoID, almacenID)]
	if !ok {
		return 0
	}
	return inv.Cantidad
}

func (m *motor) stockProducto(productoID string) int64 {
	m.e.mu.Lock()
	defer m.e.mu.Unlock()
	return m.e.productos[productoID].Stock
}

func (m *motor) serie(productoID, serial string) *entity.ProductoSerie {
	m.e.mu.Lock()
	defer m.e.mu.Unlock()
	for _, s := range m.e.series {
		if s.ProductoID == productoID && s.Serie == serial {
			cp := *s
			return &cp
		}
	}
	return nil
}

func (m *motor) seriesEnStock(productoID, almacenID string) int64 {
	m.e.mu.Lock()
	defer m.e.mu.Unlock()
	var n int64
	for _, s := range m.e.series {
		if s.ProductoID == productoID && s.AlmacenID == almacenID && s.Estado == entity.SerieEnStock {
			n++
		}
	}
	return n
}

func (m *motor) lote(productoID, almacenID, numeroLote string) *entity.Lote {
	m.e.mu.Lock()
	defer m.e.mu.Unlock()
	for _, l := range m.e.lotes {
		if l.ProductoID == productoID && l.AlmacenID == almacenID && l.NumeroLote == numeroLote {
			cp := *l
			return &cp
		}
	}
	return nil
}

func (m *motor) totalMovimientos() int {
	m.e.mu.Lock()
	defer m.e.mu.Unlock()
	return len(m.e.movimientos)
}

// replay suma los movimientos firmados de (producto, bodega): debe coincidir
// siempre con la cantidad de inventario.
func (m *motor) replay(productoID, almacenID string) int64 {
	m.e.mu.Lock()
	defer m.e.mu.Unlock()
	var total int64
	for _, mov := range m.e.movimientos {
		if mov.ProductoID == productoID && mov.AlmacenID == almacenID {
			total += mov.Cantidad
		}
	}
	return total
}

func refCompra(id string) *entity.Referencia {
	return &entity.Referencia{Tipo: entity.ReferenciaCompra, ID: id}
}

func refVenta(id string) *entity.Referencia {
	return &entity.Referencia{Tipo: entity.ReferenciaVenta, ID: id}
}

func refAjuste(id string) *entity.Referencia {
	return &entity.Referencia{Tipo: entity.ReferenciaAjuste, ID: id}
}

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func fechaCad(dias int) *time.Time {
	t := time.Now().AddDate(0, 0, dias)
	return &t
}
