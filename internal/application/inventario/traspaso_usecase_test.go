package inventario_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abastio/inventario-api/internal/application/inventario"
	"github.com/abastio/inventario-api/internal/domain"
	"github.com/abastio/inventario-api/internal/domain/entity"
)

func TestTransferir_Normal_MueveStockEntreBodegas(t *testing.T) {
	m := nuevoMotor()
	m.agregarProducto("martillo", entity.SeguimientoNormal, false)
	ctx := context.Background()
	_, err := m.movimientos.Entrada(ctx, "martillo", 10, inventario.ContextoMovimiento{
		AlmacenID: almCentral, Motivo: "compra",
	})
	require.NoError(t, err)

	res, err := m.traspasos.Transferir(ctx, inventario.TraspasoInput{
		TraspasoID: "tr-1",
		OrigenID:   almCentral,
		DestinoID:  almNorte,
		Items:      []inventario.TraspasoItem{{ProductoID: "martillo", Cantidad: 4}},
		CreadoPor:  "user-1",
	})
	require.NoError(t, err)
	require.Len(t, res.Movimientos, 2, "una salida en el origen y una entrada en el destino")

	salida, entrada := res.Movimientos[0], res.Movimientos[1]
	assert.Equal(t, entity.DireccionSalida, salida.Direccion)
	assert.Equal(t, almCentral, salida.AlmacenID)
	assert.EqualValues(t, -4, salida.Cantidad)
	assert.Equal(t, entity.DireccionEntrada, entrada.Direccion)
	assert.Equal(t, almNorte, entrada.AlmacenID)
	assert.EqualValues(t, 4, entrada.Cantidad)
	require.NotNil(t, salida.Referencia)
	assert.Equal(t, entity.ReferenciaTraspaso, salida.Referencia.Tipo)
	assert.Equal(t, "tr-1", salida.Referencia.ID)
	assert.Equal(t, "traspaso entre bodegas", salida.Motivo, "motivo por defecto")

	assert.EqualValues(t, 6, m.stock("martillo", almCentral))
	assert.EqualValues(t, 4, m.stock("martillo", almNorte))
	assert.EqualValues(t, 10, m.stockProducto("martillo"),
		"el agregado del producto no cambia con un traspaso")
}

func TestTransferir_Validaciones(t *testing.T) {
	m := nuevoMotor()
	m.agregarProducto("martillo", entity.SeguimientoNormal, false)
	ctx := context.Background()
	item := []inventario.TraspasoItem{{ProductoID: "martillo", Cantidad: 1}}

	casos := []struct {
		nombre   string
		in       inventario.TraspasoInput
		esperado error
	}{
		{"mismo origen y destino", inventario.TraspasoInput{OrigenID: almCentral, DestinoID: almCentral, Items: item}, domain.ErrInvalidInput},
		{"sin items", inventario.TraspasoInput{OrigenID: almCentral, DestinoID: almNorte}, domain.ErrInvalidInput},
		{"destino inexistente", inventario.TraspasoInput{OrigenID: almCentral, DestinoID: "nada", Items: item}, domain.ErrNotFound},
		{"producto inexistente", inventario.TraspasoInput{OrigenID: almCentral, DestinoID: almNorte,
			Items: []inventario.TraspasoItem{{ProductoID: "fantasma", Cantidad: 1}}}, domain.ErrNotFound},
		{"cantidad cero", inventario.TraspasoInput{OrigenID: almCentral, DestinoID: almNorte,
			Items: []inventario.TraspasoItem{{ProductoID: "martillo", Cantidad: 0}}}, domain.ErrInvalidInput},
	}
	for _, tc := range casos {
		t.Run(tc.nombre, func(t *testing.T) {
			_, err := m.traspasos.Transferir(ctx, tc.in)
			assert.ErrorIs(t, err, tc.esperado)
		})
	}
}

func TestTransferir_DestinoInactivo_Rechazado(t *testing.T) {
	m := nuevoMotor()
	m.agregarProducto("martillo", entity.SeguimientoNormal, false)
	ctx := context.Background()
	_, err := m.movimientos.Entrada(ctx, "martillo", 5, inventario.ContextoMovimiento{
		AlmacenID: almCentral, Motivo: "compra",
	})
	require.NoError(t, err)

	m.e.mu.Lock()
	m.e.almacenes[almNorte].Activo = false
	m.e.mu.Unlock()

	_, err = m.traspasos.Transferir(ctx, inventario.TraspasoInput{
		OrigenID:  almCentral,
		DestinoID: almNorte,
		Items:     []inventario.TraspasoItem{{ProductoID: "martillo", Cantidad: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrAlmacenInactivo)
	assert.EqualValues(t, 5, m.stock("martillo", almCentral))
}

func TestTransferir_StockInsuficiente_RevierteTodo(t *testing.T) {
	m := nuevoMotor()
	m.agregarProducto("martillo", entity.SeguimientoNormal, false)
	m.agregarProducto("pala", entity.SeguimientoNormal, false)
	ctx := context.Background()
	_, err := m.movimientos.Entrada(ctx, "martillo", 10, inventario.ContextoMovimiento{AlmacenID: almCentral, Motivo: "compra"})
	require.NoError(t, err)
	_, err = m.movimientos.Entrada(ctx, "pala", 1, inventario.ContextoMovimiento{AlmacenID: almCentral, Motivo: "compra"})
	require.NoError(t, err)
	antes := m.totalMovimientos()

	// La primera línea pasaría; la segunda pide más palas de las que hay.
	_, err = m.traspasos.Transferir(ctx, inventario.TraspasoInput{
		OrigenID:  almCentral,
		DestinoID: almNorte,
		Items: []inventario.TraspasoItem{
			{ProductoID: "martillo", Cantidad: 5},
			{ProductoID: "pala", Cantidad: 3},
		},
	})
	require.ErrorIs(t, err, domain.ErrStockInsuficiente)

	assert.EqualValues(t, 10, m.stock("martillo", almCentral), "la línea buena también se revierte")
	assert.EqualValues(t, 0, m.stock("martillo", almNorte))
	assert.Equal(t, antes, m.totalMovimientos())
}

func TestTransferir_Kit_Rechazado(t *testing.T) {
	m := nuevoMotor()
	m.agregarProducto("kit-mesa", entity.SeguimientoNormal, true)

	_, err := m.traspasos.Transferir(context.Background(), inventario.TraspasoInput{
		OrigenID:  almCentral,
		DestinoID: almNorte,
		Items:     []inventario.TraspasoItem{{ProductoID: "kit-mesa", Cantidad: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "un kit no posee stock propio que traspasar")
}

func TestTransferir_Serializado_PreservaIdentidadDeLaUnidad(t *testing.T) {
	m := nuevoMotor()
	m.agregarProducto("laptop", entity.SeguimientoSerializado, false)
	ctx := context.Background()
	_, err := m.movimientos.Entrada(ctx, "laptop", 2, inventario.ContextoMovimiento{
		AlmacenID: almCentral, Motivo: "compra", Referencia: refCompra("c1"),
		Seriales: []string{"SN-1", "SN-2"},
	})
	require.NoError(t, err)
	idAntes := m.serie("laptop", "SN-1").ID

	res, err := m.traspasos.Transferir(ctx, inventario.TraspasoInput{
		TraspasoID: "tr-s",
		OrigenID:   almCentral,
		DestinoID:  almNorte,
		Items:      []inventario.TraspasoItem{{ProductoID: "laptop", Cantidad: 1, Seriales: []string{"SN-1"}}},
	})
	require.NoError(t, err)
	require.Len(t, res.Movimientos, 2, "par salida/entrada por cada serial")

	se := m.serie("laptop", "SN-1")
	assert.Equal(t, idAntes, se.ID, "misma fila: la unidad conserva su identidad")
	assert.Equal(t, almNorte, se.AlmacenID)
	assert.Equal(t, entity.SerieEnStock, se.Estado, "un traspaso no cambia el estado")
	require.NotNil(t, se.CompraID)
	assert.Equal(t, "c1", *se.CompraID, "el vínculo con la compra original se conserva")

	assert.EqualValues(t, 1, m.stock("laptop", almCentral))
	assert.EqualValues(t, 1, m.stock("laptop", almNorte))
}

func TestTransferir_Serializado_Errores(t *testing.T) {
	m := nuevoMotor()
	m.agregarProducto("laptop", entity.SeguimientoSerializado, false)
	ctx := context.Background()
	_, err := m.movimientos.Entrada(ctx, "laptop", 1, inventario.ContextoMovimiento{
		AlmacenID: almCentral, Motivo: "compra", Seriales: []string{"SN-1"},
	})
	require.NoError(t, err)

	t.Run("seriales no coinciden con la cantidad", func(t *testing.T) {
		_, err := m.traspasos.Transferir(ctx, inventario.TraspasoInput{
			OrigenID: almCentral, DestinoID: almNorte,
			Items: []inventario.TraspasoItem{{ProductoID: "laptop", Cantidad: 2, Seriales: []string{"SN-1"}}},
		})
		assert.ErrorIs(t, err, domain.ErrSeriesCantidad)
	})

	t.Run("serial no disponible en el origen", func(t *testing.T) {
		_, err := m.traspasos.Transferir(ctx, inventario.TraspasoInput{
			OrigenID: almCentral, DestinoID: almNorte,
			Items: []inventario.TraspasoItem{{ProductoID: "laptop", Cantidad: 1, Seriales: []string{"SN-X"}}},
		})
		assert.ErrorIs(t, err, domain.ErrSerieNoDisponible)
	})

	t.Run("serial repetido", func(t *testing.T) {
		_, err := m.movimientos.Entrada(ctx, "laptop", 1, inventario.ContextoMovimiento{
			AlmacenID: almCentral, Motivo: "compra", Seriales: []string{"SN-2"},
		})
		require.NoError(t, err)

		_, err = m.traspasos.Transferir(ctx, inventario.TraspasoInput{
			OrigenID: almCentral, DestinoID: almNorte,
			Items: []inventario.TraspasoItem{{ProductoID: "laptop", Cantidad: 2, Seriales: []string{"SN-1", "SN-1"}}},
		})
		require.ErrorIs(t, err, domain.ErrSerieNoDisponible,
			"repetir el serial movería la misma unidad dos veces")

		assert.EqualValues(t, 2, m.stock("laptop", almCentral))
		assert.EqualValues(t, 0, m.stock("laptop", almNorte))
		assert.EqualValues(t, m.stock("laptop", almCentral), m.seriesEnStock("laptop", almCentral))
	})
}

func TestTransferir_Lote_ArrastraCaducidadYCosto(t *testing.T) {
	m := nuevoMotor()
	m.agregarProducto("vacuna", entity.SeguimientoLote, false)
	ctx := context.Background()
	c5 := dec("5")
	cad := fechaCad(45)
	_, err := m.movimientos.Entrada(ctx, "vacuna", 100, inventario.ContextoMovimiento{
		AlmacenID: almCentral, Motivo: "compra", Referencia: refCompra("c1"),
		NumeroLote: "L-001", FechaCaducidad: cad, CostoUnitario: &c5,
	})
	require.NoError(t, err)

	_, err = m.traspasos.Transferir(ctx, inventario.TraspasoInput{
		TraspasoID: "tr-l",
		OrigenID:   almCentral,
		DestinoID:  almNorte,
		Items:      []inventario.TraspasoItem{{ProductoID: "vacuna", Cantidad: 40, NumeroLote: "L-001"}},
	})
	require.NoError(t, err)

	assert.EqualValues(t, 60, m.lote("vacuna", almCentral, "L-001").CantidadActual)

	destino := m.lote("vacuna", almNorte, "L-001")
	require.NotNil(t, destino, "el lote se recrea en el destino con su número")
	assert.EqualValues(t, 40, destino.CantidadActual)
	assert.True(t, destino.FechaCaducidad.Equal(*cad), "la caducidad viaja con el lote")

	m.e.mu.Lock()
	costo := m.e.productos["vacuna"].Costo
	m.e.mu.Unlock()
	assert.True(t, costo.Equal(dec("5")),
		"un traspaso no es un evento de compra: el costo promedio no se revalúa")
}

func TestTransferir_Lote_ConservaElCostoDelLote(t *testing.T) {
	m := nuevoMotor()
	m.agregarProducto("vacuna", entity.SeguimientoLote, false)
	ctx := context.Background()

	// Dos lotes a costo distinto dejan el promedio del producto en 15.
	c10, c20 := dec("10"), dec("20")
	_, err := m.movimientos.Entrada(ctx, "vacuna", 20, inventario.ContextoMovimiento{
		AlmacenID: almCentral, Motivo: "compra", Referencia: refCompra("c1"),
		NumeroLote: "L-barato", FechaCaducidad: fechaCad(30), CostoUnitario: &c10,
	})
	require.NoError(t, err)
	_, err = m.movimientos.Entrada(ctx, "vacuna", 20, inventario.ContextoMovimiento{
		AlmacenID: almCentral, Motivo: "compra", Referencia: refCompra("c2"),
		NumeroLote: "L-caro", FechaCaducidad: fechaCad(60), CostoUnitario: &c20,
	})
	require.NoError(t, err)

	res, err := m.traspasos.Transferir(ctx, inventario.TraspasoInput{
		OrigenID:  almCentral,
		DestinoID: almNorte,
		Items:     []inventario.TraspasoItem{{ProductoID: "vacuna", Cantidad: 10, NumeroLote: "L-barato"}},
	})
	require.NoError(t, err)

	// La salida del tramo lleva el costo del lote consumido, no el promedio.
	assert.True(t, res.Movimientos[0].CostoUnitario.Equal(dec("10")),
		"costo del movimiento esperado 10, obtenido %s", res.Movimientos[0].CostoUnitario)

	destino := m.lote("vacuna", almNorte, "L-barato")
	require.NotNil(t, destino)
	assert.True(t, destino.CostoUnitario.Equal(dec("10")),
		"el lote destino conserva el costo del lote origen, obtenido %s", destino.CostoUnitario)
}

func TestTransferir_Lote_FIFO_MueveVariosLotes(t *testing.T) {
	m := nuevoMotor()
	m.agregarProducto("vacuna", entity.SeguimientoLote, false)
	ctx := context.Background()
	_, err := m.movimientos.Entrada(ctx, "vacuna", 10, inventario.ContextoMovimiento{
		AlmacenID: almCentral, Motivo: "compra", NumeroLote: "L-proximo", FechaCaducidad: fechaCad(5),
	})
	require.NoError(t, err)
	_, err = m.movimientos.Entrada(ctx, "vacuna", 30, inventario.ContextoMovimiento{
		AlmacenID: almCentral, Motivo: "compra", NumeroLote: "L-lejano", FechaCaducidad: fechaCad(60),
	})
	require.NoError(t, err)

	// Sin NumeroLote: el origen drena por FIFO y el destino recibe ambos tramos.
	_, err = m.traspasos.Transferir(ctx, inventario.TraspasoInput{
		OrigenID:  almCentral,
		DestinoID: almNorte,
		Items:     []inventario.TraspasoItem{{ProductoID: "vacuna", Cantidad: 25}},
	})
	require.NoError(t, err)

	assert.EqualValues(t, 0, m.lote("vacuna", almCentral, "L-proximo").CantidadActual)
	assert.EqualValues(t, 15, m.lote("vacuna", almCentral, "L-lejano").CantidadActual)
	assert.EqualValues(t, 10, m.lote("vacuna", almNorte, "L-proximo").CantidadActual)
	assert.EqualValues(t, 15, m.lote("vacuna", almNorte, "L-lejano").CantidadActual)

	assert.EqualValues(t, 15, m.stock("vacuna", almCentral))
	assert.EqualValues(t, 25, m.stock("vacuna", almNorte))
	assert.EqualValues(t, 40, m.stockProducto("vacuna"))
}
