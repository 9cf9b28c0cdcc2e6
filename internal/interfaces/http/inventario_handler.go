package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/abastio/inventario-api/internal/application/dto"
	"github.com/abastio/inventario-api/internal/application/inventario"
	"github.com/abastio/inventario-api/internal/application/usecase"
	"github.com/abastio/inventario-api/internal/domain/entity"
)

// InventarioHandler maneja entradas, salidas y consultas de inventario (protegido).
type InventarioHandler struct {
	movimientos    *inventario.MovimientoUseCase
	consultas      *usecase.ConsultaUseCase
	reconciliacion *inventario.ReconciliacionUseCase
}

// NewInventarioHandler construye el handler.
func NewInventarioHandler(
	movimientos *inventario.MovimientoUseCase,
	consultas *usecase.ConsultaUseCase,
	reconciliacion *inventario.ReconciliacionUseCase,
) *InventarioHandler {
	return &InventarioHandler{
		movimientos:    movimientos,
		consultas:      consultas,
		reconciliacion: reconciliacion,
	}
}

func contextoDesdeRequest(c *fiber.Ctx, in dto.RegistrarMovimientoRequest) inventario.ContextoMovimiento {
	cx := inventario.ContextoMovimiento{
		AlmacenID:      in.AlmacenID,
		Motivo:         in.Motivo,
		Seriales:       in.Seriales,
		NumeroLote:     in.NumeroLote,
		FechaCaducidad: in.FechaCaducidad,
		CostoUnitario:  in.CostoUnitario,
		EsVenta:        in.EsVenta,
		CreadoPor:      GetUserID(c),
	}
	if in.Referencia != nil {
		cx.Referencia = &entity.Referencia{Tipo: in.Referencia.Tipo, ID: in.Referencia.ID}
	}
	return cx
}

// Entrada godoc
// @Summary      Registrar entrada de inventario
// @Description  Incrementa stock en una bodega. Productos serializados requieren
//               un serial por unidad; productos por lote requieren numero_lote.
//               Un kit se expande en entradas de sus componentes.
// @Tags         inventario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegistrarMovimientoRequest  true  "producto_id, almacen_id, cantidad, motivo, referencia, seriales/lote, costo_unitario"
// @Success      201   {object}  dto.MovimientosResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventario/entradas [post]
func (h *InventarioHandler) Entrada(c *fiber.Ctx) error {
	var in dto.RegistrarMovimientoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.movimientos.Entrada(c.Context(), in.ProductoID, in.Cantidad, contextoDesdeRequest(c, in))
	if err != nil {
		return respondInventarioError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovimientosResponse(res.Movimientos))
}

// Salida godoc
// @Summary      Registrar salida de inventario
// @Description  Decrementa stock en una bodega. Rechaza con 409 si dejaría la
//               existencia negativa. Con es_venta=true las series salen como
//               vendidas; si no, como baja por ajuste.
// @Tags         inventario
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegistrarMovimientoRequest  true  "producto_id, almacen_id, cantidad, motivo, referencia, seriales/lote, es_venta"
// @Success      201   {object}  dto.MovimientosResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventario/salidas [post]
func (h *InventarioHandler) Salida(c *fiber.Ctx) error {
	var in dto.RegistrarMovimientoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.movimientos.Salida(c.Context(), in.ProductoID, in.Cantidad, contextoDesdeRequest(c, in))
	if err != nil {
		return respondInventarioError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovimientosResponse(res.Movimientos))
}

// Stock godoc
// @Summary      Consultar stock actual
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        producto_id  query  string  true   "ID del producto"
// @Param        almacen_id   query  string  false  "ID de la bodega (vacío = todas)"
// @Success      200  {array}   dto.StockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventario/stock [get]
func (h *InventarioHandler) Stock(c *fiber.Ctx) error {
	out, err := h.consultas.Stock(c.Query("producto_id"), c.Query("almacen_id"))
	if err != nil {
		return respondInventarioError(c, err)
	}
	return c.JSON(out)
}

// Movimientos godoc
// @Summary      Historial de movimientos
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        producto_id  query  string  false  "Filtrar por producto"
// @Param        almacen_id   query  string  false  "Filtrar por bodega"
// @Param        from         query  string  false  "Fecha inicial (RFC3339)"
// @Param        to           query  string  false  "Fecha final (RFC3339)"
// @Param        limit        query  int     false  "Límite"   default(50)
// @Param        offset       query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.MovimientosResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventario/movimientos [get]
func (h *InventarioHandler) Movimientos(c *fiber.Ctx) error {
	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido, usar RFC3339"})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido, usar RFC3339"})
	}
	limit, offset := pagination(c, 50)
	out, err := h.consultas.Movimientos(c.Query("producto_id"), c.Query("almacen_id"), from, to, limit, offset)
	if err != nil {
		return respondInventarioError(c, err)
	}
	return c.JSON(out)
}

// BajoMinimo godoc
// @Summary      Inventario bajo stock mínimo
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(50)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200  {array}  dto.StockResponse
// @Router       /api/inventario/bajo-minimo [get]
func (h *InventarioHandler) BajoMinimo(c *fiber.Ctx) error {
	limit, offset := pagination(c, 50)
	out, err := h.consultas.BajoMinimo(limit, offset)
	if err != nil {
		return respondInventarioError(c, err)
	}
	return c.JSON(out)
}

// LotesPorVencer godoc
// @Summary      Lotes próximos a vencer
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Param        dias    query  int  false  "Ventana en días"  default(30)
// @Param        limit   query  int  false  "Límite"   default(50)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200  {array}  dto.LoteResponse
// @Router       /api/inventario/lotes/por-vencer [get]
func (h *InventarioHandler) LotesPorVencer(c *fiber.Ctx) error {
	dias := c.QueryInt("dias", 30)
	if dias <= 0 {
		dias = 30
	}
	limit, offset := pagination(c, 50)
	out, err := h.consultas.LotesPorVencer(dias, limit, offset)
	if err != nil {
		return respondInventarioError(c, err)
	}
	return c.JSON(out)
}

// Reconciliacion godoc
// @Summary      Conciliación de inventario
// @Description  Compara el replay de movimientos, las series en stock, la suma
//               de lotes y el agregado por producto contra la tabla de
//               inventario. Solo reporta discrepancias, nunca corrige.
// @Tags         inventario
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/inventario/reconciliacion [get]
func (h *InventarioHandler) Reconciliacion(c *fiber.Ctx) error {
	discrepancias, err := h.reconciliacion.Verificar(c.Context())
	if err != nil {
		return respondInventarioError(c, err)
	}
	out := make([]dto.DiscrepanciaDTO, 0, len(discrepancias))
	for _, d := range discrepancias {
		out = append(out, dto.DiscrepanciaDTO{
			Regla:      d.Regla,
			ProductoID: d.ProductoID,
			AlmacenID:  d.AlmacenID,
			Esperado:   d.Esperado,
			Observado:  d.Observado,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "discrepancias": out})
}

func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	v := c.Query(key)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func pagination(c *fiber.Ctx, defLimit int) (int, int) {
	limit := c.QueryInt("limit", defLimit)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = defLimit
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
