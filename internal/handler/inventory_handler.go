package handler

import (
	"net/http"
	"strconv"

	"pharmadesk/internal/middleware"
	"pharmadesk/internal/service"
	"pharmadesk/pkg/pagination"
	"pharmadesk/pkg/response"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	inventoryService service.InventoryService
}

func NewInventoryHandler(inventoryService service.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

func (h *InventoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	products := router.Group("/api/products")
	{
		products.POST("", middleware.RequirePermission("products.write"), h.CreateProduct)
		products.GET("", middleware.RequirePermission("products.read"), h.ListProducts)
		products.GET("/:id", middleware.RequirePermission("products.read"), h.GetProduct)
		products.PUT("/:id", middleware.RequirePermission("products.write"), h.UpdateProduct)
		products.DELETE("/:id", middleware.RequirePermission("products.write"), h.DeleteProduct)

		products.POST("/:id/batches", middleware.RequirePermission("products.write"), h.CreateBatch)
		products.GET("/:id/batches", middleware.RequirePermission("products.read"), h.ListBatches)
		products.GET("/:id/batches/select", middleware.RequirePermission("products.read"), h.SelectBatches)
		products.GET("/:id/batches/quick-pick", middleware.RequirePermission("products.read"), h.QuickPickBatches)
	}

	batches := router.Group("/api/batches")
	{
		batches.PUT("/:id", middleware.RequirePermission("products.write"), h.UpdateBatch)
		batches.POST("/:id/adjust", middleware.RequirePermission("products.write"), h.AdjustStock)
	}

	alerts := router.Group("/api/inventory")
	{
		alerts.GET("/near-expiry", middleware.RequirePermission("products.read"), h.NearExpiry)
		alerts.GET("/low-stock", middleware.RequirePermission("products.read"), h.LowStock)
	}
}

// CreateProduct adds a catalog item
// @Summary      Create product
// @Tags         products
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateProductRequest  true  "Create Product Payload"
// @Success      201      {object}  response.Response{data=model.Product}
// @Failure      400      {object}  response.Response
// @Router       /api/products [post]
func (h *InventoryHandler) CreateProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	product, err := h.inventoryService.CreateProduct(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, product))
}

// ListProducts returns a paginated catalog listing
// @Summary      List products
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        search  query     string  false  "Search by name, SKU, or manufacturer"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Failure      500     {object}  response.Response
// @Router       /api/products [get]
func (h *InventoryHandler) ListProducts(c *gin.Context) {
	params := pagination.Parse(c)

	products, total, err := h.inventoryService.ListProducts(c.Request.Context(), params.Page, params.Limit, c.Query("search"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"products": products,
		"total":    total,
		"page":     params.Page,
		"limit":    params.Limit,
	}))
}

// GetProduct returns one product
// @Summary      Get product
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response{data=model.Product}
// @Failure      404  {object}  response.Response
// @Router       /api/products/{id} [get]
func (h *InventoryHandler) GetProduct(c *gin.Context) {
	product, err := h.inventoryService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// UpdateProduct updates a catalog item
// @Summary      Update product
// @Tags         products
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Product ID"
// @Param        payload  body      service.UpdateProductRequest  true  "Update Product Payload"
// @Success      200      {object}  response.Response{data=model.Product}
// @Failure      400      {object}  response.Response
// @Router       /api/products/{id} [put]
func (h *InventoryHandler) UpdateProduct(c *gin.Context) {
	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	product, err := h.inventoryService.UpdateProduct(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, product))
}

// DeleteProduct soft-deletes a catalog item
// @Summary      Delete product
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/products/{id} [delete]
func (h *InventoryHandler) DeleteProduct(c *gin.Context) {
	if err := h.inventoryService.DeleteProduct(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Product deleted"}))
}

// CreateBatch adds an inventory lot to a product
// @Summary      Create batch
// @Tags         products
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Product ID"
// @Param        payload  body      service.CreateBatchRequest  true  "Create Batch Payload"
// @Success      201      {object}  response.Response{data=model.ProductBatch}
// @Failure      400      {object}  response.Response
// @Router       /api/products/{id}/batches [post]
func (h *InventoryHandler) CreateBatch(c *gin.Context) {
	var req service.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	batch, err := h.inventoryService.CreateBatch(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, batch))
}

// ListBatches returns all lots of a product in creation order
// @Summary      List batches
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response{data=[]service.BatchResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/products/{id}/batches [get]
func (h *InventoryHandler) ListBatches(c *gin.Context) {
	batches, err := h.inventoryService.ListBatches(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, batches))
}

// SelectBatches ranks a product's lots under a selection policy
// @Summary      Select batches
// @Description  Filters and orders a product's batches by the given policy; may return a synthetic DEFAULT batch when nothing qualifies and fallback is enabled
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        id              path      string  true   "Product ID"
// @Param        sort_by         query     string  false  "Sort key: expiry, quantity, manufacturing (default expiry)"
// @Param        sort_order      query     string  false  "Sort order: asc, desc (default asc)"
// @Param        filter_expired  query     bool    false  "Drop expired batches"
// @Param        min_quantity    query     int     false  "Minimum available quantity"
// @Param        fallback        query     bool    false  "Return a synthetic DEFAULT batch when nothing qualifies"
// @Success      200             {object}  response.Response{data=[]service.BatchResponse}
// @Failure      400             {object}  response.Response
// @Router       /api/products/{id}/batches/select [get]
func (h *InventoryHandler) SelectBatches(c *gin.Context) {
	var req service.BatchSelectionRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid query parameters: "+err.Error()))
		return
	}

	batches, err := h.inventoryService.SelectBatches(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, batches))
}

// QuickPickBatches returns the quick-add batch ranking
// @Summary      Quick-pick batches
// @Description  Fixed policy used by the quick-add flow: in-stock lots, latest expiry first, synthetic fallback
// @Tags         products
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  response.Response{data=[]service.BatchResponse}
// @Failure      400  {object}  response.Response
// @Router       /api/products/{id}/batches/quick-pick [get]
func (h *InventoryHandler) QuickPickBatches(c *gin.Context) {
	batches, err := h.inventoryService.QuickPickBatches(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, batches))
}

// UpdateBatch edits a lot's dates and prices
// @Summary      Update batch
// @Tags         batches
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Batch ID"
// @Param        payload  body      service.UpdateBatchRequest  true  "Update Batch Payload"
// @Success      200      {object}  response.Response{data=model.ProductBatch}
// @Failure      400      {object}  response.Response
// @Router       /api/batches/{id} [put]
func (h *InventoryHandler) UpdateBatch(c *gin.Context) {
	var req service.UpdateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	batch, err := h.inventoryService.UpdateBatch(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, batch))
}

// AdjustStock applies a manual stock correction to a lot
// @Summary      Adjust stock
// @Description  Applies a signed quantity delta to a batch with a mandatory reason; the adjustment is audit-logged
// @Tags         batches
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Batch ID"
// @Param        payload  body      service.AdjustStockRequest  true  "Adjustment Payload"
// @Success      200      {object}  response.Response{data=model.ProductBatch}
// @Failure      400      {object}  response.Response
// @Router       /api/batches/{id}/adjust [post]
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
	var req service.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	batch, err := h.inventoryService.AdjustStock(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, batch))
}

// NearExpiry lists batches expiring within a horizon
// @Summary      Near-expiry report
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        days   query     int  false  "Horizon in days (default 90)"
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /api/inventory/near-expiry [get]
func (h *InventoryHandler) NearExpiry(c *gin.Context) {
	params := pagination.Parse(c)
	days, _ := strconv.Atoi(c.DefaultQuery("days", "90"))

	batches, total, err := h.inventoryService.NearExpiry(c.Request.Context(), days, params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"batches": batches,
		"total":   total,
		"page":    params.Page,
		"limit":   params.Limit,
	}))
}

// LowStock lists products at or below their reorder threshold
// @Summary      Low-stock report
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.LowStockProduct}
// @Failure      500  {object}  response.Response
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *gin.Context) {
	products, err := h.inventoryService.LowStock(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, products))
}
