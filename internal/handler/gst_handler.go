package handler

import (
	"net/http"

	"pharmadesk/internal/middleware"
	"pharmadesk/internal/service"
	"pharmadesk/pkg/response"

	"github.com/gin-gonic/gin"
)

type GSTHandler struct {
	calcService service.GSTCalcService
}

func NewGSTHandler(calcService service.GSTCalcService) *GSTHandler {
	return &GSTHandler{calcService: calcService}
}

func (h *GSTHandler) RegisterRoutes(router *gin.RouterGroup) {
	gst := router.Group("/api/gst")
	{
		gst.POST("/calculate", middleware.RequirePermission("invoices.read"), h.Calculate)
	}
}

// Calculate runs the standalone GST calculator
// @Summary      Calculate GST breakup
// @Description  Computes CGST/SGST or IGST for an amount, tax-exclusive or tax-inclusive
// @Tags         gst
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.GSTCalcRequest  true  "Calculation Payload"
// @Success      200      {object}  response.Response{data=service.GSTCalcResponse}
// @Failure      400      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/gst/calculate [post]
func (h *GSTHandler) Calculate(c *gin.Context) {
	var req service.GSTCalcRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result := h.calcService.Calculate(req)
	if result == nil {
		c.JSON(http.StatusUnprocessableEntity, response.Error(http.StatusUnprocessableEntity, "not computable"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}
