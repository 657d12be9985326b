package handler

import (
	"net/http"
	"strconv"

	"pharmadesk/internal/middleware"
	"pharmadesk/internal/service"
	"pharmadesk/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/api/reports")
	{
		reports.GET("/sales", middleware.RequirePermission("reports.read"), h.SalesSummary)
		reports.GET("/collections", middleware.RequirePermission("reports.read"), h.CollectionsSummary)
	}
}

// SalesSummary aggregates finalized sale invoices over a date range
// @Summary      Sales summary
// @Description  Totals and top products over finalized sale invoices; defaults to the current month
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        start_date  query     string  false  "Start date (YYYY-MM-DD)"
// @Param        end_date    query     string  false  "End date (YYYY-MM-DD)"
// @Param        top         query     int     false  "Number of top products (default 10)"
// @Success      200         {object}  response.Response{data=model.SalesSummary}
// @Failure      400         {object}  response.Response
// @Router       /api/reports/sales [get]
func (h *ReportHandler) SalesSummary(c *gin.Context) {
	top, _ := strconv.Atoi(c.DefaultQuery("top", "10"))

	summary, err := h.reportService.SalesSummary(c.Request.Context(), c.Query("start_date"), c.Query("end_date"), top)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// CollectionsSummary aggregates payments over a date range
// @Summary      Collections summary
// @Description  Collections and settlements per mode; defaults to the current month
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        start_date  query     string  false  "Start date (YYYY-MM-DD)"
// @Param        end_date    query     string  false  "End date (YYYY-MM-DD)"
// @Success      200         {object}  response.Response{data=model.CollectionsSummary}
// @Failure      400         {object}  response.Response
// @Router       /api/reports/collections [get]
func (h *ReportHandler) CollectionsSummary(c *gin.Context) {
	summary, err := h.reportService.CollectionsSummary(c.Request.Context(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}
