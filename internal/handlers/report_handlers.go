package handlers

import (
	"net/http"
	"strconv"

	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/services"
	"github.com/beerandbytes/sistema-gestion-clientes-windows/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReportHandler holds the metrics and reminder services.
type ReportHandler struct {
	metricasService     services.MetricasService
	recordatorioService services.RecordatorioService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(ms services.MetricasService, rs services.RecordatorioService) *ReportHandler {
	return &ReportHandler{
		metricasService:     ms,
		recordatorioService: rs,
	}
}

// GetResumen returns the dashboard rollup: client counts and revenue figures.
func (h *ReportHandler) GetResumen(c *gin.Context) {
	resumen, err := h.metricasService.Resumen()
	if err != nil {
		utils.LogError(err, "GetResumen: Error from metricasService.Resumen")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build dashboard resumen.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, resumen)
}

// GetIngresosPorMes returns monthly revenue buckets, oldest first.
// ?meses=n controls the window, defaulting to 6.
func (h *ReportHandler) GetIngresosPorMes(c *gin.Context) {
	meses := 6
	if raw := c.Query("meses"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Query parameter 'meses' must be a positive integer.", raw))
			return
		}
		meses = parsed
	}

	ingresos, err := h.metricasService.IngresosPorUltimosMeses(meses)
	if err != nil {
		utils.LogError(err, "GetIngresosPorMes: Error from metricasService.IngresosPorUltimosMeses")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build ingresos report.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, ingresos)
}

// GetRecordatorios returns expired clients plus those expiring soon.
// ?dias=n controls the lookahead window, defaulting to 7.
func (h *ReportHandler) GetRecordatorios(c *gin.Context) {
	dias := services.DiasAvisoPorDefecto
	if raw := c.Query("dias"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Query parameter 'dias' must be a positive integer.", raw))
			return
		}
		dias = parsed
	}

	recordatorios, err := h.recordatorioService.Recordatorios(dias)
	if err != nil {
		utils.LogError(err, "GetRecordatorios: Error from recordatorioService.Recordatorios")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build recordatorios.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, recordatorios)
}
