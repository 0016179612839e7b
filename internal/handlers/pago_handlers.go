package handlers

import (
	"errors"
	"net/http"

	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/services"
	"github.com/beerandbytes/sistema-gestion-clientes-windows/pkg/utils"

	"github.com/gin-gonic/gin"
)

// PagoHandler holds the payment service.
type PagoHandler struct {
	pagoService services.PagoService
}

// NewPagoHandler creates a new PagoHandler.
func NewPagoHandler(ps services.PagoService) *PagoHandler {
	return &PagoHandler{pagoService: ps}
}

// RegistrarPago records a payment and renews the client's membership.
func (h *PagoHandler) RegistrarPago(c *gin.Context) {
	var req services.RegistrarPagoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	pago, err := h.pagoService.RegistrarPago(req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrClienteNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Cliente not found.", err.Error()))
		case errors.Is(err, services.ErrCantidadInvalida), errors.Is(err, services.ErrFechaFormato):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
		default:
			utils.LogError(err, "RegistrarPago: Error from pagoService.RegistrarPago")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to register pago.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, pago)
}

// GetPagos lists every recorded payment, newest first.
func (h *PagoHandler) GetPagos(c *gin.Context) {
	pagos, err := h.pagoService.GetPagos()
	if err != nil {
		utils.LogError(err, "GetPagos: Error from pagoService.GetPagos")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to get pagos.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, pagos)
}

// GetPagosByCliente lists the payment history of one client.
func (h *PagoHandler) GetPagosByCliente(c *gin.Context) {
	clienteID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid cliente ID format.", err.Error()))
		return
	}

	pagos, err := h.pagoService.GetPagosByCliente(clienteID)
	if err != nil {
		if errors.Is(err, services.ErrClienteNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Cliente not found.", err.Error()))
			return
		}
		utils.LogError(err, "GetPagosByCliente: Error from pagoService.GetPagosByCliente")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to get pagos of cliente.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, pagos)
}
