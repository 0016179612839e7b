package handlers

import (
	"errors"
	"net/http"

	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/services"
	"github.com/beerandbytes/sistema-gestion-clientes-windows/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ClienteHandler holds the client service.
type ClienteHandler struct {
	clienteService services.ClienteService
}

// NewClienteHandler creates a new ClienteHandler.
func NewClienteHandler(cs services.ClienteService) *ClienteHandler {
	return &ClienteHandler{clienteService: cs}
}

func respondClienteError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, services.ErrClienteNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Cliente not found.", err.Error()))
	case errors.Is(err, services.ErrValidacion),
		errors.Is(err, services.ErrFechaFormato),
		errors.Is(err, services.ErrFechasOrden),
		errors.Is(err, services.ErrEstadoInvalido):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
	default:
		utils.LogError(err, action)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to "+action+".", "Internal error"))
	}
}

func clienteIDParam(c *gin.Context) (int64, bool) {
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Invalid cliente ID format.", err.Error()))
		return 0, false
	}
	return id, true
}

// CreateCliente handles the creation of a new client.
func (h *ClienteHandler) CreateCliente(c *gin.Context) {
	var req services.CreateClienteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	cliente, err := h.clienteService.CreateCliente(req)
	if err != nil {
		respondClienteError(c, err, "create cliente")
		return
	}
	c.JSON(http.StatusCreated, cliente)
}

// GetClientes lists clients, optionally filtered by ?search=term.
func (h *ClienteHandler) GetClientes(c *gin.Context) {
	var searchTerm *string
	if term := c.Query("search"); term != "" {
		searchTerm = &term
	}

	clientes, err := h.clienteService.GetClientes(searchTerm)
	if err != nil {
		respondClienteError(c, err, "get clientes")
		return
	}
	c.JSON(http.StatusOK, clientes)
}

// GetClientesResumen lists clients as display rows with derived status fields.
func (h *ClienteHandler) GetClientesResumen(c *gin.Context) {
	var searchTerm *string
	if term := c.Query("search"); term != "" {
		searchTerm = &term
	}

	resumen, err := h.clienteService.GetClientesResumen(searchTerm)
	if err != nil {
		respondClienteError(c, err, "get clientes resumen")
		return
	}
	c.JSON(http.StatusOK, resumen)
}

// GetClienteByID retrieves a single client.
func (h *ClienteHandler) GetClienteByID(c *gin.Context) {
	id, ok := clienteIDParam(c)
	if !ok {
		return
	}

	cliente, err := h.clienteService.GetClienteByID(id)
	if err != nil {
		respondClienteError(c, err, "get cliente")
		return
	}
	c.JSON(http.StatusOK, cliente)
}

// UpdateCliente applies a partial update to a client.
func (h *ClienteHandler) UpdateCliente(c *gin.Context) {
	id, ok := clienteIDParam(c)
	if !ok {
		return
	}

	var req services.UpdateClienteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	cliente, err := h.clienteService.UpdateCliente(id, req)
	if err != nil {
		respondClienteError(c, err, "update cliente")
		return
	}
	c.JSON(http.StatusOK, cliente)
}

// DeleteCliente removes a client and its payment history.
func (h *ClienteHandler) DeleteCliente(c *gin.Context) {
	id, ok := clienteIDParam(c)
	if !ok {
		return
	}

	if err := h.clienteService.DeleteCliente(id); err != nil {
		respondClienteError(c, err, "delete cliente")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cliente deleted successfully"})
}

// RefreshActivos recomputes the cached active flags against today.
func (h *ClienteHandler) RefreshActivos(c *gin.Context) {
	updated, err := h.clienteService.RefreshActivos()
	if err != nil {
		respondClienteError(c, err, "refresh activos")
		return
	}
	c.JSON(http.StatusOK, gin.H{"clientes_actualizados": updated})
}

type batchEstadoRequest struct {
	IDs    []int64 `json:"ids" binding:"required"`
	Estado string  `json:"estado"`
}

// SetEstadoBatch applies a manual status override to a set of clients.
func (h *ClienteHandler) SetEstadoBatch(c *gin.Context) {
	var req batchEstadoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	if err := h.clienteService.SetEstadoBatch(req.IDs, req.Estado); err != nil {
		respondClienteError(c, err, "set estado batch")
		return
	}
	c.JSON(http.StatusOK, gin.H{"clientes_actualizados": len(req.IDs)})
}

type batchVencimientoRequest struct {
	IDs              []int64 `json:"ids" binding:"required"`
	FechaVencimiento string  `json:"fecha_vencimiento" binding:"required"`
}

// SetVencimientoBatch sets a new expiration date on a set of clients.
func (h *ClienteHandler) SetVencimientoBatch(c *gin.Context) {
	var req batchVencimientoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	if err := h.clienteService.SetVencimientoBatch(req.IDs, req.FechaVencimiento); err != nil {
		respondClienteError(c, err, "set vencimiento batch")
		return
	}
	c.JSON(http.StatusOK, gin.H{"clientes_actualizados": len(req.IDs)})
}
