package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/beerandbytes/sistema-gestion-clientes-windows/internal/services"
	"github.com/beerandbytes/sistema-gestion-clientes-windows/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ImportHandler holds the import service.
type ImportHandler struct {
	importService services.ImportService
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(is services.ImportService) *ImportHandler {
	return &ImportHandler{importService: is}
}

// ImportarClientes receives a multipart ODS upload under the "file" field and
// imports its rows. The optional "limpiar" form field, when "true", wipes all
// clients and payments before importing.
func (h *ImportHandler) ImportarClientes(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Missing 'file' upload field.", err.Error()))
		return
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".ods") {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Only .ods files are supported.", fileHeader.Filename))
		return
	}

	limpiar := strings.EqualFold(c.PostForm("limpiar"), "true")

	tmp, err := os.CreateTemp("", "import-*.ods")
	if err != nil {
		utils.LogError(err, "ImportarClientes: Failed to create temp file")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to stage upload.", "Internal error"))
		return
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := c.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		utils.LogError(err, "ImportarClientes: Failed to save upload")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to stage upload.", "Internal error"))
		return
	}

	result := h.importService.ImportarDesdeODS(tmpPath, limpiar)
	c.JSON(http.StatusOK, result)
}
