package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetReceipt serves a generated receipt PDF for direct download under
// its synthesized file name.
func (h *Handler) GetReceipt(c *gin.Context) {
	receipt, err := h.store.GetReceipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "receipt not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", receipt.FileName))
	c.Data(http.StatusOK, "application/pdf", receipt.PDF)
}
