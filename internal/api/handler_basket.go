package api

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"envase-return-backend/internal/basket"
	"envase-return-backend/internal/catalog"
)

func sortedCodes(selection map[string]int) []string {
	codes := make([]string, 0, len(selection))
	for code := range selection {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

type setQuantityRequest struct {
	Value string `json:"value"`
}

// PutQuantity stores a raw quantity input for an envase. Malformed
// input degrades to 0 and is never an error; clamping is reported
// through the warning field.
func (h *Handler) PutQuantity(c *gin.Context) {
	sess := currentSession(c)

	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	qty, warning := sess.SetQuantity(c.Param("code"), req.Value)
	c.JSON(http.StatusOK, gin.H{
		"cantidad": qty,
		"warning":  warning,
		"total":    sess.Total(),
	})
}

// PostIncrement bumps an envase quantity by one, saturating at the
// ceiling.
func (h *Handler) PostIncrement(c *gin.Context) {
	sess := currentSession(c)
	qty := sess.Increment(c.Param("code"))

	warning := basket.WarnNone
	if qty > basket.WarnThreshold {
		warning = basket.WarnApproaching
	}
	c.JSON(http.StatusOK, gin.H{"cantidad": qty, "warning": warning, "total": sess.Total()})
}

// PostDecrement lowers an envase quantity by one, flooring at zero.
func (h *Handler) PostDecrement(c *gin.Context) {
	sess := currentSession(c)
	qty := sess.Decrement(c.Param("code"))
	c.JSON(http.StatusOK, gin.H{"cantidad": qty, "total": sess.Total()})
}

// DeleteBasketItem removes an envase from the selection. Deleting a
// missing code succeeds; the operation is idempotent.
func (h *Handler) DeleteBasketItem(c *gin.Context) {
	sess := currentSession(c)
	sess.Remove(c.Param("code"))
	c.JSON(http.StatusOK, gin.H{"total": sess.Total()})
}

// DeleteBasket clears the whole selection. The confirm query flag is
// the explicit confirmation step; without it nothing is cleared.
func (h *Handler) DeleteBasket(c *gin.Context) {
	sess := currentSession(c)

	confirmed := c.Query("confirm") == "true"
	visible := catalog.ResolveWarehouse(h.catalog.Inventario(), sess.Socio())
	cleared := sess.ClearAll(confirmed, catalog.Families(visible))

	if !confirmed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "confirmation required", "cleared": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": cleared, "total": sess.Total()})
}

// GetBasket returns the review projection with resolved item names.
func (h *Handler) GetBasket(c *gin.Context) {
	sess := currentSession(c)

	selection := sess.Selection()
	byCode := make(map[string]string, len(selection))
	for _, item := range h.catalog.Inventario() {
		byCode[item.Codigo] = item.Nombre
	}

	type entry struct {
		Codigo   string `json:"codigo"`
		Nombre   string `json:"nombre"`
		Cantidad int    `json:"cantidad"`
	}
	entries := make([]entry, 0, len(selection))
	for _, code := range sortedCodes(selection) {
		entries = append(entries, entry{
			Codigo:   code,
			Nombre:   byCode[code],
			Cantidad: selection[code],
		})
	}

	c.JSON(http.StatusOK, gin.H{"items": entries, "total": sess.Total()})
}
