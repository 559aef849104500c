package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"envase-return-backend/internal/catalog"
	"envase-return-backend/internal/model"
	"envase-return-backend/internal/session"
)

// catalogItem is an envase with its resolved image URLs and the
// session's selected quantity. ImagenFallbackURL is the one alternative
// to try when the thumbnail fails to render.
type catalogItem struct {
	model.Envase
	ImagenURL         string `json:"imagenURL"`
	ImagenFallbackURL string `json:"imagenFallbackURL,omitempty"`
	Cantidad          int    `json:"cantidad"`
}

func (h *Handler) catalogItems(sess *session.Session, items []model.Envase) []catalogItem {
	out := make([]catalogItem, len(items))
	for i, item := range items {
		url := catalog.ThumbnailURL(item.Imagen)
		fallback, _ := catalog.FallbackURL(url)
		out[i] = catalogItem{
			Envase:            item,
			ImagenURL:         url,
			ImagenFallbackURL: fallback,
			Cantidad:          sess.Quantity(item.Codigo),
		}
	}
	return out
}

// GetCatalog returns the socio's visible catalog: the warehouse-scoped
// item list grouped into family tabs, plus the items of the active tab
// (or of the synthetic review bucket while review mode is on).
func (h *Handler) GetCatalog(c *gin.Context) {
	sess := currentSession(c)
	socio := sess.Socio()
	if socio == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "catalog requires a socio session"})
		return
	}

	inventario := h.catalog.Inventario()
	visible := catalog.ResolveWarehouse(inventario, socio)
	families := catalog.Families(visible)
	active := sess.SyncFamilies(families)

	var items []model.Envase
	if sess.InReview() {
		// The review bucket is computed against the unfiltered
		// inventory so selected items survive a zone change.
		selection := sess.Selection()
		for _, item := range inventario {
			if selection[item.Codigo] > 0 {
				items = append(items, item)
			}
		}
	} else {
		items = catalog.ItemsForFamily(visible, active)
	}

	c.JSON(http.StatusOK, gin.H{
		"families":     families,
		"activeFamily": active,
		"review":       sess.InReview(),
		"items":        h.catalogItems(sess, items),
		"total":        sess.Total(),
	})
}

type selectFamilyRequest struct {
	Familia string `json:"familia" binding:"required"`
}

// PostSelectFamily activates a family tab.
func (h *Handler) PostSelectFamily(c *gin.Context) {
	sess := currentSession(c)

	var req selectFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	visible := catalog.ResolveWarehouse(h.catalog.Inventario(), sess.Socio())
	families := catalog.Families(visible)
	for _, f := range families {
		if f == req.Familia {
			sess.SelectFamily(f)
			c.JSON(http.StatusOK, gin.H{"activeFamily": f, "review": false})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "familia \"" + req.Familia + "\" no disponible"})
}

// PostToggleReview flips review mode.
func (h *Handler) PostToggleReview(c *gin.Context) {
	sess := currentSession(c)
	c.JSON(http.StatusOK, gin.H{"review": sess.ToggleReview()})
}
