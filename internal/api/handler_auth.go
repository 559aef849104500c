package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"envase-return-backend/internal/session"
)

type loginRequest struct {
	Codigo string `json:"codigo" binding:"required"`
}

// PostLogin resolves a socio or admin code to a new session.
func (h *Handler) PostLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.catalog.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "catalog not loaded",
			"view":  session.ViewMaintenance,
		})
		return
	}

	sess, err := h.sessions.Login(req.Codigo, h.catalog.FindSocio, h.catalog.Estado())
	if err != nil {
		if errors.Is(err, session.ErrSocioNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "socio \"" + req.Codigo + "\" no encontrado"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{
		"token": sess.Token,
		"view":  sess.View(),
	}
	if socio := sess.Socio(); socio != nil {
		resp["socio"] = socio
	}
	c.JSON(http.StatusOK, resp)
}

// PostLogout discards the session.
func (h *Handler) PostLogout(c *gin.Context) {
	sess := currentSession(c)
	h.sessions.Logout(sess.Token)
	c.Status(http.StatusNoContent)
}

// GetSession reports the session's current view state and totals.
func (h *Handler) GetSession(c *gin.Context) {
	sess := currentSession(c)

	resp := gin.H{
		"view":         sess.View(),
		"review":       sess.InReview(),
		"activeFamily": sess.ActiveFamily(),
		"total":        sess.Total(),
	}
	if socio := sess.Socio(); socio != nil {
		resp["socio"] = socio
	}
	c.JSON(http.StatusOK, resp)
}
