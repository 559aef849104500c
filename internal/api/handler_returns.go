package api

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"envase-return-backend/internal/catalog"
	"envase-return-backend/internal/devolucion"
	"envase-return-backend/internal/model"
	"envase-return-backend/internal/receipt"
)

type submitRequest struct {
	Transportista      string `json:"transportista"`
	FirmaSocio         string `json:"firmaSocio"`
	FirmaTransportista string `json:"firmaTransportista"`
}

// PostReturns submits the current selection as a return transaction:
// the basket is expanded into one record per unit, registered with the
// remote endpoint, audited locally and documented as a signed PDF
// receipt. On transport failure the basket is left untouched so the
// socio can retry.
func (h *Handler) PostReturns(c *gin.Context) {
	sess := currentSession(c)
	socio := sess.Socio()
	if socio == nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "returns require a socio session"})
		return
	}

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req.Transportista = strings.TrimSpace(req.Transportista)
	if req.Transportista == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "transportista is required"})
		return
	}
	if !receipt.DecodableSignature(req.FirmaSocio) || !receipt.DecodableSignature(req.FirmaTransportista) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "both signatures are required"})
		return
	}

	selection := sess.Selection()
	if len(selection) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "selection is empty"})
		return
	}

	inventario := h.catalog.Inventario()
	now := time.Now()
	records := devolucion.BuildRecords(selection, inventario, *socio, req.Transportista, now)
	if len(records) == 0 {
		// Every selected code drifted out of the catalog since load.
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "selection no longer matches the catalog"})
		return
	}

	batch := batchFromRecords(records, *socio, req.Transportista)

	outcome, err := h.writer.Register(c.Request.Context(), records)
	if outcome == devolucion.OutcomeTransportFailed {
		log.Printf("Remote registration failed for socio %s: %v", socio.Codigo, err)
		batch.RemoteOutcome = model.OutcomeTransportFailed
		if saveErr := h.store.SaveBatch(c.Request.Context(), batch); saveErr != nil {
			log.Printf("Failed to audit failed batch %s: %v", batch.ID, saveErr)
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "error al registrar entrega",
			"outcome": outcome,
		})
		return
	}

	batch.RemoteOutcome = model.OutcomeSubmittedUnconfirmed
	if err := h.store.SaveBatch(c.Request.Context(), batch); err != nil {
		log.Printf("Failed to audit batch %s: %v", batch.ID, err)
	}

	// The registration already succeeded; from here on every failure
	// degrades the delivery, never the submission.
	resp := gin.H{
		"outcome": outcome,
		"batchId": batch.ID,
		"total":   batch.TotalUnidades,
	}
	if rcpt := h.generateReceipt(c, sess.Selection(), inventario, *socio, req, batch, now); rcpt != nil {
		resp["receipt"] = rcpt
	}

	visible := catalog.ResolveWarehouse(inventario, socio)
	sess.AfterSubmit(catalog.Families(visible))

	c.JSON(http.StatusOK, resp)
}

// batchFromRecords aggregates the per-unit records back into the audit
// batch.
func batchFromRecords(records []devolucion.Record, socio model.Socio, transportista string) *model.DevolucionBatch {
	batch := &model.DevolucionBatch{
		ID:            uuid.NewString(),
		SocioCodigo:   socio.Codigo,
		SocioNombre:   socio.Nombre,
		Transportista: transportista,
		TotalUnidades: len(records),
	}
	for _, r := range records {
		batch.Rows = append(batch.Rows, model.DevolucionRow{
			BatchID:      batch.ID,
			EnvaseCodigo: r.EnvaseCodigo,
			EnvaseNombre: r.EnvaseNombre,
			Almacen:      r.Almacen,
		})
	}
	return batch
}

// generateReceipt renders, stores and dispatches the PDF receipt.
// Returns nil when generation failed; the error is logged only.
func (h *Handler) generateReceipt(c *gin.Context, selection map[string]int, inventario []model.Envase, socio model.Socio, req submitRequest, batch *model.DevolucionBatch, now time.Time) gin.H {
	byCode := make(map[string]model.Envase, len(inventario))
	for _, item := range inventario {
		byCode[item.Codigo] = item
	}

	var items []receipt.LineItem
	for _, code := range sortedCodes(selection) {
		item, ok := byCode[code]
		if !ok {
			continue
		}
		items = append(items, receipt.LineItem{
			Codigo:      item.Codigo,
			Descripcion: item.Nombre,
			Cantidad:    selection[code],
		})
	}

	pdf, fileName, err := h.receipts.Generate(c.Request.Context(), &receipt.Input{
		Socio:              socio,
		Transportista:      req.Transportista,
		Items:              items,
		TotalUnidades:      batch.TotalUnidades,
		FirmaSocio:         req.FirmaSocio,
		FirmaTransportista: req.FirmaTransportista,
	}, now)
	if err != nil {
		log.Printf("Receipt generation failed for batch %s: %v", batch.ID, err)
		return nil
	}

	rcpt := &model.Receipt{
		ID:       uuid.NewString(),
		BatchID:  batch.ID,
		FileName: fileName,
		PDF:      pdf,
	}
	if err := h.store.SaveReceipt(c.Request.Context(), rcpt); err != nil {
		log.Printf("Failed to store receipt for batch %s: %v", batch.ID, err)
		return nil
	}

	// Share channel: push the download link to the socio's devices.
	// The pool logs and swallows delivery failures; direct download
	// stays available either way.
	if h.pool != nil {
		h.pool.Dispatch(batch.ID)
	}

	return gin.H{
		"id":       rcpt.ID,
		"fileName": fileName,
		"url":      "/api/receipts/" + rcpt.ID,
	}
}
