// Package receipt renders a submitted return as a signed, paginated
// PDF document and synthesizes its download file name.
package receipt

import (
	"context"
	"fmt"
	"time"

	"envase-return-backend/internal/model"
)

// Generator produces receipt documents from submission data.
type Generator struct {
	renderer PDFRenderer
}

// NewGenerator wraps a PDF renderer.
func NewGenerator(renderer PDFRenderer) *Generator {
	return &Generator{renderer: renderer}
}

// Input carries one submission's receipt contents.
type Input struct {
	Socio              model.Socio
	Transportista      string
	Items              []LineItem
	TotalUnidades      int
	FirmaSocio         string // base64 PNG or data URL
	FirmaTransportista string
}

// Generate renders the PDF and returns it together with its
// synthesized file name. The layout is deterministic for a given input
// and timestamp.
func (g *Generator) Generate(ctx context.Context, in *Input, now time.Time) ([]byte, string, error) {
	items := make([]LineItem, len(in.Items))
	for i, item := range in.Items {
		items[i] = LineItem{
			Codigo:      item.Codigo,
			Descripcion: TruncateDescription(item.Descripcion),
			Cantidad:    item.Cantidad,
		}
	}

	html, err := RenderHTML(&Data{
		Title:              "Albarán de devolución de envases",
		GeneratedAt:        now.Format("02/01/2006 15:04"),
		Socio:              in.Socio,
		Transportista:      in.Transportista,
		Items:              items,
		TotalUnidades:      in.TotalUnidades,
		FirmaSocio:         SignatureDataURL(in.FirmaSocio),
		FirmaTransportista: SignatureDataURL(in.FirmaTransportista),
	})
	if err != nil {
		return nil, "", err
	}

	pdf, err := g.renderer.Render(ctx, html)
	if err != nil {
		return nil, "", fmt.Errorf("failed to render receipt: %w", err)
	}

	return pdf, FileName(now, in.Socio.Codigo, in.Socio.Nombre), nil
}
