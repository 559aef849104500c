package receipt

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"strings"

	"envase-return-backend/internal/model"
)

//go:embed templates/receipt.html
var templateFS embed.FS

var receiptTmpl = template.Must(template.ParseFS(templateFS, "templates/receipt.html"))

// descripcionMax bounds line-item descriptions so long catalog names
// cannot break the table layout.
const descripcionMax = 60

// LineItem is one row of the receipt's tabular section.
type LineItem struct {
	Codigo      string
	Descripcion string
	Cantidad    int
}

// Data carries everything the receipt layout needs.
type Data struct {
	Title              string
	GeneratedAt        string
	Socio              model.Socio
	Transportista      string
	Items              []LineItem
	TotalUnidades      int
	FirmaSocio         template.URL
	FirmaTransportista template.URL
}

// TruncateDescription shortens a description to the layout bound.
func TruncateDescription(s string) string {
	runes := []rune(s)
	if len(runes) <= descripcionMax {
		return s
	}
	return string(runes[:descripcionMax-1]) + "…"
}

// SignatureDataURL wraps a raw base64 PNG payload as an embeddable
// data URL. Payloads that are already data URLs pass through; empty
// input yields an empty URL so the template skips the image.
func SignatureDataURL(raw string) template.URL {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "data:") {
		return template.URL(raw)
	}
	return template.URL("data:image/png;base64," + raw)
}

// DecodableSignature reports whether a signature payload carries an
// actual image. Submission eligibility treats empty signatures as
// missing.
func DecodableSignature(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	if i := strings.Index(raw, ","); strings.HasPrefix(raw, "data:") && i >= 0 {
		raw = raw[i+1:]
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	return err == nil && len(decoded) > 0
}

// RenderHTML fills the receipt template.
func RenderHTML(d *Data) (string, error) {
	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("failed to execute receipt template: %w", err)
	}
	return buf.String(), nil
}
