// Package devolucion builds and registers return transactions.
package devolucion

import (
	"sort"
	"time"

	"envase-return-backend/internal/model"
)

// timestampLayout matches the row format the registration sheet expects.
const timestampLayout = "02/01/2006 15:04:05"

// Record is one remote row representing a single returned unit. The
// registration store is append-only and row-oriented, so quantities
// are expanded into repeated records rather than aggregated.
type Record struct {
	Timestamp     string `json:"timestamp"`
	SocioNombre   string `json:"socio"`
	SocioCodigo   string `json:"codigoSocio"`
	EnvaseNombre  string `json:"envase"`
	EnvaseCodigo  string `json:"codigoEnvase"`
	Almacen       string `json:"almacen"`
	Transportista string `json:"transportista"`
}

// BuildRecords expands a selection (envase code -> quantity) into one
// Record per unit. Entries with non-positive quantity are ignored, and
// entries whose code no longer exists in the catalog are skipped
// silently: the catalog may have drifted since it was loaded, which is
// not an error. All records of a build share one timestamp.
func BuildRecords(selection map[string]int, inventario []model.Envase, socio model.Socio, transportista string, now time.Time) []Record {
	byCode := make(map[string]model.Envase, len(inventario))
	for _, item := range inventario {
		byCode[item.Codigo] = item
	}

	codes := make([]string, 0, len(selection))
	for code := range selection {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	stamp := now.Format(timestampLayout)

	var records []Record
	for _, code := range codes {
		qty := selection[code]
		if qty <= 0 {
			continue
		}
		item, ok := byCode[code]
		if !ok {
			continue
		}
		for i := 0; i < qty; i++ {
			records = append(records, Record{
				Timestamp:     stamp,
				SocioNombre:   socio.Nombre,
				SocioCodigo:   socio.Codigo,
				EnvaseNombre:  item.Nombre,
				EnvaseCodigo:  item.Codigo,
				Almacen:       item.Almacen,
				Transportista: transportista,
			})
		}
	}
	return records
}
