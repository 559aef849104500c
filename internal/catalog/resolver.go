package catalog

import (
	"strings"

	"envase-return-backend/internal/model"
)

// ResolveWarehouse computes the catalog subset visible to a socio.
//
// The inventory is stably partitioned: items whose warehouse label
// exactly matches the socio's zone come first, followed by GENERAL or
// unlabelled items, original order preserved within each group. When
// the combined result is empty the whole inventory is returned; a
// socio whose zone has no dedicated stock sees everything rather than
// nothing.
func ResolveWarehouse(inventario []model.Envase, socio *model.Socio) []model.Envase {
	zone := ""
	if socio != nil {
		zone = strings.ToUpper(strings.TrimSpace(socio.Poblacion))
	}

	var exact, general []model.Envase
	for _, item := range inventario {
		label := strings.ToUpper(strings.TrimSpace(item.Almacen))
		switch {
		case label == zone:
			exact = append(exact, item)
		case label == "GENERAL" || label == "":
			general = append(general, item)
		}
	}

	combined := append(exact, general...)
	if len(combined) == 0 {
		return inventario
	}
	return combined
}
