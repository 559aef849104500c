package sheets

import (
	"context"
	"strings"

	"envase-return-backend/config"
	"envase-return-backend/internal/model"
)

// Column positions within the socio sheet (range A3:F).
const (
	socioColCodigo = iota
	socioColNombre
	socioColMovil
	socioColDireccion
	socioColPoblacion
	socioColProvincia
)

// Column positions within the inventory sheet (range A3:F).
const (
	envaseColCodigo = iota
	envaseColNombre
	envaseColFamilia
	envaseColCaracteristicas
	envaseColAlmacen
	envaseColImagen
)

// Socios reads the socio list. Rows with an empty code column are
// discarded.
func (c *Client) Socios(ctx context.Context, cfg *config.SheetsConfig) []model.Socio {
	rows := c.FetchWithFallback(ctx, cfg.SocioSheets, cfg.SocioRange)

	socios := make([]model.Socio, 0, len(rows))
	for _, r := range rows {
		s := model.Socio{
			Codigo:    CellValue(r, socioColCodigo),
			Nombre:    CellValue(r, socioColNombre),
			Movil:     CellValue(r, socioColMovil),
			Direccion: CellValue(r, socioColDireccion),
			Poblacion: CellValue(r, socioColPoblacion),
			Provincia: CellValue(r, socioColProvincia),
		}
		if s.Codigo == "" {
			continue
		}
		socios = append(socios, s)
	}
	return socios
}

// Inventario reads the envase catalog. Rows missing either code or
// name are discarded; blank family and warehouse labels default to
// GENERAL, warehouse case-normalized.
func (c *Client) Inventario(ctx context.Context, cfg *config.SheetsConfig) []model.Envase {
	rows := c.FetchWithFallback(ctx, cfg.InventorySheets, cfg.InventoryRange)

	items := make([]model.Envase, 0, len(rows))
	for _, r := range rows {
		e := model.Envase{
			Codigo:          CellValue(r, envaseColCodigo),
			Nombre:          CellValue(r, envaseColNombre),
			Familia:         CellValue(r, envaseColFamilia),
			Caracteristicas: CellValue(r, envaseColCaracteristicas),
			Almacen:         CellValue(r, envaseColAlmacen),
			Imagen:          CellValue(r, envaseColImagen),
		}
		if e.Codigo == "" || e.Nombre == "" {
			continue
		}
		if e.Familia == "" {
			e.Familia = "GENERAL"
		}
		if e.Almacen == "" {
			e.Almacen = "GENERAL"
		} else {
			e.Almacen = strings.ToUpper(e.Almacen)
		}
		items = append(items, e)
	}
	return items
}

// Estado reads the service availability flag. The row whose first cell
// equals ESTADO (case-insensitive) supplies the value in the adjacent
// cell; CERRADO closes the service, anything else, including an absent
// row, leaves it open.
func (c *Client) Estado(ctx context.Context, cfg *config.SheetsConfig) model.AppStatus {
	rows := c.FetchWithFallback(ctx, cfg.StatusSheets, cfg.StatusRange)

	for _, r := range rows {
		if !strings.EqualFold(CellValue(r, 0), "ESTADO") {
			continue
		}
		if strings.EqualFold(CellValue(r, 1), string(model.StatusClosed)) {
			return model.StatusClosed
		}
		return model.StatusOpen
	}
	return model.StatusOpen
}
