package model

// Envase is a catalog entry for a returnable container type. Familia
// and Almacen default to GENERAL when the source cell is blank.
type Envase struct {
	Codigo          string `json:"codigo"`
	Nombre          string `json:"nombre"`
	Familia         string `json:"familia"`
	Caracteristicas string `json:"caracteristicas"`
	Almacen         string `json:"almacen"`
	Imagen          string `json:"imagen"`
}
