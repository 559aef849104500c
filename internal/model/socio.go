package model

// Socio is an authorized field agent, identified by a short code and
// tied to a warehouse zone through its Poblacion label.
type Socio struct {
	Codigo    string `json:"codigo"`
	Nombre    string `json:"nombre"`
	Movil     string `json:"movil"`
	Direccion string `json:"direccion"`
	Poblacion string `json:"poblacion"`
	Provincia string `json:"provincia"`
}
