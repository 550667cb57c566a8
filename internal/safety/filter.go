package safety

import "strings"

// unsafeMarkers es la lista fija de frases que denotan pedidos de consejo
// médico personal. Es un filtro conservador de bajo recall: ampliarla cambia
// el comportamiento del producto, no lo hagas sin revisión.
var unsafeMarkers = []string{
	"dose for me",
	"emergency",
	"diagnose me",
	"my symptoms",
	"should i take",
	"prescription",
}

// IsUnsafe reporta si la consulta pide consejo médico personal. Match por
// substring sobre la consulta en minúsculas, sin stemming ni negaciones.
func IsUnsafe(query string) bool {
	lowered := strings.ToLower(query)
	for _, marker := range unsafeMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}
