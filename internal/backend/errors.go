package backend

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TransportError indica que la llamada de red nunca se completó (DNS,
// conexión rechazada, timeout).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend unreachable: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError indica que el backend respondió con un status no exitoso.
// Conserva el status y el cuerpo crudo para diagnóstico.
type ProtocolError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("API %d: %s", e.StatusCode, e.Body)
}

// Detail extrae el mensaje de error en tres niveles: campo detail del JSON,
// luego el cuerpo crudo, luego la línea de status HTTP.
func (e *ProtocolError) Detail() string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal([]byte(e.Body), &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	if strings.TrimSpace(e.Body) != "" {
		return e.Body
	}
	return e.Status
}
