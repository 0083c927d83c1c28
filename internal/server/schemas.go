// The schemas endpoint publishes JSON Schemas for every response type, so
// API consumers can validate payloads without reading Go source.

package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/lbassi/jsondb/internal/server/dto"
)

// schemaTypes are the response types exposed by the schemas endpoint.
var schemaTypes = map[string]reflect.Type{
	"ErrorResponse":    reflect.TypeFor[dto.ErrorResponse](),
	"HealthResponse":   reflect.TypeFor[dto.HealthResponse](),
	"TablesResponse":   reflect.TypeFor[dto.TablesResponse](),
	"TableResponse":    reflect.TypeFor[dto.TableResponse](),
	"DocumentResponse": reflect.TypeFor[dto.DocumentResponse](),
	"BrowseResponse":   reflect.TypeFor[dto.BrowseResponse](),
}

// Schemas reflects the response types into JSON Schemas.
func (s *Server) Schemas(_ *http.Request) (*dto.SchemasResponse, error) {
	// Inline properties, no $ref indirection.
	r := jsonschema.Reflector{Anonymous: true, DoNotReference: true}
	out := &dto.SchemasResponse{Schemas: make(map[string]json.RawMessage, len(schemaTypes))}
	for name, t := range schemaTypes {
		schema := r.ReflectFromType(t)
		raw, err := json.Marshal(schema)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal schema for %s: %w", name, err)
		}
		out.Schemas[name] = raw
	}
	return out, nil
}
