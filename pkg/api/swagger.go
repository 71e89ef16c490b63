// Package api provides API utilities and the embedded OpenAPI specification.
package api

import (
	_ "embed"
	"encoding/json"
	"net/http"

	"gopkg.in/yaml.v3"
)

//go:embed swagger.yaml
var swaggerYAML []byte

// GetSwaggerSpec returns the embedded swagger specification as bytes
func GetSwaggerSpec() []byte {
	return swaggerYAML
}

// GetSwaggerSpecAsJSON returns the swagger specification converted to JSON
func GetSwaggerSpecAsJSON() ([]byte, error) {
	var spec interface{}
	if err := yaml.Unmarshal(swaggerYAML, &spec); err != nil {
		return nil, err
	}
	return json.Marshal(spec)
}

// SwaggerHandler returns an HTTP handler that serves the swagger specification
func SwaggerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") == "application/json" {
			jsonSpec, err := GetSwaggerSpecAsJSON()
			if err != nil {
				http.Error(w, "Failed to convert swagger spec to JSON", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write(jsonSpec)
			return
		}

		w.Header().Set("Content-Type", "application/yaml")
		w.Write(swaggerYAML)
	}
}
