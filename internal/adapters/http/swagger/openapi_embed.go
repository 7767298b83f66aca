package swagger

import _ "embed"

// OpenAPI contains the embedded OpenAPI YAML specification. Its default
// server is /api; Register rewrites it to the configured prefix.
//
//go:embed openapi.yaml
var OpenAPI []byte
