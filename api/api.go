// Package api embeds the OpenAPI document of the dispatch HTTP API.
package api

import _ "embed"

//go:embed openapi.yaml
var OpenAPI []byte
