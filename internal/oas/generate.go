// Package oas contains the HTTP server generated from api/openapi.yaml.
package oas

//go:generate go run github.com/ogen-go/ogen/cmd/ogen --target . --package oas --config .ogen.yml --clean ../../api/openapi.yaml
