// Package db provides embedded database schema and migration files.
package db

import _ "embed"

// Schema contains the DDL statements for all application tables.
//
//go:embed migrations/001_schema.sql
var Schema string

// MenuSeed is the default catalog as JSON.
//
//go:embed seed/menu.json
var MenuSeed []byte
