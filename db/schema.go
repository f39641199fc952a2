// Package db holds the PostgreSQL schema backing the entity store.
package db

import _ "embed"

// Schema is idempotent DDL for a fresh database.
//
//go:embed schema.sql
var Schema string
