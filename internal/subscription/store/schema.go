package store

import _ "embed"

// Schema is the DDL for the two subscription tables. Email is intentionally
// not unique: repeat registrations produce fresh pending rows, each with its
// own token.
//
//go:embed schema.sql
var Schema string
