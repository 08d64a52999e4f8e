package db

import _ "embed"

// Schema is the full DDL for a fresh database. Applied by deployment tooling
// and by integration tests against throwaway containers.
//
//go:embed schema.sql
var Schema string
