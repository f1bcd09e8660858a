// Package db embeds the back-office database schema so the server and the
// seeding tools can apply it without shipping separate migration files.
package db

import _ "embed"

// Schema contains the DDL for all back-office tables plus the fixed
// reference rows (order and payment statuses, default product attributes,
// the walk-in colleague). It is idempotent and safe to run on every start.
//
//go:embed migrations/001_schema.sql
var Schema string
