// Package postgres provides PostgreSQL implementations of the store
// interfaces. Users are stored with their session list as a JSONB array so
// that session changes are single-row atomic updates. The schema is managed
// by embedded goose migrations.
package postgres
