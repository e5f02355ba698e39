// Package postgres implements the storage interfaces on PostgreSQL.
//
// Paper and answer records live in plain relational tables; chunk vectors
// live in a pgvector-backed table created on first use. All repositories
// share one pgxpool and ensure their own schema at construction time.
// Values are always written by column name — the notes payload is JSONB
// keyed by field name, so a column reordering cannot silently corrupt data.
package postgres
