// Package postgres implements the store interfaces on PostgreSQL through
// database/sql and the pgx driver, and owns the embedded goose migrations
// that create the schema those stores expect.
package postgres
