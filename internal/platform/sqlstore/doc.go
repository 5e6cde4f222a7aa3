// Package sqlstore implements the persistence interfaces of internal/store on
// database/sql. The same queries run against PostgreSQL (pgx stdlib driver)
// and SQLite (modernc.org/sqlite); only the migrations differ per dialect.
//
// The questions table belongs to the content domain and is read-only here.
// Review state is joined onto it so that an unknown question is reported as
// not found while a known question that was never reviewed yields a default
// state.
package sqlstore
