// Package repository declares the submission store. The Postgres
// implementation lives in the postgres subpackage.
package repository
