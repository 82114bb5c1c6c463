package db

import "gorm.io/gorm"

// EnsureSchema creates the named Postgres schema if it does not exist
// yet. Each feature package owns one schema (app_auth, standards,
// samples) and calls this from its Init.
func EnsureSchema(d *gorm.DB, schema string) error {
	return d.Exec(`CREATE SCHEMA IF NOT EXISTS "` + schema + `"`).Error
}
