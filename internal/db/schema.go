package db

import "gorm.io/gorm"

// EnsureSchema creates schema and the uuid extension used for primary keys.
func EnsureSchema(d *gorm.DB, schema string) error {
	if err := d.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}
	return d.Exec(`CREATE SCHEMA IF NOT EXISTS "` + schema + `"`).Error
}
