package votos

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/votojudicial/backend/internal/db"
)

// Migrate creates the votos table with its (user_id, candidato_id) unique index.
func Migrate(gdb *gorm.DB) error {
	if err := db.EnsureSchema(gdb, db.Schema); err != nil {
		return fmt.Errorf("ensure schema %s: %w", db.Schema, err)
	}
	if err := gdb.AutoMigrate(&Voto{}); err != nil {
		return fmt.Errorf("migrate votos: %w", err)
	}
	return nil
}
