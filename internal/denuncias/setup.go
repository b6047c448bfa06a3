package denuncias

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/votojudicial/backend/internal/db"
)

func Migrate(gdb *gorm.DB) error {
	if err := db.EnsureSchema(gdb, db.Schema); err != nil {
		return fmt.Errorf("ensure schema %s: %w", db.Schema, err)
	}
	if err := gdb.AutoMigrate(&Denuncia{}); err != nil {
		return fmt.Errorf("migrate denuncias: %w", err)
	}
	return nil
}
