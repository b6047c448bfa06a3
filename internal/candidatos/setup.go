package candidatos

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/votojudicial/backend/internal/db"
)

// Migrate creates the candidatos table and its search indexes.
func Migrate(gdb *gorm.DB) error {
	if err := db.EnsureSchema(gdb, db.Schema); err != nil {
		return fmt.Errorf("ensure schema %s: %w", db.Schema, err)
	}
	if err := gdb.AutoMigrate(&Candidato{}); err != nil {
		return fmt.Errorf("migrate candidatos: %w", err)
	}
	if err := gdb.Exec(`
		CREATE INDEX IF NOT EXISTS candidatos_poder_postula_gin
		ON ` + db.Schema + `.candidatos USING GIN (poder_postula);
	`).Error; err != nil {
		return fmt.Errorf("create candidatos_poder_postula_gin: %w", err)
	}
	return nil
}
