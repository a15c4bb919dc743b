package db

import (
	"gorm.io/gorm"

	types "github.com/unaytac-cmd/printnest-sub000/internal/domain"
)

func (s *PostgresService) AutoMigrateAll() error {
	return AutoMigrateAll(s.db)
}

func AutoMigrateAll(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&types.TenantSettings{},
		&types.Design{},
		&types.Order{},
		&types.OrderItem{},
		&types.OrderItemModification{},
		&types.Gangsheet{},
		&types.GangsheetRoll{},
	)
}
