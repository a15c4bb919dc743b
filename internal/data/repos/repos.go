package repos

import (
	"gorm.io/gorm"

	"github.com/unaytac-cmd/printnest-sub000/internal/data/repos/printing"
	"github.com/unaytac-cmd/printnest-sub000/internal/platform/logger"
)

type DesignRepo = printing.DesignRepo
type OrderRepo = printing.OrderRepo
type TenantSettingsRepo = printing.TenantSettingsRepo
type GangsheetRepo = printing.GangsheetRepo
type GangsheetRollRepo = printing.GangsheetRollRepo

func NewDesignRepo(db *gorm.DB, baseLog *logger.Logger) DesignRepo {
	return printing.NewDesignRepo(db, baseLog)
}

func NewOrderRepo(db *gorm.DB, baseLog *logger.Logger) OrderRepo {
	return printing.NewOrderRepo(db, baseLog)
}

func NewTenantSettingsRepo(db *gorm.DB, baseLog *logger.Logger) TenantSettingsRepo {
	return printing.NewTenantSettingsRepo(db, baseLog)
}

func NewGangsheetRepo(db *gorm.DB, baseLog *logger.Logger) GangsheetRepo {
	return printing.NewGangsheetRepo(db, baseLog)
}

func NewGangsheetRollRepo(db *gorm.DB, baseLog *logger.Logger) GangsheetRollRepo {
	return printing.NewGangsheetRollRepo(db, baseLog)
}
