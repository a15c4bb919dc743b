package printing

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/unaytac-cmd/printnest-sub000/internal/domain"
	"github.com/unaytac-cmd/printnest-sub000/internal/platform/dbctx"
	"github.com/unaytac-cmd/printnest-sub000/internal/platform/logger"
)

type TenantSettingsRepo interface {
	GetByTenant(dbc dbctx.Context, tenantID uuid.UUID) (*types.TenantSettings, error)
	Upsert(dbc dbctx.Context, settings *types.TenantSettings) (*types.TenantSettings, error)
}

type tenantSettingsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTenantSettingsRepo(db *gorm.DB, baseLog *logger.Logger) TenantSettingsRepo {
	return &tenantSettingsRepo{
		db:  db,
		log: baseLog.With("repo", "TenantSettingsRepo"),
	}
}

func (r *tenantSettingsRepo) GetByTenant(dbc dbctx.Context, tenantID uuid.UUID) (*types.TenantSettings, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var s types.TenantSettings
	err := transaction.WithContext(dbc.Ctx).
		Where("tenant_id = ?", tenantID).
		Limit(1).
		Find(&s).Error
	if err != nil {
		return nil, err
	}
	if s.ID == uuid.Nil {
		return nil, nil
	}
	return &s, nil
}

func (r *tenantSettingsRepo) Upsert(dbc dbctx.Context, settings *types.TenantSettings) (*types.TenantSettings, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	err := transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tenant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"roll_width_in", "roll_length_in", "dpi", "gap_in", "border", "border_size_in", "updated_at",
			}),
		}).
		Create(settings).Error
	if err != nil {
		return nil, err
	}
	return settings, nil
}
