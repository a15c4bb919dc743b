package printing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/unaytac-cmd/printnest-sub000/internal/domain"
	"github.com/unaytac-cmd/printnest-sub000/internal/platform/dbctx"
	"github.com/unaytac-cmd/printnest-sub000/internal/platform/logger"
)

type GangsheetRepo interface {
	Create(dbc dbctx.Context, g *types.Gangsheet) (*types.Gangsheet, error)
	GetByID(dbc dbctx.Context, tenantID uuid.UUID, id uuid.UUID) (*types.Gangsheet, error)
	ListByTenant(dbc dbctx.Context, tenantID uuid.UUID, limit int) ([]*types.Gangsheet, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	// UpdateFieldsUnlessTerminal applies updates only while the row is in
	// a non-terminal status. Returns false if the row was terminal (or
	// gone), so a late-running pipeline cannot move status backward.
	UpdateFieldsUnlessTerminal(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (bool, error)
	IncrementProcessed(dbc dbctx.Context, id uuid.UUID, delta int) error
	SoftDelete(dbc dbctx.Context, tenantID uuid.UUID, id uuid.UUID) error
}

type gangsheetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGangsheetRepo(db *gorm.DB, baseLog *logger.Logger) GangsheetRepo {
	return &gangsheetRepo{
		db:  db,
		log: baseLog.With("repo", "GangsheetRepo"),
	}
}

func (r *gangsheetRepo) Create(dbc dbctx.Context, g *types.Gangsheet) (*types.Gangsheet, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(dbc.Ctx).Create(g).Error; err != nil {
		return nil, err
	}
	return g, nil
}

func (r *gangsheetRepo) GetByID(dbc dbctx.Context, tenantID uuid.UUID, id uuid.UUID) (*types.Gangsheet, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var g types.Gangsheet
	err := transaction.WithContext(dbc.Ctx).
		Preload("Rolls", func(db *gorm.DB) *gorm.DB {
			return db.Order("roll_number ASC")
		}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Limit(1).
		Find(&g).Error
	if err != nil {
		return nil, err
	}
	if g.ID == uuid.Nil {
		return nil, nil
	}
	return &g, nil
}

func (r *gangsheetRepo) ListByTenant(dbc dbctx.Context, tenantID uuid.UUID, limit int) ([]*types.Gangsheet, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 {
		limit = 50
	}
	var out []*types.Gangsheet
	if err := transaction.WithContext(dbc.Ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *gangsheetRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	updates["updated_at"] = time.Now()
	return transaction.WithContext(dbc.Ctx).
		Model(&types.Gangsheet{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *gangsheetRepo) UpdateFieldsUnlessTerminal(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	updates["updated_at"] = time.Now()
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.Gangsheet{}).
		Where("id = ? AND status NOT IN ?", id, []string{types.StatusCompleted, types.StatusFailed}).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *gangsheetRepo) IncrementProcessed(dbc dbctx.Context, id uuid.UUID, delta int) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Model(&types.Gangsheet{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"processed_designs": gorm.Expr("processed_designs + ?", delta),
			"updated_at":        time.Now(),
		}).Error
}

func (r *gangsheetRepo) SoftDelete(dbc dbctx.Context, tenantID uuid.UUID, id uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&types.Gangsheet{}).Error
}
