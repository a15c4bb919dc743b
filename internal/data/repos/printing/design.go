package printing

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/unaytac-cmd/printnest-sub000/internal/domain"
	"github.com/unaytac-cmd/printnest-sub000/internal/platform/dbctx"
	"github.com/unaytac-cmd/printnest-sub000/internal/platform/logger"
)

type DesignRepo interface {
	Create(dbc dbctx.Context, designs []*types.Design) ([]*types.Design, error)
	GetByIDs(dbc dbctx.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*types.Design, error)
	GetByID(dbc dbctx.Context, tenantID uuid.UUID, id uuid.UUID) (*types.Design, error)
}

type designRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDesignRepo(db *gorm.DB, baseLog *logger.Logger) DesignRepo {
	return &designRepo{
		db:  db,
		log: baseLog.With("repo", "DesignRepo"),
	}
}

func (r *designRepo) Create(dbc dbctx.Context, designs []*types.Design) ([]*types.Design, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(designs) == 0 {
		return []*types.Design{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&designs).Error; err != nil {
		return nil, err
	}
	return designs, nil
}

func (r *designRepo) GetByIDs(dbc dbctx.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*types.Design, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Design
	if len(ids) == 0 {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *designRepo) GetByID(dbc dbctx.Context, tenantID uuid.UUID, id uuid.UUID) (*types.Design, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var d types.Design
	err := transaction.WithContext(dbc.Ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Limit(1).
		Find(&d).Error
	if err != nil {
		return nil, err
	}
	if d.ID == uuid.Nil {
		return nil, nil
	}
	return &d, nil
}
