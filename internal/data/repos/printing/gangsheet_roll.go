package printing

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/unaytac-cmd/printnest-sub000/internal/domain"
	"github.com/unaytac-cmd/printnest-sub000/internal/platform/dbctx"
	"github.com/unaytac-cmd/printnest-sub000/internal/platform/logger"
)

type GangsheetRollRepo interface {
	Create(dbc dbctx.Context, rolls []*types.GangsheetRoll) ([]*types.GangsheetRoll, error)
	ListByGangsheet(dbc dbctx.Context, gangsheetID uuid.UUID) ([]*types.GangsheetRoll, error)
	DeleteByGangsheet(dbc dbctx.Context, gangsheetID uuid.UUID) error
}

type gangsheetRollRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewGangsheetRollRepo(db *gorm.DB, baseLog *logger.Logger) GangsheetRollRepo {
	return &gangsheetRollRepo{
		db:  db,
		log: baseLog.With("repo", "GangsheetRollRepo"),
	}
}

func (r *gangsheetRollRepo) Create(dbc dbctx.Context, rolls []*types.GangsheetRoll) ([]*types.GangsheetRoll, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rolls) == 0 {
		return []*types.GangsheetRoll{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&rolls).Error; err != nil {
		return nil, err
	}
	return rolls, nil
}

func (r *gangsheetRollRepo) ListByGangsheet(dbc dbctx.Context, gangsheetID uuid.UUID) ([]*types.GangsheetRoll, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.GangsheetRoll
	if err := transaction.WithContext(dbc.Ctx).
		Where("gangsheet_id = ?", gangsheetID).
		Order("roll_number ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *gangsheetRollRepo) DeleteByGangsheet(dbc dbctx.Context, gangsheetID uuid.UUID) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx).
		Where("gangsheet_id = ?", gangsheetID).
		Delete(&types.GangsheetRoll{}).Error
}
