package printing

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/unaytac-cmd/printnest-sub000/internal/domain"
	"github.com/unaytac-cmd/printnest-sub000/internal/platform/dbctx"
	"github.com/unaytac-cmd/printnest-sub000/internal/platform/logger"
)

type OrderRepo interface {
	Create(dbc dbctx.Context, orders []*types.Order) ([]*types.Order, error)
	// GetPaidByIDs loads paid orders with items and modifications
	// preloaded, preserving the order of ids as given.
	GetPaidByIDs(dbc dbctx.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*types.Order, error)
}

type orderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderRepo(db *gorm.DB, baseLog *logger.Logger) OrderRepo {
	return &orderRepo{
		db:  db,
		log: baseLog.With("repo", "OrderRepo"),
	}
}

func (r *orderRepo) Create(dbc dbctx.Context, orders []*types.Order) ([]*types.Order, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(orders) == 0 {
		return []*types.Order{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepo) GetPaidByIDs(dbc dbctx.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*types.Order, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return []*types.Order{}, nil
	}
	var rows []*types.Order
	if err := transaction.WithContext(dbc.Ctx).
		Preload("Items").
		Preload("Items.Modifications").
		Where("tenant_id = ? AND id IN ? AND status = ?", tenantID, ids, types.OrderStatusPaid).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*types.Order, len(rows))
	for _, o := range rows {
		byID[o.ID] = o
	}
	out := make([]*types.Order, 0, len(rows))
	for _, id := range ids {
		if o, ok := byID[id]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}
