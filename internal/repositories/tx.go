package repositories

import (
	"context"

	"shophub_backend/pkg/contextkeys"

	"gorm.io/gorm"
)

// TxManager выполняет функцию внутри транзакции БД.
// Транзакционный *gorm.DB прокидывается вниз через context,
// репозитории достают его через dbFromContext.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type gormTxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

// Do открывает транзакцию (или savepoint, если транзакция уже идет)
// и кладет ее в context. Любая ошибка fn приводит к полному откату.
func (m *gormTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	base := dbFromContext(ctx, m.db)
	return base.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, contextkeys.DBContextKey, tx)
		return fn(txCtx)
	})
}

// dbFromContext возвращает транзакцию из context, если она там есть,
// иначе - переданный пул соединений
func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if db, ok := ctx.Value(contextkeys.DBContextKey).(*gorm.DB); ok && db != nil {
		return db
	}
	return fallback
}
