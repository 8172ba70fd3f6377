package database

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// ContextWithTransaction stores an open transaction in the context so that
// nested store calls join it instead of opening their own connection.
func ContextWithTransaction(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TransactionFromContext returns the transaction carried by ctx, if any.
func TransactionFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return nil
}
