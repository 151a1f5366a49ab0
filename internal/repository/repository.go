package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrProtected is returned when a delete would orphan rows that reference
// the record. The wrapped message names the referencing relation.
var ErrProtected = errors.New("record is still referenced")

func protected(relation string) error {
	return fmt.Errorf("%w by %s", ErrProtected, relation)
}

// conn returns tx when the caller is inside a transaction, db otherwise.
func conn(ctx context.Context, db, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// countWhere counts rows of model matching query.
func countWhere(tx *gorm.DB, model any, query string, args ...any) (int64, error) {
	var count int64
	err := tx.Model(model).Where(query, args...).Count(&count).Error
	return count, err
}
