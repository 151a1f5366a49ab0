package repository

import (
	"context"
	"fmt"

	"paystack-storefront/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MemberRepository interface {
	FirstOrCreateUser(ctx context.Context, tx *gorm.DB, user *model.User) error
	CreatePbo(ctx context.Context, tx *gorm.DB, pbo *model.Pbo) error
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	FindPboByEmail(ctx context.Context, email string) (*model.Pbo, error)
	AddAddress(ctx context.Context, address *model.Address) error
	ListAddresses(ctx context.Context, pboID uint) ([]*model.Address, error)
	CreateTopUp(ctx context.Context, topUp *model.PboTopUp) error
	CreateComplaint(ctx context.Context, complaint *model.Complaint) error
	DeletePbo(ctx context.Context, pboID uint) error
}

type memberRepoImpl struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepoImpl{
		db: db,
	}
}

// FirstOrCreateUser loads the user with user.Email into user, inserting it
// first when no such user exists.
func (r *memberRepoImpl) FirstOrCreateUser(ctx context.Context, tx *gorm.DB, user *model.User) error {
	db := conn(ctx, r.db, tx)
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(user).Error; err != nil {
		return err
	}

	return db.Where("email = ?", user.Email).First(user).Error
}

func (r *memberRepoImpl) CreatePbo(ctx context.Context, tx *gorm.DB, pbo *model.Pbo) error {
	return conn(ctx, r.db, tx).Create(pbo).Error
}

func (r *memberRepoImpl) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *memberRepoImpl) FindPboByEmail(ctx context.Context, email string) (*model.Pbo, error) {
	var pbo model.Pbo
	err := r.db.WithContext(ctx).
		Joins("JOIN users ON users.id = pbos.user_id").
		Where("users.email = ?", email).
		First(&pbo).Error

	if err != nil {
		return nil, err
	}

	return &pbo, nil
}

func (r *memberRepoImpl) AddAddress(ctx context.Context, address *model.Address) error {
	return r.db.WithContext(ctx).Create(address).Error
}

func (r *memberRepoImpl) ListAddresses(ctx context.Context, pboID uint) ([]*model.Address, error) {
	var addresses []*model.Address
	err := r.db.WithContext(ctx).
		Where("pbo_id = ?", pboID).
		Order("street, city, state").
		Find(&addresses).Error

	if err != nil {
		return nil, err
	}

	return addresses, nil
}

func (r *memberRepoImpl) CreateTopUp(ctx context.Context, topUp *model.PboTopUp) error {
	return r.db.WithContext(ctx).Create(topUp).Error
}

func (r *memberRepoImpl) CreateComplaint(ctx context.Context, complaint *model.Complaint) error {
	return r.db.WithContext(ctx).Create(complaint).Error
}

// DeletePbo removes a member that has no orders, top-ups or complaints.
// Addresses are removed with it.
func (r *memberRepoImpl) DeletePbo(ctx context.Context, pboID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").Where("id = ?", pboID).First(&model.Pbo{}).Error; err != nil {
			return err
		}

		dependents := []struct {
			relation string
			model    any
		}{
			{"orders", &model.Order{}},
			{"pbo_top_ups", &model.PboTopUp{}},
			{"complaints", &model.Complaint{}},
		}
		for _, d := range dependents {
			count, err := countWhere(tx, d.model, "pbo_id = ?", pboID)
			if err != nil {
				return fmt.Errorf("count %s: %w", d.relation, err)
			}
			if count > 0 {
				return protected(d.relation)
			}
		}

		if err := tx.Where("pbo_id = ?", pboID).Delete(&model.Address{}).Error; err != nil {
			return fmt.Errorf("delete addresses: %w", err)
		}

		return tx.Delete(&model.Pbo{}, pboID).Error
	})
}
