// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"paystack-storefront/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a migrated SQLite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	// one connection serialises writers the way a real server's row locks would
	return open(t, "?_busy_timeout=5000", 1)
}

// NewPooledDB is NewDB with maxOpen connections, for tests that race
// requests against each other. Writers take the database lock at BEGIN, as
// the default production DSN does.
func NewPooledDB(t *testing.T, maxOpen int) *gorm.DB {
	t.Helper()

	return open(t, "?_txlock=immediate&_busy_timeout=10000", maxOpen)
}

func open(t *testing.T, params string, maxOpen int) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + params
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(model.All()...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(maxOpen)
	t.Cleanup(func() { sqlDB.Close() })

	return db
}

func Collection(t *testing.T, db *gorm.DB) *model.Collection {
	t.Helper()

	c := &model.Collection{Title: "Supplements", Description: "Daily wellness"}
	require.NoError(t, db.Create(c).Error)
	return c
}

func Product(t *testing.T, db *gorm.DB, collectionID uint, price string, inventory int) *model.Product {
	t.Helper()

	p := &model.Product{
		Title:        "Product " + price,
		Slug:         "product-" + price,
		UnitPrice:    decimal.RequireFromString(price),
		Inventory:    inventory,
		CollectionID: collectionID,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func Member(t *testing.T, db *gorm.DB, email string) *model.Pbo {
	t.Helper()

	u := &model.User{Email: email, FirstName: "Ada", LastName: "Obi"}
	require.NoError(t, db.Create(u).Error)

	p := &model.Pbo{
		UserID:         u.ID,
		Phone:          "+2348000000000",
		Membership:     model.MembershipBronze,
		VoucherBalance: decimal.Zero,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// Order inserts a pending order with the given total.
func Order(t *testing.T, db *gorm.DB, pboID uint, total string) *model.Order {
	t.Helper()

	o := &model.Order{
		PboID:         pboID,
		PaymentStatus: model.PaymentStatusPending,
		TotalAmount:   decimal.RequireFromString(total),
	}
	require.NoError(t, db.Create(o).Error)
	return o
}

// Reload reads the order back from the database.
func Reload(t *testing.T, db *gorm.DB, orderID uint) *model.Order {
	t.Helper()

	var o model.Order
	require.NoError(t, db.First(&o, orderID).Error)
	return &o
}

// Logger discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
