// Package dbtest opens throwaway in-memory SQLite databases for tests.
package dbtest

import (
	"testing"

	"ordermgmt/internal/config"
	"ordermgmt/internal/domain/model"
	"ordermgmt/internal/infra/db"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// New returns a migrated database private to t.
func New(t testing.TB) *gorm.DB {
	t.Helper()
	gdb, err := db.Connect(config.DBConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	if err != nil {
		t.Fatalf("connect sqlite: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

// SeedProduct inserts a product priced at price (a decimal string).
func SeedProduct(t testing.TB, gdb *gorm.DB, name string, price string, stock int64) model.Product {
	t.Helper()
	p := model.Product{Name: name, UnitPrice: decimal.RequireFromString(price), Stock: stock}
	if err := gdb.Create(&p).Error; err != nil {
		t.Fatalf("seed product %s: %v", name, err)
	}
	return p
}
