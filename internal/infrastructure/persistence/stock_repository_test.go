package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockStockRepository(t *testing.T) (*GormStockRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormStockRepository(gormDB), mock, mockDB
}

func TestGormStockRepository_AddQuantity(t *testing.T) {
	t.Run("upserts with an in-database increment", func(t *testing.T) {
		repo, mock, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		productID := uuid.New()

		// The increment must happen inside the statement, never read-modify-write
		mock.ExpectExec(`INSERT INTO "stock_levels" .* ON CONFLICT \("product_id"\) DO UPDATE SET .*quantity_on_hand.*`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.AddQuantity(context.Background(), productID, decimal.NewFromInt(3))

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		repo, _, mockDB := newMockStockRepository(t)
		defer mockDB.Close()

		err := repo.AddQuantity(context.Background(), uuid.New(), decimal.Zero)

		assert.Error(t, err)
	})
}
