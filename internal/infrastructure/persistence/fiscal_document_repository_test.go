package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varejo/backend/internal/domain/fiscal"
	"github.com/varejo/backend/internal/domain/shared"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockFiscalDocumentRepository creates a repository with a mocked SQL connection
func newMockFiscalDocumentRepository(t *testing.T) (*GormFiscalDocumentRepository, sqlmock.Sqlmock, *sql.DB) {
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

	return NewGormFiscalDocumentRepository(gormDB), mock, mockDB
}

func TestGormFiscalDocumentRepository_FindByID(t *testing.T) {
	t.Run("finds existing document", func(t *testing.T) {
		repo, mock, mockDB := newMockFiscalDocumentRepository(t)
		defer mockDB.Close()

		docID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "document_type", "series", "number", "status", "total_value"}).
			AddRow(docID, "RECEIPT", "1", int64(123), "AUTHORIZED", decimal.NewFromFloat(49.90))

		mock.ExpectQuery(`SELECT \* FROM "fiscal_documents" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(docID, 1).
			WillReturnRows(rows)

		doc, err := repo.FindByID(context.Background(), docID)

		assert.NoError(t, err)
		assert.NotNil(t, doc)
		assert.Equal(t, docID, doc.ID)
		assert.Equal(t, fiscal.DocumentStatusAuthorized, doc.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing document", func(t *testing.T) {
		repo, mock, mockDB := newMockFiscalDocumentRepository(t)
		defer mockDB.Close()

		docID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "fiscal_documents" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(docID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		doc, err := repo.FindByID(context.Background(), docID)

		assert.Error(t, err)
		assert.Nil(t, doc)
		assert.Equal(t, shared.ErrNotFound, err)
	})
}

func TestGormFiscalDocumentRepository_ConfirmCancellation(t *testing.T) {
	t.Run("cancels document still authorized", func(t *testing.T) {
		repo, mock, mockDB := newMockFiscalDocumentRepository(t)
		defer mockDB.Close()

		docID := uuid.New()
		now := time.Now()

		// The status guard must be part of the WHERE clause, not a separate read
		mock.ExpectExec(`UPDATE "fiscal_documents" SET .* WHERE id = \$\d+ AND status = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.ConfirmCancellation(context.Background(), docID, "135240007654321", "Erro de digitação no valor", now)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns conflict when the row already moved", func(t *testing.T) {
		repo, mock, mockDB := newMockFiscalDocumentRepository(t)
		defer mockDB.Close()

		docID := uuid.New()

		mock.ExpectExec(`UPDATE "fiscal_documents" SET .* WHERE id = \$\d+ AND status = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.ConfirmCancellation(context.Background(), docID, "135240007654321", "Erro de digitação no valor", time.Now())

		assert.Error(t, err)
		var domainErr *shared.DomainError
		assert.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONFLICT", domainErr.Code)
	})
}

func TestGormFiscalDocumentRepository_NextDocumentNumber(t *testing.T) {
	t.Run("returns stored next number", func(t *testing.T) {
		repo, mock, mockDB := newMockFiscalDocumentRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows([]string{"document_type", "series", "next_number"}).
			AddRow("RECEIPT", "1", int64(42))
		mock.ExpectQuery(`SELECT \* FROM "document_sequences" WHERE document_type = \$1 AND series = \$2 .* LIMIT .*`).
			WithArgs("RECEIPT", "1", 1).
			WillReturnRows(rows)

		number, err := repo.NextDocumentNumber(context.Background(), fiscal.DocumentTypeReceipt, "1")

		assert.NoError(t, err)
		assert.Equal(t, int64(42), number)
	})

	t.Run("starts at one when no sequence exists", func(t *testing.T) {
		repo, mock, mockDB := newMockFiscalDocumentRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "document_sequences"`).
			WillReturnError(gorm.ErrRecordNotFound)

		number, err := repo.NextDocumentNumber(context.Background(), fiscal.DocumentTypeInvoice, "10")

		assert.NoError(t, err)
		assert.Equal(t, int64(1), number)
	})
}
