package fiscal

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/varejo/backend/internal/domain/finance"
	"github.com/varejo/backend/internal/domain/inventory"
	"github.com/varejo/backend/internal/domain/partner"
	"github.com/varejo/backend/internal/domain/sales"
	"github.com/varejo/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// MockSaleRepository is a mock implementation of SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

// MockStockRepository is a mock implementation of StockRepository
type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) FindLevelByProduct(ctx context.Context, productID uuid.UUID) (*inventory.StockLevel, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.StockLevel), args.Error(1)
}

func (m *MockStockRepository) AddQuantity(ctx context.Context, productID uuid.UUID, quantity decimal.Decimal) error {
	args := m.Called(ctx, productID, quantity)
	return args.Error(0)
}

func (m *MockStockRepository) AppendMovement(ctx context.Context, movement *inventory.StockMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

// MockCashLedgerRepository is a mock implementation of CashLedgerRepository
type MockCashLedgerRepository struct {
	mock.Mock
}

func (m *MockCashLedgerRepository) Append(ctx context.Context, entry *finance.CashLedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockAccountReceivableRepository is a mock implementation of AccountReceivableRepository
type MockAccountReceivableRepository struct {
	mock.Mock
}

func (m *MockAccountReceivableRepository) FindBySale(ctx context.Context, saleID uuid.UUID) (*finance.AccountReceivable, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.AccountReceivable), args.Error(1)
}

func (m *MockAccountReceivableRepository) Save(ctx context.Context, receivable *finance.AccountReceivable) error {
	args := m.Called(ctx, receivable)
	return args.Error(0)
}

// MockClientRepository is a mock implementation of ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Client), args.Error(1)
}

func (m *MockClientRepository) DebitCredit(ctx context.Context, clientID uuid.UUID, value decimal.Decimal) error {
	args := m.Called(ctx, clientID, value)
	return args.Error(0)
}

func (m *MockClientRepository) DebitLoyaltyPoints(ctx context.Context, clientID uuid.UUID, points decimal.Decimal) error {
	args := m.Called(ctx, clientID, points)
	return args.Error(0)
}

// MockLoyaltyMovementRepository is a mock implementation of LoyaltyMovementRepository
type MockLoyaltyMovementRepository struct {
	mock.Mock
}

func (m *MockLoyaltyMovementRepository) FindEarnBySale(ctx context.Context, saleID uuid.UUID) (*partner.LoyaltyMovement, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.LoyaltyMovement), args.Error(1)
}

func (m *MockLoyaltyMovementRepository) Append(ctx context.Context, movement *partner.LoyaltyMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

type reversalMocks struct {
	saleRepo       *MockSaleRepository
	stockRepo      *MockStockRepository
	cashRepo       *MockCashLedgerRepository
	receivableRepo *MockAccountReceivableRepository
	clientRepo     *MockClientRepository
	loyaltyRepo    *MockLoyaltyMovementRepository
}

func newReversalService() (*ReversalService, *reversalMocks) {
	mocks := &reversalMocks{
		saleRepo:       new(MockSaleRepository),
		stockRepo:      new(MockStockRepository),
		cashRepo:       new(MockCashLedgerRepository),
		receivableRepo: new(MockAccountReceivableRepository),
		clientRepo:     new(MockClientRepository),
		loyaltyRepo:    new(MockLoyaltyMovementRepository),
	}
	service := NewReversalService(
		mocks.saleRepo,
		mocks.stockRepo,
		mocks.cashRepo,
		mocks.receivableRepo,
		mocks.clientRepo,
		mocks.loyaltyRepo,
		zap.NewNop(),
	)
	return service, mocks
}

func completedTestSale() *sales.Sale {
	registerID := uuid.New()
	clientID := uuid.New()
	sale := &sales.Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Status:            sales.SaleStatusCompleted,
		CashRegisterID:    &registerID,
		ClientID:          &clientID,
		Total:             decimal.NewFromFloat(149.70),
	}
	sale.Items = []sales.SaleItem{
		{ID: uuid.New(), SaleID: sale.ID, ProductID: uuid.New(), Quantity: decimal.NewFromInt(3), UnitCost: decimal.NewFromFloat(30.00)},
		{ID: uuid.New(), SaleID: sale.ID, ProductID: uuid.New(), Quantity: decimal.NewFromInt(1), UnitCost: decimal.NewFromFloat(59.70)},
	}
	sale.Payments = []sales.SalePayment{
		{ID: uuid.New(), SaleID: sale.ID, Method: sales.PaymentMethodCredit, Value: decimal.NewFromFloat(100.00)},
		{ID: uuid.New(), SaleID: sale.ID, Method: sales.PaymentMethodCash, Value: decimal.NewFromFloat(49.70)},
	}
	return sale
}

func TestReversalService_Run(t *testing.T) {
	ctx := context.Background()
	reason := "Erro de digitação no valor"
	docLabel := "RECEIPT 123"

	t.Run("no-op without a linked sale", func(t *testing.T) {
		service, mocks := newReversalService()

		report := service.Run(ctx, nil, reason, docLabel, nil)

		assert.Empty(t, report.StepsSucceeded)
		assert.Empty(t, report.StepsFailed)
		mocks.saleRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("no-op when the sale is already canceled", func(t *testing.T) {
		service, mocks := newReversalService()

		sale := completedTestSale()
		sale.Status = sales.SaleStatusCanceled
		mocks.saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)

		report := service.Run(ctx, &sale.ID, reason, docLabel, nil)

		assert.Empty(t, report.StepsSucceeded)
		assert.Empty(t, report.StepsFailed)
		mocks.saleRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		mocks.stockRepo.AssertNotCalled(t, "AddQuantity", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("runs all four steps and cancels the sale", func(t *testing.T) {
		service, mocks := newReversalService()

		sale := completedTestSale()
		actorID := uuid.New()
		earn := &partner.LoyaltyMovement{
			BaseEntity: shared.NewBaseEntity(),
			ClientID:   *sale.ClientID,
			SaleID:     sale.ID,
			Kind:       partner.LoyaltyMovementEarn,
			Points:     decimal.NewFromInt(15),
		}
		receivable := &finance.AccountReceivable{
			BaseAggregateRoot: shared.NewBaseAggregateRoot(),
			SaleID:            sale.ID,
			ClientID:          *sale.ClientID,
			Value:             decimal.NewFromFloat(100.00),
			Status:            finance.ReceivableStatusPending,
		}

		mocks.saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)
		for _, item := range sale.Items {
			mocks.stockRepo.On("AddQuantity", ctx, item.ProductID, item.Quantity).Return(nil)
			level := &inventory.StockLevel{
				BaseAggregateRoot: shared.NewBaseAggregateRoot(),
				ProductID:         item.ProductID,
				QuantityOnHand:    item.Quantity,
			}
			mocks.stockRepo.On("FindLevelByProduct", ctx, item.ProductID).Return(level, nil)
		}
		mocks.stockRepo.On("AppendMovement", ctx, mock.MatchedBy(func(mv *inventory.StockMovement) bool {
			return mv.Kind == inventory.MovementKindIn &&
				mv.OriginDocument == "Cancellation RECEIPT 123" &&
				mv.Note == "Reversal: Erro de digitação no valor" &&
				mv.ActorID != nil && *mv.ActorID == actorID
		})).Return(nil).Times(2)
		mocks.cashRepo.On("Append", ctx, mock.MatchedBy(func(entry *finance.CashLedgerEntry) bool {
			return entry.Kind == finance.LedgerEntryKindOut && entry.Value.Equal(sale.Total)
		})).Return(nil)
		mocks.clientRepo.On("DebitCredit", ctx, *sale.ClientID, decimal.NewFromFloat(100.00)).Return(nil)
		mocks.receivableRepo.On("FindBySale", ctx, sale.ID).Return(receivable, nil)
		mocks.receivableRepo.On("Save", ctx, mock.MatchedBy(func(r *finance.AccountReceivable) bool {
			return r.Status == finance.ReceivableStatusCanceled
		})).Return(nil)
		mocks.loyaltyRepo.On("FindEarnBySale", ctx, sale.ID).Return(earn, nil)
		mocks.loyaltyRepo.On("Append", ctx, mock.MatchedBy(func(mv *partner.LoyaltyMovement) bool {
			return mv.Kind == partner.LoyaltyMovementReversal && mv.Points.Equal(decimal.NewFromInt(-15))
		})).Return(nil)
		mocks.clientRepo.On("DebitLoyaltyPoints", ctx, *sale.ClientID, decimal.NewFromInt(15)).Return(nil)
		mocks.saleRepo.On("Save", ctx, mock.MatchedBy(func(s *sales.Sale) bool {
			return s.IsCanceled()
		})).Return(nil)

		report := service.Run(ctx, &sale.ID, reason, docLabel, &actorID)

		assert.Equal(t, []string{StepStock, StepCash, StepCredit, StepLoyalty}, report.StepsSucceeded)
		assert.Empty(t, report.StepsFailed)
		assert.False(t, report.CompletedAt.IsZero())
		assert.Contains(t, sale.Observation, reason)
		mocks.saleRepo.AssertExpectations(t)
		mocks.stockRepo.AssertExpectations(t)
		mocks.cashRepo.AssertExpectations(t)
		mocks.receivableRepo.AssertExpectations(t)
		mocks.clientRepo.AssertExpectations(t)
		mocks.loyaltyRepo.AssertExpectations(t)
	})

	t.Run("skips cash credit and loyalty when not applicable", func(t *testing.T) {
		service, mocks := newReversalService()

		sale := completedTestSale()
		sale.CashRegisterID = nil
		sale.ClientID = nil
		sale.Payments = []sales.SalePayment{
			{ID: uuid.New(), SaleID: sale.ID, Method: sales.PaymentMethodCash, Value: sale.Total},
		}

		mocks.saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)
		mocks.stockRepo.On("AddQuantity", ctx, mock.Anything, mock.Anything).Return(nil)
		mocks.stockRepo.On("AppendMovement", ctx, mock.MatchedBy(func(mv *inventory.StockMovement) bool {
			return mv.ActorID == nil
		})).Return(nil)
		mocks.stockRepo.On("FindLevelByProduct", ctx, mock.Anything).Return(nil, shared.ErrNotFound)
		mocks.saleRepo.On("Save", ctx, mock.Anything).Return(nil)

		report := service.Run(ctx, &sale.ID, reason, docLabel, nil)

		assert.Equal(t, []string{StepStock, StepCash, StepCredit, StepLoyalty}, report.StepsSucceeded)
		assert.Empty(t, report.StepsFailed)
		mocks.cashRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
		mocks.clientRepo.AssertNotCalled(t, "DebitCredit", mock.Anything, mock.Anything, mock.Anything)
		mocks.loyaltyRepo.AssertNotCalled(t, "FindEarnBySale", mock.Anything, mock.Anything)
	})

	t.Run("records a failed step and keeps going", func(t *testing.T) {
		service, mocks := newReversalService()

		sale := completedTestSale()
		sale.ClientID = nil
		sale.Payments = []sales.SalePayment{
			{ID: uuid.New(), SaleID: sale.ID, Method: sales.PaymentMethodCash, Value: sale.Total},
		}

		mocks.saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)
		mocks.stockRepo.On("AddQuantity", ctx, mock.Anything, mock.Anything).
			Return(shared.NewDomainError("DATABASE_ERROR", "connection reset"))
		mocks.cashRepo.On("Append", ctx, mock.Anything).Return(nil)
		mocks.saleRepo.On("Save", ctx, mock.Anything).Return(nil)

		report := service.Run(ctx, &sale.ID, reason, docLabel, nil)

		assert.Equal(t, []string{StepCash, StepCredit, StepLoyalty}, report.StepsSucceeded)
		assert.Len(t, report.StepsFailed, 1)
		assert.Equal(t, StepStock, report.StepsFailed[0].Step)
		assert.Contains(t, sale.Observation, "Reversal step stock failed")
		assert.True(t, sale.IsCanceled())
	})

	t.Run("tolerates a missing earn movement", func(t *testing.T) {
		service, mocks := newReversalService()

		sale := completedTestSale()
		sale.Payments = []sales.SalePayment{
			{ID: uuid.New(), SaleID: sale.ID, Method: sales.PaymentMethodCash, Value: sale.Total},
		}

		mocks.saleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)
		mocks.stockRepo.On("AddQuantity", ctx, mock.Anything, mock.Anything).Return(nil)
		mocks.stockRepo.On("AppendMovement", ctx, mock.Anything).Return(nil)
		mocks.stockRepo.On("FindLevelByProduct", ctx, mock.Anything).Return(nil, shared.ErrNotFound)
		mocks.cashRepo.On("Append", ctx, mock.Anything).Return(nil)
		mocks.loyaltyRepo.On("FindEarnBySale", ctx, sale.ID).Return(nil, shared.ErrNotFound)
		mocks.saleRepo.On("Save", ctx, mock.Anything).Return(nil)

		report := service.Run(ctx, &sale.ID, reason, docLabel, nil)

		assert.Contains(t, report.StepsSucceeded, StepLoyalty)
		assert.Empty(t, report.StepsFailed)
		mocks.loyaltyRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
		mocks.clientRepo.AssertNotCalled(t, "DebitLoyaltyPoints", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("aborts remaining steps on context cancellation", func(t *testing.T) {
		service, mocks := newReversalService()

		sale := completedTestSale()
		canceledCtx, cancel := context.WithCancel(context.Background())
		cancel()

		mocks.saleRepo.On("FindByID", canceledCtx, sale.ID).Return(sale, nil)
		mocks.saleRepo.On("Save", canceledCtx, mock.Anything).Return(nil)

		report := service.Run(canceledCtx, &sale.ID, reason, docLabel, nil)

		assert.Empty(t, report.StepsSucceeded)
		mocks.stockRepo.AssertNotCalled(t, "AddQuantity", mock.Anything, mock.Anything, mock.Anything)
		mocks.cashRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})
}
