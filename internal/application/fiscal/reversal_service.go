package fiscal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/varejo/backend/internal/domain/finance"
	"github.com/varejo/backend/internal/domain/inventory"
	"github.com/varejo/backend/internal/domain/partner"
	"github.com/varejo/backend/internal/domain/sales"
	"github.com/varejo/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Cascade step names reported in CascadeReport
const (
	StepStock   = "stock"
	StepCash    = "cash"
	StepCredit  = "credit"
	StepLoyalty = "loyalty"
)

// CascadeFailure records a reversal step that could not complete
type CascadeFailure struct {
	Step   string `json:"step"`
	Reason string `json:"reason"`
}

// CascadeReport summarizes the outcome of a reversal cascade. Failed steps
// require manual reconciliation; they never undo the document cancellation.
type CascadeReport struct {
	StepsSucceeded []string         `json:"steps_succeeded"`
	StepsFailed    []CascadeFailure `json:"steps_failed"`
	CompletedAt    time.Time        `json:"completed_at"`
}

// HasFailures returns true if any cascade step failed
func (r *CascadeReport) HasFailures() bool {
	return len(r.StepsFailed) > 0
}

// ReversalService compensates the side effects of a sale when its fiscal
// document is canceled: stock returns, cash ledger adjustment, client credit
// and loyalty reversal. Steps run sequentially and are each best effort.
type ReversalService struct {
	saleRepo       sales.SaleRepository
	stockRepo      inventory.StockRepository
	cashRepo       finance.CashLedgerRepository
	receivableRepo finance.AccountReceivableRepository
	clientRepo     partner.ClientRepository
	loyaltyRepo    partner.LoyaltyMovementRepository
	logger         *zap.Logger
}

// NewReversalService creates a new ReversalService
func NewReversalService(
	saleRepo sales.SaleRepository,
	stockRepo inventory.StockRepository,
	cashRepo finance.CashLedgerRepository,
	receivableRepo finance.AccountReceivableRepository,
	clientRepo partner.ClientRepository,
	loyaltyRepo partner.LoyaltyMovementRepository,
	logger *zap.Logger,
) *ReversalService {
	return &ReversalService{
		saleRepo:       saleRepo,
		stockRepo:      stockRepo,
		cashRepo:       cashRepo,
		receivableRepo: receivableRepo,
		clientRepo:     clientRepo,
		loyaltyRepo:    loyaltyRepo,
		logger:         logger,
	}
}

// Run executes the reversal cascade for the sale linked to a canceled
// document. It is a no-op when the document has no sale or the sale is
// already canceled. A step failure is recorded and the next step still runs;
// context cancellation aborts the remaining steps. The partial report is
// always returned.
func (s *ReversalService) Run(ctx context.Context, saleID *uuid.UUID, reason, docLabel string, actorID *uuid.UUID) *CascadeReport {
	report := &CascadeReport{
		StepsSucceeded: []string{},
		StepsFailed:    []CascadeFailure{},
	}
	defer func() { report.CompletedAt = time.Now() }()

	if saleID == nil || *saleID == uuid.Nil {
		return report
	}

	sale, err := s.saleRepo.FindByID(ctx, *saleID)
	if err != nil {
		s.logger.Error("reversal skipped: failed to load sale",
			zap.String("sale_id", saleID.String()),
			zap.Error(err))
		report.StepsFailed = append(report.StepsFailed, CascadeFailure{Step: "load", Reason: err.Error()})
		return report
	}
	if sale.IsCanceled() {
		return report
	}

	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{StepStock, func(ctx context.Context) error { return s.reverseStock(ctx, sale, reason, docLabel, actorID) }},
		{StepCash, func(ctx context.Context) error { return s.reverseCash(ctx, sale, reason, docLabel) }},
		{StepCredit, func(ctx context.Context) error { return s.reverseCredit(ctx, sale) }},
		{StepLoyalty, func(ctx context.Context) error { return s.reverseLoyalty(ctx, sale, docLabel) }},
	}

	for _, step := range steps {
		if ctx.Err() != nil {
			s.logger.Warn("reversal cascade aborted",
				zap.String("sale_id", sale.ID.String()),
				zap.String("next_step", step.name),
				zap.Error(ctx.Err()))
			break
		}
		if err := step.run(ctx); err != nil {
			s.logger.Error("reversal step failed",
				zap.String("sale_id", sale.ID.String()),
				zap.String("step", step.name),
				zap.Error(err))
			report.StepsFailed = append(report.StepsFailed, CascadeFailure{Step: step.name, Reason: err.Error()})
			continue
		}
		report.StepsSucceeded = append(report.StepsSucceeded, step.name)
	}

	now := time.Now()
	if err := sale.Cancel(reason, now); err != nil {
		report.StepsFailed = append(report.StepsFailed, CascadeFailure{Step: "sale", Reason: err.Error()})
		return report
	}
	if report.HasFailures() {
		for _, failure := range report.StepsFailed {
			sale.AppendObservation(fmt.Sprintf("Reversal step %s failed: %s", failure.Step, failure.Reason))
		}
	}
	if err := s.saleRepo.Save(ctx, sale); err != nil {
		s.logger.Error("failed to persist canceled sale",
			zap.String("sale_id", sale.ID.String()),
			zap.Error(err))
		report.StepsFailed = append(report.StepsFailed, CascadeFailure{Step: "sale", Reason: err.Error()})
	}

	return report
}

// reverseStock returns every sold item to inventory and records an audit
// movement per item, attributed to the requesting actor when one is known
func (s *ReversalService) reverseStock(ctx context.Context, sale *sales.Sale, reason, docLabel string, actorID *uuid.UUID) error {
	origin := fmt.Sprintf("Cancellation %s", docLabel)
	note := fmt.Sprintf("Reversal: %s", reason)

	for _, item := range sale.Items {
		if err := s.stockRepo.AddQuantity(ctx, item.ProductID, item.Quantity); err != nil {
			return err
		}
		movement, err := inventory.NewStockMovement(item.ProductID, inventory.MovementKindIn, item.Quantity, item.UnitCost, origin, note)
		if err != nil {
			return err
		}
		if actorID != nil {
			movement.WithActor(*actorID)
		}
		if err := s.stockRepo.AppendMovement(ctx, movement); err != nil {
			return err
		}

		level, err := s.stockRepo.FindLevelByProduct(ctx, item.ProductID)
		if err != nil {
			s.logger.Warn("stock level read-back failed",
				zap.String("product_id", item.ProductID.String()),
				zap.Error(err))
			continue
		}
		s.logger.Debug("stock restored",
			zap.String("product_id", item.ProductID.String()),
			zap.String("quantity_on_hand", level.QuantityOnHand.String()))
	}
	return nil
}

// reverseCash appends an outbound entry for the sale total when the sale went
// through a cash register
func (s *ReversalService) reverseCash(ctx context.Context, sale *sales.Sale, reason, docLabel string) error {
	if !sale.HasOpenCashRegister() {
		return nil
	}

	saleID := sale.ID
	description := fmt.Sprintf("Cancellation %s - %s", docLabel, reason)
	entry, err := finance.NewCashLedgerEntry(*sale.CashRegisterID, finance.LedgerEntryKindOut, sale.Total, description, &saleID)
	if err != nil {
		return err
	}
	return s.cashRepo.Append(ctx, entry)
}

// reverseCredit gives back the client's store credit used on the sale and
// cancels the linked receivable
func (s *ReversalService) reverseCredit(ctx context.Context, sale *sales.Sale) error {
	payment := sale.CreditPayment()
	if payment == nil || !sale.HasClient() {
		return nil
	}

	if err := s.clientRepo.DebitCredit(ctx, *sale.ClientID, payment.Value); err != nil {
		return err
	}

	receivable, err := s.receivableRepo.FindBySale(ctx, sale.ID)
	if err != nil {
		// A credit sale without a receivable row is legal (already settled
		// and purged); anything else is a real failure
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == "NOT_FOUND" {
			return nil
		}
		return err
	}
	if err := receivable.Cancel(); err != nil {
		return err
	}
	return s.receivableRepo.Save(ctx, receivable)
}

// reverseLoyalty takes back the points earned on the sale, mirroring the earn
// movement with a reversal entry
func (s *ReversalService) reverseLoyalty(ctx context.Context, sale *sales.Sale, docLabel string) error {
	if !sale.HasClient() {
		return nil
	}

	earn, err := s.loyaltyRepo.FindEarnBySale(ctx, sale.ID)
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == "NOT_FOUND" {
			return nil
		}
		return err
	}

	reversal, err := partner.NewLoyaltyReversal(earn, fmt.Sprintf("Cancellation %s", docLabel))
	if err != nil {
		return err
	}
	if err := s.loyaltyRepo.Append(ctx, reversal); err != nil {
		return err
	}
	return s.clientRepo.DebitLoyaltyPoints(ctx, *sale.ClientID, earn.Points)
}
