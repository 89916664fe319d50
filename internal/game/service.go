package game

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MariusRejdak/igaming/internal/event"
	"github.com/MariusRejdak/igaming/internal/wallet"
)

const (
	StatusWon               = "won"
	StatusLost              = "lost"
	StatusInsufficientFunds = "insufficient funds"
)

// Logic is the single capability a game variant implements: compute the
// balance change and status message for a stake. Wallet selection, balance
// updates, and spend accounting are shared and live in Service.
type Logic interface {
	Play(stake decimal.Decimal) (decimal.Decimal, string)
}

// Service places bets for one customer using a specific game's Logic.
type Service struct {
	db       *gorm.DB
	repo     wallet.Repository
	bus      *event.Bus
	customer *wallet.Customer
	logic    Logic
}

func NewService(ctx context.Context, db *gorm.DB, repo wallet.Repository, bus *event.Bus, userID string, logic Logic) (*Service, error) {
	customer, err := repo.GetOrCreateCustomer(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Service{db: db, repo: repo, bus: bus, customer: customer, logic: logic}, nil
}

// PlaceBet funds the stake from the first wallet covering it, applies the
// game outcome to that wallet, and counts the stake toward the customer's
// cumulative spend whether the bet wins or loses. All writes commit together.
// When no wallet covers the stake it reports (0, "insufficient funds") with
// no mutation.
func (s *Service) PlaceBet(ctx context.Context, stake decimal.Decimal) (decimal.Decimal, string, error) {
	delta := decimal.Zero
	status := StatusInsufficientFunds
	placed := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := s.repo.LockCustomer(ctx, tx, s.customer.CustomerID)
		if err != nil {
			return err
		}

		w, err := s.repo.FirstWalletCovering(ctx, tx, customer, stake)
		if err != nil {
			return err
		}
		if w == nil {
			return nil
		}

		delta, status = s.logic.Play(stake)

		before := w.Amount
		w.Amount = w.Amount.Add(delta)
		if err := tx.WithContext(ctx).Save(w).Error; err != nil {
			return fmt.Errorf("failed to update funding wallet: %w", err)
		}

		// The stake is spent win or lose; this is what advances wagering
		// requirements on bonus wallets.
		customer.OverallSpentMoney = customer.OverallSpentMoney.Add(stake)
		if err := tx.WithContext(ctx).Save(customer).Error; err != nil {
			return fmt.Errorf("failed to update customer spend: %w", err)
		}

		t := wallet.Transaction{
			WalletID:      w.WalletID,
			CustomerID:    customer.CustomerID,
			Type:          wallet.TxTypeBet,
			Amount:        delta,
			BalanceBefore: before,
			BalanceAfter:  w.Amount,
		}
		if err := tx.WithContext(ctx).Create(&t).Error; err != nil {
			return fmt.Errorf("failed to record bet: %w", err)
		}

		placed = true
		return nil
	})
	if err != nil {
		return decimal.Zero, "", err
	}

	if placed {
		s.bus.Publish(event.TopicCustomerUpdated, event.CustomerUpdated{UserID: s.customer.UserID})
	}
	return delta, status, nil
}
