package wallet

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MariusRejdak/igaming/internal/event"
)

// BonusGrant describes a bonus about to be credited: either a direct credit to
// the primary wallet (EUR) or a new bonus wallet (BNS) carrying a wagering
// requirement.
type BonusGrant struct {
	Amount              decimal.Decimal
	Currency            string
	WageringRequirement int
}

// Service performs the financial operations for one customer. The customer and
// their primary wallet are resolved, or lazily created, on construction.
type Service struct {
	db       *gorm.DB
	repo     Repository
	bus      *event.Bus
	customer *Customer
}

func NewService(ctx context.Context, db *gorm.DB, repo Repository, bus *event.Bus, userID string) (*Service, error) {
	customer, err := repo.GetOrCreateCustomer(ctx, userID)
	if err != nil {
		return nil, err
	}

	s := &Service{db: db, repo: repo, bus: bus, customer: customer}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := repo.LockCustomer(ctx, tx, customer.CustomerID)
		if err != nil {
			return err
		}
		_, err = repo.GetOrCreatePrimaryWallet(ctx, tx, locked)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) Customer() *Customer {
	return s.customer
}

// GrantBonus credits the bonus described by grant. EUR grants go straight to
// the primary wallet; BNS grants open a new bonus wallet that must complete
// its wagering requirement before conversion.
func (s *Service) GrantBonus(ctx context.Context, grant BonusGrant) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := s.repo.LockCustomer(ctx, tx, s.customer.CustomerID)
		if err != nil {
			return err
		}

		if grant.Currency == CurrencyEuro {
			primary, err := s.repo.GetOrCreatePrimaryWallet(ctx, tx, customer)
			if err != nil {
				return err
			}
			return s.credit(ctx, tx, primary, grant.Amount, TxTypeBonus)
		}

		w := Wallet{
			CustomerID:          customer.CustomerID,
			Amount:              grant.Amount,
			Currency:            grant.Currency,
			WageringRequirement: grant.WageringRequirement,
		}
		if err := tx.WithContext(ctx).Create(&w).Error; err != nil {
			return fmt.Errorf("failed to create bonus wallet: %w", err)
		}
		return s.record(ctx, tx, &w, grant.Amount, decimal.Zero, TxTypeBonus)
	})
}

// ConvertBonusToPrimary moves the entire remaining bonus balance to the
// primary wallet and retires the bonus wallet. Both writes commit together.
func (s *Service) ConvertBonusToPrimary(ctx context.Context, bonusWallet *Wallet) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := s.repo.LockCustomer(ctx, tx, s.customer.CustomerID)
		if err != nil {
			return err
		}

		var w Wallet
		if err := tx.WithContext(ctx).Where("wallet_id = ?", bonusWallet.WalletID).First(&w).Error; err != nil {
			return fmt.Errorf("failed to reload bonus wallet: %w", err)
		}
		if w.Depleted {
			return nil
		}

		primary, err := s.repo.GetOrCreatePrimaryWallet(ctx, tx, customer)
		if err != nil {
			return err
		}
		if err := s.credit(ctx, tx, primary, w.Amount, TxTypeConversion); err != nil {
			return err
		}

		before := w.Amount
		w.Amount = decimal.Zero
		w.Depleted = true
		if err := tx.WithContext(ctx).Save(&w).Error; err != nil {
			return fmt.Errorf("failed to deplete bonus wallet: %w", err)
		}
		if err := s.record(ctx, tx, &w, before.Neg(), before, TxTypeConversion); err != nil {
			return err
		}

		bonusWallet.Amount = w.Amount
		bonusWallet.Depleted = w.Depleted
		return nil
	})
}

// Deposit credits the primary wallet and publishes Deposited once the credit
// has committed. The amount is accepted as-is, matching the historical
// behavior of leaving deposit validation to the caller.
func (s *Service) Deposit(ctx context.Context, amount decimal.Decimal) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := s.repo.LockCustomer(ctx, tx, s.customer.CustomerID)
		if err != nil {
			return err
		}
		primary, err := s.repo.GetOrCreatePrimaryWallet(ctx, tx, customer)
		if err != nil {
			return err
		}
		return s.credit(ctx, tx, primary, amount, TxTypeDeposit)
	})
	if err != nil {
		return err
	}

	log.Printf("Deposit committed: user=%s amount=%s", s.customer.UserID, amount.String())
	s.bus.Publish(event.TopicDeposited, event.Deposited{UserID: s.customer.UserID, Amount: amount})
	return nil
}

// Withdraw debits the primary wallet. Insufficient funds is an expected
// outcome reported as false, with no mutation and no event.
func (s *Service) Withdraw(ctx context.Context, amount decimal.Decimal) (bool, error) {
	ok := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := s.repo.LockCustomer(ctx, tx, s.customer.CustomerID)
		if err != nil {
			return err
		}
		primary, err := s.repo.GetOrCreatePrimaryWallet(ctx, tx, customer)
		if err != nil {
			return err
		}
		if primary.Amount.LessThan(amount) {
			return nil
		}

		before := primary.Amount
		primary.Amount = primary.Amount.Sub(amount)
		if err := tx.WithContext(ctx).Save(primary).Error; err != nil {
			return fmt.Errorf("failed to debit primary wallet: %w", err)
		}
		if err := s.record(ctx, tx, primary, amount.Neg(), before, TxTypeWithdrawal); err != nil {
			return err
		}
		ok = true
		return nil
	})
	return ok, err
}

func (s *Service) WalletsReadyToConvert(ctx context.Context) ([]Wallet, error) {
	customer, err := s.repo.GetOrCreateCustomer(ctx, s.customer.UserID)
	if err != nil {
		return nil, err
	}
	s.customer = customer
	return s.repo.WalletsReadyToConvert(ctx, s.db, customer)
}

func (s *Service) AllWallets(ctx context.Context) ([]Wallet, error) {
	return s.repo.AllWalletsOrdered(ctx, s.customer)
}

func (s *Service) credit(ctx context.Context, tx *gorm.DB, w *Wallet, amount decimal.Decimal, txType string) error {
	before := w.Amount
	w.Amount = w.Amount.Add(amount)
	if err := tx.WithContext(ctx).Save(w).Error; err != nil {
		return fmt.Errorf("failed to credit wallet: %w", err)
	}
	return s.record(ctx, tx, w, amount, before, txType)
}

func (s *Service) record(ctx context.Context, tx *gorm.DB, w *Wallet, amount, before decimal.Decimal, txType string) error {
	t := Transaction{
		WalletID:      w.WalletID,
		CustomerID:    w.CustomerID,
		Type:          txType,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  w.Amount,
	}
	if err := tx.WithContext(ctx).Create(&t).Error; err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}
	return nil
}
