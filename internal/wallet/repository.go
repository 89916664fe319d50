package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrCustomerNotFound = errors.New("customer not found")

// Repository is the query/selection layer over customers and their wallets.
// Methods taking a tx expect to run inside an open transaction holding the
// customer row lock; everything else manages its own transaction.
type Repository interface {
	GetOrCreateCustomer(ctx context.Context, userID string) (*Customer, error)
	LockCustomer(ctx context.Context, tx *gorm.DB, customerID string) (*Customer, error)
	GetOrCreatePrimaryWallet(ctx context.Context, tx *gorm.DB, customer *Customer) (*Wallet, error)
	FirstWalletCovering(ctx context.Context, tx *gorm.DB, customer *Customer, amount decimal.Decimal) (*Wallet, error)
	WalletsReadyToConvert(ctx context.Context, tx *gorm.DB, customer *Customer) ([]Wallet, error)
	AllWalletsOrdered(ctx context.Context, customer *Customer) ([]Wallet, error)
}

type RepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

// GetOrCreateCustomer maps an external user identity to a customer record,
// creating one lazily on first access. Concurrent first access is resolved by
// an upsert on the unique user_id column; both callers observe the same row.
func (r *RepositoryImpl) GetOrCreateCustomer(ctx context.Context, userID string) (*Customer, error) {
	var c Customer
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&c).Error
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	c = Customer{
		UserID:            userID,
		OverallSpentMoney: decimal.Zero,
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&c).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	// Re-read so a lost conflict still yields the winning row.
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&c).Error; err != nil {
		return nil, fmt.Errorf("failed to get customer after create: %w", err)
	}
	return &c, nil
}

// LockCustomer takes the row lock serializing all financial operations for one
// customer. Operations for different customers never contend.
func (r *RepositoryImpl) LockCustomer(ctx context.Context, tx *gorm.DB, customerID string) (*Customer, error) {
	var c Customer
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("customer_id = ?", customerID).
		First(&c).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to lock customer: %w", err)
	}
	return &c, nil
}

// GetOrCreatePrimaryWallet returns the customer's unique non-depleted primary
// wallet, creating it with a zero balance if absent. Idempotent; the caller
// must hold the customer row lock so at most one wallet is ever created.
func (r *RepositoryImpl) GetOrCreatePrimaryWallet(ctx context.Context, tx *gorm.DB, customer *Customer) (*Wallet, error) {
	var w Wallet
	err := tx.WithContext(ctx).
		Where("customer_id = ? AND currency = ? AND depleted = false", customer.CustomerID, CurrencyEuro).
		First(&w).Error
	if err == nil {
		return &w, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get primary wallet: %w", err)
	}

	w = Wallet{
		CustomerID:          customer.CustomerID,
		Amount:              decimal.Zero,
		Currency:            CurrencyEuro,
		WageringRequirement: 0,
	}
	if err := tx.WithContext(ctx).Create(&w).Error; err != nil {
		return nil, fmt.Errorf("failed to create primary wallet: %w", err)
	}
	return &w, nil
}

// FirstWalletCovering picks the wallet funding a bet: the primary wallet when
// its balance covers amount, otherwise the oldest non-depleted bonus wallet
// that does. Returns (nil, nil) when no wallet covers the amount.
func (r *RepositoryImpl) FirstWalletCovering(ctx context.Context, tx *gorm.DB, customer *Customer, amount decimal.Decimal) (*Wallet, error) {
	primary, err := r.GetOrCreatePrimaryWallet(ctx, tx, customer)
	if err != nil {
		return nil, err
	}
	if primary.Amount.GreaterThanOrEqual(amount) {
		return primary, nil
	}

	var w Wallet
	err = tx.WithContext(ctx).
		Where("customer_id = ? AND currency = ? AND depleted = false AND amount >= ?",
			customer.CustomerID, CurrencyBonus, amount).
		Order("created_at ASC").
		First(&w).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find covering wallet: %w", err)
	}
	return &w, nil
}

// WalletsReadyToConvert returns every non-depleted bonus wallet whose wagering
// requirement has been met: the customer has staked at least
// amount * wagering_requirement since the wallet was created.
func (r *RepositoryImpl) WalletsReadyToConvert(ctx context.Context, tx *gorm.DB, customer *Customer) ([]Wallet, error) {
	var wallets []Wallet
	err := tx.WithContext(ctx).
		Where("customer_id = ? AND currency = ? AND depleted = false", customer.CustomerID, CurrencyBonus).
		Where("spent_money_on_start <= ? - amount * wagering_requirement", customer.OverallSpentMoney).
		Find(&wallets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find wallets ready to convert: %w", err)
	}
	return wallets, nil
}

// AllWalletsOrdered lists the customer's wallets, primary first, then bonus
// wallets by creation time ascending.
func (r *RepositoryImpl) AllWalletsOrdered(ctx context.Context, customer *Customer) ([]Wallet, error) {
	var wallets []Wallet
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := r.LockCustomer(ctx, tx, customer.CustomerID)
		if err != nil {
			return err
		}
		primary, err := r.GetOrCreatePrimaryWallet(ctx, tx, locked)
		if err != nil {
			return err
		}

		var bonusWallets []Wallet
		err = tx.WithContext(ctx).
			Where("customer_id = ? AND currency = ?", customer.CustomerID, CurrencyBonus).
			Order("created_at ASC").
			Find(&bonusWallets).Error
		if err != nil {
			return fmt.Errorf("failed to list bonus wallets: %w", err)
		}

		wallets = append([]Wallet{*primary}, bonusWallets...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return wallets, nil
}
