package wallet

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	CurrencyEuro  = "EUR"
	CurrencyBonus = "BNS"
)

const (
	TxTypeDeposit    = "deposit"
	TxTypeWithdrawal = "withdrawal"
	TxTypeBet        = "bet"
	TxTypeBonus      = "bonus"
	TxTypeConversion = "conversion"
)

var (
	ErrWageringRequirement = errors.New("bonus wallets require a wagering requirement between 1 and 100")
	ErrNegativeAmount      = errors.New("wallet amount cannot be negative")
)

// Customer carries the per-user accounting state shared by all wallets.
// OverallSpentMoney is the cumulative staked amount, win or lose; it never decreases.
type Customer struct {
	CustomerID        string          `gorm:"column:customer_id;primaryKey;type:uuid"`
	UserID            string          `gorm:"column:user_id;type:varchar(255);not null;uniqueIndex"`
	OverallSpentMoney decimal.Decimal `gorm:"column:overall_spent_money;type:numeric(20,2);not null;default:0"`
	CreatedAt         time.Time       `gorm:"column:created_at;not null"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;not null"`
}

func (Customer) TableName() string {
	return "customers"
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.CustomerID == "" {
		c.CustomerID = uuid.New().String()
	}
	return nil
}

type Wallet struct {
	WalletID            string          `gorm:"column:wallet_id;primaryKey;type:uuid"`
	CustomerID          string          `gorm:"column:customer_id;type:uuid;not null;index"`
	Amount              decimal.Decimal `gorm:"column:amount;type:numeric(20,2);not null;default:0"`
	Currency            string          `gorm:"column:currency;type:varchar(3);not null"`
	WageringRequirement int             `gorm:"column:wagering_requirement;not null;default:0"`
	SpentMoneyOnStart   decimal.Decimal `gorm:"column:spent_money_on_start;type:numeric(20,2);not null;default:0"`
	Depleted            bool            `gorm:"column:depleted;not null;default:false"`
	CreatedAt           time.Time       `gorm:"column:created_at;not null"`
	UpdatedAt           time.Time       `gorm:"column:updated_at;not null"`
}

func (Wallet) TableName() string {
	return "wallets"
}

func (w *Wallet) IsBonus() bool {
	return w.Currency == CurrencyBonus
}

// Validate enforces the wallet invariants. Bonus wallets carry a wagering
// requirement between 1 and 100; primary wallets are exempt.
func (w *Wallet) Validate() error {
	if w.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if w.IsBonus() && (w.WageringRequirement < 1 || w.WageringRequirement > 100) {
		return ErrWageringRequirement
	}
	return nil
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	if w.WalletID == "" {
		w.WalletID = uuid.New().String()
	}

	// Snapshot the customer's cumulative spend at creation time. The wagering
	// check compares against this value; it is never mutated afterward.
	var c Customer
	if err := tx.Where("customer_id = ?", w.CustomerID).First(&c).Error; err != nil {
		return err
	}
	w.SpentMoneyOnStart = c.OverallSpentMoney
	return nil
}

func (w *Wallet) BeforeSave(tx *gorm.DB) error {
	if err := w.Validate(); err != nil {
		return err
	}
	// A bonus wallet spent down to zero is terminal, whether by losing bets
	// or by conversion. Primary wallets never deplete.
	if w.IsBonus() && !w.Amount.IsPositive() {
		w.Depleted = true
	}
	return nil
}

// Transaction is the audit row written alongside every balance mutation,
// inside the same database transaction as the mutation itself.
type Transaction struct {
	TransactionID string          `gorm:"column:transaction_id;primaryKey;type:uuid"`
	WalletID      string          `gorm:"column:wallet_id;type:uuid;not null;index"`
	CustomerID    string          `gorm:"column:customer_id;type:uuid;not null;index"`
	Type          string          `gorm:"column:type;type:varchar(20);not null"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(20,2);not null"`
	BalanceBefore decimal.Decimal `gorm:"column:balance_before;type:numeric(20,2);not null"`
	BalanceAfter  decimal.Decimal `gorm:"column:balance_after;type:numeric(20,2);not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;not null"`
}

func (Transaction) TableName() string {
	return "wallet_transactions"
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.TransactionID == "" {
		t.TransactionID = uuid.New().String()
	}
	return nil
}
