package bonus

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/MariusRejdak/igaming/internal/wallet"
)

const (
	ActionDeposit = "deposit"
	ActionLogin   = "login"
)

var (
	ErrInvalidAmount     = errors.New("bonus amount must be greater than zero")
	ErrNegativeMinAmount = errors.New("bonus minimum amount cannot be negative")
)

// Definition is a bonus template, not tied to any customer. The rule engine
// grants matching definitions when their triggering action occurs with an
// amount at or above MinAmount. Reference data, edited by the admin side only.
type Definition struct {
	BonusID             string          `gorm:"column:bonus_id;primaryKey;type:uuid"`
	Amount              decimal.Decimal `gorm:"column:amount;type:numeric(20,2);not null"`
	Currency            string          `gorm:"column:currency;type:varchar(3);not null"`
	WageringRequirement int             `gorm:"column:wagering_requirement;not null;default:0"`
	Action              string          `gorm:"column:action;type:varchar(7);not null"`
	MinAmount           decimal.Decimal `gorm:"column:min_amount;type:numeric(20,2);not null;default:0"`
	CreatedAt           time.Time       `gorm:"column:created_at;not null"`
	UpdatedAt           time.Time       `gorm:"column:updated_at;not null"`
}

func (Definition) TableName() string {
	return "bonus_definitions"
}

func (d *Definition) Validate() error {
	if !d.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if d.MinAmount.IsNegative() {
		return ErrNegativeMinAmount
	}
	if d.Currency == wallet.CurrencyBonus && (d.WageringRequirement < 1 || d.WageringRequirement > 100) {
		return wallet.ErrWageringRequirement
	}
	return nil
}

func (d *Definition) BeforeCreate(tx *gorm.DB) error {
	if d.BonusID == "" {
		d.BonusID = uuid.New().String()
	}
	return nil
}

func (d *Definition) BeforeSave(tx *gorm.DB) error {
	return d.Validate()
}
