package bonus_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/MariusRejdak/igaming/internal/bonus"
	"github.com/MariusRejdak/igaming/internal/wallet"
)

func TestDefinitionValid(t *testing.T) {
	d := bonus.Definition{
		Amount:              decimal.NewFromInt(1),
		Currency:            wallet.CurrencyEuro,
		WageringRequirement: 0,
		Action:              bonus.ActionDeposit,
		MinAmount:           decimal.Zero,
	}
	require.NoError(t, d.Validate())
}

func TestDefinitionAmountMustBePositive(t *testing.T) {
	for _, amount := range []int64{0, -1} {
		d := bonus.Definition{
			Amount:    decimal.NewFromInt(amount),
			Currency:  wallet.CurrencyEuro,
			Action:    bonus.ActionDeposit,
			MinAmount: decimal.Zero,
		}
		require.ErrorIs(t, d.Validate(), bonus.ErrInvalidAmount)
	}
}

func TestDefinitionMinAmountNonNegative(t *testing.T) {
	d := bonus.Definition{
		Amount:    decimal.NewFromInt(1),
		Currency:  wallet.CurrencyEuro,
		Action:    bonus.ActionDeposit,
		MinAmount: decimal.NewFromInt(-1),
	}
	require.ErrorIs(t, d.Validate(), bonus.ErrNegativeMinAmount)
}

func TestDefinitionBonusCurrencyWageringBounds(t *testing.T) {
	for req, wantErr := range map[int]bool{0: true, 1: false, 100: false, 101: true} {
		d := bonus.Definition{
			Amount:              decimal.NewFromInt(5),
			Currency:            wallet.CurrencyBonus,
			WageringRequirement: req,
			Action:              bonus.ActionLogin,
			MinAmount:           decimal.Zero,
		}
		err := d.Validate()
		if wantErr {
			require.ErrorIs(t, err, wallet.ErrWageringRequirement, "requirement %d", req)
		} else {
			require.NoError(t, err, "requirement %d", req)
		}
	}
}
