package wallet_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/MariusRejdak/igaming/internal/wallet"
)

func TestPrimaryWalletExemptFromWageringCheck(t *testing.T) {
	for _, req := range []int{-1, 0, 50} {
		w := wallet.Wallet{
			Amount:              decimal.Zero,
			Currency:            wallet.CurrencyEuro,
			WageringRequirement: req,
		}
		require.NoError(t, w.Validate())
		require.False(t, w.IsBonus())
	}
}

func TestBonusWalletValidWageringRequirement(t *testing.T) {
	for _, req := range []int{1, 5, 100} {
		w := wallet.Wallet{
			Amount:              decimal.Zero,
			Currency:            wallet.CurrencyBonus,
			WageringRequirement: req,
		}
		require.NoError(t, w.Validate())
		require.True(t, w.IsBonus())
	}
}

func TestBonusWalletInvalidWageringRequirement(t *testing.T) {
	for _, req := range []int{-1, 0, 101} {
		w := wallet.Wallet{
			Amount:              decimal.Zero,
			Currency:            wallet.CurrencyBonus,
			WageringRequirement: req,
		}
		require.ErrorIs(t, w.Validate(), wallet.ErrWageringRequirement)
	}
}

func TestNegativeAmountInvalid(t *testing.T) {
	w := wallet.Wallet{
		Amount:              decimal.NewFromInt(-1),
		Currency:            wallet.CurrencyEuro,
		WageringRequirement: 0,
	}
	require.ErrorIs(t, w.Validate(), wallet.ErrNegativeAmount)
}
