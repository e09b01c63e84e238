package accounting

import (
	"fmt"

	"github.com/mikopo/ledger_service/internal/core/domain"
	"github.com/shopspring/decimal"
)

// NetBalance computes an account's net balance from its debit and credit sums,
// following the normal-balance convention:
// DEBIT-balance accounts grow with debits (net = debits - credits),
// CREDIT-balance accounts grow with credits (net = credits - debits).
// Used by both the materializer and its tests so the sign convention lives in one place.
func NetBalance(balanceType domain.BalanceType, totalDebit, totalCredit decimal.Decimal) (decimal.Decimal, error) {
	switch balanceType {
	case domain.DebitBalance:
		return totalDebit.Sub(totalCredit), nil
	case domain.CreditBalance:
		return totalCredit.Sub(totalDebit), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown balance type '%s'", balanceType)
	}
}

// NormalSideColumns splits a net balance into trial-balance presentation columns.
// A non-negative net sits on the account's normal side; a negative net flips to the
// opposite column as a positive magnitude.
func NormalSideColumns(balanceType domain.BalanceType, net decimal.Decimal) (debit, credit decimal.Decimal) {
	onNormalSide := !net.IsNegative()
	magnitude := net.Abs()

	if (balanceType == domain.DebitBalance) == onNormalSide {
		return magnitude, decimal.Zero
	}
	return decimal.Zero, magnitude
}
