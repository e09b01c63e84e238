package accounting

import (
	"testing"

	"github.com/mikopo/ledger_service/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetBalance(t *testing.T) {
	tests := []struct {
		name        string
		balanceType domain.BalanceType
		debits      string
		credits     string
		want        string
	}{
		{"debit normal positive", domain.DebitBalance, "1500.00", "500.00", "1000.00"},
		{"debit normal negative", domain.DebitBalance, "100.00", "300.00", "-200.00"},
		{"credit normal positive", domain.CreditBalance, "200.00", "1200.00", "1000.00"},
		{"credit normal negative", domain.CreditBalance, "500.00", "100.00", "-400.00"},
		{"no activity", domain.DebitBalance, "0", "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net, err := NetBalance(tt.balanceType, decimal.RequireFromString(tt.debits), decimal.RequireFromString(tt.credits))
			require.NoError(t, err)
			assert.True(t, net.Equal(decimal.RequireFromString(tt.want)), "got %s, want %s", net, tt.want)
		})
	}
}

func TestNetBalance_UnknownType(t *testing.T) {
	_, err := NetBalance(domain.BalanceType("SIDEWAYS"), decimal.Zero, decimal.Zero)
	assert.Error(t, err)
}

func TestNormalSideColumns(t *testing.T) {
	tests := []struct {
		name        string
		balanceType domain.BalanceType
		net         string
		wantDebit   string
		wantCredit  string
	}{
		{"debit normal stays on debit side", domain.DebitBalance, "1000.00", "1000.00", "0"},
		{"debit normal negative flips to credit", domain.DebitBalance, "-200.00", "0", "200.00"},
		{"credit normal stays on credit side", domain.CreditBalance, "750.00", "0", "750.00"},
		{"credit normal negative flips to debit", domain.CreditBalance, "-50.00", "50.00", "0"},
		{"zero sits on the normal side", domain.DebitBalance, "0", "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			debit, credit := NormalSideColumns(tt.balanceType, decimal.RequireFromString(tt.net))
			assert.True(t, debit.Equal(decimal.RequireFromString(tt.wantDebit)), "debit: got %s, want %s", debit, tt.wantDebit)
			assert.True(t, credit.Equal(decimal.RequireFromString(tt.wantCredit)), "credit: got %s, want %s", credit, tt.wantCredit)
		})
	}
}
