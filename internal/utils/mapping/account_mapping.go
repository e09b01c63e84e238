package mapping

import (
	"github.com/mikopo/ledger_service/internal/core/domain"
	"github.com/mikopo/ledger_service/internal/models"
)

// ToModelAccount converts a domain.Account to its persistence shape.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:       d.AccountID,
		TenantID:        d.TenantID,
		Code:            d.Code,
		Name:            d.Name,
		AccountType:     models.AccountType(d.AccountType),
		BalanceType:     models.BalanceType(d.BalanceType),
		ParentAccountID: d.ParentAccountID,
		IsActive:        d.IsActive,
		AuditFields:     toModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a persisted account to the domain shape.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:       m.AccountID,
		TenantID:        m.TenantID,
		Code:            m.Code,
		Name:            m.Name,
		AccountType:     domain.AccountType(m.AccountType),
		BalanceType:     domain.BalanceType(m.BalanceType),
		ParentAccountID: m.ParentAccountID,
		IsActive:        m.IsActive,
		AuditFields:     toDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of persisted accounts.
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
