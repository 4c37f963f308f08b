package domain

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// AccountType is the classification driving normal-balance conventions.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// NormalSide returns the side that increases an account of this type.
func (t AccountType) NormalSide() Side {
	switch t {
	case AccountTypeAsset, AccountTypeExpense:
		return SideDebit
	default:
		return SideCredit
	}
}

// NetBalance applies the normal-balance convention to debit and credit totals.
func (t AccountType) NetBalance(debit, credit decimal.Decimal) decimal.Decimal {
	if t.NormalSide() == SideDebit {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

// AccountRole separates grouping accounts from leaf accounts.
type AccountRole string

const (
	AccountRoleHeader  AccountRole = "HEADER"
	AccountRolePosting AccountRole = "POSTING"
)

// AccountStatus is the activity state of an account.
type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "ACTIVE"
	AccountStatusInactive AccountStatus = "INACTIVE"
)

// CurrencyPolicy restricts which currencies may be posted to an account.
type CurrencyPolicy string

const (
	CurrencyPolicyFixed      CurrencyPolicy = "FIXED"
	CurrencyPolicyRestricted CurrencyPolicy = "RESTRICTED"
	CurrencyPolicyInherit    CurrencyPolicy = "INHERIT"
	CurrencyPolicyOpen       CurrencyPolicy = "OPEN"
)

// Account is a chart-of-accounts entry. The posting engine only reads accounts.
type Account struct {
	ID                   string
	CompanyID            string
	Code                 string
	Name                 string
	Type                 AccountType
	Role                 AccountRole
	Status               AccountStatus
	ParentID             *string
	HasChildren          bool
	CurrencyPolicy       CurrencyPolicy
	FixedCurrencyCode    string
	AllowedCurrencyCodes []string
	ReplacedByAccountID  *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// IsReplaced reports whether the account has been superseded by another one.
func (a *Account) IsReplaced() bool {
	return a.ReplacedByAccountID != nil && *a.ReplacedByAccountID != ""
}

// CurrencyRule is an effective currency restriction, possibly inherited from a parent.
type CurrencyRule struct {
	Policy        CurrencyPolicy
	FixedCode     string
	AllowedCodes  []string
	DefinedByCode string
}

// OwnCurrencyRule returns the account's own currency restriction.
func (a *Account) OwnCurrencyRule() CurrencyRule {
	policy := a.CurrencyPolicy
	if policy == "" {
		policy = CurrencyPolicyOpen
	}
	return CurrencyRule{
		Policy:        policy,
		FixedCode:     a.FixedCurrencyCode,
		AllowedCodes:  a.AllowedCurrencyCodes,
		DefinedByCode: a.Code,
	}
}

// Allows reports whether currency satisfies the rule. INHERIT must be resolved
// by the caller first; an unresolved INHERIT behaves like OPEN.
func (r CurrencyRule) Allows(currency string) bool {
	switch r.Policy {
	case CurrencyPolicyFixed:
		return currency == r.FixedCode
	case CurrencyPolicyRestricted:
		return slices.Contains(r.AllowedCodes, currency)
	default:
		return true
	}
}

// Company is the tenant owning vouchers and accounts.
type Company struct {
	ID           string
	Name         string
	BaseCurrency string
}
