package domain

import (
	"testing"
)

func TestAccountType_NetBalance(t *testing.T) {
	tests := []struct {
		accountType AccountType
		want        string
	}{
		{AccountTypeAsset, "70"},
		{AccountTypeExpense, "70"},
		{AccountTypeLiability, "-70"},
		{AccountTypeEquity, "-70"},
		{AccountTypeRevenue, "-70"},
	}

	for _, tt := range tests {
		t.Run(string(tt.accountType), func(t *testing.T) {
			got := tt.accountType.NetBalance(dec("100"), dec("30"))
			if !got.Equal(dec(tt.want)) {
				t.Errorf("NetBalance = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCurrencyRule_Allows(t *testing.T) {
	tests := []struct {
		name     string
		rule     CurrencyRule
		currency string
		want     bool
	}{
		{"fixed match", CurrencyRule{Policy: CurrencyPolicyFixed, FixedCode: "USD"}, "USD", true},
		{"fixed mismatch", CurrencyRule{Policy: CurrencyPolicyFixed, FixedCode: "USD"}, "EUR", false},
		{"restricted allowed", CurrencyRule{Policy: CurrencyPolicyRestricted, AllowedCodes: []string{"USD", "EUR"}}, "EUR", true},
		{"restricted rejected", CurrencyRule{Policy: CurrencyPolicyRestricted, AllowedCodes: []string{"USD", "EUR"}}, "GBP", false},
		{"open", CurrencyRule{Policy: CurrencyPolicyOpen}, "JPY", true},
		{"unresolved inherit", CurrencyRule{Policy: CurrencyPolicyInherit}, "JPY", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.Allows(tt.currency); got != tt.want {
				t.Errorf("Allows(%s) = %v, want %v", tt.currency, got, tt.want)
			}
		})
	}
}

func TestAccount_OwnCurrencyRuleDefaultsToOpen(t *testing.T) {
	acc := &Account{Code: "1000"}
	rule := acc.OwnCurrencyRule()
	if rule.Policy != CurrencyPolicyOpen || rule.DefinedByCode != "1000" {
		t.Errorf("unexpected rule %+v", rule)
	}

	replacement := "acc-2"
	acc.ReplacedByAccountID = &replacement
	if !acc.IsReplaced() {
		t.Error("expected account to be replaced")
	}
}
