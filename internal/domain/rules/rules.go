// Package rules holds the account validation rule chain run before any
// ledger line is accepted for an account.
package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iho/erpledger/internal/domain"
)

// Context is the input of a rule evaluation.
type Context struct {
	Account *domain.Account

	// Currency of the line being posted. Empty skips currency checks.
	Currency string

	// InheritedPolicy is the nearest non-INHERIT ancestor rule, resolved by
	// the caller. Nil means no ancestor defines one.
	InheritedPolicy *domain.CurrencyRule
}

// Result is the outcome of a single rule.
type Result struct {
	Valid  bool
	Reason string
}

// Pass is the successful Result.
func Pass() Result {
	return Result{Valid: true}
}

// Fail builds a failed Result.
func Fail(format string, args ...any) Result {
	return Result{Reason: fmt.Sprintf(format, args...)}
}

// Rule is one predicate of the chain. Lower priorities run first.
type Rule struct {
	Name      string
	Priority  int
	AppliesTo func(Context) bool
	Check     func(Context) Result
}

// Chain evaluates rules in priority order.
type Chain struct {
	rules []Rule
}

// NewChain returns a chain with rules sorted by priority. Rules sharing a
// priority keep their given order.
func NewChain(rules ...Rule) *Chain {
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})
	return &Chain{rules: sorted}
}

// Rules returns the rules in evaluation order.
func (c *Chain) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Evaluate runs every applicable rule and returns all failures. It never
// stops at the first one.
func (c *Chain) Evaluate(ctx Context) []domain.Violation {
	if ctx.Account == nil {
		return []domain.Violation{{Rule: "account_required", Reason: "account is required"}}
	}

	var violations []domain.Violation
	for _, r := range c.rules {
		if r.AppliesTo != nil && !r.AppliesTo(ctx) {
			continue
		}
		res := r.Check(ctx)
		if res.Valid {
			continue
		}
		violations = append(violations, domain.Violation{
			AccountID:   ctx.Account.ID,
			AccountCode: ctx.Account.Code,
			Rule:        r.Name,
			Reason:      res.Reason,
		})
	}
	return violations
}

// Default returns the built-in chain.
func Default() *Chain {
	return NewChain(
		PostingAccountOnly(),
		ActiveAccountOnly(),
		NoParentAccount(),
		CurrencyPolicy(),
	)
}

// PostingAccountOnly rejects HEADER accounts and accounts replaced by another one.
func PostingAccountOnly() Rule {
	return Rule{
		Name:     "posting_account_only",
		Priority: 1,
		Check: func(ctx Context) Result {
			acc := ctx.Account
			if acc.Role != domain.AccountRolePosting {
				return Fail("account %s is a %s account and cannot receive postings", acc.Code, strings.ToLower(string(acc.Role)))
			}
			if acc.IsReplaced() {
				return Fail("account %s has been replaced by account %s", acc.Code, *acc.ReplacedByAccountID)
			}
			return Pass()
		},
	}
}

// ActiveAccountOnly rejects inactive accounts.
func ActiveAccountOnly() Rule {
	return Rule{
		Name:     "active_account_only",
		Priority: 5,
		Check: func(ctx Context) Result {
			if ctx.Account.Status != domain.AccountStatusActive {
				return Fail("account %s is inactive", ctx.Account.Code)
			}
			return Pass()
		},
	}
}

// NoParentAccount rejects accounts that have children, whatever their role says.
func NoParentAccount() Rule {
	return Rule{
		Name:     "no_parent_account",
		Priority: 10,
		Check: func(ctx Context) Result {
			if ctx.Account.HasChildren {
				return Fail("account %s has child accounts and cannot receive postings", ctx.Account.Code)
			}
			return Pass()
		},
	}
}

// CurrencyPolicy enforces the account's effective currency restriction.
func CurrencyPolicy() Rule {
	return Rule{
		Name:     "currency_policy",
		Priority: 15,
		AppliesTo: func(ctx Context) bool {
			return ctx.Currency != ""
		},
		Check: func(ctx Context) Result {
			rule := EffectiveCurrencyRule(ctx.Account, ctx.InheritedPolicy)
			if rule.Allows(ctx.Currency) {
				return Pass()
			}

			source := ""
			if rule.DefinedByCode != ctx.Account.Code {
				source = fmt.Sprintf(" (inherited from %s)", rule.DefinedByCode)
			}
			switch rule.Policy {
			case domain.CurrencyPolicyFixed:
				return Fail("account %s only accepts %s%s, got %s", ctx.Account.Code, rule.FixedCode, source, ctx.Currency)
			default:
				return Fail("account %s accepts %s%s, got %s",
					ctx.Account.Code, strings.Join(rule.AllowedCodes, ", "), source, ctx.Currency)
			}
		},
	}
}

// EffectiveCurrencyRule resolves INHERIT against the inherited rule. An
// INHERIT account with no defining ancestor accepts any currency.
func EffectiveCurrencyRule(acc *domain.Account, inherited *domain.CurrencyRule) domain.CurrencyRule {
	own := acc.OwnCurrencyRule()
	if own.Policy != domain.CurrencyPolicyInherit {
		return own
	}
	if inherited == nil || inherited.Policy == domain.CurrencyPolicyInherit {
		return domain.CurrencyRule{Policy: domain.CurrencyPolicyOpen, DefinedByCode: acc.Code}
	}
	return *inherited
}
