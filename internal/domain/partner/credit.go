package partner

import (
	"time"

	"github.com/shopspring/decimal"
)

// LimitSource identifies which configuration level produced an
// effective credit limit.
type LimitSource string

const (
	LimitSourceGlobal LimitSource = "global"
	LimitSourceStore  LimitSource = "store"
)

// CreditLimitResolution is the outcome of resolving the effective
// credit limit for a customer in a store context.
type CreditLimitResolution struct {
	Source LimitSource
	Value  decimal.Decimal
}

// ResolveCreditLimit resolves the effective credit limit for a customer
// at a store. A store-level override, when present, wins over the global
// default even when the override is zero. Passing a nil link means the
// customer has no row for that store and the global default applies.
func ResolveCreditLimit(c *Customer, link *CustomerStore) CreditLimitResolution {
	if link != nil && link.CreditLimit != nil {
		return CreditLimitResolution{Source: LimitSourceStore, Value: *link.CreditLimit}
	}
	return CreditLimitResolution{Source: LimitSourceGlobal, Value: c.CreditLimit}
}

// ResolveAdminLimit resolves the limit shown in cross-store views: the
// global default when one is configured, otherwise the largest
// store-level override, otherwise zero.
func ResolveAdminLimit(c *Customer, links []CustomerStore) decimal.Decimal {
	if c.CreditLimit.GreaterThan(decimal.Zero) {
		return c.CreditLimit
	}
	maxLimit := decimal.Zero
	for _, link := range links {
		if link.CreditLimit != nil && link.CreditLimit.GreaterThan(maxLimit) {
			maxLimit = *link.CreditLimit
		}
	}
	return maxLimit
}

// BypassLevel identifies which configuration level granted a bypass
type BypassLevel string

const (
	BypassLevelNone   BypassLevel = "none"
	BypassLevelStore  BypassLevel = "store"
	BypassLevelGlobal BypassLevel = "global"
)

// BypassStatus is the outcome of evaluating credit-limit bypass flags.
// The Expired flags mark flags whose deadline has passed; callers
// persist the corresponding cleanup.
type BypassStatus struct {
	Bypassed      bool
	Level         BypassLevel
	Until         *time.Time
	StoreExpired  bool
	GlobalExpired bool
}

// EvaluateBypass checks the store-level bypass first, then the global
// one. A bypass with no deadline never expires; one whose deadline is
// at or before now has expired and no longer grants anything.
func EvaluateBypass(c *Customer, link *CustomerStore, now time.Time) BypassStatus {
	status := BypassStatus{Level: BypassLevelNone}

	if link != nil && link.BypassCreditLimit {
		if link.BypassUntil == nil || link.BypassUntil.After(now) {
			status.Bypassed = true
			status.Level = BypassLevelStore
			status.Until = link.BypassUntil
			return status
		}
		status.StoreExpired = true
	}

	if c.BypassCreditLimit {
		if c.BypassUntil == nil || c.BypassUntil.After(now) {
			status.Bypassed = true
			status.Level = BypassLevelGlobal
			status.Until = c.BypassUntil
			return status
		}
		status.GlobalExpired = true
	}

	return status
}

// WarningLevel grades how close a customer's debt is to its limit
type WarningLevel string

const (
	WarningSafe      WarningLevel = "safe"
	WarningWarning   WarningLevel = "warning"
	WarningDanger    WarningLevel = "danger"
	WarningOverlimit WarningLevel = "overlimit"
	WarningUnlocked  WarningLevel = "unlocked"
)

// UsagePercent returns debt as a percentage of limit, rounded to two
// decimal places. A non-positive limit yields zero.
func UsagePercent(debt, limit decimal.Decimal) decimal.Decimal {
	if !limit.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	return debt.Div(limit).Mul(decimal.NewFromInt(100)).Round(2)
}

// CreditWarningLevel grades the credit status of a customer. Internal
// accounts are never flagged; bypassed customers show as unlocked; a
// customer with no limit configured is over limit by definition.
func CreditWarningLevel(customerType CustomerType, bypassed bool, debt, limit decimal.Decimal) WarningLevel {
	if customerType == CustomerTypeInternal {
		return WarningSafe
	}
	if bypassed {
		return WarningUnlocked
	}
	if !limit.GreaterThan(decimal.Zero) {
		return WarningOverlimit
	}

	percent := UsagePercent(debt, limit)
	switch {
	case percent.GreaterThanOrEqual(decimal.NewFromInt(100)):
		return WarningOverlimit
	case percent.GreaterThanOrEqual(decimal.NewFromInt(90)):
		return WarningDanger
	case percent.GreaterThanOrEqual(decimal.NewFromInt(75)):
		return WarningWarning
	default:
		return WarningSafe
	}
}
