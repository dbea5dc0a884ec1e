package model

import (
	"github.com/shopspring/decimal"
)

type Plan string

const (
	PlanSilver   Plan = "silver"
	PlanGold     Plan = "gold"
	PlanPlatinum Plan = "platinum"
	PlanDiamond  Plan = "diamond"
	PlanElite    Plan = "elite"
)

func (p Plan) String() string { return string(p) }

// PlanTerm is what activating an investment on a plan is worth.
type PlanTerm struct {
	Accrual       decimal.Decimal // added to the owner's ppd
	ReferralBonus decimal.Decimal // paid once to the owner's referrer
}

var planTable = map[Plan]PlanTerm{
	PlanSilver:   {Accrual: decimal.NewFromInt(4), ReferralBonus: decimal.NewFromInt(10)},
	PlanGold:     {Accrual: decimal.NewFromInt(20), ReferralBonus: decimal.NewFromInt(50)},
	PlanPlatinum: {Accrual: decimal.NewFromInt(65), ReferralBonus: decimal.NewFromInt(150)},
	PlanDiamond:  {Accrual: decimal.NewFromInt(130), ReferralBonus: decimal.NewFromInt(300)},
	PlanElite:    {Accrual: decimal.NewFromInt(325), ReferralBonus: decimal.NewFromInt(500)},
}

// PlanTerms returns the accrual increment and referral bonus of a plan.
// Unknown plans are worth nothing; that is not an error.
func PlanTerms(p Plan) PlanTerm {
	t, ok := planTable[p]
	if !ok {
		return PlanTerm{Accrual: decimal.Zero, ReferralBonus: decimal.Zero}
	}
	return t
}
