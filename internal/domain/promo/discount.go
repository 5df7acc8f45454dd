package promo

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.New(5, -1)
)

// Discount is the savings and the price left to pay, both in whole currency units.
type Discount struct {
	Savings    decimal.Decimal `json:"savings"`
	FinalPrice decimal.Decimal `json:"final_price"`
}

// ComputeDiscount applies percent to basePrice. The percent is expected to be
// already validated to [0,100]. A non-positive base price yields zeros so a
// missing package never produces a negative total. Each field is rounded once,
// half-up, from the exact value.
func ComputeDiscount(basePrice, percent decimal.Decimal) Discount {
	if !basePrice.IsPositive() {
		return Discount{Savings: decimal.Zero, FinalPrice: decimal.Zero}
	}

	savings := basePrice.Mul(percent).Div(hundred)
	final := basePrice.Sub(savings)

	return Discount{
		Savings:    roundHalfUp(savings),
		FinalPrice: roundHalfUp(final),
	}
}

func roundHalfUp(d decimal.Decimal) decimal.Decimal {
	return d.Add(half).Floor()
}

// PreviewFor builds the discount breakdown for a promo against its package price.
func PreviewFor(v View) Preview {
	d := ComputeDiscount(v.BasePrice(), v.DiscountPercent)
	return Preview{
		PromoID:         v.ID,
		Status:          v.Status,
		DiscountPercent: v.DiscountPercent,
		BasePrice:       v.BasePrice(),
		Savings:         d.Savings,
		FinalPrice:      d.FinalPrice,
	}
}
