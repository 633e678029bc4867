package checkout

import (
	"github.com/shopspring/decimal"

	"secondhand-backend/internal/product"
)

// line is one cart entry joined with its product, as loaded under row locks
// at the start of a checkout transaction.
type line struct {
	CartID        string
	ProductID     string
	ProductName   string
	Price         string
	VerifiedPrice *string
	Status        string
	IsSold        bool
}

func (l line) effectivePrice() (decimal.Decimal, error) {
	p := product.Product{Price: l.Price, VerifiedPrice: l.VerifiedPrice, Status: l.Status}
	return p.EffectivePrice()
}

// validateLine applies the purchasability checks in their fixed order:
// never ordered before, not sold, not rejected.
func validateLine(l line, alreadyOrdered bool) error {
	if alreadyOrdered {
		return &AlreadyOrderedError{ProductName: l.ProductName}
	}
	if l.IsSold {
		return &AlreadySoldError{ProductName: l.ProductName}
	}
	if l.Status == product.StatusRejected {
		return &RejectedProductError{ProductName: l.ProductName}
	}
	return nil
}

// totalOf sums the effective prices of every line.
func totalOf(lines []line) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, l := range lines {
		p, err := l.effectivePrice()
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(p)
	}
	return total, nil
}
