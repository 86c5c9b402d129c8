package proposal

// supportRate is the fraction of the discounted licence price charged per
// support year.
const supportRate = 0.20

// DiscountedUnitPrice applies the annual reduction to the unit price.
func DiscountedUnitPrice(p *Product) float64 {
	return p.UnitPrice * (1 - p.AnnualReduction/100)
}

// TrainingPrice is days times cost per day, zero when training is not
// selected.
func TrainingPrice(p *Product) float64 {
	if !p.Training {
		return 0
	}
	return float64(p.TrainingDays) * p.TrainingCostPerDay
}

// SupportPrice charges supportRate of the discounted unit price per support
// year, zero when support is not selected. The invoice assembler uses the
// same function, keeping the two documents consistent by construction.
func SupportPrice(p *Product) float64 {
	if !p.Support {
		return 0
	}
	return DiscountedUnitPrice(p) * supportRate * float64(p.SupportYears)
}

// GrandTotal sums the declared total price over all products.
func GrandTotal(products []Product) float64 {
	var total float64
	for i := range products {
		total += products[i].TotalPrice
	}
	return total
}
