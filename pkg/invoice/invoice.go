// Package invoice fills the XLSX invoice template: fixed header cells plus
// one service row per active licence/training/support line per product.
package invoice

import (
	"proposalgen/pkg/proposal"
)

// Details is the invoice-level part of the request.
type Details struct {
	InvoiceNumber      string  `json:"invoice_number" binding:"required"`
	PurchaseOrder      string  `json:"purchase_order"`
	IssueDate          string  `json:"issue_date"`
	CommercialInCharge string  `json:"commercial_in_charge"`
	TotalAmount        float64 `json:"total_amount" binding:"min=0"`
}

// Request is the invoice-generation input. Products reuse the proposal
// product shape; pricing comes from the same helpers so the two documents
// cannot drift apart.
type Request struct {
	Invoice  Details            `json:"invoice" binding:"required"`
	Company  proposal.Company   `json:"company" binding:"required"`
	Contact  *proposal.Contact  `json:"contact"`
	Products []proposal.Product `json:"products"`
}

// ApplyDefaults mirrors the proposal-side wire defaults on the shared
// product shape.
func (r *Request) ApplyDefaults() {
	for i := range r.Products {
		if r.Products[i].TrainingCostPerDay == 0 {
			r.Products[i].TrainingCostPerDay = 1500
		}
	}
}

// serviceLine is one spreadsheet row: a licence, training or support charge
// for one product.
type serviceLine struct {
	Name     string
	Quantity int
	Total    float64
}

// serviceLines expands a product into its active service rows, in
// licence/training/support order.
func serviceLines(p *proposal.Product) []serviceLine {
	var lines []serviceLine
	if p.Licence {
		lines = append(lines, serviceLine{
			Name:     p.ProductType + " Licence",
			Quantity: p.UserCount,
			Total:    proposal.DiscountedUnitPrice(p),
		})
	}
	if p.Training {
		lines = append(lines, serviceLine{
			Name:     p.ProductType + " Training",
			Quantity: p.TrainingDays,
			Total:    proposal.TrainingPrice(p),
		})
	}
	if p.Support {
		lines = append(lines, serviceLine{
			Name:     p.ProductType + " Support",
			Quantity: p.SupportYears,
			Total:    proposal.SupportPrice(p),
		})
	}
	return lines
}

// UnitPrice is the derived per-unit column: total over quantity, zero when
// the quantity is zero.
func (l serviceLine) UnitPrice() float64 {
	if l.Quantity == 0 {
		return 0
	}
	return l.Total / float64(l.Quantity)
}
