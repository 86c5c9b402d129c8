// Package proposal fills the sales-proposal DOCX template: it builds the
// placeholder map from a request, substitutes tokens across every
// text-bearing region of the document, and prunes the pre-authored tables
// that do not apply to the selected product.
package proposal

// Company identifies the customer the proposal is addressed to.
type Company struct {
	Name       string `json:"name" binding:"required"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Contact is the customer-side contact person.
type Contact struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phone_number"`
}

// Product is one proposed product line. The licence, training and support
// flags select which template tables survive and which service rows the
// invoice gets.
type Product struct {
	ProductType        string  `json:"product_type" binding:"required"`
	UserCount          int     `json:"user_count" binding:"min=0"`
	StandaloneCount    int     `json:"standalone_count" binding:"min=0"`
	ServerKeyCount     int     `json:"server_key_count" binding:"min=0"`
	UnitPrice          float64 `json:"unit_price" binding:"min=0"`
	TotalPrice         float64 `json:"total_price" binding:"min=0"`
	AnnualReduction    float64 `json:"annual_reduction" binding:"min=0,max=100"`
	Licence            bool    `json:"licence"`
	Training           bool    `json:"training"`
	TrainingDays       int     `json:"training_days" binding:"min=0"`
	TrainingCostPerDay float64 `json:"training_cost_per_day" binding:"min=0"`
	Support            bool    `json:"support"`
	SupportYears       int     `json:"support_years" binding:"min=0"`
}

// Request is the proposal-generation input. Products may be empty; the
// first product, when present, feeds the per-product placeholders and the
// table pruning, while all products contribute to the grand total.
type Request struct {
	ProposalNumber string    `json:"proposal_number" binding:"required"`
	Company        Company   `json:"company" binding:"required"`
	Contact        *Contact  `json:"contact"`
	Products       []Product `json:"products"`
	Currency       string    `json:"currency"`
	ValidUntil     string    `json:"valid_until"`
	Notes          string    `json:"notes"`
}

const defaultTrainingCostPerDay = 1500

// ApplyDefaults fills the wire-format defaults JSON decoding cannot express:
// the currency code and the per-day training cost.
func (r *Request) ApplyDefaults() {
	if r.Currency == "" {
		r.Currency = "USD"
	}
	for i := range r.Products {
		if r.Products[i].TrainingCostPerDay == 0 {
			r.Products[i].TrainingCostPerDay = defaultTrainingCostPerDay
		}
	}
}

// FirstProduct returns the product driving per-product placeholders and
// table pruning, or nil when the request has none.
func (r *Request) FirstProduct() *Product {
	if len(r.Products) == 0 {
		return nil
	}
	return &r.Products[0]
}

// Result is a generated document ready to be sent as an attachment.
type Result struct {
	Data        []byte
	Filename    string
	ContentType string
}
