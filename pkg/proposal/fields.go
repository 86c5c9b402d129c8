package proposal

import (
	"strconv"
	"time"
)

// FieldMap maps placeholder keys to their already-formatted display values.
type FieldMap map[string]string

// BuildFieldMap computes every placeholder value for a request. The key set
// is fixed by the template; product-derived keys are only present when the
// request carries at least one product. now supplies the offer date so
// callers can pin it in tests.
func BuildFieldMap(req *Request, now time.Time) FieldMap {
	total := GrandTotal(req.Products)

	fields := FieldMap{
		"companyname":       req.Company.Name,
		"companyadresse":    req.Company.Address,
		"villename":         req.Company.City,
		"zipcode":           req.Company.PostalCode,
		"offerreference":    req.ProposalNumber,
		"offerdate":         now.Format(displayDateLayout),
		"offervalidity":     FormatValidityDate(req.ValidUntil),
		"pricetotal":        FormatAmount(total),
		"pricetotalsupport": FormatAmount(total),
		"notes":             req.Notes,
		"name":              "",
		"lastname":          "",
		"email":             "",
		"phone":             "",
	}
	if req.Notes == "" {
		fields["notes"] = "Proposal for " + req.Company.Name
	}
	if req.Contact != nil {
		fields["name"] = req.Contact.FirstName
		fields["lastname"] = req.Contact.LastName
		fields["email"] = req.Contact.Email
		fields["phone"] = req.Contact.PhoneNumber
	}

	if p := req.FirstProduct(); p != nil {
		fields["product"] = p.ProductType
		fields["user"] = strconv.Itoa(p.UserCount)
		fields["licence"] = LicenceDescription(p)
		fields["costslicence"] = FormatAmount(p.UnitPrice)
		fields["discount"] = FormatPercent(p.AnnualReduction)
		fields["traningday"] = strconv.Itoa(p.TrainingDays) // template key carries this spelling
		fields["years"] = strconv.Itoa(p.SupportYears)
		if p.Training {
			fields["trainingprice"] = FormatAmount(TrainingPrice(p))
		} else {
			fields["trainingprice"] = "0"
		}
		if p.Support {
			fields["supportprice"] = FormatAmount(SupportPrice(p))
		} else {
			fields["supportprice"] = "0"
		}
	}

	return fields
}
