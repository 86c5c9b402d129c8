package proposal

import (
	"strings"

	"github.com/sirupsen/logrus"

	"proposalgen/pkg/docx"
)

// Category is the product family the template's licence and support tables
// are authored for.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryCommunicationsSuite
	CategoryWarfareSuite
	CategoryICSManager
)

func (c Category) String() string {
	switch c {
	case CategoryCommunicationsSuite:
		return "communications-suite"
	case CategoryWarfareSuite:
		return "warfare-suite"
	case CategoryICSManager:
		return "ics-manager"
	default:
		return "unknown"
	}
}

// ParseCategory matches the free-text product type against the known
// category names by substring, the single place the wire string is
// interpreted.
func ParseCategory(productType string) Category {
	switch {
	case strings.Contains(productType, "HTZ Communications"):
		return CategoryCommunicationsSuite
	case strings.Contains(productType, "HTZ Warfare"):
		return CategoryWarfareSuite
	case strings.Contains(productType, "ICS Manager"):
		return CategoryICSManager
	default:
		return CategoryUnknown
	}
}

// Template table indices per category. Each category has a licence table
// pair (without/with discount) and one support table; the training table is
// shared. Index 0 is the cover/summary table and always survives.
var (
	licenceTableIndex = map[Category][2]int{
		CategoryCommunicationsSuite: {1, 2},
		CategoryWarfareSuite:        {3, 4},
		CategoryICSManager:          {5, 6},
	}
	supportTableIndex = map[Category]int{
		CategoryCommunicationsSuite: 10,
		CategoryWarfareSuite:        9,
		CategoryICSManager:          12,
	}
)

const trainingTableIndex = 7

// TablePlan is the set of top-level table indices to retain.
type TablePlan map[int]struct{}

func (tp TablePlan) Keep(i int) bool {
	_, ok := tp[i]
	return ok
}

// PlanTables decides which template tables survive for a product: index 0
// always; one licence table picked by category and discount presence; the
// training table when training is selected; the category's support table
// when support is selected. An unknown category keeps no licence table.
func PlanTables(p *Product) TablePlan {
	plan := TablePlan{0: {}}
	category := ParseCategory(p.ProductType)

	if pair, ok := licenceTableIndex[category]; ok {
		if p.AnnualReduction > 0 {
			plan[pair[1]] = struct{}{}
		} else {
			plan[pair[0]] = struct{}{}
		}
	}
	if p.Training {
		plan[trainingTableIndex] = struct{}{}
	}
	if p.Support {
		if idx, ok := supportTableIndex[category]; ok {
			plan[idx] = struct{}{}
		}
	}
	return plan
}

// PruneTables removes every top-level body table the plan does not retain,
// highest index first so lower indices stay stable, each together with its
// preceding caption block. A failed caption removal degrades to removing
// the table alone; the request continues either way.
func PruneTables(body *docx.Body, plan TablePlan, log logrus.FieldLogger) {
	count := len(body.Tables())
	for i := count - 1; i >= 0; i-- {
		if plan.Keep(i) {
			continue
		}
		if err := body.RemoveTableWithCaption(i); err != nil {
			log.WithError(err).WithField("table", i).Warn("caption removal failed, removing table only")
			if err := body.RemoveTable(i); err != nil {
				log.WithError(err).WithField("table", i).Warn("table removal failed, leaving in place")
			}
		}
	}
}
