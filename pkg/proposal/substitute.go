package proposal

import (
	"strings"

	"github.com/sirupsen/logrus"

	"proposalgen/pkg/docx"
)

// Token wraps a placeholder key in its template syntax, e.g. "{companyname}".
func Token(key string) string {
	return "{" + key + "}"
}

// ReplaceInParagraph substitutes every occurrence of token in the
// paragraph's full text and reports whether anything was replaced. The
// rewritten text lands in the first run so its formatting survives; once a
// token is replaced it no longer matches, so repeated calls are no-ops.
func ReplaceInParagraph(p *docx.Paragraph, token, value string) bool {
	text := p.GetText()
	if !strings.Contains(text, token) {
		return false
	}
	p.SetText(strings.ReplaceAll(text, token, value))
	return true
}

type substituter struct {
	fields FieldMap
	log    logrus.FieldLogger
}

func (s *substituter) paragraph(p *docx.Paragraph) int {
	replaced := 0
	for key, value := range s.fields {
		if ReplaceInParagraph(p, Token(key), value) {
			replaced++
		}
	}
	return replaced
}

// elements walks a region's ordered content, descending into nested tables.
func (s *substituter) elements(elements []docx.BodyElement) int {
	replaced := 0
	for _, el := range elements {
		switch v := el.(type) {
		case *docx.Paragraph:
			replaced += s.paragraph(v)
		case *docx.Table:
			replaced += s.table(v)
		}
	}
	return replaced
}

func (s *substituter) table(t *docx.Table) int {
	replaced := 0
	for _, row := range t.Rows() {
		for _, cell := range row.Cells() {
			replaced += s.elements(cell.Elements)
		}
	}
	return replaced
}

// Substitute applies the field map once over every text-bearing region:
// body paragraphs and tables, then per section the first-page header and
// footer, the even-page header when the section has one, and the default
// header and footer. A part referenced by several sections is visited once.
// Returns the total number of replacements.
func Substitute(doc *docx.Document, fields FieldMap, log logrus.FieldLogger) int {
	s := &substituter{fields: fields, log: log}

	total := s.elements(doc.Body().Elements)
	log.WithField("replacements", total).Debug("body substitution done")

	visited := make(map[*docx.HeaderFooter]bool)
	visit := func(region string, hf *docx.HeaderFooter) {
		if visited[hf] {
			return
		}
		visited[hf] = true
		n := s.elements(hf.Elements)
		total += n
		log.WithFields(logrus.Fields{
			"region":       region,
			"part":         hf.PartName(),
			"replacements": n,
		}).Debug("header/footer substitution done")
	}

	for i, section := range doc.Sections() {
		if hf, ok := section.FirstPageHeader(); ok {
			visit("first-page header", hf)
		}
		if hf, ok := section.FirstPageFooter(); ok {
			visit("first-page footer", hf)
		}
		if hf, ok := section.EvenPageHeader(); ok {
			visit("even-page header", hf)
		} else {
			log.WithField("section", i).Debug("no even-page header, skipping")
		}
		if hf, ok := section.Header(); ok {
			visit("header", hf)
		}
		if hf, ok := section.Footer(); ok {
			visit("footer", hf)
		}
	}
	return total
}
