// Package docx reads a WordprocessingML package, exposes its text-bearing
// regions (body paragraphs, tables, headers and footers) for in-place text
// mutation, and writes the modified package back out.
//
// The model is deliberately partial: paragraphs, runs and tables are parsed
// into structs, everything else is captured as raw XML and re-emitted
// verbatim so that formatting, drawings and section plumbing survive a
// round trip untouched.
package docx

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// namespaceToPrefix converts a namespace URI to its conventional prefix.
func namespaceToPrefix(uri string) string {
	prefixMap := map[string]string{
		"http://schemas.openxmlformats.org/wordprocessingml/2006/main":           "w",
		"http://schemas.openxmlformats.org/officeDocument/2006/relationships":    "r",
		"http://schemas.openxmlformats.org/officeDocument/2006/math":             "m",
		"http://www.w3.org/XML/1998/namespace":                                   "xml",
		"http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing": "wp",
		"http://schemas.openxmlformats.org/drawingml/2006/main":                  "a",
		"http://schemas.openxmlformats.org/drawingml/2006/picture":               "pic",
		"http://schemas.openxmlformats.org/markup-compatibility/2006":            "mc",
		"urn:schemas-microsoft-com:vml":                                          "v",
		"urn:schemas-microsoft-com:office:office":                                "o",
		"urn:schemas-microsoft-com:office:word":                                  "w10",
		"http://schemas.microsoft.com/office/word/2010/wordprocessingDrawing":    "wp14",
		"http://schemas.microsoft.com/office/word/2010/wordprocessingShape":      "wps",
		"http://schemas.microsoft.com/office/word/2010/wordprocessingGroup":      "wpg",
		"http://schemas.microsoft.com/office/word/2010/wordprocessingCanvas":     "wpc",
		"http://schemas.microsoft.com/office/word/2010/wordml":                   "w14",
		"http://schemas.microsoft.com/office/word/2012/wordml":                   "w15",
	}

	if prefix, ok := prefixMap[uri]; ok {
		return prefix
	}
	// Unknown namespaces keep the URI; Word never produces these in the
	// parts we rewrite.
	return uri
}

func qualifiedName(n xml.Name) string {
	switch n.Space {
	case "":
		return n.Local
	case "xmlns":
		return "xmlns:" + n.Local
	default:
		return namespaceToPrefix(n.Space) + ":" + n.Local
	}
}

func writeEscaped(b *strings.Builder, s string) {
	xml.EscapeText(b, []byte(s))
}

func writeOpenTag(b *strings.Builder, start xml.StartElement) {
	b.WriteString("<")
	b.WriteString(qualifiedName(start.Name))
	for _, attr := range start.Attr {
		b.WriteString(" ")
		b.WriteString(qualifiedName(attr.Name))
		b.WriteString(`="`)
		writeEscaped(b, attr.Value)
		b.WriteString(`"`)
	}
	b.WriteString(">")
}

func writeCloseTag(b *strings.Builder, name xml.Name) {
	b.WriteString("</")
	b.WriteString(qualifiedName(name))
	b.WriteString(">")
}

// BodyElement is any element that can appear in a body, header, footer or
// table cell.
type BodyElement interface {
	writeXML(b *strings.Builder)
}

// RawXMLElement preserves an element the model does not understand so it can
// be re-emitted unchanged.
type RawXMLElement struct {
	Name    xml.Name
	Content []byte
}

func (r *RawXMLElement) writeXML(b *strings.Builder) {
	b.Write(r.Content)
}

// captureRawElement consumes an element and its subtree, reconstructing its
// serialized form with conventional namespace prefixes.
func captureRawElement(d *xml.Decoder, start xml.StartElement) (*RawXMLElement, error) {
	var buf strings.Builder
	writeOpenTag(&buf, start)

	depth := 1
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			writeOpenTag(&buf, t)
		case xml.EndElement:
			depth--
			writeCloseTag(&buf, t.Name)
		case xml.CharData:
			writeEscaped(&buf, string(t))
		}
	}

	return &RawXMLElement{Name: start.Name, Content: []byte(buf.String())}, nil
}

// Text represents the text content of a run.
type Text struct {
	Space   string // xml:space attribute, usually "preserve"
	Content string
}

func (t *Text) writeXML(b *strings.Builder) {
	b.WriteString("<w:t")
	if t.Space == "preserve" || t.Content != strings.TrimSpace(t.Content) {
		b.WriteString(` xml:space="preserve"`)
	}
	b.WriteString(">")
	writeEscaped(b, t.Content)
	b.WriteString("</w:t>")
}

// RunChild is either *Text or *RawXMLElement.
type RunChild interface {
	writeXML(b *strings.Builder)
}

// Run represents a run of text with shared formatting. The run properties
// (w:rPr) are kept verbatim so that substitution into the first run of a
// paragraph preserves its formatting.
type Run struct {
	Attrs      []xml.Attr
	Properties *RawXMLElement
	Children   []RunChild
}

func parseRun(d *xml.Decoder, start xml.StartElement) (*Run, error) {
	run := &Run{Attrs: start.Attr}

	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "rPr":
				raw, err := captureRawElement(d, t)
				if err != nil {
					return nil, err
				}
				run.Properties = raw
			case "t":
				text := &Text{}
				for _, attr := range t.Attr {
					if attr.Name.Local == "space" {
						text.Space = attr.Value
					}
				}
				var content string
				if err := d.DecodeElement(&content, &t); err != nil {
					return nil, err
				}
				text.Content = content
				run.Children = append(run.Children, text)
			default:
				raw, err := captureRawElement(d, t)
				if err != nil {
					return nil, err
				}
				run.Children = append(run.Children, raw)
			}
		case xml.EndElement:
			if t.Name.Local == "r" {
				return run, nil
			}
		}
	}
}

func (r *Run) writeXML(b *strings.Builder) {
	b.WriteString("<w:r")
	for _, attr := range r.Attrs {
		b.WriteString(" ")
		b.WriteString(qualifiedName(attr.Name))
		b.WriteString(`="`)
		writeEscaped(b, attr.Value)
		b.WriteString(`"`)
	}
	b.WriteString(">")
	if r.Properties != nil {
		r.Properties.writeXML(b)
	}
	for _, child := range r.Children {
		child.writeXML(b)
	}
	b.WriteString("</w:r>")
}

// GetText returns the concatenated text of the run.
func (r *Run) GetText() string {
	var texts []string
	for _, child := range r.Children {
		if t, ok := child.(*Text); ok {
			texts = append(texts, t.Content)
		}
	}
	return strings.Join(texts, "")
}

// SetText replaces the run's text content with a single text element,
// keeping breaks, tabs and drawings in place.
func (r *Run) SetText(s string) {
	var children []RunChild
	placed := false
	for _, child := range r.Children {
		if _, ok := child.(*Text); ok {
			if !placed {
				children = append(children, &Text{Content: s})
				placed = true
			}
			continue
		}
		children = append(children, child)
	}
	if !placed {
		children = append(children, &Text{Content: s})
	}
	r.Children = children
}

func (r *Run) clearText() {
	var children []RunChild
	for _, child := range r.Children {
		if _, ok := child.(*Text); ok {
			continue
		}
		children = append(children, child)
	}
	r.Children = children
}

// ParagraphChild is either *Run or *RawXMLElement (bookmarks, hyperlinks,
// proofing marks and similar).
type ParagraphChild interface {
	writeXML(b *strings.Builder)
}

// ParagraphProperties keeps the paragraph mark properties. Children are raw
// except for a section break, which is parsed so headers and footers can be
// resolved.
type ParagraphProperties struct {
	Attrs    []xml.Attr
	SectPr   *SectionProperties
	Children []ParagraphChild
}

func parseParagraphProperties(d *xml.Decoder, start xml.StartElement) (*ParagraphProperties, error) {
	props := &ParagraphProperties{Attrs: start.Attr}

	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "sectPr" {
				sect, err := parseSectionProperties(d, t)
				if err != nil {
					return nil, err
				}
				props.SectPr = sect
				props.Children = append(props.Children, sect)
				continue
			}
			raw, err := captureRawElement(d, t)
			if err != nil {
				return nil, err
			}
			props.Children = append(props.Children, raw)
		case xml.EndElement:
			if t.Name.Local == "pPr" {
				return props, nil
			}
		}
	}
}

func (p *ParagraphProperties) writeXML(b *strings.Builder) {
	b.WriteString("<w:pPr")
	for _, attr := range p.Attrs {
		b.WriteString(" ")
		b.WriteString(qualifiedName(attr.Name))
		b.WriteString(`="`)
		writeEscaped(b, attr.Value)
		b.WriteString(`"`)
	}
	b.WriteString(">")
	for _, child := range p.Children {
		child.writeXML(b)
	}
	b.WriteString("</w:pPr>")
}

// Paragraph represents a paragraph in a body, header, footer or table cell.
type Paragraph struct {
	Attrs      []xml.Attr
	Properties *ParagraphProperties
	Children   []ParagraphChild
}

func (p *Paragraph) writeXML(b *strings.Builder) {
	b.WriteString("<w:p")
	for _, attr := range p.Attrs {
		b.WriteString(" ")
		b.WriteString(qualifiedName(attr.Name))
		b.WriteString(`="`)
		writeEscaped(b, attr.Value)
		b.WriteString(`"`)
	}
	b.WriteString(">")
	if p.Properties != nil {
		p.Properties.writeXML(b)
	}
	for _, child := range p.Children {
		child.writeXML(b)
	}
	b.WriteString("</w:p>")
}

func parseParagraph(d *xml.Decoder, start xml.StartElement) (*Paragraph, error) {
	para := &Paragraph{Attrs: start.Attr}

	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				props, err := parseParagraphProperties(d, t)
				if err != nil {
					return nil, err
				}
				para.Properties = props
			case "r":
				run, err := parseRun(d, t)
				if err != nil {
					return nil, err
				}
				para.Children = append(para.Children, run)
			default:
				raw, err := captureRawElement(d, t)
				if err != nil {
					return nil, err
				}
				para.Children = append(para.Children, raw)
			}
		case xml.EndElement:
			if t.Name.Local == "p" {
				return para, nil
			}
		}
	}
}

// Runs returns the paragraph's runs in document order.
func (p *Paragraph) Runs() []*Run {
	var runs []*Run
	for _, child := range p.Children {
		if r, ok := child.(*Run); ok {
			runs = append(runs, r)
		}
	}
	return runs
}

// GetText returns the concatenated text of all runs in the paragraph.
func (p *Paragraph) GetText() string {
	var texts []string
	for _, run := range p.Runs() {
		if text := run.GetText(); text != "" {
			texts = append(texts, text)
		}
	}
	return strings.Join(texts, "")
}

// SetText replaces the paragraph's text: every run's text is cleared and the
// full text written into the first run, so that run's formatting carries the
// result. A fresh run is appended when the paragraph has none. Formatting of
// runs after the first is lost when the replaced text spanned several runs;
// that is the accepted cost of run-level substitution.
func (p *Paragraph) SetText(s string) {
	runs := p.Runs()
	if len(runs) == 0 {
		run := &Run{}
		run.SetText(s)
		p.Children = append(p.Children, run)
		return
	}
	for _, run := range runs[1:] {
		run.clearText()
	}
	runs[0].SetText(s)
}

// parseBodyElements parses the ordered children of a body-like container
// (w:body, w:hdr, w:ftr or w:tc) until its end element. A body-level
// section properties element, when present, is returned separately.
func parseBodyElements(d *xml.Decoder, parent string) ([]BodyElement, *SectionProperties, error) {
	var elements []BodyElement
	var sectPr *SectionProperties

	for {
		tok, err := d.Token()
		if err == io.EOF {
			return elements, sectPr, nil
		}
		if err != nil {
			return nil, nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				para, err := parseParagraph(d, t)
				if err != nil {
					return nil, nil, err
				}
				elements = append(elements, para)
			case "tbl":
				table, err := parseTable(d, t)
				if err != nil {
					return nil, nil, err
				}
				elements = append(elements, table)
			case "sectPr":
				sect, err := parseSectionProperties(d, t)
				if err != nil {
					return nil, nil, err
				}
				sectPr = sect
			default:
				raw, err := captureRawElement(d, t)
				if err != nil {
					return nil, nil, err
				}
				elements = append(elements, raw)
			}
		case xml.EndElement:
			if t.Name.Local == parent {
				return elements, sectPr, nil
			}
		}
	}
}

// Body holds the ordered elements of the document body plus the trailing
// section properties.
type Body struct {
	Elements []BodyElement
	SectPr   *SectionProperties
}

// Paragraphs returns the top-level paragraphs of the body in order.
func (b *Body) Paragraphs() []*Paragraph {
	return elementParagraphs(b.Elements)
}

// Tables returns the top-level tables of the body in document order.
func (b *Body) Tables() []*Table {
	return elementTables(b.Elements)
}

func elementParagraphs(elements []BodyElement) []*Paragraph {
	var paras []*Paragraph
	for _, el := range elements {
		if p, ok := el.(*Paragraph); ok {
			paras = append(paras, p)
		}
	}
	return paras
}

func elementTables(elements []BodyElement) []*Table {
	var tables []*Table
	for _, el := range elements {
		if t, ok := el.(*Table); ok {
			tables = append(tables, t)
		}
	}
	return tables
}

// RemoveTable removes the table at the given top-level index, leaving its
// caption in place.
func (b *Body) RemoveTable(index int) error {
	pos, err := b.tablePosition(index)
	if err != nil {
		return err
	}
	b.Elements = append(b.Elements[:pos], b.Elements[pos+1:]...)
	return nil
}

// RemoveTableWithCaption removes the table at the given top-level index
// together with the contiguous caption block immediately above it: empty
// paragraphs are absorbed, the first non-empty paragraph is absorbed and
// ends the walk, and a preceding table bounds the walk. Non-paragraph
// siblings (bookmarks and the like) are absorbed with the caption.
func (b *Body) RemoveTableWithCaption(index int) error {
	pos, err := b.tablePosition(index)
	if err != nil {
		return err
	}

	start := pos
walk:
	for i := pos - 1; i >= 0; i-- {
		switch el := b.Elements[i].(type) {
		case *Table:
			break walk
		case *Paragraph:
			start = i
			if strings.TrimSpace(el.GetText()) != "" {
				break walk
			}
		default:
			start = i
		}
	}

	b.Elements = append(b.Elements[:start], b.Elements[pos+1:]...)
	return nil
}

func (b *Body) tablePosition(index int) (int, error) {
	if index < 0 {
		return 0, fmt.Errorf("table index %d out of range", index)
	}
	n := -1
	for i, el := range b.Elements {
		if _, ok := el.(*Table); ok {
			n++
			if n == index {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("table index %d out of range", index)
}

func (b *Body) writeXML(sb *strings.Builder) {
	sb.WriteString("<w:body>")
	for _, el := range b.Elements {
		el.writeXML(sb)
	}
	if b.SectPr != nil {
		b.SectPr.writeXML(sb)
	}
	sb.WriteString("</w:body>")
}
