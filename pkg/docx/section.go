package docx

import (
	"encoding/xml"
	"strings"
)

// Header/footer reference types from the w:type attribute.
const (
	RefDefault = "default"
	RefFirst   = "first"
	RefEven    = "even"
)

// HeaderFooterReference is a w:headerReference or w:footerReference inside
// section properties. Kind is "header" or "footer"; ID is the relationship
// id resolved against the document rels.
type HeaderFooterReference struct {
	Kind string
	Type string
	ID   string
}

func (h *HeaderFooterReference) writeXML(b *strings.Builder) {
	b.WriteString("<w:")
	b.WriteString(h.Kind)
	b.WriteString(`Reference w:type="`)
	writeEscaped(b, h.Type)
	b.WriteString(`" r:id="`)
	writeEscaped(b, h.ID)
	b.WriteString(`"></w:`)
	b.WriteString(h.Kind)
	b.WriteString("Reference>")
}

// SectionChild is either *HeaderFooterReference or *RawXMLElement.
type SectionChild interface {
	writeXML(b *strings.Builder)
}

// SectionProperties represents a w:sectPr element, body-level or inside a
// paragraph mark. Only header/footer references and the title-page flag are
// interpreted; everything else stays raw.
type SectionProperties struct {
	Attrs    []xml.Attr
	Children []SectionChild
	TitlePg  bool
}

func parseSectionProperties(d *xml.Decoder, start xml.StartElement) (*SectionProperties, error) {
	sect := &SectionProperties{Attrs: start.Attr}

	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "headerReference", "footerReference":
				ref := &HeaderFooterReference{
					Kind: strings.TrimSuffix(t.Name.Local, "Reference"),
				}
				for _, attr := range t.Attr {
					switch attr.Name.Local {
					case "type":
						ref.Type = attr.Value
					case "id":
						ref.ID = attr.Value
					}
				}
				if err := d.Skip(); err != nil {
					return nil, err
				}
				sect.Children = append(sect.Children, ref)
			default:
				if t.Name.Local == "titlePg" {
					sect.TitlePg = true
				}
				raw, err := captureRawElement(d, t)
				if err != nil {
					return nil, err
				}
				sect.Children = append(sect.Children, raw)
			}
		case xml.EndElement:
			if t.Name.Local == "sectPr" {
				return sect, nil
			}
		}
	}
}

func (s *SectionProperties) writeXML(b *strings.Builder) {
	b.WriteString("<w:sectPr")
	for _, attr := range s.Attrs {
		b.WriteString(" ")
		b.WriteString(qualifiedName(attr.Name))
		b.WriteString(`="`)
		writeEscaped(b, attr.Value)
		b.WriteString(`"`)
	}
	b.WriteString(">")
	for _, child := range s.Children {
		child.writeXML(b)
	}
	b.WriteString("</w:sectPr>")
}

func (s *SectionProperties) references() []*HeaderFooterReference {
	var refs []*HeaderFooterReference
	for _, child := range s.Children {
		if ref, ok := child.(*HeaderFooterReference); ok {
			refs = append(refs, ref)
		}
	}
	return refs
}

// HeaderFooter is a parsed header or footer part.
type HeaderFooter struct {
	partName string // zip part name, e.g. "word/header2.xml"
	rootTag  string // "hdr" or "ftr"
	Elements []BodyElement
}

// PartName returns the zip part name the header or footer was read from.
func (hf *HeaderFooter) PartName() string {
	return hf.partName
}

// Paragraphs returns the part's top-level paragraphs.
func (hf *HeaderFooter) Paragraphs() []*Paragraph {
	return elementParagraphs(hf.Elements)
}

// Tables returns the part's top-level tables.
func (hf *HeaderFooter) Tables() []*Table {
	return elementTables(hf.Elements)
}

// Section pairs a sectPr with the header/footer parts its references
// resolve to. Lookups are explicit capability queries: the second return
// value reports whether the section has that kind of header or footer, so
// callers branch instead of probing for errors.
type Section struct {
	props   *SectionProperties
	headers map[string]*HeaderFooter
	footers map[string]*HeaderFooter
}

// FirstPageHeader returns the first-page header, if the section has one.
func (s *Section) FirstPageHeader() (*HeaderFooter, bool) {
	hf, ok := s.headers[RefFirst]
	return hf, ok
}

// FirstPageFooter returns the first-page footer, if the section has one.
func (s *Section) FirstPageFooter() (*HeaderFooter, bool) {
	hf, ok := s.footers[RefFirst]
	return hf, ok
}

// EvenPageHeader returns the even-page header, if the section has one.
func (s *Section) EvenPageHeader() (*HeaderFooter, bool) {
	hf, ok := s.headers[RefEven]
	return hf, ok
}

// EvenPageFooter returns the even-page footer, if the section has one.
func (s *Section) EvenPageFooter() (*HeaderFooter, bool) {
	hf, ok := s.footers[RefEven]
	return hf, ok
}

// Header returns the default header, if the section has one.
func (s *Section) Header() (*HeaderFooter, bool) {
	hf, ok := s.headers[RefDefault]
	return hf, ok
}

// Footer returns the default footer, if the section has one.
func (s *Section) Footer() (*HeaderFooter, bool) {
	hf, ok := s.footers[RefDefault]
	return hf, ok
}

// HasTitlePage reports whether the section activates its first-page
// header/footer pair.
func (s *Section) HasTitlePage() bool {
	return s.props.TitlePg
}
