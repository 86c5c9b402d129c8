package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

const documentPart = "word/document.xml"
const documentRelsPart = "word/_rels/document.xml.rels"

// Relationship is one entry of a relationships part.
type Relationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

type relationships struct {
	XMLName       xml.Name       `xml:"Relationships"`
	Relationships []Relationship `xml:"Relationship"`
}

// Document is an opened WordprocessingML package. The body and every header
// and footer part are parsed into the element model; all other parts are
// held as raw bytes and written back unchanged.
type Document struct {
	parts         map[string][]byte
	names         []string // zip entry order
	body          *Body
	headerFooters map[string]*HeaderFooter
	rels          map[string]Relationship
}

func (d *Document) openFrom(data []byte, path string) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return wrapError("open package", path, err)
	}

	d.parts = make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return wrapError("open part", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return wrapError("read part", f.Name, err)
		}
		d.parts[f.Name] = content
		d.names = append(d.names, f.Name)
	}

	if err := d.parseRelationships(); err != nil {
		return err
	}
	if err := d.parseBody(); err != nil {
		return err
	}
	return d.parseHeaderFooters()
}

// OpenFile reads and parses the document at path. A missing file surfaces
// as a DocumentError wrapping fs.ErrNotExist.
func OpenFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapError("open", path, err)
	}
	return OpenBytes(data)
}

// OpenBytes parses a document already held in memory.
func OpenBytes(data []byte) (*Document, error) {
	doc := &Document{}
	if err := doc.openFrom(data, ""); err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *Document) parseRelationships() error {
	d.rels = make(map[string]Relationship)
	data, ok := d.parts[documentRelsPart]
	if !ok {
		return nil
	}
	var rels relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return wrapError("parse relationships", documentRelsPart, err)
	}
	for _, rel := range rels.Relationships {
		d.rels[rel.ID] = rel
	}
	return nil
}

func (d *Document) parseBody() error {
	data, ok := d.parts[documentPart]
	if !ok {
		return wrapError("parse document", documentPart, fmt.Errorf("part missing"))
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return wrapError("parse document", documentPart, fmt.Errorf("no body element"))
		}
		if err != nil {
			return wrapError("parse document", documentPart, err)
		}
		if start, ok := tok.(xml.StartElement); ok && start.Name.Local == "body" {
			elements, sectPr, err := parseBodyElements(dec, "body")
			if err != nil {
				return wrapError("parse document", documentPart, err)
			}
			d.body = &Body{Elements: elements, SectPr: sectPr}
			return nil
		}
	}
}

func (d *Document) parseHeaderFooters() error {
	d.headerFooters = make(map[string]*HeaderFooter)
	for _, name := range d.names {
		var rootTag string
		switch {
		case strings.HasPrefix(name, "word/header") && strings.HasSuffix(name, ".xml"):
			rootTag = "hdr"
		case strings.HasPrefix(name, "word/footer") && strings.HasSuffix(name, ".xml"):
			rootTag = "ftr"
		default:
			continue
		}

		dec := xml.NewDecoder(bytes.NewReader(d.parts[name]))
		for {
			tok, err := dec.Token()
			if err == io.EOF {
				break
			}
			if err != nil {
				return wrapError("parse part", name, err)
			}
			start, ok := tok.(xml.StartElement)
			if !ok || start.Name.Local != rootTag {
				continue
			}
			elements, _, err := parseBodyElements(dec, rootTag)
			if err != nil {
				return wrapError("parse part", name, err)
			}
			d.headerFooters[name] = &HeaderFooter{
				partName: name,
				rootTag:  rootTag,
				Elements: elements,
			}
			break
		}
	}
	return nil
}

// Body returns the parsed document body.
func (d *Document) Body() *Body {
	return d.body
}

// Sections returns the document's sections in order: one per paragraph-level
// section break, then the body-level section last. Header and footer
// references are resolved to their parsed parts.
func (d *Document) Sections() []*Section {
	var sections []*Section
	for _, el := range d.body.Elements {
		p, ok := el.(*Paragraph)
		if !ok || p.Properties == nil || p.Properties.SectPr == nil {
			continue
		}
		sections = append(sections, d.newSection(p.Properties.SectPr))
	}
	if d.body.SectPr != nil {
		sections = append(sections, d.newSection(d.body.SectPr))
	}
	return sections
}

func (d *Document) newSection(props *SectionProperties) *Section {
	sec := &Section{
		props:   props,
		headers: make(map[string]*HeaderFooter),
		footers: make(map[string]*HeaderFooter),
	}
	for _, ref := range props.references() {
		rel, ok := d.rels[ref.ID]
		if !ok {
			continue
		}
		target := rel.Target
		if !strings.HasPrefix(target, "word/") {
			target = "word/" + strings.TrimPrefix(target, "/")
		}
		hf, ok := d.headerFooters[target]
		if !ok {
			continue
		}
		refType := ref.Type
		if refType == "" {
			refType = RefDefault
		}
		if ref.Kind == "header" {
			sec.headers[refType] = hf
		} else {
			sec.footers[refType] = hf
		}
	}
	return sec
}
