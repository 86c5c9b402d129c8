package docx

import (
	"encoding/xml"
	"strings"
)

// Table represents a w:tbl element. Grid and property elements are kept as
// raw children interleaved with the parsed rows so the original order
// survives serialization.
type Table struct {
	Attrs    []xml.Attr
	Children []TableChild
}

// TableChild is either *TableRow or *RawXMLElement (tblPr, tblGrid).
type TableChild interface {
	writeXML(b *strings.Builder)
}

// TableRow represents a w:tr element.
type TableRow struct {
	Attrs    []xml.Attr
	Children []TableRowChild
}

// TableRowChild is either *TableCell or *RawXMLElement (trPr).
type TableRowChild interface {
	writeXML(b *strings.Builder)
}

// TableCell holds the cell's ordered content. Cells contain the same element
// kinds as a body, including nested tables.
type TableCell struct {
	Attrs    []xml.Attr
	Elements []BodyElement
}

func parseTable(d *xml.Decoder, start xml.StartElement) (*Table, error) {
	table := &Table{Attrs: start.Attr}

	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "tr" {
				row, err := parseTableRow(d, t)
				if err != nil {
					return nil, err
				}
				table.Children = append(table.Children, row)
				continue
			}
			raw, err := captureRawElement(d, t)
			if err != nil {
				return nil, err
			}
			table.Children = append(table.Children, raw)
		case xml.EndElement:
			if t.Name.Local == "tbl" {
				return table, nil
			}
		}
	}
}

func parseTableRow(d *xml.Decoder, start xml.StartElement) (*TableRow, error) {
	row := &TableRow{Attrs: start.Attr}

	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "tc" {
				cell, err := parseTableCell(d, t)
				if err != nil {
					return nil, err
				}
				row.Children = append(row.Children, cell)
				continue
			}
			raw, err := captureRawElement(d, t)
			if err != nil {
				return nil, err
			}
			row.Children = append(row.Children, raw)
		case xml.EndElement:
			if t.Name.Local == "tr" {
				return row, nil
			}
		}
	}
}

func parseTableCell(d *xml.Decoder, start xml.StartElement) (*TableCell, error) {
	elements, _, err := parseBodyElements(d, "tc")
	if err != nil {
		return nil, err
	}
	return &TableCell{Attrs: start.Attr, Elements: elements}, nil
}

// Rows returns the table's rows in order.
func (t *Table) Rows() []*TableRow {
	var rows []*TableRow
	for _, child := range t.Children {
		if r, ok := child.(*TableRow); ok {
			rows = append(rows, r)
		}
	}
	return rows
}

// Cells returns the row's cells in order.
func (r *TableRow) Cells() []*TableCell {
	var cells []*TableCell
	for _, child := range r.Children {
		if c, ok := child.(*TableCell); ok {
			cells = append(cells, c)
		}
	}
	return cells
}

// Paragraphs returns the cell's direct paragraphs.
func (c *TableCell) Paragraphs() []*Paragraph {
	return elementParagraphs(c.Elements)
}

// Tables returns the cell's directly nested tables.
func (c *TableCell) Tables() []*Table {
	return elementTables(c.Elements)
}

func (t *Table) writeXML(b *strings.Builder) {
	b.WriteString("<w:tbl")
	for _, attr := range t.Attrs {
		b.WriteString(" ")
		b.WriteString(qualifiedName(attr.Name))
		b.WriteString(`="`)
		writeEscaped(b, attr.Value)
		b.WriteString(`"`)
	}
	b.WriteString(">")
	for _, child := range t.Children {
		child.writeXML(b)
	}
	b.WriteString("</w:tbl>")
}

func (r *TableRow) writeXML(b *strings.Builder) {
	b.WriteString("<w:tr")
	for _, attr := range r.Attrs {
		b.WriteString(" ")
		b.WriteString(qualifiedName(attr.Name))
		b.WriteString(`="`)
		writeEscaped(b, attr.Value)
		b.WriteString(`"`)
	}
	b.WriteString(">")
	for _, child := range r.Children {
		child.writeXML(b)
	}
	b.WriteString("</w:tr>")
}

func (c *TableCell) writeXML(b *strings.Builder) {
	b.WriteString("<w:tc")
	for _, attr := range c.Attrs {
		b.WriteString(" ")
		b.WriteString(qualifiedName(attr.Name))
		b.WriteString(`="`)
		writeEscaped(b, attr.Value)
		b.WriteString(`"`)
	}
	b.WriteString(">")
	for _, el := range c.Elements {
		el.writeXML(b)
	}
	b.WriteString("</w:tc>")
}
