package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
)

// Helpers for building DOCX packages in memory. They live outside the test
// files so that packages layering on this one can build fixtures too.

const wNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
const rNamespace = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

// TestHeaderFooter describes a header or footer part for BuildTestDocx.
type TestHeaderFooter struct {
	Kind    string // "header" or "footer"
	Type    string // "default", "first" or "even"
	BodyXML string // WordprocessingML content of the part
}

// ParagraphXML returns a minimal paragraph with a single run holding text.
func ParagraphXML(text string) string {
	var b strings.Builder
	b.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
	writeEscaped(&b, text)
	b.WriteString(`</w:t></w:r></w:p>`)
	return b.String()
}

// TableXML returns a single-row table with one cell per text.
func TableXML(cellTexts ...string) string {
	var b strings.Builder
	b.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="0" w:type="auto"/></w:tblPr><w:tr>`)
	for _, text := range cellTexts {
		b.WriteString(`<w:tc>`)
		b.WriteString(ParagraphXML(text))
		b.WriteString(`</w:tc>`)
	}
	b.WriteString(`</w:tr></w:tbl>`)
	return b.String()
}

// BuildTestDocx assembles a valid in-memory DOCX package with the given body
// content and optional header/footer parts wired into the body-level section
// properties. A first-page part implies the title-page flag.
func BuildTestDocx(bodyXML string, hfs ...TestHeaderFooter) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	writePart := func(name, content string) {
		w, err := zw.Create(name)
		if err != nil {
			panic(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			panic(err)
		}
	}

	var overrides, rels, refs strings.Builder
	titlePg := false
	headerN, footerN := 0, 0
	for i, hf := range hfs {
		var part, contentType, rootTag string
		if hf.Kind == "footer" {
			footerN++
			part = fmt.Sprintf("footer%d.xml", footerN)
			contentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"
			rootTag = "ftr"
		} else {
			headerN++
			part = fmt.Sprintf("header%d.xml", headerN)
			contentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"
			rootTag = "hdr"
		}
		relID := fmt.Sprintf("rId%d", 10+i)
		relType := rNamespace + "/" + hf.Kind

		fmt.Fprintf(&overrides,
			`<Override PartName="/word/%s" ContentType="%s"/>`, part, contentType)
		fmt.Fprintf(&rels,
			`<Relationship Id="%s" Type="%s" Target="%s"/>`, relID, relType, part)
		fmt.Fprintf(&refs,
			`<w:%sReference w:type="%s" r:id="%s"/>`, hf.Kind, hf.Type, relID)
		if hf.Type == RefFirst {
			titlePg = true
		}

		writePart("word/"+part, fmt.Sprintf(
			`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+"\n"+
				`<w:%s xmlns:w="%s" xmlns:r="%s">%s</w:%s>`,
			rootTag, wNamespace, rNamespace, hf.BodyXML, rootTag))
	}

	sectPr := `<w:sectPr>` + refs.String()
	if titlePg {
		sectPr += `<w:titlePg/>`
	}
	sectPr += `<w:pgSz w:w="11906" w:h="16838"/></w:sectPr>`

	writePart("[Content_Types].xml",
		`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+"\n"+
			`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`+
			`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`+
			`<Default Extension="xml" ContentType="application/xml"/>`+
			`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>`+
			overrides.String()+
			`</Types>`)
	writePart("_rels/.rels",
		`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+"\n"+
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`+
			`<Relationship Id="rId1" Type="`+rNamespace+`/officeDocument" Target="word/document.xml"/>`+
			`</Relationships>`)
	writePart(documentRelsPart,
		`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+"\n"+
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`+
			rels.String()+
			`</Relationships>`)
	writePart(documentPart,
		`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+"\n"+
			`<w:document xmlns:w="`+wNamespace+`" xmlns:r="`+rNamespace+`">`+
			`<w:body>`+bodyXML+sectPr+`</w:body></w:document>`)

	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
