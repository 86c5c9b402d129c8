package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
)

// splicePart replaces the content of a part's root element with regenerated
// XML while keeping the original declaration and root open tag, so the
// namespace declarations Word emitted stay exactly as they were.
func splicePart(source []byte, rootLocal string, inner string) ([]byte, error) {
	openPrefix := []byte("<w:" + rootLocal)
	start := bytes.Index(source, openPrefix)
	if start < 0 {
		return nil, fmt.Errorf("root element w:%s not found", rootLocal)
	}
	openEnd := bytes.IndexByte(source[start:], '>')
	if openEnd < 0 {
		return nil, fmt.Errorf("unterminated root tag w:%s", rootLocal)
	}

	var out bytes.Buffer
	out.Write(source[:start+openEnd+1])
	out.WriteString(inner)
	out.WriteString("</w:" + rootLocal + ">")
	return out.Bytes(), nil
}

func (d *Document) rebuildParts() (map[string][]byte, error) {
	rebuilt := make(map[string][]byte, 1+len(d.headerFooters))

	var sb strings.Builder
	d.body.writeXML(&sb)
	doc, err := splicePart(d.parts[documentPart], "document", sb.String())
	if err != nil {
		return nil, wrapError("serialize", documentPart, err)
	}
	rebuilt[documentPart] = doc

	for name, hf := range d.headerFooters {
		var hb strings.Builder
		for _, el := range hf.Elements {
			el.writeXML(&hb)
		}
		part, err := splicePart(d.parts[name], hf.rootTag, hb.String())
		if err != nil {
			return nil, wrapError("serialize", name, err)
		}
		rebuilt[name] = part
	}
	return rebuilt, nil
}

// Bytes serializes the document back into a DOCX package. The document body
// and the header/footer parts are regenerated from the element model; every
// other part is copied byte-for-byte in the original entry order.
func (d *Document) Bytes() ([]byte, error) {
	rebuilt, err := d.rebuildParts()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range d.names {
		w, err := zw.Create(name)
		if err != nil {
			return nil, wrapError("write part", name, err)
		}
		content := d.parts[name]
		if r, ok := rebuilt[name]; ok {
			content = r
		}
		if _, err := w.Write(content); err != nil {
			return nil, wrapError("write part", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, wrapError("write package", "", err)
	}
	return buf.Bytes(), nil
}
