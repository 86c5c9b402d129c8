package docx

import (
	"bytes"
	"strings"
	"testing"
)

func mustOpen(t *testing.T, data []byte) *Document {
	t.Helper()
	doc, err := OpenBytes(data)
	if err != nil {
		t.Fatalf("OpenBytes failed: %v", err)
	}
	return doc
}

func TestOpenBytesParsesBodyInOrder(t *testing.T) {
	data := BuildTestDocx(
		ParagraphXML("first") +
			TableXML("cell one", "cell two") +
			ParagraphXML("second"))
	doc := mustOpen(t, data)

	paras := doc.Body().Paragraphs()
	if len(paras) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(paras))
	}
	if got := paras[0].GetText(); got != "first" {
		t.Errorf("paragraph 0 text = %q, want %q", got, "first")
	}
	if got := paras[1].GetText(); got != "second" {
		t.Errorf("paragraph 1 text = %q, want %q", got, "second")
	}

	tables := doc.Body().Tables()
	if len(tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(tables))
	}
	cells := tables[0].Rows()[0].Cells()
	if len(cells) != 2 {
		t.Fatalf("expected 2 cells, got %d", len(cells))
	}
	if got := cells[1].Paragraphs()[0].GetText(); got != "cell two" {
		t.Errorf("cell text = %q, want %q", got, "cell two")
	}
}

func TestParagraphGetTextJoinsRuns(t *testing.T) {
	body := `<w:p>` +
		`<w:r><w:rPr><w:b/></w:rPr><w:t>Hello </w:t></w:r>` +
		`<w:r><w:t>{companyname}</w:t></w:r>` +
		`</w:p>`
	doc := mustOpen(t, BuildTestDocx(body))

	p := doc.Body().Paragraphs()[0]
	if got := p.GetText(); got != "Hello {companyname}" {
		t.Errorf("GetText = %q, want %q", got, "Hello {companyname}")
	}
}

func TestParagraphSetTextKeepsFirstRunProperties(t *testing.T) {
	body := `<w:p>` +
		`<w:r><w:rPr><w:b/></w:rPr><w:t>Hello </w:t></w:r>` +
		`<w:r><w:rPr><w:i/></w:rPr><w:t>World</w:t></w:r>` +
		`</w:p>`
	doc := mustOpen(t, BuildTestDocx(body))

	p := doc.Body().Paragraphs()[0]
	p.SetText("Replaced")

	if got := p.GetText(); got != "Replaced" {
		t.Fatalf("GetText after SetText = %q, want %q", got, "Replaced")
	}
	runs := p.Runs()
	if runs[0].Properties == nil || !strings.Contains(string(runs[0].Properties.Content), "w:b") {
		t.Error("first run lost its bold property")
	}
	for i, r := range runs[1:] {
		if got := r.GetText(); got != "" {
			t.Errorf("run %d still has text %q", i+1, got)
		}
	}
}

func TestParagraphSetTextAppendsRunWhenEmpty(t *testing.T) {
	doc := mustOpen(t, BuildTestDocx(`<w:p></w:p>`))

	p := doc.Body().Paragraphs()[0]
	p.SetText("added")
	if got := p.GetText(); got != "added" {
		t.Errorf("GetText = %q, want %q", got, "added")
	}
}

func TestRemoveTableWithCaption(t *testing.T) {
	tests := []struct {
		name      string
		bodyXML   string
		remove    int
		wantParas []string
		wantTbls  int
	}{
		{
			name: "caption and blank absorbed",
			bodyXML: ParagraphXML("intro") +
				ParagraphXML("Table caption") +
				ParagraphXML("") +
				TableXML("victim"),
			remove:    0,
			wantParas: []string{"intro"},
			wantTbls:  0,
		},
		{
			name: "walk stops at preceding table",
			bodyXML: TableXML("keeper") +
				TableXML("victim") +
				ParagraphXML("after"),
			remove:    1,
			wantParas: []string{"after"},
			wantTbls:  1,
		},
		{
			name: "single non-empty caption absorbed then stop",
			bodyXML: ParagraphXML("stays") +
				ParagraphXML("caption") +
				TableXML("victim"),
			remove:    0,
			wantParas: []string{"stays"},
			wantTbls:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustOpen(t, BuildTestDocx(tt.bodyXML))
			if err := doc.Body().RemoveTableWithCaption(tt.remove); err != nil {
				t.Fatalf("RemoveTableWithCaption failed: %v", err)
			}
			if got := len(doc.Body().Tables()); got != tt.wantTbls {
				t.Errorf("tables left = %d, want %d", got, tt.wantTbls)
			}
			paras := doc.Body().Paragraphs()
			if len(paras) != len(tt.wantParas) {
				t.Fatalf("paragraphs left = %d, want %d", len(paras), len(tt.wantParas))
			}
			for i, want := range tt.wantParas {
				if got := paras[i].GetText(); got != want {
					t.Errorf("paragraph %d = %q, want %q", i, got, want)
				}
			}
		})
	}
}

func TestRemoveTableOutOfRange(t *testing.T) {
	doc := mustOpen(t, BuildTestDocx(TableXML("only")))
	if err := doc.Body().RemoveTableWithCaption(3); err == nil {
		t.Error("expected error for out-of-range index")
	}
	if err := doc.Body().RemoveTable(-1); err == nil {
		t.Error("expected error for negative index")
	}
}

func TestSectionsResolveHeaderFooterParts(t *testing.T) {
	data := BuildTestDocx(ParagraphXML("body"),
		TestHeaderFooter{Kind: "header", Type: RefFirst, BodyXML: ParagraphXML("cover head")},
		TestHeaderFooter{Kind: "header", Type: RefDefault, BodyXML: ParagraphXML("every head")},
		TestHeaderFooter{Kind: "footer", Type: RefDefault, BodyXML: ParagraphXML("every foot")},
	)
	doc := mustOpen(t, data)

	sections := doc.Sections()
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	sec := sections[0]

	hf, ok := sec.FirstPageHeader()
	if !ok {
		t.Fatal("first-page header not resolved")
	}
	if got := hf.Paragraphs()[0].GetText(); got != "cover head" {
		t.Errorf("first-page header text = %q", got)
	}
	if !sec.HasTitlePage() {
		t.Error("title page flag not detected")
	}
	if _, ok := sec.EvenPageHeader(); ok {
		t.Error("even-page header reported but none referenced")
	}
	if hf, ok := sec.Footer(); !ok || hf.Paragraphs()[0].GetText() != "every foot" {
		t.Error("default footer not resolved")
	}
}

func TestBytesRoundTrip(t *testing.T) {
	data := BuildTestDocx(
		ParagraphXML("keep me")+TableXML("cell"),
		TestHeaderFooter{Kind: "header", Type: RefDefault, BodyXML: ParagraphXML("head")},
	)
	doc := mustOpen(t, data)
	doc.Body().Paragraphs()[0].SetText("changed")

	out, err := doc.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}

	reopened := mustOpen(t, out)
	if got := reopened.Body().Paragraphs()[0].GetText(); got != "changed" {
		t.Errorf("round-trip paragraph = %q, want %q", got, "changed")
	}
	if got := reopened.Body().Tables()[0].Rows()[0].Cells()[0].Paragraphs()[0].GetText(); got != "cell" {
		t.Errorf("round-trip cell = %q, want %q", got, "cell")
	}
	sec := reopened.Sections()[0]
	hf, ok := sec.Header()
	if !ok || hf.Paragraphs()[0].GetText() != "head" {
		t.Error("header lost in round trip")
	}

	// Parts outside the rewritten set stay byte-identical.
	if !bytes.Equal(doc.parts["_rels/.rels"], reopened.parts["_rels/.rels"]) {
		t.Error("untouched part changed across round trip")
	}
}

func TestBytesEscapesText(t *testing.T) {
	doc := mustOpen(t, BuildTestDocx(ParagraphXML("{notes}")))
	doc.Body().Paragraphs()[0].SetText(`AT&T <"proposal">`)

	out, err := doc.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	reopened := mustOpen(t, out)
	if got := reopened.Body().Paragraphs()[0].GetText(); got != `AT&T <"proposal">` {
		t.Errorf("escaped round trip = %q", got)
	}
}

func TestRawElementsSurviveRoundTrip(t *testing.T) {
	body := ParagraphXML("text") +
		`<w:bookmarkStart w:id="0" w:name="cover"/><w:bookmarkEnd w:id="0"/>`
	doc := mustOpen(t, BuildTestDocx(body))

	out, err := doc.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	if !bytes.Contains(out, []byte(`w:name="cover"`)) {
		t.Error("bookmark raw element dropped during serialization")
	}
}
