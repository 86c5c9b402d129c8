package proposal

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/sirupsen/logrus"

	"proposalgen/pkg/docx"
)

// ErrTemplateNotFound reports that the on-disk template is missing. The HTTP
// layer maps it to a not-found response.
var ErrTemplateNotFound = errors.New("template not found")

// ContentType is the media type of the generated proposal document.
const ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Generator produces proposal documents from the DOCX template at
// TemplatePath. The template is re-read from disk on every call so edits
// take effect without a restart and concurrent requests stay isolated.
type Generator struct {
	TemplatePath string
	Log          logrus.FieldLogger

	// Now supplies the offer date; tests pin it. Defaults to time.Now.
	Now func() time.Time
}

func NewGenerator(templatePath string, log logrus.FieldLogger) *Generator {
	return &Generator{TemplatePath: templatePath, Log: log}
}

func (g *Generator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

// Generate fills the template for one request: substitute every placeholder
// across all regions, prune the tables that do not apply to the first
// product, and serialize. No partial output: any failure returns before a
// byte stream exists.
func (g *Generator) Generate(req *Request) (*Result, error) {
	req.ApplyDefaults()

	doc, err := docx.OpenFile(g.TemplatePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, g.TemplatePath)
		}
		return nil, fmt.Errorf("load proposal template: %w", err)
	}

	fields := BuildFieldMap(req, g.now())
	replaced := Substitute(doc, fields, g.Log)
	g.Log.WithFields(logrus.Fields{
		"proposal":     req.ProposalNumber,
		"company":      req.Company.Name,
		"replacements": replaced,
	}).Info("proposal placeholders substituted")

	if p := req.FirstProduct(); p != nil {
		PruneTables(doc.Body(), PlanTables(p), g.Log)
	}

	data, err := doc.Bytes()
	if err != nil {
		return nil, fmt.Errorf("serialize proposal: %w", err)
	}
	return &Result{
		Data:        data,
		Filename:    req.ProposalNumber + ".docx",
		ContentType: ContentType,
	}, nil
}
