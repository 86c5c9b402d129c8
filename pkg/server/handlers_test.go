package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"proposalgen/pkg/docx"
	"proposalgen/pkg/invoice"
	"proposalgen/pkg/proposal"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()

	docxPath := filepath.Join(dir, "proposal.docx")
	body := docx.ParagraphXML("Proposal for {companyname}") + docx.TableXML("summary")
	require.NoError(t, os.WriteFile(docxPath, docx.BuildTestDocx(body), 0o644))

	xlsxPath := filepath.Join(dir, "invoice.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SaveAs(xlsxPath))
	require.NoError(t, f.Close())

	return &Server{
		Proposals: proposal.NewGenerator(docxPath, testLogger()),
		Invoices:  invoice.NewGenerator(xlsxPath, testLogger()),
		Version:   "1.0.0",
		Log:       testLogger(),
	}
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router := newTestServer(t).Router(nil)
	w := doJSON(t, router, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","version":"1.0.0"}`, w.Body.String())
}

func TestGenerateWordHappyPath(t *testing.T) {
	router := newTestServer(t).Router(nil)
	payload := map[string]interface{}{
		"proposal_number": "PROP-1",
		"company":         map[string]interface{}{"name": "Acme"},
		"products": []map[string]interface{}{{
			"product_type": "HTZ Communications",
			"licence":      true,
			"user_count":   2,
			"unit_price":   1000,
			"total_price":  2000,
		}},
	}

	w := doJSON(t, router, http.MethodPost, "/generate-word", payload)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, proposal.ContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=PROP-1.docx", w.Header().Get("Content-Disposition"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	doc, err := docx.OpenBytes(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "Proposal for Acme", doc.Body().Paragraphs()[0].GetText())
}

func TestGenerateWordValidation(t *testing.T) {
	router := newTestServer(t).Router(nil)
	// proposal_number missing.
	w := doJSON(t, router, http.MethodPost, "/generate-word", map[string]interface{}{
		"company": map[string]interface{}{"name": "Acme"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "detail")
}

func TestGenerateWordTemplateMissing(t *testing.T) {
	srv := newTestServer(t)
	srv.Proposals.TemplatePath = filepath.Join(t.TempDir(), "gone.docx")
	router := srv.Router(nil)

	w := doJSON(t, router, http.MethodPost, "/generate-word", map[string]interface{}{
		"proposal_number": "PROP-2",
		"company":         map[string]interface{}{"name": "Acme"},
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"Template not found"}`, w.Body.String())
}

func TestGenerateInvoiceHappyPath(t *testing.T) {
	router := newTestServer(t).Router(nil)
	payload := map[string]interface{}{
		"invoice": map[string]interface{}{
			"invoice_number": "INV-9",
			"total_amount":   500,
		},
		"company": map[string]interface{}{"name": "Acme"},
	}

	w := doJSON(t, router, http.MethodPost, "/generate-invoice-excel", payload)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, invoice.ContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=Invoice_INV-9.xlsx", w.Header().Get("Content-Disposition"))
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestRequestIDPropagated(t *testing.T) {
	router := newTestServer(t).Router(nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "caller-supplied")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "caller-supplied", w.Header().Get("X-Request-ID"))
}
