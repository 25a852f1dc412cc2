package stubserver

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/nota/internal/extraction"
	"github.com/Veraticus/nota/internal/model"
	"github.com/Veraticus/nota/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const invoiceJSON = `{
	"nota_fiscal": {"numero": "123", "serie": "1", "data_emissao": "15/01/2024"},
	"emitente": {"razao_social": "Agro Insumos Ltda", "cnpj": "12.345.678/0001-90"},
	"remetente": {"nome_completo": "João Silva", "cpf_ou_cnpj": "123.456.789-00"},
	"itens": {"descricao_produtos": "Sementes de soja", "quantidade": 10, "parcelas": 1, "valor_total": 500.0}
}`

func init() {
	gin.SetMode(gin.TestMode)
}

func startStub(t *testing.T, opts ...Option) (*Server, *extraction.Client) {
	t.Helper()
	stub := New(opts...)
	server := httptest.NewServer(stub.Router())
	t.Cleanup(server.Close)

	client, err := extraction.New(server.URL)
	require.NoError(t, err)
	return stub, client
}

func writeDoc(t *testing.T, name, content string) model.Document {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return model.Document{Path: path, Name: name, ContentType: "application/pdf", Size: int64(len(content))}
}

func TestStub_AnalyzeCommitThenDuplicate(t *testing.T) {
	stub, client := startStub(t)
	ctx := context.Background()
	doc := writeDoc(t, "nota.pdf", invoiceJSON)

	first, err := client.Analyze(ctx, doc)
	require.NoError(t, err)
	assert.False(t, first.Validation.InvoiceExists)
	assert.Equal(t, []string{"INSUMOS AGRÍCOLAS"}, first.Classifications)
	require.Len(t, first.Validation.CreatedClassifications, 1)
	assert.Equal(t, "INSUMOS AGRÍCOLAS", first.Validation.CreatedClassifications[0].Name)
	assert.NotEmpty(t, first.Original)

	in := validation.Interpret(first)
	assert.False(t, in.BlocksCommit)
	require.NotNil(t, in.Preview.Issuer)
	assert.Equal(t, "Agro Insumos Ltda", in.Preview.Issuer.LegalName)

	outcome, err := client.Commit(ctx, first)
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	require.NotNil(t, outcome.Result)
	assert.NotZero(t, outcome.Result.MovementID)

	people, invoices, classifications := stub.Store().Counts()
	assert.Equal(t, 2, people)
	assert.Equal(t, 1, invoices)
	assert.Equal(t, 1, classifications)

	second, err := client.Analyze(ctx, doc)
	require.NoError(t, err)
	assert.True(t, second.Validation.InvoiceExists)
	assert.True(t, second.Validation.IssuerExists)
	assert.True(t, second.Validation.SenderExists)
	assert.Nil(t, second.Invoice, "existing invoice is removed from the top level")
	assert.Nil(t, second.Issuer)
	require.NotNil(t, second.Validation.Details.Invoice)
	assert.Equal(t, "500.00", second.Validation.Details.Invoice.Total.Decimal.StringFixed(2))
	assert.Len(t, second.Validation.KnownClassifications, 1)
	assert.Equal(t, "123", second.InvoiceNumber())

	in = validation.Interpret(second)
	assert.True(t, in.BlocksCommit)
	assert.True(t, in.Preview.IsEmpty())

	_, err = client.Commit(ctx, second)
	assert.ErrorIs(t, err, extraction.ErrDuplicateInvoice)

	_, invoices, _ = stub.Store().Counts()
	assert.Equal(t, 1, invoices)
}

func TestStub_SameNumberDifferentIssuerIsNotDuplicate(t *testing.T) {
	_, client := startStub(t)
	ctx := context.Background()

	first, err := client.Analyze(ctx, writeDoc(t, "a.pdf", invoiceJSON))
	require.NoError(t, err)
	_, err = client.Commit(ctx, first)
	require.NoError(t, err)

	var other map[string]any
	require.NoError(t, json.Unmarshal([]byte(invoiceJSON), &other))
	other["emitente"] = map[string]any{"razao_social": "Outra Ltda", "cnpj": "98.765.432/0001-10"}
	data, err := json.Marshal(other)
	require.NoError(t, err)

	second, err := client.Analyze(ctx, writeDoc(t, "b.pdf", string(data)))
	require.NoError(t, err)
	assert.False(t, second.Validation.InvoiceExists)
	assert.False(t, second.Validation.IssuerExists)
	assert.True(t, second.Validation.SenderExists)
}

func TestStub_SampleDocumentIsStable(t *testing.T) {
	_, client := startStub(t)
	ctx := context.Background()
	doc := writeDoc(t, "scan.pdf", "%PDF-1.4 binary content")

	first, err := client.Analyze(ctx, doc)
	require.NoError(t, err)
	second, err := client.Analyze(ctx, doc)
	require.NoError(t, err)

	assert.Equal(t, first.Invoice.Number, second.Invoice.Number)
	assert.Equal(t, []string{"INSUMOS AGRÍCOLAS"}, first.Classifications)
	assert.Len(t, second.Validation.KnownClassifications, 1)
}

func TestStub_UploadRejections(t *testing.T) {
	stub := New()
	router := stub.Router()

	tests := []struct {
		name     string
		field    string
		filename string
		content  string
		wantMsg  string
	}{
		{name: "wrong field", field: "file", filename: "a.pdf", content: "x", wantMsg: "No PDF file was sent"},
		{name: "not a pdf", field: "pdf", filename: "a.txt", content: "x", wantMsg: "File must be a PDF"},
		{name: "empty", field: "pdf", filename: "a.pdf", content: "", wantMsg: "Extraction failed: a.pdf is empty"},
		{name: "bad json", field: "pdf", filename: "a.pdf", content: "{nope", wantMsg: "Extraction failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := &bytes.Buffer{}
			writer := multipart.NewWriter(body)
			part, err := writer.CreateFormFile(tt.field, tt.filename)
			require.NoError(t, err)
			_, _ = part.Write([]byte(tt.content))
			require.NoError(t, writer.Close())

			req := httptest.NewRequest(http.MethodPost, extraction.UploadPath, body)
			req.Header.Set("Content-Type", writer.FormDataContentType())
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Contains(t, resp["erro"], tt.wantMsg)
		})
	}
}

func TestStub_SaveRequiresOriginalData(t *testing.T) {
	router := New().Router()

	for _, body := range []string{`not json`, `{"nota_fiscal": {"numero": "1"}}`} {
		req := httptest.NewRequest(http.MethodPost, extraction.SavePath, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestStub_SaveRequiresInvoiceNumber(t *testing.T) {
	router := New().Router()

	req := httptest.NewRequest(http.MethodPost, extraction.SavePath,
		bytes.NewBufferString(`{"dados_originais": {"emitente": {"cnpj": "1"}}}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestStub_CustomExtractFunc(t *testing.T) {
	_, client := startStub(t, WithExtractFunc(func(string, []byte) (*Extraction, error) {
		return &Extraction{
			Invoice:         &model.InvoiceHeader{Number: "77"},
			Classifications: []string{"FRETE"},
		}, nil
	}))

	result, err := client.Analyze(context.Background(), writeDoc(t, "x.pdf", "anything"))
	require.NoError(t, err)
	assert.Equal(t, "77", result.Invoice.Number)
	assert.Equal(t, []string{"FRETE"}, result.Validation.NewClassifications)
	assert.Equal(t, []string{"FRETE"}, result.Validation.NewEntities.Classifications)
}

func TestStub_Health(t *testing.T) {
	router := New().Router()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
