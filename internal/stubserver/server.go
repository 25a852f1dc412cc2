// Package stubserver is a local stand-in for the document analysis server.
// It speaks the same wire format as the real backend, keeps its records in
// memory and derives extractions from uploads with a pluggable function.
package stubserver

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/nota/internal/extraction"
	"github.com/Veraticus/nota/internal/model"
	"github.com/gin-gonic/gin"
)

var (
	// ErrDuplicate is returned by Store.Save for an invoice already on file.
	ErrDuplicate = errors.New("invoice already on file")
	// ErrIncomplete is returned by Store.Save when required fields are missing.
	ErrIncomplete = errors.New("incomplete extraction")
)

const maxUploadBytes = 16 << 20

// Server serves the analysis and save endpoints.
type Server struct {
	store   *Store
	extract ExtractFunc
}

// Option configures a Server.
type Option func(*Server)

// WithExtractFunc replaces SampleExtract.
func WithExtractFunc(fn ExtractFunc) Option {
	return func(s *Server) {
		s.extract = fn
	}
}

// WithStore shares a store between servers.
func WithStore(store *Store) Option {
	return func(s *Server) {
		s.store = store
	}
}

// New creates a stub server with an empty store.
func New(opts ...Option) *Server {
	s := &Server{
		store:   NewStore(),
		extract: SampleExtract,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the server's record store.
func (s *Server) Store() *Store {
	return s.store
}

// Router constructs a gin engine with the stub's routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/health", s.handleHealth)
	r.POST(extraction.UploadPath, s.handleUpload)
	r.POST(extraction.SavePath, s.handleSave)
	return r
}

type uploadResponse struct {
	*Extraction
	Original   *Extraction            `json:"dados_originais"`
	Validation model.ValidationReport `json:"validacoes"`
}

func (s *Server) handleUpload(c *gin.Context) {
	file, header, err := c.Request.FormFile(extraction.UploadField)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "No PDF file was sent"})
		return
	}
	defer func() { _ = file.Close() }()

	if header.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "No file selected"})
		return
	}
	if !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "File must be a PDF"})
		return
	}

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "Could not read the uploaded file"})
		return
	}

	ext, err := s.extract(header.Filename, content)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "Extraction failed: " + err.Error()})
		return
	}

	if len(ext.Classifications) == 0 && ext.Items != nil && ext.Items.Description != "" {
		ext.Classifications = []string{Classify(ext.Items.Description)}
	}

	report := s.store.Validate(ext)
	if len(report.NewClassifications) > 0 {
		report.CreatedClassifications = s.store.CreateClassifications(report.NewClassifications)
	}

	filtered := *ext
	if report.IssuerExists {
		filtered.Issuer = nil
	}
	if report.SenderExists {
		filtered.Sender = nil
	}
	if report.InvoiceExists {
		filtered.Invoice = nil
	}

	slog.Debug("Analyzed upload",
		"file", header.Filename,
		"invoice_exists", report.InvoiceExists,
		"issuer_exists", report.IssuerExists,
		"sender_exists", report.SenderExists)

	c.JSON(http.StatusOK, uploadResponse{
		Extraction: &filtered,
		Validation: report,
		Original:   ext,
	})
}

type saveRequest struct {
	Original *Extraction `json:"dados_originais"`
}

func (s *Server) handleSave(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"sucesso": false, "erro": "No data was sent"})
		return
	}
	if req.Original == nil {
		c.JSON(http.StatusBadRequest, gin.H{"sucesso": false, "erro": "Original data not found"})
		return
	}

	saved, match, err := s.store.Save(req.Original)
	switch {
	case errors.Is(err, ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{
			"sucesso":  false,
			"erro":     "Invoice already exists in the database",
			"detalhes": match,
		})
		return
	case err != nil:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"sucesso": false, "erro": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sucesso":  true,
		"mensagem": "Data saved to the database",
		"resultado": gin.H{
			"sucesso":      true,
			"movimento_id": saved.MovementID,
			"emitente_id":  saved.IssuerID,
			"remetente_id": saved.SenderID,
		},
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	people, invoices, classifications := s.store.Counts()
	c.JSON(http.StatusOK, gin.H{
		"status":          "healthy",
		"people":          people,
		"invoices":        invoices,
		"classifications": classifications,
	})
}

// requestLogger logs each request through slog with its correlation id.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("Handled request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.GetHeader(extraction.RequestIDHeader))
	}
}
