package stubserver

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Veraticus/nota/internal/model"
	"github.com/shopspring/decimal"
)

// Party kinds recorded for stored people.
const (
	KindSupplier = "FORNECEDOR"
	KindCustomer = "CLIENTE"
)

type movement struct {
	Total       decimal.NullDecimal
	Number      string
	IssueDate   string
	IssuerDoc   string
	Description string
	ID          int64
	IssuerID    int64
	SenderID    int64
}

// Store is the stub's in-memory database. It is safe for concurrent use.
type Store struct {
	people          map[string]model.PartyMatch
	classifications map[string]model.ClassificationRecord
	movements       []movement
	nextID          int64
	mu              sync.Mutex
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		people:          make(map[string]model.PartyMatch),
		classifications: make(map[string]model.ClassificationRecord),
	}
}

// SavedResult identifies the records written by Save.
type SavedResult struct {
	MovementID int64
	IssuerID   int64
	SenderID   int64
}

// Validate compares ext with stored records. Unknown classifications are
// listed in NewClassifications but not created.
func (s *Store) Validate(ext *Extraction) model.ValidationReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validateLocked(ext)
}

func (s *Store) validateLocked(ext *Extraction) model.ValidationReport {
	report := model.ValidationReport{
		KnownClassifications: []model.ClassificationRecord{},
		NewClassifications:   []string{},
	}

	if ext.Issuer != nil && ext.Issuer.CNPJ != "" {
		if p, ok := s.people[ext.Issuer.CNPJ]; ok {
			report.IssuerExists = true
			report.Details.Issuer = &p
		}
	}

	if ext.Sender != nil && ext.Sender.Document != "" {
		if p, ok := s.people[ext.Sender.Document]; ok {
			report.SenderExists = true
			report.Details.Sender = &p
		}
	}

	if m := s.findMovementLocked(ext); m != nil {
		report.InvoiceExists = true
		report.Details.Invoice = &model.InvoiceMatch{
			ID:          m.ID,
			Number:      m.Number,
			IssueDate:   m.IssueDate,
			Total:       m.Total,
			Description: m.Description,
		}
	}

	for _, name := range ext.Classifications {
		if c, ok := s.classifications[strings.ToUpper(name)]; ok {
			report.KnownClassifications = append(report.KnownClassifications, c)
		} else {
			report.NewClassifications = append(report.NewClassifications, name)
		}
	}

	if !report.IssuerExists {
		report.NewEntities.Issuer = ext.Issuer
	}
	if !report.SenderExists {
		report.NewEntities.Sender = ext.Sender
	}
	if !report.InvoiceExists {
		report.NewEntities.Invoice = ext.Invoice
	}
	if len(report.NewClassifications) > 0 {
		report.NewEntities.Classifications = report.NewClassifications
	}

	return report
}

// CreateClassifications stores the named classifications that do not exist
// yet and returns the created records.
func (s *Store) CreateClassifications(names []string) []model.ClassificationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createClassificationsLocked(names)
}

func (s *Store) createClassificationsLocked(names []string) []model.ClassificationRecord {
	var created []model.ClassificationRecord
	for _, name := range names {
		key := strings.ToUpper(name)
		if _, ok := s.classifications[key]; ok {
			continue
		}
		s.nextID++
		rec := model.ClassificationRecord{
			ID:          s.nextID,
			Name:        name,
			Description: "Created automatically: " + name,
		}
		s.classifications[key] = rec
		created = append(created, rec)
	}
	return created
}

// Save re-validates ext and stores it. It fails with ErrDuplicate when the
// invoice is already on file.
func (s *Store) Save(ext *Extraction) (SavedResult, *model.InvoiceMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := s.validateLocked(ext)
	if report.InvoiceExists {
		return SavedResult{}, report.Details.Invoice, ErrDuplicate
	}
	if ext.Invoice == nil || strings.TrimSpace(ext.Invoice.Number) == "" {
		return SavedResult{}, nil, fmt.Errorf("%w: invoice number is required", ErrIncomplete)
	}

	s.createClassificationsLocked(report.NewClassifications)

	var issuer, sender model.PartyMatch
	if ext.Issuer != nil {
		issuer = s.personLocked(ext.Issuer.CNPJ, ext.Issuer.LegalName, KindSupplier)
	}
	if ext.Sender != nil {
		sender = s.personLocked(ext.Sender.Document, ext.Sender.FullName, KindCustomer)
	}

	s.nextID++
	m := movement{
		ID:        s.nextID,
		Number:    ext.Invoice.Number,
		IssueDate: ext.Invoice.IssueDate,
		IssuerDoc: issuerDoc(ext),
		IssuerID:  issuer.ID,
		SenderID:  sender.ID,
	}
	if ext.Items != nil {
		m.Total = ext.Items.Total.NullDecimal
		m.Description = ext.Items.Description
	}
	s.movements = append(s.movements, m)

	return SavedResult{MovementID: m.ID, IssuerID: issuer.ID, SenderID: sender.ID}, nil, nil
}

// Counts reports how many people, invoices and classifications are stored.
func (s *Store) Counts() (people, invoices, classifications int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.people), len(s.movements), len(s.classifications)
}

func (s *Store) personLocked(document, name, kind string) model.PartyMatch {
	if document != "" {
		if p, ok := s.people[document]; ok {
			return p
		}
	}
	s.nextID++
	p := model.PartyMatch{ID: s.nextID, Name: name, Document: document, Kind: kind}
	if document != "" {
		s.people[document] = p
	}
	return p
}

// findMovementLocked looks an invoice up by number, issue date and issuer.
func (s *Store) findMovementLocked(ext *Extraction) *movement {
	if ext.Invoice == nil || ext.Invoice.Number == "" {
		return nil
	}
	doc := issuerDoc(ext)
	for i := range s.movements {
		m := &s.movements[i]
		if m.Number == ext.Invoice.Number && m.IssueDate == ext.Invoice.IssueDate && m.IssuerDoc == doc {
			return m
		}
	}
	return nil
}

func issuerDoc(ext *Extraction) string {
	if ext.Issuer == nil {
		return ""
	}
	return ext.Issuer.CNPJ
}
