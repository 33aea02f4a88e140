package checkout

import (
	"errors"

	"gelato-pos/internal/audit"
	"gelato-pos/internal/inventory"
	"gelato-pos/internal/models"

	"gorm.io/gorm"
)

// Store is the persistence surface the checkout flow needs. The service is
// written against this interface so the failure ordering can be exercised
// without a database.
type Store interface {
	FindInvoiceByKey(key string) (*models.Invoice, error)
	CreateInvoice(inv *models.Invoice) error
	CreateInvoiceLines(lines []models.InvoiceLine) error
	DecrementStock(productID uint, quantity int) error
	FindActiveMethodByName(name string) (*models.PaymentMethod, error)
	ListActiveMethods() ([]models.PaymentMethod, error)
	CreatePayment(p *models.Payment) error
	WriteAudit(opts audit.RecordOptions) error
}

// ErrNotFound is returned by lookups that miss; callers must not treat it as
// a request failure.
var ErrNotFound = errors.New("not found")

// ErrDuplicateKey is returned by CreateInvoice when another invoice already
// holds the same idempotency key.
var ErrDuplicateKey = errors.New("duplicate idempotency key")

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) FindInvoiceByKey(key string) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.db.Where("idempotency_key = ?", key).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *gormStore) CreateInvoice(inv *models.Invoice) error {
	err := s.db.Create(inv).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}
	return err
}

func (s *gormStore) CreateInvoiceLines(lines []models.InvoiceLine) error {
	return s.db.Create(&lines).Error
}

func (s *gormStore) DecrementStock(productID uint, quantity int) error {
	return inventory.Decrement(s.db, productID, quantity)
}

func (s *gormStore) FindActiveMethodByName(name string) (*models.PaymentMethod, error) {
	var m models.PaymentMethod
	err := s.db.Where("name = ? AND active = ?", name, true).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *gormStore) ListActiveMethods() ([]models.PaymentMethod, error) {
	var methods []models.PaymentMethod
	if err := s.db.Where("active = ?", true).Order("id asc").Find(&methods).Error; err != nil {
		return nil, err
	}
	return methods, nil
}

func (s *gormStore) CreatePayment(p *models.Payment) error {
	return s.db.Create(p).Error
}

func (s *gormStore) WriteAudit(opts audit.RecordOptions) error {
	return audit.Record(opts)
}
