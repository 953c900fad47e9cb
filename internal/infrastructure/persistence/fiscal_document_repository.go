package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/varejo/backend/internal/domain/fiscal"
	"github.com/varejo/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DocumentSequence tracks the running document number per (type, series)
type DocumentSequence struct {
	DocumentType string `gorm:"type:varchar(10);primaryKey"`
	Series       string `gorm:"type:varchar(10);primaryKey"`
	NextNumber   int64  `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (DocumentSequence) TableName() string {
	return "document_sequences"
}

// GormFiscalDocumentRepository implements FiscalDocumentRepository using GORM
type GormFiscalDocumentRepository struct {
	db *gorm.DB
}

// NewGormFiscalDocumentRepository creates a new GormFiscalDocumentRepository
func NewGormFiscalDocumentRepository(db *gorm.DB) *GormFiscalDocumentRepository {
	return &GormFiscalDocumentRepository{db: db}
}

// FindByID finds a fiscal document by its ID
func (r *GormFiscalDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*fiscal.FiscalDocument, error) {
	var doc fiscal.FiscalDocument
	if err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindByAccessKey finds a fiscal document by its access key
func (r *GormFiscalDocumentRepository) FindByAccessKey(ctx context.Context, accessKey string) (*fiscal.FiscalDocument, error) {
	var doc fiscal.FiscalDocument
	if err := r.db.WithContext(ctx).First(&doc, "access_key = ?", accessKey).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindAll finds all fiscal documents matching the filter
func (r *GormFiscalDocumentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]fiscal.FiscalDocument, error) {
	var docs []fiscal.FiscalDocument
	query := r.applyFilter(r.db.WithContext(ctx).Model(&fiscal.FiscalDocument{}), filter)

	if err := query.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// Count counts fiscal documents matching the filter
func (r *GormFiscalDocumentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&fiscal.FiscalDocument{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a fiscal document
func (r *GormFiscalDocumentRepository) Save(ctx context.Context, doc *fiscal.FiscalDocument) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

// ConfirmCancellation transitions a document to CANCELED with a conditional
// update on the current status. Zero affected rows means another request
// already moved the document out of AUTHORIZED, which surfaces as CONFLICT so
// the reversal cascade runs at most once per document.
func (r *GormFiscalDocumentRepository) ConfirmCancellation(ctx context.Context, id uuid.UUID, cancellationProtocol, reason string, canceledAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&fiscal.FiscalDocument{}).
		Where("id = ? AND status = ?", id, fiscal.DocumentStatusAuthorized).
		Updates(map[string]interface{}{
			"status":                fiscal.DocumentStatusCanceled,
			"cancellation_protocol": cancellationProtocol,
			"cancellation_reason":   reason,
			"canceled_at":           canceledAt,
			"updated_at":            canceledAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewConflictError("Document is no longer authorized")
	}
	return nil
}

// NextDocumentNumber returns the next number for a (type, series) pair
// without consuming it
func (r *GormFiscalDocumentRepository) NextDocumentNumber(ctx context.Context, docType fiscal.DocumentType, series string) (int64, error) {
	var seq DocumentSequence
	err := r.db.WithContext(ctx).
		First(&seq, "document_type = ? AND series = ?", docType, series).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 1, nil
		}
		return 0, err
	}
	return seq.NextNumber, nil
}

// AdvanceDocumentNumber records that the given number was consumed by an
// authorized document
func (r *GormFiscalDocumentRepository) AdvanceDocumentNumber(ctx context.Context, docType fiscal.DocumentType, series string, number int64) error {
	seq := DocumentSequence{
		DocumentType: string(docType),
		Series:       series,
		NextNumber:   number + 1,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "document_type"}, {Name: "series"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"next_number": number + 1}),
		}).
		Create(&seq).Error
}

func (r *GormFiscalDocumentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

func (r *GormFiscalDocumentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("access_key ILIKE ? OR authorization_protocol ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "document_type":
			query = query.Where("document_type = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "sale_id":
			query = query.Where("sale_id = ?", value)
		case "start_date":
			query = query.Where("issued_at >= ?", value)
		case "end_date":
			query = query.Where("issued_at <= ?", value)
		}
	}

	return query
}

// Ensure GormFiscalDocumentRepository implements FiscalDocumentRepository
var _ fiscal.FiscalDocumentRepository = (*GormFiscalDocumentRepository)(nil)
