package settlement_log

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatflowers/fakepay/internal/models"
	"github.com/fatflowers/fakepay/pkg/logctx"
	"github.com/fatflowers/fakepay/pkg/tool"
	"github.com/fatflowers/fakepay/pkg/types"

	"github.com/samber/lo"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FilterFields lists the columns admin scans may filter or sort on.
var FilterFields = []string{
	"session_id", "transaction_id", "reference", "method", "currency",
	"amount", "card_brand", "email_address", "settled_at", "created_at",
}

// ErrInvalidScanRequest marks scans rejected before reaching the database.
var ErrInvalidScanRequest = errors.New("invalid scan request")

type ScanRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanResponse struct {
	Items []*models.Settlement `json:"items"`
	Total int64                `json:"total"`
}

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service { return &Service{db: db, log: log} }

// Save asynchronously persists a settlement. Nil input is ignored.
func (s *Service) Save(ctx context.Context, rec *models.Settlement) {
	if rec == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := s.persist(ctx, rec); err != nil {
			logctx.FromCtx(ctx, s.log).Errorw("failed to save settlement", "transaction_id", rec.TransactionID, "err", err)
		}
	}()
}

func (s *Service) persist(ctx context.Context, rec *models.Settlement) error {
	if rec.ID == "" {
		rec.ID = tool.GenerateUUIDV7()
	}
	if rec.Extra == nil {
		rec.Extra = datatypes.JSONMap{}
	}
	return s.db.WithContext(ctx).Create(rec).Error
}

// Scan lists settlements with filters, pagination and sorting.
func (s *Service) Scan(ctx context.Context, req *ScanRequest) (*ScanResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", ErrInvalidScanRequest)
	}
	if err := types.ValidateFilters(req.Filters, FilterFields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScanRequest, err)
	}
	if req.SortBy != "" && !lo.Contains(FilterFields, req.SortBy) {
		return nil, fmt.Errorf("%w: sort field not allowed: %s", ErrInvalidScanRequest, req.SortBy)
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.From < 0 {
		req.From = 0
	}

	tx := s.db.WithContext(ctx).Model(&models.Settlement{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{types.FiltersAnd(req.Filters)}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count settlements: %w", err)
	}

	q := tx.Limit(req.Size)
	if req.From > 0 {
		q = q.Offset(req.From)
	}
	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = "settled_at"
	}
	q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: sortBy}, Desc: req.SortOrder != "asc"}}})

	var rows []*models.Settlement
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	return &ScanResponse{Items: rows, Total: total}, nil
}

var Module = fx.Options(
	fx.Provide(New),
)
