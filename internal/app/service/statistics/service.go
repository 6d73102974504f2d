package statistics

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	settlementlog "github.com/fatflowers/fakepay/internal/app/service/settlement_log"
	"github.com/fatflowers/fakepay/internal/models"
	"github.com/fatflowers/fakepay/pkg/types"
)

type StatisticType string

const (
	// Per day
	StatisticTypeDailySettlementCount StatisticType = "daily_settlement_count"
	StatisticTypeDailyVolume          StatisticType = "daily_volume"

	// Whole ledger
	StatisticTypeTotalVolume     StatisticType = "total_volume"
	StatisticTypeMethodBreakdown StatisticType = "method_breakdown"
)

var statisticTypes = []StatisticType{
	StatisticTypeDailySettlementCount,
	StatisticTypeDailyVolume,
	StatisticTypeTotalVolume,
	StatisticTypeMethodBreakdown,
}

var ErrInvalidStatisticRequest = errors.New("invalid statistic request")

type StatisticDataItem struct {
	ID StatisticType `json:"id"`
}

type StatisticRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	DataItems []*StatisticDataItem  `json:"data_items"`
}

// StatisticResponseDataItem is one bucket. Date is empty for whole-ledger
// statistics; Label is the currency or method the bucket is grouped by.
type StatisticResponseDataItem struct {
	Date  string          `json:"date,omitempty"`
	Label string          `json:"label,omitempty"`
	Count int64           `json:"count"`
	Value decimal.Decimal `json:"value" swaggertype:"string"`
}

type StatisticResponse struct {
	DataItems map[StatisticType][]StatisticResponseDataItem `json:"data_items"`
}

// Service aggregates the settlement ledger.
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) base(ctx context.Context, request *StatisticRequest) *gorm.DB {
	q := s.db.WithContext(ctx).Table((models.Settlement{}).TableName())
	if len(request.Filters) > 0 {
		q = q.Where(clause.Where{Exprs: []clause.Expression{types.FiltersAnd(request.Filters)}})
	}
	return q
}

func (s *Service) getDailySettlementCount(ctx context.Context, request *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	q := s.base(ctx, request).
		Select("TO_CHAR(settled_at, 'YYYY-MM-DD') as date, count(*) as count").
		Group("TO_CHAR(settled_at, 'YYYY-MM-DD')").
		Order("date")
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDailyVolume(ctx context.Context, request *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	q := s.base(ctx, request).
		Select("TO_CHAR(settled_at, 'YYYY-MM-DD') as date, currency AS label, count(*) as count, sum(amount) as value").
		Group("TO_CHAR(settled_at, 'YYYY-MM-DD')").
		Group("currency").
		Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}, Desc: true})
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getTotalVolume(ctx context.Context, request *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	q := s.base(ctx, request).
		Select("currency AS label, count(*) as count, sum(amount) as value").
		Group("currency").
		Order("label")
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getMethodBreakdown(ctx context.Context, request *StatisticRequest) ([]StatisticResponseDataItem, error) {
	var results []StatisticResponseDataItem
	q := s.base(ctx, request).
		Select("method AS label, count(*) as count, sum(amount) as value").
		Group("method").
		Order(clause.OrderByColumn{Column: clause.Column{Name: "count"}, Desc: true})
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getStatistic(ctx context.Context, request *StatisticRequest, dataItem *StatisticDataItem) ([]StatisticResponseDataItem, error) {
	switch dataItem.ID {
	case StatisticTypeDailySettlementCount:
		return s.getDailySettlementCount(ctx, request)
	case StatisticTypeDailyVolume:
		return s.getDailyVolume(ctx, request)
	case StatisticTypeTotalVolume:
		return s.getTotalVolume(ctx, request)
	case StatisticTypeMethodBreakdown:
		return s.getMethodBreakdown(ctx, request)
	default:
		return nil, fmt.Errorf("%w: invalid data item id: %s", ErrInvalidStatisticRequest, dataItem.ID)
	}
}

func validate(request *StatisticRequest) error {
	if request == nil || len(request.DataItems) == 0 {
		return fmt.Errorf("%w: no data items", ErrInvalidStatisticRequest)
	}
	if err := types.ValidateFilters(request.Filters, settlementlog.FilterFields); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidStatisticRequest, err)
	}
	for _, di := range request.DataItems {
		if di == nil || !lo.Contains(statisticTypes, di.ID) {
			return fmt.Errorf("%w: unknown data item", ErrInvalidStatisticRequest)
		}
	}
	return nil
}

// GetSettlementStatistic computes every requested data item concurrently.
func (s *Service) GetSettlementStatistic(ctx context.Context, request *StatisticRequest) (*StatisticResponse, error) {
	if err := validate(request); err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(request.DataItems))
	resChan := make(chan *lo.Entry[StatisticType, []StatisticResponseDataItem], len(request.DataItems))

	for _, item := range request.DataItems {
		wg.Add(1)
		go func(di *StatisticDataItem) {
			defer wg.Done()
			res, err := s.getStatistic(ctx, request, di)
			if err != nil {
				errChan <- err
				return
			}
			resChan <- &lo.Entry[StatisticType, []StatisticResponseDataItem]{Key: di.ID, Value: res}
		}(item)
	}

	go func() { wg.Wait(); close(errChan); close(resChan) }()

	results := make(map[StatisticType][]StatisticResponseDataItem)
	for i := 0; i < len(request.DataItems); i++ {
		select {
		case err := <-errChan:
			if err != nil {
				return nil, err
			}
		case entry := <-resChan:
			results[entry.Key] = entry.Value
		}
	}
	return &StatisticResponse{DataItems: results}, nil
}

var Module = fx.Options(
	fx.Provide(New),
)
