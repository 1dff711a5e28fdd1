package analysisstore

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/analysis"
)

// AnalysisDao is a data access object that maps directly to the 'analyses' table in PostgreSQL.
// Params and Result are stored as jsonb so new analysis inputs do not require
// schema changes.
type AnalysisDao struct {
	bun.BaseModel `bun:"table:analyses,alias:a"`
	ID            string          `bun:"id,pk,type:uuid"`
	UserID        string          `bun:"user_id,notnull,type:uuid"`
	Category      string          `bun:"category,notnull,type:varchar(64)"`
	Params        json.RawMessage `bun:"params,notnull,type:jsonb"`
	Price         string          `bun:"price,notnull,type:numeric(38,18)"`
	Status        string          `bun:"status,notnull,type:varchar(32)"`
	PaymentID     *string         `bun:"payment_id,type:uuid"`
	Result        json.RawMessage `bun:"result,nullzero,type:jsonb"`
	CreatedAt     time.Time       `bun:"created_at,nullzero,default:current_timestamp"`
	UpdatedAt     time.Time       `bun:"updated_at,nullzero,default:current_timestamp"`
	CompletedAt   *time.Time      `bun:"completed_at"`
}

// toAnalysisDao converts an analysis.Analysis to AnalysisDao.
func toAnalysisDao(anl *analysis.Analysis) (*AnalysisDao, error) {
	params, err := json.Marshal(anl.Params)
	if err != nil {
		return nil, err
	}

	dao := &AnalysisDao{
		ID:          anl.ID,
		UserID:      anl.UserID,
		Category:    string(anl.Category),
		Params:      params,
		Price:       anl.Price.String(),
		Status:      string(anl.Status),
		CreatedAt:   anl.CreatedAt,
		UpdatedAt:   anl.UpdatedAt,
		CompletedAt: anl.CompletedAt,
	}

	if anl.PaymentID != "" {
		dao.PaymentID = &anl.PaymentID
	}
	if anl.Result != nil {
		result, err := json.Marshal(anl.Result)
		if err != nil {
			return nil, err
		}
		dao.Result = result
	}

	return dao, nil
}

// toAnalysis converts an AnalysisDao to analysis.Analysis.
func toAnalysis(dao *AnalysisDao) (*analysis.Analysis, error) {
	price, err := decimal.NewFromString(dao.Price)
	if err != nil {
		return nil, err
	}

	anl := &analysis.Analysis{
		ID:          dao.ID,
		UserID:      dao.UserID,
		Category:    analysis.Category(dao.Category),
		Price:       price,
		Status:      analysis.Status(dao.Status),
		CreatedAt:   dao.CreatedAt,
		UpdatedAt:   dao.UpdatedAt,
		CompletedAt: dao.CompletedAt,
	}

	if err := json.Unmarshal(dao.Params, &anl.Params); err != nil {
		return nil, err
	}
	if dao.PaymentID != nil {
		anl.PaymentID = *dao.PaymentID
	}
	if len(dao.Result) > 0 {
		anl.Result = new(analysis.Result)
		if err := json.Unmarshal(dao.Result, anl.Result); err != nil {
			return nil, err
		}
	}

	return anl, nil
}
