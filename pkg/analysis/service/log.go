package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/analysis"
)

const serviceName = "AnalysisService"

// logService wraps Service with automatic logging of all method calls
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the analysis Service.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

func (ls *logService) CreateAnalysisRequest(
	ctx context.Context,
	userID string,
	category analysis.Category,
	params analysis.Params,
) (result *CreateResult, err error) {
	start := time.Now()

	ls.logger.Info("CreateAnalysisRequest started",
		zap.String("service", serviceName),
		zap.String("user_id", userID),
		zap.String("category", string(category)),
		zap.String("symbol", params.Symbol),
	)

	defer func() {
		duration := time.Since(start)
		if err != nil {
			ls.logger.Error("CreateAnalysisRequest failed",
				zap.String("service", serviceName),
				zap.String("user_id", userID),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
		} else {
			ls.logger.Info("CreateAnalysisRequest completed",
				zap.String("service", serviceName),
				zap.String("analysis_id", result.Analysis.ID),
				zap.String("payment_id", result.Analysis.PaymentID),
				zap.Duration("duration", duration),
			)
		}
	}()

	return ls.svc.CreateAnalysisRequest(ctx, userID, category, params)
}

func (ls *logService) GetAnalysis(ctx context.Context, userID, id string) (*analysis.Analysis, error) {
	return ls.svc.GetAnalysis(ctx, userID, id)
}

func (ls *logService) ListUserAnalyses(ctx context.Context, userID string, page, limit int) (*Page, error) {
	return ls.svc.ListUserAnalyses(ctx, userID, page, limit)
}

func (ls *logService) ProcessAnalysis(ctx context.Context, userID, id string) (anl *analysis.Analysis, err error) {
	start := time.Now()

	ls.logger.Info("ProcessAnalysis started",
		zap.String("service", serviceName),
		zap.String("user_id", userID),
		zap.String("analysis_id", id),
	)

	defer func() {
		duration := time.Since(start)
		if err != nil {
			ls.logger.Error("ProcessAnalysis failed",
				zap.String("service", serviceName),
				zap.String("analysis_id", id),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
		} else {
			ls.logger.Info("ProcessAnalysis completed",
				zap.String("service", serviceName),
				zap.String("analysis_id", id),
				zap.String("status", string(anl.Status)),
				zap.Duration("duration", duration),
			)
		}
	}()

	return ls.svc.ProcessAnalysis(ctx, userID, id)
}
