package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const serviceName = "PaymentService"

// logService wraps Service with automatic logging of all method calls
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the payment Service.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

func (ls *logService) CreatePayment(
	ctx context.Context,
	userID, category string,
	amount decimal.Decimal,
) (result *CheckoutResult, err error) {
	start := time.Now()

	ls.logger.Info("CreatePayment started",
		zap.String("service", serviceName),
		zap.String("user_id", userID),
		zap.String("category", category),
		zap.String("amount", amount.String()),
	)

	defer func() {
		duration := time.Since(start)
		if err != nil {
			ls.logger.Error("CreatePayment failed",
				zap.String("service", serviceName),
				zap.String("user_id", userID),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
		} else {
			ls.logger.Info("CreatePayment completed",
				zap.String("service", serviceName),
				zap.String("payment_id", result.Payment.ID),
				zap.Duration("duration", duration),
			)
		}
	}()

	return ls.svc.CreatePayment(ctx, userID, category, amount)
}

func (ls *logService) GetPaymentStatus(ctx context.Context, userID, id string) (*PaymentDetails, error) {
	return ls.svc.GetPaymentStatus(ctx, userID, id)
}

func (ls *logService) ReconcileWebhook(ctx context.Context, payload []byte, signature string) (err error) {
	start := time.Now()

	ls.logger.Info("ReconcileWebhook started",
		zap.String("service", serviceName),
		zap.Int("payload_bytes", len(payload)),
	)

	defer func() {
		duration := time.Since(start)
		if err != nil {
			ls.logger.Error("ReconcileWebhook failed",
				zap.String("service", serviceName),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
		} else {
			ls.logger.Info("ReconcileWebhook completed",
				zap.String("service", serviceName),
				zap.Duration("duration", duration),
			)
		}
	}()

	return ls.svc.ReconcileWebhook(ctx, payload, signature)
}

func (ls *logService) CompletePayment(ctx context.Context, userID, id string) (details *PaymentDetails, err error) {
	start := time.Now()

	ls.logger.Info("CompletePayment started",
		zap.String("service", serviceName),
		zap.String("user_id", userID),
		zap.String("payment_id", id),
	)

	defer func() {
		duration := time.Since(start)
		if err != nil {
			ls.logger.Error("CompletePayment failed",
				zap.String("service", serviceName),
				zap.String("payment_id", id),
				zap.Duration("duration", duration),
				zap.Error(err),
			)
		} else {
			ls.logger.Info("CompletePayment completed",
				zap.String("service", serviceName),
				zap.String("payment_id", id),
				zap.Duration("duration", duration),
			)
		}
	}()

	return ls.svc.CompletePayment(ctx, userID, id)
}
