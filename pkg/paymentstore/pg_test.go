package paymentstore

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/payment"
	"github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/pgutil"
	mghelper "github.com/ritik4ever/cryptoanalyst-ai-backend/pkg/pgutil/migrations"
)

func setupStore(t *testing.T) (context.Context, *pgStore) {
	t.Helper()
	requireDockerAccess(t)

	ctx := context.Background()
	db, cleanup := pgutil.SetupTestDB(t)
	t.Cleanup(cleanup)

	if err := mghelper.CreateSchema(ctx, db, &PaymentDao{}); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	return ctx, NewStore(db)
}

func requireDockerAccess(t *testing.T) {
	t.Helper()

	candidates := []string{
		"/var/run/docker.sock",
		filepath.Join(os.Getenv("HOME"), ".docker/run/docker.sock"),
	}

	for _, sock := range candidates {
		if sock == "" {
			continue
		}
		if _, err := os.Stat(sock); err != nil {
			continue
		}
		conn, err := (&net.Dialer{}).DialContext(context.Background(), "unix", sock)
		if err == nil {
			_ = conn.Close()
			return
		}
	}

	t.Skip("docker daemon socket is not accessible; skipping testcontainer-backed paymentstore tests")
}

func newTestPayment() *payment.Payment {
	return payment.New(uuid.NewString(), uuid.NewString(), "TECHNICAL_ANALYSIS", decimal.NewFromInt(25), "USD")
}

func TestPaymentPGStore_CreateAndGet(t *testing.T) {
	ctx, s := setupStore(t)

	p := newTestPayment()
	if err := s.CreatePayment(ctx, p); err != nil {
		t.Fatalf("CreatePayment() failed: %v", err)
	}

	got, err := s.GetPayment(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPayment() failed: %v", err)
	}
	if got.Status != payment.StatusPending {
		t.Fatalf("status mismatch: got %s want %s", got.Status, payment.StatusPending)
	}
	if !got.Amount.Equal(p.Amount) {
		t.Fatalf("amount mismatch: got %s want %s", got.Amount, p.Amount)
	}

	_, err = s.GetPayment(ctx, uuid.NewString())
	if !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}
}

func TestPaymentPGStore_GatewayRefLookup(t *testing.T) {
	ctx, s := setupStore(t)

	p := newTestPayment()
	if err := s.CreatePayment(ctx, p); err != nil {
		t.Fatalf("CreatePayment() failed: %v", err)
	}

	if err := s.SetGatewayRef(ctx, p.ID, "inv-42"); err != nil {
		t.Fatalf("SetGatewayRef() failed: %v", err)
	}

	got, err := s.GetPaymentByGatewayRef(ctx, "inv-42")
	if err != nil {
		t.Fatalf("GetPaymentByGatewayRef() failed: %v", err)
	}
	if got.ID != p.ID {
		t.Fatalf("id mismatch: got %s want %s", got.ID, p.ID)
	}

	_, err = s.GetPaymentByGatewayRef(ctx, "inv-unknown")
	if !errors.Is(err, ErrPaymentNotFound) {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}
}

func TestPaymentPGStore_CompleteIfPending(t *testing.T) {
	ctx, s := setupStore(t)

	p := newTestPayment()
	if err := s.CreatePayment(ctx, p); err != nil {
		t.Fatalf("CreatePayment() failed: %v", err)
	}

	now := time.Now().UTC()
	swapped, err := s.CompleteIfPending(ctx, p.ID, "0xhash", now)
	if err != nil {
		t.Fatalf("CompleteIfPending() failed: %v", err)
	}
	if !swapped {
		t.Fatalf("expected first completion to win the swap")
	}

	got, err := s.GetPayment(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPayment() failed: %v", err)
	}
	if got.Status != payment.StatusCompleted {
		t.Fatalf("status mismatch: got %s want %s", got.Status, payment.StatusCompleted)
	}
	if got.TxHash == nil || *got.TxHash != "0xhash" {
		t.Fatalf("tx hash not recorded: %v", got.TxHash)
	}
	if got.CompletedAt == nil {
		t.Fatalf("completed_at not recorded")
	}

	// Repeated delivery loses the swap
	swapped, err = s.CompleteIfPending(ctx, p.ID, "0xother", time.Now().UTC())
	if err != nil {
		t.Fatalf("second CompleteIfPending() failed: %v", err)
	}
	if swapped {
		t.Fatalf("expected repeated completion to lose the swap")
	}

	// Terminal status is immutable
	swapped, err = s.FailIfPending(ctx, p.ID, time.Now().UTC())
	if err != nil {
		t.Fatalf("FailIfPending() failed: %v", err)
	}
	if swapped {
		t.Fatalf("expected fail after completion to lose the swap")
	}

	got, err = s.GetPayment(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPayment() failed: %v", err)
	}
	if got.Status != payment.StatusCompleted {
		t.Fatalf("terminal status changed: got %s", got.Status)
	}
	if *got.TxHash != "0xhash" {
		t.Fatalf("tx hash overwritten: got %s", *got.TxHash)
	}
}

func TestPaymentPGStore_FailIfPending(t *testing.T) {
	ctx, s := setupStore(t)

	p := newTestPayment()
	if err := s.CreatePayment(ctx, p); err != nil {
		t.Fatalf("CreatePayment() failed: %v", err)
	}

	swapped, err := s.FailIfPending(ctx, p.ID, time.Now().UTC())
	if err != nil {
		t.Fatalf("FailIfPending() failed: %v", err)
	}
	if !swapped {
		t.Fatalf("expected failure to win the swap")
	}

	got, err := s.GetPayment(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetPayment() failed: %v", err)
	}
	if got.Status != payment.StatusFailed {
		t.Fatalf("status mismatch: got %s want %s", got.Status, payment.StatusFailed)
	}

	swapped, err = s.CompleteIfPending(ctx, p.ID, "0xlate", time.Now().UTC())
	if err != nil {
		t.Fatalf("CompleteIfPending() failed: %v", err)
	}
	if swapped {
		t.Fatalf("expected completion after failure to lose the swap")
	}
}
