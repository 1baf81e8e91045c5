package checkout

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/artisanmarket/storefront/internal/cart"
	"github.com/artisanmarket/storefront/internal/catalog"
	"github.com/artisanmarket/storefront/internal/clientstore"
	"github.com/artisanmarket/storefront/internal/events"
	"github.com/artisanmarket/storefront/internal/order"
	"github.com/artisanmarket/storefront/internal/pricing"
)

type fakeOrderRepo struct {
	CreateFunc func(ctx context.Context, o *order.Order) error
	created    []*order.Order
}

func (f *fakeOrderRepo) Create(ctx context.Context, o *order.Order) error {
	f.created = append(f.created, o)
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, o)
	}
	return nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, orderID string) (*order.Order, error) {
	return nil, nil
}
func (f *fakeOrderRepo) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	return nil, nil
}
func (f *fakeOrderRepo) List(ctx context.Context) ([]order.Order, error) { return nil, nil }

func (f *fakeOrderRepo) MarkPaid(ctx context.Context, orderID string) error { return nil }
func (f *fakeOrderRepo) SetStatus(ctx context.Context, orderID string, status order.Status) error {
	return nil
}
func (f *fakeOrderRepo) Summary(ctx context.Context) (order.SummaryStats, error) {
	return order.SummaryStats{}, nil
}

type fakePublisher struct {
	PublishFunc func(ctx context.Context, o *order.Order, metadata events.PublishMetadata) error
	published   []*order.Order
}

func (f *fakePublisher) PublishOrderPlaced(ctx context.Context, o *order.Order, metadata events.PublishMetadata) error {
	f.published = append(f.published, o)
	if f.PublishFunc != nil {
		return f.PublishFunc(ctx, o, metadata)
	}
	return nil
}

type noopNotifier struct{}

func (noopNotifier) Notify(userID, message string) {}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newCartEngine() *cart.Engine {
	return cart.NewEngine(clientstore.NewMemoryStore(), noopNotifier{}, testLogger())
}

func paymentWizard() *Wizard {
	w := NewWizardAt(StepPayment)
	w.SetForm(completeForm())
	return w
}

func seedCart(t *testing.T, carts *cart.Engine, userID string) {
	t.Helper()
	carts.AddItem(context.Background(), userID, catalog.Product{
		ID:    "p1",
		Name:  "Stoneware Mug",
		Price: decimal.RequireFromString("24.00"),
	}, 2)
	carts.AddItem(context.Background(), userID, catalog.Product{
		ID:    "p2",
		Name:  "Walnut Serving Board",
		Price: decimal.RequireFromString("58.50"),
	}, 1)
}

func TestSubmitOrderHappyPath(t *testing.T) {
	carts := newCartEngine()
	repo := &fakeOrderRepo{}
	pub := &fakePublisher{}
	orch := NewOrchestrator(carts, repo, pricing.DefaultCalculator(), pub, testLogger(), 0)

	seedCart(t, carts, "u1")
	w := paymentWizard()

	ord, err := orch.SubmitOrder(context.Background(), "u1", w, events.PublishMetadata{})
	if err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}

	if len(ord.Items) != 2 {
		t.Fatalf("expected 2 snapshot items, got %d", len(ord.Items))
	}
	if ord.Items[0].Quantity != 2 || ord.Items[1].Quantity != 1 {
		t.Fatalf("unexpected quantities: %d, %d", ord.Items[0].Quantity, ord.Items[1].Quantity)
	}
	// 24.00*2 + 58.50 = 106.50, over the free shipping threshold
	if !ord.Subtotal.Equal(decimal.RequireFromString("106.50")) {
		t.Fatalf("subtotal = %s, want 106.50", ord.Subtotal)
	}
	if !ord.Shipping.IsZero() {
		t.Fatalf("expected free shipping, got %s", ord.Shipping)
	}
	if !ord.Total.Equal(decimal.RequireFromString("115.02")) {
		t.Fatalf("total = %s, want 115.02", ord.Total)
	}
	if ord.Status != order.StatusProcessing {
		t.Fatalf("status = %s, want %s", ord.Status, order.StatusProcessing)
	}
	if ord.ShippingAddress.City != "Asheville" {
		t.Fatalf("unexpected shipping address: %+v", ord.ShippingAddress)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected 1 persisted order, got %d", len(repo.created))
	}
	if len(pub.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(pub.published))
	}
}

func TestSubmitOrderClearsCartAndCompletesWizard(t *testing.T) {
	carts := newCartEngine()
	orch := NewOrchestrator(carts, &fakeOrderRepo{}, pricing.DefaultCalculator(), &fakePublisher{}, testLogger(), 0)

	seedCart(t, carts, "u1")
	w := paymentWizard()

	if _, err := orch.SubmitOrder(context.Background(), "u1", w, events.PublishMetadata{}); err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}

	if c := carts.Get(context.Background(), "u1"); len(c.Items) != 0 {
		t.Fatalf("expected cart cleared, got %d items", len(c.Items))
	}
	if w.Step() != StepComplete {
		t.Fatalf("expected wizard at complete, got %s", w.Step())
	}
}

func TestSubmitOrderRejectsWrongStep(t *testing.T) {
	carts := newCartEngine()
	orch := NewOrchestrator(carts, &fakeOrderRepo{}, pricing.DefaultCalculator(), &fakePublisher{}, testLogger(), 0)

	seedCart(t, carts, "u1")
	w := NewWizardAt(StepShipping)
	w.SetForm(completeForm())

	if _, err := orch.SubmitOrder(context.Background(), "u1", w, events.PublishMetadata{}); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("expected ErrWrongStep, got %v", err)
	}
	if c := carts.Get(context.Background(), "u1"); len(c.Items) == 0 {
		t.Fatalf("expected cart untouched on rejection")
	}
}

func TestSubmitOrderRejectsEmptyCart(t *testing.T) {
	orch := NewOrchestrator(newCartEngine(), &fakeOrderRepo{}, pricing.DefaultCalculator(), &fakePublisher{}, testLogger(), 0)

	if _, err := orch.SubmitOrder(context.Background(), "u1", paymentWizard(), events.PublishMetadata{}); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestSubmitOrderRejectsIncompletePayment(t *testing.T) {
	carts := newCartEngine()
	orch := NewOrchestrator(carts, &fakeOrderRepo{}, pricing.DefaultCalculator(), &fakePublisher{}, testLogger(), 0)

	seedCart(t, carts, "u1")
	w := NewWizardAt(StepPayment)
	f := completeForm()
	f.PaymentMethod = PaymentCreditCard
	w.SetForm(f)

	_, err := orch.SubmitOrder(context.Background(), "u1", w, events.PublishMetadata{})
	if err == nil || !strings.Contains(err.Error(), "cardNumber") {
		t.Fatalf("expected missing card fields error, got %v", err)
	}
}

func TestSubmitOrderSurfacesStorageErrors(t *testing.T) {
	carts := newCartEngine()
	repo := &fakeOrderRepo{
		CreateFunc: func(ctx context.Context, o *order.Order) error {
			return errors.New("db down")
		},
	}
	pub := &fakePublisher{}
	orch := NewOrchestrator(carts, repo, pricing.DefaultCalculator(), pub, testLogger(), 0)

	seedCart(t, carts, "u1")
	w := paymentWizard()

	if _, err := orch.SubmitOrder(context.Background(), "u1", w, events.PublishMetadata{}); err == nil {
		t.Fatalf("expected storage error surfaced")
	}
	if len(pub.published) != 0 {
		t.Fatalf("expected no publish after failed create")
	}
	if c := carts.Get(context.Background(), "u1"); len(c.Items) == 0 {
		t.Fatalf("expected cart kept after failed create")
	}
	if w.Step() != StepPayment {
		t.Fatalf("expected wizard still at payment, got %s", w.Step())
	}
}

func TestSubmitOrderToleratesPublishFailure(t *testing.T) {
	carts := newCartEngine()
	pub := &fakePublisher{
		PublishFunc: func(ctx context.Context, o *order.Order, metadata events.PublishMetadata) error {
			return errors.New("broker unreachable")
		},
	}
	orch := NewOrchestrator(carts, &fakeOrderRepo{}, pricing.DefaultCalculator(), pub, testLogger(), 0)

	seedCart(t, carts, "u1")
	w := paymentWizard()

	ord, err := orch.SubmitOrder(context.Background(), "u1", w, events.PublishMetadata{})
	if err != nil {
		t.Fatalf("expected publish failure tolerated, got %v", err)
	}
	if ord == nil {
		t.Fatalf("expected order returned despite publish failure")
	}
	if c := carts.Get(context.Background(), "u1"); len(c.Items) != 0 {
		t.Fatalf("expected cart cleared despite publish failure")
	}
}

func TestOrderNumberFormat(t *testing.T) {
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

	num := newOrderNumber(now)
	parts := strings.Split(num, "-")
	if len(parts) != 3 || parts[0] != "ORD" || parts[1] != "20260314" {
		t.Fatalf("unexpected order number %q", num)
	}
	if len(parts[2]) != 8 || parts[2] != strings.ToUpper(parts[2]) {
		t.Fatalf("unexpected order number suffix %q", parts[2])
	}
}

func TestEstimatedDeliveryIsSevenDaysOut(t *testing.T) {
	carts := newCartEngine()
	orch := NewOrchestrator(carts, &fakeOrderRepo{}, pricing.DefaultCalculator(), &fakePublisher{}, testLogger(), 0)

	seedCart(t, carts, "u1")
	ord, err := orch.SubmitOrder(context.Background(), "u1", paymentWizard(), events.PublishMetadata{})
	if err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}

	if got := ord.EstimatedDelivery.Sub(ord.CreatedAt); got != 7*24*time.Hour {
		t.Fatalf("estimated delivery window = %s, want 168h", got)
	}
}
