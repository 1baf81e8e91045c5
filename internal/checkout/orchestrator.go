package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/artisanmarket/storefront/internal/cart"
	"github.com/artisanmarket/storefront/internal/events"
	"github.com/artisanmarket/storefront/internal/order"
	"github.com/artisanmarket/storefront/internal/pricing"
)

var (
	ErrWrongStep = errors.New("checkout: submit is only available from the payment step")
	ErrEmptyCart = errors.New("checkout: cart is empty")
)

// OrderPlacedPublisher emits the enveloped event once an order
// snapshot has been written.
type OrderPlacedPublisher interface {
	PublishOrderPlaced(ctx context.Context, o *order.Order, metadata events.PublishMetadata) error
}

// Orchestrator sequences the checkout wizard's terminal action:
// simulated payment processing, order snapshot, event publish, cart
// clear.
type Orchestrator struct {
	carts      *cart.Engine
	orders     order.Repository
	calculator pricing.Calculator
	publisher  OrderPlacedPublisher
	logger     *log.Logger

	// processingDelay simulates the payment-processor round trip. It
	// always elapses fully; the flow has no cancellation semantics.
	processingDelay time.Duration
	deliveryWindow  time.Duration
}

func NewOrchestrator(carts *cart.Engine, orders order.Repository, calculator pricing.Calculator, publisher OrderPlacedPublisher, logger *log.Logger, processingDelay time.Duration) *Orchestrator {
	return &Orchestrator{
		carts:           carts,
		orders:          orders,
		calculator:      calculator,
		publisher:       publisher,
		logger:          logger,
		processingDelay: processingDelay,
		deliveryWindow:  7 * 24 * time.Hour,
	}
}

// SubmitOrder is available only from the payment step. It snapshots
// the current cart into an Order, persists it, publishes OrderPlaced,
// clears the cart and moves the wizard to Complete.
//
// Payment itself never declines in this flow; the only error sources
// are step misuse, an empty cart and storage.
func (o *Orchestrator) SubmitOrder(ctx context.Context, userID string, w *Wizard, metadata events.PublishMetadata) (*order.Order, error) {
	if w.Step() != StepPayment {
		return nil, ErrWrongStep
	}
	if missing := w.missingFields(); len(missing) > 0 {
		return nil, fmt.Errorf("checkout: missing fields: %s", strings.Join(missing, ", "))
	}

	c := o.carts.Get(ctx, userID)
	if len(c.Items) == 0 {
		return nil, ErrEmptyCart
	}

	time.Sleep(o.processingDelay)

	ord := o.buildOrder(userID, c, w.Form())

	if err := o.orders.Create(ctx, ord); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if err := o.publisher.PublishOrderPlaced(ctx, ord, metadata); err != nil {
		// the order is already durable; a failed publish must not undo it
		o.logger.Printf("checkout: publish OrderPlaced for order %s: %v", ord.ID, err)
	}

	o.carts.Clear(ctx, userID)
	w.step = StepComplete

	o.logger.Printf("checkout: order %s placed for user %s (%d items, total %s)",
		ord.OrderNumber, userID, len(ord.Items), ord.Total.StringFixed(2))

	return ord, nil
}

func (o *Orchestrator) buildOrder(userID string, c cart.Cart, f Form) *order.Order {
	now := time.Now().UTC()
	breakdown := o.calculator.Totals(c.Subtotal())

	ord := &order.Order{
		ID:          uuid.NewString(),
		OrderNumber: newOrderNumber(now),
		UserID:      userID,
		ShippingAddress: order.Address{
			Name:    f.Name,
			Address: f.Address,
			City:    f.City,
			State:   f.State,
			Zip:     f.Zip,
			Country: f.Country,
		},
		Subtotal:          breakdown.Subtotal,
		Shipping:          breakdown.Shipping,
		Tax:               breakdown.Tax,
		Total:             breakdown.Total,
		Status:            order.StatusProcessing,
		CreatedAt:         now,
		EstimatedDelivery: now.Add(o.deliveryWindow),
	}

	for _, it := range c.Items {
		ord.Items = append(ord.Items, order.Item{
			ProductID: it.Product.ID,
			Name:      it.Product.Name,
			Price:     it.Product.Price,
			Quantity:  it.Quantity,
			Image:     it.Product.Image,
		})
	}

	return ord
}

func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}
