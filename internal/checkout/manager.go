package checkout

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/marisimondelossantos-spec/petshop/internal/domain"
	"github.com/marisimondelossantos-spec/petshop/internal/events"
	"github.com/marisimondelossantos-spec/petshop/internal/store"
	"github.com/marisimondelossantos-spec/petshop/internal/ui"
	"github.com/marisimondelossantos-spec/petshop/pkg/logger"
)

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrInvalidPayment = errors.New("invalid payment details")
)

var gcashNumberRe = regexp.MustCompile(`^[0-9]{11}$`)

// PaymentDetails carries whatever the selected method needs; unused fields
// stay empty.
type PaymentDetails struct {
	CardNumber  string `json:"cardNumber"`
	CardExpiry  string `json:"cardExpiry"`
	CardCVV     string `json:"cardCvv"`
	CardName    string `json:"cardName"`
	GcashNumber string `json:"gcashNumber"`
}

// CartSource is the slice of the cart manager checkout needs.
type CartSource interface {
	Items() []domain.CartItem
	Subtotal() float64
	Clear(ctx context.Context) error
}

// UserSource reports the logged-in customer for the order snapshot.
type UserSource interface {
	CurrentUser(ctx context.Context) (domain.User, bool)
}

// Manager turns the cart into immutable orders. Orders are persisted newest
// first; nothing here ever moves an order past its initial "processing"
// status.
type Manager struct {
	mu       sync.Mutex
	store    *store.Store
	cart     CartSource
	users    UserSource
	bus      *events.Bus
	notifier ui.Notifier
	clock    clock.Clock
	newID    func() string
	log      *logger.Logger
}

type Deps struct {
	Store    *store.Store
	Cart     CartSource
	Users    UserSource
	Bus      *events.Bus
	Notifier ui.Notifier
	Clock    clock.Clock
	IDGen    func() string
	Logger   *logger.Logger
}

func NewManager(deps Deps) *Manager {
	if deps.Notifier == nil {
		deps.Notifier = ui.NopNotifier{}
	}
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	if deps.IDGen == nil {
		deps.IDGen = func() string { return ulid.Make().String() }
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	return &Manager{
		store:    deps.Store,
		cart:     deps.Cart,
		users:    deps.Users,
		bus:      deps.Bus,
		notifier: deps.Notifier,
		clock:    deps.Clock,
		newID:    deps.IDGen,
		log:      deps.Logger,
	}
}

// PlaceOrder validates the payment details, freezes the cart and customer
// into an order, persists it at the head of the orders list and only then
// clears the cart.
func (m *Manager) PlaceOrder(ctx context.Context, method domain.PaymentMethod, details PaymentDetails) (domain.Order, error) {
	if err := validatePayment(method, details); err != nil {
		return domain.Order{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.cart.Items()
	if len(items) == 0 {
		return domain.Order{}, ErrEmptyCart
	}

	order := domain.Order{
		ID:            "ORD-" + m.newID(),
		Date:          m.clock.Now(),
		Status:        domain.OrderStatusProcessing,
		PaymentMethod: method,
		Items:         orderItems(items),
		Total:         m.cart.Subtotal(),
	}
	if user, ok := m.users.CurrentUser(ctx); ok {
		order.Customer = domain.OrderCustomer{
			Name:          strings.TrimSpace(user.FirstName + " " + user.LastName),
			ContactNumber: user.ContactNumber,
			Address:       user.Address,
		}
	}

	orders := append([]domain.Order{order}, m.store.Orders(ctx)...)
	if err := m.store.SetOrders(ctx, orders); err != nil {
		return domain.Order{}, fmt.Errorf("persist order: %w", err)
	}

	if err := m.cart.Clear(ctx); err != nil {
		// The order is already durable; an uncleared cart is recoverable.
		m.log.Warn("clear cart after checkout", zap.String("order_id", order.ID), zap.Error(err))
	}

	if m.bus != nil {
		m.bus.Publish(events.Event{
			Type:    events.OrderPlaced,
			Payload: events.OrderPayload{OrderID: order.ID, Total: order.Total},
		})
	}
	m.notifier.Notify("Order placed successfully!", ui.LevelSuccess)
	return order, nil
}

// Orders returns the persisted history, newest first.
func (m *Manager) Orders(ctx context.Context) []domain.Order {
	return m.store.Orders(ctx)
}

func validatePayment(method domain.PaymentMethod, details PaymentDetails) error {
	switch method {
	case domain.PaymentCash:
		return nil
	case domain.PaymentCard:
		if details.CardNumber == "" || details.CardExpiry == "" ||
			details.CardCVV == "" || details.CardName == "" {
			return fmt.Errorf("%w: please fill in all card details", ErrInvalidPayment)
		}
		return nil
	case domain.PaymentGcash:
		if !gcashNumberRe.MatchString(details.GcashNumber) {
			return fmt.Errorf("%w: please enter a valid GCash number", ErrInvalidPayment)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown payment method %q", ErrInvalidPayment, method)
	}
}

func orderItems(items []domain.CartItem) []domain.OrderItem {
	out := make([]domain.OrderItem, 0, len(items))
	for _, it := range items {
		out = append(out, domain.OrderItem{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
			Image:    it.Image,
		})
	}
	return out
}
