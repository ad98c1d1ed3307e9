// Package checkout turns a session's cart, or a single buy-now product, into a
// persisted order and hands the result to the confirmation view once.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"storefront/internal/cartstate"
	"storefront/internal/domain"
	"storefront/internal/notify"
	"storefront/internal/validate"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var (
	ErrEmptyOrder = errors.New("order has no items")
	// ErrSubmissionInProgress rejects a second submit for a session whose
	// previous submit has not finished.
	ErrSubmissionInProgress = errors.New("submission already in progress")
	// ErrPartialOrder means items could not be stored and the order row could
	// not be removed either. The order needs manual reconciliation.
	ErrPartialOrder = errors.New("order partially stored")
	ErrOutOfStock   = errors.New("requested quantity exceeds stock")
)

type orderStore interface {
	CreateOrder(ctx context.Context, o domain.Order) (*domain.Order, error)
	CreateItems(ctx context.Context, orderID string, items []domain.OrderItem) ([]domain.OrderItem, error)
	Delete(ctx context.Context, id string) error
}

// txOrderStore is implemented by stores that can write the order and its
// items atomically.
type txOrderStore interface {
	CreateWithItems(ctx context.Context, o domain.Order, items []domain.OrderItem) (*domain.Order, error)
}

type productReader interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type sessionStore interface {
	Get(ctx context.Context, sessionID string) (*cartstate.Store, error)
}

// Notifier is told about every stored order. Its failures never undo the order.
type Notifier interface {
	OrderPlaced(ctx context.Context, o domain.Order) error
}

// Request is the checkout form.
type Request struct {
	CustomerName        string               `json:"customerName" validate:"required,max=200"`
	CustomerPhone       string               `json:"customerPhone" validate:"required,phone"`
	CustomerEmail       string               `json:"customerEmail" validate:"omitempty,email,max=254"`
	CustomerAddress     string               `json:"customerAddress" validate:"max=500"`
	SpecialInstructions string               `json:"specialInstructions" validate:"max=1000"`
	PaymentMethod       domain.PaymentMethod `json:"paymentMethod" validate:"omitempty,oneof=cash_on_delivery bank_transfer credit_card"`
	// BuyNow bypasses the cart.
	BuyNow *BuyNow `json:"buyNow,omitempty"`
}

type BuyNow struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=1"`
}

// Confirmation is what the shopper sees after a successful submit.
type Confirmation struct {
	Order           domain.Order `json:"order"`
	Quote           Quote        `json:"quote"`
	NotificationURL string       `json:"notificationUrl,omitempty"`
	Message         string       `json:"message"`
	// Placeholder is set when the one-time confirmation was already taken.
	Placeholder bool `json:"placeholder"`
}

const confirmationMessage = "Thank you for your order. We received it and will contact you shortly to arrange delivery."

type Config struct {
	Pricing          Pricing
	Currency         string
	MerchantWhatsApp string
	Timeout          time.Duration
	// ConfirmationTTL bounds how long an untaken confirmation is kept.
	ConfirmationTTL time.Duration
}

type Service struct {
	orders   orderStore
	products productReader
	sessions sessionStore
	notifier Notifier
	cfg      Config
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time

	mu            sync.Mutex
	inFlight      map[string]struct{}
	confirmations map[string]pendingConfirmation
}

type pendingConfirmation struct {
	conf    Confirmation
	created time.Time
}

func New(orders orderStore, products productReader, sessions sessionStore, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.ConfirmationTTL <= 0 {
		cfg.ConfirmationTTL = time.Hour
	}
	return &Service{
		orders:        orders,
		products:      products,
		sessions:      sessions,
		cfg:           cfg,
		validate:      validate.New(),
		logger:        logger.Named("checkout"),
		now:           time.Now,
		inFlight:      make(map[string]struct{}),
		confirmations: make(map[string]pendingConfirmation),
	}
}

// SetNotifier attaches an optional merchant notifier.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// Preview prices the session's cart without submitting it.
func (s *Service) Preview(ctx context.Context, sessionID string) (Quote, error) {
	store, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return Quote{}, err
	}
	return s.cfg.Pricing.Quote(store.Totals()), nil
}

// Submit validates req, stores the order and its items, removes the ordered
// lines from the cart for a cart checkout and keeps the confirmation for TakeConfirmation. On failure
// the cart is left untouched.
func (s *Service) Submit(ctx context.Context, sessionID string, req Request) (*Confirmation, error) {
	req = normalize(req)
	if err := validate.Struct(s.validate, req); err != nil {
		return nil, err
	}

	store, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	var ordered []cartstate.CartLine
	if req.BuyNow == nil {
		if ordered = store.Lines(); len(ordered) == 0 {
			return nil, ErrEmptyOrder
		}
	}

	if !s.begin(sessionID) {
		return nil, ErrSubmissionInProgress
	}
	defer s.end(sessionID)

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	items, err := s.items(ctx, ordered, req.BuyNow)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	quote := s.cfg.Pricing.Quote(domain.ComputeTotals(items))
	order := domain.Order{
		CustomerName:        req.CustomerName,
		CustomerPhone:       req.CustomerPhone,
		CustomerEmail:       req.CustomerEmail,
		CustomerAddress:     req.CustomerAddress,
		SpecialInstructions: req.SpecialInstructions,
		PaymentMethod:       req.PaymentMethod,
		Subtotal:            quote.Subtotal,
		ShippingCost:        quote.ShippingCost,
		TotalAmount:         quote.Total,
		Status:              domain.OrderStatusPending,
	}

	created, err := s.persist(ctx, order, items)
	if err != nil {
		return nil, err
	}

	if req.BuyNow == nil {
		store.RemoveOrdered(ordered)
	}

	conf := Confirmation{
		Order:           *created,
		Quote:           quote,
		NotificationURL: notify.MessageURL(s.cfg.MerchantWhatsApp, notify.OrderMessage(*created, s.cfg.Currency)),
		Message:         confirmationMessage,
	}
	s.keepConfirmation(sessionID, conf)

	s.logger.Info("order submitted",
		zap.String("order_id", created.ID),
		zap.Int("items", len(created.Items)),
		zap.String("total", created.TotalAmount.String()),
		zap.Bool("buy_now", req.BuyNow != nil),
	)

	if s.notifier != nil {
		if err := s.notifier.OrderPlaced(ctx, *created); err != nil {
			s.logger.Warn("order notification failed", zap.String("order_id", created.ID), zap.Error(err))
		}
	}
	return &conf, nil
}

// TakeConfirmation returns the last confirmation of the session exactly once.
// Later calls get a placeholder without order details.
func (s *Service) TakeConfirmation(sessionID string) Confirmation {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.confirmations[sessionID]
	if ok {
		delete(s.confirmations, sessionID)
		return p.conf
	}
	return Confirmation{
		Order:       domain.Order{Status: domain.OrderStatusPending, PaymentMethod: domain.PaymentCashOnDelivery},
		Message:     confirmationMessage,
		Placeholder: true,
	}
}

func (s *Service) items(ctx context.Context, lines []cartstate.CartLine, buyNow *BuyNow) ([]domain.OrderItem, error) {
	if buyNow != nil {
		p, err := s.products.GetByID(ctx, buyNow.ProductID)
		if err != nil {
			return nil, err
		}
		if !p.InStock || buyNow.Quantity > p.StockQuantity {
			return nil, fmt.Errorf("%s: %w", p.Name, ErrOutOfStock)
		}
		id := p.ID
		return []domain.OrderItem{{
			ProductID:    &id,
			ProductName:  p.Name,
			ProductImage: p.PrimaryImage(),
			Quantity:     buyNow.Quantity,
			UnitPrice:    p.Price,
		}}, nil
	}

	items := make([]domain.OrderItem, 0, len(lines))
	for _, l := range lines {
		id := l.ProductID
		items = append(items, domain.OrderItem{
			ProductID:    &id,
			ProductName:  l.Name,
			ProductImage: l.ImageRef,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
		})
	}
	return items, nil
}

// persist writes the order before its items. Without a transactional store a
// failed item write deletes the order again.
func (s *Service) persist(ctx context.Context, order domain.Order, items []domain.OrderItem) (*domain.Order, error) {
	if tx, ok := s.orders.(txOrderStore); ok {
		created, err := tx.CreateWithItems(ctx, order, items)
		if err != nil {
			s.logger.Error("store order failed", zap.Error(err))
			return nil, err
		}
		return created, nil
	}

	created, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		s.logger.Error("store order failed", zap.Error(err))
		return nil, err
	}
	stored, err := s.orders.CreateItems(ctx, created.ID, items)
	if err != nil {
		s.logger.Warn("store order items failed, removing order", zap.String("order_id", created.ID), zap.Error(err))
		// The request context may already be done; compensation gets its own.
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Timeout)
		defer cancel()
		if derr := s.orders.Delete(cctx, created.ID); derr != nil {
			s.logger.Error("remove partial order failed",
				zap.String("order_id", created.ID),
				zap.Bool("reconcile", true),
				zap.Error(derr),
			)
			return nil, fmt.Errorf("order %s: %w", created.ID, errors.Join(ErrPartialOrder, err, derr))
		}
		return nil, err
	}
	created.Items = stored
	return created, nil
}

func (s *Service) begin(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[sessionID]; busy {
		return false
	}
	s.inFlight[sessionID] = struct{}{}
	return true
}

func (s *Service) end(sessionID string) {
	s.mu.Lock()
	delete(s.inFlight, sessionID)
	s.mu.Unlock()
}

func (s *Service) keepConfirmation(sessionID string, conf Confirmation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, p := range s.confirmations {
		if now.Sub(p.created) > s.cfg.ConfirmationTTL {
			delete(s.confirmations, id)
		}
	}
	s.confirmations[sessionID] = pendingConfirmation{conf: conf, created: now}
}

func normalize(req Request) Request {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerPhone = validate.NormalizePhone(req.CustomerPhone)
	req.CustomerEmail = strings.ToLower(strings.TrimSpace(req.CustomerEmail))
	req.CustomerAddress = strings.TrimSpace(req.CustomerAddress)
	req.SpecialInstructions = strings.TrimSpace(req.SpecialInstructions)
	if req.PaymentMethod == "" {
		req.PaymentMethod = domain.PaymentCashOnDelivery
	}
	if req.BuyNow != nil {
		b := *req.BuyNow
		b.ProductID = strings.TrimSpace(b.ProductID)
		req.BuyNow = &b
	}
	return req
}
