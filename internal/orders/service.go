package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/gemvault/gemvault-backend/pkg/db"
	"github.com/gemvault/gemvault-backend/pkg/db/models"
	"github.com/gemvault/gemvault-backend/pkg/enums"
	pkgerrors "github.com/gemvault/gemvault-backend/pkg/errors"
	"github.com/gemvault/gemvault-backend/pkg/logger"
	"github.com/gemvault/gemvault-backend/pkg/pagination"
	"github.com/gemvault/gemvault-backend/pkg/whatsapp"
)

const (
	orderNumberAttempts = 3
	paymentConfirmedNote = "Payment confirmed"
)

// Service defines the order lifecycle operations used by the admin panel and the storefront.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDTO, error)
	// PlaceOrder is storefront checkout: the configured shipping fee applies and no discount is taken.
	PlaceOrder(ctx context.Context, input CreateOrderInput) (*PlacedOrder, error)
	ListOrders(ctx context.Context, input ListOrdersInput) (*pagination.Page[OrderDTO], error)
	GetOrder(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	TrackOrder(ctx context.Context, orderNumber, phone string) (*TrackingDTO, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*OrderDTO, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error

	Approve(ctx context.Context, id uuid.UUID, input ApproveInput) (*ActionResult, error)
	RequestPayment(ctx context.Context, id uuid.UUID) (*ActionResult, error)
	ConfirmPayment(ctx context.Context, id uuid.UUID) (*ActionResult, error)
	Ship(ctx context.Context, id uuid.UUID, input ShipInput) (*ActionResult, error)
	Deliver(ctx context.Context, id uuid.UUID) (*ActionResult, error)
	Cancel(ctx context.Context, id uuid.UUID, input CancelInput) (*ActionResult, error)
	WhatsAppMessage(ctx context.Context, id uuid.UUID, input WhatsAppInput) (*whatsapp.Message, error)

	DeleteStaleOrders(ctx context.Context) (*StaleSweepResult, error)
}

type Config struct {
	StaleOrderThreshold time.Duration
	ShippingFee         decimal.Decimal
}

type ServiceParams struct {
	Repo     Repository
	Tx       db.TxRunner
	Catalog  Catalog
	Composer *whatsapp.Composer
	Logger   *logger.Logger
	Config   Config
	Now      func() time.Time
}

type service struct {
	repo     Repository
	tx       db.TxRunner
	catalog  Catalog
	composer *whatsapp.Composer
	logg     *logger.Logger
	cfg      Config
	now      func() time.Time
}

// NewService builds the order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("product catalog required")
	}
	if params.Composer == nil {
		return nil, fmt.Errorf("whatsapp composer required")
	}
	if params.Config.StaleOrderThreshold <= 0 {
		return nil, fmt.Errorf("stale order threshold must be positive")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:     params.Repo,
		tx:       params.Tx,
		catalog:  params.Catalog,
		composer: params.Composer,
		logg:     logg,
		cfg:      params.Config,
		now:      now,
	}, nil
}

func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderDTO, error) {
	fee := s.cfg.ShippingFee
	if input.ShippingFee != nil {
		fee = *input.ShippingFee
	}
	discount := decimal.Zero
	if input.Discount != nil {
		discount = *input.Discount
	}
	order, err := s.create(ctx, input, fee, discount)
	if err != nil {
		return nil, err
	}
	return NewOrderDTO(order), nil
}

func (s *service) PlaceOrder(ctx context.Context, input CreateOrderInput) (*PlacedOrder, error) {
	order, err := s.create(ctx, input, s.cfg.ShippingFee, decimal.Zero)
	if err != nil {
		return nil, err
	}
	return &PlacedOrder{Order: NewOrderDTO(order), WhatsApp: s.composer.OrderConfirmation(order)}, nil
}

func (s *service) create(ctx context.Context, input CreateOrderInput, fee, discount decimal.Decimal) (*models.Order, error) {
	lines, err := mergeItems(input.Items)
	if err != nil {
		return nil, err
	}
	if fee.IsNegative() || discount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping fee and discount cannot be negative")
	}
	phone := strings.TrimSpace(input.CustomerPhone)
	if _, err := s.composer.CustomerPhone(phone); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"customerPhone": "must be a valid phone number"})
	}

	var order *models.Order
	for attempt := 1; attempt <= orderNumberAttempts; attempt++ {
		order, err = s.createOnce(ctx, input, phone, lines, fee, discount)
		if err == nil || !db.IsUniqueViolation(err, "") || attempt == orderNumberAttempts {
			break
		}
		s.logg.Warn(s.logg.WithField(ctx, "attempt", attempt), "orders.create.number_collision")
	}
	if err != nil {
		return nil, db.MapError(err, "order")
	}

	s.logg.Info(s.logg.WithFields(s.logg.WithOrderID(ctx, order.ID.String()), map[string]any{
		"order_number": order.OrderNumber,
		"total":        order.Total.String(),
	}), "orders.created")
	return order, nil
}

type lineRequest struct {
	productID uuid.UUID
	quantity  int
}

// mergeItems folds repeated products into one line, keeping first-seen order.
func mergeItems(items []OrderItemInput) ([]lineRequest, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}
	index := map[uuid.UUID]int{}
	lines := make([]lineRequest, 0, len(items))
	for _, item := range items {
		if item.ProductID == uuid.Nil || item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "each item needs a product and a positive quantity")
		}
		if i, ok := index[item.ProductID]; ok {
			lines[i].quantity += item.Quantity
			continue
		}
		index[item.ProductID] = len(lines)
		lines = append(lines, lineRequest{productID: item.ProductID, quantity: item.Quantity})
	}
	return lines, nil
}

func (s *service) createOnce(ctx context.Context, input CreateOrderInput, phone string, lines []lineRequest, fee, discount decimal.Decimal) (*models.Order, error) {
	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ids := make([]uuid.UUID, 0, len(lines))
		for _, line := range lines {
			ids = append(ids, line.productID)
		}
		products, err := s.catalog.FindProducts(ctx, tx, ids)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]models.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		subtotal := decimal.Zero
		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			p, ok := byID[line.productID]
			if !ok || !p.IsActive {
				return pkgerrors.New(pkgerrors.CodeValidation, "product unavailable").
					WithDetails(map[string]any{"productId": line.productID})
			}
			if p.StockQuantity < line.quantity {
				return pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock").
					WithDetails(map[string]any{"productId": p.ID, "available": p.StockQuantity, "requested": line.quantity})
			}
			if err := s.catalog.Reserve(ctx, tx, p.ID, line.quantity); err != nil {
				return err
			}

			productID := p.ID
			lineTotal := p.Price.Mul(decimal.NewFromInt(int64(line.quantity))).Round(2)
			subtotal = subtotal.Add(lineTotal)
			items = append(items, models.OrderItem{
				ProductID:      &productID,
				ProductName:    p.Name,
				ProductSKU:     p.SKU,
				Material:       p.Material,
				Specifications: copySpecs(p.Specifications),
				UnitPrice:      p.Price,
				Quantity:       line.quantity,
				LineTotal:      lineTotal,
			})
		}

		total := subtotal.Add(fee).Sub(discount)
		if total.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "discount exceeds order value")
		}

		now := s.now().UTC()
		order := &models.Order{
			OrderNumber:     NewOrderNumber(now),
			CustomerName:    strings.TrimSpace(input.CustomerName),
			CustomerPhone:   phone,
			CustomerEmail:   trimmed(input.CustomerEmail),
			ShippingAddress: strings.TrimSpace(input.ShippingAddress),
			Status:          enums.OrderStatusPaymentPending,
			PaymentReceived: false,
			Subtotal:        subtotal.Round(2),
			ShippingFee:     fee.Round(2),
			Discount:        discount.Round(2),
			Total:           total.Round(2),
			Notes:           trimmed(input.Notes),
			Items:           items,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return err
		}
		created = order
		return nil
	})
	return created, err
}

func (s *service) ListOrders(ctx context.Context, input ListOrdersInput) (*pagination.Page[OrderDTO], error) {
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid order status %q", *input.Status)
	}
	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.List(ctx, input, cursor)
	if err != nil {
		return nil, db.MapError(err, "order")
	}
	page := pagination.Window(rows, input.Pagination.Limit, func(o models.Order) pagination.Cursor {
		return pagination.Cursor{CreatedAt: o.CreatedAt, ID: o.ID}
	})
	out := &pagination.Page[OrderDTO]{Items: make([]OrderDTO, 0, len(page.Items)), NextCursor: page.NextCursor}
	for i := range page.Items {
		out.Items = append(out.Items, *NewOrderDTO(&page.Items[i]))
	}
	return out, nil
}

func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapError(err, "order")
	}
	return NewOrderDTO(order), nil
}

// TrackOrder answers not-found on a phone mismatch so order numbers cannot be probed.
func (s *service) TrackOrder(ctx context.Context, orderNumber, phone string) (*TrackingDTO, error) {
	if strings.TrimSpace(orderNumber) == "" || strings.TrimSpace(phone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number and phone are required")
	}
	order, err := s.repo.FindByNumber(ctx, orderNumber)
	if err != nil {
		return nil, db.MapError(err, "order")
	}
	if !s.samePhone(order.CustomerPhone, phone) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	count := 0
	for _, item := range order.Items {
		count += item.Quantity
	}
	return &TrackingDTO{
		OrderNumber:     order.OrderNumber,
		Status:          order.Status.Canonical(),
		StatusLabel:     s.composer.Formatter().StatusLabel(order.Status),
		PaymentReceived: order.PaymentReceived,
		TrackingNumber:  order.TrackingNumber,
		Total:           order.Total,
		ItemCount:       count,
		CreatedAt:       order.CreatedAt,
		ShippedAt:       order.ShippedAt,
		DeliveredAt:     order.DeliveredAt,
	}, nil
}

func (s *service) samePhone(stored, given string) bool {
	a, errA := s.composer.CustomerPhone(stored)
	b, errB := s.composer.CustomerPhone(given)
	return errA == nil && errB == nil && a == b
}

func (s *service) UpdateOrder(ctx context.Context, id uuid.UUID, input UpdateOrderInput) (*OrderDTO, error) {
	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		updates := map[string]any{}
		if input.CustomerName != nil {
			updates["customer_name"] = strings.TrimSpace(*input.CustomerName)
		}
		if input.CustomerPhone != nil {
			phone := strings.TrimSpace(*input.CustomerPhone)
			if _, err := s.composer.CustomerPhone(phone); err != nil {
				return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
					WithDetails(map[string]string{"customerPhone": "must be a valid phone number"})
			}
			updates["customer_phone"] = phone
		}
		if input.CustomerEmail != nil {
			updates["customer_email"] = trimmed(input.CustomerEmail)
		}
		if input.ShippingAddress != nil {
			updates["shipping_address"] = strings.TrimSpace(*input.ShippingAddress)
		}
		if input.Notes != nil {
			updates["notes"] = trimmed(input.Notes)
		}
		if input.TrackingNumber != nil {
			updates["tracking_number"] = trimmed(input.TrackingNumber)
		}
		if input.ShippingFee != nil || input.Discount != nil {
			if order.PaymentReceived || order.Status.IsTerminal() {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "order totals are locked once payment is received")
			}
			fee, discount := order.ShippingFee, order.Discount
			if input.ShippingFee != nil {
				fee = *input.ShippingFee
			}
			if input.Discount != nil {
				discount = *input.Discount
			}
			if fee.IsNegative() || discount.IsNegative() {
				return pkgerrors.New(pkgerrors.CodeValidation, "shipping fee and discount cannot be negative")
			}
			total := order.Subtotal.Add(fee).Sub(discount)
			if total.IsNegative() {
				return pkgerrors.New(pkgerrors.CodeValidation, "discount exceeds order value")
			}
			updates["shipping_fee"] = fee.Round(2)
			updates["discount"] = discount.Round(2)
			updates["total"] = total.Round(2)
		}
		if len(updates) > 0 {
			updates["updated_at"] = s.now().UTC()
			if err := repo.UpdateFields(ctx, id, updates); err != nil {
				return err
			}
		}
		updated, err = repo.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, db.MapError(err, "order")
	}
	return NewOrderDTO(updated), nil
}

// DeleteOrder returns reserved stock unless the order already finished its lifecycle.
func (s *service) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !order.Status.IsTerminal() {
			if err := s.restock(ctx, tx, order); err != nil {
				return err
			}
		}
		deleted, err := repo.DeleteOrders(ctx, []uuid.UUID{order.ID})
		if err != nil {
			return err
		}
		if deleted == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return db.MapError(err, "order")
	}
	s.logg.Info(s.logg.WithOrderID(ctx, id.String()), "orders.deleted")
	return nil
}

func (s *service) Approve(ctx context.Context, id uuid.UUID, input ApproveInput) (*ActionResult, error) {
	order, err := s.apply(ctx, id, enums.OrderActionApprove, func(_ *models.Order, now time.Time) map[string]any {
		updates := map[string]any{"approved_at": now}
		if input.SendPaymentRequest {
			updates["payment_requested_at"] = now
		}
		return updates
	})
	if err != nil {
		return nil, err
	}
	result := &ActionResult{Order: NewOrderDTO(order)}
	if input.SendPaymentRequest {
		result.WhatsApp = s.message(ctx, order, s.composer.PaymentRequest)
	}
	return result, nil
}

func (s *service) RequestPayment(ctx context.Context, id uuid.UUID) (*ActionResult, error) {
	order, err := s.apply(ctx, id, enums.OrderActionRequestPayment, func(_ *models.Order, now time.Time) map[string]any {
		return map[string]any{"payment_requested_at": now}
	})
	if err != nil {
		return nil, err
	}
	return &ActionResult{Order: NewOrderDTO(order), WhatsApp: s.message(ctx, order, s.composer.PaymentRequest)}, nil
}

func (s *service) ConfirmPayment(ctx context.Context, id uuid.UUID) (*ActionResult, error) {
	order, err := s.apply(ctx, id, enums.OrderActionConfirmPayment, func(current *models.Order, now time.Time) map[string]any {
		updates := map[string]any{
			"payment_received":     true,
			"payment_confirmed_at": now,
			"notes":                appendNote(current.Notes, now, paymentConfirmedNote),
		}
		if current.ApprovedAt == nil {
			updates["approved_at"] = now
		}
		return updates
	})
	if err != nil {
		return nil, err
	}
	return &ActionResult{Order: NewOrderDTO(order), WhatsApp: s.message(ctx, order, s.composer.PaymentConfirmed)}, nil
}

func (s *service) Ship(ctx context.Context, id uuid.UUID, input ShipInput) (*ActionResult, error) {
	order, err := s.apply(ctx, id, enums.OrderActionShip, func(_ *models.Order, now time.Time) map[string]any {
		updates := map[string]any{"shipped_at": now}
		if tracking := trimmed(input.TrackingNumber); tracking != nil {
			updates["tracking_number"] = *tracking
		}
		return updates
	})
	if err != nil {
		return nil, err
	}
	return &ActionResult{Order: NewOrderDTO(order), WhatsApp: s.message(ctx, order, s.composer.StatusUpdate)}, nil
}

func (s *service) Deliver(ctx context.Context, id uuid.UUID) (*ActionResult, error) {
	order, err := s.apply(ctx, id, enums.OrderActionDeliver, func(_ *models.Order, now time.Time) map[string]any {
		return map[string]any{"delivered_at": now}
	})
	if err != nil {
		return nil, err
	}
	return &ActionResult{Order: NewOrderDTO(order), WhatsApp: s.message(ctx, order, s.composer.StatusUpdate)}, nil
}

func (s *service) Cancel(ctx context.Context, id uuid.UUID, input CancelInput) (*ActionResult, error) {
	order, err := s.apply(ctx, id, enums.OrderActionCancel, func(current *models.Order, now time.Time) map[string]any {
		updates := map[string]any{"cancelled_at": now}
		if reason := trimmed(input.Reason); reason != nil {
			updates["notes"] = appendNote(current.Notes, now, "Cancelled: "+*reason)
		}
		return updates
	})
	if err != nil {
		return nil, err
	}
	return &ActionResult{Order: NewOrderDTO(order), WhatsApp: s.message(ctx, order, s.composer.StatusUpdate)}, nil
}

// WhatsAppMessage builds a link carrying text, or the status-derived message when text is blank.
func (s *service) WhatsAppMessage(ctx context.Context, id uuid.UUID, input WhatsAppInput) (*whatsapp.Message, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, db.MapError(err, "order")
	}
	var msg whatsapp.Message
	if text := strings.TrimSpace(input.Message); text != "" {
		msg, err = s.composer.Custom(order, text)
	} else {
		msg, err = s.composer.StatusUpdate(order)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "customer phone cannot receive whatsapp messages")
	}
	return &msg, nil
}

// apply runs action against the order inside a transaction. The status write is
// conditional on the observed row so concurrent actions cannot both succeed.
func (s *service) apply(ctx context.Context, id uuid.UUID, action enums.OrderAction, extra func(current *models.Order, now time.Time) map[string]any) (*models.Order, error) {
	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		next, err := NextStatus(order, action)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		updates := map[string]any{"status": next, "updated_at": now}
		if extra != nil {
			for k, v := range extra(order, now) {
				updates[k] = v
			}
		}
		ok, err := repo.TransitionStatus(ctx, order.ID, order.Status, order.PaymentReceived, updates)
		if err != nil {
			return err
		}
		if !ok {
			return transitionRejected(order, action)
		}
		if next == enums.OrderStatusCancelled {
			if err := s.restock(ctx, tx, order); err != nil {
				return err
			}
		}
		updated, err = repo.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, db.MapError(err, "order")
	}
	s.logg.Info(s.logg.WithFields(s.logg.WithOrderID(ctx, id.String()), map[string]any{
		"action": action,
		"status": updated.Status,
	}), "orders.transition")
	return updated, nil
}

func (s *service) restock(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	for _, item := range order.Items {
		if item.ProductID == nil || item.Quantity <= 0 {
			continue
		}
		if err := s.catalog.Release(ctx, tx, *item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// message composes a customer link; a bad stored phone is logged rather than failing a committed action.
func (s *service) message(ctx context.Context, order *models.Order, build func(*models.Order) (whatsapp.Message, error)) *whatsapp.Message {
	msg, err := build(order)
	if err != nil {
		s.logg.Warn(s.logg.WithFields(s.logg.WithOrderID(ctx, order.ID.String()), map[string]any{
			"error": err.Error(),
		}), "orders.whatsapp.compose_failed")
		return nil
	}
	return &msg
}

// DeleteStaleOrders removes unpaid orders older than the configured threshold and returns their stock.
func (s *service) DeleteStaleOrders(ctx context.Context) (*StaleSweepResult, error) {
	cutoff := s.now().UTC().Add(-s.cfg.StaleOrderThreshold)
	result := &StaleSweepResult{Cutoff: cutoff, OrderNumbers: []string{}}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		stale, err := repo.FindStaleBefore(ctx, cutoff)
		if err != nil {
			return err
		}
		if len(stale) == 0 {
			return nil
		}
		for i := range stale {
			deleted, err := repo.DeleteStaleOrder(ctx, stale[i].ID, cutoff)
			if err != nil {
				return err
			}
			if !deleted {
				continue
			}
			if err := s.restock(ctx, tx, &stale[i]); err != nil {
				return err
			}
			result.Deleted++
			result.OrderNumbers = append(result.OrderNumbers, stale[i].OrderNumber)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete stale orders")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"deleted": result.Deleted,
		"cutoff":  cutoff.Format(time.RFC3339),
	}), "orders.stale_sweep.completed")
	return result, nil
}

func appendNote(existing *string, at time.Time, line string) string {
	entry := fmt.Sprintf("[%s] %s", at.UTC().Format("2006-01-02 15:04"), line)
	if existing == nil || strings.TrimSpace(*existing) == "" {
		return entry
	}
	return strings.TrimRight(*existing, "\n") + "\n" + entry
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}

func copySpecs(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
