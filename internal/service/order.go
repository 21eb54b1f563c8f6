package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/ruokapaikka/api/internal/cart"
	"github.com/ruokapaikka/api/internal/database"
	"github.com/ruokapaikka/api/internal/enum"
	"github.com/shopspring/decimal"
)

// Contact field bounds, matching the storefront form.
const (
	minNameLen         = 2
	maxNameLen         = 100
	minPhoneLen        = 8
	maxPhoneLen        = 20
	maxInstructionsLen = 500
)

// ErrEmptyCart is returned when checkout is attempted with no lines.
// The handler blocks this before calling the service; the guard here
// keeps the invariant that an order never has zero lines.
var ErrEmptyCart = errors.New("cart is empty")

// ValidationErrors maps form field names to messages. It reports every
// failing field at once rather than stopping at the first.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	return "invalid fields: " + strings.Join(fields, ", ")
}

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// CheckoutStore defines the DB methods needed to persist an order.
// Satisfied by *database.Queries (and its WithTx variant).
type CheckoutStore interface {
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
}

// NewCheckoutStore creates a CheckoutStore from a DBTX (pool or tx).
type NewCheckoutStore func(db database.DBTX) CheckoutStore

// CheckoutRequest is the contact form plus the cart snapshot.
type CheckoutRequest struct {
	CustomerName        string
	CustomerPhone       string
	CustomerEmail       string
	SpecialInstructions string
	Lines               []cart.Line
}

// CheckoutResult is the persisted order with its line items.
type CheckoutResult struct {
	Order database.Order
	Items []database.OrderItem
}

// OrderService converts a cart plus contact details into a durable order.
type OrderService struct {
	pool     TxBeginner
	newStore NewCheckoutStore
}

func NewOrderService(pool TxBeginner, newStore NewCheckoutStore) *OrderService {
	return &OrderService{pool: pool, newStore: newStore}
}

// Checkout validates the contact form, then persists the order and one
// item per cart line in a single transaction. Item name and unit price
// are copied from the cart's menu item snapshots; the stored total is
// never recomputed afterward.
func (s *OrderService) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if errs := validateContact(req); len(errs) > 0 {
		return nil, errs
	}

	if len(req.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	total := decimal.Zero
	for _, line := range req.Lines {
		price := database.NumericDecimal(line.MenuItem.Price)
		total = total.Add(price.Mul(decimal.NewFromInt32(line.Quantity)))
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	email := pgtype.Text{}
	if req.CustomerEmail != "" {
		email = pgtype.Text{String: req.CustomerEmail, Valid: true}
	}
	instructions := pgtype.Text{}
	if req.SpecialInstructions != "" {
		instructions = pgtype.Text{String: req.SpecialInstructions, Valid: true}
	}

	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		CustomerName:        req.CustomerName,
		CustomerPhone:       req.CustomerPhone,
		CustomerEmail:       email,
		SpecialInstructions: instructions,
		Status:              enum.OrderStatusPending,
		TotalAmount:         decimalToNumeric(total),
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	items := make([]database.OrderItem, 0, len(req.Lines))
	for _, line := range req.Lines {
		request := pgtype.Text{}
		if line.SpecialRequest != "" {
			request = pgtype.Text{String: line.SpecialRequest, Valid: true}
		}
		item, err := store.CreateOrderItem(ctx, database.CreateOrderItemParams{
			OrderID:         order.ID,
			MenuItemID:      pgtype.UUID{Bytes: line.MenuItem.ID, Valid: true},
			ItemName:        line.MenuItem.Name,
			Quantity:        line.Quantity,
			UnitPrice:       line.MenuItem.Price,
			SpecialRequests: request,
		})
		if err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}
		items = append(items, item)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &CheckoutResult{Order: order, Items: items}, nil
}

func validateContact(req CheckoutRequest) ValidationErrors {
	errs := ValidationErrors{}

	name := strings.TrimSpace(req.CustomerName)
	if utf8.RuneCountInString(name) < minNameLen {
		errs["customer_name"] = "name is required"
	} else if utf8.RuneCountInString(name) > maxNameLen {
		errs["customer_name"] = fmt.Sprintf("name must be at most %d characters", maxNameLen)
	}

	phone := strings.TrimSpace(req.CustomerPhone)
	if utf8.RuneCountInString(phone) < minPhoneLen {
		errs["customer_phone"] = "phone number is required"
	} else if utf8.RuneCountInString(phone) > maxPhoneLen {
		errs["customer_phone"] = fmt.Sprintf("phone must be at most %d characters", maxPhoneLen)
	}

	if req.CustomerEmail != "" {
		if _, err := mail.ParseAddress(req.CustomerEmail); err != nil {
			errs["customer_email"] = "invalid email address"
		}
	}

	if utf8.RuneCountInString(req.SpecialInstructions) > maxInstructionsLen {
		errs["special_instructions"] = fmt.Sprintf("special instructions must be at most %d characters", maxInstructionsLen)
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// --- Helpers ---

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}
