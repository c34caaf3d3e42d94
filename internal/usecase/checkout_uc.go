package usecase

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/strideshop/stride/internal/domain"
)

// CheckoutInput carries the shipping and payment fields submitted with the
// order. Validation failures are returned field-by-field, never as a
// transaction error.
type CheckoutInput struct {
	FullName      string `validate:"required,min=2,max=140"`
	PhoneNumber   string `validate:"required,min=6,max=30"`
	Address       string `validate:"required,min=5,max=255"`
	Email         string `validate:"required,email"`
	PaymentMethod string `validate:"required"`
}

type CheckoutResult struct {
	OrderID            uint
	Token              string
	Status             domain.OrderStatus
	Total              float64
	PaymentInstruction string
}

// ValidationError maps a submitted field to its problem.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid checkout fields: %d", len(e.Fields))
}

type CheckoutUC struct {
	DB       *gorm.DB
	Products domain.ProductRepo
	Orders   domain.OrderRepo
	Payments domain.PaymentStateStore

	// StrictVariants fails the whole checkout when a cart line matches no
	// variant. When false, such lines are dropped like the legacy flow did.
	StrictVariants bool
	PublicBaseURL  string

	validate *validator.Validate
}

func NewCheckoutUC(db *gorm.DB, products domain.ProductRepo, orders domain.OrderRepo, payments domain.PaymentStateStore, strict bool, baseURL string) *CheckoutUC {
	return &CheckoutUC{
		DB:             db,
		Products:       products,
		Orders:         orders,
		Payments:       payments,
		StrictVariants: strict,
		PublicBaseURL:  baseURL,
		validate:       validator.New(),
	}
}

// PlaceOrder runs the whole checkout inside one database transaction: the
// order row, every detail row and every stock decrement either all persist
// or none do.
func (uc *CheckoutUC) PlaceOrder(ctx context.Context, userID uint, cart *domain.Cart, in CheckoutInput) (*CheckoutResult, error) {
	if cart == nil || cart.Len() == 0 {
		return nil, domain.ErrCartEmpty
	}
	if err := uc.validate.Struct(in); err != nil {
		return nil, toValidationError(err)
	}

	norm, stored := domain.NormalizePaymentMethod(in.PaymentMethod)
	token := uuid.NewString()

	order := &domain.Order{
		UserID:            userID,
		TotalAmount:       cart.Total(),
		PaymentMethod:     stored,
		PaymentToken:      token,
		Status:            domain.InitialStatus(stored),
		ShippingAddress:   in.Address,
		NotificationEmail: in.Email,
	}

	resolved := 0
	err := uc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := uc.Orders.Create(tx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		for _, line := range cart.Items {
			v, err := uc.Products.ResolveVariant(tx, line.ProductID, line.Size, line.Color)
			if errors.Is(err, domain.ErrNotFound) {
				if uc.StrictVariants {
					return &domain.UnresolvedVariantError{
						ProductID:   line.ProductID,
						ProductName: line.ProductName,
						Size:        line.Size,
						Color:       line.Color,
					}
				}
				log.Warn().Uint("product_id", line.ProductID).
					Str("size", line.Size).Str("color", line.Color).
					Msg("checkout: dropping unresolvable cart line")
				continue
			}
			if err != nil {
				return fmt.Errorf("resolve variant: %w", err)
			}

			ok, err := uc.Products.DecrementStock(tx, v.ID, line.Quantity)
			if err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			if !ok {
				return &domain.InsufficientStockError{
					ProductName: line.ProductName,
					Requested:   line.Quantity,
					Available:   v.StockQuantity,
				}
			}

			detail := &domain.OrderDetail{
				OrderID:          order.ID,
				ProductVariantID: v.ID,
				Quantity:         line.Quantity,
				UnitPrice:        line.Price,
			}
			if err := uc.Orders.AddDetail(tx, detail); err != nil {
				return fmt.Errorf("create order detail: %w", err)
			}
			resolved++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Seed the in-memory flag from the persisted status: bank and card
	// orders are born Paid, so the status poll must already say so.
	uc.Payments.SetPaid(token, order.Status == domain.OrderStatusPaid)
	uc.Payments.Bind(token, order.ID)

	// The commit already happened; a count mismatch here means something
	// interfered with the order's details, so surface it loudly.
	if n, cerr := uc.Orders.CountDetails(ctx, order.ID); cerr == nil && n != int64(resolved) {
		log.Error().Uint("order_id", order.ID).Int64("persisted", n).Int("expected", resolved).
			Msg("checkout: order detail count mismatch after commit")
		return nil, fmt.Errorf("order %d persisted with %d of %d details", order.ID, n, resolved)
	}

	return &CheckoutResult{
		OrderID:            order.ID,
		Token:              token,
		Status:             order.Status,
		Total:              order.TotalAmount,
		PaymentInstruction: uc.paymentInstruction(norm, token),
	}, nil
}

// paymentInstruction builds the post-checkout payload: transfers get a
// scannable confirmation QR, cash gets the delivery text, everything else
// gets nothing.
func (uc *CheckoutUC) paymentInstruction(normMethod, token string) string {
	switch normMethod {
	case "transfer":
		confirm := uc.PublicBaseURL + "/payment/confirm?token=" + url.QueryEscape(token)
		qr := "https://api.qrserver.com/v1/create-qr-code/?size=200x200&data=" + url.QueryEscape(confirm)
		return fmt.Sprintf(`<p>Scan to confirm your transfer:</p><img src=%q alt="payment QR"/><p><a href=%q>%s</a></p>`,
			qr, confirm, html.EscapeString(confirm))
	case "cash", "cod":
		return "Please prepare the exact amount. You pay the courier when your shoes arrive."
	default:
		return ""
	}
}

func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fe.Field()] = fe.Tag()
	}
	return out
}
