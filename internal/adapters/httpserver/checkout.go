package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/strideshop/stride/internal/domain"
	"github.com/strideshop/stride/internal/usecase"
)

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	sess := s.requireUser(w, r)
	if sess == nil {
		return
	}
	var req struct {
		FullName      string `json:"fullName"`
		PhoneNumber   string `json:"phoneNumber"`
		Address       string `json:"address"`
		Email         string `json:"email"`
		PaymentMethod string `json:"paymentMethod"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if req.Email == "" {
		req.Email = sess.Email
	}

	cart := s.readCart(r)
	result, err := s.checkout.PlaceOrder(r.Context(), sess.UserID, cart, usecase.CheckoutInput{
		FullName:      req.FullName,
		PhoneNumber:   req.PhoneNumber,
		Address:       req.Address,
		Email:         req.Email,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		s.writeCheckoutError(w, err)
		return
	}

	cart.Clear()
	s.writeCart(w, cart)

	if order, ferr := s.orders.FindByToken(r.Context(), result.Token); ferr == nil {
		go s.sendOrderNotify(order)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":            true,
		"orderId":            result.OrderID,
		"token":              result.Token,
		"status":             result.Status,
		"total":              result.Total,
		"paymentInstruction": result.PaymentInstruction,
	})
}

func (s *Server) writeCheckoutError(w http.ResponseWriter, err error) {
	var verr *usecase.ValidationError
	var stockErr *domain.InsufficientStockError
	var variantErr *domain.UnresolvedVariantError
	switch {
	case errors.Is(err, domain.ErrCartEmpty):
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "cart is empty"})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "invalid fields", "errors": verr.Fields})
	case errors.As(err, &stockErr):
		writeJSON(w, http.StatusConflict, map[string]any{"success": false, "message": stockErr.Error()})
	case errors.As(err, &variantErr):
		writeJSON(w, http.StatusConflict, map[string]any{"success": false, "message": variantErr.Error()})
	default:
		log.Error().Err(err).Msg("checkout failed")
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "checkout failed"})
	}
}

// handlePaymentConfirmPage serves the link the QR code points at. Opening
// it confirms the payment; hitting it again shows the same page.
func (s *Server) handlePaymentConfirmPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	token := r.URL.Query().Get("token")
	order, err := s.payments.Confirm(r.Context(), token)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if errors.Is(err, domain.ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, "<html><body><h1>Unknown payment token</h1></body></html>")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("confirm payment")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "<html><body><h1>Something went wrong</h1></body></html>")
		return
	}
	fmt.Fprintf(w, "<html><body><h1>Payment confirmed</h1><p>Order #%d is now %s.</p></body></html>",
		order.ID, html.EscapeString(string(order.Status)))
}

func (s *Server) handlePaymentConfirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	order, err := s.payments.Confirm(r.Context(), req.Token)
	if errors.Is(err, domain.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "unknown token"})
		return
	}
	if err != nil {
		s.internalError(w, err, "confirm payment")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "orderId": order.ID, "status": order.Status})
}

func (s *Server) handlePaymentStatus(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "token required", http.StatusBadRequest)
		return
	}
	paid, err := s.payments.Status(r.Context(), token)
	if err != nil {
		s.internalError(w, err, "payment status")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"paid": paid})
}
