package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/strideshop/stride/internal/domain"
)

const cartCookie = "cart"

// The cart travels in a signed cookie: base64(sig).base64(json). A bad or
// forged signature just means an empty cart.
func (s *Server) readCart(r *http.Request) *domain.Cart {
	cart := &domain.Cart{}
	c, err := r.Cookie(cartCookie)
	if err != nil {
		return cart
	}
	parts := strings.SplitN(c.Value, ".", 2)
	if len(parts) != 2 {
		return cart
	}
	sig, _ := base64.RawURLEncoding.DecodeString(parts[0])
	payload, _ := base64.RawURLEncoding.DecodeString(parts[1])
	h := hmac.New(sha256.New, s.sessionSecret)
	h.Write(payload)
	if !hmac.Equal(sig, h.Sum(nil)) {
		return cart
	}
	_ = json.Unmarshal(payload, cart)
	return cart
}

func (s *Server) writeCart(w http.ResponseWriter, cart *domain.Cart) {
	b, _ := json.Marshal(cart)
	h := hmac.New(sha256.New, s.sessionSecret)
	h.Write(b)
	sig := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	http.SetCookie(w, &http.Cookie{
		Name:     cartCookie,
		Value:    sig + "." + base64.RawURLEncoding.EncodeToString(b),
		Path:     "/",
		MaxAge:   60 * 60 * 24 * 7,
		HttpOnly: true,
	})
}

func (s *Server) handleCart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	cart := s.readCart(r)
	writeJSON(w, http.StatusOK, map[string]any{
		"items": cart.Items,
		"count": cart.Units(),
		"total": cart.Total(),
	})
}

func (s *Server) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		ProductID uint   `json:"productId"`
		Size      string `json:"size"`
		Color     string `json:"color"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == 0 {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}

	p, err := s.catalog.Get(r.Context(), req.ProductID)
	if errors.Is(err, domain.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "product not found"})
		return
	}
	if err != nil {
		s.internalError(w, err, "cart add")
		return
	}

	price := p.Price
	if p.DiscountPrice != nil {
		price = *p.DiscountPrice
	}
	cart := s.readCart(r)
	cart.Add(domain.CartItem{
		ProductID:   p.ID,
		ProductName: p.Name,
		Price:       price,
		Quantity:    req.Quantity,
		ImageURL:    p.ImageURL,
		Size:        strings.TrimSpace(req.Size),
		Color:       strings.TrimSpace(req.Color),
	})
	s.writeCart(w, cart)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "count": cart.Units()})
}

func (s *Server) handleCartUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		ProductID uint   `json:"productId"`
		Size      string `json:"size"`
		Color     string `json:"color"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == 0 {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	cart := s.readCart(r)
	cart.SetQuantity(req.ProductID, req.Size, req.Color, req.Quantity)
	s.writeCart(w, cart)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "count": cart.Units()})
}

func (s *Server) handleCartRemove(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		ProductID uint   `json:"productId"`
		Size      string `json:"size"`
		Color     string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == 0 {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	cart := s.readCart(r)
	cart.Remove(req.ProductID, req.Size, req.Color)
	s.writeCart(w, cart)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "count": cart.Units()})
}

func (s *Server) handleCartClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	cart := s.readCart(r)
	cart.Clear()
	s.writeCart(w, cart)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "count": 0})
}

func (s *Server) handleCartCount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"count": s.readCart(r).Units()})
}
