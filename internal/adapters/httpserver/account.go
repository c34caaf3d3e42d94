package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/strideshop/stride/internal/domain"
	"github.com/strideshop/stride/internal/usecase"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		FullName    string `json:"fullName"`
		DateOfBirth string `json:"dateOfBirth"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	in := usecase.RegisterInput{Email: req.Email, Password: req.Password, FullName: req.FullName}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "dateOfBirth must be YYYY-MM-DD"})
			return
		}
		in.DateOfBirth = &dob
	}

	u, err := s.accounts.Register(r.Context(), in)
	if errors.Is(err, domain.ErrEmailTaken) {
		writeJSON(w, http.StatusConflict, map[string]any{"success": false, "message": "email already exists"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": err.Error()})
		return
	}
	s.writeSession(w, u)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": userView(u)})
}

// handleCheckEmail backs the first step of the two-step login form.
func (s *Server) handleCheckEmail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	exists, err := s.accounts.EmailExists(r.Context(), req.Email)
	if err != nil {
		s.internalError(w, err, "check email")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"exists": exists})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	u, err := s.accounts.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "invalid email or password"})
		return
	}
	if err != nil {
		s.internalError(w, err, "login")
		return
	}
	s.writeSession(w, u)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": userView(u)})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	sess := s.requireUser(w, r)
	if sess == nil {
		return
	}
	switch r.Method {
	case http.MethodGet:
		u, err := s.accounts.Get(r.Context(), sess.UserID)
		if err != nil {
			s.internalError(w, err, "load profile")
			return
		}
		writeJSON(w, http.StatusOK, userView(u))
	case http.MethodPut:
		var req struct {
			FullName           string  `json:"fullName"`
			PhoneNumber        *string `json:"phoneNumber"`
			Address            *string `json:"address"`
			Gender             *string `json:"gender"`
			DateOfBirth        *string `json:"dateOfBirth"`
			AvatarURL          *string `json:"avatarUrl"`
			ShoppingPreference *string `json:"shoppingPreference"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		upd := usecase.ProfileUpdate{
			FullName:           req.FullName,
			PhoneNumber:        req.PhoneNumber,
			Address:            req.Address,
			Gender:             req.Gender,
			AvatarURL:          req.AvatarURL,
			ShoppingPreference: req.ShoppingPreference,
		}
		if req.DateOfBirth != nil && *req.DateOfBirth != "" {
			dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "dateOfBirth must be YYYY-MM-DD"})
				return
			}
			upd.DateOfBirth = &dob
		}
		u, err := s.accounts.UpdateProfile(r.Context(), sess.UserID, upd)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": err.Error()})
			return
		}
		s.writeSession(w, u)
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": userView(u)})
	case http.MethodDelete:
		if err := s.accounts.Delete(r.Context(), sess.UserID); err != nil {
			s.internalError(w, err, "delete account")
			return
		}
		s.writeSession(w, nil)
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	default:
		http.Error(w, "method", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", http.StatusMethodNotAllowed)
		return
	}
	sess := s.requireUser(w, r)
	if sess == nil {
		return
	}
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
		ConfirmPassword string `json:"confirmPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if req.ConfirmPassword != "" && req.ConfirmPassword != req.NewPassword {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "passwords do not match"})
		return
	}
	err := s.accounts.ChangePassword(r.Context(), sess.UserID, req.CurrentPassword, req.NewPassword)
	if errors.Is(err, domain.ErrInvalidCredentials) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "current password is wrong"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleMyOrders(w http.ResponseWriter, r *http.Request) {
	sess := s.requireUser(w, r)
	if sess == nil {
		return
	}
	orders, err := s.accounts.ListOrders(r.Context(), sess.UserID)
	if err != nil {
		s.internalError(w, err, "list orders")
		return
	}
	writeJSON(w, http.StatusOK, orderViews(orders))
}

func userView(u *domain.User) map[string]any {
	v := map[string]any{
		"id":       u.ID,
		"email":    u.Email,
		"fullName": u.FullName,
		"isAdmin":  u.IsAdmin(),
	}
	if u.PhoneNumber != nil {
		v["phoneNumber"] = *u.PhoneNumber
	}
	if u.Address != nil {
		v["address"] = *u.Address
	}
	if u.Gender != nil {
		v["gender"] = *u.Gender
	}
	if u.DateOfBirth != nil {
		v["dateOfBirth"] = u.DateOfBirth.Format("2006-01-02")
	}
	if u.AvatarURL != nil {
		v["avatarUrl"] = *u.AvatarURL
	}
	if u.ShoppingPreference != nil {
		v["shoppingPreference"] = *u.ShoppingPreference
	}
	return v
}

func orderViews(orders []domain.Order) []map[string]any {
	out := make([]map[string]any, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		details := make([]map[string]any, 0, len(o.Details))
		for _, d := range o.Details {
			dv := map[string]any{
				"quantity":  d.Quantity,
				"unitPrice": d.UnitPrice,
			}
			if d.ProductVariant != nil {
				dv["size"] = d.ProductVariant.Size
				dv["color"] = d.ProductVariant.Color
				if d.ProductVariant.Product != nil {
					dv["productName"] = d.ProductVariant.Product.Name
					dv["imageUrl"] = d.ProductVariant.Product.ImageURL
				}
			}
			details = append(details, dv)
		}
		out = append(out, map[string]any{
			"id":            o.ID,
			"createdAt":     o.CreatedAt.Format(time.RFC3339),
			"totalAmount":   o.TotalAmount,
			"paymentMethod": o.PaymentMethod,
			"status":        o.Status,
			"details":       details,
		})
	}
	return out
}
