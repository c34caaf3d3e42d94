package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	"github.com/strideshop/stride/internal/domain"
)

const sessionCookie = "sess"

type sessionClaims struct {
	UserID uint   `json:"uid"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   uint   `json:"role"`
	jwt.RegisteredClaims
}

func (s *Server) writeSession(w http.ResponseWriter, u *domain.User) {
	if u == nil {
		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true, SameSite: http.SameSiteLaxMode})
		return
	}
	claims := sessionClaims{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.FullName,
		Role:   u.RoleID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "stride",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.sessionTTL)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.sessionSecret)
	if err != nil {
		log.Error().Err(err).Msg("sign session token")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    tok,
		Path:     "/",
		MaxAge:   int(s.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) readSession(r *http.Request) *sessionClaims {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	var claims sessionClaims
	tok, err := jwt.ParseWithClaims(c.Value, &claims,
		func(t *jwt.Token) (any, error) { return s.sessionSecret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid || claims.UserID == 0 {
		return nil
	}
	return &claims
}

// requireUser writes a 401 and returns nil when the request has no valid
// session.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) *sessionClaims {
	sess := s.readSession(r)
	if sess == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "login required"})
		return nil
	}
	return sess
}

func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) *sessionClaims {
	sess := s.readSession(r)
	if sess == nil || sess.Role != domain.RoleAdmin {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "admin only"})
		return nil
	}
	return sess
}

func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		http.Error(w, "oauth not configured", 500)
		return
	}
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{Name: "oauth_state", Value: state, Path: "/", MaxAge: 300, HttpOnly: true})
	http.Redirect(w, r, s.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOnline), http.StatusFound)
}

func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		http.Error(w, "oauth not configured", 500)
		return
	}
	q := r.URL.Query()
	c, _ := r.Cookie("oauth_state")
	if c == nil || c.Value == "" || c.Value != q.Get("state") {
		http.Error(w, "state", 400)
		return
	}
	tok, err := s.oauthCfg.Exchange(r.Context(), q.Get("code"))
	if err != nil {
		log.Error().Err(err).Msg("oauth exchange")
		http.Error(w, "oauth", 400)
		return
	}
	client := s.oauthCfg.Client(r.Context(), tok)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v3/userinfo")
	if err != nil || resp.StatusCode != http.StatusOK {
		log.Error().Err(err).Msg("oauth userinfo")
		http.Error(w, "userinfo", 400)
		return
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	var info struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	_ = json.Unmarshal(body, &info)
	if info.Email == "" {
		http.Error(w, "email", 400)
		return
	}

	u, err := s.users.FindByEmail(r.Context(), info.Email)
	if errors.Is(err, domain.ErrNotFound) {
		// First Google login creates the account with an unguessable
		// password; a regular password can be set later in the profile.
		hash, herr := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
		if herr != nil {
			http.Error(w, "internal", 500)
			return
		}
		u = &domain.User{
			Email:        info.Email,
			PasswordHash: string(hash),
			FullName:     info.Name,
			RoleID:       domain.RoleCustomer,
		}
		if info.Picture != "" {
			u.AvatarURL = &info.Picture
		}
		if cerr := s.users.Create(r.Context(), u); cerr != nil {
			log.Error().Err(cerr).Msg("create oauth user")
			http.Error(w, "internal", 500)
			return
		}
	} else if err != nil {
		http.Error(w, "internal", 500)
		return
	}

	s.writeSession(w, u)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.writeSession(w, nil)
	http.Redirect(w, r, "/", http.StatusFound)
}
