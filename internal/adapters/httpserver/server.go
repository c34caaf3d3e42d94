package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/strideshop/stride/internal/adapters/scraper"
	"github.com/strideshop/stride/internal/config"
	"github.com/strideshop/stride/internal/domain"
	"github.com/strideshop/stride/internal/usecase"
)

type Server struct {
	mux *http.ServeMux

	catalog  *usecase.CatalogUC
	accounts *usecase.AccountUC
	checkout *usecase.CheckoutUC
	payments *usecase.PaymentUC
	reports  *usecase.ReportUC

	products domain.ProductRepo
	users    domain.UserRepo
	orders   domain.OrderRepo
	images   *scraper.ImageScraper

	oauthCfg      *oauth2.Config
	sessionSecret []byte
	sessionTTL    time.Duration
	smtp          config.SMTPConfig
	telegram      config.TelegramConfig
}

func New(cfg *config.Config,
	catalog *usecase.CatalogUC, accounts *usecase.AccountUC, checkout *usecase.CheckoutUC,
	payments *usecase.PaymentUC, reports *usecase.ReportUC,
	products domain.ProductRepo, users domain.UserRepo, orders domain.OrderRepo,
	images *scraper.ImageScraper, oauthCfg *oauth2.Config) http.Handler {

	s := &Server{
		mux:           http.NewServeMux(),
		catalog:       catalog,
		accounts:      accounts,
		checkout:      checkout,
		payments:      payments,
		reports:       reports,
		products:      products,
		users:         users,
		orders:        orders,
		images:        images,
		oauthCfg:      oauthCfg,
		sessionSecret: []byte(cfg.Session.Secret),
		sessionTTL:    cfg.Session.TTL,
		smtp:          cfg.SMTP,
		telegram:      cfg.Telegram,
	}
	s.routes()
	return Chain(s.mux,
		RateLimit(120),
		SecurityHeaders,
		RequestID,
		Recovery,
		Logging,
	)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/home", s.handleHome)
	s.mux.HandleFunc("/api/products", s.handleProducts)
	s.mux.HandleFunc("/api/products/", s.handleProductByID)
	s.mux.HandleFunc("/api/departments/", s.handleDepartment)
	s.mux.HandleFunc("/api/brands", s.handleBrands)
	s.mux.HandleFunc("/api/categories", s.handleCategories)

	s.mux.HandleFunc("/api/cart", s.handleCart)
	s.mux.HandleFunc("/api/cart/add", s.handleCartAdd)
	s.mux.HandleFunc("/api/cart/update", s.handleCartUpdate)
	s.mux.HandleFunc("/api/cart/remove", s.handleCartRemove)
	s.mux.HandleFunc("/api/cart/clear", s.handleCartClear)
	s.mux.HandleFunc("/api/cart/count", s.handleCartCount)

	s.mux.HandleFunc("/api/checkout", s.handleCheckout)
	s.mux.HandleFunc("/payment/confirm", s.handlePaymentConfirmPage)
	s.mux.HandleFunc("/api/payment/confirm", s.handlePaymentConfirm)
	s.mux.HandleFunc("/api/payment/status", s.handlePaymentStatus)

	s.mux.HandleFunc("/api/auth/register", s.handleRegister)
	s.mux.HandleFunc("/api/auth/check-email", s.handleCheckEmail)
	s.mux.HandleFunc("/api/auth/login", s.handleLogin)
	s.mux.HandleFunc("/logout", s.handleLogout)
	s.mux.HandleFunc("/auth/google/login", s.handleGoogleLogin)
	s.mux.HandleFunc("/auth/google/callback", s.handleGoogleCallback)

	s.mux.HandleFunc("/api/me", s.handleMe)
	s.mux.HandleFunc("/api/me/password", s.handleChangePassword)
	s.mux.HandleFunc("/api/me/orders", s.handleMyOrders)

	s.mux.HandleFunc("/admin/api/stats", s.adminStats)
	s.mux.HandleFunc("/admin/api/report/summary", s.adminReportSummary)
	s.mux.HandleFunc("/admin/api/report/timeseries", s.adminReportTimeseries)
	s.mux.HandleFunc("/admin/api/report/export", s.adminReportExport)
	s.mux.HandleFunc("/admin/api/products", s.adminProducts)
	s.mux.HandleFunc("/admin/api/products/", s.adminProductByID)
	s.mux.HandleFunc("/admin/api/inventory", s.adminInventory)
	s.mux.HandleFunc("/admin/api/inventory/", s.adminInventoryByID)
	s.mux.HandleFunc("/admin/api/customers", s.adminCustomers)
	s.mux.HandleFunc("/admin/api/customers/", s.adminCustomerByID)
	s.mux.HandleFunc("/admin/api/images/search", s.adminImageSearch)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	featured, degraded, err := s.catalog.Featured(r.Context())
	if err != nil {
		s.internalError(w, err, "home featured")
		return
	}
	deals, _, err := s.catalog.SpecialDeals(r.Context())
	if err != nil {
		s.internalError(w, err, "home deals")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"featured":     featured,
		"specialDeals": deals,
		"degraded":     degraded,
	})
}

func (s *Server) handleProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ProductFilter{Query: q.Get("q")}
	for _, raw := range q["category"] {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			filter.CategoryIDs = append(filter.CategoryIDs, uint(id))
		}
	}
	products, degraded, err := s.catalog.List(r.Context(), filter)
	if err != nil {
		s.internalError(w, err, "list products")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products, "degraded": degraded})
}

// handleProductByID serves /api/products/{id} and, for variant pickers,
// /api/products/{id}/variants.
func (s *Server) handleProductByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/products/"), "/")
	wantVariants := false
	if strings.HasSuffix(rest, "/variants") {
		wantVariants = true
		rest = strings.TrimSuffix(rest, "/variants")
	}
	id, err := strconv.ParseUint(rest, 10, 32)
	if err != nil || id == 0 {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}

	if wantVariants {
		variants, err := s.catalog.VariantOptions(r.Context(), uint(id))
		if err != nil {
			s.internalError(w, err, "product variants")
			return
		}
		writeJSON(w, http.StatusOK, variants)
		return
	}

	p, err := s.catalog.Get(r.Context(), uint(id))
	if errors.Is(err, domain.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "product not found"})
		return
	}
	if err != nil {
		s.internalError(w, err, "load product")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDepartment(w http.ResponseWriter, r *http.Request) {
	name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/departments/"), "/")
	products, degraded, err := s.catalog.ByDepartment(r.Context(), name, r.URL.Query().Get("q"))
	if errors.Is(err, domain.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "unknown department"})
		return
	}
	if err != nil {
		s.internalError(w, err, "department")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products, "degraded": degraded})
}

func (s *Server) handleBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := s.catalog.Brands(r.Context())
	if err != nil {
		s.internalError(w, err, "brands")
		return
	}
	writeJSON(w, http.StatusOK, brands)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.catalog.Categories(r.Context())
	if err != nil {
		s.internalError(w, err, "categories")
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// internalError hides the details from the caller; the log line keeps them.
func (s *Server) internalError(w http.ResponseWriter, err error, msg string) {
	log.Error().Err(err).Msg(msg)
	writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "message": "internal error"})
}

func (s *Server) logError(err error, msg string) {
	log.Error().Err(err).Msg(msg)
}
