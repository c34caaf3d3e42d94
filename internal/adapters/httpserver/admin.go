package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/strideshop/stride/internal/domain"
	"github.com/strideshop/stride/internal/usecase"
)

func pathID(path, prefix string) (uint, bool) {
	raw := strings.TrimPrefix(path, prefix)
	raw = strings.Trim(raw, "/")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func parseDateQuery(q string) *time.Time {
	if q == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", q)
	if err != nil {
		return nil
	}
	return &t
}

func (s *Server) adminStats(w http.ResponseWriter, r *http.Request) {
	if s.requireAdmin(w, r) == nil {
		return
	}
	stats, err := s.reports.Stats(r.Context())
	if err != nil {
		s.internalError(w, err, "admin stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) adminReportSummary(w http.ResponseWriter, r *http.Request) {
	if s.requireAdmin(w, r) == nil {
		return
	}
	from := parseDateQuery(r.URL.Query().Get("from"))
	to := parseDateQuery(r.URL.Query().Get("to"))
	summary, err := s.reports.Summary(r.Context(), from, to)
	if err != nil {
		s.internalError(w, err, "report summary")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) adminReportTimeseries(w http.ResponseWriter, r *http.Request) {
	if s.requireAdmin(w, r) == nil {
		return
	}
	from := parseDateQuery(r.URL.Query().Get("from"))
	to := parseDateQuery(r.URL.Query().Get("to"))
	points, err := s.reports.Timeseries(r.Context(), from, to)
	if err != nil {
		s.internalError(w, err, "report timeseries")
		return
	}
	writeJSON(w, http.StatusOK, points)
}

// adminReportExport streams the range's orders as a spreadsheet.
func (s *Server) adminReportExport(w http.ResponseWriter, r *http.Request) {
	if s.requireAdmin(w, r) == nil {
		return
	}
	from := parseDateQuery(r.URL.Query().Get("from"))
	to := parseDateQuery(r.URL.Query().Get("to"))
	start, end := usecase.ReportRange(from, to)
	orders, err := s.orders.ListInRange(r.Context(), start, end)
	if err != nil {
		s.internalError(w, err, "report export")
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Orders"
	f.SetSheetName(f.GetSheetName(0), sheet)
	headers := []string{"Order ID", "Created", "Status", "Payment Method", "Total", "Items"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for row, o := range orders {
		items := 0
		for _, d := range o.Details {
			items += d.Quantity
		}
		values := []any{o.ID, o.CreatedAt.Format("2006-01-02 15:04"), string(o.Status), o.PaymentMethod, o.TotalAmount, items}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=orders-%s.xlsx", start.Format("2006-01-02")))
	if err := f.Write(w); err != nil {
		// headers already sent, nothing to do but log
		s.logError(err, "write xlsx")
	}
}

func (s *Server) adminProducts(w http.ResponseWriter, r *http.Request) {
	if s.requireAdmin(w, r) == nil {
		return
	}
	switch r.Method {
	case http.MethodGet:
		products, err := s.products.List(r.Context(), domain.ProductFilter{Query: r.URL.Query().Get("q")})
		if err != nil {
			s.internalError(w, err, "admin products")
			return
		}
		writeJSON(w, http.StatusOK, products)
	case http.MethodPost:
		var p domain.Product
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.Name == "" || p.Price <= 0 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		p.ID = 0
		if err := s.products.Save(r.Context(), &p); err != nil {
			s.internalError(w, err, "create product")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": p.ID})
	default:
		http.Error(w, "method", http.StatusMethodNotAllowed)
	}
}

func (s *Server) adminProductByID(w http.ResponseWriter, r *http.Request) {
	if s.requireAdmin(w, r) == nil {
		return
	}
	id, ok := pathID(r.URL.Path, "/admin/api/products/")
	if !ok {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	switch r.Method {
	case http.MethodGet:
		p, err := s.products.FindByID(r.Context(), id)
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "product not found"})
			return
		}
		if err != nil {
			s.internalError(w, err, "load product")
			return
		}
		writeJSON(w, http.StatusOK, p)
	case http.MethodPut:
		existing, err := s.products.FindByID(r.Context(), id)
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "product not found"})
			return
		}
		if err != nil {
			s.internalError(w, err, "load product")
			return
		}
		var req domain.Product
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" || req.Price <= 0 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		existing.Name = req.Name
		existing.Description = req.Description
		existing.Price = req.Price
		existing.DiscountPrice = req.DiscountPrice
		existing.ImageURL = req.ImageURL
		existing.CategoryID = req.CategoryID
		existing.BrandID = req.BrandID
		existing.IsFeatured = req.IsFeatured
		existing.IsSpecialDeal = req.IsSpecialDeal
		existing.Category = nil
		existing.Brand = nil
		existing.Variants = nil
		if err := s.products.Save(r.Context(), existing); err != nil {
			s.internalError(w, err, "update product")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	case http.MethodDelete:
		if err := s.products.Delete(r.Context(), id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "product not found"})
				return
			}
			s.internalError(w, err, "delete product")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	default:
		http.Error(w, "method", http.StatusMethodNotAllowed)
	}
}

func (s *Server) adminInventory(w http.ResponseWriter, r *http.Request) {
	if s.requireAdmin(w, r) == nil {
		return
	}
	switch r.Method {
	case http.MethodGet:
		variants, err := s.products.ListInventory(r.Context())
		if err != nil {
			s.internalError(w, err, "inventory list")
			return
		}
		writeJSON(w, http.StatusOK, variants)
	case http.MethodPost:
		var req struct {
			ProductID     uint   `json:"productId"`
			Size          string `json:"size"`
			Color         string `json:"color"`
			StockQuantity int    `json:"stockQuantity"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == 0 || req.StockQuantity < 0 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if _, err := s.products.FindVariant(r.Context(), req.ProductID, req.Size, req.Color); err == nil {
			writeJSON(w, http.StatusConflict, map[string]any{"success": false, "message": domain.ErrVariantExists.Error()})
			return
		} else if !errors.Is(err, domain.ErrNotFound) {
			s.internalError(w, err, "inventory lookup")
			return
		}
		v := &domain.ProductVariant{
			ProductID:     req.ProductID,
			Size:          strings.TrimSpace(req.Size),
			Color:         strings.TrimSpace(req.Color),
			StockQuantity: req.StockQuantity,
		}
		if err := s.products.SaveVariant(r.Context(), v); err != nil {
			s.internalError(w, err, "inventory create")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": v.ID})
	default:
		http.Error(w, "method", http.StatusMethodNotAllowed)
	}
}

func (s *Server) adminInventoryByID(w http.ResponseWriter, r *http.Request) {
	if s.requireAdmin(w, r) == nil {
		return
	}
	id, ok := pathID(r.URL.Path, "/admin/api/inventory/")
	if !ok {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	switch r.Method {
	case http.MethodPut:
		var req struct {
			Size          *string `json:"size"`
			Color         *string `json:"color"`
			StockQuantity *int    `json:"stockQuantity"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		v, err := s.products.FindVariantByID(r.Context(), id)
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "variant not found"})
			return
		}
		if err != nil {
			s.internalError(w, err, "inventory load")
			return
		}
		if req.Size != nil {
			v.Size = strings.TrimSpace(*req.Size)
		}
		if req.Color != nil {
			v.Color = strings.TrimSpace(*req.Color)
		}
		if req.StockQuantity != nil {
			if *req.StockQuantity < 0 {
				writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "stock cannot be negative"})
				return
			}
			v.StockQuantity = *req.StockQuantity
		}
		v.Product = nil
		if err := s.products.SaveVariant(r.Context(), v); err != nil {
			s.internalError(w, err, "inventory update")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	case http.MethodDelete:
		if err := s.products.DeleteVariant(r.Context(), id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "variant not found"})
				return
			}
			s.internalError(w, err, "inventory delete")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	default:
		http.Error(w, "method", http.StatusMethodNotAllowed)
	}
}

func (s *Server) adminCustomers(w http.ResponseWriter, r *http.Request) {
	if s.requireAdmin(w, r) == nil {
		return
	}
	switch r.Method {
	case http.MethodGet:
		customers, err := s.users.ListCustomers(r.Context())
		if err != nil {
			s.internalError(w, err, "customers list")
			return
		}
		out := make([]map[string]any, 0, len(customers))
		for i := range customers {
			out = append(out, userView(&customers[i]))
		}
		writeJSON(w, http.StatusOK, out)
	case http.MethodPost:
		var req struct {
			Email       string  `json:"email"`
			Password    string  `json:"password"`
			FullName    string  `json:"fullName"`
			PhoneNumber *string `json:"phoneNumber"`
			Address     *string `json:"address"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			s.internalError(w, err, "hash password")
			return
		}
		u := &domain.User{
			Email:        req.Email,
			PasswordHash: string(hash),
			FullName:     req.FullName,
			RoleID:       domain.RoleCustomer,
			PhoneNumber:  req.PhoneNumber,
			Address:      req.Address,
		}
		if err := s.users.Create(r.Context(), u); err != nil {
			s.internalError(w, err, "customer create")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "id": u.ID})
	default:
		http.Error(w, "method", http.StatusMethodNotAllowed)
	}
}

func (s *Server) adminCustomerByID(w http.ResponseWriter, r *http.Request) {
	if s.requireAdmin(w, r) == nil {
		return
	}
	id, ok := pathID(r.URL.Path, "/admin/api/customers/")
	if !ok {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	switch r.Method {
	case http.MethodPut:
		u, err := s.users.FindByID(r.Context(), id)
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "customer not found"})
			return
		}
		if err != nil {
			s.internalError(w, err, "customer load")
			return
		}
		var req struct {
			FullName    *string `json:"fullName"`
			PhoneNumber *string `json:"phoneNumber"`
			Address     *string `json:"address"`
			Password    *string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if req.FullName != nil {
			u.FullName = *req.FullName
		}
		if req.PhoneNumber != nil {
			u.PhoneNumber = req.PhoneNumber
		}
		if req.Address != nil {
			u.Address = req.Address
		}
		if req.Password != nil && *req.Password != "" {
			hash, herr := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
			if herr != nil {
				s.internalError(w, herr, "hash password")
				return
			}
			u.PasswordHash = string(hash)
		}
		if err := s.users.Save(r.Context(), u); err != nil {
			s.internalError(w, err, "customer update")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	case http.MethodDelete:
		if err := s.users.Delete(r.Context(), id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "customer not found"})
				return
			}
			s.internalError(w, err, "customer delete")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	default:
		http.Error(w, "method", http.StatusMethodNotAllowed)
	}
}

// adminImageSearch suggests product photos for the catalog editor.
func (s *Server) adminImageSearch(w http.ResponseWriter, r *http.Request) {
	if s.requireAdmin(w, r) == nil {
		return
	}
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		http.Error(w, "q required", http.StatusBadRequest)
		return
	}
	max, _ := strconv.Atoi(r.URL.Query().Get("max"))
	images, err := s.images.SearchImages(r.Context(), q, r.URL.Query().Get("brand"), max)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]any{"success": false, "message": "image search failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"images": images})
}
