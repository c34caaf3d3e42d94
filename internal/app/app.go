package app

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/strideshop/stride/internal/adapters/httpserver"
	"github.com/strideshop/stride/internal/adapters/paystate"
	"github.com/strideshop/stride/internal/adapters/repo/postgres"
	"github.com/strideshop/stride/internal/adapters/scraper"
	"github.com/strideshop/stride/internal/config"
	"github.com/strideshop/stride/internal/domain"
	"github.com/strideshop/stride/internal/usecase"
)

type App struct {
	DB  *gorm.DB
	Cfg *config.Config

	Products domain.ProductRepo
	Users    domain.UserRepo
	Orders   domain.OrderRepo
	Payments domain.PaymentStateStore

	CatalogUC  *usecase.CatalogUC
	AccountUC  *usecase.AccountUC
	CheckoutUC *usecase.CheckoutUC
	PaymentUC  *usecase.PaymentUC
	ReportUC   *usecase.ReportUC

	Images      *scraper.ImageScraper
	OAuthConfig *oauth2.Config
}

func NewApp(cfg *config.Config, db *gorm.DB) (*App, error) {
	products := postgres.NewProductRepo(db)
	users := postgres.NewUserRepo(db)
	orders := postgres.NewOrderRepo(db)
	payments := paystate.NewMemory()

	var oauthCfg *oauth2.Config
	if cfg.Google.ClientID != "" && cfg.Google.ClientSecret != "" {
		oauthCfg = &oauth2.Config{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.PublicBaseURL + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}

	return &App{
		DB:          db,
		Cfg:         cfg,
		Products:    products,
		Users:       users,
		Orders:      orders,
		Payments:    payments,
		CatalogUC:   usecase.NewCatalogUC(products),
		AccountUC:   &usecase.AccountUC{Users: users, Orders: orders},
		CheckoutUC:  usecase.NewCheckoutUC(db, products, orders, payments, cfg.Checkout.StrictVariants, cfg.PublicBaseURL),
		PaymentUC:   &usecase.PaymentUC{Orders: orders, Payments: payments},
		ReportUC:    &usecase.ReportUC{Orders: orders, Users: users},
		Images:      scraper.NewImageScraper(),
		OAuthConfig: oauthCfg,
	}, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.Cfg,
		a.CatalogUC, a.AccountUC, a.CheckoutUC, a.PaymentUC, a.ReportUC,
		a.Products, a.Users, a.Orders, a.Images, a.OAuthConfig)
}

func (a *App) MigrateAndSeed() error {
	if err := a.DB.AutoMigrate(
		&domain.Role{}, &domain.User{},
		&domain.Brand{}, &domain.Category{},
		&domain.Product{}, &domain.ProductVariant{},
		&domain.Order{}, &domain.OrderDetail{},
	); err != nil {
		return err
	}
	if err := a.seedLookups(); err != nil {
		return err
	}
	if err := a.seedAdmin(); err != nil {
		return err
	}
	return a.seedCatalog()
}

// seedLookups pins roles and categories to fixed ids; the department pages
// depend on those ids.
func (a *App) seedLookups() error {
	roles := []domain.Role{
		{ID: domain.RoleAdmin, Name: "Admin"},
		{ID: domain.RoleCustomer, Name: "Customer"},
	}
	for _, r := range roles {
		if err := a.DB.Where("id = ?", r.ID).FirstOrCreate(&r).Error; err != nil {
			return err
		}
	}
	categories := []domain.Category{
		{ID: usecase.CategoryMen, Name: "Men"},
		{ID: usecase.CategoryWomen, Name: "Women"},
		{ID: usecase.CategoryKid, Name: "Kid"},
		{ID: usecase.CategoryUnisex, Name: "Unisex"},
	}
	for _, c := range categories {
		if err := a.DB.Where("id = ?", c.ID).FirstOrCreate(&c).Error; err != nil {
			return err
		}
	}
	for _, name := range []string{"Nike", "Adidas", "Balenciaga"} {
		b := domain.Brand{Name: name}
		if err := a.DB.Where("name = ?", name).FirstOrCreate(&b).Error; err != nil {
			return err
		}
	}
	return nil
}

func (a *App) seedAdmin() error {
	if a.Cfg.Admin.Email == "" || a.Cfg.Admin.Password == "" {
		return nil
	}
	var count int64
	if err := a.DB.Model(&domain.User{}).Where("LOWER(email) = LOWER(?)", a.Cfg.Admin.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(a.Cfg.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return a.DB.Create(&domain.User{
		Email:        a.Cfg.Admin.Email,
		PasswordHash: string(hash),
		FullName:     "Administrator",
		RoleID:       domain.RoleAdmin,
	}).Error
}

// seedCatalog loads the demo shoes once, into an empty catalog only.
func (a *App) seedCatalog() error {
	var count int64
	if err := a.DB.Model(&domain.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var nike domain.Brand
	if err := a.DB.Where("name = ?", "Nike").First(&nike).Error; err != nil {
		return err
	}

	img := "https://via.placeholder.com/300"
	men := usecase.CategoryMen
	women := usecase.CategoryWomen
	unisex := usecase.CategoryUnisex
	d70, d45, d60 := 70.0, 45.0, 60.0

	products := []domain.Product{
		{Name: "Air Max 270", Description: "Premium running shoes", Price: 150, ImageURL: img, CategoryID: &men, BrandID: &nike.ID, IsFeatured: true},
		{Name: "Air Force 1", Description: "Classic lifestyle shoes", Price: 90, DiscountPrice: &d70, ImageURL: img, CategoryID: &unisex, BrandID: &nike.ID, IsFeatured: true, IsSpecialDeal: true},
		{Name: "Zoom Pegasus", Description: "High-performance running", Price: 120, ImageURL: img, CategoryID: &men, BrandID: &nike.ID, IsFeatured: true},
		{Name: "Revolution 6", Description: "Everyday running", Price: 60, ImageURL: img, CategoryID: &women, BrandID: &nike.ID, IsFeatured: true},
		{Name: "Court Vision", Description: "Basketball lifestyle", Price: 65, DiscountPrice: &d45, ImageURL: img, CategoryID: &men, BrandID: &nike.ID, IsSpecialDeal: true},
		{Name: "React Element", Description: "Futuristic design", Price: 130, ImageURL: img, CategoryID: &unisex, BrandID: &nike.ID, IsFeatured: true},
		{Name: "Free RN", Description: "Natural motion", Price: 80, DiscountPrice: &d60, ImageURL: img, CategoryID: &women, BrandID: &nike.ID, IsSpecialDeal: true},
		{Name: "Dunk Low", Description: "Skateboarding classic", Price: 100, ImageURL: img, CategoryID: &unisex, BrandID: &nike.ID, IsFeatured: true},
	}

	sizes := []string{"40", "41", "42", "43"}
	colors := []string{"Black", "White"}
	for i := range products {
		p := &products[i]
		if err := a.DB.Create(p).Error; err != nil {
			return err
		}
		for _, size := range sizes {
			for _, color := range colors {
				v := domain.ProductVariant{ProductID: p.ID, Size: size, Color: color, StockQuantity: 10}
				if err := a.DB.Create(&v).Error; err != nil {
					return err
				}
			}
		}
	}
	return nil
}
