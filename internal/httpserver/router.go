package httpserver

import (
	"context"
	"errors"
	"io"
	"slices"

	"storefront/internal/cartstate"
	"storefront/internal/domain"
	"storefront/internal/logger"
	productrepo "storefront/internal/repository/product"
	"storefront/internal/service/admin"
	"storefront/internal/service/announcement"
	"storefront/internal/service/carousel"
	"storefront/internal/service/cart"
	"storefront/internal/service/checkout"
	"storefront/internal/service/inquiry"
	"storefront/internal/service/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type SessionService interface {
	Issue() session.Session
	Parse(raw string) (string, error)
}

type ProductService interface {
	List(ctx context.Context, filter productrepo.ListFilter) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
	SetStock(ctx context.Context, id string, quantity int) (*domain.Product, error)
	UploadImage(ctx context.Context, data []byte) (string, error)
}

type CategoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
}

type CartService interface {
	Add(ctx context.Context, sessionID, productID string) (cartstate.CartLine, error)
	Increment(ctx context.Context, sessionID, productID string) (cartstate.CartLine, error)
	Decrement(ctx context.Context, sessionID, productID string) (cartstate.CartLine, bool, error)
	SetQuantity(ctx context.Context, sessionID, productID string, quantity int) (cartstate.CartLine, bool, error)
	Remove(ctx context.Context, sessionID, productID string) error
	Clear(ctx context.Context, sessionID string) error
	View(ctx context.Context, sessionID string) (cart.View, error)
}

type WishlistService interface {
	Add(ctx context.Context, sessionID, productID string) ([]cartstate.WishlistEntry, error)
	Remove(ctx context.Context, sessionID, productID string) error
	Clear(ctx context.Context, sessionID string) error
	List(ctx context.Context, sessionID string) ([]cartstate.WishlistEntry, error)
	MoveToCart(ctx context.Context, sessionID, productID string) (cartstate.CartLine, error)
}

// DrawerSource exposes the session store so the drawer can render cart lines
// and wishlist entries as one list.
type DrawerSource interface {
	Get(ctx context.Context, sessionID string) (*cartstate.Store, error)
}

type CheckoutService interface {
	Preview(ctx context.Context, sessionID string) (checkout.Quote, error)
	Submit(ctx context.Context, sessionID string, req checkout.Request) (*checkout.Confirmation, error)
	TakeConfirmation(sessionID string) checkout.Confirmation
}

type OrderService interface {
	Get(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	Transition(ctx context.Context, id string, target domain.OrderStatus) (*domain.Order, error)
	ExportCSV(ctx context.Context, w io.Writer, filter domain.OrderFilter) error
}

type InquiryService interface {
	Create(ctx context.Context, req inquiry.Request) (*domain.Inquiry, error)
	List(ctx context.Context) ([]domain.Inquiry, error)
	Delete(ctx context.Context, id string) error
}

type AdminService interface {
	Login(ctx context.Context, email, password string) (*admin.Session, error)
	Logout(ctx context.Context, token string) error
	LookupByToken(ctx context.Context, token string) (*domain.AdminUser, error)
}

type CarouselService interface {
	List(ctx context.Context) ([]domain.CarouselSlide, error)
	Create(ctx context.Context, req carousel.SlideRequest) (*domain.CarouselSlide, error)
	Update(ctx context.Context, id string, req carousel.SlideRequest) (*domain.CarouselSlide, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, ids []string) ([]domain.CarouselSlide, error)
}

type AnnouncementService interface {
	// Current returns nil when there is nothing to display.
	Current(ctx context.Context) (*domain.Announcement, error)
	Get(ctx context.Context) (*domain.Announcement, error)
	Save(ctx context.Context, req announcement.Request) (*domain.Announcement, error)
}

type AnalyticsService interface {
	Dashboard(ctx context.Context) (*domain.Dashboard, error)
}

// Deps groups the services the router dispatches to.
type Deps struct {
	Sessions   SessionService
	Products   ProductService
	Categories CategoryService
	Cart       CartService
	Wishlist   WishlistService
	Drawer     DrawerSource
	Checkout   CheckoutService
	Orders     OrderService
	Inquiries  InquiryService
	Admin      AdminService

	Carousel      CarouselService
	Announcements AnnouncementService
	Analytics     AnalyticsService

	// Readiness lists optional backends checked by /readyz.
	Readiness []ReadinessCheck
}

func (d Deps) validate() error {
	var errs []error
	check := func(ok bool, name string) {
		if !ok {
			errs = append(errs, errors.New(name+" dependency required"))
		}
	}
	check(d.Sessions != nil, "sessions")
	check(d.Products != nil, "products")
	check(d.Categories != nil, "categories")
	check(d.Cart != nil, "cart")
	check(d.Wishlist != nil, "wishlist")
	check(d.Drawer != nil, "drawer")
	check(d.Checkout != nil, "checkout")
	check(d.Orders != nil, "orders")
	check(d.Inquiries != nil, "inquiries")
	check(d.Admin != nil, "admin")
	check(d.Carousel != nil, "carousel")
	check(d.Announcements != nil, "announcements")
	check(d.Analytics != nil, "analytics")
	return errors.Join(errs...)
}

// buildRouter wires routes for the API.
func buildRouter(log *zap.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) (*gin.Engine, error) {
	log = logger.OrNop(log)
	if err := deps.validate(); err != nil {
		return nil, err
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(logger.GinMiddleware(log), logger.Recovery(log), cors.New(corsConfig(corsOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db, deps.Readiness))

	api := router.Group("/api")
	api.POST("/sessions", createSessionHandler(deps.Sessions))
	api.GET("/products", listProductsHandler(deps.Products))
	api.GET("/products/:id", getProductHandler(deps.Products))
	api.GET("/categories", listCategoriesHandler(deps.Categories))
	api.POST("/inquiries", createInquiryHandler(deps.Inquiries))
	api.GET("/carousel", listSlidesHandler(deps.Carousel))
	api.GET("/announcement", currentAnnouncementHandler(deps.Announcements))

	shopper := api.Group("", sessionMiddleware(deps.Sessions))
	shopper.GET("/cart", viewCartHandler(deps.Cart))
	shopper.POST("/cart/items", addToCartHandler(deps.Cart))
	shopper.POST("/cart/items/:productId/increment", incrementCartHandler(deps.Cart))
	shopper.POST("/cart/items/:productId/decrement", decrementCartHandler(deps.Cart))
	shopper.PUT("/cart/items/:productId", setCartQuantityHandler(deps.Cart))
	shopper.DELETE("/cart/items/:productId", removeFromCartHandler(deps.Cart))
	shopper.DELETE("/cart", clearCartHandler(deps.Cart))

	shopper.GET("/wishlist", listWishlistHandler(deps.Wishlist))
	shopper.POST("/wishlist/items", addToWishlistHandler(deps.Wishlist))
	shopper.DELETE("/wishlist/items/:productId", removeFromWishlistHandler(deps.Wishlist))
	shopper.DELETE("/wishlist", clearWishlistHandler(deps.Wishlist))
	shopper.POST("/wishlist/items/:productId/move-to-cart", moveToCartHandler(deps.Wishlist, deps.Cart))

	shopper.GET("/drawer", drawerHandler(deps.Drawer))

	shopper.GET("/checkout/quote", checkoutQuoteHandler(deps.Checkout))
	shopper.POST("/checkout", checkoutHandler(deps.Checkout))
	shopper.GET("/checkout/confirmation", confirmationHandler(deps.Checkout))

	api.POST("/admin/login", adminLoginHandler(deps.Admin))
	adminAPI := api.Group("/admin", adminMiddleware(deps.Admin))
	adminAPI.POST("/logout", adminLogoutHandler(deps.Admin))
	adminAPI.GET("/me", adminMeHandler)
	adminAPI.GET("/orders", listOrdersHandler(deps.Orders))
	adminAPI.GET("/orders/export", exportOrdersHandler(deps.Orders))
	adminAPI.GET("/orders/:id", getOrderHandler(deps.Orders))
	adminAPI.PATCH("/orders/:id/status", updateOrderStatusHandler(deps.Orders))
	adminAPI.PUT("/products", upsertProductHandler(deps.Products))
	adminAPI.PATCH("/products/:id/stock", setStockHandler(deps.Products))
	adminAPI.POST("/uploads", uploadImageHandler(deps.Products))
	adminAPI.GET("/inquiries", listInquiriesHandler(deps.Inquiries))
	adminAPI.DELETE("/inquiries/:id", deleteInquiryHandler(deps.Inquiries))
	adminAPI.GET("/carousel", listSlidesHandler(deps.Carousel))
	adminAPI.POST("/carousel", createSlideHandler(deps.Carousel))
	adminAPI.POST("/carousel/reorder", reorderSlidesHandler(deps.Carousel))
	adminAPI.PUT("/carousel/:id", updateSlideHandler(deps.Carousel))
	adminAPI.DELETE("/carousel/:id", deleteSlideHandler(deps.Carousel))
	adminAPI.GET("/announcement", getAnnouncementHandler(deps.Announcements))
	adminAPI.PUT("/announcement", saveAnnouncementHandler(deps.Announcements))
	adminAPI.GET("/analytics", dashboardHandler(deps.Analytics))

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", sessionHeader)
	cfg.ExposeHeaders = []string{"Content-Disposition"}
	return cfg
}
