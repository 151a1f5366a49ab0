package server

import (
	"context"
	"log/slog"
	"net/http"

	"paystack-storefront/internal/handler"
	authmw "paystack-storefront/internal/middleware"
	"paystack-storefront/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Services struct {
	Order      service.OrderService
	Payment    service.PaymentService
	Cart       service.CartService
	Membership service.MembershipService
	Catalog    service.CatalogService
}

type Server struct {
	echo           *echo.Echo
	auth           *authmw.AuthMiddleware
	orderHandler   *handler.OrderHandler
	cartHandler    *handler.CartHandler
	memberHandler  *handler.MemberHandler
	catalogHandler *handler.CatalogHandler
}

func NewServer(services Services, jwtSecret string, logger *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			} else if v.Status >= http.StatusBadRequest {
				level = slog.LevelWarn
			}

			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	}))
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("1M"))

	e.Validator = handler.NewRequestValidator()
	e.HTTPErrorHandler = handler.NewErrorHandler(logger).HandleHTTPError

	s := &Server{
		echo:           e,
		auth:           authmw.NewAuthMiddleware(jwtSecret),
		orderHandler:   handler.NewOrderHandler(services.Order, services.Payment),
		cartHandler:    handler.NewCartHandler(services.Cart),
		memberHandler:  handler.NewMemberHandler(services.Membership),
		catalogHandler: handler.NewCatalogHandler(services.Catalog),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// -------- carts (anonymous) --------
	carts := api.Group("/carts")
	carts.POST("", s.cartHandler.Create)
	carts.GET("/:id", s.cartHandler.Get)
	carts.DELETE("/:id", s.cartHandler.Delete)
	carts.POST("/:id/items", s.cartHandler.AddItem)
	carts.PATCH("/:id/items/:product_id", s.cartHandler.SetItemQuantity)
	carts.DELETE("/:id/items/:product_id", s.cartHandler.RemoveItem)

	// -------- paystack webhook, authenticated by signature --------
	api.POST("/orders/paystack-webhook", s.orderHandler.PaystackWebhook)

	// -------- orders --------
	orders := api.Group("/orders", s.auth.Authenticate)
	orders.GET("", s.orderHandler.List)
	orders.POST("", s.orderHandler.Checkout)
	orders.GET("/:id", s.orderHandler.Get)
	orders.PATCH("/:id", s.orderHandler.UpdateStatus)
	orders.DELETE("/:id", s.orderHandler.Delete)
	orders.POST("/:id/initiate-payment", s.orderHandler.InitiatePayment)

	// -------- members --------
	members := api.Group("/members", s.auth.Authenticate)
	members.POST("", s.memberHandler.Register)
	members.GET("/me", s.memberHandler.Me)
	members.DELETE("/me", s.memberHandler.Leave)
	members.POST("/me/addresses", s.memberHandler.AddAddress)
	members.POST("/me/top-ups", s.memberHandler.RecordTopUp)
	members.POST("/me/complaints", s.memberHandler.FileComplaint)

	// -------- back office --------
	admin := api.Group("/admin", s.auth.Authenticate, s.auth.RequireRole(authmw.RoleAdmin))
	admin.PATCH("/orders/:id", s.orderHandler.Settle)
	admin.POST("/collections", s.catalogHandler.CreateCollection)
	admin.PUT("/collections/:id/featured-product", s.catalogHandler.SetFeaturedProduct)
	admin.DELETE("/collections/:id", s.catalogHandler.DeleteCollection)
	admin.POST("/products", s.catalogHandler.CreateProduct)
	admin.POST("/products/:id/images", s.catalogHandler.AddImage)
	admin.POST("/products/:id/reviews", s.catalogHandler.AddReview)
	admin.DELETE("/products/:id", s.catalogHandler.DeleteProduct)
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
