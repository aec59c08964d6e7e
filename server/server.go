package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"

	"storefront-backend/handler"
	"storefront-backend/middleware"
	"storefront-backend/storage"
)

const (
	readTimeout       = 5 * time.Minute
	readHeaderTimeout = 30 * time.Second
	writeTimeout      = 5 * time.Minute
)

type Server struct {
	*gin.Engine
	server *http.Server
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func SetupRoutes(h *handler.Handler, corsOrigins []string) *Server {
	routes := gin.New()
	routes.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ErrorHandler(),
		middleware.Recovery(),
		cors.New(corsConfig(corsOrigins)),
	)
	routes.NoRoute(middleware.NotFound)

	routes.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	routes.StaticFS(storage.PublicPrefix, afero.NewHttpFs(h.Uploader.Fs()))
	routes.POST("/webhook", h.PaymentWebhook)

	auth := middleware.AuthMiddleware(h.JWTSecret, h.Store.Users)
	admin := middleware.AdminMiddleware()

	api := routes.Group("/api/v1")
	{
		users := api.Group("/users")
		{
			users.POST("/register", h.RegisterUser)
			users.POST("/login", h.LoginUser)
			users.GET("/profile", auth, h.GetUserProfile)
			users.PUT("/update/shipping", auth, h.UpdateShippingAddress)
		}

		products := api.Group("/products")
		{
			products.POST("", auth, admin, h.CreateProduct)
			products.GET("", h.ListProducts)
			products.GET("/:id", h.GetProduct)
			products.PUT("/:id", auth, admin, h.UpdateProduct)
			products.DELETE("/:id", auth, admin, h.DeleteProduct)
		}

		categories := api.Group("/categories")
		{
			categories.POST("", auth, admin, h.CreateCategory)
			categories.GET("", h.ListCategories)
			categories.GET("/:id", h.GetCategory)
			categories.PUT("/:id", auth, admin, h.UpdateCategory)
			categories.DELETE("/:id", auth, admin, h.DeleteCategory)
		}

		brands := api.Group("/brands")
		{
			brands.POST("", auth, admin, h.CreateBrand)
			brands.GET("", h.ListBrands)
			brands.GET("/:id", h.GetBrand)
			brands.PUT("/:id", auth, admin, h.UpdateBrand)
			brands.DELETE("/:id", auth, admin, h.DeleteBrand)
		}

		colors := api.Group("/colors")
		{
			colors.POST("", auth, admin, h.CreateColor)
			colors.GET("", h.ListColors)
			colors.GET("/:id", h.GetColor)
			colors.PUT("/:id", auth, admin, h.UpdateColor)
			colors.DELETE("/:id", auth, admin, h.DeleteColor)
		}

		coupons := api.Group("/coupons")
		{
			coupons.POST("", auth, admin, h.CreateCoupon)
			coupons.GET("", h.ListCoupons)
			coupons.GET("/:id", h.GetCoupon)
			coupons.PUT("/:id", auth, admin, h.UpdateCoupon)
			coupons.DELETE("/:id", auth, admin, h.DeleteCoupon)
		}

		reviews := api.Group("/reviews")
		{
			reviews.POST("/:productID", auth, h.CreateReview)
			reviews.GET("", h.ListReviews)
			reviews.GET("/:id", h.GetReview)
			reviews.PUT("/:id", auth, admin, h.UpdateReview)
			reviews.DELETE("/:id", auth, admin, h.DeleteReview)
		}

		orders := api.Group("/orders")
		{
			orders.POST("", auth, h.CreateOrder)
			orders.GET("", auth, h.ListOrders)
			orders.GET("/sales/stats", auth, admin, h.OrderStats)
			orders.GET("/:id", auth, h.GetOrder)
			orders.PUT("/update/:id", auth, admin, h.UpdateOrder)
		}
	}

	return &Server{
		Engine: routes,
	}
}

func (srv *Server) Run(addr string) error {
	srv.server = &http.Server{
		Addr:              addr,
		Handler:           srv.Engine,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}
	return srv.server.ListenAndServe()
}

func (srv *Server) Stop(timeout time.Duration) error {
	if srv.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.server.Shutdown(ctx)
}
