package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "secondhand-backend/docs"
	"secondhand-backend/internal/admin"
	"secondhand-backend/internal/cart"
	"secondhand-backend/internal/checkout"
	"secondhand-backend/internal/config"
	"secondhand-backend/internal/facerec"
	"secondhand-backend/internal/feedback"
	"secondhand-backend/internal/gateway"
	"secondhand-backend/internal/httpx"
	"secondhand-backend/internal/mailer"
	"secondhand-backend/internal/order"
	"secondhand-backend/internal/product"
	"secondhand-backend/internal/report"
	"secondhand-backend/internal/user"
)

// pendingTTL bounds how long an unverified registration is held
// before the uploaded card image is discarded.
const pendingTTL = 15 * time.Minute

// @title           SecondHand Marketplace API
// @version         1.0
// @description     Campus second-hand marketplace with verified listings and card checkout.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer db.Close()
	if err := db.Ping(ctx); err != nil {
		log.Fatalf("postgres ping: %v", err)
	}

	if err := os.MkdirAll(cfg.UploadsDir, 0o755); err != nil {
		log.Fatalf("uploads dir: %v", err)
	}

	users := user.NewPGRepo(db)
	products := product.NewPGRepo(db)
	carts := cart.NewPGRepo(db)
	orders := order.NewPGRepo(db)
	feedbacks := feedback.NewPGRepo(db)
	admins := admin.NewPGRepo(db)
	reports := report.NewPGRepo(db)

	engine := checkout.NewEngine(db)

	pending := user.NewPendingStore(pendingTTL)
	defer pending.Close()

	faces := facerec.New(cfg.FaceCompareURL)
	gw := gateway.NewClient(cfg.GatewayBaseURL, cfg.GatewaySecretKey)
	mail := &mailer.SMTP{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.SMTPFrom,
	}

	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger())
	r.Use(httpx.CORS([]string{"http://localhost:3000", "http://localhost:5173"}))

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		// Registration is two-step: upload details plus card image, then
		// verify the live webcam image against the card.
		api.POST("/users/temp-upload", tempUploadHandler(pending, cfg.UploadsDir))
		api.POST("/users/face-verify", faceVerifyHandler(users, pending, faces, cfg.UploadsDir))
		api.POST("/users/login", loginHandler(users, cfg.JWTSecret))
		api.POST("/admin/login", adminLoginHandler(admins, cfg.JWTSecret))

		api.GET("/products", listProductsHandler(products))
		api.GET("/products/:id", getProductHandler(products))
		api.GET("/products/:id/image", getProductImageHandler(products))
		api.GET("/products/:id/feedback", productFeedbackHandler(feedbacks))

		api.GET("/payments/config", paymentConfigHandler(cfg.GatewayPublishableKey))
		// Called by the payment gateway, authenticated by signature.
		api.POST("/payments/webhook", webhookHandler(engine, cfg.GatewayWebhookSecret))
	}

	auth := api.Group("", httpx.Auth(cfg.JWTSecret))
	{
		auth.GET("/users/:id", getProfileHandler(users))
		auth.PUT("/users/:id", updateProfileHandler(users))
		auth.GET("/users/:id/products", userProductsHandler(products))
		auth.GET("/users/:id/orders", userOrdersHandler(orders))
		auth.GET("/users/:id/feedback", userFeedbackHandler(feedbacks))
		auth.GET("/sellers/:id/orders", sellerOrdersHandler(orders))

		auth.POST("/products", createProductHandler(products))
		auth.PUT("/products/:id", updateProductHandler(products))
		auth.DELETE("/products/:id", deleteProductHandler(products))

		auth.GET("/cart/:id", getCartHandler(carts))
		auth.POST("/cart", addToCartHandler(carts, users, products))
		auth.DELETE("/cart/:userId/:productId", removeFromCartHandler(carts))

		auth.POST("/orders", placeOrderHandler(engine))
		auth.DELETE("/orders/:id", cancelOrderHandler(engine))
		auth.PUT("/orders/:id/receive", receiveOrderHandler(engine))

		auth.POST("/payments/intent", createIntentHandler(gw))
		auth.POST("/payments/process", processPaymentHandler(engine))

		auth.POST("/feedback", submitFeedbackHandler(feedbacks))
	}

	adm := api.Group("/admin", httpx.Auth(cfg.JWTSecret), httpx.RequireAdmin())
	{
		adm.GET("/admins", listAdminsHandler(admins))
		adm.GET("/admins/:id", getAdminHandler(admins))
		adm.POST("/admins", createAdminHandler(admins))
		adm.PUT("/admins/:id", updateAdminHandler(admins))
		adm.DELETE("/admins/:id", deleteAdminHandler(admins))

		adm.PUT("/products/:id/verify", verifyProductHandler(products))
		adm.PUT("/products/:id/reject", rejectProductHandler(products))

		adm.GET("/reports/categories", categorySummaryHandler(reports))
		adm.GET("/reports/pricing", pricingPatternsHandler(reports))

		adm.POST("/email", sendEmailHandler(mail))
	}

	log.Printf("server listening on %s", cfg.HTTPAddr)
	log.Fatal(r.Run(cfg.HTTPAddr))
}
