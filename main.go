package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/Kariqs/kikomiilano-api/controllers"
	"github.com/Kariqs/kikomiilano-api/initializers"
	"github.com/Kariqs/kikomiilano-api/payments"
	"github.com/Kariqs/kikomiilano-api/routes"
	"github.com/Kariqs/kikomiilano-api/services"
	"github.com/Kariqs/kikomiilano-api/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func init() {
	initializers.LoadEnv()
	cfg, err := initializers.LoadConfig()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	initializers.AppConfig = cfg
	initializers.ConnectToDB()
	initializers.SyncDatabase()
	if err := initializers.SeedAdmin(initializers.DB, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatal("Failed to seed admin account: ", err)
	}
}

func main() {
	cfg := initializers.AppConfig
	db := initializers.DB

	gateway := payments.NewClient(payments.Config{
		BaseURL:   cfg.NivuspayBaseURL,
		SecretKey: cfg.NivuspaySecretKey,
		PublicKey: cfg.NivuspayPublicKey,
		Timeout:   cfg.NivuspayTimeout,
	})

	var notifier services.OrderNotifier
	if utils.SMTPConfigured() {
		notifier = &utils.OrderMailer{
			TemplatePath: "templates/order_confirmation.html",
			LogoURL:      os.Getenv("EMAIL_LOGO_URL"),
		}
	} else {
		log.Println("SMTP is not configured, order confirmation emails are disabled.")
	}

	var images controllers.ImageUploader
	if uploader, err := utils.NewS3Uploader(context.Background(), cfg.S3Bucket); err != nil {
		log.Println("Image uploads disabled: ", err)
	} else {
		images = uploader
	}

	server := gin.Default()
	server.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Register(server, routes.Handlers{
		Auth:      &controllers.AuthController{DB: db, JWTSecret: cfg.JWTSecret},
		Products:  &controllers.ProductController{DB: db, Images: images},
		Checkout:  &controllers.CheckoutController{Checkout: services.NewCheckoutService(db, gateway, notifier)},
		Webhooks:  &controllers.WebhookController{Reconciler: services.NewWebhookReconciler(db)},
		Orders:    &controllers.OrderController{Orders: services.NewOrderAdmin(db)},
		JWTSecret: cfg.JWTSecret,
	})

	if err := server.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server stopped: ", err)
	}
}
