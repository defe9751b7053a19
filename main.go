package main

import (
	"context"
	"log"
	"time"

	"github.com/Mokereri/hotel-kitchen-api/controllers"
	"github.com/Mokereri/hotel-kitchen-api/initializers"
	"github.com/Mokereri/hotel-kitchen-api/metrics"
	"github.com/Mokereri/hotel-kitchen-api/mpesa"
	"github.com/Mokereri/hotel-kitchen-api/routes"
	"github.com/Mokereri/hotel-kitchen-api/session"
	"github.com/Mokereri/hotel-kitchen-api/store"
	"github.com/Mokereri/hotel-kitchen-api/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

var cfg initializers.Config

func init() {
	initializers.LoadEnv()
	cfg = initializers.ReadConfig()
	if err := cfg.Require("DB_DSN", "JWT_SECRET", "CONSUMER_KEY", "CONSUMER_SECRET", "BUSINESS_SHORTCODE", "PASSKEY", "CALLBACK_URL"); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	initializers.ConnectToDB(cfg)
	initializers.SyncDatabase()
}

func cartStore() session.CartStore {
	if cfg.RedisURL == "" {
		log.Println("REDIS_URL not set, keeping carts in memory.")
		return session.NewMemoryCartStore()
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatal("Invalid REDIS_URL: ", err)
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis: ", err)
	}
	return session.NewRedisCartStore(client, session.DefaultTTL)
}

func main() {
	ctx := context.Background()

	meals := store.NewMealStore(initializers.DB)
	if err := meals.SeedMeals(ctx); err != nil {
		log.Fatal("Failed to seed menu: ", err)
	}
	orders := store.NewOrderStore(initializers.DB)

	charger := mpesa.NewClient(mpesa.Config{
		BaseURL:        cfg.MpesaBaseURL,
		ConsumerKey:    cfg.ConsumerKey,
		ConsumerSecret: cfg.ConsumerSecret,
		ShortCode:      cfg.BusinessShortCode,
		PassKey:        cfg.PassKey,
		CallbackURL:    cfg.CallbackURL,
		Timeout:        cfg.MpesaTimeout,
	})
	paymentMetrics := metrics.NewPaymentMetrics(prometheus.DefaultRegisterer)

	deps := controllers.Dependencies{
		Users:      store.NewUserStore(initializers.DB),
		Meals:      meals,
		Orders:     orders,
		Flow:       session.NewFlow(cartStore(), orders, meals, charger, paymentMetrics),
		JWTSecret:  cfg.JWTSecret,
		AdminEmail: cfg.AdminEmail,
	}
	if uploader, err := utils.NewS3Uploader(ctx, cfg.AWSBucket); err != nil {
		log.Println("Meal image uploads disabled:", err)
	} else {
		deps.Uploader = uploader
	}
	controllers.Setup(deps)

	server := gin.Default()
	server.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	server.Use(metrics.NewServerMetrics("api", prometheus.DefaultRegisterer).Middleware())

	routes.DefaultRoutes(server)
	routes.AuthRoutes(server)
	routes.MealRoutes(server, cfg.JWTSecret)
	routes.CartRoutes(server, cfg.JWTSecret)
	routes.OrderRoutes(server, cfg.JWTSecret)

	log.Printf("Hotel Kitchen API listening on :%s", cfg.Port)
	if err := server.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
