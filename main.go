package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-service/controllers"
	"storefront-service/database"
	"storefront-service/fraud"
	"storefront-service/kafka"
	"storefront-service/logger"
	"storefront-service/middleware"
	awspkg "storefront-service/pkg/aws"
	"storefront-service/repository"
	"storefront-service/routes"
	"storefront-service/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const cartTTL = 7 * 24 * time.Hour

func main() {
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		logger.Initialize("development")
		logger.Log.Fatal("Config load failed", zap.Error(err))
	}

	// --- Logging, tee'd to CloudWatch when enabled ---
	cwClient, cwErr := awspkg.NewCloudWatchLogsClient(context.Background(), "storefront-service")
	if cwErr == nil && cwClient.IsEnabled() {
		logger.InitializeWithWriter(cfg.Env, cwClient)
	} else {
		logger.Initialize(cfg.Env)
	}
	log := logger.Log
	defer log.Sync()
	if cwErr != nil {
		log.Warn("CloudWatch logging unavailable", zap.Error(cwErr))
	}

	// --- Databases ---
	db, err := database.ConnectPostgres(cfg.PostgresDSN())
	if err != nil {
		log.Fatal("Postgres connection failed", zap.Error(err))
	}

	mongoDB, err := database.ConnectMongo(cfg.MongoURL, cfg.MongoDB)
	if err != nil {
		log.Fatal("Mongo connection failed", zap.Error(err))
	}
	defer database.CloseMongo(mongoDB)

	redisClient := database.NewRedisClient(cfg.RedisURL)
	defer redisClient.Close()

	// --- AWS ---
	awsCfg, err := awspkg.LoadAWSConfig(context.Background())
	if err != nil {
		log.Fatal("Failed to load AWS config", zap.Error(err))
	}
	snsClient := awspkg.NewSNSClient(awsCfg)

	// --- Kafka ---
	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaCheckoutTopic)
	defer producer.Close()

	// --- Repositories and stores ---
	userRepo := repository.NewGormUserRepository(db)
	orderRepo := repository.NewGormOrderRepository(db)
	couponRepo := repository.NewGormCouponRepository(db)
	restaurantRepo := repository.NewMongoRestaurantRepository(mongoDB)
	cartRepo := database.NewCartRepository(redisClient, cartTTL)
	otpStore := database.NewOTPStore(redisClient)
	catalogCache := database.NewRestaurantCache(redisClient)

	// --- Services ---
	tokenService := services.NewTokenService(cfg.JWTSecret)
	authService := services.NewAuthService(userRepo, tokenService, log)
	userService := services.NewUserService(userRepo, log)
	cartService := services.NewCartService(cartRepo, log)
	couponService := services.NewCouponService(couponRepo, log)
	restaurantService := services.NewRestaurantService(restaurantRepo, catalogCache, log)
	orderService := services.NewOrderService(orderRepo, log)
	otpService := services.NewOTPService(otpStore, snsClient, cfg.OTPSNSTopicARN, log)
	sustainabilityService := services.NewSustainabilityService(restaurantRepo, orderRepo, log)
	checkoutService := services.NewCheckoutService(
		cartRepo, cartRepo, orderRepo, userRepo, couponRepo,
		fraud.NewAnalyzer(nil),
		otpService, producer, snsClient, cfg.CheckoutSNSTopicARN,
		log,
	)

	// --- HTTP router ---
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RateLimitMiddleware())
	r.Use(middleware.RequestLogger(log))
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	routes.Register(r, &routes.Controllers{
		Auth:           controllers.NewAuthController(authService),
		Profile:        controllers.NewProfileController(userService),
		Restaurant:     controllers.NewRestaurantController(restaurantService),
		Cart:           controllers.NewCartController(cartService),
		Checkout:       controllers.NewCheckoutController(checkoutService),
		Order:          controllers.NewOrderController(orderService),
		Coupon:         controllers.NewCouponController(couponService),
		Sustainability: controllers.NewSustainabilityController(sustainabilityService),
	}, tokenService)

	// --- Checkout confirmation consumer ---
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()
	if cfg.CheckoutQueueURL != "" {
		consumer := services.NewCheckoutConsumer(
			awspkg.NewSQSConsumer(awsCfg, cfg.CheckoutQueueURL),
			orderService,
			log,
		)
		go consumer.Start(consumerCtx)
	} else {
		log.Warn("CHECKOUT_QUEUE_URL not set, orders stay pending until confirmed manually")
	}

	// --- HTTP server ---
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Info("Storefront service started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Initiating graceful shutdown...")
	stopConsumer()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Storefront service stopped")
}
