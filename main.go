package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront-bff/cart"
	"storefront-bff/clients"
	"storefront-bff/config"
	"storefront-bff/controllers"
	"storefront-bff/database"
	"storefront-bff/kafka"
	"storefront-bff/logger"
	"storefront-bff/middleware"
	awspkg "storefront-bff/pkg/aws"
	"storefront-bff/routes"
	"storefront-bff/session"
)

func main() {
	cfg := config.Load()

	// CloudWatch shipping is opt-in; local runs log to stdout only.
	var cwWriter io.Writer
	var metricsClient *awspkg.MetricsClient
	if os.Getenv("CLOUDWATCH_ENABLED") == "true" {
		cwCtx := context.Background()
		cwLogs, err := awspkg.NewCloudWatchLogsClient(cwCtx, "storefront-bff")
		if err != nil {
			log.Printf("CloudWatch Logs init failed: %v", err)
		} else {
			cwWriter = cwLogs
			log.Println("CloudWatch Logs enabled")
		}
		mc, err := awspkg.NewMetricsClient(cwCtx)
		if err != nil {
			log.Printf("CloudWatch Metrics init failed: %v", err)
		} else {
			metricsClient = mc
			log.Println("CloudWatch Metrics enabled")
		}
	}

	logger.InitializeWithWriter(cfg.Env, cwWriter)
	defer logger.Log.Sync()

	timeout, err := time.ParseDuration(cfg.RequestTimeout)
	if err != nil {
		timeout = 10 * time.Second
	}
	gateway := clients.NewGatewayClient(cfg.APIBaseURL, timeout)

	// Redis keeps client state across restarts; without it, sessions and
	// carts live only as long as the process.
	var sessionStore session.Store
	var cartStore cart.Store
	if cfg.RedisURL != "" {
		redisClient := database.NewRedisClient(cfg.RedisURL)
		sessionStore = database.NewSessionRepository(redisClient, cfg.SessionTTL)
		cartStore = database.NewCartRepository(redisClient, cfg.CartTTL)
	} else {
		logger.Log.Warn("REDIS_URL not set, using in-memory stores")
		sessionStore = session.NewMemoryStore()
		cartStore = cart.NewMemoryStore()
	}

	// Checkout events are optional; without brokers checkout still works,
	// fulfillment just reads orders from the upstream API alone.
	var publisher controllers.CheckoutPublisher
	if cfg.KafkaBrokers != "" {
		producer, err := kafka.NewProducer(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaTopic)
		if err != nil {
			logger.Log.Warn("kafka producer init failed", zap.Error(err))
		} else {
			publisher = producer
			defer producer.Close()
		}
	}

	sessionController := controllers.NewSessionController()
	cartController := controllers.NewCartController(publisher)
	storefrontController := controllers.NewStorefrontController(gateway)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.InitMetrics()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger.Log))
	r.Use(middleware.Metrics())
	if metricsClient != nil {
		r.Use(func(c *gin.Context) {
			start := time.Now()
			c.Next()
			go func(path, method string, status int, dur time.Duration) {
				mctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				dims := map[string]string{"Service": "storefront-bff", "Method": method, "Path": path}
				_ = metricsClient.RecordCount(mctx, awspkg.MetricHTTPRequests, dims)
				_ = metricsClient.RecordLatency(mctx, awspkg.MetricHTTPLatency, dur, dims)
				if status >= 500 {
					_ = metricsClient.RecordCount(mctx, awspkg.MetricHTTPErrors, dims)
				}
			}(c.Request.URL.Path, c.Request.Method, c.Writer.Status(), time.Since(start))
		})
	}
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.ClientID())
	r.Use(middleware.WithState(sessionStore, cartStore, gateway))

	r.GET("/metrics", gin.WrapH(middleware.MetricsHandler()))

	routes.Register(r, sessionController, cartController, storefrontController)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("storefront-bff listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("shutdown error", zap.Error(err))
	}
}
