package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sleepycare/backend/handlers"
	"github.com/sleepycare/backend/internal/auth"
	"github.com/sleepycare/backend/internal/cache"
	"github.com/sleepycare/backend/internal/carts"
	"github.com/sleepycare/backend/internal/catalog"
	"github.com/sleepycare/backend/internal/config"
	"github.com/sleepycare/backend/internal/database"
	"github.com/sleepycare/backend/internal/models"
	"github.com/sleepycare/backend/internal/notify"
	"github.com/sleepycare/backend/internal/orders"
	"github.com/sleepycare/backend/internal/partners"
	"github.com/sleepycare/backend/internal/resets"
	"github.com/sleepycare/backend/internal/storage"
	"github.com/sleepycare/backend/internal/tokens"
	"github.com/sleepycare/backend/internal/users"
	"github.com/sleepycare/backend/pkg/logger"
	"github.com/sleepycare/backend/pkg/metrics"
	"github.com/sleepycare/backend/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// logging level is controlled with LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: mongo=%v redis=%v storage=%v", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.Storage.Endpoint != "")

	r := gin.New()

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	// (Keep this intentionally simple — production should use a stricter policy.)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	// Global middlewares: logging + recovery + request counting
	r.Use(gin.Logger(), gin.Recovery(), metrics.RequestCounter())

	// Connect to Redis early; the catalog cache is optional and the service
	// runs without it.
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		rc := redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rc.Ping(context.Background()).Err(); err == nil {
			redisClient = rc
			logger.Infof("connected to Redis for catalog caching: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		} else {
			logger.Warnf("failed to connect to Redis (%s:%s), caching disabled: %v", cfg.Redis.Host, cfg.Redis.Port, err)
		}
	}
	catalogCache := cache.New(redisClient, cache.DefaultTTL)

	ctx := context.Background()

	// Retry/backoff when connecting to MongoDB to tolerate startup races
	const maxAttempts = 5
	backoff := time.Second
	var client *mongo.Client
	var errConn error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		client, errConn = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
		if errConn == nil {
			break
		}
		logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, errConn)
		if attempt < maxAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	if errConn != nil {
		logger.Fatalf("could not connect to MongoDB after %d attempts: %v", maxAttempts, errConn)
	}
	defer func() { _ = client.Disconnect(ctx) }()

	db := client.Database(cfg.MongoDB.Database)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		logger.Fatalf("failed to ensure indexes: %v", err)
	}

	imageStore, err := storage.NewImageStore(cfg.Storage)
	if err != nil {
		logger.Fatalf("failed to initialize object storage: %v", err)
	}

	// Repositories
	usersRepo := users.NewMongoRepository(db.Collection("users"))
	resetsRepo := resets.NewMongoRepository(db.Collection("password_reset_tokens"))
	productsRepo := catalog.NewMongoProductRepository(db.Collection("products"))
	categoriesRepo := catalog.NewMongoCategoryRepository(db.Collection("categories"))
	cartsRepo := carts.NewMongoRepository(db.Collection("carts"))
	ordersRepo := orders.NewMongoRepository(db.Collection("orders"))
	txRepo := orders.NewMongoTransactionRepository(db.Collection("transactions"))
	partnersRepo := partners.NewMongoRepository(db.Collection("partners"))

	// Services
	codec := tokens.NewCodec(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)
	mailer := notify.NewFrontendMailer(cfg.FrontendURL)
	authSvc := auth.NewService(usersRepo, resetsRepo, codec, mailer)
	ordersSvc := orders.NewService(ordersRepo, productsRepo)

	if err := bootstrapAdmin(ctx, cfg.Admin, usersRepo); err != nil {
		logger.Fatalf("failed to bootstrap admin account: %v", err)
	}

	authenticate := middleware.Authenticate(codec, usersRepo)

	root := r.Group("/")
	handlers.NewAuthHandler(authSvc, authenticate).Register(root)
	handlers.NewProductsHandler(productsRepo, catalogCache).Register(root)
	handlers.NewCategoriesHandler(categoriesRepo, catalogCache).Register(root)
	handlers.NewPartnersHandler(partnersRepo, catalogCache).Register(root)
	handlers.NewCartHandler(cartsRepo, productsRepo, authenticate).Register(root)
	handlers.NewOrdersHandler(ordersSvc, ordersRepo, authenticate).Register(root)
	handlers.NewTransactionsHandler(txRepo, ordersRepo, authenticate).Register(root)
	handlers.NewAdminProductsHandler(productsRepo, categoriesRepo, imageStore, catalogCache, authenticate).Register(root)
	handlers.NewAdminCategoriesHandler(categoriesRepo, imageStore, catalogCache, authenticate).Register(root)
	handlers.NewAdminOrdersHandler(ordersRepo, authenticate).Register(root)
	handlers.NewAdminUsersHandler(usersRepo, ordersRepo, authenticate).Register(root)
	handlers.NewAdminPartnersHandler(partnersRepo, catalogCache, authenticate).Register(root)
	handlers.NewAdminUploadHandler(imageStore, authenticate).Register(root)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "sleepy-care"})
	})

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness endpoint — return 200 only when critical dependencies are available
	r.GET("/ready", func(c *gin.Context) {
		deps := map[string]bool{
			"mongodb": client.Ping(c.Request.Context(), nil) == nil,
			"redis":   true,
			"storage": true,
		}
		if redisClient != nil {
			deps["redis"] = redisClient.Ping(c.Request.Context()).Err() == nil
		}
		ready := deps["mongodb"]
		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	// Expose Prometheus metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting sleepy-care backend on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}

// bootstrapAdmin creates the configured admin account on first start. A
// no-op when the account already exists or no credentials are configured.
func bootstrapAdmin(ctx context.Context, cfg config.AdminConfig, repo users.Repository) error {
	if cfg.Email == "" || cfg.Password == "" {
		return nil
	}
	existing, err := repo.GetByEmail(ctx, cfg.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	hash, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return err
	}
	_, err = repo.Create(ctx, &models.User{
		Name:         "Administrator",
		Email:        cfg.Email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Provider:     models.ProviderLocal,
	})
	if err != nil && users.IsDuplicate(err) {
		// concurrent replica created it first
		return nil
	}
	if err == nil {
		logger.Infof("bootstrapped admin account %s", users.FoldEmail(cfg.Email))
	}
	return err
}
