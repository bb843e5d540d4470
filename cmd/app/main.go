package main

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shopcore/shop-backend/internal/auth"
	"github.com/shopcore/shop-backend/internal/cart"
	"github.com/shopcore/shop-backend/internal/config"
	"github.com/shopcore/shop-backend/internal/customer"
	"github.com/shopcore/shop-backend/internal/order"
	"github.com/shopcore/shop-backend/internal/payment"
	"github.com/shopcore/shop-backend/internal/product"
	"github.com/shopcore/shop-backend/internal/review"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("configuration error", zap.Error(err))
	}

	db := mustOpenDB(cfg.DatabaseURL, logger)
	defer db.Close()

	if err := ensureSchema(db); err != nil {
		logger.Fatal("schema bootstrap failed", zap.Error(err))
	}

	app := fiber.New()
	setupCORS(app)

	// catalog, optionally fronted by a redis read cache
	var catalog product.ServiceInterface = product.NewService(product.NewPostgresRepository(db))
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		catalog = product.NewCachedService(catalog, client, cfg.ProductCacheTTL)
		logger.Info("product cache enabled", zap.String("addr", cfg.RedisAddr))
	}
	productHandler := product.NewHandler(catalog)

	hasher := auth.NewHasher(0)
	signer := auth.NewSigner(cfg.JWTSecret, cfg.TokenLifetime)
	authService := auth.NewService(auth.NewPostgresTokenRepository(db), signer, logger)

	cartService := cart.NewService(cart.NewPostgresRepository(db), catalog)
	cartHandler := cart.NewHandler(cartService)

	customerService := customer.NewService(customer.NewPostgresRepository(db), hasher, logger)
	customerHandler := customer.NewHandler(customerService, authService, cartService, logger)

	orderService := order.NewService(order.NewPostgresRepository(db), cartService, customerService, catalog)
	orderHandler := order.NewHandler(orderService, cartService, logger)

	paymentService := payment.NewService(payment.NewPostgresRepository(db), orderService, payment.NewStubGateway(true), logger)
	paymentHandler := payment.NewHandler(paymentService)

	reviewService := review.NewService(review.NewPostgresRepository(db), catalog, logger)
	reviewHandler := review.NewHandler(reviewService)

	customerHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)
	reviewHandler.RegisterPublicRoutes(app)

	app.Use(auth.JWTMiddleware(cfg.JWTSecret))
	app.Use(auth.RevocationMiddleware(authService))

	customerHandler.RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)
	orderHandler.RegisterProtectedRoutes(app)
	paymentHandler.RegisterProtectedRoutes(app)
	reviewHandler.RegisterProtectedRoutes(app)

	logger.Info("starting server", zap.String("addr", cfg.Addr))
	if err := app.Listen(cfg.Addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func mustOpenDB(url string, logger *zap.Logger) *sql.DB {
	db, err := sql.Open("pgx", url)
	if err != nil {
		logger.Fatal("could not open database", zap.Error(err))
	}
	if err := db.Ping(); err != nil {
		logger.Fatal("could not reach database", zap.Error(err))
	}
	return db
}
