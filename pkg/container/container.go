package container

import (
	"context"
	"fmt"
	"time"

	"sales-backend/internal/config"
	infraCache "sales-backend/internal/infrastructure/cache"
	"sales-backend/internal/infrastructure/database"
	"sales-backend/pkg/logger"

	promotionHandler "sales-backend/internal/domains/promotion/handler"
	promotionRepo "sales-backend/internal/domains/promotion/repository"
	promotionService "sales-backend/internal/domains/promotion/service"
	saleHandler "sales-backend/internal/domains/sale/handler"
	saleRepo "sales-backend/internal/domains/sale/repository"
	saleService "sales-backend/internal/domains/sale/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa TẤT CẢ dependencies của application.
// Root của dependency graph, mọi thành phần là singleton.
type Container struct {
	// ----- INFRASTRUCTURE -----
	Config *config.Config
	DB     *database.PostgresDB
	Redis  *infraCache.RedisClient

	// ----- REPOSITORIES -----
	PromotionRepo promotionRepo.PromotionRepository
	SaleRepo      saleRepo.SaleRepository

	// ----- SERVICES -----
	PromotionService promotionService.ServiceInterface
	SaleService      saleService.ServiceInterface

	// ----- HANDLERS -----
	PromotionHandler *promotionHandler.PromotionHandler
	SaleHandler      *saleHandler.SaleHandler
}

// NewContainer tạo và initialize toàn bộ dependency graph.
//
// Thứ tự initialization:
// 1. Config (không phụ thuộc gì)
// 2. Infrastructure (DB, Redis) - phụ thuộc Config
// 3. Repositories - phụ thuộc Infrastructure
// 4. Services - phụ thuộc Repositories
// 5. Handlers - phụ thuộc Services
func NewContainer() (*Container, error) {
	c := &Container{}

	// ----- STEP 1: CONFIG -----
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Info("Config loaded", map[string]interface{}{
		"environment": cfg.App.Environment,
	})

	// ----- STEP 2: DATABASE -----
	db := database.NewPostgresDB(&cfg.Database)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	logger.Info("Database connected", nil)

	// ----- STEP 3: REDIS -----
	// Redis failure không critical: cached repository fall through xuống
	// Postgres khi cache unavailable.
	redis := infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redis.Connect(ctx); err != nil {
		logger.Warn("Redis connection failed, catalog cache disabled", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		logger.Info("Redis connected", nil)
	}
	c.Redis = redis

	// ----- STEP 4: REPOSITORIES -----
	c.PromotionRepo = promotionRepo.NewCachedRepository(
		promotionRepo.NewPostgresRepository(db.Pool),
		redis,
		cfg.Redis.CatalogTTL,
	)
	c.SaleRepo = saleRepo.NewPostgresRepository(db.Pool)

	// ----- STEP 5: SERVICES -----
	c.PromotionService = promotionService.NewPromotionService(c.PromotionRepo)

	ledger := promotionService.NewApplicationLedger(promotionService.NewDiscountCalculator())
	c.SaleService = saleService.NewCheckoutService(c.SaleRepo, c.PromotionRepo, c.PromotionService, ledger)

	// ----- STEP 6: HANDLERS -----
	c.PromotionHandler = promotionHandler.NewPromotionHandler(c.PromotionService)
	c.SaleHandler = saleHandler.NewSaleHandler(c.SaleService)

	return c, nil
}

// Close giải phóng infrastructure connections
func (c *Container) Close() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
