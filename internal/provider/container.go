package provider

import (
	"time"

	"github.com/woodnest/woodnest/internal/authz"
	"github.com/woodnest/woodnest/internal/cache"
	"github.com/woodnest/woodnest/internal/config"
	"github.com/woodnest/woodnest/internal/logger"
	"github.com/woodnest/woodnest/internal/models"
	"github.com/woodnest/woodnest/internal/queue"
	"github.com/woodnest/woodnest/internal/repository"
	"github.com/woodnest/woodnest/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	ProductRepo repository.ProductRepository
	CartRepo    repository.CartRepository
	OrderRepo   repository.OrderRepository
	CouponRepo  repository.CouponRepository

	// Services
	AuthzService  *authz.Service
	CouponService *service.CouponService
	CartService   *service.CartService
	OrderService  *service.OrderService

	// 游客购物车闲置回收阈值
	GuestCartTTL time.Duration
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:       cfg,
		QueueClient:  queueClient,
		GuestCartTTL: time.Duration(cfg.Cart.GuestCartTTLDays) * 24 * time.Hour,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.ProductRepo = repository.NewProductRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	totalsPolicy := service.NewTotalsPolicy(
		c.Config.Cart.TaxRate,
		c.Config.Cart.FreeShippingThreshold,
		c.Config.Cart.FlatShippingFee,
	)

	c.CouponService = service.NewCouponService(c.CouponRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo, c.CouponService, totalsPolicy, c.QueueClient, c.GuestCartTTL)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ProductRepo, c.CartRepo, c.CartService)
}
