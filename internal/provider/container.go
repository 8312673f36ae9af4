package provider

import (
	"github.com/storefront-next/internal/cache"
	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/queue"
	"github.com/storefront-next/internal/repository"
	"github.com/storefront-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	UserRepo           repository.UserRepository
	AddressRepo        repository.AddressRepository
	CategoryRepo       repository.CategoryRepository
	ProductRepo        repository.ProductRepository
	ProductVariantRepo repository.ProductVariantRepository
	CartRepo           repository.CartRepository
	SavedCartRepo      repository.SavedCartRepository
	OrderRepo          repository.OrderRepository
	OrderNoteRepo      repository.OrderNoteRepository
	ReviewRepo         repository.ReviewRepository

	// Services
	UserAuthService *service.UserAuthService
	AddressService  *service.AddressService
	CategoryService *service.CategoryService
	ProductService  *service.ProductService
	CartService     *service.CartService
	WishlistService *service.WishlistService
	CheckoutService *service.CheckoutService
	OrderService    *service.OrderService
	ReviewService   *service.ReviewService
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
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.AddressRepo = repository.NewAddressRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.ProductVariantRepo = repository.NewProductVariantRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.SavedCartRepo = repository.NewSavedCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.OrderNoteRepo = repository.NewOrderNoteRepository(db)
	c.ReviewRepo = repository.NewReviewRepository(db)
}

func (c *Container) initServices() {
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.AddressService = service.NewAddressService(c.AddressRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.ProductVariantRepo, c.CategoryRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo, c.ProductVariantRepo)
	c.WishlistService = service.NewWishlistService(c.SavedCartRepo, c.CartService)
	c.CheckoutService = service.NewCheckoutService(c.CartRepo, c.OrderRepo, c.QueueClient, c.Config.Checkout)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.OrderNoteRepo, c.QueueClient)
	c.ReviewService = service.NewReviewService(c.ReviewRepo, c.ProductRepo)
}
