package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	authapp "github.com/wyfcoding/catalogmarket/internal/auth/application"
	authdomain "github.com/wyfcoding/catalogmarket/internal/auth/domain"
	authmsg "github.com/wyfcoding/catalogmarket/internal/auth/infrastructure/messaging"
	authmysql "github.com/wyfcoding/catalogmarket/internal/auth/infrastructure/persistence/mysql"
	authhttp "github.com/wyfcoding/catalogmarket/internal/auth/interfaces/http"
	cartapp "github.com/wyfcoding/catalogmarket/internal/cart/application"
	cartdomain "github.com/wyfcoding/catalogmarket/internal/cart/domain"
	cartmysql "github.com/wyfcoding/catalogmarket/internal/cart/infrastructure/persistence/mysql"
	carthttp "github.com/wyfcoding/catalogmarket/internal/cart/interfaces/http"
	catalogapp "github.com/wyfcoding/catalogmarket/internal/catalog/application"
	catalogdomain "github.com/wyfcoding/catalogmarket/internal/catalog/domain"
	catalogmysql "github.com/wyfcoding/catalogmarket/internal/catalog/infrastructure/persistence/mysql"
	cataloghttp "github.com/wyfcoding/catalogmarket/internal/catalog/interfaces/http"
	orderapp "github.com/wyfcoding/catalogmarket/internal/order/application"
	orderdomain "github.com/wyfcoding/catalogmarket/internal/order/domain"
	ordermsg "github.com/wyfcoding/catalogmarket/internal/order/infrastructure/messaging"
	ordermysql "github.com/wyfcoding/catalogmarket/internal/order/infrastructure/persistence/mysql"
	orderhttp "github.com/wyfcoding/catalogmarket/internal/order/interfaces/http"
	"github.com/wyfcoding/catalogmarket/pkg/config"
	"github.com/wyfcoding/catalogmarket/pkg/db"
	"github.com/wyfcoding/catalogmarket/pkg/logger"
	"github.com/wyfcoding/catalogmarket/pkg/metrics"
	"github.com/wyfcoding/catalogmarket/pkg/middleware"
	"github.com/wyfcoding/catalogmarket/pkg/mq"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "configs/config.toml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	logger.Info(ctx, "Starting service", "service", cfg.ServiceName, "environment", cfg.Environment)

	collector := metrics.New("server")
	if cfg.Metrics.Enabled {
		if err := collector.Register(); err != nil {
			logger.Fatal(ctx, "Failed to register metrics", "error", err)
		}
		metrics.StartHTTPServer(cfg.Metrics.Port, cfg.Metrics.Path)
	}

	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	}, collector.DBQueriesTotal)
	if err != nil {
		logger.Fatal(ctx, "Failed to init database", "error", err)
	}
	defer database.Close()

	// 非生产环境自动建表
	if cfg.Environment != "prod" {
		if err := database.AutoMigrate(
			&catalogdomain.Article{},
			&catalogdomain.Characteristic{},
			&catalogdomain.ArticleCharacteristic{},
			&catalogdomain.ArticleImage{},
			&cartdomain.Cart{},
			&cartdomain.CartLine{},
			&ordermysql.OrderModel{},
			&ordermysql.OrderLineModel{},
			&authmysql.UserModel{},
		); err != nil {
			logger.Fatal(ctx, "Failed to migrate database", "error", err)
		}
	}

	var producer *mq.KafkaProducer
	var orderPublisher orderdomain.EventPublisher
	var authPublisher authdomain.EventPublisher
	if cfg.Kafka.Enabled {
		producer = mq.NewProducer(mq.KafkaConfig{
			Brokers:      cfg.Kafka.Brokers,
			MaxRetries:   cfg.Kafka.MaxRetries,
			RetryBackoff: cfg.Kafka.RetryBackoff,
		})
		defer producer.Close()
		orderPublisher = ordermsg.NewKafkaPublisher(producer)
		authPublisher = authmsg.NewKafkaPublisher(producer)
	}

	// 仓储
	articleRepo := catalogmysql.NewArticleRepository(database.DB)
	characteristicRepo := catalogmysql.NewCharacteristicRepository(database.DB)
	imageRepo := catalogmysql.NewImageRepository(database.DB)
	cartRepo := cartmysql.NewCartRepository(database.DB)
	orderRepo := ordermysql.NewOrderRepository(database.DB)
	userRepo := authmysql.NewUserRepository(database.DB)

	// 应用服务
	articleSvc := catalogapp.NewArticleService(articleRepo, characteristicRepo, imageRepo)
	characteristicSvc := catalogapp.NewCharacteristicService(characteristicRepo)
	imageSvc := catalogapp.NewImageService(imageRepo)
	cartSvc := cartapp.NewCartService(cartRepo, collector)
	orderSvc := orderapp.NewOrderService(orderRepo, cartRepo, articleRepo, orderPublisher, collector)
	tokenTTL := time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute
	authSvc := authapp.NewAuthService(userRepo, cfg.Auth.JWTSecret, tokenTTL, authPublisher, collector)

	// HTTP 处理器
	articleHandler := cataloghttp.NewArticleHandler(articleSvc)
	characteristicHandler := cataloghttp.NewCharacteristicHandler(characteristicSvc)
	imageHandler := cataloghttp.NewImageHandler(imageSvc)
	cartHandler := carthttp.NewCartHandler(cartSvc)
	orderHandler := orderhttp.NewOrderHandler(orderSvc)
	authHandler := authhttp.NewAuthHandler(authSvc)

	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(middleware.Recovery(), middleware.Logging(), middleware.CORS())
	if cfg.Metrics.Enabled {
		engine.Use(collector.GinMiddleware())
	}

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.ServiceName})
	})

	api := engine.Group("/api/v1")
	{
		// 公开路由
		authHandler.RegisterRoutes(api)
		articleHandler.RegisterRoutes(api)
		characteristicHandler.RegisterRoutes(api)
		imageHandler.RegisterRoutes(api)

		// 认证路由
		authed := api.Group("")
		authed.Use(middleware.JWTAuth(cfg.Auth.JWTSecret))
		cartHandler.RegisterRoutes(authed)
		orderHandler.RegisterRoutes(authed)

		// 管理路由仅允许本机访问
		admin := api.Group("/admin")
		admin.Use(middleware.Firewall())
		articleHandler.RegisterAdminRoutes(admin)
		characteristicHandler.RegisterAdminRoutes(admin)
		imageHandler.RegisterAdminRoutes(admin)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info(gCtx, "HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-quit:
			logger.Info(gCtx, "Received shutdown signal", "signal", sig.String())
		case <-gCtx.Done():
			return gCtx.Err()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Fatal(ctx, "Server exited with error", "error", err)
	}
	logger.Info(ctx, "Server stopped gracefully")
}
