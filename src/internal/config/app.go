package config

import (
	"lpg-marketplace/src/internal/delivery/http"
	"lpg-marketplace/src/internal/delivery/http/middleware"
	"lpg-marketplace/src/internal/delivery/http/route"
	"lpg-marketplace/src/internal/gateway/messaging"
	"lpg-marketplace/src/internal/repository"
	"lpg-marketplace/src/internal/usecase"
	"lpg-marketplace/src/pkg/databases/mysql"
	kafkaPkg "lpg-marketplace/src/pkg/kafka"
	"lpg-marketplace/src/pkg/log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

type BootstrapConfig struct {
	DB          mysql.DBInterface
	App         *fiber.App
	Log         log.Log
	Validate    *validator.Validate
	Config      *viper.Viper
	Producer    kafkaPkg.Producer
	Redis       redis.UniversalClient
	AsynqClient *asynq.Client
	Async       *asynq.ServeMux
}

func Bootstrap(config *BootstrapConfig) {
	// setup repositories
	orderRepository := repository.NewOrderRepository(config.DB)
	merchantRepository := repository.NewMerchantRepository(config.DB)
	riderRepository := repository.NewRiderRepository(config.DB)
	geoRepository := repository.NewGeoRepository(config.Redis)

	var orderProducer usecase.OrderEventPublisher
	if config.Producer != nil {
		orderProducer = messaging.NewOrderProducer(config.Producer, config.Log)
	}

	// setup use cases
	orderUseCase := usecase.NewOrderUseCase(
		config.Log,
		config.Validate,
		config.Config,
		orderRepository,
		merchantRepository,
		riderRepository,
		geoRepository,
		orderProducer,
		config.AsynqClient,
	)

	riderUseCase := usecase.NewRiderUseCase(
		config.Log,
		config.Validate,
		config.Config,
		orderRepository,
		riderRepository,
		geoRepository,
		orderProducer,
	)

	// setup controllers
	orderController := http.NewOrderController(orderUseCase, config.Log)
	riderController := http.NewRiderController(riderUseCase, config.Log)

	// setup middleware
	authMiddleware := middleware.VerifyBearer(config.Config)

	if config.Async != nil {
		config.Async.HandleFunc(usecase.TaskOrderBroadcast, orderUseCase.BroadcastPendingOrder)
	}

	routeConfig := route.RouteConfig{
		App:             config.App,
		OrderController: orderController,
		RiderController: riderController,
		AuthMiddleware:  authMiddleware,
	}
	routeConfig.Setup()
}
