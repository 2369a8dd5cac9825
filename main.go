package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/yutosuda/EC-sub001/pkg/app"
	cartstorage "github.com/yutosuda/EC-sub001/pkg/cart/infrastructure/storage"
	"github.com/yutosuda/EC-sub001/pkg/event"
	amqpinfra "github.com/yutosuda/EC-sub001/pkg/infrastructure/amqp"
	"github.com/yutosuda/EC-sub001/pkg/infrastructure/mysql"
	orderservice "github.com/yutosuda/EC-sub001/pkg/order/domain/service"
	ordermysql "github.com/yutosuda/EC-sub001/pkg/order/infrastructure/mysql"
	productservice "github.com/yutosuda/EC-sub001/pkg/product/domain/service"
	productmysql "github.com/yutosuda/EC-sub001/pkg/product/infrastructure/mysql"
	"github.com/yutosuda/EC-sub001/pkg/transport"
	userservice "github.com/yutosuda/EC-sub001/pkg/user/domain/service"
	usermysql "github.com/yutosuda/EC-sub001/pkg/user/infrastructure/mysql"
	"github.com/yutosuda/EC-sub001/pkg/user/infrastructure/password"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})
	_ = godotenv.Load()

	application := &cli.App{
		Name:  "storefront",
		Usage: "e-commerce storefront API",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "start the HTTP API server",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "apply pending database migrations",
				Action: migrateUp,
			},
		},
	}

	if err := application.Run(os.Args); err != nil {
		log.WithError(err).Fatal("storefront terminated")
	}
}

func serve(_ *cli.Context) error {
	cfg, err := app.ParseConfig()
	if err != nil {
		return err
	}

	db, err := mysql.Connect(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()

	var dispatcher event.Dispatcher = event.LogDispatcher{}
	if cfg.AMQPURL != "" {
		conn, err := amqp.Dial(cfg.AMQPURL)
		if err != nil {
			return err
		}
		defer conn.Close()

		amqpDispatcher, err := amqpinfra.NewDispatcher(conn, cfg.AMQPExchange)
		if err != nil {
			return err
		}
		defer amqpDispatcher.Close()
		dispatcher = amqpDispatcher
	}

	router := transport.NewRouter(transport.Dependencies{
		CartStorage: cartstorage.NewRedisCartStorage(redisClient, cfg.CartTTL),
		Products:    productservice.NewProductService(productmysql.NewProductRepository(db), dispatcher),
		Orders:      orderservice.NewOrderService(ordermysql.NewOrderRepository(db), dispatcher),
		Users:       userservice.NewUserService(usermysql.NewUserRepository(db), password.NewBcryptManager(bcrypt.DefaultCost), dispatcher),
		Dispatcher:  dispatcher,
	})

	log.WithField("url", cfg.ServeRESTAddress).Info("starting server")

	srv := &http.Server{Addr: cfg.ServeRESTAddress, Handler: router}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	waitForKillSignal(getKillSignalChan())
	return srv.Shutdown(context.Background())
}

func migrateUp(_ *cli.Context) error {
	cfg, err := app.ParseConfig()
	if err != nil {
		return err
	}

	if err := mysql.MigrateUp(cfg.DatabaseDSN, cfg.MigrationsPath); err != nil {
		return err
	}
	log.Info("migrations applied")
	return nil
}

func getKillSignalChan() chan os.Signal {
	osKillSignalChan := make(chan os.Signal, 1)
	signal.Notify(osKillSignalChan, os.Interrupt, syscall.SIGTERM)
	return osKillSignalChan
}

func waitForKillSignal(killSignalChan <-chan os.Signal) {
	killSignal := <-killSignalChan
	switch killSignal {
	case os.Interrupt:
		log.Info("got SIGINT...")
	case syscall.SIGTERM:
		log.Info("got SIGTERM...")
	}
}
