package app

import (
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const appID = "storefront"

type Config struct {
	ServeRESTAddress string `envconfig:"serve_rest_address" default:":8080"`

	DatabaseDSN    string `envconfig:"database_dsn" default:"storefront:storefront@tcp(127.0.0.1:3306)/storefront?parseTime=true"`
	MigrationsPath string `envconfig:"migrations_path" default:"data/mysql/migrations"`

	RedisAddress  string        `envconfig:"redis_address" default:"127.0.0.1:6379"`
	RedisPassword string        `envconfig:"redis_password"`
	CartTTL       time.Duration `envconfig:"cart_ttl" default:"720h"`

	AMQPURL      string `envconfig:"amqp_url"`
	AMQPExchange string `envconfig:"amqp_exchange" default:"storefront.events"`
}

func ParseConfig() (*Config, error) {
	c := new(Config)
	if err := envconfig.Process(appID, c); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	return c, nil
}
