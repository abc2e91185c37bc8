package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string `yaml:"socket-port" env:"SOCKET_PORT" env-default:"9091"`
	Redis      Redis  `yaml:"redis"`
	Game       Game   `yaml:"game"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// Game tunes the game space sessions.
type Game struct {
	OpponentDelay   time.Duration `yaml:"opponent-delay" env:"OPPONENT_DELAY" env-default:"1s"`
	OpponentName    string        `yaml:"opponent-name" env:"OPPONENT_NAME" env-default:"Alex Johnson"`
	ChessClock      time.Duration `yaml:"chess-clock" env:"CHESS_CLOCK" env-default:"600s"`
	NotificationTTL time.Duration `yaml:"notification-ttl" env:"NOTIFICATION_TTL" env-default:"3s"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
