package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/xo/dburl"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type Config struct {
	Env        string
	Storage    string
	HTTPServer HTTPServer
	Database   Database
	Session    Session
	Prometheus Prometheus
	Redis      Redis
	Auth       Auth
}

type HTTPServer struct {
	Address         string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type Database struct {
	URL            string
	Username       string
	Password       string
	Host           string
	Port           string
	DbName         string
	MaxConns       int32
	MigrationsPath string
	AutoMigrate    bool
}

// DSN returns a postgres:// connection URL. An explicit URL may use any
// postgres alias known to dburl (pg://, pgsql://, postgresql://).
func (d Database) DSN() (string, error) {
	if d.URL == "" {
		return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=disable",
			d.Username,
			d.Password,
			d.Host,
			d.Port,
			d.DbName), nil
	}
	u, err := dburl.Parse(d.URL)
	if err != nil {
		return "", fmt.Errorf("parse database url: %w", err)
	}
	if u.Driver != "postgres" {
		return "", fmt.Errorf("unsupported database driver %q", u.Driver)
	}
	pg := u.URL
	pg.Scheme = "postgres"
	return pg.String(), nil
}

type Session struct {
	Store       string
	CookieName  string
	Secure      bool
	IdleTimeout time.Duration
	Lifetime    time.Duration
}

type Prometheus struct {
	Address string
	Port    int
}

type Redis struct {
	Address  string
	Port     int
	Password string
	DB       int
	PoolSize int
}

type Auth struct {
	BcryptCost int
	LoginURL   string
}

func MustLoad() *Config {
	cfg, err := Load("./config")
	if err != nil {
		log.Printf("Error reading config file: %s", err)
		os.Exit(1)
	}
	return cfg
}

func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("yatube")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	config := &Config{
		Env:     v.GetString("env"),
		Storage: v.GetString("storage"),
		HTTPServer: HTTPServer{
			Address:         v.GetString("http_server.address"),
			Port:            v.GetInt("http_server.port"),
			ReadTimeout:     v.GetDuration("http_server.read_timeout"),
			WriteTimeout:    v.GetDuration("http_server.write_timeout"),
			IdleTimeout:     v.GetDuration("http_server.idle_timeout"),
			ShutdownTimeout: v.GetDuration("http_server.shutdown_timeout"),
		},
		Database: Database{
			URL:            v.GetString("database.url"),
			Username:       v.GetString("database.username"),
			Password:       v.GetString("database.password"),
			Host:           v.GetString("database.host"),
			Port:           v.GetString("database.port"),
			DbName:         v.GetString("database.db_name"),
			MaxConns:       v.GetInt32("database.max_conns"),
			MigrationsPath: v.GetString("database.migrations_path"),
			AutoMigrate:    v.GetBool("database.auto_migrate"),
		},
		Session: Session{
			Store:       v.GetString("session.store"),
			CookieName:  v.GetString("session.cookie_name"),
			Secure:      v.GetBool("session.secure"),
			IdleTimeout: v.GetDuration("session.idle_timeout"),
			Lifetime:    v.GetDuration("session.lifetime"),
		},
		Prometheus: Prometheus{
			Address: v.GetString("prometheus.address"),
			Port:    v.GetInt("prometheus.port"),
		},
		Redis: Redis{
			Address:  v.GetString("redis.address"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			PoolSize: v.GetInt("redis.pool_size"),
		},
		Auth: Auth{
			BcryptCost: v.GetInt("auth.bcrypt_cost"),
			LoginURL:   v.GetString("auth.login_url"),
		},
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("storage", StoragePostgres)

	v.SetDefault("http_server.address", "0.0.0.0")
	v.SetDefault("http_server.port", 8000)
	v.SetDefault("http_server.read_timeout", 10*time.Second)
	v.SetDefault("http_server.write_timeout", 10*time.Second)
	v.SetDefault("http_server.idle_timeout", 60*time.Second)
	v.SetDefault("http_server.shutdown_timeout", 30*time.Second)

	v.SetDefault("database.url", "")
	v.SetDefault("database.username", "postgres")
	v.SetDefault("database.password", "admin")
	v.SetDefault("database.host", "yatube-db")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.db_name", "yatube")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.migrations_path", "migrations")
	v.SetDefault("database.auto_migrate", false)

	v.SetDefault("session.store", SessionStoreRedis)
	v.SetDefault("session.cookie_name", "sessionid")
	v.SetDefault("session.secure", false)
	v.SetDefault("session.idle_timeout", 12*time.Hour)
	v.SetDefault("session.lifetime", 14*24*time.Hour)

	v.SetDefault("prometheus.address", "0.0.0.0")
	v.SetDefault("prometheus.port", 9103)

	v.SetDefault("redis.address", "redis")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.login_url", "/auth/login/")
}
