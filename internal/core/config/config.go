package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name          string
	Env           string // "development" or "production"
	HTTP          HTTP
	Admin         AdminHTTP
	ClientOrigins []string `mapstructure:"client_origins"`
}

func (a App) Production() bool { return a.Env == "production" }

type Log struct {
	Level string
	JSON  bool

	File           string `mapstructure:"file"` // when set, also log to a rotated file
	FileMaxSizeMB  int    `mapstructure:"file_max_size_mb"`
	FileMaxBackups int    `mapstructure:"file_max_backups"`
	FileMaxAgeDays int    `mapstructure:"file_max_age_days"`
	FileCompress   bool   `mapstructure:"file_compress"`
}

type JWT struct {
	Issuer            string
	AccessSecret      string `mapstructure:"access_secret"`
	AccessTTLMin      int    `mapstructure:"access_ttl_min"`
	RefreshSecret     string `mapstructure:"refresh_secret"`
	RefreshTTLDays    int    `mapstructure:"refresh_ttl_days"`
	RefreshCookieDays int    `mapstructure:"refresh_cookie_days"`
}

type Auth struct {
	// AutoVerifyEmail skips the verification step at registration and marks
	// new accounts verified immediately. Matches the observed deployment;
	// turn off to require the verification flow.
	AutoVerifyEmail bool `mapstructure:"auto_verify_email"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Ecwid struct {
	StoreID string `mapstructure:"store_id"`
	Token   string `mapstructure:"token"`
}

type Droppex struct {
	URL  string `mapstructure:"url"`
	Code string `mapstructure:"code"`
	Key  string `mapstructure:"key"`
}

type Site struct {
	BaseURL    string `mapstructure:"base_url"`
	UploadsDir string `mapstructure:"uploads_dir"`
}

type Config struct {
	App     App
	Log     Log
	JWT     JWT     `mapstructure:"jwt"`
	Auth    Auth    `mapstructure:"auth"`
	DB      DB      `mapstructure:"db"`
	Redis   Redis   `mapstructure:"redis"`
	Ecwid   Ecwid   `mapstructure:"ecwid"`
	Droppex Droppex `mapstructure:"droppex"`
	Site    Site    `mapstructure:"site"`
}

func Load(path string) *Config {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.env", "development")
	v.SetDefault("log.file_max_size_mb", 100)
	v.SetDefault("log.file_max_backups", 7)
	v.SetDefault("log.file_max_age_days", 30)
	v.SetDefault("jwt.access_ttl_min", 15)
	v.SetDefault("jwt.refresh_ttl_days", 30)
	v.SetDefault("jwt.refresh_cookie_days", 30)
	v.SetDefault("auth.auto_verify_email", true)
	v.SetDefault("site.uploads_dir", "uploads")

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("read config: %v", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	return &c
}
