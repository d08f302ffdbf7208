package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. GNEST_SERVER_ADDR.
const EnvPrefix = "GNEST"

type Config struct {
	SecretKey string `mapstructure:"secretKey" validate:"required,min=16"`

	Server struct {
		Addr string `mapstructure:"addr"`
		Port int    `mapstructure:"port" validate:"gte=0,lte=65535"`
		Mode string `mapstructure:"mode" validate:"omitempty,oneof=debug release test"`
	} `mapstructure:"server"`

	Log struct {
		Env string `mapstructure:"env" validate:"omitempty,oneof=dev test prod"`
		Dir string `mapstructure:"dir"`
	} `mapstructure:"log"`

	// 数据库
	PgSQL struct {
		Enabled  bool   `mapstructure:"enabled"`
		Host     string `mapstructure:"host" validate:"required_if=Enabled true"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		DBName   string `mapstructure:"dbname" validate:"required_if=Enabled true"`
		SSLMode  string `mapstructure:"sslmode"`
		MaxIdle  int    `mapstructure:"maxIdle"`
		MaxOpen  int    `mapstructure:"maxOpen"`
		LogLevel string `mapstructure:"logLevel" validate:"omitempty,oneof=silent error warn info"`
	} `mapstructure:"pgsql"`

	// Redis
	Redis struct {
		Enabled  bool   `mapstructure:"enabled"`
		Addr     string `mapstructure:"addr" validate:"required_if=Enabled true"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	// Kafka
	Kafka struct {
		Enabled    bool     `mapstructure:"enabled"`
		Brokers    []string `mapstructure:"brokers" validate:"required_if=Enabled true"`
		AuditTopic string   `mapstructure:"auditTopic"`
	} `mapstructure:"kafka"`

	// 初始管理员, 为空则不创建
	Admin struct {
		UserName string `mapstructure:"userName" validate:"omitempty,alphanum,min=3,max=32"`
		Password string `mapstructure:"password" validate:"required_with=UserName,max=72"`
	} `mapstructure:"admin"`

	// 调度表: 命名空间与中间件别名
	Dispatch struct {
		Namespaces map[string]string `mapstructure:"namespaces"`
		// a list so the configured order survives decoding
		Middlewares []MiddlewareAlias `mapstructure:"middlewares" validate:"dive"`
	} `mapstructure:"dispatch"`
}

type MiddlewareAlias struct {
	Name  string `mapstructure:"name" validate:"required"`
	Class string `mapstructure:"class" validate:"required"`
}

// LoadConfig reads the YAML file at path. An empty path falls back to
// internal/config/config.yaml under the working directory.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		currentDir, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get current directory")
		}
		path = filepath.Join(currentDir, "internal", "config", "config.yaml")
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "0.0.0.0")
	v.SetDefault("server.port", 8089)
	v.SetDefault("server.mode", "release")
	v.SetDefault("log.env", "dev")
	v.SetDefault("log.dir", "logs")
	v.SetDefault("pgsql.port", 5432)
	v.SetDefault("pgsql.sslmode", "disable")
	v.SetDefault("pgsql.maxIdle", 10)
	v.SetDefault("pgsql.maxOpen", 100)
	v.SetDefault("pgsql.logLevel", "warn")
	v.SetDefault("kafka.auditTopic", "gnest.audit")
}
