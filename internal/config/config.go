package config

import (
	"bytes"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppCfg struct {
	Name string
	Env  string
	Host string
	Port int
	// PublicOrigin is the SPA origin used to build share links, e.g. https://app.meurdo.com.br
	PublicOrigin string
	// MaxBodyBytes caps JSON bodies on the signature and share-token routes
	MaxBodyBytes int64
}

type LogCfg struct {
	Level string
}

type DBCfg struct {
	DSN         string
	MaxOpen     int
	MaxIdle     int
	AutoMigrate bool
}

type RedisCfg struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
	// Channel carries RDO change notifications between API instances.
	Channel string
}

type MQCfg struct {
	URL   string
	Queue string
}

type BucketsCfg struct {
	Attachments string
	Signatures  string
}

type S3Cfg struct {
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	UsePathStyle  bool
	PublicBaseURL string
	Buckets       BucketsCfg
}

type AuthCfg struct {
	JWTSecret string
	JWTIssuer string
}

type SessionCfg struct {
	ProCacheTTLSec int
}

type FunctionsCfg struct {
	BaseURL    string
	APIKey     string
	TimeoutSec int
}

type CORSCfg struct {
	AllowOrigins []string
}

type Config struct {
	App       AppCfg
	Log       LogCfg
	Database  DBCfg
	Redis     RedisCfg
	RabbitMQ  MQCfg
	S3        S3Cfg
	Auth      AuthCfg
	Session   SessionCfg
	Functions FunctionsCfg
	CORS      CORSCfg
}

// ProCacheTTL is the staleness window of the cached subscriber flag.
func (c *Config) ProCacheTTL() time.Duration {
	if c.Session.ProCacheTTLSec <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.Session.ProCacheTTLSec) * time.Second
}

func (c *Config) FunctionsTimeout() time.Duration {
	if c.Functions.TimeoutSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Functions.TimeoutSec) * time.Second
}

func Load() (*Config, error) {
	base := viper.New()
	base.SetConfigName("config")
	base.SetConfigType("yaml")
	base.AddConfigPath("./configs")
	base.AddConfigPath(".")
	base.AutomaticEnv()
	base.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	base.SetEnvPrefix("APP") // e.g. APP_APP_PORT -> app.port

	// Defaults apply whether or not a config file exists
	setDefaults(base)

	if err := base.ReadInConfig(); err == nil {
		// Expand ${ENV} references in the raw file before parsing it
		path := base.ConfigFileUsed()
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		expanded := os.ExpandEnv(string(raw))

		v := viper.New()
		v.SetConfigType("yaml")
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, err
		}
		v.AutomaticEnv()
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.SetEnvPrefix("APP")
		setDefaults(v)

		cfg := new(Config)
		if err := v.Unmarshal(&cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	// Running without a file is allowed: env + defaults only
	cfg := new(Config)
	if err := base.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "meurdo-api")
	v.SetDefault("app.env", "debug")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.publicOrigin", "http://localhost:5173")
	v.SetDefault("app.maxBodyBytes", 1<<20)
	v.SetDefault("log.level", "info")
	v.SetDefault("database.maxOpen", 20)
	v.SetDefault("database.maxIdle", 5)
	v.SetDefault("redis.poolSize", 10)
	v.SetDefault("redis.channel", "rdo:changed")
	v.SetDefault("rabbitmq.queue", "rdo_status")
	v.SetDefault("s3.region", "auto")
	v.SetDefault("s3.usePathStyle", true)
	v.SetDefault("s3.buckets.attachments", "attachments")
	v.SetDefault("s3.buckets.signatures", "signatures")
	v.SetDefault("auth.jwtIssuer", "")
	v.SetDefault("session.proCacheTTLSec", 300)
	v.SetDefault("functions.timeoutSec", 30)
	v.SetDefault("cors.allowOrigins", []string{"http://localhost:5173"})
}
