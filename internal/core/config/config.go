package config

import (
	"fmt"
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
	// CORSOrigins 为空时允许任意来源
	CORSOrigins []string
}
type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin AdminHTTP
}

type LogFile struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  LogFile
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

type Redis struct {
	Addr       string `mapstructure:"addr"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	TTLSeconds int    `mapstructure:"ttlseconds"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

// Storage 上传文件存储：local 写磁盘，minio 走 S3 兼容对象存储
type Storage struct {
	Driver     string
	LocalPath  string
	PublicURL  string
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Bucket     string
	UseSSL     bool
	PresignMin int
}

// Media 单房源累计上限与单次上传上限分开配置
type Media struct {
	MaxPerProperty int
	MaxPerBatch    int
}

// Bootstrap 启动时的默认数据（幂等）
type Bootstrap struct {
	AdminUsername   string
	AdminEmail      string
	AdminPassword   string
	Specializations []string
}

type Jobs struct {
	// OverdueCron 为空则不启动逾期扫描
	OverdueCron string
}

type Config struct {
	App       App
	Log       Log
	JWT       JWT
	DB        DB
	Redis     Redis `mapstructure:"redis"`
	Storage   Storage
	Media     Media
	Bootstrap Bootstrap
	Jobs      Jobs
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "gp-immo")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readtimeoutsec", 10)
	v.SetDefault("app.http.writetimeoutsec", 30)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 8081)
	v.SetDefault("log.level", "info")
	v.SetDefault("jwt.issuer", "gp-immo")
	v.SetDefault("jwt.accesstokenttlmin", 120)
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "file:gp-immo.db")
	v.SetDefault("db.maxopenconns", 20)
	v.SetDefault("db.maxidleconns", 5)
	v.SetDefault("db.connmaxlifetimemin", 30)
	v.SetDefault("db.automigrate", true)
	v.SetDefault("redis.ttlseconds", 300)
	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.localpath", "./media")
	v.SetDefault("storage.publicurl", "/media")
	v.SetDefault("storage.bucket", "gp-immo")
	v.SetDefault("storage.presignmin", 15)
	v.SetDefault("media.maxperproperty", 10)
	v.SetDefault("media.maxperbatch", 10)
	v.SetDefault("bootstrap.adminusername", "admin0000")
	v.SetDefault("bootstrap.adminemail", "admin@gp-immo.test")
	v.SetDefault("bootstrap.adminpassword", "admin0000")
	v.SetDefault("bootstrap.specializations", []string{"Plomberie", "Menuiserie", "Carrelage"})
	v.SetDefault("jobs.overduecron", "@daily")
}

func Load(path string) *Config {
	c, err := Read(path)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return c
}

// Read 与 Load 相同，但把错误交给调用方（测试用）
func Read(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
