package core

import (
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Storage engines
const (
	EngineMemory   = "memory"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

type (
	Config struct {
		Env          string `validate:"required,oneof=DEV TEST QA PROD"`
		Build        string
		AppName      string `validate:"required"`
		Debug        bool
		TestMode     bool
		WorkDir      string
		RollbarToken string

		Server  ServerConfig
		Storage StorageConfig
		Client  ClientConfig
	}

	ServerConfig struct {
		Host            string
		Port            int    `validate:"min=1,max=65535"`
		DebugHost       string `validate:"required"`
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration `validate:"required"`
		DisableReqLogs  bool
	}

	StorageConfig struct {
		Engine      string `validate:"required,oneof=memory postgres sqlite"`
		CatalogPath string
		SeedOnStart bool
		Database    DatabaseConfig
	}

	DatabaseConfig struct {
		Host          string
		Port          int
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
		Path          string // sqlite only
	}

	ClientConfig struct {
		BaseURL  string        `validate:"required,url"`
		Timeout  time.Duration `validate:"required"`
		RetryMax int           `validate:"min=0,max=5"`
	}
)

// Address returns the address the API server listens on.
func (sc ServerConfig) Address() string {
	return net.JoinHostPort(sc.Host, strconv.Itoa(sc.Port))
}

func (dc DatabaseConfig) Address() string {
	return net.JoinHostPort(dc.Host, strconv.Itoa(dc.Port))
}

// IsSQL reports whether the content is served from a SQL database.
func (sc StorageConfig) IsSQL() bool {
	return sc.Engine == EnginePostgres || sc.Engine == EngineSQLite
}

func setDefaults(v *viper.Viper) {
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Australian Content API")
	v.SetDefault("build", "develop")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 3001)
	v.SetDefault("server.debugHost", "localhost:4001")
	v.SetDefault("server.readTimeout", 5*time.Second)
	v.SetDefault("server.writeTimeout", 10*time.Second)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.disableReqLogs", false)

	v.SetDefault("storage.engine", EngineMemory)
	v.SetDefault("storage.catalogPath", "")
	v.SetDefault("storage.seedOnStart", true)
	v.SetDefault("storage.database.host", "localhost")
	v.SetDefault("storage.database.port", 5432)
	v.SetDefault("storage.database.name", "aucontent")
	v.SetDefault("storage.database.user", "aucontent")
	v.SetDefault("storage.database.password", "")
	v.SetDefault("storage.database.adminUser", "")
	v.SetDefault("storage.database.adminPassword", "")
	v.SetDefault("storage.database.disableTLS", false)
	v.SetDefault("storage.database.path", "aucontent.db")

	v.SetDefault("client.baseURL", "http://localhost:3001")
	v.SetDefault("client.timeout", 10*time.Second)
	v.SetDefault("client.retryMax", 2)
}

// NewConfig loads the configuration of the current environment.
// The environment is read from ENV: DEV (local; default), TEST, QA, PROD.
// Every variable is prefixed with the environment (eg. PROD_STORAGE_ENGINE) except PORT.
func NewConfig() (*Config, error) {
	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}

	v := viper.New()
	setDefaults(v)
	if env == "TEST" {
		v.SetDefault("testMode", true)
		v.SetDefault("server.disableReqLogs", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := v.BindEnv("server.port", "PORT"); err != nil {
		return nil, errors.Wrap(err, "binding PORT")
	}

	// load .env if it exists (ignore if it does not)
	wd := Getwd()
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}
	v.AutomaticEnv()

	conf := &Config{
		Env:          env,
		Build:        v.GetString("build"),
		AppName:      v.GetString("appName"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		WorkDir:      wd,
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Port:            v.GetInt("server.port"),
			DebugHost:       v.GetString("server.debugHost"),
			ReadTimeout:     v.GetDuration("server.readTimeout"),
			WriteTimeout:    v.GetDuration("server.writeTimeout"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:  v.GetBool("server.disableReqLogs"),
		},
		Storage: StorageConfig{
			Engine:      CleanString(v.GetString("storage.engine"), true /* lower */),
			CatalogPath: v.GetString("storage.catalogPath"),
			SeedOnStart: v.GetBool("storage.seedOnStart"),
			Database: DatabaseConfig{
				Host:          v.GetString("storage.database.host"),
				Port:          v.GetInt("storage.database.port"),
				Name:          v.GetString("storage.database.name"),
				User:          v.GetString("storage.database.user"),
				Password:      v.GetString("storage.database.password"),
				AdminUser:     v.GetString("storage.database.adminUser"),
				AdminPassword: v.GetString("storage.database.adminPassword"),
				DisableTLS:    v.GetBool("storage.database.disableTLS"),
				Path:          v.GetString("storage.database.path"),
			},
		},
		Client: ClientConfig{
			BaseURL:  strings.TrimRight(v.GetString("client.baseURL"), "/"),
			Timeout:  v.GetDuration("client.timeout"),
			RetryMax: v.GetInt("client.retryMax"),
		},
	}

	if err := validator.New().Struct(conf); err != nil {
		return nil, errors.Wrap(err, "validating config")
	}
	return conf, nil
}
