package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	DataSourceMock     = "mock"
	DataSourcePostgres = "postgres"
	DataSourceRemote   = "remote"

	LayoutStorageFile  = "file"
	LayoutStorageRedis = "redis"
)

type Config struct {
	App                 App                 `mapstructure:",squash"`
	Server              Server              `mapstructure:",squash"`
	Database            Database            `mapstructure:",squash"`
	RemoteStore         RemoteStore         `mapstructure:",squash"`
	Auth                Auth                `mapstructure:",squash"`
	Layout              Layout              `mapstructure:",squash"`
	Redis               Redis               `mapstructure:",squash"`
	MockData            MockData            `mapstructure:",squash"`
	MetricsSnapshotSync MetricsSnapshotSync `mapstructure:",squash"`
	RateLimit           RateLimit           `mapstructure:",squash"`
	SecretKey           string              `mapstructure:"secret_key"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type RemoteStore struct {
	URL     string        `mapstructure:"remote_store_url"`
	APIKey  string        `mapstructure:"remote_store_api_key"`
	Timeout time.Duration `mapstructure:"remote_store_timeout"`
}

type App struct {
	LogLevel   string `mapstructure:"log_level"`
	DataSource string `mapstructure:"data_source"`
}

type Auth struct {
	Enabled      bool   `mapstructure:"auth_enabled"`
	DemoPassword string `mapstructure:"demo_user_password"`
}

type Layout struct {
	StorageDriver  string        `mapstructure:"layout_storage_driver"`
	StorageDir     string        `mapstructure:"layout_storage_dir"`
	SaveDebounce   time.Duration `mapstructure:"layout_save_debounce"`
	DefaultTitle   string        `mapstructure:"layout_default_title"`
	MaxImportBytes int64         `mapstructure:"layout_max_import_bytes"`
}

type Redis struct {
	Addr      string `mapstructure:"redis_addr"`
	Password  string `mapstructure:"redis_password"`
	DB        int    `mapstructure:"redis_db"`
	KeyPrefix string `mapstructure:"redis_key_prefix"`
}

type MockData struct {
	MinRecords int   `mapstructure:"mock_data_min_records"`
	MaxRecords int   `mapstructure:"mock_data_max_records"`
	WindowDays int   `mapstructure:"mock_data_window_days"`
	Seed       int64 `mapstructure:"mock_data_seed"`
}

type MetricsSnapshotSync struct {
	CronSchedule string `mapstructure:"metrics_snapshot_sync_cron"`
	Enabled      bool   `mapstructure:"metrics_snapshot_sync_enabled"`
}

type RateLimit struct {
	RequestsPerSecond float64 `mapstructure:"rate_limit_rps"`
	Burst             int     `mapstructure:"rate_limit_burst"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")

	viper.SetDefault("DATA_SOURCE", DataSourceMock) // sem banco configurado usa dados simulados

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/dashboard?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("REMOTE_STORE_URL", "")
	viper.SetDefault("REMOTE_STORE_API_KEY", "")
	viper.SetDefault("REMOTE_STORE_TIMEOUT", "15s")

	viper.SetDefault("AUTH_ENABLED", false)
	viper.SetDefault("DEMO_USER_PASSWORD", "demo123")
	viper.SetDefault("SECRET_KEY", "your_secret_key")

	viper.SetDefault("LAYOUT_STORAGE_DRIVER", LayoutStorageFile)
	viper.SetDefault("LAYOUT_STORAGE_DIR", "./data/layouts")
	viper.SetDefault("LAYOUT_SAVE_DEBOUNCE", "1s")
	viper.SetDefault("LAYOUT_DEFAULT_TITLE", "Sales Dashboard")
	viper.SetDefault("LAYOUT_MAX_IMPORT_BYTES", 1<<20) // 1MB

	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_KEY_PREFIX", "dashboard:layout:")

	viper.SetDefault("MOCK_DATA_MIN_RECORDS", 50)
	viper.SetDefault("MOCK_DATA_MAX_RECORDS", 100)
	viper.SetDefault("MOCK_DATA_WINDOW_DAYS", 180)
	viper.SetDefault("MOCK_DATA_SEED", 0) // 0 = semente aleatória

	viper.SetDefault("METRICS_SNAPSHOT_SYNC_CRON", "0 2 * * *") // Todos os dias às 2h da manhã
	viper.SetDefault("METRICS_SNAPSHOT_SYNC_ENABLED", false)

	viper.SetDefault("RATE_LIMIT_RPS", 10)
	viper.SetDefault("RATE_LIMIT_BURST", 20)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejeita combinações que impediriam a aplicação de subir
func (c *Config) Validate() error {
	switch c.App.DataSource {
	case DataSourceMock, DataSourcePostgres:
	case DataSourceRemote:
		if c.RemoteStore.URL == "" {
			return fmt.Errorf("config: REMOTE_STORE_URL é obrigatório quando DATA_SOURCE=%s", DataSourceRemote)
		}
	default:
		return fmt.Errorf("config: DATA_SOURCE inválido: %s", c.App.DataSource)
	}

	switch c.Layout.StorageDriver {
	case LayoutStorageFile, LayoutStorageRedis:
	default:
		return fmt.Errorf("config: LAYOUT_STORAGE_DRIVER inválido: %s", c.Layout.StorageDriver)
	}

	if c.MockData.MinRecords <= 0 || c.MockData.MaxRecords < c.MockData.MinRecords {
		return fmt.Errorf("config: intervalo de registros simulados inválido: %d-%d", c.MockData.MinRecords, c.MockData.MaxRecords)
	}

	if c.Auth.Enabled && (c.SecretKey == "" || c.SecretKey == "your_secret_key") {
		logrus.Warn("AUTH_ENABLED com SECRET_KEY padrão, defina uma chave própria em produção")
	}

	return nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
