package config

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/IrrisMag/HealthTech-sub000/pkg/logger"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Cache       CacheConfig
	Forecasting ForecastingConfig
	Clinical    ClinicalConfig
	Optimizer   OptimizerConfig
	Archive     ArchiveConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type CacheConfig struct {
	Enabled            bool
	RedisURL           string
	RedisHost          string
	RedisPort          string
	RedisPassword      string
	RedisDB            int
	ForecastTTLSeconds int
}

// ForecastingConfig covers the external demand forecasting collaborator and the
// static per-type baseline used when it is unreachable.
type ForecastingConfig struct {
	ServiceURL          string
	Timeout             time.Duration
	FallbackDemand      map[string]float64
	DefaultHorizon      int
	DefaultConfLevel    float64
	ModelRefreshMinutes int
}

// ClinicalConfig holds the supply prediction parameters. The seasonal factors and
// typical demand table are deployment data, overridable through the environment.
type ClinicalConfig struct {
	DonationIntervalDays int
	SeasonalFactors      map[string]float64
	TypicalDailyDemand   map[string]float64
}

type OptimizerConfig struct {
	Budget              float64
	StorageCapacity     int
	LeadTimeDays        int
	OrderingCost        float64
	HoldingCostRate     float64
	EmergencyMultiplier float64
	ServiceLevelZ       float64
	ShelfLifeReference  float64
	WastageRateCap      float64
	UnitCosts           map[string]float64
	ShelfLifeDays       map[string]int
}

type ArchiveConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 60)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 60)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})

		viper.SetDefault("DB_ENABLED", false)
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "blood_optimization")
		viper.SetDefault("DB_SSLMODE", "disable")

		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_FORECAST_TTL_SECONDS", 300)

		viper.SetDefault("FORECAST_SERVICE_URL", "")
		viper.SetDefault("FORECAST_TIMEOUT_SECONDS", 30)
		viper.SetDefault("FORECAST_DEFAULT_HORIZON_DAYS", 7)
		viper.SetDefault("FORECAST_DEFAULT_CONFIDENCE", 0.95)
		viper.SetDefault("FORECAST_FALLBACK_DEMAND", `{"O+":40,"O-":15,"A+":30,"A-":10,"B+":20,"B-":8,"AB+":12,"AB-":5}`)
		viper.SetDefault("FORECAST_MODEL_REFRESH_MINUTES", 60)

		viper.SetDefault("CLINICAL_DONATION_INTERVAL_DAYS", 56)
		viper.SetDefault("CLINICAL_SEASONAL_FACTORS", `{"winter":0.85,"spring":1.10,"summer":0.90,"fall":1.05}`)
		viper.SetDefault("CLINICAL_TYPICAL_DEMAND", `{"O+":40,"O-":15,"A+":30,"A-":10,"B+":20,"B-":8,"AB+":12,"AB-":5}`)

		viper.SetDefault("OPTIMIZER_BUDGET", 50000.0)
		viper.SetDefault("OPTIMIZER_STORAGE_CAPACITY", 2000)
		viper.SetDefault("OPTIMIZER_LEAD_TIME_DAYS", 3)
		viper.SetDefault("OPTIMIZER_ORDERING_COST", 50.0)
		viper.SetDefault("OPTIMIZER_HOLDING_COST_RATE", 0.2)
		viper.SetDefault("OPTIMIZER_EMERGENCY_MULTIPLIER", 1.5)
		viper.SetDefault("OPTIMIZER_SERVICE_LEVEL_Z", 1.645)
		viper.SetDefault("OPTIMIZER_SHELF_LIFE_REFERENCE", 35.0)
		viper.SetDefault("OPTIMIZER_WASTAGE_RATE_CAP", 0.15)
		viper.SetDefault("OPTIMIZER_UNIT_COSTS", `{"O+":150,"O-":180,"A+":150,"A-":170,"B+":155,"B-":175,"AB+":160,"AB-":190}`)
		viper.SetDefault("OPTIMIZER_SHELF_LIFE_DAYS", `{"O+":42,"O-":42,"A+":42,"A-":42,"B+":42,"B-":42,"AB+":42,"AB-":42}`)

		viper.SetDefault("ARCHIVE_ENABLED", false)
		viper.SetDefault("ARCHIVE_ENDPOINT", "")
		viper.SetDefault("ARCHIVE_ACCESS_KEY", "")
		viper.SetDefault("ARCHIVE_SECRET_KEY", "")
		viper.SetDefault("ARCHIVE_BUCKET", "optimization-reports")
		viper.SetDefault("ARCHIVE_USE_SSL", true)

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Database: DatabaseConfig{
				Enabled:  viper.GetBool("DB_ENABLED"),
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Cache: CacheConfig{
				Enabled:            viper.GetBool("CACHE_ENABLED"),
				RedisURL:           viper.GetString("REDIS_URL"),
				RedisHost:          viper.GetString("REDIS_HOST"),
				RedisPort:          viper.GetString("REDIS_PORT"),
				RedisPassword:      viper.GetString("REDIS_PASSWORD"),
				RedisDB:            viper.GetInt("REDIS_DB"),
				ForecastTTLSeconds: viper.GetInt("CACHE_FORECAST_TTL_SECONDS"),
			},
			Forecasting: ForecastingConfig{
				ServiceURL:          viper.GetString("FORECAST_SERVICE_URL"),
				Timeout:             time.Duration(viper.GetInt("FORECAST_TIMEOUT_SECONDS")) * time.Second,
				FallbackDemand:      floatTable("FORECAST_FALLBACK_DEMAND"),
				DefaultHorizon:      viper.GetInt("FORECAST_DEFAULT_HORIZON_DAYS"),
				DefaultConfLevel:    viper.GetFloat64("FORECAST_DEFAULT_CONFIDENCE"),
				ModelRefreshMinutes: viper.GetInt("FORECAST_MODEL_REFRESH_MINUTES"),
			},
			Clinical: ClinicalConfig{
				DonationIntervalDays: viper.GetInt("CLINICAL_DONATION_INTERVAL_DAYS"),
				SeasonalFactors:      floatTable("CLINICAL_SEASONAL_FACTORS"),
				TypicalDailyDemand:   floatTable("CLINICAL_TYPICAL_DEMAND"),
			},
			Optimizer: OptimizerConfig{
				Budget:              viper.GetFloat64("OPTIMIZER_BUDGET"),
				StorageCapacity:     viper.GetInt("OPTIMIZER_STORAGE_CAPACITY"),
				LeadTimeDays:        viper.GetInt("OPTIMIZER_LEAD_TIME_DAYS"),
				OrderingCost:        viper.GetFloat64("OPTIMIZER_ORDERING_COST"),
				HoldingCostRate:     viper.GetFloat64("OPTIMIZER_HOLDING_COST_RATE"),
				EmergencyMultiplier: viper.GetFloat64("OPTIMIZER_EMERGENCY_MULTIPLIER"),
				ServiceLevelZ:       viper.GetFloat64("OPTIMIZER_SERVICE_LEVEL_Z"),
				ShelfLifeReference:  viper.GetFloat64("OPTIMIZER_SHELF_LIFE_REFERENCE"),
				WastageRateCap:      viper.GetFloat64("OPTIMIZER_WASTAGE_RATE_CAP"),
				UnitCosts:           floatTable("OPTIMIZER_UNIT_COSTS"),
				ShelfLifeDays:       intTable("OPTIMIZER_SHELF_LIFE_DAYS"),
			},
			Archive: ArchiveConfig{
				Enabled:   viper.GetBool("ARCHIVE_ENABLED"),
				Endpoint:  viper.GetString("ARCHIVE_ENDPOINT"),
				AccessKey: viper.GetString("ARCHIVE_ACCESS_KEY"),
				SecretKey: viper.GetString("ARCHIVE_SECRET_KEY"),
				Bucket:    viper.GetString("ARCHIVE_BUCKET"),
				UseSSL:    viper.GetBool("ARCHIVE_USE_SSL"),
			},
		}
	})

	return instance
}

// floatTable parses a JSON object of string -> float from the environment.
func floatTable(key string) map[string]float64 {
	raw := viper.GetString(key)
	table := make(map[string]float64)
	if raw == "" {
		return table
	}
	if err := json.Unmarshal([]byte(raw), &table); err != nil {
		logger.Log.Warn().Str("key", key).Err(err).Msg("invalid table override, using empty table")
		return make(map[string]float64)
	}
	return table
}

func intTable(key string) map[string]int {
	raw := viper.GetString(key)
	table := make(map[string]int)
	if raw == "" {
		return table
	}
	if err := json.Unmarshal([]byte(raw), &table); err != nil {
		logger.Log.Warn().Str("key", key).Err(err).Msg("invalid table override, using empty table")
		return make(map[string]int)
	}
	return table
}
