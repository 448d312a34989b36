package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Booking  BookingConfig  `yaml:"booking"`
	Worker   WorkerConfig   `yaml:"worker"`
	Fare     FareConfig     `yaml:"fare"`
}

type HTTPConfig struct {
	Address    string `yaml:"address"`
	SwaggerDir string `yaml:"swagger_dir"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers      []string `yaml:"brokers"`
	BookingTopic string   `yaml:"booking_topic"`
	GroupID      string   `yaml:"group_id"`
}

type BookingConfig struct {
	AllowCancelPaid *bool `yaml:"allow_cancel_paid"`
	FlightsCacheTTL int   `yaml:"flights_cache_ttl_seconds"`
}

// CancelPaidAllowed defaults to true when the key is absent.
func (b BookingConfig) CancelPaidAllowed() bool {
	if b.AllowCancelPaid == nil {
		return true
	}
	return *b.AllowCancelPaid
}

type WorkerConfig struct {
	AuditSweepMinutes int `yaml:"audit_sweep_minutes"`
}

// FareConfig tunes the surcharge tiers; zero values fall back to the
// defaults in the fare package.
type FareConfig struct {
	HighOccupancy       float64 `yaml:"high_occupancy"`
	FullOccupancy       float64 `yaml:"full_occupancy"`
	HighOccupancyFactor float64 `yaml:"high_occupancy_factor"`
	FullOccupancyFactor float64 `yaml:"full_occupancy_factor"`
	SoonDays            int     `yaml:"soon_days"`
	ImminentDays        int     `yaml:"imminent_days"`
	LastDay             int     `yaml:"last_day"`
	SoonFactor          float64 `yaml:"soon_factor"`
	ImminentFactor      float64 `yaml:"imminent_factor"`
	LastDayFactor       float64 `yaml:"last_day_factor"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
