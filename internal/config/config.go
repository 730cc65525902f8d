package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/lotus-spa/ReservationService/internal/domain"
)

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server         ServerConfig      `toml:"server"`
	Database       DatabaseConfig    `toml:"database"`
	Logs           LogsConfig        `toml:"logs"`
	Metrics        MetricsConfig     `toml:"metrics"`
	Booking        BookingConfig     `toml:"booking"`
	CatalogService IntegrationConfig `toml:"catalog_service"`
	NotifyService  IntegrationConfig `toml:"notify_service"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к Postgres
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения к Postgres
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus-метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// BookingConfig бизнес-настройки расчёта слотов
// Часы работы салона и ограничения бронирования задаются оператором,
// движок расчёта слотов их только читает
type BookingConfig struct {
	OpeningHour         int `toml:"opening_hour"`
	ClosingHour         int `toml:"closing_hour"`
	SlotIntervalMinutes int `toml:"slot_interval_minutes"`
	MinLeadTimeMinutes  int `toml:"min_lead_time_minutes"`
}

// IntegrationConfig настройки интеграционного клиента
type IntegrationConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// Load загружает конфигурацию из toml файла
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 300
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.ServiceName == "" {
		cfg.Metrics.ServiceName = "reservation-service"
	}
	if cfg.Booking.OpeningHour == 0 {
		cfg.Booking.OpeningHour = 9
	}
	if cfg.Booking.ClosingHour == 0 {
		cfg.Booking.ClosingHour = 21
	}
	if cfg.Booking.SlotIntervalMinutes == 0 {
		cfg.Booking.SlotIntervalMinutes = 30
	}
	if cfg.Booking.MinLeadTimeMinutes == 0 {
		cfg.Booking.MinLeadTimeMinutes = 120
	}
}

func validate(cfg *Config) error {
	if cfg.Booking.OpeningHour < 0 || cfg.Booking.OpeningHour > 23 {
		return fmt.Errorf("config: opening_hour must be in [0, 23], got %d", cfg.Booking.OpeningHour)
	}
	if cfg.Booking.ClosingHour < 1 || cfg.Booking.ClosingHour > 24 {
		return fmt.Errorf("config: closing_hour must be in [1, 24], got %d", cfg.Booking.ClosingHour)
	}
	if cfg.Booking.ClosingHour <= cfg.Booking.OpeningHour {
		return fmt.Errorf("config: closing_hour (%d) must be after opening_hour (%d)",
			cfg.Booking.ClosingHour, cfg.Booking.OpeningHour)
	}
	if cfg.Booking.SlotIntervalMinutes < domain.MinSlotIntervalMinutes ||
		cfg.Booking.SlotIntervalMinutes > domain.MaxSlotIntervalMinutes {
		return fmt.Errorf("config: slot_interval_minutes must be in [%d, %d], got %d",
			domain.MinSlotIntervalMinutes, domain.MaxSlotIntervalMinutes, cfg.Booking.SlotIntervalMinutes)
	}
	if cfg.Booking.MinLeadTimeMinutes < domain.MinLeadTimeMinutes ||
		cfg.Booking.MinLeadTimeMinutes > domain.MaxLeadTimeMinutes {
		return fmt.Errorf("config: min_lead_time_minutes must be in [%d, %d], got %d",
			domain.MinLeadTimeMinutes, domain.MaxLeadTimeMinutes, cfg.Booking.MinLeadTimeMinutes)
	}
	return nil
}
