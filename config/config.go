package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const defaultConfigPath = "config/config.yaml"

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type ReminderConfig struct {
	// Sweep interval in minutes. Zero falls back to 30.
	IntervalMinutes int `yaml:"interval_minutes"`
}

type Config struct {
	Mode     string         `yaml:"mode"`
	Port     string         `yaml:"port"`
	DB       DatabaseConfig `yaml:"database"`
	Reminder ReminderConfig `yaml:"reminder"`
}

// Load reads config.yaml when present and lets environment variables
// override every field, so containerized deploys need no config file.
func Load() (*Config, error) {
	cfg := &Config{
		Mode: "dev",
		Port: "8080",
		DB: DatabaseConfig{
			Host: "127.0.0.1",
			Port: 3306,
		},
		Reminder: ReminderConfig{IntervalMinutes: 30},
	}

	if buf, err := os.ReadFile(defaultConfigPath); err == nil {
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", defaultConfigPath, err)
		}
	}

	if v := os.Getenv("APP_MODE"); v != "" {
		cfg.Mode = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.DB.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DB_PORT %q: %w", v, err)
		}
		cfg.DB.Port = port
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.DB.Username = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.DB.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.DB.DBName = v
	}
	return cfg, nil
}

// ReminderInterval returns the configured sweep interval.
func (c *Config) ReminderInterval() time.Duration {
	minutes := c.Reminder.IntervalMinutes
	if minutes <= 0 {
		minutes = 30
	}
	return time.Duration(minutes) * time.Minute
}

// InitDB opens the MySQL connection used by every controller and service.
func InitDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DB.Username, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.DBName)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}
