package config

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Auth     AuthConfig     `yaml:"auth"`
	LLM      LLMConfig      `yaml:"llm"`
	Database DatabaseConfig `yaml:"database"`
	CORS     CORSConfig     `yaml:"cors"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type AuthConfig struct {
	Secret       string `yaml:"secret"`
	CookieName   string `yaml:"cookie_name"`
	CookieSecure bool   `yaml:"cookie_secure"`
	TokenDays    int    `yaml:"token_days"`
}

type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type CORSConfig struct {
	Origins []string `yaml:"origins"`
}

func Load(configFile string) *Config {
	godotenv.Load()

	c := &Config{
		Server: ServerConfig{Port: 8790},
		Log:    LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
		Auth:   AuthConfig{CookieName: "lh_session", TokenDays: 7},
		LLM:    LLMConfig{Model: "gpt-4o-mini"},
		Database: DatabaseConfig{
			Host: "127.0.0.1", Port: 3306, User: "longevityhub", Name: "longevityhub",
		},
		CORS: CORSConfig{Origins: []string{"http://localhost:5173", "http://localhost:3000"}},
	}

	paths := []string{"etc/config-dev.yaml", "/etc/longevityhub/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, c)
			break
		}
	}

	envOverride(&c.Auth.Secret, "LH_AUTH_SECRET")
	envOverride(&c.LLM.BaseURL, "LH_LLM_BASE_URL")
	envOverride(&c.LLM.APIKey, "LH_LLM_API_KEY")
	envOverride(&c.LLM.Model, "LH_LLM_MODEL")
	envOverride(&c.Database.Host, "LH_DB_HOST")
	envOverride(&c.Database.User, "LH_DB_USER")
	envOverride(&c.Database.Password, "LH_DB_PASS")
	envOverride(&c.Database.Name, "LH_DB_NAME")
	envOverride(&c.Log.Level, "LOG_LEVEL")
	envOverride(&c.Log.File, "LOG_FILE")
	envOverrideInt(&c.Server.Port, "PORT")
	envOverrideInt(&c.Database.Port, "LH_DB_PORT")
	if v := os.Getenv("LH_CORS_ORIGINS"); v != "" {
		c.CORS.Origins = strings.Split(v, ",")
	}

	return c
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// OpenGormDB connects through a mysql connector so ParseTime and friends are
// set explicitly instead of via DSN string concatenation.
func (c *Config) OpenGormDB() (*gorm.DB, error) {
	cfg := gomysql.NewConfig()
	cfg.User = c.Database.User
	cfg.Passwd = c.Database.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port)
	cfg.DBName = c.Database.Name
	cfg.ParseTime = true

	connector, err := gomysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("create connector: %w", err)
	}
	sqlDB := sql.OpenDB(connector)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return gorm.Open(mysql.New(mysql.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
