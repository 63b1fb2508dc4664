package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Settings SettingsConfig
	Logger   LoggerConfig
	AI       AIClientConfig
}

type ServerConfig struct {
	Port            int
	MaxPortAttempts int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	StaticDir       string
}

type DatabaseConfig struct {
	Path string
}

type SettingsConfig struct {
	Path string
}

type LoggerConfig struct {
	Level string
	Env   string
}

type AIClientConfig struct {
	RequestTimeout time.Duration
}

// LoadConfig reads config.yaml when present and falls back to defaults
// otherwise, so the server runs without any configuration file. Every
// key can be overridden through the environment.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("server.port", 3000)
	viper.SetDefault("server.max_port_attempts", 10)
	viper.SetDefault("server.read_timeout", 20)
	viper.SetDefault("server.write_timeout", 20)
	viper.SetDefault("server.static_dir", "./web")
	viper.SetDefault("database.path", "")
	viper.SetDefault("settings.path", "")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.env", "development")
	viper.SetDefault("ai.request_timeout", 120)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// A missing file is fine; anything else (e.g. bad YAML) is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port:            viper.GetInt("server.port"),
			MaxPortAttempts: viper.GetInt("server.max_port_attempts"),
			ReadTimeout:     viper.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout:    viper.GetDuration("server.write_timeout") * time.Second,
			StaticDir:       viper.GetString("server.static_dir"),
		},
		Database: DatabaseConfig{
			Path: viper.GetString("database.path"),
		},
		Settings: SettingsConfig{
			Path: viper.GetString("settings.path"),
		},
		Logger: LoggerConfig{
			Level: viper.GetString("logger.level"),
			Env:   viper.GetString("logger.env"),
		},
		AI: AIClientConfig{
			RequestTimeout: viper.GetDuration("ai.request_timeout") * time.Second,
		},
	}

	// Override with environment variables if set
	if port := os.Getenv("SERVER_PORT"); port != "" {
		viper.Set("server.port", port)
		config.Server.Port = viper.GetInt("server.port")
	}
	if staticDir := os.Getenv("STATIC_DIR"); staticDir != "" {
		config.Server.StaticDir = staticDir
	}
	if dbPath := os.Getenv("DATABASE_PATH"); dbPath != "" {
		config.Database.Path = dbPath
	}
	if settingsPath := os.Getenv("SETTINGS_PATH"); settingsPath != "" {
		config.Settings.Path = settingsPath
	}

	// Unset storage paths land in the per-user data directory, the
	// same scoping the desktop build uses.
	if config.Database.Path == "" || config.Settings.Path == "" {
		dataDir, err := userDataDir()
		if err != nil {
			return nil, err
		}
		if config.Database.Path == "" {
			config.Database.Path = filepath.Join(dataDir, "quizdesk.db")
		}
		if config.Settings.Path == "" {
			config.Settings.Path = filepath.Join(dataDir, "settings.json")
		}
	}

	return config, nil
}

func userDataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "quizdesk")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}
