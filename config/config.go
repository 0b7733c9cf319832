package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode   string `mapstructure:"mode"`
	Server struct {
		HTTPPort    string        `mapstructure:"HTTPPort"`
		MetricsPort string        `mapstructure:"metricsPort"`
		Timeout     time.Duration `mapstructure:"HTTPTimeout"`
	} `mapstructure:"server"`
	Repositories struct {
		Postgres struct {
			Host     string `mapstructure:"host"`
			Password string `mapstructure:"password"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	JWT JWTConfig `mapstructure:"jwt"`
	App struct {
		// PublicOrigin is the origin used when building share links,
		// e.g. https://feirahub.com.br
		PublicOrigin string `mapstructure:"publicOrigin"`
		// RestrictedFieldCooldown is how long a member must wait between
		// username or phone changes.
		RestrictedFieldCooldown time.Duration `mapstructure:"restrictedFieldCooldown"`
		ProfileCacheTTL         time.Duration `mapstructure:"profileCacheTTL"`
	} `mapstructure:"app"`
	OAuth struct {
		SessionSecret      string `mapstructure:"sessionSecret"`
		GoogleClientKey    string `mapstructure:"googleClientKey"`
		GoogleClientSecret string `mapstructure:"googleClientSecret"`
		GoogleCallbackURL  string `mapstructure:"googleCallbackURL"`
	} `mapstructure:"oauth"`
}

type JWTConfig struct {
	SecretKey       string        `mapstructure:"secretKey"`
	Issuer          string        `mapstructure:"issuer"`
	Audience        string        `mapstructure:"audience"`
	AccessTokenTTL  time.Duration `mapstructure:"accessTokenTTL"`
	RefreshTokenTTL time.Duration `mapstructure:"refreshTokenTTL"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvPrefix("FEIRAHUB")
	v.AutomaticEnv()

	// Try file-based config first, fall back to the embedded one.
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return config, nil
}
