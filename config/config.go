// Package config provides configuration management for the paygate service.
// Configuration can be loaded from YAML files and overridden by environment variables.
package config

import (
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"paygate/entity"
	"sync"
	"time"
)

const (
	ApiV2 = "v2"
	ApiV3 = "v3"
)

// Config holds all configuration for the paygate service.
// Values can be set via YAML configuration file or environment variables.
// Environment variables take precedence over YAML values.
type Config struct {
	IsDebug    bool  `yaml:"is_debug" env:"DEBUG" env-default:"false"`
	LogRecords int64 `yaml:"log_records" env:"LOG_RECORDS" env-default:"0"`
	Log        struct {
		File       string `yaml:"file" env:"LOG_FILE" env-default:""`
		MaxSize    int    `yaml:"max_size" env:"LOG_MAX_SIZE" env-default:"100"`
		MaxBackups int    `yaml:"max_backups" env:"LOG_MAX_BACKUPS" env-default:"5"`
	} `yaml:"log"`
	Listen struct {
		Type     string `yaml:"type" env:"LISTEN_TYPE" env-default:"port"`
		BindIP   string `yaml:"bind_ip" env:"BIND_IP" env-default:"0.0.0.0"`
		Port     string `yaml:"port" env:"PORT" env-default:"5100"`
		TLS      bool   `yaml:"tls_enabled" env:"TLS_ENABLED" env-default:"false"`
		CertFile string `yaml:"cert_file" env:"TLS_CERT_FILE" env-default:""`
		KeyFile  string `yaml:"key_file" env:"TLS_KEY_FILE" env-default:""`
	} `yaml:"listen"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env:"MONGO_ENABLED" env-default:"false"`
		Host     string `yaml:"host" env:"MONGO_HOST" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env:"MONGO_PORT" env-default:"27017"`
		User     string `yaml:"user" env:"MONGO_USER" env-default:"admin"`
		Password string `yaml:"password" env:"MONGO_PASSWORD" env-default:"pass"`
		Database string `yaml:"database" env:"MONGO_DATABASE" env-default:""`
	} `yaml:"mongo"`
	Merchant struct {
		ApiVersion              string `yaml:"api_version" env:"MERCHANT_API_VERSION" env-default:"v3"`
		AppId                   string `yaml:"app_id" env:"MERCHANT_APP_ID" env-default:""`
		AppSecret               string `yaml:"app_secret" env:"MERCHANT_APP_SECRET" env-default:""`
		MerchantId              string `yaml:"merchant_id" env:"MERCHANT_ID" env-default:""`
		MerchantSecret          string `yaml:"merchant_secret" env:"MERCHANT_SECRET" env-default:""`
		CertificatePath         string `yaml:"certificate_path" env:"MERCHANT_CERTIFICATE_PATH" env-default:""`
		CertificateSerial       string `yaml:"certificate_serial" env:"MERCHANT_CERTIFICATE_SERIAL" env-default:""`
		ApiV3Key                string `yaml:"api_v3_key" env:"MERCHANT_API_V3_KEY" env-default:""`
		PlatformCertificatePath string `yaml:"platform_certificate_path" env:"MERCHANT_PLATFORM_CERTIFICATE_PATH" env-default:""`
		PlatformSerial          string `yaml:"platform_serial" env:"MERCHANT_PLATFORM_SERIAL" env-default:""`
		GatewayUrl              string `yaml:"gateway_url" env:"MERCHANT_GATEWAY_URL" env-default:"https://api.mch.weixin.qq.com"`
		NotifyUrl               string `yaml:"notify_url" env:"MERCHANT_NOTIFY_URL" env-default:""`
	} `yaml:"merchant"`
	Transport struct {
		Timeout time.Duration `yaml:"timeout" env:"TRANSPORT_TIMEOUT" env-default:"30s"`
	} `yaml:"transport"`
}

var instance *Config
var once sync.Once

// GetConfig loads configuration from the specified YAML file path.
// Configuration values can be overridden by environment variables.
// This function uses a singleton pattern and only loads the config once.
//
// Example:
//
//	cfg, err := config.GetConfig("config.yml")
//	if err != nil {
//	    log.Fatal(err)
//	}
func GetConfig(path string) (*Config, error) {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("load config: %w; %s", err, desc)
			instance = nil
			return
		}
		if err = instance.validate(); err != nil {
			instance = nil
		}
	})
	return instance, err
}

func (c *Config) validate() error {
	switch c.Merchant.ApiVersion {
	case ApiV2, ApiV3:
	default:
		return fmt.Errorf("load config: unknown merchant api_version %q", c.Merchant.ApiVersion)
	}
	return nil
}

// MerchantConfig returns the immutable merchant credentials consumed by the protocol client.
func (c *Config) MerchantConfig() entity.MerchantConfig {
	m := c.Merchant
	return entity.MerchantConfig{
		AppId:                   m.AppId,
		AppSecret:               m.AppSecret,
		MerchantId:              m.MerchantId,
		MerchantSecret:          m.MerchantSecret,
		CertificatePath:         m.CertificatePath,
		CertificateSerial:       m.CertificateSerial,
		ApiV3Key:                m.ApiV3Key,
		PlatformCertificatePath: m.PlatformCertificatePath,
		PlatformSerial:          m.PlatformSerial,
		GatewayUrl:              m.GatewayUrl,
	}
}
