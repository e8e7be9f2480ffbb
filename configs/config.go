package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		HTTPAddr string `koanf:"http_addr"`
		LogLevel string `koanf:"log_level"`
		LogFile  string `koanf:"log_file"`
	} `koanf:"app"`

	HTTP struct {
		ReadTimeout  time.Duration `koanf:"read_timeout"`
		WriteTimeout time.Duration `koanf:"write_timeout"`
		IdleTimeout  time.Duration `koanf:"idle_timeout"`
	} `koanf:"http"`

	Backend struct {
		BaseURL string        `koanf:"base_url"`
		Timeout time.Duration `koanf:"timeout"`
	} `koanf:"backend"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
	} `koanf:"redis"`

	GuestCart struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"guest_cart"`

	Identity struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"identity"`

	Session struct {
		TTL           time.Duration `koanf:"ttl"`
		SweepInterval time.Duration `koanf:"sweep_interval"`
	} `koanf:"session"`

	Cart struct {
		ResyncInterval time.Duration `koanf:"resync_interval"`
	} `koanf:"cart"`

	Payment struct {
		Delay       time.Duration `koanf:"delay"`
		SuccessRate float64       `koanf:"success_rate"`
		Window      time.Duration `koanf:"window"`
	} `koanf:"payment"`

	Security struct {
		JWTSecret string `koanf:"jwt_secret"`
	} `koanf:"security"`
}

func Load(pathDir, envName string) (Config, error) {
	k := koanf.New(".")
	// 1) base
	if err := k.Load(file.Provider(fmt.Sprintf("%s/base.yaml", pathDir)), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base: %w", err)
	}

	// 2) env override (dev/staging/prod). Optional: allow missing for local runs.
	_ = k.Load(file.Provider(fmt.Sprintf("%s/%s.yaml", pathDir, envName)), yaml.Parser())

	// 3) environment variables override (prefix STOREFRONT_, nested with __)
	// e.g. STOREFRONT_BACKEND__BASE_URL, STOREFRONT_REDIS__PASSWORD
	if err := k.Load(env.Provider("STOREFRONT_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "STOREFRONT_")
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return fmt.Errorf("app.http_addr required")
	}
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url required")
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr required")
	}
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret required")
	}
	if c.Payment.SuccessRate < 0 || c.Payment.SuccessRate > 1 {
		return fmt.Errorf("payment.success_rate must be within [0,1]")
	}
	return nil
}
