// Package config loads and validates process-wide configuration.
//
// Sources are layered: built-in defaults, then an optional YAML config
// file, then environment variables. The struct is immutable after Load.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

var defaultConfigPaths = []string{"config.yaml", "config.yml"}

type Config struct {
	Search   SearchConfig   `koanf:"search"`
	Monitor  MonitorConfig  `koanf:"monitor"`
	Upstream UpstreamConfig `koanf:"upstream"`
	Telegram TelegramConfig `koanf:"telegram"`
	Line     LineConfig     `koanf:"line"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// SearchConfig holds the stay criteria and the monitored targets. At least
// one of AreaIDs or Prefectures is mandatory.
type SearchConfig struct {
	AreaIDs      []int    `koanf:"area_ids"`
	Prefectures  []string `koanf:"prefectures"`
	CheckinDate  string   `koanf:"checkin_date" validate:"required"`
	CheckoutDate string   `koanf:"checkout_date"`
	People       int      `koanf:"people" validate:"min=1"`
	Rooms        int      `koanf:"rooms" validate:"min=1"`
	Smoking      string   `koanf:"smoking" validate:"required"`
	// HotelCodes restricts monitoring to these hotels; empty means every
	// hotel in each target.
	HotelCodes []string `koanf:"hotel_codes"`
}

type MonitorConfig struct {
	StateFile                 string        `koanf:"state_file" validate:"required"`
	NotifyOnFirstRun          bool          `koanf:"notify_on_first_run"`
	NotifyWhenAvailableAlways bool          `koanf:"notify_when_available_always"`
	MinRequestInterval        time.Duration `koanf:"min_request_interval" validate:"min=0"`
	RequestJitter             time.Duration `koanf:"request_jitter" validate:"min=0"`
	TargetDelay               time.Duration `koanf:"target_delay" validate:"min=0"`
	ScheduleInterval          time.Duration `koanf:"schedule_interval" validate:"min=1s"`
	ScheduleJitter            time.Duration `koanf:"schedule_jitter" validate:"min=0"`
	RunOnce                   bool          `koanf:"run_once"`
}

// UpstreamConfig points at the Toyoko Inn endpoints. The search URL embeds
// a Next.js build hash that changes on each site deployment; override it
// when requests start returning 404.
type UpstreamConfig struct {
	SearchURL       string        `koanf:"search_url" validate:"required,url"`
	AvailabilityURL string        `koanf:"availability_url" validate:"required,url"`
	Timeout         time.Duration `koanf:"timeout" validate:"min=1s"`
}

type TelegramConfig struct {
	BotToken string `koanf:"bot_token"`
	ChatID   string `koanf:"chat_id"`
}

type LineConfig struct {
	ChannelAccessToken string `koanf:"channel_access_token"`
	To                 string `koanf:"to"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func defaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			People:  2,
			Rooms:   1,
			Smoking: "all",
		},
		Monitor: MonitorConfig{
			StateFile:                 ".toyoko_state.json",
			NotifyOnFirstRun:          false,
			NotifyWhenAvailableAlways: true,
			MinRequestInterval:        1500 * time.Millisecond,
			RequestJitter:             1200 * time.Millisecond,
			TargetDelay:               2 * time.Second,
			ScheduleInterval:          15 * time.Minute,
			ScheduleJitter:            30 * time.Second,
		},
		Upstream: UpstreamConfig{
			SearchURL:       "https://www.toyoko-inn.com/_next/data/Q26kEC5gXEbF5My2xy3e5/china/search/result.json",
			AvailabilityURL: "https://www.toyoko-inn.com/api/trpc/hotels.availabilities.prices",
			Timeout:         45 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// envMappings translates environment variable names (lowercased) to koanf
// paths. The names match the original deployment surface of this monitor.
var envMappings = map[string]string{
	"area_ids":                      "search.area_ids",
	"area_id":                       "search.area_ids",
	"prefectures":                   "search.prefectures",
	"checkin_date":                  "search.checkin_date",
	"checkout_date":                 "search.checkout_date",
	"number_of_people":              "search.people",
	"number_of_room":                "search.rooms",
	"smoking_type":                  "search.smoking",
	"hotel_codes":                   "search.hotel_codes",
	"state_file":                    "monitor.state_file",
	"notify_on_first_run":           "monitor.notify_on_first_run",
	"notify_when_available_always":  "monitor.notify_when_available_always",
	"min_request_interval":          "monitor.min_request_interval",
	"request_jitter":                "monitor.request_jitter",
	"target_delay":                  "monitor.target_delay",
	"schedule_interval":             "monitor.schedule_interval",
	"schedule_jitter":               "monitor.schedule_jitter",
	"run_once":                      "monitor.run_once",
	"search_url":                    "upstream.search_url",
	"availability_url":              "upstream.availability_url",
	"upstream_timeout":              "upstream.timeout",
	"telegram_bot_token":            "telegram.bot_token",
	"telegram_chat_id":              "telegram.chat_id",
	"line_bot_channel_access_token": "line.channel_access_token",
	"line_bot_to":                   "line.to",
	"log_level":                     "logging.level",
	"log_format":                    "logging.format",
}

// sliceConfigPaths are list-valued settings that may arrive from the
// environment as comma-separated strings.
var sliceConfigPaths = []string{
	"search.area_ids",
	"search.prefectures",
	"search.hotel_codes",
}

func envTransform(key string) string {
	return envMappings[strings.ToLower(key)]
}

// Load builds the Config from defaults, the config file at path (optional;
// falls back to CONFIG_PATH and then the working-directory defaults), and
// environment variables. Any validation failure is a startup error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if p := findConfigFile(path); p != "" {
		if err := k.Load(file.Provider(p), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", p, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := splitSliceFields(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile(path string) string {
	if path != "" {
		return path
	}
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		return p
	}
	for _, p := range defaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// splitSliceFields converts comma-separated env values into slices for the
// known list-valued settings.
func splitSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok || raw == "" {
			continue
		}
		var parts []string
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}

// normalize converts dates to canonical form and fills derived defaults.
func (c *Config) normalize() error {
	checkin, err := NormalizeDate(c.Search.CheckinDate)
	if err != nil {
		return fmt.Errorf("checkin_date: %w", err)
	}
	c.Search.CheckinDate = checkin

	if strings.TrimSpace(c.Search.CheckoutDate) == "" {
		t, err := time.Parse(isoMillisZ, checkin)
		if err != nil {
			return fmt.Errorf("checkin_date: %w", err)
		}
		c.Search.CheckoutDate = t.Add(24 * time.Hour).UTC().Format(isoMillisZ)
	} else {
		checkout, err := NormalizeDate(c.Search.CheckoutDate)
		if err != nil {
			return fmt.Errorf("checkout_date: %w", err)
		}
		c.Search.CheckoutDate = checkout
	}

	for i, code := range c.Search.HotelCodes {
		c.Search.HotelCodes[i] = strings.TrimSpace(code)
	}
	return nil
}

// Validate applies the struct tags plus the cross-field rule that tags
// cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if len(c.Search.AreaIDs) == 0 && len(c.Search.Prefectures) == 0 {
		return fmt.Errorf("invalid configuration: at least one of AREA_IDS or PREFECTURES must be set")
	}
	return nil
}
