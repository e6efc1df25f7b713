package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/mishannn/homesearch-go/internal/filter"
)

type Config struct {
	API struct {
		BaseURL   string        `yaml:"base_url"`
		Token     string        `yaml:"token"`
		UserID    string        `yaml:"user_id"`
		Timeout   time.Duration `yaml:"timeout"`
		UserAgent string        `yaml:"user_agent"`
	} `yaml:"api"`
	Search struct {
		Query         string              `yaml:"query"`
		Sort          string              `yaml:"sort"`
		PageSize      int                 `yaml:"page_size"`
		MaxPages      int                 `yaml:"max_pages"`
		Price         *filter.Range       `yaml:"price"`
		Beds          *filter.Range       `yaml:"beds"`
		Baths         *filter.Range       `yaml:"baths"`
		PropertyTypes []string            `yaml:"property_types"`
		More          *filter.MoreFilters `yaml:"more"`
	} `yaml:"search"`
	Saved struct {
		Debounce time.Duration `yaml:"debounce"`
	} `yaml:"saved"`
	Session struct {
		File string `yaml:"file"`
	} `yaml:"session"`
	Map struct {
		Width   int `yaml:"width"`
		Height  int `yaml:"height"`
		Padding int `yaml:"padding"`
	} `yaml:"map"`
	Assets struct {
		Dir     string   `yaml:"dir"`
		Workers int      `yaml:"workers"`
		Warm    []string `yaml:"warm"`
	} `yaml:"assets"`
	Output string `yaml:"output"`
	Log    struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Database struct {
		Address  string `yaml:"address"`
		Database string `yaml:"database"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"database"`
	Postgres struct {
		DSN string `yaml:"dsn"`
	} `yaml:"postgres"`
	Sheets struct {
		CredentialsFile string `yaml:"credentials_file"`
		SpreadsheetID   string `yaml:"spreadsheet_id"`
		Range           string `yaml:"range"`
	} `yaml:"sheets"`
}

func defaultConfig() *Config {
	config := &Config{}

	config.API.Timeout = 30 * time.Second
	config.API.UserAgent = "homesearch-go/1.0"
	config.Search.Query = filter.DefaultSearch
	config.Search.Sort = string(filter.SortDefault)
	config.Search.PageSize = 10
	config.Search.MaxPages = 5
	config.Session.File = "session.json"
	config.Map.Width = 1280
	config.Map.Height = 800
	config.Map.Padding = 40
	config.Assets.Dir = ".cache/assets"
	config.Assets.Workers = 4
	config.Output = "markers.json"
	config.Log.Level = "info"

	return config
}

func newConfig(configPath string) (*Config, error) {
	config := defaultConfig()

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("can't open config file: %w", err)
	}
	defer file.Close()

	d := yaml.NewDecoder(file)

	if err := d.Decode(config); err != nil {
		return nil, fmt.Errorf("can't parse config file: %w", err)
	}

	applyEnv(config)

	if config.API.BaseURL == "" {
		return nil, fmt.Errorf("api.base_url is required")
	}

	if _, err := filter.ParseSort(config.Search.Sort); err != nil {
		return nil, fmt.Errorf("invalid search.sort: %w", err)
	}

	return config, nil
}

// applyEnv lets secrets stay out of the config file.
func applyEnv(config *Config) {
	if v := os.Getenv("HOMESEARCH_TOKEN"); v != "" {
		config.API.Token = v
	}
	if v := os.Getenv("HOMESEARCH_USER_ID"); v != "" {
		config.API.UserID = v
	}
	if v := os.Getenv("HOMESEARCH_DB_PASSWORD"); v != "" {
		config.Database.Password = v
	}
	if v := os.Getenv("HOMESEARCH_POSTGRES_DSN"); v != "" {
		config.Postgres.DSN = v
	}
}
