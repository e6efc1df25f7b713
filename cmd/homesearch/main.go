package main

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/pressly/goose/v3"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mishannn/homesearch-go/internal/api"
	"github.com/mishannn/homesearch-go/internal/assetcache"
	"github.com/mishannn/homesearch-go/internal/filter"
	"github.com/mishannn/homesearch-go/internal/geo"
	"github.com/mishannn/homesearch-go/internal/httpclient"
	"github.com/mishannn/homesearch-go/internal/listing"
	"github.com/mishannn/homesearch-go/internal/markers"
	"github.com/mishannn/homesearch-go/internal/saved"
	"github.com/mishannn/homesearch-go/internal/search"
	"github.com/mishannn/homesearch-go/internal/session"
	"github.com/mishannn/homesearch-go/internal/storage"
	"github.com/mishannn/homesearch-go/internal/utils"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

func upMigrations(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("clickhouse"); err != nil {
		return fmt.Errorf("can't set dialect for migrations: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("can't up migrations: %w", err)
	}

	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("can't parse log level: %w", err)
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return config.Build()
}

type options struct {
	configFilePath  string
	geojsonFilePath string
	maxPages        int
	save            []string
	unsave          []string
}

func main() {
	var opts options
	flag.StringVarP(&opts.configFilePath, "config", "c", "config.yaml", "config file path")
	flag.StringVarP(&opts.geojsonFilePath, "area", "f", "", "geojson polygon limiting the map markers")
	flag.IntVar(&opts.maxPages, "pages", 0, "pages to load (overrides search.max_pages)")
	flag.StringSliceVar(&opts.save, "save", nil, "property ids to mark as saved")
	flag.StringSliceVar(&opts.unsave, "unsave", nil, "property ids to unmark as saved")
	flag.Parse()

	cfg, err := newConfig(opts.configFilePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "can't read config: %s\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "can't create logger: %s\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = run(ctx, logger, cfg, opts)
	if err != nil {
		logger.Fatal("search run failed", zap.Error(err))
	}

	logger.Info("search run finished")
}

func run(ctx context.Context, logger *zap.Logger, cfg *Config, opts options) error {
	sessionStore, err := session.OpenFileStore(cfg.Session.File)
	if err != nil {
		return err
	}

	app := session.NewApp(logger, sessionStore, nil)
	if cfg.API.Token != "" && cfg.API.UserID != "" {
		err = app.Auth.Login(cfg.API.Token, cfg.API.UserID)
		if err != nil {
			return err
		}
	}

	httpClient, err := httpclient.New(httpclient.Options{
		Timeout:   cfg.API.Timeout,
		UserAgent: cfg.API.UserAgent,
		Token:     app.Auth.Token,
	})
	if err != nil {
		return err
	}

	client := api.NewClient(httpClient, cfg.API.BaseURL, logger.Named("api"))

	masterData, err := client.MasterList(ctx, api.FilterTables)
	if err != nil {
		// Filters still work with raw ids.
		logger.Warn("can't load master data", zap.Error(err))
	}

	state := filter.NewState(logger.Named("filter"), cfg.Search.Query)
	err = applySearchConfig(state, cfg, masterData)
	if err != nil {
		return err
	}

	store := listing.NewStore()
	orchestrator := search.NewOrchestrator(client, store, logger.Named("search"), cfg.Search.PageSize)
	defer orchestrator.Close()

	var visible []markers.Marker
	orchestrator.OnChange(func(s search.Snapshot) {
		visible = markers.Project(orchestrator.Visible())
		logger.Info("listings updated",
			zap.Int("page", s.Cursor.Page),
			zap.Int("loaded", len(s.Listings)),
			zap.Int("total", s.Cursor.Total),
			zap.Bool("has_more", s.Cursor.HasMore))
	})

	err = orchestrator.Reload(ctx, state.Criteria())
	if err != nil {
		return fmt.Errorf("can't load first page: %w", err)
	}

	maxPages := cfg.Search.MaxPages
	if opts.maxPages > 0 {
		maxPages = opts.maxPages
	}

	driver := search.NewScrollDriver(orchestrator, logger.Named("scroll"), nil)
	for orchestrator.Snapshot().Cursor.Page < maxPages {
		if !driver.ShowMore(ctx) {
			break
		}
	}

	err = toggleSaved(app, client, store, cfg, opts)
	if err != nil {
		return err
	}

	err = writeMarkers(logger, cfg, opts, visible)
	if err != nil {
		return err
	}

	warmAssets(ctx, logger, httpClient, cfg)

	return persist(ctx, logger, cfg, store.All())
}

func applySearchConfig(state *filter.State, cfg *Config, masterData api.MasterData) error {
	sort, err := filter.ParseSort(cfg.Search.Sort)
	if err != nil {
		return err
	}
	state.SetSort(sort)

	if cfg.Search.Price != nil {
		state.Price.Open()
		if err := state.Price.Stage(*cfg.Search.Price); err != nil {
			return err
		}
		if err := state.Price.Apply(); err != nil {
			return err
		}
	}

	if cfg.Search.Beds != nil || cfg.Search.Baths != nil {
		state.BedsBaths.Open()
		err := state.BedsBaths.Edit(func(b filter.BedsBaths) filter.BedsBaths {
			if cfg.Search.Beds != nil {
				b.Beds = *cfg.Search.Beds
			}
			if cfg.Search.Baths != nil {
				b.Baths = *cfg.Search.Baths
			}
			return b
		})
		if err != nil {
			return err
		}
		if err := state.BedsBaths.Apply(); err != nil {
			return err
		}
	}

	if len(cfg.Search.PropertyTypes) > 0 {
		state.PropertyTypes.Open()
		for _, name := range cfg.Search.PropertyTypes {
			id := resolveMasterID(masterData, api.TablePropertyType, name)
			err := state.PropertyTypes.Edit(func(set []string) []string {
				return filter.Toggle(set, id)
			})
			if err != nil {
				return err
			}
		}
		if err := state.PropertyTypes.Apply(); err != nil {
			return err
		}
	}

	if cfg.Search.More != nil {
		state.More.Open()
		if err := state.More.Stage(mergeMoreFilters(*cfg.Search.More)); err != nil {
			return err
		}
		if err := state.More.Apply(); err != nil {
			return err
		}
	}

	return nil
}

// mergeMoreFilters fills ranges the config left out with their defaults.
func mergeMoreFilters(m filter.MoreFilters) filter.MoreFilters {
	if m.Parking == (filter.Range{}) {
		m.Parking = filter.DefaultParking
	}
	if m.TotalSqft == (filter.Range{}) {
		m.TotalSqft = filter.DefaultTotalSqft
	}
	if m.LotSqft == (filter.Range{}) {
		m.LotSqft = filter.DefaultLotSqft
	}
	return m
}

// resolveMasterID maps a human name from the config to the master data uuid.
// Unknown names are passed through as ids.
func resolveMasterID(masterData api.MasterData, table string, name string) string {
	for _, item := range masterData[table] {
		if strings.EqualFold(item.Name, name) {
			return item.UUID
		}
	}
	return name
}

func toggleSaved(app *session.App, client *api.Client, store *listing.Store, cfg *Config, opts options) error {
	if len(opts.save) == 0 && len(opts.unsave) == 0 {
		return nil
	}

	toggler := saved.NewToggler(app, client, store, cfg.Saved.Debounce, cfg.API.Timeout)
	defer toggler.Close()

	var errs error
	for _, id := range utils.Unique(opts.save) {
		errs = errors.Join(errs, toggler.Toggle(id, true))
	}
	for _, id := range utils.Unique(opts.unsave) {
		errs = errors.Join(errs, toggler.Toggle(id, false))
	}

	toggler.Flush()

	if errs != nil {
		return fmt.Errorf("can't toggle saved homes: %w", errs)
	}

	return nil
}

func writeMarkers(logger *zap.Logger, cfg *Config, opts options, visible []markers.Marker) error {
	if opts.geojsonFilePath != "" {
		geojson, err := os.ReadFile(opts.geojsonFilePath)
		if err != nil {
			return fmt.Errorf("can't read polygon file: %w", err)
		}

		area, err := geo.NewAreaFromGeoJSON(string(geojson))
		if err != nil {
			return err
		}

		visible = markers.Within(visible, area)
	}

	viewport, ok := markers.Fit(visible, cfg.Map.Width, cfg.Map.Height, cfg.Map.Padding)
	if ok {
		logger.Info("map viewport",
			zap.Float64("lng", viewport.Center[0]),
			zap.Float64("lat", viewport.Center[1]),
			zap.Float64("zoom", viewport.Zoom))
	}

	f, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("can't create output file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(visible); err != nil {
		return fmt.Errorf("can't write markers: %w", err)
	}

	logger.Info("markers written", zap.String("file", cfg.Output), zap.Int("count", len(visible)))
	return nil
}

func warmAssets(ctx context.Context, logger *zap.Logger, httpClient *http.Client, cfg *Config) {
	if len(cfg.Assets.Warm) == 0 {
		return
	}

	cache, err := assetcache.New(cfg.Assets.Dir, httpClient, logger)
	if err != nil {
		logger.Warn("asset cache unavailable", zap.Error(err))
		return
	}

	_ = cache.Warm(ctx, cfg.Assets.Warm, cfg.Assets.Workers)
}

func persist(ctx context.Context, logger *zap.Logger, cfg *Config, listings []listing.Listing) error {
	now := time.Now()
	statistic := getListingStatistic(logger, cfg.Search.Query, listings)

	if cfg.Database.Address != "" {
		db := clickhouse.OpenDB(&clickhouse.Options{
			Addr: []string{cfg.Database.Address},
			Auth: clickhouse.Auth{
				Database: cfg.Database.Database,
				Username: cfg.Database.Username,
				Password: cfg.Database.Password,
			},
		})
		defer db.Close()

		err := upMigrations(db)
		if err != nil {
			return err
		}

		err = saveStatistic(db, now, statistic)
		if err != nil {
			return err
		}
		logger.Info("statistic saved", zap.Int("rows", len(statistic)))
	}

	if cfg.Sheets.SpreadsheetID != "" {
		exporter, err := newSheetsExporter(ctx, cfg.Sheets.CredentialsFile, cfg.Sheets.SpreadsheetID, cfg.Sheets.Range)
		if err != nil {
			return err
		}

		rows, err := exporter.appendStatistic(ctx, now, statistic)
		if err != nil {
			return err
		}
		logger.Info("statistic exported to sheets", zap.Int("rows", rows))
	}

	if cfg.Postgres.DSN != "" {
		pg, err := storage.NewPostgresStore(ctx, cfg.Postgres.DSN)
		if err != nil {
			return err
		}
		defer pg.Close()

		n, err := pg.SaveListings(ctx, cfg.Search.Query, listings)
		if err != nil {
			return err
		}
		logger.Info("listings saved", zap.Int("rows", n))
	}

	return nil
}
