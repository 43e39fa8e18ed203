package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/BartekS5/soundope-import/internal/config"
	"github.com/BartekS5/soundope-import/internal/etl"
	"github.com/BartekS5/soundope-import/internal/source"
	"github.com/BartekS5/soundope-import/pkg/database"
	"github.com/BartekS5/soundope-import/pkg/logger"
)

func runImport(ctx context.Context, out io.Writer, opts *ImportOptions, want source.Kind) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return withCode(ExitUsage, err)
	}
	level := cfg.LogLevel
	if opts.Verbose {
		level = "debug"
	}
	if err := logger.InitLogger(cfg.LogFile, level); err != nil {
		return withCode(ExitUsage, fmt.Errorf("initializing logger: %w", err))
	}
	defer func() {
		if err != nil {
			logger.Errorf("Import of %s failed: %v", opts.File, err)
		}
		logger.Close()
	}()

	target := strings.ToLower(strings.TrimSpace(opts.Target))
	if target == "" {
		target = cfg.Target
	}
	if !opts.DryRun {
		if err := cfg.Validate(target); err != nil {
			return withCode(ExitUsage, err)
		}
	}

	mapping, err := config.LoadMapping(opts.MappingFile)
	if err != nil {
		return withCode(ExitUsage, err)
	}

	src, err := source.Open(opts.File, mapping)
	if err != nil {
		return withCode(ExitSource, err)
	}
	if src.Kind() != want {
		return withCode(ExitUsage, fmt.Errorf("%s holds %s records, use `import %s`", opts.File, src.Kind(), commandFor(src.Kind())))
	}

	store, err := openStore(ctx, cfg, target, opts.DryRun)
	if err != nil {
		return withCode(ExitDB, err)
	}
	defer store.Close()

	pipeline := etl.NewPipeline(store, etl.Options{PlaceholderDomain: cfg.PlaceholderEmailDomain})
	summary, err := pipeline.Run(ctx, src)
	if err != nil {
		return err
	}

	reportPath := opts.ReportPath
	if reportPath == "" {
		reportPath = etl.ErrorReportPath(opts.File)
	}
	if _, err := etl.Report(out, summary, reportPath, cfg.ErrorPreviewLimit); err != nil {
		return err
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, target string, dryRun bool) (etl.Store, error) {
	if dryRun {
		store := etl.NewMemoryStore()
		store.Log = true
		return store, nil
	}

	switch target {
	case config.TargetPostgres:
		pool, err := database.ConnectPostgres(ctx, cfg.PostgresConnString)
		if err != nil {
			return nil, err
		}
		return etl.NewPostgresStore(pool), nil
	case config.TargetSQLServer:
		db, err := database.ConnectSQL(ctx, "sqlserver", cfg.SQLConnString)
		if err != nil {
			return nil, err
		}
		return etl.NewSQLServerStore(db), nil
	case config.TargetSQLite:
		db, err := database.ConnectSQL(ctx, "sqlite", sqliteDSN(cfg.SQLitePath))
		if err != nil {
			return nil, err
		}
		store, err := etl.NewSQLiteStore(ctx, db)
		if err != nil {
			db.Close()
			return nil, err
		}
		return store, nil
	case config.TargetMongo:
		client, err := database.ConnectMongo(ctx, cfg.MongoConnString)
		if err != nil {
			return nil, err
		}
		return etl.NewMongoStore(client, cfg.MongoDatabase), nil
	default:
		return nil, fmt.Errorf("unsupported target %q", target)
	}
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func commandFor(k source.Kind) string {
	if k == source.KindBundles {
		return "users"
	}
	return "tracks"
}
