package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "missioncore/internal/adapter/http"
	s3archive "missioncore/internal/adapter/archive/s3"
	sqlitearchive "missioncore/internal/adapter/archive/sqlite"
	"missioncore/internal/adapter/metrics/fanout"
	metricsinmem "missioncore/internal/adapter/metrics/inmemory"
	"missioncore/internal/adapter/metrics/prom"
	gormrepo "missioncore/internal/adapter/repo/gorm"
	"missioncore/internal/adapter/repo/memory"
	"missioncore/internal/app/audit"
	"missioncore/internal/app/crew"
	"missioncore/internal/app/habitat"
	"missioncore/internal/app/history"
	"missioncore/internal/app/orchestrator"
	"missioncore/internal/app/ports"
	"missioncore/internal/app/projection"
	"missioncore/internal/app/scheduler"
	"missioncore/internal/config"
	"missioncore/internal/logging"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	configPath := flag.String("config", os.Getenv("MISSIONCORE_CONFIG"), "path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := buildRepos(ctx, cfg, logger)
	if err != nil {
		return err
	}
	archive, closeArchive, err := buildArchive(ctx, cfg.Archive)
	if err != nil {
		return err
	}
	defer closeArchive()
	catalog, err := config.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promRecorder, err := prom.NewRecorder(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	kpiRecorder := metricsinmem.NewRecorder()
	metrics := fanout.New(kpiRecorder, promRecorder)

	uc := buildUseCases(cfg, repos, archive, metrics, logger)
	uc.projection.Catalog = catalog

	if err := ensureLineages(ctx, uc.orchestrator, cfg.Scheduler.Lineages); err != nil {
		return err
	}
	if cfg.Scheduler.Enabled {
		driver := scheduler.Driver{
			Jobs:     buildJobs(cfg.Scheduler, uc.orchestrator, uc.habitat),
			Interval: cfg.Scheduler.Interval,
			Logger:   logger,
		}
		go func() {
			if err := driver.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("scheduler stopped", "err", err)
			}
		}()
	}

	h := httpadapter.Handler{
		CrewUC:         uc.crew,
		OrchestratorUC: uc.orchestrator,
		HabitatUC:      uc.habitat,
		ProjectionUC:   uc.projection,
		AuditUC:        uc.audit,
		HistoryUC:      history.UseCase{Events: repos.events},
		KPI:            kpiRecorder,
		Metrics:        prom.Handler(reg),
		AllowOrigins:   cfg.Server.AllowOrigins,
	}

	s := server.Default(server.WithHostPorts(cfg.Server.Addr), server.WithExitWaitTime(5*time.Second))
	h.RegisterRoutes(s)

	logger.Info("missioncore server listening",
		"addr", cfg.Server.Addr,
		"store", repos.kind,
		"archive", cfg.Archive.Driver,
		"scheduler", cfg.Scheduler.Enabled,
	)
	s.Spin()
	return nil
}

type repoSet struct {
	kind       string
	tx         ports.TxManager
	ecosystems ports.EcosystemRepository
	crew       ports.CrewRepository
	habitats   ports.HabitatRepository
	ledgers    ports.LedgerRepository
	events     ports.EventRepository
}

func buildRepos(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repoSet, error) {
	if cfg.Database.DSN == "" {
		logger.Warn("no database dsn configured, state is kept in memory")
		store := memory.NewStore()
		return repoSet{
			kind:       "memory",
			tx:         memory.NewTxManager(store),
			ecosystems: memory.NewEcosystemRepo(store),
			crew:       memory.NewCrewRepo(store),
			habitats:   memory.NewHabitatRepo(store),
			ledgers:    memory.NewLedgerRepo(store),
			events:     memory.NewEventRepo(store),
		}, nil
	}
	db, err := gormrepo.OpenPostgres(cfg.Database.DSN)
	if err != nil {
		return repoSet{}, err
	}
	applied, err := gormrepo.ApplyMigrations(ctx, db, gormrepo.Migrations())
	if err != nil {
		return repoSet{}, fmt.Errorf("migrate: %w", err)
	}
	if len(applied) > 0 {
		logger.Info("applied schema migrations", "versions", applied)
	}
	return repoSet{
		kind:       "postgres",
		tx:         gormrepo.NewTxManager(db),
		ecosystems: gormrepo.NewEcosystemRepo(db),
		crew:       gormrepo.NewCrewRepo(db),
		habitats:   gormrepo.NewHabitatRepo(db),
		ledgers:    gormrepo.NewLedgerRepo(db),
		events:     gormrepo.NewEventRepo(db),
	}, nil
}

func buildArchive(ctx context.Context, cfg config.ArchiveConfig) (ports.LedgerArchive, func(), error) {
	switch cfg.Driver {
	case config.ArchiveS3:
		a, err := s3archive.New(ctx, s3archive.Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			Prefix:          cfg.S3.Prefix,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			PathStyle:       cfg.S3.PathStyle,
		})
		if err != nil {
			return nil, func() {}, fmt.Errorf("s3 archive: %w", err)
		}
		return a, func() {}, nil
	case config.ArchiveSQLite:
		a, err := sqlitearchive.Open(cfg.SQLitePath)
		if err != nil {
			return nil, func() {}, fmt.Errorf("sqlite archive: %w", err)
		}
		return a, func() { _ = a.Close() }, nil
	default:
		return nil, func() {}, nil
	}
}

type useCases struct {
	crew         crew.UseCase
	orchestrator orchestrator.UseCase
	habitat      habitat.UseCase
	projection   projection.UseCase
	audit        audit.UseCase
}

func buildUseCases(cfg *config.Config, repos repoSet, archive ports.LedgerArchive, metrics ports.Metrics, logger *slog.Logger) useCases {
	return useCases{
		crew: crew.UseCase{
			TxManager: repos.tx,
			Crew:      repos.crew,
			Events:    repos.events,
			Metrics:   metrics,
			Now:       time.Now,
		},
		orchestrator: orchestrator.UseCase{
			TxManager:     repos.tx,
			Ecosystems:    repos.ecosystems,
			Ledgers:       repos.ledgers,
			Events:        repos.events,
			Metrics:       metrics,
			Chains:        orchestrator.NewChains(),
			AnomalyWindow: cfg.Anomaly.Window,
			Logger:        logger,
			Now:           time.Now,
		},
		habitat: habitat.UseCase{
			TxManager: repos.tx,
			Habitats:  repos.habitats,
			Events:    repos.events,
			Metrics:   metrics,
			Config:    cfg.LifeSupport.Config,
			Modules:   cfg.LifeSupport.Modules,
			Now:       time.Now,
		},
		projection: projection.UseCase{Metrics: metrics},
		audit: audit.UseCase{
			Ledgers: repos.ledgers,
			Events:  repos.events,
			Archive: archive,
			Metrics: metrics,
			Logger:  logger,
			Now:     time.Now,
		},
	}
}

// ensureLineages starts every configured lineage that does not exist yet.
func ensureLineages(ctx context.Context, uc orchestrator.UseCase, lineages []config.LineageConfig) error {
	for _, l := range lineages {
		_, err := uc.Start(ctx, orchestrator.StartRequest{LineageID: l.ID, Seed: l.Seed})
		if err != nil && !errors.Is(err, ports.ErrConflict) {
			return fmt.Errorf("start lineage %s: %w", l.ID, err)
		}
	}
	return nil
}

func buildJobs(cfg config.SchedulerConfig, eco orchestrator.UseCase, hab habitat.UseCase) []scheduler.Job {
	jobs := make([]scheduler.Job, 0, len(cfg.Lineages)+len(cfg.Habitats))
	for _, l := range cfg.Lineages {
		jobs = append(jobs, scheduler.NewJob("lineage/"+l.ID, func(ctx context.Context) error {
			_, err := eco.Tick(ctx, orchestrator.TickRequest{LineageID: l.ID})
			return err
		}))
	}
	for _, id := range cfg.Habitats {
		jobs = append(jobs, scheduler.NewJob("habitat/"+id, func(ctx context.Context) error {
			_, err := hab.Step(ctx, habitat.StepRequest{HabitatID: id, DtHours: cfg.DtHours})
			return err
		}))
	}
	return jobs
}
