package main

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/stupid-simple/pinpack/config"
	"github.com/stupid-simple/pinpack/database"
	"github.com/stupid-simple/pinpack/fileutils"
	"github.com/stupid-simple/pinpack/packagejob"
	"github.com/stupid-simple/pinpack/pathbuilder"
	"github.com/stupid-simple/pinpack/scheduler"
	"github.com/stupid-simple/pinpack/settings"
	"github.com/stupid-simple/pinpack/storage"
	"github.com/stupid-simple/pinpack/ziparchiver"
)

func daemonCommand(ctx context.Context, args Command, logger zerolog.Logger) error {
	if args.Daemon.DryRun {
		logger = logger.With().Bool("dryrun", true).Logger()
	}

	cfg, err := config.LoadFromFile(args.Daemon.Config)
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}

	var db *database.Database
	if args.Daemon.Database != "" {
		db, err = openDatabase(args.Daemon.Database, logger, args.Daemon.DryRun)
		if err != nil {
			return err
		}
	}

	store, err := storage.NewPackageStoreFromEnv(ctx, logger)
	if err != nil {
		return fmt.Errorf("could not connect to package storage: %w", err)
	}

	env := jobEnv{
		db:     db,
		store:  store,
		dryRun: args.Daemon.DryRun,
		logger: logger,
	}

	scheduler := scheduler.NewScheduler(scheduler.SchedulerParams{
		Logger: logger,
	})

	addPackageJobsFromConfig(ctx, scheduler, cfg, env)

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	startConfigFileWatcher(ctx, args.Daemon.Config, cfg, logger, ticker, func(cfg *config.Config) {
		scheduler.RemoveJobs()
		addPackageJobsFromConfig(ctx, scheduler, cfg, env)
	})

	scheduler.Start()
	defer scheduler.Stop()

	for id, next := range scheduler.NextRuns() {
		logger.Info().Str("job", id).Time("next", next).Msg("scheduled package job")
	}

	<-ctx.Done()

	return nil
}

// jobEnv holds what every configured job shares.
type jobEnv struct {
	db     *database.Database
	store  *storage.PackageStore
	dryRun bool
	logger zerolog.Logger
}

func addPackageJobsFromConfig(
	ctx context.Context,
	scheduler *scheduler.Scheduler,
	cfg *config.Config,
	env jobEnv,
) {
	outputs := make(map[string]string)

	for _, cfgJob := range cfg.Jobs {
		if !cfgJob.Enable {
			env.logger.Info().Str("job", cfgJob.ID()).Msg("skipping disabled package job")
			continue
		}

		job, err := configToPackageJob(ctx, cfgJob, env)
		if err != nil {
			env.logger.Warn().AnErr("cause", err).Str("job", cfgJob.ID()).Msg("skipping package job")
			continue
		}

		if other, ok := outputs[job.outputKey()]; ok {
			env.logger.Warn().Str("job", cfgJob.ID()).Str("other", other).Msg("skipping job writing the same package as another job")
			continue
		}
		outputs[job.outputKey()] = cfgJob.ID()

		if err := scheduler.AddPackageJob(cfgJob.Schedule, job); err != nil {
			env.logger.Error().Err(err).Str("job", cfgJob.ID()).Msg("could not add package job")
			continue
		}

		env.logger.Info().
			Object("job", cfgJob).
			Msg("added package job")
	}
}

func configToPackageJob(ctx context.Context, cfgJob config.PackageJob, env jobEnv) (*packageJob, error) {
	if err := cfgJob.Validate(); err != nil {
		return nil, err
	}
	if cfgJob.Schedule == "" {
		return nil, fmt.Errorf("job must have a schedule")
	}
	if cfgJob.Upload && env.store == nil {
		return nil, fmt.Errorf("job uploads its package: %w", storage.ErrNotConfigured)
	}

	inputs, err := packagejob.InputsFromConfig(cfgJob.Files)
	if err != nil {
		return nil, err
	}

	// Settings are resolved now so that a broken job is reported when loaded.
	s, err := packagejob.ResolveSettings(settings.NewRegistry(), cfgJob.SettingsFile, cfgJob.Template)
	if err != nil {
		return nil, err
	}

	params := packagejob.Params{
		TablePath: cfgJob.TablePath,
		TableName: cfgJob.TableName,
		Inputs:    inputs,
		Settings:  s,
		OutputDir: cfgJob.OutputDir,
		DB:        env.db,
		Logger:    env.logger.With().Str("job", cfgJob.ID()).Logger(),
	}
	if cfgJob.Upload {
		params.Store = env.store
	}

	storePatterns := cfgJob.Store
	if len(storePatterns) == 0 {
		storePatterns = ziparchiver.DefaultStorePatterns
	}

	return &packageJob{
		ctx:           ctx,
		id:            cfgJob.ID(),
		params:        params,
		storePatterns: storePatterns,
		maxSize:       cfgJob.MaxSize.Size,
		dryRun:        env.dryRun,
	}, nil
}

// watchedFiles is the config file and the settings files its jobs read.
type watchedFiles struct {
	lock  sync.Mutex
	paths []string
}

func (w *watchedFiles) set(cfgPath string, cfg *config.Config) {
	paths := []string{cfgPath}
	for _, job := range cfg.Jobs {
		if job.Enable && job.SettingsFile != "" && !slices.Contains(paths, job.SettingsFile) {
			paths = append(paths, job.SettingsFile)
		}
	}

	w.lock.Lock()
	defer w.lock.Unlock()
	w.paths = paths
}

func (w *watchedFiles) list() []string {
	w.lock.Lock()
	defer w.lock.Unlock()
	return slices.Clone(w.paths)
}

func startConfigFileWatcher(
	ctx context.Context,
	cfgPath string,
	cfg *config.Config,
	logger zerolog.Logger,
	ticker *time.Ticker,
	onChanged func(cfg *config.Config),
) {
	files := &watchedFiles{}
	files.set(cfgPath, cfg)

	logger.Info().Strs("paths", files.list()).Msg("watching config files for changes")
	watcher := fileutils.WatchFiles(ctx, files.list, when(ticker.C), func(err error) {
		logger.Error().Err(err).Msg("could not watch config file")
	})

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case path, ok := <-watcher:
				if !ok {
					return
				}
				logger.Info().Str("path", path).Msg("config file changed, reloading")

				cfg, err := config.LoadFromFile(cfgPath)
				if err != nil {
					logger.Error().Err(err).Msg("could not load config")
					break
				}

				files.set(cfgPath, cfg)
				onChanged(cfg)
			}
		}
	}()
}

func when[T any](ch <-chan T) <-chan struct{} {
	out := make(chan struct{})
	go func() {
		defer close(out)
		for range ch {
			out <- struct{}{}
		}
	}()
	return out
}

type packageJob struct {
	ctx           context.Context
	id            string
	params        packagejob.Params
	storePatterns []string
	maxSize       int64
	dryRun        bool
}

func (j *packageJob) ID() string {
	return j.id
}

// Scheduled rebuilds always replace the previous package.
func (j *packageJob) Run() {
	_, err := packagejob.Build(
		j.ctx,
		j.params,
		packagejob.WithDryRun(j.dryRun),
		packagejob.WithOverwrite(true),
		packagejob.WithMaxSize(j.maxSize),
		packagejob.WithStorePatterns(j.storePatterns),
	)
	if err != nil {
		j.params.Logger.Error().Err(err).Msg("package job failed")
	}
}

// outputKey is the path of the package the job writes.
func (j *packageJob) outputKey() string {
	name := j.params.TableName
	if name == "" {
		name = pathbuilder.RemoveExtension(filepath.Base(j.params.TablePath))
	}
	return filepath.Join(filepath.Clean(j.params.OutputDir), pathbuilder.PackageFileName(name))
}
