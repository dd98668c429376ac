package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/wahlware/wahlhost/api"
	"github.com/wahlware/wahlhost/internal/cache"
	"github.com/wahlware/wahlhost/internal/config"
	"github.com/wahlware/wahlhost/internal/database"
	"github.com/wahlware/wahlhost/internal/logging"
	"github.com/wahlware/wahlhost/internal/storage"
	"github.com/wahlware/wahlhost/pkg/controller"
	"github.com/wahlware/wahlhost/pkg/cron"
	"github.com/wahlware/wahlhost/pkg/services"
	"go.uber.org/zap/zapcore"
)

func NewRun() *cobra.Command {
	var cfg config.ServerCmdConfig
	loader := config.NewConfigLoader()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start Wahlhost Server",
		Run: func(cmd *cobra.Command, args []string) {
			runApplication(cmd.Context(), &cfg)
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loader.InitializeConfig(cmd); err != nil {
				return err
			}
			return loader.Load(&cfg)
		},
	}
	config.AddCommonFlags(cmd.Flags(), &cfg)
	return cmd
}

func runApplication(ctx context.Context, conf *config.ServerCmdConfig) {
	lvl, err := zapcore.ParseLevel(conf.Log.Level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	logging.SetLevel(lvl)
	logging.SetConfig(&logging.Config{FilePath: conf.Log.File})

	lg := logging.DefaultLogger().Sugar()

	defer lg.Sync()

	cacher := cache.NewCache(ctx, &conf.Cache)

	db, err := database.NewDatabase(&conf.DB, lg)
	if err != nil {
		lg.Fatalw("failed to create database", "err", err)
	}

	if err := database.MigrateDB(db); err != nil {
		lg.Fatalw("failed to migrate database", "err", err)
	}

	utfs := storage.NewUTFSClient(&conf.Storage.UTFS, nil)

	blob, err := storage.NewBlobClient(ctx, &conf.Storage.Blob)
	if err != nil {
		lg.Fatalw("failed to create blob client", "err", err)
	}

	files := services.NewFileService(db, &conf.Storage, utfs, blob, nil, lg)
	wahlen := services.NewWahlService(db, cacher, files, lg)
	questions := services.NewQuestionService(db, files, wahlen, lg)
	voters := services.NewVoterService(db, lg)
	routing := services.NewRoutingService(&conf.App, wahlen, lg)

	ctrl := controller.NewController(files, questions, wahlen, voters, routing)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", conf.Server.Port),
		Handler:           api.InitRouter(conf, ctrl, logging.DefaultLogger()),
		ReadTimeout:       conf.Server.ReadTimeout,
		WriteTimeout:      conf.Server.WriteTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	if conf.CronJobs.Enable {
		cron.StartCronJobs(&conf.CronJobs, files, wahlen)
	}

	go func() {
		lg.Infof("Server started at http://localhost:%d", conf.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Errorw("failed to start server", "err", err)
		}
	}()

	<-ctx.Done()

	lg.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), conf.Server.GracefulShutdown)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Errorw("server shutdown failed", "err", err)
	}

	lg.Info("Server stopped")
}
