package cron

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/wahlware/wahlhost/internal/config"
	"github.com/wahlware/wahlhost/internal/logging"
	"github.com/wahlware/wahlhost/pkg/services"
	"go.uber.org/zap"
)

type CronService struct {
	cnf    *config.CronJobConfig
	files  *services.FileService
	wahlen *services.WahlService
	logger *zap.SugaredLogger
}

// StartCronJobs schedules the transfer sweep and the election status refresh.
// Both jobs are also reachable through the API so an operator can re-run them
// after a sweep abort.
func StartCronJobs(cnf *config.CronJobConfig, files *services.FileService, wahlen *services.WahlService) *gocron.Scheduler {
	scheduler := gocron.NewScheduler(time.UTC)

	ctx := context.Background()

	cron := CronService{cnf: cnf, files: files, wahlen: wahlen, logger: logging.DefaultLogger().Sugar()}

	scheduler.Every(cnf.TransferInterval).Do(cron.RunTransfers, ctx)

	scheduler.Every(cnf.StatusRefreshInterval).Do(cron.RefreshStatuses, ctx)

	scheduler.StartAsync()

	return scheduler
}

func (c *CronService) RunTransfers(ctx context.Context) {
	report, appErr := c.files.RunTransfers(ctx)
	if appErr != nil {
		c.logger.Errorw("transfer sweep aborted", "code", appErr.Code, "error", appErr.Error())
		return
	}
	if report.Queued > 0 {
		c.logger.Infow("transfer sweep finished",
			"queued", report.Queued, "migrated", report.Migrated, "skipped", report.Skipped)
	}
}

func (c *CronService) RefreshStatuses(ctx context.Context) {
	updated, appErr := c.wahlen.RefreshStatuses(ctx)
	if appErr != nil {
		c.logger.Errorw("status refresh failed", "error", appErr.Error())
		return
	}
	if updated > 0 {
		c.logger.Infow("status refresh finished", "updated", updated)
	}
}
