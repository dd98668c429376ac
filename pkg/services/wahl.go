package services

import (
	"context"
	"time"

	"github.com/wahlware/wahlhost/internal/cache"
	"github.com/wahlware/wahlhost/internal/database"
	"github.com/wahlware/wahlhost/pkg/mapper"
	"github.com/wahlware/wahlhost/pkg/models"
	"github.com/wahlware/wahlhost/pkg/schemas"
	"github.com/wahlware/wahlhost/pkg/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// WahlService owns elections and their lifecycle status. Status is never
// trusted at rest; every read path that matters re-derives it from the
// stored dates and flags.
type WahlService struct {
	db     *gorm.DB
	cache  cache.Cacher
	files  *FileService
	logger *zap.SugaredLogger
}

func NewWahlService(db *gorm.DB, cacher cache.Cacher, files *FileService, logger *zap.SugaredLogger) *WahlService {
	return &WahlService{db: db, cache: cacher, files: files, logger: logger}
}

// deriveWahl recomputes the lifecycle flags from the clock. It returns the
// desired row state and never touches the database.
func deriveWahl(w models.Wahl, now time.Time) models.Wahl {
	d := w

	if d.IsArchived {
		d.IsActive = false
		d.IsScheduled = false
		d.IsCompleted = true
	} else {
		// The archive date only exists on archived elections.
		d.ArchiveDate = nil

		if !d.IsScheduled {
			// Unpublished elections carry no dates.
			d.StartDate = nil
			d.EndDate = nil
		} else {
			if d.EndDate != nil && d.EndDate.Before(now) {
				d.IsActive = false
				d.IsCompleted = true
			} else if d.StartDate != nil && d.StartDate.Before(now) && !d.IsCompleted {
				d.IsActive = true
			}
		}
	}

	d.Status = statusOf(d)
	return d
}

func statusOf(w models.Wahl) string {
	switch {
	case w.IsArchived:
		return models.WahlStatusArchived
	case w.HasResults:
		return models.WahlStatusResults
	case w.IsCompleted:
		return models.WahlStatusCompleted
	case w.IsActive:
		return models.WahlStatusActive
	case w.IsScheduled:
		return models.WahlStatusQueued
	default:
		return models.WahlStatusDraft
	}
}

// wahlChanges diffs the derived state against the stored row so the write
// below is a no-op when nothing changed.
func wahlChanges(stored, derived *models.Wahl) map[string]interface{} {
	changes := map[string]interface{}{}
	if stored.Status != derived.Status {
		changes["status"] = derived.Status
	}
	if stored.IsActive != derived.IsActive {
		changes["is_active"] = derived.IsActive
	}
	if stored.IsScheduled != derived.IsScheduled {
		changes["is_scheduled"] = derived.IsScheduled
	}
	if stored.IsCompleted != derived.IsCompleted {
		changes["is_completed"] = derived.IsCompleted
	}
	if !equalTime(stored.StartDate, derived.StartDate) {
		changes["start_date"] = derived.StartDate
	}
	if !equalTime(stored.EndDate, derived.EndDate) {
		changes["end_date"] = derived.EndDate
	}
	if !equalTime(stored.ArchiveDate, derived.ArchiveDate) {
		changes["archive_date"] = derived.ArchiveDate
	}
	return changes
}

func equalTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// resolveWahl accepts either a wahl id or a question id.
func (ws *WahlService) resolveWahl(ctx context.Context, id string) (*models.Wahl, *types.AppError) {
	var wahl models.Wahl
	err := ws.db.WithContext(ctx).Where("id = ?", id).First(&wahl).Error
	if err == nil {
		return &wahl, nil
	}
	if !database.IsRecordNotFoundErr(err) {
		return nil, types.Internal(err)
	}

	var question models.Question
	if err := ws.db.WithContext(ctx).Where("id = ?", id).First(&question).Error; err != nil {
		return nil, dbError(err)
	}
	if err := ws.db.WithContext(ctx).Where("id = ?", question.WahlID).First(&wahl).Error; err != nil {
		return nil, dbError(err)
	}
	return &wahl, nil
}

// DeriveStatus recomputes and persists the lifecycle flags of the election
// identified by id (a wahl id or a question id).
func (ws *WahlService) DeriveStatus(ctx context.Context, id string) (*schemas.WahlStatusOut, *types.AppError) {
	wahl, appErr := ws.resolveWahl(ctx, id)
	if appErr != nil {
		return nil, appErr
	}

	derived := deriveWahl(*wahl, time.Now().UTC())
	changes := wahlChanges(wahl, &derived)
	if len(changes) > 0 {
		if err := ws.db.WithContext(ctx).Model(&models.Wahl{}).Where("id = ?", wahl.ID).
			Updates(changes).Error; err != nil {
			return nil, types.Internal(err)
		}
		ws.cache.Delete(cache.KeyWahl(wahl.ID), cache.KeyWahlShortname(wahl.Shortname))
	}

	return mapper.ToWahlStatusOut(derived), nil
}

// ValidateEditability gates mutations of existing records. Only draft and
// queued elections are editable; everything past that point is frozen.
func (ws *WahlService) ValidateEditability(ctx context.Context, id string) *types.AppError {
	status, appErr := ws.DeriveStatus(ctx, id)
	if appErr != nil {
		return appErr
	}
	switch status.Status {
	case models.WahlStatusActive, models.WahlStatusInactive, models.WahlStatusCompleted,
		models.WahlStatusResults, models.WahlStatusArchived:
		return types.NewAppErrorf(types.CodeForbidden,
			"wahl %s is not editable in status %s", status.ID, status.Status)
	}
	return nil
}

func (ws *WahlService) CreateWahl(ctx context.Context, userID string, in *schemas.WahlIn) (*schemas.WahlOut, *types.AppError) {
	if appErr := checkInput(in); appErr != nil {
		return nil, appErr
	}

	wahl := models.Wahl{
		Shortname:   in.Shortname,
		Status:      models.WahlStatusDraft,
		Title:       in.Title,
		Description: in.Description,
		Owner:       userID,
	}
	if err := ws.db.WithContext(ctx).Create(&wahl).Error; err != nil {
		if database.IsKeyConflictErr(err) {
			return nil, types.NewAppErrorf(types.CodeInputType, "shortname %q is taken", in.Shortname)
		}
		return nil, types.Internal(err)
	}
	return mapper.ToWahlOut(wahl), nil
}

func (ws *WahlService) GetWahl(ctx context.Context, id string) (*schemas.WahlOut, *types.AppError) {
	var wahl models.Wahl
	if err := ws.db.WithContext(ctx).Where("id = ?", id).First(&wahl).Error; err != nil {
		return nil, dbError(err)
	}
	return mapper.ToWahlOut(wahl), nil
}

// GetWahlByShortname resolves a subdomain label to its election, through the
// cache.
func (ws *WahlService) GetWahlByShortname(ctx context.Context, shortname string) (*schemas.WahlOut, *types.AppError) {
	wahl, err := cache.Fetch(ws.cache, cache.KeyWahlShortname(shortname), 5*time.Minute,
		func() (models.Wahl, error) {
			var w models.Wahl
			err := ws.db.WithContext(ctx).Where("shortname = ?", shortname).First(&w).Error
			return w, err
		})
	if err != nil {
		return nil, dbError(err)
	}
	return mapper.ToWahlOut(wahl), nil
}

func (ws *WahlService) UpdateWahl(ctx context.Context, id string, in *schemas.WahlUpdate) (*schemas.WahlOut, *types.AppError) {
	if appErr := checkInput(in); appErr != nil {
		return nil, appErr
	}

	var wahl models.Wahl
	if err := ws.db.WithContext(ctx).Where("id = ?", id).First(&wahl).Error; err != nil {
		return nil, dbError(err)
	}

	changes := map[string]interface{}{}
	if in.Title != nil {
		changes["title"] = *in.Title
	}
	if in.Description != nil {
		changes["description"] = *in.Description
	}
	if in.AlertType != nil {
		changes["alert_type"] = *in.AlertType
	}
	if in.AlertMessage != nil {
		changes["alert_message"] = *in.AlertMessage
	}
	if in.StartDate != nil {
		changes["start_date"] = *in.StartDate
	}
	if in.EndDate != nil {
		changes["end_date"] = *in.EndDate
	}
	if in.IsScheduled != nil {
		changes["is_scheduled"] = *in.IsScheduled
	}
	if in.HasResults != nil {
		changes["has_results"] = *in.HasResults
	}
	if in.IsArchived != nil {
		changes["is_archived"] = *in.IsArchived
		if *in.IsArchived && wahl.ArchiveDate == nil {
			changes["archive_date"] = time.Now().UTC()
		}
	}

	if len(changes) > 0 {
		if err := ws.db.WithContext(ctx).Model(&models.Wahl{}).Where("id = ?", wahl.ID).
			Updates(changes).Error; err != nil {
			return nil, types.Internal(err)
		}
		ws.cache.Delete(cache.KeyWahl(wahl.ID), cache.KeyWahlShortname(wahl.Shortname))
	}

	if _, appErr := ws.DeriveStatus(ctx, wahl.ID); appErr != nil {
		return nil, appErr
	}

	var fresh models.Wahl
	if err := ws.db.WithContext(ctx).Where("id = ?", wahl.ID).First(&fresh).Error; err != nil {
		return nil, dbError(err)
	}
	return mapper.ToWahlOut(fresh), nil
}

// DeleteWahl removes the election and everything it owns. Provider bytes go
// first so a failure never strands objects without a row pointing at them.
func (ws *WahlService) DeleteWahl(ctx context.Context, id, userID string) (*schemas.Message, *types.AppError) {
	var wahl models.Wahl
	if err := ws.db.WithContext(ctx).Where("id = ?", id).First(&wahl).Error; err != nil {
		return nil, dbError(err)
	}
	if wahl.Owner != userID {
		return nil, types.NewAppErrorf(types.CodeForbidden, "wahl %s is not owned by caller", id)
	}

	if appErr := ws.files.DeleteAllForWahl(ctx, wahl.ID); appErr != nil {
		return nil, appErr
	}

	if err := ws.db.WithContext(ctx).Where("id = ?", wahl.ID).Delete(&models.Wahl{}).Error; err != nil {
		return nil, types.Internal(err)
	}
	ws.cache.Delete(cache.KeyWahl(wahl.ID), cache.KeyWahlShortname(wahl.Shortname))

	return &schemas.Message{Message: "wahl deleted"}, nil
}

// RefreshStatuses re-derives every non-archived election. Driven by cron.
func (ws *WahlService) RefreshStatuses(ctx context.Context) (int, *types.AppError) {
	var wahlen []models.Wahl
	if err := ws.db.WithContext(ctx).Where("is_archived = ?", false).Find(&wahlen).Error; err != nil {
		return 0, types.Internal(err)
	}

	now := time.Now().UTC()
	updated := 0
	for i := range wahlen {
		derived := deriveWahl(wahlen[i], now)
		changes := wahlChanges(&wahlen[i], &derived)
		if len(changes) == 0 {
			continue
		}
		if err := ws.db.WithContext(ctx).Model(&models.Wahl{}).Where("id = ?", wahlen[i].ID).
			Updates(changes).Error; err != nil {
			return updated, types.Internal(err)
		}
		ws.cache.Delete(cache.KeyWahl(wahlen[i].ID), cache.KeyWahlShortname(wahlen[i].Shortname))
		updated++
	}
	return updated, nil
}
