package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/wahlware/wahlhost/internal/config"
	"github.com/wahlware/wahlhost/internal/storage"
	"github.com/wahlware/wahlhost/pkg/mapper"
	"github.com/wahlware/wahlhost/pkg/models"
	"github.com/wahlware/wahlhost/pkg/schemas"
	"github.com/wahlware/wahlhost/pkg/types"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// FileService owns the file lifecycle: creating records for completed
// uploads, binding them into question details, deleting them, and running
// the transfer sweep that migrates bytes between the two providers.
type FileService struct {
	db     *gorm.DB
	cnf    *config.StorageConfig
	utfs   storage.UploadHost
	blob   storage.BlobStore
	http   *http.Client
	logger *zap.SugaredLogger
}

func NewFileService(
	db *gorm.DB,
	cnf *config.StorageConfig,
	utfs storage.UploadHost,
	blob storage.BlobStore,
	httpClient *http.Client,
	logger *zap.SugaredLogger) *FileService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	return &FileService{db: db, cnf: cnf, utfs: utfs, blob: blob, http: httpClient, logger: logger}
}

// CreateFile records a completed upload. New files always live in the upload
// host and are queued for migration to the blob store. If binding the file
// into its question detail fails after the insert, the row is kept and the
// caller gets UpdateFailed; a later delete or sweep cleans it up.
func (fs *FileService) CreateFile(ctx context.Context, userID string, in *schemas.FileIn) (*schemas.FileCreateOut, *types.AppError) {

	if appErr := checkInput(in); appErr != nil {
		return nil, appErr
	}

	var question models.Question
	if err := fs.db.WithContext(ctx).Where("id = ?", in.QuestionID).First(&question).Error; err != nil {
		return nil, dbError(err)
	}

	ufsKey := in.UfsKey
	file := models.File{
		Name:           in.Name,
		FileType:       in.FileType,
		MimeType:       in.MimeType,
		Size:           in.Size,
		UfsKey:         &ufsKey,
		URL:            in.URL,
		StoredIn:       storage.ProviderUTFS,
		TargetStorage:  storage.ProviderBlob,
		TransferStatus: models.TransferQueued,
		WahlID:         question.WahlID,
		QuestionID:     question.ID,
		AnswerID:       in.AnswerID,
		Owner:          userID,
	}

	if err := fs.db.WithContext(ctx).Create(&file).Error; err != nil {
		return nil, types.Internal(err)
	}

	detail, appErr := fs.bindImage(ctx, question.Type, question.ID, in.AnswerID, &file.ID)
	if appErr != nil {
		// The row is kept so a later delete or sweep can clean it up.
		return nil, types.NewAppErrorf(types.CodeUpdateFailed,
			"file %s created but binding failed: %v", file.ID, appErr)
	}

	return &schemas.FileCreateOut{File: mapper.ToFileOut(file), Detail: detail}, nil
}

// bindImage points the question detail's image field for answerID at fileID.
// A nil fileID clears the pointer.
func (fs *FileService) bindImage(ctx context.Context, questionType, questionID, answerID string, fileID *string) (interface{}, *types.AppError) {

	switch questionType {
	case models.QuestionInfo:
		var detail models.InfoDetail
		if err := fs.db.WithContext(ctx).Where("question_id = ?", questionID).First(&detail).Error; err != nil {
			return nil, dbError(err)
		}
		if err := fs.db.WithContext(ctx).Model(&detail).Update("image_id", fileID).Error; err != nil {
			return nil, types.Internal(err)
		}
		detail.ImageID = fileID
		return &detail, nil

	case models.QuestionTrueFalse:
		var detail models.TrueFalseDetail
		if err := fs.db.WithContext(ctx).Where("question_id = ?", questionID).First(&detail).Error; err != nil {
			return nil, dbError(err)
		}

		var column string
		if opt := detail.OptionOne.Data(); opt.ID == answerID {
			opt.Image = fileID
			detail.OptionOne = datatypes.NewJSONType(opt)
			column = "option_one"
		} else if opt := detail.OptionTwo.Data(); opt.ID == answerID {
			opt.Image = fileID
			detail.OptionTwo = datatypes.NewJSONType(opt)
			column = "option_two"
		} else {
			return nil, types.NewAppErrorf(types.CodeNotFound,
				"answer %s is not an option of question %s", answerID, questionID)
		}

		value := detail.OptionOne
		if column == "option_two" {
			value = detail.OptionTwo
		}
		if err := fs.db.WithContext(ctx).Model(&detail).Update(column, value).Error; err != nil {
			return nil, types.Internal(err)
		}
		return &detail, nil

	case models.QuestionMultipleChoice:
		var detail models.MultipleChoiceDetail
		if err := fs.db.WithContext(ctx).Where("question_id = ?", questionID).First(&detail).Error; err != nil {
			return nil, dbError(err)
		}

		content := []models.Option(detail.Content)
		idx := -1
		for i := range content {
			if content[i].ID == answerID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, types.NewAppErrorf(types.CodeNotFound,
				"answer %s is not an option of question %s", answerID, questionID)
		}

		// No partial update exists for the embedded list, so the whole
		// column is rewritten.
		content[idx].Image = fileID
		detail.Content = datatypes.NewJSONSlice(content)
		if err := fs.db.WithContext(ctx).Model(&detail).Update("content", detail.Content).Error; err != nil {
			return nil, types.Internal(err)
		}
		return &detail, nil

	default:
		return nil, types.NewAppErrorf(types.CodeInputType, "unknown question type %q", questionType)
	}
}

// UnbindImage clears the image pointer serving questionID/answerID. The root
// question is looked up first since the caller may not know its type.
func (fs *FileService) UnbindImage(ctx context.Context, questionID, answerID string) (interface{}, *types.AppError) {
	var question models.Question
	if err := fs.db.WithContext(ctx).Where("id = ?", questionID).First(&question).Error; err != nil {
		return nil, dbError(err)
	}
	return fs.bindImage(ctx, question.Type, questionID, answerID, nil)
}

// DeleteByID deletes a file's bytes, its question binding and its row, in
// that order. id may be the file id or its answer id.
func (fs *FileService) DeleteByID(ctx context.Context, id string) (*schemas.Message, *types.AppError) {

	var file models.File
	if err := fs.db.WithContext(ctx).Where("id = ?", id).Or("answer_id = ?", id).First(&file).Error; err != nil {
		return nil, dbError(err)
	}

	if file.TransferStatus == models.TransferInProgress {
		return nil, types.NewAppErrorf(types.CodeTranscending,
			"file %s is mid-transfer, retry later", file.ID)
	}

	if file.TransferStatus == models.TransferQueued {
		// Revert the pending transfer so the delete below targets the
		// provider that actually holds the bytes.
		if err := fs.db.WithContext(ctx).Model(&file).Updates(map[string]interface{}{
			"transfer_status": models.TransferIdle,
			"target_storage":  file.StoredIn,
		}).Error; err != nil {
			return nil, types.Internal(err)
		}
		file.TransferStatus = models.TransferIdle
		file.TargetStorage = file.StoredIn
	}

	if appErr := fs.deleteFromProvider(ctx, &file, file.StoredIn); appErr != nil {
		return nil, appErr
	}

	if _, appErr := fs.UnbindImage(ctx, file.QuestionID, file.AnswerID); appErr != nil {
		return nil, appErr
	}

	res := fs.db.WithContext(ctx).Where("id = ?", file.ID).Delete(&models.File{})
	if res.Error != nil {
		return nil, types.Internal(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, types.NewAppErrorf(types.CodeNotFound, "file %s vanished before row delete", file.ID)
	}

	return &schemas.Message{Message: "file deleted"}, nil
}

func (fs *FileService) deleteFromProvider(ctx context.Context, file *models.File, provider storage.Provider) *types.AppError {
	if !provider.Valid() {
		return types.Internal(fmt.Errorf("file %s stored in unknown provider %q", file.ID, provider))
	}

	switch provider {
	case storage.ProviderUTFS:
		if file.UfsKey == nil {
			return types.NewAppErrorf(types.CodeNoProviderIdentifier,
				"file %s has no upload host key", file.ID)
		}
		res, err := fs.utfs.DeleteByKey(ctx, *file.UfsKey)
		if err != nil {
			return types.NewAppError(types.CodeDeleteFailed, err)
		}
		if !res.Success || res.DeletedCount != 1 {
			return types.NewAppErrorf(types.CodeDeleteFailed,
				"upload host reported success=%t deleted=%d for file %s", res.Success, res.DeletedCount, file.ID)
		}
	case storage.ProviderBlob:
		if file.BlobPath == nil {
			return types.NewAppErrorf(types.CodeNoProviderIdentifier,
				"file %s has no blob path", file.ID)
		}
		if err := fs.blob.DeleteByPath(ctx, *file.BlobPath); err != nil {
			return types.NewAppError(types.CodeDeleteFailed, err)
		}
	}
	return nil
}

// RunTransfers is the reconciliation sweep. It is driven externally (cron or
// operator) and processes its backlog sequentially; the first failing file
// aborts the whole invocation and files migrated earlier stay migrated.
func (fs *FileService) RunTransfers(ctx context.Context) (*schemas.TransferReport, *types.AppError) {

	// Queue files that drifted out of sync and reset markers on files whose
	// storage already matches the target.
	if err := fs.db.WithContext(ctx).Model(&models.File{}).
		Where("transfer_status = ? AND stored_in <> target_storage", models.TransferIdle).
		Update("transfer_status", models.TransferQueued).Error; err != nil {
		return nil, types.Internal(err)
	}
	if err := fs.db.WithContext(ctx).Model(&models.File{}).
		Where("transfer_status <> ? AND stored_in = target_storage", models.TransferIdle).
		Update("transfer_status", models.TransferIdle).Error; err != nil {
		return nil, types.Internal(err)
	}

	var files []models.File
	if err := fs.db.WithContext(ctx).Where("transfer_status = ?", models.TransferQueued).
		Find(&files).Error; err != nil {
		return nil, types.Internal(err)
	}

	report := &schemas.TransferReport{Queued: len(files)}

	for i := range files {
		file := &files[i]

		// Conditional claim so a concurrent sweep cannot double-process.
		claim := fs.db.WithContext(ctx).Model(&models.File{}).
			Where("id = ? AND transfer_status = ?", file.ID, models.TransferQueued).
			Update("transfer_status", models.TransferInProgress)
		if claim.Error != nil {
			return nil, types.Internal(claim.Error)
		}
		if claim.RowsAffected == 0 {
			report.Skipped++
			continue
		}
		file.TransferStatus = models.TransferInProgress

		if appErr := fs.transferOne(ctx, file); appErr != nil {
			return nil, appErr
		}
		report.Migrated++
	}

	fs.logger.Infow("transfer sweep finished",
		"queued", report.Queued, "migrated", report.Migrated, "skipped", report.Skipped)

	return report, nil
}

// transferOne runs one migration. Any failure after the claim backs the file
// out to idle so the next sweep re-queues it; in progress is never left
// behind as a terminal state.
func (fs *FileService) transferOne(ctx context.Context, file *models.File) *types.AppError {
	appErr := fs.migrate(ctx, file)
	if appErr != nil && file.TransferStatus == models.TransferInProgress {
		if err := fs.revertToIdle(ctx, file); err != nil {
			return types.Internal(err)
		}
	}
	return appErr
}

func (fs *FileService) migrate(ctx context.Context, file *models.File) *types.AppError {

	data, appErr := fs.fetchBytes(ctx, file)
	if appErr != nil {
		return appErr
	}

	if int64(len(data)) != file.Size {
		return types.NewAppErrorf(types.CodeBlobCorrupted,
			"file %s: fetched %d bytes, expected %d", file.ID, len(data), file.Size)
	}

	if !file.TargetStorage.Valid() {
		return types.Internal(fmt.Errorf("file %s targets unknown provider %q", file.ID, file.TargetStorage))
	}

	updates := map[string]interface{}{}

	switch file.TargetStorage {
	case storage.ProviderUTFS:
		res, err := fs.utfs.UploadFromURL(ctx, file.URL)
		if err != nil {
			return types.NewAppError(types.CodeUploadFailed, err)
		}
		if res.Key == "" || res.URL == "" {
			return types.NewAppErrorf(types.CodeNoProviderIdentifier,
				"upload host returned no key or url for file %s", file.ID)
		}
		key := res.Key
		file.UfsKey = &key
		file.URL = res.URL
		updates["ufs_key"] = res.Key
		updates["url"] = res.URL

	case storage.ProviderBlob:
		path := fmt.Sprintf("%s/%s/%s-%s", fs.cnf.Env, file.Owner, file.ID, file.Name)
		res, err := fs.blob.Put(ctx, path, data, storage.AccessPublic)
		if err != nil {
			return types.NewAppError(types.CodeUploadFailed, err)
		}
		if res.Pathname == "" || res.URL == "" {
			return types.NewAppErrorf(types.CodeNoProviderIdentifier,
				"blob store returned no pathname or url for file %s", file.ID)
		}
		pathname := res.Pathname
		file.BlobPath = &pathname
		file.URL = res.URL
		updates["blob_path"] = res.Pathname
		updates["url"] = res.URL
	}

	if err := fs.db.WithContext(ctx).Model(&models.File{}).Where("id = ?", file.ID).
		Updates(updates).Error; err != nil {
		return types.Internal(err)
	}

	oldProvider := file.StoredIn
	if appErr := fs.deleteFromProvider(ctx, file, oldProvider); appErr != nil {
		return appErr
	}

	flip := map[string]interface{}{
		"stored_in":       file.TargetStorage,
		"transfer_status": models.TransferIdle,
	}
	if oldProvider == storage.ProviderUTFS {
		flip["ufs_key"] = nil
		file.UfsKey = nil
	} else {
		flip["blob_path"] = nil
		file.BlobPath = nil
	}
	if err := fs.db.WithContext(ctx).Model(&models.File{}).Where("id = ?", file.ID).
		Updates(flip).Error; err != nil {
		return types.Internal(err)
	}
	file.StoredIn = file.TargetStorage
	file.TransferStatus = models.TransferIdle

	fs.logger.Infow("migrated file", "file", file.ID, "to", file.StoredIn)

	return nil
}

func (fs *FileService) fetchBytes(ctx context.Context, file *models.File) ([]byte, *types.AppError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.URL, nil)
	if err != nil {
		return nil, types.Internal(err)
	}
	res, err := fs.http.Do(req)
	if err != nil {
		return nil, types.Internal(fmt.Errorf("fetching file %s: %w", file.ID, err))
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, types.Internal(fmt.Errorf("fetching file %s: status %d", file.ID, res.StatusCode))
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, types.Internal(fmt.Errorf("reading file %s: %w", file.ID, err))
	}
	return data, nil
}

// revertToIdle backs a file out of the transfer without touching
// stored_in/target_storage.
func (fs *FileService) revertToIdle(ctx context.Context, file *models.File) error {
	err := fs.db.WithContext(ctx).Model(&models.File{}).Where("id = ?", file.ID).
		Update("transfer_status", models.TransferIdle).Error
	if err == nil {
		file.TransferStatus = models.TransferIdle
	}
	return err
}

// DeleteAllForWahl removes every file owned by a wahl: provider bytes first,
// rows after. Used by the election deletion cascade.
func (fs *FileService) DeleteAllForWahl(ctx context.Context, wahlID string) *types.AppError {
	var files []models.File
	if err := fs.db.WithContext(ctx).Where("wahl_id = ?", wahlID).Find(&files).Error; err != nil {
		return types.Internal(err)
	}

	for i := range files {
		file := &files[i]
		if file.TransferStatus == models.TransferInProgress {
			return types.NewAppErrorf(types.CodeTranscending,
				"file %s is mid-transfer, retry later", file.ID)
		}
		if appErr := fs.deleteFromProvider(ctx, file, file.StoredIn); appErr != nil {
			return appErr
		}
	}

	if err := fs.db.WithContext(ctx).Where("wahl_id = ?", wahlID).Delete(&models.File{}).Error; err != nil {
		return types.Internal(err)
	}
	return nil
}
