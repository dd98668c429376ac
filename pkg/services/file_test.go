package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/wahlware/wahlhost/internal/config"
	"github.com/wahlware/wahlhost/internal/database"
	"github.com/wahlware/wahlhost/internal/logging"
	"github.com/wahlware/wahlhost/internal/storage"
	"github.com/wahlware/wahlhost/pkg/models"
	"github.com/wahlware/wahlhost/pkg/schemas"
	"github.com/wahlware/wahlhost/pkg/types"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fakeUploadHost struct {
	deletedKeys  []string
	deleteResult storage.DeleteResult
	deleteErr    error
	uploadResult storage.UploadResult
	uploadErr    error
}

func (f *fakeUploadHost) UploadFromURL(ctx context.Context, srcURL string) (*storage.UploadResult, error) {
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	res := f.uploadResult
	return &res, nil
}

func (f *fakeUploadHost) DeleteByKey(ctx context.Context, key string) (*storage.DeleteResult, error) {
	f.deletedKeys = append(f.deletedKeys, key)
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	res := f.deleteResult
	return &res, nil
}

type fakeBlobStore struct {
	deletedPaths []string
	putPaths     []string
	putErr       error
	deleteErr    error
	urlBase      string
}

func (f *fakeBlobStore) Put(ctx context.Context, path string, data []byte, access storage.Access) (*storage.PutResult, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	f.putPaths = append(f.putPaths, path)
	return &storage.PutResult{Pathname: path, URL: f.urlBase + "/" + path}, nil
}

func (f *fakeBlobStore) DeleteByPath(ctx context.Context, path string) error {
	f.deletedPaths = append(f.deletedPaths, path)
	return f.deleteErr
}

type FileServiceSuite struct {
	suite.Suite
	db   *gorm.DB
	srv  *FileService
	utfs *fakeUploadHost
	blob *fakeBlobStore
	ts   *httptest.Server

	payload []byte
}

func TestFileServiceSuite(t *testing.T) {
	suite.Run(t, new(FileServiceSuite))
}

func (s *FileServiceSuite) SetupSuite() {
	s.db = database.NewTestDatabase(s.T(), true)
	s.ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(s.payload)
	}))
}

func (s *FileServiceSuite) TearDownSuite() {
	if s.ts != nil {
		s.ts.Close()
	}
}

func (s *FileServiceSuite) SetupTest() {
	s.db.Where("id is not NULL").Delete(&models.File{})
	s.db.Where("id is not NULL").Delete(&models.TrueFalseDetail{})
	s.db.Where("id is not NULL").Delete(&models.MultipleChoiceDetail{})
	s.db.Where("id is not NULL").Delete(&models.InfoDetail{})
	s.db.Where("id is not NULL").Delete(&models.Question{})
	s.db.Where("id is not NULL").Delete(&models.Wahl{})

	s.utfs = &fakeUploadHost{deleteResult: storage.DeleteResult{Success: true, DeletedCount: 1}}
	s.blob = &fakeBlobStore{urlBase: "https://cdn.example.com"}
	s.payload = []byte("image-bytes")

	cnf := &config.StorageConfig{Env: "test"}
	s.srv = NewFileService(s.db, cnf, s.utfs, s.blob, s.ts.Client(), logging.DefaultLogger().Sugar())
}

func (s *FileServiceSuite) seedWahl() *models.Wahl {
	wahl := models.Wahl{
		Shortname: "w" + uuid.NewString()[:12],
		Status:    models.WahlStatusDraft,
		Title:     "Test Wahl",
		Owner:     "user-1",
	}
	s.Require().NoError(s.db.Create(&wahl).Error)
	return &wahl
}

func (s *FileServiceSuite) seedTrueFalse(wahl *models.Wahl) (*models.Question, *models.TrueFalseDetail) {
	q := models.Question{
		ID:       uuid.NewString(),
		WahlID:   wahl.ID,
		Type:     models.QuestionTrueFalse,
		DetailID: uuid.NewString(),
	}
	s.Require().NoError(s.db.Create(&q).Error)

	detail := models.TrueFalseDetail{
		ID:         q.DetailID,
		QuestionID: q.ID,
		Title:      "yes or no",
		OptionOne:  datatypes.NewJSONType(models.Option{ID: uuid.NewString(), Title: "yes"}),
		OptionTwo:  datatypes.NewJSONType(models.Option{ID: uuid.NewString(), Title: "no"}),
	}
	s.Require().NoError(s.db.Create(&detail).Error)
	return &q, &detail
}

func (s *FileServiceSuite) seedMultipleChoice(wahl *models.Wahl, options ...models.Option) (*models.Question, *models.MultipleChoiceDetail) {
	q := models.Question{
		ID:       uuid.NewString(),
		WahlID:   wahl.ID,
		Type:     models.QuestionMultipleChoice,
		DetailID: uuid.NewString(),
	}
	s.Require().NoError(s.db.Create(&q).Error)

	detail := models.MultipleChoiceDetail{
		ID:         q.DetailID,
		QuestionID: q.ID,
		Title:      "pick one",
		Content:    datatypes.NewJSONSlice(options),
	}
	s.Require().NoError(s.db.Create(&detail).Error)
	return &q, &detail
}

func (s *FileServiceSuite) fileIn(q *models.Question, answerID string) *schemas.FileIn {
	return &schemas.FileIn{
		Name:       "logo.png",
		FileType:   models.FileTypeLogo,
		MimeType:   "image/png",
		Size:       int64(len(s.payload)),
		UfsKey:     "k123456789012345678901234567890123456789012345678"[:48],
		URL:        s.ts.URL + "/f/logo.png",
		QuestionID: q.ID,
		AnswerID:   answerID,
	}
}

func (s *FileServiceSuite) TestCreateFileQueuesTransferAndBinds() {
	wahl := s.seedWahl()
	q, detail := s.seedTrueFalse(wahl)
	answerID := detail.OptionTwo.Data().ID

	res, appErr := s.srv.CreateFile(context.Background(), "user-1", s.fileIn(q, answerID))
	s.Require().Nil(appErr)

	s.Equal(storage.ProviderUTFS, res.File.StoredIn)
	s.Equal(storage.ProviderBlob, res.File.TargetStorage)
	s.Equal(models.TransferQueued, res.File.TransferStatus)

	var fresh models.TrueFalseDetail
	s.Require().NoError(s.db.Where("question_id = ?", q.ID).First(&fresh).Error)
	s.Require().NotNil(fresh.OptionTwo.Data().Image)
	s.Equal(res.File.ID, *fresh.OptionTwo.Data().Image)
	s.Nil(fresh.OptionOne.Data().Image)
}

func (s *FileServiceSuite) TestCreateFileUnknownOptionKeepsRow() {
	wahl := s.seedWahl()
	q, detail := s.seedMultipleChoice(wahl, models.Option{ID: uuid.NewString(), Title: "a"})

	res, appErr := s.srv.CreateFile(context.Background(), "user-1", s.fileIn(q, uuid.NewString()))
	s.Require().NotNil(appErr)
	s.Nil(res)
	s.Equal(types.CodeUpdateFailed, appErr.Code)

	// The orphaned row stays for a later delete or sweep to pick up.
	var count int64
	s.db.Model(&models.File{}).Where("question_id = ?", q.ID).Count(&count)
	s.Equal(int64(1), count)

	var fresh models.MultipleChoiceDetail
	s.Require().NoError(s.db.Where("question_id = ?", q.ID).First(&fresh).Error)
	s.Equal(detail.Content, fresh.Content)
}

func (s *FileServiceSuite) TestDeleteInProgressIsRefused() {
	wahl := s.seedWahl()
	q, detail := s.seedTrueFalse(wahl)
	answerID := detail.OptionOne.Data().ID

	res, appErr := s.srv.CreateFile(context.Background(), "user-1", s.fileIn(q, answerID))
	s.Require().Nil(appErr)

	s.Require().NoError(s.db.Model(&models.File{}).Where("id = ?", res.File.ID).
		Update("transfer_status", models.TransferInProgress).Error)

	_, appErr = s.srv.DeleteByID(context.Background(), res.File.ID)
	s.Require().NotNil(appErr)
	s.Equal(types.CodeTranscending, appErr.Code)

	var count int64
	s.db.Model(&models.File{}).Where("id = ?", res.File.ID).Count(&count)
	s.Equal(int64(1), count)
	s.Empty(s.utfs.deletedKeys)
}

func (s *FileServiceSuite) TestDeleteQueuedRevertsThenDeletes() {
	wahl := s.seedWahl()
	q, detail := s.seedTrueFalse(wahl)
	answerID := detail.OptionOne.Data().ID

	res, appErr := s.srv.CreateFile(context.Background(), "user-1", s.fileIn(q, answerID))
	s.Require().Nil(appErr)

	_, appErr = s.srv.DeleteByID(context.Background(), res.File.ID)
	s.Require().Nil(appErr)

	s.Equal([]string{*res.File.UfsKey}, s.utfs.deletedKeys)
	s.Empty(s.blob.deletedPaths)

	var count int64
	s.db.Model(&models.File{}).Where("id = ?", res.File.ID).Count(&count)
	s.Equal(int64(0), count)

	var fresh models.TrueFalseDetail
	s.Require().NoError(s.db.Where("question_id = ?", q.ID).First(&fresh).Error)
	s.Nil(fresh.OptionOne.Data().Image)
}

func (s *FileServiceSuite) TestDeleteByAnswerID() {
	wahl := s.seedWahl()
	q, detail := s.seedTrueFalse(wahl)
	answerID := detail.OptionTwo.Data().ID

	_, appErr := s.srv.CreateFile(context.Background(), "user-1", s.fileIn(q, answerID))
	s.Require().Nil(appErr)

	_, appErr = s.srv.DeleteByID(context.Background(), answerID)
	s.Require().Nil(appErr)

	var count int64
	s.db.Model(&models.File{}).Where("answer_id = ?", answerID).Count(&count)
	s.Equal(int64(0), count)
}

func (s *FileServiceSuite) TestSweepMigratesToBlob() {
	wahl := s.seedWahl()
	q, detail := s.seedTrueFalse(wahl)
	answerID := detail.OptionTwo.Data().ID

	res, appErr := s.srv.CreateFile(context.Background(), "user-1", s.fileIn(q, answerID))
	s.Require().Nil(appErr)

	report, appErr := s.srv.RunTransfers(context.Background())
	s.Require().Nil(appErr)
	s.Equal(1, report.Queued)
	s.Equal(1, report.Migrated)
	s.Equal(0, report.Skipped)

	var file models.File
	s.Require().NoError(s.db.Where("id = ?", res.File.ID).First(&file).Error)
	s.Equal(storage.ProviderBlob, file.StoredIn)
	s.Equal(models.TransferIdle, file.TransferStatus)
	s.Nil(file.UfsKey)
	s.Require().NotNil(file.BlobPath)
	s.Equal(fmt.Sprintf("test/user-1/%s-logo.png", file.ID), *file.BlobPath)
	s.Equal("https://cdn.example.com/"+*file.BlobPath, file.URL)

	// The old provider's bytes were removed after the upload succeeded.
	s.Equal([]string{*res.File.UfsKey}, s.utfs.deletedKeys)

	// The binding survives the migration untouched.
	var fresh models.TrueFalseDetail
	s.Require().NoError(s.db.Where("question_id = ?", q.ID).First(&fresh).Error)
	s.Require().NotNil(fresh.OptionTwo.Data().Image)
	s.Equal(file.ID, *fresh.OptionTwo.Data().Image)
}

func (s *FileServiceSuite) TestSweepSizeMismatchAborts() {
	wahl := s.seedWahl()
	q, detail := s.seedTrueFalse(wahl)
	answerID := detail.OptionOne.Data().ID

	res, appErr := s.srv.CreateFile(context.Background(), "user-1", s.fileIn(q, answerID))
	s.Require().Nil(appErr)

	s.payload = []byte("short")

	_, appErr = s.srv.RunTransfers(context.Background())
	s.Require().NotNil(appErr)
	s.Equal(types.CodeBlobCorrupted, appErr.Code)

	var file models.File
	s.Require().NoError(s.db.Where("id = ?", res.File.ID).First(&file).Error)
	s.Equal(models.TransferIdle, file.TransferStatus)
	s.Equal(storage.ProviderUTFS, file.StoredIn)
	s.Equal(storage.ProviderBlob, file.TargetStorage)
	s.Empty(s.blob.putPaths)
}

func (s *FileServiceSuite) TestSweepUploadFailureLeavesFileRecoverable() {
	wahl := s.seedWahl()
	q, detail := s.seedTrueFalse(wahl)
	answerID := detail.OptionOne.Data().ID

	res, appErr := s.srv.CreateFile(context.Background(), "user-1", s.fileIn(q, answerID))
	s.Require().Nil(appErr)

	s.blob.putErr = errors.New("access denied")

	_, appErr = s.srv.RunTransfers(context.Background())
	s.Require().NotNil(appErr)
	s.Equal(types.CodeUploadFailed, appErr.Code)

	// The claim is rolled back, not left behind; the next sweep re-queues
	// the file and a delete is not refused.
	var file models.File
	s.Require().NoError(s.db.Where("id = ?", res.File.ID).First(&file).Error)
	s.Equal(models.TransferIdle, file.TransferStatus)
	s.Equal(storage.ProviderUTFS, file.StoredIn)
	s.Equal(storage.ProviderBlob, file.TargetStorage)
	s.Require().NotNil(file.UfsKey)

	_, appErr = s.srv.DeleteByID(context.Background(), res.File.ID)
	s.Require().Nil(appErr)
}

func (s *FileServiceSuite) TestSweepOldProviderDeleteFailureReverts() {
	wahl := s.seedWahl()
	q, detail := s.seedTrueFalse(wahl)
	answerID := detail.OptionOne.Data().ID

	res, appErr := s.srv.CreateFile(context.Background(), "user-1", s.fileIn(q, answerID))
	s.Require().Nil(appErr)

	s.utfs.deleteErr = errors.New("upstream timeout")

	_, appErr = s.srv.RunTransfers(context.Background())
	s.Require().NotNil(appErr)
	s.Equal(types.CodeDeleteFailed, appErr.Code)

	var file models.File
	s.Require().NoError(s.db.Where("id = ?", res.File.ID).First(&file).Error)
	s.Equal(models.TransferIdle, file.TransferStatus)
	s.Equal(storage.ProviderUTFS, file.StoredIn)
}

func (s *FileServiceSuite) TestUnbindThenRebindEqualsDirectBind() {
	wahl := s.seedWahl()
	q, detail := s.seedTrueFalse(wahl)
	answerID := detail.OptionOne.Data().ID

	first, appErr := s.srv.CreateFile(context.Background(), "user-1", s.fileIn(q, answerID))
	s.Require().Nil(appErr)

	_, appErr = s.srv.UnbindImage(context.Background(), q.ID, answerID)
	s.Require().Nil(appErr)

	var cleared models.TrueFalseDetail
	s.Require().NoError(s.db.Where("question_id = ?", q.ID).First(&cleared).Error)
	s.Nil(cleared.OptionOne.Data().Image)

	second, appErr := s.srv.CreateFile(context.Background(), "user-1", s.fileIn(q, answerID))
	s.Require().Nil(appErr)
	s.NotEqual(first.File.ID, second.File.ID)

	// Same end state as binding the second file directly: only the image
	// pointer differs from the seeded option.
	var fresh models.TrueFalseDetail
	s.Require().NoError(s.db.Where("question_id = ?", q.ID).First(&fresh).Error)
	s.Require().NotNil(fresh.OptionOne.Data().Image)
	s.Equal(second.File.ID, *fresh.OptionOne.Data().Image)

	want := detail.OptionOne.Data()
	got := fresh.OptionOne.Data()
	got.Image = nil
	s.Equal(want, got)
	s.Equal(detail.OptionTwo.Data(), fresh.OptionTwo.Data())
}

func (s *FileServiceSuite) TestSweepQueuesDriftedIdleFiles() {
	wahl := s.seedWahl()
	q, detail := s.seedTrueFalse(wahl)
	answerID := detail.OptionOne.Data().ID

	res, appErr := s.srv.CreateFile(context.Background(), "user-1", s.fileIn(q, answerID))
	s.Require().Nil(appErr)

	// Drifted: idle but stored_in does not match target_storage.
	s.Require().NoError(s.db.Model(&models.File{}).Where("id = ?", res.File.ID).
		Update("transfer_status", models.TransferIdle).Error)

	report, appErr := s.srv.RunTransfers(context.Background())
	s.Require().Nil(appErr)
	s.Equal(1, report.Migrated)
}

func (s *FileServiceSuite) TestDeleteAllForWahl() {
	wahl := s.seedWahl()
	q, detail := s.seedTrueFalse(wahl)

	_, appErr := s.srv.CreateFile(context.Background(), "user-1", s.fileIn(q, detail.OptionOne.Data().ID))
	s.Require().Nil(appErr)
	_, appErr = s.srv.CreateFile(context.Background(), "user-1", s.fileIn(q, detail.OptionTwo.Data().ID))
	s.Require().Nil(appErr)

	appErr = s.srv.DeleteAllForWahl(context.Background(), wahl.ID)
	s.Require().Nil(appErr)

	s.Len(s.utfs.deletedKeys, 2)

	var count int64
	s.db.Model(&models.File{}).Where("wahl_id = ?", wahl.ID).Count(&count)
	s.Equal(int64(0), count)
}
