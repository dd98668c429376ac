package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/wahlware/wahlhost/pkg/mapper"
	"github.com/wahlware/wahlhost/pkg/models"
	"github.com/wahlware/wahlhost/pkg/schemas"
	"github.com/wahlware/wahlhost/pkg/types"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuestionService owns the three question variants. All image binding and
// unbinding goes through the FileService; mutations of existing records are
// gated by election editability.
type QuestionService struct {
	db     *gorm.DB
	files  *FileService
	wahlen *WahlService
	logger *zap.SugaredLogger
}

func NewQuestionService(db *gorm.DB, files *FileService, wahlen *WahlService, logger *zap.SugaredLogger) *QuestionService {
	return &QuestionService{db: db, files: files, wahlen: wahlen, logger: logger}
}

func newOption(in schemas.OptionIn) models.Option {
	return models.Option{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Correct:     in.Correct,
		Colour:      in.Colour,
	}
}

func (qs *QuestionService) CreateQuestion(ctx context.Context, in *schemas.QuestionIn) (*schemas.QuestionOut, *types.AppError) {
	if appErr := checkInput(in); appErr != nil {
		return nil, appErr
	}

	switch in.Type {
	case models.QuestionInfo:
		if len(in.Options) != 0 {
			return nil, types.NewAppErrorf(types.CodeInputType, "info questions take no options")
		}
	case models.QuestionTrueFalse:
		if len(in.Options) != 2 {
			return nil, types.NewAppErrorf(types.CodeInputType, "true_false questions take exactly two options")
		}
	case models.QuestionMultipleChoice:
		if len(in.Options) == 0 {
			return nil, types.NewAppErrorf(types.CodeInputType, "multiple_choice questions take at least one option")
		}
	}

	var wahl models.Wahl
	if err := qs.db.WithContext(ctx).Where("id = ?", in.WahlID).First(&wahl).Error; err != nil {
		return nil, dbError(err)
	}

	question := models.Question{
		ID:       uuid.NewString(),
		WahlID:   wahl.ID,
		Type:     in.Type,
		DetailID: uuid.NewString(),
	}

	var detail interface{}

	err := qs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&question).Error; err != nil {
			return err
		}

		switch in.Type {
		case models.QuestionInfo:
			d := models.InfoDetail{
				ID:          question.DetailID,
				QuestionID:  question.ID,
				Title:       in.Title,
				Description: in.Description,
			}
			if err := tx.Create(&d).Error; err != nil {
				return err
			}
			detail = &d

		case models.QuestionTrueFalse:
			d := models.TrueFalseDetail{
				ID:          question.DetailID,
				QuestionID:  question.ID,
				Title:       in.Title,
				Description: in.Description,
				OptionOne:   datatypes.NewJSONType(newOption(in.Options[0])),
				OptionTwo:   datatypes.NewJSONType(newOption(in.Options[1])),
			}
			if err := tx.Create(&d).Error; err != nil {
				return err
			}
			detail = &d

		case models.QuestionMultipleChoice:
			content := make([]models.Option, 0, len(in.Options))
			for _, opt := range in.Options {
				content = append(content, newOption(opt))
			}
			d := models.MultipleChoiceDetail{
				ID:          question.DetailID,
				QuestionID:  question.ID,
				Title:       in.Title,
				Description: in.Description,
				Content:     datatypes.NewJSONSlice(content),
			}
			if err := tx.Create(&d).Error; err != nil {
				return err
			}
			detail = &d
		}
		return nil
	})
	if err != nil {
		return nil, types.Internal(err)
	}

	return mapper.ToQuestionOut(question, detail), nil
}

func (qs *QuestionService) loadDetail(ctx context.Context, question *models.Question) (interface{}, *types.AppError) {
	switch question.Type {
	case models.QuestionInfo:
		var d models.InfoDetail
		if err := qs.db.WithContext(ctx).Where("question_id = ?", question.ID).First(&d).Error; err != nil {
			return nil, dbError(err)
		}
		return &d, nil
	case models.QuestionTrueFalse:
		var d models.TrueFalseDetail
		if err := qs.db.WithContext(ctx).Where("question_id = ?", question.ID).First(&d).Error; err != nil {
			return nil, dbError(err)
		}
		return &d, nil
	case models.QuestionMultipleChoice:
		var d models.MultipleChoiceDetail
		if err := qs.db.WithContext(ctx).Where("question_id = ?", question.ID).First(&d).Error; err != nil {
			return nil, dbError(err)
		}
		return &d, nil
	default:
		return nil, types.NewAppErrorf(types.CodeInputType, "unknown question type %q", question.Type)
	}
}

func (qs *QuestionService) GetQuestion(ctx context.Context, id string) (*schemas.QuestionOut, *types.AppError) {
	var question models.Question
	if err := qs.db.WithContext(ctx).Where("id = ?", id).First(&question).Error; err != nil {
		return nil, dbError(err)
	}
	detail, appErr := qs.loadDetail(ctx, &question)
	if appErr != nil {
		return nil, appErr
	}
	return mapper.ToQuestionOut(question, detail), nil
}

func (qs *QuestionService) ListQuestions(ctx context.Context, wahlID string) ([]*schemas.QuestionOut, *types.AppError) {
	var questions []models.Question
	if err := qs.db.WithContext(ctx).Where("wahl_id = ?", wahlID).
		Order("created_at ASC").Find(&questions).Error; err != nil {
		return nil, types.Internal(err)
	}

	out := make([]*schemas.QuestionOut, 0, len(questions))
	for i := range questions {
		detail, appErr := qs.loadDetail(ctx, &questions[i])
		if appErr != nil {
			return nil, appErr
		}
		out = append(out, mapper.ToQuestionOut(questions[i], detail))
	}
	return out, nil
}

// UpdateQuestion edits an existing question. Multiple-choice option diffs run
// in delete, edit, add order so ids cannot collide between phases.
func (qs *QuestionService) UpdateQuestion(ctx context.Context, id string, in *schemas.QuestionUpdate) (*schemas.QuestionOut, *types.AppError) {
	if appErr := checkInput(in); appErr != nil {
		return nil, appErr
	}
	if appErr := qs.wahlen.ValidateEditability(ctx, id); appErr != nil {
		return nil, appErr
	}

	var question models.Question
	if err := qs.db.WithContext(ctx).Where("id = ?", id).First(&question).Error; err != nil {
		return nil, dbError(err)
	}

	changes := map[string]interface{}{}
	if in.Title != nil {
		changes["title"] = *in.Title
	}
	if in.Description != nil {
		changes["description"] = *in.Description
	}

	switch question.Type {
	case models.QuestionInfo:
		if len(changes) > 0 {
			if err := qs.db.WithContext(ctx).Model(&models.InfoDetail{}).
				Where("question_id = ?", question.ID).Updates(changes).Error; err != nil {
				return nil, types.Internal(err)
			}
		}

	case models.QuestionTrueFalse:
		var detail models.TrueFalseDetail
		if err := qs.db.WithContext(ctx).Where("question_id = ?", question.ID).First(&detail).Error; err != nil {
			return nil, dbError(err)
		}
		for _, edit := range in.Edited {
			if opt := detail.OptionOne.Data(); opt.ID == edit.ID {
				changes["option_one"] = datatypes.NewJSONType(patchOption(opt, edit))
			} else if opt := detail.OptionTwo.Data(); opt.ID == edit.ID {
				changes["option_two"] = datatypes.NewJSONType(patchOption(opt, edit))
			} else {
				return nil, types.NewAppErrorf(types.CodeNotFound,
					"option %s is not part of question %s", edit.ID, question.ID)
			}
		}
		if len(changes) > 0 {
			if err := qs.db.WithContext(ctx).Model(&detail).Updates(changes).Error; err != nil {
				return nil, types.Internal(err)
			}
		}

	case models.QuestionMultipleChoice:
		if appErr := qs.updateChoices(ctx, &question, in, changes); appErr != nil {
			return nil, appErr
		}
	}

	if err := qs.db.WithContext(ctx).Model(&models.Question{}).Where("id = ?", question.ID).
		Update("updated_at", qs.db.NowFunc()).Error; err != nil {
		return nil, types.Internal(err)
	}

	return qs.GetQuestion(ctx, question.ID)
}

func patchOption(opt models.Option, edit schemas.OptionEdit) models.Option {
	if edit.Title != nil {
		opt.Title = *edit.Title
	}
	if edit.Description != nil {
		opt.Description = *edit.Description
	}
	if edit.Correct != nil {
		opt.Correct = *edit.Correct
	}
	if edit.Colour != nil {
		opt.Colour = *edit.Colour
	}
	return opt
}

func (qs *QuestionService) updateChoices(ctx context.Context, question *models.Question, in *schemas.QuestionUpdate, changes map[string]interface{}) *types.AppError {

	var detail models.MultipleChoiceDetail
	if err := qs.db.WithContext(ctx).Where("question_id = ?", question.ID).First(&detail).Error; err != nil {
		return dbError(err)
	}

	// Phase one: deletions, including the bound image of each removed
	// option. DeleteByID unbinds through the detail row, so it is reloaded
	// afterwards.
	for _, deletedID := range in.Deleted {
		var match *models.Option
		for i := range detail.Content {
			if detail.Content[i].ID == deletedID {
				match = &detail.Content[i]
				break
			}
		}
		if match == nil {
			return types.NewAppErrorf(types.CodeNotFound,
				"option %s is not part of question %s", deletedID, question.ID)
		}
		if match.Image != nil {
			if _, appErr := qs.files.DeleteByID(ctx, deletedID); appErr != nil {
				return appErr
			}
		}
	}

	if len(in.Deleted) > 0 {
		if err := qs.db.WithContext(ctx).Where("question_id = ?", question.ID).First(&detail).Error; err != nil {
			return dbError(err)
		}
	}

	content := []models.Option(detail.Content)

	if len(in.Deleted) > 0 {
		deleted := make(map[string]bool, len(in.Deleted))
		for _, id := range in.Deleted {
			deleted[id] = true
		}
		kept := content[:0]
		for _, opt := range content {
			if !deleted[opt.ID] {
				kept = append(kept, opt)
			}
		}
		content = kept
	}

	// Phase two: in-place edits.
	for _, edit := range in.Edited {
		found := false
		for i := range content {
			if content[i].ID == edit.ID {
				content[i] = patchOption(content[i], edit)
				found = true
				break
			}
		}
		if !found {
			return types.NewAppErrorf(types.CodeNotFound,
				"option %s is not part of question %s", edit.ID, question.ID)
		}
	}

	// Phase three: additions with fresh ids.
	for _, add := range in.Added {
		content = append(content, newOption(add))
	}

	changes["content"] = datatypes.NewJSONSlice(content)
	if err := qs.db.WithContext(ctx).Model(&detail).Updates(changes).Error; err != nil {
		return types.Internal(err)
	}
	return nil
}

// DeleteQuestion removes a question and everything hanging off it: bound
// images first (through the file engine), then the detail row, then the root.
func (qs *QuestionService) DeleteQuestion(ctx context.Context, id string) (*schemas.Message, *types.AppError) {
	if appErr := qs.wahlen.ValidateEditability(ctx, id); appErr != nil {
		return nil, appErr
	}

	var question models.Question
	if err := qs.db.WithContext(ctx).Where("id = ?", id).First(&question).Error; err != nil {
		return nil, dbError(err)
	}

	detail, appErr := qs.loadDetail(ctx, &question)
	if appErr != nil {
		return nil, appErr
	}

	var images []string
	switch d := detail.(type) {
	case *models.InfoDetail:
		if d.ImageID != nil {
			images = append(images, *d.ImageID)
		}
	case *models.TrueFalseDetail:
		if img := d.OptionOne.Data().Image; img != nil {
			images = append(images, *img)
		}
		if img := d.OptionTwo.Data().Image; img != nil {
			images = append(images, *img)
		}
	case *models.MultipleChoiceDetail:
		for _, opt := range d.Content {
			if opt.Image != nil {
				images = append(images, *opt.Image)
			}
		}
	}

	for _, imageID := range images {
		if _, appErr := qs.files.DeleteByID(ctx, imageID); appErr != nil {
			return nil, appErr
		}
	}

	err := qs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch question.Type {
		case models.QuestionInfo:
			if err := tx.Where("question_id = ?", question.ID).Delete(&models.InfoDetail{}).Error; err != nil {
				return err
			}
		case models.QuestionTrueFalse:
			if err := tx.Where("question_id = ?", question.ID).Delete(&models.TrueFalseDetail{}).Error; err != nil {
				return err
			}
		case models.QuestionMultipleChoice:
			if err := tx.Where("question_id = ?", question.ID).Delete(&models.MultipleChoiceDetail{}).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ?", question.ID).Delete(&models.Question{}).Error
	})
	if err != nil {
		return nil, types.Internal(err)
	}

	return &schemas.Message{Message: "question deleted"}, nil
}
