package services

import (
	"context"

	"github.com/wahlware/wahlhost/internal/database"
	"github.com/wahlware/wahlhost/pkg/mapper"
	"github.com/wahlware/wahlhost/pkg/models"
	"github.com/wahlware/wahlhost/pkg/schemas"
	"github.com/wahlware/wahlhost/pkg/types"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// VoterService handles the voter roll and cast ballots. Ballots and
// signatures are opaque blobs; presence is the only check applied here.
type VoterService struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

func NewVoterService(db *gorm.DB, logger *zap.SugaredLogger) *VoterService {
	return &VoterService{db: db, logger: logger}
}

func (vs *VoterService) RegisterVoter(ctx context.Context, wahlID string, in *schemas.VoterIn) (*schemas.VoterOut, *types.AppError) {
	if appErr := checkInput(in); appErr != nil {
		return nil, appErr
	}

	var wahl models.Wahl
	if err := vs.db.WithContext(ctx).Where("id = ?", wahlID).First(&wahl).Error; err != nil {
		return nil, dbError(err)
	}

	voter := models.Voter{WahlID: wahl.ID, Email: in.Email}
	if err := vs.db.WithContext(ctx).Create(&voter).Error; err != nil {
		if database.IsKeyConflictErr(err) {
			return nil, types.NewAppErrorf(types.CodeInputType,
				"voter %s is already registered for wahl %s", in.Email, wahlID)
		}
		return nil, types.Internal(err)
	}
	return mapper.ToVoterOut(voter), nil
}

func (vs *VoterService) ListVoters(ctx context.Context, wahlID string) ([]*schemas.VoterOut, *types.AppError) {
	var voters []models.Voter
	if err := vs.db.WithContext(ctx).Where("wahl_id = ?", wahlID).
		Order("created_at ASC").Find(&voters).Error; err != nil {
		return nil, types.Internal(err)
	}

	out := make([]*schemas.VoterOut, 0, len(voters))
	for i := range voters {
		out = append(out, mapper.ToVoterOut(voters[i]))
	}
	return out, nil
}

// CreateSession opens a voting session for a registered voter of the wahl.
func (vs *VoterService) CreateSession(ctx context.Context, wahlID string, in *schemas.SessionIn) (*schemas.SessionOut, *types.AppError) {
	if appErr := checkInput(in); appErr != nil {
		return nil, appErr
	}

	var voter models.Voter
	if err := vs.db.WithContext(ctx).
		Where("id = ? AND wahl_id = ?", in.VoterID, wahlID).
		First(&voter).Error; err != nil {
		return nil, dbError(err)
	}

	session := models.Session{WahlID: wahlID, VoterID: voter.ID, PublicKey: in.PublicKey}
	if err := vs.db.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, types.Internal(err)
	}
	return mapper.ToSessionOut(session), nil
}

// CastStimme records one ballot against a question. The session and question
// must exist and belong to the election; the payload itself is not inspected.
func (vs *VoterService) CastStimme(ctx context.Context, wahlID string, in *schemas.StimmeIn) (*schemas.Message, *types.AppError) {
	if appErr := checkInput(in); appErr != nil {
		return nil, appErr
	}

	var question models.Question
	if err := vs.db.WithContext(ctx).
		Where("id = ? AND wahl_id = ?", in.QuestionID, wahlID).
		First(&question).Error; err != nil {
		return nil, dbError(err)
	}

	var session models.Session
	if err := vs.db.WithContext(ctx).
		Where("id = ? AND wahl_id = ?", in.SessionID, wahlID).
		First(&session).Error; err != nil {
		return nil, dbError(err)
	}

	stimme := models.Stimme{
		WahlID:     wahlID,
		QuestionID: question.ID,
		SessionID:  session.ID,
		Ballot:     datatypes.JSON(in.Ballot),
		Signature:  in.Signature,
	}
	if err := vs.db.WithContext(ctx).Create(&stimme).Error; err != nil {
		return nil, types.Internal(err)
	}
	return &schemas.Message{Message: "stimme recorded"}, nil
}
