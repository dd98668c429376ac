package mapper

import (
	"github.com/wahlware/wahlhost/pkg/models"
	"github.com/wahlware/wahlhost/pkg/schemas"
)

func ToFileOut(in models.File) *schemas.FileOut {
	return &schemas.FileOut{
		ID:             in.ID,
		Name:           in.Name,
		FileType:       in.FileType,
		MimeType:       in.MimeType,
		Size:           in.Size,
		UfsKey:         in.UfsKey,
		BlobPath:       in.BlobPath,
		URL:            in.URL,
		StoredIn:       in.StoredIn,
		TargetStorage:  in.TargetStorage,
		TransferStatus: in.TransferStatus,
		WahlID:         in.WahlID,
		QuestionID:     in.QuestionID,
		AnswerID:       in.AnswerID,
		CreatedAt:      in.CreatedAt,
		UpdatedAt:      in.UpdatedAt,
	}
}

func ToWahlOut(in models.Wahl) *schemas.WahlOut {
	return &schemas.WahlOut{
		ID:           in.ID,
		Shortname:    in.Shortname,
		Status:       in.Status,
		Title:        in.Title,
		Description:  in.Description,
		AlertType:    in.AlertType,
		AlertMessage: in.AlertMessage,
		Owner:        in.Owner,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		ArchiveDate:  in.ArchiveDate,
		IsScheduled:  in.IsScheduled,
		IsActive:     in.IsActive,
		IsCompleted:  in.IsCompleted,
		HasResults:   in.HasResults,
		IsArchived:   in.IsArchived,
		CreatedAt:    in.CreatedAt,
		UpdatedAt:    in.UpdatedAt,
	}
}

func ToWahlStatusOut(in models.Wahl) *schemas.WahlStatusOut {
	return &schemas.WahlStatusOut{
		ID:          in.ID,
		Status:      in.Status,
		IsScheduled: in.IsScheduled,
		IsActive:    in.IsActive,
		IsCompleted: in.IsCompleted,
		HasResults:  in.HasResults,
		IsArchived:  in.IsArchived,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		ArchiveDate: in.ArchiveDate,
	}
}

func ToQuestionOut(in models.Question, detail interface{}) *schemas.QuestionOut {
	return &schemas.QuestionOut{
		ID:        in.ID,
		WahlID:    in.WahlID,
		Type:      in.Type,
		Detail:    detail,
		CreatedAt: in.CreatedAt,
		UpdatedAt: in.UpdatedAt,
	}
}

func ToSessionOut(in models.Session) *schemas.SessionOut {
	return &schemas.SessionOut{
		ID:        in.ID,
		WahlID:    in.WahlID,
		VoterID:   in.VoterID,
		CreatedAt: in.CreatedAt,
	}
}

func ToVoterOut(in models.Voter) *schemas.VoterOut {
	return &schemas.VoterOut{
		ID:        in.ID,
		WahlID:    in.WahlID,
		Email:     in.Email,
		CreatedAt: in.CreatedAt,
	}
}
