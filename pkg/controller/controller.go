package controller

import (
	"github.com/wahlware/wahlhost/pkg/services"
)

type Controller struct {
	FileService     *services.FileService
	QuestionService *services.QuestionService
	WahlService     *services.WahlService
	VoterService    *services.VoterService
	RoutingService  *services.RoutingService
}

func NewController(
	files *services.FileService,
	questions *services.QuestionService,
	wahlen *services.WahlService,
	voters *services.VoterService,
	routing *services.RoutingService,
) *Controller {
	return &Controller{
		FileService:     files,
		QuestionService: questions,
		WahlService:     wahlen,
		VoterService:    voters,
		RoutingService:  routing,
	}
}
