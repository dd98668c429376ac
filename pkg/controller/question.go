package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wahlware/wahlhost/pkg/httputil"
	"github.com/wahlware/wahlhost/pkg/schemas"
)

func (c *Controller) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var in schemas.QuestionIn
	if appErr := httputil.Decode(r, &in); appErr != nil {
		httputil.NewError(w, r, appErr)
		return
	}

	res, appErr := c.QuestionService.CreateQuestion(r.Context(), &in)
	if appErr != nil {
		httputil.NewError(w, r, appErr)
		return
	}
	httputil.JSON(w, http.StatusCreated, res)
}

func (c *Controller) GetQuestion(w http.ResponseWriter, r *http.Request) {
	res, appErr := c.QuestionService.GetQuestion(r.Context(), chi.URLParam(r, "questionID"))
	if appErr != nil {
		httputil.NewError(w, r, appErr)
		return
	}
	httputil.JSON(w, http.StatusOK, res)
}

func (c *Controller) ListQuestions(w http.ResponseWriter, r *http.Request) {
	res, appErr := c.QuestionService.ListQuestions(r.Context(), chi.URLParam(r, "wahlID"))
	if appErr != nil {
		httputil.NewError(w, r, appErr)
		return
	}
	httputil.JSON(w, http.StatusOK, res)
}

func (c *Controller) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	var in schemas.QuestionUpdate
	if appErr := httputil.Decode(r, &in); appErr != nil {
		httputil.NewError(w, r, appErr)
		return
	}

	res, appErr := c.QuestionService.UpdateQuestion(r.Context(), chi.URLParam(r, "questionID"), &in)
	if appErr != nil {
		httputil.NewError(w, r, appErr)
		return
	}
	httputil.JSON(w, http.StatusOK, res)
}

func (c *Controller) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	res, appErr := c.QuestionService.DeleteQuestion(r.Context(), chi.URLParam(r, "questionID"))
	if appErr != nil {
		httputil.NewError(w, r, appErr)
		return
	}
	httputil.JSON(w, http.StatusOK, res)
}
