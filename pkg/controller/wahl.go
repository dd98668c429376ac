package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wahlware/wahlhost/pkg/httputil"
	"github.com/wahlware/wahlhost/pkg/middleware"
	"github.com/wahlware/wahlhost/pkg/schemas"
)

func (c *Controller) CreateWahl(w http.ResponseWriter, r *http.Request) {
	var in schemas.WahlIn
	if appErr := httputil.Decode(r, &in); appErr != nil {
		httputil.NewError(w, r, appErr)
		return
	}

	res, appErr := c.WahlService.CreateWahl(r.Context(), middleware.UserID(r.Context()), &in)
	if appErr != nil {
		httputil.NewError(w, r, appErr)
		return
	}
	httputil.JSON(w, http.StatusCreated, res)
}

func (c *Controller) GetWahl(w http.ResponseWriter, r *http.Request) {
	res, appErr := c.WahlService.GetWahl(r.Context(), chi.URLParam(r, "wahlID"))
	if appErr != nil {
		httputil.NewError(w, r, appErr)
		return
	}
	httputil.JSON(w, http.StatusOK, res)
}

func (c *Controller) UpdateWahl(w http.ResponseWriter, r *http.Request) {
	var in schemas.WahlUpdate
	if appErr := httputil.Decode(r, &in); appErr != nil {
		httputil.NewError(w, r, appErr)
		return
	}

	res, appErr := c.WahlService.UpdateWahl(r.Context(), chi.URLParam(r, "wahlID"), &in)
	if appErr != nil {
		httputil.NewError(w, r, appErr)
		return
	}
	httputil.JSON(w, http.StatusOK, res)
}

func (c *Controller) DeleteWahl(w http.ResponseWriter, r *http.Request) {
	res, appErr := c.WahlService.DeleteWahl(r.Context(), chi.URLParam(r, "wahlID"), middleware.UserID(r.Context()))
	if appErr != nil {
		httputil.NewError(w, r, appErr)
		return
	}
	httputil.JSON(w, http.StatusOK, res)
}

// GetWahlStatus re-derives the lifecycle flags and persists any drift before
// answering.
func (c *Controller) GetWahlStatus(w http.ResponseWriter, r *http.Request) {
	res, appErr := c.WahlService.DeriveStatus(r.Context(), chi.URLParam(r, "wahlID"))
	if appErr != nil {
		httputil.NewError(w, r, appErr)
		return
	}
	httputil.JSON(w, http.StatusOK, res)
}

func (c *Controller) RegisterVoter(w http.ResponseWriter, r *http.Request) {
	var in schemas.VoterIn
	if appErr := httputil.Decode(r, &in); appErr != nil {
		httputil.NewError(w, r, appErr)
		return
	}

	res, appErr := c.VoterService.RegisterVoter(r.Context(), chi.URLParam(r, "wahlID"), &in)
	if appErr != nil {
		httputil.NewError(w, r, appErr)
		return
	}
	httputil.JSON(w, http.StatusCreated, res)
}

func (c *Controller) ListVoters(w http.ResponseWriter, r *http.Request) {
	res, appErr := c.VoterService.ListVoters(r.Context(), chi.URLParam(r, "wahlID"))
	if appErr != nil {
		httputil.NewError(w, r, appErr)
		return
	}
	httputil.JSON(w, http.StatusOK, res)
}

func (c *Controller) CreateSession(w http.ResponseWriter, r *http.Request) {
	var in schemas.SessionIn
	if appErr := httputil.Decode(r, &in); appErr != nil {
		httputil.NewError(w, r, appErr)
		return
	}

	res, appErr := c.VoterService.CreateSession(r.Context(), chi.URLParam(r, "wahlID"), &in)
	if appErr != nil {
		httputil.NewError(w, r, appErr)
		return
	}
	httputil.JSON(w, http.StatusCreated, res)
}

func (c *Controller) CastStimme(w http.ResponseWriter, r *http.Request) {
	var in schemas.StimmeIn
	if appErr := httputil.Decode(r, &in); appErr != nil {
		httputil.NewError(w, r, appErr)
		return
	}

	res, appErr := c.VoterService.CastStimme(r.Context(), chi.URLParam(r, "wahlID"), &in)
	if appErr != nil {
		httputil.NewError(w, r, appErr)
		return
	}
	httputil.JSON(w, http.StatusCreated, res)
}
