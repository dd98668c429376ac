package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wahlware/wahlhost/pkg/httputil"
	"github.com/wahlware/wahlhost/pkg/middleware"
	"github.com/wahlware/wahlhost/pkg/schemas"
)

func (c *Controller) CreateFile(w http.ResponseWriter, r *http.Request) {
	var in schemas.FileIn
	if appErr := httputil.Decode(r, &in); appErr != nil {
		httputil.NewError(w, r, appErr)
		return
	}

	res, appErr := c.FileService.CreateFile(r.Context(), middleware.UserID(r.Context()), &in)
	if appErr != nil {
		httputil.NewError(w, r, appErr)
		return
	}
	httputil.JSON(w, http.StatusCreated, res)
}

func (c *Controller) DeleteFile(w http.ResponseWriter, r *http.Request) {
	res, appErr := c.FileService.DeleteByID(r.Context(), chi.URLParam(r, "fileID"))
	if appErr != nil {
		httputil.NewError(w, r, appErr)
		return
	}
	httputil.JSON(w, http.StatusOK, res)
}

// RunTransfers triggers one reconciliation sweep. The same sweep also runs on
// a schedule; this endpoint exists for operators.
func (c *Controller) RunTransfers(w http.ResponseWriter, r *http.Request) {
	res, appErr := c.FileService.RunTransfers(r.Context())
	if appErr != nil {
		httputil.NewError(w, r, appErr)
		return
	}
	httputil.JSON(w, http.StatusOK, res)
}
