package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"peerprep/interview/internal/candidates"
	"peerprep/interview/internal/interview"
	"peerprep/interview/internal/middleware"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/utils"
)

type CandidateHandler struct {
	service    *candidates.Service
	controller *interview.Controller
	logger     *zap.Logger
}

func NewCandidateHandler(service *candidates.Service, controller *interview.Controller, logger *zap.Logger) *CandidateHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CandidateHandler{service: service, controller: controller, logger: logger}
}

func (h *CandidateHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.service.List(candidates.ListQuery{
		Search: q.Get("q"),
		SortBy: q.Get("sort_by"),
		Order:  q.Get("order"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"candidates": list,
		"count":      len(list),
	})
}

func (h *CandidateHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, h.service.Stats())
}

func (h *CandidateHandler) DetailHandler(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.Detail(chi.URLParam(r, "candidateId"))
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, detail)
}

func (h *CandidateHandler) ClearAllHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.ClearAllData(r.Context()); err != nil {
		h.logger.Error("failed to clear interview data", zap.Error(err))
		writeError(w, err)
		return
	}
	h.logger.Info("interview data cleared", zap.String("interviewer", middleware.SubjectFromContext(r.Context())))
	utils.JSON(w, http.StatusOK, models.Resp{OK: true, Info: "all candidate data cleared"})
}
