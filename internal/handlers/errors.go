package handlers

import (
	"errors"
	"net/http"

	"peerprep/interview/internal/candidates"
	"peerprep/interview/internal/interview"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/resume"
	"peerprep/interview/internal/utils"
)

var conflictCodes = []struct {
	err  error
	code string
}{
	{interview.ErrResumePending, "resume_pending"},
	{interview.ErrNoResumePending, "no_resume_pending"},
	{interview.ErrAwaitingNext, "awaiting_next_question"},
	{interview.ErrPaused, "interview_paused"},
	{interview.ErrNotPaused, "interview_not_paused"},
	{interview.ErrInvalidPhase, "invalid_phase"},
}

// writeError maps domain errors onto HTTP responses.
func writeError(w http.ResponseWriter, err error) {
	for _, c := range conflictCodes {
		if errors.Is(err, c.err) {
			utils.Error(w, http.StatusConflict, c.code, err.Error())
			return
		}
	}

	var errResp *models.ErrorResponse
	switch {
	case errors.As(err, &errResp):
		utils.JSON(w, http.StatusBadRequest, *errResp)
	case errors.Is(err, resume.ErrFileTooLarge):
		utils.Error(w, http.StatusRequestEntityTooLarge, "file_too_large", err.Error())
	case errors.Is(err, resume.ErrUnsupportedType):
		utils.Error(w, http.StatusBadRequest, "unsupported_file_type", err.Error())
	case errors.Is(err, resume.ErrEmptyFile):
		utils.Error(w, http.StatusBadRequest, "empty_file", err.Error())
	case errors.Is(err, candidates.ErrNotFound):
		utils.Error(w, http.StatusNotFound, "candidate_not_found", err.Error())
	case errors.Is(err, candidates.ErrInvalidSort), errors.Is(err, candidates.ErrInvalidOrder):
		utils.Error(w, http.StatusBadRequest, "invalid_query", err.Error())
	case errors.Is(err, interview.ErrQuestionSet):
		utils.Error(w, http.StatusBadGateway, "question_set_unavailable", err.Error())
	default:
		utils.Error(w, http.StatusInternalServerError, "internal_error", "Something went wrong")
	}
}
