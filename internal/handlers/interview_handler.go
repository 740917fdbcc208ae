package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"peerprep/interview/internal/interview"
	"peerprep/interview/internal/middleware"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/resume"
	"peerprep/interview/internal/utils"
)

const (
	resumeFormField = "resume"
	// multipart overhead allowed on top of the file itself
	uploadSlack = 1 << 20
)

type InterviewHandler struct {
	controller *interview.Controller
	logger     *zap.Logger
}

func NewInterviewHandler(controller *interview.Controller, logger *zap.Logger) *InterviewHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InterviewHandler{controller: controller, logger: logger}
}

func (h *InterviewHandler) SessionHandler(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, h.controller.State())
}

func (h *InterviewHandler) TranscriptHandler(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"messages": h.controller.Transcript(),
	})
}

func (h *InterviewHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, models.MaxResumeSize+uploadSlack)
	if err := r.ParseMultipartForm(uploadSlack); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, resume.ErrFileTooLarge)
			return
		}
		utils.Error(w, http.StatusBadRequest, "invalid_upload", "Expected a multipart form with a resume file")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(resumeFormField)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "missing_file", "Please choose a resume file to upload")
		return
	}
	defer file.Close()

	ack, err := h.controller.UploadResume(r.Context(), resume.Upload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	})
	if err != nil {
		h.logger.Info("resume rejected", zap.String("file", header.Filename), zap.Error(err))
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, ack)
}

func (h *InterviewHandler) BackHandler(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.controller.BackToUpload)
}

func (h *InterviewHandler) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.ProfileRequest](r)
	if err := h.controller.CompleteProfile(r.Context(), req); err != nil {
		if !isClientError(err) {
			h.logger.Error("failed to start interview", zap.Error(err))
		}
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, h.controller.State())
}

func (h *InterviewHandler) AnswerHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.AnswerRequest](r)
	answer, err := h.controller.SubmitAnswer(r.Context(), req.Answer)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, models.AnswerResult{
		Answer:  answer,
		Session: h.controller.State(),
	})
}

func (h *InterviewHandler) PauseHandler(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.controller.Pause)
}

func (h *InterviewHandler) ResumeHandler(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.controller.Resume)
}

func (h *InterviewHandler) ContinueHandler(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.controller.ContinueSession)
}

func (h *InterviewHandler) DiscardHandler(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.controller.DiscardSession)
}

func (h *InterviewHandler) ResetHandler(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.controller.Reset)
}

// transition runs a bodyless controller operation and replies with the new state.
func (h *InterviewHandler) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context) error) {
	if err := op(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, h.controller.State())
}

func isClientError(err error) bool {
	var errResp *models.ErrorResponse
	return errors.As(err, &errResp) ||
		errors.Is(err, interview.ErrInvalidPhase) ||
		errors.Is(err, interview.ErrResumePending)
}
