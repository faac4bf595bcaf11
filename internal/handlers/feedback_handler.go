package handlers

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/iam-sarthakdev/MockMate-AI/internal/feedback"
	"github.com/iam-sarthakdev/MockMate-AI/internal/middleware"
	"github.com/iam-sarthakdev/MockMate-AI/internal/models"
	"github.com/iam-sarthakdev/MockMate-AI/internal/utils"
)

type FeedbackHandler struct {
	service *feedback.Service
	logger  *zap.Logger
}

func NewFeedbackHandler(service *feedback.Service, logger *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		service: service,
		logger:  logger,
	}
}

// CreateHandler scores a transcript for the authenticated user. A userId in
// the body must match the session user.
func (h *FeedbackHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	req := middleware.GetValidatedRequest[*models.CreateFeedbackRequest](r)
	if req.UserID != "" && req.UserID != user.UserID {
		utils.Error(w, http.StatusForbidden, "forbidden", "userId does not match the signed in user")
		return
	}

	fb, err := h.service.Generate(r.Context(), feedback.GenerateParams{
		InterviewID: req.InterviewID,
		UserID:      user.UserID,
		Transcript:  req.Transcript,
	})
	if err != nil {
		h.logger.Error("Feedback generation failed",
			zap.String("interview_id", req.InterviewID),
			zap.String("kind", string(models.FailureKindOf(err))),
			zap.Error(err))
		kind := models.FailureKindOf(err)
		utils.JSON(w, kind.HTTPStatus(), models.CreateFeedbackResponse{
			Success: false,
			Error:   &models.ErrorResponse{Code: string(kind), Message: utils.FailureMessage(err)},
		})
		return
	}

	utils.JSON(w, http.StatusOK, models.CreateFeedbackResponse{Success: true, FeedbackID: fb.ID})
}

func (h *FeedbackHandler) GetForInterviewHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	fb, err := h.service.GetForInterview(r.Context(), chi.URLParam(r, "id"), user.UserID)
	if err != nil {
		utils.Failure(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{"success": true, "data": fb})
}

// GetHandler resolves the feedbackId a finished call session reports.
func (h *FeedbackHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	fb, err := h.service.Get(r.Context(), chi.URLParam(r, "id"), user.UserID)
	if err != nil {
		utils.Failure(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{"success": true, "data": fb})
}

func (h *FeedbackHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	stats, err := h.service.Stats(r.Context(), user.UserID)
	if err != nil {
		utils.Failure(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{"success": true, "data": stats})
}

// ExportHandler streams the user's feedback history as jsonl (default) or xlsx.
func (h *FeedbackHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = feedback.FormatJSONL
	}
	if format != feedback.FormatJSONL && format != feedback.FormatXLSX {
		utils.Error(w, http.StatusBadRequest, "invalid_format", "format must be jsonl or xlsx")
		return
	}

	history, err := h.service.History(r.Context(), user.UserID)
	if err != nil {
		utils.Failure(w, err)
		return
	}

	var buf bytes.Buffer
	if err := feedback.Export(&buf, format, history); err != nil {
		h.logger.Error("Failed to export feedback", zap.String("user_id", user.UserID), zap.Error(err))
		utils.Error(w, http.StatusInternalServerError, "export_error", "Failed to export feedback")
		return
	}

	w.Header().Set("Content-Type", feedback.ContentType(format))
	w.Header().Set("Content-Disposition", `attachment; filename="feedback.`+format+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
