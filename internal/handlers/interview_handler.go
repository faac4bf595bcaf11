package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iam-sarthakdev/MockMate-AI/internal/interviews"
	"github.com/iam-sarthakdev/MockMate-AI/internal/middleware"
	"github.com/iam-sarthakdev/MockMate-AI/internal/models"
	"github.com/iam-sarthakdev/MockMate-AI/internal/utils"
)

const (
	defaultLatestLimit = 20
	maxLatestLimit     = 100
)

type InterviewHandler struct {
	service *interviews.Service
	logger  *zap.Logger
}

func NewInterviewHandler(service *interviews.Service, logger *zap.Logger) *InterviewHandler {
	return &InterviewHandler{
		service: service,
		logger:  logger,
	}
}

// GenerateHandler is the voice workflow's tool endpoint. It is not behind
// user auth; the workflow passes the user id in the body.
func (h *InterviewHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.GenerateInterviewRequest](r)

	interview, err := h.service.Generate(r.Context(), interviews.GenerateParams{
		Role:      req.Role,
		Level:     req.Level,
		TechStack: req.TechStack,
		Type:      req.Type,
		Amount:    int(req.Amount),
		UserID:    req.UserID,
	})
	if err != nil {
		h.logger.Error("Interview generation failed",
			zap.String("user_id", req.UserID),
			zap.String("kind", string(models.FailureKindOf(err))),
			zap.Error(err))
		utils.Failure(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, models.GenerateInterviewResponse{Success: true, Message: interview})
}

func (h *InterviewHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		utils.Failure(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, models.ListResponse[models.Interview]{Success: true, Total: len(list), Data: nonNil(list)})
}

func (h *InterviewHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	interview, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.Failure(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{"success": true, "data": interview})
}

func (h *InterviewHandler) MineHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	list, err := h.service.ListByUser(r.Context(), user.UserID)
	if err != nil {
		utils.Failure(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, models.ListResponse[models.Interview]{Success: true, Total: len(list), Data: nonNil(list)})
}

func (h *InterviewHandler) LatestHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
		return
	}
	list, err := h.service.ListLatest(r.Context(), user.UserID, limit)
	if err != nil {
		utils.Failure(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, models.ListResponse[models.Interview]{Success: true, Total: len(list), Data: nonNil(list)})
}

// DashboardHandler loads the user's interviews and the latest ones from
// other users concurrently.
func (h *InterviewHandler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}

	var mine, latest []models.Interview
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		mine, err = h.service.ListByUser(ctx, user.UserID)
		return err
	})
	g.Go(func() error {
		var err error
		latest, err = h.service.ListLatest(ctx, user.UserID, defaultLatestLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		h.logger.Error("Failed to load dashboard", zap.String("user_id", user.UserID), zap.Error(err))
		utils.Failure(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, models.DashboardResponse{
		Success:          true,
		UserInterviews:   nonNil(mine),
		LatestInterviews: nonNil(latest),
	})
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return defaultLatestLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, strconv.ErrSyntax
	}
	if n > maxLatestLimit {
		n = maxLatestLimit
	}
	return n, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
