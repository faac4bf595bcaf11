package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/iam-sarthakdev/MockMate-AI/internal/config"
	"github.com/iam-sarthakdev/MockMate-AI/internal/llm"
	"github.com/iam-sarthakdev/MockMate-AI/internal/utils"
)

const readinessTimeout = 2 * time.Second

type ReadinessCheck struct {
	Status  string `json:"status"` // "ok" | "failed"
	Message string `json:"message,omitempty"`
}

type ReadinessResponse struct {
	Status  string                    `json:"status"`  // "ready" | "not_ready"
	Service string                    `json:"service"` // Service name
	Checks  map[string]ReadinessCheck `json:"checks"`  // Individual check results
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type TemplateLister interface {
	GetTemplates() []string
}

type HealthHandler struct {
	provider llm.Provider
	prompts  TemplateLister
	store    Pinger
	redis    Pinger // optional
	config   *config.Config
}

func NewHealthHandler(provider llm.Provider, prompts TemplateLister, store Pinger, redis Pinger, cfg *config.Config) *HealthHandler {
	return &HealthHandler{
		provider: provider,
		prompts:  prompts,
		store:    store,
		redis:    redis,
		config:   cfg,
	}
}

func (handler *HealthHandler) HealthzHandler(writer http.ResponseWriter, request *http.Request) {
	utils.JSON(writer, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "interview",
		"version": "1.0.0",
	})
}

func (handler *HealthHandler) ReadyzHandler(writer http.ResponseWriter, request *http.Request) {
	checks := make(map[string]ReadinessCheck)
	allChecksPass := true
	fail := func(name, message string) {
		checks[name] = ReadinessCheck{Status: "failed", Message: message}
		allChecksPass = false
	}
	ok := func(name string) {
		checks[name] = ReadinessCheck{Status: "ok"}
	}

	if handler.provider == nil {
		fail("provider", "AI provider not initialized")
	} else {
		ok("provider")
	}

	switch {
	case handler.prompts == nil:
		fail("prompt_manager", "Prompt manager not initialized")
	case len(handler.prompts.GetTemplates()) == 0:
		fail("prompt_manager", "No prompt templates loaded")
	default:
		ok("prompt_manager")
	}

	ctx, cancel := context.WithTimeout(request.Context(), readinessTimeout)
	defer cancel()

	if handler.store == nil {
		fail("store", "Store not initialized")
	} else if err := handler.store.Ping(ctx); err != nil {
		fail("store", err.Error())
	} else {
		ok("store")
	}

	if handler.redis != nil {
		if err := handler.redis.Ping(ctx); err != nil {
			fail("redis", err.Error())
		} else {
			ok("redis")
		}
	}

	if handler.config == nil {
		fail("configuration", "Configuration not loaded")
	} else {
		ok("configuration")
	}

	response := ReadinessResponse{
		Service: "interview",
		Checks:  checks,
	}

	if allChecksPass {
		response.Status = "ready"
		utils.JSON(writer, http.StatusOK, response)
	} else {
		response.Status = "not_ready"
		utils.JSON(writer, http.StatusServiceUnavailable, response)
	}
}
