// Package httpapi is the gin-based HTTP ingress for cfwai: the
// notification webhook, the raw-message enqueue endpoint, archive
// inspection, decision-queue dequeue, and per-stage start/stop control
// (spec.md §6). Grounded on the teacher corpus's handlers.Handlers
// struct-of-dependencies pattern.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"cfwai/internal/logging"
	"cfwai/internal/model"
	"cfwai/internal/store"
)

// Enqueuer is the narrow contract the decision stage's entry point
// exposes to ingress.
type Enqueuer interface {
	Enqueue(item model.Item) error
}

// Dequeuer additionally supports removing a pending item by value, used
// by POST /dequeue_item.
type Dequeuer interface {
	Enqueuer
	Dequeue(item model.Item) (bool, error)
}

// StageController is the narrow contract the supervisor exposes for
// per-stage start/stop control.
type StageController interface {
	Start(stage model.Stage) error
	Stop(stage model.Stage) error
	Running(stage model.Stage) bool
}

// Handlers holds all HTTP handler dependencies.
type Handlers struct {
	store      *store.Store
	decision   Dequeuer
	supervisor StageController
	logger     *slog.Logger
}

// NewHandlers constructs the ingress handler set.
func NewHandlers(st *store.Store, decision Dequeuer, supervisor StageController, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{
		store:      st,
		decision:   decision,
		supervisor: supervisor,
		logger:     logging.NewComponentLogger(logger, "httpapi"),
	}
}

// Router builds the gin engine with every route wired (spec.md §6).
func (h *Handlers) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/api/notify", h.NotifyHandler)
	r.POST("/enqueue", h.EnqueueHandler)
	r.GET("/get_item", h.GetItemHandler)
	r.POST("/dequeue_item", h.DequeueItemHandler)

	for _, stage := range []model.Stage{model.StageDecision, model.StageAging, model.StageDownload} {
		stage := stage
		r.POST("/api/start_"+stage.String(), h.startStageHandler(stage))
		r.POST("/api/stop_"+stage.String(), h.stopStageHandler(stage))
	}
	return r
}

// NotifyHandler accepts a notification's fields as query parameters and
// enqueues the resulting item to the decision stage.
// POST /api/notify?creator=&title=&datecode=&url=
func (h *Handlers) NotifyHandler(c *gin.Context) {
	item := model.Item{
		Creator:  c.Query("creator"),
		Title:    c.Query("title"),
		Datecode: c.Query("datecode"),
		URL:      c.Query("url"),
	}
	if item.Creator == "" || item.Title == "" || item.Datecode == "" || item.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "creator, title, datecode and url are all required"})
		return
	}
	if err := h.decision.Enqueue(item); err != nil {
		logging.ErrorWithContext(h.logger, "failed to enqueue notification", "enqueue_failed", logging.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to enqueue item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "queued"})
}

type enqueueRequest struct {
	Message string `json:"message" binding:"required"`
}

// EnqueueHandler parses the raw webhook message format and enqueues the
// resulting item to the decision stage.
// POST /enqueue
func (h *Handlers) EnqueueHandler(c *gin.Context) {
	var req enqueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to process message"})
		return
	}

	item, err := parseEnqueueMessage(req.Message)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unable to process message"})
		return
	}

	if err := h.decision.Enqueue(item); err != nil {
		logging.ErrorWithContext(h.logger, "failed to enqueue parsed message", "enqueue_failed", logging.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to process message"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "queued"})
}

// GetItemHandler returns the filtered contents of one archive file.
// GET /get_item?datafrom=<archive_name>&name=&value=
func (h *Handlers) GetItemHandler(c *gin.Context) {
	archiveName := c.Query("datafrom")
	outcome, ok := parseOutcome(archiveName)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown archive " + archiveName})
		return
	}

	items := h.store.LoadArchive(outcome)
	filtered, err := filterItems(items, c.Query("name"), c.Query("value"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to filter archive"})
		return
	}
	c.JSON(http.StatusOK, filtered)
}

// DequeueItemHandler removes the first exact match of the posted item from
// the decision queue.
// POST /dequeue_item
func (h *Handlers) DequeueItemHandler(c *gin.Context) {
	var item model.Item
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item body"})
		return
	}
	removed, err := h.decision.Dequeue(item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to dequeue item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

func (h *Handlers) startStageHandler(stage model.Stage) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.supervisor.Start(stage); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"stage": stage.String(), "running": h.supervisor.Running(stage)})
	}
}

func (h *Handlers) stopStageHandler(stage model.Stage) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.supervisor.Stop(stage); err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"stage": stage.String(), "running": h.supervisor.Running(stage)})
	}
}

func parseOutcome(name string) (model.Outcome, bool) {
	switch model.Outcome(name) {
	case model.OutcomeSeriesScore, model.OutcomeUnmonitoredSeries, model.OutcomeEpisodeScore,
		model.OutcomeUnmonitoredEpisode, model.OutcomeEpisodeHasFile, model.OutcomeDownloadEnqueue,
		model.OutcomeManualIntervention, model.OutcomeRequeued, model.OutcomePass,
		model.OutcomeDownloadFail, model.OutcomeAllProcessed:
		return model.Outcome(name), true
	default:
		return "", false
	}
}
