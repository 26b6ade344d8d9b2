package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ianfinch/blog-tweet/internal/promo"
	"github.com/ianfinch/blog-tweet/pkg/logging"
)

type RunHandler struct {
	runner  PromoRunner
	timeout time.Duration
	logger  logging.Logger
	metrics *PromoMetrics
}

func NewRunHandler(runner PromoRunner, timeout time.Duration, logger logging.Logger, metrics *PromoMetrics) *RunHandler {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &RunHandler{
		runner:  runner,
		timeout: timeout,
		logger:  logger,
		metrics: metrics,
	}
}

// Handle executes one promotion run. The trigger body, if any, is opaque and
// ignored; schedulers post here on whatever cadence they like.
func (h *RunHandler) Handle(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	result := h.runner.Run(ctx)
	h.metrics.IncRun(string(result.Outcome))

	switch result.Outcome {
	case promo.OutcomePosted:
		fields := logging.Fields{"outcome": result.Outcome}
		if result.Entry != nil {
			fields["template"] = result.Entry.Template
			fields["tweet_id"] = result.Entry.TweetID
		}
		h.logger.WithFields(fields).Info("Promotion run posted a tweet")

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"outcome": result.Outcome,
			"message": result.Message,
		})

	case promo.OutcomeSkipped:
		h.logger.WithFields(logging.Fields{
			"outcome": result.Outcome,
			"reason":  result.Message,
		}).Info("Promotion run held back")

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"outcome": result.Outcome,
			"message": result.Message,
		})

	default:
		h.logger.WithFields(logging.Fields{
			"outcome": result.Outcome,
			"error":   errorString(result.Err),
		}).Error("Promotion run failed")

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"outcome": result.Outcome,
			"error":   errorString(result.Err),
		})
	}
}

func errorString(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
