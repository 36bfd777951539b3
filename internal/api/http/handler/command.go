package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"finbook-back/internal/apperrors"
	"finbook-back/internal/model"
)

type DispatchService interface {
	SendCommand(ctx context.Context, resource model.Resource, action model.Action, payload json.RawMessage) (*model.CommandReceipt, error)
}

type ResultService interface {
	GetResult(ctx context.Context, id int64) (*model.CommandResult, error)
}

type CommandHandler struct {
	log         *zap.Logger
	dispatchSvc DispatchService
	resultSvc   ResultService
	retryAfter  time.Duration
}

func NewCommandHandler(log *zap.Logger, dispatchSvc DispatchService, resultSvc ResultService, retryAfter time.Duration) *CommandHandler {
	return &CommandHandler{
		log:         log,
		dispatchSvc: dispatchSvc,
		resultSvc:   resultSvc,
		retryAfter:  retryAfter,
	}
}

// EnqueueResponse
// @Description Acknowledgment that a command was queued; id is the handle for polling.
type EnqueueResponse struct {
	Message string `json:"message"` // Always "Request queued successfully"
	ID      int64  `json:"id"`      // Correlation id for the result poll
} // @Name _EnqueueResponse

// PendingResponse
// @Description Returned while a command has not reached a terminal state yet.
type PendingResponse struct {
	Message string `json:"message"` // Always "Still in processing"
	ID      int64  `json:"id"`      // Correlation id of the pending command
} // @Name _PendingResponse

// Dispatch
// @Summary Queue a command against a resource.
// @Description Registers the command, writes it to the outbox and replies immediately; the outcome is retrieved later via the result endpoint.
// @Tags Commands
// @Accept json
// @Produce json
// @Param resource path string true "Resource" Enums(category, account, transaction)
// @Param action path string true "Action" Enums(create, update, delete, getById, getAll)
// @Param payload body object false "Action payload"
// @Success 202 {object} EnqueueResponse "Queued"
// @Failure 400 {object} ResponseWithMessage "Unknown resource/action or invalid payload"
// @Failure 500 {object} ResponseWithMessage "Failed to enqueue"
// @Router /commands/{resource}/{action} [post]
func (h *CommandHandler) Dispatch(c *gin.Context) {
	ctx := c.Request.Context()

	resource, err := model.ParseResource(c.Param("resource"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})
		return
	}

	action, err := model.ParseAction(c.Param("action"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})
		return
	}

	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})
		return
	}

	if len(payload) == 0 {
		payload = []byte("{}")
	}

	if !json.Valid(payload) {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: "payload is not valid JSON",
		})
		return
	}

	receipt, err := h.dispatchSvc.SendCommand(ctx, resource, action, payload)
	if err != nil {
		h.log.Error("Failed to dispatch command",
			zap.String("resource", string(resource)),
			zap.String("action", string(action)),
			zap.Error(err),
		)

		c.JSON(http.StatusInternalServerError, ResponseWithMessage{
			Status:  StatusErr,
			Message: apperrors.ErrEnqueueFailed.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, EnqueueResponse{
		Message: "Request queued successfully",
		ID:      receipt.ID,
	})
}

// GetResult
// @Summary Poll the outcome of a previously queued command.
// @Description Unknown id gives 404, a command still in flight gives 202 with a Retry-After hint, a terminal command gives 200 with the result or the error.
// @Tags Commands
// @Produce json
// @Param id path int true "Correlation id"
// @Success 200 {object} model.CommandResult "Terminal outcome"
// @Success 202 {object} PendingResponse "Still in processing"
// @Failure 400 {object} ResponseWithMessage "Invalid id"
// @Failure 404 {object} ResponseWithMessage "Unknown id"
// @Failure 500 {object} ResponseWithMessage "Failed to read result"
// @Router /commands/results/{id} [get]
func (h *CommandHandler) GetResult(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ResponseWithMessage{
			Status:  StatusErr,
			Message: "invalid id",
		})
		return
	}

	result, err := h.resultSvc.GetResult(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrMessageNotFound) {
			c.JSON(http.StatusNotFound, ResponseWithMessage{
				Status:  StatusErr,
				Message: apperrors.ErrMessageNotFound.Error(),
			})
			return
		}

		h.log.Error("Failed to get command result", zap.Int64("id", id), zap.Error(err))

		c.JSON(http.StatusInternalServerError, ResponseWithMessage{
			Status:  StatusErr,
			Message: err.Error(),
		})
		return
	}

	if result.Status == model.MessageQueued {
		c.Header("Retry-After", fmt.Sprintf("%d", int(h.retryAfter.Seconds())))
		c.JSON(http.StatusAccepted, PendingResponse{
			Message: "Still in processing",
			ID:      id,
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
