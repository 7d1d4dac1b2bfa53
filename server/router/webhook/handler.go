// Package webhook serves the timesheet tools called by the voice platform.
//
// Every tool answers HTTP 200 with {"results":[{"toolCallId":..,"result":{..}}]};
// failures are results too, carrying an error code and a message the assistant
// can read out.
package webhook

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/hrygo/sitevoice/server/internal/errors"
	"github.com/hrygo/sitevoice/server/internal/observability"
	"github.com/hrygo/sitevoice/server/service/timesheet"
)

// BasePath is where the timesheet tools are mounted.
const BasePath = "/api/v1/skills/timesheet"

// Tool names, used in logs and metrics.
const (
	ToolIdentifySite   = "identify_site"
	ToolSaveEntry      = "save_entry"
	ToolCheckConflicts = "check_conflicts"
	ToolUpdateEntry    = "update_entry"
	ToolConfirmAll     = "confirm_and_finalize"
	ToolRecentHistory  = "recent_history"
)

const maxBodyBytes = 1 << 20

// Handler serves the timesheet tools.
type Handler struct {
	service timesheet.Service
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewHandler creates a handler. metrics may be nil.
func NewHandler(service timesheet.Service, metrics *observability.Metrics, logger *slog.Logger) *Handler {
	if metrics == nil {
		metrics = observability.NewMetrics(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, metrics: metrics, logger: logger}
}

// Register mounts the tool routes on g.
func (h *Handler) Register(g *echo.Group) {
	g.POST("/identify-site", h.tool(ToolIdentifySite, "site_identified", h.identifySite))
	g.POST("/save-entry", h.tool(ToolSaveEntry, "success", h.saveEntry))
	g.POST("/check-date-conflicts", h.tool(ToolCheckConflicts, "has_conflicts", h.checkConflicts))
	g.POST("/update-entry", h.tool(ToolUpdateEntry, "success", h.updateEntry))
	g.POST("/confirm-all", h.tool(ToolConfirmAll, "success", h.confirmAll))
	g.POST("/get-recent-timesheets", h.tool(ToolRecentHistory, "has_timesheets", h.recentHistory))
}

type toolFunc func(ctx context.Context, req *ToolRequest) (any, error)

// tool adapts a toolFunc to echo: it decodes the envelope, scopes a request
// logger, records metrics and turns errors into speakable results.
func (h *Handler) tool(name, flag string, fn toolFunc) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		reqCtx := observability.NewRequestContextWithID(h.logger, requestID, name, "")
		toolCallID := ""

		defer func() {
			if r := recover(); r != nil {
				err = h.respond(c, reqCtx, name, flag, toolCallID, nil, apperrors.Internal(fmt.Errorf("panic: %v", r)))
			}
		}()

		body, readErr := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes))
		var req *ToolRequest
		if readErr == nil {
			req, readErr = parseToolRequest(body)
		}
		if readErr != nil {
			return h.respond(c, reqCtx, name, flag, "", nil,
				apperrors.Wrap(readErr, apperrors.ErrCodeValidation, "Sorry, I didn't get the details for that. Could you say it again?"))
		}

		reqCtx.CallID = req.CallID
		toolCallID = req.ToolCallID
		ctx := observability.WithRequestContext(c.Request().Context(), reqCtx)
		reqCtx.Debug("tool call received", slog.String("function", req.Function))

		result, fnErr := fn(ctx, req)
		return h.respond(c, reqCtx, name, flag, toolCallID, result, fnErr)
	}
}

func (h *Handler) respond(c echo.Context, reqCtx *observability.RequestContext, name, flag, toolCallID string, result any, err error) error {
	code := ""
	if err != nil {
		tsErr, ok := apperrors.As(err)
		if !ok {
			tsErr = apperrors.Internal(err)
		}
		code = string(tsErr.Code)
		result = failureResult(flag, code, tsErr.Message)

		attrs := []slog.Attr{slog.String(observability.LogFieldErrorCode, code)}
		switch tsErr.Code {
		case apperrors.ErrCodeInternal, apperrors.ErrCodeStorage:
			reqCtx.Error("tool call failed", err, attrs...)
		default:
			reqCtx.Info("tool call rejected", append(attrs, slog.String("reason", err.Error()))...)
		}
	}

	h.metrics.RecordToolCall(name, code, reqCtx.Duration())
	reqCtx.Debug("tool call completed", slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))

	return c.JSON(http.StatusOK, ToolResponse{
		Results: []ToolResult{{ToolCallID: toolCallID, Result: result}},
	})
}
