package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/light-bringer/markup-catalog/internal/app/catalog/queries/list_events"
)

// ListEvents handles GET /api/v1/events requests.
func (h *Handler) ListEvents(c echo.Context) error {
	// Parse query parameters
	req := &list_events.Request{
		EventType:   c.QueryParam("event_type"),
		AggregateID: c.QueryParam("aggregate_id"),
		Status:      c.QueryParam("status"),
		Limit:       defaultEventLimit,
	}

	if limitStr := c.QueryParam("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			req.Limit = limit
		}
	}

	resp, err := h.qry.ListEvents.Execute(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}

	events := make([]Event, 0, len(resp.Events))
	for _, e := range resp.Events {
		events = append(events, toEvent(e))
	}

	return c.JSON(http.StatusOK, ListEventsResponse{
		Events:     events,
		TotalCount: resp.TotalCount,
	})
}
