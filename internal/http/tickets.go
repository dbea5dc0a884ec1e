package http

import (
	"net/http"
	"strings"

	"github.com/jmehdipour/invest-backoffice/internal/http/middleware"
	"github.com/jmehdipour/invest-backoffice/internal/model"
	"github.com/jmehdipour/invest-backoffice/internal/repository"
	echo "github.com/labstack/echo/v4"
)

type ticketMessageReq struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

type ticketStatusReq struct {
	Status string `json:"status"`
}

// GET /v1/tickets?status=
func listTicketsHandler(tickets repository.TicketsRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		var st model.TicketStatus
		if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" {
			st = model.TicketStatus(raw)
			if !st.Valid() {
				return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid status"})
			}
		}

		limit, offset := paging(c)
		rows, err := tickets.List(c.Request().Context(), st, limit, offset)
		if err != nil {
			c.Logger().Errorf("list tickets failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Unable to fetch tickets"})
		}
		return c.JSON(http.StatusOK, listResponse(limit, offset, len(rows), rows))
	}
}

// GET /v1/tickets/:ticketNo
func getTicketHandler(tickets repository.TicketsRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		t, err := tickets.Get(c.Request().Context(), c.Param("ticketNo"))
		if err != nil {
			c.Logger().Errorf("get ticket failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Something went wrong"})
		}
		if t == nil {
			return c.JSON(http.StatusNotFound, map[string]string{"status": "error", "message": "Ticket not found"})
		}
		return c.JSON(http.StatusOK, t)
	}
}

// POST /v1/tickets/:ticketNo/message
func ticketMessageHandler(tickets repository.TicketsRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req ticketMessageReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"status": "error", "message": "bad request"})
		}
		req.Message = strings.TrimSpace(req.Message)
		if req.Message == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"status": "error", "message": "message is required"})
		}
		if req.Sender == "" {
			req.Sender = middleware.AdminUsernameFromCtx(c)
		}

		found, err := tickets.AddMessage(c.Request().Context(), c.Param("ticketNo"), req.Sender, req.Message)
		if err != nil {
			c.Logger().Errorf("add ticket message failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"status": "error", "message": "Something went wrong"})
		}
		if !found {
			return c.JSON(http.StatusNotFound, map[string]string{"status": "error", "message": "Ticket not found"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "message": "Message sent"})
	}
}

// POST /v1/tickets/:ticketNo/resolve; the body may carry another status, Resolved by default.
func resolveTicketHandler(tickets repository.TicketsRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req ticketStatusReq
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"status": "error", "message": "bad request"})
		}
		st := model.TicketResolved
		if raw := strings.TrimSpace(req.Status); raw != "" {
			st = model.TicketStatus(raw)
			if !st.Valid() {
				return c.JSON(http.StatusBadRequest, map[string]string{"status": "error", "message": "invalid status"})
			}
		}

		changed, err := tickets.SetStatus(c.Request().Context(), c.Param("ticketNo"), st)
		if err != nil {
			c.Logger().Errorf("resolve ticket failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"status": "error", "message": "Something went wrong"})
		}
		if !changed {
			return c.JSON(http.StatusBadRequest, map[string]string{"status": "error", "message": "Ticket not found or already resolved"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}
