package http

import (
	"net/http"
	"strings"

	"github.com/jmehdipour/invest-backoffice/internal/model"
	"github.com/jmehdipour/invest-backoffice/internal/repository"
	echo "github.com/labstack/echo/v4"
)

// GET /v1/reports/transitions?kind=&username=&limit=&offset=
func listTransitionsHandler(chRepo repository.CHTransitionsRepository) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit, offset := paging(c)

		var kind model.RequestKind
		switch raw := model.RequestKind(strings.ToLower(strings.TrimSpace(c.QueryParam("kind")))); raw {
		case "":
		case model.KindInvestment, model.KindWithdrawal:
			kind = raw
		default:
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "kind must be investment or withdrawal"})
		}

		events, err := chRepo.List(c.Request().Context(), repository.TransitionFilter{
			Kind:     kind,
			Username: strings.TrimSpace(c.QueryParam("username")),
			Limit:    limit,
			Offset:   offset,
		})
		if err != nil {
			c.Logger().Errorf("clickhouse list failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "query failed"})
		}

		return c.JSON(http.StatusOK, listResponse(limit, offset, len(events), events))
	}
}
