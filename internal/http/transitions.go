package http

import (
	"errors"
	"net/http"

	"github.com/jmehdipour/invest-backoffice/internal/http/middleware"
	"github.com/jmehdipour/invest-backoffice/internal/model"
	"github.com/jmehdipour/invest-backoffice/internal/service/transition"
	echo "github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

var successMessages = map[model.RequestKind]map[transition.Action]string{
	model.KindInvestment: {
		transition.ActionActivate: "Investment activated successfully",
		transition.ActionReject:   "Investment rejected successfully",
		transition.ActionDelete:   "Investment deleted successfully",
	},
	model.KindWithdrawal: {
		transition.ActionActivate: "Withdrawal completed successfully",
		transition.ActionReject:   "Withdrawal rejected and refunded successfully",
		transition.ActionDelete:   "Withdrawal deleted successfully",
	},
}

// PUT /v1/investment/:investId?status=&comment=
func investmentTransitionHandler(engine TransitionService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("investId")
		res, err := engine.TransitionInvestment(c.Request().Context(), id,
			c.QueryParam("status"), c.QueryParam("comment"), middleware.AdminUsernameFromCtx(c))
		if err != nil {
			return transitionError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{
			"message":      successMessages[model.KindInvestment][res.Action],
			"investmentId": res.ID,
		})
	}
}

// PUT /v1/withdrawal/:withdrawId?status=&comment=
func withdrawalTransitionHandler(engine TransitionService) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Param("withdrawId")
		res, err := engine.TransitionWithdrawal(c.Request().Context(), id,
			c.QueryParam("status"), c.QueryParam("comment"), middleware.AdminUsernameFromCtx(c))
		if err != nil {
			return transitionError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]string{
			"message":      successMessages[model.KindWithdrawal][res.Action],
			"withdrawalId": res.ID,
		})
	}
}

func transitionError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, transition.ErrInvalidArgument):
		return c.JSON(http.StatusBadRequest, map[string]string{"message": err.Error()})
	case errors.Is(err, transition.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"message": err.Error()})
	case errors.Is(err, transition.ErrConflict):
		return c.JSON(http.StatusConflict, map[string]string{"message": err.Error()})
	default:
		log.Errorf("transition failed: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}
}
