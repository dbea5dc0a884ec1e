package http

import (
	"net/http"
	"strings"

	"github.com/jmehdipour/invest-backoffice/internal/model"
	echo "github.com/labstack/echo/v4"
)

// GET /v1/customers
func listCustomersHandler(customers CustomerReader) echo.HandlerFunc {
	return func(c echo.Context) error {
		limit, offset := paging(c)
		rows, err := customers.List(c.Request().Context(), limit, offset)
		if err != nil {
			c.Logger().Errorf("list customers failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Unable to fetch customers"})
		}
		return c.JSON(http.StatusOK, listResponse(limit, offset, len(rows), rows))
	}
}

// GET /v1/customers/:username/ledger
func customerLedgerHandler(customers CustomerReader, ledger LedgerReader) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		cu, err := customers.GetByUsername(ctx, nil, c.Param("username"), false)
		if err != nil {
			c.Logger().Errorf("load customer failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
		}
		if cu == nil {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Customer not found"})
		}

		limit, offset := paging(c)
		rows, err := ledger.ListByCustomer(ctx, cu.ID, limit, offset)
		if err != nil {
			c.Logger().Errorf("list ledger failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
		}
		return c.JSON(http.StatusOK, listResponse(limit, offset, len(rows), rows))
	}
}

// GET /v1/investments?status=
func listInvestmentsHandler(investments InvestmentReader) echo.HandlerFunc {
	return func(c echo.Context) error {
		var st model.InvestmentStatus
		if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" {
			parsed, ok := model.ParseInvestmentStatus(raw)
			if !ok {
				return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid status"})
			}
			st = parsed
		}

		limit, offset := paging(c)
		rows, err := investments.List(c.Request().Context(), st, limit, offset)
		if err != nil {
			c.Logger().Errorf("list investments failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Unable to fetch investments"})
		}
		return c.JSON(http.StatusOK, listResponse(limit, offset, len(rows), rows))
	}
}

// GET /v1/investments/:id
func getInvestmentHandler(investments InvestmentReader) echo.HandlerFunc {
	return func(c echo.Context) error {
		inv, err := investments.Get(c.Request().Context(), c.Param("id"))
		if err != nil {
			c.Logger().Errorf("get investment failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
		}
		if inv == nil {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Investment not found"})
		}
		return c.JSON(http.StatusOK, inv)
	}
}

// GET /v1/withdrawals?status=
func listWithdrawalsHandler(withdrawals WithdrawalReader) echo.HandlerFunc {
	return func(c echo.Context) error {
		var st model.WithdrawalStatus
		if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" {
			parsed, ok := model.ParseWithdrawalStatus(raw)
			if !ok {
				return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid status"})
			}
			st = parsed
		}

		limit, offset := paging(c)
		rows, err := withdrawals.List(c.Request().Context(), st, limit, offset)
		if err != nil {
			c.Logger().Errorf("list withdrawals failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Unable to fetch withdrawals"})
		}
		return c.JSON(http.StatusOK, listResponse(limit, offset, len(rows), rows))
	}
}

// GET /v1/withdrawals/:id
func getWithdrawalHandler(withdrawals WithdrawalReader) echo.HandlerFunc {
	return func(c echo.Context) error {
		wd, err := withdrawals.Get(c.Request().Context(), c.Param("id"))
		if err != nil {
			c.Logger().Errorf("get withdrawal failed: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
		}
		if wd == nil {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "Withdrawal not found"})
		}
		return c.JSON(http.StatusOK, wd)
	}
}
