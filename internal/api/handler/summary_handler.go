package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/finance/bff-web/internal/core/ports"
)

type SummaryHandler struct {
	summaryService ports.SummaryService
}

func NewSummaryHandler(summaryService ports.SummaryService) *SummaryHandler {
	return &SummaryHandler{summaryService: summaryService}
}

// GetAccountSummary returns the account and its transactions in one response.
// Upstream failures are reported in statusMessage with a 200 status.
//
// @Summary      Account summary for the web client
// @Tags         bff-web
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Account ID"
// @Success      200  {object}  domain.Summary
// @Failure      400  {object}  errorBody
// @Failure      401  {object}  errorBody
// @Failure      403  {object}  errorBody
// @Router       /bff/web/v1/accounts/{id} [get]
func (h *SummaryHandler) GetAccountSummary(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{Error: "account id must be an integer"})
	}

	summary := h.summaryService.Summarize(
		c.Request().Context(),
		id,
		c.Request().Header.Get(echo.HeaderAuthorization),
	)
	return c.JSON(http.StatusOK, summary)
}
