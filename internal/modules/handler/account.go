package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meurdo/meurdo-api/internal/modules/serializer"
	"github.com/meurdo/meurdo-api/internal/modules/service"
)

type AccountHandler struct {
	billing service.BillingService
}

func NewAccountHandler(b service.BillingService) *AccountHandler {
	return &AccountHandler{billing: b}
}

// GetMe godoc
//
//	@Summary		Current session
//	@Description	The authenticated user with the cached subscriber flag
//	@Tags			account
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Session}
//	@Router			/me [get]
func (h *AccountHandler) GetMe(c *gin.Context) {
	sess, ok := sessionOf(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.CheckLogin())
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: sess})
}

type CheckoutReq struct {
	PriceID string `json:"price_id" example:"price_1PpRoMonthly"`
}

// Checkout godoc
//
//	@Summary		Start checkout
//	@Description	Create a hosted checkout session for the Pro plan and return its URL
//	@Tags			account
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	CheckoutReq	false	"Price"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.Redirect}
//	@Router			/billing/checkout [post]
func (h *AccountHandler) Checkout(c *gin.Context) {
	sess, ok := sessionOf(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.CheckLogin())
		return
	}
	req := CheckoutReq{}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
			return
		}
	}

	out, err := h.billing.Checkout(c.Request.Context(), sess, req.PriceID)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// Portal godoc
//
//	@Summary		Open billing portal
//	@Description	Create a customer portal session and return its URL
//	@Tags			account
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.Redirect}
//	@Router			/billing/portal [post]
func (h *AccountHandler) Portal(c *gin.Context) {
	sess, ok := sessionOf(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.CheckLogin())
		return
	}

	out, err := h.billing.Portal(c.Request.Context(), sess)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}
