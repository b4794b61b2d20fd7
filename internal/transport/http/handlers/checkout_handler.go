package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"checkout-service/internal/models"
	"checkout-service/internal/service"
	"checkout-service/internal/transport/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CheckoutHandler struct {
	orders service.OrderService
	log    *zap.Logger
}

func NewCheckoutHandler(orders service.OrderService, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{orders: orders, log: log}
}

func (h *CheckoutHandler) PaymentProviders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"providers": h.orders.PaymentProviders()})
}

func parseOptionalUUID(f dto.Field[*string]) (service.Optional[*uuid.UUID], error) {
	if !f.Set {
		return service.Optional[*uuid.UUID]{}, nil
	}
	if f.Value == nil {
		return service.Some[*uuid.UUID](nil), nil
	}
	id, err := uuid.Parse(*f.Value)
	if err != nil {
		return service.Optional[*uuid.UUID]{}, err
	}
	return service.Some(&id), nil
}

func optionalBool(f dto.Field[bool]) service.Optional[bool] {
	if !f.Set {
		return service.Optional[bool]{}
	}
	return service.Some(f.Value)
}

func (h *CheckoutHandler) OrderAdd(c *gin.Context) {
	var req dto.OrderAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid order_add request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.NewBadRequestError("invalid request body"))
		return
	}

	cartID, err := uuid.Parse(req.CartKey)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBadRequestError("cart_key must be a valid key"))
		return
	}

	in := service.OrderAddInput{
		CartID:       cartID,
		StateOrdered: optionalBool(req.StateOrdered),
		StatePaid:    optionalBool(req.StatePaid),
		StateRTS:     optionalBool(req.StateRTS),
	}

	if req.PaymentProvider.Set {
		in.PaymentProvider = service.Some(req.PaymentProvider.Value)
	}
	if req.Email.Set {
		in.Email = service.Some(req.Email.Value)
	}
	if in.BillingAddressID, err = parseOptionalUUID(req.BillingAddressKey); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBadRequestError("billing_address_key must be a valid key"))
		return
	}
	if in.CustomerID, err = parseOptionalUUID(req.CustomerKey); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBadRequestError("customer_key must be a valid key"))
		return
	}

	order, err := h.orders.OrderAdd(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCart),
			errors.Is(err, service.ErrBillingAddressType),
			errors.Is(err, service.ErrAddressNotFound):
			c.JSON(http.StatusBadRequest, dto.NewBadRequestError(err.Error()))
		case errors.Is(err, service.ErrCartNotFound):
			c.JSON(http.StatusNotFound, dto.NewNotFoundError(err.Error()))
		default:
			h.log.Error("order_add failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

func (h *CheckoutHandler) orderKeyParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("key"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBadRequestError("order key must be a valid key"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *CheckoutHandler) CheckoutStart(c *gin.Context) {
	orderID, ok := h.orderKeyParam(c)
	if !ok {
		return
	}

	order, verrs, err := h.orders.CheckoutStart(c.Request.Context(), orderID)
	h.respondTransition(c, order, verrs, err)
}

func (h *CheckoutHandler) CheckoutOrder(c *gin.Context) {
	orderID, ok := h.orderKeyParam(c)
	if !ok {
		return
	}

	order, verrs, err := h.orders.CheckoutOrder(c.Request.Context(), orderID)
	h.respondTransition(c, order, verrs, err)
}

func (h *CheckoutHandler) respondTransition(c *gin.Context, order *models.Order, verrs []string, err error) {
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, dto.NewNotFoundError(err.Error()))
		case errors.Is(err, service.ErrConflict):
			c.JSON(http.StatusConflict, dto.NewConflictError(err.Error()))
		default:
			// сюда же попадает ErrProviderUnknown: ошибка конфигурации
			h.log.Error("checkout transition failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		}
		return
	}
	if len(verrs) > 0 {
		c.JSON(http.StatusBadRequest, dto.NewValidationErrors(verrs))
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

func (h *CheckoutHandler) ListOrders(c *gin.Context) {
	limit := atoiDefault(c.Query("limit"), 20)
	offset := atoiDefault(c.Query("offset"), 0)

	orders, total, err := h.orders.ListOrders(c.Request.Context(), limit, offset)
	if err != nil {
		if errors.Is(err, service.ErrNoActor) {
			c.JSON(http.StatusUnauthorized, dto.NewUnauthorizedError("authentication required"))
			return
		}
		h.log.Error("list orders failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	resp := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, dto.ToOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, gin.H{"orders": resp, "total": total})
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func (h *CheckoutHandler) GetOrder(c *gin.Context) {
	orderID, ok := h.orderKeyParam(c)
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, dto.NewNotFoundError(err.Error()))
			return
		}
		h.log.Error("get order failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}
