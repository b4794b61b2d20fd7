package handlers

import (
	"errors"
	"net/http"

	"checkout-service/internal/models"
	"checkout-service/internal/service"
	"checkout-service/internal/transport/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartHandler struct {
	cart     service.CartService
	shipping service.ShippingService
	log      *zap.Logger
}

func NewCartHandler(cart service.CartService, shipping service.ShippingService, log *zap.Logger) *CartHandler {
	return &CartHandler{cart: cart, shipping: shipping, log: log}
}

func (h *CartHandler) CreateCart(c *gin.Context) {
	var req dto.CreateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBadRequestError("invalid request body"))
		return
	}

	in := service.CreateCartInput{
		CartType:      models.CartType(req.CartType),
		Name:          req.Name,
		BindToSession: req.BindToSession,
	}
	if req.ParentKey != nil {
		parentID, err := uuid.Parse(*req.ParentKey)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewBadRequestError("parent_key must be a valid key"))
			return
		}
		in.ParentID = &parentID
	}

	node, err := h.cart.CreateCart(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartNotFound):
			c.JSON(http.StatusNotFound, dto.NewNotFoundError(err.Error()))
		case errors.Is(err, service.ErrNoSession):
			c.JSON(http.StatusBadRequest, dto.NewBadRequestError(err.Error()))
		default:
			h.log.Error("create cart failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToCartNodeResponse(node))
}

func (h *CartHandler) cartKeyParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("key"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBadRequestError("cart key must be a valid key"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *CartHandler) AddItem(c *gin.Context) {
	nodeID, ok := h.cartKeyParam(c)
	if !ok {
		return
	}

	var req dto.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBadRequestError("invalid request body"))
		return
	}
	articleID, err := uuid.Parse(req.ArticleKey)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBadRequestError("article_key must be a valid key"))
		return
	}

	leaf, err := h.cart.AddItem(c.Request.Context(), nodeID, articleID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuantityInvalid):
			c.JSON(http.StatusBadRequest, dto.NewBadRequestError(err.Error()))
		case errors.Is(err, service.ErrCartNotFound), errors.Is(err, service.ErrArticleNotFound):
			c.JSON(http.StatusNotFound, dto.NewNotFoundError(err.Error()))
		default:
			h.log.Error("add item failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToCartLeafResponse(leaf))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	leafID, err := uuid.Parse(c.Param("item"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBadRequestError("item key must be a valid key"))
		return
	}

	if err := h.cart.RemoveItem(c.Request.Context(), leafID); err != nil {
		if errors.Is(err, service.ErrCartNotFound) {
			c.JSON(http.StatusNotFound, dto.NewNotFoundError("line item not found"))
			return
		}
		h.log.Error("remove item failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CartHandler) GetChildren(c *gin.Context) {
	nodeID, ok := h.cartKeyParam(c)
	if !ok {
		return
	}

	nodes, leaves, err := h.cart.GetChildren(c.Request.Context(), nodeID)
	if err != nil {
		if errors.Is(err, service.ErrCartNotFound) {
			c.JSON(http.StatusNotFound, dto.NewNotFoundError(err.Error()))
			return
		}
		h.log.Error("get children failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	nodeResp := make([]dto.CartNodeResponse, 0, len(nodes))
	for i := range nodes {
		nodeResp = append(nodeResp, dto.ToCartNodeResponse(&nodes[i]))
	}
	leafResp := make([]dto.CartLeafResponse, 0, len(leaves))
	for i := range leaves {
		leafResp = append(leafResp, dto.ToCartLeafResponse(&leaves[i]))
	}
	c.JSON(http.StatusOK, gin.H{"nodes": nodeResp, "leaves": leafResp})
}

// resolveCartKey: явный ключ из запроса либо корзина текущей сессии.
func (h *CartHandler) resolveCartKey(c *gin.Context, explicit *string) (uuid.UUID, bool) {
	if explicit != nil && *explicit != "" {
		id, err := uuid.Parse(*explicit)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewBadRequestError("cart_key must be a valid key"))
			return uuid.Nil, false
		}
		return id, true
	}

	id, ok, err := h.cart.CurrentSessionCartKey(c.Request.Context())
	if err != nil {
		h.log.Error("session cart lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return uuid.Nil, false
	}
	if !ok {
		c.JSON(http.StatusNotFound, dto.NewNotFoundError("no active cart for this session"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *CartHandler) ShippingOptions(c *gin.Context) {
	var explicit *string
	if q := c.Query("cart_key"); q != "" {
		explicit = &q
	}
	cartID, ok := h.resolveCartKey(c, explicit)
	if !ok {
		return
	}

	options, err := h.shipping.GetShippingOptionsForCart(c.Request.Context(), cartID)
	if err != nil {
		if errors.Is(err, service.ErrCartNotFound) {
			c.JSON(http.StatusNotFound, dto.NewNotFoundError(err.Error()))
			return
		}
		h.log.Error("shipping options failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		return
	}

	resp := make([]dto.ShippingOptionResponse, 0, len(options))
	for i := range options {
		resp = append(resp, dto.ToShippingOptionResponse(&options[i]))
	}
	c.JSON(http.StatusOK, gin.H{"options": resp})
}

func (h *CartHandler) SetShipping(c *gin.Context) {
	var req dto.SetShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBadRequestError("invalid request body"))
		return
	}

	cartID, ok := h.resolveCartKey(c, req.CartKey)
	if !ok {
		return
	}

	var optionID *uuid.UUID
	if req.ShippingKey != nil && *req.ShippingKey != "" {
		id, err := uuid.Parse(*req.ShippingKey)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewBadRequestError("shipping_key must be a valid key"))
			return
		}
		optionID = &id
	}

	if err := h.shipping.SetShippingToCart(c.Request.Context(), cartID, optionID); err != nil {
		switch {
		case errors.Is(err, service.ErrCartNotFound), errors.Is(err, service.ErrShippingNotFound):
			c.JSON(http.StatusNotFound, dto.NewNotFoundError(err.Error()))
		default:
			h.log.Error("set shipping failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CartHandler) SetShippingAddress(c *gin.Context) {
	var req dto.SetShippingAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBadRequestError("invalid request body"))
		return
	}

	cartID, ok := h.resolveCartKey(c, req.CartKey)
	if !ok {
		return
	}
	addressID, err := uuid.Parse(req.AddressKey)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBadRequestError("address_key must be a valid key"))
		return
	}

	if err := h.shipping.SetShippingAddress(c.Request.Context(), cartID, addressID); err != nil {
		switch {
		case errors.Is(err, service.ErrShippingAddrType):
			c.JSON(http.StatusBadRequest, dto.NewBadRequestError(err.Error()))
		case errors.Is(err, service.ErrCartNotFound), errors.Is(err, service.ErrAddressNotFound):
			c.JSON(http.StatusNotFound, dto.NewNotFoundError(err.Error()))
		default:
			h.log.Error("set shipping address failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, dto.NewInternalError(""))
		}
		return
	}
	c.Status(http.StatusNoContent)
}
