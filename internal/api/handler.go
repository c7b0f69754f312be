package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/service"
	"storefront-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	cartService     *service.CartService
	deliveryService *service.DeliveryService
}

// NewHandler creates a new HTTP handler
func NewHandler(cartService *service.CartService, deliveryService *service.DeliveryService) *Handler {
	return &Handler{
		cartService:     cartService,
		deliveryService: deliveryService,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/cart", h.getCart)
		v1.POST("/cart/items", h.addItem)
		v1.POST("/cart/items/remove", h.removeItem)
		v1.DELETE("/cart/items", h.deleteItem)
		v1.PUT("/cart/items/quantity", h.setQuantity)
		v1.DELETE("/cart", h.clearCart)
		v1.GET("/delivery/quote", h.deliveryQuote)
		v1.POST("/checkout", h.checkout)
		v1.POST("/admin/delivery/refresh", h.refreshDeliveryConfig)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// addItemRequest carries the catalog snapshot for an add operation
type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Name      string `json:"name"`
	ImageURL  string `json:"image_url"`
	UnitLabel string `json:"unit_label"`
}

// lineKeyRequest identifies an existing cart line
type lineKeyRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	VariantID string `json:"variant_id"`
}

// setQuantityRequest sets an absolute quantity. Zero is accepted but
// clients should use the delete endpoint to drop a line.
type setQuantityRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

func sessionID(c *gin.Context) (string, bool) {
	id := c.GetHeader("X-Session-ID")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing X-Session-ID header",
		})
		return "", false
	}
	return id, true
}

// cartView is the cart plus its derived delivery quote, the shape the
// storefront renders after every mutation
func (h *Handler) cartView(cart *models.Cart) gin.H {
	settings, upsell := h.deliveryService.Quote(cart.Total())

	view := gin.H{
		"session_id": cart.SessionID,
		"items":      cart.Items,
		"item_count": cart.ItemCount(),
		"subtotal":   cart.Total().String(),
		"delivery":   settings,
	}
	if upsell != nil {
		view["upsell_message"] = *upsell
	}
	return view
}

func (h *Handler) respondCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrQuantityLimitExceeded):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":        "Quantity limit exceeded",
			"max_quantity": models.MaxLineQuantity,
		})
	case errors.Is(err, models.ErrNegativeQuantity):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Quantity must not be negative",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Cart operation failed",
			"details": err.Error(),
		})
	}
}

// getCart returns the session cart with its delivery quote
func (h *Handler) getCart(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	cart, err := h.cartService.GetCart(c.Request.Context(), id)
	if err != nil {
		h.respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.cartView(cart))
}

// addItem merges a line item into the cart
func (h *Handler) addItem(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	item := models.LineItem{
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
		Name:      req.Name,
		ImageURL:  req.ImageURL,
		UnitLabel: req.UnitLabel,
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), id, item)
	if err != nil {
		h.respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.cartView(cart))
}

// removeItem applies decrement-or-delete semantics to a line
func (h *Handler) removeItem(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req lineKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), id,
		models.LineKey{ProductID: req.ProductID, VariantID: req.VariantID})
	if err != nil {
		h.respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.cartView(cart))
}

// deleteItem drops a line entirely regardless of quantity
func (h *Handler) deleteItem(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req lineKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	cart, err := h.cartService.DeleteItem(c.Request.Context(), id,
		models.LineKey{ProductID: req.ProductID, VariantID: req.VariantID})
	if err != nil {
		h.respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.cartView(cart))
}

// setQuantity sets an absolute line quantity
func (h *Handler) setQuantity(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	cart, err := h.cartService.SetQuantity(c.Request.Context(), id,
		models.LineKey{ProductID: req.ProductID, VariantID: req.VariantID}, req.Quantity)
	if err != nil {
		h.respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.cartView(cart))
}

// clearCart empties the session cart
func (h *Handler) clearCart(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	if err := h.cartService.Clear(c.Request.Context(), id); err != nil {
		h.respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": id,
		"cleared":    true,
	})
}

// deliveryQuote resolves the delivery decision for the current cart,
// or for an explicit subtotal query parameter when provided
func (h *Handler) deliveryQuote(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	subtotalParam := c.Query("subtotal")
	if subtotalParam != "" {
		if _, err := strconv.ParseFloat(subtotalParam, 64); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid subtotal",
			})
			return
		}
		settings, upsell := h.deliveryService.Quote(models.ParseAmount(subtotalParam))
		resp := gin.H{"delivery": settings}
		if upsell != nil {
			resp["upsell_message"] = *upsell
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	cart, err := h.cartService.GetCart(c.Request.Context(), id)
	if err != nil {
		h.respondCartError(c, err)
		return
	}

	settings, upsell := h.deliveryService.Quote(cart.Total())
	resp := gin.H{
		"subtotal": cart.Total().String(),
		"delivery": settings,
	}
	if upsell != nil {
		resp["upsell_message"] = *upsell
	}
	c.JSON(http.StatusOK, resp)
}

// checkout finalizes the session cart
func (h *Handler) checkout(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	summary, err := h.cartService.Checkout(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Cart is empty",
			})
			return
		}
		h.respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// refreshDeliveryConfig reloads milestones from the database
func (h *Handler) refreshDeliveryConfig(c *gin.Context) {
	if err := h.deliveryService.LoadMilestones(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to refresh delivery config",
			"details": err.Error(),
		})
		return
	}

	milestones, defaultCharge := h.deliveryService.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"milestones":     milestones,
		"default_charge": defaultCharge.String(),
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
