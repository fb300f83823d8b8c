package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"afdian-bridge/internal/database"
	"afdian-bridge/internal/response"
	"afdian-bridge/pkg/logging"

	"github.com/gin-gonic/gin"
)

// adminListOrders returns stored orders, optionally filtered by payer or
// status.
// GET /api/orders?user_id=&status=
func (s *Server) adminListOrders(c *gin.Context) {
	if userID := c.Query("user_id"); userID != "" {
		orders, err := s.store.GetOrdersByUser(userID)
		if err != nil {
			response.ServerError(c, "server error")
			return
		}
		response.OKData(c, orders)
		return
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status, err := strconv.Atoi(statusStr)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "invalid status")
			return
		}
		orders, err := s.store.GetOrdersByStatus(status)
		if err != nil {
			response.ServerError(c, "server error")
			return
		}
		response.OKData(c, orders)
		return
	}

	orders, err := s.store.GetAllOrders()
	if err != nil {
		response.ServerError(c, "server error")
		return
	}
	response.OKData(c, orders)
}

// adminGetOrder returns one stored order.
// GET /api/orders/:id
func (s *Server) adminGetOrder(c *gin.Context) {
	order, err := s.store.GetOrderByID(c.Param("id"))
	if err != nil {
		response.ServerError(c, "server error")
		return
	}
	if order == nil {
		response.Error(c, http.StatusNotFound, "order not found")
		return
	}
	response.OKData(c, order)
}

// adminPing runs the platform connectivity/signature self-test and returns
// the raw envelope.
// GET /api/ping
func (s *Server) adminPing(c *gin.Context) {
	resp := s.client.Ping(c.Request.Context())
	c.JSON(http.StatusOK, resp)
}

// adminQueryOrder polls the platform for orders.
// GET /api/query-order?out_trade_no=&page=&per_page=
func (s *Server) adminQueryOrder(c *gin.Context) {
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 50)

	orders, err := s.client.QueryOrder(c.Request.Context(), page, c.Query("out_trade_no"), perPage)
	if err != nil {
		response.Error(c, http.StatusBadGateway, err.Error())
		return
	}
	response.OKData(c, orders)
}

// adminQuerySponsors polls the platform for backers, caching responses
// briefly so repeated operator queries do not hammer the API.
// GET /api/sponsors?user_ids=&page=&per_page=
func (s *Server) adminQuerySponsors(c *gin.Context) {
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 20)
	userIDs := c.Query("user_ids")

	ctx := c.Request.Context()
	cacheKey := fmt.Sprintf("afdian:sponsors:%s:%d:%d", userIDs, page, perPage)

	if cached, err := database.GetCache(ctx, cacheKey); err == nil {
		c.Data(http.StatusOK, "application/json", []byte(cached))
		return
	}

	sponsors, err := s.client.QuerySponsor(ctx, page, userIDs, perPage)
	if err != nil {
		response.Error(c, http.StatusBadGateway, err.Error())
		return
	}

	body := response.Body{EC: 200, EM: "", Data: sponsors}
	if data, err := json.Marshal(body); err == nil {
		ttl := time.Duration(s.cfg.SponsorCacheSeconds) * time.Second
		if err := database.SetCache(ctx, cacheKey, string(data), ttl); err != nil {
			logging.Warnf("Failed to cache sponsor query: %v", err)
		}
	}
	c.JSON(http.StatusOK, body)
}

// paymentURLRequest asks for a payment link for a user; supplying a
// destination registers the correlation entry resolved when the matching
// order arrives.
type paymentURLRequest struct {
	UserID      string  `json:"user_id" binding:"required"`
	Price       float64 `json:"price"`
	Destination string  `json:"destination"`
}

// adminCreatePaymentURL issues a payment link with the user's id as remark.
// POST /api/payment-url
func (s *Server) adminCreatePaymentURL(c *gin.Context) {
	var req paymentURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	price := req.Price
	if price <= 0 {
		price = s.cfg.DefaultPrice
	}

	if req.Destination != "" {
		s.registry.Register(req.UserID, req.Destination)
	}

	url := s.client.GeneratePaymentURL(price, req.UserID)
	response.OKData(c, gin.H{"url": url})
}

// adminSubscribe adds a destination to the new-order notification set.
// POST /api/subscribe
func (s *Server) adminSubscribe(c *gin.Context) {
	var req struct {
		Destination string `json:"destination" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	s.dispatcher.Subscribe(req.Destination)
	response.OKData(c, gin.H{"subscribers": s.dispatcher.Subscribers()})
}

func queryInt(c *gin.Context, key string, defaultValue int) int {
	if value := c.Query(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
