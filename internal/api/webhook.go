package api

import (
	"net/http"

	"afdian-bridge/internal/models"
	"afdian-bridge/internal/response"
	"afdian-bridge/pkg/logging"

	"github.com/gin-gonic/gin"
)

// receiveWebhook handles an inbound order notification from the platform.
// POST /
//
// The platform expects a definitive acknowledgment: ec 200 once the order is
// persisted (or when the notification is a connectivity test carrying no
// order), ec 500 with HTTP 500 on any processing failure. Downstream
// notification failures never change an acknowledgment already earned by
// successful storage.
func (s *Server) receiveWebhook(c *gin.Context) {
	var notification models.WebhookNotification
	if err := c.ShouldBindJSON(&notification); err != nil {
		logging.Errorf("Failed to parse webhook notification: %v", err)
		response.ServerError(c, "server error")
		return
	}

	payload := notification.Data.Order
	if payload == nil {
		logging.Warnf("Webhook notification carried no order")
		response.OKMessage(c, "no order")
		return
	}

	order := payload.ToOrder()
	if err := s.store.SaveOrder(order); err != nil {
		logging.Errorf("Failed to save order %s: %v", order.OutTradeNo, err)
		response.ServerError(c, "server error")
		return
	}
	logging.Infof("Order saved - out_trade_no: %s, total_amount: %.2f", order.OutTradeNo, order.TotalAmount)

	if s.callback != nil {
		if err := s.callback(c.Request.Context(), order); err != nil {
			logging.Errorf("Order callback failed - out_trade_no: %s, error: %v", order.OutTradeNo, err)
		}
	}

	response.OK(c)
}

// listOrders returns every stored order, newest first.
// GET /orders
func (s *Server) listOrders(c *gin.Context) {
	orders, err := s.store.GetAllOrders()
	if err != nil {
		logging.Errorf("Failed to list orders: %v", err)
		response.ServerError(c, "server error")
		return
	}
	c.JSON(http.StatusOK, orders)
}
