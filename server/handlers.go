package server

import (
	"github.com/gin-gonic/gin"

	"github.com/rustyeddy/terminal/broker"
	"github.com/rustyeddy/terminal/terminal"
)

func (s *Server) getOrders(c *gin.Context) {
	write(c, s.svc.Orders(c.Request.Context()))
}

func (s *Server) placeOrder(c *gin.Context) {
	var req broker.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid order request: "+err.Error())
		return
	}
	write(c, s.svc.PlaceOrder(c.Request.Context(), req))
}

func (s *Server) modifyOrder(c *gin.Context) {
	var req broker.ModifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid modify request: "+err.Error())
		return
	}
	req.OrderID = c.Param("order_id")
	write(c, s.svc.ModifyOrder(c.Request.Context(), req))
}

func (s *Server) cancelOrder(c *gin.Context) {
	write(c, s.svc.CancelOrder(c.Request.Context(), c.Param("order_id")))
}

func (s *Server) getTrades(c *gin.Context) {
	write(c, s.svc.Trades(c.Request.Context(), c.Query("order_id")))
}

func (s *Server) getPositions(c *gin.Context) {
	write(c, s.svc.Positions(c.Request.Context()))
}

func (s *Server) getHoldings(c *gin.Context) {
	write(c, s.svc.Holdings(c.Request.Context()))
}

func (s *Server) getLimits(c *gin.Context) {
	write(c, s.svc.Limits(c.Request.Context(),
		c.DefaultQuery("segment", "ALL"),
		c.DefaultQuery("exchange", "ALL"),
		c.DefaultQuery("product", "ALL"),
	))
}

func (s *Server) getDashboard(c *gin.Context) {
	write(c, s.svc.DashboardView(c.Request.Context()))
}

func (s *Server) getMargin(c *gin.Context) {
	var req broker.MarginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid margin request: "+err.Error())
		return
	}
	write(c, s.svc.Margin(c.Request.Context(), req))
}

func (s *Server) getLiveOrders(c *gin.Context) {
	write(c, s.svc.LiveOrders(c.Request.Context()))
}

func (s *Server) getLiveTrades(c *gin.Context) {
	write(c, s.svc.LiveTrades(c.Request.Context(), c.Query("order_id")))
}

func (s *Server) getLivePositions(c *gin.Context) {
	write(c, s.svc.LivePositions(c.Request.Context()))
}

func (s *Server) getLiveHoldings(c *gin.Context) {
	write(c, s.svc.LiveHoldings(c.Request.Context()))
}

func (s *Server) getLiveDashboard(c *gin.Context) {
	write(c, s.svc.LiveDashboardView(c.Request.Context()))
}

func (s *Server) subscribe(c *gin.Context) {
	var req terminal.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid subscribe request: "+err.Error())
		return
	}
	write(c, s.svc.Subscribe(req))
}

func (s *Server) unsubscribe(c *gin.Context) {
	var req terminal.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid unsubscribe request: "+err.Error())
		return
	}
	write(c, s.svc.Unsubscribe(req))
}

func (s *Server) subscribeOrderFeed(c *gin.Context) {
	write(c, s.svc.SubscribeOrderFeed())
}

func (s *Server) getMarketData(c *gin.Context) {
	write(c, s.svc.MarketData(c.Query("instrument_token"), c.Query("exchange_segment")))
}

func (s *Server) getMarketDepth(c *gin.Context) {
	write(c, s.svc.MarketDepth(c.Query("instrument_token"), c.Query("exchange_segment")))
}

func (s *Server) getSubscriptions(c *gin.Context) {
	write(c, s.svc.SubscriptionList())
}

func (s *Server) getWatchlist(c *gin.Context) {
	write(c, s.svc.WatchlistView())
}

func (s *Server) search(c *gin.Context) {
	write(c, s.svc.Search(c.Request.Context(),
		c.DefaultQuery("exchange", "nse_cm"),
		c.Query("symbol"),
	))
}

func (s *Server) getMode(c *gin.Context) {
	write(c, s.svc.Mode())
}

func (s *Server) clearPaper(c *gin.Context) {
	write(c, s.svc.ClearPaper())
}
