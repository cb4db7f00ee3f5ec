package api

import "github.com/gin-gonic/gin"

// SetupRoutes initializes all API endpoints
func SetupRoutes(router *gin.Engine, h *Handler) {
	api := router.Group("/api")
	{
		api.POST("/wallets", h.CreateWallet)
		api.GET("/wallets", h.ListWallets)
		api.GET("/wallets/:address/balance", h.GetBalance)
		api.POST("/transactions", h.SubmitTransaction)
		api.GET("/transactions", h.ListTransactions)
		api.GET("/mempool", h.GetMempool)
	}
	router.GET("/ws", h.HandleWebSocket)
}
