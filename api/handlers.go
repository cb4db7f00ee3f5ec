package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/coinops/walletcore/core"
	"github.com/coinops/walletcore/processor"
	"github.com/coinops/walletcore/service"
	"github.com/coinops/walletcore/validation"
	"github.com/coinops/walletcore/wallet"
)

// Handler exposes the core over HTTP.
type Handler struct {
	transfers *service.TransferService
	wallets   *wallet.Service
	hub       *Hub
	log       *zap.Logger
}

func NewHandler(transfers *service.TransferService, wallets *wallet.Service, hub *Hub, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{transfers: transfers, wallets: wallets, hub: hub, log: log}
}

type createWalletRequest struct {
	Asset          string `json:"asset" binding:"required"`
	InitialBalance string `json:"initialBalance"`
}

// CreateWallet - generates an address and persists a new wallet
func (h *Handler) CreateWallet(c *gin.Context) {
	var req createWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wallet request"})
		return
	}

	asset, err := core.ParseAssetClass(req.Asset)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	balance := decimal.Zero
	if req.InitialBalance != "" {
		balance, err = decimal.NewFromString(req.InitialBalance)
		if err != nil || balance.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid initial balance"})
			return
		}
	}

	w, err := h.wallets.Create(asset, balance)
	if err != nil {
		h.log.Error("wallet creation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create wallet"})
		return
	}

	c.JSON(http.StatusCreated, w)
}

// ListWallets returns every wallet in the store.
func (h *Handler) ListWallets(c *gin.Context) {
	wallets, err := h.wallets.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list wallets"})
		return
	}
	c.JSON(http.StatusOK, wallets)
}

// GetBalance returns the balance for a wallet address.
func (h *Handler) GetBalance(c *gin.Context) {
	address := c.Param("address")

	balance, ok, err := h.wallets.Balance(address)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read balance"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "wallet not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"address": address, "balance": balance})
}

type submitTransferRequest struct {
	From     string `json:"from" binding:"required"`
	To       string `json:"to" binding:"required"`
	Amount   string `json:"amount" binding:"required"`
	Asset    string `json:"asset" binding:"required"`
	Priority string `json:"priority" binding:"required"`
}

// SubmitTransaction validates, persists, and settles a transfer, then
// admits it into the mempool.
func (h *Handler) SubmitTransaction(c *gin.Context) {
	var req submitTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transfer request"})
		return
	}

	asset, err := core.ParseAssetClass(req.Asset)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	priority, err := core.ParsePriority(req.Priority)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}

	res := h.transfers.SubmitTransfer(req.From, req.To, amount, asset, priority)
	if !res.Success {
		c.JSON(statusForFailure(res), gin.H{"error": res.Reason()})
		return
	}

	c.JSON(http.StatusCreated, res.Transaction)
}

// statusForFailure maps processing outcomes to HTTP statuses: validation
// rejections are the caller's fault, everything else is ours.
func statusForFailure(res processor.Result) int {
	var verr *validation.Error
	if errors.As(res.Err, &verr) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// ListTransactions returns every recorded transaction.
func (h *Handler) ListTransactions(c *gin.Context) {
	txs, err := h.transfers.AllTransactions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list transactions"})
		return
	}
	c.JSON(http.StatusOK, txs)
}

// GetMempool returns the pending set in confirmation-priority order.
func (h *Handler) GetMempool(c *gin.Context) {
	c.JSON(http.StatusOK, h.transfers.PendingMempool())
}
