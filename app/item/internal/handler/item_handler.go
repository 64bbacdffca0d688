package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/softrune/itemworld/app/item/internal/manager"
	"github.com/softrune/itemworld/app/item/internal/model"
	"github.com/softrune/itemworld/app/item/internal/service"
	"github.com/softrune/itemworld/pkg/logger"
	"github.com/softrune/itemworld/pkg/web"
)

// 业务错误码
const (
	codeBadRequest      = 4000
	codeInvalidAmount   = 4001
	codeInvalidFacing   = 4002
	codeUnknownItem     = 4100
	codeUnknownMap      = 4101
	codeItemNotFound    = 4102
	codeDropNotFound    = 4103
	codeNotExchangeable = 4200
	codeNotUsable       = 4201
	codeNotDroppable    = 4202
	codeInsufficient    = 4203
	codeTooFarAway      = 4204
	codeInternal        = 5000
)

// ItemHandler 道具服务 HTTP 接入层
type ItemHandler struct {
	logger    logger.Logger
	inventory *service.InventoryService
	drops     *service.DropService
	registry  *prometheus.Registry
}

// NewItemHandler 创建道具 HTTP 处理器
func NewItemHandler(
	l logger.Logger,
	inventory *service.InventoryService,
	drops *service.DropService,
	registry *prometheus.Registry,
) *ItemHandler {
	return &ItemHandler{
		logger:    l.Named("handler.item"),
		inventory: inventory,
		drops:     drops,
		registry:  registry,
	}
}

// Register 注册全部路由
func (h *ItemHandler) Register(r *gin.Engine) {
	r.GET("/healthz", h.healthz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{})))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/items", h.getItemList)

		players := v1.Group("/players/:role_id")
		{
			players.GET("/items", h.getAllItems)
			players.GET("/items/:item_name", h.getItem)
			players.POST("/give", h.give)
			players.POST("/use", h.use)
			players.POST("/drop", h.drop)
			players.POST("/pickup", h.pickup)
		}
	}
}

func (h *ItemHandler) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *ItemHandler) getItemList(c *gin.Context) {
	web.Success(c, h.inventory.GetItemList())
}

func (h *ItemHandler) getAllItems(c *gin.Context) {
	roleID, ok := h.roleID(c)
	if !ok {
		return
	}
	web.Success(c, h.inventory.GetAllItems(roleID))
}

func (h *ItemHandler) getItem(c *gin.Context) {
	roleID, ok := h.roleID(c)
	if !ok {
		return
	}

	itemName := c.Param("item_name")
	count, err := h.inventory.GetItem(roleID, itemName)
	if err != nil {
		h.writeError(c, err)
		return
	}

	web.Success(c, gin.H{"item_name": itemName, "count": count})
}

type giveRequest struct {
	ToRoleID int64  `json:"to_role_id" binding:"required"`
	ItemName string `json:"item_name" binding:"required"`
	Amount   int64  `json:"amount" binding:"required"`
}

func (h *ItemHandler) give(c *gin.Context) {
	roleID, ok := h.roleID(c)
	if !ok {
		return
	}

	var req giveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Error(c, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	if err := h.inventory.Transfer(c.Request.Context(), roleID, req.ToRoleID, req.ItemName, req.Amount); err != nil {
		h.writeError(c, err)
		return
	}

	web.Success(c, nil)
}

type useRequest struct {
	ItemName string `json:"item_name" binding:"required"`
	Amount   int64  `json:"amount" binding:"required"`
}

func (h *ItemHandler) use(c *gin.Context) {
	roleID, ok := h.roleID(c)
	if !ok {
		return
	}

	var req useRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Error(c, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	if err := h.inventory.Use(c.Request.Context(), roleID, req.ItemName, req.Amount); err != nil {
		h.writeError(c, err)
		return
	}

	web.Success(c, nil)
}

type dropRequest struct {
	ItemName string `json:"item_name" binding:"required"`
	MapName  string `json:"map_name" binding:"required"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Facing   string `json:"facing" binding:"required"`
}

func (h *ItemHandler) drop(c *gin.Context) {
	roleID, ok := h.roleID(c)
	if !ok {
		return
	}

	var req dropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Error(c, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	facing, err := model.ParseFacing(req.Facing)
	if err != nil {
		web.Error(c, http.StatusBadRequest, codeInvalidFacing, "invalid facing, expected U/D/L/R")
		return
	}

	pos := model.Position{MapName: req.MapName, X: req.X, Y: req.Y}
	index, landing, err := h.drops.Drop(c.Request.Context(), roleID, req.ItemName, pos, facing)
	if err != nil {
		h.writeError(c, err)
		return
	}

	web.Success(c, gin.H{"drop_index": index, "position": landing})
}

type pickupRequest struct {
	DropIndex *int64 `json:"drop_index" binding:"required"`
	MapName   string `json:"map_name" binding:"required"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
}

func (h *ItemHandler) pickup(c *gin.Context) {
	roleID, ok := h.roleID(c)
	if !ok {
		return
	}

	var req pickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.Error(c, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}

	pos := model.Position{MapName: req.MapName, X: req.X, Y: req.Y}
	itemName, err := h.drops.Pickup(c.Request.Context(), roleID, *req.DropIndex, pos)
	if err != nil {
		h.writeError(c, err)
		return
	}

	web.Success(c, gin.H{"item_name": itemName})
}

func (h *ItemHandler) roleID(c *gin.Context) (int64, bool) {
	roleID, err := strconv.ParseInt(c.Param("role_id"), 10, 64)
	if err != nil || roleID <= 0 {
		web.Error(c, http.StatusBadRequest, codeBadRequest, "invalid role id")
		return 0, false
	}
	return roleID, true
}

// writeError 把业务错误映射为 HTTP 状态码与业务错误码
func (h *ItemHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, manager.ErrInvalidAmount):
		web.Error(c, http.StatusBadRequest, codeInvalidAmount, err.Error())
	case errors.Is(err, manager.ErrUnknownItem):
		web.Error(c, http.StatusNotFound, codeUnknownItem, err.Error())
	case errors.Is(err, manager.ErrUnknownMap):
		web.Error(c, http.StatusNotFound, codeUnknownMap, err.Error())
	case errors.Is(err, manager.ErrItemNotFound):
		web.Error(c, http.StatusNotFound, codeItemNotFound, err.Error())
	case errors.Is(err, manager.ErrDropNotFound):
		web.Error(c, http.StatusNotFound, codeDropNotFound, err.Error())
	case errors.Is(err, manager.ErrItemNotExchangeable):
		web.Error(c, http.StatusConflict, codeNotExchangeable, err.Error())
	case errors.Is(err, manager.ErrItemNotUsable):
		web.Error(c, http.StatusConflict, codeNotUsable, err.Error())
	case errors.Is(err, manager.ErrItemNotDroppable):
		web.Error(c, http.StatusConflict, codeNotDroppable, err.Error())
	case errors.Is(err, manager.ErrInsufficientQuantity):
		web.Error(c, http.StatusConflict, codeInsufficient, err.Error())
	case errors.Is(err, manager.ErrTooFarAway):
		web.Error(c, http.StatusConflict, codeTooFarAway, err.Error())
	default:
		h.logger.Error("unexpected error", "path", c.FullPath(), "error", err)
		web.Error(c, http.StatusInternalServerError, codeInternal, "internal error")
	}
}
