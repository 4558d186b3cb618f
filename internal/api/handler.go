// Package api MSP 服务的管理接口
package api

import (
	"context"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taoyao-code/msp-server/internal/fc"
	"github.com/taoyao-code/msp-server/internal/flash"
	"github.com/taoyao-code/msp-server/internal/gateway"
	"github.com/taoyao-code/msp-server/internal/protocol/msp"
	"github.com/taoyao-code/msp-server/internal/storage/models"
)

// maxUploadSize 单次追加到数据闪存的上限
const maxUploadSize = 1 << 20

// CommandLogReader 命令审计查询
type CommandLogReader interface {
	ListCommandLog(ctx context.Context, sessionID string, limit int) ([]models.CommandLog, error)
}

// Handler 管理接口处理器
type Handler struct {
	engine    *msp.Engine
	gw        *gateway.Gateway
	chip      *flash.Chip
	logs      CommandLogReader
	startedAt time.Time
	logger    *zap.Logger
}

// NewHandler chip 与 logs 可为 nil，对应接口返回 503
func NewHandler(engine *msp.Engine, gw *gateway.Gateway, chip *flash.Chip, logs CommandLogReader, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		engine:    engine,
		gw:        gw,
		chip:      chip,
		logs:      logs,
		startedAt: time.Now(),
		logger:    logger,
	}
}

// StatusResponse 服务状态
type StatusResponse struct {
	Identity      fc.Identity    `json:"identity"`
	UID           string         `json:"uid"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	Armed         bool           `json:"armed"`
	ArmingFlags   uint32         `json:"arming_disable_flags"`
	Sessions      int            `json:"sessions"`
	Flash         *flash.Summary `json:"flash,omitempty"`
}

// Status 服务状态
// @Summary 服务状态
// @Description 板卡标识、运行时长、解锁状态、会话数与数据闪存摘要
// @Tags 状态
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} StatusResponse
// @Router /api/status [get]
func (h *Handler) Status(c *gin.Context) {
	var resp StatusResponse
	h.engine.Locked(func(fctx *fc.Context) {
		resp.Identity = fctx.Identity
		resp.UID = fctx.Identity.UIDString()
		resp.Armed = fctx.State.Armed
		resp.ArmingFlags = fctx.State.ArmingDisableFlags
	})
	resp.UptimeSeconds = int64(time.Since(h.startedAt).Seconds())
	resp.Sessions = h.gw.Len()
	if h.chip != nil {
		sum := h.chip.Summary()
		resp.Flash = &sum
	}
	c.JSON(http.StatusOK, resp)
}

// Config 导出实时配置
// @Summary 导出实时配置
// @Description 以 YAML（默认）或 JSON 导出当前配置，YAML 可直接作为启动 profile
// @Tags 配置
// @Produce json
// @Produce plain
// @Security ApiKeyAuth
// @Param format query string false "yaml 或 json"
// @Success 200 {string} string "配置内容"
// @Failure 400 {object} map[string]interface{}
// @Router /api/config [get]
func (h *Handler) Config(c *gin.Context) {
	var cfg *fc.Config
	h.engine.Locked(func(fctx *fc.Context) { cfg = fctx.Config.Clone() })

	switch strings.ToLower(c.DefaultQuery("format", "yaml")) {
	case "json":
		c.JSON(http.StatusOK, cfg)
	case "yaml", "yml":
		out, err := fc.MarshalProfile(cfg)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/yaml; charset=utf-8", out)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be yaml or json"})
	}
}

// State 运行时状态
// @Summary 运行时状态
// @Tags 状态
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/state [get]
func (h *Handler) State(c *gin.Context) {
	var st fc.State
	h.engine.Locked(func(fctx *fc.Context) { st = fctx.State.Clone() })
	c.JSON(http.StatusOK, st)
}

// ListSessions 在线会话
// @Summary 在线会话
// @Tags 会话
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/sessions [get]
func (h *Handler) ListSessions(c *gin.Context) {
	sessions := h.gw.Sessions()
	c.JSON(http.StatusOK, gin.H{"sessions": sessions, "count": len(sessions)})
}

// KickSession 断开会话
// @Summary 断开会话
// @Tags 会话
// @Security ApiKeyAuth
// @Param id path string true "会话 ID"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /api/sessions/{id} [delete]
func (h *Handler) KickSession(c *gin.Context) {
	id := c.Param("id")
	if !h.gw.Kick(id) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	h.logger.Info("session kicked via api", zap.String("session", id))
	c.Status(http.StatusNoContent)
}

// CommandLogEntry 命令审计记录
type CommandLogEntry struct {
	ID         int64     `json:"id"`
	SessionID  string    `json:"session_id"`
	Transport  string    `json:"transport"`
	Cmd        int32     `json:"cmd"`
	CmdName    string    `json:"cmd_name"`
	Result     string    `json:"result"`
	Request    string    `json:"request"`
	ReplyLen   int32     `json:"reply_len"`
	DurationUs int32     `json:"duration_us"`
	CreatedAt  time.Time `json:"created_at"`
}

func toEntry(l models.CommandLog) CommandLogEntry {
	return CommandLogEntry{
		ID:         l.ID,
		SessionID:  l.SessionID,
		Transport:  l.Transport,
		Cmd:        l.Cmd,
		CmdName:    l.CmdName,
		Result:     msp.Result(l.Result).String(),
		Request:    hex.EncodeToString(l.Request),
		ReplyLen:   l.ReplyLen,
		DurationUs: l.DurationUs,
		CreatedAt:  l.CreatedAt,
	}
}

// ListCommands 命令审计
// @Summary 命令审计
// @Description 最近写入的修改类命令，可按会话过滤
// @Tags 会话
// @Produce json
// @Security ApiKeyAuth
// @Param session query string false "会话 ID"
// @Param limit query int false "条数(默认100, 最大500)"
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /api/commands [get]
func (h *Handler) ListCommands(c *gin.Context) {
	if h.logs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "command audit disabled"})
		return
	}
	limit := 100
	if v := c.Query("limit"); v != "" {
		if vv, e := strconv.Atoi(v); e == nil {
			limit = vv
		}
	}
	list, err := h.logs.ListCommandLog(c.Request.Context(), c.Query("session"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]CommandLogEntry, 0, len(list))
	for _, l := range list {
		out = append(out, toEntry(l))
	}
	c.JSON(http.StatusOK, gin.H{"commands": out})
}

// DataflashSummary 数据闪存摘要
// @Summary 数据闪存摘要
// @Tags 数据闪存
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} flash.Summary
// @Failure 503 {object} map[string]interface{}
// @Router /api/dataflash [get]
func (h *Handler) DataflashSummary(c *gin.Context) {
	if !h.requireChip(c) {
		return
	}
	c.JSON(http.StatusOK, h.chip.Summary())
}

// DataflashAppend 追加日志数据
// @Summary 追加日志数据
// @Description 请求体原样追加到数据闪存末尾，写满时返回 507 与已写入字节数
// @Tags 数据闪存
// @Accept octet-stream
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]interface{}
// @Failure 507 {object} map[string]interface{}
// @Router /api/dataflash [post]
func (h *Handler) DataflashAppend(c *gin.Context) {
	if !h.requireChip(c) {
		return
	}
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxUploadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(data) > maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "body too large"})
		return
	}
	n, err := h.chip.Append(c.Request.Context(), data)
	switch {
	case errors.Is(err, flash.ErrFull):
		c.JSON(http.StatusInsufficientStorage, gin.H{"written": n, "error": err.Error()})
	case errors.Is(err, flash.ErrNotReady):
		c.JSON(http.StatusConflict, gin.H{"written": n, "error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"written": n, "error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"written": n, "used": h.chip.Offset()})
	}
}

// DataflashErase 整片擦除
// @Summary 整片擦除
// @Tags 数据闪存
// @Security ApiKeyAuth
// @Success 204
// @Failure 503 {object} map[string]interface{}
// @Router /api/dataflash [delete]
func (h *Handler) DataflashErase(c *gin.Context) {
	if !h.requireChip(c) {
		return
	}
	if err := h.chip.EraseAll(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) requireChip(c *gin.Context) bool {
	if h.chip == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dataflash disabled"})
		return false
	}
	return true
}

// CommandRequest 调试命令请求
type CommandRequest struct {
	Payload string `json:"payload" example:"0a"`
}

// CommandResponse 调试命令结果
type CommandResponse struct {
	Cmd       uint8  `json:"cmd"`
	Name      string `json:"name"`
	Result    string `json:"result"`
	Reply     string `json:"reply"`
	Action    string `json:"action"`
	Scheduled bool   `json:"scheduled"`
}

// Command 直接执行一条 MSP 命令
// @Summary 执行 MSP 命令
// @Description 载荷以十六进制给出，走与串口会话相同的处理链；后处理动作在应答写出后执行，透传类动作没有串口可接管，只登记不执行
// @Tags 调试
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param cmd path int true "命令码(0-255)"
// @Param body body CommandRequest false "请求载荷"
// @Success 200 {object} CommandResponse
// @Failure 400 {object} map[string]interface{}
// @Router /api/msp/{cmd} [post]
func (h *Handler) Command(c *gin.Context) {
	code, err := strconv.ParseUint(c.Param("cmd"), 10, 8)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cmd must be 0-255"})
		return
	}
	var req CommandRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	payload, err := hex.DecodeString(strings.ReplaceAll(req.Payload, " ", ""))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload must be hex"})
		return
	}

	cmd := uint8(code)
	var slot msp.Action
	w := msp.NewWriter(4096)
	r := h.engine.Process(cmd, msp.NewReader(payload), w, &slot)
	resp := CommandResponse{
		Cmd:    cmd,
		Name:   msp.CommandName(cmd),
		Result: r.String(),
		Reply:  hex.EncodeToString(w.Bytes()),
		Action: slot.Kind.String(),
	}

	switch slot.Kind {
	case msp.ActionNone:
	case msp.ActionEscPassthrough, msp.ActionFourWay:
		h.logger.Warn("passthrough action skipped over http", zap.String("cmd", resp.Name))
	default:
		resp.Scheduled = true
	}
	h.logger.Info("msp command via api", zap.String("cmd", resp.Name), zap.String("result", resp.Result))

	// 应答先写出，再执行后处理动作
	c.JSON(http.StatusOK, resp)
	c.Writer.Flush()
	if resp.Scheduled {
		h.runAction(&slot, resp.Name)
	}
}

// runAction 执行已登记的后处理动作
func (h *Handler) runAction(slot *msp.Action, name string) {
	resume, err := h.engine.Executor().Run(slot, nil)
	if err != nil {
		h.logger.Warn("post-process action failed", zap.String("cmd", name), zap.Error(err))
		return
	}
	h.logger.Info("post-process action done", zap.String("cmd", name), zap.Bool("resume", resume))
}
