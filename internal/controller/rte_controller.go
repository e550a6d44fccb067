package controller

import (
	"errors"
	"scorm_rte/internal/model"
	"scorm_rte/internal/repository"
	"scorm_rte/internal/rte"
	"scorm_rte/internal/service"
	"scorm_rte/internal/util"

	"github.com/gin-gonic/gin"
)

type RTEController struct {
	service  *service.RTEService
	syncLogs *repository.SyncLogRepository
}

func NewRTEController(s *service.RTEService, syncLogs *repository.SyncLogRepository) *RTEController {
	return &RTEController{service: s, syncLogs: syncLogs}
}

// CreateSession godoc
// @Summary 创建 RTE 会话
// @Description 为内容页创建一个会话，返回会话令牌和内容页应挂载的 API 对象名
// @Tags RTE
// @Accept json
// @Produce json
// @Param body body service.CreateSessionRequest true "attempt id 与 SCORM 版本"
// @Success 201 {object} util.Response{data=service.CreateSessionResponse}
// @Router /api/rte/sessions [post]
func (c *RTEController) CreateSession(ctx *gin.Context) {
	var req service.CreateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.service.CreateSession(ctx.Request.Context(), req)
	if err != nil {
		c.handleError(ctx, err)
		return
	}

	util.Created(ctx, resp)
}

// Call godoc
// @Summary 转发一次 API 调用
// @Tags RTE
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "会话ID"
// @Param body body service.CallRequest true "方法名与参数"
// @Success 200 {object} util.Response{data=service.CallResponse}
// @Router /api/rte/sessions/{id}/call [post]
func (c *RTEController) Call(ctx *gin.Context) {
	var req service.CallRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.service.Call(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		c.handleError(ctx, err)
		return
	}

	util.Success(ctx, resp)
}

// Lifecycle godoc
// @Summary 页面卸载事件
// @Description unload 或 pagehide，首次触发时提交数据
// @Tags RTE
// @Produce json
// @Param id path string true "会话ID"
// @Param event path string true "unload | pagehide"
// @Success 200 {object} util.Response{data=service.LifecycleResponse}
// @Router /api/rte/sessions/{id}/lifecycle/{event} [post]
func (c *RTEController) Lifecycle(ctx *gin.Context) {
	resp, err := c.service.Lifecycle(ctx.Request.Context(), ctx.Param("id"), ctx.Param("event"))
	if err != nil {
		c.handleError(ctx, err)
		return
	}

	util.Success(ctx, resp)
}

// CloseSession godoc
// @Summary 关闭会话
// @Tags RTE
// @Produce json
// @Param id path string true "会话ID"
// @Success 200 {object} util.Response
// @Router /api/rte/sessions/{id} [delete]
func (c *RTEController) CloseSession(ctx *gin.Context) {
	if err := c.service.Close(ctx.Request.Context(), ctx.Param("id")); err != nil {
		c.handleError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

type SyncLogsResponse struct {
	Logs []model.SyncLog `json:"logs"`
	// 该学习尝试累计失败的同步次数，跨会话统计
	Failures int64 `json:"failures"`
}

// ListSyncLogs godoc
// @Summary 会话的 LMS 同步记录
// @Tags RTE
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "会话ID"
// @Param limit query int false "条数" default(50)
// @Success 200 {object} util.Response{data=SyncLogsResponse}
// @Router /api/rte/sessions/{id}/sync-logs [get]
func (c *RTEController) ListSyncLogs(ctx *gin.Context) {
	claims := util.GetSessionFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit := util.ParseLimit(ctx.Query("limit"), 50, 200)
	logs, err := c.syncLogs.ListBySession(ctx.Request.Context(), ctx.Param("id"), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	failures, err := c.syncLogs.CountFailures(ctx.Request.Context(), claims.AttemptID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, SyncLogsResponse{Logs: logs, Failures: failures})
}

func (c *RTEController) handleError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSessionNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrUnsupportedVersion),
		errors.Is(err, util.ErrAttemptRequired),
		errors.Is(err, util.ErrUnknownLifecycle),
		errors.Is(err, rte.ErrUnknownMethod),
		errors.Is(err, rte.ErrArgument):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
