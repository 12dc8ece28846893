package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/dto"
	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/service"
	pkgerrors "github.com/yukimura-ixa/school-timetable-senior-project-sub001/pkg/errors"
	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/pkg/response"
	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/pkg/termid"
)

// TermConfigHandler 学期配置模块 HTTP 处理器
type TermConfigHandler struct {
	termSvc service.TermConfigService
}

// NewTermConfigHandler 创建 TermConfigHandler
func NewTermConfigHandler(termSvc service.TermConfigService) *TermConfigHandler {
	return &TermConfigHandler{termSvc: termSvc}
}

// ListTerms 获取学期配置列表；同时指定学年与学期时返回单条配置
// GET /api/v1/terms?academic_year=2567&semester=1
func (h *TermConfigHandler) ListTerms(c *gin.Context) {
	var q dto.TermQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	if q.AcademicYear != 0 && q.Semester != 0 {
		term, err := h.termSvc.GetByTerm(c.Request.Context(), q.AcademicYear, q.Semester)
		if err != nil {
			h.handleTermError(c, err)
			return
		}
		response.OK(c, term)
		return
	}

	terms, err := h.termSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": terms})
}

// GetTerm 获取学期配置详情
// GET /api/v1/terms/:id
func (h *TermConfigHandler) GetTerm(c *gin.Context) {
	term, err := h.termSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleTermError(c, err)
		return
	}

	response.OK(c, term)
}

// CreateTerm 创建学期配置并生成时段
// POST /api/v1/terms
func (h *TermConfigHandler) CreateTerm(c *gin.Context) {
	var req dto.CreateTermConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	term, err := h.termSvc.Create(c.Request.Context(), &req, GetOperatorID(c))
	if err != nil {
		h.handleTermError(c, err)
		return
	}

	response.Created(c, term)
}

// UpdateParameters 修改结构参数（重建时段，清空教学任务与排课）
// PUT /api/v1/terms/:id/parameters
func (h *TermConfigHandler) UpdateParameters(c *gin.Context) {
	var req dto.UpdateParametersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.termSvc.UpdateParameters(c.Request.Context(), c.Param("id"), &req, GetOperatorID(c))
	if err != nil {
		h.handleTermError(c, err)
		return
	}

	response.OK(c, result)
}

// UpdateStatus 学期状态流转
// PUT /api/v1/terms/:id/status
func (h *TermConfigHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	term, err := h.termSvc.UpdateStatus(c.Request.Context(), c.Param("id"), &req, GetOperatorID(c))
	if err != nil {
		h.handleTermError(c, err)
		return
	}

	response.OK(c, term)
}

// RecalculateCompleteness 重算配置完整度
// POST /api/v1/terms/:id/completeness
func (h *TermConfigHandler) RecalculateCompleteness(c *gin.Context) {
	result, err := h.termSvc.RecalculateCompleteness(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleTermError(c, err)
		return
	}

	response.OK(c, result)
}

// CheckReadiness 查询发布就绪报告
// GET /api/v1/terms/:id/readiness
func (h *TermConfigHandler) CheckReadiness(c *gin.Context) {
	report, err := h.termSvc.CheckReadiness(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleTermError(c, err)
		return
	}

	response.OK(c, report)
}

// CopyTerm 跨学期复制
// POST /api/v1/terms/copy
func (h *TermConfigHandler) CopyTerm(c *gin.Context) {
	var req dto.CopyTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	summary, err := h.termSvc.Copy(c.Request.Context(), &req, GetOperatorID(c))
	if err != nil {
		h.handleTermError(c, err)
		return
	}

	response.Created(c, summary)
}

// DeleteTerm 删除学期配置（管理操作）
// DELETE /api/v1/terms/:id
func (h *TermConfigHandler) DeleteTerm(c *gin.Context) {
	if err := h.termSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleTermError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleTermError 学期配置模块错误映射（15xxx）
func (h *TermConfigHandler) handleTermError(c *gin.Context, err error) {
	var notReady *service.NotPublishReadyError
	switch {
	case errors.As(err, &notReady):
		response.UnprocessableEntity(c, 15010, "学期配置未满足发布条件", gin.H{
			"status": notReady.Status,
			"issues": notReady.Issues,
		})
	case errors.Is(err, termid.ErrMalformedIdentifier):
		response.ErrorWithDetails(c, http.StatusBadRequest, 15001, "学期标识格式错误", err.Error())
	case errors.Is(err, service.ErrTermNotFound):
		response.NotFound(c, 15002, "学期配置不存在")
	case errors.Is(err, service.ErrDuplicateTerm):
		response.Conflict(c, 15003, "目标学期配置已存在")
	case errors.Is(err, service.ErrSameTerm):
		response.BadRequest(c, 15004, "源学期与目标学期不能相同")
	case errors.Is(err, service.ErrCopyFlagsInvalid):
		response.BadRequest(c, 15005, "复制锁定课或课表时必须同时复制教学任务")
	case errors.Is(err, service.ErrInvalidParameters):
		response.ErrorWithDetails(c, http.StatusBadRequest, 15006, "学期结构参数不合法", err.Error())
	case errors.Is(err, service.ErrRegenerationNotConfirmed):
		response.BadRequest(c, 15007, "修改结构参数将清空教学任务与时段，请确认后重试")
	case errors.Is(err, service.ErrTermLocked):
		response.Conflict(c, 15008, "学期已锁定或归档")
	case errors.Is(err, service.ErrIllegalTransition):
		response.ErrorWithDetails(c, http.StatusConflict, 15009, "不允许的状态流转", err.Error())
	case errors.Is(err, service.ErrCopyCategoryFailed):
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, 15011, "排课条目全部复制失败，已回滚", err.Error())
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 15012, "数据已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
