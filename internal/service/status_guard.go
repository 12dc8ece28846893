package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/model"
)

// ── 状态流转错误 ──

var (
	ErrIllegalTransition = errors.New("不允许的状态流转")
	ErrNotPublishReady   = errors.New("学期配置未满足发布条件")
)

// NotPublishReadyError 携带全部未满足条件，errors.Is 可匹配 ErrNotPublishReady
type NotPublishReadyError struct {
	Status string
	Issues []string
}

func (e *NotPublishReadyError) Error() string {
	if len(e.Issues) == 0 {
		return ErrNotPublishReady.Error()
	}
	return ErrNotPublishReady.Error() + ":\n" + strings.Join(e.Issues, "\n")
}

func (e *NotPublishReadyError) Is(target error) bool {
	return target == ErrNotPublishReady
}

// legalTransitions 合法流转：前进 DRAFT→PUBLISHED→LOCKED→ARCHIVED，以及逐级回退
var legalTransitions = map[model.TermStatus][]model.TermStatus{
	model.TermStatusDraft:     {model.TermStatusPublished},
	model.TermStatusPublished: {model.TermStatusLocked, model.TermStatusDraft},
	model.TermStatusLocked:    {model.TermStatusArchived, model.TermStatusPublished},
	model.TermStatusArchived:  {model.TermStatusLocked},
}

// CanTransition 判断状态流转是否合法（不含发布门槛）
func CanTransition(from, to model.TermStatus) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsPublishing 是否为需要门槛校验的 DRAFT→PUBLISHED 流转
func IsPublishing(from, to model.TermStatus) bool {
	return from == model.TermStatusDraft && to == model.TermStatusPublished
}

// ReadinessFunc 惰性获取发布就绪报告，仅在需要时调用
type ReadinessFunc func() (*ReadinessReport, error)

// GuardTransition 校验状态流转
//
// DRAFT→PUBLISHED 需满足其一：提供非空人工覆盖原因；或完整度不低于阈值且就绪检查为 ready。
func GuardTransition(from, to model.TermStatus, completeness int, overrideReason string, readiness ReadinessFunc) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s → %s", ErrIllegalTransition, from, to)
	}
	if !IsPublishing(from, to) {
		return nil
	}
	if strings.TrimSpace(overrideReason) != "" {
		return nil
	}
	if completeness < PublishCompletenessThreshold {
		return &NotPublishReadyError{
			Issues: []string{fmt.Sprintf("配置完整度 %d%% 低于发布要求的 %d%%（需先生成课时时段）", completeness, PublishCompletenessThreshold)},
		}
	}

	report, err := readiness()
	if err != nil {
		return err
	}
	if report.Status != ReadinessReady {
		return &NotPublishReadyError{Status: report.Status, Issues: report.Issues}
	}
	return nil
}
