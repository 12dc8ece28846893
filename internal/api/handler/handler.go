package handler

import "github.com/yukimura-ixa/school-timetable-senior-project-sub001/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Term *TermConfigHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Term: NewTermConfigHandler(svc.TermConfig),
	}
}
