package service

import (
	"context"
	"fmt"

	"github.com/yeisme/airvault/pkg/configs"
	"github.com/yeisme/airvault/pkg/internal/model"
	"github.com/yeisme/airvault/pkg/internal/types"
	nlog "github.com/yeisme/airvault/pkg/log"
	"github.com/yeisme/airvault/pkg/metrics"
	"github.com/yeisme/airvault/pkg/queue"
)

// EventType 舱内事件类型.
type EventType string

const (
	EventRequestSubmitted EventType = "REQUEST_SUBMITTED"
	EventRequestWithdrawn EventType = "REQUEST_WITHDRAWN"
	EventRequestApproved  EventType = "REQUEST_APPROVED"
	EventRequestReleased  EventType = "REQUEST_RELEASED"
	EventRequestRejected  EventType = "REQUEST_REJECTED"
	EventRequestUpdated   EventType = "REQUEST_UPDATED"
)

// UpdateType REQUEST_UPDATED 事件的子类型.
// 五个具名变体各自有独立线上值.
type UpdateType string

const (
	UpdateFileAdded      UpdateType = "FILE_ADDED"
	UpdateFileWithdrawn  UpdateType = "FILE_WITHDRAWN"
	UpdateContextEdited  UpdateType = "CONTEXT_EDITED"
	UpdateControlsEdited UpdateType = "CONTROLS_EDITED"
	UpdateCommentAdded   UpdateType = "COMMENT_ADDED"
)

// ParseEventType 校验事件类型线上值.
func ParseEventType(s string) (EventType, error) {
	switch t := EventType(s); t {
	case EventRequestSubmitted, EventRequestWithdrawn, EventRequestApproved,
		EventRequestReleased, EventRequestRejected, EventRequestUpdated:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown event type %q", ErrInvalidEvent, s)
	}
}

// ParseUpdateType 校验更新子类型线上值.
func ParseUpdateType(s string) (UpdateType, error) {
	switch t := UpdateType(s); t {
	case UpdateFileAdded, UpdateFileWithdrawn, UpdateContextEdited,
		UpdateControlsEdited, UpdateCommentAdded:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown update type %q", ErrInvalidEvent, s)
	}
}

// AirlockEvent 从入站载荷重建的瞬态值对象，不落库，仅存活于一次分发.
// RequestID 是舱内请求的不透明标识，不是外键.
type AirlockEvent struct {
	Type          EventType
	UpdateKind    *UpdateType
	Workspace     *model.Workspace
	RequestID     string
	Group         string
	RequestAuthor *model.User
	User          *model.User
}

// AirlockService 受理舱内事件并分发到通知处理器.
type AirlockService struct {
	*Service
}

// NewAirlockService 从 context 获取依赖实例.
func NewAirlockService(c context.Context) *AirlockService {
	return &AirlockService{newService(c)}
}

// eventHandler 单个通知动作. 每个 handler 独立、尽力而为，不跨 handler 回滚.
type eventHandler struct {
	name string
	fn   func(ctx context.Context, s *AirlockService, ev *AirlockEvent) error
}

// dispatchTable 事件类型到有序 handler 列表的映射.
// REQUEST_APPROVED 有意缺席：放行本身不通知，后续的 RELEASED/REJECTED 才通知.
var dispatchTable = map[EventType][]eventHandler{
	EventRequestSubmitted: {
		{"create_issue", handleCreateIssue},
	},
	EventRequestWithdrawn: {
		{"close_issue", handleCloseIssue},
	},
	EventRequestReleased: {
		{"email_author", handleEmailAuthor},
		{"close_issue", handleCloseIssue},
	},
	EventRequestRejected: {
		{"email_author", handleEmailAuthor},
		{"close_issue", handleCloseIssue},
	},
	EventRequestUpdated: {
		{"email_author", handleEmailAuthor},
		{"update_issue", handleUpdateIssue},
	},
}

// FromPayload 校验载荷并解析引用，全部通过后才构造事件.
// 任何未知枚举值、工作区或用户名都在分发前失败.
// user 与 request_author 相同时只做一次解析，两个字段复用同一个 User.
func (as *AirlockService) FromPayload(ctx context.Context, req *types.AirlockEventRequest) (*AirlockEvent, error) {
	eventType, err := ParseEventType(req.EventType)
	if err != nil {
		return nil, err
	}

	var updateKind *UpdateType

	if req.UpdateType != nil && *req.UpdateType != "" {
		ut, err := ParseUpdateType(*req.UpdateType)
		if err != nil {
			return nil, err
		}

		updateKind = &ut
	}

	workspace, err := as.findWorkspaceByName(ctx, req.Workspace)
	if err != nil {
		return nil, err
	}

	author, err := as.findUserByName(ctx, req.RequestAuthor)
	if err != nil {
		return nil, err
	}

	user := author
	if req.User != req.RequestAuthor {
		user, err = as.findUserByName(ctx, req.User)
		if err != nil {
			return nil, err
		}
	}

	group := ""
	if req.Group != nil {
		group = *req.Group
	}

	return &AirlockEvent{
		Type:          eventType,
		UpdateKind:    updateKind,
		Workspace:     workspace,
		RequestID:     req.Request,
		Group:         group,
		RequestAuthor: author,
		User:          user,
	}, nil
}

// Dispatch 按表内顺序依次调用 handler. 表中没有条目的事件类型是合法的无操作.
// 单个 handler 失败只记录，不中断后续 handler，也不回滚已执行者.
// 分发不幂等：重放同一事件会重复触发全部 handler，去重由上游负责.
func (as *AirlockService) Dispatch(ctx context.Context, ev *AirlockEvent) {
	handlers := dispatchTable[ev.Type]

	metrics.AirlockEventCounter.WithLabelValues(string(ev.Type)).Inc()

	for _, h := range handlers {
		err := h.fn(ctx, as, ev)
		if err != nil {
			nlog.Logger().Error().
				Err(err).
				Str("handler", h.name).
				Str("event_type", string(ev.Type)).
				Str("request", ev.RequestID).
				Msg("notification handler failed")
		}

		as.auditDispatch(ev, h.name, err)
	}
}

// auditDispatch 记录单个通知动作的分发结果，开关同审计主题.
func (as *AirlockService) auditDispatch(ev *AirlockEvent, handler string, handlerErr error) {
	if !notifyEnabled(queue.TopicAirlockDispatch) || as.mqClient == nil || as.mqClient.Publisher() == nil {
		return
	}

	payload := queue.DispatchResultPayload{
		EventType: string(ev.Type),
		Handler:   handler,
		Topic:     queue.TopicAirlockDispatch,
		Request:   requestRef(ev),
		OK:        handlerErr == nil,
	}
	if handlerErr != nil {
		payload.Error = handlerErr.Error()
	}

	msg, err := queue.NewWatermillMessage(queue.TopicAirlockDispatch, payload, queue.WithProducer(producerName))
	if err == nil {
		err = as.mqClient.Publisher().Publish(queue.TopicAirlockDispatch, msg)
	}

	if err != nil {
		nlog.Logger().Warn().Err(err).Str("handler", handler).Msg("dispatch audit publish failed")
	}
}

// requestRef 构造通知负载里的请求引用.
func requestRef(ev *AirlockEvent) queue.RequestRef {
	return queue.RequestRef{
		RequestID:     ev.RequestID,
		Workspace:     ev.Workspace.Name,
		RequestAuthor: ev.RequestAuthor.Username,
		User:          ev.User.Username,
	}
}

// updateKinds 当前事件携带的更新子类型（至多一个）.
func updateKinds(ev *AirlockEvent) []string {
	if ev.UpdateKind == nil {
		return nil
	}

	return []string{string(*ev.UpdateKind)}
}

func handleCreateIssue(ctx context.Context, s *AirlockService, ev *AirlockEvent) error {
	payload := queue.IssuePayload{Request: requestRef(ev)}
	if ev.Group != "" {
		payload.Files = []string{ev.Group}
	}

	return s.publishNotify(queue.TopicNotifyIssueCreate, func() error {
		return queue.PublishIssueCreate(s.mqClient.Publisher(), payload, queue.WithProducer(producerName))
	})
}

func handleUpdateIssue(ctx context.Context, s *AirlockService, ev *AirlockEvent) error {
	payload := queue.IssuePayload{
		Request:     requestRef(ev),
		UpdateKinds: updateKinds(ev),
	}
	if ev.Group != "" {
		payload.Files = []string{ev.Group}
	}

	return s.publishNotify(queue.TopicNotifyIssueUpdate, func() error {
		return queue.PublishIssueUpdate(s.mqClient.Publisher(), payload, queue.WithProducer(producerName))
	})
}

func handleCloseIssue(ctx context.Context, s *AirlockService, ev *AirlockEvent) error {
	payload := queue.IssuePayload{
		Request: requestRef(ev),
		Reason:  closeReason(ev.Type),
	}

	return s.publishNotify(queue.TopicNotifyIssueClose, func() error {
		return queue.PublishIssueClose(s.mqClient.Publisher(), payload, queue.WithProducer(producerName))
	})
}

func handleEmailAuthor(ctx context.Context, s *AirlockService, ev *AirlockEvent) error {
	payload := queue.EmailPayload{
		Request:  requestRef(ev),
		Template: emailTemplate(ev.Type),
		Updates:  updateKinds(ev),
	}

	return s.publishNotify(queue.TopicNotifyEmailAuthor, func() error {
		return queue.PublishEmailAuthor(s.mqClient.Publisher(), payload, queue.WithProducer(producerName))
	})
}

const producerName = "airvault"

// notifyEnabled 按配置判断某个通知主题是否开启.
func notifyEnabled(topic string) bool {
	cfg := configs.GetConfig().Events
	if !cfg.Enabled {
		return false
	}

	switch topic {
	case queue.TopicNotifyIssueCreate:
		return cfg.Notify.IssueCreate
	case queue.TopicNotifyIssueUpdate:
		return cfg.Notify.IssueUpdate
	case queue.TopicNotifyIssueClose:
		return cfg.Notify.IssueClose
	case queue.TopicNotifyEmailAuthor:
		return cfg.Notify.EmailAuthor
	case queue.TopicAirlockReceived, queue.TopicAirlockRejected, queue.TopicAirlockDispatch:
		return cfg.Notify.Audit
	default:
		return true
	}
}

// publishNotify 统一处理事件开关与失败指标. 关闭的主题或未配置 MQ 时是空操作.
func (as *AirlockService) publishNotify(topic string, publish func() error) error {
	if !notifyEnabled(topic) {
		return nil
	}

	if as.mqClient == nil || as.mqClient.Publisher() == nil {
		return nil
	}

	if err := publish(); err != nil {
		metrics.NotifyPublishFailures.WithLabelValues(topic).Inc()

		return fmt.Errorf("publish %s: %w", topic, err)
	}

	return nil
}

// closeReason Issue 关闭原因.
func closeReason(t EventType) string {
	switch t {
	case EventRequestWithdrawn:
		return "withdrawn"
	case EventRequestReleased:
		return "released"
	case EventRequestRejected:
		return "rejected"
	default:
		return ""
	}
}

// emailTemplate 作者邮件模板名.
func emailTemplate(t EventType) string {
	switch t {
	case EventRequestReleased:
		return "released"
	case EventRequestRejected:
		return "rejected"
	case EventRequestUpdated:
		return "updated"
	default:
		return ""
	}
}

// auditRejected 记录被拒绝的非法载荷. 此时实体未解析，引用只含原始字符串.
func (as *AirlockService) auditRejected(req *types.AirlockEventRequest, cause error) {
	if !notifyEnabled(queue.TopicAirlockRejected) || as.mqClient == nil || as.mqClient.Publisher() == nil {
		return
	}

	payload := queue.AirlockAuditPayload{
		EventType: req.EventType,
		Request: queue.RequestRef{
			RequestID:     req.Request,
			Workspace:     req.Workspace,
			RequestAuthor: req.RequestAuthor,
			User:          req.User,
		},
		Error: cause.Error(),
	}

	msg, err := queue.NewWatermillMessage(queue.TopicAirlockRejected, payload, queue.WithProducer(producerName))
	if err == nil {
		err = as.mqClient.Publisher().Publish(queue.TopicAirlockRejected, msg)
	}

	if err != nil {
		nlog.Logger().Warn().Err(err).Str("request", req.Request).Msg("airlock reject audit publish failed")
	}
}

// HandleEvent 受理一个舱内事件：构造、分发、发布审计记录.
func (as *AirlockService) HandleEvent(ctx context.Context, req *types.AirlockEventRequest) error {
	ev, err := as.FromPayload(ctx, req)
	if err != nil {
		as.auditRejected(req, err)

		return err
	}

	as.Dispatch(ctx, ev)

	// 审计是尽力而为，失败不影响受理结果
	if notifyEnabled(queue.TopicAirlockReceived) && as.mqClient != nil && as.mqClient.Publisher() != nil {
		audit := queue.AirlockAuditPayload{
			EventType: string(ev.Type),
			Request:   requestRef(ev),
			Updates:   updateKinds(ev),
		}
		if err := queue.PublishAirlockReceived(as.mqClient.Publisher(), audit, queue.WithProducer(producerName)); err != nil {
			nlog.Logger().Warn().Err(err).Str("request", ev.RequestID).Msg("airlock audit publish failed")
		}
	}

	return nil
}
