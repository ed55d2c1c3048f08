package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
// 建议在发布消息时填充 TraceID、OccurredAt、Producer 等，便于追踪链路与审计.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 分布式追踪/关联 ID，可来自中间件或业务生成.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC，RFC3339）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本，便于向后兼容演进.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
// T 即不同主题对应的负载结构体.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// -------------------------- 外部协作通知领域 --------------------------

// RequestRef 标识一次输出请求及其归属上下文.
type RequestRef struct {
	RequestID     string `json:"request_id"`
	Workspace     string `json:"workspace"`
	RequestAuthor string `json:"request_author"`
	// User 触发本次事件的用户，可能与作者不同（如审核员放行）.
	User string `json:"user,omitempty"`
	// Org 请求作者所属组织，用于 Issue 标签.
	Org string `json:"org,omitempty"`
}

// IssuePayload 请求创建/更新/关闭外部跟踪 Issue.
type IssuePayload struct {
	Request RequestRef `json:"request"`
	// Files 请求当前包含的文件组名（更新时使用）.
	Files []string `json:"files,omitempty"`
	// UpdateKinds 触发更新的具体变更种类（file_added、context_edited...）.
	UpdateKinds []string `json:"update_kinds,omitempty"`
	// Reason 关闭原因（withdrawn/released/rejected）.
	Reason string `json:"reason,omitempty"`
}

// EmailPayload 请求向作者发送状态通知邮件.
type EmailPayload struct {
	Request RequestRef `json:"request"`
	// Template 通知模板名（released/rejected/updated）.
	Template string `json:"template"`
	// Updates 人类可读的变更描述行（更新通知时使用）.
	Updates []string `json:"updates,omitempty"`
}

// -------------------------- 安全舱审计领域 --------------------------

// AirlockAuditPayload 记录一次舱内事件的受理结果.
type AirlockAuditPayload struct {
	EventType string     `json:"event_type"`
	Request   RequestRef `json:"request"`
	// Updates 原始事件携带的更新描述（update 事件才有）.
	Updates []string `json:"updates,omitempty"`
	// Error 受理失败时的错误描述.
	Error string `json:"error,omitempty"`
}

// DispatchResultPayload 单个通知动作的分发结果.
type DispatchResultPayload struct {
	EventType string     `json:"event_type"`
	Handler   string     `json:"handler"`
	Topic     string     `json:"topic"`
	Request   RequestRef `json:"request"`
	OK        bool       `json:"ok"`
	Error     string     `json:"error,omitempty"`
}

// -------------------------- 发布流程领域 --------------------------

// ReleaseRef 标识一次发布及其落盘位置.
type ReleaseRef struct {
	ReleaseID string `json:"release_id"`
	Workspace string `json:"workspace"`
	CreatedBy string `json:"created_by"`
}

// ReleaseRequestedPayload 新建发布请求.
type ReleaseRequestedPayload struct {
	Release ReleaseRef `json:"release"`
	// Files 请求发布的文件名列表.
	Files []string `json:"files"`
}

// ReleaseDecidedPayload 发布请求被放行或拒绝.
type ReleaseDecidedPayload struct {
	Release   ReleaseRef `json:"release"`
	DecidedBy string     `json:"decided_by"`
	// CopiedFiles 放行时成功落盘的文件数.
	CopiedFiles int `json:"copied_files,omitempty"`
}

// -------------------------- 快照领域 --------------------------

// SnapshotPayload 报告快照创建/发布.
type SnapshotPayload struct {
	SnapshotID string `json:"snapshot_id"`
	// Files 快照冻结的文件 ID 列表.
	Files []string `json:"files,omitempty"`
	// PublishedBy 发布人（发布事件才有）.
	PublishedBy string `json:"published_by,omitempty"`
	// PublishedAt 发布时间（发布事件才有）.
	PublishedAt *time.Time `json:"published_at,omitempty"`
}
