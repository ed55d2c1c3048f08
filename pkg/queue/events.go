package queue

import "github.com/ThreeDotsLabs/watermill/message"

// -------------------------- 基于业务封装 events --------------------------

// PublishIssueCreate 发布 av.notify.issue.create 事件。
// 新的输出请求被提交后，请求通知网关在外部 Issue 跟踪系统中创建对应条目。
// 可通过可选项 opts 注入 TraceID、Producer 等头部信息。
func PublishIssueCreate(pub message.Publisher, payload IssuePayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicNotifyIssueCreate, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicNotifyIssueCreate, msg)
}

// PublishIssueUpdate 发布 av.notify.issue.update 事件。
func PublishIssueUpdate(pub message.Publisher, payload IssuePayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicNotifyIssueUpdate, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicNotifyIssueUpdate, msg)
}

// PublishIssueClose 发布 av.notify.issue.close 事件。
func PublishIssueClose(pub message.Publisher, payload IssuePayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicNotifyIssueClose, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicNotifyIssueClose, msg)
}

// PublishEmailAuthor 发布 av.notify.email.author 事件。
func PublishEmailAuthor(pub message.Publisher, payload EmailPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicNotifyEmailAuthor, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicNotifyEmailAuthor, msg)
}

// PublishAirlockReceived 发布 av.airlock.received 审计事件。
func PublishAirlockReceived(pub message.Publisher, payload AirlockAuditPayload, opts ...func(*EventHeader)) error {
	msg, err := NewWatermillMessage(TopicAirlockReceived, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(TopicAirlockReceived, msg)
}

// ParseIssue 将 Watermill 消息解析为强类型 Envelope（IssuePayload）。
func ParseIssue(msg *message.Message) (Message[IssuePayload], error) {
	return ParseWatermillMessage[IssuePayload](msg)
}

// ParseEmail 将 Watermill 消息解析为强类型 Envelope（EmailPayload）。
func ParseEmail(msg *message.Message) (Message[EmailPayload], error) {
	return ParseWatermillMessage[EmailPayload](msg)
}
