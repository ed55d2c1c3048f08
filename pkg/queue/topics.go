// Package queue 定义消息主题常量与通配模式，供发布/订阅使用.
package queue

// 主题命名规范：av.<域>.<动作>[.<状态>]，尽量稳定且向后兼容.
// 域：notify(外部协作通知)、airlock(安全舱事件)、release(发布流程)、snapshot(快照)等
// 动作：通知相关(create/update/close/author)、流程相关(received/approved/rejected/published)

const (
	// 外部协作通知领域. 这些主题由通知网关消费，转发到 GitHub Issue / 邮件等外部系统.
	TopicNotifyIssueCreate = "av.notify.issue.create" // 请求为新的输出请求创建跟踪 Issue
	TopicNotifyIssueUpdate = "av.notify.issue.update" // 请求更新既有跟踪 Issue（文件变更等）
	TopicNotifyIssueClose  = "av.notify.issue.close"  // 请求关闭跟踪 Issue（撤回/放行/拒绝）
	TopicNotifyEmailAuthor = "av.notify.email.author" // 请求向请求作者发送状态邮件

	// 安全舱事件领域. 每个被受理的舱内事件都会产生一条审计记录.
	TopicAirlockReceived  = "av.airlock.received"  // 舱内事件已受理并完成分发
	TopicAirlockRejected  = "av.airlock.rejected"  // 舱内事件载荷非法被拒绝
	TopicAirlockDispatch  = "av.airlock.dispatch"  // 单个通知动作分发结果（含失败）
	TopicAirlockHeartbeat = "av.airlock.heartbeat" // 舱内客户端心跳（保留）

	// 发布流程领域.
	TopicReleaseRequested = "av.release.requested" // 新建发布请求
	TopicReleaseApproved  = "av.release.approved"  // 发布请求被放行，文件已落盘
	TopicReleaseRejected  = "av.release.rejected"  // 发布请求被拒绝

	// 快照领域.
	TopicSnapshotCreated   = "av.snapshot.created"   // 报告快照已创建（草稿）
	TopicSnapshotPublished = "av.snapshot.published" // 报告快照已对外发布
)

// 主题分组，用于批量操作或权限控制.
var (
	// 外部协作通知相关主题集合.
	NotifyTopics = []string{
		TopicNotifyIssueCreate, TopicNotifyIssueUpdate,
		TopicNotifyIssueClose, TopicNotifyEmailAuthor,
	}

	// 安全舱审计相关主题集合.
	AirlockTopics = []string{
		TopicAirlockReceived, TopicAirlockRejected,
		TopicAirlockDispatch, TopicAirlockHeartbeat,
	}

	// 发布流程相关主题集合.
	ReleaseTopics = []string{
		TopicReleaseRequested, TopicReleaseApproved, TopicReleaseRejected,
	}

	// 快照相关主题集合.
	SnapshotTopics = []string{
		TopicSnapshotCreated, TopicSnapshotPublished,
	}
)
