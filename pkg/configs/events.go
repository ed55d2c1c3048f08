package configs

import "github.com/spf13/viper"

// EventsConfig 控制通知事件发布的开关（全局与分类型）。
// airlock 分发器的每个处理器发布一条通知事件，这里可以按类型关闭.
type EventsConfig struct {
	Enabled bool               `mapstructure:"enabled"` // 总开关
	Notify  NotifyEventsConfig `mapstructure:"notify"`
}

// NotifyEventsConfig 针对通知领域的事件开关。
type NotifyEventsConfig struct {
	IssueCreate bool `mapstructure:"issue_create"`
	IssueUpdate bool `mapstructure:"issue_update"`
	IssueClose  bool `mapstructure:"issue_close"`
	EmailAuthor bool `mapstructure:"email_author"`
	Audit       bool `mapstructure:"audit"`
}

func (c *EventsConfig) setDefaults(v *viper.Viper) {
	// 总开关：默认启用事件系统
	v.SetDefault("events.enabled", true)

	// 通知事件默认全部开启，关闭任何一个都会让对应处理器变成空操作
	v.SetDefault("events.notify.issue_create", true)
	v.SetDefault("events.notify.issue_update", true)
	v.SetDefault("events.notify.issue_close", true)
	v.SetDefault("events.notify.email_author", true)

	// 审计事件便于离线回放 airlock 流水，默认关闭
	v.SetDefault("events.notify.audit", false)
}
