// Package main 启动应用程序
package main

import "github.com/yeisme/airvault/pkg/cmd"

//	@title			AirVault API
//	@version		1.0
//	@description	AirVault 是安全研究环境的出舱发布门户，受理舱内提交/撤回/更新事件，
//	@description	管理文件放行审批、快照与对外公开请求。

//	@license.name	MIT
//	@license.url	https://opensource.org/license/mit/

//	@contact.name	yeisme
//	@contact.email	yefun2004@gmail.com.

func main() {
	if err := cmd.Execute(); err != nil {
		panic(err)
	}
}
