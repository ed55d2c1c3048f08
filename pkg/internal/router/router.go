// Package router 管理路由配置，用于设置HTTP服务的路由规则.
// 各业务域的路由绑定按文件拆分，router 包只负责路径到 pkg/internal/handle 处理器的映射，
// 认证等中间件由上层（pkg/api）按路由组挂载.
package router
