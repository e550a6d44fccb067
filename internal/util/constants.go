package util

// 内容页查找的 API 对象名
const (
	APIName12   = "API"
	APIName2004 = "API_1484_11"
)

// 页面生命周期事件
const (
	LifecycleUnload   = "unload"
	LifecyclePageHide = "pagehide"
)

const ContextSessionClaims = "session_claims"
