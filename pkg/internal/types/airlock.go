package types

// AirlockEventRequest 舱内事件的入站载荷.
// update_type 仅在 event_type 为 REQUEST_UPDATED 时出现；group 可为空.
type AirlockEventRequest struct {
	EventType     string  `binding:"required" json:"event_type"`
	UpdateType    *string `json:"update_type"`
	Workspace     string  `binding:"required" json:"workspace"`
	Request       string  `binding:"required" json:"request"`
	Group         *string `json:"group"`
	RequestAuthor string  `binding:"required" json:"request_author"`
	User          string  `binding:"required" json:"user"`
}

// AirlockEventResponse 受理成功响应.
type AirlockEventResponse struct {
	Message string `json:"message"`
}
