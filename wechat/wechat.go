// Package wechat holds the per-tenant bot-relay configuration record. The
// relay itself lives downstream; this service only stores what the operator
// edits from the web client.
package wechat

// Config is one tenant's relay configuration. A tenant has at most one.
type Config struct {
	ID       int64  `json:"id"`
	TenantID int64  `json:"tenant_id"`
	CorpID   string `json:"corp_id"`
	AgentID  int64  `json:"agent_id"`
	Secret   string `json:"secret"`
	BotToken string `json:"telegram_bot_token"`
	ChatID   string `json:"telegram_chat_id"`
}
