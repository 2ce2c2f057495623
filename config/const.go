package config

const (
	PathHealthCheck     = "/healthz"
	PathMetrics         = "/metrics"
	PathTestDB          = "/test-db"
	PathTemplates       = "/templates"
	PathTemplate        = "/templates/{id:[0-9]+}"
	PathSendEmail       = "/send-email"
	PathOpenAnalytics   = "/analytics/opens"
	PathClickAnalytics  = "/analytics/clicks"
	PathDeviceAnalytics = "/analytics/devices"
	PathSentEmails      = "/sent-emails"
	PathStats           = "/stats"
	PathActivities      = "/activities"
	PathOnEmailOpen     = "/webhooks/open"
	PathOnEmailClick    = "/webhooks/click"
)

const (
	DefaultPort   = 3000
	LogLevelDebug = "DEBUG"
)
