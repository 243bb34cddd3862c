package model

// QuotaInfo is the read-only view of YouTube Data API quota usage.
type QuotaInfo struct {
	DailyQuota        int     `json:"daily_quota"`
	UsedQuota         int     `json:"used_quota"`
	RemainingQuota    int     `json:"remaining_quota"`
	QuotaUsagePercent float64 `json:"quota_usage_percent"`
	HoursUntilReset   int     `json:"hours_until_reset"`
	MinutesUntilReset int     `json:"minutes_until_reset"`
	ResetTimeSeconds  int     `json:"reset_time_seconds"`
}
