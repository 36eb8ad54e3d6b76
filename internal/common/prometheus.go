package common

import "github.com/prometheus/client_golang/prometheus"

const (
	HTTPRequestTotal           = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	DiscordAPIRequestTotal     = "discord_api_requests_total"
	GuildCacheRequestTotal     = "guild_cache_requests_total"
)

var (
	PromCounters = map[string]*prometheus.CounterVec{
		HTTPRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: HTTPRequestTotal,
			Help: "Count of all HTTP requests",
		}, []string{"method", "status_code"}),
		DiscordAPIRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: DiscordAPIRequestTotal,
			Help: "Count of requests sent to Discord and the bot API",
		}, []string{"resource", "code"}),
		GuildCacheRequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: GuildCacheRequestTotal,
			Help: "Count of guild cache lookups",
		}, []string{"cache", "result"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		HTTPRequestDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: HTTPRequestDurationSeconds,
			Help: "Duration of all HTTP requests",
		}, []string{"method", "status_code"}),
	}
)
