package service

import "github.com/prometheus/client_golang/prometheus"

var (
	loginTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "roomhub_logins_total", Help: "Login attempts by result"},
		[]string{"result"},
	)
	tokensRevoked = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "roomhub_refresh_tokens_revoked_total", Help: "Refresh tokens revoked"},
	)
	tokensPruned = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "roomhub_refresh_tokens_pruned_total", Help: "Expired refresh-token rows removed"},
	)
)

func init() { prometheus.MustRegister(loginTotal, tokensRevoked, tokensPruned) }
