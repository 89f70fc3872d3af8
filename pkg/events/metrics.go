package events

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var eventsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sushi_events_received_total",
	Help: "Number of gateway events handled, by kind",
}, []string{"kind"})

var eventErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sushi_event_errors_total",
	Help: "Number of gateway events whose handler failed, by kind",
}, []string{"kind"})

var notificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sushi_notifications_sent_total",
	Help: "Number of messages posted by the pipeline, by feature",
}, []string{"feature"})

var configSelfHeals = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sushi_config_self_heals_total",
	Help: "Number of server settings cleared because their channel became unusable",
}, []string{"feature"})

var blacklistBans = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sushi_blacklist_bans_total",
	Help: "Number of bans issued for blacklisted users, by trigger",
}, []string{"trigger"})
