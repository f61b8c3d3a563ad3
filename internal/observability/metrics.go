// Package observability – domain metrics
//
// This file exposes Prometheus counters for the write paths of the store:
// recorded conversations, recorded feedback rows, and denormalized label
// updates. HTTP-level metrics (rates, latencies) live in the middleware; the
// counters here track business events regardless of which transport produced
// them, with the feedback label as the only dimension to keep cardinality
// fixed at the three allowed values.
package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	// ConversationsRecorded counts successfully persisted conversations.
	ConversationsRecorded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "conversations_recorded_total",
			Help: "Total number of conversation exchanges persisted.",
		},
	)

	// FeedbackRecorded counts successfully persisted feedback rows by label.
	FeedbackRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedback_recorded_total",
			Help: "Total number of feedback submissions persisted.",
		},
		[]string{"label"},
	)

	// ConversationLabelsSet counts denormalized label writes by label.
	ConversationLabelsSet = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversation_labels_set_total",
			Help: "Total number of conversation feedback label updates.",
		},
		[]string{"label"},
	)
)

func init() {
	prometheus.MustRegister(ConversationsRecorded, FeedbackRecorded, ConversationLabelsSet)
}
