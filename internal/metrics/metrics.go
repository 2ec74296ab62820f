package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecipeWritesTotal counts recipe create, update and delete attempts by outcome.
	RecipeWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_recipe_writes_total",
			Help: "Total number of recipe write operations",
		},
		[]string{"op", "outcome"},
	)

	// ListMembershipTotal counts favorite and shopping cart changes.
	ListMembershipTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_list_membership_total",
			Help: "Total number of favorite and shopping cart membership changes",
		},
		[]string{"list", "op", "outcome"},
	)

	SubscriptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_subscriptions_total",
			Help: "Total number of subscribe and unsubscribe operations",
		},
		[]string{"op", "outcome"},
	)

	ShoppingListExportsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "foodgram_shopping_list_exports_total",
			Help: "Total number of rendered shopping list exports",
		},
	)

	// HTTPRequestDuration tracks handler latency per matched route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodgram_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)
