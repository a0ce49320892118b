package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "recipe_assistant"

var (
	// Generations 每次生成嘗試的結果（mode: ingredients | favorites）
	Generations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "attempts_total",
			Help:      "Total number of recipe generation attempts by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	// GenerationStages 生成流程的階段轉換次數
	GenerationStages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "stage_transitions_total",
			Help:      "Total number of generation stage transitions",
		},
		[]string{"mode", "stage"},
	)

	// GenerationDuration 單次生成總耗時
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "duration_seconds",
			Help:      "Recipe generation duration in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
		[]string{"mode"},
	)

	// RecipesReturned 回傳給使用者的食譜數
	RecipesReturned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "recipes_total",
			Help:      "Total number of recipes returned after parsing",
		},
		[]string{"mode"},
	)

	// ModelCalls 模型 API 呼叫次數
	ModelCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "calls_total",
			Help:      "Total number of generative model calls",
		},
		[]string{"model", "status"},
	)

	// ModelCallDuration 模型 API 呼叫耗時
	ModelCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "model",
			Name:      "call_duration_seconds",
			Help:      "Generative model call duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		},
		[]string{"model"},
	)

	// CacheLookups 回應快取查詢結果（hit | miss | error）
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Total number of model response cache lookups",
		},
		[]string{"result"},
	)

	// HTTPRequests HTTP 請求數
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration HTTP 請求耗時
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// RejectedRequests 被中介層擋下的請求（reason: in_flight | rate_limited | body_too_large）
	RejectedRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rejected_total",
			Help:      "Total number of requests rejected by middleware",
		},
		[]string{"reason"},
	)
)
