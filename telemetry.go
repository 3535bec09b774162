package gamesearch

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for search operations.
var (
	tracer = otel.Tracer("gamesearch")
	meter  = otel.Meter("gamesearch")
)

var (
	runsTotal     metric.Int64Counter
	nodesExpanded metric.Int64Histogram
	runDuration   metric.Float64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics creates the instruments once.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		runsTotal, err = meter.Int64Counter(
			"gamesearch_runs_total",
			metric.WithDescription("Total number of search runs by algorithm and outcome"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		nodesExpanded, err = meter.Int64Histogram(
			"gamesearch_nodes_expanded",
			metric.WithDescription("Nodes expanded (or visitor calls) per search run"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		runDuration, err = meter.Float64Histogram(
			"gamesearch_duration_seconds",
			metric.WithDescription("Duration of search runs"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func defaultLogger() zerolog.Logger {
	return log.Logger.With().Str("component", "gamesearch").Logger()
}

// run tracks one search call from start to finish.
type run struct {
	ctx       context.Context
	span      trace.Span
	algorithm string
	started   time.Time
	logger    zerolog.Logger
}

func startRun(ctx context.Context, algorithm string, logger zerolog.Logger, attrs ...attribute.KeyValue) (context.Context, *run) {
	ctx, span := tracer.Start(ctx, "gamesearch."+algorithm,
		trace.WithAttributes(append(attrs, attribute.String("algorithm", algorithm))...),
	)
	return ctx, &run{
		ctx:       ctx,
		span:      span,
		algorithm: algorithm,
		started:   time.Now(),
		logger:    logger.With().Str("algorithm", algorithm).Logger(),
	}
}

// finish records metrics, closes the span and logs the outcome.
func (r *run) finish(outcome string, expanded int, err error) {
	duration := time.Since(r.started)
	attrs := []attribute.KeyValue{
		attribute.String("algorithm", r.algorithm),
		attribute.String("outcome", outcome),
	}

	if initMetrics() == nil {
		runsTotal.Add(r.ctx, 1, metric.WithAttributes(attrs...))
		nodesExpanded.Record(r.ctx, int64(expanded), metric.WithAttributes(attrs[0]))
		runDuration.Record(r.ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	}

	r.span.SetAttributes(
		attribute.String("outcome", outcome),
		attribute.Int("nodes_expanded", expanded),
		attribute.Int64("duration_ms", duration.Milliseconds()),
	)
	if err != nil {
		r.span.RecordError(err)
		r.span.SetStatus(codes.Error, err.Error())
		r.logger.Warn().Err(err).Int("expanded", expanded).Dur("elapsed", duration).Msg("search-failed")
	} else {
		r.logger.Debug().Str("outcome", outcome).Int("expanded", expanded).Dur("elapsed", duration).Msg("search-finished")
	}
	r.span.End()
}
