package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/flexprice/billingsession/internal/logger"
	"github.com/flexprice/billingsession/internal/sentry"
)

// QueryTracer wraps database operations with tracing and logging
type QueryTracer struct {
	logger *logger.Logger
	query  string
	params interface{}
	start  time.Time
}

// NewQueryTracer creates a new query tracer
func NewQueryTracer(logger *logger.Logger, query string, params interface{}) *QueryTracer {
	return &QueryTracer{
		logger: logger,
		query:  query,
		params: params,
		start:  time.Now(),
	}
}

// Done logs the query completion. No rows is an expected outcome, not a failure.
func (qt *QueryTracer) Done(err error) {
	duration := time.Since(qt.start)
	fields := []interface{}{
		"duration_ms", duration.Milliseconds(),
		"query", qt.query,
		"params", fmt.Sprintf("%+v", qt.params),
	}
	if err != nil && !IsNoRows(err) {
		fields = append(fields, "error", err.Error())
		qt.logger.Errorw("database query failed", fields...)
		return
	}
	qt.logger.Debugw("database query completed", fields...)
}

// TracedQuerier wraps a Querier with tracing
type TracedQuerier struct {
	Querier
	logger *logger.Logger
	sentry *sentry.Service
}

// NewTracedQuerier creates a new traced querier
func NewTracedQuerier(q Querier, logger *logger.Logger, sentrySvc *sentry.Service) *TracedQuerier {
	return &TracedQuerier{
		Querier: q,
		logger:  logger,
		sentry:  sentrySvc,
	}
}

// ExecContext traces ExecContext calls
func (tq *TracedQuerier) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	span, ctx := tq.sentry.StartDBSpan(ctx, "postgres.exec", map[string]interface{}{"query": query})
	tracer := NewQueryTracer(tq.logger, query, args)
	result, err := tq.Querier.ExecContext(ctx, query, args...)
	tracer.Done(err)
	sentry.FinishSpan(span, err)
	return result, err
}

// GetContext traces GetContext calls
func (tq *TracedQuerier) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	span, ctx := tq.sentry.StartDBSpan(ctx, "postgres.get", map[string]interface{}{"query": query})
	tracer := NewQueryTracer(tq.logger, query, args)
	err := tq.Querier.GetContext(ctx, dest, query, args...)
	tracer.Done(err)
	if IsNoRows(err) {
		sentry.FinishSpan(span, nil)
	} else {
		sentry.FinishSpan(span, err)
	}
	return err
}

// SelectContext traces SelectContext calls
func (tq *TracedQuerier) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	span, ctx := tq.sentry.StartDBSpan(ctx, "postgres.select", map[string]interface{}{"query": query})
	tracer := NewQueryTracer(tq.logger, query, args)
	err := tq.Querier.SelectContext(ctx, dest, query, args...)
	tracer.Done(err)
	sentry.FinishSpan(span, err)
	return err
}
