package client

import (
	"context"
	"time"
)

// QueryEvent describes one statement passing through the middleware chain.
// Duration, End and Error are set once the statement has run.
type QueryEvent struct {
	Input    string
	SQL      string
	Params   []any
	Duration time.Duration
	Error    error
	Start    time.Time
	End      time.Time
}

// Middleware is a function that intercepts queries
type Middleware func(ctx context.Context, event *QueryEvent, next func() error) error

// chain runs exec behind middlewares, outermost first.
func chain(ctx context.Context, middlewares []Middleware, event *QueryEvent, exec func() error) error {
	index := 0
	var next func() error
	next = func() error {
		if index >= len(middlewares) {
			err := exec()
			event.End = time.Now()
			event.Duration = event.End.Sub(event.Start)
			event.Error = err
			return err
		}
		m := middlewares[index]
		index++
		return m(ctx, event, next)
	}
	return next()
}

// LoggingMiddleware creates a middleware that logs queries
func LoggingMiddleware(logger func(format string, args ...any)) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		logger("Executing query: %s with params: %v", event.SQL, event.Params)
		err := next()
		if err != nil {
			logger("Query failed: %v", err)
		} else {
			logger("Query completed in %v", event.Duration)
		}
		return err
	}
}

// TimingMiddleware creates a middleware that measures query execution time
func TimingMiddleware(onTiming func(sql string, duration time.Duration)) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		if onTiming != nil {
			onTiming(event.SQL, event.Duration)
		}
		return err
	}
}

// ErrorMiddleware creates a middleware that handles errors
func ErrorMiddleware(onError func(sql string, err error)) Middleware {
	return func(ctx context.Context, event *QueryEvent, next func() error) error {
		err := next()
		if err != nil && onError != nil {
			onError(event.SQL, err)
		}
		return err
	}
}
