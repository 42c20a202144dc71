package otel

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// DB 为一次数据库操作创建 client span，fn 的错误记录到 span 上。
// pgx.ErrNoRows is an expected outcome, not a span error.
func DB(ctx context.Context, operation, table string, fn func(context.Context) error) error {
	ctx, span := Tracer().Start(ctx, "db."+operation+" "+table,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			semconv.DBSystemPostgreSQL,
			semconv.DBOperationKey.String(operation),
			semconv.DBSQLTableKey.String(table),
		),
	)
	defer span.End()

	err := fn(ctx)
	switch {
	case err == nil:
	case errors.Is(err, pgx.ErrNoRows):
		span.SetStatus(codes.Ok, "no rows")
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
