package utils

import (
	"context"

	"github.com/quintans/eventsourcing/log"
	"github.com/sirupsen/logrus"
)

type logKey struct{}

var fallback log.Logger = log.NewLogrus(logrus.StandardLogger())

func LogToCtx(ctx context.Context, logger log.Logger) context.Context {
	return context.WithValue(ctx, logKey{}, logger)
}

// LogFromCtx returns the logger stored in ctx, or the standard logrus logger if there is none.
func LogFromCtx(ctx context.Context) log.Logger {
	if l, ok := ctx.Value(logKey{}).(log.Logger); ok {
		return l
	}
	return fallback
}

func LogTagsToCtx(ctx context.Context, tags log.Tags) (context.Context, log.Logger) {
	logger := LogFromCtx(ctx).WithTags(tags)

	return LogToCtx(ctx, logger), logger
}

// LazyStr defers building a log argument until the logger formats it.
type LazyStr func() string

func (s LazyStr) String() string {
	return s()
}
