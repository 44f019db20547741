package utils

import (
	"context"
)

type CustomContext struct {
	AppSource string
	RunId     string
}

type customContextKeyType string

const customContextKey customContextKeyType = "CUSTOM_CONTEXT"

func WithCustomContext(ctx context.Context, customContext *CustomContext) context.Context {
	return context.WithValue(ctx, customContextKey, customContext)
}

func GetContext(ctx context.Context) *CustomContext {
	customContext, ok := ctx.Value(customContextKey).(*CustomContext)
	if !ok {
		return new(CustomContext)
	}
	return customContext
}

func GetAppSourceFromContext(ctx context.Context) string {
	return GetContext(ctx).AppSource
}

func GetRunIdFromContext(ctx context.Context) string {
	return GetContext(ctx).RunId
}

func SetAppSourceInContext(ctx context.Context, appSource string) context.Context {
	customContext := *GetContext(ctx)
	customContext.AppSource = appSource
	return WithCustomContext(ctx, &customContext)
}

func SetRunIdInContext(ctx context.Context, runId string) context.Context {
	customContext := *GetContext(ctx)
	customContext.RunId = runId
	return WithCustomContext(ctx, &customContext)
}
