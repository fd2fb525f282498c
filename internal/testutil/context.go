package testutil

import (
	"context"

	"github.com/ledgerline/ledgerline/internal/types"
)

func SetupContext() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, types.CtxTenantID, types.DefaultTenantID)
	ctx = context.WithValue(ctx, types.CtxUserID, types.DefaultUserID)
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	return ctx
}

// SetupContextWithTenant is SetupContext scoped to another tenant
func SetupContextWithTenant(tenantID string) context.Context {
	return context.WithValue(SetupContext(), types.CtxTenantID, tenantID)
}
