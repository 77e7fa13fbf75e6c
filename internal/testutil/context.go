package testutil

import (
	"context"

	"github.com/flexprice/billingsession/internal/types"
)

func SetupContext() context.Context {
	ctx := context.Background()
	ctx = types.SetRequestID(ctx, types.GenerateUUID())
	return ctx
}
