//go:build unit

package bootstrap_test

import (
	"log/slog"
	"testing"

	"order-service/cmd/bootstrap"
	"order-service/internal/pkg/config"
	"order-service/internal/usecase/async"
	"order-service/internal/usecase/commands"
	"order-service/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

// The graph is only resolved; no constructor runs, so no database or broker is needed.
func TestModule_ResolvesApplicationGraph(t *testing.T) {
	err := fx.ValidateApp(
		bootstrap.Module,
		fx.Provide(gin.New),
		fx.Invoke(func(
			_ commands.OrderCommands,
			_ queries.OrderQueries,
			_ *async.Executor,
			_ config.Config,
			_ *slog.Logger,
		) {
		}),
	)

	require.NoError(t, err)
}
