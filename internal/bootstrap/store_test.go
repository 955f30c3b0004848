package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/travel-crm/internal/config"
)

func TestOpenStoreRejectsUnknownDriver(t *testing.T) {
	cfg := config.Config{Store: config.StoreConfig{Driver: "sqlite"}}

	backend, err := OpenStore(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
	require.Nil(t, backend)
	require.Contains(t, err.Error(), "sqlite")
}
