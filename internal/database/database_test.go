package database

import (
	"testing"
	"time"

	"events-api/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresPoolConfig(t *testing.T) {
	cfg := config.LoadTestConfig().Database

	t.Run("Request Timeout Applied", func(t *testing.T) {
		poolConfig, err := postgresPoolConfig(&cfg, 2500*time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, 2500*time.Millisecond, poolConfig.ConnConfig.ConnectTimeout)
		assert.Equal(t, "2500", poolConfig.ConnConfig.RuntimeParams["statement_timeout"])
		assert.Equal(t, "UTC", poolConfig.ConnConfig.RuntimeParams["timezone"])
		assert.Equal(t, int32(25), poolConfig.MaxConns)
	})

	t.Run("Zero Timeout Leaves Defaults", func(t *testing.T) {
		poolConfig, err := postgresPoolConfig(&cfg, 0)

		require.NoError(t, err)
		assert.NotContains(t, poolConfig.ConnConfig.RuntimeParams, "statement_timeout")
	})
}

func TestAzTablesClientOptions(t *testing.T) {
	cfg := config.AzTablesConfig{TableName: "events", MaxRetries: 2}

	options := azTablesClientOptions(&cfg, 3*time.Second)

	assert.Equal(t, int32(2), options.Retry.MaxRetries)
	assert.Equal(t, 3*time.Second, options.Retry.TryTimeout)
}

func TestInitAzTables(t *testing.T) {
	cfg := config.AzTablesConfig{
		ConnectionString: "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;" +
			"AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;" +
			"TableEndpoint=http://127.0.0.1:10002/devstoreaccount1;",
		TableName:        "events",
		MaxRetries:       1,
	}

	client, err := InitAzTables(&cfg, time.Second)

	require.NoError(t, err)
	assert.NotNil(t, client)
}
