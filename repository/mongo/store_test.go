package mongo

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"coinbot/domain/interfaces"
	"coinbot/repository/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/mongo"
)

func setupMongo(t *testing.T) *mongo.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(60 * time.Second),
			Labels:       map[string]string{"test": "coinbot-mongo", "cleanup": "auto"},
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate mongo container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "27017/tcp")
	require.NoError(t, err)

	client, err := Connect(ctx, fmt.Sprintf("mongodb://%s:%s", host, port.Port()))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = client.Disconnect(context.Background())
	})
	return client
}

func TestStore_Contract(t *testing.T) {
	client := setupMongo(t)

	testutil.RunLedgerStoreContract(t, func(t *testing.T) interfaces.LedgerStore {
		// A fresh collection per subtest keeps them independent
		store, err := New(context.Background(), client, "coinbot_test", "accounts_"+uuid.NewString())
		require.NoError(t, err)
		return store
	})
}

func TestStore_ConcurrentGetOrCreate(t *testing.T) {
	client := setupMongo(t)
	ctx := context.Background()

	store, err := New(ctx, client, "coinbot_test", "accounts")
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok, err := store.GetOrCreateAccount(ctx, 77)
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
}

func TestStore_ConcurrentChangeBalance(t *testing.T) {
	client := setupMongo(t)
	ctx := context.Background()

	store, err := New(ctx, client, "coinbot_test", "balances")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.ChangeBalance(ctx, 5, 3)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	account, _, err := store.GetOrCreateAccount(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(120), account.Balance)
	assert.NotNil(t, account.Inventory)
}
