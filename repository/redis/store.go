package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"coinbot/domain/entities"

	"github.com/redis/go-redis/v9"
)

const (
	keyAccount   = "coinbot:account:%d"
	fieldBalance = "balance"
)

// getOrCreateScript creates the hash on first reference and returns
// {created, balance, hourly, daily, monthly}
var getOrCreateScript = redis.NewScript(`
	local key = KEYS[1]
	local created = redis.call("HSETNX", key, "balance", 0)
	redis.call("HSETNX", key, "hourly", 0)
	redis.call("HSETNX", key, "daily", 0)
	redis.call("HSETNX", key, "monthly", 0)

	local vals = redis.call("HMGET", key, "balance", "hourly", "daily", "monthly")
	return {created, vals[1], vals[2], vals[3], vals[4]}
`)

// Store is a LedgerStore keeping one hash per account
type Store struct {
	client redis.UniversalClient
}

// Connect opens a client and verifies it with a ping
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func New(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

func accountKey(id int64) string {
	return fmt.Sprintf(keyAccount, id)
}

func (s *Store) GetOrCreateAccount(ctx context.Context, id int64) (*entities.Account, bool, error) {
	res, err := getOrCreateScript.Run(ctx, s.client, []string{accountKey(id)}).Slice()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get account %d: %w", id, err)
	}
	if len(res) != 5 {
		return nil, false, fmt.Errorf("failed to get account %d: unexpected script reply of length %d", id, len(res))
	}

	values := make([]int64, 4)
	for i, raw := range res[1:] {
		values[i], err = toInt64(raw)
		if err != nil {
			return nil, false, fmt.Errorf("failed to decode account %d: %w", id, err)
		}
	}

	account := entities.NewAccount(id)
	account.Balance = values[0]
	account.Last = entities.LastClaims{
		Hourly:  values[1],
		Daily:   values[2],
		Monthly: values[3],
	}

	created, _ := res[0].(int64)
	return account, created == 1, nil
}

func (s *Store) SetBalance(ctx context.Context, id int64, value int64) error {
	if err := s.client.HSet(ctx, accountKey(id), fieldBalance, value).Err(); err != nil {
		return fmt.Errorf("failed to set balance for account %d: %w", id, err)
	}
	return nil
}

func (s *Store) ChangeBalance(ctx context.Context, id int64, delta int64) (int64, error) {
	balance, err := s.client.HIncrBy(ctx, accountKey(id), fieldBalance, delta).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to change balance for account %d: %w", id, err)
	}
	return balance, nil
}

func (s *Store) GetLastClaim(ctx context.Context, id int64, bucket entities.ClaimBucket) (int64, error) {
	if !bucket.IsValid() {
		return 0, fmt.Errorf("unknown claim bucket %q", bucket)
	}

	last, err := s.client.HGet(ctx, accountKey(id), bucket.String()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get %s claim for account %d: %w", bucket, id, err)
	}
	return last, nil
}

func (s *Store) SetLastClaim(ctx context.Context, id int64, bucket entities.ClaimBucket, unix int64) error {
	if !bucket.IsValid() {
		return fmt.Errorf("unknown claim bucket %q", bucket)
	}

	if err := s.client.HSet(ctx, accountKey(id), bucket.String(), unix).Err(); err != nil {
		return fmt.Errorf("failed to set %s claim for account %d: %w", bucket, id, err)
	}
	return nil
}

func toInt64(raw interface{}) (int64, error) {
	switch v := raw.(type) {
	case int64:
		return v, nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("unexpected value type %T", raw)
	}
}
