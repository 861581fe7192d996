package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/personalink/internal/config"
	"github.com/MrSnakeDoc/personalink/internal/logger"
)

func testOptions(addr string) ConnectOptions {
	return ConnectOptions{
		Addr:           addr,
		ClientName:     "personalink-test",
		DialTimeout:    100 * time.Millisecond,
		ReadTimeout:    100 * time.Millisecond,
		WriteTimeout:   100 * time.Millisecond,
		PoolSize:       2,
		ConnectTimeout: 300 * time.Millisecond,
		RetryInterval:  20 * time.Millisecond,
		MaxWait:        50 * time.Millisecond,
		PingTimeout:    50 * time.Millisecond,
		WarnThreshold:  1,
	}
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Connect(context.Background(), testOptions(mr.Addr()), logger.NewNop())
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	assert.NoError(t, client.Ping(context.Background()).Err())
}

func TestConnectTimesOut(t *testing.T) {
	start := time.Now()
	_, err := Connect(context.Background(), testOptions("127.0.0.1:1"), logger.NewNop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis unavailable")
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestConnectHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := testOptions("127.0.0.1:1")
	opts.ConnectTimeout = time.Minute

	start := time.Now()
	_, err := Connect(ctx, opts, logger.NewNop())
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestValidateOptions(t *testing.T) {
	cl := &connectionLogger{logger: logger.NewNop()}

	tests := []struct {
		name   string
		mutate func(*ConnectOptions)
	}{
		{name: "missing addr", mutate: func(o *ConnectOptions) { o.Addr = "" }},
		{name: "zero connect timeout", mutate: func(o *ConnectOptions) { o.ConnectTimeout = 0 }},
		{name: "zero retry interval", mutate: func(o *ConnectOptions) { o.RetryInterval = 0 }},
		{name: "zero max wait", mutate: func(o *ConnectOptions) { o.MaxWait = 0 }},
		{name: "zero ping timeout", mutate: func(o *ConnectOptions) { o.PingTimeout = 0 }},
		{name: "negative warn threshold", mutate: func(o *ConnectOptions) { o.WarnThreshold = -1 }},
	}

	require.NoError(t, cl.validateOptions(testOptions("localhost:6379")))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions("localhost:6379")
			tt.mutate(&opts)
			assert.Error(t, cl.validateOptions(opts))
		})
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := &config.Config{
		RedisAddr:           "redis:6379",
		RedisDB:             2,
		RedisPoolSize:       7,
		RedisConnectTimeout: 30 * time.Second,
	}

	opts := OptionsFromConfig(cfg)
	assert.Equal(t, "redis:6379", opts.Addr)
	assert.Equal(t, "personalink", opts.ClientName)
	assert.Equal(t, 2, opts.RedisDB)
	assert.Equal(t, 7, opts.PoolSize)
	assert.Equal(t, 30*time.Second, opts.ConnectTimeout)
}
