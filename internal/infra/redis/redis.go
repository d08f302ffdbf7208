package redis

import (
	"context"

	re "github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

type Client struct {
	client *re.Client
}

// 初始化客户端
func NewClient(cfg Config) *Client {
	rdb := re.NewClient(&re.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Client{client: rdb}
}

// Ping 测试连接
func (r *Client) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Client) Close() error {
	return r.client.Close()
}
