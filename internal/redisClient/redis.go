package redisClient

import (
	"github.com/go-redis/redis"
	"github.com/spf13/viper"
)

// New connects with the redis.* settings and fails when the server does not answer.
func New() (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     viper.GetString("redis.addr"),
		Password: viper.GetString("redis.password"),
		DB:       viper.GetInt("redis.db"),
	})
	if err := client.Ping().Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
