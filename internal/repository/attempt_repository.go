package repository

import (
	"context"
	"errors"
	"fmt"
	"time"
	"vendor-upload-portal/config"
	"vendor-upload-portal/internal/util"

	"github.com/redis/go-redis/v9"
)

// AttemptRepository : счётчик неудачных обращений к порталу по IP в Redis
type AttemptRepository struct {
	client      *config.RedisClient
	maxFailures int64
	window      time.Duration
}

func NewAttemptRepository(rdb *config.RedisClient, maxFailures int64, window time.Duration) *AttemptRepository {
	return &AttemptRepository{client: rdb, maxFailures: maxFailures, window: window}
}

// Blocked : true, когда IP исчерпал лимит в текущем окне
func (r *AttemptRepository) Blocked(ctx context.Context, sourceIP string) (bool, error) {
	count, err := r.client.Client.Get(ctx, r.key(sourceIP)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	} else if err != nil {
		return false, util.LogError("[AttemptRepo] ошибка чтения счётчика из Redis", err)
	}

	return count >= r.maxFailures, nil
}

// RecordFailure : окно начинается с первой неудачи и не продлевается последующими
func (r *AttemptRepository) RecordFailure(ctx context.Context, sourceIP string) error {
	key := r.key(sourceIP)

	_, err := r.client.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, r.window)
		return nil
	})
	if err != nil {
		return util.LogError("[AttemptRepo] ошибка записи счётчика в Redis", err)
	}

	return nil
}

func (r *AttemptRepository) key(sourceIP string) string {
	return fmt.Sprintf("portal:failed:%s", sourceIP)
}
