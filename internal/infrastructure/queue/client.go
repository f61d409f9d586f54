package queue

import (
	"context"

	"github.com/hibiken/asynq"
)

// TaskEnqueuer là phần của *asynq.Client mà các service cần
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// NewClient tạo asynq client dùng chung redis với cache
func NewClient(redisAddr, password string, db int) *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: password,
		DB:       db,
	})
}
