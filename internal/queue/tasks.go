package queue

import (
	"encoding/json"

	"github.com/woodnest/woodnest/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCartExpire 游客购物车过期清理任务
	TaskCartExpire = constants.TaskCartExpire
)

// CartExpirePayload 购物车过期任务载荷
type CartExpirePayload struct {
	CartID uint `json:"cart_id"`
}

// NewCartExpireTask 构建购物车过期任务
func NewCartExpireTask(payload CartExpirePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCartExpire, data), nil
}
