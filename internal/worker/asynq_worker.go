package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/woodnest/woodnest/internal/logger"
	"github.com/woodnest/woodnest/internal/provider"
	"github.com/woodnest/woodnest/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCartExpire, c.handleCartExpire)
}

// handleCartExpire 清理超期未活动的游客购物车
// 任务入队于"最后活动 + TTL"，消费时仍按最近更新时间复核，
// 期间有过活动的购物车会被条件删除跳过（0 行生效）。
func (c *Consumer) handleCartExpire(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_cart_expire_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.CartExpirePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_cart_expire_unmarshal_failed", "error", err)
		return err
	}
	if payload.CartID == 0 {
		logger.Debugw("worker_cart_expire_skip_invalid_payload", "cart_id", payload.CartID)
		return nil
	}

	ttl := c.GuestCartTTL
	if ttl <= 0 {
		logger.Debugw("worker_cart_expire_skip_disabled", "cart_id", payload.CartID)
		return nil
	}
	idleBefore := time.Now().Add(-ttl)
	affected, err := c.CartRepo.DeleteIdleGuestCart(payload.CartID, idleBefore)
	if err != nil {
		logger.Warnw("worker_cart_expire_delete_failed", "cart_id", payload.CartID, "error", err)
		return err
	}
	if affected == 0 {
		logger.Debugw("worker_cart_expire_skip_active", "cart_id", payload.CartID)
		return nil
	}
	logger.Infow("worker_cart_expired", "cart_id", payload.CartID)
	return nil
}
