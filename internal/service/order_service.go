package service

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/woodnest/woodnest/internal/constants"
	"github.com/woodnest/woodnest/internal/logger"
	"github.com/woodnest/woodnest/internal/models"
	"github.com/woodnest/woodnest/internal/repository"

	"gorm.io/gorm"
)

// OrderService 订单服务
// 负责购物车到订单的转换（订单工厂）与订单状态机。
type OrderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	cartRepo    repository.CartRepository
	cartService *CartService
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, cartRepo repository.CartRepository, cartService *CartService) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		cartService: cartService,
	}
}

// FallbackItem 客户端提交的兜底订单项（购物车丢失时的恢复路径）
type FallbackItem struct {
	ProductID uint
	VariantID uint
	Quantity  int
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	Identity      Identity
	Billing       models.Address
	Shipping      models.Address
	PaymentMethod string
	Notes         string
	FallbackItems []FallbackItem
}

// CreateOrder 从购物车创建订单
// 校验全部通过前不做任何变更；订单落库、全部库存扣减与清空购物车
// 在同一个事务内完成，任一步失败整体回滚。
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	if !input.Identity.Valid() {
		return nil, ErrInvalidIdentity
	}

	cart, err := s.cartService.GetOrCreate(input.Identity)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 && len(input.FallbackItems) > 0 {
		cart, err = s.recoverCartFromFallback(input.Identity, input.FallbackItems)
		if err != nil {
			return nil, err
		}
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	// 全量预校验：重新读取每个商品，任一不通过则整单失败，不触碰库存。
	for _, item := range cart.Items {
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, ErrProductNotFound
		}
		if !product.InStock || product.StockQuantity < item.Quantity {
			return nil, &InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Available:   product.StockQuantity,
				Requested:   item.Quantity,
			}
		}
	}

	now := time.Now()
	orderItems := make([]models.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		orderItems = append(orderItems, models.OrderItem{
			ProductID:    item.ProductID,
			VariantID:    item.VariantID,
			VariantName:  item.VariantName,
			VariantValue: item.VariantValue,
			Name:         item.Name,
			Slug:         item.Slug,
			Image:        item.Image,
			Price:        item.Price,
			Quantity:     item.Quantity,
			Subtotal:     item.Subtotal,
			Status:       constants.OrderItemStatusPending,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	order := &models.Order{
		OrderNo:       generateOrderNo(),
		UserID:        input.Identity.UserID,
		SessionID:     strings.TrimSpace(input.Identity.SessionID),
		Status:        constants.OrderStatusPending,
		PaymentStatus: constants.PaymentStatusPending,
		PaymentMethod: strings.TrimSpace(input.PaymentMethod),
		Notes:         strings.TrimSpace(input.Notes),
		CouponCode:    cart.CouponCode,
		Subtotal:      cart.Subtotal,
		Tax:           cart.Tax,
		ShippingCost:  cart.Shipping,
		Discount:      cart.Discount,
		Total:         cart.Total,
		Billing:       input.Billing,
		Shipping:      input.Shipping,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	event := &models.OrderEvent{
		Status:    constants.OrderStatusPending,
		Message:   "Order created",
		ActorID:   input.Identity.UserID,
		ActorRole: constants.ActorRoleCustomer,
		CreatedAt: now,
	}

	var stockErr error
	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)
		cartRepo := s.cartRepo.WithTx(tx)

		if err := orderRepo.Create(order, orderItems, event); err != nil {
			return err
		}
		// 条件扣减是真正的库存闸门：0 行生效说明并发下已不足，整体回滚。
		for _, item := range orderItems {
			affected, err := productRepo.DecrementStock(item.ProductID, item.Quantity)
			if err != nil {
				return err
			}
			if affected == 0 {
				stockErr = s.insufficientStockFor(item)
				return stockErr
			}
		}
		return cartRepo.DeleteItems(cart.ID)
	})
	if err != nil {
		if stockErr != nil {
			return nil, stockErr
		}
		return nil, err
	}

	order.Timeline = []models.OrderEvent{*event}
	return order, nil
}

// recoverCartFromFallback 用客户端提交的订单项重建丢失的购物车
// 商品已下架/删除的项跳过并记录日志，不让整次恢复失败。
func (s *OrderService) recoverCartFromFallback(identity Identity, fallback []FallbackItem) (*models.Cart, error) {
	var cart *models.Cart
	for _, item := range fallback {
		if item.ProductID == 0 || item.Quantity <= 0 {
			logger.Warnw("order_fallback_item_invalid", "product_id", item.ProductID, "quantity", item.Quantity)
			continue
		}
		updated, err := s.cartService.AddItem(identity, item.ProductID, item.Quantity, item.VariantID)
		if err != nil {
			if isRecoverySkippable(err) {
				logger.Warnw("order_fallback_item_skipped", "product_id", item.ProductID, "error", err)
				continue
			}
			return nil, err
		}
		cart = updated
	}
	if cart != nil {
		return cart, nil
	}
	return s.cartService.GetOrCreate(identity)
}

// isRecoverySkippable 兜底恢复时可跳过的单项错误
func isRecoverySkippable(err error) bool {
	for _, target := range []error{ErrProductNotFound, ErrProductNotAvailable, ErrVariantNotFound} {
		if err == target {
			return true
		}
	}
	return false
}

func (s *OrderService) insufficientStockFor(item models.OrderItem) error {
	available := 0
	if product, err := s.productRepo.GetByID(item.ProductID); err == nil && product != nil {
		available = product.StockQuantity
	}
	return &InsufficientStockError{
		ProductID:   item.ProductID,
		ProductName: item.Name,
		Available:   available,
		Requested:   item.Quantity,
	}
}

// CancelOrder 客户自助取消订单
// 仅允许 pending/confirmed/processing 状态；取消与逐项库存回补同事务完成。
func (s *OrderService) CancelOrder(orderID uint, identity Identity) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndOwner(orderID, identity.UserID, strings.TrimSpace(identity.SessionID))
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !CanCustomerCancel(order.Status) {
		return nil, ErrOrderCancelNotAllowed
	}

	now := time.Now()
	event := &models.OrderEvent{
		OrderID:   order.ID,
		Status:    constants.OrderStatusCancelled,
		Message:   "Order cancelled by customer",
		ActorID:   identity.UserID,
		ActorRole: constants.ActorRoleCustomer,
		CreatedAt: now,
	}
	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		updates := map[string]interface{}{
			"canceled_at": now,
			"updated_at":  now,
		}
		if err := orderRepo.UpdateStatus(order.ID, constants.OrderStatusCancelled, updates); err != nil {
			return err
		}
		if err := orderRepo.AppendEvent(event); err != nil {
			return err
		}
		// 回补量与当初扣减量一致（逐订单项）。
		for _, item := range order.Items {
			if _, err := productRepo.IncrementStock(item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, ErrOrderUpdateFailed
	}

	order.Status = constants.OrderStatusCancelled
	order.CanceledAt = &now
	order.UpdatedAt = now
	order.Timeline = append(order.Timeline, *event)
	return order, nil
}

// UpdateStatus 管理端通用状态更新
// 不做状态图约束；即使目标状态为 cancelled 也不回补库存，
// 与客户自助取消路径的差异为既有约定，见仓库设计文档。
func (s *OrderService) UpdateStatus(orderID uint, targetStatus, message string, adminID uint) (*models.Order, error) {
	targetStatus = strings.TrimSpace(targetStatus)
	if !IsValidOrderStatus(targetStatus) {
		return nil, ErrOrderStatusInvalid
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	now := time.Now()
	message = strings.TrimSpace(message)
	if message == "" {
		message = defaultStatusMessage(targetStatus)
	}
	event := &models.OrderEvent{
		OrderID:   order.ID,
		Status:    targetStatus,
		Message:   message,
		ActorID:   adminID,
		ActorRole: constants.ActorRoleAdmin,
		CreatedAt: now,
	}
	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		updates := map[string]interface{}{
			"updated_at": now,
		}
		if targetStatus == constants.OrderStatusCancelled {
			updates["canceled_at"] = now
		}
		if err := orderRepo.UpdateStatus(order.ID, targetStatus, updates); err != nil {
			return err
		}
		return orderRepo.AppendEvent(event)
	})
	if err != nil {
		return nil, ErrOrderUpdateFailed
	}

	order.Status = targetStatus
	order.UpdatedAt = now
	order.Timeline = append(order.Timeline, *event)
	return order, nil
}

// UpdatePaymentStatus 更新支付状态
// 独立于订单状态；审计记录沿用当前订单状态，形成并行的审计通道。
func (s *OrderService) UpdatePaymentStatus(orderID uint, paymentStatus, paymentIntent string, adminID uint) (*models.Order, error) {
	paymentStatus = strings.TrimSpace(paymentStatus)
	if !IsValidPaymentStatus(paymentStatus) {
		return nil, ErrPaymentStatusInvalid
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	now := time.Now()
	event := &models.OrderEvent{
		OrderID:   order.ID,
		Status:    order.Status,
		Message:   fmt.Sprintf("Payment status updated to %s", paymentStatus),
		ActorID:   adminID,
		ActorRole: constants.ActorRoleAdmin,
		CreatedAt: now,
	}
	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		if err := orderRepo.UpdatePayment(order.ID, paymentStatus, strings.TrimSpace(paymentIntent)); err != nil {
			return err
		}
		return orderRepo.AppendEvent(event)
	})
	if err != nil {
		return nil, ErrOrderUpdateFailed
	}

	order.PaymentStatus = paymentStatus
	if paymentIntent != "" {
		order.PaymentIntent = strings.TrimSpace(paymentIntent)
	}
	order.Timeline = append(order.Timeline, *event)
	return order, nil
}

// AddNote 追加管理员备注（只写 admin notes，不影响状态与 timeline）
func (s *OrderService) AddNote(orderID uint, message string, adminID uint) (*models.OrderNote, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrNoteMessageRequired
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	note := &models.OrderNote{
		OrderID:   order.ID,
		Message:   message,
		AuthorID:  adminID,
		CreatedAt: time.Now(),
	}
	if err := s.orderRepo.AppendNote(note); err != nil {
		return nil, ErrOrderUpdateFailed
	}
	return note, nil
}

// GetOrder 按归属身份获取订单
func (s *OrderService) GetOrder(orderID uint, identity Identity) (*models.Order, error) {
	if !identity.Valid() {
		return nil, ErrInvalidIdentity
	}
	order, err := s.orderRepo.GetByIDAndOwner(orderID, identity.UserID, strings.TrimSpace(identity.SessionID))
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders 按归属身份查询订单列表
func (s *OrderService) ListOrders(identity Identity, page, pageSize int) ([]models.Order, int64, error) {
	if !identity.Valid() {
		return nil, 0, ErrInvalidIdentity
	}
	return s.orderRepo.ListByOwner(repository.OrderListFilter{
		Page:      page,
		PageSize:  pageSize,
		UserID:    identity.UserID,
		SessionID: strings.TrimSpace(identity.SessionID),
	})
}

// ListOrdersForAdmin 管理端订单列表
func (s *OrderService) ListOrdersForAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.ListAdmin(filter)
}

// GetOrderForAdmin 管理端获取订单详情
func (s *OrderService) GetOrderForAdmin(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, ErrOrderFetchFailed
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

var orderNoSeq atomic.Uint64

// generateOrderNo 生成订单编号：WN + 时间戳 + 零填充进程内序列
// 序列单调递增，同一秒内并发创建也不会重号。
func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	seq := orderNoSeq.Add(1) % 1000000
	return fmt.Sprintf("WN%s%06d", now, seq)
}
