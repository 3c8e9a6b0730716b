package repository

import (
	"errors"
	"strings"

	"github.com/woodnest/woodnest/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
// timeline 与 admin notes 只提供 Append，没有更新或删除入口。
type OrderRepository interface {
	Create(order *models.Order, items []models.OrderItem, event *models.OrderEvent) error
	GetByID(id uint) (*models.Order, error)
	GetByIDAndOwner(id uint, userID uint, sessionID string) (*models.Order, error)
	ListByOwner(filter OrderListFilter) ([]models.Order, int64, error)
	ListAdmin(filter OrderListFilter) ([]models.Order, int64, error)
	UpdateStatus(id uint, status string, updates map[string]interface{}) error
	UpdatePayment(id uint, paymentStatus, paymentIntent string) error
	AppendEvent(event *models.OrderEvent) error
	AppendNote(note *models.OrderNote) error
	WithTx(tx *gorm.DB) OrderRepository
	Transaction(fn func(tx *gorm.DB) error) error
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) OrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Transaction 执行事务
func (r *GormOrderRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

func (r *GormOrderRepository) withDetails(query *gorm.DB) *gorm.DB {
	return query.Preload("Items").
		Preload("Timeline", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc, id asc")
		}).
		Preload("AdminNotes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc, id asc")
		})
}

// Create 创建订单、订单项与首条审计记录
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem, event *models.OrderEvent) error {
	if err := r.db.Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	if event != nil {
		event.OrderID = order.ID
		if err := r.db.Create(event).Error; err != nil {
			return err
		}
	}
	order.Items = items
	return nil
}

// GetByID 根据 ID 获取订单
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.withDetails(r.db).First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByIDAndOwner 根据 ID 与归属身份获取订单
func (r *GormOrderRepository) GetByIDAndOwner(id uint, userID uint, sessionID string) (*models.Order, error) {
	query := r.withDetails(r.db).Where("id = ?", id)
	switch {
	case userID > 0:
		query = query.Where("user_id = ?", userID)
	case sessionID != "":
		query = query.Where("session_id = ?", sessionID)
	default:
		return nil, nil
	}
	var order models.Order
	err := query.First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByOwner 按归属身份查询订单列表
func (r *GormOrderRepository) ListByOwner(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})
	switch {
	case filter.UserID > 0:
		query = query.Where("user_id = ?", filter.UserID)
	case filter.SessionID != "":
		query = query.Where("session_id = ?", filter.SessionID)
	default:
		return []models.Order{}, 0, nil
	}
	return r.list(query, filter)
}

// ListAdmin 管理端订单列表
func (r *GormOrderRepository) ListAdmin(filter OrderListFilter) ([]models.Order, int64, error) {
	return r.list(r.db.Model(&models.Order{}), filter)
}

func (r *GormOrderRepository) list(query *gorm.DB, filter OrderListFilter) ([]models.Order, int64, error) {
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if paymentStatus := strings.TrimSpace(filter.PaymentStatus); paymentStatus != "" {
		query = query.Where("payment_status = ?", paymentStatus)
	}
	if orderNo := strings.TrimSpace(filter.OrderNo); orderNo != "" {
		query = query.Where("order_no = ?", orderNo)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	query = applyPagination(query.Preload("Items"), filter.Page, filter.PageSize)
	if err := query.Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus 更新订单状态（附加字段通过 updates 一并写入）
func (r *GormOrderRepository) UpdateStatus(id uint, status string, updates map[string]interface{}) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = status
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}

// UpdatePayment 更新支付状态与外部支付引用
func (r *GormOrderRepository) UpdatePayment(id uint, paymentStatus, paymentIntent string) error {
	updates := map[string]interface{}{
		"payment_status": paymentStatus,
	}
	if paymentIntent != "" {
		updates["payment_intent"] = paymentIntent
	}
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}

// AppendEvent 追加 timeline 审计记录
func (r *GormOrderRepository) AppendEvent(event *models.OrderEvent) error {
	if event == nil || event.OrderID == 0 {
		return errors.New("invalid order event")
	}
	return r.db.Create(event).Error
}

// AppendNote 追加管理员备注
func (r *GormOrderRepository) AppendNote(note *models.OrderNote) error {
	if note == nil || note.OrderID == 0 {
		return errors.New("invalid order note")
	}
	return r.db.Create(note).Error
}
