package repository

import (
	"errors"
	"time"

	"github.com/woodnest/woodnest/internal/models"

	"gorm.io/gorm"
)

// CartRepository 购物车数据访问接口
// SaveItemsAndTotals 在单个事务内同时落库购物车项与派生金额，
// 保证外部永远读不到 items 与 totals 不一致的状态。
type CartRepository interface {
	GetByUser(userID uint) (*models.Cart, error)
	GetBySession(sessionID string) (*models.Cart, error)
	Create(cart *models.Cart) error
	SaveItemsAndTotals(cart *models.Cart, items []models.CartItem) error
	DeleteItems(cartID uint) error
	DeleteIdleGuestCart(cartID uint, idleBefore time.Time) (int64, error)
	WithTx(tx *gorm.DB) CartRepository
	Transaction(fn func(tx *gorm.DB) error) error
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// Transaction 执行事务
func (r *GormCartRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// GetByUser 获取用户购物车（含购物车项）
func (r *GormCartRepository) GetByUser(userID uint) (*models.Cart, error) {
	if userID == 0 {
		return nil, nil
	}
	var cart models.Cart
	err := r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at asc, id asc")
	}).Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetBySession 获取游客购物车（含购物车项）
func (r *GormCartRepository) GetBySession(sessionID string) (*models.Cart, error) {
	if sessionID == "" {
		return nil, nil
	}
	var cart models.Cart
	err := r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at asc, id asc")
	}).Where("session_id = ?", sessionID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Create 创建购物车
func (r *GormCartRepository) Create(cart *models.Cart) error {
	if cart == nil {
		return nil
	}
	return r.db.Create(cart).Error
}

// SaveItemsAndTotals 原子落库购物车项与金额
// 先整体替换购物车项，再写派生金额，两步同事务提交。
func (r *GormCartRepository) SaveItemsAndTotals(cart *models.Cart, items []models.CartItem) error {
	if cart == nil || cart.ID == 0 {
		return errors.New("cart not persisted")
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ID = 0
			items[i].CartID = cart.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		updates := map[string]interface{}{
			"coupon_code": cart.CouponCode,
			"subtotal":    cart.Subtotal,
			"tax":         cart.Tax,
			"shipping":    cart.Shipping,
			"discount":    cart.Discount,
			"total":       cart.Total,
			"updated_at":  time.Now(),
		}
		return tx.Model(&models.Cart{}).Where("id = ?", cart.ID).Updates(updates).Error
	})
}

// DeleteItems 清空购物车项（保留购物车本体）
func (r *GormCartRepository) DeleteItems(cartID uint) error {
	if cartID == 0 {
		return nil
	}
	return r.db.Unscoped().Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

// DeleteIdleGuestCart 删除超期未活动的游客购物车
// 仅当购物车仍属于游客且最近更新时间早于 idleBefore 时生效，
// 返回受影响行数（0 表示购物车期间有过活动，放弃清理）。
func (r *GormCartRepository) DeleteIdleGuestCart(cartID uint, idleBefore time.Time) (int64, error) {
	if cartID == 0 {
		return 0, nil
	}
	return checkedGuestCartDelete(r.db, cartID, idleBefore)
}

func checkedGuestCartDelete(db *gorm.DB, cartID uint, idleBefore time.Time) (int64, error) {
	var affected int64
	err := db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = 0 AND session_id <> '' AND updated_at < ?", cartID, idleBefore).
			Delete(&models.Cart{})
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		if affected == 0 {
			return nil
		}
		return tx.Unscoped().Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
	})
	return affected, err
}
