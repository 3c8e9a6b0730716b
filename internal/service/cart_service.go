package service

import (
	"strings"
	"time"

	"github.com/woodnest/woodnest/internal/logger"
	"github.com/woodnest/woodnest/internal/models"
	"github.com/woodnest/woodnest/internal/queue"
	"github.com/woodnest/woodnest/internal/repository"

	"github.com/shopspring/decimal"
)

// Identity 购物车归属身份：登录用户或游客会话，二选一。
type Identity struct {
	UserID    uint
	SessionID string
}

// Valid 判断身份是否有效（恰好一个维度非空）
func (id Identity) Valid() bool {
	hasUser := id.UserID > 0
	hasSession := strings.TrimSpace(id.SessionID) != ""
	return hasUser != hasSession
}

// CartService 购物车服务
// 每次变更后重新计算派生金额，并与购物车项同事务落库。
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	coupons     CouponValidator
	policy      TotalsPolicy
	queueClient *queue.Client
	guestTTL    time.Duration
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, coupons CouponValidator, policy TotalsPolicy, queueClient *queue.Client, guestTTL time.Duration) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		coupons:     coupons,
		policy:      policy,
		queueClient: queueClient,
		guestTTL:    guestTTL,
	}
}

// GetOrCreate 获取或创建身份对应的购物车
func (s *CartService) GetOrCreate(identity Identity) (*models.Cart, error) {
	if !identity.Valid() {
		return nil, ErrInvalidIdentity
	}
	var cart *models.Cart
	var err error
	if identity.UserID > 0 {
		cart, err = s.cartRepo.GetByUser(identity.UserID)
	} else {
		cart, err = s.cartRepo.GetBySession(strings.TrimSpace(identity.SessionID))
	}
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}

	now := time.Now()
	cart = &models.Cart{
		UserID:    identity.UserID,
		SessionID: strings.TrimSpace(identity.SessionID),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.cartRepo.Create(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem 添加商品到购物车
// 同商品同规格合并数量；校验累计请求量的库存。
func (s *CartService) AddItem(identity Identity, productID uint, quantity int, variantID uint) (*models.Cart, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	cart, err := s.GetOrCreate(identity)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}

	price := product.EffectivePrice()
	variantName := ""
	variantValue := ""
	if variantID > 0 {
		variant, err := s.productRepo.GetVariant(productID, variantID)
		if err != nil {
			return nil, err
		}
		if variant == nil {
			return nil, ErrVariantNotFound
		}
		price = models.NewMoneyFromDecimal(price.Decimal.Add(variant.PriceModifier.Decimal))
		variantName = variant.Name
		variantValue = variant.Value
	}

	items := cart.Items
	merged := false
	cumulative := quantity
	for i := range items {
		if items[i].ProductID == productID && items[i].VariantID == variantID {
			cumulative = items[i].Quantity + quantity
			items[i].Quantity = cumulative
			items[i].Subtotal = LineSubtotal(items[i].Price, cumulative)
			items[i].UpdatedAt = time.Now()
			merged = true
			break
		}
	}
	if !product.InStock || product.StockQuantity < cumulative {
		return nil, &InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   product.StockQuantity,
			Requested:   cumulative,
		}
	}
	if !merged {
		now := time.Now()
		image := ""
		if len(product.Images) > 0 {
			image = product.Images[0]
		}
		items = append(items, models.CartItem{
			CartID:       cart.ID,
			ProductID:    product.ID,
			VariantID:    variantID,
			VariantName:  variantName,
			VariantValue: variantValue,
			Name:         product.Name,
			Slug:         product.Slug,
			Image:        image,
			Price:        price,
			Quantity:     quantity,
			Subtotal:     LineSubtotal(price, quantity),
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	return s.persist(cart, items)
}

// UpdateItem 更新购物车项数量（数量 ≤ 0 视为删除）
func (s *CartService) UpdateItem(identity Identity, productID uint, quantity int) (*models.Cart, error) {
	cart, err := s.GetOrCreate(identity)
	if err != nil {
		return nil, err
	}
	items := cart.Items
	idx := -1
	for i := range items {
		if items[i].ProductID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrCartItemNotFound
	}
	if quantity <= 0 {
		items = append(items[:idx], items[idx+1:]...)
		return s.persist(cart, items)
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !product.InStock || product.StockQuantity < quantity {
		return nil, &InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   product.StockQuantity,
			Requested:   quantity,
		}
	}

	items[idx].Quantity = quantity
	items[idx].Subtotal = LineSubtotal(items[idx].Price, quantity)
	items[idx].UpdatedAt = time.Now()
	return s.persist(cart, items)
}

// RemoveItem 删除购物车项
func (s *CartService) RemoveItem(identity Identity, productID uint) (*models.Cart, error) {
	cart, err := s.GetOrCreate(identity)
	if err != nil {
		return nil, err
	}
	items := cart.Items
	idx := -1
	for i := range items {
		if items[i].ProductID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrCartItemNotFound
	}
	items = append(items[:idx], items[idx+1:]...)
	return s.persist(cart, items)
}

// Clear 清空购物车
func (s *CartService) Clear(identity Identity) (*models.Cart, error) {
	cart, err := s.GetOrCreate(identity)
	if err != nil {
		return nil, err
	}
	cart.CouponCode = ""
	return s.persist(cart, nil)
}

// ApplyCoupon 应用优惠码并重算金额
func (s *CartService) ApplyCoupon(identity Identity, code string) (*models.Cart, error) {
	cart, err := s.GetOrCreate(identity)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	subtotal := decimal.Zero
	for _, item := range cart.Items {
		subtotal = subtotal.Add(item.Subtotal.Decimal)
	}
	if _, err := s.coupons.Validate(code, subtotal); err != nil {
		return nil, err
	}

	cart.CouponCode = strings.TrimSpace(code)
	return s.persist(cart, cart.Items)
}

// persist 重新计算派生金额并与购物车项同事务落库
func (s *CartService) persist(cart *models.Cart, items []models.CartItem) (*models.Cart, error) {
	discount := decimal.Zero
	if cart.CouponCode != "" && len(items) > 0 {
		subtotal := decimal.Zero
		for _, item := range items {
			subtotal = subtotal.Add(item.Subtotal.Decimal)
		}
		amount, err := s.coupons.Validate(cart.CouponCode, subtotal)
		if err != nil {
			// 优惠码失效时静默移除，不阻塞购物车本身的变更
			logger.Warnw("cart_coupon_revalidate_failed", "cart_id", cart.ID, "code", cart.CouponCode, "error", err)
			cart.CouponCode = ""
		} else {
			discount = amount
		}
	}
	if len(items) == 0 {
		cart.CouponCode = ""
		discount = decimal.Zero
	}

	totals := ComputeTotals(items, s.policy, discount)
	cart.Subtotal = totals.Subtotal
	cart.Tax = totals.Tax
	cart.Shipping = totals.Shipping
	cart.Discount = totals.Discount
	cart.Total = totals.Total

	if err := s.cartRepo.SaveItemsAndTotals(cart, items); err != nil {
		return nil, err
	}
	cart.Items = items
	cart.UpdatedAt = time.Now()

	s.scheduleGuestExpiry(cart)
	return cart, nil
}

// scheduleGuestExpiry 游客购物车每次活动后推送延迟清理任务
// worker 消费时会再次校验闲置时间，中途有活动则放弃清理。
func (s *CartService) scheduleGuestExpiry(cart *models.Cart) {
	if cart == nil || !cart.IsGuest() || s.guestTTL <= 0 {
		return
	}
	if err := s.queueClient.EnqueueCartExpire(queue.CartExpirePayload{CartID: cart.ID}, s.guestTTL); err != nil {
		logger.Warnw("cart_enqueue_expire_failed", "cart_id", cart.ID, "error", err)
	}
}
