package main

import (
	"fmt"
	"time"

	"github.com/woodnest/woodnest/internal/authz"
	"github.com/woodnest/woodnest/internal/config"
	"github.com/woodnest/woodnest/internal/constants"
	"github.com/woodnest/woodnest/internal/logger"
	"github.com/woodnest/woodnest/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	seedCatalog(stdLog.Fatalf)
	seedCoupons(stdLog.Fatalf)
	seedAdminRoles(stdLog.Fatalf)

	fmt.Println("Seed completed.")
}

func price(v string) models.Money {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(fmt.Sprintf("invalid seed price %q: %v", v, err))
	}
	return models.NewMoneyFromDecimal(d)
}

func pricePtr(v string) *models.Money {
	m := price(v)
	return &m
}

func seedCatalog(fatalf func(string, ...interface{})) {
	categories := []models.Category{
		{Slug: "sofas", Name: "Sofas & Sectionals", Image: "/images/categories/sofas.jpg", SortOrder: 1},
		{Slug: "dining-tables", Name: "Dining Tables", Image: "/images/categories/dining-tables.jpg", SortOrder: 2},
		{Slug: "chairs", Name: "Chairs & Stools", Image: "/images/categories/chairs.jpg", SortOrder: 3},
		{Slug: "storage", Name: "Storage & Shelving", Image: "/images/categories/storage.jpg", SortOrder: 4},
		{Slug: "beds", Name: "Beds & Frames", Image: "/images/categories/beds.jpg", SortOrder: 5},
	}
	idBySlug := map[string]uint{}
	for i := range categories {
		c := &categories[i]
		var existing models.Category
		if err := models.DB.Where("slug = ?", c.Slug).First(&existing).Error; err == nil {
			idBySlug[c.Slug] = existing.ID
			continue
		}
		if err := models.DB.Create(c).Error; err != nil {
			fatalf("Failed to seed category %s: %v", c.Slug, err)
		}
		idBySlug[c.Slug] = c.ID
	}

	type seedProduct struct {
		category string
		product  models.Product
		variants []models.ProductVariant
	}
	products := []seedProduct{
		{
			category: "sofas",
			product: models.Product{
				Slug:          "hedgerow-3-seater",
				Name:          "Hedgerow 3-Seater Sofa",
				Description:   "Deep-seat three seater with kiln-dried hardwood frame and feather-wrap cushions.",
				Price:         price("1899.00"),
				Images:        models.StringArray{"/images/products/hedgerow-1.jpg", "/images/products/hedgerow-2.jpg"},
				StockQuantity: 12,
				InStock:       true,
				IsActive:      true,
				SortOrder:     1,
			},
			variants: []models.ProductVariant{
				{Name: "fabric", Value: "oat-linen", PriceModifier: models.ZeroMoney(), IsActive: true},
				{Name: "fabric", Value: "slate-wool", PriceModifier: price("120.00"), IsActive: true},
			},
		},
		{
			category: "sofas",
			product: models.Product{
				Slug:          "alder-loveseat",
				Name:          "Alder Loveseat",
				Description:   "Compact two seater for small spaces, solid alder legs.",
				Price:         price("1149.00"),
				SalePrice:     pricePtr("989.00"),
				Images:        models.StringArray{"/images/products/alder-loveseat.jpg"},
				StockQuantity: 8,
				InStock:       true,
				IsActive:      true,
				SortOrder:     2,
			},
		},
		{
			category: "dining-tables",
			product: models.Product{
				Slug:          "longford-extending-table",
				Name:          "Longford Extending Table",
				Description:   "Seats six, extends to ten. Solid oak top with butterfly leaf.",
				Price:         price("1590.00"),
				Images:        models.StringArray{"/images/products/longford-1.jpg"},
				StockQuantity: 5,
				InStock:       true,
				IsActive:      true,
				SortOrder:     1,
			},
			variants: []models.ProductVariant{
				{Name: "finish", Value: "natural-oak", PriceModifier: models.ZeroMoney(), IsActive: true},
				{Name: "finish", Value: "smoked-oak", PriceModifier: price("80.00"), IsActive: true},
				{Name: "finish", Value: "walnut", PriceModifier: price("210.00"), IsActive: true},
			},
		},
		{
			category: "chairs",
			product: models.Product{
				Slug:          "wicker-dining-chair",
				Name:          "Wicker Dining Chair",
				Description:   "Hand-woven rattan seat on a bent beech frame.",
				Price:         price("249.00"),
				Images:        models.StringArray{"/images/products/wicker-chair.jpg"},
				StockQuantity: 60,
				InStock:       true,
				IsActive:      true,
				SortOrder:     1,
			},
		},
		{
			category: "chairs",
			product: models.Product{
				Slug:          "turner-bar-stool",
				Name:          "Turner Bar Stool",
				Description:   "Counter-height stool, turned ash legs.",
				Price:         price("189.00"),
				Images:        models.StringArray{"/images/products/turner-stool.jpg"},
				StockQuantity: 0,
				InStock:       false,
				IsActive:      true,
				SortOrder:     2,
			},
		},
		{
			category: "storage",
			product: models.Product{
				Slug:          "gable-bookcase",
				Name:          "Gable Bookcase",
				Description:   "Five-shelf bookcase in FSC-certified pine.",
				Price:         price("529.00"),
				Images:        models.StringArray{"/images/products/gable-bookcase.jpg"},
				StockQuantity: 20,
				InStock:       true,
				IsActive:      true,
				SortOrder:     1,
			},
			variants: []models.ProductVariant{
				{Name: "finish", Value: "whitewash", PriceModifier: models.ZeroMoney(), IsActive: true},
				{Name: "finish", Value: "ebonized", PriceModifier: price("45.00"), IsActive: true},
			},
		},
		{
			category: "beds",
			product: models.Product{
				Slug:          "marlow-king-frame",
				Name:          "Marlow King Bed Frame",
				Description:   "Low-profile platform frame with slatted base, no box spring needed.",
				Price:         price("1290.00"),
				Images:        models.StringArray{"/images/products/marlow-king.jpg"},
				StockQuantity: 7,
				InStock:       true,
				IsActive:      true,
				SortOrder:     1,
			},
		},
	}

	for _, sp := range products {
		var existing models.Product
		if err := models.DB.Where("slug = ?", sp.product.Slug).First(&existing).Error; err == nil {
			continue
		}
		p := sp.product
		p.CategoryID = idBySlug[sp.category]
		if err := models.DB.Create(&p).Error; err != nil {
			fatalf("Failed to seed product %s: %v", p.Slug, err)
		}
		for _, v := range sp.variants {
			v.ProductID = p.ID
			if err := models.DB.Create(&v).Error; err != nil {
				fatalf("Failed to seed variant %s/%s: %v", p.Slug, v.Value, err)
			}
		}
	}
}

func seedCoupons(fatalf func(string, ...interface{})) {
	now := time.Now()
	yearEnd := now.AddDate(1, 0, 0)
	coupons := []models.Coupon{
		{
			Code:        "WELCOME10",
			Type:        constants.CouponTypePercent,
			Value:       price("10"),
			MinSubtotal: price("200.00"),
			StartsAt:    &now,
			EndsAt:      &yearEnd,
			IsActive:    true,
		},
		{
			Code:        "FLAT50",
			Type:        constants.CouponTypeFixed,
			Value:       price("50.00"),
			MinSubtotal: price("500.00"),
			StartsAt:    &now,
			EndsAt:      &yearEnd,
			IsActive:    true,
		},
	}
	for _, c := range coupons {
		var existing models.Coupon
		if err := models.DB.Where("code = ?", c.Code).First(&existing).Error; err == nil {
			continue
		}
		if err := models.DB.Create(&c).Error; err != nil {
			fatalf("Failed to seed coupon %s: %v", c.Code, err)
		}
	}
}

func seedAdminRoles(fatalf func(string, ...interface{})) {
	svc, err := authz.NewService(models.DB)
	if err != nil {
		fatalf("Failed to init authz service: %v", err)
	}
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		fatalf("Failed to bootstrap builtin roles: %v", err)
	}
	// 演示用角色绑定：1 号管理员为全权运营，2 号为只读审计
	if err := svc.SetAdminRoles(1, []string{"operations"}); err != nil {
		fatalf("Failed to bind admin roles: %v", err)
	}
	if err := svc.SetAdminRoles(2, []string{"readonly_auditor"}); err != nil {
		fatalf("Failed to bind admin roles: %v", err)
	}
}
