package domain

import "gorm.io/gorm"

type Article struct {
	gorm.Model
	Name        string  `gorm:"column:name;type:varchar(255);not null"`
	Description string  `gorm:"column:description;type:text"`
	Price       float64 `gorm:"column:price;type:decimal(12,2);not null"`
	Stock       int     `gorm:"column:stock;not null;default:0"`
	Category    string  `gorm:"column:category;type:varchar(100);index"`
}

func (Article) TableName() string { return "articles" }

type Characteristic struct {
	gorm.Model
	Name string `gorm:"column:name;type:varchar(100);not null"`
}

func (Characteristic) TableName() string { return "characteristics" }

// ArticleCharacteristic 一个商品上某个特征的取值，(article, characteristic) 唯一
type ArticleCharacteristic struct {
	ArticleID        uint   `gorm:"column:article_id;primaryKey" json:"article_id"`
	CharacteristicID uint   `gorm:"column:characteristic_id;primaryKey" json:"characteristic_id"`
	Value            string `gorm:"column:value;type:varchar(255);not null" json:"value"`
}

func (ArticleCharacteristic) TableName() string { return "article_characteristics" }

// ArticleCharacteristicView 带特征名称的取值视图
type ArticleCharacteristicView struct {
	ArticleID        uint   `json:"article_id"`
	CharacteristicID uint   `json:"characteristic_id"`
	Characteristic   string `json:"characteristic"`
	Value            string `json:"value"`
}

type ArticleImage struct {
	gorm.Model
	ArticleID   uint   `gorm:"column:article_id;index;not null"`
	Data        string `gorm:"column:data;type:longtext;not null"`
	Description string `gorm:"column:description;type:varchar(255)"`
	SortOrder   int    `gorm:"column:sort_order"`
}

func (ArticleImage) TableName() string { return "article_images" }

// SearchFilter 商品高级搜索条件，所有条件可选，AND 组合
type SearchFilter struct {
	Name     string
	Category string
	PriceMin *float64
	PriceMax *float64
}

// TopSoldArticle 按销量聚合的商品
type TopSoldArticle struct {
	ArticleID   uint    `json:"article_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	TotalSold   int64   `json:"total_sold"`
	Image       string  `json:"image,omitempty"`
}

// CategorySummary 类目列表与全局价格区间
type CategorySummary struct {
	Categories []string `json:"categories"`
	MinPrice   float64  `json:"min_price"`
	MaxPrice   float64  `json:"max_price"`
}
