package repository

import "gorm.io/gorm"

type Repository struct {
	DB              *gorm.DB
	CartNodes       CartNodeRepo
	CartLeaves      CartLeafRepo
	Articles        ArticleRepo
	ShippingConfigs ShippingConfigRepo
	Addresses       AddressRepo
	Orders          OrderRepo
}

func buildRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:              db,
		CartNodes:       NewCartNodeRepo(db),
		CartLeaves:      NewCartLeafRepo(db),
		Articles:        NewArticleRepo(db),
		ShippingConfigs: NewShippingConfigRepo(db),
		Addresses:       NewAddressRepo(db),
		Orders:          NewOrderRepo(db),
	}
}

func New(db *gorm.DB) *Repository { return buildRepository(db) }
