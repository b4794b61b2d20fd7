package migrate

import (
	"context"

	"checkout-service/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MigrateOptions struct {
	CreateExtensions bool // pgcrypto
	CreateChecks     bool // CHECK-constraint для целостности
	CreateIndexes    bool // индексы и UNIQUE
	CreateFKsViaSQL  bool // FK через SQL (поверх GORM-constraint)
}

func DefaultMigrateOptions() MigrateOptions {
	return MigrateOptions{
		CreateExtensions: true,
		CreateChecks:     true,
		CreateIndexes:    true,
		CreateFKsViaSQL:  true,
	}
}

func MigrateCheckoutDB(ctx context.Context, db *gorm.DB, log *zap.Logger, opt MigrateOptions) error {
	log.Info("Начало миграции базы данных checkout")

	if opt.CreateExtensions {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
			log.Error("Не удалось включить расширение pgcrypto", zap.Error(err))
			return err
		}
	}

	log.Info("Создание таблиц")
	if err := db.AutoMigrate(
		&models.ShippingConfig{},
		&models.ShippingOption{},
		&models.Article{},
		&models.Address{},
		&models.CartNode{},
		&models.CartLeaf{},
		&models.Order{},
	); err != nil {
		log.Error("Не удалось создать таблицы", zap.Error(err))
		return err
	}

	if opt.CreateChecks {
		if err := db.Exec(`
ALTER TABLE cart_nodes
  DROP CONSTRAINT IF EXISTS chk_cart_nodes_type_allowed;
ALTER TABLE cart_nodes
  ADD CONSTRAINT chk_cart_nodes_type_allowed
  CHECK (cart_type IN ('wishlist','basket'));
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для cart_nodes.cart_type", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE addresses
  DROP CONSTRAINT IF EXISTS chk_addresses_type_allowed;
ALTER TABLE addresses
  ADD CONSTRAINT chk_addresses_type_allowed
  CHECK (address_type IN ('billing','shipping'));
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для addresses.address_type", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE cart_leaves
  DROP CONSTRAINT IF EXISTS chk_cart_leaves_quantity_gt_zero;
ALTER TABLE cart_leaves
  ADD CONSTRAINT chk_cart_leaves_quantity_gt_zero
  CHECK (quantity > 0);
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для cart_leaves.quantity", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS chk_orders_total_non_negative;
ALTER TABLE orders
  ADD CONSTRAINT chk_orders_total_non_negative
  CHECK (total_cents >= 0);
`).Error; err != nil {
			log.Error("Не удалось создать CHECK для orders.total_cents", zap.Error(err))
			return err
		}
	}

	if opt.CreateIndexes {
		// Обход дерева: дети по родителю
		if err := db.Exec(`
CREATE INDEX IF NOT EXISTS ix_cart_nodes_parent
ON cart_nodes (parent_id, created_at ASC);
`).Error; err != nil {
			log.Error("Не удалось создать индекс ix_cart_nodes_parent", zap.Error(err))
			return err
		}

		if err := db.Exec(`
CREATE INDEX IF NOT EXISTS ix_cart_leaves_node
ON cart_leaves (node_id, created_at ASC);
`).Error; err != nil {
			log.Error("Не удалось создать индекс ix_cart_leaves_node", zap.Error(err))
			return err
		}

		// order_uid уникален: одновременное назначение в одном тик-окне
		// провалит второй INSERT/UPDATE вместо тихого дубликата
		if err := db.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS ux_orders_order_uid
ON orders (order_uid) WHERE order_uid IS NOT NULL;
`).Error; err != nil {
			log.Error("Не удалось создать уникальный индекс ux_orders_order_uid", zap.Error(err))
			return err
		}
	}

	if opt.CreateFKsViaSQL {
		if err := db.Exec(`
ALTER TABLE shipping_options
  DROP CONSTRAINT IF EXISTS fk_shipping_options_config,
  ADD CONSTRAINT fk_shipping_options_config
    FOREIGN KEY (config_id) REFERENCES shipping_configs(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("Не удалось создать FK shipping_options.config_id", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE cart_leaves
  DROP CONSTRAINT IF EXISTS fk_cart_leaves_node,
  ADD CONSTRAINT fk_cart_leaves_node
    FOREIGN KEY (node_id) REFERENCES cart_nodes(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("Не удалось создать FK cart_leaves.node_id", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE cart_nodes
  DROP CONSTRAINT IF EXISTS fk_cart_nodes_parent,
  ADD CONSTRAINT fk_cart_nodes_parent
    FOREIGN KEY (parent_id) REFERENCES cart_nodes(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("Не удалось создать FK cart_nodes.parent_id", zap.Error(err))
			return err
		}
	}

	log.Info("Миграция базы данных checkout успешно завершена")
	return nil
}
