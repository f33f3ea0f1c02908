package app

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied at startup. Every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		username      VARCHAR(150) NOT NULL UNIQUE,
		email         VARCHAR(254) NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		role          VARCHAR(10) NOT NULL DEFAULT 'buyer',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id          BIGSERIAL PRIMARY KEY,
		name        VARCHAR(100) NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id          BIGSERIAL PRIMARY KEY,
		category_id BIGINT REFERENCES categories(id) ON DELETE SET NULL,
		name        VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price       NUMERIC(12,2) NOT NULL CHECK (price >= 0),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`ALTER TABLE products ADD COLUMN IF NOT EXISTS category_id BIGINT REFERENCES categories(id) ON DELETE SET NULL`,
	`CREATE TABLE IF NOT EXISTS states (
		id         BIGSERIAL PRIMARY KEY,
		name       VARCHAR(100) NOT NULL UNIQUE,
		code       VARCHAR(10) UNIQUE,
		is_active  BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS locations (
		id           BIGSERIAL PRIMARY KEY,
		state_id     BIGINT NOT NULL REFERENCES states(id) ON DELETE CASCADE,
		name         VARCHAR(200) NOT NULL,
		delivery_fee NUMERIC(10,2) NOT NULL DEFAULT 0 CHECK (delivery_fee >= 0),
		is_active    BOOLEAN NOT NULL DEFAULT TRUE,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (state_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id               BIGSERIAL PRIMARY KEY,
		order_ref        VARCHAR(20) NOT NULL UNIQUE,
		buyer_id         BIGINT NOT NULL REFERENCES users(id),
		status           VARCHAR(20) NOT NULL DEFAULT 'pending',
		total_amount     NUMERIC(12,2) NOT NULL DEFAULT 0,
		shipping_address TEXT NOT NULL DEFAULT '',
		notes            TEXT NOT NULL DEFAULT '',
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`ALTER TABLE orders ADD COLUMN IF NOT EXISTS delivery_location_id BIGINT REFERENCES locations(id) ON DELETE RESTRICT`,
	`ALTER TABLE orders ADD COLUMN IF NOT EXISTS delivery_fee NUMERIC(10,2) NOT NULL DEFAULT 0`,
	`CREATE INDEX IF NOT EXISTS idx_orders_buyer_id ON orders (buyer_id)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id         BIGSERIAL PRIMARY KEY,
		order_id   BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id BIGINT NOT NULL REFERENCES products(id),
		quantity   INTEGER NOT NULL CHECK (quantity > 0),
		price      NUMERIC(12,2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id             BIGSERIAL PRIMARY KEY,
		order_id       BIGINT NOT NULL REFERENCES orders(id),
		user_id        BIGINT NOT NULL REFERENCES users(id),
		amount         NUMERIC(12,2) NOT NULL,
		currency       CHAR(3) NOT NULL DEFAULT 'NGN',
		status         VARCHAR(20) NOT NULL DEFAULT 'pending',
		payment_method VARCHAR(50) NOT NULL DEFAULT '',
		tx_ref         VARCHAR(100) NOT NULL UNIQUE,
		flw_ref        VARCHAR(100) UNIQUE,
		transaction_id VARCHAR(100) UNIQUE,
		customer_email VARCHAR(254) NOT NULL,
		customer_name  VARCHAR(255) NOT NULL,
		customer_phone VARCHAR(20) NOT NULL DEFAULT '',
		metadata       JSONB NOT NULL DEFAULT '{}',
		failure_reason TEXT NOT NULL DEFAULT '',
		webhook_data   JSONB NOT NULL DEFAULT '{}',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		paid_at        TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_user_id ON payments (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_order_id ON payments (order_id)`,
}

// Migrate creates the tables the service needs if they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i+1, err)
		}
	}
	return nil
}
