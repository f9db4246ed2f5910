package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS clients (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		mobile_number VARCHAR(10) NOT NULL,
		email VARCHAR(255),
		address TEXT
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_clients_mobile_number ON clients (mobile_number);`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'work_order_status') THEN
			CREATE TYPE work_order_status AS ENUM (
				'Order Placed',
				'Started',
				'Finished',
				'Delivered - Fully Paid',
				'Delivered - Payment Pending'
			);
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS work_orders (
		id BIGSERIAL PRIMARY KEY,
		client_id BIGINT NOT NULL REFERENCES clients(id),
		order_date TIMESTAMPTZ,
		expected_delivery_date TIMESTAMPTZ NOT NULL,
		status work_order_status NOT NULL DEFAULT 'Order Placed',
		description TEXT,
		advance_amount NUMERIC(12,2) CHECK (advance_amount >= 0),
		estimated_amount NUMERIC(12,2) CHECK (estimated_amount >= 0),
		actual_amount NUMERIC(12,2) CHECK (actual_amount >= 0),
		due_amount NUMERIC(12,2) CHECK (due_amount >= 0)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_work_orders_client_id ON work_orders (client_id);`,
	`CREATE INDEX IF NOT EXISTS idx_work_orders_expected_delivery_date ON work_orders (expected_delivery_date);`,
	`CREATE INDEX IF NOT EXISTS idx_work_orders_status ON work_orders (status);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
