package db

var schema = `
CREATE EXTENSION IF NOT EXISTS "uuid-ossp";

CREATE TABLE IF NOT EXISTS users (
	user_id BIGSERIAL PRIMARY KEY,
	username VARCHAR(255) NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS orders (
	order_id UUID PRIMARY KEY,
	user_id BIGINT NOT NULL,
	username VARCHAR(255) NOT NULL,
	total_price NUMERIC(12, 2) NOT NULL,
	order_date TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS order_lines (
	order_id UUID NOT NULL REFERENCES orders (order_id),
	product_id BIGINT NOT NULL,
	quantity INT NOT NULL,
	unit_price NUMERIC(12, 2) NOT NULL,
	discount NUMERIC(5, 4) NOT NULL,
	line_total NUMERIC(12, 2) NOT NULL,
	PRIMARY KEY (order_id, product_id)
);

CREATE TABLE IF NOT EXISTS events (
	event_id UUID PRIMARY KEY,
	published_at TIMESTAMPTZ NOT NULL,
	event_name VARCHAR(255) NOT NULL,
	event_payload JSONB NOT NULL
);
`
