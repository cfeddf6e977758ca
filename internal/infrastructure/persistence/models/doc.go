// Package models contains the GORM persistence models for the shop's two
// collections. Domain entities carry no ORM tags; mappers here convert
// between them. Nested values (custom measurements, order lines) are stored
// as JSON text so the same schema works on SQLite and PostgreSQL.
package models
