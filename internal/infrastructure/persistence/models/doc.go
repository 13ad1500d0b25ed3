// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Structure:
//   - base.go: BaseModel shared by every table
//   - identity.go: users
//   - catalog.go: products
//   - cart.go: cart_items
//   - order.go: orders and order_items
//   - review.go: reviews
//   - favorite.go: favorites
package models
