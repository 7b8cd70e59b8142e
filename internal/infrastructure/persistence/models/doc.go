// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities carry no table mappings
// 2. Persistence models contain all GORM annotations
// 3. ToDomain / FromDomain convert between the two
// 4. Repositories read and write persistence models only
//
// Structure:
// - base.go: BaseModel, AggregateModel, OwnedAggregateModel
// - identity.go: users
// - contractor.go: contractor profiles
// - project.go: projects, workflow screens, line items, photos
// - billing.go: subscriptions
package models
