// Package models defines domain entities and persistence interfaces for the zshare bulk distribution service.
//
// Persistent entities are database-backed models with full lifecycle management:
//   - [Campaign] : A single bulk share run against one Zight asset
//   - [ShareRecord] : The outcome of sharing with one recipient within a campaign
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
