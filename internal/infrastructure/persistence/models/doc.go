// Package models contains GORM-specific persistence models that map to
// database tables. They are kept separate from the domain entities so
// the domain layer stays free of ORM tags and table concerns.
//
// Each model carries a ToDomain conversion and a FromDomain populator;
// repositories never hand models across the persistence boundary.
package models
