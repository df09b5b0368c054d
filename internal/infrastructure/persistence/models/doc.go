// Package models holds the GORM row types and their conversions to and from domain aggregates.
// Domain types never carry gorm tags; every table has a model here with ToDomain and a
// ...FromDomain constructor.
package models
