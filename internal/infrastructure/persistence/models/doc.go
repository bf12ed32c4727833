// Package models contains the GORM persistence models and their
// conversions to and from the domain entities. Domain aggregates never
// carry GORM tags; the mapping lives here.
package models
