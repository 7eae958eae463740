// Package models defines the GORM models of the inventory store.
package models
