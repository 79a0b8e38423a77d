package model

import (
	"regexp"
	"strings"
	"time"
)

var addressPattern = regexp.MustCompile(`^0x[0-9a-f]{40}$`)

type Trader struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Address     string    `json:"address" gorm:"type:varchar(42);uniqueIndex;not null"`
	DisplayName string    `json:"displayName" gorm:"type:varchar(128)"`
	FirstSeen   time.Time `json:"firstSeen" gorm:"not null"`
	LastUpdated time.Time `json:"lastUpdated" gorm:"not null"`
	IsActive    bool      `json:"isActive" gorm:"not null;index"`
}

// NormalizeAddress lowercases and trims an account address. ok is false
// when the result is not a 0x-prefixed 20 byte hex string.
func NormalizeAddress(address string) (string, bool) {
	addr := strings.ToLower(strings.TrimSpace(address))
	return addr, addressPattern.MatchString(addr)
}
