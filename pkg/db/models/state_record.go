package models

import "time"

// StateRecord holds one serialized shopper collection (cart, wishlist or
// recently viewed) for a state scope.
type StateRecord struct {
	Scope     string    `gorm:"column:scope;type:varchar(128);primaryKey;default:''"`
	Key       string    `gorm:"column:key;type:varchar(128);primaryKey"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (StateRecord) TableName() string { return "storefront_state" }
