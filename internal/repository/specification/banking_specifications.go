package specification

import "gorm.io/gorm"

// ByCustomerID filters rows owned by a customer
type ByCustomerID struct {
	CustomerID string
}

func (s ByCustomerID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("customer_id = ?", s.CustomerID)
}

// ByReference matches the human-readable reference of an audit row
type ByReference struct {
	Reference string
}

func (s ByReference) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("reference = ?", s.Reference)
}
