package domain

var Tables = []interface{}{
	// Catalog
	&Product{},
	// Content settings
	&ContentField{},
	// System
	&AdminAuditLog{},
}
