package domain

import "time"

// PageContent is the singleton content-settings record for the storefront
// sections. One explicit field per named setting so the reconciler's
// field-level merge is statically checkable.
type PageContent struct {
	HeroTitle       string `json:"heroTitle" mapstructure:"heroTitle"`
	HeroSubtitle    string `json:"heroSubtitle" mapstructure:"heroSubtitle"`
	HeroDescription string `json:"heroDescription" mapstructure:"heroDescription"`
	HeroBgUrl       string `json:"heroBgUrl" mapstructure:"heroBgUrl"`
	ProductsTitle   string `json:"productsTitle" mapstructure:"productsTitle"`
	CustomTitle     string `json:"customTitle" mapstructure:"customTitle"`
	CustomBgUrl     string `json:"customBgUrl" mapstructure:"customBgUrl"`
	AboutTitle      string `json:"aboutTitle" mapstructure:"aboutTitle"`
	AboutBgUrl      string `json:"aboutBgUrl" mapstructure:"aboutBgUrl"`
	ContactTitle    string `json:"contactTitle" mapstructure:"contactTitle"`
	ContactBgUrl    string `json:"contactBgUrl" mapstructure:"contactBgUrl"`
}

// FieldMap flattens the record into the remote store's field map form.
func (c PageContent) FieldMap() map[string]string {
	return map[string]string{
		"heroTitle":       c.HeroTitle,
		"heroSubtitle":    c.HeroSubtitle,
		"heroDescription": c.HeroDescription,
		"heroBgUrl":       c.HeroBgUrl,
		"productsTitle":   c.ProductsTitle,
		"customTitle":     c.CustomTitle,
		"customBgUrl":     c.CustomBgUrl,
		"aboutTitle":      c.AboutTitle,
		"aboutBgUrl":      c.AboutBgUrl,
		"contactTitle":    c.ContactTitle,
		"contactBgUrl":    c.ContactBgUrl,
	}
}

// ContentField is the remote storage row for one PageContent field.
type ContentField struct {
	Name      string    `gorm:"primaryKey;size:64" json:"name"`
	Value     string    `gorm:"size:2048" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (ContentField) TableName() string {
	return "cms_content"
}
