package models

import "gorm.io/gorm"

// Company is the employer profile attached to a user with the company role.
// A company has at most one verification record (see Verification).
type Company struct {
	gorm.Model
	UserID      uint   `json:"userID" gorm:"uniqueIndex;not null"`
	User        User   `json:"user" gorm:"foreignKey:UserID;references:ID"`
	Name        string `json:"name" gorm:"size:200;not null;index"`
	Description string `json:"description" gorm:"type:text"`
	Website     string `json:"website" gorm:"size:512"`
	LogoURL     string `json:"logoURL" gorm:"size:512"`
	Industry    string `json:"industry" gorm:"size:100;index"`
	CompanySize string `json:"companySize" gorm:"size:50"` // e.g. 1-10, 11-50, 51-200
	Location    string `json:"location" gorm:"size:200;index"`

	Jobs         []Job         `json:"jobs,omitempty" gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
	Verification *Verification `json:"verification,omitempty" gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
}
