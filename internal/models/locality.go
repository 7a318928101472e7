// internal/models/locality.go
package models

type Locality struct {
	BaseModel
	Name string `json:"name" gorm:"size:100;not null"`
	Zone string `json:"zone" gorm:"size:50;not null;index"`
	Slug string `json:"slug" gorm:"uniqueIndex;size:100;not null"`
	// Cover image filename under the locality upload prefix.
	Image string `json:"image" gorm:"size:200"`

	// Relationships
	Properties []Property `json:"properties,omitempty" gorm:"foreignKey:LocalityID"`
}
