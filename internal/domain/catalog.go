package domain

type Tag struct {
	ID    int64  `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"size:150;not null;uniqueIndex"`
	Color string `json:"color" gorm:"size:8;not null;uniqueIndex"`
	Slug  string `json:"slug" gorm:"size:150;not null;uniqueIndex"`
}

func (Tag) TableName() string {
	return "tags"
}

type Ingredient struct {
	ID              int64  `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"size:150;not null;index"`
	MeasurementUnit string `json:"measurement_unit" gorm:"size:50;not null"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}
