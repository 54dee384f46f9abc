package models

// City and Activity are catalog entities: seeded once and read-only from
// the trip side.

type City struct {
	Base
	Name            string   `gorm:"index;not null" json:"name"`
	Country         string   `gorm:"index" json:"country"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	CostIndex       float64  `json:"cost_index"`
	PopularityScore int      `gorm:"index" json:"popularity_score"`
	Description     string   `json:"description,omitempty"`
}

type Activity struct {
	Base
	CityID      string  `gorm:"index;not null" json:"city_id"`
	City        City    `json:"-"`
	Name        string  `gorm:"not null" json:"name"`
	Category    string  `gorm:"index" json:"category"`
	AvgCost     float64 `json:"avg_cost"`
	Duration    int     `json:"duration"`
	Description string  `json:"description,omitempty"`
}
