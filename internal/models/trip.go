package models

import "time"

type Trip struct {
	Base
	UserID      string     `gorm:"index;not null"`
	User        User       `gorm:"foreignKey:UserID"`
	Name        string     `gorm:"not null"`
	StartDate   time.Time  `gorm:"not null"`
	EndDate     time.Time  `gorm:"not null"`
	Description *string    `gorm:"type:text"`
	IsPublic    bool       `gorm:"index;default:false"`
	Stops       []TripStop `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE"`
	Expenses    []Expense  `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE"`
}

// OwnedBy reports whether userID owns the trip. An empty id owns nothing.
func (t *Trip) OwnedBy(userID string) bool {
	return userID != "" && t.UserID == userID
}

// VisibleTo reports whether userID may read the trip.
func (t *Trip) VisibleTo(userID string) bool {
	return t.IsPublic || t.OwnedBy(userID)
}

// TripStop is a dated segment of a trip, either at a catalog city or at a
// free-text place.
type TripStop struct {
	Base
	TripID        string         `gorm:"index;not null"`
	CityID        *string        `gorm:"index"`
	City          *City          `gorm:"foreignKey:CityID"`
	StoppingPlace *string        `gorm:"type:text"`
	StartDate     time.Time      `gorm:"not null"`
	EndDate       time.Time      `gorm:"not null"`
	OrderIndex    int            `gorm:"not null;default:0"`
	Activities    []TripActivity `gorm:"foreignKey:StopID;constraint:OnDelete:CASCADE"`
}

// PlaceName is the city name when the stop has one, else the free-text place.
func (s *TripStop) PlaceName() string {
	if s.City != nil {
		return s.City.Name
	}
	if s.StoppingPlace != nil {
		return *s.StoppingPlace
	}
	return ""
}

type TripActivity struct {
	Base
	StopID        string    `gorm:"index;not null"`
	ActivityID    string    `gorm:"index;not null"`
	Activity      Activity  `gorm:"foreignKey:ActivityID"`
	ScheduledDate time.Time `gorm:"not null"`
	CustomCost    *float64
	Notes         *string
}

// Cost is the explicit custom cost, zero when unset. The catalog average is
// never substituted.
func (a *TripActivity) Cost() float64 {
	if a.CustomCost == nil {
		return 0
	}
	return *a.CustomCost
}

// Expense is a trip-level budget line not tied to a day.
type Expense struct {
	Base
	TripID        string  `gorm:"index;not null"`
	Category      string  `gorm:"not null"`
	EstimatedCost float64 `gorm:"not null"`
	Description   *string
}
