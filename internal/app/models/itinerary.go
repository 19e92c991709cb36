package models

import (
	"time"

	"github.com/google/uuid"
)

// Location is a point on the map attached to an activity.
type Location struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Name string  `json:"name"`
}

// Activity is a single entry in a day's plan. Time is a free-form label
// ("09:00 AM"); the model is not held to a machine-parseable format.
type Activity struct {
	Time        string   `json:"time"`
	Activity    string   `json:"activity"`
	Description string   `json:"description"`
	Location    Location `json:"location"`
}

// Day groups the activities for one calendar day of the trip.
type Day struct {
	Day        int        `json:"day"`
	Date       string     `json:"date"`
	Activities []Activity `json:"activities"`
}

// GeneratedPlan is the structured output of the plan generator. It is stored
// as an opaque blob inside its parent itinerary and never regenerated in place.
type GeneratedPlan struct {
	Title string `json:"title"`
	Days  []Day  `json:"days"`
}

// Itinerary is a stored trip record owned by exactly one user.
type Itinerary struct {
	ID            uuid.UUID      `json:"id"`
	UserID        uuid.UUID      `json:"userId"`
	Destination   string         `json:"destination"`
	StartDate     time.Time      `json:"startDate"`
	EndDate       time.Time      `json:"endDate"`
	Preferences   string         `json:"preferences,omitempty"`
	GeneratedPlan *GeneratedPlan `json:"generatedPlan,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}
