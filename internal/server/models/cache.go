package models

import "time"

// CachedClass is one upcoming lesson in the schedule cache. StartsAt is the
// lesson start; a sentinel row with subject "---" marks the end of the day.
type CachedClass struct {
	ID        int64
	Subject   string
	Classroom string
	StartsAt  time.Time
}

// CachedMeal is the canteen meal cached for a single day.
type CachedMeal struct {
	ID    int64
	Day   time.Time
	Name  string
	Soup  string
}
