package models

import "time"

type MenuCategory struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	SortOrder int        `json:"sortOrder"`
	Items     []MenuItem `json:"items,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type MenuItem struct {
	ID          int64     `json:"id"`
	CategoryID  int64     `json:"categoryId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"imageUrl,omitempty"` // "/uploads/menu/xxx.jpg"
	Available   bool      `json:"available"`
	SortOrder   int       `json:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
