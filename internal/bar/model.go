package bar

import (
	"time"

	"github.com/lib/pq"
)

type Bar struct {
	ID           int            `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	Address      string         `db:"address" json:"address"`
	Description  *string        `db:"description" json:"description"`
	ImageURL     *string        `db:"image_url" json:"image_url"`
	Phone        *string        `db:"phone" json:"phone"`
	OpeningTime  *string        `db:"opening_time" json:"opening_time"`
	ClosingTime  *string        `db:"closing_time" json:"closing_time"`
	MinPrice     *int           `db:"min_price" json:"min_price"`
	MaxPrice     *int           `db:"max_price" json:"max_price"`
	Latitude     *float64       `db:"latitude" json:"latitude"`
	Longitude    *float64       `db:"longitude" json:"longitude"`
	MusicGenres  pq.StringArray `db:"music_genres" json:"music_genres" swaggertype:"array,string"`
	Rating       float64        `db:"rating" json:"rating"`
	TotalReviews int            `db:"total_reviews" json:"total_reviews"`
	IsActive     bool           `db:"is_active" json:"is_active"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}

type CreateBarRequest struct {
	Name         string   `json:"name" binding:"required,max=120"`
	Address      string   `json:"address" binding:"required,max=255"`
	Description  *string  `json:"description"`
	ImageURL     *string  `json:"image_url" binding:"omitempty,url"`
	Phone        *string  `json:"phone" binding:"omitempty,max=20"`
	OpeningTime  *string  `json:"opening_time" binding:"omitempty,max=10"`
	ClosingTime  *string  `json:"closing_time" binding:"omitempty,max=10"`
	MinPrice     *int     `json:"min_price" binding:"omitempty,gte=0"`
	MaxPrice     *int     `json:"max_price" binding:"omitempty,gte=0"`
	Latitude     *float64 `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude    *float64 `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	MusicGenres  []string `json:"music_genres"`
	Rating       float64  `json:"rating" binding:"gte=0,lte=5"`
	TotalReviews int      `json:"total_reviews" binding:"gte=0"`
}

// UpdateBarRequest carries a partial update; nil fields are left untouched.
type UpdateBarRequest struct {
	Name         *string   `json:"name" binding:"omitempty,min=1,max=120"`
	Address      *string   `json:"address" binding:"omitempty,min=1,max=255"`
	Description  *string   `json:"description"`
	ImageURL     *string   `json:"image_url" binding:"omitempty,url"`
	Phone        *string   `json:"phone" binding:"omitempty,max=20"`
	OpeningTime  *string   `json:"opening_time" binding:"omitempty,max=10"`
	ClosingTime  *string   `json:"closing_time" binding:"omitempty,max=10"`
	MinPrice     *int      `json:"min_price" binding:"omitempty,gte=0"`
	MaxPrice     *int      `json:"max_price" binding:"omitempty,gte=0"`
	Latitude     *float64  `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude    *float64  `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	MusicGenres  *[]string `json:"music_genres"`
	Rating       *float64  `json:"rating" binding:"omitempty,gte=0,lte=5"`
	TotalReviews *int      `json:"total_reviews" binding:"omitempty,gte=0"`
	IsActive     *bool     `json:"is_active"`
}
