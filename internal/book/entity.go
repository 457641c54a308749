// AngelaMos | 2026
// entity.go

package book

import (
	"time"
)

// Book rows carry two computed columns, average_rating and
// review_count, populated by the aggregation join in the repository.
// They are never written directly.
type Book struct {
	ID            string    `db:"id"             json:"id"`
	Title         string    `db:"title"          json:"title"`
	Author        string    `db:"author"         json:"author"`
	Description   string    `db:"description"    json:"description"`
	Price         float64   `db:"price"          json:"price"`
	Category      string    `db:"category"       json:"category"`
	Stock         int       `db:"stock"          json:"stock"`
	ImageURL      string    `db:"image_url"      json:"imageUrl"`
	ISBN          string    `db:"isbn"           json:"isbn"`
	PublishedYear int       `db:"published_year" json:"publishedYear"`
	AverageRating float64   `db:"average_rating" json:"averageRating"`
	ReviewCount   int       `db:"review_count"   json:"reviewCount"`
	CreatedAt     time.Time `db:"created_at"     json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at"     json:"updatedAt"`
}

func (b *Book) InStock() bool {
	return b.Stock > 0
}
