// AngelaMos | 2026
// entity.go

package review

import (
	"time"
)

// Review carries two columns computed per read: the reviewer's display
// name joined from users, and Verified, an EXISTS over the reviewer's
// delivered orders. Verified is never stored, so a purchase delivered
// after the review was written still marks it.
type Review struct {
	ID        string    `db:"id"         json:"id"`
	BookID    string    `db:"book_id"    json:"bookId"`
	UserID    string    `db:"user_id"    json:"userId"`
	UserName  string    `db:"user_name"  json:"userName"`
	Rating    int       `db:"rating"     json:"rating"`
	Comment   *string   `db:"comment"    json:"comment,omitempty"`
	Verified  bool      `db:"verified"   json:"isVerifiedPurchase"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// RatingStats summarizes a book's reviews. Distribution always has
// exactly five buckets, zero-filled for absent ratings.
type RatingStats struct {
	Average      float64     `json:"averageRating"`
	Total        int         `json:"totalReviews"`
	Distribution map[int]int `json:"ratingDistribution"`
}

func NewRatingStats() *RatingStats {
	return &RatingStats{
		Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}
}
