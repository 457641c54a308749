// AngelaMos | 2026
// dto.go

package review

const (
	SortRecent  = "recent"
	SortOldest  = "oldest"
	SortHighest = "highest"
	SortLowest  = "lowest"

	defaultLimit = 10
	maxLimit     = 100

	minCommentLen = 10
	maxCommentLen = 2000
)

type ListReviewsParams struct {
	BookID string
	Page   int
	Limit  int
	Rating *int
	Sort   string
}

func (p *ListReviewsParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}

	if p.Rating != nil && (*p.Rating < 1 || *p.Rating > 5) {
		p.Rating = nil
	}

	switch p.Sort {
	case SortRecent, SortOldest, SortHighest, SortLowest:
	default:
		p.Sort = SortRecent
	}
}

type CreateReviewRequest struct {
	BookID  string `json:"bookId"  validate:"required,uuid4"`
	Rating  int    `json:"rating"  validate:"required,gte=1,lte=5"`
	Comment string `json:"comment"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"  validate:"omitempty,gte=1,lte=5"`
	Comment *string `json:"comment"`
}
