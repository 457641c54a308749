// AngelaMos | 2026
// dto.go

package book

const (
	SortRecent    = "recent"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortTitle     = "title"
	SortPopular   = "popular"

	defaultLimit = 12
	maxLimit     = 100
)

type ListBooksParams struct {
	Page     int
	Limit    int
	Search   string
	Category string
	MinPrice *float64
	MaxPrice *float64
	InStock  bool
	Sort     string
}

// Normalize clamps pagination and falls back to the default sort for
// unknown keys, so a bad query string degrades instead of erroring.
func (p *ListBooksParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}

	switch p.Sort {
	case SortRecent, SortPriceAsc, SortPriceDesc, SortTitle, SortPopular:
	default:
		p.Sort = SortRecent
	}
}

type CreateBookRequest struct {
	Title         string  `json:"title"         validate:"required,min=1,max=255"`
	Author        string  `json:"author"        validate:"required,min=1,max=255"`
	Description   string  `json:"description"   validate:"max=5000"`
	Price         float64 `json:"price"         validate:"gte=0"`
	Category      string  `json:"category"      validate:"required,min=1,max=100"`
	Stock         int     `json:"stock"         validate:"gte=0"`
	ImageURL      string  `json:"imageUrl"      validate:"omitempty,url"`
	ISBN          string  `json:"isbn"          validate:"omitempty,min=10,max=17"`
	PublishedYear int     `json:"publishedYear" validate:"omitempty,gte=1000,lte=2100"`
}

type UpdateBookRequest struct {
	Title         *string  `json:"title"         validate:"omitempty,min=1,max=255"`
	Author        *string  `json:"author"        validate:"omitempty,min=1,max=255"`
	Description   *string  `json:"description"   validate:"omitempty,max=5000"`
	Price         *float64 `json:"price"         validate:"omitempty,gte=0"`
	Category      *string  `json:"category"      validate:"omitempty,min=1,max=100"`
	Stock         *int     `json:"stock"         validate:"omitempty,gte=0"`
	ImageURL      *string  `json:"imageUrl"      validate:"omitempty,url"`
	ISBN          *string  `json:"isbn"          validate:"omitempty,min=10,max=17"`
	PublishedYear *int     `json:"publishedYear" validate:"omitempty,gte=1000,lte=2100"`
}
