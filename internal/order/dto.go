// AngelaMos | 2026
// dto.go

package order

type OrderItemRequest struct {
	BookID   string `json:"bookId"   validate:"required,uuid4"`
	Quantity int    `json:"quantity" validate:"required,gte=1,lte=100"`
}

type CreateOrderRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1,max=50,dive"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing shipped delivered cancelled"`
}

type ListOrdersParams struct {
	Page   int
	Limit  int
	Status string
	UserID string
}

func (p *ListOrdersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if !ValidStatus(p.Status) {
		p.Status = ""
	}
}
