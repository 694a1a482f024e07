package dto

type UpsertCustomerRequest struct {
	Cedula  string `json:"cedula"  validate:"required"`
	Name    string `json:"name"    validate:"required"`
	Phone   int64  `json:"phone"   validate:"required"`
	Address string `json:"address" validate:"required"`
}

type CustomerResponse struct {
	ID        string `json:"id"`
	Cedula    string `json:"cedula"`
	Name      string `json:"name"`
	Phone     int64  `json:"phone"`
	Address   string `json:"address"`
	CreatedAt string `json:"createdAt"`
}

type CustomerListResponse struct {
	Data []CustomerResponse `json:"data"`
}
