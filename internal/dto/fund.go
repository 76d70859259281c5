package dto

import "github.com/hoaops/hoa_ledger_app/internal/core/domain"

// CreateFundRequest creates a new fund (sub-ledger) for a tenant.
type CreateFundRequest struct {
	Name     string `json:"name" binding:"required"`
	FundType string `json:"fundType" binding:"required,oneof=OPERATING RESERVE SPECIAL_ASSESSMENT"`
}

// FundResponse is the API shape of a fund.
type FundResponse struct {
	FundID   string `json:"fundID"`
	Name     string `json:"name"`
	FundType string `json:"fundType"`
	IsActive bool   `json:"isActive"`
}

// ToFundResponse converts a domain fund to its API shape.
func ToFundResponse(f *domain.Fund) FundResponse {
	return FundResponse{
		FundID:   f.FundID,
		Name:     f.Name,
		FundType: string(f.FundType),
		IsActive: f.IsActive,
	}
}

// ToFundResponses converts a slice of domain funds.
func ToFundResponses(funds []domain.Fund) []FundResponse {
	responses := make([]FundResponse, len(funds))
	for i := range funds {
		responses[i] = ToFundResponse(&funds[i])
	}
	return responses
}
