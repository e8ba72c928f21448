package waitlist

import (
	"github.com/akeren/go-waitlist-api/internal/models"
	"github.com/akeren/go-waitlist-api/pkg/constants"
)

// CreateWaitlistEntryRequest is validated by validation.go after
// normalization, not by gin's binding tags.
type CreateWaitlistEntryRequest struct {
	Email        string `json:"email" validate:"required,email,max=255,not_disposable_email"`
	Phone        string `json:"phone" validate:"omitempty,phone_number"`
	CompanyName  string `json:"company_name" validate:"required,min=2,max=255,company_text"`
	CompanyNiche string `json:"company_niche" validate:"required,min=2,max=255,company_text"`
	CompanySize  string `json:"company_size" validate:"required,oneof=1-10 11-50 51-200 201-500 500+ 'No aplica'"`
}

type WaitlistEntryResponse struct {
	ID           uint64  `json:"id"`
	Email        string  `json:"email"`
	Phone        *string `json:"phone"`
	CompanyName  string  `json:"company_name"`
	CompanyNiche string  `json:"company_niche"`
	CompanySize  string  `json:"company_size"`
	CreatedAt    string  `json:"created_at"`
}

type CountResponse struct {
	TotalRegistrations int64  `json:"total_registrations"`
	Message            string `json:"message"`
}

type RecentEntriesResponse struct {
	Count   int                     `json:"count"`
	Entries []WaitlistEntryResponse `json:"entries"`
}

// ========================================
// Mappers
// ========================================

func ToWaitlistEntryModel(req *CreateWaitlistEntryRequest) *models.WaitlistEntry {
	if req == nil {
		return nil
	}

	var phone *string
	if req.Phone != "" {
		p := req.Phone
		phone = &p
	}

	return &models.WaitlistEntry{
		Email:        req.Email,
		Phone:        phone,
		CompanyName:  req.CompanyName,
		CompanyNiche: req.CompanyNiche,
		CompanySize:  req.CompanySize,
	}
}

func ToWaitlistEntryResponse(entry *models.WaitlistEntry) WaitlistEntryResponse {
	if entry == nil {
		return WaitlistEntryResponse{}
	}
	return WaitlistEntryResponse{
		ID:           entry.ID,
		Email:        entry.Email,
		Phone:        entry.Phone,
		CompanyName:  entry.CompanyName,
		CompanyNiche: entry.CompanyNiche,
		CompanySize:  entry.CompanySize,
		CreatedAt:    entry.CreatedAt.UTC().Format(constants.RFC3339DateTimeFormat),
	}
}

func ToWaitlistEntryResponses(entries []*models.WaitlistEntry) []WaitlistEntryResponse {
	out := make([]WaitlistEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, ToWaitlistEntryResponse(entry))
	}
	return out
}
