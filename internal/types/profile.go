package types

import (
	"time"

	"github.com/google/uuid"
)

// Profile is a member's profile row. Nullable columns use pointers.
type Profile struct {
	ID                    uuid.UUID  `json:"id"`
	Username              *string    `json:"username,omitempty"`
	FullName              *string    `json:"full_name,omitempty"`
	Email                 *string    `json:"email,omitempty"`
	Phone                 *string    `json:"phone,omitempty"`
	BirthDate             *time.Time `json:"birth_date,omitempty"`
	Address               *string    `json:"address,omitempty"`
	City                  *string    `json:"city,omitempty"`
	State                 *string    `json:"state,omitempty"`
	PostalCode            *string    `json:"postal_code,omitempty"`
	Bio                   *string    `json:"bio,omitempty"`
	Website               *string    `json:"website,omitempty"`
	Status                *string    `json:"status,omitempty"`
	AvatarURL             *string    `json:"avatar_url,omitempty"`
	CoverURL              *string    `json:"cover_url,omitempty"`
	UpdatedPersonalInfoAt *time.Time `json:"updated_personal_info_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// PublicProfile is the projection a visitor sees: contact and address
// fields are withheld.
type PublicProfile struct {
	ID        uuid.UUID `json:"id"`
	Username  *string   `json:"username,omitempty"`
	FullName  *string   `json:"full_name,omitempty"`
	City      *string   `json:"city,omitempty"`
	State     *string   `json:"state,omitempty"`
	Bio       *string   `json:"bio,omitempty"`
	Website   *string   `json:"website,omitempty"`
	Status    *string   `json:"status,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	CoverURL  *string   `json:"cover_url,omitempty"`
}

// Public returns the visitor-visible projection of a profile.
func (p *Profile) Public() PublicProfile {
	return PublicProfile{
		ID:        p.ID,
		Username:  p.Username,
		FullName:  p.FullName,
		City:      p.City,
		State:     p.State,
		Bio:       p.Bio,
		Website:   p.Website,
		Status:    p.Status,
		AvatarURL: p.AvatarURL,
		CoverURL:  p.CoverURL,
	}
}

// UpdateProfileParams carries the full edited field set of the profile
// dialog. Every field is written on update; empty strings clear a column.
type UpdateProfileParams struct {
	Username   string     `json:"username"`
	FullName   string     `json:"full_name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	BirthDate  *time.Time `json:"birth_date,omitempty"`
	Address    string     `json:"address"`
	City       string     `json:"city"`
	State      string     `json:"state"`
	PostalCode string     `json:"postal_code"`
	Bio        string     `json:"bio"`
	Website    string     `json:"website"`
	Status     string     `json:"status"`
	AvatarURL  string     `json:"avatar_url"`
	CoverURL   string     `json:"cover_url"`
}
