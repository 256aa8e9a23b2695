// Package validation checks and sanitizes user supplied marketplace input.
package validation

import (
	"bytes"
	"encoding/json"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/aman-churiwal/property-marketplace/internal/models"
)

var (
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern   = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
	tagPattern     = regexp.MustCompile(`[<>]`)
	scriptPattern  = regexp.MustCompile(`(?i)javascript:`)
	handlerPattern = regexp.MustCompile(`(?i)on\w+=`)
)

func IsValidEmail(email string) bool {
	return len(email) <= 254 && emailPattern.MatchString(email)
}

func IsValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// SanitizeString trims s, caps it at maxLength runes and strips markup that could be
// rendered as script.
func SanitizeString(s string, maxLength int) string {
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > maxLength {
		s = string(r[:maxLength])
	}
	s = tagPattern.ReplaceAllString(s, "")
	s = scriptPattern.ReplaceAllString(s, "")
	return handlerPattern.ReplaceAllString(s, "")
}

func IsValidURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// PropertyInput is the body accepted when creating or updating a listing.
type PropertyInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	PropertyType string   `json:"propertyType"`
	Address      string   `json:"address"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	Country      string   `json:"country"`
	ZipCode      string   `json:"zipCode"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Price        float64  `json:"price"`
	Currency     string   `json:"currency"`
	PricePeriod  string   `json:"pricePeriod"`
	Images       []string `json:"images"`
	Amenities    []string `json:"amenities"`
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    int      `json:"bathrooms"`
	MaxGuests    int      `json:"maxGuests"`
	Featured     bool     `json:"featured"`
}

// Validate returns every problem with the input; an empty result means it is valid.
func (in *PropertyInput) Validate() []string {
	var problems []string

	required := []struct {
		name  string
		value string
	}{
		{"title", in.Title},
		{"description", in.Description},
		{"address", in.Address},
		{"city", in.City},
		{"country", in.Country},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			problems = append(problems, f.name+" is required")
		}
	}

	if !models.PropertyType(strings.ToUpper(in.PropertyType)).Valid() {
		problems = append(problems, "Invalid property type")
	}
	if in.Price <= 0 {
		problems = append(problems, "Price must be a positive number")
	}
	if in.Bedrooms < 0 || in.Bedrooms > 100 {
		problems = append(problems, "Bedrooms must be between 0 and 100")
	}
	if in.Bathrooms < 0 || in.Bathrooms > 100 {
		problems = append(problems, "Bathrooms must be between 0 and 100")
	}
	if in.MaxGuests < 1 || in.MaxGuests > 100 {
		problems = append(problems, "Max guests must be between 1 and 100")
	}
	if in.Latitude == nil || *in.Latitude < -90 || *in.Latitude > 90 {
		problems = append(problems, "Invalid latitude")
	}
	if in.Longitude == nil || *in.Longitude < -180 || *in.Longitude > 180 {
		problems = append(problems, "Invalid longitude")
	}

	if len(in.Images) == 0 {
		problems = append(problems, "At least one image is required")
	} else {
		for _, img := range in.Images {
			if !IsValidURL(img) {
				problems = append(problems, "Invalid image URL")
				break
			}
		}
	}

	return problems
}

// Apply copies the sanitized input onto p.
func (in *PropertyInput) Apply(p *models.Property) {
	p.Title = SanitizeString(in.Title, 200)
	p.Description = SanitizeString(in.Description, 5000)
	p.PropertyType = models.PropertyType(strings.ToUpper(in.PropertyType))
	p.Address = SanitizeString(in.Address, 300)
	p.City = SanitizeString(in.City, 100)
	p.State = SanitizeString(in.State, 100)
	p.Country = SanitizeString(in.Country, 100)
	p.ZipCode = SanitizeString(in.ZipCode, 20)
	if in.Latitude != nil {
		p.Latitude = *in.Latitude
	}
	if in.Longitude != nil {
		p.Longitude = *in.Longitude
	}
	p.Price = in.Price
	p.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if p.Currency == "" {
		p.Currency = "USD"
	}
	p.PricePeriod = in.PricePeriod
	p.Images = append([]string{}, in.Images...)
	p.Amenities = make([]string, 0, len(in.Amenities))
	for _, a := range in.Amenities {
		if a = SanitizeString(a, 100); a != "" {
			p.Amenities = append(p.Amenities, a)
		}
	}
	p.Bedrooms = in.Bedrooms
	p.Bathrooms = in.Bathrooms
	p.MaxGuests = in.MaxGuests
	p.Featured = in.Featured
}

// BookingInput is the body accepted when requesting a stay.
type BookingInput struct {
	PropertyID      string    `json:"propertyId"`
	CheckIn         time.Time `json:"checkIn"`
	CheckOut        time.Time `json:"checkOut"`
	Guests          int       `json:"guests"`
	SpecialRequests string    `json:"specialRequests"`
}

func (in *BookingInput) Validate(now time.Time) []string {
	var problems []string

	if strings.TrimSpace(in.PropertyID) == "" {
		problems = append(problems, "Property ID is required")
	}

	if in.CheckIn.IsZero() || in.CheckOut.IsZero() {
		problems = append(problems, "Check-in and check-out dates are required")
	} else {
		if in.CheckIn.Before(now) {
			problems = append(problems, "Check-in date must be in the future")
		}
		if !in.CheckOut.After(in.CheckIn) {
			problems = append(problems, "Check-out date must be after check-in date")
		}
	}

	if in.Guests < 1 || in.Guests > 100 {
		problems = append(problems, "Guests must be between 1 and 100")
	}

	return problems
}

// OnboardingInput is the host onboarding form.
type OnboardingInput struct {
	Phone          string `json:"phone" form:"phone"`
	Bio            string `json:"bio" form:"bio"`
	IDType         string `json:"idType" form:"idType"`
	IDNumber       string `json:"idNumber" form:"idNumber"`
	PaymentMethod  string `json:"paymentMethod" form:"paymentMethod"`
	AccountDetails Details `json:"accountDetails" form:"accountDetails"`
}

// Details is a free-form field that accepts either a string or any JSON value. Non-string
// JSON is kept in its compact encoded form.
type Details string

func (d *Details) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = Details(s)
		return nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	*d = Details(buf.String())
	return nil
}

// Normalize trims every field and sanitizes the free text ones.
func (in *OnboardingInput) Normalize() {
	in.Phone = SanitizeString(in.Phone, 20)
	in.Bio = SanitizeString(in.Bio, 500)
	in.IDType = strings.TrimSpace(in.IDType)
	in.IDNumber = strings.TrimSpace(in.IDNumber)
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)
	in.AccountDetails = Details(strings.TrimSpace(string(in.AccountDetails)))
}

func (in *OnboardingInput) Validate() []string {
	if in.Phone == "" || in.Bio == "" || in.IDType == "" || in.IDNumber == "" ||
		in.PaymentMethod == "" || in.AccountDetails == "" {
		return []string{"Missing required fields"}
	}
	if !IsValidPhone(in.Phone) {
		return []string{"Invalid phone number"}
	}
	return nil
}
