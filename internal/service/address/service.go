package address

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/domain"
	customerrepo "storefront/internal/repository/customer"
)

// Input carries one submitted address namespace plus its contact fields.
type Input struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Line1     string `json:"line1"`
	Line2     string `json:"line2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Code      string `json:"code"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// Field describes one form field of a country-specialized address form.
type Field struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Value    string `json:"value"`
	Required bool   `json:"required"`
}

// Form is the address form descriptor for one namespace: its fields, the
// assignable countries and the currently selected one.
type Form struct {
	Kind      domain.AddressKind `json:"kind"`
	Fields    []Field            `json:"fields"`
	Countries []string           `json:"countries"`
	Country   string             `json:"country"`
	Errors    map[string]string  `json:"errors,omitempty"`
}

// Service captures invoice and shipping addresses for a customer.
type Service struct {
	customers customerrepo.Repository
}

func New(customers customerrepo.Repository) *Service {
	return &Service{customers: customers}
}

// ResolveCountry picks the effective delivery country for a namespace:
// submitted value, else the stored address country, else the shop default.
func ResolveCountry(shop *domain.Shop, c *domain.Customer, submitted string, kind domain.AddressKind) string {
	if submitted = strings.TrimSpace(submitted); submitted != "" {
		return submitted
	}
	if a := c.AddressFor(kind); a != nil && a.Postal != nil && a.Postal.Country != "" {
		return a.Postal.Country
	}
	return shop.DefaultCountry
}

// FormFor builds the address form descriptor for a namespace. Labels and
// requirements are localized per country when the shop enables it; disabled
// line fields are omitted without purging stored values.
func FormFor(shop *domain.Shop, c *domain.Customer, kind domain.AddressKind, country string) Form {
	form := Form{
		Kind:      kind,
		Countries: shop.CountriesFor(kind),
		Country:   country,
	}

	var stored Input
	if a := c.AddressFor(kind); a != nil {
		stored = Input{Firstname: a.Firstname, Lastname: a.Lastname, Phone: a.Phone, Email: a.Email}
		if a.Postal != nil {
			stored.Line1 = a.Postal.Line1
			stored.Line2 = a.Postal.Line2
			stored.City = a.Postal.City
			stored.State = a.Postal.State
			stored.Code = a.Postal.Code
		}
	}

	stateLabel, stateRequired := "State", false
	codeLabel := "Postal Code"
	if shop.AddressL10N {
		switch country {
		case "US":
			stateLabel, stateRequired, codeLabel = "State", true, "Zip Code"
		case "GB":
			stateLabel, codeLabel = "County", "Postcode"
		case "DE", "AT", "CH", "NL", "FR":
			stateLabel, codeLabel = "State", "Postal Code"
		case "IE":
			stateLabel, codeLabel = "County", "Eircode"
		}
	}

	form.Fields = append(form.Fields,
		Field{Name: "firstname", Label: "First name", Value: stored.Firstname, Required: true},
		Field{Name: "lastname", Label: "Last name", Value: stored.Lastname, Required: true},
	)
	if shop.Line1Visible {
		form.Fields = append(form.Fields, Field{Name: "line1", Label: "Address line 1", Value: stored.Line1, Required: true})
	}
	if shop.Line2Visible {
		form.Fields = append(form.Fields, Field{Name: "line2", Label: "Address line 2", Value: stored.Line2})
	}
	form.Fields = append(form.Fields,
		Field{Name: "city", Label: "City", Value: stored.City, Required: true},
		Field{Name: "state", Label: stateLabel, Value: stored.State, Required: stateRequired},
		Field{Name: "code", Label: codeLabel, Value: stored.Code, Required: true},
	)
	return form
}

// Validate checks a submitted namespace against the shop's form rules and the
// namespace country allow-list. Keys are prefixed with the namespace.
func Validate(shop *domain.Shop, kind domain.AddressKind, in Input) map[string]string {
	errs := map[string]string{}
	key := func(field string) string { return fmt.Sprintf("%s-%s", kind, field) }

	if strings.TrimSpace(in.Firstname) == "" {
		errs[key("firstname")] = "This field is required."
	}
	if strings.TrimSpace(in.Lastname) == "" {
		errs[key("lastname")] = "This field is required."
	}
	if shop.Line1Visible && strings.TrimSpace(in.Line1) == "" {
		errs[key("line1")] = "This field is required."
	}
	if strings.TrimSpace(in.City) == "" {
		errs[key("city")] = "This field is required."
	}
	if strings.TrimSpace(in.Code) == "" {
		errs[key("code")] = "This field is required."
	}
	if shop.AddressL10N && in.Country == "US" && strings.TrimSpace(in.State) == "" {
		errs[key("state")] = "This field is required."
	}

	country := strings.TrimSpace(in.Country)
	if country == "" {
		errs[key("country")] = "This field is required."
	} else if allowed := shop.CountriesFor(kind); len(allowed) > 0 {
		ok := false
		for _, c := range allowed {
			if c == country {
				ok = true
				break
			}
		}
		if !ok {
			errs[key("country")] = "This country is not available."
		}
	}
	return errs
}

// Persist stores one namespace on the customer: the postal row is fetched or
// created by content hash, the wrapper address is updated in place or created,
// and the namespace slot plus contact fields are set. Mutates the customer;
// the caller saves.
func (s *Service) Persist(ctx context.Context, c *domain.Customer, kind domain.AddressKind, in Input) error {
	postal, err := s.customers.GetOrCreatePostal(ctx, domain.PostalAddress{
		Line1:   strings.TrimSpace(in.Line1),
		Line2:   strings.TrimSpace(in.Line2),
		City:    strings.TrimSpace(in.City),
		State:   strings.TrimSpace(in.State),
		Code:    strings.TrimSpace(in.Code),
		Country: strings.TrimSpace(in.Country),
	})
	if err != nil {
		return fmt.Errorf("postal address: %w", err)
	}

	wrapper := domain.Address{
		CustomerID:      c.ID,
		PostalAddressID: postal.ID,
		Firstname:       strings.TrimSpace(in.Firstname),
		Lastname:        strings.TrimSpace(in.Lastname),
		Phone:           strings.TrimSpace(in.Phone),
		Email:           strings.TrimSpace(in.Email),
	}
	if existing := c.AddressFor(kind); existing != nil {
		wrapper.ID = existing.ID
	}
	saved, err := s.customers.SaveAddress(ctx, wrapper)
	if err != nil {
		return fmt.Errorf("save %s address: %w", kind, err)
	}
	saved.Postal = postal

	if kind == domain.AddressShipping {
		c.SelectedShippingAddressID = &saved.ID
		c.SelectedShippingAddress = saved
		c.SelectedShippingPhone = wrapper.Phone
		c.SelectedShippingEmail = wrapper.Email
	} else {
		c.SelectedInvoiceAddressID = &saved.ID
		c.SelectedInvoiceAddress = saved
		c.SelectedInvoicePhone = wrapper.Phone
		c.SelectedInvoiceEmail = wrapper.Email
	}
	return nil
}
