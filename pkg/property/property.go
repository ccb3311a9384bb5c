// Package property loads the rental's commercial profile: base price, fees,
// seasonal rates, plans and amenities.
package property

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"gite/pkg/model"
	"gite/pkg/plans"
	"gite/pkg/pricing"
)

const (
	DefaultIcon      = "check"
	DefaultMaxNights = 365
)

type Rate struct {
	Name       string  `yaml:"name" json:"name"`
	StartDate  string  `yaml:"start_date" json:"start_date"`
	EndDate    string  `yaml:"end_date" json:"end_date"`
	Multiplier float64 `yaml:"multiplier" json:"multiplier"`
}

type Amenity struct {
	Name string `yaml:"name" json:"name"`
	Icon string `yaml:"icon" json:"icon"`
}

type Profile struct {
	Name          string       `yaml:"name" json:"name"`
	Currency      string       `yaml:"currency" json:"currency"`
	MaxGuests     int          `yaml:"max_guests" json:"max_guests"`
	MaxNights     int          `yaml:"max_nights" json:"max_nights"`
	BasePrice     float64      `yaml:"base_price" json:"base_price"`
	CleaningFee   float64      `yaml:"cleaning_fee" json:"cleaning_fee"`
	ServiceFee    float64      `yaml:"service_fee" json:"service_fee"`
	SeasonalRates []Rate       `yaml:"seasonal_rates" json:"seasonal_rates"`
	Plans         []plans.Plan `yaml:"plans" json:"plans"`
	Amenities     []Amenity    `yaml:"amenities" json:"amenities"`
	Icons         IconTable    `yaml:"icons" json:"-"`
	rates         []pricing.SeasonalRate
}

// IconTable maps amenity names to icon identifiers.
type IconTable map[string]string

var defaultIcons = IconTable{
	"wifi":          "wifi",
	"parking":       "car",
	"piscine":       "waves",
	"jardin":        "trees",
	"cuisine":       "utensils",
	"cheminée":      "flame",
	"climatisation": "snowflake",
	"animaux":       "paw-print",
}

// Icon returns the icon for an amenity, DefaultIcon when unknown.
func (t IconTable) Icon(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if icon, ok := t[key]; ok && icon != "" {
		return icon
	}
	if icon, ok := defaultIcons[key]; ok {
		return icon
	}
	return DefaultIcon
}

// Default is used when no profile file is configured.
func Default() *Profile {
	p := &Profile{
		Name:        "Gîte",
		Currency:    "EUR",
		MaxGuests:   6,
		MaxNights:   DefaultMaxNights,
		BasePrice:   150,
		CleaningFee: 50,
		ServiceFee:  25,
		Plans:       plans.DefaultCatalogue,
	}
	if err := p.prepare(); err != nil {
		panic(err)
	}
	return p
}

// Load reads a YAML profile. An empty path returns Default.
func Load(path string) (*Profile, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read property profile: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Profile, error) {
	p := &Profile{}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse property profile: %w", err)
	}
	if p.Currency == "" {
		p.Currency = "EUR"
	}
	if len(p.Plans) == 0 {
		p.Plans = plans.DefaultCatalogue
	}
	if p.MaxNights == 0 {
		p.MaxNights = DefaultMaxNights
	}
	if err := p.prepare(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Profile) prepare() error {
	var errs []error
	if p.BasePrice <= 0 {
		errs = append(errs, fmt.Errorf("base_price must be positive, got %v", p.BasePrice))
	}
	if p.CleaningFee < 0 {
		errs = append(errs, fmt.Errorf("cleaning_fee cannot be negative, got %v", p.CleaningFee))
	}
	if p.ServiceFee < 0 {
		errs = append(errs, fmt.Errorf("service_fee cannot be negative, got %v", p.ServiceFee))
	}
	if p.MaxNights < 1 {
		errs = append(errs, fmt.Errorf("max_nights must be positive, got %v", p.MaxNights))
	}

	p.rates = p.rates[:0]
	for i, r := range p.SeasonalRates {
		start, err := model.ParseDate(r.StartDate)
		if err != nil {
			errs = append(errs, fmt.Errorf("seasonal_rates[%d].start_date: %w", i, err))
			continue
		}
		end, err := model.ParseDate(r.EndDate)
		if err != nil {
			errs = append(errs, fmt.Errorf("seasonal_rates[%d].end_date: %w", i, err))
			continue
		}
		if end.Before(start) {
			errs = append(errs, fmt.Errorf("seasonal_rates[%d]: end_date before start_date", i))
			continue
		}
		if r.Multiplier <= 0 {
			errs = append(errs, fmt.Errorf("seasonal_rates[%d].multiplier must be positive, got %v", i, r.Multiplier))
			continue
		}
		p.rates = append(p.rates, pricing.SeasonalRate{Name: r.Name, StartDate: start, EndDate: end, Multiplier: r.Multiplier})
	}

	for i := range p.Amenities {
		if p.Amenities[i].Icon == "" {
			p.Amenities[i].Icon = p.Icons.Icon(p.Amenities[i].Name)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid property profile: %w", errors.Join(errs...))
	}
	return nil
}

// Quote prices a stay with the profile's rates and fees.
func (p *Profile) Quote(checkIn, checkOut time.Time) (*pricing.Quote, error) {
	return pricing.ComputePrice(checkIn, checkOut, p.BasePrice, p.rates, p.CleaningFee, p.ServiceFee)
}

func (p *Profile) Catalogue() plans.Catalogue {
	return plans.Catalogue(p.Plans)
}
