package catalog

import (
	"reflect"
	"strconv"
	"strings"

	pkgerrors "github.com/fusionwear/storefront/pkg/errors"
	"github.com/go-playground/validator/v10"
)

const (
	// LowStockLabel is shown on product cards flagged by LowStock.
	LowStockLabel = "Only 4 left!!"

	previewSize   = "400x500"
	quickViewSize = "800x1000"
)

// Attributes holds the categorical values products are filtered on. The
// catalog file nests them under "categoryId".
type Attributes struct {
	Material   string `json:"material,omitempty"`
	PriceRange string `json:"priceRange,omitempty"`
	Features   string `json:"features,omitempty"`
}

// Product is a single catalog record. Prices stay in display form.
type Product struct {
	ID            string      `json:"id" validate:"required"`
	Name          string      `json:"name" validate:"required"`
	Price         string      `json:"price" validate:"required"`
	OriginalPrice string      `json:"originalPrice,omitempty"`
	ImageURL      string      `json:"imageUrl" validate:"required"`
	Category      string      `json:"category,omitempty"`
	Description   string      `json:"description,omitempty"`
	Collection    string      `json:"collection,omitempty"`
	Attributes    *Attributes `json:"categoryId,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// Validate rejects records missing id, name, price or imageUrl.
func (p Product) Validate() error {
	if err := validate.Struct(p); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			details := map[string]string{}
			for _, fieldErr := range errs {
				details[fieldErr.Field()] = "is required"
			}
			return pkgerrors.New(pkgerrors.CodeValidation, "product record is incomplete").WithDetails(details)
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "product record is incomplete")
	}
	return nil
}

func (p Product) Material() string {
	if p.Attributes == nil {
		return ""
	}
	return p.Attributes.Material
}

func (p Product) PriceRange() string {
	if p.Attributes == nil {
		return ""
	}
	return p.Attributes.PriceRange
}

func (p Product) Features() string {
	if p.Attributes == nil {
		return ""
	}
	return p.Attributes.Features
}

// LowStock flags products whose id digits form an odd number. Ids without
// digits are flagged too.
func (p Product) LowStock() bool {
	var digits strings.Builder
	for _, r := range p.ID {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	s := digits.String()
	if s == "" {
		return true
	}
	last, _ := strconv.Atoi(s[len(s)-1:])
	return last%2 != 0
}

// QuickViewImageURL swaps the card-sized image for the large variant.
func (p Product) QuickViewImageURL() string {
	return strings.Replace(p.ImageURL, previewSize, quickViewSize, 1)
}

// PromptLine renders the product as one line of assistant context.
func (p Product) PromptLine() string {
	return "- " + p.Name + " (" + p.Collection + "): " + p.Price + ", " + p.Category + ". " + p.Description
}
