package api

import (
	"bytes"

	"github.com/danielgtaylor/huma/v2"

	"github.com/receitaapp/receita-server/internal/domain"
)

// PriceInput accepts a price as a JSON number or a decimal string. Parsing
// waits until the handler so a bad price is reported against the field.
type PriceInput struct {
	raw []byte
}

// UnmarshalJSON keeps the raw value.
func (p *PriceInput) UnmarshalJSON(data []byte) error {
	p.raw = bytes.Clone(data)
	return nil
}

// Schema implements huma.SchemaProvider.
func (PriceInput) Schema(_ huma.Registry) *huma.Schema {
	return &huma.Schema{
		Description: `Decimal amount with at most two decimal places, 0 to 999.99, e.g. "5.50"`,
		OneOf: []*huma.Schema{
			{Type: huma.TypeString},
			{Type: huma.TypeNumber},
		},
	}
}

// parsePrice converts an optional input price. Absent stays nil; a value that
// does not parse comes back as a field message.
func parsePrice(in *PriceInput) (*domain.Price, string) {
	if in == nil {
		return nil, ""
	}
	var p domain.Price
	if err := p.UnmarshalJSON(in.raw); err != nil {
		return nil, err.Error()
	}
	return &p, ""
}
