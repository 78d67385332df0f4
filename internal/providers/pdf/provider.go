package pdf

import (
	"context"
	"io"

	quotationdomain "github.com/smallbiznis/quoteflow/internal/quotation/domain"
)

type Provider interface {
	GenerateQuotation(ctx context.Context, q quotationdomain.Quotation) (io.Reader, error)
}

type NoOpProvider struct{}

func (p *NoOpProvider) GenerateQuotation(ctx context.Context, q quotationdomain.Quotation) (io.Reader, error) {
	return nil, nil
}
