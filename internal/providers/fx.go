package providers

import (
	"github.com/smallbiznis/quoteflow/internal/providers/archive"
	"github.com/smallbiznis/quoteflow/internal/providers/email"
	"github.com/smallbiznis/quoteflow/internal/providers/lead"
	"github.com/smallbiznis/quoteflow/internal/providers/pdf"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	archive.Module,
	email.Module,
	lead.Module,
	pdf.Module,
)
