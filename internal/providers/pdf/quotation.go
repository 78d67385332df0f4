package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gosimple/slug"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	catalogdomain "github.com/smallbiznis/quoteflow/internal/catalog/domain"
	quotationdomain "github.com/smallbiznis/quoteflow/internal/quotation/domain"
	"github.com/smallbiznis/quoteflow/internal/quotation/format"
)

// QuotationData is the quotation flattened into display strings.
type QuotationData struct {
	Number       string
	IssueDate    string
	BillingCycle string

	ContactName  string
	Company      string
	ContactEmail string
	ContactPhone string

	PlanName     string
	PlanFeatures []string
	Modules      string

	Items []QuotationItem

	MonthlyRecurring string
	OneTimeFees      string
	Subtotal         string
	Discount         string
	TotalDue         string
	DueNow           string
}

type QuotationItem struct {
	Description string
	Qty         int
	UnitPrice   string
	Amount      string
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

// FileName is the download name of a quotation document.
func FileName(q quotationdomain.Quotation) string {
	return slug.Make(strings.TrimSpace(q.ID+" "+q.Contact.Company)) + ".pdf"
}

// BuildQuotationData formats the frozen quotation for rendering.
func BuildQuotationData(q quotationdomain.Quotation) QuotationData {
	b := q.Breakdown
	data := QuotationData{
		Number:           q.ID,
		IssueDate:        q.IssuedAt.UTC().Format("2 January 2006"),
		BillingCycle:     cycleLabel(q.BillingCycle),
		ContactName:      q.Contact.FullName(),
		Company:          q.Contact.Company,
		ContactEmail:     q.Contact.Email,
		ContactPhone:     q.Contact.Phone,
		PlanName:         q.Plan.Name,
		PlanFeatures:     append([]string(nil), q.Plan.Features...),
		Modules:          strings.Join(q.Modules, ", "),
		MonthlyRecurring: format.FormatMoney(b.MonthlyRecurring, q.Currency),
		OneTimeFees:      format.FormatMoney(b.OneTimeFees, q.Currency),
		Subtotal:         format.FormatMoney(b.Subtotal, q.Currency),
		TotalDue:         format.FormatMoney(b.TotalDue, q.Currency),
	}
	if data.Modules == "" {
		data.Modules = "-"
	}
	if b.DiscountPercent > 0 {
		data.Discount = fmt.Sprintf("%s (%d%%) -%s", b.DiscountCode, b.DiscountPercent, format.FormatMoney(b.DiscountAmount, q.Currency))
	}
	if b.Proration != nil {
		data.DueNow = format.FormatMoney(b.Proration.DueNow, q.Currency)
	}

	for _, l := range b.Lines {
		desc := l.Name
		if l.Unit != "" {
			desc += " (" + l.Unit + ")"
		}
		if l.Periods > 1 {
			desc += fmt.Sprintf(" x %d months", l.Periods)
		}
		data.Items = append(data.Items, QuotationItem{
			Description: desc,
			Qty:         l.Quantity,
			UnitPrice:   format.FormatMoney(l.UnitPrice, q.Currency),
			Amount:      format.FormatMoney(l.Amount, q.Currency),
		})
	}
	return data
}

func cycleLabel(c catalogdomain.BillingCycle) string {
	if c == catalogdomain.BillingYearly {
		return "Yearly"
	}
	return "Monthly"
}

func (p *PDFProvider) GenerateQuotation(ctx context.Context, q quotationdomain.Quotation) (io.Reader, error) {
	quote := BuildQuotationData(q)

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(14,
		text.NewCol(8, "Quotation", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, quote.Number, props.Text{
			Size:  12,
			Style: fontstyle.Bold,
			Align: align.Right,
			Top:   4,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New("Date of issue: "+quote.IssueDate, props.Text{Top: 0}),
			text.New("Billing cycle: "+quote.BillingCycle, props.Text{Top: 4}),
			text.New("Plan: "+quote.PlanName, props.Text{Top: 8}),
		),
		col.New(6).Add(
			text.New("Prepared for", props.Text{Style: fontstyle.Bold}),
			text.New(quote.ContactName, props.Text{Top: 5}),
			text.New(quote.Company, props.Text{Top: 9}),
			text.New(quote.ContactEmail, props.Text{Top: 13}),
			text.New(quote.ContactPhone, props.Text{Top: 17}),
		),
	)

	m.AddRow(10,
		text.NewCol(12, "Modules: "+quote.Modules, props.Text{Size: 9, Top: 3}),
	)

	m.AddRow(10,
		text.NewCol(6, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Unit price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	m.AddRow(2, line.NewCol(12))

	for _, item := range quote.Items {
		m.AddRow(8,
			text.NewCol(6, item.Description, props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%d", item.Qty), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.UnitPrice, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(2, line.NewCol(12))
	totalRow := func(label, value string, bold bool) {
		style := fontstyle.Normal
		if bold {
			style = fontstyle.Bold
		}
		m.AddRow(8,
			col.New(6),
			text.NewCol(3, label, props.Text{Size: 9, Style: style}),
			text.NewCol(3, value, props.Text{Size: 9, Style: style, Align: align.Right}),
		)
	}
	totalRow("Monthly recurring", quote.MonthlyRecurring, false)
	totalRow("One-time fees", quote.OneTimeFees, false)
	totalRow("Subtotal", quote.Subtotal, false)
	if quote.Discount != "" {
		totalRow("Discount", quote.Discount, false)
	}
	totalRow("Total due", quote.TotalDue, true)
	if quote.DueNow != "" {
		totalRow("Due for first period", quote.DueNow, false)
	}

	if len(quote.PlanFeatures) > 0 {
		m.AddRow(10,
			text.NewCol(12, quote.PlanName+" includes", props.Text{Style: fontstyle.Bold, Size: 10, Top: 4}),
		)
		for _, feature := range quote.PlanFeatures {
			m.AddRow(5, text.NewCol(12, "- "+feature, props.Text{Size: 9}))
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
