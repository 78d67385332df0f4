package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sync"
)

const TemplateQuotationIssued = "quotation_issued"

//go:embed templates/*.html
var templateFS embed.FS

var (
	templatesOnce sync.Once
	templates     *template.Template
	templatesErr  error
)

func loadTemplates() (*template.Template, error) {
	templatesOnce.Do(func() {
		templates, templatesErr = template.ParseFS(templateFS, "templates/*.html")
	})
	return templates, templatesErr
}

// Render executes the named template and picks its subject. A "subject"
// entry in a map payload wins over the default.
func Render(templateName string, data any) (string, string, error) {
	tpl, err := loadTemplates()
	if err != nil {
		return "", "", fmt.Errorf("failed to parse templates: %w", err)
	}

	var body bytes.Buffer
	if err := tpl.ExecuteTemplate(&body, templateName+".html", data); err != nil {
		return "", "", fmt.Errorf("failed to execute template: %w", err)
	}

	return subjectFor(templateName, data), body.String(), nil
}

func subjectFor(templateName string, data any) string {
	if dataMap, ok := data.(map[string]any); ok {
		if subj, ok := dataMap["subject"].(string); ok && subj != "" {
			return subj
		}
	}
	switch templateName {
	case TemplateQuotationIssued:
		if q, ok := data.(QuotationEmail); ok && q.Number != "" {
			return fmt.Sprintf("Your quotation %s", q.Number)
		}
		return "Your quotation"
	default:
		return "Notification from Quoteflow"
	}
}

// QuotationEmail is the payload of the quotation_issued template.
type QuotationEmail struct {
	FirstName    string
	Number       string
	PlanName     string
	BillingCycle string
	TotalDue     string
	DueNow       string
	IssueDate    string
}
