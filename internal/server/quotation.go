package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/smallbiznis/quoteflow/internal/catalog/domain"
	"github.com/smallbiznis/quoteflow/internal/observability/logger"
	"github.com/smallbiznis/quoteflow/internal/providers/email"
	"github.com/smallbiznis/quoteflow/internal/providers/pdf"
	quotationdomain "github.com/smallbiznis/quoteflow/internal/quotation/domain"
	"github.com/smallbiznis/quoteflow/internal/quotation/format"
	"go.uber.org/zap"
)

func (s *Server) SubmitQuotation(c *gin.Context) {
	var contact quotationdomain.Contact
	if err := c.ShouldBindJSON(&contact); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := c.Request.Context()
	result, err := s.wizard.SubmitQuotation(ctx, sessionID(c), contact)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	q := result.View.Quotation
	if q != nil {
		c.Set("quotation_id", q.ID)
	}
	if result.Issued && q != nil {
		s.dispatchFollowUps(ctx, *q)
	}

	status := http.StatusOK
	if result.Issued {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"data": result.View})
}

func (s *Server) DownloadQuotationPDF(c *gin.Context) {
	ctx := c.Request.Context()
	q, err := s.wizard.Quotation(ctx, sessionID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Set("quotation_id", q.ID)

	doc, err := s.pdf.GenerateQuotation(ctx, *q)
	if err != nil {
		logger.FromContext(ctx).Error("quotation pdf render failed", zap.Error(err))
		AbortWithError(c, ErrInternal)
		return
	}
	body, err := io.ReadAll(doc)
	if err != nil {
		AbortWithError(c, ErrInternal)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pdf.FileName(*q)))
	c.Data(http.StatusOK, "application/pdf", body)
}

// dispatchFollowUps notifies sales, mails the customer and archives the
// quotation. Failures are logged and never reach the client.
func (s *Server) dispatchFollowUps(ctx context.Context, q quotationdomain.Quotation) {
	log := logger.FromContext(ctx).With(zap.String("quotation_id", q.ID))
	base := context.WithoutCancel(ctx)

	s.followUp(base, func(ctx context.Context) {
		if err := s.lead.Capture(ctx, q); err != nil {
			log.Warn("lead capture failed", zap.Error(err))
		}
	})
	s.followUp(base, func(ctx context.Context) {
		err := s.email.SendTemplate(ctx, []string{q.Contact.Email}, email.TemplateQuotationIssued, quotationEmail(q))
		if err != nil {
			log.Warn("quotation email failed", zap.Error(err))
		}
	})
	s.followUp(base, func(ctx context.Context) {
		var document []byte
		if r, err := s.pdf.GenerateQuotation(ctx, q); err != nil {
			log.Warn("quotation pdf render failed", zap.Error(err))
		} else {
			var buf bytes.Buffer
			if _, err := io.Copy(&buf, r); err == nil {
				document = buf.Bytes()
			}
		}
		if err := s.archive.Store(ctx, q, document); err != nil {
			log.Warn("quotation archive failed", zap.Error(err))
		}
	})
}

func (s *Server) followUp(base context.Context, fn func(ctx context.Context)) {
	s.followUps.Add(1)
	go func() {
		defer s.followUps.Done()
		ctx, cancel := context.WithTimeout(base, followUpTimeout)
		defer cancel()
		fn(ctx)
	}()
}

func quotationEmail(q quotationdomain.Quotation) email.QuotationEmail {
	b := q.Breakdown
	data := email.QuotationEmail{
		FirstName:    q.Contact.FirstName,
		Number:       q.ID,
		PlanName:     q.Plan.Name,
		BillingCycle: cycleName(q.BillingCycle),
		TotalDue:     format.FormatMoney(b.TotalDue, q.Currency),
		IssueDate:    q.IssuedAt.Format("02 Jan 2006"),
	}
	if b.Proration != nil && !b.Proration.DueNow.Equal(b.TotalDue) {
		data.DueNow = format.FormatMoney(b.Proration.DueNow, q.Currency)
	}
	return data
}

func cycleName(cycle catalogdomain.BillingCycle) string {
	if cycle == catalogdomain.BillingYearly {
		return "Yearly"
	}
	return "Monthly"
}
