package handler

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"invoice_generator/internal/middleware"
	"invoice_generator/internal/model"
	"invoice_generator/internal/service"

	"github.com/gin-gonic/gin"
)

// InvoiceHandler handles invoice related requests
type InvoiceHandler struct {
	service service.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(s service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: s}
}

// createInvoiceRequest is the raw invoice form. Quantity and price are kept as
// json.Number so form values and JSON numbers or strings bind alike. A total sent
// by the client is never bound.
type createInvoiceRequest struct {
	CustomerName      string      `form:"customer_name" json:"customer_name"`
	PurchaseOrderNo   string      `form:"purchase_order_no" json:"purchase_order_no"`
	BillDate          string      `form:"bill_date" json:"bill_date"`
	BillingAddress    string      `form:"billing_address" json:"billing_address"`
	ShippingAddress   string      `form:"shipping_address" json:"shipping_address"`
	ItemName          string      `form:"item_name" json:"item_name"`
	Quantity          json.Number `form:"quantity" json:"quantity"`
	Price             json.Number `form:"price" json:"price"`
	ItemDescription   string      `form:"item_description" json:"item_description"`
	AdditionalDetails string      `form:"additional_details" json:"additional_details"`
}

var (
	errInvalidBillDate = errors.New("Invalid bill_date, use YYYY-MM-DD")
	errInvalidQuantity = errors.New("Quantity must be a whole number of at least 1")
	errInvalidPrice    = errors.New("Price must be a number of at least 0")
)

// toInput parses the numeric and date fields. Empty values are left zero so the
// service reports them as missing.
func (r createInvoiceRequest) toInput() (model.CreateInvoiceInput, error) {
	in := model.CreateInvoiceInput{
		CustomerName:      r.CustomerName,
		PurchaseOrderNo:   r.PurchaseOrderNo,
		BillingAddress:    r.BillingAddress,
		ShippingAddress:   r.ShippingAddress,
		ItemName:          r.ItemName,
		ItemDescription:   r.ItemDescription,
		AdditionalDetails: r.AdditionalDetails,
	}

	quantity := strings.TrimSpace(r.Quantity.String())
	price := strings.TrimSpace(r.Price.String())
	billDate := strings.TrimSpace(r.BillDate)
	if quantity == "" || price == "" || billDate == "" {
		return in, service.ErrMissingInvoiceFields
	}

	d, err := time.Parse(model.BillDateLayout, billDate)
	if err != nil {
		return in, errInvalidBillDate
	}
	in.BillDate = d

	q, err := strconv.ParseInt(quantity, 10, 32)
	if errors.Is(err, strconv.ErrRange) && q > 0 {
		return in, service.ErrQuantityTooLarge
	}
	if err != nil || q < 1 {
		return in, errInvalidQuantity
	}
	in.Quantity = int(q)

	p, err := strconv.ParseFloat(price, 64)
	if err != nil || math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
		return in, errInvalidPrice
	}
	if service.RoundCents(p) > service.MaxPrice {
		return in, service.ErrPriceTooLarge
	}
	in.Price = p
	return in, nil
}

func authUser(c *gin.Context) (*model.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	}
	return user, ok
}

func invoiceID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invoice ID"})
		return 0, false
	}
	return id, true
}

// artifactFailed reports a persisted invoice whose PDF could not be produced
func artifactFailed(c *gin.Context, inv *model.Invoice) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":           "Invoice saved but PDF generation failed",
		"invoice_id":      inv.ID,
		"artifact_status": inv.ArtifactStatus,
	})
}

func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	user, ok := authUser(c)
	if !ok {
		return
	}

	var req createInvoiceRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	in, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inv, err := h.service.CreateInvoice(c.Request.Context(), user, in)
	if err != nil {
		switch {
		case service.IsInvoiceValidationError(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrArtifactFailed) && inv != nil:
			artifactFailed(c, inv)
		default:
			middleware.RequestLog(c).WithError(err).Error("Error creating invoice")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invoice"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Invoice created successfully",
		"invoice_id": inv.ID,
		"total":      inv.Total,
		"pdf":        inv.ArtifactPath,
	})
}

func (h *InvoiceHandler) InvoiceHistory(c *gin.Context) {
	user, ok := authUser(c)
	if !ok {
		return
	}

	history, err := h.service.ListHistory(c.Request.Context(), user)
	if err != nil {
		middleware.RequestLog(c).WithError(err).Error("Error getting invoice history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve invoices"})
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	user, ok := authUser(c)
	if !ok {
		return
	}
	id, ok := invoiceID(c)
	if !ok {
		return
	}

	inv, err := h.service.GetInvoice(c.Request.Context(), user, id)
	if err != nil {
		if errors.Is(err, service.ErrInvoiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		middleware.RequestLog(c).WithError(err).Error("Error getting invoice by ID")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve invoice"})
		return
	}
	c.JSON(http.StatusOK, inv)
}

// RenderInvoicePDF regenerates the PDF of an invoice, e.g. after a failed render
func (h *InvoiceHandler) RenderInvoicePDF(c *gin.Context) {
	user, ok := authUser(c)
	if !ok {
		return
	}
	id, ok := invoiceID(c)
	if !ok {
		return
	}

	inv, err := h.service.RenderArtifact(c.Request.Context(), user, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvoiceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrArtifactFailed) && inv != nil:
			artifactFailed(c, inv)
		default:
			middleware.RequestLog(c).WithError(err).Error("Error rendering invoice PDF")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render invoice PDF"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Invoice PDF generated",
		"invoice_id": inv.ID,
		"pdf":        inv.ArtifactPath,
	})
}

func (h *InvoiceHandler) DownloadInvoicePDF(c *gin.Context) {
	user, ok := authUser(c)
	if !ok {
		return
	}
	id, ok := invoiceID(c)
	if !ok {
		return
	}

	rc, fileName, err := h.service.OpenArtifact(c.Request.Context(), user, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvoiceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrArtifactNotReady):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			middleware.RequestLog(c).WithError(err).Error("Error opening invoice PDF")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get invoice PDF"})
		}
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, -1, "application/pdf", rc, map[string]string{
		"Content-Disposition": `attachment; filename="` + fileName + `"`,
	})
}

// RegisterInvoiceRoutes registers invoice routes. All of them require authentication.
func (h *InvoiceHandler) RegisterInvoiceRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	authed := rg.Group("")
	authed.Use(authMW)
	{
		authed.POST("/create-invoice", h.CreateInvoice)
		authed.GET("/invoice-history", h.InvoiceHistory)
		authed.GET("/invoices/:id", h.GetInvoice)
		authed.POST("/invoices/:id/pdf", h.RenderInvoicePDF)
		authed.GET("/invoices/:id/pdf", h.DownloadInvoicePDF)
	}
}
