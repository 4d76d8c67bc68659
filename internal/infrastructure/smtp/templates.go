package smtp

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/storefront-api/internal/domain"
)

// Email bodies are built from html/template so customer-provided fields
// (names, addresses) are escaped before they reach an inbox.

var otpTmpl = template.Must(template.New("otp").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">Verification Code</h2>
  <p>Your verification code is:</p>
  <div style="background: #f5f5f5; padding: 20px; text-align: center; font-size: 24px; font-weight: bold; letter-spacing: 5px; margin: 20px 0;">
    {{.Code}}
  </div>
  <p style="color: #666;">This code will expire in {{.TTLMinutes}} minutes.</p>
  <p style="color: #666;">If you didn't request this code, please ignore this email.</p>
</div>`))

var newCustomerTmpl = template.Must(template.New("newCustomer").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2c3e50;">New Customer Registration</h2>
  <table style="width: 100%; border-collapse: collapse;">
    <tr><td style="padding: 8px 0; font-weight: bold;">Name:</td><td>{{.Profile.Name}}</td></tr>
    <tr><td style="padding: 8px 0; font-weight: bold;">Email:</td><td>{{.Profile.Email}}</td></tr>
    <tr><td style="padding: 8px 0; font-weight: bold;">Phone:</td><td>{{.Profile.Phone}}</td></tr>
    <tr><td style="padding: 8px 0; font-weight: bold;">Address:</td><td>{{.Profile.Address}}</td></tr>
    <tr><td style="padding: 8px 0; font-weight: bold;">City:</td><td>{{.Profile.City}}, {{.Profile.State}}</td></tr>
    <tr><td style="padding: 8px 0; font-weight: bold;">PIN Code:</td><td>{{.Profile.Pincode}}</td></tr>
  </table>
  <p style="color: #856404;">This customer has completed their profile and can now place orders.</p>
  <p style="color: #7f8c8d; font-size: 12px;">Registered at {{.When}} — automated notification from {{.StoreName}}</p>
</div>`))

var ownerOrderTmpl = template.Must(template.New("ownerOrder").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 800px; margin: 0 auto;">
  <h2 style="color: #333; border-bottom: 2px solid #007bff; padding-bottom: 10px;">New Order Received - #{{.Order.OrderID}}</h2>
  <div style="background: #f8f9fa; padding: 20px; border-radius: 5px; margin: 20px 0;">
    <h3 style="color: #007bff; margin-top: 0;">Customer Details:</h3>
    <p><strong>Name:</strong> {{.Profile.Name}}</p>
    <p><strong>Email:</strong> {{.Profile.Email}}</p>
    <p><strong>Phone:</strong> {{.Profile.Phone}}</p>
    <p><strong>Address:</strong> {{.Profile.Address}}, {{.Profile.City}}, {{.Profile.State}} - {{.Profile.Pincode}}</p>
  </div>
  <div style="background: #fff; border: 1px solid #dee2e6; border-radius: 5px; margin: 20px 0;">
    <h3 style="color: #007bff; margin: 0; padding: 15px; background: #e9ecef;">Order Items:</h3>
    <div style="padding: 15px;">
      {{range .Lines}}
      <div style="border-bottom: 1px solid #eee; padding: 10px 0;">
        <strong>{{.Name}}</strong> &times; {{.Quantity}}
        <span style="float: right;"><strong>{{.PriceDisplay}}</strong></span>
      </div>
      {{end}}
    </div>
  </div>
  <div style="background: #28a745; color: white; padding: 15px; border-radius: 5px; text-align: center;">
    <h3 style="margin: 0;">Total Amount: {{.TotalDisplay}}</h3>
  </div>
  <p style="color: #856404;"><strong>Order placed on:</strong> {{.When}}</p>
</div>`))

var customerOrderTmpl = template.Must(template.New("customerOrder").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #28a745;">Order Confirmed!</h2>
  <p>Dear {{.Profile.Name}},</p>
  <p>Thank you for your order! We have received your order and will process it soon.</p>
  <div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
    <p><strong>Order ID:</strong> #{{.Order.OrderID}}</p>
    <p><strong>Total Amount:</strong> {{.TotalDisplay}}</p>
    <p><strong>Order Date:</strong> {{.When}}</p>
  </div>
  <p>We will contact you soon with shipping details.</p>
  <p>Thank you for shopping with us!</p>
</div>`))

type orderEmailLine struct {
	Name         string
	Quantity     int
	PriceDisplay string
}

type orderEmailData struct {
	Order        *domain.Order
	Profile      *domain.CustomerProfile
	Lines        []orderEmailLine
	TotalDisplay string
	When         string
}

// OTPEmail renders the login-code email body.
func OTPEmail(code string, ttl time.Duration) (subject, body string, err error) {
	var b strings.Builder
	err = otpTmpl.Execute(&b, struct {
		Code       string
		TTLMinutes int
	}{Code: code, TTLMinutes: int(ttl.Minutes())})
	return "Your Verification Code", b.String(), err
}

// NewCustomerEmail renders the owner notification for a completed profile.
func NewCustomerEmail(storeName string, p *domain.CustomerProfile) (subject, body string, err error) {
	var b strings.Builder
	err = newCustomerTmpl.Execute(&b, struct {
		Profile   *domain.CustomerProfile
		StoreName string
		When      string
	}{Profile: p, StoreName: storeName, When: time.Now().Format("Jan 2, 2006 15:04 MST")})
	return fmt.Sprintf("New Customer Registration - %s", p.Name), b.String(), err
}

// OwnerOrderEmail renders the new-order notification sent to the store owner.
func OwnerOrderEmail(o *domain.Order, p *domain.CustomerProfile) (subject, body string, err error) {
	data := buildOrderEmailData(o, p)
	var b strings.Builder
	err = ownerOrderTmpl.Execute(&b, data)
	return fmt.Sprintf("New Order #%s - %s", o.OrderID, data.TotalDisplay), b.String(), err
}

// CustomerOrderEmail renders the confirmation sent to the customer.
func CustomerOrderEmail(o *domain.Order, p *domain.CustomerProfile) (subject, body string, err error) {
	data := buildOrderEmailData(o, p)
	var b strings.Builder
	err = customerOrderTmpl.Execute(&b, data)
	return fmt.Sprintf("Order Confirmation #%s", o.OrderID), b.String(), err
}

func buildOrderEmailData(o *domain.Order, p *domain.CustomerProfile) orderEmailData {
	lines := make([]orderEmailLine, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, orderEmailLine{
			Name:         l.Name,
			Quantity:     l.Quantity,
			PriceDisplay: domain.FormatMinor(l.UnitPriceMinor*int64(l.Quantity), l.Currency),
		})
	}
	return orderEmailData{
		Order:        o,
		Profile:      p,
		Lines:        lines,
		TotalDisplay: domain.FormatMinor(o.TotalMinor, o.Currency),
		When:         o.CreatedAt.Format("Jan 2, 2006 15:04 MST"),
	}
}
