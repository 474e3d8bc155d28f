// README: Owner and customer email content for a processed inquiry.
package inquiry

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/shopspring/decimal"

	"ttrentals/internal/notify"
	"ttrentals/internal/types"
)

const (
	ownerSubject    = "New Trailer Rental Inquiry"
	customerSubject = "We received your trailer rental inquiry"
	dateLayout      = "Mon, Jan 2, 2006 3:04 PM MST"
)

type priceLine struct {
	Label string
	Value string
}

type emailView struct {
	Business       string
	Phone          string
	ID             string
	Name           string
	CustomerPhone  string
	Email          string
	Company        string
	Trailer        string
	DeliveryOption string
	Address        string
	UseReason      string
	Pickup         string
	Delivery       string
	AdditionalInfo string
	Prices         []priceLine
	Pending        bool
	ConfirmLink    string
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func deliveryOptionLabel(o DeliveryOption) string {
	switch o {
	case OptionOwnTruck:
		return "Customer pickup (own truck)"
	case OptionDeliverPickup:
		return "Delivery and pickup"
	}
	return string(o)
}

// deliveryLine keeps "no delivery" and "distance unknown" distinguishable
// from a real charge.
func deliveryLine(q Quote) string {
	switch q.DeliveryStatus {
	case DeliveryResolved:
		miles := ""
		if q.Distance != nil {
			miles = fmt.Sprintf(" (%.1f mi est.)", q.Distance.RoadMiles)
		}
		return types.FormatUSD(q.Pricing.DeliveryCost) + miles
	case DeliveryPending:
		return "Pending – distance could not be calculated"
	default:
		return "N/A – customer pickup"
	}
}

func percent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).String() + "%"
}

func priceLines(q Quote) []priceLine {
	p := q.Pricing
	return []priceLine{
		{Label: "Rental days", Value: fmt.Sprintf("%d", p.Days)},
		{Label: "Daily rate", Value: types.FormatUSD(p.DailyRate)},
		{Label: "Rental", Value: types.FormatUSD(p.RentalCost)},
		{Label: "Delivery", Value: deliveryLine(q)},
		{Label: "Subtotal", Value: types.FormatUSD(p.Subtotal)},
		{Label: "Tax (" + percent(p.TaxRate) + ")", Value: types.FormatUSD(p.Tax)},
		{Label: "Estimated total", Value: types.FormatUSD(p.Total)},
	}
}

func (s *Service) view(id string, in Input, q Quote, link string) emailView {
	v := emailView{
		Business:       s.cfg.BusinessName,
		Phone:          s.cfg.BusinessPhone,
		ID:             id,
		Name:           in.Name,
		CustomerPhone:  in.Phone,
		Email:          in.Email,
		Company:        orNA(in.Company),
		Trailer:        TrailerLabel(in.Trailer),
		DeliveryOption: deliveryOptionLabel(in.DeliveryOption),
		Address:        "N/A",
		UseReason:      orNA(in.UseReason),
		Pickup:         in.PickupAt.In(s.cfg.Location).Format(dateLayout),
		Delivery:       in.DeliveryAt.In(s.cfg.Location).Format(dateLayout),
		AdditionalInfo: orNA(in.AdditionalInfo),
		Prices:         priceLines(q),
		Pending:        q.DeliveryStatus == DeliveryPending,
		ConfirmLink:    link,
	}
	if in.DeliveryAddress != nil {
		v.Address = in.DeliveryAddress.String()
	}
	return v
}

func render(h *htmltemplate.Template, t *texttemplate.Template, v emailView) (string, string, error) {
	var html, text bytes.Buffer
	if err := h.Execute(&html, v); err != nil {
		return "", "", fmt.Errorf("render %s html: %w", h.Name(), err)
	}
	if err := t.Execute(&text, v); err != nil {
		return "", "", fmt.Errorf("render %s text: %w", t.Name(), err)
	}
	return html.String(), text.String(), nil
}

func (s *Service) ownerMessage(v emailView, in Input) (notify.Message, error) {
	html, text, err := render(ownerHTML, ownerText, v)
	if err != nil {
		return notify.Message{}, err
	}
	return notify.Message{
		From:    s.cfg.From,
		To:      []notify.Identity{s.cfg.Owner},
		ReplyTo: &notify.Identity{Name: in.Name, Email: in.Email},
		Subject: ownerSubject,
		HTML:    html,
		Text:    text,
	}, nil
}

func (s *Service) customerMessage(v emailView, in Input) (notify.Message, error) {
	html, text, err := render(customerHTML, customerText, v)
	if err != nil {
		return notify.Message{}, err
	}
	msg := notify.Message{
		From:    s.cfg.From,
		To:      []notify.Identity{{Name: in.Name, Email: in.Email}},
		Subject: customerSubject,
		HTML:    html,
		Text:    text,
	}
	if s.cfg.Owner.Email != "" {
		owner := s.cfg.Owner
		msg.ReplyTo = &owner
	}
	return msg, nil
}

var ownerHTML = htmltemplate.Must(htmltemplate.New("owner").Parse(`<html>
  <body style="font-family:Arial,sans-serif;color:#333;">
    <h1>New Trailer Rental Inquiry</h1>
    <p style="color:#666;">Reference: {{.ID}}</p>
    <p><strong>Name:</strong> {{.Name}}</p>
    <p><strong>Phone:</strong> {{.CustomerPhone}}</p>
    <p><strong>Email:</strong> {{.Email}}</p>
    <p><strong>Company:</strong> {{.Company}}</p>
    <p><strong>Trailer:</strong> {{.Trailer}}</p>
    <p><strong>Delivery Option:</strong> {{.DeliveryOption}}</p>
    <p><strong>Delivery Address:</strong> {{.Address}}</p>
    <p><strong>Intended Use:</strong> {{.UseReason}}</p>
    <p><strong>Pickup:</strong> {{.Pickup}}</p>
    <p><strong>Drop-off:</strong> {{.Delivery}}</p>
    <p><strong>Additional Info:</strong> {{.AdditionalInfo}}</p>
    <h2>Price estimate</h2>
    <table style="border-collapse:collapse;">
      {{range .Prices}}<tr><td style="padding:4px 12px 4px 0;">{{.Label}}</td><td style="padding:4px 0;text-align:right;">{{.Value}}</td></tr>
      {{end}}
    </table>
    {{if .Pending}}<p style="color:#9B2226;"><strong>Delivery distance could not be calculated.</strong> The total above excludes delivery; quote it manually.</p>{{end}}
    {{if .ConfirmLink}}<p><a href="{{.ConfirmLink}}" style="display:inline-block;background:#22C55E;color:#fff;padding:12px 24px;text-decoration:none;border-radius:6px;">Accept this booking</a></p>{{end}}
  </body>
</html>
`))

var ownerText = texttemplate.Must(texttemplate.New("owner").Parse(`New Trailer Rental Inquiry
Reference: {{.ID}}

Name: {{.Name}}
Phone: {{.CustomerPhone}}
Email: {{.Email}}
Company: {{.Company}}
Trailer: {{.Trailer}}
Delivery Option: {{.DeliveryOption}}
Delivery Address: {{.Address}}
Intended Use: {{.UseReason}}
Pickup: {{.Pickup}}
Drop-off: {{.Delivery}}
Additional Info: {{.AdditionalInfo}}

Price estimate
{{range .Prices}}  {{.Label}}: {{.Value}}
{{end}}{{if .Pending}}
Delivery distance could not be calculated. The total above excludes delivery; quote it manually.
{{end}}{{if .ConfirmLink}}
Accept this booking: {{.ConfirmLink}}
{{end}}`))

var customerHTML = htmltemplate.Must(htmltemplate.New("customer").Parse(`<html>
  <body style="font-family:Arial,sans-serif;color:#333;">
    <h1>Thanks, {{.Name}}!</h1>
    <p>We received your inquiry for the <strong>{{.Trailer}}</strong>.</p>
    <p><strong>Pickup:</strong> {{.Pickup}}<br><strong>Drop-off:</strong> {{.Delivery}}<br><strong>Delivery Option:</strong> {{.DeliveryOption}}</p>
    <p>This is not a booking confirmation. We'll check availability and get back to you with details. We typically respond within 24 hours.</p>
    <p>Need it sooner? Call us at {{.Phone}}.</p>
    <p>{{.Business}}</p>
    <p style="color:#666;font-size:12px;">Reference: {{.ID}}</p>
  </body>
</html>
`))

var customerText = texttemplate.Must(texttemplate.New("customer").Parse(`Thanks, {{.Name}}!

We received your inquiry for the {{.Trailer}}.

Pickup: {{.Pickup}}
Drop-off: {{.Delivery}}
Delivery Option: {{.DeliveryOption}}

This is not a booking confirmation. We'll check availability and get back to you with details. We typically respond within 24 hours.

Need it sooner? Call us at {{.Phone}}.

{{.Business}}
Reference: {{.ID}}
`))
