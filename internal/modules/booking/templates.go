// README: Acceptance email bodies.
package booking

import (
	htmltemplate "html/template"
	texttemplate "text/template"
)

var acceptanceHTML = htmltemplate.Must(htmltemplate.New("acceptance").Parse(`<!DOCTYPE html>
<html>
  <body style="margin:0;padding:0;font-family:Arial,sans-serif;background-color:#F4F1DE;">
    <table role="presentation" style="max-width:600px;margin:0 auto;background-color:#ffffff;border-collapse:collapse;">
      <tr>
        <td style="background-color:#333333;padding:30px;text-align:center;border-bottom:4px solid #9B2226;">
          <h1 style="color:#FFC300;margin:0;text-transform:uppercase;">{{.Business}}</h1>
        </td>
      </tr>
      <tr>
        <td style="padding:30px 40px;">
          <h2 style="color:#333333;">Hi {{.Name}}!</h2>
          <p>Your trailer rental request has been <strong style="color:#22C55E;">accepted</strong>.</p>
          <p>The <strong>{{.Trailer}}</strong> is available for your selected dates. An invoice will follow shortly; once it is paid your reservation is confirmed.</p>
          <h3>What happens next</h3>
          <ul>
            <li>You'll receive an invoice by email</li>
            <li>After payment we'll confirm delivery and pickup details</li>
            <li>If anything needs adjusting, just let us know</li>
          </ul>
          <div style="background-color:#F4F1DE;padding:20px;border:2px solid #FFC300;">
            <p><strong>Trailer:</strong> {{.Trailer}}</p>
            <p><strong>Pickup:</strong> {{.Pickup}}</p>
            <p><strong>Drop-off:</strong> {{.Delivery}}</p>
            <p><strong>Pickup Location:</strong> {{.PickupLocation}}</p>
          </div>
          <p>Questions or changes? Call us at <a href="tel:{{.PhoneDial}}">{{.Phone}}</a>.</p>
          <p>Thanks for choosing {{.Business}}.</p>
          {{if .InquiryID}}<p style="color:#666;font-size:12px;">Reference: {{.InquiryID}}</p>{{end}}
        </td>
      </tr>
    </table>
  </body>
</html>
`))

var acceptanceText = texttemplate.Must(texttemplate.New("acceptance").Parse(`Hi {{.Name}}!

Your trailer rental request has been accepted.

The {{.Trailer}} is available for your selected dates. An invoice will follow shortly; once it is paid your reservation is confirmed.

Trailer: {{.Trailer}}
Pickup: {{.Pickup}}
Drop-off: {{.Delivery}}
Pickup Location: {{.PickupLocation}}

Questions or changes? Call us at {{.Phone}}.

Thanks for choosing {{.Business}}.
{{if .InquiryID}}Reference: {{.InquiryID}}
{{end}}`))
