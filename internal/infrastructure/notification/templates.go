package notification

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"
	appnotification "github.com/storefront/backend/internal/application/notification"
)

var templateFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
}

var orderConfirmationTemplate = template.Must(template.New("order_confirmation").Funcs(templateFuncs).Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Order confirmation</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
  <div style="max-width: 600px; margin: auto; background-color: #fff; padding: 20px;">
    <h2>Thank you for your order, {{.CustomerName}}</h2>
    <p>Order <strong>#{{.OrderID}}</strong> placed on {{.PlacedAt.Format "2006-01-02 15:04 MST"}}.</p>
    <p>Shipping to: {{.ShippingAddress}}</p>
    <table style="width: 100%; border-collapse: collapse;">
      <thead>
        <tr>
          <th style="text-align: left; border: 1px solid #ddd; padding: 8px;">Product</th>
          <th style="text-align: right; border: 1px solid #ddd; padding: 8px;">Quantity</th>
          <th style="text-align: right; border: 1px solid #ddd; padding: 8px;">Unit price</th>
          <th style="text-align: right; border: 1px solid #ddd; padding: 8px;">Total</th>
        </tr>
      </thead>
      <tbody>
        {{- range .Lines}}
        <tr>
          <td style="border: 1px solid #ddd; padding: 8px;">{{.ProductName}}</td>
          <td style="text-align: right; border: 1px solid #ddd; padding: 8px;">{{.Quantity}}</td>
          <td style="text-align: right; border: 1px solid #ddd; padding: 8px;">{{money .UnitPrice}}</td>
          <td style="text-align: right; border: 1px solid #ddd; padding: 8px;">{{money .LineTotal}}</td>
        </tr>
        {{- end}}
      </tbody>
      <tfoot>
        <tr>
          <td colspan="3" style="text-align: right; padding: 8px; font-weight: bold;">Order total</td>
          <td style="text-align: right; padding: 8px; font-weight: bold;">{{money .Total}}</td>
        </tr>
      </tfoot>
    </table>
  </div>
</body>
</html>
`))

var verificationCodeTemplate = template.Must(template.New("verification_code").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Verify your email</title></head>
<body style="font-family: Arial, sans-serif; padding: 20px;">
  <p>Hi {{.FirstName}},</p>
  <p>Your verification code is:</p>
  <p style="font-size: 28px; letter-spacing: 6px; font-weight: bold;">{{.Code}}</p>
  <p>The code expires at {{.ExpiresAt.Format "15:04 MST"}}.</p>
</body>
</html>
`))

func renderOrderConfirmation(msg appnotification.OrderConfirmation) (string, error) {
	return render(orderConfirmationTemplate, msg)
}

func renderVerificationCode(msg appnotification.VerificationCode) (string, error) {
	return render(verificationCodeTemplate, msg)
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

func orderConfirmationSubject(msg appnotification.OrderConfirmation) string {
	return "Order confirmation #" + msg.OrderID.String()
}

const verificationSubject = "Verify your email address"
