package notify

import "html/template"

// confirmationData feeds the confirmation template. All times are
// pre-formatted in the business timezone before rendering.
type confirmationData struct {
	ClientName    string
	Company       string
	TypeLabel     string
	HeadingLabel  string
	DateTime      string
	Duration      int
	LocationInfo  template.HTML
	IsConsult     bool
	IsStudio      bool
	BusinessName  string
	BusinessEmail string
	ContactPhone  string
	Website       string
}

type cancellationData struct {
	ClientName    string
	Reason        string
	BusinessName  string
	BusinessEmail string
}

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
  <head>
    <style>
      body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; line-height: 1.6; color: #333; }
      .container { max-width: 600px; margin: 0 auto; padding: 20px; }
      .header { background: linear-gradient(135deg, #0066FF 0%, #E84141 100%); color: white; padding: 30px; border-radius: 10px 10px 0 0; }
      .content { background: #f9f9f9; padding: 30px; border: 1px solid #e0e0e0; border-radius: 0 0 10px 10px; }
      .booking-details { background: white; padding: 20px; border-radius: 8px; margin: 20px 0; }
      .footer { margin-top: 30px; padding-top: 20px; border-top: 1px solid #e0e0e0; font-size: 14px; color: #666; }
      h1 { margin: 0; font-size: 28px; }
      h2 { color: #0066FF; margin-top: 0; }
    </style>
  </head>
  <body>
    <div class="container">
      <div class="header">
        <h1>Booking Confirmed!</h1>
      </div>
      <div class="content">
        <p>Dear {{.ClientName}},</p>

        <p>Thank you for booking with {{.BusinessName}}. We're excited to work with {{.Company}} on your upcoming project.</p>

        <div class="booking-details">
          <h2>{{.HeadingLabel}}</h2>

          <p><strong>Date &amp; Time:</strong> {{.DateTime}}</p>
          <p><strong>Duration:</strong> {{.Duration}} minutes</p>
          {{.LocationInfo}}
          <p><strong>Type:</strong> {{.TypeLabel}}</p>
        </div>

        <h3>What's Next?</h3>
        <ul>
          <li>You'll receive a calendar invitation shortly</li>
          <li>We'll send a reminder 24 hours before your appointment</li>
          {{if .IsConsult}}<li>Google Meet link will be included in the calendar invite</li>{{end}}
          {{if .IsStudio}}<li>Please arrive 10 minutes early for check-in</li>{{end}}
        </ul>

        <h3>Need to Reschedule?</h3>
        <p>If you need to change your booking, please contact us at least 24 hours in advance:</p>
        <ul>
          <li>Email: <a href="mailto:{{.BusinessEmail}}">{{.BusinessEmail}}</a></li>
          <li>Phone: {{.ContactPhone}}</li>
        </ul>

        <div class="footer">
          <p><strong>{{.BusinessName}}</strong><br>
          Premium Commercial Production<br>
          <a href="{{.Website}}">{{.Website}}</a></p>

          <p style="font-size: 12px; color: #999;">
            This is an automated confirmation email. Please do not reply directly to this message.
          </p>
        </div>
      </div>
    </div>
  </body>
</html>
`))

var cancellationTmpl = template.Must(template.New("cancellation").Parse(`<!DOCTYPE html>
<html>
  <head>
    <style>
      body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; line-height: 1.6; color: #333; }
      .container { max-width: 600px; margin: 0 auto; padding: 20px; }
      .header { background: #E84141; color: white; padding: 30px; border-radius: 10px 10px 0 0; }
      .content { background: #f9f9f9; padding: 30px; border: 1px solid #e0e0e0; border-radius: 0 0 10px 10px; }
      h1 { margin: 0; font-size: 28px; }
    </style>
  </head>
  <body>
    <div class="container">
      <div class="header">
        <h1>Booking Cancelled</h1>
      </div>
      <div class="content">
        <p>Dear {{.ClientName}},</p>

        <p>Your booking with {{.BusinessName}} has been cancelled.</p>

        {{if .Reason}}<p><strong>Reason:</strong> {{.Reason}}</p>{{end}}

        <p>If you'd like to reschedule, please visit our website or contact us directly.</p>

        <p>Best regards,<br>
        {{.BusinessName}} Team<br>
        <a href="mailto:{{.BusinessEmail}}">{{.BusinessEmail}}</a></p>
      </div>
    </div>
  </body>
</html>
`))
