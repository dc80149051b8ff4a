package email

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"barslot/internal/ledger"
)

type confirmationView struct {
	Code      string
	BarName   string
	Address   string
	FullName  string
	Date      string
	Time      string
	PartySize int
	Phone     string
	Notes     string
}

func newConfirmationView(snap ledger.Snapshot) confirmationView {
	return confirmationView{
		Code:      fmt.Sprintf("#%06d", snap.ReservationID),
		BarName:   snap.BarName,
		Address:   snap.BarAddress,
		FullName:  snap.FullName,
		Date:      snap.Date.String(),
		Time:      snap.TimeSlot,
		PartySize: snap.PartySize,
		Phone:     snap.Phone,
		Notes:     snap.Notes,
	}
}

var confirmationHTML = htmltemplate.Must(htmltemplate.New("confirmation.html").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Reservation confirmed</title>
</head>
<body style="margin:0;padding:0;font-family:'Segoe UI',Tahoma,Geneva,Verdana,sans-serif;background:#764ba2;">
<table width="100%" cellpadding="0" cellspacing="0" style="max-width:600px;margin:40px auto;background:#ffffff;border-radius:20px;overflow:hidden;">
  <tr>
    <td style="background:#0A2342;padding:40px 30px;text-align:center;">
      <h1 style="color:#ffffff;margin:0;font-size:32px;">Reservation confirmed!</h1>
      <p style="color:#FFD93D;margin:10px 0 0 0;font-size:16px;">Your night out is ready</p>
    </td>
  </tr>
  <tr>
    <td style="padding:30px;">
      <div style="background:#f5f7fa;border-radius:15px;padding:25px;margin-bottom:25px;">
        <h2 style="color:#0A2342;margin:0 0 15px 0;font-size:24px;">{{.BarName}}</h2>
        {{if .Address}}<p style="color:#555;margin:5px 0;font-size:15px;">{{.Address}}</p>{{end}}
      </div>
      <table width="100%" cellpadding="0" cellspacing="0">
        <tr><td style="padding:12px 0;color:#666;">Name</td><td style="padding:12px 0;text-align:right;"><strong>{{.FullName}}</strong></td></tr>
        <tr><td style="padding:12px 0;color:#666;">Date</td><td style="padding:12px 0;text-align:right;"><strong>{{.Date}}</strong></td></tr>
        <tr><td style="padding:12px 0;color:#666;">Time</td><td style="padding:12px 0;text-align:right;"><strong>{{.Time}}</strong></td></tr>
        <tr><td style="padding:12px 0;color:#666;">Guests</td><td style="padding:12px 0;text-align:right;"><strong>{{.PartySize}}</strong></td></tr>
        <tr><td style="padding:12px 0;color:#666;">Phone</td><td style="padding:12px 0;text-align:right;"><strong>{{.Phone}}</strong></td></tr>
        {{if .Notes}}<tr><td style="padding:12px 0;color:#666;">Notes</td><td style="padding:12px 0;text-align:right;">{{.Notes}}</td></tr>{{end}}
      </table>
      <div style="background:#FFD93D;border-radius:12px;padding:20px;margin:25px 0;text-align:center;">
        <p style="color:#0A2342;margin:0 0 8px 0;font-size:13px;text-transform:uppercase;letter-spacing:1px;">Reservation code</p>
        <p style="color:#0A2342;margin:0;font-size:28px;font-weight:bold;letter-spacing:2px;">{{.Code}}</p>
      </div>
      <div style="background:#f8f9fa;border-left:4px solid #185ADB;border-radius:8px;padding:15px;margin:20px 0;">
        <ul style="color:#555;margin:0;padding-left:20px;font-size:13px;line-height:1.6;">
          <li>Arrive 10 minutes before your reservation time</li>
          <li>Show this code to the bar staff</li>
          <li>If you need to cancel, please do it 24 hours in advance</li>
        </ul>
      </div>
    </td>
  </tr>
</table>
</body>
</html>
`))

var confirmationText = texttemplate.Must(texttemplate.New("confirmation.txt").Parse(`Reservation confirmed!

{{.BarName}}{{if .Address}}
{{.Address}}{{end}}

Name:   {{.FullName}}
Date:   {{.Date}}
Time:   {{.Time}}
Guests: {{.PartySize}}
Phone:  {{.Phone}}{{if .Notes}}
Notes:  {{.Notes}}{{end}}

Reservation code: {{.Code}}

- Arrive 10 minutes before your reservation time
- Show this code to the bar staff
- If you need to cancel, please do it 24 hours in advance
`))

func renderConfirmation(snap ledger.Snapshot) (html, text string, err error) {
	view := newConfirmationView(snap)

	var hb, tb bytes.Buffer
	if err := confirmationHTML.Execute(&hb, view); err != nil {
		return "", "", fmt.Errorf("render html: %w", err)
	}
	if err := confirmationText.Execute(&tb, view); err != nil {
		return "", "", fmt.Errorf("render text: %w", err)
	}
	return hb.String(), tb.String(), nil
}
