package notify

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"

	"github.com/wolfman30/trades-booking-api/internal/bookings"
)

const paymentRequestSubject = "Payment request for your booking"

var paymentRequestHTML = htmltemplate.Must(htmltemplate.New("payment_request").Parse(`<p>Hi {{.Name}},</p>
<p>Thanks for booking with us. Your job is ready for payment.</p>
{{- if .Services}}
<p>Services: {{.Services}}</p>
{{- end}}
<p><a href="{{.Link}}">Pay securely online</a></p>
<p>If the button does not work, copy this link into your browser:<br>{{.Link}}</p>
<p>Booking reference: {{.BookingID}}</p>
`))

var bookingReceivedHTML = htmltemplate.Must(htmltemplate.New("booking_received").Parse(`<h2>New booking request</h2>
<table>
<tr><td>Name</td><td>{{.Name}}</td></tr>
<tr><td>Email</td><td>{{.Email}}</td></tr>
<tr><td>Phone</td><td>{{.Phone}}</td></tr>
<tr><td>Address</td><td>{{.Address}}</td></tr>
<tr><td>Services</td><td>{{.Services}}</td></tr>
<tr><td>Preferred time</td><td>{{.PreferredTime}}</td></tr>
<tr><td>Message</td><td>{{.Message}}</td></tr>
<tr><td>Booking ID</td><td>{{.BookingID}}</td></tr>
</table>
`))

type emailView struct {
	BookingID     string
	Name          string
	Email         string
	Phone         string
	Address       string
	Services      string
	PreferredTime string
	Message       string
	Link          string
}

func viewOf(b *bookings.Booking) emailView {
	return emailView{
		BookingID:     b.ID,
		Name:          b.Name,
		Email:         b.Email,
		Phone:         b.Phone,
		Address:       b.Address,
		Services:      strings.Join(b.Services, ", "),
		PreferredTime: b.PreferredTime,
		Message:       b.Message,
	}
}

// PaymentRequestEmail builds the fixed payment request message for a booking.
func PaymentRequestEmail(b *bookings.Booking, link string) (EmailMessage, error) {
	view := viewOf(b)
	view.Link = link

	var html bytes.Buffer
	if err := paymentRequestHTML.Execute(&html, view); err != nil {
		return EmailMessage{}, fmt.Errorf("notify: render payment request: %w", err)
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Hi %s,\n\nThanks for booking with us. Your job is ready for payment.\n\n", view.Name)
	if view.Services != "" {
		fmt.Fprintf(&text, "Services: %s\n\n", view.Services)
	}
	fmt.Fprintf(&text, "Pay securely online: %s\n\nBooking reference: %s\n", link, view.BookingID)

	return EmailMessage{
		To:      b.Email,
		ToName:  b.Name,
		Subject: paymentRequestSubject,
		Body:    text.String(),
		HTML:    html.String(),
	}, nil
}

// BookingReceivedEmail builds the business inbox summary of a new booking.
func BookingReceivedEmail(b *bookings.Booking, to string) (EmailMessage, error) {
	view := viewOf(b)

	var html bytes.Buffer
	if err := bookingReceivedHTML.Execute(&html, view); err != nil {
		return EmailMessage{}, fmt.Errorf("notify: render booking summary: %w", err)
	}

	body := fmt.Sprintf(`A new booking request has come in.

Name: %s
Email: %s
Phone: %s
Address: %s
Services: %s
Preferred time: %s
Message: %s

Booking ID: %s`, view.Name, view.Email, view.Phone, view.Address, view.Services, view.PreferredTime, view.Message, view.BookingID)

	return EmailMessage{
		To:      to,
		ReplyTo: b.Email,
		Subject: fmt.Sprintf("New booking request - %s", view.Name),
		Body:    body,
		HTML:    html.String(),
	}, nil
}
