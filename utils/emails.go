package utils

import (
	"fmt"
	"strings"

	"ninjapark-backend/models"
)

const emailShell = `<!doctype html>
<html>
<head>
<meta charset="utf-8">
<style>
body { background:#f5f7fb; font-family:Arial, Helvetica, sans-serif; color:#222; }
.container { max-width:640px; margin:20px auto; }
.card { background:#fff; border:1px solid #e6eef6; padding:24px; border-radius:8px; }
.btn { display:inline-block; padding:12px 20px; background:#ff5a1f; color:#fff; text-decoration:none; border-radius:6px; margin-top:16px; }
td { padding:4px 12px 4px 0; }
</style>
</head>
<body>
<div class="container"><div class="card">%s</div></div>
</body>
</html>`

// BookingConfirmationEmail returns subject, plain and HTML bodies for a new booking.
func BookingConfirmationEmail(parkName string, b models.Booking) (string, string, string) {
	parkName = safeLine(parkName)
	subject := fmt.Sprintf("%s booking %s", parkName, b.Reference)
	if b.Type == models.BookingTypeParty {
		subject = fmt.Sprintf("%s party request %s", parkName, b.Reference)
	}

	var plain strings.Builder
	fmt.Fprintf(&plain, "Hi %s,\n\n", safeLine(b.Name))
	fmt.Fprintf(&plain, "Thanks for booking with %s.\n\n", parkName)
	fmt.Fprintf(&plain, "Reference: %s\nDate: %s %s\nDuration: %s min\n", b.Reference, b.Date, b.Time, b.Duration)
	fmt.Fprintf(&plain, "Jumpers: %d adults, %d kids. Spectators: %d\n", b.Adults, b.Kids, b.Spectators)
	if b.DiscountAmount > 0 {
		fmt.Fprintf(&plain, "Discount (%s): -%s\n", b.VoucherCode, formatRupees(b.DiscountAmount))
	}
	fmt.Fprintf(&plain, "Total (incl. GST): %s\n", formatRupees(b.Amount))
	if b.DepositAmount > 0 {
		fmt.Fprintf(&plain, "Deposit due: %s\n", formatRupees(b.DepositAmount))
	}
	if b.WaiverStatus != models.WaiverStatusSigned {
		plain.WriteString("\nEvery jumper needs a signed waiver before entry. Quote your reference when signing.\n")
	}

	rows := fmt.Sprintf(
		"<tr><td>Reference</td><td><strong>%s</strong></td></tr>"+
			"<tr><td>Date</td><td>%s %s</td></tr>"+
			"<tr><td>Guests</td><td>%d adults, %d kids, %d spectators</td></tr>"+
			"<tr><td>Total</td><td>%s</td></tr>",
		htmlEscape(b.Reference), htmlEscape(b.Date), htmlEscape(b.Time),
		b.Adults, b.Kids, b.Spectators, formatRupees(b.Amount),
	)
	qr := ""
	if strings.HasPrefix(b.QRCode, "data:image/png;base64,") {
		qr = fmt.Sprintf(`<p><img src="%s" alt="Booking QR" width="200" height="200"></p>`, b.QRCode)
	}
	html := fmt.Sprintf(emailShell, fmt.Sprintf(
		"<h2>See you at %s!</h2><p>Hi %s,</p><table>%s</table>%s<p>Show this QR code at the front desk.</p>",
		htmlEscape(parkName), htmlEscape(b.Name), rows, qr,
	))

	return subject, plain.String(), html
}

// ContactNotificationEmail is sent to the venue when a visitor submits the contact form.
func ContactNotificationEmail(msg models.ContactMessage) (string, string, string) {
	subject := "New contact message"
	if s := safeLine(msg.Subject); s != "" {
		subject += ": " + s
	}
	plain := fmt.Sprintf("From: %s <%s>\nPhone: %s\n\n%s\n", safeLine(msg.Name), safeLine(msg.Email), safeLine(msg.Phone), msg.Message)
	html := fmt.Sprintf(emailShell, fmt.Sprintf(
		"<h2>New contact message</h2><p><strong>%s</strong> &lt;%s&gt; %s</p><p>%s</p>",
		htmlEscape(msg.Name), htmlEscape(msg.Email), htmlEscape(msg.Phone),
		strings.ReplaceAll(htmlEscape(msg.Message), "\n", "<br>"),
	))
	return subject, plain, html
}

// AdminInviteEmail tells a new dashboard user their account exists.
func AdminInviteEmail(parkName, name, role, loginLink string) (string, string, string) {
	name, role, loginLink = safeLine(name), safeLine(role), safeLine(loginLink)
	if loginLink != "" && !(strings.HasPrefix(loginLink, "http://") || strings.HasPrefix(loginLink, "https://")) {
		loginLink = "https://" + strings.TrimLeft(loginLink, "/")
	}

	subject := fmt.Sprintf("You're invited to the %s admin", parkName)
	plain := fmt.Sprintf(
		"Hi %s,\n\nAn account has been created for you on the %s admin dashboard as %s.\n"+
			"Sign in here: %s\n\nIf you did not expect this invitation, you can ignore this email.\n",
		name, parkName, role, loginLink,
	)
	html := fmt.Sprintf(emailShell, fmt.Sprintf(
		"<h2>You're invited</h2><p>Hi %s,</p><p>You have been added to the %s admin as <strong>%s</strong>.</p>"+
			`<a class="btn" href="%s" target="_blank">Sign in</a>`,
		htmlEscape(name), htmlEscape(parkName), htmlEscape(role), htmlEscape(loginLink),
	))
	return subject, plain, html
}
