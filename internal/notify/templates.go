package notify

import (
	"fmt"
	"html"
	"strings"

	"CommunityDirectory/internal/core/ports"
	"CommunityDirectory/internal/notify/messages"
)

// Templates renders every outbound message for one community.
type Templates struct {
	Site      string
	PublicURL string
}

func (t Templates) OTPEmail(code string) (messages.Email, error) {
	return messages.NewBuilder(t.Site).
		WithSubject(fmt.Sprintf("Your %s Verification Code", t.Site)).
		WithGreeting("Hello!").
		WithParagraph("Your verification code is:").
		WithCode(code).
		WithParagraph("This code expires in 10 minutes.").
		WithFootnote("If you didn't request this code, please ignore this email.").
		Build()
}

func (t Templates) OTPSMS(code string) string {
	return fmt.Sprintf("Your %s verification code is: %s. Valid for 10 minutes. Do not share this code with anyone.", t.Site, code)
}

func (t Templates) ApprovedEmail(firstName string) (messages.Email, error) {
	return messages.NewBuilder(t.Site).
		WithSubject(fmt.Sprintf("✅ Your %s Profile is Approved!", t.Site)).
		WithHeading("✅ Profile Approved!").
		WithAccent("linear-gradient(135deg, #10b981 0%, #059669 100%)").
		WithGreeting(greeting(firstName)).
		WithParagraph(fmt.Sprintf("Great news! Your profile has been approved by the %s administrators.", t.Site)).
		WithParagraph("You now have full access to:").
		WithList("Search community members", "View detailed profiles", "Connect with members", "Access all features").
		WithButton("Login Now", t.link("/login")).
		Build()
}

func (t Templates) RejectedEmail(firstName string) (messages.Email, error) {
	return messages.NewBuilder(t.Site).
		WithSubject(fmt.Sprintf("❌ %s Registration Update", t.Site)).
		WithHeading("Registration Update").
		WithAccent("#ef4444").
		WithGreeting(greeting(firstName)).
		WithParagraph("Unfortunately, your registration could not be approved at this time and your details have been removed.").
		WithParagraph("If you believe this is a mistake, please contact the community administrators before registering again.").
		Build()
}

// RegistrationAlert is the Telegram HTML text sent to admins.
func (t Templates) RegistrationAlert(evt ports.UserRegisteredEvent) string {
	var b strings.Builder
	b.WriteString("🆕 <b>New registration awaiting approval</b>\n\n")
	fmt.Fprintf(&b, "<b>Name:</b> %s\n", html.EscapeString(evt.Name))
	fmt.Fprintf(&b, "<b>Occupation:</b> %s\n", html.EscapeString(string(evt.Occupation)))
	fmt.Fprintf(&b, "<b>ID:</b> <code>%s</code>", evt.UserID)
	return b.String()
}

// PanelURL is the admin panel link, or empty without a public URL.
func (t Templates) PanelURL() string {
	return t.link("/admin")
}

func (t Templates) link(path string) string {
	if t.PublicURL == "" {
		return ""
	}
	return strings.TrimRight(t.PublicURL, "/") + path
}

func greeting(firstName string) string {
	if firstName == "" {
		return "Hello!"
	}
	return fmt.Sprintf("Hello %s!", firstName)
}
