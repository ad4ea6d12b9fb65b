package mailer

import "github.com/torarnehave1/slowyou.io/util"

// Template is a subject and HTML body pair with {key} placeholders.
type Template struct {
	Subject string
	Body    string
}

// Render substitutes vars into both subject and body.
func (t Template) Render(vars map[string]string) (subject, body string) {
	return util.SubstituteVariables(t.Subject, vars), util.SubstituteVariables(t.Body, vars)
}

// Built-in transactional templates. The verification and subscription
// bodies expect {verificationLink}; onboarding expects {oneTimeCode} and
// {magicLink}; review expects {name}, {reviewLink} and {summary};
// magiclink expects {magicLink}.
var templates = map[string]Template{
	"verification": {
		Subject: "Verify your email address",
		Body: `<p>Hello,</p>
<p>Thank you for registering. Please confirm your email address by clicking the link below:</p>
<p><a href="{verificationLink}">Verify my email</a></p>
<p>If you did not register, you can safely ignore this email.</p>
<p>Regards,<br>The slowyou.io team</p>`,
	},
	"subscription": {
		Subject: "Confirm your subscription",
		Body: `<p>Hello,</p>
<p>You asked to subscribe to our updates. Please confirm your subscription by clicking the link below:</p>
<p><a href="{verificationLink}">Confirm my subscription</a></p>
<p>If you did not request this, you can safely ignore this email.</p>
<p>Regards,<br>The slowyou.io team</p>`,
	},
	"onboarding": {
		Subject: "Welcome! Your one-time code",
		Body: `<p>Welcome,</p>
<p>Your one-time onboarding code is:</p>
<p><strong>{oneTimeCode}</strong></p>
<p>Or continue directly with this link:</p>
<p><a href="{magicLink}">Continue onboarding</a></p>
<p>Regards,<br>The slowyou.io team</p>`,
	},
	"review": {
		Subject: "Your onboarding review is ready",
		Body: `<p>Hello {name},</p>
<p>Here is a summary of your onboarding session:</p>
<div>{summary}</div>
<p>Read the full review here:</p>
<p><a href="{reviewLink}">Open my review</a></p>
<p>Regards,<br>The slowyou.io team</p>`,
	},
	"magiclink": {
		Subject: "Your login link",
		Body: `<p>Hello,</p>
<p>Click the link below to log in. No password needed:</p>
<p><a href="{magicLink}">Log me in</a></p>
<p>If you did not request this link, you can safely ignore this email.</p>
<p>Regards,<br>The slowyou.io team</p>`,
	},
}

// TemplateByName returns a built-in template by name.
func TemplateByName(name string) (Template, bool) {
	t, ok := templates[name]
	return t, ok
}

// TemplateForRole selects the registration template for a user role:
// subscribers get the subscription template, everyone else gets the
// plain verification one.
func TemplateForRole(role string) Template {
	if role == "subscriber" {
		return templates["subscription"]
	}
	return templates["verification"]
}
