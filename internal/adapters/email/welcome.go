package email

import (
	"fmt"
	"strings"

	"fitpro/internal/adapters/markdown"
)

// Welcome describes the email sent to a newly provisioned member.
type Welcome struct {
	To       string
	FullName string
	PlanName string // empty when no plan was assigned
	EndDate  string // YYYY-MM-DD, empty when no plan was assigned
	ReplyTo  string
}

// Request renders the welcome email as a SendRequest.
// PRE: To is a valid address
// POST: HTML body is rendered from markdown with user text escaped
func (w Welcome) Request() (SendRequest, error) {
	var md strings.Builder
	fmt.Fprintf(&md, "# Welcome to FitPro, %s!\n\n", escapeMarkdown(w.FullName))
	md.WriteString("Your account is ready. Sign in with this email address to book classes and track your visits.\n\n")
	if w.PlanName != "" {
		fmt.Fprintf(&md, "Your **%s** membership is active until **%s**.\n\n", escapeMarkdown(w.PlanName), w.EndDate)
	}
	md.WriteString("See you at the gym.\n")

	html, err := markdown.ToHTML(md.String())
	if err != nil {
		return SendRequest{}, fmt.Errorf("render welcome email: %w", err)
	}
	return SendRequest{
		To:      []string{w.To},
		Subject: "Welcome to FitPro",
		HTML:    html,
		ReplyTo: w.ReplyTo,
	}, nil
}

// escapeMarkdown backslash-escapes characters that would change markdown structure.
func escapeMarkdown(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune("\\`*_{}[]()#+-.!<>|", r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
