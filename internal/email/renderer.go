// Package email renders contact-form notifications and hands them to the
// transactional email provider.
package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/realtyhub/backoffice/internal/domain"
)

//go:embed templates/*.html templates/*.txt
var templateFS embed.FS

// DateLayout renders as e.g. "14 de octubre de 2026, 09:30".
const DateLayout = "2 January 2006, 15:04"

var spanishMonths = strings.NewReplacer(
	"January", "de enero de", "February", "de febrero de", "March", "de marzo de",
	"April", "de abril de", "May", "de mayo de", "June", "de junio de",
	"July", "de julio de", "August", "de agosto de", "September", "de septiembre de",
	"October", "de octubre de", "November", "de noviembre de", "December", "de diciembre de",
)

type RenderedEmail struct {
	Subject  string
	BodyHTML string
	BodyText string
}

type templateData struct {
	Subject       string
	Name          string
	Email         string
	Phone         string
	Message       string
	MessageLines  []string
	FormattedDate string
}

// Renderer holds the parsed contact templates. User fields are escaped by
// html/template; newlines in the message become <br> in the HTML body.
type Renderer struct {
	html     *template.Template
	text     *texttemplate.Template
	location *time.Location
}

func NewRenderer(location *time.Location) (*Renderer, error) {
	if location == nil {
		location = time.UTC
	}
	html, err := template.ParseFS(templateFS, "templates/contact.html")
	if err != nil {
		return nil, fmt.Errorf("email.NewRenderer: parse contact.html: %w", err)
	}
	text, err := texttemplate.ParseFS(templateFS, "templates/contact.txt")
	if err != nil {
		return nil, fmt.Errorf("email.NewRenderer: parse contact.txt: %w", err)
	}
	return &Renderer{html: html, text: text, location: location}, nil
}

func (r *Renderer) Render(sub domain.ContactSubmission) (*RenderedEmail, error) {
	message := strings.ReplaceAll(sub.Message, "\r\n", "\n")
	data := templateData{
		Subject:       Subject(sub),
		Name:          sub.Name,
		Email:         sub.Email,
		Phone:         sub.Phone,
		Message:       message,
		MessageLines:  strings.Split(message, "\n"),
		FormattedDate: r.FormatDate(sub.CreatedAt),
	}

	var htmlBuf, textBuf bytes.Buffer
	if err := r.html.Execute(&htmlBuf, data); err != nil {
		return nil, fmt.Errorf("Render: html: %w", err)
	}
	if err := r.text.Execute(&textBuf, data); err != nil {
		return nil, fmt.Errorf("Render: text: %w", err)
	}
	return &RenderedEmail{
		Subject:  data.Subject,
		BodyHTML: htmlBuf.String(),
		BodyText: textBuf.String(),
	}, nil
}

// FormatDate renders t in the renderer's time zone.
func (r *Renderer) FormatDate(t time.Time) string {
	return spanishMonths.Replace(t.In(r.location).Format(DateLayout))
}

func Subject(sub domain.ContactSubmission) string {
	return "Nuevo contacto de " + sub.Name
}
