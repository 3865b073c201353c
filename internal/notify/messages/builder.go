package messages

import (
	"bytes"
	"html/template"
	"time"
)

// Email is a rendered message ready for an EmailSender.
type Email struct {
	Subject string
	HTML    string
}

type button struct {
	Text string
	URL  string
}

type layoutData struct {
	Site       string
	Accent     string
	Heading    string
	Greeting   string
	Paragraphs []string
	Code       string
	List       []string
	Button     *button
	Footnote   string
	Year       int
}

var layout = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1.0"></head>
<body style="margin:0;padding:0;font-family:'Segoe UI',Tahoma,Geneva,Verdana,sans-serif;background-color:#f4f4f4;">
<table width="100%" cellpadding="0" cellspacing="0" style="max-width:600px;margin:0 auto;background-color:#ffffff;">
<tr><td style="padding:40px 30px;background:{{.Accent}};text-align:center;">
<h1 style="color:#ffffff;margin:0;font-size:28px;">{{.Heading}}</h1>
</td></tr>
<tr><td style="padding:40px 30px;">
{{if .Greeting}}<h2 style="color:#333333;margin:0 0 20px 0;">{{.Greeting}}</h2>{{end}}
{{range .Paragraphs}}<p style="color:#666666;font-size:16px;line-height:1.6;">{{.}}</p>
{{end}}{{if .Code}}<div style="background:{{.Accent}};padding:20px;border-radius:10px;text-align:center;margin:30px 0;">
<span style="font-size:36px;font-weight:bold;color:#ffffff;letter-spacing:8px;">{{.Code}}</span>
</div>
{{end}}{{if .List}}<ul style="color:#666666;">{{range .List}}<li>{{.}}</li>{{end}}</ul>
{{end}}{{with .Button}}<a href="{{.URL}}" style="display:inline-block;padding:12px 30px;background:#667eea;color:#fff;text-decoration:none;border-radius:5px;margin-top:20px;">{{.Text}}</a>
{{end}}{{if .Footnote}}<p style="color:#999999;font-size:13px;line-height:1.6;margin-top:30px;">{{.Footnote}}</p>{{end}}
</td></tr>
<tr><td style="padding:20px 30px;background-color:#f8f9fa;text-align:center;border-top:1px solid #eeeeee;">
<p style="color:#999999;font-size:12px;margin:0;">&copy; {{.Year}} {{.Site}}</p>
</td></tr>
</table>
</body>
</html>
`))

// Builder helps construct branded HTML emails.
type Builder struct {
	subject string
	data    layoutData
}

// NewBuilder starts an email for site with the default accent.
func NewBuilder(site string) *Builder {
	return &Builder{
		data: layoutData{
			Site:    site,
			Accent:  "linear-gradient(135deg, #667eea 0%, #764ba2 100%)",
			Heading: site,
			Year:    time.Now().Year(),
		},
	}
}

func (b *Builder) WithSubject(subject string) *Builder {
	b.subject = subject
	return b
}

func (b *Builder) WithHeading(heading string) *Builder {
	b.data.Heading = heading
	return b
}

// WithAccent overrides the banner background (any CSS background value).
func (b *Builder) WithAccent(css string) *Builder {
	b.data.Accent = css
	return b
}

func (b *Builder) WithGreeting(greeting string) *Builder {
	b.data.Greeting = greeting
	return b
}

// WithParagraph appends a paragraph; call it once per paragraph.
func (b *Builder) WithParagraph(text string) *Builder {
	b.data.Paragraphs = append(b.data.Paragraphs, text)
	return b
}

// WithCode shows a large one-time code.
func (b *Builder) WithCode(code string) *Builder {
	b.data.Code = code
	return b
}

func (b *Builder) WithList(items ...string) *Builder {
	b.data.List = append(b.data.List, items...)
	return b
}

// WithButton adds a call-to-action link. Empty url is ignored.
func (b *Builder) WithButton(text, url string) *Builder {
	if url != "" {
		b.data.Button = &button{Text: text, URL: url}
	}
	return b
}

func (b *Builder) WithFootnote(text string) *Builder {
	b.data.Footnote = text
	return b
}

// Build renders the email. All text is HTML-escaped.
func (b *Builder) Build() (Email, error) {
	var buf bytes.Buffer
	if err := layout.Execute(&buf, b.data); err != nil {
		return Email{}, err
	}
	return Email{Subject: b.subject, HTML: buf.String()}, nil
}
