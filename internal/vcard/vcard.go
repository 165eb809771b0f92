// Package vcard serializes contact details into vCard 3.0 text.
package vcard

import "strings"

// crlf terminates every content line; address book importers parse on it.
const crlf = "\r\n"

// Contact is the subset of a profile that ends up on the card. Nil optional
// fields are omitted, as are ones holding only whitespace.
type Contact struct {
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	LinkedIn  *string
	GitHub    *string
}

// FullName joins first and last name with a single space.
func (c Contact) FullName() string {
	return c.FirstName + " " + c.LastName
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	`,`, `\,`,
	`;`, `\;`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", `\n`,
)

// Escape backslash-escapes the characters vCard reserves in property values.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Format renders c as a vCard. The output depends only on c.
func Format(c Contact) string {
	var b strings.Builder

	line := func(name, value string) {
		b.WriteString(name)
		b.WriteByte(':')
		b.WriteString(value)
		b.WriteString(crlf)
	}
	optional := func(name string, v *string) {
		if v == nil || strings.TrimSpace(*v) == "" {
			return
		}
		line(name, Escape(*v))
	}

	line("BEGIN", "VCARD")
	line("VERSION", "3.0")
	line("N", Escape(c.LastName)+";"+Escape(c.FirstName)+";;;")
	line("FN", Escape(c.FullName()))
	line("EMAIL", Escape(c.Email))
	optional("TEL;TYPE=CELL", c.Phone)
	optional("URL;TYPE=LinkedIn", c.LinkedIn)
	optional("URL;TYPE=GitHub", c.GitHub)
	line("END", "VCARD")

	return b.String()
}
