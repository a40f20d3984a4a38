package reply

import (
	"fmt"
	"strconv"
	"strings"

	contractx "github.com/tanpawarit/Chative-Schedule-Assistant/agent/contract"
)

// Formatter renders payloads into message text. It is pure and safe for
// concurrent use.
type Formatter struct {
	catalog Catalog
}

func NewFormatter(catalog Catalog) *Formatter {
	return &Formatter{catalog: catalog}
}

// Render returns the message text for p, or "" when p carries no reply.
func (f *Formatter) Render(p Payload) string {
	if p.Silent() {
		return ""
	}
	c := f.catalog

	switch p.Kind {
	case KindSelectionEcho:
		if p.Appointment == nil {
			return c.SelectionQuestion
		}
		return fmt.Sprintf(c.SelectionHeader, summaryLine(*p.Appointment)) + "\n" + c.SelectionQuestion
	case KindFieldPrompt:
		return c.FieldPrompt
	case KindUnrecognizedAction:
		return c.UnrecognizedAction
	case KindDeleted:
		return f.confirmation(c.DeletedHeader, p.Appointment)
	case KindEdited:
		return f.confirmation(c.EditedHeader, p.Appointment)
	case KindCreated:
		return f.confirmation(c.CreatedHeader, p.Appointment)
	case KindListing:
		if len(p.Appointments) == 0 {
			return c.EmptyList
		}
		return f.listing(p.Appointments)
	case KindEmptyList:
		return c.EmptyList
	case KindInvalidNumber:
		return c.InvalidNumber
	case KindInvalidDate:
		return c.InvalidDate
	case KindNotFound:
		return c.NotFound
	case KindCancelled:
		return c.Cancelled
	case KindStoreUnavailable:
		return c.StoreUnavailable
	default:
		return ""
	}
}

func (f *Formatter) confirmation(header string, a *contractx.Appointment) string {
	if a == nil {
		return header
	}
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(f.catalog.DateMark)
	b.WriteString(" ")
	b.WriteString(dateTime(*a))
	b.WriteString("\n")
	b.WriteString(f.catalog.ContentMark)
	b.WriteString(" ")
	b.WriteString(a.Content)
	return b.String()
}

// listing numbers items from 1 in the order given.
func (f *Formatter) listing(items []contractx.Appointment) string {
	var b strings.Builder
	b.WriteString(f.catalog.ListingHeader)
	b.WriteString("\n")
	for i, a := range items {
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(summaryLine(a))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(f.catalog.ListingFooter)
	return b.String()
}

func dateTime(a contractx.Appointment) string {
	if a.HasTime() {
		return a.Date + " " + a.Time
	}
	return a.Date
}

func summaryLine(a contractx.Appointment) string {
	return dateTime(a) + " " + a.Content
}
