package quality

import "strings"

// MarkupBuilder assembles the lightweight report dialect the dashboard
// renders: #/##/### headings, "- " bullets, "- **Label**: text" field lines,
// pipe-delimited table rows, and "---" rules.
type MarkupBuilder struct {
	b strings.Builder
}

func (m *MarkupBuilder) line(text string) *MarkupBuilder {
	m.b.WriteString(text)
	m.b.WriteByte('\n')
	return m
}

func (m *MarkupBuilder) Heading(title string) *MarkupBuilder {
	return m.line("# " + title).Blank()
}

func (m *MarkupBuilder) Section(title string) *MarkupBuilder {
	return m.line("## " + title).Blank()
}

func (m *MarkupBuilder) Subsection(title string) *MarkupBuilder {
	return m.line("### " + title).Blank()
}

func (m *MarkupBuilder) Para(text string) *MarkupBuilder {
	return m.line(text).Blank()
}

func (m *MarkupBuilder) Bullet(text string) *MarkupBuilder {
	return m.line("- " + text)
}

// Field emits a bold-label bullet line.
func (m *MarkupBuilder) Field(label, value string) *MarkupBuilder {
	return m.line("- **" + label + "**: " + value)
}

func (m *MarkupBuilder) TableRow(cells ...string) *MarkupBuilder {
	return m.line("| " + strings.Join(cells, " | ") + " |")
}

func (m *MarkupBuilder) Rule() *MarkupBuilder {
	return m.Blank().line("---").Blank()
}

func (m *MarkupBuilder) Blank() *MarkupBuilder {
	m.b.WriteByte('\n')
	return m
}

func (m *MarkupBuilder) String() string {
	return m.b.String()
}
