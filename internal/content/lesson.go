// Package content renders lesson text for Telegram.
package content

import (
	"regexp"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MaxMessageLength is the Telegram limit for a text message.
const MaxMessageLength = 4096

var (
	inlineBold   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	wholeBold    = regexp.MustCompile(`^\*\*([^*]+)\*\*:?$`)
	numbered     = regexp.MustCompile(`^\d+[.)]\s+`)
	tableDivider = regexp.MustCompile(`^:?-{2,}:?$`)
)

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeHTML, s)
}

// inline escapes s and turns **x** into bold.
func inline(s string) string {
	return inlineBold.ReplaceAllString(escape(s), "<b>$1</b>")
}

// FormatLesson converts markdown-like lesson text into Telegram HTML.
func FormatLesson(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var (
		out    []string
		code   []string
		table  []string
		inCode bool
	)

	emit := func(line string) {
		if line == "" && (len(out) == 0 || out[len(out)-1] == "") {
			return
		}
		out = append(out, line)
	}

	flushTable := func() {
		if len(table) > 0 {
			for _, row := range formatTable(table) {
				emit(row)
			}
			table = nil
		}
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)

		if strings.HasPrefix(line, "```") {
			if inCode {
				emit("<pre>" + escape(strings.Join(code, "\n")) + "</pre>")
				code = nil
				inCode = false
			} else {
				flushTable()
				inCode = true
			}
			continue
		}
		if inCode {
			code = append(code, strings.TrimRight(raw, " \t"))
			continue
		}

		if strings.HasPrefix(line, "|") {
			table = append(table, line)
			continue
		}
		flushTable()

		emit(formatLine(line))
	}

	if inCode {
		emit("<pre>" + escape(strings.Join(code, "\n")) + "</pre>")
	}
	flushTable()

	return strings.TrimSpace(strings.Join(out, "\n"))
}

func formatLine(line string) string {
	switch {
	case line == "":
		return ""

	case strings.HasPrefix(line, "#"):
		level := len(line) - len(strings.TrimLeft(line, "#"))
		title := inline(strings.TrimSpace(line[level:]))
		switch level {
		case 1:
			return "📘 <b>" + title + "</b>"
		case 2:
			return "📌 <b>" + title + "</b>"
		default:
			return "<b>" + title + "</b>"
		}

	case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "), strings.HasPrefix(line, "• "):
		_, item, _ := strings.Cut(line, " ")
		item = strings.TrimSpace(item)
		if label, rest, ok := strings.Cut(item, ":"); ok && label != "" && utf8.RuneCountInString(label) <= 40 && !strings.Contains(label, "**") {
			return "• <b>" + escape(label) + ":</b> " + inline(strings.TrimSpace(rest))
		}
		if label, rest, ok := strings.Cut(item, ":**"); ok && strings.HasPrefix(label, "**") {
			return "• <b>" + escape(strings.TrimPrefix(label, "**")) + ":</b> " + inline(strings.TrimSpace(rest))
		}
		return "• " + inline(item)

	case wholeBold.MatchString(line):
		return "<b>" + escape(strings.TrimSuffix(strings.Trim(line, "*:"), "*")) + "</b>"

	case numbered.MatchString(line):
		return inline(line)
	}

	return inline(line)
}

// formatTable renders pipe table rows as " | " separated lines. The first
// row is the header.
func formatTable(rows []string) []string {
	var out []string
	header := true

	for _, row := range rows {
		cells := strings.Split(strings.Trim(row, "|"), "|")

		divider := true
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
			if !tableDivider.MatchString(cells[i]) {
				divider = false
			}
		}
		if divider {
			continue
		}

		for i := range cells {
			if header {
				cells[i] = "<b>" + escape(strings.Trim(cells[i], "*")) + "</b>"
			} else {
				cells[i] = inline(cells[i])
			}
		}
		header = false

		out = append(out, strings.Join(cells, " | "))
	}

	return out
}

// Truncate shortens text to at most n runes. It prefers to cut at a line
// break. The result is always well-formed HTML: a tag or entity cut in half
// is dropped and tags still open at the cut are closed.
func Truncate(text string, n int) string {
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}

	const ellipsis = "…"
	runes := []rune(text)
	cut := string(runes[:n-1])

	if i := strings.LastIndex(cut, "\n"); i > 0 && utf8.RuneCountInString(cut[:i]) >= n/2 {
		return closeTags(cut[:i]) + "\n" + ellipsis
	}
	return closeTags(cut) + ellipsis
}

// closeTags repairs the tail of an HTML fragment produced by FormatLesson.
// Text is escaped there, so every '<' starts a tag and every '&' an entity.
func closeTags(s string) string {
	if i := strings.LastIndex(s, "<"); i >= 0 && !strings.Contains(s[i:], ">") {
		s = s[:i]
	}
	if i := strings.LastIndex(s, "&"); i >= 0 && !strings.Contains(s[i:], ";") {
		s = s[:i]
	}

	var open []string
	rest := s
	for {
		i := strings.Index(rest, "<")
		if i < 0 {
			break
		}
		j := strings.Index(rest[i:], ">")
		if j < 0 {
			break
		}
		tag := rest[i+1 : i+j]
		rest = rest[i+j+1:]

		if name, ok := strings.CutPrefix(tag, "/"); ok {
			if len(open) > 0 && open[len(open)-1] == name {
				open = open[:len(open)-1]
			}
			continue
		}
		name, _, _ := strings.Cut(tag, " ")
		open = append(open, name)
	}

	for i := len(open) - 1; i >= 0; i-- {
		s += "</" + open[i] + ">"
	}
	return s
}
