// Package chatlog reads exported WhatsApp group chats into field reports.
//
// Two header styles are recognised:
//
//	12/03/2024 09:15 - Carlos: Fundação concluída
//	[12/03/2024, 09:15:30] Carlos: Fundação concluída
//
// Lines that do not start with a header continue the previous message.
// Lines without an author (group notices, encryption banners) and media
// placeholders are skipped.
package chatlog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/canteiro/internal/domain"
)

var (
	androidHeader = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2,4}),? (\d{1,2}):(\d{2})(?::(\d{2}))? - (.*)$`)
	iosHeader     = regexp.MustCompile(`^\[(\d{1,2})/(\d{1,2})/(\d{2,4}),? (\d{1,2}):(\d{2})(?::(\d{2}))?\] (.*)$`)
)

var mediaPlaceholders = map[string]bool{
	"<media omitted>":             true,
	"<mídia oculta>":              true,
	"<arquivo de mídia oculto>":   true,
	"image omitted":               true,
	"imagem ocultada":             true,
	"video omitted":               true,
	"vídeo omitido":               true,
	"audio omitted":               true,
	"áudio ocultado":              true,
	"this message was deleted":    true,
	"mensagem apagada":            true,
	"you deleted this message":    true,
	"você apagou esta mensagem":   true,
	"<this message was edited>":   true,
	"<esta mensagem foi editada>": true,
}

// ParseFile opens path and parses it with Parse.
func ParseFile(path string, loc *time.Location) ([]domain.FieldReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, loc)
}

// Parse reads a chat export. Timestamps are interpreted in loc (nil means
// UTC). Reports are returned in file order.
func Parse(r io.Reader, loc *time.Location) ([]domain.FieldReport, error) {
	if loc == nil {
		loc = time.UTC
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var reports []domain.FieldReport
	var current *domain.FieldReport
	flush := func() {
		if current == nil {
			return
		}
		current.Text = strings.TrimSpace(current.Text)
		if current.Text != "" && !isPlaceholder(current.Text) {
			reports = append(reports, *current)
		}
		current = nil
	}

	for scanner.Scan() {
		line := cleanLine(scanner.Text())

		sentAt, rest, ok := parseHeader(line, loc)
		if !ok {
			if current != nil {
				current.Text += "\n" + line
			}
			continue
		}

		flush()
		author, text, ok := strings.Cut(rest, ": ")
		if !ok {
			// group notice without an author
			continue
		}
		current = &domain.FieldReport{
			AuthorName: strings.TrimSpace(author),
			Text:       text,
			SentAt:     sentAt,
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading chat export: %w", err)
	}
	flush()

	return reports, nil
}

func parseHeader(line string, loc *time.Location) (time.Time, string, bool) {
	m := androidHeader.FindStringSubmatch(line)
	if m == nil {
		m = iosHeader.FindStringSubmatch(line)
	}
	if m == nil {
		return time.Time{}, "", false
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])
	second := 0
	if m[6] != "" {
		second, _ = strconv.Atoi(m[6])
	}
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, "", false
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, loc)
	// time.Date normalises 31/02 into March; reject instead.
	if t.Day() != day {
		return time.Time{}, "", false
	}
	return t, m[7], true
}

// cleanLine strips the byte-order mark and the directional marks some
// exporters put in front of lines.
func cleanLine(s string) string {
	s = strings.TrimRight(s, "\r")
	return strings.TrimLeft(s, "\ufeff\u200e\u200f")
}

func isPlaceholder(text string) bool {
	return mediaPlaceholders[strings.ToLower(strings.TrimSpace(cleanLine(text)))]
}
