// Package mimedecode recovers the HTML confirmation document from a forwarded
// broker email. Decoding is best effort: it never fails, and when nothing better
// is found the input comes back unchanged.
package mimedecode

import (
	"encoding/base64"
	"io"
	"mime/quotedprintable"
	"regexp"
	"strings"

	"github.com/username/tradejournal/backend/src/logger"
)

// Strategy names the step that produced the decoded document.
type Strategy string

const (
	StrategyMIMEPart  Strategy = "mime-part"
	StrategyHTMLBlock Strategy = "html-block"
	StrategyRaw       Strategy = "raw"
)

// DealsMarker must appear (case-insensitively) in a candidate document for it to be
// accepted as a trade confirmation.
const DealsMarker = "deals:"

var htmlBlockRegex = regexp.MustCompile(`(?is)<html[\s>].*</html>`)

// Result is the outcome of Decode.
type Result struct {
	HTML     string
	Strategy Strategy
}

type part struct {
	contentType string
	encoding    string
	body        strings.Builder
}

// Decode returns the first text/html MIME part (base64 or quoted-printable) whose
// decoded body mentions the deals marker, then any literal <html> block carrying the
// marker, and finally the raw input.
func Decode(raw string) Result {
	for _, p := range splitParts(raw) {
		if !strings.Contains(p.contentType, "text/html") {
			continue
		}
		decoded, ok := decodeBody(p)
		if !ok {
			continue
		}
		if containsDeals(decoded) {
			logger.L.Debug("Decoded HTML confirmation from MIME part", "encoding", p.encoding, "bytes", len(decoded))
			return Result{HTML: decoded, Strategy: StrategyMIMEPart}
		}
	}

	if block := htmlBlockRegex.FindString(raw); block != "" && containsDeals(block) {
		logger.L.Debug("Using inline HTML block as confirmation", "bytes", len(block))
		return Result{HTML: block, Strategy: StrategyHTMLBlock}
	}

	logger.L.Debug("No decodable confirmation found, returning raw content", "bytes", len(raw))
	return Result{HTML: raw, Strategy: StrategyRaw}
}

// DecodeHTML is Decode without the strategy.
func DecodeHTML(raw string) string {
	return Decode(raw).HTML
}

var boundaryParamRegex = regexp.MustCompile(`(?i)boundary\s*=\s*"?([^";\s]+)"?`)

// headerBlock collects the headers of one part in whatever order they appear.
type headerBlock struct {
	contentType string
	encoding    string
	// rawType keeps the original case, which boundary tokens depend on.
	rawType string
	last    string
}

// splitParts scans the message line by line. A header block starts after a boundary
// line, or wherever a Content-Type or Content-Transfer-Encoding header shows up in a body
// (forwarded messages inline their headers), and ends at the first blank line. Lines up
// to the next boundary belong to the part body. Boundaries are the ones declared in
// Content-Type headers; when a message declares none, any bare "--token" line counts.
func splitParts(raw string) []*part {
	var (
		parts      []*part
		current    *part
		hdr        *headerBlock
		boundaries = map[string]bool{}
	)

	isBoundary := func(line string) (bool, bool) {
		if !strings.HasPrefix(line, "--") {
			return false, false
		}
		token := strings.TrimRight(line, " \t")
		closing := strings.HasSuffix(token, "--") && len(token) > 4
		if len(boundaries) == 0 {
			bare := len(token) > 2 && !strings.ContainsAny(token, " \t")
			return bare, bare && closing
		}
		if boundaries[token[2:]] {
			return true, false
		}
		if closing && boundaries[token[2:len(token)-2]] {
			return true, true
		}
		return false, false
	}

	header := func(line, lower string) {
		switch {
		case strings.HasPrefix(lower, "content-type:"):
			hdr.contentType = strings.TrimSpace(lower[len("content-type:"):])
			hdr.rawType = strings.TrimSpace(line[len("content-type:"):])
			hdr.last = "content-type"
		case strings.HasPrefix(lower, "content-transfer-encoding:"):
			hdr.encoding = strings.TrimSpace(lower[len("content-transfer-encoding:"):])
			hdr.last = "content-transfer-encoding"
		case (strings.HasPrefix(lower, " ") || strings.HasPrefix(lower, "\t")) && hdr.last == "content-type":
			// Folded continuation, usually carrying the boundary parameter.
			hdr.contentType += " " + strings.TrimSpace(lower)
			hdr.rawType += " " + strings.TrimSpace(line)
		default:
			hdr.last = ""
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		lower := strings.ToLower(line)

		if ok, closing := isBoundary(line); ok {
			current = nil
			hdr = nil
			if !closing {
				hdr = &headerBlock{}
			}
			continue
		}

		if hdr == nil && (strings.HasPrefix(lower, "content-type:") || strings.HasPrefix(lower, "content-transfer-encoding:")) {
			current = nil
			hdr = &headerBlock{}
		}

		switch {
		case hdr != nil && strings.TrimSpace(line) == "":
			if hdr.contentType != "" {
				current = &part{contentType: hdr.contentType, encoding: hdr.encoding}
				parts = append(parts, current)
				if m := boundaryParamRegex.FindStringSubmatch(hdr.rawType); m != nil {
					boundaries[m[1]] = true
				}
			}
			hdr = nil
		case hdr != nil:
			header(line, lower)
		case current != nil:
			current.body.WriteString(line)
			current.body.WriteByte('\n')
		}
	}
	return parts
}

func decodeBody(p *part) (string, bool) {
	body := p.body.String()
	switch p.encoding {
	case "base64":
		return decodeBase64(body)
	case "quoted-printable":
		decoded, err := io.ReadAll(quotedprintable.NewReader(strings.NewReader(body)))
		if err != nil {
			logger.L.Warn("Failed to decode quoted-printable MIME part", "error", err)
			return "", false
		}
		return string(decoded), true
	default:
		return "", false
	}
}

func decodeBase64(body string) (string, bool) {
	compact := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, body)

	decoded, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		// Some mailers drop the trailing padding.
		decoded, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(compact, "="))
	}
	if err != nil {
		logger.L.Warn("Failed to decode base64 MIME part", "error", err, "bytes", len(compact))
		return "", false
	}
	return string(decoded), true
}

func containsDeals(s string) bool {
	return strings.Contains(strings.ToLower(s), DealsMarker)
}
