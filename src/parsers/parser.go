// backend/src/parsers/parser.go
package parsers

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/username/tradejournal/backend/src/models"
	"github.com/username/tradejournal/backend/src/parsers/mt4"
)

// Parser turns one uploaded confirmation into accounts and reconciled trades.
type Parser interface {
	Parse(file io.Reader) (*models.SmartParsedEmail, error)
}

var registry = map[string]func() Parser{
	"mt4":       func() Parser { return mt4.NewParser() },
	"mt4-email": func() Parser { return mt4.NewParser() },
	"mt5":       func() Parser { return mt4.NewParser() },
}

// DefaultSource is used when an upload does not name its source.
const DefaultSource = "mt4"

// GetParser returns the parser registered for source. An empty source selects DefaultSource.
func GetParser(source string) (Parser, error) {
	key := strings.ToLower(strings.TrimSpace(source))
	if key == "" {
		key = DefaultSource
	}
	factory, ok := registry[key]
	if !ok {
		return nil, fmt.Errorf("unsupported source: %q (supported: %s)", source, strings.Join(Sources(), ", "))
	}
	return factory(), nil
}

// Sources lists the registered source names in alphabetical order.
func Sources() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
