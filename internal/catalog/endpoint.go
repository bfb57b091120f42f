package catalog

import (
	"errors"
	"strings"
)

// EndpointKind describes how a lookup endpoint consumes its arguments.
type EndpointKind int

const (
	// KindSuffix appends the player id to a literal path prefix.
	KindSuffix EndpointKind = iota
	// KindIDOnly substitutes the {id} slot; a server argument is ignored.
	KindIDOnly
	// KindIDAndServer substitutes both {id} and {server} slots. A missing
	// server substitutes as an empty string, never an error.
	KindIDAndServer
)

// ErrEmptyPlayerID rejects endpoint resolution before a URL is produced.
var ErrEmptyPlayerID = errors.New("player id must not be empty")

// Endpoint is the parsed form of a game's lookup path template. The kind is
// derived once from slot presence, so per-game behavior never needs to be
// hardcoded anywhere else.
type Endpoint struct {
	Kind     EndpointKind
	Template string
}

// Build resolves the endpoint into a concrete request path.
func (e Endpoint) Build(playerID, server string) (string, error) {
	if playerID == "" {
		return "", ErrEmptyPlayerID
	}

	switch e.Kind {
	case KindIDAndServer:
		path := strings.ReplaceAll(e.Template, "{id}", playerID)
		return strings.ReplaceAll(path, "{server}", server), nil
	case KindIDOnly:
		return strings.ReplaceAll(e.Template, "{id}", playerID), nil
	default:
		return e.Template + playerID, nil
	}
}

// parseEndpoint classifies a raw template by which slots it declares.
func parseEndpoint(template string) Endpoint {
	hasID := strings.Contains(template, "{id}")
	hasServer := strings.Contains(template, "{server}")

	switch {
	case hasID && hasServer:
		return Endpoint{Kind: KindIDAndServer, Template: template}
	case hasID:
		return Endpoint{Kind: KindIDOnly, Template: template}
	default:
		return Endpoint{Kind: KindSuffix, Template: template}
	}
}
