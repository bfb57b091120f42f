// Package catalog holds the static registry of supported games and their
// lookup endpoint templates.
package catalog

// Entry is one supported game.
type Entry struct {
	Name     string
	Endpoint Endpoint
}

// NeedsServer reports whether this game's endpoint declares a server slot.
func (e Entry) NeedsServer() bool {
	return e.Endpoint.Kind == KindIDAndServer
}

// Catalog is a read-only, ordered game registry. Declaration order is
// preserved by All because it drives button layout.
type Catalog struct {
	entries []Entry
	byName  map[string]Entry
}

// games maps each supported game to its endpoint template, in display order.
var games = []struct {
	name     string
	template string
}{
	{"Aether Gazer", "/ag?id="},
	{"Genshin Impact", "/gi?id="},
	{"Honkai Impact 3rd", "/hi?id="},
	{"Honkai: Star Rail", "/hsr?id="},
	{"LifeAfter", "/la?id={id}&server={server}"},
	{"Point Blank", "/pb?id="},
	{"Punishing: Gray Raven", "/pgr?id={id}&server={server}"},
	{"Sausage Man", "/sm?id="},
	{"Super Sus", "/sus?id="},
	{"Valorant", "/valo?id="},
	{"Zenless Zone Zero", "/zzz?id="},
	{"Arena of Valor", "/aov?id="},
	{"Call Of Duty", "/cod?id="},
	{"Free Fire", "/ff?id="},
	{"Mobile Legends: Bang Bang", "/ml?id={id}&server={server}"},
}

// New builds the catalog from the static game list.
func New() *Catalog {
	c := &Catalog{
		entries: make([]Entry, 0, len(games)),
		byName:  make(map[string]Entry, len(games)),
	}
	for _, g := range games {
		entry := Entry{Name: g.name, Endpoint: parseEndpoint(g.template)}
		c.entries = append(c.entries, entry)
		c.byName[g.name] = entry
	}
	return c
}

// Lookup returns the entry for a game name.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	entry, ok := c.byName[name]
	return entry, ok
}

// All returns every entry in declaration order. Callers must not mutate the
// returned slice.
func (c *Catalog) All() []Entry {
	return c.entries
}
