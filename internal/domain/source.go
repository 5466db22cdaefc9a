package domain

// Source identifies which integrating system originated a mutation. The set
// is closed: an unrecognized identifier is a parse error, never silently
// coerced to a generic tag.
type Source string

const (
	SourceGame      Source = "game"
	SourceMediaBot  Source = "media_bot"
	SourceChat      Source = "chat"
	SourceScheduler Source = "scheduler"
	SourceAdmin     Source = "admin"
	SourceExternal  Source = "external"
)

var knownSources = map[Source]bool{
	SourceGame:      true,
	SourceMediaBot:  true,
	SourceChat:      true,
	SourceScheduler: true,
	SourceAdmin:     true,
	SourceExternal:  true,
}

// ParseSource validates a source tag from the wire.
func ParseSource(s string) (Source, error) {
	src := Source(s)
	if !knownSources[src] {
		return "", ErrUnknownSource
	}
	return src, nil
}

func (s Source) String() string {
	return string(s)
}
