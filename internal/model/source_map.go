package model

// SourceMap is a version 3 source map attached to a coverage record so that
// reporters can remap positions to pre-transform sources.
type SourceMap struct {
	Version        uint32    `json:"version"`
	File           string    `json:"file,omitempty"`
	SourceRoot     string    `json:"sourceRoot,omitempty"`
	Sources        []string  `json:"sources"`
	SourcesContent []*string `json:"sourcesContent,omitempty"`
	Names          []string  `json:"names"`
	Mappings       string    `json:"mappings"`
}

// NewSourceMap returns an empty version 3 source map.
func NewSourceMap() *SourceMap {
	return &SourceMap{
		Version: 3,
		Sources: []string{},
		Names:   []string{},
	}
}

// Clone returns a deep copy.
func (sm *SourceMap) Clone() *SourceMap {
	if sm == nil {
		return nil
	}

	out := *sm
	if sm.Sources != nil {
		out.Sources = append([]string{}, sm.Sources...)
	}

	if sm.Names != nil {
		out.Names = append([]string{}, sm.Names...)
	}

	if sm.SourcesContent != nil {
		out.SourcesContent = make([]*string, len(sm.SourcesContent))

		for i, content := range sm.SourcesContent {
			if content != nil {
				c := *content
				out.SourcesContent[i] = &c
			}
		}
	}

	return &out
}
