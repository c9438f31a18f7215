package model

import "time"

type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	UserID    string    `json:"userId"`
	Tags      []string  `json:"tags"`
}

// HasTag reports whether the note carries tag, compared exactly.
func (n Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

type NoteInput struct {
	Title   string
	Content string
	UserID  string
	Tags    []string
}

type NotePatch struct {
	Title   Optional[string]
	Content Optional[string]
	UserID  Optional[string]
	Tags    Optional[[]string]
}

func (p NotePatch) Apply(n *Note) {
	n.Title = p.Title.Or(n.Title)
	n.Content = p.Content.Or(n.Content)
	n.UserID = p.UserID.Or(n.UserID)
	if tags, ok := p.Tags.Get(); ok {
		n.Tags = cloneStrings(tags)
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
