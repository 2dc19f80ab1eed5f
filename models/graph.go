package models

// GraphNode is an authority placed in a knowledge graph
type GraphNode struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Citation           string    `json:"citation"`
	Tags               []string  `json:"tags"`
	Statutes           []string  `json:"statutes"`
	PrecedentDirection Direction `json:"precedent_direction"`
	Jurisdiction       string    `json:"jurisdiction"`
	Year               *int      `json:"year,omitempty"`
	Focus              bool      `json:"focus"`
}

// GraphEdge links two authorities. Source sorts before Target.
type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// KnowledgeGraph is the neighbourhood of a set of retrieved authorities
type KnowledgeGraph struct {
	Nodes    []GraphNode `json:"nodes"`
	Edges    []GraphEdge `json:"edges"`
	Insights []string    `json:"insights"`
}
