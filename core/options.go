package core

// FilterOptions lists the values offered for each recommendation criterion.
type FilterOptions struct {
	Types     []string `json:"types"`
	Genres    []string `json:"genres"`
	Tones     []string `json:"tones"`
	Durations []string `json:"durations"`
	Countries []string `json:"countries"`
}

// DefaultFilterOptions returns the criteria catalog presented to users.
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{
		Types:  []string{"Movie", "TV Show"},
		Genres: []string{"Action", "Comedy", "Drama", "Horror", "Sci-Fi", "Thriller", "Documentary", "Romance"},
		Tones:  []string{"Sério", "Leve", "Sombrio", "Inspirador", "Tenso"},
		Durations: []string{
			"Curto (< 90 min)",
			"Médio (90-120 min)",
			"Longo (> 120 min)",
			"Série curta (1-2 temporadas)",
			"Série longa (3+ temporadas)",
		},
		Countries: []string{"United States", "United Kingdom", "South Korea", "Japan", "Brazil", "India", "France", "Germany"},
	}
}
