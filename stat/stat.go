package stat

import (
	"sort"

	"github.com/revelaction/sonarfn/lexicon"
)

// Triple is the grouping key of the frequency table.
type Triple struct {
	Frame string
	Lemma string
	Pos   string
}

// Row is one line of the frequency table.
type Row struct {
	Triple
	Count int
}

type Handler struct {
	stats Stats
}

type Stats struct {
	NumUnits    int
	NumFrames   int
	Frequencies map[Triple]int
}

func (h *Handler) Get() Stats {
	return h.stats
}

func NewHandler() *Handler {
	stats := Stats{Frequencies: map[Triple]int{}}
	return &Handler{
		stats: stats,
	}
}

func (h *Handler) Aggregate(units []lexicon.LexicalUnit) {
	frames := map[string]bool{}
	for _, u := range units {
		h.stats.NumUnits++
		h.stats.Frequencies[Triple{Frame: u.Frame, Lemma: u.Lemma, Pos: u.Pos}]++
		frames[u.Frame] = true
	}

	h.stats.NumFrames = len(frames)
}

// Rows returns one row per distinct triple, the most frequent first.
func (h *Handler) Rows() []Row {
	rows := make([]Row, 0, len(h.stats.Frequencies))
	for t, c := range h.stats.Frequencies {
		rows = append(rows, Row{Triple: t, Count: c})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		if rows[i].Frame != rows[j].Frame {
			return rows[i].Frame < rows[j].Frame
		}
		if rows[i].Lemma != rows[j].Lemma {
			return rows[i].Lemma < rows[j].Lemma
		}
		return rows[i].Pos < rows[j].Pos
	})

	return rows
}
