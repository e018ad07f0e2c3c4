package model

// Puzzle is one round's letter set and word-acceptance data: a center
// letter that every word must use, six outer letters, and the accepted
// word list. Supplied by the puzzle provider, never mutated by the core.
type Puzzle struct {
	CenterLetter string   `json:"center_letter"`
	OuterLetters []string `json:"outer_letters"`
	ValidWords   []string `json:"valid_words"`
	Pangrams     []string `json:"pangrams,omitempty"`
}

// Letters returns all seven letters, center first
func (p *Puzzle) Letters() []string {
	letters := make([]string, 0, len(p.OuterLetters)+1)
	letters = append(letters, p.CenterLetter)
	letters = append(letters, p.OuterLetters...)
	return letters
}

// IsValid reports whether the puzzle is playable
func (p *Puzzle) IsValid() bool {
	return p != nil &&
		len(p.CenterLetter) == 1 &&
		len(p.OuterLetters) == 6 &&
		len(p.ValidWords) > 0
}
