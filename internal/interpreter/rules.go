package interpreter

// Rules holds the keyword sets and thresholds the interpreter applies.
// Keywords are matched case-insensitively as substrings of the report.
type Rules struct {
	DelayKeywords     []string
	ProgressKeywords  []string
	ProgressIncrement int
	// MinWordLength: only task-name words strictly longer than this count
	// towards a partial match.
	MinWordLength  int
	MinWordMatches int
}

const (
	DefaultProgressIncrement = 20
	DefaultMinWordLength     = 3
	DefaultMinWordMatches    = 2
)

func DefaultDelayKeywords() []string {
	return []string{
		"atraso", "atrasado", "atrasada",
		"problema",
		"não conseguimos", "nao conseguimos",
		"adiado", "adiada",
		"parado", "parada",
		"impedimento",
	}
}

func DefaultProgressKeywords() []string {
	return []string{
		"concluído", "concluída", "concluido", "concluida",
		"finalizado", "finalizada",
		"terminado", "terminada",
		"avançando", "avancando",
		"progresso",
		"pronto", "pronta",
	}
}

func DefaultRules() Rules {
	return Rules{
		DelayKeywords:     DefaultDelayKeywords(),
		ProgressKeywords:  DefaultProgressKeywords(),
		ProgressIncrement: DefaultProgressIncrement,
		MinWordLength:     DefaultMinWordLength,
		MinWordMatches:    DefaultMinWordMatches,
	}
}

// withDefaults fills zero-valued fields so a partially configured Rules
// still behaves.
func (r Rules) withDefaults() Rules {
	if len(r.DelayKeywords) == 0 {
		r.DelayKeywords = DefaultDelayKeywords()
	}
	if len(r.ProgressKeywords) == 0 {
		r.ProgressKeywords = DefaultProgressKeywords()
	}
	if r.ProgressIncrement <= 0 {
		r.ProgressIncrement = DefaultProgressIncrement
	}
	if r.MinWordLength <= 0 {
		r.MinWordLength = DefaultMinWordLength
	}
	if r.MinWordMatches <= 0 {
		r.MinWordMatches = DefaultMinWordMatches
	}
	return r
}
