package dialect

// CPPThreshold is the minimum C++ score needed to treat an ambiguous file as C++.
const CPPThreshold = 4

// Classification is the result of scoring evidence for a file.
type Classification struct {
	Kind            Kind
	Score           int
	TotalScore      int
	Confidence      float64
	RunnerUp        Kind
	RunnerUpScore   int
	ObservedSignals int
	// Reason of the strongest hint for the winning dialect.
	Reason string
}

// Classifier scores evidence and chooses a dominant dialect.
type Classifier struct{}

func (Classifier) Classify(e *Evidence) Classification {
	if e == nil || len(e.hints) == 0 {
		return Classification{Kind: Unknown}
	}

	var (
		scores [kindCount]int
		best   [kindCount]Hint
	)
	total := 0
	observed := 0
	for _, h := range e.hints {
		observed++
		if h.Score <= 0 || (h.Dialect != C && h.Dialect != CPP) {
			continue
		}
		scores[h.Dialect] += h.Score
		total += h.Score
		if h.Score > best[h.Dialect].Score {
			best[h.Dialect] = h
		}
	}

	bestKind, runnerKind := C, CPP
	if scores[CPP] > scores[C] {
		bestKind, runnerKind = CPP, C
	}
	if scores[bestKind] == 0 {
		return Classification{Kind: Unknown, ObservedSignals: observed}
	}

	return Classification{
		Kind:            bestKind,
		Score:           scores[bestKind],
		TotalScore:      total,
		Confidence:      float64(scores[bestKind]) / float64(total),
		RunnerUp:        runnerKind,
		RunnerUpScore:   scores[runnerKind],
		ObservedSignals: observed,
		Reason:          best[bestKind].Reason,
	}
}

// Decide turns a classification into C or CPP. Ambiguous files are C unless
// the C++ score reaches CPPThreshold.
func Decide(c Classification) Kind {
	cpp := 0
	if c.Kind == CPP {
		cpp = c.Score
	} else if c.RunnerUp == CPP {
		cpp = c.RunnerUpScore
	}
	if cpp >= CPPThreshold {
		return CPP
	}
	return C
}
