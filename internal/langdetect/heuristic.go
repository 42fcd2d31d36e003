package langdetect

import (
	"context"
	"sort"
	"strings"
	"unicode"
)

type stopwordSet struct {
	code  string
	name  string
	words map[string]struct{}
}

func newStopwordSet(code, name, words string) stopwordSet {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(words) {
		set[w] = struct{}{}
	}
	return stopwordSet{code: code, name: name, words: set}
}

// heuristicLanguages is ordered by tie-break priority.
var heuristicLanguages = []stopwordSet{
	newStopwordSet("en", "English",
		"the and of to is in that it for with as was on are be this by not or from at have an they which you we but his her"),
	newStopwordSet("es", "Spanish",
		"el la los las de del que y en un una es son con por para pero como más muy también este esta estos estas todo todos toda todas si sí no se le lo"),
	newStopwordSet("fr", "French",
		"le la les de du des que et en un une est sont avec pour mais comme plus très aussi ce cette ces tout tous toute toutes si ne se lui"),
	newStopwordSet("de", "German",
		"der die das und oder ist sind mit für aber wie mehr sehr auch diese dieser dieses alle wenn sich ihm ihr"),
	newStopwordSet("it", "Italian",
		"il la lo gli le di del della che e in un una è sono con per ma come più molto anche questo questa questi queste tutto tutti se si"),
	newStopwordSet("pt", "Portuguese",
		"o a os as de do da dos das que e em um uma é são com para mas como mais muito também este esta estes estas todo todos se lhe não"),
}

// Heuristic is an offline detector that counts common function words.
// It only knows English, Spanish, French, German, Italian and Portuguese.
type Heuristic struct{}

// Guess returns the name of the language with the most stopword hits in
// the first 500 characters of text. Zero hits and ties fall back to the
// earliest language in priority order, English first.
func (Heuristic) Guess(text string) string {
	scores := score(text)
	best := 0
	for i, s := range scores {
		if s > scores[best] {
			best = i
		}
	}
	return heuristicLanguages[best].name
}

// Detect implements Detector. Confidence is each language's share of all
// stopword hits.
func (Heuristic) Detect(ctx context.Context, text string) ([]Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	scores := score(text)
	total := 0
	for _, s := range scores {
		total += s
	}
	if total == 0 {
		return []Detection{{Language: "en", Confidence: 0}}, nil
	}

	out := make([]Detection, len(heuristicLanguages))
	for i, lang := range heuristicLanguages {
		out[i] = Detection{
			Language:   lang.code,
			Confidence: float64(scores[i]) / float64(total),
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out, nil
}

func score(text string) []int {
	sample := []rune(strings.ToLower(text))
	if len(sample) > heuristicSampleLength {
		sample = sample[:heuristicSampleLength]
	}
	words := strings.FieldsFunc(string(sample), func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	scores := make([]int, len(heuristicLanguages))
	for _, w := range words {
		for i, lang := range heuristicLanguages {
			if _, ok := lang.words[w]; ok {
				scores[i]++
			}
		}
	}
	return scores
}
