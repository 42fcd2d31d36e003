package langdetect

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeuristic_Guess(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"english", "The quick brown fox jumps over the lazy dog and it is in the garden", "English"},
		{"spanish", "El perro es muy grande y los niños juegan en la casa con sus amigos", "Spanish"},
		{"french", "Le chat est sur la table et les enfants sont dans le jardin avec leurs parents", "French"},
		{"german", "Der Hund und die Katze sind im Garten, aber das Wetter ist sehr schön", "German"},
		{"italian", "Il gatto è sulla tavola e i bambini sono nel giardino con gli amici, questo è molto bello", "Italian"},
		{"portuguese", "O gato está na mesa e as crianças são muito felizes com os amigos, não é verdade", "Portuguese"},
		{"empty", "", "English"},
		{"no stopwords", "xyzzy plugh 12345", "English"},
		{"uppercase", "THE REPORT IS IN THE FOLDER AND IT WAS READ BY THEM", "English"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Heuristic{}.Guess(tt.text))
		})
	}
}

func TestHeuristic_TiesFollowPriorityOrder(t *testing.T) {
	// "de la" scores two for both Spanish and French; Spanish comes first.
	assert.Equal(t, "Spanish", Heuristic{}.Guess("de la"))
}

func TestHeuristic_OnlyFirst500Characters(t *testing.T) {
	text := strings.Repeat("z", heuristicSampleLength) + " der die das und oder ist sind"
	assert.Equal(t, "English", Heuristic{}.Guess(text))
}

func TestHeuristic_Detect(t *testing.T) {
	detections, err := Heuristic{}.Detect(context.Background(),
		"Der Hund und die Katze sind im Garten, aber das Wetter ist sehr schön")
	require.NoError(t, err)
	require.NotEmpty(t, detections)

	assert.Equal(t, "de", detections[0].Language)
	assert.Greater(t, detections[0].Confidence, MinConfidence)
	for i := 1; i < len(detections); i++ {
		assert.GreaterOrEqual(t, detections[i-1].Confidence, detections[i].Confidence)
	}
}

func TestHeuristic_Detect_NoMatches(t *testing.T) {
	detections, err := Heuristic{}.Detect(context.Background(), "12345")
	require.NoError(t, err)
	require.Len(t, detections, 1)
	assert.Equal(t, Detection{Language: "en", Confidence: 0}, detections[0])
}

func TestHeuristic_Detect_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Heuristic{}.Detect(ctx, "the text")
	assert.ErrorIs(t, err, context.Canceled)
}
