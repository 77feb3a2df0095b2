package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peoplebot-poc/server/internal/agent/model"
)

func TestParseAnswer_PlainJSON(t *testing.T) {
	content := `{"answer_text":"Merhaba Ayşe!","intent":"selamlama","confidence":0.92,"references":[{"source":"People","person_id":"p1"}]}`

	answer, err := ParseAnswer(content)
	require.NoError(t, err)

	assert.Equal(t, "Merhaba Ayşe!", answer.AnswerText)
	assert.Equal(t, "selamlama", answer.Intent)
	assert.InDelta(t, 0.92, answer.Confidence, 1e-9)
	require.Len(t, answer.References, 1)
	assert.Equal(t, model.Reference{Source: "People", PersonID: "p1"}, answer.References[0])
}

func TestParseAnswer_StripsCodeFence(t *testing.T) {
	content := "```json\n{\"answer_text\":\"Merhaba!\",\"intent\":\"selamlama\",\"confidence\":0.8}\n```"

	answer, err := ParseAnswer(content)
	require.NoError(t, err)
	assert.Equal(t, "Merhaba!", answer.AnswerText)
}

func TestParseAnswer_ExtractsObjectFromProse(t *testing.T) {
	content := `Sure, here is the answer: {"answer_text":"Tamam.","confidence":0.5} hope that helps`

	answer, err := ParseAnswer(content)
	require.NoError(t, err)
	assert.Equal(t, "Tamam.", answer.AnswerText)
}

func TestParseAnswer_DefaultsIntentAndClampsConfidence(t *testing.T) {
	answer, err := ParseAnswer(`{"answer_text":"Tamam.","confidence":1.7}`)
	require.NoError(t, err)

	assert.Equal(t, "genel", answer.Intent)
	assert.Equal(t, 1.0, answer.Confidence)

	answer, err = ParseAnswer(`{"answer_text":"Tamam.","confidence":-0.2}`)
	require.NoError(t, err)
	assert.Equal(t, 0.0, answer.Confidence)
}

func TestParseAnswer_DropsIncompleteReferences(t *testing.T) {
	content := `{"answer_text":"Tamam.","references":[{"source":"People","person_id":""},{"source":"","person_id":"p1"},{"source":"People","person_id":"p2"}]}`

	answer, err := ParseAnswer(content)
	require.NoError(t, err)
	require.Len(t, answer.References, 1)
	assert.Equal(t, "p2", answer.References[0].PersonID)
}

func TestParseAnswer_Errors(t *testing.T) {
	_, err := ParseAnswer("no json here at all")
	assert.Error(t, err)

	_, err = ParseAnswer(`{"answer_text": "unterminated`)
	assert.Error(t, err)

	_, err = ParseAnswer(`{"answer_text":"   "}`)
	assert.Error(t, err)
}
