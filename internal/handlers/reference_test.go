package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestReferenceHandler(t *testing.T) {
	h := NewReferenceHandler(testLogger(), language.English)

	w := do(t, h, http.MethodGet, "/v1/reference", nil)
	require.Equal(t, http.StatusOK, w.Code)

	ref := decode[ReferenceResponse](t, w)
	assert.Equal(t, "en", ref.Language)
	require.Len(t, ref.Groups, 3)
	assert.Equal(t, "body", ref.Groups[0].Key)
	assert.Equal(t, "Body", ref.Groups[0].Label)
	assert.Equal(t, Entry{Key: "strength", Label: "Strength"}, ref.Groups[0].Characteristics[0])
	assert.Len(t, ref.Groups[2].Characteristics, 6)
	assert.Equal(t, [2]string{"extrovert", "introvert"}, ref.SpiritPairs[0])
	require.Len(t, ref.Skills, 9)
	assert.Equal(t, "charm", ref.Skills[0].Key)
	assert.Equal(t, "extrovert", ref.Skills[0].Characteristic)
	assert.Len(t, ref.ItemTypes, 4)
	require.Len(t, ref.Outcomes, 6)
	assert.Equal(t, Entry{Key: "critical_failure", Label: "Critical Failure!"}, ref.Outcomes[0])
}

func TestReferenceHandler_French(t *testing.T) {
	h := NewReferenceHandler(testLogger(), language.English)

	w := do(t, h, http.MethodGet, "/v1/reference", nil, "Accept-Language", "fr")
	require.Equal(t, http.StatusOK, w.Code)

	ref := decode[ReferenceResponse](t, w)
	assert.Equal(t, "fr", ref.Language)
	assert.Equal(t, "Corps", ref.Groups[0].Label)
	assert.Equal(t, "Force", ref.Groups[0].Characteristics[0].Label)
	assert.Equal(t, "Charme", ref.Skills[0].Label)
}

func TestReferenceHandler_MethodNotAllowed(t *testing.T) {
	h := NewReferenceHandler(testLogger(), language.English)
	w := do(t, h, http.MethodPost, "/v1/reference", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
