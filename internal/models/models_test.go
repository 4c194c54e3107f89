package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemberFieldsOmitUnset(t *testing.T) {
	m := Member{ID: "ignored", Name: "Asha", MobileNo: "123"}
	fields := m.Fields()

	assert.Equal(t, map[string]any{"name": "Asha", "mobileNo": "123"}, fields)
	for _, v := range fields {
		assert.NotNil(t, v)
	}
}

func TestEventDocumentRoundTrip(t *testing.T) {
	n := 7
	ev := Event{Title: "Camp", Images: []string{"a", "b"}, Category: CategoryPast, Beneficiaries: &n}

	// Simulate a JSON-backed store.
	raw, err := json.Marshal(ev.Fields())
	assert.NoError(t, err)
	var fields map[string]any
	assert.NoError(t, json.Unmarshal(raw, &fields))

	got := EventFromDocument("e1", fields)
	assert.Equal(t, "e1", got.ID)
	assert.Equal(t, []string{"a", "b"}, got.Images)
	assert.Equal(t, CategoryPast, got.Category)
	if assert.NotNil(t, got.Beneficiaries) {
		assert.Equal(t, 7, *got.Beneficiaries)
	}
}

func TestIntFieldKinds(t *testing.T) {
	for _, v := range []any{int(3), int32(3), int64(3), float64(3), json.Number("3"), "3"} {
		n, ok := intField(map[string]any{"n": v}, "n")
		assert.True(t, ok, "%T", v)
		assert.Equal(t, 3, n)
	}
	_, ok := intField(map[string]any{"n": "three"}, "n")
	assert.False(t, ok)
}

func TestPlaceholders(t *testing.T) {
	p := Placeholders{MemberPhoto: "https://cdn.example.org/m.png"}.WithDefaults()

	assert.Equal(t, DefaultEventImage, p.EventImage)
	assert.True(t, p.IsPlaceholder("https://cdn.example.org/m.png"))
	assert.True(t, p.IsPlaceholder("https://CDN.example.org/other.png"), "same host")
	assert.True(t, p.IsPlaceholder(DefaultCarouselImage))
	assert.False(t, p.IsPlaceholder("https://trust.example.org/media/photos/a.png"))
	assert.False(t, p.IsPlaceholder(""))

	assert.True(t, p.IsExact("https://cdn.example.org/m.png"))
	assert.False(t, p.IsExact("https://cdn.example.org/other.png"))
	assert.False(t, p.IsExact(""))
}

func TestEnums(t *testing.T) {
	assert.True(t, CategoryFuture.Valid())
	assert.False(t, Category("later").Valid())
	assert.True(t, Gender("").Valid())
	assert.False(t, Gender("x").Valid())
}
