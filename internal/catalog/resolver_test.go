package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"envase-return-backend/internal/model"
)

func inv(entries ...[2]string) []model.Envase {
	items := make([]model.Envase, 0, len(entries))
	for _, e := range entries {
		items = append(items, model.Envase{
			Codigo:  e[0],
			Nombre:  "Envase " + e[0],
			Almacen: e[1],
			Familia: "GENERAL",
		})
	}
	return items
}

func codes(items []model.Envase) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Codigo)
	}
	return out
}

func TestResolveWarehouse(t *testing.T) {
	inventory := inv(
		[2]string{"E1", "NORTE"},
		[2]string{"E2", "GENERAL"},
		[2]string{"E3", "SUR"},
		[2]string{"E4", ""},
		[2]string{"E5", "norte"},
	)

	testCases := []struct {
		name     string
		socio    *model.Socio
		expected []string
	}{
		{
			name:     "Zone match plus general, matches first",
			socio:    &model.Socio{Codigo: "A1", Poblacion: "NORTE"},
			expected: []string{"E1", "E5", "E2", "E4"},
		},
		{
			name:     "Zone label comparison is case and space insensitive",
			socio:    &model.Socio{Codigo: "A1", Poblacion: "  norte "},
			expected: []string{"E1", "E5", "E2", "E4"},
		},
		{
			name:     "Unknown zone sees only general stock",
			socio:    &model.Socio{Codigo: "A2", Poblacion: "ESTE"},
			expected: []string{"E2", "E4"},
		},
		{
			name:     "Blank zone folds into general",
			socio:    &model.Socio{Codigo: "A3"},
			expected: []string{"E2", "E4"},
		},
		{
			name:     "Nil socio behaves like blank zone",
			socio:    nil,
			expected: []string{"E2", "E4"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveWarehouse(inventory, tc.socio)
			assert.Equal(t, tc.expected, codes(got))
		})
	}
}

func TestResolveWarehouseFallsBackToFullInventory(t *testing.T) {
	// No general stock at all: a socio from an unlisted zone gets the
	// whole inventory rather than an empty catalog.
	inventory := inv(
		[2]string{"E1", "NORTE"},
		[2]string{"E2", "SUR"},
	)

	got := ResolveWarehouse(inventory, &model.Socio{Codigo: "A9", Poblacion: "OESTE"})
	assert.Equal(t, []string{"E1", "E2"}, codes(got))
}

func TestResolveWarehouseEmptyInventory(t *testing.T) {
	got := ResolveWarehouse(nil, &model.Socio{Codigo: "A1", Poblacion: "NORTE"})
	assert.Empty(t, got)
}

func TestFamilies(t *testing.T) {
	items := []model.Envase{
		{Codigo: "E1", Familia: "garrafas"},
		{Codigo: "E2", Familia: "Cajas"},
		{Codigo: "E3", Familia: ""},
		{Codigo: "E4", Familia: "GARRAFAS"},
		{Codigo: "E5", Familia: " cajas "},
	}

	assert.Equal(t, []string{"CAJAS", "GARRAFAS", "GENERAL"}, Families(items))
	assert.Nil(t, Families(nil))
}

func TestItemsForFamily(t *testing.T) {
	items := []model.Envase{
		{Codigo: "E1", Familia: "Garrafas"},
		{Codigo: "E2", Familia: ""},
		{Codigo: "E3", Familia: "GARRAFAS"},
	}

	assert.Equal(t, []string{"E1", "E3"}, codes(ItemsForFamily(items, "garrafas")))
	assert.Equal(t, []string{"E2"}, codes(ItemsForFamily(items, "GENERAL")))
	assert.Empty(t, ItemsForFamily(items, "CAJAS"))
}

func TestThumbnailURL(t *testing.T) {
	testCases := []struct {
		name     string
		ref      string
		expected string
	}{
		{
			name:     "Bare drive identifier",
			ref:      "1AbCdEfGhIjKlMnOpQrStUvWxYz012345",
			expected: "https://drive.google.com/thumbnail?id=1AbCdEfGhIjKlMnOpQrStUvWxYz012345&sz=w1000",
		},
		{
			name:     "Share link with /d/ segment",
			ref:      "https://drive.google.com/file/d/1AbCdEfG/view?usp=sharing",
			expected: "https://drive.google.com/thumbnail?id=1AbCdEfG&sz=w1000",
		},
		{
			name:     "Open link with id parameter",
			ref:      "https://drive.google.com/open?id=1XyZ",
			expected: "https://drive.google.com/thumbnail?id=1XyZ&sz=w1000",
		},
		{
			name:     "Plain external URL passes through",
			ref:      "https://example.com/photo.jpg",
			expected: "https://example.com/photo.jpg",
		},
		{
			name:     "Blank reference",
			ref:      "   ",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ThumbnailURL(tc.ref))
		})
	}
}

func TestFallbackURL(t *testing.T) {
	alt, ok := FallbackURL("https://drive.google.com/thumbnail?id=1XyZ&sz=w1000")
	assert.True(t, ok)
	assert.Equal(t, "https://drive.google.com/uc?export=view&id=1XyZ", alt)

	// Only one fallback exists; the uc form has nowhere further to go.
	_, ok = FallbackURL(alt)
	assert.False(t, ok)

	_, ok = FallbackURL("https://example.com/photo.jpg")
	assert.False(t, ok)
}
