package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidation(t *testing.T) {
	valid := Product{
		ID: "chleb", Name: "Chléb", Price: 95,
		Category: CategoryChleby, Allergens: []int{1}, Available: true,
	}

	tests := []struct {
		name    string
		mutate  func(*Product)
		wantErr bool
	}{
		{name: "valid product", mutate: func(p *Product) {}},
		{name: "missing id", mutate: func(p *Product) { p.ID = "" }, wantErr: true},
		{name: "missing name", mutate: func(p *Product) { p.Name = "" }, wantErr: true},
		{name: "zero price", mutate: func(p *Product) { p.Price = 0 }, wantErr: true},
		{name: "negative price", mutate: func(p *Product) { p.Price = -10 }, wantErr: true},
		{name: "unknown category", mutate: func(p *Product) { p.Category = "napoje" }, wantErr: true},
		{name: "allergen out of range", mutate: func(p *Product) { p.Allergens = []int{15} }, wantErr: true},
		{name: "allergen zero", mutate: func(p *Product) { p.Allergens = []int{0} }, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := valid
			tc.mutate(&p)
			_, err := New([]Product{p})
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrBadProduct)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	p := Product{ID: "chleb", Name: "Chléb", Price: 95, Category: CategoryChleby}
	_, err := New([]Product{p, p})
	assert.ErrorIs(t, err, ErrBadProduct)
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.NotEmpty(t, c.All())

	p, ok := c.Get("chleb-kvaskovy")
	require.True(t, ok)
	assert.Equal(t, 95, p.Price)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	data := `[{"id":"bageta","name":"Bageta","price":35,"category":"pecivo","allergens":[1],"available":true},
	          {"id":"kolac","name":"Koláč","price":30,"category":"sladke","allergens":[1,3,7],"available":false}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Len(t, c.All(), 2)
	assert.Len(t, c.Available(), 1)
	assert.Len(t, c.ByCategory(CategoryPecivo), 1)
	assert.Empty(t, c.ByCategory(CategoryChleby))
}

func TestLoadFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not":"a list"}`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDefaultProductsAreValid(t *testing.T) {
	_, err := New(defaultProducts)
	assert.NoError(t, err)
}
