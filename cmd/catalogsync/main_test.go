package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectSKUs(t *testing.T) {
	tests := []struct {
		name  string
		flags []string
		arr   string
		args  []string
		want  []string
	}{
		{"empty", nil, "", nil, nil},
		{"flags only", []string{"A", " B "}, "", nil, []string{"A", "B"}},
		{"arr and args", nil, "A B", []string{"C"}, []string{"A", "B", "C"}},
		{"dedupes across sources", []string{"A"}, "A  B", []string{"B", ""}, []string{"A", "B"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, collectSKUs(tt.flags, tt.arr, tt.args))
		})
	}
}

func TestNewApp_Commands(t *testing.T) {
	app := newApp()

	var names []string
	for _, cmd := range app.Commands {
		names = append(names, cmd.Name)
	}
	assert.ElementsMatch(t, []string{
		"import", "import-all", "categories", "product-types", "enqueue", "worker", "serve",
	}, names)
	assert.NotNil(t, app.Command("import"))
	assert.Nil(t, app.Command("order-sync"))
}

func TestDBSystem(t *testing.T) {
	assert.Equal(t, "sqlite", dbSystem("sqlite"))
	assert.Equal(t, "postgresql", dbSystem("postgres"))
}
