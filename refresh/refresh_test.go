package refresh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHookFunc(t *testing.T) {
	var gotPath string
	var gotGen int
	var h Hook = HookFunc(func(p string, g int) { gotPath, gotGen = p, g })

	h.OnRefresh("/about", 3)
	assert.Equal(t, "/about", gotPath)
	assert.Equal(t, 3, gotGen)

	Nop{}.OnRefresh("/x", 1)
}
