package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultKeyMap_Bindings(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("enter", km.Submit))
	assert.True(t, Matches("ctrl+c", km.Quit))
	assert.True(t, Matches("esc", km.Quit))
	assert.True(t, Matches("ctrl+l", km.Clear))
	assert.True(t, Matches("pgup", km.ScrollUp))
	assert.True(t, Matches("pgdown", km.ScrollDown))
	assert.False(t, Matches("q", km.Quit), "q must stay typeable in questions")
}

func TestKeyMap_Help(t *testing.T) {
	km := DefaultKeyMap()

	assert.Len(t, km.ShortHelp(), 3)
	assert.Equal(t, "kirim", km.ShortHelp()[0].Help().Desc)

	full := km.FullHelp()
	assert.Len(t, full, 3)
	total := 0
	for _, group := range full {
		total += len(group)
	}
	assert.Equal(t, 6, total)
}
