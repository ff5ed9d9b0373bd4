package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBar_States(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(120)

	assert.Equal(t, StateReady, bar.State())
	assert.Contains(t, bar.View(), "Siap")

	bar.SetExchanges(2)
	assert.Contains(t, bar.View(), "2 pertanyaan")

	bar.SetState(StateThinking)
	assert.Contains(t, bar.View(), "Mencari jawaban...")

	bar.SetState(StateError)
	bar.SetMessage("quota exceeded")
	assert.Contains(t, bar.View(), "Error: quota exceeded")
	assert.Equal(t, "quota exceeded", bar.Message())

	bar.Clear()
	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Contains(t, bar.View(), "Siap")
}

func TestBar_Help(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(200)

	assert.Contains(t, bar.View(), "enter: kirim")
	assert.NotContains(t, bar.View(), "bersihkan")

	bar.ToggleHelp()
	assert.Contains(t, bar.View(), "ctrl+l: bersihkan")
}
