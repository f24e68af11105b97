package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumn(t *testing.T) {
	m := Column("one", "two", "")
	assert.True(t, m.ResizeKeyboard)
	assert.Equal(t, [][]string{{"one"}, {"two"}}, Labels(m))
}

func TestReplyButtonsRows(t *testing.T) {
	m := ReplyButtons([]string{"a", "b"}, []string{"c"})
	assert.Equal(t, [][]string{{"a", "b"}, {"c"}}, Labels(m))
	assert.Nil(t, Labels(nil))
}
